package staff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/Alijeyrad/gymdesk_backend/internal/schema"
	"github.com/Alijeyrad/gymdesk_backend/pkg/util/phone"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	Name       string  `json:"name" validate:"required,max=150"`
	Position   string  `json:"position" validate:"required,max=80"`
	Phone      *string `json:"phone,omitempty"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	IsTopSales bool    `json:"isTopSales"`
}

type UpdateRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,max=150"`
	Position   *string `json:"position,omitempty" validate:"omitempty,max=80"`
	Phone      *string `json:"phone,omitempty"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	IsTopSales *bool   `json:"isTopSales,omitempty"`
	IsActive   *bool   `json:"isActive,omitempty"`
}

type ListRequest struct {
	Active   *bool
	Position string
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*schema.Staff, error)
	Get(ctx context.Context, id uint) (*schema.Staff, error)
	List(ctx context.Context, req ListRequest) ([]schema.Staff, error)
	Update(ctx context.Context, id uint, req UpdateRequest) (*schema.Staff, error)
	// Deactivate is the only way staff leave; rows are referenced by commissions.
	Deactivate(ctx context.Context, id uint) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

// ReportInvalidator drops cached commission reports that show staff fields.
type ReportInvalidator interface {
	InvalidateReports(ctx context.Context)
}

type staffService struct {
	db          *gorm.DB
	phoneRegion string
	reports     ReportInvalidator
}

// New builds the staff service. reports may be nil when nothing caches staff data.
func New(db *gorm.DB, phoneRegion string, reports ReportInvalidator) Service {
	return &staffService{db: db, phoneRegion: phoneRegion, reports: reports}
}

func (s *staffService) Create(ctx context.Context, req CreateRequest) (*schema.Staff, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	ph, err := phone.NormalizeOptional(req.Phone, s.phoneRegion)
	if err != nil {
		return nil, ErrInvalidPhone
	}

	st := &schema.Staff{
		Name:       name,
		Position:   strings.TrimSpace(req.Position),
		Phone:      ph,
		Email:      trimmed(req.Email),
		IsActive:   true,
		IsTopSales: req.IsTopSales,
	}
	if err := s.db.WithContext(ctx).Create(st).Error; err != nil {
		return nil, fmt.Errorf("create staff: %w", err)
	}

	slog.InfoContext(ctx, "staff created", "staff_id", st.ID, "position", st.Position)
	return st, nil
}

func (s *staffService) Get(ctx context.Context, id uint) (*schema.Staff, error) {
	var st schema.Staff
	err := s.db.WithContext(ctx).First(&st, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get staff: %w", err)
	}
	return &st, nil
}

func (s *staffService) List(ctx context.Context, req ListRequest) ([]schema.Staff, error) {
	q := s.db.WithContext(ctx).Model(&schema.Staff{})
	if req.Active != nil {
		q = q.Where("is_active = ?", *req.Active)
	}
	if req.Position != "" {
		q = q.Where("position = ?", req.Position)
	}

	out := []schema.Staff{}
	if err := q.Order("name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return out, nil
}

func (s *staffService) Update(ctx context.Context, id uint, req UpdateRequest) (*schema.Staff, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		updates["name"] = name
	}
	if req.Position != nil {
		updates["position"] = strings.TrimSpace(*req.Position)
	}
	if req.Phone != nil {
		ph, err := phone.NormalizeOptional(req.Phone, s.phoneRegion)
		if err != nil {
			return nil, ErrInvalidPhone
		}
		updates["phone"] = ph
	}
	if req.Email != nil {
		updates["email"] = trimmed(req.Email)
	}
	if req.IsTopSales != nil {
		updates["is_top_sales"] = *req.IsTopSales
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return st, nil
	}

	if err := s.db.WithContext(ctx).Model(st).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update staff: %w", err)
	}
	s.invalidateReports(ctx)
	return s.Get(ctx, id)
}

func (s *staffService) Deactivate(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&schema.Staff{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("deactivate staff: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStaffNotFound
	}
	s.invalidateReports(ctx)
	slog.InfoContext(ctx, "staff deactivated", "staff_id", id)
	return nil
}

func (s *staffService) invalidateReports(ctx context.Context) {
	if s.reports != nil {
		s.reports.InvalidateReports(ctx)
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
