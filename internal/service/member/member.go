package member

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Alijeyrad/gymdesk_backend/internal/schema"
	"github.com/Alijeyrad/gymdesk_backend/internal/service"
	"github.com/Alijeyrad/gymdesk_backend/pkg/util/phone"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	Name                  string     `json:"name" validate:"required,max=150"`
	Phone                 string     `json:"phone" validate:"required"`
	SubscriptionStart     *time.Time `json:"subscriptionStart,omitempty"`
	SubscriptionEnd       *time.Time `json:"subscriptionEnd,omitempty"`
	FreePTSessions        int        `json:"freePtSessions" validate:"gte=0"`
	FreeNutritionSessions int        `json:"freeNutritionSessions" validate:"gte=0"`
	FreeInvitations       int        `json:"freeInvitations" validate:"gte=0"`
	AssignedCoachID       *uint      `json:"assignedCoachId,omitempty"`
	ReferringCoachID      *uint      `json:"referringCoachId,omitempty"`
	Notes                 string     `json:"notes,omitempty" validate:"max=1000"`
}

type UpdateRequest struct {
	Name                  *string    `json:"name,omitempty" validate:"omitempty,max=150"`
	Phone                 *string    `json:"phone,omitempty"`
	SubscriptionStart     *time.Time `json:"subscriptionStart,omitempty"`
	SubscriptionEnd       *time.Time `json:"subscriptionEnd,omitempty"`
	FreePTSessions        *int       `json:"freePtSessions,omitempty"`
	FreeNutritionSessions *int       `json:"freeNutritionSessions,omitempty"`
	FreeInvitations       *int       `json:"freeInvitations,omitempty"`
	LoyaltyPoints         *int       `json:"loyaltyPoints,omitempty"`
	AssignedCoachID       *uint      `json:"assignedCoachId,omitempty"`
	ReferringCoachID      *uint      `json:"referringCoachId,omitempty"`
	IsActive              *bool      `json:"isActive,omitempty"`
	Notes                 *string    `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type ListRequest struct {
	Search  string // name or phone fragment
	Active  *bool
	Page    int
	PerPage int
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*schema.Member, error)
	Get(ctx context.Context, id uint) (*schema.Member, error)
	List(ctx context.Context, req ListRequest) (*service.PaginatedResult[schema.Member], error)
	Update(ctx context.Context, id uint, req UpdateRequest) (*schema.Member, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type memberService struct {
	db          *gorm.DB
	phoneRegion string
}

func New(db *gorm.DB, phoneRegion string) Service {
	return &memberService{db: db, phoneRegion: phoneRegion}
}

func (s *memberService) Create(ctx context.Context, req CreateRequest) (*schema.Member, error) {
	ph, err := phone.Normalize(req.Phone, s.phoneRegion)
	if err != nil {
		return nil, ErrInvalidPhone
	}
	if err := checkDates(req.SubscriptionStart, req.SubscriptionEnd); err != nil {
		return nil, err
	}
	if req.FreePTSessions < 0 || req.FreeNutritionSessions < 0 || req.FreeInvitations < 0 {
		return nil, ErrNegativeCounter
	}
	if err := s.checkCoaches(ctx, req.AssignedCoachID, req.ReferringCoachID); err != nil {
		return nil, err
	}

	m := &schema.Member{
		Name:                  strings.TrimSpace(req.Name),
		Phone:                 ph,
		SubscriptionStart:     req.SubscriptionStart,
		SubscriptionEnd:       req.SubscriptionEnd,
		FreePTSessions:        req.FreePTSessions,
		FreeNutritionSessions: req.FreeNutritionSessions,
		FreeInvitations:       req.FreeInvitations,
		AssignedCoachID:       req.AssignedCoachID,
		ReferringCoachID:      req.ReferringCoachID,
		IsActive:              true,
		Notes:                 strings.TrimSpace(req.Notes),
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPhoneAlreadyExists
		}
		return nil, fmt.Errorf("create member: %w", err)
	}
	return m, nil
}

func (s *memberService) Get(ctx context.Context, id uint) (*schema.Member, error) {
	var m schema.Member
	err := s.db.WithContext(ctx).
		Preload("AssignedCoach").
		Preload("ReferringCoach").
		First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return &m, nil
}

func (s *memberService) List(ctx context.Context, req ListRequest) (*service.PaginatedResult[schema.Member], error) {
	page, perPage, offset := service.Page(req.Page, req.PerPage)

	q := s.db.WithContext(ctx).Model(&schema.Member{})
	if req.Active != nil {
		q = q.Where("is_active = ?", *req.Active)
	}
	if term := strings.TrimSpace(req.Search); term != "" {
		like := "%" + escapeLike(strings.ToLower(term)) + "%"
		phoneLike := like
		// Local numbers are stored in E.164, so strip the trunk zero.
		if ph, err := phone.Normalize(term, s.phoneRegion); err == nil {
			phoneLike = "%" + escapeLike(ph) + "%"
		}
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\' OR phone LIKE ? ESCAPE '\'`, like, phoneLike)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}

	var rows []schema.Member
	if err := q.Order("id DESC").Offset(offset).Limit(perPage).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return service.NewPaginatedResult(rows, total, page, perPage), nil
}

func (s *memberService) Update(ctx context.Context, id uint, req UpdateRequest) (*schema.Member, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		ph, err := phone.Normalize(*req.Phone, s.phoneRegion)
		if err != nil {
			return nil, ErrInvalidPhone
		}
		updates["phone"] = ph
	}

	start, end := m.SubscriptionStart, m.SubscriptionEnd
	if req.SubscriptionStart != nil {
		start = req.SubscriptionStart
		updates["subscription_start"] = *req.SubscriptionStart
	}
	if req.SubscriptionEnd != nil {
		end = req.SubscriptionEnd
		updates["subscription_end"] = *req.SubscriptionEnd
	}
	if err := checkDates(start, end); err != nil {
		return nil, err
	}

	for col, v := range map[string]*int{
		"free_pt_sessions":        req.FreePTSessions,
		"free_nutrition_sessions": req.FreeNutritionSessions,
		"free_invitations":        req.FreeInvitations,
		"loyalty_points":          req.LoyaltyPoints,
	} {
		if v == nil {
			continue
		}
		if *v < 0 {
			return nil, ErrNegativeCounter
		}
		updates[col] = *v
	}

	if err := s.checkCoaches(ctx, req.AssignedCoachID, req.ReferringCoachID); err != nil {
		return nil, err
	}
	if req.AssignedCoachID != nil {
		updates["assigned_coach_id"] = *req.AssignedCoachID
	}
	if req.ReferringCoachID != nil {
		updates["referring_coach_id"] = *req.ReferringCoachID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Notes != nil {
		updates["notes"] = strings.TrimSpace(*req.Notes)
	}
	if len(updates) == 0 {
		return m, nil
	}

	if err := s.db.WithContext(ctx).Model(&schema.Member{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPhoneAlreadyExists
		}
		return nil, fmt.Errorf("update member: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *memberService) checkCoaches(ctx context.Context, ids ...*uint) error {
	for _, id := range ids {
		if id == nil {
			continue
		}
		var n int64
		if err := s.db.WithContext(ctx).Model(&schema.Staff{}).Where("id = ?", *id).Count(&n).Error; err != nil {
			return fmt.Errorf("check coach: %w", err)
		}
		if n == 0 {
			return ErrCoachNotFound
		}
	}
	return nil
}

func checkDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return ErrInvalidDates
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
