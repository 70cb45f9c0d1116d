package commission

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Alijeyrad/gymdesk_backend/internal/schema"
)

type StaffInfo struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Position   string `json:"position"`
	IsTopSales bool   `json:"isTopSales"`
}

// StaffResolver maps the free-text staff name on a receipt to a staff record.
// Names are not unique, so resolution is best effort: an exact match wins,
// then the first active staff member (by id) whose name contains the input.
type StaffResolver struct {
	db            *gorm.DB
	salesPosition string
}

func NewStaffResolver(db *gorm.DB, salesPosition string) *StaffResolver {
	return &StaffResolver{db: db, salesPosition: salesPosition}
}

// StaffIDFromReceipt reports false when no active staff member matches.
func (r *StaffResolver) StaffIDFromReceipt(ctx context.Context, rc *schema.Receipt) (uint, bool, error) {
	name := strings.TrimSpace(rc.StaffName)
	if name == "" {
		return 0, false, nil
	}

	var exact schema.Staff
	err := r.db.WithContext(ctx).
		Where("name = ? AND is_active = ?", name, true).
		Order("id").
		First(&exact).Error
	if err == nil {
		return exact.ID, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, fmt.Errorf("exact staff lookup: %w", err)
	}

	// Substring match is done here rather than with LIKE so that % and _ in
	// names are taken literally.
	var active []schema.Staff
	if err := r.db.WithContext(ctx).
		Select("id", "name").
		Where("is_active = ?", true).
		Order("id").
		Find(&active).Error; err != nil {
		return 0, false, fmt.Errorf("list active staff: %w", err)
	}
	for _, s := range active {
		if strings.Contains(s.Name, name) {
			return s.ID, true, nil
		}
	}
	return 0, false, nil
}

// StaffInfo returns ErrStaffNotFound for missing or inactive staff.
func (r *StaffResolver) StaffInfo(ctx context.Context, id uint) (*StaffInfo, error) {
	var s schema.Staff
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get staff %d: %w", id, err)
	}
	return &StaffInfo{ID: s.ID, Name: s.Name, Position: s.Position, IsTopSales: s.IsTopSales}, nil
}

// IsSalesStaff is true only for active staff holding the sales position.
func (r *StaffResolver) IsSalesStaff(ctx context.Context, id uint) (bool, error) {
	info, err := r.StaffInfo(ctx, id)
	if errors.Is(err, ErrStaffNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return r.isSalesPosition(info.Position), nil
}

func (r *StaffResolver) isSalesPosition(position string) bool {
	return strings.TrimSpace(position) == r.salesPosition
}
