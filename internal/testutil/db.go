// Package testutil holds helpers shared by package tests.
package testutil

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Alijeyrad/gymdesk_backend/internal/schema"
)

// NewDB returns a migrated in-memory SQLite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// Every connection to ":memory:" is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(schema.Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateStaff inserts an active staff member. Deactivation has to be a
// separate update because gorm skips zero values that have a column default.
func CreateStaff(t testing.TB, db *gorm.DB, name, position string, topSales bool) schema.Staff {
	t.Helper()
	s := schema.Staff{Name: name, Position: position, IsActive: true, IsTopSales: topSales}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("create staff: %v", err)
	}
	return s
}

func DeactivateStaff(t testing.TB, db *gorm.DB, id uint) {
	t.Helper()
	if err := db.Model(&schema.Staff{}).Where("id = ?", id).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate staff: %v", err)
	}
}

// ReceiptOpts fills the fields tests usually care about.
type ReceiptOpts struct {
	Type        string
	StaffName   string
	Amount      int64
	RenewalType string
	ItemDetails string
	CreatedAt   time.Time
	MemberID    *uint
}

var receiptSeq atomic.Int64

func CreateReceipt(t testing.TB, db *gorm.DB, o ReceiptOpts) schema.Receipt {
	t.Helper()
	r := schema.Receipt{
		ReceiptNumber: receiptSeq.Add(1),
		Type:          o.Type,
		Amount:        decimal.NewFromInt(o.Amount),
		PaymentMethod: "cash",
		StaffName:     o.StaffName,
		ItemDetails:   o.ItemDetails,
		MemberID:      o.MemberID,
	}
	if o.RenewalType != "" {
		rt := o.RenewalType
		r.RenewalType = &rt
	}
	if !o.CreatedAt.IsZero() {
		r.CreatedAt = o.CreatedAt
		r.UpdatedAt = o.CreatedAt
	}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("create receipt: %v", err)
	}
	return r
}
