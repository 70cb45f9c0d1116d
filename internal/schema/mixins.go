package schema

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Timestamps is embedded by every mutable table.
type Timestamps struct {
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// UUIDV7 gives a table a time-ordered uuid primary key.
type UUIDV7 struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
}

func (m *UUIDV7) BeforeCreate(tx *gorm.DB) error {
	if m.ID != uuid.Nil {
		return nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	m.ID = id
	return nil
}

// Models lists every table owned by this service, in dependency order.
func Models() []any {
	return []any{
		&User{},
		&Staff{},
		&Member{},
		&Receipt{},
		&ReceiptCounter{},
		&CoachCommission{},
	}
}
