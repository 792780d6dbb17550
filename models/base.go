package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel carries the fields shared by every catalog entity.
// UID is an autogenerated stable identifier; Publish acts as a soft-delete
// flag (rows are unpublished, never removed, by normal flows).
type BaseModel struct {
	ID        uint      `gorm:"primaryKey"`
	UID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Order     int       `gorm:"not null;default:1"`
	Publish   bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.UID == uuid.Nil {
		b.UID = uuid.New()
	}
	return nil
}

// Published scopes a query to rows that have not been soft-deleted.
func Published(db *gorm.DB) *gorm.DB {
	return db.Where("publish = ?", true)
}
