package models

import (
	"github.com/lib/pq"
)

// Product is a canonical product record keyed by a unique model identifier.
// Alternate model strings are absorbed from merged duplicates so lookups by
// any known spelling converge on the same row.
type Product struct {
	BaseModel
	Model           string         `gorm:"uniqueIndex;not null"`
	AlternateModels pq.StringArray `gorm:"type:text[]"`
	CategoryID      *uint
	Category        *Category `gorm:"foreignKey:CategoryID"`
}

func (p *Product) TableName() string {
	return "products"
}
