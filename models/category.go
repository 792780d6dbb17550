package models

import (
	"github.com/lib/pq"
)

// Category represents a product category.
// The same attribute name may exist per-category with a different unit,
// so attribute types are scoped to a category.
type Category struct {
	BaseModel
	Name           string `gorm:"uniqueIndex;not null"`
	ParentID       *uint
	Parent         *Category      `gorm:"foreignKey:ParentID"`
	AlternateNames pq.StringArray `gorm:"type:text[]"`
}

func (c *Category) TableName() string {
	return "categories"
}
