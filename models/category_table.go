package models

import (
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// CategoryTable is a saved pivot configuration: two attribute axes with
// literal bucket values, plus the filters that select the product set.
// Deleting a table flips Publish to false; rows are never hard-deleted.
type CategoryTable struct {
	BaseModel
	Name             string                      `gorm:"not null"`
	XAxisAttributeID *uint
	XAxisAttribute   *AttributeType              `gorm:"foreignKey:XAxisAttributeID"`
	XAxisValues      datatypes.JSONSlice[string]
	YAxisAttributeID *uint
	YAxisAttribute   *AttributeType              `gorm:"foreignKey:YAxisAttributeID"`
	YAxisValues      datatypes.JSONSlice[string]
	CategoryID       *uint
	Category         *Category                   `gorm:"foreignKey:CategoryID"`
	Query            string
	PriceLow         *float64
	PriceHigh        *float64
	Brands           pq.StringArray              `gorm:"type:text[]"`
	Websites         []*Website                  `gorm:"many2many:category_table_websites"`
	Products         []*Product                  `gorm:"many2many:category_table_products"`
}

func (c *CategoryTable) TableName() string {
	return "category_tables"
}
