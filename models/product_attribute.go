package models

import (
	"fmt"

	"gorm.io/datatypes"
)

// DataKey is the key the typed value lives under in the attribute payload.
const DataKey = "value"

// AttributeData builds the JSON payload stored against an attribute row.
func AttributeData(value any) datatypes.JSONMap {
	return datatypes.JSONMap{DataKey: value}
}

// ProductAttribute holds one normalized value per (product, attribute type).
// Normalization upserts into this table, never duplicates.
type ProductAttribute struct {
	BaseModel
	ProductID       uint `gorm:"not null;uniqueIndex:idx_product_attributes_product_type"`
	Product         *Product
	AttributeTypeID uint `gorm:"not null;uniqueIndex:idx_product_attributes_product_type"`
	AttributeType   *AttributeType
	Data            datatypes.JSONMap `gorm:"type:jsonb"`
}

func (p *ProductAttribute) TableName() string {
	return "product_attributes"
}

// Value returns the typed payload value.
func (p *ProductAttribute) Value() any {
	if p.Data == nil {
		return nil
	}
	return p.Data[DataKey]
}

// WebsiteProductAttribute is a per-website observation of an attribute.
// Unlike ProductAttribute it may repeat over time, which is how price
// history is tracked.
type WebsiteProductAttribute struct {
	BaseModel
	WebsiteID       uint `gorm:"not null;index"`
	Website         *Website
	ProductID       uint `gorm:"not null;index"`
	Product         *Product
	AttributeTypeID uint `gorm:"not null;index"`
	AttributeType   *AttributeType
	Data            datatypes.JSONMap `gorm:"type:jsonb"`
}

func (w *WebsiteProductAttribute) TableName() string {
	return "website_product_attributes"
}

// Value returns the typed payload value.
func (w *WebsiteProductAttribute) Value() any {
	if w.Data == nil {
		return nil
	}
	return w.Data[DataKey]
}

func (w *WebsiteProductAttribute) String() string {
	return fmt.Sprintf("%d > %d > %d", w.WebsiteID, w.ProductID, w.AttributeTypeID)
}
