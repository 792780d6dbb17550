package models

import (
	"github.com/lib/pq"
)

// AttributeType is a named attribute concept, e.g. "load size".
// The (name, unit) pair is unique; alternate names are aliases that resolve
// to the same type. A nil unit means the attribute holds plain strings, or
// that no value has been normalized against it yet.
type AttributeType struct {
	BaseModel
	Name           string         `gorm:"not null;uniqueIndex:idx_attribute_types_name_unit"`
	AlternateNames pq.StringArray `gorm:"type:text[]"`
	UnitID         *uint          `gorm:"uniqueIndex:idx_attribute_types_name_unit"`
	Unit           *Unit          `gorm:"foreignKey:UnitID"`
	CategoryID     *uint
	Category       *Category `gorm:"foreignKey:CategoryID"`
}

func (a *AttributeType) TableName() string {
	return "attribute_types"
}

func (a *AttributeType) String() string {
	return a.Name
}
