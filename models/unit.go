package models

import (
	"github.com/lib/pq"
)

// Widget identifies how values measured in a unit are serialized.
type Widget string

const (
	WidgetText     Widget = "text"
	WidgetInteger  Widget = "integer"
	WidgetDecimal  Widget = "decimal"
	WidgetBoolean  Widget = "boolean"
	WidgetDateTime Widget = "datetime"
)

// Repeat is the tracking frequency for time-series attributes.
type Repeat string

const (
	RepeatOnce    Repeat = "once"
	RepeatHourly  Repeat = "hourly"
	RepeatDaily   Repeat = "daily"
	RepeatWeekly  Repeat = "weekly"
	RepeatMonthly Repeat = "monthly"
)

// Unit is a canonical measurement unit. Rows are created lazily the first
// time a canonical name is parsed out of scraped text and are never deleted
// by normal flows.
type Unit struct {
	BaseModel
	Name           string         `gorm:"uniqueIndex;not null"`
	AlternateNames pq.StringArray `gorm:"type:text[]"`
	Widget         Widget         `gorm:"not null"`
	Repeat         Repeat         `gorm:"not null;default:once"`
}

func (u *Unit) TableName() string {
	return "units"
}

func (u *Unit) String() string {
	return u.Name
}
