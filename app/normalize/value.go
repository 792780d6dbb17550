package normalize

import (
	"github.com/oreilm49/specs/models"
)

// ProcessedValue is the outcome of normalizing one raw scraped value.
// Exactly one of PlainValue, UnitValue or RangeUnitValue is produced;
// callers switch exhaustively on the concrete type.
type ProcessedValue interface {
	processedValue()
}

// PlainValue is an untyped passthrough: either the original string, or a
// bare number that carried no unit token.
type PlainValue struct {
	Value any
}

// UnitValue is a typed magnitude resolved against a canonical unit.
type UnitValue struct {
	Unit  *models.Unit
	Value any
}

// RangeUnitValue is a low-high interval sharing one unit. Unit is nil when
// both sides were bare numbers.
type RangeUnitValue struct {
	Unit      *models.Unit
	ValueLow  float64
	ValueHigh float64
}

func (PlainValue) processedValue()     {}
func (UnitValue) processedValue()      {}
func (RangeUnitValue) processedValue() {}
