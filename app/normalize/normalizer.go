package normalize

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/oreilm49/specs/app/measure"
	"github.com/oreilm49/specs/models"
)

// BooleanUnitName is the canonical unit positive boolean values resolve to.
const BooleanUnitName = "boolean"

// ErrUnhandledValueSyntax is raised for a value that is neither a single
// quantity, nor a two-part range, nor malformed input. It signals a gap in
// the normalization rules and is never silently dropped.
var ErrUnhandledValueSyntax = errors.New("unhandled value syntax")

// fallbackPatterns are scanned against irregular strings whose unit token
// was not recognized, e.g. "5 year full warranty including parts".
var fallbackPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+\s*years?`),
	regexp.MustCompile(`\d+\s*programmes?`),
}

// Normalizer converts raw scraped text fragments into typed, unit-tagged
// values stored against the canonical attribute taxonomy.
type Normalizer struct {
	registry *measure.Registry
	store    Store
}

func New(registry *measure.Registry, store Store) *Normalizer {
	return &Normalizer{registry: registry, store: store}
}

// GetProcessedUnitAndValue classifies and resolves a raw value into one of
// PlainValue, UnitValue or RangeUnitValue.
func (n *Normalizer) GetProcessedUnitAndValue(value string, unit *models.Unit) (ProcessedValue, error) {
	return n.processValue(n.store, value, unit)
}

// GetOrCreateUnit parses a unit-bearing string into a magnitude and a
// canonical unit row, lazily creating the row on first encounter.
func (n *Normalizer) GetOrCreateUnit(value string, unit *models.Unit) (ProcessedValue, error) {
	return n.getOrCreateUnit(n.store, value, unit)
}

func (n *Normalizer) processValue(store Store, value string, unit *models.Unit) (ProcessedValue, error) {
	if !measure.ContainsNumber(value) {
		if measure.IsBoolValue(value) {
			boolUnit, err := store.GetOrCreateUnit(BooleanUnitName, models.WidgetBoolean)
			if err != nil {
				return nil, err
			}
			return UnitValue{Unit: boolUnit, Value: true}, nil
		}
		return PlainValue{Value: value}, nil
	}

	processed, err := n.getOrCreateUnit(store, value, unit)
	if err == nil {
		return processed, nil
	}

	var undefined *measure.UndefinedUnitError
	var syntax *measure.QuantitySyntaxError
	switch {
	case errors.Is(err, measure.ErrMalformedInput):
		return PlainValue{Value: value}, nil
	case errors.As(err, &undefined):
		for _, pattern := range fallbackPatterns {
			match := pattern.FindString(value)
			if match == "" {
				continue
			}
			if processed, err := n.getOrCreateUnit(store, match, unit); err == nil {
				return processed, nil
			}
		}
		return PlainValue{Value: value}, nil
	case errors.As(err, &syntax):
		if !measure.IsRangeValue(value) {
			return nil, fmt.Errorf("%w: %q", ErrUnhandledValueSyntax, value)
		}
		return n.processRange(store, value, unit)
	default:
		return nil, err
	}
}

// processRange resolves each side of a "low-high" value independently.
// The range's unit comes from whichever side carries one, preferring the
// high side; sides that fail to resolve degrade the whole value to plain
// text.
func (n *Normalizer) processRange(store Store, value string, unit *models.Unit) (ProcessedValue, error) {
	lowRaw, highRaw, _ := measure.SplitRange(value)
	low, err := n.getOrCreateUnit(store, lowRaw, unit)
	if err != nil {
		return n.rangeFallback(value, err)
	}
	high, err := n.getOrCreateUnit(store, highRaw, unit)
	if err != nil {
		return n.rangeFallback(value, err)
	}

	rangeUnit := unitOf(high)
	if rangeUnit == nil {
		rangeUnit = unitOf(low)
	}
	lowMagnitude, ok := magnitudeOf(low)
	if !ok {
		return PlainValue{Value: value}, nil
	}
	highMagnitude, ok := magnitudeOf(high)
	if !ok {
		return PlainValue{Value: value}, nil
	}
	return RangeUnitValue{Unit: rangeUnit, ValueLow: lowMagnitude, ValueHigh: highMagnitude}, nil
}

// rangeFallback degrades unresolvable range sides to plain text but keeps
// conversion failures fatal.
func (n *Normalizer) rangeFallback(value string, err error) (ProcessedValue, error) {
	var conversion *measure.ConversionError
	if errors.As(err, &conversion) {
		return nil, err
	}
	return PlainValue{Value: value}, nil
}

func (n *Normalizer) getOrCreateUnit(store Store, value string, unit *models.Unit) (ProcessedValue, error) {
	quantity, err := n.registry.Parse(value)
	if err != nil {
		return nil, err
	}
	if !quantity.HasUnit {
		return PlainValue{Value: quantity.Magnitude}, nil
	}

	name := quantity.Name()
	magnitude := quantity.Magnitude
	if unit != nil {
		if unit.Name != name {
			magnitude, err = n.registry.Convert(magnitude, name, unit.Name)
			if err != nil {
				return nil, err
			}
		}
		return UnitValue{Unit: unit, Value: magnitude}, nil
	}

	row, err := store.GetOrCreateUnit(name, measure.WidgetForValue(quantity.Value()))
	if err != nil {
		return nil, err
	}
	return UnitValue{Unit: row, Value: magnitude}, nil
}

func unitOf(value ProcessedValue) *models.Unit {
	if v, ok := value.(UnitValue); ok {
		return v.Unit
	}
	return nil
}

func magnitudeOf(value ProcessedValue) (float64, bool) {
	switch v := value.(type) {
	case PlainValue:
		magnitude, ok := v.Value.(float64)
		return magnitude, ok
	case UnitValue:
		magnitude, ok := v.Value.(float64)
		return magnitude, ok
	default:
		return 0, false
	}
}
