package measure

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	units "github.com/bcicen/go-units"
)

// custom holds the units defined over the library's default system. They
// are registered once per process; Registry instances share them as
// read-only configuration.
var custom struct {
	decibels     units.Unit
	kilowattHour units.Unit
	programmes   units.Unit
	volt         units.Unit
	hertz        units.Unit
	watt         units.Unit
	ampere       units.Unit
	year         units.Unit
}

var defineOnce sync.Once

func ensureUnit(name, symbol string, opts ...units.UnitOption) units.Unit {
	if u, err := units.Find(name); err == nil {
		return u
	}
	return units.NewUnit(name, symbol, opts...)
}

func defineCustomUnits() {
	custom.decibels = ensureUnit("decibels", "dB", units.UnitOptionQuantity("sound"))
	if u, err := units.Find("kilowatt_hour"); err == nil {
		custom.kilowattHour = u
	} else {
		custom.kilowattHour = units.NewUnit("kilowatt_hour", "kWh", units.UnitOptionQuantity("energy"))
		if joule, err := units.Find("joule"); err == nil {
			// 1 kwh = 3600 kilojoules
			units.NewRatioConversion(custom.kilowattHour, joule, 3.6e6)
		}
	}
	custom.programmes = ensureUnit("programmes", "prog", units.UnitOptionQuantity("count"))
	custom.volt = ensureUnit("volt", "V", units.UnitOptionQuantity("electric potential"))
	custom.hertz = ensureUnit("hertz", "Hz", units.UnitOptionQuantity("frequency"))
	custom.watt = ensureUnit("watt", "W", units.UnitOptionQuantity("power"))
	custom.ampere = ensureUnit("ampere", "A", units.UnitOptionQuantity("electric current"))
	custom.year = ensureUnit("year", "yr", units.UnitOptionQuantity("time"))
}

// Registry resolves unit-bearing strings against the physical-units
// library, extended with the custom units and short-code aliases the
// scraped data uses. Construct once at startup and thread explicitly.
type Registry struct {
	aliases map[string]units.Unit
}

func NewRegistry() *Registry {
	defineOnce.Do(defineCustomUnits)
	r := &Registry{aliases: map[string]units.Unit{
		"db":            custom.decibels,
		"decibels":      custom.decibels,
		"kwh":           custom.kilowattHour,
		"kilowatt_hour": custom.kilowattHour,
		"programmes":    custom.programmes,
		"programme":     custom.programmes,
		"v":             custom.volt,
		"hz":            custom.hertz,
		"w":             custom.watt,
		"a":             custom.ampere,
		"year":          custom.year,
		"years":         custom.year,
	}}
	return r
}

// Quantity is a parsed (magnitude, unit) pair. HasUnit is false for bare
// numbers; Integral records whether the literal carried no decimal point.
type Quantity struct {
	Magnitude float64
	Unit      units.Unit
	HasUnit   bool
	Integral  bool
}

// Name returns the canonical name of the parsed unit.
func (q Quantity) Name() string {
	return q.Unit.Name
}

// Value returns the magnitude as its native type: int when the literal
// carried no decimal point, float64 otherwise.
func (q Quantity) Value() any {
	if q.Integral {
		return int(q.Magnitude)
	}
	return q.Magnitude
}

var quantityPattern = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)\s*(.*)$`)

// Parse converts text like "10kg" into a Quantity. Failure modes are
// distinguishable so callers can apply the correct fallback:
// ErrMalformedInput for untokenizable input, UndefinedUnitError for an
// unrecognized unit token, QuantitySyntaxError for text that is not a
// single quantity (range candidates).
func (r *Registry) Parse(text string) (Quantity, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Quantity{}, ErrMalformedInput
	}
	match := quantityPattern.FindStringSubmatch(trimmed)
	if match == nil {
		return Quantity{}, &UndefinedUnitError{Token: trimmed}
	}
	magnitude, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return Quantity{}, ErrMalformedInput
	}
	integral := !strings.Contains(match[1], ".")
	token := strings.TrimSpace(match[2])
	if token == "" {
		return Quantity{Magnitude: magnitude, Integral: integral}, nil
	}
	if strings.ContainsAny(token, "-0123456789") {
		return Quantity{}, &QuantitySyntaxError{Input: trimmed}
	}
	unit, ok := r.Resolve(token)
	if !ok {
		return Quantity{}, &UndefinedUnitError{Token: token}
	}
	return Quantity{Magnitude: magnitude, Unit: unit, HasUnit: true, Integral: integral}, nil
}

// Resolve maps a unit token to its canonical unit. The registry's own
// alias table wins over the library lookup so canonical names stay
// deterministic.
func (r *Registry) Resolve(token string) (units.Unit, bool) {
	normalized := strings.ToLower(strings.TrimSpace(strings.TrimSuffix(token, ".")))
	if unit, ok := r.aliases[normalized]; ok {
		return unit, true
	}
	unit, err := units.Find(normalized)
	if err != nil {
		return units.Unit{}, false
	}
	return unit, true
}

// Convert rescales a magnitude between two canonical unit names. It
// returns a ConversionError when the units cross incompatible dimensions.
func (r *Registry) Convert(value float64, from, to string) (float64, error) {
	fromUnit, ok := r.Resolve(from)
	if !ok {
		return 0, &UndefinedUnitError{Token: from}
	}
	toUnit, ok := r.Resolve(to)
	if !ok {
		return 0, &UndefinedUnitError{Token: to}
	}
	if fromUnit.Name == toUnit.Name {
		return value, nil
	}
	converted, err := units.ConvertFloat(value, fromUnit, toUnit)
	if err != nil {
		return 0, &ConversionError{From: from, To: to, Err: err}
	}
	return converted.Float(), nil
}
