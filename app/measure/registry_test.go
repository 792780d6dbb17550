package measure

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryParse(t *testing.T) {
	registry := NewRegistry()
	testCases := []struct {
		name      string
		text      string
		unit      string
		magnitude float64
		hasUnit   bool
		integral  bool
	}{
		{name: "weight with symbol", text: "10kg", unit: "kilogram", magnitude: 10, hasUnit: true, integral: true},
		{name: "weight with space", text: "2.5 kg", unit: "kilogram", magnitude: 2.5, hasUnit: true},
		{name: "decibels alias", text: "52db", unit: "decibels", magnitude: 52, hasUnit: true, integral: true},
		{name: "energy alias", text: "1.5kwh", unit: "kilowatt_hour", magnitude: 1.5, hasUnit: true},
		{name: "volt alias", text: "240v", unit: "volt", magnitude: 240, hasUnit: true, integral: true},
		{name: "frequency alias", text: "50 hz", unit: "hertz", magnitude: 50, hasUnit: true, integral: true},
		{name: "power alias", text: "1800w", unit: "watt", magnitude: 1800, hasUnit: true, integral: true},
		{name: "plural year", text: "5 years", unit: "year", magnitude: 5, hasUnit: true, integral: true},
		{name: "trailing period", text: "14 programmes.", unit: "programmes", magnitude: 14, hasUnit: true, integral: true},
		{name: "bare integer", text: "8", magnitude: 8, integral: true},
		{name: "bare decimal", text: "8.5", magnitude: 8.5},
		{name: "negative number", text: "-18", magnitude: -18, integral: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			quantity, err := registry.Parse(tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.magnitude, quantity.Magnitude)
			assert.Equal(t, tc.hasUnit, quantity.HasUnit)
			assert.Equal(t, tc.integral, quantity.Integral)
			if tc.hasUnit {
				assert.Equal(t, tc.unit, quantity.Name())
			}
		})
	}
}

func TestQuantityValue(t *testing.T) {
	registry := NewRegistry()

	quantity, err := registry.Parse("52db")
	require.NoError(t, err)
	assert.Equal(t, 52, quantity.Value())

	quantity, err = registry.Parse("2.5 kg")
	require.NoError(t, err)
	assert.Equal(t, 2.5, quantity.Value())
}

func TestRegistryParseErrors(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Parse("")
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = registry.Parse("   ")
	assert.ErrorIs(t, err, ErrMalformedInput)

	var undefined *UndefinedUnitError
	_, err = registry.Parse("10lkjs")
	require.ErrorAs(t, err, &undefined)
	assert.Equal(t, "lkjs", undefined.Token)

	_, err = registry.Parse("no leading number")
	assert.ErrorAs(t, err, &undefined)

	var syntax *QuantitySyntaxError
	_, err = registry.Parse("220 - 240v")
	require.ErrorAs(t, err, &syntax)
	assert.Equal(t, "220 - 240v", syntax.Input)

	_, err = registry.Parse("60 x 40 x 30")
	assert.ErrorAs(t, err, &syntax)
}

func TestRegistryResolve(t *testing.T) {
	registry := NewRegistry()

	unit, ok := registry.Resolve("KG")
	require.True(t, ok)
	assert.Equal(t, "kilogram", unit.Name)

	unit, ok = registry.Resolve("dB")
	require.True(t, ok)
	assert.Equal(t, "decibels", unit.Name)

	_, ok = registry.Resolve("nonsense")
	assert.False(t, ok)
}

func TestRegistryConvert(t *testing.T) {
	registry := NewRegistry()

	converted, err := registry.Convert(2000, "gram", "kilogram")
	require.NoError(t, err)
	assert.InDelta(t, 2, converted, 1e-9)

	converted, err = registry.Convert(7, "kilogram", "kilogram")
	require.NoError(t, err)
	assert.Equal(t, float64(7), converted)

	var conversion *ConversionError
	_, err = registry.Convert(1, "gram", "volt")
	require.ErrorAs(t, err, &conversion)
	assert.True(t, errors.Is(err, conversion))
}

func TestRegistryConvertUnknownUnit(t *testing.T) {
	registry := NewRegistry()

	var undefined *UndefinedUnitError
	_, err := registry.Convert(1, "nonsense", "kilogram")
	assert.ErrorAs(t, err, &undefined)
}
