package normalize

import (
	"errors"
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oreilm49/specs/app/measure"
	"github.com/oreilm49/specs/models"
)

type fakeStore struct {
	units             map[string]*models.Unit
	attributeTypes    map[string]*models.AttributeType
	productAttributes map[string]*models.ProductAttribute
	nextID            uint
	unitCreates       int
	upsertErr         map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		units:             map[string]*models.Unit{},
		attributeTypes:    map[string]*models.AttributeType{},
		productAttributes: map[string]*models.ProductAttribute{},
	}
}

func (f *fakeStore) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) GetOrCreateUnit(name string, widget models.Widget) (*models.Unit, error) {
	if unit, ok := f.units[name]; ok {
		return unit, nil
	}
	unit := &models.Unit{BaseModel: models.BaseModel{ID: f.id()}, Name: name, Widget: widget}
	f.units[name] = unit
	f.unitCreates++
	return unit, nil
}

func (f *fakeStore) GetOrCreateAttributeType(name string, categoryID *uint, unit *models.Unit) (*models.AttributeType, error) {
	if attributeType, ok := f.attributeTypes[name]; ok {
		return attributeType, nil
	}
	attributeType := &models.AttributeType{BaseModel: models.BaseModel{ID: f.id()}, Name: name, CategoryID: categoryID, Unit: unit}
	if unit != nil {
		attributeType.UnitID = &unit.ID
	}
	f.attributeTypes[name] = attributeType
	return attributeType, nil
}

func (f *fakeStore) AttachUnit(attributeType *models.AttributeType, unit *models.Unit) error {
	if unit == nil || attributeType.UnitID != nil {
		return nil
	}
	attributeType.UnitID = &unit.ID
	attributeType.Unit = unit
	return nil
}

func (f *fakeStore) UpsertProductAttribute(product *models.Product, attributeType *models.AttributeType, value any) (*models.ProductAttribute, error) {
	key := attributeType.Name
	if err := f.upsertErr[key]; err != nil {
		return nil, err
	}
	if existing, ok := f.productAttributes[key]; ok {
		existing.Data = models.AttributeData(value)
		return existing, nil
	}
	attribute := &models.ProductAttribute{
		BaseModel:       models.BaseModel{ID: f.id()},
		ProductID:       product.ID,
		AttributeTypeID: attributeType.ID,
		Data:            models.AttributeData(value),
	}
	f.productAttributes[key] = attribute
	return attribute, nil
}

// Transaction snapshots the maps so a failed callback leaves no writes
// behind, mirroring the database rollback.
func (f *fakeStore) Transaction(fn func(Store) error) error {
	units := maps.Clone(f.units)
	attributeTypes := maps.Clone(f.attributeTypes)
	productAttributes := maps.Clone(f.productAttributes)
	nextID, unitCreates := f.nextID, f.unitCreates
	if err := fn(f); err != nil {
		f.units = units
		f.attributeTypes = attributeTypes
		f.productAttributes = productAttributes
		f.nextID, f.unitCreates = nextID, unitCreates
		return err
	}
	return nil
}

func newTestNormalizer(store *fakeStore) *Normalizer {
	return New(measure.NewRegistry(), store)
}

func TestGetProcessedUnitAndValue(t *testing.T) {
	testCases := []struct {
		name     string
		value    string
		expected ProcessedValue
		unitName string
	}{
		{name: "positive bool", value: "yes", expected: UnitValue{Value: true}, unitName: BooleanUnitName},
		{name: "negative token stays plain", value: "no", expected: PlainValue{Value: "no"}},
		{name: "plain string", value: "Stainless Steel", expected: PlainValue{Value: "Stainless Steel"}},
		{name: "quantity", value: "10kg", expected: UnitValue{Value: float64(10)}, unitName: "kilogram"},
		{name: "bare number", value: "8", expected: PlainValue{Value: float64(8)}},
		{name: "energy rating with digits", value: "10lkjs", expected: PlainValue{Value: "10lkjs"}},
		{name: "warranty fallback", value: "5 year full warranty including parts & labour", expected: UnitValue{Value: float64(5)}, unitName: "year"},
		{name: "programmes fallback", value: "14 programmes with quick wash", expected: UnitValue{Value: float64(14)}, unitName: "programmes"},
		{name: "voltage range", value: "220 - 240v", expected: RangeUnitValue{ValueLow: 220, ValueHigh: 240}, unitName: "volt"},
		{name: "unitless range", value: "200-240", expected: RangeUnitValue{ValueLow: 200, ValueHigh: 240}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			normalizer := newTestNormalizer(store)

			processed, err := normalizer.GetProcessedUnitAndValue(tc.value, nil)
			require.NoError(t, err)

			switch expected := tc.expected.(type) {
			case PlainValue:
				assert.Equal(t, expected, processed)
			case UnitValue:
				actual, ok := processed.(UnitValue)
				require.True(t, ok, "expected UnitValue, got %T", processed)
				assert.Equal(t, expected.Value, actual.Value)
				require.NotNil(t, actual.Unit)
				assert.Equal(t, tc.unitName, actual.Unit.Name)
			case RangeUnitValue:
				actual, ok := processed.(RangeUnitValue)
				require.True(t, ok, "expected RangeUnitValue, got %T", processed)
				assert.Equal(t, expected.ValueLow, actual.ValueLow)
				assert.Equal(t, expected.ValueHigh, actual.ValueHigh)
				if tc.unitName == "" {
					assert.Nil(t, actual.Unit)
				} else {
					require.NotNil(t, actual.Unit)
					assert.Equal(t, tc.unitName, actual.Unit.Name)
				}
			}
		})
	}
}

func TestGetProcessedUnitAndValueUnhandledSyntax(t *testing.T) {
	store := newFakeStore()
	normalizer := newTestNormalizer(store)

	_, err := normalizer.GetProcessedUnitAndValue("60 x 40 x 30", nil)
	assert.ErrorIs(t, err, ErrUnhandledValueSyntax)
}

func TestGetProcessedUnitAndValueBooleanUnit(t *testing.T) {
	store := newFakeStore()
	normalizer := newTestNormalizer(store)

	processed, err := normalizer.GetProcessedUnitAndValue("Yes", nil)
	require.NoError(t, err)

	value, ok := processed.(UnitValue)
	require.True(t, ok)
	assert.Equal(t, true, value.Value)
	assert.Equal(t, BooleanUnitName, value.Unit.Name)
	assert.Equal(t, models.WidgetBoolean, value.Unit.Widget)
}

func TestGetOrCreateUnitReusesExistingRow(t *testing.T) {
	store := newFakeStore()
	normalizer := newTestNormalizer(store)

	first, err := normalizer.GetOrCreateUnit("10kg", nil)
	require.NoError(t, err)
	second, err := normalizer.GetOrCreateUnit("12 kg", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, store.unitCreates)
	assert.Same(t, first.(UnitValue).Unit, second.(UnitValue).Unit)
}

func TestGetOrCreateUnitConvertsToAttributeUnit(t *testing.T) {
	store := newFakeStore()
	normalizer := newTestNormalizer(store)

	kilogram, err := store.GetOrCreateUnit("kilogram", models.WidgetInteger)
	require.NoError(t, err)

	processed, err := normalizer.GetOrCreateUnit("2000g", kilogram)
	require.NoError(t, err)

	value, ok := processed.(UnitValue)
	require.True(t, ok)
	assert.Same(t, kilogram, value.Unit)
	assert.InDelta(t, 2, value.Value.(float64), 1e-9)
	// the source unit must not become a second row
	assert.Equal(t, 1, store.unitCreates)
	_, created := store.units["gram"]
	assert.False(t, created)
}

func TestGetOrCreateUnitIncompatibleConversion(t *testing.T) {
	store := newFakeStore()
	normalizer := newTestNormalizer(store)

	volt, err := store.GetOrCreateUnit("volt", models.WidgetInteger)
	require.NoError(t, err)

	var conversion *measure.ConversionError
	_, err = normalizer.GetOrCreateUnit("10kg", volt)
	assert.ErrorAs(t, err, &conversion)
}

func TestGetOrCreateUnitWidgetFromLiteral(t *testing.T) {
	store := newFakeStore()
	normalizer := newTestNormalizer(store)

	_, err := normalizer.GetOrCreateUnit("52db", nil)
	require.NoError(t, err)
	assert.Equal(t, models.WidgetInteger, store.units["decibels"].Widget)

	_, err = normalizer.GetOrCreateUnit("2.5 kg", nil)
	require.NoError(t, err)
	assert.Equal(t, models.WidgetDecimal, store.units["kilogram"].Widget)
}

func TestCreateProductAttribute(t *testing.T) {
	store := newFakeStore()
	normalizer := newTestNormalizer(store)
	product := &models.Product{BaseModel: models.BaseModel{ID: 1}, Model: "whirlpool model x"}

	err := normalizer.CreateProductAttribute(product, "wash capacity", "10kg")
	require.NoError(t, err)

	attributeType := store.attributeTypes["wash capacity"]
	require.NotNil(t, attributeType)
	require.NotNil(t, attributeType.Unit)
	assert.Equal(t, "kilogram", attributeType.Unit.Name)

	attribute := store.productAttributes["wash capacity"]
	require.NotNil(t, attribute)
	assert.Equal(t, float64(10), attribute.Value())
}

func TestCreateProductAttributePlainValue(t *testing.T) {
	store := newFakeStore()
	normalizer := newTestNormalizer(store)
	product := &models.Product{BaseModel: models.BaseModel{ID: 1}, Model: "whirlpool model x"}

	err := normalizer.CreateProductAttribute(product, "energy rating", "a+++")
	require.NoError(t, err)

	attributeType := store.attributeTypes["energy rating"]
	require.NotNil(t, attributeType)
	assert.Nil(t, attributeType.UnitID)
	assert.Equal(t, "a+++", store.productAttributes["energy rating"].Value())
}

func TestCreateProductAttributeRange(t *testing.T) {
	store := newFakeStore()
	normalizer := newTestNormalizer(store)
	product := &models.Product{BaseModel: models.BaseModel{ID: 1}, Model: "whirlpool model x"}

	err := normalizer.CreateProductAttribute(product, "power supply", "220 - 240v")
	require.NoError(t, err)

	base := store.attributeTypes["power supply"]
	low := store.attributeTypes["power supply - low"]
	high := store.attributeTypes["power supply - high"]
	require.NotNil(t, base)
	require.NotNil(t, low)
	require.NotNil(t, high)

	volt := store.units["volt"]
	require.NotNil(t, volt)
	assert.Equal(t, &volt.ID, base.UnitID)
	assert.Equal(t, &volt.ID, low.UnitID)
	assert.Equal(t, &volt.ID, high.UnitID)

	assert.Equal(t, float64(220), store.productAttributes["power supply - low"].Value())
	assert.Equal(t, float64(240), store.productAttributes["power supply - high"].Value())
	_, baseWritten := store.productAttributes["power supply"]
	assert.False(t, baseWritten)
}

func TestCreateProductAttributeRangeRollsBack(t *testing.T) {
	store := newFakeStore()
	store.upsertErr = map[string]error{"power supply - high": errors.New("write failed")}
	normalizer := newTestNormalizer(store)
	product := &models.Product{BaseModel: models.BaseModel{ID: 1}, Model: "whirlpool model x"}

	err := normalizer.CreateProductAttribute(product, "power supply", "220 - 240v")
	require.Error(t, err)

	// the low side already written must not survive the failed high side
	assert.Empty(t, store.productAttributes)
	assert.Empty(t, store.attributeTypes)
	assert.Empty(t, store.units)
}

func TestCreateProductAttributeConvertsToExistingUnit(t *testing.T) {
	store := newFakeStore()
	normalizer := newTestNormalizer(store)
	product := &models.Product{BaseModel: models.BaseModel{ID: 1}, Model: "whirlpool model x"}

	kilogram, err := store.GetOrCreateUnit("kilogram", models.WidgetInteger)
	require.NoError(t, err)
	_, err = store.GetOrCreateAttributeType("wash capacity", nil, kilogram)
	require.NoError(t, err)

	err = normalizer.CreateProductAttribute(product, "wash capacity", "9000g")
	require.NoError(t, err)

	assert.InDelta(t, 9, store.productAttributes["wash capacity"].Value().(float64), 1e-9)
	assert.Equal(t, 1, store.unitCreates)
}

func TestCreateProductAttributeUpsertIsIdempotent(t *testing.T) {
	store := newFakeStore()
	normalizer := newTestNormalizer(store)
	product := &models.Product{BaseModel: models.BaseModel{ID: 1}, Model: "whirlpool model x"}

	require.NoError(t, normalizer.CreateProductAttribute(product, "spin speed", "1400"))
	require.NoError(t, normalizer.CreateProductAttribute(product, "spin speed", "1600"))

	assert.Len(t, store.productAttributes, 1)
	assert.Equal(t, float64(1600), store.productAttributes["spin speed"].Value())
}
