package ingest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oreilm49/specs/models"
)

type fakeCatalog struct {
	currency          *models.Unit
	websiteErr        error
	websiteName       string
	priceObservations []string
}

func (f *fakeCatalog) GetOrCreateCategory(name string) (*models.Category, error) {
	return &models.Category{BaseModel: models.BaseModel{ID: 1}, Name: name}, nil
}

func (f *fakeCatalog) GetOrCreateProduct(model string, category *models.Category) (*models.Product, error) {
	return &models.Product{BaseModel: models.BaseModel{ID: 2}, Model: model, CategoryID: &category.ID}, nil
}

func (f *fakeCatalog) GetOrCreateAttributeType(name string, categoryID *uint, unit *models.Unit) (*models.AttributeType, error) {
	return &models.AttributeType{BaseModel: models.BaseModel{ID: 3}, Name: name, Unit: unit}, nil
}

func (f *fakeCatalog) GetWebsite(name string) (*models.Website, error) {
	if f.websiteErr != nil {
		return nil, f.websiteErr
	}
	f.websiteName = name
	return &models.Website{BaseModel: models.BaseModel{ID: 4}, Name: name, Currency: f.currency}, nil
}

func (f *fakeCatalog) CreateWebsiteProductAttribute(website *models.Website, product *models.Product, attributeType *models.AttributeType, value any) (*models.WebsiteProductAttribute, error) {
	f.priceObservations = append(f.priceObservations, value.(string))
	return &models.WebsiteProductAttribute{}, nil
}

type fakeCreator struct {
	created map[string]string
	err     error
}

func (f *fakeCreator) CreateProductAttribute(product *models.Product, label, raw string) error {
	if f.err != nil {
		return f.err
	}
	if f.created == nil {
		f.created = map[string]string{}
	}
	f.created[label] = raw
	return nil
}

// fakeUnitOfWork records whether a callback error triggered a rollback.
type fakeUnitOfWork struct {
	catalog    *fakeCatalog
	creator    *fakeCreator
	rolledBack bool
}

func (f *fakeUnitOfWork) Transaction(fn func(Catalog, AttributeCreator) error) error {
	if err := fn(f.catalog, f.creator); err != nil {
		f.rolledBack = true
		return err
	}
	return nil
}

func newTestPipeline(catalog *fakeCatalog, creator *fakeCreator) (*Pipeline, *fakeUnitOfWork) {
	uow := &fakeUnitOfWork{catalog: catalog, creator: creator}
	return NewPipeline(uow, nil), uow
}

func TestPipelineProcess(t *testing.T) {
	catalog := &fakeCatalog{currency: &models.Unit{Name: "euro"}}
	creator := &fakeCreator{}
	pipeline, uow := newTestPipeline(catalog, creator)

	err := pipeline.Process(ProductPageItem{
		Model:    "whirlpool model x",
		Category: "washing machines",
		Website:  "harvey norman",
		Attributes: []Attribute{
			{Label: "wash capacity", Value: "10kg"},
			{Label: "energy rating", Value: "a+++"},
		},
		WebsiteAttributes: []WebsiteAttribute{
			{AttributeType: "price", Value: "€399.00"},
			{AttributeType: "stock", Value: "in stock"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"wash capacity": "10kg",
		"energy rating": "a+++",
	}, creator.created)
	assert.Equal(t, "harvey norman", catalog.websiteName)
	// only price observations are recorded per website
	assert.Equal(t, []string{"€399.00"}, catalog.priceObservations)
	assert.False(t, uow.rolledBack)
}

func TestPipelineProcessRequiresModel(t *testing.T) {
	pipeline, _ := newTestPipeline(&fakeCatalog{}, &fakeCreator{})
	assert.Error(t, pipeline.Process(ProductPageItem{Category: "washing machines"}))
}

func TestPipelineProcessAttributeFailureRollsBack(t *testing.T) {
	creator := &fakeCreator{err: errors.New("unhandled value syntax")}
	pipeline, uow := newTestPipeline(&fakeCatalog{}, creator)

	err := pipeline.Process(ProductPageItem{
		Model:      "whirlpool model x",
		Attributes: []Attribute{{Label: "dimensions", Value: "60 x 40 x 30"}},
	})
	assert.ErrorContains(t, err, "whirlpool model x")
	// a mid-item failure must undo the item's category and product rows
	assert.True(t, uow.rolledBack)
}

func TestPipelineProcessWebsiteFailureRollsBack(t *testing.T) {
	catalog := &fakeCatalog{websiteErr: errors.New("website not found")}
	creator := &fakeCreator{}
	pipeline, uow := newTestPipeline(catalog, creator)

	err := pipeline.Process(ProductPageItem{
		Model:             "whirlpool model x",
		Website:           "unknown shop",
		Attributes:        []Attribute{{Label: "wash capacity", Value: "10kg"}},
		WebsiteAttributes: []WebsiteAttribute{{AttributeType: "price", Value: "€399.00"}},
	})
	assert.ErrorContains(t, err, "unknown shop")
	// attributes already written before the failure share the same fate
	assert.True(t, uow.rolledBack)
	assert.Equal(t, map[string]string{"wash capacity": "10kg"}, creator.created)
}
