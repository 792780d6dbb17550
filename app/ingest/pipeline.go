// Package ingest turns scraped product page items into catalog rows.
// Fetching pages is the crawler's business; this package only consumes the
// (label, value) pairs it produces.
package ingest

import (
	"fmt"
	"log/slog"

	"github.com/oreilm49/specs/app/measure"
	"github.com/oreilm49/specs/app/normalize"
	"github.com/oreilm49/specs/app/observability"
	"github.com/oreilm49/specs/models"
)

// PriceAttributeName is the attribute type website price observations are
// recorded under.
const PriceAttributeName = "price"

// Attribute is one raw (label, value) pair scraped off a product page.
type Attribute struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// WebsiteAttribute is a per-website observation, e.g. the listed price.
type WebsiteAttribute struct {
	AttributeType string `json:"attribute_type"`
	Value         string `json:"value"`
}

// ProductPageItem is the upstream producer contract: one scraped product
// page, already reduced to its identity and raw attribute text.
type ProductPageItem struct {
	Model             string             `json:"model"`
	Category          string             `json:"category"`
	Website           string             `json:"website"`
	Attributes        []Attribute        `json:"attributes"`
	WebsiteAttributes []WebsiteAttribute `json:"website_attributes"`
}

// Catalog is the storage the pipeline writes product identity and website
// observations through. models.Store satisfies it.
type Catalog interface {
	GetOrCreateCategory(name string) (*models.Category, error)
	GetOrCreateProduct(model string, category *models.Category) (*models.Product, error)
	GetOrCreateAttributeType(name string, categoryID *uint, unit *models.Unit) (*models.AttributeType, error)
	GetWebsite(name string) (*models.Website, error)
	CreateWebsiteProductAttribute(website *models.Website, product *models.Product, attributeType *models.AttributeType, value any) (*models.WebsiteProductAttribute, error)
}

// AttributeCreator normalizes and stores one labeled value.
// normalize.Normalizer satisfies it.
type AttributeCreator interface {
	CreateProductAttribute(product *models.Product, label, raw string) error
}

// UnitOfWork scopes every write for one scraped item to a single
// transaction; an error mid-item rolls back the item's rows.
type UnitOfWork interface {
	Transaction(fn func(catalog Catalog, attributes AttributeCreator) error) error
}

// GormUnitOfWork hands the callback a transaction-bound catalog and a
// normalizer writing through the same transaction.
type GormUnitOfWork struct {
	Store    *models.Store
	Registry *measure.Registry
}

func (u GormUnitOfWork) Transaction(fn func(Catalog, AttributeCreator) error) error {
	return u.Store.Transaction(func(tx *models.Store) error {
		return fn(tx, normalize.New(u.Registry, normalize.GormStore{Store: tx}))
	})
}

type Pipeline struct {
	uow    UnitOfWork
	logger *slog.Logger
}

func NewPipeline(uow UnitOfWork, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{uow: uow, logger: logger}
}

// Process ingests one scraped item: product get-or-create, attribute
// normalization, then website price observations. All writes for the item
// share one transaction.
func (p *Pipeline) Process(item ProductPageItem) error {
	if item.Model == "" {
		observability.ItemsFailed.Inc()
		return fmt.Errorf("scraped item has no model identifier")
	}
	err := p.uow.Transaction(func(catalog Catalog, attributes AttributeCreator) error {
		category, err := catalog.GetOrCreateCategory(item.Category)
		if err != nil {
			return err
		}
		product, err := catalog.GetOrCreateProduct(item.Model, category)
		if err != nil {
			return err
		}
		for _, attribute := range item.Attributes {
			if err := attributes.CreateProductAttribute(product, attribute.Label, attribute.Value); err != nil {
				observability.AttributesNormalized.WithLabelValues("error").Inc()
				return fmt.Errorf("item %q: %w", item.Model, err)
			}
			observability.AttributesNormalized.WithLabelValues("ok").Inc()
		}
		return p.processWebsiteAttributes(catalog, item, product)
	})
	if err != nil {
		observability.ItemsFailed.Inc()
		return err
	}

	observability.ItemsProcessed.Inc()
	p.logger.Info("processed scraped item",
		"model", item.Model,
		"category", item.Category,
		"attributes", len(item.Attributes),
	)
	return nil
}

func (p *Pipeline) processWebsiteAttributes(catalog Catalog, item ProductPageItem, product *models.Product) error {
	if len(item.WebsiteAttributes) == 0 {
		return nil
	}
	website, err := catalog.GetWebsite(item.Website)
	if err != nil {
		return fmt.Errorf("item %q: website %q: %w", item.Model, item.Website, err)
	}
	for _, observation := range item.WebsiteAttributes {
		if observation.AttributeType != PriceAttributeName {
			continue
		}
		priceType, err := catalog.GetOrCreateAttributeType(PriceAttributeName, nil, website.Currency)
		if err != nil {
			return err
		}
		if _, err := catalog.CreateWebsiteProductAttribute(website, product, priceType, observation.Value); err != nil {
			return err
		}
	}
	return nil
}
