package normalize

import (
	"github.com/oreilm49/specs/models"
)

// Store is the storage contract the normalizer writes through.
// models.Store satisfies it via the GormStore adapter; tests substitute an
// in-memory fake.
type Store interface {
	GetOrCreateUnit(name string, widget models.Widget) (*models.Unit, error)
	GetOrCreateAttributeType(name string, categoryID *uint, unit *models.Unit) (*models.AttributeType, error)
	AttachUnit(attributeType *models.AttributeType, unit *models.Unit) error
	UpsertProductAttribute(product *models.Product, attributeType *models.AttributeType, value any) (*models.ProductAttribute, error)
	Transaction(fn func(Store) error) error
}

// GormStore adapts models.Store to the normalizer's transaction shape.
type GormStore struct {
	*models.Store
}

func (g GormStore) Transaction(fn func(Store) error) error {
	return g.Store.Transaction(func(tx *models.Store) error {
		return fn(GormStore{tx})
	})
}
