package models

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store implements get-or-create semantics over the catalog entities.
//
// All get-or-create helpers rely on the storage-level uniqueness constraint
// plus a retry on conflict: a lost race sees gorm.ErrDuplicatedKey and
// re-reads the winner's row, so at most one row per canonical key can exist
// under concurrent writers.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for repository composition.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn against a store bound to a single transaction.
// Any error rolls back every write made inside fn.
func (s *Store) Transaction(fn func(*Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// GetOrCreateUnit resolves a canonical unit name, matching alternate names,
// and lazily creates the row on first encounter.
func (s *Store) GetOrCreateUnit(name string, widget Widget) (*Unit, error) {
	var unit Unit
	err := s.db.Where("name = ? OR ? = ANY(alternate_names)", name, name).First(&unit).Error
	if err == nil {
		return &unit, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	unit = Unit{Name: name, Widget: widget, Repeat: RepeatOnce}
	if err := s.db.Create(&unit).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			unit = Unit{}
			if err := s.db.Where("name = ?", name).First(&unit).Error; err != nil {
				return nil, err
			}
			return &unit, nil
		}
		return nil, err
	}
	return &unit, nil
}

// GetOrCreateAttributeType resolves an attribute label to its type,
// matching the primary name or any alternate name within the category
// scope. A fresh type is created on first encounter of an unseen label.
// When the existing type has no unit and one is supplied, the unit is
// attached.
func (s *Store) GetOrCreateAttributeType(name string, categoryID *uint, unit *Unit) (*AttributeType, error) {
	attributeType, err := s.findAttributeType(name, categoryID)
	if err == nil {
		if attributeType.UnitID == nil && unit != nil {
			if err := s.AttachUnit(attributeType, unit); err != nil {
				return nil, err
			}
		}
		return attributeType, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	created := AttributeType{Name: name, CategoryID: categoryID}
	if unit != nil {
		created.UnitID = &unit.ID
		created.Unit = unit
	}
	if err := s.db.Create(&created).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.findAttributeType(name, categoryID)
		}
		return nil, err
	}
	return &created, nil
}

// findAttributeType is the alias-aware, category-scoped lookup shared by
// the initial read and the lost-race re-read of GetOrCreateAttributeType.
func (s *Store) findAttributeType(name string, categoryID *uint) (*AttributeType, error) {
	query := s.db.Preload("Unit").Where("name = ? OR ? = ANY(alternate_names)", name, name)
	if categoryID != nil {
		query = query.Where("category_id = ? OR category_id IS NULL", *categoryID)
	}
	var attributeType AttributeType
	if err := query.First(&attributeType).Error; err != nil {
		return nil, err
	}
	return &attributeType, nil
}

// AttachUnit fills in an attribute type's unit if it has none yet.
func (s *Store) AttachUnit(attributeType *AttributeType, unit *Unit) error {
	if attributeType.UnitID != nil || unit == nil {
		return nil
	}
	attributeType.UnitID = &unit.ID
	attributeType.Unit = unit
	return s.db.Model(attributeType).Update("unit_id", unit.ID).Error
}

// GetOrCreateProduct resolves a scraped model string to a product within a
// category, matching alternate models absorbed from merged duplicates.
func (s *Store) GetOrCreateProduct(model string, category *Category) (*Product, error) {
	query := s.db.Where("model = ? OR ? = ANY(alternate_models)", model, model)
	if category != nil {
		query = query.Where("category_id = ?", category.ID)
	}
	var product Product
	err := query.First(&product).Error
	if err == nil {
		return &product, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	product = Product{Model: model}
	if category != nil {
		product.CategoryID = &category.ID
		product.Category = category
	}
	if err := s.db.Create(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			product = Product{}
			if err := s.db.Where("model = ?", model).First(&product).Error; err != nil {
				return nil, err
			}
			return &product, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetOrCreateCategory resolves a category by name or alternate name.
func (s *Store) GetOrCreateCategory(name string) (*Category, error) {
	var category Category
	err := s.db.Where("name = ? OR ? = ANY(alternate_names)", name, name).First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	category = Category{Name: name}
	if err := s.db.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			category = Category{}
			if err := s.db.Where("name = ?", name).First(&category).Error; err != nil {
				return nil, err
			}
			return &category, nil
		}
		return nil, err
	}
	return &category, nil
}

// GetWebsite resolves a website by name or domain.
func (s *Store) GetWebsite(name string) (*Website, error) {
	var website Website
	err := s.db.Preload("Currency").
		Where("name = ? OR domain = ?", name, name).
		First(&website).Error
	if err != nil {
		return nil, err
	}
	return &website, nil
}

// UpsertProductAttribute writes the normalized value for a
// (product, attribute type) pair. The unique constraint guarantees a single
// row per pair; a conflicting insert updates the payload in place.
func (s *Store) UpsertProductAttribute(product *Product, attributeType *AttributeType, value any) (*ProductAttribute, error) {
	attribute := ProductAttribute{
		ProductID:       product.ID,
		AttributeTypeID: attributeType.ID,
		Data:            AttributeData(value),
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "attribute_type_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&attribute).Error
	if err != nil {
		return nil, err
	}
	return &attribute, nil
}

// CreateWebsiteProductAttribute appends a per-website observation. Values
// are serialized with the attribute type unit's widget, matching how the
// website pipelines record prices over time.
func (s *Store) CreateWebsiteProductAttribute(website *Website, product *Product, attributeType *AttributeType, value any) (*WebsiteProductAttribute, error) {
	if attributeType.Unit != nil {
		serialized, err := SerializeValue(attributeType.Unit.Widget, value)
		if err != nil {
			return nil, err
		}
		value = serialized
	}
	attribute := WebsiteProductAttribute{
		WebsiteID:       website.ID,
		ProductID:       product.ID,
		AttributeTypeID: attributeType.ID,
		Data:            AttributeData(value),
	}
	if err := s.db.Create(&attribute).Error; err != nil {
		return nil, err
	}
	return &attribute, nil
}
