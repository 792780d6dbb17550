package models

import (
	"gorm.io/gorm"
)

type CategoryTablesRepository struct {
	db *gorm.DB
}

func NewCategoryTablesRepository(db *gorm.DB) *CategoryTablesRepository {
	return &CategoryTablesRepository{db: db}
}

func (r *CategoryTablesRepository) Get(id uint) (*CategoryTable, error) {
	var table CategoryTable
	err := Published(r.db).
		Preload("XAxisAttribute.Unit").
		Preload("YAxisAttribute.Unit").
		Preload("Category").
		Preload("Websites").
		Preload("Products").
		First(&table, id).Error
	if err != nil {
		return nil, err
	}
	return &table, nil
}

// AttributeType loads an axis attribute with its unit, as needed to
// validate a table configuration before saving it.
func (r *CategoryTablesRepository) AttributeType(id uint) (*AttributeType, error) {
	var attributeType AttributeType
	if err := r.db.Preload("Unit").First(&attributeType, id).Error; err != nil {
		return nil, err
	}
	return &attributeType, nil
}

func (r *CategoryTablesRepository) Save(table *CategoryTable) error {
	return r.db.Save(table).Error
}

// Delete soft-deletes by flipping the publish flag. Saved pivot
// configurations are never hard-deleted.
func (r *CategoryTablesRepository) Delete(table *CategoryTable) error {
	table.Publish = false
	return r.db.Model(table).Update("publish", false).Error
}

// TableFilters narrows the saved-table listing.
type TableFilters struct {
	Query            string
	CategoryID       *uint
	AttributeTypeIDs []uint
}

func (r *CategoryTablesRepository) Search(filters TableFilters) ([]CategoryTable, error) {
	query := Published(r.db.Model(&CategoryTable{})).Order("name")
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("name LIKE ? OR query LIKE ?", like, like)
	}
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if len(filters.AttributeTypeIDs) > 0 {
		query = query.Where("x_axis_attribute_id IN ? OR y_axis_attribute_id IN ?",
			filters.AttributeTypeIDs, filters.AttributeTypeIDs)
	}
	var tables []CategoryTable
	if err := query.Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}
