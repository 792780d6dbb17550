package models

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres. TranslateError is required so unique-constraint
// violations surface as gorm.ErrDuplicatedKey, which the get-or-create
// helpers rely on to retry instead of racing on check-then-create.
func Open(url string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(url), &gorm.Config{TranslateError: true})
}

// attributeTypeIndexes are uniqueness constraints AutoMigrate cannot
// express. Postgres treats NULLs as distinct in a unique index, so the
// composite (name, unit_id) key never conflicts while unit_id is still
// NULL — and every type the normalizer creates starts unit-less. These
// partial indexes arbitrate concurrent creates of unit-less types so the
// retry-on-conflict path actually fires.
var attributeTypeIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_attribute_types_name_unitless
		ON attribute_types (name, category_id)
		WHERE unit_id IS NULL AND category_id IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_attribute_types_name_unitless_uncategorized
		ON attribute_types (name)
		WHERE unit_id IS NULL AND category_id IS NULL`,
}

// Migrate creates or updates the schema for every catalog entity.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&Unit{},
		&Category{},
		&Website{},
		&Product{},
		&AttributeType{},
		&ProductAttribute{},
		&WebsiteProductAttribute{},
		&CategoryTable{},
	)
	if err != nil {
		return err
	}
	for _, stmt := range attributeTypeIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
