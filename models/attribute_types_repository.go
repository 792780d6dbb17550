package models

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrDuplicateIsSelf rejects a merge that names a record as its own
// duplicate. Validated before any mutation.
var ErrDuplicateIsSelf = errors.New("record listed as its own duplicate")

// ErrNonNumericValue aborts a unit conversion when a stored payload is not
// a number.
var ErrNonNumericValue = errors.New("stored value is not numeric")

// UnitConverter rescales a magnitude between two canonical unit names.
// It fails when the units cross incompatible physical dimensions.
type UnitConverter func(value float64, from, to string) (float64, error)

type AttributeTypesRepository struct {
	db *gorm.DB
}

func NewAttributeTypesRepository(db *gorm.DB) *AttributeTypesRepository {
	return &AttributeTypesRepository{db: db}
}

func (r *AttributeTypesRepository) GetByName(name string) (*AttributeType, error) {
	var attributeType AttributeType
	err := r.db.Preload("Unit").
		Where("name = ? OR ? = ANY(alternate_names)", name, name).
		First(&attributeType).Error
	if err != nil {
		return nil, err
	}
	return &attributeType, nil
}

// MergeAttributeTypes folds duplicate into target: duplicate's product
// attributes move to target unless the product already has one there,
// website attributes all move, target adopts duplicate's unit if it has
// none, names are unioned, and the duplicate row is deleted. The whole
// merge is one transaction.
func (r *AttributeTypesRepository) MergeAttributeTypes(target, duplicate *AttributeType) error {
	if target.ID == duplicate.ID {
		return fmt.Errorf("%w: attribute type %q", ErrDuplicateIsSelf, duplicate.Name)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		var targetAttributes, duplicateAttributes []ProductAttribute
		if err := tx.Where("attribute_type_id = ?", target.ID).Find(&targetAttributes).Error; err != nil {
			return err
		}
		if err := tx.Where("attribute_type_id = ?", duplicate.ID).Find(&duplicateAttributes).Error; err != nil {
			return err
		}
		plan := planAttributeTypeMerge(targetAttributes, duplicateAttributes)
		if len(plan.Reassign) > 0 {
			if err := tx.Model(&ProductAttribute{}).Where("id IN ?", plan.Reassign).
				Update("attribute_type_id", target.ID).Error; err != nil {
				return err
			}
		}
		if len(plan.Delete) > 0 {
			if err := tx.Where("id IN ?", plan.Delete).Delete(&ProductAttribute{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&WebsiteProductAttribute{}).Where("attribute_type_id = ?", duplicate.ID).
			Update("attribute_type_id", target.ID).Error; err != nil {
			return err
		}
		if target.UnitID == nil && duplicate.UnitID != nil {
			target.UnitID = duplicate.UnitID
			if err := tx.Model(target).Update("unit_id", duplicate.UnitID).Error; err != nil {
				return err
			}
		}
		names := unionNames(target.AlternateNames, duplicate.Name, duplicate.AlternateNames)
		target.AlternateNames = names
		if err := tx.Model(target).Update("alternate_names", names).Error; err != nil {
			return err
		}
		return tx.Delete(duplicate).Error
	})
}

// ConvertUnit rescales every stored value under the attribute type into
// newUnit and repoints the type at it. A conversion failure or a
// non-numeric stored value aborts the transaction, leaving all values
// unchanged.
func (r *AttributeTypesRepository) ConvertUnit(attributeType *AttributeType, newUnit *Unit, convert UnitConverter) error {
	if attributeType.Unit == nil {
		return fmt.Errorf("attribute type %q has no unit to convert from", attributeType.Name)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		var attributes []ProductAttribute
		if err := tx.Where("attribute_type_id = ?", attributeType.ID).Find(&attributes).Error; err != nil {
			return err
		}
		converted, err := convertAttributeValues(attributes, attributeType.Unit.Name, newUnit.Name, convert)
		if err != nil {
			return err
		}
		for id, value := range converted {
			if err := tx.Model(&ProductAttribute{}).Where("id = ?", id).
				Update("data", AttributeData(value)).Error; err != nil {
				return err
			}
		}
		attributeType.UnitID = &newUnit.ID
		attributeType.Unit = newUnit
		return tx.Model(attributeType).Update("unit_id", newUnit.ID).Error
	})
}

// convertAttributeValues rescales each payload, failing fast on the first
// non-numeric value or conversion error.
func convertAttributeValues(attributes []ProductAttribute, from, to string, convert UnitConverter) (map[uint]float64, error) {
	converted := make(map[uint]float64, len(attributes))
	for _, attribute := range attributes {
		magnitude, ok := numericValue(attribute.Value())
		if !ok {
			return nil, fmt.Errorf("%w: attribute %d holds %v", ErrNonNumericValue, attribute.ID, attribute.Value())
		}
		value, err := convert(magnitude, from, to)
		if err != nil {
			return nil, err
		}
		converted[attribute.ID] = value
	}
	return converted, nil
}

// numericValue unboxes the number types a JSON payload can decode into.
func numericValue(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
