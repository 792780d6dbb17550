package normalize

import (
	"fmt"

	"github.com/oreilm49/specs/models"
)

// CreateProductAttribute resolves the label to an attribute type scoped to
// the product's category, normalizes the raw value and upserts the
// resulting attribute rows. A range decomposes into "<label> - low" and
// "<label> - high" types sharing one unit. All writes happen in a single
// transaction so a partial range can never persist.
func (n *Normalizer) CreateProductAttribute(product *models.Product, label, raw string) error {
	return n.store.Transaction(func(tx Store) error {
		attributeType, err := tx.GetOrCreateAttributeType(label, product.CategoryID, nil)
		if err != nil {
			return err
		}
		processed, err := n.processValue(tx, raw, attributeType.Unit)
		if err != nil {
			return fmt.Errorf("normalize %q=%q for product %q: %w", label, raw, product.Model, err)
		}
		switch value := processed.(type) {
		case PlainValue:
			_, err := tx.UpsertProductAttribute(product, attributeType, value.Value)
			return err
		case UnitValue:
			if err := tx.AttachUnit(attributeType, value.Unit); err != nil {
				return err
			}
			_, err := tx.UpsertProductAttribute(product, attributeType, value.Value)
			return err
		case RangeUnitValue:
			return n.createRangeAttributes(tx, product, attributeType, value)
		default:
			return fmt.Errorf("unexpected processed value %T for %q", processed, raw)
		}
	})
}

func (n *Normalizer) createRangeAttributes(tx Store, product *models.Product, attributeType *models.AttributeType, value RangeUnitValue) error {
	if err := tx.AttachUnit(attributeType, value.Unit); err != nil {
		return err
	}
	lowType, err := tx.GetOrCreateAttributeType(attributeType.Name+" - low", product.CategoryID, value.Unit)
	if err != nil {
		return err
	}
	highType, err := tx.GetOrCreateAttributeType(attributeType.Name+" - high", product.CategoryID, value.Unit)
	if err != nil {
		return err
	}
	if _, err := tx.UpsertProductAttribute(product, lowType, value.ValueLow); err != nil {
		return err
	}
	_, err = tx.UpsertProductAttribute(product, highType, value.ValueHigh)
	return err
}
