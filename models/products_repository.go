package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

type ProductsRepository struct {
	db *gorm.DB
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{db: db}
}

// ProductFilters narrows the product set fed to the pivot builder.
type ProductFilters struct {
	CategoryID *uint
	Query      string
	PriceLow   *float64
	PriceHigh  *float64
	Brands     []string
	WebsiteIDs []uint
	ProductIDs []uint
}

func (r *ProductsRepository) GetByModel(model string) (*Product, error) {
	var product Product
	err := Published(r.db).
		Preload("Category").
		Where("model = ? OR ? = ANY(alternate_models)", model, model).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// GetFilteredProducts applies the pivot filters. Price bounds are matched
// against recorded website price observations; brands against the "brand"
// product attribute.
func (r *ProductsRepository) GetFilteredProducts(filters ProductFilters) ([]Product, error) {
	query := Published(r.db.Model(&Product{})).Preload("Category").Distinct("products.*")

	if filters.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filters.CategoryID)
	}
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("products.model LIKE ? OR ? = ANY(products.alternate_models)", like, filters.Query)
	}
	if filters.PriceLow != nil || filters.PriceHigh != nil {
		query = query.Joins(`JOIN website_product_attributes wpa_price ON wpa_price.product_id = products.id`).
			Joins(`JOIN attribute_types price_types ON price_types.id = wpa_price.attribute_type_id AND price_types.name = 'price'`)
		if filters.PriceLow != nil {
			query = query.Where("(wpa_price.data->>'value')::numeric >= ?", *filters.PriceLow)
		}
		if filters.PriceHigh != nil {
			query = query.Where("(wpa_price.data->>'value')::numeric <= ?", *filters.PriceHigh)
		}
	}
	if len(filters.Brands) > 0 {
		query = query.Joins(`JOIN product_attributes pa_brand ON pa_brand.product_id = products.id`).
			Joins(`JOIN attribute_types brand_types ON brand_types.id = pa_brand.attribute_type_id AND brand_types.name = 'brand'`).
			Where("pa_brand.data->>'value' IN ?", filters.Brands)
	}
	if len(filters.WebsiteIDs) > 0 {
		query = query.Joins(`JOIN website_product_attributes wpa_site ON wpa_site.product_id = products.id`).
			Where("wpa_site.website_id IN ?", filters.WebsiteIDs)
	}
	if len(filters.ProductIDs) > 0 {
		query = query.Where("products.id IN ?", filters.ProductIDs)
	}

	var products []Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// CurrentAveragePrice is the mean of the product's website price
// observations from the last 24 hours. The second return reports whether
// any price was recorded in that window.
func (r *ProductsRepository) CurrentAveragePrice(productID uint) (decimal.Decimal, bool, error) {
	var raw []float64
	err := Published(r.db.Model(&WebsiteProductAttribute{})).
		Joins("JOIN attribute_types ON attribute_types.id = website_product_attributes.attribute_type_id").
		Where("attribute_types.name = ?", "price").
		Where("website_product_attributes.product_id = ?", productID).
		Where("website_product_attributes.created_at >= ?", time.Now().Add(-24*time.Hour)).
		Pluck("(website_product_attributes.data->>'value')::float", &raw).Error
	if err != nil {
		return decimal.Zero, false, err
	}
	if len(raw) == 0 {
		return decimal.Zero, false, nil
	}
	sum := decimal.Zero
	for _, price := range raw {
		sum = sum.Add(decimal.NewFromFloat(price))
	}
	return sum.Div(decimal.NewFromInt(int64(len(raw)))), true, nil
}

// Brand returns the product's brand attribute value, if any.
func (r *ProductsRepository) Brand(productID uint) (string, bool, error) {
	var attribute ProductAttribute
	err := r.db.
		Joins("JOIN attribute_types ON attribute_types.id = product_attributes.attribute_type_id").
		Where("attribute_types.name = ?", "brand").
		Where("product_attributes.product_id = ?", productID).
		First(&attribute).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	brand, ok := attribute.Value().(string)
	return brand, ok, nil
}

// AttributeValue looks up the product's value for an attribute type,
// preferring the normalized product attribute over raw website
// observations.
func (r *ProductsRepository) AttributeValue(productID, attributeTypeID uint) (any, bool, error) {
	var attribute ProductAttribute
	err := r.db.
		Where("product_id = ? AND attribute_type_id = ?", productID, attributeTypeID).
		First(&attribute).Error
	if err == nil {
		return attribute.Value(), true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	var websiteAttribute WebsiteProductAttribute
	err = r.db.
		Where("product_id = ? AND attribute_type_id = ?", productID, attributeTypeID).
		Order("created_at DESC").
		First(&websiteAttribute).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return websiteAttribute.Value(), true, nil
}

// AttributeValueExists reports whether any product or website attribute
// under the type carries the given value. Used to validate non-numeric
// pivot axis values before a table is built.
func (r *ProductsRepository) AttributeValueExists(attributeTypeID uint, value string) (bool, error) {
	var count int64
	err := r.db.Model(&ProductAttribute{}).
		Where("attribute_type_id = ? AND data->>'value' = ?", attributeTypeID, value).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	err = r.db.Model(&WebsiteProductAttribute{}).
		Where("attribute_type_id = ? AND data->>'value' = ?", attributeTypeID, value).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ProductIDsWithAttributeValues returns the products carrying any of the
// given values for the attribute type, across both normalized and website
// attributes. Non-numeric pivot axes use this to restrict the product set.
func (r *ProductsRepository) ProductIDsWithAttributeValues(attributeTypeID uint, values []string) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&ProductAttribute{}).
		Where("attribute_type_id = ? AND data->>'value' IN ?", attributeTypeID, values).
		Distinct().
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	var websiteIDs []uint
	err = r.db.Model(&WebsiteProductAttribute{}).
		Where("attribute_type_id = ? AND data->>'value' IN ?", attributeTypeID, values).
		Distinct().
		Pluck("product_id", &websiteIDs).Error
	if err != nil {
		return nil, err
	}
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	for _, id := range websiteIDs {
		if _, ok := seen[id]; !ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// MergeProducts absorbs duplicate into target: duplicate's model joins the
// target's alternate models and its attribute rows are repointed, keeping
// the target's own rows where both carry the same attribute type.
func (r *ProductsRepository) MergeProducts(target, duplicate *Product) error {
	if target.ID == duplicate.ID {
		return fmt.Errorf("%w: product %q", ErrDuplicateIsSelf, duplicate.Model)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		var targetAttributes, duplicateAttributes []ProductAttribute
		if err := tx.Where("product_id = ?", target.ID).Find(&targetAttributes).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", duplicate.ID).Find(&duplicateAttributes).Error; err != nil {
			return err
		}
		plan := planProductMerge(targetAttributes, duplicateAttributes)
		if len(plan.Reassign) > 0 {
			if err := tx.Model(&ProductAttribute{}).Where("id IN ?", plan.Reassign).
				Update("product_id", target.ID).Error; err != nil {
				return err
			}
		}
		if len(plan.Delete) > 0 {
			if err := tx.Where("id IN ?", plan.Delete).Delete(&ProductAttribute{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&WebsiteProductAttribute{}).Where("product_id = ?", duplicate.ID).
			Update("product_id", target.ID).Error; err != nil {
			return err
		}
		names := unionNames(target.AlternateModels, duplicate.Model, duplicate.AlternateModels)
		if err := tx.Model(target).Update("alternate_models", names).Error; err != nil {
			return err
		}
		return tx.Delete(duplicate).Error
	})
}
