package pivot

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/oreilm49/specs/app/grouping"
	"github.com/oreilm49/specs/models"
)

// MissingAxisValueError rejects a pivot configuration whose non-numeric
// axis values exist nowhere in the data, before any query runs.
type MissingAxisValueError struct {
	Attribute string
	Value     string
}

func (e *MissingAxisValueError) Error() string {
	return fmt.Sprintf("'%s' with value '%s' does not exist", e.Attribute, e.Value)
}

// ProductData is the product storage the builder reads from.
// models.ProductsRepository satisfies it.
type ProductData interface {
	GetFilteredProducts(filters models.ProductFilters) ([]models.Product, error)
	CurrentAveragePrice(productID uint) (decimal.Decimal, bool, error)
	Brand(productID uint) (string, bool, error)
	AttributeValue(productID, attributeTypeID uint) (any, bool, error)
	AttributeValueExists(attributeTypeID uint, value string) (bool, error)
	ProductIDsWithAttributeValues(attributeTypeID uint, values []string) ([]uint, error)
}

// Service selects and buckets products for a saved pivot configuration.
type Service struct {
	products ProductData
}

func NewService(products ProductData) *Service {
	return &Service{products: products}
}

// ValidateAxisValues checks that every non-numeric axis value exists
// somewhere in the data. Numeric values are range bounds and pass as-is.
func (s *Service) ValidateAxisValues(attributeType *models.AttributeType, values []string) error {
	if attributeType == nil || len(values) == 0 {
		return nil
	}
	if grouping.IsValueNumeric(values[0]) {
		return nil
	}
	for _, value := range values {
		exists, err := s.products.AttributeValueExists(attributeType.ID, value)
		if err != nil {
			return err
		}
		if !exists {
			return &MissingAxisValueError{Attribute: attributeType.Name, Value: value}
		}
	}
	return nil
}

// BuildForTable validates the table's axes, selects its product set,
// computes each product's groupers and builds the grid.
func (s *Service) BuildForTable(table *models.CategoryTable) (Table, error) {
	if err := s.ValidateAxisValues(table.XAxisAttribute, table.XAxisValues); err != nil {
		return Table{}, err
	}
	if err := s.ValidateAxisValues(table.YAxisAttribute, table.YAxisValues); err != nil {
		return Table{}, err
	}

	filters, err := s.tableFilters(table)
	if err != nil {
		return Table{}, err
	}
	products, err := s.products.GetFilteredProducts(filters)
	if err != nil {
		return Table{}, err
	}

	items := make([]Item, 0, len(products))
	for i := range products {
		item, err := s.itemFor(&products[i], table)
		if err != nil {
			return Table{}, err
		}
		items = append(items, item)
	}

	var yBuckets []string
	if table.YAxisAttribute != nil {
		yBuckets = table.YAxisValues
	}
	return BuildTable(items, yBuckets), nil
}

// tableFilters translates the saved configuration into product filters,
// restricting to products that actually carry the non-numeric axis values.
func (s *Service) tableFilters(table *models.CategoryTable) (models.ProductFilters, error) {
	filters := models.ProductFilters{
		CategoryID: table.CategoryID,
		Query:      table.Query,
		PriceLow:   table.PriceLow,
		PriceHigh:  table.PriceHigh,
		Brands:     table.Brands,
	}
	for _, website := range table.Websites {
		filters.WebsiteIDs = append(filters.WebsiteIDs, website.ID)
	}
	for _, product := range table.Products {
		filters.ProductIDs = append(filters.ProductIDs, product.ID)
	}
	for _, axis := range []struct {
		attribute *models.AttributeType
		values    []string
	}{
		{table.XAxisAttribute, table.XAxisValues},
		{table.YAxisAttribute, table.YAxisValues},
	} {
		if axis.attribute == nil || len(axis.values) == 0 || grouping.IsValueNumeric(axis.values[0]) {
			continue
		}
		ids, err := s.products.ProductIDsWithAttributeValues(axis.attribute.ID, axis.values)
		if err != nil {
			return models.ProductFilters{}, err
		}
		filters.ProductIDs = intersectIDs(filters.ProductIDs, ids)
	}
	return filters, nil
}

func (s *Service) itemFor(product *models.Product, table *models.CategoryTable) (Item, error) {
	item := Item{Product: product}
	price, hasPrice, err := s.products.CurrentAveragePrice(product.ID)
	if err != nil {
		return Item{}, err
	}
	if hasPrice {
		item.Price = price
	}
	if table.XAxisAttribute != nil {
		item.XGroup, item.HasX, err = s.ProductsGrouper(product, table.XAxisAttribute, table.XAxisValues)
		if err != nil {
			return Item{}, err
		}
	}
	if table.YAxisAttribute != nil {
		item.YGroup, item.HasY, err = s.ProductsGrouper(product, table.YAxisAttribute, table.YAxisValues)
		if err != nil {
			return Item{}, err
		}
	}
	return item, nil
}

// ProductsGrouper resolves the bucket a product falls into for an
// attribute axis. "price" and "brand" axes read the product's rolling
// average price and brand; other axes read the matching product attribute,
// falling back to website attributes.
func (s *Service) ProductsGrouper(product *models.Product, attributeType *models.AttributeType, candidates []string) (string, bool, error) {
	switch attributeType.Name {
	case "price":
		price, ok, err := s.products.CurrentAveragePrice(product.ID)
		if err != nil || !ok {
			return "", false, err
		}
		value, _ := price.Float64()
		group, ok := grouping.ExtractGrouper(value, candidates)
		return group, ok, nil
	case "brand":
		brand, ok, err := s.products.Brand(product.ID)
		if err != nil || !ok {
			return "", false, err
		}
		group, ok := grouping.ExtractGrouper(brand, candidates)
		return group, ok, nil
	default:
		value, ok, err := s.products.AttributeValue(product.ID, attributeType.ID)
		if err != nil || !ok {
			return "", false, err
		}
		group, ok := grouping.ExtractGrouper(value, candidates)
		return group, ok, nil
	}
}

// intersectIDs narrows an allow-list; an empty existing list means no
// restriction yet.
func intersectIDs(existing, found []uint) []uint {
	if len(existing) == 0 {
		return found
	}
	seen := make(map[uint]struct{}, len(found))
	for _, id := range found {
		seen[id] = struct{}{}
	}
	var out []uint
	for _, id := range existing {
		if _, ok := seen[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
