package services

import (
	"fmt"

	"salescrm/internal/models"
)

// ProductStore resolves catalog products referenced by line items.
type ProductStore interface {
	GetByID(id int) (*models.Product, error)
}

// applyProductDefaults fills catalog-backed fields on line items and
// resolves the document currency. A line referencing a product inherits
// the product's name, price, tax rate and HSN/SAC unless the form already
// set them, and forces the document currency to the product's currency —
// the last referenced product wins over whatever was chosen before.
func applyProductDefaults(items []models.LineItem, products ProductStore, currency string) ([]models.LineItem, string, error) {
	for i := range items {
		item := &items[i]
		if item.ProductID == 0 || products == nil {
			continue
		}
		p, err := products.GetByID(item.ProductID)
		if err != nil {
			return nil, "", err
		}
		if p == nil {
			return nil, "", fmt.Errorf("product %d not found", item.ProductID)
		}
		if item.ItemName == "" {
			item.ItemName = p.ProductName
		}
		if item.UnitPrice == 0 {
			item.UnitPrice = p.UnitPrice
		}
		if item.TaxRate == 0 {
			item.TaxRate = p.TaxRate
		}
		if item.HSNSAC == "" {
			item.HSNSAC = p.HSNSAC
		}
		if p.Currency != "" {
			currency = p.Currency
		}
	}
	return items, currency, nil
}

// validateLineItems rejects input the calculator has no defined result for.
func validateLineItems(items []models.LineItem) error {
	for i, item := range items {
		if item.Quantity < 0 || item.UnitPrice < 0 || item.Discount < 0 || item.TaxRate < 0 {
			return fmt.Errorf("line item %d: negative values are not allowed", i+1)
		}
		if item.DiscountType != "" && item.DiscountType != models.DiscountPercentage && item.DiscountType != models.DiscountFixed {
			return fmt.Errorf("line item %d: unknown discount_type %q", i+1, item.DiscountType)
		}
	}
	return nil
}
