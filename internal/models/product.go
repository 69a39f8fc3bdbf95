package models

import "time"

// Product is a catalog entry line items can be sourced from. A product
// carries its own currency; picking a product on a line item forces the
// document currency to it.
type Product struct {
	ID          int       `json:"id"`
	ProductName string    `json:"product_name"`
	UnitPrice   float64   `json:"unit_price"`
	Currency    string    `json:"currency"`
	TaxRate     float64   `json:"tax_rate"`
	HSNSAC      string    `json:"hsn_sac,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
