package models

// Discount types for a line item.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// LineItem is one row of a deal, invoice or credit note. Quantity,
// unit_price, discount and tax are expected to be non-negative and finite;
// input validation happens at the form/handler boundary.
type LineItem struct {
	ID           int     `json:"id"`
	ProductID    int     `json:"product_id,omitempty"`
	ItemName     string  `json:"item_name"`
	Quantity     float64 `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	Discount     float64 `json:"discount"`
	DiscountType string  `json:"discount_type"`
	TaxRate      float64 `json:"tax"`
	HSNSAC       string  `json:"hsn_sac,omitempty"`
}

// FinancialTotals are the aggregate figures derived from a document's line
// items. Never stored on their own; always recomputed from the items.
type FinancialTotals struct {
	Subtotal      float64 `json:"subtotal"`
	TotalDiscount float64 `json:"total_discount"`
	TotalTax      float64 `json:"total_tax"`
	Total         float64 `json:"total"`
}
