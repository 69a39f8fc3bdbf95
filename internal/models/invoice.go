package models

import "time"

// Invoice statuses.
const (
	InvoiceStatusDraft  = "draft"
	InvoiceStatusIssued = "issued"
	InvoiceStatusPaid   = "paid"
	InvoiceStatusVoid   = "void"
)

// Invoice is a billing document. The totals are derived from Items by the
// pricing calculator and persisted rounded to 2 decimals.
type Invoice struct {
	ID            int        `json:"id"`
	InvoiceNumber string     `json:"invoice_number"`
	CustomerID    int        `json:"customer_id"`
	DealID        int        `json:"deal_id,omitempty"`
	IssueDate     time.Time  `json:"issue_date"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	Currency      string     `json:"currency"`
	TaxEnabled    bool       `json:"tax_enabled"`
	Subtotal      float64    `json:"subtotal"`
	TotalDiscount float64    `json:"total_discount"`
	TotalTax      float64    `json:"total_tax"`
	Total         float64    `json:"total"`
	Status        string     `json:"status"`
	Items         []LineItem `json:"items"`
	CreatedAt     time.Time  `json:"created_at"`
}
