package models

import "time"

// Credit note statuses.
const (
	CreditNoteStatusDraft  = "draft"
	CreditNoteStatusIssued = "issued"
)

// CreditNote reverses part or all of an invoice. Totals follow the same
// derivation rules as invoices.
type CreditNote struct {
	ID               int        `json:"id"`
	CreditNoteNumber string     `json:"credit_note_number"`
	InvoiceID        int        `json:"invoice_id,omitempty"`
	CustomerID       int        `json:"customer_id"`
	IssueDate        time.Time  `json:"issue_date"`
	Currency         string     `json:"currency"`
	TaxEnabled       bool       `json:"tax_enabled"`
	Subtotal         float64    `json:"subtotal"`
	TotalDiscount    float64    `json:"total_discount"`
	TotalTax         float64    `json:"total_tax"`
	Total            float64    `json:"total"`
	Reason           string     `json:"reason,omitempty"`
	Status           string     `json:"status"`
	Items            []LineItem `json:"items"`
	CreatedAt        time.Time  `json:"created_at"`
}
