package models

import "time"

// Customer represents a counterparty invoices are billed to.
type Customer struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	TaxNumber string    `json:"tax_number"`
	Address   string    `json:"address"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}
