package repositories

import (
	"database/sql"
	"fmt"

	"salescrm/internal/models"
)

type InvoiceRepository struct {
	db *sql.DB
}

func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create inserts the invoice and its line items in one transaction.
func (r *InvoiceRepository) Create(inv *models.Invoice) (int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("create invoice: %w", err)
	}
	defer tx.Rollback()

	const q = `
                INSERT INTO invoices (invoice_number, customer_id, deal_id, issue_date, due_date, currency,
                        tax_enabled, subtotal, total_discount, total_tax, total, status, created_at)
                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
                RETURNING id
        `
	var id int64
	err = tx.QueryRow(q,
		inv.InvoiceNumber, inv.CustomerID, nullableID(inv.DealID), inv.IssueDate, inv.DueDate, inv.Currency,
		inv.TaxEnabled, inv.Subtotal, inv.TotalDiscount, inv.TotalTax, inv.Total, inv.Status, inv.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create invoice: %w", err)
	}
	if err := insertItems(tx, "invoice_items", "invoice_id", id, inv.Items); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("create invoice: %w", err)
	}
	return id, nil
}

// Update rewrites the invoice row and replaces its line items.
func (r *InvoiceRepository) Update(inv *models.Invoice) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	defer tx.Rollback()

	const q = `
                UPDATE invoices
                SET customer_id=$1, deal_id=$2, issue_date=$3, due_date=$4, currency=$5,
                        tax_enabled=$6, subtotal=$7, total_discount=$8, total_tax=$9, total=$10, status=$11
                WHERE id=$12
        `
	if _, err := tx.Exec(q,
		inv.CustomerID, nullableID(inv.DealID), inv.IssueDate, inv.DueDate, inv.Currency,
		inv.TaxEnabled, inv.Subtotal, inv.TotalDiscount, inv.TotalTax, inv.Total, inv.Status, inv.ID,
	); err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM invoice_items WHERE invoice_id=$1`, inv.ID); err != nil {
		return fmt.Errorf("replace invoice items: %w", err)
	}
	if err := insertItems(tx, "invoice_items", "invoice_id", int64(inv.ID), inv.Items); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepository) GetByID(id int) (*models.Invoice, error) {
	const q = `
                SELECT id, invoice_number, customer_id, COALESCE(deal_id, 0), issue_date, due_date, currency,
                        tax_enabled, subtotal, total_discount, total_tax, total, status, created_at
                FROM invoices
                WHERE id=$1
        `
	inv := &models.Invoice{}
	err := r.db.QueryRow(q, id).Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.CustomerID, &inv.DealID, &inv.IssueDate, &inv.DueDate, &inv.Currency,
		&inv.TaxEnabled, &inv.Subtotal, &inv.TotalDiscount, &inv.TotalTax, &inv.Total, &inv.Status, &inv.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	items, err := r.listItems(inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return inv, nil
}

func (r *InvoiceRepository) List(limit, offset int) ([]*models.Invoice, error) {
	const q = `
                SELECT id, invoice_number, customer_id, COALESCE(deal_id, 0), issue_date, due_date, currency,
                        tax_enabled, subtotal, total_discount, total_tax, total, status, created_at
                FROM invoices
                ORDER BY created_at DESC
                LIMIT $1 OFFSET $2
        `
	rows, err := r.db.Query(q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(&inv.ID, &inv.InvoiceNumber, &inv.CustomerID, &inv.DealID, &inv.IssueDate, &inv.DueDate, &inv.Currency,
			&inv.TaxEnabled, &inv.Subtotal, &inv.TotalDiscount, &inv.TotalTax, &inv.Total, &inv.Status, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, &inv)
	}
	return invoices, nil
}

func (r *InvoiceRepository) Delete(id int) error {
	const q = `DELETE FROM invoices WHERE id=$1`
	result, err := r.db.Exec(q, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("invoice with id=%d not found", id)
	}
	return nil
}

// LastNumber returns the highest invoice number ever assigned, or "" when
// none exist. The fixed-width number format makes MAX lexicographically
// correct, and deleted drafts do not free their number for reuse.
func (r *InvoiceRepository) LastNumber() (string, error) {
	var number string
	err := r.db.QueryRow(`SELECT COALESCE(MAX(invoice_number), '') FROM invoices`).Scan(&number)
	if err != nil {
		return "", fmt.Errorf("last invoice number: %w", err)
	}
	return number, nil
}

func (r *InvoiceRepository) UpdateStatus(id int, status string) error {
	const q = `UPDATE invoices SET status = $1 WHERE id = $2`
	_, err := r.db.Exec(q, status, id)
	return err
}

func (r *InvoiceRepository) listItems(invoiceID int) ([]models.LineItem, error) {
	return listItems(r.db, "invoice_items", "invoice_id", invoiceID)
}

func insertItems(tx *sql.Tx, table, fk string, docID int64, items []models.LineItem) error {
	q := fmt.Sprintf(`
                INSERT INTO %s (%s, product_id, item_name, quantity, unit_price, discount, discount_type, tax_rate, hsn_sac)
                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        `, table, fk)
	for _, item := range items {
		if _, err := tx.Exec(q, docID, nullableID(item.ProductID), item.ItemName,
			item.Quantity, item.UnitPrice, item.Discount, item.DiscountType, item.TaxRate, item.HSNSAC); err != nil {
			return fmt.Errorf("insert line item: %w", err)
		}
	}
	return nil
}

func listItems(db *sql.DB, table, fk string, docID int) ([]models.LineItem, error) {
	q := fmt.Sprintf(`
                SELECT id, COALESCE(product_id, 0), item_name, quantity, unit_price, discount, discount_type, tax_rate, hsn_sac
                FROM %s
                WHERE %s = $1
                ORDER BY id
        `, table, fk)
	rows, err := db.Query(q, docID)
	if err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}
	defer rows.Close()

	var items []models.LineItem
	for rows.Next() {
		var item models.LineItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.ItemName,
			&item.Quantity, &item.UnitPrice, &item.Discount, &item.DiscountType, &item.TaxRate, &item.HSNSAC); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}
