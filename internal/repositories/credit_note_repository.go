package repositories

import (
	"database/sql"
	"fmt"

	"salescrm/internal/models"
)

type CreditNoteRepository struct {
	db *sql.DB
}

func NewCreditNoteRepository(db *sql.DB) *CreditNoteRepository {
	return &CreditNoteRepository{db: db}
}

func (r *CreditNoteRepository) Create(cn *models.CreditNote) (int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("create credit note: %w", err)
	}
	defer tx.Rollback()

	const q = `
                INSERT INTO credit_notes (credit_note_number, invoice_id, customer_id, issue_date, currency,
                        tax_enabled, subtotal, total_discount, total_tax, total, reason, status, created_at)
                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
                RETURNING id
        `
	var id int64
	err = tx.QueryRow(q,
		cn.CreditNoteNumber, nullableID(cn.InvoiceID), cn.CustomerID, cn.IssueDate, cn.Currency,
		cn.TaxEnabled, cn.Subtotal, cn.TotalDiscount, cn.TotalTax, cn.Total, cn.Reason, cn.Status, cn.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create credit note: %w", err)
	}
	if err := insertItems(tx, "credit_note_items", "credit_note_id", id, cn.Items); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("create credit note: %w", err)
	}
	return id, nil
}

func (r *CreditNoteRepository) GetByID(id int) (*models.CreditNote, error) {
	const q = `
                SELECT id, credit_note_number, COALESCE(invoice_id, 0), customer_id, issue_date, currency,
                        tax_enabled, subtotal, total_discount, total_tax, total, reason, status, created_at
                FROM credit_notes
                WHERE id=$1
        `
	cn := &models.CreditNote{}
	err := r.db.QueryRow(q, id).Scan(
		&cn.ID, &cn.CreditNoteNumber, &cn.InvoiceID, &cn.CustomerID, &cn.IssueDate, &cn.Currency,
		&cn.TaxEnabled, &cn.Subtotal, &cn.TotalDiscount, &cn.TotalTax, &cn.Total, &cn.Reason, &cn.Status, &cn.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get credit note: %w", err)
	}
	items, err := listItems(r.db, "credit_note_items", "credit_note_id", cn.ID)
	if err != nil {
		return nil, err
	}
	cn.Items = items
	return cn, nil
}

func (r *CreditNoteRepository) List(limit, offset int) ([]*models.CreditNote, error) {
	const q = `
                SELECT id, credit_note_number, COALESCE(invoice_id, 0), customer_id, issue_date, currency,
                        tax_enabled, subtotal, total_discount, total_tax, total, reason, status, created_at
                FROM credit_notes
                ORDER BY created_at DESC
                LIMIT $1 OFFSET $2
        `
	rows, err := r.db.Query(q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list credit notes: %w", err)
	}
	defer rows.Close()

	var notes []*models.CreditNote
	for rows.Next() {
		var cn models.CreditNote
		if err := rows.Scan(&cn.ID, &cn.CreditNoteNumber, &cn.InvoiceID, &cn.CustomerID, &cn.IssueDate, &cn.Currency,
			&cn.TaxEnabled, &cn.Subtotal, &cn.TotalDiscount, &cn.TotalTax, &cn.Total, &cn.Reason, &cn.Status, &cn.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan credit note: %w", err)
		}
		notes = append(notes, &cn)
	}
	return notes, nil
}

func (r *CreditNoteRepository) Delete(id int) error {
	const q = `DELETE FROM credit_notes WHERE id=$1`
	result, err := r.db.Exec(q, id)
	if err != nil {
		return fmt.Errorf("delete credit note: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete credit note: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("credit note with id=%d not found", id)
	}
	return nil
}

// LastNumber returns the highest credit note number ever assigned, or ""
// when none exist.
func (r *CreditNoteRepository) LastNumber() (string, error) {
	var number string
	err := r.db.QueryRow(`SELECT COALESCE(MAX(credit_note_number), '') FROM credit_notes`).Scan(&number)
	if err != nil {
		return "", fmt.Errorf("last credit note number: %w", err)
	}
	return number, nil
}

func (r *CreditNoteRepository) UpdateStatus(id int, status string) error {
	const q = `UPDATE credit_notes SET status = $1 WHERE id = $2`
	_, err := r.db.Exec(q, status, id)
	return err
}
