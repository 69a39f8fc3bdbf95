package repositories

import (
	"database/sql"
	"fmt"

	"salescrm/internal/models"
)

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(customer *models.Customer) (int64, error) {
	const q = `
                INSERT INTO customers (name, tax_number, address, email, phone, created_at)
                VALUES ($1, $2, $3, $4, $5, $6)
                RETURNING id
        `
	var id int64
	if err := r.db.QueryRow(q, customer.Name, customer.TaxNumber, customer.Address, customer.Email, customer.Phone, customer.CreatedAt).Scan(&id); err != nil {
		return 0, fmt.Errorf("create customer: %w", err)
	}
	return id, nil
}

func (r *CustomerRepository) Update(customer *models.Customer) error {
	const q = `
                UPDATE customers
                SET name=$1, tax_number=$2, address=$3, email=$4, phone=$5
                WHERE id=$6
        `
	if _, err := r.db.Exec(q, customer.Name, customer.TaxNumber, customer.Address, customer.Email, customer.Phone, customer.ID); err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) GetByID(id int) (*models.Customer, error) {
	const q = `
                SELECT id, name, tax_number, address, email, phone, created_at
                FROM customers
                WHERE id=$1
        `
	var c models.Customer
	if err := r.db.QueryRow(q, id).Scan(&c.ID, &c.Name, &c.TaxNumber, &c.Address, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

func (r *CustomerRepository) GetByTaxNumber(taxNumber string) (*models.Customer, error) {
	const q = `
                SELECT id, name, tax_number, address, email, phone, created_at
                FROM customers
                WHERE tax_number=$1
        `
	var c models.Customer
	if err := r.db.QueryRow(q, taxNumber).Scan(&c.ID, &c.Name, &c.TaxNumber, &c.Address, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer by tax number: %w", err)
	}
	return &c, nil
}

func (r *CustomerRepository) List(limit, offset int) ([]*models.Customer, error) {
	const q = `
                SELECT id, name, tax_number, address, email, phone, created_at
                FROM customers
                ORDER BY created_at DESC
                LIMIT $1 OFFSET $2
        `
	rows, err := r.db.Query(q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.TaxNumber, &c.Address, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, &c)
	}
	return customers, nil
}

func (r *CustomerRepository) Delete(id int) error {
	const q = `DELETE FROM customers WHERE id=$1`
	result, err := r.db.Exec(q, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("customer with id=%d not found", id)
	}
	return nil
}
