package repositories

import (
	"database/sql"
	"fmt"

	"salescrm/internal/models"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(p *models.Product) (int64, error) {
	const q = `
                INSERT INTO products (product_name, unit_price, currency, tax_rate, hsn_sac, created_at)
                VALUES ($1, $2, $3, $4, $5, $6)
                RETURNING id
        `
	var id int64
	if err := r.db.QueryRow(q, p.ProductName, p.UnitPrice, p.Currency, p.TaxRate, p.HSNSAC, p.CreatedAt).Scan(&id); err != nil {
		return 0, fmt.Errorf("create product: %w", err)
	}
	return id, nil
}

func (r *ProductRepository) Update(p *models.Product) error {
	const q = `
                UPDATE products
                SET product_name=$1, unit_price=$2, currency=$3, tax_rate=$4, hsn_sac=$5
                WHERE id=$6
        `
	if _, err := r.db.Exec(q, p.ProductName, p.UnitPrice, p.Currency, p.TaxRate, p.HSNSAC, p.ID); err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *ProductRepository) GetByID(id int) (*models.Product, error) {
	const q = `
                SELECT id, product_name, unit_price, currency, tax_rate, hsn_sac, created_at
                FROM products
                WHERE id=$1
        `
	var p models.Product
	if err := r.db.QueryRow(q, id).Scan(&p.ID, &p.ProductName, &p.UnitPrice, &p.Currency, &p.TaxRate, &p.HSNSAC, &p.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepository) List(limit, offset int) ([]*models.Product, error) {
	const q = `
                SELECT id, product_name, unit_price, currency, tax_rate, hsn_sac, created_at
                FROM products
                ORDER BY product_name
                LIMIT $1 OFFSET $2
        `
	rows, err := r.db.Query(q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.ProductName, &p.UnitPrice, &p.Currency, &p.TaxRate, &p.HSNSAC, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, &p)
	}
	return products, nil
}

func (r *ProductRepository) Delete(id int) error {
	const q = `DELETE FROM products WHERE id=$1`
	result, err := r.db.Exec(q, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("product with id=%d not found", id)
	}
	return nil
}
