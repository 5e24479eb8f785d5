package repository

import (
	"database/sql"

	"github.com/fogonims/stock-service/internal/domain"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `
	id, name, quantity, price, reorder_threshold,
	description, category, vendor, image_url, low_stock_flag,
	created_at, updated_at
`

func (r *ProductRepository) CreateProduct(product *domain.Product) error {
	query := `
		INSERT INTO products (
			id, name, quantity, price, reorder_threshold,
			description, category, vendor, image_url, low_stock_flag,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(
		query,
		product.ID,
		product.Name,
		product.Quantity,
		product.Price,
		product.ReorderThreshold,
		product.Description,
		product.Category,
		product.Vendor,
		product.ImageURL,
		product.LowStockFlag,
		product.CreatedAt,
		product.UpdatedAt,
	)

	return err
}

func (r *ProductRepository) UpdateProduct(product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, quantity = $3, price = $4, reorder_threshold = $5,
			description = $6, category = $7, vendor = $8, image_url = $9,
			low_stock_flag = $10, updated_at = $11
		WHERE id = $1
	`

	result, err := r.db.Exec(
		query,
		product.ID,
		product.Name,
		product.Quantity,
		product.Price,
		product.ReorderThreshold,
		product.Description,
		product.Category,
		product.Vendor,
		product.ImageURL,
		product.LowStockFlag,
		product.UpdatedAt,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.NotFound("Product not found")
	}

	return nil
}

// DeleteProduct is a hard delete. Pending requests that reference the
// product stay listable; approving them later fails NotFound.
func (r *ProductRepository) DeleteProduct(productID uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.Exec(query, productID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.NotFound("Product not found")
	}

	return nil
}

func (r *ProductRepository) GetProductByID(productID uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product := &domain.Product{}
	err := r.db.QueryRow(query, productID).Scan(
		&product.ID,
		&product.Name,
		&product.Quantity,
		&product.Price,
		&product.ReorderThreshold,
		&product.Description,
		&product.Category,
		&product.Vendor,
		&product.ImageURL,
		&product.LowStockFlag,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, domain.NotFound("Product not found")
	}
	if err != nil {
		return nil, err
	}

	return product, nil
}

func (r *ProductRepository) ListProducts() ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product := &domain.Product{}
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Quantity,
			&product.Price,
			&product.ReorderThreshold,
			&product.Description,
			&product.Category,
			&product.Vendor,
			&product.ImageURL,
			&product.LowStockFlag,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, rows.Err()
}
