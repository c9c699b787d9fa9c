package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"jewelshop/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetProductByID retrieves a product by ID. Returns (nil, nil) when the
// product does not exist.
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductBySKU retrieves a product by SKU. Returns (nil, nil) when the
// product does not exist.
func (s *Store) GetProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE sku = $1", sku)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts retrieves all active products
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE status = $1 ORDER BY id", models.ProductStatusActive)
	return products, err
}

// SetProductStock sets an absolute stock level (admin/vendor inventory
// edit). Reports whether a row was updated.
func (s *Store) SetProductStock(ctx context.Context, id int64, stock int) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE products SET stock = $1 WHERE id = $2", stock, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
