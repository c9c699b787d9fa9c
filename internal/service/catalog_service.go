package service

import (
	"context"
	"fmt"

	"jewelshop/internal/models"
	"jewelshop/internal/session"
	"jewelshop/internal/util"

	"go.uber.org/zap"
)

// CatalogService exposes storefront product reads and the back-office
// stock edit. Full catalog CRUD lives elsewhere.
type CatalogService struct {
	products ProductStore
	logger   *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(products ProductStore) *CatalogService {
	return &CatalogService{
		products: products,
		logger:   util.GetLogger(),
	}
}

// ListProducts returns all active products.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.products.ListProducts(ctx)
}

// GetProduct returns one product.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// SetStock sets an absolute stock level. Back-office roles only; negative
// values are rejected so the stock invariant holds after every edit.
func (s *CatalogService) SetStock(ctx context.Context, sess *session.Session, productID int64, stock int) error {
	if !IsBackOffice(sess.Role) {
		return ErrUnauthorized
	}
	if stock < 0 {
		return ValidationErrors{{Field: "stock", Message: "stock cannot be negative"}}
	}

	updated, err := s.products.SetProductStock(ctx, productID, stock)
	if err != nil {
		return fmt.Errorf("failed to set stock: %w", err)
	}
	if !updated {
		return ErrNotFound
	}

	s.logger.Info("Product stock set",
		zap.Int64("product_id", productID),
		zap.Int("stock", stock),
		zap.Int64("actor_id", sess.UserID))

	return nil
}
