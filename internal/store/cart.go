package store

import (
	"context"
	"database/sql"

	"jewelshop/internal/models"
)

// GetCartLines retrieves a user's cart joined with live product data
func (s *Store) GetCartLines(ctx context.Context, userID int64) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := s.db.SelectContext(ctx, &lines, `
		SELECT c.id, c.product_id, c.quantity,
		       p.name, p.price AS unit_price, p.stock, p.vendor_id
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.id`, userID)
	return lines, err
}

// GetCartItem retrieves the cart line for (user, product). Returns
// (nil, nil) when absent.
func (s *Store) GetCartItem(ctx context.Context, userID, productID int64) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.GetContext(ctx, &item,
		"SELECT * FROM cart_items WHERE user_id = $1 AND product_id = $2", userID, productID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetCartItemByID retrieves a cart line by its ID. Returns (nil, nil) when
// absent. Ownership is checked by the caller.
func (s *Store) GetCartItemByID(ctx context.Context, id int64) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.GetContext(ctx, &item, "SELECT * FROM cart_items WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// InsertCartItem creates a new cart line
func (s *Store) InsertCartItem(ctx context.Context, item *models.CartItem) error {
	query := `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, item, query, item.UserID, item.ProductID, item.Quantity)
}

// UpdateCartItemQuantity sets a cart line's quantity
func (s *Store) UpdateCartItemQuantity(ctx context.Context, id int64, quantity int) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE cart_items SET quantity = $1, updated_at = NOW() WHERE id = $2", quantity, id)
	return err
}

// DeleteCartItem removes a cart line
func (s *Store) DeleteCartItem(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM cart_items WHERE id = $1", id)
	return err
}

// ClearCart removes all of a user's cart lines
func (s *Store) ClearCart(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = $1", userID)
	return err
}

// CartCount returns the total quantity across a user's cart lines
func (s *Store) CartCount(ctx context.Context, userID int64) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COALESCE(SUM(quantity), 0) FROM cart_items WHERE user_id = $1", userID)
	return count, err
}
