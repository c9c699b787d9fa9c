package store

import (
	"context"
	"database/sql"
	"fmt"

	"jewelshop/internal/models"
)

// StockConflictError is returned by PlaceOrder when a conditional stock
// decrement would drive a product's stock negative. The whole transaction
// is rolled back.
type StockConflictError struct {
	ProductID int64
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("stock conflict for product %d", e.ProductID)
}

// OrderLine pairs an order item snapshot with its vendor commission split.
// VendorSplit is nil for platform-owned products.
type OrderLine struct {
	Item        models.OrderItem
	VendorSplit *models.VendorOrderItem
}

// OrderPlacement is the full input of one checkout transaction.
type OrderPlacement struct {
	UserID  int64
	Order   *models.Order
	Address *models.OrderAddress
	Lines   []OrderLine
}

// PlaceOrder executes the checkout transaction: order row, address
// snapshot, line item snapshots, conditional stock decrements, vendor
// commission splits, cart clear. Everything commits or nothing does.
//
// Stock is decremented with `... AND stock >= $qty` so two concurrent
// checkouts can never oversell; the loser gets a StockConflictError.
func (s *Store) PlaceOrder(ctx context.Context, p *OrderPlacement) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin checkout transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.GetContext(ctx, p.Order, `
		INSERT INTO orders (user_id, subtotal, shipping_cost, tax_amount, total_amount, payment_method, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		p.Order.UserID, p.Order.Subtotal, p.Order.ShippingCost, p.Order.TaxAmount,
		p.Order.TotalAmount, p.Order.PaymentMethod, p.Order.Status)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	p.Address.OrderID = p.Order.ID
	_, err = tx.ExecContext(ctx, `
		INSERT INTO order_addresses (order_id, address_line1, address_line2, city, state, postal_code, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.Address.OrderID, p.Address.AddressLine1, p.Address.AddressLine2,
		p.Address.City, p.Address.State, p.Address.PostalCode, p.Address.Country)
	if err != nil {
		return fmt.Errorf("failed to insert order address: %w", err)
	}

	for i := range p.Lines {
		line := &p.Lines[i]
		line.Item.OrderID = p.Order.ID

		err = tx.GetContext(ctx, &line.Item.ID, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			line.Item.OrderID, line.Item.ProductID, line.Item.Quantity,
			line.Item.UnitPrice, line.Item.Subtotal)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}

		res, err := tx.ExecContext(ctx,
			"UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1",
			line.Item.Quantity, line.Item.ProductID)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return &StockConflictError{ProductID: line.Item.ProductID}
		}

		if line.VendorSplit != nil {
			line.VendorSplit.OrderID = p.Order.ID
			line.VendorSplit.OrderItemID = line.Item.ID

			err = tx.GetContext(ctx, &line.VendorSplit.ID, `
				INSERT INTO vendor_order_items (order_item_id, order_id, vendor_id, vendor_amount, commission_amount, status)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id`,
				line.VendorSplit.OrderItemID, line.VendorSplit.OrderID, line.VendorSplit.VendorID,
				line.VendorSplit.VendorAmount, line.VendorSplit.CommissionAmount, line.VendorSplit.Status)
			if err != nil {
				return fmt.Errorf("failed to insert vendor order item: %w", err)
			}
		}
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = $1", p.UserID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return tx.Commit()
}

// GetOrderByID retrieves an order by ID. Returns (nil, nil) when absent.
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderItems retrieves all line items for an order
func (s *Store) GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	return items, err
}

// GetOrderAddress retrieves the shipping address snapshot for an order
func (s *Store) GetOrderAddress(ctx context.Context, orderID int64) (*models.OrderAddress, error) {
	var addr models.OrderAddress
	err := s.db.GetContext(ctx, &addr,
		"SELECT * FROM order_addresses WHERE order_id = $1", orderID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

// GetOrdersByUserID retrieves a user's orders, newest first
func (s *Store) GetOrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return orders, err
}

// UpdateOrderStatusFrom moves an order from one status to another. The
// WHERE clause guards against a concurrent transition; the caller learns
// from the return value whether the order was still in fromStatus.
func (s *Store) UpdateOrderStatusFrom(ctx context.Context, orderID int64, fromStatus, toStatus string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3",
		toStatus, orderID, fromStatus)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
