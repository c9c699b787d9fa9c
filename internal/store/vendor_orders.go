package store

import (
	"context"
	"database/sql"

	"jewelshop/internal/models"

	"github.com/shopspring/decimal"
)

// VendorSummary aggregates a vendor's fulfillment queue and earnings.
type VendorSummary struct {
	TotalItems     int             `db:"total_items" json:"total_items"`
	PendingItems   int             `db:"pending_items" json:"pending_items"`
	ShippedItems   int             `db:"shipped_items" json:"shipped_items"`
	DeliveredItems int             `db:"delivered_items" json:"delivered_items"`
	TotalRevenue   decimal.Decimal `db:"total_revenue" json:"total_revenue"`
	MonthlyRevenue decimal.Decimal `db:"monthly_revenue" json:"monthly_revenue"`
}

// GetVendorOrderItems retrieves a vendor's order items, optionally
// filtered by status, newest first.
func (s *Store) GetVendorOrderItems(ctx context.Context, vendorID int64, status string) ([]models.VendorOrderItem, error) {
	var items []models.VendorOrderItem
	if status != "" {
		err := s.db.SelectContext(ctx, &items, `
			SELECT * FROM vendor_order_items
			WHERE vendor_id = $1 AND status = $2
			ORDER BY created_at DESC`, vendorID, status)
		return items, err
	}
	err := s.db.SelectContext(ctx, &items, `
		SELECT * FROM vendor_order_items
		WHERE vendor_id = $1
		ORDER BY created_at DESC`, vendorID)
	return items, err
}

// GetVendorOrderItemByID retrieves one vendor order item. Returns
// (nil, nil) when absent.
func (s *Store) GetVendorOrderItemByID(ctx context.Context, id int64) (*models.VendorOrderItem, error) {
	var item models.VendorOrderItem
	err := s.db.GetContext(ctx, &item, "SELECT * FROM vendor_order_items WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateVendorOrderItemStatus records a vendor fulfillment update with
// optional tracking details and stamps processed_at.
func (s *Store) UpdateVendorOrderItemStatus(ctx context.Context, id int64, status, trackingNumber, shippingProvider string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE vendor_order_items
		SET status = $1,
		    tracking_number = NULLIF($2, ''),
		    shipping_provider = NULLIF($3, ''),
		    processed_at = NOW()
		WHERE id = $4`,
		status, trackingNumber, shippingProvider, id)
	return err
}

// GetVendorSummary aggregates item counts by status and revenue totals for
// a vendor's dashboard.
func (s *Store) GetVendorSummary(ctx context.Context, vendorID int64) (*VendorSummary, error) {
	var summary VendorSummary
	err := s.db.GetContext(ctx, &summary, `
		SELECT
			COUNT(*) AS total_items,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending_items,
			COUNT(*) FILTER (WHERE status = 'shipped') AS shipped_items,
			COUNT(*) FILTER (WHERE status = 'delivered') AS delivered_items,
			COALESCE(SUM(vendor_amount), 0) AS total_revenue,
			COALESCE(SUM(vendor_amount) FILTER (
				WHERE date_trunc('month', created_at) = date_trunc('month', NOW())
			), 0) AS monthly_revenue
		FROM vendor_order_items
		WHERE vendor_id = $1`, vendorID)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
