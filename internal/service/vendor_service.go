package service

import (
	"context"
	"fmt"

	"jewelshop/internal/models"
	"jewelshop/internal/store"
	"jewelshop/internal/util"

	"go.uber.org/zap"
)

var vendorItemStatuses = map[string]bool{
	models.OrderStatusPending:    true,
	models.OrderStatusProcessing: true,
	models.OrderStatusShipped:    true,
	models.OrderStatusDelivered:  true,
	models.OrderStatusCancelled:  true,
}

// VendorService drives the vendor fulfillment portal: a vendor's own order
// items, their per-item status and tracking, and the earnings summary.
type VendorService struct {
	vendors VendorStore
	logger  *zap.Logger
}

// NewVendorService creates a new vendor service
func NewVendorService(vendors VendorStore) *VendorService {
	return &VendorService{
		vendors: vendors,
		logger:  util.GetLogger(),
	}
}

// ListItems returns the vendor's order items, optionally filtered by
// status.
func (s *VendorService) ListItems(ctx context.Context, vendorID int64, status string) ([]models.VendorOrderItem, error) {
	if status != "" && !vendorItemStatuses[status] {
		return nil, ValidationErrors{{Field: "status", Message: "unknown status"}}
	}
	return s.vendors.GetVendorOrderItems(ctx, vendorID, status)
}

// UpdateItemStatus records a fulfillment update on one of the vendor's own
// items. Items belonging to another vendor read as not found.
func (s *VendorService) UpdateItemStatus(ctx context.Context, vendorID, itemID int64, status, trackingNumber, shippingProvider string) error {
	if !vendorItemStatuses[status] {
		return ValidationErrors{{Field: "status", Message: "unknown status"}}
	}

	item, err := s.vendors.GetVendorOrderItemByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to load vendor order item: %w", err)
	}
	if item == nil || item.VendorID != vendorID {
		return ErrNotFound
	}

	if err := s.vendors.UpdateVendorOrderItemStatus(ctx, itemID, status, trackingNumber, shippingProvider); err != nil {
		return fmt.Errorf("failed to update vendor order item: %w", err)
	}

	util.VendorItemsUpdatedTotal.Inc()
	s.logger.Info("Vendor item status updated",
		zap.Int64("vendor_id", vendorID),
		zap.Int64("item_id", itemID),
		zap.String("status", status))

	return nil
}

// Summary returns item counts and revenue aggregates for the vendor
// dashboard.
func (s *VendorService) Summary(ctx context.Context, vendorID int64) (*store.VendorSummary, error) {
	return s.vendors.GetVendorSummary(ctx, vendorID)
}
