package service

import (
	"context"
	"testing"

	"jewelshop/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fakeStore) addVendorItem(vendorID int64, status, vendorAmount string) *models.VendorOrderItem {
	f.vendorSeq++
	item := &models.VendorOrderItem{
		ID:           f.vendorSeq,
		VendorID:     vendorID,
		Status:       status,
		VendorAmount: dec(vendorAmount),
	}
	f.vendorItems[item.ID] = item
	return item
}

func TestVendorListItems(t *testing.T) {
	fs := newFakeStore()
	svc := NewVendorService(fs)

	fs.addVendorItem(7, models.OrderStatusPending, "10.00")
	fs.addVendorItem(7, models.OrderStatusShipped, "20.00")
	fs.addVendorItem(8, models.OrderStatusPending, "30.00")

	items, err := svc.ListItems(context.Background(), 7, "")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = svc.ListItems(context.Background(), 7, models.OrderStatusShipped)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assertDecimal(t, "20.00", items[0].VendorAmount)

	_, err = svc.ListItems(context.Background(), 7, "misplaced")
	var verr ValidationErrors
	assert.ErrorAs(t, err, &verr)
}

func TestVendorUpdateItemStatus(t *testing.T) {
	fs := newFakeStore()
	svc := NewVendorService(fs)

	item := fs.addVendorItem(7, models.OrderStatusPending, "10.00")

	err := svc.UpdateItemStatus(context.Background(), 7, item.ID, models.OrderStatusShipped, "TRK123", "UPS")
	require.NoError(t, err)

	got := fs.vendorItems[item.ID]
	assert.Equal(t, models.OrderStatusShipped, got.Status)
	require.NotNil(t, got.TrackingNumber)
	assert.Equal(t, "TRK123", *got.TrackingNumber)
	require.NotNil(t, got.ShippingProvider)
	assert.Equal(t, "UPS", *got.ShippingProvider)
	assert.NotNil(t, got.ProcessedAt)
}

func TestVendorUpdateItemStatusOwnership(t *testing.T) {
	fs := newFakeStore()
	svc := NewVendorService(fs)

	item := fs.addVendorItem(7, models.OrderStatusPending, "10.00")

	// another vendor's item reads as not found
	err := svc.UpdateItemStatus(context.Background(), 8, item.ID, models.OrderStatusShipped, "", "")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, models.OrderStatusPending, fs.vendorItems[item.ID].Status)

	err = svc.UpdateItemStatus(context.Background(), 7, 404, models.OrderStatusShipped, "", "")
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.UpdateItemStatus(context.Background(), 7, item.ID, "misplaced", "", "")
	var verr ValidationErrors
	assert.ErrorAs(t, err, &verr)
}

func TestVendorSummary(t *testing.T) {
	fs := newFakeStore()
	svc := NewVendorService(fs)

	fs.addVendorItem(7, models.OrderStatusPending, "10.00")
	fs.addVendorItem(7, models.OrderStatusShipped, "20.00")
	fs.addVendorItem(7, models.OrderStatusDelivered, "84.99")
	fs.addVendorItem(8, models.OrderStatusPending, "500.00")

	summary, err := svc.Summary(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, 1, summary.PendingItems)
	assert.Equal(t, 1, summary.ShippedItems)
	assert.Equal(t, 1, summary.DeliveredItems)
	assertDecimal(t, "114.99", summary.TotalRevenue)
}
