package service

import (
	"context"
	"testing"

	"jewelshop/internal/models"
	"jewelshop/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fakeStore) addOrder(userID int64, status string) *models.Order {
	f.orderSeq++
	o := &models.Order{
		ID:       f.orderSeq,
		UserID:   userID,
		Status:   status,
		Subtotal: dec("85.00"),
	}
	f.orders[o.ID] = o
	return o
}

func staffSession() *session.Session {
	return &session.Session{Token: "t", UserID: 900, Role: models.RoleStaff}
}

func managerSession() *session.Session {
	return &session.Session{Token: "t", UserID: 901, Role: models.RoleManager}
}

func customerSession(userID int64) *session.Session {
	return &session.Session{Token: "t", UserID: userID, Role: models.RoleCustomer}
}

func TestOrderUpdateStatus(t *testing.T) {
	fs := newFakeStore()
	pub := &fakePublisher{}
	svc := NewOrderService(fs, pub)

	order := fs.addOrder(10, models.OrderStatusPending)

	next, err := svc.UpdateStatus(context.Background(), staffSession(), order.ID, ActionProcess)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, next)
	assert.Equal(t, models.OrderStatusProcessing, fs.orders[order.ID].Status)

	require.Len(t, pub.statusChanged, 1)
	assert.Equal(t, models.OrderStatusPending, pub.statusChanged[0].OldStatus)
	assert.Equal(t, models.OrderStatusProcessing, pub.statusChanged[0].NewStatus)
}

func TestOrderUpdateStatusIllegalTransition(t *testing.T) {
	fs := newFakeStore()
	svc := NewOrderService(fs, &fakePublisher{})

	order := fs.addOrder(10, models.OrderStatusPending)

	// pending cannot ship directly
	_, err := svc.UpdateStatus(context.Background(), staffSession(), order.ID, ActionShip)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, models.OrderStatusPending, fs.orders[order.ID].Status)

	// delivered is terminal, even for cancel
	delivered := fs.addOrder(10, models.OrderStatusDelivered)
	_, err = svc.UpdateStatus(context.Background(), managerSession(), delivered.ID, ActionCancel)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestOrderUpdateStatusRoles(t *testing.T) {
	fs := newFakeStore()
	svc := NewOrderService(fs, &fakePublisher{})

	order := fs.addOrder(10, models.OrderStatusPending)

	// customers never drive the state machine, not even on their own order
	_, err := svc.UpdateStatus(context.Background(), customerSession(10), order.ID, ActionProcess)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// staff cannot cancel
	_, err = svc.UpdateStatus(context.Background(), staffSession(), order.ID, ActionCancel)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// manager can
	next, err := svc.UpdateStatus(context.Background(), managerSession(), order.ID, ActionCancel)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, next)
}

func TestOrderUpdateStatusNotFound(t *testing.T) {
	fs := newFakeStore()
	svc := NewOrderService(fs, &fakePublisher{})

	_, err := svc.UpdateStatus(context.Background(), staffSession(), 404, ActionProcess)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderBulkUpdateStatus(t *testing.T) {
	fs := newFakeStore()
	pub := &fakePublisher{}
	svc := NewOrderService(fs, pub)

	a := fs.addOrder(10, models.OrderStatusPending)
	b := fs.addOrder(11, models.OrderStatusShipped) // ineligible for process
	c := fs.addOrder(12, models.OrderStatusPending)

	updated, err := svc.BulkUpdateStatus(context.Background(), staffSession(), []int64{a.ID, b.ID, c.ID, 404}, ActionProcess)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	assert.Equal(t, models.OrderStatusProcessing, fs.orders[a.ID].Status)
	assert.Equal(t, models.OrderStatusShipped, fs.orders[b.ID].Status)
	assert.Equal(t, models.OrderStatusProcessing, fs.orders[c.ID].Status)
	assert.Len(t, pub.statusChanged, 2)
}

func TestOrderBulkUpdateStatusUnauthorized(t *testing.T) {
	fs := newFakeStore()
	svc := NewOrderService(fs, &fakePublisher{})

	order := fs.addOrder(10, models.OrderStatusPending)

	_, err := svc.BulkUpdateStatus(context.Background(), staffSession(), []int64{order.ID}, ActionCancel)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, models.OrderStatusPending, fs.orders[order.ID].Status)
}

func TestGetOrderOwnership(t *testing.T) {
	fs := newFakeStore()
	svc := NewOrderService(fs, &fakePublisher{})

	order := fs.addOrder(10, models.OrderStatusPending)
	fs.addresses[order.ID] = &models.OrderAddress{OrderID: order.ID, City: "Portland"}
	fs.orderItems[order.ID] = []models.OrderItem{{ID: 1, OrderID: order.ID, ProductID: 1, Quantity: 2}}

	t.Run("owner", func(t *testing.T) {
		detail, err := svc.GetOrder(context.Background(), customerSession(10), order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.ID, detail.Order.ID)
		assert.Len(t, detail.Items, 1)
		require.NotNil(t, detail.Address)
		assert.Equal(t, "Portland", detail.Address.City)
	})

	t.Run("foreign customer reads not found", func(t *testing.T) {
		_, err := svc.GetOrder(context.Background(), customerSession(99), order.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("back office sees all", func(t *testing.T) {
		detail, err := svc.GetOrder(context.Background(), staffSession(), order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.ID, detail.Order.ID)
	})

	t.Run("missing order", func(t *testing.T) {
		_, err := svc.GetOrder(context.Background(), staffSession(), 404)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListOrdersNewestFirst(t *testing.T) {
	fs := newFakeStore()
	svc := NewOrderService(fs, &fakePublisher{})

	first := fs.addOrder(10, models.OrderStatusDelivered)
	second := fs.addOrder(10, models.OrderStatusPending)
	fs.addOrder(99, models.OrderStatusPending)

	orders, err := svc.ListOrders(context.Background(), customerSession(10))
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
}
