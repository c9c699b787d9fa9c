package service

import (
	"context"

	"jewelshop/internal/models"
	"jewelshop/internal/session"
	"jewelshop/internal/store"
)

// Store ports consumed by the services. *store.Store satisfies all of them;
// tests substitute in-memory fakes.

type ProductStore interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	SetProductStock(ctx context.Context, id int64, stock int) (bool, error)
}

type CartStore interface {
	GetCartLines(ctx context.Context, userID int64) ([]models.CartLine, error)
	GetCartItem(ctx context.Context, userID, productID int64) (*models.CartItem, error)
	GetCartItemByID(ctx context.Context, id int64) (*models.CartItem, error)
	InsertCartItem(ctx context.Context, item *models.CartItem) error
	UpdateCartItemQuantity(ctx context.Context, id int64, quantity int) error
	DeleteCartItem(ctx context.Context, id int64) error
	ClearCart(ctx context.Context, userID int64) error
	CartCount(ctx context.Context, userID int64) (int, error)
}

type OrderStore interface {
	PlaceOrder(ctx context.Context, placement *store.OrderPlacement) error
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	GetOrderAddress(ctx context.Context, orderID int64) (*models.OrderAddress, error)
	GetOrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error)
	UpdateOrderStatusFrom(ctx context.Context, orderID int64, fromStatus, toStatus string) (bool, error)
}

type VendorStore interface {
	GetVendorsByIDs(ctx context.Context, ids []int64) (map[int64]models.Vendor, error)
	GetVendorByUserID(ctx context.Context, userID int64) (*models.Vendor, error)
	GetVendorOrderItems(ctx context.Context, vendorID int64, status string) ([]models.VendorOrderItem, error)
	GetVendorOrderItemByID(ctx context.Context, id int64) (*models.VendorOrderItem, error)
	UpdateVendorOrderItemStatus(ctx context.Context, id int64, status, trackingNumber, shippingProvider string) error
	GetVendorSummary(ctx context.Context, vendorID int64) (*store.VendorSummary, error)
}

type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// SessionStore is the authenticated-session collaborator.
type SessionStore interface {
	Create(ctx context.Context, sess *session.Session) error
	Delete(ctx context.Context, token string) error
}

// EventPublisher pushes domain events to downstream consumers after the
// database transaction has committed.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
}
