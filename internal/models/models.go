package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role identifies what a user is allowed to do.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
)

// User statuses
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User represents a platform account of any role.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Vendor represents a third-party seller. CommissionRate is the percentage
// of each sale retained by the platform, 0-100.
type Vendor struct {
	ID             int64           `db:"id" json:"id"`
	UserID         int64           `db:"user_id" json:"user_id"`
	BusinessName   string          `db:"business_name" json:"business_name"`
	CommissionRate decimal.Decimal `db:"commission_rate" json:"commission_rate"`
	Status         string          `db:"status" json:"status"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// Product statuses
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// Product represents a catalog item. VendorID is nil for platform-owned
// products.
type Product struct {
	ID         int64           `db:"id" json:"id"`
	SKU        string          `db:"sku" json:"sku"`
	Name       string          `db:"name" json:"name"`
	Price      decimal.Decimal `db:"price" json:"price"`
	Stock      int             `db:"stock" json:"stock"`
	CategoryID int64           `db:"category_id" json:"category_id"`
	VendorID   *int64          `db:"vendor_id" json:"vendor_id,omitempty"`
	Status     string          `db:"status" json:"status"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// CartItem is one (user, product, quantity) pending-purchase record.
type CartItem struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CartLine is a cart item joined with live product data, as read at
// cart-view or checkout time.
type CartLine struct {
	ID        int64           `db:"id" json:"id"`
	ProductID int64           `db:"product_id" json:"product_id"`
	Name      string          `db:"name" json:"name"`
	Quantity  int             `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
	Stock     int             `db:"stock" json:"stock"`
	VendorID  *int64          `db:"vendor_id" json:"vendor_id,omitempty"`
}

// Subtotal is quantity x live unit price.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Order represents a placed order. Immutable after creation except for
// status and tracking_number.
type Order struct {
	ID             int64           `db:"id" json:"id"`
	UserID         int64           `db:"user_id" json:"user_id"`
	Subtotal       decimal.Decimal `db:"subtotal" json:"subtotal"`
	ShippingCost   decimal.Decimal `db:"shipping_cost" json:"shipping_cost"`
	TaxAmount      decimal.Decimal `db:"tax_amount" json:"tax_amount"`
	TotalAmount    decimal.Decimal `db:"total_amount" json:"total_amount"`
	PaymentMethod  string          `db:"payment_method" json:"payment_method"`
	Status         string          `db:"status" json:"status"`
	TrackingNumber *string         `db:"tracking_number" json:"tracking_number,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// OrderAddress is the shipping address snapshot taken at checkout time.
type OrderAddress struct {
	OrderID      int64  `db:"order_id" json:"order_id"`
	AddressLine1 string `db:"address_line1" json:"address_line1"`
	AddressLine2 string `db:"address_line2" json:"address_line2,omitempty"`
	City         string `db:"city" json:"city"`
	State        string `db:"state" json:"state"`
	PostalCode   string `db:"postal_code" json:"postal_code"`
	Country      string `db:"country" json:"country"`
}

// OrderItem is an immutable snapshot of a purchased product. UnitPrice is
// captured at order time and never recomputed from the live product price.
type OrderItem struct {
	ID        int64           `db:"id" json:"id"`
	OrderID   int64           `db:"order_id" json:"order_id"`
	ProductID int64           `db:"product_id" json:"product_id"`
	Quantity  int             `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
	Subtotal  decimal.Decimal `db:"subtotal" json:"subtotal"`
}

// VendorOrderItem is the per-vendor commission split for one order line.
// vendor_amount + commission_amount always equals the line subtotal. Its
// status tracks the vendor's own fulfillment, independent of the parent
// order's status.
type VendorOrderItem struct {
	ID               int64           `db:"id" json:"id"`
	OrderItemID      int64           `db:"order_item_id" json:"order_item_id"`
	OrderID          int64           `db:"order_id" json:"order_id"`
	VendorID         int64           `db:"vendor_id" json:"vendor_id"`
	VendorAmount     decimal.Decimal `db:"vendor_amount" json:"vendor_amount"`
	CommissionAmount decimal.Decimal `db:"commission_amount" json:"commission_amount"`
	Status           string          `db:"status" json:"status"`
	TrackingNumber   *string         `db:"tracking_number" json:"tracking_number,omitempty"`
	ShippingProvider *string         `db:"shipping_provider" json:"shipping_provider,omitempty"`
	ProcessedAt      *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

// Payment methods accepted at checkout. The platform records intent only;
// no gateway is called here.
const (
	PaymentMethodCreditCard     = "credit_card"
	PaymentMethodCashOnDelivery = "cash_on_delivery"
)
