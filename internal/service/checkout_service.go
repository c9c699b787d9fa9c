package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"jewelshop/internal/models"
	"jewelshop/internal/store"
	"jewelshop/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	cardNumberRe = regexp.MustCompile(`^\d{16}$`)
	expiryRe     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRe        = regexp.MustCompile(`^\d{3,4}$`)
)

// CheckoutService turns a cart into an order inside one atomic
// transaction: totals recomputed server-side, stock decremented
// conditionally, commission splits written for vendor-owned lines,
// cart cleared.
type CheckoutService struct {
	carts     CartStore
	orders    OrderStore
	vendors   VendorStore
	products  ProductStore
	publisher EventPublisher
	pricing   Pricing
	logger    *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	carts CartStore,
	orders OrderStore,
	vendors VendorStore,
	products ProductStore,
	publisher EventPublisher,
	pricing Pricing,
) *CheckoutService {
	return &CheckoutService{
		carts:     carts,
		orders:    orders,
		vendors:   vendors,
		products:  products,
		publisher: publisher,
		pricing:   pricing,
		logger:    util.GetLogger(),
	}
}

// CheckoutRequest carries the shipping address and payment intent. Card
// fields are validated for shape only; no gateway is called and nothing
// beyond the method name is stored.
type CheckoutRequest struct {
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`

	PaymentMethod string `json:"payment_method"`
	NameOnCard    string `json:"name_on_card"`
	CardNumber    string `json:"card_number"`
	ExpiryDate    string `json:"expiry_date"`
	CVV           string `json:"cvv"`
}

func (r *CheckoutRequest) validate() ValidationErrors {
	var verr ValidationErrors

	switch r.PaymentMethod {
	case "":
		verr.add("payment_method", "payment method is required")
	case models.PaymentMethodCreditCard:
		if strings.TrimSpace(r.NameOnCard) == "" {
			verr.add("name_on_card", "name on card is required")
		}
		if !cardNumberRe.MatchString(strings.ReplaceAll(r.CardNumber, " ", "")) {
			verr.add("card_number", "invalid card number")
		}
		if !expiryRe.MatchString(r.ExpiryDate) {
			verr.add("expiry_date", "invalid expiry date, use MM/YY format")
		}
		if !cvvRe.MatchString(r.CVV) {
			verr.add("cvv", "invalid CVV")
		}
	case models.PaymentMethodCashOnDelivery:
		// nothing extra to validate
	default:
		verr.add("payment_method", "unsupported payment method")
	}

	required := []struct{ field, value string }{
		{"address_line1", r.AddressLine1},
		{"city", r.City},
		{"state", r.State},
		{"postal_code", r.PostalCode},
		{"country", r.Country},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			verr.add(f.field, f.field+" is required")
		}
	}

	return verr
}

// Checkout places an order from the user's current cart. On success the
// new order ID is returned; on any transactional failure the store is left
// exactly as it was and the caller sees a domain error.
func (s *CheckoutService) Checkout(ctx context.Context, userID int64, req *CheckoutRequest) (int64, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.Checkout")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutLatency.Observe(time.Since(start).Seconds())
	}()

	if verr := req.validate(); len(verr) > 0 {
		util.CheckoutFailedTotal.WithLabelValues("validation").Inc()
		return 0, verr
	}

	lines, err := s.carts.GetCartLines(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(lines) == 0 {
		util.CheckoutFailedTotal.WithLabelValues("empty_cart").Inc()
		return 0, ErrEmptyCart
	}

	// Totals come from live cart data, never from the client.
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Subtotal())
	}
	shippingCost := s.pricing.ShippingCost(subtotal)
	taxAmount := s.pricing.Tax(subtotal)
	totalAmount := subtotal.Add(shippingCost).Add(taxAmount)

	vendorsByID, err := s.vendorsForLines(ctx, lines)
	if err != nil {
		util.CheckoutFailedTotal.WithLabelValues("internal").Inc()
		s.logger.Error("Checkout failed loading vendors", zap.Int64("user_id", userID), zap.Error(err))
		return 0, ErrCheckoutFailed
	}

	placement := &store.OrderPlacement{
		UserID: userID,
		Order: &models.Order{
			UserID:        userID,
			Subtotal:      subtotal,
			ShippingCost:  shippingCost,
			TaxAmount:     taxAmount,
			TotalAmount:   totalAmount,
			PaymentMethod: req.PaymentMethod,
			Status:        models.OrderStatusPending,
		},
		Address: &models.OrderAddress{
			AddressLine1: req.AddressLine1,
			AddressLine2: req.AddressLine2,
			City:         req.City,
			State:        req.State,
			PostalCode:   req.PostalCode,
			Country:      req.Country,
		},
		Lines: make([]store.OrderLine, 0, len(lines)),
	}

	for _, line := range lines {
		lineSubtotal := line.Subtotal()
		orderLine := store.OrderLine{
			Item: models.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				Subtotal:  lineSubtotal,
			},
		}

		if line.VendorID != nil {
			vendor, ok := vendorsByID[*line.VendorID]
			if !ok {
				util.CheckoutFailedTotal.WithLabelValues("internal").Inc()
				s.logger.Error("Checkout failed: vendor record missing",
					zap.Int64("product_id", line.ProductID),
					zap.Int64("vendor_id", *line.VendorID))
				return 0, ErrCheckoutFailed
			}

			vendorAmount, commissionAmount := SplitCommission(lineSubtotal, vendor.CommissionRate)
			orderLine.VendorSplit = &models.VendorOrderItem{
				VendorID:         vendor.ID,
				VendorAmount:     vendorAmount,
				CommissionAmount: commissionAmount,
				Status:           models.OrderStatusPending,
			}
		}

		placement.Lines = append(placement.Lines, orderLine)
	}

	if err := s.orders.PlaceOrder(ctx, placement); err != nil {
		var conflict *store.StockConflictError
		if errors.As(err, &conflict) {
			util.CheckoutFailedTotal.WithLabelValues("insufficient_stock").Inc()
			util.StockConflictsTotal.Inc()
			return 0, s.stockShortfall(ctx, conflict.ProductID)
		}
		util.CheckoutFailedTotal.WithLabelValues("db_error").Inc()
		s.logger.Error("Checkout transaction failed", zap.Int64("user_id", userID), zap.Error(err))
		return 0, ErrCheckoutFailed
	}

	util.OrdersPlacedTotal.Inc()
	s.logger.Info("Order placed",
		zap.Int64("order_id", placement.Order.ID),
		zap.Int64("user_id", userID),
		zap.String("total", totalAmount.StringFixed(2)))

	s.publishOrderPlaced(ctx, placement)

	return placement.Order.ID, nil
}

// stockShortfall reports how many units are actually left for the product
// that lost the conditional decrement.
func (s *CheckoutService) stockShortfall(ctx context.Context, productID int64) error {
	available := 0
	if product, err := s.products.GetProductByID(ctx, productID); err == nil && product != nil {
		available = product.Stock
	}
	return &InsufficientStockError{ProductID: productID, Available: available}
}

func (s *CheckoutService) vendorsForLines(ctx context.Context, lines []models.CartLine) (map[int64]models.Vendor, error) {
	seen := make(map[int64]bool)
	var ids []int64
	for _, line := range lines {
		if line.VendorID != nil && !seen[*line.VendorID] {
			seen[*line.VendorID] = true
			ids = append(ids, *line.VendorID)
		}
	}
	if len(ids) == 0 {
		return map[int64]models.Vendor{}, nil
	}
	return s.vendors.GetVendorsByIDs(ctx, ids)
}

func (s *CheckoutService) publishOrderPlaced(ctx context.Context, placement *store.OrderPlacement) {
	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		OrderID:     placement.Order.ID,
		UserID:      placement.Order.UserID,
		TotalAmount: placement.Order.TotalAmount,
		Items:       make([]models.OrderLineData, 0, len(placement.Lines)),
	}
	for _, line := range placement.Lines {
		event.Items = append(event.Items, models.OrderLineData{
			ProductID: line.Item.ProductID,
			Quantity:  line.Item.Quantity,
			UnitPrice: line.Item.UnitPrice,
		})
	}

	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event",
			zap.Int64("order_id", placement.Order.ID), zap.Error(err))
	}
}
