package service

import (
	"context"
	"fmt"

	"jewelshop/internal/models"
	"jewelshop/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartService implements the cart aggregate: per-user pending-purchase
// lines with best-effort live-stock checks. The hard stock guarantee lives
// in the checkout transaction, not here.
type CartService struct {
	carts    CartStore
	products ProductStore
	pricing  Pricing
	logger   *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(carts CartStore, products ProductStore, pricing Pricing) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		pricing:  pricing,
		logger:   util.GetLogger(),
	}
}

// CartSummary totals a cart. Total is subtotal plus shipping; tax is only
// applied at checkout.
type CartSummary struct {
	ItemCount    int             `json:"item_count"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Total        decimal.Decimal `json:"total"`
}

// CartLineView is a cart line with its computed subtotal.
type CartLineView struct {
	models.CartLine
	Subtotal decimal.Decimal `json:"subtotal"`
}

// CartView is the full cart contents plus totals.
type CartView struct {
	Items []CartLineView `json:"items"`
	CartSummary
}

// UpdateResult reports the recomputed line and cart totals after a
// quantity change.
type UpdateResult struct {
	LineSubtotal decimal.Decimal `json:"subtotal"`
	CartSummary
}

func (s *CartService) summarize(lines []models.CartLine) CartSummary {
	summary := CartSummary{
		Subtotal:     decimal.Zero,
		ShippingCost: decimal.Zero,
		Total:        decimal.Zero,
	}
	for _, line := range lines {
		summary.ItemCount += line.Quantity
		summary.Subtotal = summary.Subtotal.Add(line.Subtotal())
	}
	if summary.ItemCount == 0 {
		return summary
	}
	summary.ShippingCost = s.pricing.ShippingCost(summary.Subtotal)
	summary.Total = summary.Subtotal.Add(summary.ShippingCost)
	return summary
}

// Add puts a product in the user's cart, or increments the existing line.
// Returns the updated cart item count.
func (s *CartService) Add(ctx context.Context, userID, productID int64, quantity int) (int, error) {
	ctx, span := util.StartSpan(ctx, "CartService.Add")
	defer span.End()

	var verr ValidationErrors
	if productID <= 0 {
		verr.add("product_id", "invalid product ID")
	}
	if quantity <= 0 {
		verr.add("quantity", "quantity must be greater than zero")
	}
	if len(verr) > 0 {
		return 0, verr
	}

	product, err := s.products.GetProductByID(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil || product.Status != models.ProductStatusActive {
		return 0, ErrNotFound
	}
	if product.Stock == 0 {
		return 0, ErrOutOfStock
	}

	// Best-effort check against live stock. New quantity counts whatever
	// is already in the cart for this product.
	existing, err := s.carts.GetCartItem(ctx, userID, productID)
	if err != nil {
		return 0, fmt.Errorf("failed to load cart line: %w", err)
	}

	newQuantity := quantity
	if existing != nil {
		newQuantity += existing.Quantity
	}
	if newQuantity > product.Stock {
		return 0, &InsufficientStockError{ProductID: productID, Available: product.Stock}
	}

	if existing != nil {
		if err := s.carts.UpdateCartItemQuantity(ctx, existing.ID, newQuantity); err != nil {
			return 0, fmt.Errorf("failed to update cart line: %w", err)
		}
	} else {
		item := &models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
		if err := s.carts.InsertCartItem(ctx, item); err != nil {
			return 0, fmt.Errorf("failed to insert cart line: %w", err)
		}
	}

	util.CartOperationsTotal.WithLabelValues("add").Inc()

	return s.carts.CartCount(ctx, userID)
}

// Update sets a cart line's quantity. The line must belong to the
// requesting user; a line ID alone is not authorization.
func (s *CartService) Update(ctx context.Context, userID, cartItemID int64, quantity int) (*UpdateResult, error) {
	ctx, span := util.StartSpan(ctx, "CartService.Update")
	defer span.End()

	if quantity <= 0 {
		return nil, ValidationErrors{{Field: "quantity", Message: "quantity must be greater than zero"}}
	}

	item, err := s.carts.GetCartItemByID(ctx, cartItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart line: %w", err)
	}
	if item == nil || item.UserID != userID {
		return nil, ErrNotFound
	}

	product, err := s.products.GetProductByID(ctx, item.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, ErrNotFound
	}
	if quantity > product.Stock {
		return nil, &InsufficientStockError{ProductID: product.ID, Available: product.Stock}
	}

	if err := s.carts.UpdateCartItemQuantity(ctx, item.ID, quantity); err != nil {
		return nil, fmt.Errorf("failed to update cart line: %w", err)
	}

	util.CartOperationsTotal.WithLabelValues("update").Inc()

	lines, err := s.carts.GetCartLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	return &UpdateResult{
		LineSubtotal: product.Price.Mul(decimal.NewFromInt(int64(quantity))),
		CartSummary:  s.summarize(lines),
	}, nil
}

// Remove deletes one cart line. Missing or foreign lines are ErrNotFound.
func (s *CartService) Remove(ctx context.Context, userID, cartItemID int64) (*CartSummary, error) {
	item, err := s.carts.GetCartItemByID(ctx, cartItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart line: %w", err)
	}
	if item == nil || item.UserID != userID {
		return nil, ErrNotFound
	}

	if err := s.carts.DeleteCartItem(ctx, item.ID); err != nil {
		return nil, fmt.Errorf("failed to delete cart line: %w", err)
	}

	util.CartOperationsTotal.WithLabelValues("remove").Inc()

	lines, err := s.carts.GetCartLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	summary := s.summarize(lines)
	return &summary, nil
}

// Clear empties the user's cart. Clearing an already-empty cart is a no-op.
func (s *CartService) Clear(ctx context.Context, userID int64) error {
	if err := s.carts.ClearCart(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	util.CartOperationsTotal.WithLabelValues("clear").Inc()
	return nil
}

// Get returns the cart contents with per-line and cart totals.
func (s *CartService) Get(ctx context.Context, userID int64) (*CartView, error) {
	lines, err := s.carts.GetCartLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	view := &CartView{
		Items:       make([]CartLineView, 0, len(lines)),
		CartSummary: s.summarize(lines),
	}
	for _, line := range lines {
		view.Items = append(view.Items, CartLineView{CartLine: line, Subtotal: line.Subtotal()})
	}
	return view, nil
}
