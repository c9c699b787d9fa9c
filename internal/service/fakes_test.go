package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"jewelshop/internal/models"
	"jewelshop/internal/session"
	"jewelshop/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// fakeStore is an in-memory stand-in for *store.Store. PlaceOrder applies
// the same all-or-nothing and conditional-decrement semantics as the real
// transaction so the atomicity and concurrency properties can be exercised
// without a database.
type fakeStore struct {
	mu sync.Mutex

	products map[int64]*models.Product
	vendors  map[int64]models.Vendor
	users    map[int64]*models.User

	cartSeq int64
	cart    map[int64]*models.CartItem

	orderSeq    int64
	orders      map[int64]*models.Order
	orderItems  map[int64][]models.OrderItem
	addresses   map[int64]*models.OrderAddress
	vendorSeq   int64
	vendorItems map[int64]*models.VendorOrderItem

	placeOrderErr error // injected transactional failure
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:    make(map[int64]*models.Product),
		vendors:     make(map[int64]models.Vendor),
		users:       make(map[int64]*models.User),
		cart:        make(map[int64]*models.CartItem),
		orders:      make(map[int64]*models.Order),
		orderItems:  make(map[int64][]models.OrderItem),
		addresses:   make(map[int64]*models.OrderAddress),
		vendorItems: make(map[int64]*models.VendorOrderItem),
	}
}

func (f *fakeStore) addProduct(id int64, price string, stock int, vendorID *int64) *models.Product {
	p := &models.Product{
		ID:     id,
		SKU:    "SKU-" + decimal.NewFromInt(id).String(),
		Name:   "product",
		Price:  dec(price),
		Stock:  stock,
		Status: models.ProductStatusActive,
	}
	p.VendorID = vendorID
	f.products[id] = p
	return p
}

func (f *fakeStore) addCartLine(userID, productID int64, quantity int) *models.CartItem {
	f.cartSeq++
	item := &models.CartItem{ID: f.cartSeq, UserID: userID, ProductID: productID, Quantity: quantity}
	f.cart[item.ID] = item
	return item
}

// ProductStore

func (f *fakeStore) GetProductByID(_ context.Context, id int64) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) ListProducts(_ context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, p := range f.products {
		if p.Status == models.ProductStatusActive {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) SetProductStock(_ context.Context, id int64, stock int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return false, nil
	}
	p.Stock = stock
	return true, nil
}

// CartStore

func (f *fakeStore) GetCartLines(_ context.Context, userID int64) ([]models.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cartLinesLocked(userID), nil
}

func (f *fakeStore) cartLinesLocked(userID int64) []models.CartLine {
	var lines []models.CartLine
	for _, item := range f.cart {
		if item.UserID != userID {
			continue
		}
		p := f.products[item.ProductID]
		lines = append(lines, models.CartLine{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      p.Name,
			Quantity:  item.Quantity,
			UnitPrice: p.Price,
			Stock:     p.Stock,
			VendorID:  p.VendorID,
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })
	return lines
}

func (f *fakeStore) GetCartItem(_ context.Context, userID, productID int64) (*models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.cart {
		if item.UserID == userID && item.ProductID == productID {
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetCartItemByID(_ context.Context, id int64) (*models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.cart[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (f *fakeStore) InsertCartItem(_ context.Context, item *models.CartItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cartSeq++
	item.ID = f.cartSeq
	cp := *item
	f.cart[item.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateCartItemQuantity(_ context.Context, id int64, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if item, ok := f.cart[id]; ok {
		item.Quantity = quantity
	}
	return nil
}

func (f *fakeStore) DeleteCartItem(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.cart, id)
	return nil
}

func (f *fakeStore) ClearCart(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearCartLocked(userID)
	return nil
}

func (f *fakeStore) clearCartLocked(userID int64) {
	for id, item := range f.cart {
		if item.UserID == userID {
			delete(f.cart, id)
		}
	}
}

func (f *fakeStore) CartCount(_ context.Context, userID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, item := range f.cart {
		if item.UserID == userID {
			count += item.Quantity
		}
	}
	return count, nil
}

// OrderStore

func (f *fakeStore) PlaceOrder(_ context.Context, p *store.OrderPlacement) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.placeOrderErr != nil {
		return f.placeOrderErr
	}

	// Conditional decrements with rollback on conflict, mirroring the SQL
	// transaction.
	type applied struct {
		productID int64
		quantity  int
	}
	var decremented []applied
	rollback := func() {
		for _, a := range decremented {
			f.products[a.productID].Stock += a.quantity
		}
	}

	for _, line := range p.Lines {
		product, ok := f.products[line.Item.ProductID]
		if !ok || product.Stock < line.Item.Quantity {
			rollback()
			return &store.StockConflictError{ProductID: line.Item.ProductID}
		}
		product.Stock -= line.Item.Quantity
		decremented = append(decremented, applied{line.Item.ProductID, line.Item.Quantity})
	}

	f.orderSeq++
	p.Order.ID = f.orderSeq
	p.Order.CreatedAt = time.Now()
	p.Order.UpdatedAt = p.Order.CreatedAt
	cp := *p.Order
	f.orders[cp.ID] = &cp

	p.Address.OrderID = cp.ID
	addr := *p.Address
	f.addresses[cp.ID] = &addr

	for i := range p.Lines {
		line := &p.Lines[i]
		line.Item.OrderID = cp.ID
		line.Item.ID = int64(i + 1)
		f.orderItems[cp.ID] = append(f.orderItems[cp.ID], line.Item)

		if line.VendorSplit != nil {
			f.vendorSeq++
			line.VendorSplit.ID = f.vendorSeq
			line.VendorSplit.OrderID = cp.ID
			line.VendorSplit.OrderItemID = line.Item.ID
			line.VendorSplit.CreatedAt = time.Now()
			vi := *line.VendorSplit
			f.vendorItems[vi.ID] = &vi
		}
	}

	f.clearCartLocked(p.UserID)
	return nil
}

func (f *fakeStore) GetOrderByID(_ context.Context, id int64) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *fakeStore) GetOrderItems(_ context.Context, orderID int64) ([]models.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.OrderItem(nil), f.orderItems[orderID]...), nil
}

func (f *fakeStore) GetOrderAddress(_ context.Context, orderID int64) (*models.OrderAddress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	addr, ok := f.addresses[orderID]
	if !ok {
		return nil, nil
	}
	cp := *addr
	return &cp, nil
}

func (f *fakeStore) GetOrdersByUserID(_ context.Context, userID int64) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeStore) UpdateOrderStatusFrom(_ context.Context, orderID int64, fromStatus, toStatus string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok || o.Status != fromStatus {
		return false, nil
	}
	o.Status = toStatus
	return true, nil
}

// VendorStore

func (f *fakeStore) GetVendorsByIDs(_ context.Context, ids []int64) (map[int64]models.Vendor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[int64]models.Vendor)
	for _, id := range ids {
		if v, ok := f.vendors[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func (f *fakeStore) GetVendorByUserID(_ context.Context, userID int64) (*models.Vendor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.vendors {
		if v.UserID == userID {
			cp := v
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetVendorOrderItems(_ context.Context, vendorID int64, status string) ([]models.VendorOrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.VendorOrderItem
	for _, item := range f.vendorItems {
		if item.VendorID != vendorID {
			continue
		}
		if status != "" && item.Status != status {
			continue
		}
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) GetVendorOrderItemByID(_ context.Context, id int64) (*models.VendorOrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.vendorItems[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (f *fakeStore) UpdateVendorOrderItemStatus(_ context.Context, id int64, status, trackingNumber, shippingProvider string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.vendorItems[id]
	if !ok {
		return nil
	}
	item.Status = status
	if trackingNumber != "" {
		item.TrackingNumber = &trackingNumber
	}
	if shippingProvider != "" {
		item.ShippingProvider = &shippingProvider
	}
	now := time.Now()
	item.ProcessedAt = &now
	return nil
}

func (f *fakeStore) GetVendorSummary(_ context.Context, vendorID int64) (*store.VendorSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	summary := &store.VendorSummary{
		TotalRevenue:   decimal.Zero,
		MonthlyRevenue: decimal.Zero,
	}
	for _, item := range f.vendorItems {
		if item.VendorID != vendorID {
			continue
		}
		summary.TotalItems++
		switch item.Status {
		case models.OrderStatusPending:
			summary.PendingItems++
		case models.OrderStatusShipped:
			summary.ShippedItems++
		case models.OrderStatusDelivered:
			summary.DeliveredItems++
		}
		summary.TotalRevenue = summary.TotalRevenue.Add(item.VendorAmount)
		summary.MonthlyRevenue = summary.MonthlyRevenue.Add(item.VendorAmount)
	}
	return summary, nil
}

// UserStore

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// fakePublisher records published events.
type fakePublisher struct {
	mu            sync.Mutex
	placed        []*models.OrderPlacedEvent
	statusChanged []*models.OrderStatusChangedEvent
}

func (f *fakePublisher) PublishOrderPlaced(_ context.Context, event *models.OrderPlacedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.placed = append(f.placed, event)
	return nil
}

func (f *fakePublisher) PublishOrderStatusChanged(_ context.Context, event *models.OrderStatusChangedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusChanged = append(f.statusChanged, event)
	return nil
}

// fakeSessions issues predictable tokens.
type fakeSessions struct {
	seq     int
	created []*session.Session
	deleted []string
}

func (f *fakeSessions) Create(_ context.Context, sess *session.Session) error {
	f.seq++
	sess.Token = "token-" + decimal.NewFromInt(int64(f.seq)).String()
	f.created = append(f.created, sess)
	return nil
}

func (f *fakeSessions) Delete(_ context.Context, token string) error {
	f.deleted = append(f.deleted, token)
	return nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "expected %s, got %s", want, got.String())
}

func testPricing() Pricing {
	return Pricing{
		FreeShippingThreshold: dec("50"),
		ShippingFlatFee:       dec("5.99"),
		TaxRatePercent:        dec("7"),
	}
}
