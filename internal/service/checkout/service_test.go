package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dataco-storefront/internal/domain"
	checkoutrepo "dataco-storefront/internal/repository/checkout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend implements the cart reader, the catalog reader and the
// checkout store against in-memory state. WithTx stages all writes and
// applies them only when the callback succeeds, mirroring the rollback
// behavior of the real store.
type fakeBackend struct {
	mu           sync.Mutex
	cart         *domain.Cart
	selected     []domain.CartItem
	products     map[int64]domain.ProductDetail
	orders       []domain.Order
	orderItems   []domain.OrderItem
	shippings    []domain.Shipping
	lockSeqs     [][]int64
	nextOrderID  int64
	failShipping error
}

func (b *fakeBackend) GetByCustomer(_ context.Context, _ int64) (*domain.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cart == nil {
		return nil, domain.ErrNotFound
	}
	cart := *b.cart
	return &cart, nil
}

func (b *fakeBackend) ListSelectedItems(_ context.Context, cartID int64, _ string) ([]domain.CartItem, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return selectedForCart(b.selected, cartID), nil
}

func selectedForCart(items []domain.CartItem, cartID int64) []domain.CartItem {
	var result []domain.CartItem
	for _, item := range items {
		if item.CartID == cartID {
			result = append(result, item)
		}
	}
	return result
}

func (b *fakeBackend) GetDetails(_ context.Context, productIDs []int64) (map[int64]domain.ProductDetail, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	result := make(map[int64]domain.ProductDetail, len(productIDs))
	for _, id := range productIDs {
		if p, ok := b.products[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

func (b *fakeBackend) WithTx(_ context.Context, fn func(tx checkoutrepo.Tx) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	tx := &fakeTx{b: b, stockDelta: map[int64]int{}}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

type fakeTx struct {
	b          *fakeBackend
	seq        []int64
	stockDelta map[int64]int
	orders     []domain.Order
	orderItems []domain.OrderItem
	shippings  []domain.Shipping
	checkedOut []int64
}

func (t *fakeTx) ListSelectedItems(_ context.Context, cartID int64, _ string) ([]domain.CartItem, error) {
	return selectedForCart(t.b.selected, cartID), nil
}

func (t *fakeTx) LockProduct(_ context.Context, productID int64) (*domain.ProductDetail, error) {
	t.seq = append(t.seq, productID)
	p, ok := t.b.products[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.Stock -= t.stockDelta[productID]
	return &p, nil
}

func (t *fakeTx) DecrementStock(_ context.Context, productID int64, quantity int) error {
	available := t.b.products[productID].Stock - t.stockDelta[productID]
	if available < quantity {
		return errors.New("stock underflow")
	}
	t.stockDelta[productID] += quantity
	return nil
}

func (t *fakeTx) InsertOrder(_ context.Context, order domain.Order) (int64, error) {
	t.b.nextOrderID++
	order.ID = t.b.nextOrderID
	t.orders = append(t.orders, order)
	return order.ID, nil
}

func (t *fakeTx) InsertOrderItem(_ context.Context, item domain.OrderItem) error {
	t.orderItems = append(t.orderItems, item)
	return nil
}

func (t *fakeTx) InsertShipping(_ context.Context, shipping domain.Shipping) error {
	if t.b.failShipping != nil {
		return t.b.failShipping
	}
	t.shippings = append(t.shippings, shipping)
	return nil
}

func (t *fakeTx) MarkItemsCheckedOut(_ context.Context, itemIDs []int64) error {
	t.checkedOut = append(t.checkedOut, itemIDs...)
	return nil
}

func (t *fakeTx) commit() {
	for id, delta := range t.stockDelta {
		p := t.b.products[id]
		p.Stock -= delta
		t.b.products[id] = p
	}
	t.b.orders = append(t.b.orders, t.orders...)
	t.b.orderItems = append(t.b.orderItems, t.orderItems...)
	t.b.shippings = append(t.b.shippings, t.shippings...)
	t.b.lockSeqs = append(t.b.lockSeqs, t.seq)

	gone := make(map[int64]bool, len(t.checkedOut))
	for _, id := range t.checkedOut {
		gone[id] = true
	}
	kept := t.b.selected[:0]
	for _, item := range t.b.selected {
		if !gone[item.ID] {
			kept = append(kept, item)
		}
	}
	t.b.selected = kept
}

type stubGeo struct {
	region string
	market string
}

func (s *stubGeo) Resolve(_ context.Context, _ string) (string, string) {
	return s.region, s.market
}

func checkoutProduct(id int64, price, cost float64, stock int) domain.ProductDetail {
	return domain.ProductDetail{
		ID:                 id,
		Name:               "Product",
		Price:              price,
		Cost:               cost,
		Stock:              stock,
		DepartmentID:       1,
		IsActive:           true,
		CategoryIsActive:   true,
		DepartmentIsActive: true,
	}
}

func validInput() ShippingInput {
	return ShippingInput{
		AddressLine:  "1 Main St",
		PaymentType:  "DEBIT",
		Country:      "Germany",
		State:        "Berlin",
		City:         "Berlin",
		ShippingMode: "Standard Class",
	}
}

func newTestService(b *fakeBackend) *Service {
	svc := New(b, b, b, &stubGeo{region: "Western Europe", market: "Europe"}, nil)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func backendWith(items []domain.CartItem, products ...domain.ProductDetail) *fakeBackend {
	b := &fakeBackend{
		cart:     &domain.Cart{ID: 7, CustomerID: 1, CurrentSessionID: "s1"},
		selected: items,
		products: map[int64]domain.ProductDetail{},
	}
	for _, p := range products {
		b.products[p.ID] = p
	}
	return b
}

func TestProcessValidatesShippingFields(t *testing.T) {
	svc := newTestService(backendWith(nil))

	_, err := svc.Process(context.Background(), 1, ShippingInput{Country: "Germany"})
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Msg, "shipping address")
	assert.Contains(t, validationErr.Msg, "payment method")
	assert.NotContains(t, validationErr.Msg, "country")
}

func TestProcessNoCartNoSelection(t *testing.T) {
	b := &fakeBackend{products: map[int64]domain.ProductDetail{}}
	svc := newTestService(b)

	_, err := svc.Process(context.Background(), 1, validInput())
	require.ErrorIs(t, err, domain.ErrNoItemsSelected)

	b.cart = &domain.Cart{ID: 7, CustomerID: 1}
	_, err = svc.Process(context.Background(), 1, validInput())
	require.ErrorIs(t, err, domain.ErrNoItemsSelected)

	b.cart.CurrentSessionID = "s1"
	_, err = svc.Process(context.Background(), 1, validInput())
	require.ErrorIs(t, err, domain.ErrNoItemsSelected)
	assert.Empty(t, b.orders)
}

func TestProcessHappyPath(t *testing.T) {
	b := backendWith(
		[]domain.CartItem{
			{ID: 11, CartID: 7, ProductID: 5, Quantity: 2, Status: domain.ItemSelected},
			{ID: 12, CartID: 7, ProductID: 6, Quantity: 1, Status: domain.ItemSelected},
		},
		checkoutProduct(5, 10.00, 4.00, 10),
		checkoutProduct(6, 25.50, 12.00, 3),
	)
	svc := newTestService(b)

	orderID, err := svc.Process(context.Background(), 1, validInput())
	require.NoError(t, err)
	require.Equal(t, int64(1), orderID)

	require.Len(t, b.orders, 1)
	order := b.orders[0]
	assert.Equal(t, domain.OrderProcessing, order.Status)
	assert.Equal(t, "Western Europe", order.Region)
	assert.Equal(t, "Europe", order.Market)

	require.Len(t, b.orderItems, 2)
	assert.InDelta(t, 20.00, b.orderItems[0].Sales, 1e-9)
	assert.InDelta(t, 0.6, b.orderItems[0].ProfitRatio, 1e-9)
	assert.Equal(t, b.orderItems[0].Sales, b.orderItems[0].Total)

	require.Len(t, b.shippings, 1)
	shipping := b.shippings[0]
	assert.Equal(t, domain.DeliveryWaiting, shipping.DeliveryStatus)
	assert.Equal(t, 4, shipping.DaysForShipmentScheduled)
	assert.Equal(t, 0, shipping.DaysForShippingActual)
	assert.False(t, shipping.LateDeliveryRisk)

	assert.Equal(t, 8, b.products[5].Stock)
	assert.Equal(t, 2, b.products[6].Stock)
	assert.Empty(t, b.selected, "lines should leave the live session")
}

func TestProcessRepeatedCheckoutIsNoOp(t *testing.T) {
	b := backendWith(
		[]domain.CartItem{{ID: 11, CartID: 7, ProductID: 5, Quantity: 1, Status: domain.ItemSelected}},
		checkoutProduct(5, 10.00, 4.00, 10),
	)
	svc := newTestService(b)

	_, err := svc.Process(context.Background(), 1, validInput())
	require.NoError(t, err)

	_, err = svc.Process(context.Background(), 1, validInput())
	require.ErrorIs(t, err, domain.ErrNoItemsSelected)
	assert.Len(t, b.orders, 1)
	assert.Equal(t, 9, b.products[5].Stock)
}

func TestProcessCallerRegionOverridesResolved(t *testing.T) {
	b := backendWith(
		[]domain.CartItem{{ID: 11, CartID: 7, ProductID: 5, Quantity: 1, Status: domain.ItemSelected}},
		checkoutProduct(5, 10.00, 4.00, 10),
	)
	svc := newTestService(b)

	in := validInput()
	in.Region = "Central Europe"
	_, err := svc.Process(context.Background(), 1, in)
	require.NoError(t, err)
	assert.Equal(t, "Central Europe", b.orders[0].Region)
	assert.Equal(t, "Europe", b.orders[0].Market)
}

func TestProcessReportsAllFailuresAndRollsBack(t *testing.T) {
	inactive := checkoutProduct(6, 25.50, 12.00, 10)
	inactive.IsActive = false
	b := backendWith(
		[]domain.CartItem{
			{ID: 11, CartID: 7, ProductID: 5, Quantity: 5, Status: domain.ItemSelected},
			{ID: 12, CartID: 7, ProductID: 6, Quantity: 1, Status: domain.ItemSelected},
			{ID: 13, CartID: 7, ProductID: 9, Quantity: 1, Status: domain.ItemSelected},
		},
		checkoutProduct(5, 10.00, 4.00, 2),
		inactive,
	)
	svc := newTestService(b)

	_, err := svc.Process(context.Background(), 1, validInput())
	var availErr *domain.AvailabilityError
	require.ErrorAs(t, err, &availErr)
	require.Len(t, availErr.Failures, 3)

	byProduct := map[int64]domain.LineFailure{}
	for _, f := range availErr.Failures {
		byProduct[f.ProductID] = f
	}
	assert.Equal(t, 2, byProduct[5].Stock)
	assert.Equal(t, 5, byProduct[5].Requested)
	assert.Equal(t, "no longer available", byProduct[6].Reason)
	assert.Equal(t, "product no longer exists", byProduct[9].Reason)

	assert.Empty(t, b.orders)
	assert.Empty(t, b.shippings)
	assert.Equal(t, 2, b.products[5].Stock)
	assert.Len(t, b.selected, 3, "lines must stay Selected after rollback")
}

func TestProcessMidTransactionFailureRollsBack(t *testing.T) {
	b := backendWith(
		[]domain.CartItem{{ID: 11, CartID: 7, ProductID: 5, Quantity: 2, Status: domain.ItemSelected}},
		checkoutProduct(5, 10.00, 4.00, 10),
	)
	b.failShipping = errors.New("shipping insert failed")
	svc := newTestService(b)

	_, err := svc.Process(context.Background(), 1, validInput())
	require.EqualError(t, err, "shipping insert failed")
	assert.Empty(t, b.orders)
	assert.Equal(t, 10, b.products[5].Stock)
	assert.Len(t, b.selected, 1)
}

func TestProcessLocksProductsInAscendingOrder(t *testing.T) {
	b := backendWith(
		[]domain.CartItem{
			{ID: 11, CartID: 7, ProductID: 9, Quantity: 1, Status: domain.ItemSelected},
			{ID: 12, CartID: 7, ProductID: 2, Quantity: 1, Status: domain.ItemSelected},
			{ID: 13, CartID: 7, ProductID: 5, Quantity: 1, Status: domain.ItemSelected},
			{ID: 14, CartID: 7, ProductID: 2, Quantity: 2, Status: domain.ItemSelected},
		},
		checkoutProduct(2, 10.00, 4.00, 10),
		checkoutProduct(5, 10.00, 4.00, 10),
		checkoutProduct(9, 10.00, 4.00, 10),
	)
	svc := newTestService(b)

	_, err := svc.Process(context.Background(), 1, validInput())
	require.NoError(t, err)
	require.Len(t, b.lockSeqs, 1)
	assert.Equal(t, []int64{2, 5, 9}, b.lockSeqs[0])
}

func TestProcessConcurrentBuyersNeverOversell(t *testing.T) {
	const buyers = 20
	const stock = 7

	// All buyers share one product table and item store; each owns one cart
	// with a single line for the contested product.
	b := &fakeBackend{products: map[int64]domain.ProductDetail{5: checkoutProduct(5, 10.00, 4.00, stock)}}
	for i := 0; i < buyers; i++ {
		b.selected = append(b.selected, domain.CartItem{
			ID:        int64(100 + i),
			CartID:    int64(i + 1),
			ProductID: 5,
			Quantity:  1,
			Status:    domain.ItemSelected,
		})
	}

	var wg sync.WaitGroup
	results := make([]error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			carts := &singleBuyer{b: b, cart: int64(i + 1), itemID: int64(100 + i)}
			svc := New(carts, b, b, &stubGeo{region: "Unknown", market: "Unknown"}, nil)
			_, results[i] = svc.Process(context.Background(), int64(i+1), validInput())
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			var availErr *domain.AvailabilityError
			require.ErrorAs(t, err, &availErr)
		}
	}
	assert.Equal(t, stock, succeeded)
	assert.Equal(t, 0, b.products[5].Stock)
	assert.Len(t, b.orders, stock)
}

// singleBuyer gives each concurrent buyer an independent cart whose one line
// disappears once the shared backend marks it checked out.
type singleBuyer struct {
	b      *fakeBackend
	cart   int64
	itemID int64
}

func (s *singleBuyer) GetByCustomer(_ context.Context, _ int64) (*domain.Cart, error) {
	return &domain.Cart{ID: s.cart, CustomerID: s.cart, CurrentSessionID: "s"}, nil
}

func (s *singleBuyer) ListSelectedItems(_ context.Context, _ int64, _ string) ([]domain.CartItem, error) {
	return []domain.CartItem{{ID: s.itemID, CartID: s.cart, ProductID: 5, Quantity: 1, Status: domain.ItemSelected}}, nil
}

func TestScheduledShippingDays(t *testing.T) {
	cases := map[string]int{
		"Standard Class": 4,
		"Second Class":   2,
		"Same Day":       0,
		"First Class":    1,
		"Carrier Pigeon": 4,
	}
	for mode, want := range cases {
		assert.Equal(t, want, scheduledShippingDays(mode), mode)
	}
}

func TestSnapshotEconomics(t *testing.T) {
	sales, ratio := snapshotEconomics(checkoutProduct(5, 19.99, 8.50, 10), 3)
	assert.InDelta(t, 59.97, sales, 1e-9)
	assert.InDelta(t, (59.97-25.50)/59.97, ratio, 1e-9)

	sales, ratio = snapshotEconomics(checkoutProduct(5, 0, 8.50, 10), 3)
	assert.Zero(t, sales)
	assert.Zero(t, ratio)
}

func TestViewJoinsSelectedLines(t *testing.T) {
	b := backendWith(
		[]domain.CartItem{
			{ID: 11, CartID: 7, ProductID: 5, Quantity: 2, Status: domain.ItemSelected},
			{ID: 12, CartID: 7, ProductID: 9, Quantity: 1, Status: domain.ItemSelected},
		},
		checkoutProduct(5, 10.00, 4.00, 1),
	)
	svc := newTestService(b)

	lines, err := svc.View(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.True(t, lines[0].OutOfStock, "stock below quantity")
	assert.True(t, lines[1].OutOfStock, "missing product")
}
