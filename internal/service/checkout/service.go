package checkout

import (
	"context"
	"errors"
	"io"
	"log"
	"sort"
	"strings"
	"time"

	"dataco-storefront/internal/domain"
	checkoutrepo "dataco-storefront/internal/repository/checkout"
	"dataco-storefront/internal/service/inventory"
	"github.com/shopspring/decimal"
)

// Service converts a cart's Selected lines into a durable order. One call is
// one checkout attempt: on success the lines become CheckedOut, on any
// failure the transaction unwinds and every line stays Selected.
type Service struct {
	carts   cartReader
	catalog catalogReader
	store   checkoutrepo.Store
	geo     geoResolver
	logger  *log.Logger
	now     func() time.Time
}

type cartReader interface {
	GetByCustomer(ctx context.Context, customerID int64) (*domain.Cart, error)
	ListSelectedItems(ctx context.Context, cartID int64, sessionID string) ([]domain.CartItem, error)
}

type catalogReader interface {
	GetDetails(ctx context.Context, productIDs []int64) (map[int64]domain.ProductDetail, error)
}

type geoResolver interface {
	Resolve(ctx context.Context, country string) (region, market string)
}

func New(carts cartReader, catalog catalogReader, store checkoutrepo.Store, geo geoResolver, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		carts:   carts,
		catalog: catalog,
		store:   store,
		geo:     geo,
		logger:  logger,
		now:     time.Now,
	}
}

// ShippingInput carries the checkout form fields.
type ShippingInput struct {
	AddressLine  string `json:"shippingAddress"`
	PaymentType  string `json:"paymentMethod"`
	Region       string `json:"orderRegion"`
	Country      string `json:"orderCountry"`
	State        string `json:"orderState"`
	City         string `json:"orderCity"`
	ShippingMode string `json:"shippingMode"`
}

func (in ShippingInput) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"shipping address", in.AddressLine},
		{"country", in.Country},
		{"state", in.State},
		{"city", in.City},
		{"shipping mode", in.ShippingMode},
		{"payment method", in.PaymentType},
	}
	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return domain.Invalid("missing required shipping fields: " + strings.Join(missing, ", "))
	}
	return nil
}

// scheduledShippingDays is the fixed shipment schedule per mode; unknown
// modes fall back to the standard four days.
func scheduledShippingDays(mode string) int {
	switch mode {
	case "Standard Class":
		return 4
	case "Second Class":
		return 2
	case "Same Day":
		return 0
	case "First Class":
		return 1
	default:
		return 4
	}
}

// View returns the Selected lines of the current session joined with their
// product details, for the checkout page.
func (s *Service) View(ctx context.Context, customerID int64) ([]domain.CartLineView, error) {
	cart, err := s.carts.GetByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if cart.CurrentSessionID == "" {
		return nil, nil
	}
	items, err := s.carts.ListSelectedItems(ctx, cart.ID, cart.CurrentSessionID)
	if err != nil || len(items) == 0 {
		return nil, err
	}

	ids := distinctSortedProductIDs(items)
	details, err := s.catalog.GetDetails(ctx, ids)
	if err != nil {
		return nil, err
	}
	lines := make([]domain.CartLineView, 0, len(items))
	for _, item := range items {
		line := domain.CartLineView{Item: item}
		if detail, ok := details[item.ProductID]; ok {
			line.Product = detail
			line.OutOfStock = detail.Stock < item.Quantity
		} else {
			line.OutOfStock = true
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Process runs one checkout attempt.
//
// The geo lookup happens strictly before the transaction opens so no row
// lock is ever held across a third-party round-trip. Inside the transaction
// the distinct product ids are locked in ascending order; that total order
// is the deadlock-avoidance invariant of this coordinator and must not be
// changed. All line violations are accumulated and reported together.
func (s *Service) Process(ctx context.Context, customerID int64, in ShippingInput) (int64, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}

	cart, err := s.carts.GetByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.ErrNoItemsSelected
		}
		return 0, err
	}
	if cart.CurrentSessionID == "" {
		return 0, domain.ErrNoItemsSelected
	}
	preview, err := s.carts.ListSelectedItems(ctx, cart.ID, cart.CurrentSessionID)
	if err != nil {
		return 0, err
	}
	if len(preview) == 0 {
		return 0, domain.ErrNoItemsSelected
	}

	region, market := s.geo.Resolve(ctx, in.Country)
	if r := strings.TrimSpace(in.Region); r != "" {
		region = r
	}

	var orderID int64
	err = s.store.WithTx(ctx, func(tx checkoutrepo.Tx) error {
		items, err := tx.ListSelectedItems(ctx, cart.ID, cart.CurrentSessionID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.ErrNoItemsSelected
		}

		ids := distinctSortedProductIDs(items)
		locked := make(map[int64]*domain.ProductDetail, len(ids))
		for _, id := range ids {
			product, err := tx.LockProduct(ctx, id)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			locked[id] = product
		}

		var failures []domain.LineFailure
		for _, item := range items {
			if f := inventory.Validate(locked[item.ProductID], item.ProductID, item.Quantity); f != nil {
				failures = append(failures, *f)
			}
		}
		if len(failures) > 0 {
			return &domain.AvailabilityError{Failures: failures}
		}

		now := s.now()
		orderID, err = tx.InsertOrder(ctx, domain.Order{
			CustomerID:  customerID,
			Status:      domain.OrderProcessing,
			AddressLine: in.AddressLine,
			City:        in.City,
			State:       in.State,
			Country:     in.Country,
			Region:      region,
			Market:      market,
			PaymentType: in.PaymentType,
			OrderDate:   now,
		})
		if err != nil {
			return err
		}

		itemIDs := make([]int64, 0, len(items))
		for _, item := range items {
			product := locked[item.ProductID]
			sales, ratio := snapshotEconomics(*product, item.Quantity)
			if err := tx.InsertOrderItem(ctx, domain.OrderItem{
				OrderID:      orderID,
				ProductID:    item.ProductID,
				Quantity:     item.Quantity,
				Sales:        sales,
				Total:        sales,
				ProfitRatio:  ratio,
				DepartmentID: product.DepartmentID,
			}); err != nil {
				return err
			}
			if err := tx.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
			itemIDs = append(itemIDs, item.ID)
		}

		if err := tx.InsertShipping(ctx, domain.Shipping{
			OrderID:                  orderID,
			ShippingMode:             in.ShippingMode,
			DaysForShipmentScheduled: scheduledShippingDays(in.ShippingMode),
			DaysForShippingActual:    0,
			DeliveryStatus:           domain.DeliveryWaiting,
			LateDeliveryRisk:         false,
			OrderDate:                now,
		}); err != nil {
			return err
		}

		return tx.MarkItemsCheckedOut(ctx, itemIDs)
	})
	if err != nil {
		return 0, err
	}

	s.logger.Printf("checkout: customer=%d order=%d lines=%d", customerID, orderID, len(preview))
	return orderID, nil
}

// snapshotEconomics freezes the order economics at purchase time:
// sales = qty x price, cost = qty x cost, ratio = (sales - cost) / sales,
// zero when sales is zero.
func snapshotEconomics(p domain.ProductDetail, quantity int) (sales, profitRatio float64) {
	qty := decimal.NewFromInt(int64(quantity))
	salesD := qty.Mul(decimal.NewFromFloat(p.Price))
	if salesD.IsZero() {
		return 0, 0
	}
	costD := qty.Mul(decimal.NewFromFloat(p.Cost))
	ratioD := salesD.Sub(costD).Div(salesD)
	return salesD.InexactFloat64(), ratioD.InexactFloat64()
}

func distinctSortedProductIDs(items []domain.CartItem) []int64 {
	seen := make(map[int64]bool, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
