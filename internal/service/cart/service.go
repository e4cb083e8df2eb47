package cart

import (
	"context"
	"errors"
	"fmt"

	"dataco-storefront/internal/domain"
	"dataco-storefront/internal/service/inventory"
)

// Service owns pre-checkout cart state: the one-cart-per-customer row, the
// current session token and the live item lines. Stock checks on this path
// are advisory; the checkout coordinator re-validates under lock.
type Service struct {
	repo    cartRepo
	catalog catalogReader
}

type cartRepo interface {
	GetByCustomer(ctx context.Context, customerID int64) (*domain.Cart, error)
	Create(ctx context.Context, customerID int64) (*domain.Cart, error)
	SetSession(ctx context.Context, cartID int64, sessionID string) error
	Touch(ctx context.Context, cartID int64) error
	AdoptOrphanItems(ctx context.Context, cartID int64, sessionID string) (int64, error)
	ListLiveItems(ctx context.Context, cartID int64, sessionID string) ([]domain.CartItem, error)
	FindLiveItem(ctx context.Context, cartID, productID int64, sessionID string) (*domain.CartItem, error)
	GetOwnedItem(ctx context.Context, itemID, customerID int64) (*domain.CartItem, error)
	InsertItem(ctx context.Context, item domain.CartItem) (int64, error)
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error
	SetItemStatus(ctx context.Context, itemID int64, status string) error
	DeleteItem(ctx context.Context, itemID int64) error
	CountLiveItems(ctx context.Context, cartID int64, sessionID string) (int, error)
}

type catalogReader interface {
	GetDetail(ctx context.Context, productID int64) (*domain.ProductDetail, error)
	GetDetails(ctx context.Context, productIDs []int64) (map[int64]domain.ProductDetail, error)
}

func New(repo cartRepo, catalog catalogReader) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// AddResult is the outcome of AddToCart: the number of live lines in the
// current session plus an optional low-stock warning.
type AddResult struct {
	CartCount int
	Warning   string
}

// GetOrCreate returns the customer's cart, creating it with an empty session
// token on first interaction.
func (s *Service) GetOrCreate(ctx context.Context, customerID int64) (*domain.Cart, error) {
	cart, err := s.repo.GetByCustomer(ctx, customerID)
	if errors.Is(err, domain.ErrNotFound) {
		return s.repo.Create(ctx, customerID)
	}
	return cart, err
}

// AddToCart validates availability, rotates an empty session (adopting any
// orphaned lines into the new token) and merges the quantity into an
// existing live line for the product, or inserts a new InCart line.
func (s *Service) AddToCart(ctx context.Context, customerID, productID int64, quantity int) (*AddResult, error) {
	if quantity <= 0 {
		return nil, domain.Invalid("quantity must be positive")
	}

	product, err := s.catalog.GetDetail(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.AvailabilityError{Failures: []domain.LineFailure{
				{ProductID: productID, Reason: "product no longer exists"},
			}}
		}
		return nil, err
	}
	if !inventory.Available(*product) {
		return nil, &domain.AvailabilityError{Failures: []domain.LineFailure{
			{ProductID: product.ID, ProductName: product.Name, Reason: "no longer available"},
		}}
	}
	if product.Stock <= 0 {
		return nil, &domain.AvailabilityError{Failures: []domain.LineFailure{
			{ProductID: product.ID, ProductName: product.Name, Reason: "out of stock"},
		}}
	}

	cart, err := s.GetOrCreate(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if cart.CurrentSessionID == "" {
		token, err := newSessionToken()
		if err != nil {
			return nil, err
		}
		if err := s.repo.SetSession(ctx, cart.ID, token); err != nil {
			return nil, err
		}
		cart.CurrentSessionID = token
		// Lines left behind by a previous session reset rejoin the live
		// session instead of becoming unreachable.
		if _, err := s.repo.AdoptOrphanItems(ctx, cart.ID, token); err != nil {
			return nil, err
		}
	}

	newQuantity := quantity
	existing, err := s.repo.FindLiveItem(ctx, cart.ID, productID, cart.CurrentSessionID)
	switch {
	case err == nil:
		newQuantity = existing.Quantity + quantity
		if err := s.repo.UpdateItemQuantity(ctx, existing.ID, newQuantity); err != nil {
			return nil, err
		}
	case errors.Is(err, domain.ErrNotFound):
		_, err = s.repo.InsertItem(ctx, domain.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
			Status:    domain.ItemInCart,
			SessionID: cart.CurrentSessionID,
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.repo.Touch(ctx, cart.ID); err != nil {
		return nil, err
	}

	count, err := s.repo.CountLiveItems(ctx, cart.ID, cart.CurrentSessionID)
	if err != nil {
		return nil, err
	}

	result := &AddResult{CartCount: count}
	if newQuantity > product.Stock {
		result.Warning = fmt.Sprintf("only %d in stock", product.Stock)
	}
	return result, nil
}

// UpdateQuantity sets a live line's quantity; zero deletes the line. A
// quantity above known stock is allowed with a non-blocking warning.
func (s *Service) UpdateQuantity(ctx context.Context, customerID, itemID int64, quantity int) (string, error) {
	if quantity < 0 {
		return "", domain.Invalid("quantity must not be negative")
	}

	item, err := s.repo.GetOwnedItem(ctx, itemID, customerID)
	if err != nil {
		return "", err
	}

	if quantity == 0 {
		if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
			return "", err
		}
		return "", s.repo.Touch(ctx, item.CartID)
	}

	warning := ""
	if product, err := s.catalog.GetDetail(ctx, item.ProductID); err == nil && quantity > product.Stock {
		warning = fmt.Sprintf("only %d in stock", product.Stock)
	}

	if err := s.repo.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
		return "", err
	}
	return warning, s.repo.Touch(ctx, item.CartID)
}

// ToggleSelect flips a line between InCart and Selected. Selecting is
// advisory-rejected when known stock no longer covers the line; the locked
// checkout check remains the sole authority.
func (s *Service) ToggleSelect(ctx context.Context, customerID, itemID int64, selected bool) error {
	item, err := s.repo.GetOwnedItem(ctx, itemID, customerID)
	if err != nil {
		return err
	}

	if selected {
		if product, err := s.catalog.GetDetail(ctx, item.ProductID); err == nil && product.Stock < item.Quantity {
			return &domain.AvailabilityError{Failures: []domain.LineFailure{{
				ProductID:   item.ProductID,
				ProductName: product.Name,
				Reason:      fmt.Sprintf("only %d left in stock", product.Stock),
				Stock:       product.Stock,
				Requested:   item.Quantity,
			}}}
		}
	}

	status := domain.ItemInCart
	if selected {
		status = domain.ItemSelected
	}
	if err := s.repo.SetItemStatus(ctx, item.ID, status); err != nil {
		return err
	}
	return s.repo.Touch(ctx, item.CartID)
}

// RemoveItem deletes a non-checked-out line owned by the customer.
func (s *Service) RemoveItem(ctx context.Context, customerID, itemID int64) error {
	item, err := s.repo.GetOwnedItem(ctx, itemID, customerID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
		return err
	}
	return s.repo.Touch(ctx, item.CartID)
}

// Count returns the number of live lines in the current session; a missing
// cart or an empty session counts as zero.
func (s *Service) Count(ctx context.Context, customerID int64) (int, error) {
	cart, err := s.repo.GetByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if cart.CurrentSessionID == "" {
		return 0, nil
	}
	return s.repo.CountLiveItems(ctx, cart.ID, cart.CurrentSessionID)
}

// View returns the cart and its live lines joined with product details,
// marking lines whose known stock no longer covers their quantity.
func (s *Service) View(ctx context.Context, customerID int64) (*domain.Cart, []domain.CartLineView, error) {
	cart, err := s.GetOrCreate(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}
	if cart.CurrentSessionID == "" {
		return cart, nil, nil
	}

	items, err := s.repo.ListLiveItems(ctx, cart.ID, cart.CurrentSessionID)
	if err != nil {
		return nil, nil, err
	}
	lines, err := s.joinLines(ctx, items)
	if err != nil {
		return nil, nil, err
	}
	return cart, lines, nil
}

func (s *Service) joinLines(ctx context.Context, items []domain.CartItem) ([]domain.CartLineView, error) {
	if len(items) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0, len(items))
	seen := make(map[int64]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
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
