package cart

import (
	"context"

	"dataco-storefront/internal/domain"
)

// Repository persists carts and cart items. Every mutation is an explicit
// call; there is no implicit dirty-tracking anywhere.
type Repository interface {
	GetByCustomer(ctx context.Context, customerID int64) (*domain.Cart, error)
	Create(ctx context.Context, customerID int64) (*domain.Cart, error)
	// SetSession rotates the cart's current session token.
	SetSession(ctx context.Context, cartID int64, sessionID string) error
	// Touch bumps the cart's updated timestamp after an item mutation.
	Touch(ctx context.Context, cartID int64) error
	// AdoptOrphanItems moves non-checked-out items with an empty session id
	// into the given session and returns how many rows were adopted.
	AdoptOrphanItems(ctx context.Context, cartID int64, sessionID string) (int64, error)
	ListLiveItems(ctx context.Context, cartID int64, sessionID string) ([]domain.CartItem, error)
	// FindLiveItem returns the non-checked-out line for (cart, product,
	// session), or ErrNotFound.
	FindLiveItem(ctx context.Context, cartID, productID int64, sessionID string) (*domain.CartItem, error)
	// GetOwnedItem resolves a non-checked-out item only when it belongs to a
	// cart owned by the given customer.
	GetOwnedItem(ctx context.Context, itemID, customerID int64) (*domain.CartItem, error)
	InsertItem(ctx context.Context, item domain.CartItem) (int64, error)
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error
	SetItemStatus(ctx context.Context, itemID int64, status string) error
	DeleteItem(ctx context.Context, itemID int64) error
	CountLiveItems(ctx context.Context, cartID int64, sessionID string) (int, error)
	ListSelectedItems(ctx context.Context, cartID int64, sessionID string) ([]domain.CartItem, error)
}
