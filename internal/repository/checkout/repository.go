package checkout

import (
	"context"

	"dataco-storefront/internal/domain"
)

// Store opens the transactional boundary for one checkout attempt. The
// callback either returns nil and the transaction commits, or returns an
// error and everything unwinds; there is no partial commit path.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of operations available inside one checkout transaction.
//
// Lock-order invariant: callers must acquire product locks through
// LockProduct on distinct ids in ascending order. Two checkouts contending
// over overlapping product sets then always request the shared rows in the
// same relative order, which rules out the circular wait that deadlocks
// unordered lockers.
type Tx interface {
	ListSelectedItems(ctx context.Context, cartID int64, sessionID string) ([]domain.CartItem, error)
	// LockProduct takes an exclusive row lock on one product and returns it
	// joined with its category and department, or ErrNotFound.
	LockProduct(ctx context.Context, productID int64) (*domain.ProductDetail, error)
	// DecrementStock subtracts quantity from a product locked earlier in this
	// transaction. It fails rather than ever letting stock go negative.
	DecrementStock(ctx context.Context, productID int64, quantity int) error
	InsertOrder(ctx context.Context, order domain.Order) (int64, error)
	InsertOrderItem(ctx context.Context, item domain.OrderItem) error
	InsertShipping(ctx context.Context, shipping domain.Shipping) error
	// MarkItemsCheckedOut transitions cart items to their terminal CheckedOut
	// status and stamps the checkout time.
	MarkItemsCheckedOut(ctx context.Context, itemIDs []int64) error
}
