package order

import (
	"context"
	"time"

	"dataco-storefront/internal/domain"
)

// Repository reads order history and applies the two terminal delivery
// transitions. Orders and their items are never mutated after checkout;
// only the status and the shipping row move, and each exactly once.
type Repository interface {
	// GetWithShipping loads an order and its shipping row scoped to the
	// owning customer.
	GetWithShipping(ctx context.Context, orderID, customerID int64) (*domain.Order, error)
	// GetDetail additionally loads order items with product names.
	GetDetail(ctx context.Context, orderID, customerID int64) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID int64, page, pageSize int) ([]domain.Order, int, error)
	// ApplyDeliveryOutcome atomically records the delivery classification and
	// completes the order. Returns ErrOrderNotActionable unless the shipping
	// row is still "Waiting for Shipment".
	ApplyDeliveryOutcome(ctx context.Context, orderID int64, actualDays int, status string, lateRisk bool, shippedAt time.Time) error
	// ApplyCancellation atomically cancels the order and resets its shipping
	// row. Returns ErrOrderNotActionable for COMPLETE or CANCELED orders.
	ApplyCancellation(ctx context.Context, orderID int64, canceledAt time.Time) error
}
