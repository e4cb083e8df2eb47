package delivery

import (
	"context"
	"time"

	"dataco-storefront/internal/domain"
)

// Service drives the two terminal post-checkout transitions: delivery
// confirmation and order cancellation. Both are rejected once the order has
// left the PROCESSING state; the status guard also sits in the repository's
// conditional updates, so a racing double-confirmation loses there.
type Service struct {
	orders orderRepo
	now    func() time.Time
}

type orderRepo interface {
	GetWithShipping(ctx context.Context, orderID, customerID int64) (*domain.Order, error)
	ApplyDeliveryOutcome(ctx context.Context, orderID int64, actualDays int, status string, lateRisk bool, shippedAt time.Time) error
	ApplyCancellation(ctx context.Context, orderID int64, canceledAt time.Time) error
}

func New(orders orderRepo) *Service {
	return &Service{orders: orders, now: time.Now}
}

// Classify maps actual against scheduled shipping days to the delivery
// status; only late deliveries carry the risk flag.
func Classify(actualDays, scheduledDays int) (status string, lateRisk bool) {
	switch {
	case actualDays > scheduledDays:
		return domain.DeliveryLate, true
	case actualDays == scheduledDays:
		return domain.DeliveryOnTime, false
	default:
		return domain.DeliveryAdvance, false
	}
}

// Confirm records delivery of an order still waiting for shipment. The
// actual shipping days are the whole elapsed days since the order date.
func (s *Service) Confirm(ctx context.Context, customerID, orderID int64) (string, error) {
	order, err := s.orders.GetWithShipping(ctx, orderID, customerID)
	if err != nil {
		return "", err
	}
	if order.Shipping == nil {
		return "", domain.ErrNotFound
	}
	if order.Shipping.DeliveryStatus != domain.DeliveryWaiting {
		return "", domain.ErrOrderNotActionable
	}

	now := s.now()
	actualDays := int(now.Sub(order.OrderDate).Hours() / 24)
	status, lateRisk := Classify(actualDays, order.Shipping.DaysForShipmentScheduled)

	if err := s.orders.ApplyDeliveryOutcome(ctx, orderID, actualDays, status, lateRisk, now); err != nil {
		return "", err
	}
	return status, nil
}

// Cancel cancels an order unless it is already COMPLETE or CANCELED and
// resets its shipping row to neutral cancellation values.
func (s *Service) Cancel(ctx context.Context, customerID, orderID int64) error {
	order, err := s.orders.GetWithShipping(ctx, orderID, customerID)
	if err != nil {
		return err
	}
	if order.Status == domain.OrderComplete || order.Status == domain.OrderCanceled {
		return domain.ErrOrderNotActionable
	}
	return s.orders.ApplyCancellation(ctx, orderID, s.now())
}
