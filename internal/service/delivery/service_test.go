package delivery

import (
	"context"
	"testing"
	"time"

	"dataco-storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrderRepo struct {
	order        *domain.Order
	err          error
	outcomeErr   error
	cancelErr    error
	lastDays     int
	lastStatus   string
	lastRisk     bool
	outcomeCalls int
	cancelCalls  int
}

func (s *stubOrderRepo) GetWithShipping(_ context.Context, _, _ int64) (*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

func (s *stubOrderRepo) ApplyDeliveryOutcome(_ context.Context, _ int64, actualDays int, status string, lateRisk bool, _ time.Time) error {
	s.outcomeCalls++
	s.lastDays = actualDays
	s.lastStatus = status
	s.lastRisk = lateRisk
	return s.outcomeErr
}

func (s *stubOrderRepo) ApplyCancellation(_ context.Context, _ int64, _ time.Time) error {
	s.cancelCalls++
	return s.cancelErr
}

func waitingOrder(orderDate time.Time, scheduledDays int) *domain.Order {
	return &domain.Order{
		ID:         3,
		CustomerID: 1,
		Status:     domain.OrderProcessing,
		OrderDate:  orderDate,
		Shipping: &domain.Shipping{
			OrderID:                  3,
			DaysForShipmentScheduled: scheduledDays,
			DeliveryStatus:           domain.DeliveryWaiting,
		},
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		actual, scheduled int
		status            string
		risk              bool
	}{
		{6, 4, domain.DeliveryLate, true},
		{4, 4, domain.DeliveryOnTime, false},
		{2, 4, domain.DeliveryAdvance, false},
		{0, 0, domain.DeliveryOnTime, false},
	}
	for _, tc := range cases {
		status, risk := Classify(tc.actual, tc.scheduled)
		assert.Equal(t, tc.status, status, "actual=%d scheduled=%d", tc.actual, tc.scheduled)
		assert.Equal(t, tc.risk, risk, "actual=%d scheduled=%d", tc.actual, tc.scheduled)
	}
}

func TestConfirmComputesWholeElapsedDays(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	// 5 days and 23 hours elapsed truncates to 5 whole days.
	repo := &stubOrderRepo{order: waitingOrder(now.Add(-(5*24+23)*time.Hour), 4)}
	svc := New(repo)
	svc.now = func() time.Time { return now }

	status, err := svc.Confirm(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, domain.DeliveryLate, status)
	assert.Equal(t, 5, repo.lastDays)
	assert.True(t, repo.lastRisk)
}

func TestConfirmOnTime(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	repo := &stubOrderRepo{order: waitingOrder(now.Add(-4*24*time.Hour), 4)}
	svc := New(repo)
	svc.now = func() time.Time { return now }

	status, err := svc.Confirm(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, domain.DeliveryOnTime, status)
	assert.False(t, repo.lastRisk)
}

func TestConfirmUnknownOrder(t *testing.T) {
	svc := New(&stubOrderRepo{err: domain.ErrNotFound})
	_, err := svc.Confirm(context.Background(), 1, 3)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConfirmMissingShippingRow(t *testing.T) {
	svc := New(&stubOrderRepo{order: &domain.Order{ID: 3, Status: domain.OrderProcessing}})
	_, err := svc.Confirm(context.Background(), 1, 3)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConfirmAlreadyDelivered(t *testing.T) {
	order := waitingOrder(time.Now(), 4)
	order.Shipping.DeliveryStatus = domain.DeliveryOnTime
	repo := &stubOrderRepo{order: order}
	svc := New(repo)

	_, err := svc.Confirm(context.Background(), 1, 3)
	require.ErrorIs(t, err, domain.ErrOrderNotActionable)
	assert.Zero(t, repo.outcomeCalls)
}

func TestCancelProcessingOrder(t *testing.T) {
	repo := &stubOrderRepo{order: waitingOrder(time.Now(), 4)}
	svc := New(repo)

	require.NoError(t, svc.Cancel(context.Background(), 1, 3))
	assert.Equal(t, 1, repo.cancelCalls)
}

func TestCancelTerminalOrder(t *testing.T) {
	for _, status := range []string{domain.OrderComplete, domain.OrderCanceled} {
		order := waitingOrder(time.Now(), 4)
		order.Status = status
		repo := &stubOrderRepo{order: order}
		svc := New(repo)

		err := svc.Cancel(context.Background(), 1, 3)
		require.ErrorIs(t, err, domain.ErrOrderNotActionable, status)
		assert.Zero(t, repo.cancelCalls)
	}
}
