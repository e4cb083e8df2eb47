package order

import (
	"context"
	"errors"
	"time"

	"dataco-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const orderColumns = `id, customer_id, status, address_line, order_city, order_state, order_country, order_region, market, payment_type, order_date`

func (r *postgresRepo) GetWithShipping(ctx context.Context, orderID, customerID int64) (*domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1 AND customer_id = $2
`
	order, err := r.scanOrder(r.pool.QueryRow(ctx, q, orderID, customerID))
	if err != nil {
		return nil, err
	}
	shipping, err := r.getShipping(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Shipping = shipping
	return order, nil
}

func (r *postgresRepo) GetDetail(ctx context.Context, orderID, customerID int64) (*domain.Order, error) {
	order, err := r.GetWithShipping(ctx, orderID, customerID)
	if err != nil {
		return nil, err
	}
	items, err := r.listItems(ctx, []int64{orderID})
	if err != nil {
		return nil, err
	}
	order.Items = items[orderID]
	return order, nil
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID int64, page, pageSize int) ([]domain.Order, int, error) {
	if page < 1 {
		page = 1
	}
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE customer_id = $1`, customerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE customer_id = $1
ORDER BY order_date DESC
LIMIT $2 OFFSET $3
`
	rows, err := r.pool.Query(ctx, q, customerID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []domain.Order
	var ids []int64
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// Bounded id sets joined in application code instead of per-row lookups.
	itemsByOrder, err := r.listItems(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	shippingByOrder, err := r.listShippings(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		orders[i].Items = itemsByOrder[orders[i].ID]
		if s, ok := shippingByOrder[orders[i].ID]; ok {
			shipping := s
			orders[i].Shipping = &shipping
		}
	}
	return orders, total, nil
}

func (r *postgresRepo) ApplyDeliveryOutcome(ctx context.Context, orderID int64, actualDays int, status string, lateRisk bool, shippedAt time.Time) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
UPDATE shippings
SET days_for_shipping_actual = $1,
    delivery_status = $2,
    late_delivery_risk = $3,
    shipping_date = $4
WHERE order_id = $5 AND delivery_status = 'Waiting for Shipment'
`, actualDays, status, lateRisk, shippedAt, orderID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrOrderNotActionable
	}

	cmd, err = tx.Exec(ctx, `
UPDATE orders
SET status = 'COMPLETE'
WHERE id = $1 AND status = 'PROCESSING'
`, orderID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrOrderNotActionable
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) ApplyCancellation(ctx context.Context, orderID int64, canceledAt time.Time) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
UPDATE orders
SET status = 'CANCELED'
WHERE id = $1 AND status NOT IN ('COMPLETE', 'CANCELED')
`, orderID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrOrderNotActionable
	}

	if _, err := tx.Exec(ctx, `
UPDATE shippings
SET delivery_status = 'Cancel delivery',
    days_for_shipment_scheduled = 0,
    days_for_shipping_actual = 0,
    late_delivery_risk = FALSE,
    shipping_date = $1
WHERE order_id = $2
`, canceledAt, orderID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) getShipping(ctx context.Context, orderID int64) (*domain.Shipping, error) {
	const q = `
SELECT order_id, shipping_mode, days_for_shipment_scheduled, days_for_shipping_actual, delivery_status, late_delivery_risk, order_date, shipping_date
FROM shippings
WHERE order_id = $1
`
	var s domain.Shipping
	err := r.pool.QueryRow(ctx, q, orderID).Scan(
		&s.OrderID,
		&s.ShippingMode,
		&s.DaysForShipmentScheduled,
		&s.DaysForShippingActual,
		&s.DeliveryStatus,
		&s.LateDeliveryRisk,
		&s.OrderDate,
		&s.ShippingDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepo) listShippings(ctx context.Context, orderIDs []int64) (map[int64]domain.Shipping, error) {
	if len(orderIDs) == 0 {
		return map[int64]domain.Shipping{}, nil
	}
	const q = `
SELECT order_id, shipping_mode, days_for_shipment_scheduled, days_for_shipping_actual, delivery_status, late_delivery_risk, order_date, shipping_date
FROM shippings
WHERE order_id = ANY($1)
`
	rows, err := r.pool.Query(ctx, q, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64]domain.Shipping, len(orderIDs))
	for rows.Next() {
		var s domain.Shipping
		if err := rows.Scan(
			&s.OrderID,
			&s.ShippingMode,
			&s.DaysForShipmentScheduled,
			&s.DaysForShippingActual,
			&s.DeliveryStatus,
			&s.LateDeliveryRisk,
			&s.OrderDate,
			&s.ShippingDate,
		); err != nil {
			return nil, err
		}
		result[s.OrderID] = s
	}
	return result, rows.Err()
}

func (r *postgresRepo) listItems(ctx context.Context, orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	if len(orderIDs) == 0 {
		return map[int64][]domain.OrderItem{}, nil
	}
	const q = `
SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.sales, oi.total, oi.profit_ratio, oi.department_id
FROM order_items oi
JOIN products p ON p.id = oi.product_id
WHERE oi.order_id = ANY($1)
ORDER BY oi.id ASC
`
	rows, err := r.pool.Query(ctx, q, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64][]domain.OrderItem)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.Sales,
			&item.Total,
			&item.ProfitRatio,
			&item.DepartmentID,
		); err != nil {
			return nil, err
		}
		result[item.OrderID] = append(result[item.OrderID], item)
	}
	return result, rows.Err()
}

func (r *postgresRepo) scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID,
		&o.CustomerID,
		&o.Status,
		&o.AddressLine,
		&o.City,
		&o.State,
		&o.Country,
		&o.Region,
		&o.Market,
		&o.PaymentType,
		&o.OrderDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}
