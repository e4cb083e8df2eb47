package checkout

import (
	"context"
	"errors"
	"fmt"

	"dataco-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool}
}

func (s *postgresStore) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(&postgresTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type postgresTx struct {
	tx pgx.Tx
}

func (t *postgresTx) ListSelectedItems(ctx context.Context, cartID int64, sessionID string) ([]domain.CartItem, error) {
	const q = `
SELECT id, cart_id, product_id, quantity, status, session_id, added_at, updated_at, checked_out_at
FROM cart_items
WHERE cart_id = $1 AND session_id = $2 AND status = 'Selected'
ORDER BY added_at ASC
`
	rows, err := t.tx.Query(ctx, q, cartID, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.Quantity,
			&item.Status,
			&item.SessionID,
			&item.AddedAt,
			&item.UpdatedAt,
			&item.CheckedOutAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (t *postgresTx) LockProduct(ctx context.Context, productID int64) (*domain.ProductDetail, error) {
	// FOR UPDATE OF p locks only the product row; category and department
	// rows stay readable to other transactions.
	const q = `
SELECT p.id, p.name, p.price, p.cost, p.stock, p.is_active,
       c.id, c.name, c.is_active,
       d.id, d.name, d.is_active
FROM products p
JOIN categories c ON c.id = p.category_id
JOIN departments d ON d.id = c.department_id
WHERE p.id = $1
FOR UPDATE OF p
`
	var p domain.ProductDetail
	err := t.tx.QueryRow(ctx, q, productID).Scan(
		&p.ID, &p.Name, &p.Price, &p.Cost, &p.Stock, &p.IsActive,
		&p.CategoryID, &p.CategoryName, &p.CategoryIsActive,
		&p.DepartmentID, &p.DepartmentName, &p.DepartmentIsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (t *postgresTx) DecrementStock(ctx context.Context, productID int64, quantity int) error {
	const q = `
UPDATE products
SET stock = stock - $1
WHERE id = $2 AND stock >= $1
`
	cmd, err := t.tx.Exec(ctx, q, quantity, productID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		// Unreachable when the caller validated under lock; kept as a guard
		// against future call sites skipping that step.
		return fmt.Errorf("decrement stock product=%d qty=%d: insufficient stock", productID, quantity)
	}
	return nil
}

func (t *postgresTx) InsertOrder(ctx context.Context, order domain.Order) (int64, error) {
	const q = `
INSERT INTO orders (customer_id, status, address_line, order_city, order_state, order_country, order_region, market, payment_type, order_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id
`
	var id int64
	err := t.tx.QueryRow(ctx, q,
		order.CustomerID,
		order.Status,
		order.AddressLine,
		order.City,
		order.State,
		order.Country,
		order.Region,
		order.Market,
		order.PaymentType,
		order.OrderDate,
	).Scan(&id)
	return id, err
}

func (t *postgresTx) InsertOrderItem(ctx context.Context, item domain.OrderItem) error {
	const q = `
INSERT INTO order_items (order_id, product_id, quantity, sales, total, profit_ratio, department_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err := t.tx.Exec(ctx, q,
		item.OrderID,
		item.ProductID,
		item.Quantity,
		item.Sales,
		item.Total,
		item.ProfitRatio,
		item.DepartmentID,
	)
	return err
}

func (t *postgresTx) InsertShipping(ctx context.Context, shipping domain.Shipping) error {
	const q = `
INSERT INTO shippings (order_id, shipping_mode, days_for_shipment_scheduled, days_for_shipping_actual, delivery_status, late_delivery_risk, order_date)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err := t.tx.Exec(ctx, q,
		shipping.OrderID,
		shipping.ShippingMode,
		shipping.DaysForShipmentScheduled,
		shipping.DaysForShippingActual,
		shipping.DeliveryStatus,
		shipping.LateDeliveryRisk,
		shipping.OrderDate,
	)
	return err
}

func (t *postgresTx) MarkItemsCheckedOut(ctx context.Context, itemIDs []int64) error {
	const q = `
UPDATE cart_items
SET status = 'CheckedOut',
    checked_out_at = now(),
    updated_at = now()
WHERE id = ANY($1) AND status = 'Selected'
`
	cmd, err := t.tx.Exec(ctx, q, itemIDs)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() != int64(len(itemIDs)) {
		return fmt.Errorf("mark checked out: expected %d rows, got %d", len(itemIDs), cmd.RowsAffected())
	}
	return nil
}
