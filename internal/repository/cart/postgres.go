package cart

import (
	"context"
	"errors"

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

const cartColumns = `id, customer_id, current_session_id, created_at, updated_at`

func (r *postgresRepo) GetByCustomer(ctx context.Context, customerID int64) (*domain.Cart, error) {
	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE customer_id = $1
`
	return r.scanCart(r.pool.QueryRow(ctx, q, customerID))
}

func (r *postgresRepo) Create(ctx context.Context, customerID int64) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (customer_id, current_session_id)
VALUES ($1, '')
ON CONFLICT (customer_id) DO NOTHING
RETURNING ` + cartColumns + `
`
	cart, err := r.scanCart(r.pool.QueryRow(ctx, q, customerID))
	if errors.Is(err, domain.ErrNotFound) {
		// Lost the insert race; the existing row wins.
		return r.GetByCustomer(ctx, customerID)
	}
	return cart, err
}

func (r *postgresRepo) SetSession(ctx context.Context, cartID int64, sessionID string) error {
	const q = `
UPDATE carts
SET current_session_id = $1,
    updated_at = now()
WHERE id = $2
`
	cmd, err := r.pool.Exec(ctx, q, sessionID, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Touch(ctx context.Context, cartID int64) error {
	const q = `
UPDATE carts
SET updated_at = now()
WHERE id = $1
`
	_, err := r.pool.Exec(ctx, q, cartID)
	return err
}

func (r *postgresRepo) AdoptOrphanItems(ctx context.Context, cartID int64, sessionID string) (int64, error) {
	const q = `
UPDATE cart_items
SET session_id = $1,
    updated_at = now()
WHERE cart_id = $2 AND status <> 'CheckedOut' AND session_id = ''
`
	cmd, err := r.pool.Exec(ctx, q, sessionID, cartID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

const itemColumns = `id, cart_id, product_id, quantity, status, session_id, added_at, updated_at, checked_out_at`

func (r *postgresRepo) ListLiveItems(ctx context.Context, cartID int64, sessionID string) ([]domain.CartItem, error) {
	const q = `
SELECT ` + itemColumns + `
FROM cart_items
WHERE cart_id = $1 AND session_id = $2 AND status <> 'CheckedOut'
ORDER BY added_at ASC
`
	return r.queryItems(ctx, q, cartID, sessionID)
}

func (r *postgresRepo) ListSelectedItems(ctx context.Context, cartID int64, sessionID string) ([]domain.CartItem, error) {
	const q = `
SELECT ` + itemColumns + `
FROM cart_items
WHERE cart_id = $1 AND session_id = $2 AND status = 'Selected'
ORDER BY added_at ASC
`
	return r.queryItems(ctx, q, cartID, sessionID)
}

func (r *postgresRepo) FindLiveItem(ctx context.Context, cartID, productID int64, sessionID string) (*domain.CartItem, error) {
	const q = `
SELECT ` + itemColumns + `
FROM cart_items
WHERE cart_id = $1 AND product_id = $2 AND session_id = $3 AND status <> 'CheckedOut'
`
	return r.scanItem(r.pool.QueryRow(ctx, q, cartID, productID, sessionID))
}

func (r *postgresRepo) GetOwnedItem(ctx context.Context, itemID, customerID int64) (*domain.CartItem, error) {
	const q = `
SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.status, ci.session_id, ci.added_at, ci.updated_at, ci.checked_out_at
FROM cart_items ci
JOIN carts c ON c.id = ci.cart_id
WHERE ci.id = $1 AND c.customer_id = $2 AND ci.status <> 'CheckedOut'
`
	return r.scanItem(r.pool.QueryRow(ctx, q, itemID, customerID))
}

func (r *postgresRepo) InsertItem(ctx context.Context, item domain.CartItem) (int64, error) {
	const q = `
INSERT INTO cart_items (cart_id, product_id, quantity, status, session_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`
	var id int64
	err := r.pool.QueryRow(ctx, q, item.CartID, item.ProductID, item.Quantity, item.Status, item.SessionID).Scan(&id)
	return id, err
}

func (r *postgresRepo) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	const q = `
UPDATE cart_items
SET quantity = $1,
    updated_at = now()
WHERE id = $2 AND status <> 'CheckedOut'
`
	return r.execOne(ctx, q, quantity, itemID)
}

func (r *postgresRepo) SetItemStatus(ctx context.Context, itemID int64, status string) error {
	const q = `
UPDATE cart_items
SET status = $1,
    updated_at = now()
WHERE id = $2 AND status <> 'CheckedOut'
`
	return r.execOne(ctx, q, status, itemID)
}

func (r *postgresRepo) DeleteItem(ctx context.Context, itemID int64) error {
	const q = `
DELETE FROM cart_items
WHERE id = $1 AND status <> 'CheckedOut'
`
	return r.execOne(ctx, q, itemID)
}

func (r *postgresRepo) CountLiveItems(ctx context.Context, cartID int64, sessionID string) (int, error) {
	const q = `
SELECT COUNT(*)
FROM cart_items
WHERE cart_id = $1 AND session_id = $2 AND status <> 'CheckedOut'
`
	var count int
	err := r.pool.QueryRow(ctx, q, cartID, sessionID).Scan(&count)
	return count, err
}

func (r *postgresRepo) execOne(ctx context.Context, q string, args ...interface{}) error {
	cmd, err := r.pool.Exec(ctx, q, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) queryItems(ctx context.Context, q string, args ...interface{}) ([]domain.CartItem, error) {
	rows, err := r.pool.Query(ctx, q, args...)
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

func (r *postgresRepo) scanCart(row pgx.Row) (*domain.Cart, error) {
	var cart domain.Cart
	err := row.Scan(
		&cart.ID,
		&cart.CustomerID,
		&cart.CurrentSessionID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &cart, nil
}

func (r *postgresRepo) scanItem(row pgx.Row) (*domain.CartItem, error) {
	var item domain.CartItem
	err := row.Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
		&item.Status,
		&item.SessionID,
		&item.AddedAt,
		&item.UpdatedAt,
		&item.CheckedOutAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}
