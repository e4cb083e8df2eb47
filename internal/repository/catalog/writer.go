package catalog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductUpsert carries one catalog row for import or seeding.
type ProductUpsert struct {
	Name     string
	Price    float64
	Cost     float64
	Stock    int
	IsActive bool
}

// Writer is the maintenance-side catalog interface used by the seeder and
// the CSV importer. Names are the natural keys: departments by name,
// categories by (department, name), products by (category, name).
type Writer interface {
	EnsureDepartment(ctx context.Context, name string) (int64, error)
	EnsureCategory(ctx context.Context, departmentID int64, name string) (int64, error)
	UpsertProduct(ctx context.Context, categoryID int64, p ProductUpsert) (int64, error)
}

type postgresWriter struct {
	pool *pgxpool.Pool
}

func NewPostgresWriter(pool *pgxpool.Pool) Writer {
	return &postgresWriter{pool: pool}
}

func (w *postgresWriter) EnsureDepartment(ctx context.Context, name string) (int64, error) {
	const q = `
INSERT INTO departments (name)
VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id
`
	var id int64
	if err := w.pool.QueryRow(ctx, q, name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (w *postgresWriter) EnsureCategory(ctx context.Context, departmentID int64, name string) (int64, error) {
	const q = `
INSERT INTO categories (department_id, name)
VALUES ($1, $2)
ON CONFLICT (department_id, name) DO UPDATE SET name = EXCLUDED.name
RETURNING id
`
	var id int64
	if err := w.pool.QueryRow(ctx, q, departmentID, name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (w *postgresWriter) UpsertProduct(ctx context.Context, categoryID int64, p ProductUpsert) (int64, error) {
	const q = `
INSERT INTO products (category_id, name, price, cost, stock, is_active)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (category_id, name) DO UPDATE
SET price = EXCLUDED.price,
    cost = EXCLUDED.cost,
    stock = EXCLUDED.stock,
    is_active = EXCLUDED.is_active
RETURNING id
`
	var id int64
	err := w.pool.QueryRow(ctx, q, categoryID, p.Name, p.Price, p.Cost, p.Stock, p.IsActive).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}
