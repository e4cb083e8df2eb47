package catalog

import (
	"context"
	"errors"
	"io"
	"log"

	"dataco-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresReader struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Reader {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresReader{pool: pool, logger: logger}
}

const detailQuery = `
SELECT p.id, p.name, p.price, p.cost, p.stock, p.is_active,
       c.id, c.name, c.is_active,
       d.id, d.name, d.is_active
FROM products p
JOIN categories c ON c.id = p.category_id
JOIN departments d ON d.id = c.department_id
`

func (r *postgresReader) GetDetail(ctx context.Context, productID int64) (*domain.ProductDetail, error) {
	var p domain.ProductDetail
	err := r.pool.QueryRow(ctx, detailQuery+`WHERE p.id = $1`, productID).Scan(
		&p.ID, &p.Name, &p.Price, &p.Cost, &p.Stock, &p.IsActive,
		&p.CategoryID, &p.CategoryName, &p.CategoryIsActive,
		&p.DepartmentID, &p.DepartmentName, &p.DepartmentIsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("catalog: get product id=%d error=%v", productID, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresReader) GetDetails(ctx context.Context, productIDs []int64) (map[int64]domain.ProductDetail, error) {
	if len(productIDs) == 0 {
		return map[int64]domain.ProductDetail{}, nil
	}
	rows, err := r.pool.Query(ctx, detailQuery+`WHERE p.id = ANY($1)`, productIDs)
	if err != nil {
		r.logger.Printf("catalog: batch get %d ids error=%v", len(productIDs), err)
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64]domain.ProductDetail, len(productIDs))
	for rows.Next() {
		var p domain.ProductDetail
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Price, &p.Cost, &p.Stock, &p.IsActive,
			&p.CategoryID, &p.CategoryName, &p.CategoryIsActive,
			&p.DepartmentID, &p.DepartmentName, &p.DepartmentIsActive,
		); err != nil {
			return nil, err
		}
		result[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
