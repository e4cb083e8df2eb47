package seed

import (
	"context"
	"fmt"

	"dataco-storefront/internal/repository/catalog"
	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Department string
	Category   string
	Name       string
	Price      float64
	Cost       float64
	Stock      int
	IsActive   bool
}

type customerSeed struct {
	ID        int64
	FirstName string
	LastName  string
	Segment   string
	IsActive  bool
}

// Apply inserts demo catalog rows and customers for manual testing.
// It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	writer := catalog.NewPostgresWriter(pool)

	products := []productSeed{
		{"Fitness", "Cardio Equipment", "Elevation Training Mask", 79.99, 38.50, 120, true},
		{"Fitness", "Cardio Equipment", "Fighting Video Games", 59.99, 31.00, 45, true},
		{"Fitness", "Strength Training", "Adjustable Dumbbell Set", 199.99, 118.00, 30, true},
		{"Apparel", "Cleats", "Perfect Fit Football Cleats", 54.97, 27.20, 200, true},
		{"Apparel", "Men's Footwear", "Smart Watch", 327.75, 180.10, 14, true},
		{"Apparel", "Women's Apparel", "Summer T-Shirt", 50.00, 22.00, 0, true},
		{"Golf", "Golf Balls", "Tournament Golf Balls Dozen", 27.99, 12.60, 340, true},
		{"Golf", "Golf Gloves", "All-Weather Golf Glove", 19.99, 8.90, 75, true},
		{"Golf", "Golf Apparel", "Classic Golf Polo", 44.99, 21.40, 60, false},
		{"Outdoors", "Camping & Hiking", "Field & Stream Sportsman Shelter", 399.98, 235.00, 8, true},
		{"Outdoors", "Fishing", "Baitcast Fishing Reel", 99.99, 52.70, 25, true},
	}

	for _, p := range products {
		deptID, err := writer.EnsureDepartment(ctx, p.Department)
		if err != nil {
			return fmt.Errorf("ensure department %s: %w", p.Department, err)
		}
		catID, err := writer.EnsureCategory(ctx, deptID, p.Category)
		if err != nil {
			return fmt.Errorf("ensure category %s: %w", p.Category, err)
		}
		if _, err := writer.UpsertProduct(ctx, catID, catalog.ProductUpsert{
			Name:     p.Name,
			Price:    p.Price,
			Cost:     p.Cost,
			Stock:    p.Stock,
			IsActive: p.IsActive,
		}); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}

	customers := []customerSeed{
		{1, "Cally", "Holloway", "Consumer", true},
		{2, "Irene", "Luna", "Corporate", true},
		{3, "Gillian", "Maldonado", "Home Office", true},
		{4, "Tana", "Tate", "Consumer", false},
	}

	for _, c := range customers {
		if err := upsertCustomer(ctx, pool, c); err != nil {
			return fmt.Errorf("upsert customer %d: %w", c.ID, err)
		}
	}

	// Seeded customers use fixed ids, so keep the sequence ahead of them.
	_, err := pool.Exec(ctx, `SELECT setval('customers_id_seq', (SELECT MAX(id) FROM customers))`)
	if err != nil {
		return fmt.Errorf("advance customers sequence: %w", err)
	}

	return nil
}

func upsertCustomer(ctx context.Context, pool *pgxpool.Pool, c customerSeed) error {
	const q = `
INSERT INTO customers (id, first_name, last_name, segment, is_active)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE
SET first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    segment = EXCLUDED.segment,
    is_active = EXCLUDED.is_active
`
	_, err := pool.Exec(ctx, q, c.ID, c.FirstName, c.LastName, c.Segment, c.IsActive)
	return err
}
