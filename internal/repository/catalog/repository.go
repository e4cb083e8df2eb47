package catalog

import (
	"context"

	"dataco-storefront/internal/domain"
)

// Reader is the read-only catalog interface this core consumes. Catalog
// maintenance lives elsewhere; the cart and checkout paths only ever need
// product rows joined with their category and department flags.
type Reader interface {
	GetDetail(ctx context.Context, productID int64) (*domain.ProductDetail, error)
	// GetDetails batch-fetches a bounded id set; missing ids are simply
	// absent from the result.
	GetDetails(ctx context.Context, productIDs []int64) (map[int64]domain.ProductDetail, error)
}
