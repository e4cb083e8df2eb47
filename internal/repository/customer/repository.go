package customer

import (
	"context"

	"dataco-storefront/internal/domain"
)

// Repository is the read-only customer directory lookup used by the auth
// middleware.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
}
