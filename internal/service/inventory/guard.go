// Package inventory evaluates the three-layer availability rule: a product
// is purchasable only while its own active flag, its category's and that
// category's department's are all set. The rule runs at every trust
// boundary; outside the checkout transaction it is advisory, under the
// ordered row locks it is authoritative.
package inventory

import (
	"fmt"

	"dataco-storefront/internal/domain"
)

// Available reports whether the product passes the active-flag chain.
func Available(p domain.ProductDetail) bool {
	return p.IsActive && p.CategoryIsActive && p.DepartmentIsActive
}

// Sufficient reports whether known stock covers the requested quantity.
func Sufficient(p domain.ProductDetail, quantity int) bool {
	return p.Stock >= quantity
}

// Validate checks one line and returns its failure, or nil. A nil product
// stands for a row that no longer exists.
func Validate(p *domain.ProductDetail, productID int64, quantity int) *domain.LineFailure {
	if p == nil {
		return &domain.LineFailure{ProductID: productID, Reason: "product no longer exists"}
	}
	if !Available(*p) {
		return &domain.LineFailure{ProductID: p.ID, ProductName: p.Name, Reason: "no longer available"}
	}
	if !Sufficient(*p, quantity) {
		return &domain.LineFailure{
			ProductID:   p.ID,
			ProductName: p.Name,
			Reason:      fmt.Sprintf("only %d left (requested %d)", p.Stock, quantity),
			Stock:       p.Stock,
			Requested:   quantity,
		}
	}
	return nil
}
