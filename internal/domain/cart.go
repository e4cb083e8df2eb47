package domain

import "time"

// Cart item statuses. CheckedOut is terminal: the row becomes an immutable
// audit record and is excluded from every live-session query.
const (
	ItemInCart     = "InCart"
	ItemSelected   = "Selected"
	ItemCheckedOut = "CheckedOut"
)

// Cart holds a customer's accumulated items across visits. There is exactly
// one cart per customer; it is never deleted. CurrentSessionID scopes the
// live batch of items, separating them from already-checked-out history.
type Cart struct {
	ID               int64      `json:"id"`
	CustomerID       int64      `json:"customerId"`
	CurrentSessionID string     `json:"currentSessionId,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        *time.Time `json:"updatedAt,omitempty"`
	Items            []CartItem `json:"items,omitempty"`
}

type CartItem struct {
	ID           int64      `json:"id"`
	CartID       int64      `json:"cartId"`
	ProductID    int64      `json:"productId"`
	Quantity     int        `json:"quantity"`
	Status       string     `json:"status"`
	SessionID    string     `json:"sessionId,omitempty"`
	AddedAt      time.Time  `json:"addedAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
	CheckedOutAt *time.Time `json:"checkedOutAt,omitempty"`
}

// CartLineView is a live cart line joined with its product detail, as shown
// on the cart and checkout pages.
type CartLineView struct {
	Item       CartItem      `json:"item"`
	Product    ProductDetail `json:"product"`
	OutOfStock bool          `json:"outOfStock"`
}
