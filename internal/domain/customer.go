package domain

// Customer is the read-only view of the customer directory consumed by the
// auth middleware. Account management itself lives outside this core.
type Customer struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Segment   string `json:"segment,omitempty"`
	IsActive  bool   `json:"isActive"`
}
