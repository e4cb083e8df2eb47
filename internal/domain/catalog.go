package domain

// ProductDetail is a product row joined with its category and department,
// fetched as one explicit batch instead of lazy graph navigation. The three
// active flags form the availability chain evaluated by the inventory guard.
type ProductDetail struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Price              float64 `json:"price"`
	Cost               float64 `json:"cost"`
	Stock              int     `json:"stock"`
	IsActive           bool    `json:"isActive"`
	CategoryID         int64   `json:"categoryId"`
	CategoryName       string  `json:"categoryName"`
	CategoryIsActive   bool    `json:"categoryIsActive"`
	DepartmentID       int64   `json:"departmentId"`
	DepartmentName     string  `json:"departmentName"`
	DepartmentIsActive bool    `json:"departmentIsActive"`
}
