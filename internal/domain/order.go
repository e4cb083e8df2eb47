package domain

import "time"

// Order statuses.
const (
	OrderProcessing = "PROCESSING"
	OrderComplete   = "COMPLETE"
	OrderCanceled   = "CANCELED"
)

// Delivery statuses carried on the shipping row.
const (
	DeliveryWaiting  = "Waiting for Shipment"
	DeliveryLate     = "Late delivery"
	DeliveryOnTime   = "Shipping on time"
	DeliveryAdvance  = "Advance shipping"
	DeliveryCanceled = "Cancel delivery"
)

type Order struct {
	ID          int64       `json:"id"`
	CustomerID  int64       `json:"customerId"`
	Status      string      `json:"status"`
	AddressLine string      `json:"addressLine"`
	City        string      `json:"city"`
	State       string      `json:"state"`
	Country     string      `json:"country"`
	Region      string      `json:"region"`
	Market      string      `json:"market"`
	PaymentType string      `json:"paymentType"`
	OrderDate   time.Time   `json:"orderDate"`
	Items       []OrderItem `json:"items,omitempty"`
	Shipping    *Shipping   `json:"shipping,omitempty"`
}

// OrderItem is a purchase-time snapshot of price and cost. It is
// intentionally denormalized: later catalog changes never alter historical
// order economics.
type OrderItem struct {
	ID           int64   `json:"id"`
	OrderID      int64   `json:"orderId"`
	ProductID    int64   `json:"productId"`
	ProductName  string  `json:"productName,omitempty"`
	Quantity     int     `json:"quantity"`
	Sales        float64 `json:"sales"`
	Total        float64 `json:"total"`
	ProfitRatio  float64 `json:"profitRatio"`
	DepartmentID int64   `json:"departmentId"`
}

// Shipping is keyed 1:1 by order. It starts in "Waiting for Shipment" and is
// mutated exactly once, by delivery confirmation or cancellation.
type Shipping struct {
	OrderID                  int64      `json:"orderId"`
	ShippingMode             string     `json:"shippingMode"`
	DaysForShipmentScheduled int        `json:"daysForShipmentScheduled"`
	DaysForShippingActual    int        `json:"daysForShippingActual"`
	DeliveryStatus           string     `json:"deliveryStatus"`
	LateDeliveryRisk         bool       `json:"lateDeliveryRisk"`
	OrderDate                time.Time  `json:"orderDate"`
	ShippingDate             *time.Time `json:"shippingDate,omitempty"`
}
