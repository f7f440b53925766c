package domain

import "github.com/shopspring/decimal"

// OrderItem is one cart line as the finalize-order endpoint expects it.
type OrderItem struct {
	ProductID int64           `json:"product_id"`
	Title     string          `json:"title"`
	ImageURL  string          `json:"image_url,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// OrderSubmission is the finalize-order request body.
type OrderSubmission struct {
	Items             []OrderItem `json:"items"`
	DeliveryAddressID int64       `json:"delivery_address_id"`
	ShippingMethod    string      `json:"shipping_method"`
	PaymentMethod     string      `json:"payment_method"`
}

// OrderResult is the interpreted finalize-order response.
type OrderResult struct {
	OrderNumber string
}
