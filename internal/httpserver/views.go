package httpserver

import (
	"github.com/shopspring/decimal"

	"storefront-checkout/internal/domain"
	checkoutsvc "storefront-checkout/internal/service/checkout"
)

type sessionView struct {
	ID            string `json:"id"`
	Authenticated bool   `json:"authenticated"`
	CustomerName  string `json:"customer_name,omitempty"`

	Step        int    `json:"step"`
	StepName    string `json:"step_name"`
	AllowedStep int    `json:"allowed_step"`

	CartValid     bool `json:"cart_valid"`
	AddressValid  bool `json:"address_valid"`
	ShippingValid bool `json:"shipping_valid"`
	PaymentValid  bool `json:"payment_valid"`

	Items []domain.CartItem `json:"items"`
	Total decimal.Decimal   `json:"total"`

	Addresses         []domain.Address `json:"addresses"`
	SelectedAddressID int64            `json:"selected_address_id,omitempty"`
	DraftAddress      *domain.Address  `json:"draft_address,omitempty"`
	DraftVisible      bool             `json:"draft_visible"`

	ShippingOptions []domain.ShippingOption `json:"shipping_options"`
	Shipping        domain.ShippingOption   `json:"shipping"`
	PaymentMethod   string                  `json:"payment_method"`

	Submitting  bool   `json:"submitting"`
	Confirmed   bool   `json:"confirmed"`
	OrderNumber string `json:"order_number,omitempty"`
}

func toSessionView(s domain.CheckoutSession) sessionView {
	items := s.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	addresses := s.Addresses
	if addresses == nil {
		addresses = []domain.Address{}
	}
	method := ""
	if s.Payment != nil {
		method = string(s.Payment.Method())
	}

	return sessionView{
		ID:                s.ID.String(),
		Authenticated:     s.Authenticated,
		CustomerName:      s.CustomerName,
		Step:              int(s.Step),
		StepName:          s.Step.String(),
		AllowedStep:       int(checkoutsvc.MaxAllowedStep(s)),
		CartValid:         checkoutsvc.CartValid(s),
		AddressValid:      checkoutsvc.AddressValid(s),
		ShippingValid:     checkoutsvc.ShippingValid(s),
		PaymentValid:      checkoutsvc.PaymentValid(s),
		Items:             items,
		Total:             domain.CartTotal(items),
		Addresses:         addresses,
		SelectedAddressID: s.SelectedAddressID,
		DraftAddress:      s.DraftAddress,
		DraftVisible:      s.DraftVisible,
		ShippingOptions:   domain.ShippingOptions(),
		Shipping:          s.Shipping,
		PaymentMethod:     method,
		Submitting:        s.Submitting,
		Confirmed:         s.Confirmed,
		OrderNumber:       s.OrderNumber,
	}
}
