package domain

import "github.com/shopspring/decimal"

// ShippingOption is one entry of the fixed shipping table.
type ShippingOption struct {
	Key   string          `json:"key"`
	Label string          `json:"label"`
	ETA   string          `json:"eta"`
	Price decimal.Decimal `json:"price"`
}

// ShippingOptions returns the enumerated shipping methods in display order.
func ShippingOptions() []ShippingOption {
	return []ShippingOption{
		{Key: "gratis", Label: "Grátis", ETA: "5-7 dias", Price: decimal.Zero},
		{Key: "expresso", Label: "Expresso", ETA: "2-3 dias", Price: decimal.RequireFromString("25.90")},
	}
}

// ShippingOptionByKey resolves a shipping method key against the fixed table.
func ShippingOptionByKey(key string) (ShippingOption, bool) {
	for _, opt := range ShippingOptions() {
		if opt.Key == key {
			return opt, true
		}
	}
	return ShippingOption{}, false
}
