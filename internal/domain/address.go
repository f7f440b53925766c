package domain

import "strings"

// Address is a delivery address as the commerce backend serializes it.
// ID is zero for a draft that has not been persisted yet.
type Address struct {
	ID              int64  `json:"id,omitempty"`
	Label           string `json:"label"`
	CEP             string `json:"cep"`
	Street          string `json:"endereco"`
	Number          string `json:"numero"`
	Complement      string `json:"complemento,omitempty"`
	Neighborhood    string `json:"bairro"`
	City            string `json:"cidade"`
	State           string `json:"estado"`
	DefaultDelivery bool   `json:"is_default_delivery"`
}

// Persisted reports whether the address has a server identity.
func (a Address) Persisted() bool {
	return a.ID != 0
}

// Complete reports whether all required fields are filled: an 8-digit CEP
// plus non-blank street, number, neighborhood, city and state.
func (a Address) Complete() bool {
	if len(Digits(a.CEP)) != 8 {
		return false
	}
	for _, v := range []string{a.Street, a.Number, a.Neighborhood, a.City, a.State} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// Digits strips every non-digit rune from s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
