package payment

import (
	"errors"
	"strings"

	"storefront-checkout/internal/domain"
)

// Validate applies the selected method's rules and nothing else. A nil
// selection means the payment step has not been touched yet.
func Validate(sel domain.PaymentSelection) error {
	switch p := sel.(type) {
	case domain.PixPayment:
		return nil
	case domain.CardPayment:
		return validateCard(p)
	case domain.BoletoPayment:
		if len(domain.Digits(p.PayerCPF)) != 11 {
			return errors.New("cpf must have 11 digits")
		}
		return nil
	case nil:
		return errors.New("payment method required")
	default:
		return errors.New("unsupported payment method")
	}
}

func validateCard(card domain.CardPayment) error {
	if strings.TrimSpace(card.HolderName) == "" {
		return errors.New("card holder name required")
	}
	if len(domain.Digits(card.Number)) < 13 {
		return errors.New("card number must have at least 13 digits")
	}
	if strings.TrimSpace(card.Expiry) == "" {
		return errors.New("card expiry required")
	}
	if len(domain.Digits(card.CVV)) < 3 {
		return errors.New("card cvv must have at least 3 digits")
	}
	return nil
}
