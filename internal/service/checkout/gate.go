package checkout

import (
	"storefront-checkout/internal/domain"
	"storefront-checkout/internal/service/payment"
)

// The step gate is a pure function over a session snapshot. MaxAllowedStep
// checks the predicates in step order, so a later step is never reachable
// while an earlier one fails.

func CartValid(s domain.CheckoutSession) bool {
	return s.Authenticated && len(s.Items) > 0
}

func AddressValid(s domain.CheckoutSession) bool {
	if !s.Authenticated {
		return false
	}
	if s.SelectedAddressID != 0 {
		for _, a := range s.Addresses {
			if a.ID == s.SelectedAddressID {
				return true
			}
		}
		return false
	}
	return s.DraftVisible && s.DraftAddress != nil && s.DraftAddress.Complete()
}

func ShippingValid(s domain.CheckoutSession) bool {
	if !AddressValid(s) {
		return false
	}
	_, ok := domain.ShippingOptionByKey(s.Shipping.Key)
	return ok
}

func PaymentValid(s domain.CheckoutSession) bool {
	return ShippingValid(s) && payment.Validate(s.Payment) == nil
}

// MaxAllowedStep is the furthest step the user may reach: the index of the
// first unmet predicate in step order. Navigating backward never consults it.
func MaxAllowedStep(s domain.CheckoutSession) domain.CheckoutStep {
	switch {
	case !s.Authenticated:
		return domain.StepLogin
	case !CartValid(s):
		return domain.StepBag
	case !AddressValid(s):
		return domain.StepAddress
	case !ShippingValid(s):
		return domain.StepShipping
	case !PaymentValid(s):
		return domain.StepPayment
	default:
		return domain.StepConfirm
	}
}
