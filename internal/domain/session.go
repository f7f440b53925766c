package domain

import "github.com/google/uuid"

// CheckoutStep is an index into the ordered checkout wizard.
type CheckoutStep int

const (
	StepLogin CheckoutStep = iota
	StepBag
	StepAddress
	StepShipping
	StepPayment
	StepConfirm
)

func (s CheckoutStep) String() string {
	switch s {
	case StepLogin:
		return "login"
	case StepBag:
		return "bag"
	case StepAddress:
		return "address"
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}

// CheckoutSession is the aggregate the step gate evaluates. It is owned by
// the checkout orchestrator and mutated only through its transitions.
type CheckoutSession struct {
	ID            uuid.UUID
	Token         string
	CartKey       string
	Authenticated bool
	CustomerName  string

	Step  CheckoutStep
	Items []CartItem

	Addresses         []Address
	SelectedAddressID int64
	DraftAddress      *Address
	DraftVisible      bool

	Shipping ShippingOption
	Payment  PaymentSelection

	Submitting  bool
	Confirmed   bool
	OrderNumber string
}
