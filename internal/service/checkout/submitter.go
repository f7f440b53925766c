package checkout

import (
	"context"
	"errors"

	"storefront-checkout/internal/domain"
)

type submitAPI interface {
	SubmitOrder(ctx context.Context, token string, sub domain.OrderSubmission) (*domain.OrderResult, error)
}

// Submitter builds the finalize-order request from orchestrator state and
// interprets the response. It is invoked only from the confirm step.
type Submitter struct {
	api submitAPI
}

func NewSubmitter(api submitAPI) *Submitter {
	return &Submitter{api: api}
}

// Submit sends the order. The delivery address must already have a server
// identity; drafts are persisted by the orchestrator before this point.
func (s *Submitter) Submit(ctx context.Context, token string, items []domain.CartItem, addressID int64, shippingKey string, method domain.PaymentMethod) (*domain.OrderResult, error) {
	if len(items) == 0 {
		return nil, errors.New("cart is empty")
	}
	if addressID == 0 {
		return nil, errors.New("delivery address not persisted")
	}
	return s.api.SubmitOrder(ctx, token, buildSubmission(items, addressID, shippingKey, method))
}

func buildSubmission(items []domain.CartItem, addressID int64, shippingKey string, method domain.PaymentMethod) domain.OrderSubmission {
	out := domain.OrderSubmission{
		Items:             make([]domain.OrderItem, 0, len(items)),
		DeliveryAddressID: addressID,
		ShippingMethod:    shippingKey,
		PaymentMethod:     string(method),
	}
	for _, it := range items {
		out.Items = append(out.Items, domain.OrderItem{
			ProductID: it.ProductID,
			Title:     it.Title,
			ImageURL:  it.ImageURL,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}
	return out
}
