package checkout

import (
	"context"
	"log"
	"sync"

	"storefront-checkout/internal/domain"
	"storefront-checkout/internal/service/address"
)

// CartStore is the slice of the cart service the orchestrator needs: the
// current snapshot for re-validation and the clear after a confirmed order.
type CartStore interface {
	Items(ctx context.Context, ownerKey string) ([]domain.CartItem, error)
	Clear(ctx context.Context, ownerKey string) error
}

// Orchestrator owns one checkout session. Every mutation goes through its
// lock, so transitions never race even though HTTP handlers call in
// concurrently; the cart snapshot is re-read on each transition.
type Orchestrator struct {
	mu        sync.Mutex
	session   *domain.CheckoutSession
	carts     CartStore
	addresses *address.Manager
	submitter *Submitter
	logger    *log.Logger
}

func newOrchestrator(session *domain.CheckoutSession, carts CartStore, addresses *address.Manager, submitter *Submitter, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		session:   session,
		carts:     carts,
		addresses: addresses,
		submitter: submitter,
		logger:    logger,
	}
}

// Snapshot returns a copy of the session safe to read without the lock.
func (o *Orchestrator) Snapshot() domain.CheckoutSession {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.copySession()
}

// GoTo arbitrates a step change. Moving backward is always allowed and keeps
// entered data; moving forward re-reads the cart and is clamped to the gate.
func (o *Orchestrator) GoTo(ctx context.Context, step domain.CheckoutStep) error {
	if step < domain.StepLogin || step > domain.StepConfirm {
		return domain.ErrNotFound
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if step <= o.session.Step {
		o.session.Step = step
		return nil
	}

	if err := o.reloadCartLocked(ctx); err != nil {
		return err
	}
	if step > MaxAllowedStep(*o.session) {
		return domain.ErrStepLocked
	}
	o.session.Step = step
	return nil
}

// ReloadCart refreshes the session's cart snapshot from the store.
func (o *Orchestrator) ReloadCart(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.reloadCartLocked(ctx)
}

// SetShipping selects one of the enumerated shipping options.
func (o *Orchestrator) SetShipping(key string) error {
	opt, ok := domain.ShippingOptionByKey(key)
	if !ok {
		return domain.ErrNotFound
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.session.Shipping = opt
	return nil
}

// SetPayment replaces the payment selection wholesale; fields of the
// previous method are gone with it.
func (o *Orchestrator) SetPayment(sel domain.PaymentSelection) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.session.Payment = sel
}

// RefreshAddresses re-fetches the saved address list.
func (o *Orchestrator) RefreshAddresses(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.addresses.Refresh(ctx)
}

// SelectAddress picks a saved address as the delivery target.
func (o *Orchestrator) SelectAddress(id int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.addresses.Select(id)
}

// SetDraftAddress replaces the draft being composed.
func (o *Orchestrator) SetDraftAddress(draft domain.Address) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.addresses.SetDraft(draft)
}

// ShowDraftAddress toggles the new-address form.
func (o *Orchestrator) ShowDraftAddress(show bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.addresses.ShowDraft(show)
}

// LookupPostal fills the draft from the postal service.
func (o *Orchestrator) LookupPostal(ctx context.Context, cep string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.addresses.LookupPostal(ctx, cep)
}

// CreateAddress persists the current draft.
func (o *Orchestrator) CreateAddress(ctx context.Context, label string) (*domain.Address, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.addresses.CreateDraft(ctx, label)
}

// PromoteDefaultAddress makes a saved address the default delivery target.
func (o *Orchestrator) PromoteDefaultAddress(ctx context.Context, id int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.addresses.PromoteDefault(ctx, id)
}

// DeleteAddress removes a saved address.
func (o *Orchestrator) DeleteAddress(ctx context.Context, id int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.addresses.Delete(ctx, id)
}

// Finalize submits the order. Only one submission may be in flight per
// session; on success the cart is cleared and the session marked confirmed,
// on failure every piece of state is left exactly as it was.
func (o *Orchestrator) Finalize(ctx context.Context) (string, error) {
	o.mu.Lock()
	if o.session.Submitting {
		o.mu.Unlock()
		return "", domain.ErrSubmitInFlight
	}
	if err := o.reloadCartLocked(ctx); err != nil {
		o.mu.Unlock()
		return "", err
	}
	if MaxAllowedStep(*o.session) < domain.StepConfirm {
		o.mu.Unlock()
		return "", domain.ErrStepLocked
	}

	addressID := o.session.SelectedAddressID
	if addressID == 0 {
		created, err := o.addresses.CreateDraft(ctx, "")
		if err != nil {
			o.mu.Unlock()
			return "", err
		}
		addressID = created.ID
	}

	o.session.Submitting = true
	token := o.session.Token
	items := append([]domain.CartItem(nil), o.session.Items...)
	shippingKey := o.session.Shipping.Key
	method := o.session.Payment.Method()
	o.mu.Unlock()

	result, err := o.submitter.Submit(ctx, token, items, addressID, shippingKey, method)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.session.Submitting = false
	if err != nil {
		return "", err
	}

	o.session.Confirmed = true
	o.session.OrderNumber = result.OrderNumber
	if err := o.carts.Clear(ctx, o.session.CartKey); err != nil {
		// The order exists either way; an uncleared cart is recoverable.
		o.logger.Printf("clear cart %q after order %s: %v", o.session.CartKey, result.OrderNumber, err)
	}
	o.session.Items = nil
	return result.OrderNumber, nil
}

func (o *Orchestrator) reloadCartLocked(ctx context.Context) error {
	items, err := o.carts.Items(ctx, o.session.CartKey)
	if err != nil {
		return err
	}
	o.session.Items = items
	return nil
}

func (o *Orchestrator) copySession() domain.CheckoutSession {
	out := *o.session
	out.Items = append([]domain.CartItem(nil), o.session.Items...)
	out.Addresses = append([]domain.Address(nil), o.session.Addresses...)
	if o.session.DraftAddress != nil {
		draft := *o.session.DraftAddress
		out.DraftAddress = &draft
	}
	return out
}
