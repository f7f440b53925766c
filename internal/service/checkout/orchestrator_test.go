package checkout

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-checkout/internal/backend"
	"storefront-checkout/internal/domain"
	"storefront-checkout/internal/postal"
)

type stubBackend struct {
	mu     sync.Mutex
	info   backend.SessionInfo
	nextID int64

	submitResult  *domain.OrderResult
	submitErr     error
	submissions   []domain.OrderSubmission
	submitEntered chan struct{}
	submitRelease chan struct{}
}

func (s *stubBackend) Session(_ context.Context, _ string) (*backend.SessionInfo, error) {
	info := s.info
	info.Addresses = append([]domain.Address(nil), s.info.Addresses...)
	return &info, nil
}

func (s *stubBackend) ListAddresses(_ context.Context, _ string) ([]domain.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Address(nil), s.info.Addresses...), nil
}

func (s *stubBackend) CreateAddress(_ context.Context, _ string, draft domain.Address) (*domain.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	draft.ID = s.nextID + 100
	s.info.Addresses = append(s.info.Addresses, draft)
	return &draft, nil
}

func (s *stubBackend) UpdateAddress(_ context.Context, _ string, id int64, patch backend.AddressPatch) (*domain.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.info.Addresses {
		if s.info.Addresses[i].ID == id {
			if patch.DefaultDelivery != nil {
				s.info.Addresses[i].DefaultDelivery = *patch.DefaultDelivery
			}
			a := s.info.Addresses[i]
			return &a, nil
		}
	}
	return nil, &domain.BackendError{Status: 404, Detail: "Endereço não encontrado."}
}

func (s *stubBackend) DeleteAddress(_ context.Context, _ string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.info.Addresses[:0]
	for _, a := range s.info.Addresses {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.info.Addresses = kept
	return nil
}

func (s *stubBackend) SubmitOrder(_ context.Context, _ string, sub domain.OrderSubmission) (*domain.OrderResult, error) {
	if s.submitEntered != nil {
		close(s.submitEntered)
	}
	if s.submitRelease != nil {
		<-s.submitRelease
	}
	s.mu.Lock()
	s.submissions = append(s.submissions, sub)
	s.mu.Unlock()
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	if s.submitResult != nil {
		return s.submitResult, nil
	}
	return &domain.OrderResult{OrderNumber: "PED-1"}, nil
}

type stubCarts struct {
	mu      sync.Mutex
	items   map[string][]domain.CartItem
	cleared []string
}

func newStubCarts() *stubCarts {
	return &stubCarts{items: map[string][]domain.CartItem{}}
}

func (s *stubCarts) Items(_ context.Context, ownerKey string) ([]domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CartItem(nil), s.items[ownerKey]...), nil
}

func (s *stubCarts) Clear(_ context.Context, ownerKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, ownerKey)
	s.cleared = append(s.cleared, ownerKey)
	return nil
}

type stubPostal struct {
	result *postal.Result
	err    error
}

func (s *stubPostal) Find(_ context.Context, _ string) (*postal.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func loggedInBackend() *stubBackend {
	return &stubBackend{
		info: backend.SessionInfo{
			LoggedIn: true,
			Username: "maria",
			Name:     "Maria Silva",
			Addresses: []domain.Address{
				{ID: 7, Label: "Casa", CEP: "01310100", Street: "Av. Paulista", Number: "100", Neighborhood: "Bela Vista", City: "São Paulo", State: "SP", DefaultDelivery: true},
			},
			DefaultDeliveryAddressID: 7,
		},
	}
}

func cartWithOneItem() *stubCarts {
	carts := newStubCarts()
	carts.items["cart-1"] = []domain.CartItem{
		{ProductID: 1, Title: "Vela Aromática", UnitPrice: decimal.RequireFromString("100"), Quantity: 1},
	}
	return carts
}

func startSession(t *testing.T, api *stubBackend, carts *stubCarts, entry *domain.CheckoutStep) *Orchestrator {
	t.Helper()
	svc := NewService(api, carts, &stubPostal{}, testLogger())
	orch, err := svc.Start(context.Background(), "tok", "cart-1", entry)
	require.NoError(t, err)
	return orch
}

func TestStartAnonymousLandsOnLogin(t *testing.T) {
	api := &stubBackend{info: backend.SessionInfo{LoggedIn: false}}
	entry := domain.StepAddress
	orch := startSession(t, api, cartWithOneItem(), &entry)

	snap := orch.Snapshot()
	assert.False(t, snap.Authenticated)
	assert.Equal(t, domain.StepLogin, snap.Step)
}

func TestStartLoggedInLandsOnBag(t *testing.T) {
	orch := startSession(t, loggedInBackend(), cartWithOneItem(), nil)

	snap := orch.Snapshot()
	assert.True(t, snap.Authenticated)
	assert.Equal(t, "Maria Silva", snap.CustomerName)
	assert.Equal(t, domain.StepBag, snap.Step)
	assert.Equal(t, int64(7), snap.SelectedAddressID)
	assert.Equal(t, "gratis", snap.Shipping.Key)
	assert.Equal(t, domain.PaymentPix, snap.Payment.Method())
}

func TestStartEntryClampedToGate(t *testing.T) {
	api := loggedInBackend()
	api.info.Addresses = nil
	api.info.DefaultDeliveryAddressID = 0
	entry := domain.StepConfirm
	orch := startSession(t, api, cartWithOneItem(), &entry)

	snap := orch.Snapshot()
	assert.Equal(t, domain.StepAddress, snap.Step)
	assert.True(t, snap.DraftVisible)
}

func TestStartEntryHonoredWhenReady(t *testing.T) {
	entry := domain.StepConfirm
	orch := startSession(t, loggedInBackend(), cartWithOneItem(), &entry)
	assert.Equal(t, domain.StepConfirm, orch.Snapshot().Step)
}

func TestGoToForwardLockedBackwardFree(t *testing.T) {
	api := loggedInBackend()
	carts := newStubCarts()
	orch := startSession(t, api, carts, nil)

	// Empty cart keeps everything past the bag locked.
	err := orch.GoTo(context.Background(), domain.StepAddress)
	assert.ErrorIs(t, err, domain.ErrStepLocked)

	carts.mu.Lock()
	carts.items["cart-1"] = []domain.CartItem{{ProductID: 1, Title: "Vela", UnitPrice: decimal.RequireFromString("10"), Quantity: 1}}
	carts.mu.Unlock()

	require.NoError(t, orch.GoTo(context.Background(), domain.StepConfirm))
	assert.Equal(t, domain.StepConfirm, orch.Snapshot().Step)

	require.NoError(t, orch.GoTo(context.Background(), domain.StepBag))
	assert.Equal(t, domain.StepBag, orch.Snapshot().Step)

	assert.ErrorIs(t, orch.GoTo(context.Background(), domain.CheckoutStep(9)), domain.ErrNotFound)
}

func TestSetShippingRejectsUnknownKey(t *testing.T) {
	orch := startSession(t, loggedInBackend(), cartWithOneItem(), nil)
	assert.ErrorIs(t, orch.SetShipping("transportadora"), domain.ErrNotFound)
	require.NoError(t, orch.SetShipping("expresso"))
	assert.Equal(t, "expresso", orch.Snapshot().Shipping.Key)
}

func TestSetPaymentReplacesSelection(t *testing.T) {
	orch := startSession(t, loggedInBackend(), cartWithOneItem(), nil)
	orch.SetPayment(domain.CardPayment{HolderName: "Maria", Number: "4111111111111111", Expiry: "12/28", CVV: "123"})
	assert.Equal(t, domain.PaymentCard, orch.Snapshot().Payment.Method())

	orch.SetPayment(domain.PixPayment{})
	assert.Equal(t, domain.PaymentPix, orch.Snapshot().Payment.Method())
}

func TestFinalizeSubmitsAndClearsCart(t *testing.T) {
	api := loggedInBackend()
	api.submitResult = &domain.OrderResult{OrderNumber: "PED-123"}
	carts := cartWithOneItem()
	orch := startSession(t, api, carts, nil)

	number, err := orch.Finalize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "PED-123", number)

	snap := orch.Snapshot()
	assert.True(t, snap.Confirmed)
	assert.False(t, snap.Submitting)
	assert.Equal(t, "PED-123", snap.OrderNumber)
	assert.Empty(t, snap.Items)
	assert.Equal(t, []string{"cart-1"}, carts.cleared)

	require.Len(t, api.submissions, 1)
	sub := api.submissions[0]
	assert.Equal(t, int64(7), sub.DeliveryAddressID)
	assert.Equal(t, "gratis", sub.ShippingMethod)
	assert.Equal(t, "pix", sub.PaymentMethod)
	require.Len(t, sub.Items, 1)
	assert.Equal(t, int64(1), sub.Items[0].ProductID)
	assert.True(t, sub.Items[0].UnitPrice.Equal(decimal.RequireFromString("100")))
}

func TestFinalizeFailurePreservesState(t *testing.T) {
	api := loggedInBackend()
	api.submitErr = &domain.BackendError{Status: 400, Detail: "Estoque insuficiente."}
	carts := cartWithOneItem()
	orch := startSession(t, api, carts, nil)

	_, err := orch.Finalize(context.Background())
	var be *domain.BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "Estoque insuficiente.", be.Detail)

	snap := orch.Snapshot()
	assert.False(t, snap.Confirmed)
	assert.False(t, snap.Submitting)
	assert.Empty(t, snap.OrderNumber)
	assert.Len(t, snap.Items, 1)
	assert.Empty(t, carts.cleared)

	// The same session can retry once the cause is fixed.
	api.submitErr = nil
	number, err := orch.Finalize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "PED-1", number)
}

func TestFinalizeRejectsConcurrentSubmit(t *testing.T) {
	api := loggedInBackend()
	api.submitEntered = make(chan struct{})
	api.submitRelease = make(chan struct{})
	orch := startSession(t, api, cartWithOneItem(), nil)

	done := make(chan error, 1)
	go func() {
		_, err := orch.Finalize(context.Background())
		done <- err
	}()

	<-api.submitEntered
	_, err := orch.Finalize(context.Background())
	assert.ErrorIs(t, err, domain.ErrSubmitInFlight)

	close(api.submitRelease)
	require.NoError(t, <-done)
}

func TestFinalizeLockedWhenGateFails(t *testing.T) {
	orch := startSession(t, loggedInBackend(), cartWithOneItem(), nil)
	orch.SetPayment(domain.BoletoPayment{PayerCPF: "123"})

	_, err := orch.Finalize(context.Background())
	assert.ErrorIs(t, err, domain.ErrStepLocked)
}

func TestFinalizePersistsDraftFirst(t *testing.T) {
	api := loggedInBackend()
	api.info.Addresses = nil
	api.info.DefaultDeliveryAddressID = 0
	orch := startSession(t, api, cartWithOneItem(), nil)

	orch.SetDraftAddress(domain.Address{
		CEP:          "01310-100",
		Street:       "Av. Paulista",
		Number:       "100",
		Neighborhood: "Bela Vista",
		City:         "São Paulo",
		State:        "SP",
	})

	number, err := orch.Finalize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "PED-1", number)

	require.Len(t, api.submissions, 1)
	assert.NotZero(t, api.submissions[0].DeliveryAddressID)

	snap := orch.Snapshot()
	require.Len(t, snap.Addresses, 1)
	assert.Equal(t, api.submissions[0].DeliveryAddressID, snap.Addresses[0].ID)
	assert.Equal(t, "Entrega", snap.Addresses[0].Label)
}

func TestServiceGetAndEnd(t *testing.T) {
	svc := NewService(loggedInBackend(), cartWithOneItem(), &stubPostal{}, testLogger())
	orch, err := svc.Start(context.Background(), "tok", "cart-1", nil)
	require.NoError(t, err)

	id := orch.Snapshot().ID
	got, err := svc.Get(id)
	require.NoError(t, err)
	assert.Same(t, orch, got)

	svc.End(id)
	_, err = svc.Get(id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
