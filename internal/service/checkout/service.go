package checkout

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"storefront-checkout/internal/backend"
	"storefront-checkout/internal/domain"
	"storefront-checkout/internal/service/address"
)

// BackendAPI is everything the checkout engine needs from the commerce
// backend: the bootstrap snapshot, the address operations and the
// finalize-order call.
type BackendAPI interface {
	Session(ctx context.Context, token string) (*backend.SessionInfo, error)
	SubmitOrder(ctx context.Context, token string, sub domain.OrderSubmission) (*domain.OrderResult, error)
	address.API
}

// Service starts and tracks checkout sessions, one orchestrator each.
type Service struct {
	api    BackendAPI
	carts  CartStore
	postal address.PostalLookup
	logger *log.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*Orchestrator
}

func NewService(api BackendAPI, carts CartStore, postal address.PostalLookup, logger *log.Logger) *Service {
	return &Service{
		api:      api,
		carts:    carts,
		postal:   postal,
		logger:   logger,
		sessions: make(map[uuid.UUID]*Orchestrator),
	}
}

// Start bootstraps a session from the backend snapshot and the persisted
// cart. The entry step is caller-supplied (buy-now lands past the bag, a
// plain cart open lands on it) and is clamped to whatever the gate allows.
func (s *Service) Start(ctx context.Context, token, cartKey string, entry *domain.CheckoutStep) (*Orchestrator, error) {
	info, err := s.api.Session(ctx, token)
	if err != nil {
		return nil, err
	}
	items, err := s.carts.Items(ctx, cartKey)
	if err != nil {
		return nil, err
	}

	session := &domain.CheckoutSession{
		ID:            uuid.New(),
		Token:         token,
		CartKey:       cartKey,
		Authenticated: info.LoggedIn,
		CustomerName:  info.Name,
		Items:         items,
		Shipping:      domain.ShippingOptions()[0],
		Payment:       domain.PixPayment{},
	}

	manager := address.NewManager(s.api, s.postal, s.logger, token, session)
	manager.Seed(info.Addresses, info.DefaultDeliveryAddressID, info.Address)

	start := domain.StepLogin
	if info.LoggedIn {
		start = domain.StepBag
	}
	if entry != nil {
		start = *entry
	}
	if start < domain.StepLogin {
		start = domain.StepLogin
	}
	if max := MaxAllowedStep(*session); start > max {
		start = max
	}
	session.Step = start

	orch := newOrchestrator(session, s.carts, manager, NewSubmitter(s.api), s.logger)

	s.mu.Lock()
	s.sessions[session.ID] = orch
	s.mu.Unlock()

	return orch, nil
}

// Get finds a live session by id.
func (s *Service) Get(id uuid.UUID) (*Orchestrator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orch, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return orch, nil
}

// End discards a session. Called when the storefront abandons or completes
// the wizard; an in-flight request simply finds the session gone afterwards.
func (s *Service) End(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
