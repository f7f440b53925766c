package address

import (
	"context"
	"errors"
	"log"
	"strings"

	"storefront-checkout/internal/backend"
	"storefront-checkout/internal/domain"
	"storefront-checkout/internal/postal"
)

// Manager owns the saved-address list and the single draft of one checkout
// session. The list mirrors the backend; local updates are optimistic and a
// Refresh adopts the backend's list as ground truth.
type Manager struct {
	api     API
	postal  PostalLookup
	logger  *log.Logger
	token   string
	session *domain.CheckoutSession
}

// API is the slice of the commerce backend the manager needs.
type API interface {
	ListAddresses(ctx context.Context, token string) ([]domain.Address, error)
	CreateAddress(ctx context.Context, token string, draft domain.Address) (*domain.Address, error)
	UpdateAddress(ctx context.Context, token string, id int64, patch backend.AddressPatch) (*domain.Address, error)
	DeleteAddress(ctx context.Context, token string, id int64) error
}

// PostalLookup resolves an 8-digit postal code to street fields.
type PostalLookup interface {
	Find(ctx context.Context, cep string) (*postal.Result, error)
}

func NewManager(api API, postal PostalLookup, logger *log.Logger, token string, session *domain.CheckoutSession) *Manager {
	return &Manager{api: api, postal: postal, logger: logger, token: token, session: session}
}

// Seed installs the bootstrap snapshot: the saved list, the flagged default
// (or the list head) as the selection, and a draft prefilled from the
// customer's base profile address when the list is empty.
func (m *Manager) Seed(addresses []domain.Address, defaultID int64, base *domain.Address) {
	m.session.Addresses = addresses
	m.session.SelectedAddressID = 0
	if defaultID != 0 && m.has(defaultID) {
		m.session.SelectedAddressID = defaultID
	} else {
		m.autoSelect()
	}

	m.session.DraftVisible = len(addresses) == 0
	if base != nil {
		draft := *base
		draft.ID = 0
		draft.DefaultDelivery = false
		draft.CEP = domain.Digits(draft.CEP)
		m.session.DraftAddress = &draft
	}
}

// Refresh replaces the local list with a fresh fetch and re-derives the
// selection. Should the backend report more than one default (a previous
// promotion only half-landed), every extra default is demoted here.
func (m *Manager) Refresh(ctx context.Context) error {
	if !m.session.Authenticated {
		return domain.ErrNotAuthenticated
	}
	addresses, err := m.api.ListAddresses(ctx, m.token)
	if err != nil {
		return err
	}

	seenDefault := false
	for i := range addresses {
		if !addresses[i].DefaultDelivery {
			continue
		}
		if !seenDefault {
			seenDefault = true
			continue
		}
		demote := false
		if _, err := m.api.UpdateAddress(ctx, m.token, addresses[i].ID, backend.AddressPatch{DefaultDelivery: &demote}); err != nil {
			m.logger.Printf("demote address %d during reconcile: %v", addresses[i].ID, err)
			continue
		}
		addresses[i].DefaultDelivery = false
	}

	m.session.Addresses = addresses
	if !m.has(m.session.SelectedAddressID) {
		m.session.SelectedAddressID = 0
		m.autoSelect()
	}
	m.session.DraftVisible = len(addresses) == 0
	return nil
}

// Select picks a saved address as the delivery target.
func (m *Manager) Select(id int64) error {
	if !m.has(id) {
		return domain.ErrNotFound
	}
	m.session.SelectedAddressID = id
	return nil
}

// ShowDraft toggles the new-address form. Hiding it does not erase what was
// typed.
func (m *Manager) ShowDraft(show bool) {
	m.session.DraftVisible = show
}

// SetDraft replaces the draft fields being composed.
func (m *Manager) SetDraft(draft domain.Address) {
	draft.ID = 0
	m.session.DraftAddress = &draft
	m.session.DraftVisible = true
}

// LookupPostal resolves the draft's postal code and overwrites the street
// fields on success. Failures leave the draft editable; the lookup never
// blocks manual entry.
func (m *Manager) LookupPostal(ctx context.Context, cep string) error {
	found, err := m.postal.Find(ctx, cep)
	if err != nil {
		return err
	}
	draft := domain.Address{}
	if m.session.DraftAddress != nil {
		draft = *m.session.DraftAddress
	}
	draft.CEP = domain.Digits(cep)
	draft.Street = found.Street
	draft.Complement = found.Complement
	draft.Neighborhood = found.Neighborhood
	draft.City = found.City
	draft.State = found.State
	m.session.DraftAddress = &draft
	m.session.DraftVisible = true
	return nil
}

// CreateDraft validates and persists the draft, prepends the created address
// to the list, selects it and hides the form.
func (m *Manager) CreateDraft(ctx context.Context, label string) (*domain.Address, error) {
	if !m.session.Authenticated {
		return nil, domain.ErrNotAuthenticated
	}
	draft := m.session.DraftAddress
	if draft == nil {
		return nil, errors.New("no address draft")
	}
	if err := validateDraft(*draft); err != nil {
		return nil, err
	}

	toCreate := *draft
	if strings.TrimSpace(label) != "" {
		toCreate.Label = label
	}
	if strings.TrimSpace(toCreate.Label) == "" {
		toCreate.Label = "Entrega"
	}

	created, err := m.api.CreateAddress(ctx, m.token, toCreate)
	if err != nil {
		return nil, err
	}

	m.session.Addresses = append([]domain.Address{*created}, m.session.Addresses...)
	m.session.SelectedAddressID = created.ID
	m.session.DraftVisible = false
	return created, nil
}

// PromoteDefault flags one saved address as the default delivery target.
// The target is promoted first; every other locally-default address is then
// demoted with its own request. A failed demotion is not fatal for the user
// flow; the next Refresh reconciles against the backend list.
func (m *Manager) PromoteDefault(ctx context.Context, id int64) error {
	if !m.session.Authenticated {
		return domain.ErrNotAuthenticated
	}
	if !m.has(id) {
		return domain.ErrNotFound
	}

	promote := true
	if _, err := m.api.UpdateAddress(ctx, m.token, id, backend.AddressPatch{DefaultDelivery: &promote}); err != nil {
		return err
	}

	var wasDefault []int64
	for i := range m.session.Addresses {
		a := &m.session.Addresses[i]
		if a.ID == id {
			a.DefaultDelivery = true
			continue
		}
		if a.DefaultDelivery {
			wasDefault = append(wasDefault, a.ID)
			a.DefaultDelivery = false
		}
	}
	m.session.SelectedAddressID = id

	demote := false
	for _, otherID := range wasDefault {
		if _, err := m.api.UpdateAddress(ctx, m.token, otherID, backend.AddressPatch{DefaultDelivery: &demote}); err != nil {
			m.logger.Printf("demote address %d after promoting %d: %v", otherID, id, err)
		}
	}
	return nil
}

// Delete removes a saved address and re-derives the selection when the
// deleted one was selected.
func (m *Manager) Delete(ctx context.Context, id int64) error {
	if !m.session.Authenticated {
		return domain.ErrNotAuthenticated
	}
	if !m.has(id) {
		return domain.ErrNotFound
	}
	if err := m.api.DeleteAddress(ctx, m.token, id); err != nil {
		return err
	}

	kept := m.session.Addresses[:0]
	for _, a := range m.session.Addresses {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	m.session.Addresses = kept
	if m.session.SelectedAddressID == id {
		m.session.SelectedAddressID = 0
		m.autoSelect()
	}
	m.session.DraftVisible = len(kept) == 0
	return nil
}

func (m *Manager) autoSelect() {
	if m.session.SelectedAddressID != 0 || len(m.session.Addresses) == 0 {
		return
	}
	for _, a := range m.session.Addresses {
		if a.DefaultDelivery {
			m.session.SelectedAddressID = a.ID
			return
		}
	}
	m.session.SelectedAddressID = m.session.Addresses[0].ID
}

func (m *Manager) has(id int64) bool {
	if id == 0 {
		return false
	}
	for _, a := range m.session.Addresses {
		if a.ID == id {
			return true
		}
	}
	return false
}

func validateDraft(a domain.Address) error {
	if len(domain.Digits(a.CEP)) != 8 {
		return errors.New("cep must have 8 digits")
	}
	required := []struct {
		name, value string
	}{
		{"endereco", a.Street},
		{"numero", a.Number},
		{"bairro", a.Neighborhood},
		{"cidade", a.City},
		{"estado", a.State},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return errors.New(f.name + " required")
		}
	}
	return nil
}
