package cart

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"storefront-checkout/internal/domain"
)

// Service is the single logical cart store. Several surfaces mutate the cart
// (listing, product page, checkout), so every operation is a locked
// read-modify-write against the persisted document and subscribers see only
// whole snapshots, never partial updates.
type Service struct {
	repo repository

	mu   sync.Mutex
	subs []func(ownerKey string, items []domain.CartItem)
}

type repository interface {
	Get(ctx context.Context, ownerKey string) ([]domain.CartItem, error)
	Save(ctx context.Context, ownerKey string, items []domain.CartItem) error
	Delete(ctx context.Context, ownerKey string) error
}

func New(repo repository) *Service {
	return &Service{repo: repo}
}

// Subscribe registers a listener invoked with the full snapshot after every
// mutation.
func (s *Service) Subscribe(fn func(ownerKey string, items []domain.CartItem)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Items returns the current cart lines for an owner, empty when none exist.
func (s *Service) Items(ctx context.Context, ownerKey string) ([]domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Get(ctx, ownerKey)
}

// Total sums unit price times quantity over all lines.
func (s *Service) Total(ctx context.Context, ownerKey string) (decimal.Decimal, error) {
	items, err := s.Items(ctx, ownerKey)
	if err != nil {
		return decimal.Zero, err
	}
	return domain.CartTotal(items), nil
}

// Add merges the item into an existing line with the same product id, summing
// quantities, or appends a new line.
func (s *Service) Add(ctx context.Context, ownerKey string, item domain.CartItem) ([]domain.CartItem, error) {
	if item.ProductID == 0 {
		return nil, errors.New("productId required")
	}
	if strings.TrimSpace(item.Title) == "" {
		return nil, errors.New("title required")
	}
	if item.UnitPrice.IsNegative() {
		return nil, errors.New("unitPrice must not be negative")
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	return s.mutate(ctx, ownerKey, func(items []domain.CartItem) []domain.CartItem {
		for i := range items {
			if items[i].ProductID == item.ProductID {
				items[i].Quantity += item.Quantity
				return items
			}
		}
		return append(items, item)
	})
}

// Increment bumps a line's quantity by one.
func (s *Service) Increment(ctx context.Context, ownerKey string, productID int64) ([]domain.CartItem, error) {
	return s.mutate(ctx, ownerKey, func(items []domain.CartItem) []domain.CartItem {
		for i := range items {
			if items[i].ProductID == productID {
				items[i].Quantity++
			}
		}
		return items
	})
}

// Decrement lowers a line's quantity by one, never below one. Removing a
// line is an explicit operation, not a decrement side effect.
func (s *Service) Decrement(ctx context.Context, ownerKey string, productID int64) ([]domain.CartItem, error) {
	return s.mutate(ctx, ownerKey, func(items []domain.CartItem) []domain.CartItem {
		for i := range items {
			if items[i].ProductID == productID && items[i].Quantity > 1 {
				items[i].Quantity--
			}
		}
		return items
	})
}

// Remove drops the line with the given product id.
func (s *Service) Remove(ctx context.Context, ownerKey string, productID int64) ([]domain.CartItem, error) {
	return s.mutate(ctx, ownerKey, func(items []domain.CartItem) []domain.CartItem {
		kept := items[:0]
		for _, it := range items {
			if it.ProductID != productID {
				kept = append(kept, it)
			}
		}
		return kept
	})
}

// Clear empties the owner's cart. Invoked only after a confirmed order.
func (s *Service) Clear(ctx context.Context, ownerKey string) error {
	s.mu.Lock()
	if err := s.repo.Delete(ctx, ownerKey); err != nil {
		s.mu.Unlock()
		return err
	}
	subs := s.subs
	s.mu.Unlock()

	for _, fn := range subs {
		fn(ownerKey, nil)
	}
	return nil
}

func (s *Service) mutate(ctx context.Context, ownerKey string, apply func([]domain.CartItem) []domain.CartItem) ([]domain.CartItem, error) {
	s.mu.Lock()
	items, err := s.repo.Get(ctx, ownerKey)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	items = apply(items)
	if err := s.repo.Save(ctx, ownerKey, items); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	subs := s.subs
	s.mu.Unlock()

	for _, fn := range subs {
		fn(ownerKey, items)
	}
	return items, nil
}
