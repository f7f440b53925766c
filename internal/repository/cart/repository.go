package cart

import (
	"context"

	"storefront-checkout/internal/domain"
)

// Repository persists one cart document per owner key. The owner key is the
// storefront client's stable cart identity; the document is the full ordered
// list of lines, written as a unit so callers never observe partial updates.
type Repository interface {
	Get(ctx context.Context, ownerKey string) ([]domain.CartItem, error)
	Save(ctx context.Context, ownerKey string, items []domain.CartItem) error
	Delete(ctx context.Context, ownerKey string) error
}
