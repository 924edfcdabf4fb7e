package usecase

import (
	"context"
	"time"

	domain "github.com/luckydevstar/custom-frame-sizes-sub010/internal/entity"
)

// CartLineInput is the already schema-validated shape handed to the
// storefront client. Attributes are sanitized before this point.
type CartLineInput struct {
	MerchandiseID string
	Quantity      int
	Attributes    map[string]string
}

// StorefrontClient is the port to the upstream commerce platform. Each
// method performs exactly one network call; no retries at this layer.
type StorefrontClient interface {
	CartCreate(ctx context.Context, storeID string, lines []CartLineInput) (*domain.Cart, error)
	CheckoutURL(ctx context.Context, storeID, cartID, discountCode string) (*domain.Checkout, error)
}

type OrderFileRepo interface {
	GetByID(ctx context.Context, fileID, siteID string) (*domain.OrderFile, error)
	Upsert(ctx context.Context, f *domain.OrderFile) error
}

// RateLimitStore counts requests per key within a fixed window. Returns the
// count after incrementing, so 1 means "first request of this window".
type RateLimitStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// EventPublisher emits commerce events (cart.created, checkout.created)
// best-effort. A nil publisher is allowed; callers must check.
type EventPublisher interface {
	Publish(ctx context.Context, event string, payload any) error
}
