package usecase

import (
	"context"

	"github.com/luckydevstar/custom-frame-sizes-sub010/configs"
	domain "github.com/luckydevstar/custom-frame-sizes-sub010/internal/entity"
	"github.com/luckydevstar/custom-frame-sizes-sub010/internal/sanitize"
)

type CreateCartInput struct {
	StoreID string
	Lines   []CartLineInput
}

type CreateCartOutput struct {
	CartID string
	Cart   *domain.Cart
}

type CreateCart struct {
	cfg        configs.Config
	storefront StorefrontClient
	events     EventPublisher // optional
}

func NewCreateCart(cfg configs.Config, sf StorefrontClient, events EventPublisher) *CreateCart {
	return &CreateCart{cfg: cfg, storefront: sf, events: events}
}

func (uc *CreateCart) Execute(ctx context.Context, in CreateCartInput) (CreateCartOutput, error) {
	storeID, err := resolveStore(uc.cfg, "storeId", in.StoreID)
	if err != nil {
		return CreateCartOutput{}, err
	}

	lines := make([]CartLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		l.Attributes = sanitize.Attributes(l.Attributes)
		lines = append(lines, l)
	}

	cart, err := uc.storefront.CartCreate(ctx, storeID, lines)
	if err != nil {
		return CreateCartOutput{}, domain.NewUpstreamError("cartCreate", err)
	}

	if uc.events != nil {
		_ = uc.events.Publish(ctx, EventCartCreated, CartCreatedMsg{
			StoreID:   storeID,
			CartID:    cart.ID,
			LineCount: len(cart.Lines),
		})
	}

	return CreateCartOutput{CartID: cart.ID, Cart: cart}, nil
}

// resolveStore sanitizes a store/site identifier and checks it against the
// registry. Always runs before any downstream call.
func resolveStore(cfg configs.Config, field, raw string) (string, error) {
	id := sanitize.StoreID(raw)
	if id == "" {
		return "", domain.NewValidationError(field, "must not be empty")
	}
	if _, ok := cfg.Store(id); !ok {
		return "", domain.NewValidationError(field, "unknown store identifier")
	}
	return id, nil
}
