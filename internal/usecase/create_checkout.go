package usecase

import (
	"context"

	"github.com/luckydevstar/custom-frame-sizes-sub010/configs"
	domain "github.com/luckydevstar/custom-frame-sizes-sub010/internal/entity"
	"github.com/luckydevstar/custom-frame-sizes-sub010/internal/sanitize"
)

type CreateCheckoutInput struct {
	StoreID       string
	CartID        string // from the session cookie; presence checked by the route
	DiscountCode  string
	CustomerEmail string
}

type CreateCheckoutOutput struct {
	CheckoutURL   string
	CheckoutID    string
	CustomerEmail string // echoed only when one was supplied
}

type CreateCheckout struct {
	cfg        configs.Config
	storefront StorefrontClient
	events     EventPublisher // optional
}

func NewCreateCheckout(cfg configs.Config, sf StorefrontClient, events EventPublisher) *CreateCheckout {
	return &CreateCheckout{cfg: cfg, storefront: sf, events: events}
}

func (uc *CreateCheckout) Execute(ctx context.Context, in CreateCheckoutInput) (CreateCheckoutOutput, error) {
	storeID, err := resolveStore(uc.cfg, "storeId", in.StoreID)
	if err != nil {
		return CreateCheckoutOutput{}, err
	}
	if in.CartID == "" {
		return CreateCheckoutOutput{}, domain.NewNotFoundError("Cart", "")
	}

	discount := sanitize.DiscountCode(in.DiscountCode)
	email := sanitize.Email(in.CustomerEmail)

	checkout, err := uc.storefront.CheckoutURL(ctx, storeID, in.CartID, discount)
	if err != nil {
		return CreateCheckoutOutput{}, domain.NewUpstreamError("checkoutCreate", err)
	}

	if uc.events != nil {
		_ = uc.events.Publish(ctx, EventCheckoutCreated, CheckoutCreatedMsg{
			StoreID:      storeID,
			CartID:       in.CartID,
			CheckoutID:   checkout.ID,
			DiscountCode: discount,
		})
	}

	return CreateCheckoutOutput{
		CheckoutURL:   checkout.URL,
		CheckoutID:    checkout.ID,
		CustomerEmail: email,
	}, nil
}
