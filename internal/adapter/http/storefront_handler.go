package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/luckydevstar/custom-frame-sizes-sub010/configs"
	domain "github.com/luckydevstar/custom-frame-sizes-sub010/internal/entity"
	"github.com/luckydevstar/custom-frame-sizes-sub010/internal/usecase"
)

// StorefrontHandler serves the shopper-facing cart and checkout routes.
type StorefrontHandler struct {
	createCart     *usecase.CreateCart
	createCheckout *usecase.CreateCheckout
	secure         bool
	timeout        time.Duration
}

func NewStorefrontHandler(cfg configs.Config, cart *usecase.CreateCart, checkout *usecase.CreateCheckout) *StorefrontHandler {
	return &StorefrontHandler{
		createCart:     cart,
		createCheckout: checkout,
		secure:         cfg.IsProd(),
		timeout:        cfg.HTTP.HandlerTimeout,
	}
}

type cartLineReq struct {
	MerchandiseID string            `json:"merchandiseId" binding:"required"`
	Quantity      int               `json:"quantity" binding:"required,min=1,max=999"`
	Attributes    map[string]string `json:"attributes"`
}

type createCartReq struct {
	StoreID string        `json:"storeId" binding:"required"`
	Lines   []cartLineReq `json:"lines" binding:"omitempty,dive"`
}

// CreateCart handles POST /api/cart. The cookie is written only after the
// upstream call succeeds, so a failed create never binds the session to a
// dead cart.
func (h *StorefrontHandler) CreateCart(c *gin.Context) {
	var req createCartReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	lines := make([]usecase.CartLineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, usecase.CartLineInput{
			MerchandiseID: l.MerchandiseID,
			Quantity:      l.Quantity,
			Attributes:    l.Attributes,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	out, err := h.createCart.Execute(ctx, usecase.CreateCartInput{
		StoreID: req.StoreID,
		Lines:   lines,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	setCartCookie(c, out.CartID, h.secure)
	respondData(c, http.StatusCreated, gin.H{
		"cartId": out.CartID,
		"cart":   out.Cart,
	})
}

// ClearCart handles DELETE /api/cart: drops the session's cart reference.
// The upstream cart is untouched; losing the cookie is losing the cart.
func (h *StorefrontHandler) ClearCart(c *gin.Context) {
	clearCartCookie(c, h.secure)
	c.Status(http.StatusNoContent)
}

type createCheckoutReq struct {
	StoreID       string `json:"storeId" binding:"required"`
	DiscountCode  string `json:"discountCode"`
	CustomerEmail string `json:"customerEmail" binding:"omitempty,email"`
}

// CreateCheckout handles POST /api/checkout. The cart id comes from the
// session cookie, never the body; its absence is a not-found, checked
// before body validation.
func (h *StorefrontHandler) CreateCheckout(c *gin.Context) {
	cartID, ok := readCartCookie(c)
	if !ok {
		respondError(c, domain.NewNotFoundError("Cart", ""))
		return
	}

	var req createCheckoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	out, err := h.createCheckout.Execute(ctx, usecase.CreateCheckoutInput{
		StoreID:       req.StoreID,
		CartID:        cartID,
		DiscountCode:  req.DiscountCode,
		CustomerEmail: req.CustomerEmail,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	data := gin.H{
		"checkoutUrl": out.CheckoutURL,
		"checkoutId":  out.CheckoutID,
	}
	if out.CustomerEmail != "" {
		data["customerEmail"] = out.CustomerEmail
	}
	respondData(c, http.StatusOK, data)
}
