package domain

const (
	// Quantity bounds for a cart line on create. Zero is only meaningful on
	// update, where it signals removal.
	MinLineQuantity = 1
	MaxLineQuantity = 999
)

// Cart is owned by the upstream commerce platform; we only carry its shape
// through to the response and remember its ID in the session cookie.
type Cart struct {
	ID          string     `json:"id"`
	CheckoutURL string     `json:"checkoutUrl,omitempty"`
	TotalAmount *Money     `json:"totalAmount,omitempty"`
	Lines       []CartLine `json:"lines"`
}

type CartLine struct {
	ID            string            `json:"id,omitempty"`
	MerchandiseID string            `json:"merchandiseId"`
	Quantity      int               `json:"quantity"`
	Attributes    map[string]string `json:"attributes,omitempty"`
}

type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// Checkout is a short-lived derived resource: a payable URL for a cart
// snapshot. Never persisted by this layer.
type Checkout struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
