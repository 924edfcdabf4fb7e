package usecase

import "time"

// Routing keys on the storefront.events exchange.
const (
	EventCartCreated     = "cart.created"
	EventCheckoutCreated = "checkout.created"
)

type CartCreatedMsg struct {
	StoreID   string `json:"storeId"`
	CartID    string `json:"cartId"`
	LineCount int    `json:"lineCount"`
}

type CheckoutCreatedMsg struct {
	StoreID      string `json:"storeId"`
	CartID       string `json:"cartId"`
	CheckoutID   string `json:"checkoutId"`
	DiscountCode string `json:"discountCode,omitempty"`
}

// Sent by the fulfillment pipeline on Kafka when a customer artwork file has
// been processed for an order.
type OrderFileEventMsg struct {
	FileID    string            `json:"fileId"`
	OrderID   string            `json:"orderId"`
	SiteID    string            `json:"siteId"`
	FileURL   string            `json:"fileUrl"`
	FileName  string            `json:"fileName"`
	FileType  string            `json:"fileType,omitempty"`
	FileSize  int64             `json:"fileSize,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	EmittedAt time.Time         `json:"emittedAt"`
}
