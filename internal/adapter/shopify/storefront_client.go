// Package shopify talks to the Storefront GraphQL API. The proxy stays
// stateless: every call carries the tenant's domain and token resolved from
// the store registry, and performs exactly one HTTP round trip.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/luckydevstar/custom-frame-sizes-sub010/configs"
	domain "github.com/luckydevstar/custom-frame-sizes-sub010/internal/entity"
	"github.com/luckydevstar/custom-frame-sizes-sub010/internal/usecase"
)

const cartCreateMutation = `mutation cartCreate($input: CartInput!) {
  cartCreate(input: $input) {
    cart {
      id
      checkoutUrl
      cost { totalAmount { amount currencyCode } }
      lines(first: 100) {
        edges {
          node {
            id
            quantity
            merchandise { ... on ProductVariant { id } }
            attributes { key value }
          }
        }
      }
    }
    userErrors { field message }
  }
}`

const cartCheckoutQuery = `query cartCheckout($id: ID!) {
  cart(id: $id) { id checkoutUrl }
}`

const cartDiscountMutation = `mutation cartDiscount($id: ID!, $codes: [String!]!) {
  cartDiscountCodesUpdate(cartId: $id, discountCodes: $codes) {
    cart { id checkoutUrl }
    userErrors { field message }
  }
}`

type StorefrontClient struct {
	cfg    configs.Config
	client *http.Client

	// scheme is overridable in tests (httptest servers are plain http).
	scheme string
}

func NewStorefrontClient(cfg configs.Config) *StorefrontClient {
	return &StorefrontClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Shopify.Timeout},
		scheme: "https",
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type cartPayload struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkoutUrl"`
	Cost        *struct {
		TotalAmount domain.Money `json:"totalAmount"`
	} `json:"cost"`
	Lines struct {
		Edges []struct {
			Node struct {
				ID          string `json:"id"`
				Quantity    int    `json:"quantity"`
				Merchandise struct {
					ID string `json:"id"`
				} `json:"merchandise"`
				Attributes []struct {
					Key   string `json:"key"`
					Value string `json:"value"`
				} `json:"attributes"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"lines"`
}

func (c *StorefrontClient) CartCreate(ctx context.Context, storeID string, lines []usecase.CartLineInput) (*domain.Cart, error) {
	store, ok := c.cfg.Store(storeID)
	if !ok {
		return nil, fmt.Errorf("store %q not in registry", storeID)
	}

	inputLines := make([]map[string]any, 0, len(lines))
	for _, l := range lines {
		line := map[string]any{
			"merchandiseId": l.MerchandiseID,
			"quantity":      l.Quantity,
		}
		if len(l.Attributes) > 0 {
			attrs := make([]map[string]string, 0, len(l.Attributes))
			for k, v := range l.Attributes {
				attrs = append(attrs, map[string]string{"key": k, "value": v})
			}
			line["attributes"] = attrs
		}
		inputLines = append(inputLines, line)
	}

	var out struct {
		CartCreate struct {
			Cart       *cartPayload `json:"cart"`
			UserErrors []userError  `json:"userErrors"`
		} `json:"cartCreate"`
	}
	err := c.do(ctx, store, graphQLRequest{
		Query:     cartCreateMutation,
		Variables: map[string]any{"input": map[string]any{"lines": inputLines}},
	}, &out)
	if err != nil {
		return nil, err
	}
	if len(out.CartCreate.UserErrors) > 0 {
		return nil, fmt.Errorf("cartCreate: %s", out.CartCreate.UserErrors[0].Message)
	}
	if out.CartCreate.Cart == nil {
		return nil, fmt.Errorf("cartCreate: empty cart in response")
	}
	return toCart(out.CartCreate.Cart), nil
}

func (c *StorefrontClient) CheckoutURL(ctx context.Context, storeID, cartID, discountCode string) (*domain.Checkout, error) {
	store, ok := c.cfg.Store(storeID)
	if !ok {
		return nil, fmt.Errorf("store %q not in registry", storeID)
	}

	var id, checkoutURL string
	if discountCode != "" {
		// Applying the code returns the refreshed checkout URL in the same
		// round trip, so this stays a single upstream call.
		var out struct {
			CartDiscountCodesUpdate struct {
				Cart       *cartPayload `json:"cart"`
				UserErrors []userError  `json:"userErrors"`
			} `json:"cartDiscountCodesUpdate"`
		}
		err := c.do(ctx, store, graphQLRequest{
			Query:     cartDiscountMutation,
			Variables: map[string]any{"id": cartID, "codes": []string{discountCode}},
		}, &out)
		if err != nil {
			return nil, err
		}
		if len(out.CartDiscountCodesUpdate.UserErrors) > 0 {
			return nil, fmt.Errorf("discount update: %s", out.CartDiscountCodesUpdate.UserErrors[0].Message)
		}
		if out.CartDiscountCodesUpdate.Cart == nil {
			return nil, fmt.Errorf("discount update: cart %s gone", cartID)
		}
		id = out.CartDiscountCodesUpdate.Cart.ID
		checkoutURL = out.CartDiscountCodesUpdate.Cart.CheckoutURL
	} else {
		var out struct {
			Cart *cartPayload `json:"cart"`
		}
		err := c.do(ctx, store, graphQLRequest{
			Query:     cartCheckoutQuery,
			Variables: map[string]any{"id": cartID},
		}, &out)
		if err != nil {
			return nil, err
		}
		if out.Cart == nil {
			return nil, fmt.Errorf("cart %s gone", cartID)
		}
		id = out.Cart.ID
		checkoutURL = out.Cart.CheckoutURL
	}

	if store.CheckoutDomain != "" {
		checkoutURL = rewriteHost(checkoutURL, store.CheckoutDomain)
	}
	return &domain.Checkout{ID: checkoutToken(id), URL: checkoutURL}, nil
}

func (c *StorefrontClient) do(ctx context.Context, store configs.StoreConfig, body graphQLRequest, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s://%s/api/%s/graphql.json", c.scheme, store.Domain, c.cfg.Shopify.APIVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", store.StorefrontToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("storefront API status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode storefront response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("storefront API: %s", envelope.Errors[0].Message)
	}
	return json.Unmarshal(envelope.Data, out)
}

func toCart(p *cartPayload) *domain.Cart {
	cart := &domain.Cart{
		ID:          p.ID,
		CheckoutURL: p.CheckoutURL,
		Lines:       make([]domain.CartLine, 0, len(p.Lines.Edges)),
	}
	if p.Cost != nil {
		m := p.Cost.TotalAmount
		cart.TotalAmount = &m
	}
	for _, e := range p.Lines.Edges {
		line := domain.CartLine{
			ID:            e.Node.ID,
			MerchandiseID: e.Node.Merchandise.ID,
			Quantity:      e.Node.Quantity,
		}
		if len(e.Node.Attributes) > 0 {
			line.Attributes = make(map[string]string, len(e.Node.Attributes))
			for _, a := range e.Node.Attributes {
				line.Attributes[a.Key] = a.Value
			}
		}
		cart.Lines = append(cart.Lines, line)
	}
	return cart
}

// checkoutToken extracts the opaque token from a cart GID, e.g.
// gid://shopify/Cart/c1-abcdef?key=... -> c1-abcdef. Falls back to the
// full id when the shape is unexpected.
func checkoutToken(gid string) string {
	s := gid
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return gid
	}
	return s
}

func rewriteHost(rawURL, host string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	u.Host = host
	return u.String()
}

var _ usecase.StorefrontClient = (*StorefrontClient)(nil)
