package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/luckydevstar/custom-frame-sizes-sub010/configs"
	"github.com/luckydevstar/custom-frame-sizes-sub010/internal/adapter/http/middleware"
	domain "github.com/luckydevstar/custom-frame-sizes-sub010/internal/entity"
	"github.com/luckydevstar/custom-frame-sizes-sub010/internal/usecase"
)

type stubStorefront struct {
	cartCalls     int
	checkoutCalls int
	gotDiscount   string

	cart     *domain.Cart
	checkout *domain.Checkout
	err      error
}

func (s *stubStorefront) CartCreate(_ context.Context, _ string, _ []usecase.CartLineInput) (*domain.Cart, error) {
	s.cartCalls++
	return s.cart, s.err
}

func (s *stubStorefront) CheckoutURL(_ context.Context, _, _, discountCode string) (*domain.Checkout, error) {
	s.checkoutCalls++
	s.gotDiscount = discountCode
	return s.checkout, s.err
}

type stubFileRepo struct {
	files map[string]*domain.OrderFile
}

func (s *stubFileRepo) GetByID(_ context.Context, fileID, siteID string) (*domain.OrderFile, error) {
	return s.files[fileID+"|"+siteID], nil
}

func (s *stubFileRepo) Upsert(_ context.Context, f *domain.OrderFile) error {
	s.files[f.ID+"|"+f.SiteID] = f
	return nil
}

type openStore struct{}

func (openStore) Incr(context.Context, string, time.Duration) (int64, error) { return 1, nil }

type testEnv struct {
	router *gin.Engine
	sf     *stubStorefront
	repo   *stubFileRepo
}

func setupRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var cfg configs.Config
	cfg.App.Env = "dev"
	cfg.App.HTTPAddr = ":0"
	cfg.HTTP.HandlerTimeout = 5 * time.Second
	cfg.Stores = map[string]configs.StoreConfig{
		"custom-frame-sizes": {Domain: "frames.myshopify.com", StorefrontToken: "tok"},
	}
	cfg.Security.JWTSecret = "test-secret"
	cfg.Security.Issuer = "storefront-api"
	cfg.Security.Audience = "framestore-internal"
	cfg.Security.TTL = time.Minute
	cfg.Security.Clients = []configs.ServiceClient{
		{ID: "fulfillment-worker", Secret: "worker-secret", Perms: []string{"orders.files.write"}, Enabled: true},
	}
	cfg.RateLimit.Cart = configs.BucketLimit{Requests: 1000, Window: time.Minute}
	cfg.RateLimit.Checkout = configs.BucketLimit{Requests: 1000, Window: time.Minute}
	cfg.RateLimit.OrderFiles = configs.BucketLimit{Requests: 1000, Window: time.Minute}

	sf := &stubStorefront{
		cart:     &domain.Cart{ID: "gid://shopify/Cart/c1", Lines: []domain.CartLine{}},
		checkout: &domain.Checkout{ID: "c1", URL: "https://frames.myshopify.com/checkouts/c1"},
	}
	repo := &stubFileRepo{files: map[string]*domain.OrderFile{}}

	sh := NewStorefrontHandler(cfg,
		usecase.NewCreateCart(cfg, sf, nil),
		usecase.NewCreateCheckout(cfg, sf, nil))
	fh := NewOrderFileHandler(cfg,
		usecase.NewGetOrderFile(cfg, repo),
		usecase.NewIngestOrderFile(cfg, repo))
	th := NewTokenHandler(cfg)

	router := NewRouter(cfg, sh, fh, th,
		middleware.NewAuthz(cfg),
		middleware.NewRateLimiter(openStore{}, cfg))

	return &testEnv{router: router, sf: sf, repo: repo}
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	if body == "" {
		rdr = bytes.NewReader(nil)
	} else {
		rdr = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	for _, m := range mutate {
		m(req)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data"`
	Error   struct {
		Code     string `json:"code"`
		Message  string `json:"message"`
		Field    string `json:"field"`
		Resource string `json:"resource"`
		ID       string `json:"id"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return e
}

func TestCreateCart_CookieMatchesResponseCartID(t *testing.T) {
	env := setupRouter(t)

	w := doJSON(t, env.router, http.MethodPost, "/api/cart",
		`{"storeId":"custom-frame-sizes","lines":[{"merchandiseId":"gid://shopify/ProductVariant/1","quantity":1}]}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	e := decode(t, w)
	cartID, _ := e.Data["cartId"].(string)
	if cartID == "" {
		t.Fatal("no cartId in response")
	}

	set := w.Header().Get("Set-Cookie")
	if !strings.Contains(set, "cart_id="+url.QueryEscape(cartID)) &&
		!strings.Contains(set, "cart_id="+cartID) {
		t.Errorf("cookie %q does not carry cart id %q", set, cartID)
	}
	if !strings.Contains(set, "Max-Age=2592000") || !strings.Contains(set, "HttpOnly") {
		t.Errorf("cookie attributes wrong: %s", set)
	}
}

func TestCreateCart_QuantityOutOfRangeRejectedBeforeUpstream(t *testing.T) {
	env := setupRouter(t)

	for _, q := range []int{0, -1, 1000} {
		body := `{"storeId":"custom-frame-sizes","lines":[{"merchandiseId":"m","quantity":` +
			// quantity injected raw
			func() string { b, _ := json.Marshal(q); return string(b) }() + `}]}`
		w := doJSON(t, env.router, http.MethodPost, "/api/cart", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("quantity %d: status = %d, want 400", q, w.Code)
		}
		e := decode(t, w)
		if e.Error.Code != "invalid_request" {
			t.Errorf("quantity %d: code = %q", q, e.Error.Code)
		}
	}
	if env.sf.cartCalls != 0 {
		t.Errorf("upstream invoked %d times for invalid quantities", env.sf.cartCalls)
	}
}

func TestCreateCart_MissingStoreID(t *testing.T) {
	env := setupRouter(t)

	w := doJSON(t, env.router, http.MethodPost, "/api/cart", `{"lines":[]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if e := decode(t, w); e.Error.Field != "storeId" {
		t.Errorf("field = %q, want storeId", e.Error.Field)
	}
	if env.sf.cartCalls != 0 {
		t.Error("upstream must not be called")
	}
}

func TestCreateCart_ValidationCitesJSONFieldName(t *testing.T) {
	env := setupRouter(t)

	// A nested mixed-caps field: the error must cite the json tag
	// ("merchandiseId"), not the Go field name.
	w := doJSON(t, env.router, http.MethodPost, "/api/cart",
		`{"storeId":"custom-frame-sizes","lines":[{"quantity":1}]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if e := decode(t, w); e.Error.Field != "merchandiseId" {
		t.Errorf("field = %q, want merchandiseId", e.Error.Field)
	}
	if env.sf.cartCalls != 0 {
		t.Error("upstream must not be called")
	}
}

func TestCreateCart_UpstreamFailureIs502WithoutCookie(t *testing.T) {
	env := setupRouter(t)
	env.sf.err = errContinually

	w := doJSON(t, env.router, http.MethodPost, "/api/cart", `{"storeId":"custom-frame-sizes"}`)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	if e := decode(t, w); e.Error.Code != "upstream_error" {
		t.Errorf("code = %q", e.Error.Code)
	}
	if w.Header().Get("Set-Cookie") != "" {
		t.Error("no cookie may be set when the upstream call fails")
	}
}

func TestClearCart_EmitsExpiredCookie(t *testing.T) {
	env := setupRouter(t)

	w := doJSON(t, env.router, http.MethodDelete, "/api/cart", "")

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	set := w.Header().Get("Set-Cookie")
	if !strings.Contains(set, "cart_id=") || !strings.Contains(set, "Max-Age=0") {
		t.Errorf("expired cookie not emitted: %s", set)
	}
}

func TestCreateCheckout_NoCookieIs404RegardlessOfBody(t *testing.T) {
	env := setupRouter(t)

	for _, body := range []string{
		`{"storeId":"custom-frame-sizes"}`,
		`{"totally":"invalid"}`,
		``,
	} {
		w := doJSON(t, env.router, http.MethodPost, "/api/checkout", body)
		if w.Code != http.StatusNotFound {
			t.Errorf("body %q: status = %d, want 404", body, w.Code)
			continue
		}
		if e := decode(t, w); e.Error.Resource != "Cart" {
			t.Errorf("resource = %q, want Cart", e.Error.Resource)
		}
	}
	if env.sf.checkoutCalls != 0 {
		t.Error("upstream must not be called without a cart cookie")
	}
}

func TestCreateCheckout_NormalizesDiscountAndEchoesEmail(t *testing.T) {
	env := setupRouter(t)

	w := doJSON(t, env.router, http.MethodPost, "/api/checkout",
		`{"storeId":"custom-frame-sizes","discountCode":" save10 ","customerEmail":"Jane@Example.com"}`,
		func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "cart_id", Value: "gid://shopify/Cart/c1"})
		})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if env.sf.gotDiscount != "SAVE10" {
		t.Errorf("discount passed upstream = %q, want SAVE10", env.sf.gotDiscount)
	}
	e := decode(t, w)
	if e.Data["customerEmail"] != "jane@example.com" {
		t.Errorf("customerEmail = %v", e.Data["customerEmail"])
	}
	if e.Data["checkoutUrl"] != "https://frames.myshopify.com/checkouts/c1" {
		t.Errorf("checkoutUrl = %v", e.Data["checkoutUrl"])
	}
}

func TestCreateCheckout_NoEmailKeyWhenAbsent(t *testing.T) {
	env := setupRouter(t)

	w := doJSON(t, env.router, http.MethodPost, "/api/checkout",
		`{"storeId":"custom-frame-sizes"}`,
		func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "cart_id", Value: "c"})
		})

	e := decode(t, w)
	if _, present := e.Data["customerEmail"]; present {
		t.Error("customerEmail must be omitted when not supplied")
	}
}

func TestOrderFiles_MissingIDCitesField(t *testing.T) {
	env := setupRouter(t)

	w := doJSON(t, env.router, http.MethodGet, "/api/orders/files?siteId=custom-frame-sizes", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if e := decode(t, w); e.Error.Field != "id" {
		t.Errorf("field = %q, want id", e.Error.Field)
	}
}

func TestOrderFiles_MissingSiteIDCitesField(t *testing.T) {
	env := setupRouter(t)

	w := doJSON(t, env.router, http.MethodGet, "/api/orders/files/file-1", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if e := decode(t, w); e.Error.Field != "siteId" {
		t.Errorf("field = %q, want siteId", e.Error.Field)
	}
}

func TestOrderFiles_NotFoundCarriesSuppliedID(t *testing.T) {
	env := setupRouter(t)

	w := doJSON(t, env.router, http.MethodGet, "/api/orders/files/file-404?siteId=custom-frame-sizes", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if e := decode(t, w); e.Error.ID != "file-404" {
		t.Errorf("id = %q, want file-404", e.Error.ID)
	}
}

func TestOrderFiles_Found(t *testing.T) {
	env := setupRouter(t)
	env.repo.files["file-1|custom-frame-sizes"] = &domain.OrderFile{
		ID: "file-1", OrderID: "order-1", SiteID: "custom-frame-sizes",
		FileURL: "https://cdn.example/a.png", FileName: "a.png",
	}

	w := doJSON(t, env.router, http.MethodGet, "/api/orders/files/file-1?siteId=custom-frame-sizes", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	e := decode(t, w)
	file, _ := e.Data["file"].(map[string]any)
	if file["id"] != "file-1" {
		t.Errorf("file = %v", e.Data["file"])
	}
}

func TestOrderFileCreate_RequiresToken(t *testing.T) {
	env := setupRouter(t)

	w := doJSON(t, env.router, http.MethodPost, "/api/orders/files",
		`{"orderId":"o","siteId":"custom-frame-sizes","fileUrl":"https://cdn.example/a.png","fileName":"a.png"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestOrderFileCreate_TokenRoundTrip(t *testing.T) {
	env := setupRouter(t)

	// obtain a token as the configured service client
	form := url.Values{"client_id": {"fulfillment-worker"}, "client_secret": {"worker-secret"}}
	req := httptest.NewRequest(http.MethodPost, "/api/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("token status = %d, body = %s", w.Code, w.Body.String())
	}
	token, _ := decode(t, w).Data["access_token"].(string)
	if token == "" {
		t.Fatal("no access_token issued")
	}

	w = doJSON(t, env.router, http.MethodPost, "/api/orders/files",
		`{"orderId":"order-1","siteId":"custom-frame-sizes","fileUrl":"https://cdn.example/a.png","fileName":"a.png"}`,
		func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) })

	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	if len(env.repo.files) != 1 {
		t.Errorf("persisted files = %d, want 1", len(env.repo.files))
	}
}

var errContinually = errors.New("storefront unavailable")
