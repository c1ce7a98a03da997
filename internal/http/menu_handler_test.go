package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/opencafe/menu-client-go/internal/backend"
	"github.com/opencafe/menu-client-go/internal/cart"
	"github.com/opencafe/menu-client-go/internal/catalog"
	"github.com/opencafe/menu-client-go/internal/events"
	httphandler "github.com/opencafe/menu-client-go/internal/http"
	"github.com/opencafe/menu-client-go/internal/menu"
)

type memStore struct {
	data map[string]string
}

func (m *memStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Put(ctx context.Context, key, value string) error {
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memStore) Close() error { return nil }

type apiMock struct {
	validatePromoFunc  func(ctx context.Context, code string, orderTotal float64) (*backend.PromoValidation, error)
	createOrderFunc    func(ctx context.Context, req backend.OrderRequest) (*backend.OrderResponse, error)
	submitFeedbackFunc func(ctx context.Context, req backend.FeedbackRequest) error
}

func (m *apiMock) ValidatePromo(ctx context.Context, code string, orderTotal float64) (*backend.PromoValidation, error) {
	if m.validatePromoFunc != nil {
		return m.validatePromoFunc(ctx, code, orderTotal)
	}
	return &backend.PromoValidation{Valid: true}, nil
}

func (m *apiMock) CreateOrder(ctx context.Context, req backend.OrderRequest) (*backend.OrderResponse, error) {
	if m.createOrderFunc != nil {
		return m.createOrderFunc(ctx, req)
	}
	return &backend.OrderResponse{OrderNumber: "ORD-20260830-001"}, nil
}

func (m *apiMock) SubmitFeedback(ctx context.Context, req backend.FeedbackRequest) error {
	if m.submitFeedbackFunc != nil {
		return m.submitFeedbackFunc(ctx, req)
	}
	return nil
}

func testCatalog() *catalog.Catalog {
	return catalog.New(
		[]catalog.Category{{ID: "cat1", Name: "Кава", Icon: "coffee"}},
		[]catalog.Product{
			{ID: "p1", Name: "Латте", Price: 65, CategoryID: "cat1", ItemType: catalog.ItemTypeProduct},
			{ID: "p2", Name: "Американо", Price: 45, CategoryID: "cat1", ItemType: catalog.ItemTypeProduct},
		},
	)
}

func newTestRouter(api menu.API) http.Handler {
	cat := testCatalog()
	st := &memStore{data: make(map[string]string)}
	if api == nil {
		api = &apiMock{}
	}
	vm := menu.New(cat, st, api, events.NewBus(), zap.NewNop(), menu.Options{})
	return httphandler.NewRouter(vm, cat)
}

func doRequest(t *testing.T, router http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	r := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestHealth(t *testing.T) {
	w := doRequest(t, newTestRouter(nil), http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestAddItem(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		w := doRequest(t, newTestRouter(nil), http.MethodPost, "/api/cart/items", "{")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		w := doRequest(t, newTestRouter(nil), http.MethodPost, "/api/cart/items", `{"product_id":"ghost"}`)
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("adds and returns lines", func(t *testing.T) {
		router := newTestRouter(nil)
		w := doRequest(t, router, http.MethodPost, "/api/cart/items", `{"product_id":"p1"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		var resp struct {
			Items []cart.Line `json:"items"`
		}
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(resp.Items) != 1 || resp.Items[0].ProductID != "p1" || resp.Items[0].Qty != 1 {
			t.Fatalf("unexpected items %+v", resp.Items)
		}
	})
}

func TestCartQtyRoutes(t *testing.T) {
	router := newTestRouter(nil)
	doRequest(t, router, http.MethodPost, "/api/cart/items", `{"product_id":"p1"}`)

	w := doRequest(t, router, http.MethodPost, "/api/cart/items/0/increase", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Items []cart.Line `json:"items"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Items[0].Qty != 2 {
		t.Fatalf("expected qty 2, got %d", resp.Items[0].Qty)
	}

	w = doRequest(t, router, http.MethodPost, "/api/cart/items/notanumber/decrease", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad index, got %d", w.Code)
	}

	w = doRequest(t, router, http.MethodDelete, "/api/cart/items/0", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestGetCart(t *testing.T) {
	router := newTestRouter(nil)
	doRequest(t, router, http.MethodPost, "/api/cart/items", `{"product_id":"p1"}`)
	doRequest(t, router, http.MethodPost, "/api/cart/items", `{"product_id":"p2"}`)

	w := doRequest(t, router, http.MethodGet, "/api/cart", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Items    []cart.Line `json:"items"`
		Subtotal float64     `json:"subtotal"`
		Total    float64     `json:"total"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(resp.Items))
	}
	if resp.Subtotal != 110 || resp.Total != 110 {
		t.Fatalf("unexpected totals %+v", resp)
	}
}

func TestPromoRoutes(t *testing.T) {
	t.Run("apply returns the promo state", func(t *testing.T) {
		api := &apiMock{
			validatePromoFunc: func(ctx context.Context, code string, orderTotal float64) (*backend.PromoValidation, error) {
				return &backend.PromoValidation{Valid: true, DiscountAmount: 10, DiscountType: "fixed", DiscountValue: 10}, nil
			},
		}
		router := newTestRouter(api)
		doRequest(t, router, http.MethodPost, "/api/cart/items", `{"product_id":"p1"}`)

		w := doRequest(t, router, http.MethodPost, "/api/promo/apply", `{"code":"MINUS10"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		var state struct {
			Applied        bool    `json:"applied"`
			DiscountAmount float64 `json:"discount_amount"`
		}
		if err := json.NewDecoder(w.Body).Decode(&state); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if !state.Applied || state.DiscountAmount != 10 {
			t.Fatalf("unexpected promo state %+v", state)
		}
	})

	t.Run("remove resets", func(t *testing.T) {
		router := newTestRouter(nil)
		doRequest(t, router, http.MethodPost, "/api/promo/apply", `{"code":"X"}`)

		w := doRequest(t, router, http.MethodPost, "/api/promo/remove", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		var state struct {
			Applied bool   `json:"applied"`
			Code    string `json:"code"`
		}
		if err := json.NewDecoder(w.Body).Decode(&state); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if state.Applied || state.Code != "" {
			t.Fatalf("unexpected promo state %+v", state)
		}
	})
}

func TestCheckoutRoute(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		router := newTestRouter(nil)
		doRequest(t, router, http.MethodPost, "/api/cart/items", `{"product_id":"p1"}`)

		w := doRequest(t, router, http.MethodPost, "/api/checkout", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		var resp struct {
			OrderNumber string `json:"order_number"`
			Success     bool   `json:"success"`
		}
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if !resp.Success || resp.OrderNumber == "" {
			t.Fatalf("unexpected response %+v", resp)
		}
	})

	t.Run("backend failure", func(t *testing.T) {
		api := &apiMock{
			createOrderFunc: func(ctx context.Context, req backend.OrderRequest) (*backend.OrderResponse, error) {
				return nil, errors.New("down")
			},
		}
		router := newTestRouter(api)
		doRequest(t, router, http.MethodPost, "/api/cart/items", `{"product_id":"p1"}`)

		w := doRequest(t, router, http.MethodPost, "/api/checkout", "")
		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
	})
}

func TestFeedbackRoute(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		router := newTestRouter(nil)

		w := doRequest(t, router, http.MethodPost, "/api/feedback", `{"rating":5,"comment":"чудово"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("backend failure", func(t *testing.T) {
		api := &apiMock{
			submitFeedbackFunc: func(ctx context.Context, req backend.FeedbackRequest) error {
				return errors.New("down")
			},
		}
		router := newTestRouter(api)

		w := doRequest(t, router, http.MethodPost, "/api/feedback", `{"rating":1}`)
		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
	})
}

func TestThemeRoute(t *testing.T) {
	router := newTestRouter(nil)

	w := doRequest(t, router, http.MethodPut, "/api/theme", `{"theme":"dark"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["theme"] != "dark" {
		t.Fatalf("unexpected theme %q", resp["theme"])
	}

	w = doRequest(t, router, http.MethodPut, "/api/theme", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing theme, got %d", w.Code)
	}
}

func TestProductRoutes(t *testing.T) {
	router := newTestRouter(nil)

	w := doRequest(t, router, http.MethodPut, "/api/menu/search", `{"query":"американо"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = doRequest(t, router, http.MethodGet, "/api/menu/products", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Products []catalog.Product `json:"products"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Products) != 1 || resp.Products[0].ID != "p2" {
		t.Fatalf("unexpected products %+v", resp.Products)
	}
}
