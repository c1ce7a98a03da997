package http

import (
	"encoding/json"
	"net/http"

	"github.com/opencafe/menu-client-go/internal/catalog"
	"github.com/opencafe/menu-client-go/internal/menu"
)

func NewRouter(vm *menu.ViewModel, cat *catalog.Catalog) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", healthHandler)

	h := NewMenuHandler(vm, cat)

	mux.HandleFunc("GET /api/menu/products", h.ListProducts)
	mux.HandleFunc("PUT /api/menu/search", h.SetSearch)
	mux.HandleFunc("PUT /api/menu/category", h.SelectCategory)

	mux.HandleFunc("GET /api/cart", h.GetCart)
	mux.HandleFunc("POST /api/cart/items", h.AddItem)
	mux.HandleFunc("DELETE /api/cart/items/{index}", h.RemoveItem)
	mux.HandleFunc("POST /api/cart/items/{index}/increase", h.IncreaseQty)
	mux.HandleFunc("POST /api/cart/items/{index}/decrease", h.DecreaseQty)

	mux.HandleFunc("POST /api/promo/apply", h.ApplyPromo)
	mux.HandleFunc("POST /api/promo/remove", h.RemovePromo)

	mux.HandleFunc("POST /api/checkout", h.Checkout)
	mux.HandleFunc("POST /api/feedback", h.SubmitFeedback)

	mux.HandleFunc("PUT /api/theme", h.SetTheme)

	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok", "service": "menu-client"}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
