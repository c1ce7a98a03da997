package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/opencafe/menu-client-go/internal/catalog"
	"github.com/opencafe/menu-client-go/internal/menu"
)

// MenuHandler exposes the view-model operations over the loopback API.
// It is transport plumbing only; every rule lives in internal/menu.
type MenuHandler struct {
	vm  *menu.ViewModel
	cat *catalog.Catalog
}

func NewMenuHandler(vm *menu.ViewModel, cat *catalog.Catalog) *MenuHandler {
	return &MenuHandler{vm: vm, cat: cat}
}

func (h *MenuHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"products":          h.vm.FilteredProducts(),
		"selected_category": h.vm.SelectedCategory(),
	})
}

func (h *MenuHandler) SetSearch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	h.vm.SetSearchQuery(body.Query)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *MenuHandler) SelectCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CategoryID string `json:"category_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	h.vm.SelectCategory(body.CategoryID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *MenuHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"items":    h.vm.CartLines(),
		"subtotal": h.vm.Subtotal(),
		"total":    h.vm.Total(),
		"promo":    h.vm.Promo(),
	})
}

func (h *MenuHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	product, ok := h.cat.ProductByID(body.ProductID)
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	h.vm.AddToCart(product)
	writeJSON(w, http.StatusOK, map[string]any{"items": h.vm.CartLines()})
}

func (h *MenuHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	index, ok := lineIndex(w, r)
	if !ok {
		return
	}
	h.vm.RemoveFromCart(index)
	writeJSON(w, http.StatusOK, map[string]any{"items": h.vm.CartLines()})
}

func (h *MenuHandler) IncreaseQty(w http.ResponseWriter, r *http.Request) {
	index, ok := lineIndex(w, r)
	if !ok {
		return
	}
	h.vm.IncreaseQty(index)
	writeJSON(w, http.StatusOK, map[string]any{"items": h.vm.CartLines()})
}

func (h *MenuHandler) DecreaseQty(w http.ResponseWriter, r *http.Request) {
	index, ok := lineIndex(w, r)
	if !ok {
		return
	}
	h.vm.DecreaseQty(index)
	writeJSON(w, http.StatusOK, map[string]any{"items": h.vm.CartLines()})
}

func (h *MenuHandler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	h.vm.SetPromoCode(body.Code)
	h.vm.ApplyPromoCode(r.Context())
	writeJSON(w, http.StatusOK, h.vm.Promo())
}

func (h *MenuHandler) RemovePromo(w http.ResponseWriter, r *http.Request) {
	h.vm.RemovePromoCode()
	writeJSON(w, http.StatusOK, h.vm.Promo())
}

func (h *MenuHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	err := h.vm.Checkout(r.Context())
	if errors.Is(err, menu.ErrSubmissionInFlight) {
		writeError(w, http.StatusConflict, "checkout already in progress")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"order_number": h.vm.OrderNumber(),
		"success":      h.vm.OrderSuccess(),
	})
}

func (h *MenuHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var draft menu.FeedbackDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	h.vm.SetFeedback(draft)
	err := h.vm.SubmitFeedback(r.Context())
	if errors.Is(err, menu.ErrSubmissionInFlight) {
		writeError(w, http.StatusConflict, "feedback already in progress")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"submitted": h.vm.FeedbackSuccess()})
}

func (h *MenuHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Theme == "" {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	h.vm.SetTheme(body.Theme)
	writeJSON(w, http.StatusOK, map[string]string{"theme": h.vm.Theme()})
}

func lineIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		writeError(w, http.StatusBadRequest, "invalid line index")
		return 0, false
	}
	return index, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error": msg,
	})
}
