package menu

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/opencafe/menu-client-go/internal/backend"
	"github.com/opencafe/menu-client-go/internal/cart"
	"github.com/opencafe/menu-client-go/internal/catalog"
	"github.com/opencafe/menu-client-go/internal/events"
	"github.com/opencafe/menu-client-go/internal/promo"
	"github.com/opencafe/menu-client-go/internal/store"
)

const DefaultTheme = "light"

// Localized user-facing messages, matching the POS frontend.
const (
	msgPromoApplied     = "Промокод застосовано"
	msgPromoUnavailable = "Не вдалося перевірити промокод. Спробуйте ще раз"
	msgOrderFailed      = "Не вдалося оформити замовлення. Спробуйте ще раз"
	msgFeedbackFailed   = "Не вдалося надіслати відгук. Спробуйте ще раз"
)

// ErrSubmissionInFlight rejects a checkout or feedback submission started
// while the previous one is still waiting on the backend.
var ErrSubmissionInFlight = errors.New("submission already in flight")

// API is the slice of the POS backend the view-model calls.
type API interface {
	ValidatePromo(ctx context.Context, code string, orderTotal float64) (*backend.PromoValidation, error)
	CreateOrder(ctx context.Context, req backend.OrderRequest) (*backend.OrderResponse, error)
	SubmitFeedback(ctx context.Context, req backend.FeedbackRequest) error
}

type FeedbackDraft struct {
	Rating  int    `json:"rating"`
	Phone   string `json:"phone"`
	Comment string `json:"comment"`
}

type Options struct {
	// PageURL is the current page URL; an optional integer "table" query
	// parameter selects the table number.
	PageURL string
}

// ViewModel owns cart, promo, theme and feedback state for the lifetime of
// a session. Catalog data is borrowed read-only. Persistence and backend
// access are injected ports; change notification goes through the bus.
type ViewModel struct {
	catalog *catalog.Catalog
	store   store.Store
	api     API
	bus     *events.Bus
	logger  *zap.Logger

	mu                 sync.Mutex
	cart               *cart.Cart
	promo              promo.State
	feedback           FeedbackDraft
	searchQuery        string
	selectedCategoryID string
	theme              string
	tableNumber        *int
	orderNumber        string
	cartViewOpen       bool
	feedbackViewOpen   bool
	orderSuccess       bool
	feedbackSuccess    bool

	checkoutInFlight   atomic.Bool
	feedbackSubmitting atomic.Bool
}

// New builds the view-model and restores persisted state: cart (malformed
// JSON falls back to empty), theme (default "light"), optional table number
// from the page URL, and the first category as the default selection. The
// two persistence observers are registered here and fire synchronously
// after every theme or cart mutation.
func New(cat *catalog.Catalog, st store.Store, api API, bus *events.Bus, logger *zap.Logger, opts Options) *ViewModel {
	vm := &ViewModel{
		catalog: cat,
		store:   st,
		api:     api,
		bus:     bus,
		logger:  logger,
		cart:    cart.New(),
		promo:   promo.NewState(),
		theme:   DefaultTheme,
	}

	vm.tableNumber = parseTableNumber(opts.PageURL)
	vm.selectedCategoryID = cat.FirstCategoryID()

	ctx := context.Background()

	if raw, ok, err := st.Get(ctx, store.KeyCart); err != nil {
		logger.Warn("failed to load persisted cart", zap.Error(err))
	} else if ok {
		vm.cart.Restore(raw)
	}

	if theme, ok, err := st.Get(ctx, store.KeyTheme); err != nil {
		logger.Warn("failed to load persisted theme", zap.Error(err))
	} else if ok && theme != "" {
		vm.theme = theme
	}

	bus.Subscribe(events.TopicThemeChanged, vm.persistTheme)
	bus.Subscribe(events.TopicCartChanged, vm.persistCart)

	return vm
}

func parseTableNumber(pageURL string) *int {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	raw := u.Query().Get("table")
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

// persistTheme and persistCart are the observer side effects. They run on
// the mutating goroutine while the state lock is held, so they read fields
// directly. Persistence failures are logged, never propagated.

func (vm *ViewModel) persistTheme() {
	if err := vm.store.Put(context.Background(), store.KeyTheme, vm.theme); err != nil {
		vm.logger.Error("failed to persist theme", zap.Error(err))
	}
}

func (vm *ViewModel) persistCart() {
	raw, err := vm.cart.Serialize()
	if err != nil {
		vm.logger.Error("failed to serialize cart", zap.Error(err))
		return
	}
	if err := vm.store.Put(context.Background(), store.KeyCart, raw); err != nil {
		vm.logger.Error("failed to persist cart", zap.Error(err))
	}
}

// --- derived product list ---

func (vm *ViewModel) FilteredProducts() []catalog.Product {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.catalog.Filter(vm.searchQuery, vm.selectedCategoryID)
}

func (vm *ViewModel) SetSearchQuery(q string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.searchQuery = q
}

func (vm *ViewModel) SelectCategory(id string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.selectedCategoryID = id
}

func (vm *ViewModel) SelectedCategory() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.selectedCategoryID
}

// --- cart operations ---

func (vm *ViewModel) AddToCart(p catalog.Product) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.cart.Add(p)
	vm.bus.Publish(events.TopicCartChanged)
}

func (vm *ViewModel) RemoveFromCart(index int) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.cart.Remove(index)
	vm.bus.Publish(events.TopicCartChanged)
}

func (vm *ViewModel) IncreaseQty(index int) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.cart.IncreaseQty(index)
	vm.bus.Publish(events.TopicCartChanged)
}

func (vm *ViewModel) DecreaseQty(index int) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.cart.DecreaseQty(index)
	vm.bus.Publish(events.TopicCartChanged)
}

func (vm *ViewModel) CartLines() []cart.Line {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return append([]cart.Line(nil), vm.cart.Lines()...)
}

func (vm *ViewModel) Subtotal() float64 {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.cart.Subtotal()
}

// Total is subtotal minus the discount snapshot. It is deliberately not
// clamped at zero; a stale fixed discount can push it negative.
func (vm *ViewModel) Total() float64 {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.cart.Subtotal() - vm.promo.DiscountAmount
}

// --- theme ---

func (vm *ViewModel) Theme() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.theme
}

func (vm *ViewModel) SetTheme(theme string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.theme = theme
	vm.bus.Publish(events.TopicThemeChanged)
}

// --- promo code ---

func (vm *ViewModel) Promo() promo.State {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.promo
}

func (vm *ViewModel) SetPromoCode(code string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.promo.Code = code
}

// ApplyPromoCode validates the entered code against the current subtotal.
// A blank code is a no-op. Rejections and transport failures both recover
// locally into an inline error message; the recorded discount is a
// snapshot and is not revalidated when the cart changes afterward.
func (vm *ViewModel) ApplyPromoCode(ctx context.Context) {
	vm.mu.Lock()
	code := strings.TrimSpace(vm.promo.Code)
	if code == "" {
		vm.mu.Unlock()
		return
	}
	vm.promo.BeginValidation(code)
	subtotal := vm.cart.Subtotal()
	vm.mu.Unlock()

	result, err := vm.api.ValidatePromo(ctx, code, subtotal)

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if err != nil {
		vm.logger.Warn("promo validation failed",
			zap.String("code", code),
			zap.Error(err))
		vm.promo.Fail(msgPromoUnavailable)
		return
	}

	if !result.Valid {
		message := result.Error
		if message == "" {
			message = msgPromoUnavailable
		}
		vm.promo.Fail(message)
		return
	}

	vm.promo.Apply(result.DiscountAmount, result.DiscountType, result.DiscountValue, msgPromoApplied)
	vm.logger.Info("promo code applied",
		zap.String("code", code),
		zap.Float64("discount_amount", result.DiscountAmount))
}

func (vm *ViewModel) RemovePromoCode() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.promo.Reset()
}

// --- checkout ---

// Checkout submits the cart as a dine-in order. An empty cart is a no-op.
// Only one checkout may be in flight at a time. On success the cart is
// cleared, the cart view closed and the promo state reset; on failure all
// state is left untouched since the order may not exist.
func (vm *ViewModel) Checkout(ctx context.Context) error {
	vm.mu.Lock()
	if vm.cart.IsEmpty() {
		vm.mu.Unlock()
		return nil
	}

	req := backend.OrderRequest{
		Items:     append([]cart.Line(nil), vm.cart.Lines()...),
		OrderType: backend.OrderTypeDineIn,
	}
	if vm.tableNumber != nil {
		n := *vm.tableNumber
		req.TableNumber = &n
	}
	if vm.promo.Applied && strings.TrimSpace(vm.promo.Code) != "" {
		req.PromoCode = vm.promo.Code
	}
	vm.mu.Unlock()

	if !vm.checkoutInFlight.CompareAndSwap(false, true) {
		return ErrSubmissionInFlight
	}
	defer vm.checkoutInFlight.Store(false)

	resp, err := vm.api.CreateOrder(ctx, req)
	if err != nil {
		vm.logger.Error("checkout failed", zap.Error(err))
		return errors.New(msgOrderFailed)
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.orderNumber = resp.OrderNumber
	vm.cart.Clear()
	vm.bus.Publish(events.TopicCartChanged)
	vm.cartViewOpen = false
	vm.orderSuccess = true
	vm.promo.Reset()

	vm.logger.Info("order created", zap.String("order_number", resp.OrderNumber))
	return nil
}

// --- feedback ---

func (vm *ViewModel) Feedback() FeedbackDraft {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.feedback
}

func (vm *ViewModel) SetFeedback(draft FeedbackDraft) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.feedback = draft
}

// SubmitFeedback sends the draft. The rating must be 1-5; an unset or
// out-of-range rating is a no-op and nothing reaches the backend. The
// submitting flag clears unconditionally whatever the outcome.
func (vm *ViewModel) SubmitFeedback(ctx context.Context) error {
	vm.mu.Lock()
	draft := vm.feedback
	vm.mu.Unlock()

	if draft.Rating < 1 || draft.Rating > 5 {
		return nil
	}

	if !vm.feedbackSubmitting.CompareAndSwap(false, true) {
		return ErrSubmissionInFlight
	}
	defer vm.feedbackSubmitting.Store(false)

	err := vm.api.SubmitFeedback(ctx, backend.FeedbackRequest{
		Rating:  draft.Rating,
		Phone:   draft.Phone,
		Comment: draft.Comment,
	})
	if err != nil {
		vm.logger.Error("feedback submission failed", zap.Error(err))
		return errors.New(msgFeedbackFailed)
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.feedback = FeedbackDraft{}
	vm.feedbackViewOpen = false
	vm.feedbackSuccess = true
	return nil
}

func (vm *ViewModel) FeedbackSubmitting() bool {
	return vm.feedbackSubmitting.Load()
}

// --- view flags & misc accessors ---

func (vm *ViewModel) OpenCartView() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.cartViewOpen = true
}

func (vm *ViewModel) CloseCartView() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.cartViewOpen = false
}

func (vm *ViewModel) CartViewOpen() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.cartViewOpen
}

func (vm *ViewModel) OpenFeedbackView() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.feedbackViewOpen = true
}

func (vm *ViewModel) FeedbackViewOpen() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.feedbackViewOpen
}

func (vm *ViewModel) OrderNumber() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.orderNumber
}

func (vm *ViewModel) OrderSuccess() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.orderSuccess
}

func (vm *ViewModel) FeedbackSuccess() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.feedbackSuccess
}

// TableNumber reports the table parsed from the page URL, if any.
func (vm *ViewModel) TableNumber() (int, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.tableNumber == nil {
		return 0, false
	}
	return *vm.tableNumber, true
}
