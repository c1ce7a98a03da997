package promo

// Status is the promo code application state. Transitions:
// idle -> pending -> applied | error, and applied/error -> idle on Reset.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusApplied Status = "applied"
	StatusError   Status = "error"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type State struct {
	Code           string  `json:"code"`
	Status         Status  `json:"status"`
	Applied        bool    `json:"applied"`
	Message        string  `json:"message"`
	IsError        bool    `json:"is_error"`
	DiscountAmount float64 `json:"discount_amount"`
	DiscountType   string  `json:"discount_type"`
	DiscountValue  float64 `json:"discount_value"`
}

func NewState() State {
	return State{Status: StatusIdle}
}

func (s *State) BeginValidation(code string) {
	s.Code = code
	s.Status = StatusPending
	s.Applied = false
	s.Message = ""
	s.IsError = false
}

// Apply records a successful validation. The discount is a snapshot of the
// validation against the subtotal sent with it; it is not recomputed when
// the cart changes afterward.
func (s *State) Apply(amount float64, discountType string, value float64, message string) {
	s.Status = StatusApplied
	s.Applied = true
	s.Message = message
	s.IsError = false
	s.DiscountAmount = amount
	s.DiscountType = discountType
	s.DiscountValue = value
}

func (s *State) Fail(message string) {
	s.Status = StatusError
	s.Applied = false
	s.Message = message
	s.IsError = true
	s.DiscountAmount = 0
	s.DiscountType = ""
	s.DiscountValue = 0
}

// Reset returns every field to its initial value unconditionally.
func (s *State) Reset() {
	*s = NewState()
}
