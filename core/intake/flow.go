package intake

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/eduhelp/core"
)

type State string

// Flow states
const (
	StateFilling State = "filling"
	StatePriced  State = "priced"
)

// Flow is the fill -> review wizard of a single visitor.
// The zero value is a fresh flow in the filling state.
type Flow struct {
	State State          `json:"state"`
	Draft ServiceRequest `json:"draft"`
	Price int            `json:"price"`
}

func (f Flow) current() State {
	if f.State == "" {
		return StateFilling
	}
	return f.State
}

func (f Flow) IsPriced() bool { return f.current() == StatePriced }

// SubmitDetails validates the request and prices it.
// The entered values are kept as the draft whether or not validation passes.
func (f *Flow) SubmitDetails(validate *validator.Validate, req ServiceRequest) error {
	req.FirstName = core.CleanString(req.FirstName)
	req.LastName = core.CleanString(req.LastName)
	req.Email = core.CleanString(req.Email)
	req.Subject = core.CleanString(req.Subject)
	req.ServiceType = ServiceType(core.CleanString(string(req.ServiceType), true /* lower */))
	req.Description = core.CleanString(req.Description)
	req.SessionDate = core.CleanString(req.SessionDate)
	req.AttachedFileName = core.CleanString(req.AttachedFileName)

	f.Draft = req
	f.State = StateFilling
	f.Price = 0

	if err := validate.Struct(req); err != nil {
		return err
	}
	price, ok := PriceOf(req.ServiceType)
	if !ok { // unreachable once `servicetype` is registered
		return core.NewValidationError(nil, core.FieldError{Field: "service_type", Error: serviceTypeText})
	}
	f.Price = price
	f.State = StatePriced
	return nil
}

// Edit goes back to the filling state without discarding entered values.
func (f *Flow) Edit() {
	f.State = StateFilling
}

// Proceed hands the priced request over to payment.
func (f *Flow) Proceed(now time.Time) (Handoff, error) {
	if !f.IsPriced() {
		return Handoff{}, ErrNotPriced
	}
	return Handoff{Request: f.Draft, Price: f.Price, IssuedAt: now.UTC()}, nil
}

// Reset discards the draft.
func (f *Flow) Reset() {
	*f = Flow{}
}
