package intake

import (
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotPriced = errors.New("request has not been priced yet")

	dateLayout = "2006-01-02"
)

type ServiceType string

// Service types
const (
	ServiceTutoring   ServiceType = "tutoring"
	ServiceAssignment ServiceType = "assignment"
	ServiceInstant    ServiceType = "instant"
)

type ServiceOption struct {
	Type  ServiceType `json:"id"`
	Label string      `json:"label"`
	Price int         `json:"base_price"`
}

var (
	// ServiceOptions is the static price table, in display order.
	ServiceOptions = []ServiceOption{
		{Type: ServiceTutoring, Label: "One-on-One Tutoring", Price: 30},
		{Type: ServiceAssignment, Label: "Assignment Help", Price: 50},
		{Type: ServiceInstant, Label: "Instant Help (24hrs)", Price: 75},
	}

	Subjects = []string{
		"Mathematics",
		"Physics",
		"Chemistry",
		"Biology",
		"Computer Science",
		"English Literature",
		"History",
		"Economics",
		"Business Studies",
		"Psychology",
		"Other",
	}
)

func lookup(st ServiceType) (ServiceOption, bool) {
	for _, opt := range ServiceOptions {
		if opt.Type == st {
			return opt, true
		}
	}
	return ServiceOption{}, false
}

// PriceOf returns the price of a service type; ok is false for unknown types.
func PriceOf(st ServiceType) (price int, ok bool) {
	opt, ok := lookup(st)
	return opt.Price, ok
}

func (st ServiceType) Valid() bool {
	_, ok := lookup(st)
	return ok
}

func (st ServiceType) Label() string {
	if opt, ok := lookup(st); ok {
		return opt.Label
	}
	return string(st)
}

func IsSubject(s string) bool {
	for _, subj := range Subjects {
		if subj == s {
			return true
		}
	}
	return false
}

// ServiceRequest is what a visitor asks for. It is never persisted.
type ServiceRequest struct {
	FirstName        string      `json:"first_name" form:"first_name" validate:"notblank"`
	LastName         string      `json:"last_name" form:"last_name" validate:"notblank"`
	Email            string      `json:"email" form:"email" validate:"required,email"`
	Subject          string      `json:"subject" form:"subject" validate:"required,subject"`
	ServiceType      ServiceType `json:"service_type" form:"service_type" validate:"required,servicetype"`
	Description      string      `json:"description,omitempty" form:"description"`
	SessionDate      string      `json:"session_date,omitempty" form:"session_date" validate:"omitempty,datetime=2006-01-02"`
	AttachedFileName string      `json:"attached_file_name,omitempty" form:"-"`
}

func (r ServiceRequest) FullName() string {
	return r.FirstName + " " + r.LastName
}

// ScheduledOn parses SessionDate; ok is false when no date was picked.
func (r ServiceRequest) ScheduledOn() (t time.Time, ok bool) {
	if r.SessionDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, r.SessionDate)
	return t, err == nil
}

// Quote is a derived price for a request.
type Quote struct {
	ServiceType ServiceType `json:"service_type"`
	Label       string      `json:"label"`
	Price       int         `json:"price"`
}

func QuoteFor(st ServiceType) (Quote, bool) {
	opt, ok := lookup(st)
	if !ok {
		return Quote{}, false
	}
	return Quote{ServiceType: opt.Type, Label: opt.Label, Price: opt.Price}, true
}

// Handoff carries a priced request from the intake flow to the payment page.
// It is short-lived: created by Flow.Proceed and consumed by a payment submission.
type Handoff struct {
	Request  ServiceRequest `json:"request"`
	Price    int            `json:"price"`
	IssuedAt time.Time      `json:"issued_at"`
}
