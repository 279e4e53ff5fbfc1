package dashboard

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidPrice = errors.New("price must be a non-negative number")
)

type (
	RequestStatus string
	PaymentStatus string
	ActiveStatus  string
	SessionStatus string
	WorkStatus    string
	InvoiceStatus string
)

// Request statuses
const (
	RequestPending   RequestStatus = "pending"
	RequestApproved  RequestStatus = "approved"
	RequestCompleted RequestStatus = "completed"
	RequestCancelled RequestStatus = "cancelled"
)

// Payment statuses
const (
	PaymentPaid     PaymentStatus = "paid"
	PaymentPending  PaymentStatus = "pending"
	PaymentPayLater PaymentStatus = "pay-later"
)

// Account statuses
const (
	Active   ActiveStatus = "active"
	Inactive ActiveStatus = "inactive"
)

// Session statuses
const (
	SessionScheduled SessionStatus = "scheduled"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// Assignment statuses
const (
	WorkInProgress WorkStatus = "in-progress"
	WorkCompleted  WorkStatus = "completed"
)

// Invoice statuses
const (
	InvoicePaid    InvoiceStatus = "paid"
	InvoicePending InvoiceStatus = "pending"
)

func (s ActiveStatus) Toggle() ActiveStatus {
	if s == Active {
		return Inactive
	}
	return Active
}

type (
	Request struct {
		ID            string        `json:"id"`
		Name          string        `json:"name"`
		Email         string        `json:"email"`
		Subject       string        `json:"subject"`
		ServiceType   string        `json:"service_type"`
		Date          string        `json:"date"`
		Status        RequestStatus `json:"status"`
		Price         float64       `json:"price"`
		PaymentStatus PaymentStatus `json:"payment_status"`
		Progress      int           `json:"progress"`
	}

	User struct {
		ID            string       `json:"id"`
		Name          string       `json:"name"`
		Email         string       `json:"email"`
		JoinDate      string       `json:"join_date"`
		Status        ActiveStatus `json:"status"`
		TotalSessions int          `json:"total_sessions"`
		TotalSpent    float64      `json:"total_spent"`
	}

	Tutor struct {
		ID            string       `json:"id"`
		Name          string       `json:"name"`
		Email         string       `json:"email"`
		Subjects      []string     `json:"subjects"`
		Rating        float64      `json:"rating"`
		TotalSessions int          `json:"total_sessions"`
		Status        ActiveStatus `json:"status"`
		HourlyRate    float64      `json:"hourly_rate"`
	}

	Session struct {
		ID       string        `json:"id"`
		Student  string        `json:"student"`
		Tutor    string        `json:"tutor"`
		Subject  string        `json:"subject"`
		Date     string        `json:"date"`
		Time     string        `json:"time"`
		Duration string        `json:"duration"`
		Status   SessionStatus `json:"status"`
	}

	Testimonial struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Role        string `json:"role"`
		Content     string `json:"content"`
		Rating      int    `json:"rating"`
		IsPublished bool   `json:"is_published"`
	}

	PricingItem struct {
		ID          string  `json:"id"`
		Service     string  `json:"service"`
		Price       float64 `json:"price"`
		Description string  `json:"description"`
	}

	// student view

	UpcomingSession struct {
		ID          string `json:"id"`
		Subject     string `json:"subject"`
		Tutor       string `json:"tutor"`
		Date        string `json:"date"`
		Time        string `json:"time"`
		Duration    string `json:"duration"`
		MeetingLink string `json:"meeting_link"`
	}

	Assignment struct {
		ID       string     `json:"id"`
		Title    string     `json:"title"`
		Subject  string     `json:"subject"`
		DueDate  string     `json:"due_date"`
		Progress int        `json:"progress"`
		Status   WorkStatus `json:"status"`
		Tutor    string     `json:"tutor"`
	}

	Invoice struct {
		ID      string        `json:"id"`
		Service string        `json:"service"`
		Amount  float64       `json:"amount"`
		Date    string        `json:"date"`
		Status  InvoiceStatus `json:"status"`
		Number  string        `json:"invoice"`
	}

	PastSession struct {
		ID       string `json:"id"`
		Subject  string `json:"subject"`
		Tutor    string `json:"tutor"`
		Date     string `json:"date"`
		Duration string `json:"duration"`
		Rating   int    `json:"rating"`
	}
)

// QueryFilter narrows a listing. Zero values match everything.
// Search does a case-insensitive match on the name, email or subject of an entry.
type QueryFilter struct {
	Search string
	Status string
}

// Matches reports whether one of fields contains the search term, ignoring case.
func (f QueryFilter) Matches(status string, fields ...string) bool {
	if f.Status != "" && f.Status != status {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	for _, fld := range fields {
		if strings.Contains(strings.ToLower(fld), term) {
			return true
		}
	}
	return false
}

// Repositories list, get and update entries by ID; nothing is ever deleted.
// Update runs fn and saves its changes atomically: concurrent updates of an entry are applied one after the other.
// Nothing is saved when fn returns an error, which is returned as is. Unknown IDs give ErrNotFound.
type (
	RequestRepository interface {
		List(ctx context.Context, filter QueryFilter) ([]Request, error)
		Get(ctx context.Context, id string) (Request, error)
		Update(ctx context.Context, id string, fn func(r *Request) error) (Request, error)
	}

	UserRepository interface {
		List(ctx context.Context, filter QueryFilter) ([]User, error)
		Get(ctx context.Context, id string) (User, error)
		Update(ctx context.Context, id string, fn func(u *User) error) (User, error)
	}

	TutorRepository interface {
		List(ctx context.Context, filter QueryFilter) ([]Tutor, error)
		Get(ctx context.Context, id string) (Tutor, error)
		Update(ctx context.Context, id string, fn func(t *Tutor) error) (Tutor, error)
	}

	SessionRepository interface {
		List(ctx context.Context, filter QueryFilter) ([]Session, error)
		Get(ctx context.Context, id string) (Session, error)
		Update(ctx context.Context, id string, fn func(s *Session) error) (Session, error)
	}

	TestimonialRepository interface {
		List(ctx context.Context, filter QueryFilter) ([]Testimonial, error)
		Get(ctx context.Context, id string) (Testimonial, error)
		Update(ctx context.Context, id string, fn func(t *Testimonial) error) (Testimonial, error)
	}

	PricingRepository interface {
		List(ctx context.Context, filter QueryFilter) ([]PricingItem, error)
		Get(ctx context.Context, id string) (PricingItem, error)
		Update(ctx context.Context, id string, fn func(p *PricingItem) error) (PricingItem, error)
	}

	// StudentRepository holds the read-only data shown on the student dashboard.
	StudentRepository interface {
		UpcomingSessions(ctx context.Context) ([]UpcomingSession, error)
		Assignments(ctx context.Context) ([]Assignment, error)
		Invoices(ctx context.Context) ([]Invoice, error)
		PastSessions(ctx context.Context) ([]PastSession, error)
	}

	Repositories struct {
		Requests     RequestRepository
		Users        UserRepository
		Tutors       TutorRepository
		Sessions     SessionRepository
		Testimonials TestimonialRepository
		Pricing      PricingRepository
		Student      StudentRepository
	}
)
