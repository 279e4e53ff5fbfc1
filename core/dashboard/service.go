package dashboard

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"github.com/trezcool/eduhelp/core"
)

const progressStep = 25

type (
	AdminStats struct {
		TotalUsers      int     `json:"total_users"`
		ActiveTutors    int     `json:"active_tutors"`
		PendingRequests int     `json:"pending_requests"`
		Revenue         float64 `json:"revenue"`
	}

	AdminOverview struct {
		Stats        AdminStats    `json:"stats"`
		Search       string        `json:"search,omitempty"`
		Requests     []Request     `json:"requests"`
		Users        []User        `json:"users"`
		Tutors       []Tutor       `json:"tutors"`
		Sessions     []Session     `json:"sessions"`
		Testimonials []Testimonial `json:"testimonials"`
		Pricing      []PricingItem `json:"pricing"`
	}

	// AdminService mutates the seeded collections. Changes live as long as the process.
	AdminService struct {
		repos Repositories
	}
)

func NewAdminService(repos Repositories) *AdminService {
	return &AdminService{repos: repos}
}

// Overview returns every collection with the derived stats. Stats ignore the search term.
func (svc *AdminService) Overview(ctx context.Context, search string) (AdminOverview, error) {
	search = core.CleanString(search)
	ov := AdminOverview{Search: search}

	all, err := svc.repos.Requests.List(ctx, QueryFilter{})
	if err != nil {
		return AdminOverview{}, errors.Wrap(err, "listing requests")
	}
	for _, r := range all {
		if r.Status == RequestPending {
			ov.Stats.PendingRequests++
		}
		if r.PaymentStatus == PaymentPaid {
			ov.Stats.Revenue += r.Price
		}
	}
	if ov.Requests, err = svc.repos.Requests.List(ctx, QueryFilter{Search: search}); err != nil {
		return AdminOverview{}, errors.Wrap(err, "searching requests")
	}
	if ov.Users, err = svc.repos.Users.List(ctx, QueryFilter{}); err != nil {
		return AdminOverview{}, errors.Wrap(err, "listing users")
	}
	ov.Stats.TotalUsers = len(ov.Users)
	if ov.Tutors, err = svc.repos.Tutors.List(ctx, QueryFilter{}); err != nil {
		return AdminOverview{}, errors.Wrap(err, "listing tutors")
	}
	for _, t := range ov.Tutors {
		if t.Status == Active {
			ov.Stats.ActiveTutors++
		}
	}
	if ov.Sessions, err = svc.repos.Sessions.List(ctx, QueryFilter{}); err != nil {
		return AdminOverview{}, errors.Wrap(err, "listing sessions")
	}
	if ov.Testimonials, err = svc.repos.Testimonials.List(ctx, QueryFilter{}); err != nil {
		return AdminOverview{}, errors.Wrap(err, "listing testimonials")
	}
	if ov.Pricing, err = svc.repos.Pricing.List(ctx, QueryFilter{}); err != nil {
		return AdminOverview{}, errors.Wrap(err, "listing pricing")
	}
	return ov, nil
}

// AdvanceRequest moves a request one step forward: pending -> approved -> completed.
// Completed and cancelled requests are returned unchanged.
func (svc *AdminService) AdvanceRequest(ctx context.Context, id string) (Request, error) {
	return svc.repos.Requests.Update(ctx, id, func(r *Request) error {
		switch r.Status {
		case RequestPending:
			r.Status = RequestApproved
		case RequestApproved:
			r.Status = RequestCompleted
			r.Progress = 100
		}
		return nil
	})
}

// CancelRequest cancels a pending or approved request. Other requests are returned unchanged.
func (svc *AdminService) CancelRequest(ctx context.Context, id string) (Request, error) {
	return svc.repos.Requests.Update(ctx, id, func(r *Request) error {
		if r.Status == RequestPending || r.Status == RequestApproved {
			r.Status = RequestCancelled
		}
		return nil
	})
}

// IncrementProgress adds a step to the progress of an approved request, up to 100.
// Requests in any other status are returned unchanged.
func (svc *AdminService) IncrementProgress(ctx context.Context, id string) (Request, error) {
	return svc.repos.Requests.Update(ctx, id, func(r *Request) error {
		if r.Status != RequestApproved {
			return nil
		}
		r.Progress += progressStep
		if r.Progress > 100 {
			r.Progress = 100
		}
		if r.Progress < 0 {
			r.Progress = 0
		}
		return nil
	})
}

func (svc *AdminService) ToggleUser(ctx context.Context, id string) (User, error) {
	return svc.repos.Users.Update(ctx, id, func(u *User) error {
		u.Status = u.Status.Toggle()
		return nil
	})
}

func (svc *AdminService) ToggleTutor(ctx context.Context, id string) (Tutor, error) {
	return svc.repos.Tutors.Update(ctx, id, func(t *Tutor) error {
		t.Status = t.Status.Toggle()
		return nil
	})
}

// CancelSession cancels a scheduled session. Other sessions are returned unchanged.
func (svc *AdminService) CancelSession(ctx context.Context, id string) (Session, error) {
	return svc.repos.Sessions.Update(ctx, id, func(s *Session) error {
		if s.Status == SessionScheduled {
			s.Status = SessionCancelled
		}
		return nil
	})
}

func (svc *AdminService) ToggleTestimonial(ctx context.Context, id string) (Testimonial, error) {
	return svc.repos.Testimonials.Update(ctx, id, func(t *Testimonial) error {
		t.IsPublished = !t.IsPublished
		return nil
	})
}

// SetPrice overwrites the price of a pricing item.
func (svc *AdminService) SetPrice(ctx context.Context, id string, price float64) (PricingItem, error) {
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return PricingItem{}, core.NewValidationError(ErrInvalidPrice, core.FieldError{Field: "price", Error: ErrInvalidPrice.Error()})
	}
	return svc.repos.Pricing.Update(ctx, id, func(p *PricingItem) error {
		p.Price = price
		return nil
	})
}

// PublishedTestimonials lists the testimonials shown on the home page.
func PublishedTestimonials(ctx context.Context, repo TestimonialRepository) ([]Testimonial, error) {
	all, err := repo.List(ctx, QueryFilter{})
	if err != nil {
		return nil, err
	}
	published := make([]Testimonial, 0, len(all))
	for _, t := range all {
		if t.IsPublished {
			published = append(published, t)
		}
	}
	return published, nil
}

type (
	StudentStats struct {
		UpcomingSessions      int     `json:"upcoming_sessions"`
		AssignmentsInProgress int     `json:"assignments_in_progress"`
		AverageCompletion     int     `json:"average_completion"`
		CompletedSessions     int     `json:"completed_sessions"`
		TotalSpent            float64 `json:"total_spent"`
		PendingAmount         float64 `json:"pending_amount"`
	}

	StudentOverview struct {
		Stats            StudentStats      `json:"stats"`
		UpcomingSessions []UpcomingSession `json:"upcoming_sessions"`
		Assignments      []Assignment      `json:"assignments"`
		Invoices         []Invoice         `json:"invoices"`
		PastSessions     []PastSession     `json:"past_sessions"`
	}

	// StudentService is read-only.
	StudentService struct {
		repo StudentRepository
	}
)

func NewStudentService(repo StudentRepository) *StudentService {
	return &StudentService{repo: repo}
}

func (svc *StudentService) Overview(ctx context.Context) (StudentOverview, error) {
	var (
		ov  StudentOverview
		err error
	)
	if ov.UpcomingSessions, err = svc.repo.UpcomingSessions(ctx); err != nil {
		return StudentOverview{}, errors.Wrap(err, "listing upcoming sessions")
	}
	if ov.Assignments, err = svc.repo.Assignments(ctx); err != nil {
		return StudentOverview{}, errors.Wrap(err, "listing assignments")
	}
	if ov.Invoices, err = svc.repo.Invoices(ctx); err != nil {
		return StudentOverview{}, errors.Wrap(err, "listing invoices")
	}
	if ov.PastSessions, err = svc.repo.PastSessions(ctx); err != nil {
		return StudentOverview{}, errors.Wrap(err, "listing past sessions")
	}

	ov.Stats.UpcomingSessions = len(ov.UpcomingSessions)
	ov.Stats.CompletedSessions = len(ov.PastSessions)

	var progressSum int
	for _, a := range ov.Assignments {
		if a.Status == WorkInProgress {
			ov.Stats.AssignmentsInProgress++
			progressSum += a.Progress
		}
	}
	if ov.Stats.AssignmentsInProgress > 0 {
		ov.Stats.AverageCompletion = progressSum / ov.Stats.AssignmentsInProgress
	}

	for _, inv := range ov.Invoices {
		switch inv.Status {
		case InvoicePaid:
			ov.Stats.TotalSpent += inv.Amount
		case InvoicePending:
			ov.Stats.PendingAmount += inv.Amount
		}
	}
	return ov, nil
}
