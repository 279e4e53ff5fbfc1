package inmemdb

import (
	"context"

	"github.com/trezcool/eduhelp/core/dashboard"
)

type (
	requestRepository     struct{ db *table[dashboard.Request] }
	userRepository        struct{ db *table[dashboard.User] }
	tutorRepository       struct{ db *table[dashboard.Tutor] }
	sessionRepository     struct{ db *table[dashboard.Session] }
	testimonialRepository struct{ db *table[dashboard.Testimonial] }
	pricingRepository     struct{ db *table[dashboard.PricingItem] }
	studentRepository     struct{ db *studentData }
)

// NewRepositories returns the dashboard repositories backed by db.
func NewRepositories(db *DB) dashboard.Repositories {
	return dashboard.Repositories{
		Requests:     &requestRepository{db: db.request},
		Users:        &userRepository{db: db.user},
		Tutors:       &tutorRepository{db: db.tutor},
		Sessions:     &sessionRepository{db: db.tutorSess},
		Testimonials: &testimonialRepository{db: db.testimonial},
		Pricing:      &pricingRepository{db: db.pricing},
		Student:      &studentRepository{db: &db.student},
	}
}

// requests

func (repo *requestRepository) List(_ context.Context, filter dashboard.QueryFilter) ([]dashboard.Request, error) {
	return repo.db.filter(func(r dashboard.Request) bool {
		return filter.Matches(string(r.Status), r.Name, r.Email, r.Subject)
	}), nil
}

func (repo *requestRepository) Get(_ context.Context, id string) (dashboard.Request, error) {
	if r, ok := repo.db.get(id); ok {
		return r, nil
	}
	return dashboard.Request{}, dashboard.ErrNotFound
}

func (repo *requestRepository) Update(_ context.Context, id string, fn func(r *dashboard.Request) error) (dashboard.Request, error) {
	r, ok, err := repo.db.modify(id, fn)
	if !ok {
		return dashboard.Request{}, dashboard.ErrNotFound
	}
	return r, err
}

// users

func (repo *userRepository) List(_ context.Context, filter dashboard.QueryFilter) ([]dashboard.User, error) {
	return repo.db.filter(func(u dashboard.User) bool {
		return filter.Matches(string(u.Status), u.Name, u.Email)
	}), nil
}

func (repo *userRepository) Get(_ context.Context, id string) (dashboard.User, error) {
	if u, ok := repo.db.get(id); ok {
		return u, nil
	}
	return dashboard.User{}, dashboard.ErrNotFound
}

func (repo *userRepository) Update(_ context.Context, id string, fn func(u *dashboard.User) error) (dashboard.User, error) {
	u, ok, err := repo.db.modify(id, fn)
	if !ok {
		return dashboard.User{}, dashboard.ErrNotFound
	}
	return u, err
}

// tutors

func (repo *tutorRepository) List(_ context.Context, filter dashboard.QueryFilter) ([]dashboard.Tutor, error) {
	return repo.db.filter(func(t dashboard.Tutor) bool {
		return filter.Matches(string(t.Status), append([]string{t.Name, t.Email}, t.Subjects...)...)
	}), nil
}

func (repo *tutorRepository) Get(_ context.Context, id string) (dashboard.Tutor, error) {
	if t, ok := repo.db.get(id); ok {
		t.Subjects = append([]string(nil), t.Subjects...)
		return t, nil
	}
	return dashboard.Tutor{}, dashboard.ErrNotFound
}

func (repo *tutorRepository) Update(_ context.Context, id string, fn func(t *dashboard.Tutor) error) (dashboard.Tutor, error) {
	t, ok, err := repo.db.modify(id, func(row *dashboard.Tutor) error {
		row.Subjects = append([]string(nil), row.Subjects...)
		return fn(row)
	})
	if !ok {
		return dashboard.Tutor{}, dashboard.ErrNotFound
	}
	t.Subjects = append([]string(nil), t.Subjects...)
	return t, err
}

// sessions

func (repo *sessionRepository) List(_ context.Context, filter dashboard.QueryFilter) ([]dashboard.Session, error) {
	return repo.db.filter(func(s dashboard.Session) bool {
		return filter.Matches(string(s.Status), s.Student, s.Tutor, s.Subject)
	}), nil
}

func (repo *sessionRepository) Get(_ context.Context, id string) (dashboard.Session, error) {
	if s, ok := repo.db.get(id); ok {
		return s, nil
	}
	return dashboard.Session{}, dashboard.ErrNotFound
}

func (repo *sessionRepository) Update(_ context.Context, id string, fn func(s *dashboard.Session) error) (dashboard.Session, error) {
	s, ok, err := repo.db.modify(id, fn)
	if !ok {
		return dashboard.Session{}, dashboard.ErrNotFound
	}
	return s, err
}

// testimonials

func (repo *testimonialRepository) List(_ context.Context, filter dashboard.QueryFilter) ([]dashboard.Testimonial, error) {
	return repo.db.filter(func(t dashboard.Testimonial) bool {
		status := "draft"
		if t.IsPublished {
			status = "published"
		}
		return filter.Matches(status, t.Name, t.Role, t.Content)
	}), nil
}

func (repo *testimonialRepository) Get(_ context.Context, id string) (dashboard.Testimonial, error) {
	if t, ok := repo.db.get(id); ok {
		return t, nil
	}
	return dashboard.Testimonial{}, dashboard.ErrNotFound
}

func (repo *testimonialRepository) Update(_ context.Context, id string, fn func(t *dashboard.Testimonial) error) (dashboard.Testimonial, error) {
	t, ok, err := repo.db.modify(id, fn)
	if !ok {
		return dashboard.Testimonial{}, dashboard.ErrNotFound
	}
	return t, err
}

// pricing

func (repo *pricingRepository) List(_ context.Context, filter dashboard.QueryFilter) ([]dashboard.PricingItem, error) {
	return repo.db.filter(func(p dashboard.PricingItem) bool {
		return filter.Matches("", p.Service, p.Description)
	}), nil
}

func (repo *pricingRepository) Get(_ context.Context, id string) (dashboard.PricingItem, error) {
	if p, ok := repo.db.get(id); ok {
		return p, nil
	}
	return dashboard.PricingItem{}, dashboard.ErrNotFound
}

func (repo *pricingRepository) Update(_ context.Context, id string, fn func(p *dashboard.PricingItem) error) (dashboard.PricingItem, error) {
	p, ok, err := repo.db.modify(id, fn)
	if !ok {
		return dashboard.PricingItem{}, dashboard.ErrNotFound
	}
	return p, err
}

// student view, read-only

func (repo *studentRepository) UpcomingSessions(context.Context) ([]dashboard.UpcomingSession, error) {
	return append([]dashboard.UpcomingSession(nil), repo.db.upcoming...), nil
}

func (repo *studentRepository) Assignments(context.Context) ([]dashboard.Assignment, error) {
	return append([]dashboard.Assignment(nil), repo.db.assignments...), nil
}

func (repo *studentRepository) Invoices(context.Context) ([]dashboard.Invoice, error) {
	return append([]dashboard.Invoice(nil), repo.db.invoices...), nil
}

func (repo *studentRepository) PastSessions(context.Context) ([]dashboard.PastSession, error) {
	return append([]dashboard.PastSession(nil), repo.db.pastSessions...), nil
}
