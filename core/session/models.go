package session

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/eduhelp/core/intake"
)

var (
	// errors
	ErrNotFound = errors.New("session not found")
	ErrExpired  = errors.New("session expired")
)

type (
	// Identity is the signed-in visitor. It is never checked against stored credentials.
	Identity struct {
		Name    string `json:"name,omitempty"`
		Email   string `json:"email"`
		IsAdmin bool   `json:"is_admin"`
	}

	// Session is the per-visitor state kept in process memory.
	Session struct {
		ID        string          `json:"id"`
		Identity  *Identity       `json:"identity"`
		Intake    intake.Flow     `json:"intake"`
		Handoff   *intake.Handoff `json:"handoff,omitempty"`
		CreatedAt time.Time       `json:"created_at"`
		UpdatedAt time.Time       `json:"updated_at"`
	}

	LoginRequest struct {
		Email    string `json:"email" form:"email" validate:"required,email"`
		Password string `json:"password" form:"password" validate:"required"`
	}

	SignupRequest struct {
		Name            string `json:"name" form:"name" validate:"notblank"`
		Email           string `json:"email" form:"email" validate:"required,email"`
		Password        string `json:"password" form:"password" validate:"required"`
		PasswordConfirm string `json:"password_confirm" form:"password_confirm" validate:"required"`
		AcceptTerms     bool   `json:"accept_terms" form:"accept_terms" validate:"accepted"`
	}

	// Store keeps the sessions. Update loads the session, runs fn and saves the result as one atomic step;
	// nothing is saved when fn returns an error, which is returned with the stored session.
	Store interface {
		Create(ctx context.Context, sess Session) (Session, error)
		Get(ctx context.Context, id string) (Session, error)
		Update(ctx context.Context, id string, fn func(sess *Session) error) (Session, error)
		Delete(ctx context.Context, id string) error
	}
)

func (id *Identity) String() string {
	if id == nil {
		return "anonymous"
	}
	if id.IsAdmin {
		return id.Email + " (admin)"
	}
	return id.Email
}

// IsAuthenticated reports whether a visitor is signed in.
func (s Session) IsAuthenticated() bool { return s.Identity != nil }
