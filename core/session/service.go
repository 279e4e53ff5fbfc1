package session

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/eduhelp/core"
)

var nowFunc = time.Now

type Service struct {
	store      Store
	validate   *validator.Validate
	adminEmail string
	ttl        time.Duration
}

func NewService(store Store, validate *validator.Validate, conf *core.Config) *Service {
	return &Service{
		store:      store,
		validate:   validate,
		adminEmail: core.CleanString(conf.AdminEmail),
		ttl:        conf.Session.TTL,
	}
}

// Start opens a fresh anonymous session.
func (svc *Service) Start(ctx context.Context) (Session, error) {
	now := nowFunc().UTC()
	return svc.store.Create(ctx, Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// Get returns the session with the given id.
// A session idle for longer than the configured TTL is dropped and ErrExpired is returned.
func (svc *Service) Get(ctx context.Context, id string) (Session, error) {
	sess, err := svc.store.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if svc.expired(sess) {
		return Session{}, svc.drop(ctx, id)
	}
	return sess, nil
}

// Update applies fn to the session and saves the result atomically:
// concurrent updates of a session never overwrite each other.
// Nothing is saved when fn returns an error; the error is returned as is, with the stored session.
func (svc *Service) Update(ctx context.Context, id string, fn func(sess *Session) error) (Session, error) {
	sess, err := svc.store.Update(ctx, id, func(sess *Session) error {
		if svc.expired(*sess) {
			return ErrExpired
		}
		if err := fn(sess); err != nil {
			return err
		}
		sess.UpdatedAt = nowFunc().UTC()
		return nil
	})
	if err == ErrExpired {
		return Session{}, svc.drop(ctx, id)
	}
	return sess, err
}

func (svc *Service) expired(sess Session) bool {
	return svc.ttl > 0 && nowFunc().UTC().Sub(sess.UpdatedAt) > svc.ttl
}

// drop deletes an expired session and returns ErrExpired.
func (svc *Service) drop(ctx context.Context, id string) error {
	if err := svc.store.Delete(ctx, id); err != nil && err != ErrNotFound {
		return err
	}
	return ErrExpired
}

// Current returns the identity of the session, nil for anonymous or unknown sessions.
func (svc *Service) Current(ctx context.Context, id string) *Identity {
	sess, err := svc.Get(ctx, id)
	if err != nil {
		return nil
	}
	return sess.Identity
}

// Login signs the visitor in. Any well-formed email and password is accepted;
// the identity is admin when the email is the configured admin address.
func (svc *Service) Login(ctx context.Context, id string, req LoginRequest) (Identity, error) {
	req.Email = core.CleanString(req.Email)
	if err := svc.validate.Struct(req); err != nil {
		return Identity{}, err
	}

	ident := Identity{Email: req.Email, IsAdmin: req.Email == svc.adminEmail}
	if _, err := svc.Update(ctx, id, func(sess *Session) error {
		sess.Identity = &ident
		return nil
	}); err != nil {
		return Identity{}, errors.Wrap(err, "saving identity")
	}
	return ident, nil
}

// Signup registers and signs the visitor in. New accounts are never admin.
func (svc *Service) Signup(ctx context.Context, id string, req SignupRequest) (Identity, error) {
	req.Name = core.CleanString(req.Name)
	req.Email = core.CleanString(req.Email)
	if err := svc.validate.Struct(req); err != nil {
		return Identity{}, err
	}

	ident := Identity{Name: req.Name, Email: req.Email}
	if _, err := svc.Update(ctx, id, func(sess *Session) error {
		sess.Identity = &ident
		return nil
	}); err != nil {
		return Identity{}, errors.Wrap(err, "saving identity")
	}
	return ident, nil
}

// Logout clears the identity together with any request in progress.
func (svc *Service) Logout(ctx context.Context, id string) error {
	_, err := svc.Update(ctx, id, func(sess *Session) error {
		sess.Identity = nil
		sess.Intake.Reset()
		sess.Handoff = nil
		return nil
	})
	if err == ErrNotFound || err == ErrExpired {
		return nil
	}
	return err
}
