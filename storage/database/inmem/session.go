package inmemdb

import (
	"context"

	"github.com/trezcool/eduhelp/core/session"
)

type sessionStore struct {
	db *table[session.Session]
}

func NewSessionStore(db *DB) session.Store {
	return &sessionStore{db: db.session}
}

func (s *sessionStore) Create(_ context.Context, sess session.Session) (session.Session, error) {
	s.db.insert(sess.ID, copySession(sess))
	return sess, nil
}

func (s *sessionStore) Get(_ context.Context, id string) (session.Session, error) {
	if sess, ok := s.db.get(id); ok {
		return copySession(sess), nil
	}
	return session.Session{}, session.ErrNotFound
}

// Update holds the table lock while fn runs, so concurrent requests of a visitor are applied one after the other.
func (s *sessionStore) Update(_ context.Context, id string, fn func(sess *session.Session) error) (session.Session, error) {
	sess, ok, err := s.db.modify(id, func(row *session.Session) error {
		sess := copySession(*row)
		if err := fn(&sess); err != nil {
			return err
		}
		*row = copySession(sess)
		return nil
	})
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	return copySession(sess), err
}

func (s *sessionStore) Delete(_ context.Context, id string) error {
	s.db.delete(id)
	return nil
}

// copySession detaches the identity and the handoff so callers cannot mutate a stored session.
func copySession(sess session.Session) session.Session {
	if sess.Identity != nil {
		ident := *sess.Identity
		sess.Identity = &ident
	}
	if sess.Handoff != nil {
		h := *sess.Handoff
		sess.Handoff = &h
	}
	return sess
}
