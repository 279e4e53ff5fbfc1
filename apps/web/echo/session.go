package echoweb

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/eduhelp/core/session"
)

const contextSessionKey = "visitorSession"

var errSessionNotFoundInCtx = errors.New("visitor session not found in echo.Context")

// sessionClaims are carried by the session cookie. The subject is the session ID.
type sessionClaims struct {
	jwt.StandardClaims
}

func (s *server) newSessionToken(sid string) (string, time.Time, error) {
	now := time.Now()
	var expiresAt time.Time
	claims := sessionClaims{
		StandardClaims: jwt.StandardClaims{
			Issuer:   s.Conf.AppName,
			Subject:  sid,
			IssuedAt: now.Unix(),
		},
	}
	if ttl := s.Conf.Session.TTL; ttl > 0 {
		expiresAt = now.Add(ttl)
		claims.ExpiresAt = expiresAt.Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.Conf.SecretKey))
	return token, expiresAt, err
}

func (s *server) parseSessionToken(token string) (*sessionClaims, error) {
	claims := new(sessionClaims)
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.Conf.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("session id missing")
	}
	return claims, nil
}

func (s *server) setSessionCookie(ctx echo.Context, sid string) error {
	token, expiresAt, err := s.newSessionToken(sid)
	if err != nil {
		return errors.Wrap(err, "signing session token")
	}
	ctx.SetCookie(&http.Cookie{
		Name:     s.Conf.Session.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   !s.Conf.Debug && !s.Conf.TestMode,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// sessionMiddleware loads the visitor session named by the cookie, starting a new one when there is
// none or when it no longer resolves. The cookie is re-issued once half of its lifetime has passed.
func (s *server) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if isOperational(ctx) {
			return next(ctx)
		}
		reqCtx := ctx.Request().Context()

		if cookie, err := ctx.Cookie(s.Conf.Session.CookieName); err == nil {
			if claims, err := s.parseSessionToken(cookie.Value); err == nil {
				sess, err := s.SessionSvc.Get(reqCtx, claims.Subject)
				switch {
				case err == nil:
					if ttl := s.Conf.Session.TTL; ttl > 0 && time.Until(time.Unix(claims.ExpiresAt, 0)) < ttl/2 {
						if err := s.setSessionCookie(ctx, sess.ID); err != nil {
							return err
						}
					}
					ctx.Set(contextSessionKey, sess)
					return next(ctx)
				case err != session.ErrNotFound && err != session.ErrExpired:
					return errors.Wrap(err, "loading session")
				}
			}
		}

		sess, err := s.SessionSvc.Start(reqCtx)
		if err != nil {
			return errors.Wrap(err, "starting session")
		}
		if err := s.setSessionCookie(ctx, sess.ID); err != nil {
			return err
		}
		ctx.Set(contextSessionKey, sess)
		return next(ctx)
	}
}

func getContextSession(ctx echo.Context) (session.Session, error) {
	sess, ok := ctx.Get(contextSessionKey).(session.Session)
	if !ok {
		return session.Session{}, errSessionNotFoundInCtx
	}
	return sess, nil
}

// contextIdentity returns the identity of the visitor, nil when anonymous.
func contextIdentity(ctx echo.Context) *session.Identity {
	sess, err := getContextSession(ctx)
	if err != nil {
		return nil
	}
	return sess.Identity
}

// updateContextSession applies fn to the visitor session and keeps the saved result in ctx.
func (s *server) updateContextSession(ctx echo.Context, fn func(sess *session.Session) error) (session.Session, error) {
	sess, err := getContextSession(ctx)
	if err != nil {
		return session.Session{}, err
	}
	updated, err := s.SessionSvc.Update(ctx.Request().Context(), sess.ID, fn)
	if err != nil {
		return updated, err
	}
	ctx.Set(contextSessionKey, updated)
	return updated, nil
}

// reloadContextSession refreshes the session kept in ctx after the session service changed it.
func (s *server) reloadContextSession(ctx echo.Context) (session.Session, error) {
	sess, err := getContextSession(ctx)
	if err != nil {
		return session.Session{}, err
	}
	if sess, err = s.SessionSvc.Get(ctx.Request().Context(), sess.ID); err != nil {
		return session.Session{}, errors.Wrap(err, "reloading session")
	}
	ctx.Set(contextSessionKey, sess)
	return sess, nil
}
