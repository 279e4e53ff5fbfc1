package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/eduhelp/core"
	"github.com/trezcool/eduhelp/core/guard"
	"github.com/trezcool/eduhelp/core/session"
)

func (s *server) loginPage(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "login", newView(ctx, "Login", session.LoginRequest{}))
}

func (s *server) login(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	var data session.LoginRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}

	ident, err := s.SessionSvc.Login(ctx.Request().Context(), sess.ID, data)
	if err != nil {
		if fields, ok := core.FieldErrors(err, s.Translator); ok {
			data.Password = "" // never echoed back
			return ctx.Render(http.StatusBadRequest, "login", newView(ctx, "Login", data).withErrors(fields))
		}
		return errors.Wrap(err, "logging in")
	}
	if _, err = s.reloadContextSession(ctx); err != nil {
		return err
	}
	s.Logger.Info("visitor logged in", &ident)
	return ctx.Redirect(http.StatusSeeOther, guard.Evaluate(guard.LoginPath, &ident).Redirect)
}

func (s *server) signupPage(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "signup", newView(ctx, "Sign Up", session.SignupRequest{}))
}

func (s *server) signup(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	var data session.SignupRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SignupRequest")
	}

	ident, err := s.SessionSvc.Signup(ctx.Request().Context(), sess.ID, data)
	if err != nil {
		if fields, ok := core.FieldErrors(err, s.Translator); ok {
			data.Password, data.PasswordConfirm = "", ""
			return ctx.Render(http.StatusBadRequest, "signup", newView(ctx, "Sign Up", data).withErrors(fields))
		}
		return errors.Wrap(err, "signing up")
	}
	if _, err = s.reloadContextSession(ctx); err != nil {
		return err
	}
	s.Logger.Info("visitor signed up", &ident)
	return ctx.Redirect(http.StatusSeeOther, guard.Evaluate(guard.SignupPath, &ident).Redirect)
}

func (s *server) logout(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	if err = s.SessionSvc.Logout(ctx.Request().Context(), sess.ID); err != nil {
		return errors.Wrap(err, "logging out")
	}
	return ctx.Redirect(http.StatusSeeOther, guard.HomePath)
}
