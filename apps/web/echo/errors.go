package echoweb

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/eduhelp/core"
	"github.com/trezcool/eduhelp/core/dashboard"
	"github.com/trezcool/eduhelp/core/guard"
	"github.com/trezcool/eduhelp/core/payment"
)

var (
	errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "sign in required")
	errForbidden    = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errNotFound     = echo.NewHTTPError(http.StatusNotFound, "not found")
	errRateLimited  = echo.NewHTTPError(http.StatusTooManyRequests, "too many submissions, please try again in a minute")
)

type errorPage struct {
	Code    int
	Status  string
	Message string
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// API requests get JSON, pages get the error page.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			message, _ = core.FieldErrors(origErr, translator)
		case *core.ValidationError:
			code = http.StatusBadRequest
			if origErr.Fields != nil {
				message = origErr.FieldMap()
			} else {
				message = origErr.Error()
			}
		default:
			if errors.Is(err, dashboard.ErrNotFound) || errors.Is(err, payment.ErrNotFound) {
				code = http.StatusNotFound
				message = errors.Cause(err).Error()
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg
			logger.Error(msg, errors.Wrap(err, msg), contextIdentity(ctx))

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}

		if ctx.Response().Committed {
			return
		}
		if isAPI(ctx) {
			err = sendJSONError(ctx, code, message)
		} else {
			err = sendPageError(ctx, code, message)
		}
		if err != nil {
			ctx.Echo().Logger.Error(err)
		}
	}
}

func sendJSONError(ctx echo.Context, code int, message interface{}) error {
	if ctx.Request().Method == http.MethodHead { // Issue #608
		return ctx.NoContent(code)
	}
	if m, ok := message.(string); ok {
		message = echo.Map{"error": m}
	}
	return ctx.JSON(code, message)
}

func sendPageError(ctx echo.Context, code int, message interface{}) error {
	// GET on an action-only path falls back to home, like unknown paths do
	if ctx.Request().Method == http.MethodGet && code == http.StatusMethodNotAllowed {
		return ctx.Redirect(http.StatusSeeOther, guard.HomePath)
	}
	if ctx.Request().Method == http.MethodHead {
		return ctx.NoContent(code)
	}

	page := errorPage{Code: code, Status: http.StatusText(code)}
	switch m := message.(type) {
	case string:
		page.Message = m
	case map[string]string:
		for _, v := range m {
			page.Message = v
			break
		}
	}
	if rErr := ctx.Render(code, "error", newView(ctx, page.Status, page)); rErr != nil {
		return ctx.String(code, page.Status)
	}
	return nil
}
