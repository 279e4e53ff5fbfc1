package echoweb

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/eduhelp/core"
	"github.com/trezcool/eduhelp/core/guard"
)

const searchParam = "q"

// idOperation is an admin mutation whose result is not needed.
type idOperation func(ctx context.Context, id string) error

func discardResult[T any](fn func(context.Context, string) (T, error)) idOperation {
	return func(ctx context.Context, id string) error {
		_, err := fn(ctx, id)
		return err
	}
}

func (s *server) studentDashboard(ctx echo.Context) error {
	ov, err := s.StudentSvc.Overview(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "loading student overview")
	}
	return ctx.Render(http.StatusOK, "dashboard", newView(ctx, "Student Dashboard", ov))
}

func (s *server) registerAdminPages(g *echo.Group, adminGuard echo.MiddlewareFunc) {
	g.GET("", s.adminDashboard, adminGuard)

	g.POST("/requests/:id/advance", s.adminAction(discardResult(s.AdminSvc.AdvanceRequest)), adminGuard)
	g.POST("/requests/:id/cancel", s.adminAction(discardResult(s.AdminSvc.CancelRequest)), adminGuard)
	g.POST("/requests/:id/progress", s.adminAction(discardResult(s.AdminSvc.IncrementProgress)), adminGuard)
	g.POST("/users/:id/toggle", s.adminAction(discardResult(s.AdminSvc.ToggleUser)), adminGuard)
	g.POST("/tutors/:id/toggle", s.adminAction(discardResult(s.AdminSvc.ToggleTutor)), adminGuard)
	g.POST("/sessions/:id/cancel", s.adminAction(discardResult(s.AdminSvc.CancelSession)), adminGuard)
	g.POST("/testimonials/:id/toggle", s.adminAction(discardResult(s.AdminSvc.ToggleTestimonial)), adminGuard)
	g.POST("/pricing/:id", s.adminSetPrice, adminGuard)
}

func (s *server) adminDashboard(ctx echo.Context) error {
	return s.renderAdmin(ctx, http.StatusOK, ctx.QueryParam(searchParam), nil)
}

func (s *server) renderAdmin(ctx echo.Context, code int, search string, fields map[string]string) error {
	ov, err := s.AdminSvc.Overview(ctx.Request().Context(), search)
	if err != nil {
		return errors.Wrap(err, "loading admin overview")
	}
	return ctx.Render(code, "admin", newView(ctx, "Admin Dashboard", ov).withErrors(fields))
}

// adminAction runs op on the `:id` path param then goes back to the dashboard, keeping the search term.
func (s *server) adminAction(op idOperation) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if err := op(ctx.Request().Context(), ctx.Param("id")); err != nil {
			if fields, ok := core.FieldErrors(err, s.Translator); ok {
				return s.renderAdmin(ctx, http.StatusBadRequest, ctx.FormValue(searchParam), fields)
			}
			return err
		}
		return ctx.Redirect(http.StatusSeeOther, adminReturnPath(ctx.FormValue(searchParam)))
	}
}

func (s *server) adminSetPrice(ctx echo.Context) error {
	return s.adminAction(func(c context.Context, id string) error {
		price, err := parsePrice(ctx.FormValue("price"))
		if err != nil {
			return err
		}
		_, err = s.AdminSvc.SetPrice(c, id, price)
		return err
	})(ctx)
}

func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(core.CleanString(raw), 64)
	if err != nil {
		return 0, core.NewValidationError(nil, core.FieldError{Field: "price", Error: "enter a valid price"})
	}
	return price, nil
}

func adminReturnPath(search string) string {
	if search = core.CleanString(search); search == "" {
		return guard.AdminPath
	}
	return guard.AdminPath + "?" + url.Values{searchParam: {search}}.Encode()
}
