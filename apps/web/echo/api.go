package echoweb

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/eduhelp/core"
	"github.com/trezcool/eduhelp/core/guard"
	"github.com/trezcool/eduhelp/core/intake"
	"github.com/trezcool/eduhelp/core/payment"
	"github.com/trezcool/eduhelp/core/session"
)

type (
	SessionResponse struct {
		Identity *session.Identity `json:"identity"`
		Intake   intake.Flow       `json:"intake"`
		Handoff  *intake.Handoff   `json:"handoff"`
	}

	PaymentResponse struct {
		payment.Outcome
		RedirectAfterMs int64 `json:"redirect_after_ms,omitempty"`
	}

	GuardResponse struct {
		Path  string      `json:"path"`
		Route guard.Route `json:"route"`
		guard.Outcome
	}

	PriceUpdate struct {
		Price *float64 `json:"price"`
	}
)

func (s *server) registerAPI(g *echo.Group) {
	g.GET("/session", s.apiSession)
	g.GET("/guard", s.apiGuardOutcome)
	g.GET("/quote", s.apiQuote)
	g.GET("/payments/:id", s.apiPayment)

	dg := g.Group("/dashboard")
	dg.GET("/overview", s.apiStudentOverview, apiGuard(guard.Dashboard))

	ag := g.Group("/admin")
	admin := apiGuard(guard.Admin)
	ag.GET("/overview", s.apiAdminOverview, admin)
	ag.POST("/requests/:id/advance", apiAction(s.AdminSvc.AdvanceRequest), admin)
	ag.POST("/requests/:id/cancel", apiAction(s.AdminSvc.CancelRequest), admin)
	ag.POST("/requests/:id/progress", apiAction(s.AdminSvc.IncrementProgress), admin)
	ag.POST("/users/:id/toggle", apiAction(s.AdminSvc.ToggleUser), admin)
	ag.POST("/tutors/:id/toggle", apiAction(s.AdminSvc.ToggleTutor), admin)
	ag.POST("/sessions/:id/cancel", apiAction(s.AdminSvc.CancelSession), admin)
	ag.POST("/testimonials/:id/toggle", apiAction(s.AdminSvc.ToggleTestimonial), admin)
	ag.PUT("/pricing/:id", s.apiSetPrice, admin)

	g.RouteNotFound("/*", func(echo.Context) error { return errNotFound })
}

// apiAction answers with the entity returned by fn for the `:id` path param.
func apiAction[T any](fn func(context.Context, string) (T, error)) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		v, err := fn(ctx.Request().Context(), ctx.Param("id"))
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, v)
	}
}

func (s *server) apiSession(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SessionResponse{Identity: sess.Identity, Intake: sess.Intake, Handoff: sess.Handoff})
}

func (s *server) apiGuardOutcome(ctx echo.Context) error {
	path := ctx.QueryParam("path")
	if path == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "path", Error: "path is a required field"})
	}
	return ctx.JSON(http.StatusOK, GuardResponse{
		Path:    path,
		Route:   guard.Resolve(path),
		Outcome: guard.Evaluate(path, contextIdentity(ctx)),
	})
}

func (s *server) apiQuote(ctx echo.Context) error {
	st := intake.ServiceType(core.CleanString(ctx.QueryParam("service_type"), true /* lower */))
	q, ok := intake.QuoteFor(st)
	if !ok {
		return core.NewValidationError(nil, core.FieldError{Field: "service_type", Error: "select a valid service type"})
	}
	return ctx.JSON(http.StatusOK, q)
}

func (s *server) apiPayment(ctx echo.Context) error {
	o, err := s.Processor.Get(ctx.Param("id"))
	if err != nil {
		return err
	}
	resp := PaymentResponse{Outcome: o}
	if o.Succeeded() {
		resp.RedirectAfterMs = s.Processor.RedirectDelay().Milliseconds()
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (s *server) apiStudentOverview(ctx echo.Context) error {
	ov, err := s.StudentSvc.Overview(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "loading student overview")
	}
	return ctx.JSON(http.StatusOK, ov)
}

func (s *server) apiAdminOverview(ctx echo.Context) error {
	ov, err := s.AdminSvc.Overview(ctx.Request().Context(), ctx.QueryParam(searchParam))
	if err != nil {
		return errors.Wrap(err, "loading admin overview")
	}
	return ctx.JSON(http.StatusOK, ov)
}

func (s *server) apiSetPrice(ctx echo.Context) error {
	var data PriceUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PriceUpdate")
	}
	if data.Price == nil {
		return core.NewValidationError(nil, core.FieldError{Field: "price", Error: "price is a required field"})
	}
	p, err := s.AdminSvc.SetPrice(ctx.Request().Context(), ctx.Param("id"), *data.Price)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}
