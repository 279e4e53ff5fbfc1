package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/eduhelp/core/dashboard"
	"github.com/trezcool/eduhelp/core/guard"
	"github.com/trezcool/eduhelp/core/intake"
)

type homePage struct {
	Services     []intake.ServiceOption
	Testimonials []dashboard.Testimonial
}

// registerPages wires the HTML routes. Action endpoints share the guard of the page they belong to.
func (s *server) registerPages() {
	limit := s.limiter.middleware

	s.app.GET(guard.HomePath, s.home, s.pageGuard(guard.Home))
	s.app.GET(guard.AboutPath, s.markdownPage("About Us", aboutContent), s.pageGuard(guard.About))
	s.app.GET(guard.PortfolioPath, s.markdownPage("Portfolio", portfolioContent), s.pageGuard(guard.Portfolio))

	services := s.app.Group(guard.ServicesPath)
	servicesGuard := s.pageGuard(guard.Services)
	services.GET("", s.servicesPage, servicesGuard)
	services.POST("", s.submitDetails, servicesGuard, limit)
	services.POST("/edit", s.editDetails, servicesGuard)
	services.POST("/proceed", s.proceedToPayment, servicesGuard)

	pay := s.app.Group(guard.PaymentPath)
	payGuard := s.pageGuard(guard.Payment)
	pay.GET("", s.paymentPage, payGuard)
	pay.POST("", s.submitPayment, payGuard, limit)
	pay.GET("/:id", s.paymentStatus, payGuard)

	loginGuard := s.pageGuard(guard.Login)
	s.app.GET(guard.LoginPath, s.loginPage, loginGuard)
	s.app.POST(guard.LoginPath, s.login, loginGuard, limit)

	signupGuard := s.pageGuard(guard.Signup)
	s.app.GET(guard.SignupPath, s.signupPage, signupGuard)
	s.app.POST(guard.SignupPath, s.signup, signupGuard, limit)

	s.app.POST("/logout", s.logout)

	s.app.GET(guard.DashboardPath, s.studentDashboard, s.pageGuard(guard.Dashboard))

	s.registerAdminPages(s.app.Group(guard.AdminPath), s.pageGuard(guard.Admin))

	s.app.RouteNotFound("/*", s.unmatched)
}

func (s *server) home(ctx echo.Context) error {
	testimonials, err := dashboard.PublishedTestimonials(ctx.Request().Context(), s.Testimonials)
	if err != nil {
		return errors.Wrap(err, "listing testimonials")
	}
	data := homePage{Services: intake.ServiceOptions, Testimonials: testimonials}
	return ctx.Render(http.StatusOK, "home", newView(ctx, "Home", data))
}

func (s *server) markdownPage(title, name string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		content, ok := s.content[name]
		if !ok {
			return errors.Errorf("content %q not loaded", name)
		}
		return ctx.Render(http.StatusOK, "markdown", newView(ctx, title, content))
	}
}

func (s *server) unmatched(ctx echo.Context) error {
	out := guard.Decide(guard.Unmatched, contextIdentity(ctx))
	s.Metrics.GuardRedirected(guard.Unmatched, out.Redirect)
	return ctx.Redirect(http.StatusSeeOther, out.Redirect)
}
