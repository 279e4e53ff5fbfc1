// Package echoweb serves the EduHelp pages and the JSON API.
package echoweb

import (
	"context"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/trezcool/eduhelp/core"
	"github.com/trezcool/eduhelp/core/dashboard"
	"github.com/trezcool/eduhelp/core/payment"
	"github.com/trezcool/eduhelp/core/session"
)

type (
	ServerDeps struct {
		Conf         *core.Config
		Logger       core.Logger
		Validate     *validator.Validate
		Translator   ut.Translator
		SessionSvc   *session.Service
		Processor    *payment.Processor
		AdminSvc     *dashboard.AdminService
		StudentSvc   *dashboard.StudentService
		Testimonials dashboard.TestimonialRepository
		Metrics      *Metrics // optional
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(ctx context.Context) error
		Close() error
	}

	server struct {
		ServerDeps
		app      *echo.Echo
		limiter  *rateLimiter
		content  map[string]template.HTML
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

// NewServer builds the server and registers its routes. Templates and page contents are parsed here.
func NewServer(deps ServerDeps) (Server, error) {
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics()
	}
	s := &server{
		ServerDeps: deps,
		app:        echo.New(),
		limiter:    newRateLimiter(deps.Conf.Server.RateLimitPerMinute),
		errors:     make(chan error, 1),
		shutdown:   make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)

	rdr, err := newRenderer()
	if err != nil {
		return nil, errors.Wrap(err, "parsing page templates")
	}
	if s.content, err = loadContents(aboutContent, portfolioContent); err != nil {
		return nil, errors.Wrap(err, "rendering page contents")
	}
	rdr.appName = deps.Conf.AppName
	s.app.Renderer = rdr

	s.setup()
	return s, nil
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.Debug = s.Conf.Debug
	s.app.Server.ReadTimeout = s.Conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = s.Conf.Server.WriteTimeout
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.Logger, s.Translator, s.signalShutdown)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.Conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV mode
	if !s.Conf.Debug {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		Skipper: func(ctx echo.Context) bool {
			return s.Conf.Server.DisableCSRF || isOperational(ctx)
		},
		TokenLookup:    "header:X-CSRF-Token,form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteLaxMode,
	}))
	s.app.Use(s.sessionMiddleware)

	s.app.GET("/health", s.health)
	s.app.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))

	s.registerPages()
	s.registerAPI(s.app.Group("/api/v1"))
}

func (s *server) Start() {
	if err := s.app.Start(s.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Errors() <-chan error {
	return s.errors
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// Shutdown stops accepting requests, waits for the in-flight ones and drops the pending payments.
func (s *server) Shutdown(ctx context.Context) error {
	defer s.Processor.Close()
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	defer s.Processor.Close()
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already signaled
	}
}

func (s *server) health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{
		"status":           "ok",
		"build":            s.Conf.Build,
		"pending_payments": s.Processor.Pending(),
	})
}

// isOperational reports whether the request targets an endpoint served without a visitor session.
func isOperational(ctx echo.Context) bool {
	p := ctx.Request().URL.Path
	return p == "/health" || p == "/metrics"
}

func isAPI(ctx echo.Context) bool {
	return strings.HasPrefix(ctx.Request().URL.Path, "/api/")
}
