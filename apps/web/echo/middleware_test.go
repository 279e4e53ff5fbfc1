package echoweb

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/eduhelp/core"
	"github.com/trezcool/eduhelp/core/guard"
)

func TestPageGuard(t *testing.T) {
	app := setup(t)

	anonymous := app.newClient(t)
	student := app.newClient(t)
	student.login(studentEmail)
	admin := app.newClient(t)
	admin.login(adminEmail)

	tests := []struct {
		name         string
		client       *client
		path         string
		wantLocation string // empty when the page renders
	}{
		{name: "home (anonymous)", client: anonymous, path: "/"},
		{name: "about (anonymous)", client: anonymous, path: "/about"},
		{name: "about trailing slash", client: anonymous, path: "/about/"},
		{name: "services (anonymous)", client: anonymous, path: "/services"},
		{name: "payment (anonymous)", client: anonymous, path: "/payment"},
		{name: "portfolio (admin)", client: admin, path: "/portfolio"},
		{name: "dashboard (anonymous)", client: anonymous, path: "/dashboard", wantLocation: "/login"},
		{name: "dashboard (student)", client: student, path: "/dashboard"},
		{name: "dashboard (admin)", client: admin, path: "/dashboard", wantLocation: "/login"},
		{name: "login (anonymous)", client: anonymous, path: "/login"},
		{name: "login (student)", client: student, path: "/login", wantLocation: "/dashboard"},
		{name: "login (admin)", client: admin, path: "/login", wantLocation: "/admin"},
		{name: "signup (anonymous)", client: anonymous, path: "/signup"},
		{name: "signup (student)", client: student, path: "/signup", wantLocation: "/dashboard"},
		{name: "signup (admin)", client: admin, path: "/signup", wantLocation: "/dashboard"},
		{name: "admin (anonymous)", client: anonymous, path: "/admin", wantLocation: "/login"},
		{name: "admin (student)", client: student, path: "/admin", wantLocation: "/login"},
		{name: "admin (admin)", client: admin, path: "/admin"},
		{name: "unknown (anonymous)", client: anonymous, path: "/nowhere", wantLocation: "/"},
		{name: "unknown nested (admin)", client: admin, path: "/admin/nowhere/at/all", wantLocation: "/"},
		{name: "action path on GET", client: anonymous, path: "/logout", wantLocation: "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.client.get(tt.path)
			if tt.wantLocation == "" {
				assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
				return
			}
			checkRedirect(t, rec, tt.wantLocation)
		})
	}

	// anonymous & student
	assert.Equal(t, 2.0, testutil.ToFloat64(app.Metrics.guardRedirects.WithLabelValues(string(guard.Admin), "/login")))
}

func TestPageGuard_Actions(t *testing.T) {
	app := setup(t)
	student := app.newClient(t)
	student.login(studentEmail)

	rec := student.postForm("/admin/testimonials/TM003/toggle", nil)
	checkRedirect(t, rec, "/login")

	tm, _ := app.repos.Testimonials.Get(context.Background(), "TM003")
	assert.False(t, tm.IsPublished, "guarded action must not run")
}

func TestAPIGuard(t *testing.T) {
	app := setup(t)

	anonymous := app.newClient(t)
	student := app.newClient(t)
	student.login(studentEmail)
	admin := app.newClient(t)
	admin.login(adminEmail)

	tests := []struct {
		name     string
		client   *client
		path     string
		wantCode int
	}{
		{name: "admin overview (anonymous)", client: anonymous, path: "/api/v1/admin/overview", wantCode: http.StatusUnauthorized},
		{name: "admin overview (student)", client: student, path: "/api/v1/admin/overview", wantCode: http.StatusForbidden},
		{name: "admin overview (admin)", client: admin, path: "/api/v1/admin/overview", wantCode: http.StatusOK},
		{name: "student overview (anonymous)", client: anonymous, path: "/api/v1/dashboard/overview", wantCode: http.StatusUnauthorized},
		{name: "student overview (admin)", client: admin, path: "/api/v1/dashboard/overview", wantCode: http.StatusForbidden},
		{name: "student overview (student)", client: student, path: "/api/v1/dashboard/overview", wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.client.sendJSON(http.MethodGet, tt.path)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
		})
	}

	rec := anonymous.sendJSON(http.MethodGet, "/api/v1/admin/overview")
	checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marshallObj(t, httpErr{Error: "sign in required"})}, rec)
}

func TestRateLimiter(t *testing.T) {
	conf := core.NewTestConfig()
	conf.Server.RateLimitPerMinute = 6 // burst of 1
	app := setupWithConf(t, conf)
	c := app.newClient(t)

	form := url.Values{"email": {"not-an-email"}, "password": {"x"}}
	assert.Equal(t, http.StatusBadRequest, c.postForm("/login", form).Code)
	assert.Equal(t, http.StatusTooManyRequests, c.postForm("/login", form).Code)

	// pages are not limited
	assert.Equal(t, http.StatusOK, c.get("/login").Code)
}

func TestNewRateLimiter_Disabled(t *testing.T) {
	assert.Nil(t, newRateLimiter(0))
	assert.Nil(t, newRateLimiter(-1))

	rl := newRateLimiter(60)
	if assert.NotNil(t, rl) {
		assert.Equal(t, 10, rl.burst)
		assert.Same(t, rl.getLimiter("10.0.0.1"), rl.getLimiter("10.0.0.1"))
		assert.NotSame(t, rl.getLimiter("10.0.0.1"), rl.getLimiter("10.0.0.2"))
	}
}
