package echoweb

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/eduhelp/core/dashboard"
	"github.com/trezcool/eduhelp/core/guard"
	"github.com/trezcool/eduhelp/core/intake"
)

func TestAPI_Quote(t *testing.T) {
	app := setup(t)
	c := app.newClient(t)

	tests := []httpTest{
		{
			name:     "tutoring",
			path:     "/api/v1/quote?service_type=tutoring",
			wantCode: http.StatusOK,
			wantData: marshallObj(t, intake.Quote{ServiceType: intake.ServiceTutoring, Label: "One-on-One Tutoring", Price: 30}),
		},
		{
			name:     "instant, any case",
			path:     "/api/v1/quote?service_type=INSTANT",
			wantCode: http.StatusOK,
			wantData: marshallObj(t, intake.Quote{ServiceType: intake.ServiceInstant, Label: "Instant Help (24hrs)", Price: 75}),
		},
		{
			name:     "unknown",
			path:     "/api/v1/quote?service_type=coaching",
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"service_type": "select a valid service type"}),
		},
		{
			name:     "missing",
			path:     "/api/v1/quote",
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, c.sendJSON(http.MethodGet, tt.path))
		})
	}
}

func TestAPI_Guard(t *testing.T) {
	app := setup(t)
	anonymous := app.newClient(t)
	admin := app.newClient(t)
	admin.login(adminEmail)

	tests := []struct {
		name     string
		client   *client
		path     string
		wantCode int
		want     GuardResponse
	}{
		{
			name: "dashboard (anonymous)", client: anonymous, path: "/dashboard", wantCode: http.StatusOK,
			want: GuardResponse{Path: "/dashboard", Route: guard.Dashboard, Outcome: guard.Outcome{Redirect: "/login"}},
		},
		{
			name: "admin (admin)", client: admin, path: "/admin", wantCode: http.StatusOK,
			want: GuardResponse{Path: "/admin", Route: guard.Admin, Outcome: guard.Outcome{Render: true}},
		},
		{
			name: "unknown (admin)", client: admin, path: "/lol", wantCode: http.StatusOK,
			want: GuardResponse{Path: "/lol", Route: guard.Unmatched, Outcome: guard.Outcome{Redirect: "/"}},
		},
		{name: "no path", client: anonymous, wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.client.sendJSON(http.MethodGet, "/api/v1/guard?path="+tt.path)
			if tt.wantCode != http.StatusOK {
				assert.Equal(t, tt.wantCode, rec.Code)
				return
			}
			checkCodeAndData(t, httpTest{wantCode: tt.wantCode, wantData: marshallObj(t, tt.want)}, rec)
		})
	}
}

func TestAPI_Session(t *testing.T) {
	app := setup(t)
	c := app.newClient(t)

	sess := sessionOf(t, c)
	assert.Nil(t, sess.Identity)
	assert.Equal(t, intake.StateFilling, sess.Intake.State)

	c.login(studentEmail)
	sess = sessionOf(t, c)
	if assert.NotNil(t, sess.Identity) {
		assert.Equal(t, studentEmail, sess.Identity.Email)
	}
}

func TestAPI_AdminActions(t *testing.T) {
	app := setup(t)
	c := app.newClient(t)
	c.login(adminEmail)

	tests := []httpTest{
		{
			name:     "advance completed request is a no-op",
			method:   http.MethodPost,
			path:     "/api/v1/admin/requests/003/advance",
			wantCode: http.StatusOK,
		},
		{
			name:     "toggle unknown testimonial",
			method:   http.MethodPost,
			path:     "/api/v1/admin/testimonials/TM999/toggle",
			wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: dashboard.ErrNotFound.Error()}),
		},
		{
			name:     "negative price",
			method:   http.MethodPut,
			path:     "/api/v1/admin/pricing/P002",
			body:     []byte(`{"price": -5}`),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"price": dashboard.ErrInvalidPrice.Error()}),
		},
		{
			name:     "no price",
			method:   http.MethodPut,
			path:     "/api/v1/admin/pricing/P002",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"price": "price is a required field"}),
		},
		{
			name:     "set price",
			method:   http.MethodPut,
			path:     "/api/v1/admin/pricing/P002",
			body:     []byte(`{"price": 55}`),
			wantCode: http.StatusOK,
			wantData: marshallObj(t, dashboard.PricingItem{ID: "P002", Service: "Assignment Help", Price: 55, Description: "Professional help with your assignments"}),
		},
		{
			name:     "unknown api path",
			method:   http.MethodGet,
			path:     "/api/v1/nowhere",
			wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, c.sendJSON(tt.method, tt.path, tt.body))
		})
	}

	rec := c.sendJSON(http.MethodGet, "/api/v1/admin/overview?q=sarah")
	var ov dashboard.AdminOverview
	if err := json.Unmarshal(rec.Body.Bytes(), &ov); err != nil {
		t.Fatalf("decoding overview: %v", err)
	}
	assert.Equal(t, "sarah", ov.Search)
	if assert.Len(t, ov.Requests, 1) {
		assert.Equal(t, "002", ov.Requests[0].ID)
	}
	assert.Equal(t, 3, ov.Stats.TotalUsers)
	assert.Equal(t, 125.0, ov.Stats.Revenue)
}
