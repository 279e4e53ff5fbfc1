package echoweb

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/eduhelp/core"
	"github.com/trezcool/eduhelp/core/dashboard"
	"github.com/trezcool/eduhelp/core/payment"
	"github.com/trezcool/eduhelp/core/session"
	emailsvc "github.com/trezcool/eduhelp/services/email"
	inmemdb "github.com/trezcool/eduhelp/storage/database/inmem"
	testutil "github.com/trezcool/eduhelp/tests"
)

const (
	adminEmail   = "admin@eduhelp.com"
	studentEmail = "student@test.com"
)

type testApp struct {
	*server
	logger *testutil.LoggerMock
	repos  dashboard.Repositories
}

func setup(t *testing.T) *testApp {
	return setupWithConf(t, core.NewTestConfig())
}

func setupWithConf(t *testing.T, conf *core.Config) *testApp {
	validate, translator := testutil.NewValidate()
	logger := new(testutil.LoggerMock)

	// set up DB & repos
	db := inmemdb.OpenSeeded()
	repos := inmemdb.NewRepositories(db)

	// set up services
	metrics := NewMetrics()
	processor := payment.NewProcessor(payment.ProcessorOptions{
		Validate:    validate,
		MailSvc:     emailsvc.NewConsoleServiceMock(logger, conf),
		Logger:      logger,
		Conf:        conf,
		OnSubmitted: metrics.PaymentSubmitted,
		OnSucceeded: metrics.PaymentSucceeded,
	})
	t.Cleanup(processor.Close)

	// set up server
	srv, err := NewServer(ServerDeps{
		Conf:         conf,
		Logger:       logger,
		Validate:     validate,
		Translator:   translator,
		SessionSvc:   session.NewService(inmemdb.NewSessionStore(db), validate, conf),
		Processor:    processor,
		AdminSvc:     dashboard.NewAdminService(repos),
		StudentSvc:   dashboard.NewStudentService(repos.Student),
		Testimonials: repos.Testimonials,
		Metrics:      metrics,
	})
	if err != nil {
		t.Fatalf("NewServer() failed: %v", err)
	}
	return &testApp{server: srv.(*server), logger: logger, repos: repos}
}

// client replays the cookies it receives, like a browser.
type client struct {
	t       *testing.T
	app     http.Handler
	cookies map[string]*http.Cookie
}

func (app *testApp) newClient(t *testing.T) *client {
	return &client{t: t, app: app, cookies: make(map[string]*http.Cookie)}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.app.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) sendJSON(method, path string, data ...[]byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *client) login(email string) {
	rec := c.postForm("/login", url.Values{"email": {email}, "password": {"secret"}})
	if rec.Code != http.StatusSeeOther {
		c.t.Fatalf("login(%s) failed: code = %v; body %s", email, rec.Code, rec.Body.String())
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func checkRedirect(t *testing.T, rec *httptest.ResponseRecorder, wantLocation string) {
	t.Helper()
	if assert.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String()) {
		assert.Equal(t, wantLocation, rec.Header().Get(echo.HeaderLocation))
	}
}
