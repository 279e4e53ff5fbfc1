package intake

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/eduhelp/core"
)

func newValidate() *validator.Validate {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate
}

func validRequest() ServiceRequest {
	return ServiceRequest{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@doe.com",
		Subject:     "Physics",
		ServiceType: ServiceAssignment,
	}
}

func TestPriceOf(t *testing.T) {
	tests := []struct {
		st     ServiceType
		want   int
		wantOk bool
	}{
		{st: ServiceTutoring, want: 30, wantOk: true},
		{st: ServiceAssignment, want: 50, wantOk: true},
		{st: ServiceInstant, want: 75, wantOk: true},
		{st: "lol"},
		{st: ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.st), func(t *testing.T) {
			got, ok := PriceOf(tt.st)
			if got != tt.want || ok != tt.wantOk {
				t.Errorf("PriceOf() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestFlow_SubmitDetails(t *testing.T) {
	validate := newValidate()

	tests := []struct {
		name      string
		mutate    func(r *ServiceRequest)
		wantErr   bool
		wantField string
		wantPrice int
	}{
		{name: "valid", mutate: func(r *ServiceRequest) {}, wantPrice: 50},
		{name: "valid tutoring with date", mutate: func(r *ServiceRequest) {
			r.ServiceType = ServiceTutoring
			r.SessionDate = "2025-03-01"
		}, wantPrice: 30},
		{name: "service type is case-insensitive", mutate: func(r *ServiceRequest) { r.ServiceType = " Instant " }, wantPrice: 75},
		{name: "blank first name", mutate: func(r *ServiceRequest) { r.FirstName = "   " }, wantErr: true, wantField: "first_name"},
		{name: "blank last name", mutate: func(r *ServiceRequest) { r.LastName = "" }, wantErr: true, wantField: "last_name"},
		{name: "bad email", mutate: func(r *ServiceRequest) { r.Email = "jane" }, wantErr: true, wantField: "email"},
		{name: "unknown subject", mutate: func(r *ServiceRequest) { r.Subject = "Alchemy" }, wantErr: true, wantField: "subject"},
		{name: "unknown service type", mutate: func(r *ServiceRequest) { r.ServiceType = "premium" }, wantErr: true, wantField: "service_type"},
		{name: "bad date", mutate: func(r *ServiceRequest) { r.SessionDate = "01/03/2025" }, wantErr: true, wantField: "session_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			var flow Flow
			err := flow.SubmitDetails(validate, req)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("SubmitDetails() error = nil, wantErr")
				}
				fields, ok := core.FieldErrors(err, core.NewTranslator())
				assert.True(t, ok)
				assert.Contains(t, fields, tt.wantField)
				assert.Equal(t, StateFilling, flow.State)
				assert.Equal(t, 0, flow.Price)
				assert.Equal(t, core.CleanString(req.FirstName), flow.Draft.FirstName, "entered values are kept")
				return
			}
			if err != nil {
				t.Fatalf("SubmitDetails() unexpected error = %v", err)
			}
			assert.Equal(t, StatePriced, flow.State)
			assert.Equal(t, tt.wantPrice, flow.Price)
		})
	}
}

func TestFlow_EditKeepsValues(t *testing.T) {
	validate := newValidate()

	var flow Flow
	req := validRequest()
	req.Description = "Need help with kinematics"
	if err := flow.SubmitDetails(validate, req); err != nil {
		t.Fatalf("SubmitDetails() unexpected error = %v", err)
	}

	flow.Edit()
	assert.Equal(t, StateFilling, flow.State)
	assert.Equal(t, req, flow.Draft)

	if _, err := flow.Proceed(time.Now()); err != ErrNotPriced {
		t.Errorf("Proceed() after Edit error = %v, want %v", err, ErrNotPriced)
	}
}

func TestFlow_Proceed(t *testing.T) {
	validate := newValidate()

	var fresh Flow
	if _, err := fresh.Proceed(time.Now()); err != ErrNotPriced {
		t.Errorf("Proceed() on fresh flow error = %v, want %v", err, ErrNotPriced)
	}

	// price depends on the service type only
	for _, opt := range ServiceOptions {
		t.Run(string(opt.Type), func(t *testing.T) {
			var flow Flow
			req := validRequest()
			req.ServiceType = opt.Type
			req.Subject = "Other"
			req.Description = "anything"
			if err := flow.SubmitDetails(validate, req); err != nil {
				t.Fatalf("SubmitDetails() unexpected error = %v", err)
			}
			now := time.Now()
			h, err := flow.Proceed(now)
			if err != nil {
				t.Fatalf("Proceed() unexpected error = %v", err)
			}
			assert.Equal(t, opt.Price, h.Price)
			assert.Equal(t, req, h.Request)
			assert.Equal(t, now.UTC(), h.IssuedAt)
		})
	}
}

func TestServiceType_Label(t *testing.T) {
	assert.Equal(t, "One-on-One Tutoring", ServiceTutoring.Label())
	assert.Equal(t, "Instant Help (24hrs)", ServiceInstant.Label())
	assert.Equal(t, "lol", ServiceType("lol").Label())
}
