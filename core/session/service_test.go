package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/eduhelp/core"
	"github.com/trezcool/eduhelp/core/intake"
)

type storeMock struct {
	mu    sync.Mutex
	table map[string]Session
}

func (s *storeMock) Create(_ context.Context, sess Session) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table[sess.ID] = sess
	return sess, nil
}

func (s *storeMock) Get(_ context.Context, id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.table[id]; ok {
		return sess, nil
	}
	return Session{}, ErrNotFound
}

func (s *storeMock) Update(_ context.Context, id string, fn func(sess *Session) error) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.table[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	stored := sess
	if err := fn(&sess); err != nil {
		return stored, err
	}
	s.table[id] = sess
	return sess, nil
}

func (s *storeMock) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.table, id)
	return nil
}

func setup(t *testing.T) (*Service, Session) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)

	svc := NewService(&storeMock{table: make(map[string]Session)}, validate, core.NewTestConfig())
	sess, err := svc.Start(context.Background())
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	return svc, sess
}

func TestService_Login(t *testing.T) {
	tests := []struct {
		name      string
		req       LoginRequest
		wantErr   bool
		wantAdmin bool
	}{
		{name: "no email", req: LoginRequest{Password: "x"}, wantErr: true},
		{name: "bad email", req: LoginRequest{Email: "lol", Password: "x"}, wantErr: true},
		{name: "no password", req: LoginRequest{Email: "jane@doe.com"}, wantErr: true},
		{name: "student", req: LoginRequest{Email: "jane@doe.com", Password: "x"}},
		{name: "admin", req: LoginRequest{Email: "admin@eduhelp.com", Password: "anything"}, wantAdmin: true},
		{name: "admin with spaces", req: LoginRequest{Email: "  admin@eduhelp.com ", Password: "x"}, wantAdmin: true},
		{name: "admin address is case-sensitive", req: LoginRequest{Email: "Admin@eduhelp.com", Password: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, sess := setup(t)
			ctx := context.Background()

			ident, err := svc.Login(ctx, sess.ID, tt.req)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Login() error = nil, wantErr")
				}
				assert.Nil(t, svc.Current(ctx, sess.ID), "identity must stay unset")
				return
			}
			if err != nil {
				t.Fatalf("Login() unexpected error = %v", err)
			}
			assert.Equal(t, tt.wantAdmin, ident.IsAdmin)
			if cur := svc.Current(ctx, sess.ID); assert.NotNil(t, cur) {
				assert.Equal(t, ident, *cur)
			}
		})
	}
}

func TestService_Signup(t *testing.T) {
	valid := SignupRequest{
		Name:            "Jane Doe",
		Email:           "jane@doe.com",
		Password:        "secret",
		PasswordConfirm: "secret",
		AcceptTerms:     true,
	}

	tests := []struct {
		name      string
		mutate    func(r *SignupRequest)
		wantField string
	}{
		{name: "valid", mutate: func(r *SignupRequest) {}},
		{name: "admin address is not admin", mutate: func(r *SignupRequest) { r.Email = "admin@eduhelp.com" }},
		{name: "blank name", mutate: func(r *SignupRequest) { r.Name = " " }, wantField: "name"},
		{name: "bad email", mutate: func(r *SignupRequest) { r.Email = "jane" }, wantField: "email"},
		{name: "no password", mutate: func(r *SignupRequest) { r.Password = "" }, wantField: "password"},
		{name: "password like the name is fine", mutate: func(r *SignupRequest) { r.Password, r.PasswordConfirm = "janedoe", "janedoe" }},
		{name: "passwords mismatch", mutate: func(r *SignupRequest) { r.PasswordConfirm = "other" }, wantField: "password_confirm"},
		{name: "terms not accepted", mutate: func(r *SignupRequest) { r.AcceptTerms = false }, wantField: "accept_terms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, sess := setup(t)
			ctx := context.Background()
			req := valid
			tt.mutate(&req)

			ident, err := svc.Signup(ctx, sess.ID, req)
			if tt.wantField != "" {
				fields, ok := core.FieldErrors(err, core.NewTranslator())
				if !ok {
					t.Fatalf("Signup() error = %v, want validation error", err)
				}
				assert.Contains(t, fields, tt.wantField)
				assert.Nil(t, svc.Current(ctx, sess.ID))
				return
			}
			if err != nil {
				t.Fatalf("Signup() unexpected error = %v", err)
			}
			assert.False(t, ident.IsAdmin)
			assert.Equal(t, "Jane Doe", ident.Name)
		})
	}
}

func TestService_SignupPasswordMismatchMessage(t *testing.T) {
	svc, sess := setup(t)
	translator := core.NewTranslator()
	InitValidators(svc.validate, translator)

	_, err := svc.Signup(context.Background(), sess.ID, SignupRequest{
		Name: "Jane", Email: "jane@doe.com", Password: "a", PasswordConfirm: "b", AcceptTerms: true,
	})
	fields, ok := core.FieldErrors(err, translator)
	if assert.True(t, ok) {
		assert.Equal(t, "passwords do not match", fields["password_confirm"])
	}
}

func TestService_Logout(t *testing.T) {
	svc, sess := setup(t)
	ctx := context.Background()

	if _, err := svc.Login(ctx, sess.ID, LoginRequest{Email: "jane@doe.com", Password: "x"}); err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	_, err := svc.Update(ctx, sess.ID, func(s *Session) error {
		s.Intake.Draft.FirstName = "Jane"
		s.Handoff = &intake.Handoff{Price: 30}
		return nil
	})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	if err := svc.Logout(ctx, sess.ID); err != nil {
		t.Fatalf("Logout() unexpected error = %v", err)
	}
	got, err := svc.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	assert.Nil(t, got.Identity)
	assert.Nil(t, got.Handoff)
	assert.Equal(t, intake.Flow{}, got.Intake)

	// logging out twice, or from an unknown session, is fine
	assert.NoError(t, svc.Logout(ctx, sess.ID))
	assert.NoError(t, svc.Logout(ctx, "unknown"))
}

func TestService_GetExpired(t *testing.T) {
	svc, sess := setup(t)
	ctx := context.Background()

	nowFunc = func() time.Time { return time.Now().Add(svc.ttl + time.Minute) }
	defer func() { nowFunc = time.Now }()

	if _, err := svc.Get(ctx, sess.ID); err != ErrExpired {
		t.Errorf("Get() error = %v, want %v", err, ErrExpired)
	}
	if _, err := svc.store.Get(ctx, sess.ID); err != ErrNotFound {
		t.Errorf("expired session should be deleted, store.Get() error = %v", err)
	}
}

func TestIdentity_String(t *testing.T) {
	var anon *Identity
	assert.Equal(t, "anonymous", anon.String())
	assert.Equal(t, "a@b.c", (&Identity{Email: "a@b.c"}).String())
	assert.Equal(t, "a@b.c (admin)", (&Identity{Email: "a@b.c", IsAdmin: true}).String())
}
