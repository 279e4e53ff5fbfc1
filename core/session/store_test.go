package session_test

import (
	"context"
	"sync"
	"testing"

	"github.com/trezcool/eduhelp/core"
	"github.com/trezcool/eduhelp/core/session"
	inmemdb "github.com/trezcool/eduhelp/storage/database/inmem"
	testutil "github.com/trezcool/eduhelp/tests"
)

func newInmemService(t *testing.T) (*session.Service, string) {
	validate, _ := testutil.NewValidate()
	svc := session.NewService(inmemdb.NewSessionStore(inmemdb.Open()), validate, core.NewTestConfig())
	sess, err := svc.Start(context.Background())
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	return svc, sess.ID
}

func TestService_ConcurrentLoginAndIntake(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		svc, id := newInmemService(t)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := svc.Login(ctx, id, session.LoginRequest{Email: "jane@doe.com", Password: "x"}); err != nil {
				t.Errorf("Login() unexpected error = %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := svc.Update(ctx, id, func(sess *session.Session) error {
				sess.Intake.Draft.FirstName = "Jane"
				return nil
			}); err != nil {
				t.Errorf("Update() unexpected error = %v", err)
			}
		}()
		wg.Wait()

		sess, err := svc.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get() failed: %v", err)
		}
		if sess.Identity == nil || sess.Intake.Draft.FirstName != "Jane" {
			t.Fatalf("run #%d: identity = %v, draft first name = %q; want both changes kept",
				i, sess.Identity, sess.Intake.Draft.FirstName)
		}
	}
}

func TestService_ConcurrentLogoutAndUpdate(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		svc, id := newInmemService(t)
		if _, err := svc.Login(ctx, id, session.LoginRequest{Email: "jane@doe.com", Password: "x"}); err != nil {
			t.Fatalf("Login() failed: %v", err)
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := svc.Logout(ctx, id); err != nil {
				t.Errorf("Logout() unexpected error = %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			_, _ = svc.Update(ctx, id, func(sess *session.Session) error {
				sess.Intake.Edit()
				return nil
			})
		}()
		wg.Wait()

		if ident := svc.Current(ctx, id); ident != nil {
			t.Fatalf("run #%d: identity after logout = %v, want none", i, ident)
		}
	}
}
