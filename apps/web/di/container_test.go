package container

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	echoweb "github.com/trezcool/eduhelp/apps/web/echo"
	"github.com/trezcool/eduhelp/core"
	"github.com/trezcool/eduhelp/core/payment"
)

func TestNew(t *testing.T) {
	c, err := New(core.NewTestConfig())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	err = c.Invoke(func(server echoweb.Server, processor *payment.Processor) {
		t.Cleanup(processor.Close)

		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Excel in Your Studies")
	})
	if err != nil {
		t.Fatalf("Invoke() failed: %v", err)
	}
}

func TestNew_SingleInstances(t *testing.T) {
	c, err := New(core.NewTestConfig())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	var first, second *payment.Processor
	assert.NoError(t, c.Invoke(func(p *payment.Processor) { first = p }))
	assert.NoError(t, c.Invoke(func(p *payment.Processor) { second = p }))
	assert.Same(t, first, second)
	first.Close()
}
