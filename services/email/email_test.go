package emailsvc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sendgrid/rest"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/eduhelp/core"
)

type loggerMock struct {
	mu     sync.Mutex
	errors []string
}

func (l *loggerMock) Debug(string, ...interface{}) {}
func (l *loggerMock) Info(string, ...interface{})  {}
func (l *loggerMock) Warn(string, ...interface{})  {}
func (l *loggerMock) Fatal(string, ...interface{}) {}
func (l *loggerMock) Error(msg string, _ ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func confirmation() *core.EmailMessage {
	return &core.EmailMessage{
		To:      []mail.Address{{Name: "Jane Doe", Address: "jane@doe.com"}},
		Subject: "Hello",
		BodyStr: "plain body",
	}
}

func TestConsoleServiceMock_SendMessages(t *testing.T) {
	ResetSentMessages()
	svc := NewConsoleServiceMock(new(loggerMock), core.NewTestConfig())

	withAttachment := confirmation()
	if err := withAttachment.Attach(strings.NewReader("receipt"), "receipt.txt", "text/plain"); err != nil {
		t.Fatalf("Attach() failed: %v", err)
	}
	noRecipient := confirmation()
	noRecipient.To = nil

	svc.SendMessages(confirmation(), withAttachment, noRecipient)

	sent := SentMessages()
	if assert.Len(t, sent, 2) {
		assert.Equal(t, "plain body", sent[0].TextContent)
		assert.True(t, sent[1].HasAttachments())
	}
}

func TestConsoleService_Compose(t *testing.T) {
	svc := NewConsoleServiceMock(new(loggerMock), core.NewTestConfig()).(*consoleServiceMock)

	msg := confirmation()
	msg.TextContent = "text"
	msg.HTMLContent = "<p>html</p>"
	raw, err := svc.compose(*msg)
	if err != nil {
		t.Fatalf("compose() unexpected error = %v", err)
	}
	assert.Contains(t, raw, "Subject: [EduHelp] Hello\r\n")
	assert.Contains(t, raw, "Content-Type: multipart/alternative; boundary=")
	assert.Contains(t, raw, "<p>html</p>")
	assert.NotContains(t, raw, "Cc:")

	_ = msg.Attach(strings.NewReader("x"), "x.txt", "text/plain")
	raw, _ = svc.compose(*msg)
	assert.Contains(t, raw, "Content-Type: multipart/mixed; boundary=")
	assert.Contains(t, raw, "filename=x.txt")
}

func TestSendgridService_SendMessages(t *testing.T) {
	var (
		mu   sync.Mutex
		reqs []rest.Request
	)
	logger := new(loggerMock)
	conf := core.NewTestConfig()
	conf.SendgridApiKey = "sg-key"

	svc := NewSendgridService(logger, conf).(*sendgridService)
	svc.api = func(req rest.Request) (*rest.Response, error) {
		mu.Lock()
		defer mu.Unlock()
		reqs = append(reqs, req)
		return &rest.Response{StatusCode: http.StatusAccepted}, nil
	}

	svc.SendMessages(confirmation())

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(reqs) == 1
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	req := reqs[0]
	mu.Unlock()
	assert.Equal(t, rest.Method(http.MethodPost), req.Method)
	assert.Equal(t, "Bearer sg-key", req.Headers["Authorization"])

	var payload struct {
		Personalizations []struct {
			Subject string `json:"subject"`
			To      []struct {
				Email string `json:"email"`
			} `json:"to"`
		} `json:"personalizations"`
		Content []struct {
			Type string `json:"type"`
		} `json:"content"`
	}
	if err := json.NewDecoder(bytes.NewReader(req.Body)).Decode(&payload); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if assert.Len(t, payload.Personalizations, 1) {
		assert.Equal(t, "[EduHelp] Hello", payload.Personalizations[0].Subject)
		assert.Equal(t, "jane@doe.com", payload.Personalizations[0].To[0].Email)
	}
	assert.Len(t, payload.Content, 1, "no empty html part")
}

func TestSendgridService_LogsFailures(t *testing.T) {
	logger := new(loggerMock)
	svc := NewSendgridService(logger, core.NewTestConfig()).(*sendgridService)
	done := make(chan struct{})
	svc.api = func(req rest.Request) (*rest.Response, error) {
		defer close(done)
		return &rest.Response{StatusCode: http.StatusUnauthorized, Body: "nope"}, nil
	}

	svc.SendMessages(confirmation())
	<-done

	assert.Eventually(t, func() bool {
		logger.mu.Lock()
		defer logger.mu.Unlock()
		return len(logger.errors) == 1
	}, time.Second, 5*time.Millisecond)
}
