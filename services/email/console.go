package emailsvc

import (
	"fmt"
	"mime/multipart"
	"net/mail"
	"net/textproto"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/eduhelp/core"
)

var (
	sentMessages = make([]core.EmailMessage, 0)
	mu           sync.Mutex
)

// SentMessages returns a copy of the messages delivered by the console services.
func SentMessages() []core.EmailMessage {
	mu.Lock()
	defer mu.Unlock()
	return append([]core.EmailMessage(nil), sentMessages...)
}

func ResetSentMessages() {
	mu.Lock()
	sentMessages = sentMessages[:0]
	mu.Unlock()
}

// consoleService logs messages instead of sending them.
type consoleService struct {
	defaultFromEmail mail.Address
	subjPrefix       string
	frontendBaseURL  string
	logger           core.Logger
	disableOutput    bool
}

var _ core.EmailService = (*consoleService)(nil)

func NewConsoleService(logger core.Logger, conf *core.Config) core.EmailService {
	return &consoleService{
		defaultFromEmail: conf.DefaultFromEmail(),
		subjPrefix:       "[" + conf.AppName + "] ",
		frontendBaseURL:  conf.FrontendBaseURL,
		logger:           logger,
	}
}

func (svc consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		go svc.sendMessage(msg)
	}
}

func (svc consoleService) sendMessage(msg *core.EmailMessage) {
	if err := msg.Render(svc.frontendBaseURL); err != nil {
		svc.logger.Error("rendering email", errors.Wrap(err, msg.TemplateName))
		return
	}
	if !msg.HasRecipients() || !(msg.HasContent() || msg.HasAttachments()) {
		return
	}

	raw, err := svc.compose(*msg)
	if err != nil {
		svc.logger.Error("composing email", err)
		return
	}
	if !svc.disableOutput {
		svc.logger.Info("email sent to console", map[string]interface{}{"to": svc.joinAddresses(msg.To), "message": raw})
	}

	mu.Lock()
	sentMessages = append(sentMessages, *msg)
	mu.Unlock()
}

// compose writes msg as a MIME document: multipart/alternative text & html parts,
// wrapped in multipart/mixed when there are attachments.
func (svc consoleService) compose(msg core.EmailMessage) (string, error) {
	var (
		head = new(strings.Builder)
		body = new(strings.Builder)
	)
	header := func(k, v string) { _, _ = fmt.Fprintf(head, "%s: %s\r\n", k, v) }
	header("From", svc.defaultFromEmail.String())
	header("MIME-Version", "1.0")
	header("Date", time.Now().Format(time.RFC1123Z))
	header("Subject", svc.subjPrefix+msg.Subject)
	header("To", svc.joinAddresses(msg.To))
	if len(msg.Cc) > 0 {
		header("Cc", svc.joinAddresses(msg.Cc))
	}
	if len(msg.Bcc) > 0 {
		header("Bcc", svc.joinAddresses(msg.Bcc))
	}

	alt := new(strings.Builder)
	altW := multipart.NewWriter(alt)
	if err := writePart(altW, textproto.MIMEHeader{"Content-Type": {"text/plain; charset=utf-8"}}, msg.TextContent); err != nil {
		return "", errors.Wrap(err, "text/plain part")
	}
	if msg.HTMLContent != "" {
		if err := writePart(altW, textproto.MIMEHeader{"Content-Type": {"text/html; charset=utf-8"}}, msg.HTMLContent); err != nil {
			return "", errors.Wrap(err, "text/html part")
		}
	}
	if err := altW.Close(); err != nil {
		return "", err
	}
	altType := "multipart/alternative; boundary=" + altW.Boundary()

	if !msg.HasAttachments() {
		header("Content-Type", altType)
		return head.String() + "\r\n" + alt.String(), nil
	}

	mixedW := multipart.NewWriter(body)
	if err := writePart(mixedW, textproto.MIMEHeader{"Content-Type": {altType}}, alt.String()); err != nil {
		return "", errors.Wrap(err, "multipart/alternative part")
	}
	for _, at := range msg.Attachments {
		h := textproto.MIMEHeader{
			"Content-Type":              {at.ContentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {"attachment; filename=" + at.Filename},
		}
		if err := writePart(mixedW, h, at.Content.String()); err != nil {
			return "", errors.Wrap(err, at.Filename)
		}
	}
	if err := mixedW.Close(); err != nil {
		return "", err
	}
	header("Content-Type", "multipart/mixed; boundary="+mixedW.Boundary())
	return head.String() + "\r\n" + body.String(), nil
}

func writePart(w *multipart.Writer, h textproto.MIMEHeader, content string) error {
	pw, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(pw, "%s\r\n", content)
	return err
}

func (svc consoleService) joinAddresses(addrs []mail.Address) string {
	toJoin := make([]string, 0, len(addrs))
	for _, a := range addrs {
		toJoin = append(toJoin, a.String())
	}
	return strings.Join(toJoin, ", ")
}

type consoleServiceMock struct {
	consoleService
}

// NewConsoleServiceMock renders and records messages synchronously, without output.
func NewConsoleServiceMock(logger core.Logger, conf *core.Config) core.EmailService {
	return &consoleServiceMock{
		consoleService: consoleService{
			defaultFromEmail: conf.DefaultFromEmail(),
			subjPrefix:       "[" + conf.AppName + "] ",
			frontendBaseURL:  conf.FrontendBaseURL,
			logger:           logger,
			disableOutput:    true,
		},
	}
}

func (svc *consoleServiceMock) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		// run synchronously
		svc.sendMessage(msg)
	}
}
