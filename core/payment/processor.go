package payment

import (
	"context"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/eduhelp/core"
	"github.com/trezcool/eduhelp/core/intake"
)

var nowFunc = time.Now

// Listener is notified of each outcome change, outside of the processor lock.
type Listener func(o Outcome)

type (
	ProcessorOptions struct {
		Validate *validator.Validate
		MailSvc  core.EmailService
		Logger   core.Logger
		Conf     *core.Config

		OnSubmitted Listener
		OnSucceeded Listener
	}

	// Processor simulates transactions: every submission succeeds after a fixed delay.
	Processor struct {
		validate      *validator.Validate
		mailSvc       core.EmailService
		logger        core.Logger
		delay         time.Duration
		redirectDelay time.Duration
		onSubmitted   Listener
		onSucceeded   Listener

		mu       sync.Mutex
		outcomes map[string]Outcome
		timers   map[string]*time.Timer
		closed   bool
	}
)

func NewProcessor(opts ProcessorOptions) *Processor {
	return &Processor{
		validate:      opts.Validate,
		mailSvc:       opts.MailSvc,
		logger:        opts.Logger,
		delay:         opts.Conf.Payment.ProcessingDelay,
		redirectDelay: opts.Conf.Payment.RedirectDelay,
		onSubmitted:   opts.OnSubmitted,
		onSucceeded:   opts.OnSucceeded,
		outcomes:      make(map[string]Outcome),
		timers:        make(map[string]*time.Timer),
	}
}

// RedirectDelay is how long the success page stays up before going back home.
func (p *Processor) RedirectDelay() time.Duration { return p.redirectDelay }

// Validate checks the payment form.
func (p *Processor) Validate(d Details) error {
	d.Timing = Timing(core.CleanString(string(d.Timing), true /* lower */))
	d.Method = Method(core.CleanString(string(d.Method), true /* lower */))
	return p.validate.Struct(d)
}

// Submit validates the form and starts a pending transaction for the handed-off request.
func (p *Processor) Submit(ctx context.Context, h *intake.Handoff, d Details) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	if h == nil {
		return Outcome{}, core.NewValidationError(ErrNoHandoff)
	}
	if err := p.Validate(d); err != nil {
		return Outcome{}, err
	}

	o := Outcome{
		ID:          uuid.NewString(),
		Request:     h.Request,
		Price:       h.Price,
		Timing:      Timing(core.CleanString(string(d.Timing), true /* lower */)),
		Status:      StatusPending,
		SubmittedAt: nowFunc().UTC(),
	}
	if o.PaidNow() {
		o.Method = Method(core.CleanString(string(d.Method), true /* lower */))
		if digits := d.cardDigits(); o.Method == MethodCard && len(digits) >= 4 {
			o.CardLast4 = digits[len(digits)-4:]
		}
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return Outcome{}, ErrClosed
	}
	p.outcomes[o.ID] = o
	id := o.ID
	p.timers[id] = time.AfterFunc(p.delay, func() { p.complete(id) })
	p.mu.Unlock()

	if p.onSubmitted != nil {
		p.onSubmitted(o)
	}
	return o, nil
}

func (p *Processor) complete(id string) {
	p.mu.Lock()
	o, ok := p.outcomes[id]
	if p.closed || !ok {
		p.mu.Unlock()
		return
	}
	now := nowFunc().UTC()
	o.Status = StatusSucceeded
	o.CompletedAt = &now
	p.outcomes[id] = o
	delete(p.timers, id)
	p.mu.Unlock()

	if p.onSucceeded != nil {
		p.onSucceeded(o)
	}
	p.sendConfirmation(o)
}

func (p *Processor) sendConfirmation(o Outcome) {
	if p.mailSvc == nil {
		return
	}
	if _, err := mail.ParseAddress(o.Request.Email); err != nil {
		if p.logger != nil {
			p.logger.Warn("payment confirmation not sent", errors.Wrap(err, o.ID))
		}
		return
	}
	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: o.Request.FullName(), Address: o.Request.Email}},
		Subject:      "Your request has been confirmed",
		TemplateName: "request_confirmed",
		TemplateData: o,
	}
	if err := msg.Attach(strings.NewReader(o.Receipt()), o.ReceiptName(), "text/plain"); err != nil && p.logger != nil {
		p.logger.Warn("payment receipt not attached", errors.Wrap(err, o.ID))
	}
	p.mailSvc.SendMessages(msg)
}

// Get returns the current state of a transaction.
func (p *Processor) Get(id string) (Outcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if o, ok := p.outcomes[id]; ok {
		return o, nil
	}
	return Outcome{}, ErrNotFound
}

// Pending returns the number of transactions still waiting on their timer.
func (p *Processor) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.timers)
}

// Close stops every pending timer. No outcome changes after Close returns.
func (p *Processor) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for id, t := range p.timers {
		t.Stop()
		delete(p.timers, id)
	}
}
