package echoweb

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/eduhelp/core"
	"github.com/trezcool/eduhelp/core/guard"
	"github.com/trezcool/eduhelp/core/intake"
	"github.com/trezcool/eduhelp/core/payment"
	"github.com/trezcool/eduhelp/core/session"
)

const pollInterval = time.Second

type (
	paymentPage struct {
		Handoff intake.Handoff
		Label   string
		Details payment.Details
		Methods []paymentMethod
	}

	paymentMethod struct {
		Method payment.Method
		Label  string
	}

	paymentStatusPage struct {
		Outcome payment.Outcome
		Label   string
		Method  string
	}
)

var paymentMethods = []paymentMethod{
	{Method: payment.MethodCard, Label: payment.MethodCard.Label()},
	{Method: payment.MethodWallet, Label: payment.MethodWallet.Label()},
}

func newPaymentPage(h *intake.Handoff, d payment.Details) paymentPage {
	return paymentPage{
		Handoff: *h,
		Label:   h.Request.ServiceType.Label(),
		Details: d,
		Methods: paymentMethods,
	}
}

func (s *server) paymentPage(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	if sess.Handoff == nil {
		return ctx.Render(http.StatusOK, "payment_missing", newView(ctx, "Payment", nil))
	}
	page := newPaymentPage(sess.Handoff, payment.Details{Timing: payment.PayNow, Method: payment.MethodCard})
	return ctx.Render(http.StatusOK, "payment", newView(ctx, "Payment", page))
}

// submitPayment starts the simulated transaction and consumes the handoff in the same session update,
// so a handoff pays for a single transaction.
func (s *server) submitPayment(ctx echo.Context) error {
	var data payment.Details
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to payment.Details")
	}

	var o payment.Outcome
	sess, err := s.updateContextSession(ctx, func(sess *session.Session) error {
		var err error
		if o, err = s.Processor.Submit(ctx.Request().Context(), sess.Handoff, data); err != nil {
			return err
		}
		sess.Handoff = nil
		sess.Intake.Reset()
		return nil
	})
	if err != nil {
		if errors.Is(err, payment.ErrNoHandoff) {
			v := newView(ctx, "Payment", nil).withErrors(map[string]string{"_": payment.ErrNoHandoff.Error()})
			return ctx.Render(http.StatusBadRequest, "payment_missing", v)
		}
		if fields, ok := core.FieldErrors(err, s.Translator); ok && sess.Handoff != nil {
			// the card number and CVV are never echoed back
			data.CardNumber, data.CVV = "", ""
			v := newView(ctx, "Payment", newPaymentPage(sess.Handoff, data)).withErrors(fields)
			return ctx.Render(http.StatusBadRequest, "payment", v)
		}
		return errors.Wrap(err, "submitting payment")
	}
	return ctx.Redirect(http.StatusSeeOther, guard.PaymentPath+"/"+o.ID)
}

func (s *server) paymentStatus(ctx echo.Context) error {
	o, err := s.Processor.Get(ctx.Param("id"))
	if err != nil {
		return err
	}
	page := paymentStatusPage{Outcome: o, Label: o.Request.ServiceType.Label()}
	if o.PaidNow() {
		page.Method = o.Method.Label()
	}

	v := newView(ctx, "Payment", page)
	if o.Succeeded() {
		v.refreshAfter(s.Processor.RedirectDelay(), guard.HomePath)
	} else {
		v.refreshAfter(pollInterval, ctx.Request().URL.Path)
	}
	return ctx.Render(http.StatusOK, "payment_status", v)
}
