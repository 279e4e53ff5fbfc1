package echoweb

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/eduhelp/core"
	"github.com/trezcool/eduhelp/core/guard"
	"github.com/trezcool/eduhelp/core/intake"
	"github.com/trezcool/eduhelp/core/session"
)

const attachmentField = "attachment"

type servicesPage struct {
	Flow     intake.Flow
	Label    string
	Options  []intake.ServiceOption
	Subjects []string
}

func newServicesPage(flow intake.Flow) servicesPage {
	return servicesPage{
		Flow:     flow,
		Label:    flow.Draft.ServiceType.Label(),
		Options:  intake.ServiceOptions,
		Subjects: intake.Subjects,
	}
}

func (s *server) servicesPage(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	return ctx.Render(http.StatusOK, "services", newView(ctx, "Our Services", newServicesPage(sess.Intake)))
}

// submitDetails prices the request. The entered values are kept in the session either way.
func (s *server) submitDetails(ctx echo.Context) error {
	var data intake.ServiceRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ServiceRequest")
	}
	// only the file name is kept
	if fh, err := ctx.FormFile(attachmentField); err == nil {
		data.AttachedFileName = fh.Filename
	} else if err != http.ErrMissingFile && err != http.ErrNotMultipart {
		return errors.Wrap(err, "reading attachment")
	}

	var submitErr error
	sess, err := s.updateContextSession(ctx, func(sess *session.Session) error {
		submitErr = sess.Intake.SubmitDetails(s.Validate, data)
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "saving service request")
	}
	s.Metrics.IntakeSubmitted(submitErr == nil)

	if submitErr != nil {
		fields, ok := core.FieldErrors(submitErr, s.Translator)
		if !ok {
			return errors.Wrap(submitErr, "submitting details")
		}
		v := newView(ctx, "Our Services", newServicesPage(sess.Intake)).withErrors(fields)
		return ctx.Render(http.StatusBadRequest, "services", v)
	}
	return ctx.Redirect(http.StatusSeeOther, guard.ServicesPath)
}

func (s *server) editDetails(ctx echo.Context) error {
	if _, err := s.updateContextSession(ctx, func(sess *session.Session) error {
		sess.Intake.Edit()
		return nil
	}); err != nil {
		return errors.Wrap(err, "editing service request")
	}
	return ctx.Redirect(http.StatusSeeOther, guard.ServicesPath)
}

// proceedToPayment hands the priced request over to the payment page.
// An unpriced request stays on the services page.
func (s *server) proceedToPayment(ctx echo.Context) error {
	_, err := s.updateContextSession(ctx, func(sess *session.Session) error {
		h, err := sess.Intake.Proceed(time.Now())
		if err != nil {
			return err
		}
		sess.Handoff = &h
		return nil
	})
	switch {
	case errors.Is(err, intake.ErrNotPriced):
		return ctx.Redirect(http.StatusSeeOther, guard.ServicesPath)
	case err != nil:
		return errors.Wrap(err, "handing off service request")
	}
	return ctx.Redirect(http.StatusSeeOther, guard.PaymentPath)
}
