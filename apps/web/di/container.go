// Package container wires the web application dependencies with dig.
package container

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoweb "github.com/trezcool/eduhelp/apps/web/echo"
	"github.com/trezcool/eduhelp/core"
	"github.com/trezcool/eduhelp/core/dashboard"
	"github.com/trezcool/eduhelp/core/intake"
	"github.com/trezcool/eduhelp/core/payment"
	"github.com/trezcool/eduhelp/core/session"
	emailsvc "github.com/trezcool/eduhelp/services/email"
	logsvc "github.com/trezcool/eduhelp/services/logger"
	inmemdb "github.com/trezcool/eduhelp/storage/database/inmem"
)

// ServerParams is everything the echo server is built from.
type ServerParams struct {
	dig.In

	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator
	SessionSvc *session.Service
	Processor  *payment.Processor
	AdminSvc   *dashboard.AdminService
	StudentSvc *dashboard.StudentService
	Repos      dashboard.Repositories
	Metrics    *echoweb.Metrics
}

func newLogger(conf *core.Config) (*logsvc.RollbarLogger, core.Logger, error) {
	zl, err := logsvc.NewZap(conf)
	if err != nil {
		return nil, nil, errors.Wrap(err, "setting up zap")
	}
	logger := logsvc.NewRollbarLogger(zl, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger, logger, nil
}

func newValidate(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	intake.InitValidators(validate, translator)
	session.InitValidators(validate, translator)
	payment.InitValidators(validate, translator)
	return validate
}

func newMailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug || conf.SendgridApiKey == "" {
		return emailsvc.NewConsoleService(logger, conf)
	}
	return emailsvc.NewSendgridService(logger, conf)
}

func newProcessor(conf *core.Config, logger core.Logger, validate *validator.Validate, mailSvc core.EmailService, metrics *echoweb.Metrics) *payment.Processor {
	return payment.NewProcessor(payment.ProcessorOptions{
		Validate:    validate,
		MailSvc:     mailSvc,
		Logger:      logger,
		Conf:        conf,
		OnSubmitted: metrics.PaymentSubmitted,
		OnSucceeded: metrics.PaymentSucceeded,
	})
}

func newSessionService(db *inmemdb.DB, validate *validator.Validate, conf *core.Config) *session.Service {
	return session.NewService(inmemdb.NewSessionStore(db), validate, conf)
}

func newStudentService(repos dashboard.Repositories) *dashboard.StudentService {
	return dashboard.NewStudentService(repos.Student)
}

func newServer(p ServerParams) (echoweb.Server, error) {
	return echoweb.NewServer(echoweb.ServerDeps{
		Conf:         p.Conf,
		Logger:       p.Logger,
		Validate:     p.Validate,
		Translator:   p.Translator,
		SessionSvc:   p.SessionSvc,
		Processor:    p.Processor,
		AdminSvc:     p.AdminSvc,
		StudentSvc:   p.StudentSvc,
		Testimonials: p.Repos.Testimonials,
		Metrics:      p.Metrics,
	})
}

// New returns a container able to build an echoweb.Server for conf.
func New(conf *core.Config) (*dig.Container, error) {
	c := dig.New()
	for _, constructor := range []interface{}{
		func() *core.Config { return conf },
		newLogger,
		core.NewTranslator,
		newValidate,
		inmemdb.OpenSeeded,
		inmemdb.NewRepositories,
		newMailService,
		echoweb.NewMetrics,
		newProcessor,
		newSessionService,
		dashboard.NewAdminService,
		newStudentService,
		newServer,
	} {
		if err := c.Provide(constructor); err != nil {
			return nil, errors.Wrap(err, "providing dependency")
		}
	}
	return c, nil
}
