package testutil

import (
	"sync"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/eduhelp/core"
	"github.com/trezcool/eduhelp/core/intake"
	"github.com/trezcool/eduhelp/core/payment"
	"github.com/trezcool/eduhelp/core/session"
)

// NewValidate returns a validator with every application tag registered.
func NewValidate() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	intake.InitValidators(validate, translator)
	session.InitValidators(validate, translator)
	payment.InitValidators(validate, translator)
	return validate, translator
}

// LoggerMock records the messages logged at each level.
type LoggerMock struct {
	mu     sync.Mutex
	Infos  []string
	Warns  []string
	Errors []string
}

var _ core.Logger = (*LoggerMock)(nil)

func (l *LoggerMock) Debug(string, ...interface{}) {}
func (l *LoggerMock) Fatal(string, ...interface{}) {}

func (l *LoggerMock) Info(msg string, _ ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *LoggerMock) Warn(msg string, _ ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *LoggerMock) Error(msg string, _ ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

// ErrorCount is safe to call while requests are being served.
func (l *LoggerMock) ErrorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Errors)
}
