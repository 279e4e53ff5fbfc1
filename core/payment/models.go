package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/eduhelp/core/intake"
)

var (
	// errors
	ErrNoHandoff = errors.New("there is no request in progress, please fill in the service form first")
	ErrNotFound  = errors.New("payment not found")
	ErrClosed    = errors.New("payment processor is closed")
)

type (
	Timing string
	Method string
	Status string
)

// Timings
const (
	PayNow   Timing = "now"
	PayLater Timing = "later"
)

// Methods
const (
	MethodCard   Method = "card"
	MethodWallet Method = "wallet"
)

// Statuses
const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
)

func (m Method) Label() string {
	switch m {
	case MethodCard:
		return "Credit/Debit Card"
	case MethodWallet:
		return "PayPal"
	}
	return ""
}

// Details is the payment form. Card fields are only read when paying now by card.
type Details struct {
	Timing     Timing `json:"timing" form:"timing" validate:"required,paytiming"`
	Method     Method `json:"method" form:"method"`
	CardNumber string `json:"card_number" form:"card_number"`
	Expiry     string `json:"expiry" form:"expiry"`
	CVV        string `json:"cvv" form:"cvv"`
	CardName   string `json:"card_name" form:"card_name"`
}

func (d Details) cardDigits() string {
	return strings.NewReplacer(" ", "", "-", "").Replace(d.CardNumber)
}

// Outcome is a simulated transaction. Card data is not kept beyond the last 4 digits.
type Outcome struct {
	ID          string                `json:"id"`
	Request     intake.ServiceRequest `json:"request"`
	Price       int                   `json:"price"`
	Timing      Timing                `json:"timing"`
	Method      Method                `json:"method,omitempty"`
	CardLast4   string                `json:"card_last4,omitempty"`
	Status      Status                `json:"status"`
	SubmittedAt time.Time             `json:"submitted_at"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
}

func (o Outcome) PaidNow() bool   { return o.Timing == PayNow }
func (o Outcome) Succeeded() bool { return o.Status == StatusSucceeded }

// ReceiptName is the filename of the receipt attached to the confirmation email.
func (o Outcome) ReceiptName() string { return "receipt-" + o.ID + ".txt" }

// Receipt renders a plain-text summary of the transaction.
func (o Outcome) Receipt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "EduHelp receipt\n\n")
	fmt.Fprintf(&b, "Reference: %s\n", o.ID)
	fmt.Fprintf(&b, "Name:      %s\n", o.Request.FullName())
	fmt.Fprintf(&b, "Service:   %s\n", o.Request.ServiceType.Label())
	fmt.Fprintf(&b, "Subject:   %s\n", o.Request.Subject)
	fmt.Fprintf(&b, "Amount:    $%d\n", o.Price)
	if o.PaidNow() {
		payment := o.Method.Label()
		if o.CardLast4 != "" {
			payment += " ending in " + o.CardLast4
		}
		fmt.Fprintf(&b, "Payment:   %s\n", payment)
	} else {
		fmt.Fprintf(&b, "Payment:   due later\n")
	}
	fmt.Fprintf(&b, "Submitted: %s\n", o.SubmittedAt.Format(time.RFC1123))
	return b.String()
}
