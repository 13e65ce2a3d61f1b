package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultHorizonYears is how many years past the current one a payment
// schedule is pre-generated.
const DefaultHorizonYears = 5

type PaymentStatus string

const (
	StatusPending PaymentStatus = "Pending"
	StatusPaid    PaymentStatus = "Paid"

	// StatusOverdue is derived at read time and never persisted. Stored
	// records only ever carry Pending or Paid.
	StatusOverdue PaymentStatus = "Overdue"
)

// Payment is one calendar month's billing record for a customer.
// Month is zero-based (0 = January) to match the stored record format.
type Payment struct {
	Year        int              `json:"year"`
	Month       int              `json:"month"`
	Status      PaymentStatus    `json:"status"`
	PaymentDate *time.Time       `json:"paymentDate,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

// MonthKey identifies a billable month.
type MonthKey struct {
	Year  int
	Month int
}

// Before reports whether k is chronologically earlier than other.
func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

func (p Payment) Key() MonthKey {
	return MonthKey{Year: p.Year, Month: p.Month}
}

// MarkPaid transitions the record to Paid, stamping the payment date and the
// amount (callers default it to the customer's monthly rent).
func (p *Payment) MarkPaid(when time.Time, amount decimal.Decimal, notes string) {
	p.Status = StatusPaid
	p.PaymentDate = &when
	p.Amount = &amount
	if notes != "" {
		p.Notes = notes
	}
}

// MarkPending reverts the record to Pending and clears payment details.
func (p *Payment) MarkPending(notes string) {
	p.Status = StatusPending
	p.PaymentDate = nil
	p.Amount = nil
	if notes != "" {
		p.Notes = notes
	}
}
