package customer

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"rotrack/internal/domain/billing"
	"rotrack/internal/pkg/apperrors"
)

// Customer is a single RO rental account with its monthly payment schedule.
type Customer struct {
	ID                    string            `json:"id"`
	SerialNumber          int64             `json:"serialNumber"`
	Name                  string            `json:"name"`
	Address               string            `json:"address"`
	Mobile                string            `json:"mobile"`
	ROModel               string            `json:"roModel"`
	InstallationDate      time.Time         `json:"installationDate"`
	MonthlyRent           int64             `json:"monthlyRent"`
	Payments              []billing.Payment `json:"payments"`
	EnableMonthlyReminder bool              `json:"enableMonthlyReminder"`
	CreatedAt             time.Time         `json:"createdAt"`
	UpdatedAt             time.Time         `json:"updatedAt"`
}

// NewCustomer validates the given fields and returns a customer with a fresh
// payment schedule anchored to the installation date. horizonYears controls
// how far the schedule extends; a non-positive value falls back to
// billing.DefaultHorizonYears.
func NewCustomer(serialNumber int64, name, address, mobile, roModel string, installationDate time.Time, monthlyRent int64, enableMonthlyReminder bool, horizonYears int, now time.Time) (*Customer, error) {
	name = strings.TrimSpace(name)
	if err := validateFields(serialNumber, name, monthlyRent, installationDate); err != nil {
		return nil, err
	}

	return &Customer{
		ID:                    uuid.NewString(),
		SerialNumber:          serialNumber,
		Name:                  name,
		Address:               strings.TrimSpace(address),
		Mobile:                strings.TrimSpace(mobile),
		ROModel:               strings.TrimSpace(roModel),
		InstallationDate:      installationDate,
		MonthlyRent:           monthlyRent,
		Payments:              billing.GenerateSchedule(installationDate, now, horizonYears),
		EnableMonthlyReminder: enableMonthlyReminder,
		CreatedAt:             now,
		UpdatedAt:             now,
	}, nil
}

func validateFields(serialNumber int64, name string, monthlyRent int64, installationDate time.Time) error {
	if serialNumber <= 0 {
		return apperrors.NewValidationError("serialNumber", "must be a positive number")
	}
	if name == "" {
		return apperrors.NewValidationError("name", "cannot be empty")
	}
	if monthlyRent < 0 {
		return apperrors.NewValidationError("monthlyRent", "cannot be negative")
	}
	if installationDate.IsZero() {
		return apperrors.NewValidationError("installationDate", "is required")
	}
	return nil
}

// PaymentFor returns a pointer into the schedule for the given month, or nil
// when no record exists. A missing record is benign, never an error.
func (c *Customer) PaymentFor(year, month int) *billing.Payment {
	for i := range c.Payments {
		if c.Payments[i].Year == year && c.Payments[i].Month == month {
			return &c.Payments[i]
		}
	}
	return nil
}

// ReanchorSchedule regenerates the schedule for a changed installation date,
// merging so existing paid records are preserved.
func (c *Customer) ReanchorSchedule(now time.Time, horizonYears int) {
	generated := billing.GenerateSchedule(c.InstallationDate, now, horizonYears)
	c.Payments = billing.MergeSchedule(c.Payments, generated)
}

// HasOverduePayment reports whether any month in the schedule is overdue.
func (c *Customer) HasOverduePayment(today time.Time) bool {
	for _, p := range c.Payments {
		if billing.IsOverdue(p, today) {
			return true
		}
	}
	return false
}
