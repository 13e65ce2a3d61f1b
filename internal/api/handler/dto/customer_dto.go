package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"rotrack/internal/domain/billing"
	"rotrack/internal/domain/customer"
	"rotrack/internal/pkg/timeutil"
)

const dateLayout = "2006-01-02"

type CreateCustomerRequest struct {
	SerialNumber          int64  `json:"serialNumber"`
	Name                  string `json:"name"`
	Address               string `json:"address"`
	Mobile                string `json:"mobile"`
	ROModel               string `json:"roModel"`
	InstallationDate      string `json:"installationDate"`
	MonthlyRent           int64  `json:"monthlyRent"`
	EnableMonthlyReminder bool   `json:"enableMonthlyReminder"`
}

func (r *CreateCustomerRequest) Validate() error {
	if r.SerialNumber <= 0 {
		return fmt.Errorf("serialNumber must be a positive number")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if r.MonthlyRent < 0 {
		return fmt.Errorf("monthlyRent cannot be negative")
	}
	if _, err := time.ParseInLocation(dateLayout, r.InstallationDate, timeutil.IST); err != nil {
		return fmt.Errorf("invalid installationDate format (use YYYY-MM-DD)")
	}
	return nil
}

func (r *CreateCustomerRequest) ToInput() customer.CreateCustomerInput {
	installDate, _ := time.ParseInLocation(dateLayout, r.InstallationDate, timeutil.IST)
	return customer.CreateCustomerInput{
		SerialNumber:          r.SerialNumber,
		Name:                  r.Name,
		Address:               r.Address,
		Mobile:                r.Mobile,
		ROModel:               r.ROModel,
		InstallationDate:      installDate,
		MonthlyRent:           r.MonthlyRent,
		EnableMonthlyReminder: r.EnableMonthlyReminder,
	}
}

type UpdateCustomerRequest struct {
	Name                  string `json:"name"`
	Address               string `json:"address"`
	Mobile                string `json:"mobile"`
	ROModel               string `json:"roModel"`
	InstallationDate      string `json:"installationDate"`
	MonthlyRent           int64  `json:"monthlyRent"`
	EnableMonthlyReminder bool   `json:"enableMonthlyReminder"`
}

func (r *UpdateCustomerRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if r.MonthlyRent < 0 {
		return fmt.Errorf("monthlyRent cannot be negative")
	}
	if _, err := time.ParseInLocation(dateLayout, r.InstallationDate, timeutil.IST); err != nil {
		return fmt.Errorf("invalid installationDate format (use YYYY-MM-DD)")
	}
	return nil
}

func (r *UpdateCustomerRequest) ToInput() customer.UpdateCustomerInput {
	installDate, _ := time.ParseInLocation(dateLayout, r.InstallationDate, timeutil.IST)
	return customer.UpdateCustomerInput{
		Name:                  r.Name,
		Address:               r.Address,
		Mobile:                r.Mobile,
		ROModel:               r.ROModel,
		InstallationDate:      installDate,
		MonthlyRent:           r.MonthlyRent,
		EnableMonthlyReminder: r.EnableMonthlyReminder,
	}
}

// PaymentUpdateRequest marks one billable month paid or unpaid. Months are
// zero-based (0 = January) to match the stored schedule.
type PaymentUpdateRequest struct {
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Paid   bool    `json:"paid"`
	Amount *string `json:"amount,omitempty"`
	Notes  string  `json:"notes,omitempty"`
}

func (r *PaymentUpdateRequest) Validate() error {
	if r.Year < 1900 || r.Year > 3000 {
		return fmt.Errorf("year %d is out of range", r.Year)
	}
	if r.Month < 0 || r.Month > 11 {
		return fmt.Errorf("month must be between 0 and 11")
	}
	if r.Amount != nil {
		if _, err := decimal.NewFromString(*r.Amount); err != nil {
			return fmt.Errorf("invalid numeric format for amount")
		}
	}
	return nil
}

func (r *PaymentUpdateRequest) ToUpdate() customer.PaymentUpdate {
	update := customer.PaymentUpdate{
		Year:  r.Year,
		Month: r.Month,
		Paid:  r.Paid,
		Notes: r.Notes,
	}
	if r.Amount != nil {
		amount, _ := decimal.NewFromString(*r.Amount)
		update.Amount = &amount
	}
	return update
}

type RecordPaymentsRequest struct {
	Payments []PaymentUpdateRequest `json:"payments"`
}

func (r *RecordPaymentsRequest) Validate() error {
	if len(r.Payments) == 0 {
		return fmt.Errorf("payments cannot be empty")
	}
	for i := range r.Payments {
		if err := r.Payments[i].Validate(); err != nil {
			return fmt.Errorf("payments[%d]: %w", i, err)
		}
	}
	return nil
}

type PaymentResponse struct {
	Year        int        `json:"year"`
	Month       int        `json:"month"`
	Status      string     `json:"status"`
	PaymentDate *time.Time `json:"paymentDate,omitempty"`
	Amount      *string    `json:"amount,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

type CustomerResponse struct {
	ID                    string            `json:"id"`
	SerialNumber          int64             `json:"serialNumber"`
	Name                  string            `json:"name"`
	Address               string            `json:"address"`
	Mobile                string            `json:"mobile"`
	ROModel               string            `json:"roModel"`
	InstallationDate      string            `json:"installationDate"`
	MonthlyRent           int64             `json:"monthlyRent"`
	EnableMonthlyReminder bool              `json:"enableMonthlyReminder"`
	Payments              []PaymentResponse `json:"payments"`
	CreatedAt             time.Time         `json:"createdAt"`
	UpdatedAt             time.Time         `json:"updatedAt"`
}

// NewCustomerResponse renders a customer with payment statuses classified as
// of today. The stored schedule never holds an Overdue status; it is derived
// here so clients always see a fresh classification.
func NewCustomerResponse(cust *customer.Customer, today time.Time) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}

	payments := make([]PaymentResponse, len(cust.Payments))
	for i, p := range cust.Payments {
		var amountStr *string
		if p.Amount != nil {
			s := p.Amount.StringFixed(2)
			amountStr = &s
		}
		payments[i] = PaymentResponse{
			Year:        p.Year,
			Month:       p.Month,
			Status:      string(billing.Classify(p, today)),
			PaymentDate: p.PaymentDate,
			Amount:      amountStr,
			Notes:       p.Notes,
		}
	}

	return CustomerResponse{
		ID:                    cust.ID,
		SerialNumber:          cust.SerialNumber,
		Name:                  cust.Name,
		Address:               cust.Address,
		Mobile:                cust.Mobile,
		ROModel:               cust.ROModel,
		InstallationDate:      cust.InstallationDate.In(timeutil.IST).Format(dateLayout),
		MonthlyRent:           cust.MonthlyRent,
		EnableMonthlyReminder: cust.EnableMonthlyReminder,
		Payments:              payments,
		CreatedAt:             cust.CreatedAt,
		UpdatedAt:             cust.UpdatedAt,
	}
}
