package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"rotrack/internal/domain/billing"
	"rotrack/internal/event"
	"rotrack/internal/infrastructure/monitoring"
	"rotrack/internal/pkg/apperrors"
	"rotrack/internal/pkg/timeutil"
)

type CreateCustomerInput struct {
	SerialNumber          int64
	Name                  string
	Address               string
	Mobile                string
	ROModel               string
	InstallationDate      time.Time
	MonthlyRent           int64
	EnableMonthlyReminder bool
}

type UpdateCustomerInput struct {
	Name                  string
	Address               string
	Mobile                string
	ROModel               string
	InstallationDate      time.Time
	MonthlyRent           int64
	EnableMonthlyReminder bool
}

// PaymentUpdate marks one billable month Paid or back to Pending. A nil
// Amount defaults to the customer's monthly rent at the time of payment.
type PaymentUpdate struct {
	Year   int
	Month  int
	Paid   bool
	Amount *decimal.Decimal
	Notes  string
}

type ImportResult struct {
	Imported int
	Errors   []apperrors.ImportError
}

type OverdueCustomerSummary struct {
	ID           string `json:"id"`
	SerialNumber int64  `json:"serialNumber"`
	Name         string `json:"name"`
	Mobile       string `json:"mobile"`
}

type DashboardStats struct {
	TotalCustomers         int                      `json:"totalCustomers"`
	RentCollectedThisMonth decimal.Decimal          `json:"rentCollectedThisMonth"`
	RentDueThisMonth       decimal.Decimal          `json:"rentDueThisMonth"`
	OverdueCustomers       []OverdueCustomerSummary `json:"overdueCustomers"`
}

type Service interface {
	CreateCustomer(ctx context.Context, input CreateCustomerInput) (*Customer, error)
	GetCustomer(ctx context.Context, customerID string) (*Customer, error)
	ListCustomers(ctx context.Context) ([]*Customer, error)
	UpdateCustomer(ctx context.Context, customerID string, input UpdateCustomerInput) (*Customer, error)
	DeleteCustomer(ctx context.Context, customerID string) error
	RecordPayments(ctx context.Context, customerID string, updates []PaymentUpdate) (*Customer, error)
	ImportCustomers(ctx context.Context, data string) (*ImportResult, error)
	ExportCustomers(ctx context.Context) (string, error)
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

var _ Service = (*customerService)(nil)

type customerService struct {
	repo    Repository
	pub     event.Publisher
	horizon int
	logger  *slog.Logger
	now     func() time.Time
}

// NewService returns the customer service. horizonYears is how many years past
// the current one payment schedules are pre-generated; a non-positive value
// falls back to billing.DefaultHorizonYears.
func NewService(repo Repository, pub event.Publisher, horizonYears int, logger *slog.Logger) Service {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if pub == nil {
		pub = event.NoopPublisher{}
	}
	if horizonYears <= 0 {
		horizonYears = billing.DefaultHorizonYears
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewService, using default stderr handler")
	}

	return &customerService{
		repo:    repo,
		pub:     pub,
		horizon: horizonYears,
		logger:  logger.With(slog.String("component", "customerService")),
		now:     timeutil.Now,
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to create new customer", slog.Int64("serialNumber", input.SerialNumber))

	exists, err := s.repo.SerialNumberExists(ctx, input.SerialNumber)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to check serial number uniqueness", slog.Any("error", err))
		return nil, fmt.Errorf("failed to check serial number uniqueness: %w", err)
	}
	if exists {
		s.logger.WarnContext(ctx, "Validation failed: duplicate serial number", slog.Int64("serialNumber", input.SerialNumber))
		return nil, fmt.Errorf("%w: serial number %d", apperrors.ErrDuplicateSerial, input.SerialNumber)
	}

	cust, err := NewCustomer(
		input.SerialNumber, input.Name, input.Address, input.Mobile, input.ROModel,
		input.InstallationDate, input.MonthlyRent, input.EnableMonthlyReminder, s.horizon, s.now(),
	)
	if err != nil {
		s.logger.WarnContext(ctx, "Customer validation failed", slog.Any("error", err))
		return nil, err
	}

	if err := s.repo.Save(ctx, cust); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}

	monitoring.RecordCustomerCreated()
	s.publishCreated(ctx, cust)
	s.logger.InfoContext(ctx, "Successfully created new customer", slog.String("customerID", cust.ID))
	return cust, nil
}

func (s *customerService) publishCreated(ctx context.Context, cust *Customer) {
	createdEvent := event.CustomerCreatedEvent{
		Timestamp: s.now(),
		Payload: event.CustomerEventPayload{
			CustomerID:       cust.ID,
			SerialNumber:     cust.SerialNumber,
			Name:             cust.Name,
			Mobile:           cust.Mobile,
			InstallationDate: cust.InstallationDate,
			MonthlyRent:      cust.MonthlyRent,
		},
	}
	if err := s.pub.PublishCustomerCreated(ctx, createdEvent); err != nil {
		s.logger.ErrorContext(ctx, "Customer created, but FAILED to publish creation event", slog.Any("error", err))
	}
}

func (s *customerService) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	s.logger.DebugContext(ctx, "Attempting to get customer by ID", slog.String("customerID", customerID))

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer not found by repository", slog.String("customerID", customerID))
			return nil, apperrors.ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %s: %w", customerID, err)
	}
	return cust, nil
}

func (s *customerService) ListCustomers(ctx context.Context) ([]*Customer, error) {
	s.logger.DebugContext(ctx, "Attempting to list all customers")

	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, customerID string, input UpdateCustomerInput) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to update customer", slog.String("customerID", customerID))

	cust, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := validateFields(cust.SerialNumber, input.Name, input.MonthlyRent, input.InstallationDate); err != nil {
		s.logger.WarnContext(ctx, "Customer update validation failed", slog.Any("error", err))
		return nil, err
	}

	now := s.now()
	installChanged := !cust.InstallationDate.Equal(input.InstallationDate)

	cust.Name = input.Name
	cust.Address = input.Address
	cust.Mobile = input.Mobile
	cust.ROModel = input.ROModel
	cust.InstallationDate = input.InstallationDate
	cust.MonthlyRent = input.MonthlyRent
	cust.EnableMonthlyReminder = input.EnableMonthlyReminder
	cust.UpdatedAt = now

	if installChanged {
		// Merge rather than replace so paid history survives the re-anchor.
		cust.ReanchorSchedule(now, s.horizon)
	}

	if err := s.repo.Update(ctx, cust); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to update customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to update customer %s: %w", customerID, err)
	}
	if installChanged {
		if err := s.repo.UpdatePayments(ctx, cust); err != nil {
			s.logger.ErrorContext(ctx, "Repository failed to update payment schedule", slog.Any("error", err))
			return nil, fmt.Errorf("failed to update payment schedule for customer %s: %w", customerID, err)
		}
	}

	s.logger.InfoContext(ctx, "Customer updated successfully", slog.String("customerID", customerID))
	return cust, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, customerID string) error {
	s.logger.InfoContext(ctx, "Attempting to delete customer", slog.String("customerID", customerID))

	if err := s.repo.Delete(ctx, customerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer not found for deletion", slog.String("customerID", customerID))
			return apperrors.ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository failed to delete customer", slog.Any("error", err))
		return fmt.Errorf("failed to delete customer %s: %w", customerID, err)
	}

	monitoring.RecordCustomerDeleted()
	deletedEvent := event.CustomerDeletedEvent{Timestamp: s.now(), CustomerID: customerID}
	if err := s.pub.PublishCustomerDeleted(ctx, deletedEvent); err != nil {
		s.logger.ErrorContext(ctx, "Customer deleted, but FAILED to publish deletion event", slog.Any("error", err))
	}
	s.logger.InfoContext(ctx, "Customer deleted successfully", slog.String("customerID", customerID))
	return nil
}

// RecordPayments applies a batch of month status changes to one customer and
// writes the payment list back as a single atomic replacement. Months without
// an existing record (rare; schedules are pre-generated) get one created.
func (s *customerService) RecordPayments(ctx context.Context, customerID string, updates []PaymentUpdate) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to record payments",
		slog.String("customerID", customerID), slog.Int("months", len(updates)))

	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no payment updates provided", apperrors.ErrInvalidArgument)
	}

	cust, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for _, u := range updates {
		p := cust.PaymentFor(u.Year, u.Month)
		if p == nil {
			cust.Payments = append(cust.Payments, billing.Payment{
				Year:   u.Year,
				Month:  u.Month,
				Status: billing.StatusPending,
			})
			p = &cust.Payments[len(cust.Payments)-1]
		}

		if u.Paid {
			amount := decimal.NewFromInt(cust.MonthlyRent)
			if u.Amount != nil {
				amount = *u.Amount
			}
			p.MarkPaid(now, amount, u.Notes)
			monitoring.RecordPayment(string(billing.StatusPaid))
		} else {
			p.MarkPending(u.Notes)
			monitoring.RecordPayment(string(billing.StatusPending))
		}
	}
	billing.SortChronological(cust.Payments)
	cust.UpdatedAt = now

	if err := s.repo.UpdatePayments(ctx, cust); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to replace payment list", slog.Any("error", err))
		return nil, fmt.Errorf("failed to record payments for customer %s: %w", customerID, err)
	}

	s.logger.InfoContext(ctx, "Payments recorded successfully", slog.String("customerID", customerID))
	return cust, nil
}

func (s *customerService) ImportCustomers(ctx context.Context, data string) (*ImportResult, error) {
	s.logger.InfoContext(ctx, "Starting bulk customer import")

	existing, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load existing customers for import", slog.Any("error", err))
		return nil, fmt.Errorf("failed to load existing customers: %w", err)
	}
	existingSerials := make(map[int64]bool, len(existing))
	for _, c := range existing {
		existingSerials[c.SerialNumber] = true
	}

	rows, importErrors := ParseImport(data, existingSerials)
	result := &ImportResult{Errors: importErrors}
	for range importErrors {
		monitoring.RecordImportRow("rejected")
	}

	now := s.now()
	for _, row := range rows {
		cust, err := NewCustomer(
			row.SerialNumber, row.Name, row.Address, row.Mobile, row.ROModel,
			row.InstallationDate, row.MonthlyRent, row.EnableMonthlyReminder, s.horizon, now,
		)
		if err != nil {
			// Field validation already ran during parsing; reaching here means
			// a rule drifted between the two. Surface it as a row error.
			result.Errors = append(result.Errors, apperrors.ImportError{Line: row.Line, Message: err.Error()})
			monitoring.RecordImportRow("rejected")
			continue
		}
		if err := s.repo.Save(ctx, cust); err != nil {
			s.logger.ErrorContext(ctx, "Failed to save imported customer",
				slog.Int64("serialNumber", row.SerialNumber), slog.Any("error", err))
			result.Errors = append(result.Errors, apperrors.ImportError{
				Line:    row.Line,
				Message: fmt.Sprintf("failed to save customer with serial %d", row.SerialNumber),
			})
			monitoring.RecordImportRow("rejected")
			continue
		}
		result.Imported++
		monitoring.RecordImportRow("imported")
		s.publishCreated(ctx, cust)
	}

	s.logger.InfoContext(ctx, "Bulk customer import finished",
		slog.Int("imported", result.Imported), slog.Int("rejected", len(result.Errors)))
	return result, nil
}

func (s *customerService) ExportCustomers(ctx context.Context) (string, error) {
	s.logger.InfoContext(ctx, "Exporting customers to CSV")

	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers for export", slog.Any("error", err))
		return "", fmt.Errorf("failed to list customers for export: %w", err)
	}
	return ExportCSV(customers)
}

func (s *customerService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	s.logger.DebugContext(ctx, "Computing dashboard stats")

	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers for stats: %w", err)
	}

	now := s.now()
	today := timeutil.StartOfDay(now)
	currentYear, currentMonth := now.Year(), int(now.Month())-1

	stats := &DashboardStats{
		TotalCustomers:         len(customers),
		RentCollectedThisMonth: decimal.Zero,
		RentDueThisMonth:       decimal.Zero,
		OverdueCustomers:       []OverdueCustomerSummary{},
	}

	for _, c := range customers {
		for _, p := range c.Payments {
			if p.Status == billing.StatusPaid && p.PaymentDate != nil {
				paid := p.PaymentDate.In(now.Location())
				if paid.Year() == currentYear && int(paid.Month())-1 == currentMonth {
					amount := decimal.NewFromInt(c.MonthlyRent)
					if p.Amount != nil {
						amount = *p.Amount
					}
					stats.RentCollectedThisMonth = stats.RentCollectedThisMonth.Add(amount)
				}
			}
		}

		if p := c.PaymentFor(currentYear, currentMonth); p != nil && p.Status == billing.StatusPending {
			stats.RentDueThisMonth = stats.RentDueThisMonth.Add(decimal.NewFromInt(c.MonthlyRent))
		}

		if c.HasOverduePayment(today) {
			stats.OverdueCustomers = append(stats.OverdueCustomers, OverdueCustomerSummary{
				ID:           c.ID,
				SerialNumber: c.SerialNumber,
				Name:         c.Name,
				Mobile:       c.Mobile,
			})
		}
	}

	return stats, nil
}
