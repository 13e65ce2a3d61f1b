package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5"

	"rotrack/internal/domain/billing"
	"rotrack/internal/domain/customer"
	"rotrack/internal/pkg/apperrors"
)

// CustomerRepository is the remote transactional store. The payment list is
// always written as a whole-collection replacement inside one transaction, so
// concurrent sessions cannot interleave partial schedule updates.
type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.Repository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

const insertPaymentSQL = `
        INSERT INTO payments (customer_id, year, month, status, payment_date, amount, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (r *CustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	r.logger.InfoContext(ctx, "Attempting to insert new customer", slog.Int64("serialNumber", cust.SerialNumber))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", slog.Any("error", err))
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
        INSERT INTO customers (id, serial_number, name, address, mobile, ro_model, installation_date, monthly_rent, enable_monthly_reminder, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = tx.Exec(ctx, query,
		cust.ID,
		cust.SerialNumber,
		cust.Name,
		cust.Address,
		cust.Mobile,
		cust.ROModel,
		cust.InstallationDate,
		cust.MonthlyRent,
		cust.EnableMonthlyReminder,
		cust.CreatedAt,
		cust.UpdatedAt,
	)
	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			r.logger.WarnContext(ctx, "Failed to insert customer due to unique constraint violation", slog.Int64("serialNumber", cust.SerialNumber))
			return fmt.Errorf("%w: serial number %d", apperrors.ErrDuplicateSerial, cust.SerialNumber)
		}
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert customer: %w", apperrors.ErrDatabase, err)
	}

	if err := r.insertPayments(ctx, tx, cust); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit customer insert", slog.Any("error", err))
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Customer inserted successfully", slog.String("customerID", cust.ID))
	return nil
}

func (r *CustomerRepository) insertPayments(ctx context.Context, tx pgx.Tx, cust *customer.Customer) error {
	if len(cust.Payments) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, p := range cust.Payments {
		batch.Queue(insertPaymentSQL, cust.ID, p.Year, p.Month, p.Status, p.PaymentDate, p.Amount, p.Notes)
	}

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < len(cust.Payments); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			r.logger.ErrorContext(ctx, "Failed executing payment batch insert", slog.Any("error", err), slog.Int("entry_index", i))
			return fmt.Errorf("%w: failed inserting payment entry %d: %w", apperrors.ErrDatabase, i+1, err)
		}
	}
	return results.Close()
}

func (r *CustomerRepository) Update(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	r.logger.InfoContext(ctx, "Attempting to update customer", slog.String("customerID", cust.ID))

	query := `
        UPDATE customers
        SET name = $1,
            address = $2,
            mobile = $3,
            ro_model = $4,
            installation_date = $5,
            monthly_rent = $6,
            enable_monthly_reminder = $7,
            updated_at = $8
        WHERE id = $9`

	cmdTag, err := r.db.Exec(ctx, query,
		cust.Name,
		cust.Address,
		cust.Mobile,
		cust.ROModel,
		cust.InstallationDate,
		cust.MonthlyRent,
		cust.EnableMonthlyReminder,
		cust.UpdatedAt,
		cust.ID,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update customer", slog.Any("error", err))
		return fmt.Errorf("%w: failed to update customer: %w", apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Update affected zero rows, customer likely not found")
		return apperrors.ErrNotFound
	}

	r.logger.InfoContext(ctx, "Customer updated successfully")
	return nil
}

// UpdatePayments replaces the customer's entire payment list in one
// transaction. Replacement rather than patching is what keeps read-modify-
// write updates atomic across sessions.
func (r *CustomerRepository) UpdatePayments(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	r.logger.InfoContext(ctx, "Attempting to replace payment list",
		slog.String("customerID", cust.ID), slog.Int("count", len(cust.Payments)))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", slog.Any("error", err))
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM payments WHERE customer_id = $1`, cust.ID); err != nil {
		r.logger.ErrorContext(ctx, "Failed to clear existing payments", slog.Any("error", err))
		return fmt.Errorf("%w: failed to clear existing payments: %w", apperrors.ErrDatabase, err)
	}

	if err := r.insertPayments(ctx, tx, cust); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE customers SET updated_at = $1 WHERE id = $2`, cust.UpdatedAt, cust.ID); err != nil {
		r.logger.ErrorContext(ctx, "Failed to bump customer updated_at", slog.Any("error", err))
		return fmt.Errorf("%w: failed to update customer timestamp: %w", apperrors.ErrDatabase, err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit payment replacement", slog.Any("error", err))
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Payment list replaced successfully", slog.String("customerID", cust.ID))
	return nil
}

const selectCustomerColumns = `id, serial_number, name, address, mobile, ro_model, installation_date, monthly_rent, enable_monthly_reminder, created_at, updated_at`

func scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var cust customer.Customer
	err := row.Scan(
		&cust.ID,
		&cust.SerialNumber,
		&cust.Name,
		&cust.Address,
		&cust.Mobile,
		&cust.ROModel,
		&cust.InstallationDate,
		&cust.MonthlyRent,
		&cust.EnableMonthlyReminder,
		&cust.CreatedAt,
		&cust.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cust, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID string) (*customer.Customer, error) {
	r.logger.DebugContext(ctx, "Attempting to find customer by ID", slog.String("customerID", customerID))

	query := `SELECT ` + selectCustomerColumns + ` FROM customers WHERE id = $1`

	cust, err := scanCustomer(r.db.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Customer not found")
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query/scan customer by ID", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get customer by ID: %w", apperrors.ErrDatabase, err)
	}

	payments, err := r.loadPayments(ctx, customerID)
	if err != nil {
		return nil, err
	}
	cust.Payments = payments
	return cust, nil
}

func (r *CustomerRepository) loadPayments(ctx context.Context, customerID string) ([]billing.Payment, error) {
	query := `
        SELECT year, month, status, payment_date, amount, notes
        FROM payments
        WHERE customer_id = $1
        ORDER BY year ASC, month ASC`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query payments", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query payments: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	payments := make([]billing.Payment, 0)
	for rows.Next() {
		var p billing.Payment
		var notes *string
		if err := rows.Scan(&p.Year, &p.Month, &p.Status, &p.PaymentDate, &p.Amount, &notes); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan payment row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan payment row: %w", apperrors.ErrDatabase, err)
		}
		if notes != nil {
			p.Notes = *notes
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating payment rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating payment rows: %w", apperrors.ErrDatabase, err)
	}
	return payments, nil
}

func (r *CustomerRepository) FindAll(ctx context.Context) ([]*customer.Customer, error) {
	r.logger.DebugContext(ctx, "Attempting to find all customers")

	query := `SELECT ` + selectCustomerColumns + ` FROM customers ORDER BY serial_number ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query customers", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query customers: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	customers := make([]*customer.Customer, 0)
	byID := make(map[string]*customer.Customer)
	for rows.Next() {
		cust, err := scanCustomer(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan customer row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan customer row: %w", apperrors.ErrDatabase, err)
		}
		cust.Payments = make([]billing.Payment, 0)
		customers = append(customers, cust)
		byID[cust.ID] = cust
	}
	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating customer rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating customer rows: %w", apperrors.ErrDatabase, err)
	}

	if len(customers) == 0 {
		return customers, nil
	}

	paymentQuery := `
        SELECT customer_id, year, month, status, payment_date, amount, notes
        FROM payments
        ORDER BY customer_id, year ASC, month ASC`

	paymentRows, err := r.db.Query(ctx, paymentQuery)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query payments for all customers", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query payments: %w", apperrors.ErrDatabase, err)
	}
	defer paymentRows.Close()

	for paymentRows.Next() {
		var customerID string
		var p billing.Payment
		var notes *string
		if err := paymentRows.Scan(&customerID, &p.Year, &p.Month, &p.Status, &p.PaymentDate, &p.Amount, &notes); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan payment row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan payment row: %w", apperrors.ErrDatabase, err)
		}
		if notes != nil {
			p.Notes = *notes
		}
		if cust, ok := byID[customerID]; ok {
			cust.Payments = append(cust.Payments, p)
		}
	}
	if err := paymentRows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating payment rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating payment rows: %w", apperrors.ErrDatabase, err)
	}

	r.logger.DebugContext(ctx, "Finished finding customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (r *CustomerRepository) SerialNumberExists(ctx context.Context, serialNumber int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM customers WHERE serial_number = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, serialNumber).Scan(&exists); err != nil {
		r.logger.ErrorContext(ctx, "Failed to check serial number existence", slog.Any("error", err))
		return false, fmt.Errorf("%w: failed to check serial number: %w", apperrors.ErrDatabase, err)
	}
	return exists, nil
}

// Delete removes the customer and all of its payments in one transaction; no
// orphan payment rows survive.
func (r *CustomerRepository) Delete(ctx context.Context, customerID string) error {
	r.logger.InfoContext(ctx, "Attempting to delete customer", slog.String("customerID", customerID))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", slog.Any("error", err))
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM payments WHERE customer_id = $1`, customerID); err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete customer payments", slog.Any("error", err))
		return fmt.Errorf("%w: failed to delete customer payments: %w", apperrors.ErrDatabase, err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM customers WHERE id = $1`, customerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete customer", slog.Any("error", err))
		return fmt.Errorf("%w: failed to delete customer: %w", apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Delete affected zero rows, customer likely not found")
		return apperrors.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit customer deletion", slog.Any("error", err))
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Customer deleted successfully")
	return nil
}
