package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rotrack/internal/domain/billing"
	"rotrack/internal/domain/customer"
	"rotrack/internal/domain/settings"
	"rotrack/internal/infrastructure/database/memory"
	"rotrack/internal/pkg/apperrors"
	"rotrack/internal/pkg/timeutil"
)

var testNow = time.Date(2024, time.June, 1, 10, 0, 0, 0, timeutil.IST)

func newCustomerFixture(t *testing.T, serial int64, name string) *customer.Customer {
	t.Helper()
	cust, err := customer.NewCustomer(serial, name, "12 MG Road", "9876543210", "Aqua Pure X",
		time.Date(2024, time.January, 15, 0, 0, 0, 0, timeutil.IST), 300, false, billing.DefaultHorizonYears, testNow)
	require.NoError(t, err)
	return cust
}

func TestSave(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and retrieves a customer", func(t *testing.T) {
		repo := memory.NewRepository()
		cust := newCustomerFixture(t, 101, "Ramesh Kumar")

		require.NoError(t, repo.Save(ctx, cust))

		found, err := repo.FindByID(ctx, cust.ID)
		require.NoError(t, err)
		assert.Equal(t, cust.SerialNumber, found.SerialNumber)
		assert.Len(t, found.Payments, len(cust.Payments))
	})

	t.Run("rejects a duplicate ID", func(t *testing.T) {
		repo := memory.NewRepository()
		cust := newCustomerFixture(t, 101, "Ramesh Kumar")

		require.NoError(t, repo.Save(ctx, cust))
		err := repo.Save(ctx, cust)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	})

	t.Run("rejects a duplicate serial number", func(t *testing.T) {
		repo := memory.NewRepository()
		require.NoError(t, repo.Save(ctx, newCustomerFixture(t, 101, "Ramesh Kumar")))

		err := repo.Save(ctx, newCustomerFixture(t, 101, "Sita Devi"))
		assert.ErrorIs(t, err, apperrors.ErrDuplicateSerial)
	})

	t.Run("rejects nil", func(t *testing.T) {
		repo := memory.NewRepository()
		assert.ErrorIs(t, repo.Save(ctx, nil), apperrors.ErrInvalidArgument)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("updates descriptive fields but never the payment list", func(t *testing.T) {
		repo := memory.NewRepository()
		cust := newCustomerFixture(t, 101, "Ramesh Kumar")
		require.NoError(t, repo.Save(ctx, cust))

		modified := *cust
		modified.Name = "Ramesh K"
		modified.Payments = []billing.Payment{{Year: 1999, Month: 0, Status: billing.StatusPaid}}

		require.NoError(t, repo.Update(ctx, &modified))

		found, err := repo.FindByID(ctx, cust.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ramesh K", found.Name)
		assert.Len(t, found.Payments, len(cust.Payments))
	})

	t.Run("returns not found for unknown customer", func(t *testing.T) {
		repo := memory.NewRepository()
		cust := newCustomerFixture(t, 101, "Ramesh Kumar")
		assert.ErrorIs(t, repo.Update(ctx, cust), apperrors.ErrNotFound)
	})
}

func TestUpdatePayments(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the whole payment list", func(t *testing.T) {
		repo := memory.NewRepository()
		cust := newCustomerFixture(t, 101, "Ramesh Kumar")
		require.NoError(t, repo.Save(ctx, cust))

		modified := *cust
		modified.Payments = []billing.Payment{{Year: 2024, Month: 0, Status: billing.StatusPaid}}

		require.NoError(t, repo.UpdatePayments(ctx, &modified))

		found, err := repo.FindByID(ctx, cust.ID)
		require.NoError(t, err)
		require.Len(t, found.Payments, 1)
		assert.Equal(t, billing.StatusPaid, found.Payments[0].Status)
	})

	t.Run("returns not found for unknown customer", func(t *testing.T) {
		repo := memory.NewRepository()
		cust := newCustomerFixture(t, 101, "Ramesh Kumar")
		assert.ErrorIs(t, repo.UpdatePayments(ctx, cust), apperrors.ErrNotFound)
	})
}

func TestFindAll(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()

	require.NoError(t, repo.Save(ctx, newCustomerFixture(t, 103, "Gita")))
	require.NoError(t, repo.Save(ctx, newCustomerFixture(t, 101, "Ramesh")))
	require.NoError(t, repo.Save(ctx, newCustomerFixture(t, 102, "Sita")))

	customers, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 3)
	assert.Equal(t, int64(101), customers[0].SerialNumber)
	assert.Equal(t, int64(102), customers[1].SerialNumber)
	assert.Equal(t, int64(103), customers[2].SerialNumber)
}

func TestSerialNumberExists(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	require.NoError(t, repo.Save(ctx, newCustomerFixture(t, 101, "Ramesh")))

	exists, err := repo.SerialNumberExists(ctx, 101)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.SerialNumberExists(ctx, 999)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	cust := newCustomerFixture(t, 101, "Ramesh")
	require.NoError(t, repo.Save(ctx, cust))

	require.NoError(t, repo.Delete(ctx, cust.ID))

	_, err := repo.FindByID(ctx, cust.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, cust.ID), apperrors.ErrNotFound)
}

func TestSettingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.AppSettings{}, loaded)

	require.NoError(t, repo.Store(ctx, settings.AppSettings{PaymentLink: "https://pay.example.com/ro"}))

	loaded, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/ro", loaded.PaymentLink)
}

func TestCallersNeverShareMemoryWithTheStore(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	cust := newCustomerFixture(t, 101, "Ramesh")
	require.NoError(t, repo.Save(ctx, cust))

	// Mutating the caller's copy after Save must not leak into the store.
	cust.Name = "changed outside"
	cust.Payments[0].Status = billing.StatusPaid

	found, err := repo.FindByID(ctx, cust.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ramesh", found.Name)
	assert.Equal(t, billing.StatusPending, found.Payments[0].Status)

	// Likewise for reads: mutating a returned copy leaves the store intact.
	found.Payments[0].Status = billing.StatusPaid
	again, err := repo.FindByID(ctx, cust.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusPending, again.Payments[0].Status)
}
