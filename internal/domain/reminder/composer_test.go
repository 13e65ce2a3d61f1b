package reminder_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rotrack/internal/domain/billing"
	"rotrack/internal/domain/customer"
	"rotrack/internal/domain/reminder"
	"rotrack/internal/domain/settings"
	"rotrack/internal/pkg/timeutil"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, timeutil.IST)
}

func newTestCustomer(t *testing.T, installDate time.Time, rent int64, enableMonthly bool, now time.Time) *customer.Customer {
	t.Helper()
	cust, err := customer.NewCustomer(1, "Ramesh Kumar", "12 MG Road", "9876543210", "Aqua Pure X",
		installDate, rent, enableMonthly, billing.DefaultHorizonYears, now)
	require.NoError(t, err)
	return cust
}

func markPaidThrough(cust *customer.Customer, until billing.MonthKey, when time.Time, rent int64) {
	for i := range cust.Payments {
		p := &cust.Payments[i]
		if p.Key().Before(until) || p.Key() == until {
			p.Status = billing.StatusPaid
			p.PaymentDate = &when
		}
	}
}

func TestCompose(t *testing.T) {
	appSettings := settings.AppSettings{PaymentLink: "https://pay.example.com/ro"}

	t.Run("consolidates all overdue months into one urgent reminder", func(t *testing.T) {
		now := date(2024, time.June, 1)
		cust := newTestCustomer(t, date(2023, time.January, 15), 300, false, now)

		r := reminder.Compose(cust, timeutil.StartOfDay(now), appSettings)

		require.NotNil(t, r)
		assert.Equal(t, reminder.TypeOverdue, r.Type)
		// Jan 2023 through May 2024, all unpaid: 17 months at 300.
		assert.Contains(t, r.Message, "₹5100")
		assert.Contains(t, r.Message, "January 2023")
		assert.Contains(t, r.Message, "May 2024")
		assert.NotContains(t, r.Message, "June 2024")
		assert.Contains(t, r.Message, "URGENT")
		assert.Contains(t, r.Message, "https://pay.example.com/ro")
		assert.Contains(t, r.MessageHi, "₹5100")
		assert.Contains(t, r.MessageHi, "जनवरी 2023")
	})

	t.Run("friendly monthly reminder on the installation anniversary day", func(t *testing.T) {
		now := date(2024, time.June, 15)
		cust := newTestCustomer(t, date(2023, time.January, 15), 300, true, now)
		markPaidThrough(cust, billing.MonthKey{Year: 2024, Month: 4}, now, 300)

		r := reminder.Compose(cust, timeutil.StartOfDay(now), appSettings)

		require.NotNil(t, r)
		assert.Equal(t, reminder.TypeMonthly, r.Type)
		assert.Contains(t, r.Message, "June 2024")
		assert.Contains(t, r.Message, "₹300")
		assert.Contains(t, r.Message, "friendly reminder")
		assert.NotContains(t, r.Message, "URGENT")
	})

	t.Run("no reminder when everything is settled", func(t *testing.T) {
		now := date(2024, time.June, 1)
		cust := newTestCustomer(t, date(2023, time.January, 15), 300, false, now)
		markPaidThrough(cust, billing.MonthKey{Year: 2024, Month: 4}, now, 300)

		assert.Nil(t, reminder.Compose(cust, timeutil.StartOfDay(now), appSettings))
	})

	t.Run("monthly trigger requires an exact day match", func(t *testing.T) {
		now := date(2024, time.June, 16)
		cust := newTestCustomer(t, date(2023, time.January, 15), 300, true, now)
		markPaidThrough(cust, billing.MonthKey{Year: 2024, Month: 4}, now, 300)

		assert.Nil(t, reminder.Compose(cust, timeutil.StartOfDay(now), appSettings))
	})

	t.Run("monthly trigger requires opt-in", func(t *testing.T) {
		now := date(2024, time.June, 15)
		cust := newTestCustomer(t, date(2023, time.January, 15), 300, false, now)
		markPaidThrough(cust, billing.MonthKey{Year: 2024, Month: 4}, now, 300)

		assert.Nil(t, reminder.Compose(cust, timeutil.StartOfDay(now), appSettings))
	})

	t.Run("overdue months and current month combine without duplication", func(t *testing.T) {
		now := date(2024, time.June, 15)
		cust := newTestCustomer(t, date(2023, time.January, 15), 300, true, now)
		markPaidThrough(cust, billing.MonthKey{Year: 2024, Month: 3}, now, 300)
		// May 2024 overdue plus June 2024 due today: 2 months at 300.

		r := reminder.Compose(cust, timeutil.StartOfDay(now), appSettings)

		require.NotNil(t, r)
		assert.Equal(t, reminder.TypeOverdue, r.Type)
		assert.Contains(t, r.Message, "May 2024, June 2024")
		assert.Contains(t, r.Message, "₹600")
	})

	t.Run("customers with an empty schedule are skipped silently", func(t *testing.T) {
		now := date(2024, time.June, 1)
		cust := newTestCustomer(t, date(2023, time.January, 15), 300, true, now)
		cust.Payments = nil

		assert.Nil(t, reminder.Compose(cust, timeutil.StartOfDay(now), appSettings))
		assert.Nil(t, reminder.Compose(nil, timeutil.StartOfDay(now), appSettings))
	})

	t.Run("placeholder link when settings are unset", func(t *testing.T) {
		now := date(2024, time.June, 1)
		cust := newTestCustomer(t, date(2023, time.January, 15), 300, false, now)

		r := reminder.Compose(cust, timeutil.StartOfDay(now), settings.AppSettings{})

		require.NotNil(t, r)
		assert.Contains(t, r.Message, settings.PaymentLinkPlaceholder)
	})

	t.Run("reminder ID is stable for a given customer and day", func(t *testing.T) {
		now := date(2024, time.June, 1)
		today := timeutil.StartOfDay(now)
		cust := newTestCustomer(t, date(2023, time.January, 15), 300, false, now)

		first := reminder.Compose(cust, today, appSettings)
		second := reminder.Compose(cust, today, appSettings)

		require.NotNil(t, first)
		require.NotNil(t, second)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, fmt.Sprintf("%s-consolidated-%d", cust.ID, today.UnixMilli()), first.ID)
	})
}

func TestGenerateDaily(t *testing.T) {
	appSettings := settings.AppSettings{PaymentLink: "https://pay.example.com/ro"}
	now := date(2024, time.June, 1)

	overdueCust := newTestCustomer(t, date(2023, time.January, 15), 300, false, now)

	settledCust := newTestCustomer(t, date(2023, time.January, 10), 400, false, now)
	markPaidThrough(settledCust, billing.MonthKey{Year: 2024, Month: 4}, now, 400)

	anotherOverdue := newTestCustomer(t, date(2024, time.March, 5), 500, false, now)

	reminders := reminder.GenerateDaily(
		[]*customer.Customer{overdueCust, settledCust, anotherOverdue},
		appSettings, now,
	)

	require.Len(t, reminders, 2)
	assert.Equal(t, overdueCust.ID, reminders[0].CustomerID)
	assert.Equal(t, anotherOverdue.ID, reminders[1].CustomerID)
	for _, r := range reminders {
		assert.Equal(t, reminder.TypeOverdue, r.Type)
		assert.NotEmpty(t, r.Message)
		assert.NotEmpty(t, r.MessageHi)
	}
}
