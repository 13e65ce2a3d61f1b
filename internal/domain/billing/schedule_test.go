package billing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rotrack/internal/domain/billing"
	"rotrack/internal/pkg/timeutil"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, timeutil.IST)
}

func TestGenerateSchedule(t *testing.T) {
	t.Run("starts at the installation month", func(t *testing.T) {
		payments := billing.GenerateSchedule(date(2023, time.May, 10), date(2024, time.June, 1), 5)

		require.NotEmpty(t, payments)
		assert.Equal(t, 2023, payments[0].Year)
		assert.Equal(t, 4, payments[0].Month) // May, zero-based

		// 2023: May..Dec = 8 months, then 2024..2029 full years.
		assert.Len(t, payments, 8+6*12)
	})

	t.Run("extends through December of current year plus horizon", func(t *testing.T) {
		payments := billing.GenerateSchedule(date(2023, time.January, 15), date(2024, time.June, 1), 5)

		last := payments[len(payments)-1]
		assert.Equal(t, 2029, last.Year)
		assert.Equal(t, 11, last.Month)
		assert.Len(t, payments, 7*12)
	})

	t.Run("every record starts Pending with no payment details", func(t *testing.T) {
		payments := billing.GenerateSchedule(date(2024, time.March, 1), date(2024, time.March, 1), 1)

		for _, p := range payments {
			assert.Equal(t, billing.StatusPending, p.Status)
			assert.Nil(t, p.PaymentDate)
			assert.Nil(t, p.Amount)
		}
	})

	t.Run("installation beyond the cutoff yields an empty schedule", func(t *testing.T) {
		payments := billing.GenerateSchedule(date(2040, time.January, 1), date(2024, time.June, 1), 5)
		assert.Empty(t, payments)
	})

	t.Run("non-positive horizon falls back to the default", func(t *testing.T) {
		withDefault := billing.GenerateSchedule(date(2024, time.January, 1), date(2024, time.June, 1), 0)
		explicit := billing.GenerateSchedule(date(2024, time.January, 1), date(2024, time.June, 1), billing.DefaultHorizonYears)
		assert.Equal(t, explicit, withDefault)
	})
}

func TestMergeSchedule(t *testing.T) {
	t.Run("existing records win on collision", func(t *testing.T) {
		when := date(2024, time.February, 3)
		amount := decimal.NewFromInt(300)
		existing := []billing.Payment{
			{Year: 2024, Month: 0, Status: billing.StatusPaid, PaymentDate: &when, Amount: &amount},
		}
		generated := []billing.Payment{
			{Year: 2024, Month: 0, Status: billing.StatusPending},
			{Year: 2024, Month: 1, Status: billing.StatusPending},
		}

		merged := billing.MergeSchedule(existing, generated)

		require.Len(t, merged, 2)
		assert.Equal(t, billing.StatusPaid, merged[0].Status)
		assert.NotNil(t, merged[0].PaymentDate)
		assert.Equal(t, billing.StatusPending, merged[1].Status)
	})

	t.Run("result is chronologically sorted", func(t *testing.T) {
		existing := []billing.Payment{
			{Year: 2024, Month: 5, Status: billing.StatusPending},
			{Year: 2023, Month: 11, Status: billing.StatusPaid},
		}
		generated := []billing.Payment{
			{Year: 2024, Month: 0, Status: billing.StatusPending},
		}

		merged := billing.MergeSchedule(existing, generated)

		require.Len(t, merged, 3)
		assert.Equal(t, billing.MonthKey{Year: 2023, Month: 11}, merged[0].Key())
		assert.Equal(t, billing.MonthKey{Year: 2024, Month: 0}, merged[1].Key())
		assert.Equal(t, billing.MonthKey{Year: 2024, Month: 5}, merged[2].Key())
	})

	t.Run("merging a re-anchored schedule never duplicates months", func(t *testing.T) {
		existing := billing.GenerateSchedule(date(2023, time.June, 1), date(2024, time.January, 1), 1)
		generated := billing.GenerateSchedule(date(2023, time.January, 1), date(2024, time.January, 1), 1)

		merged := billing.MergeSchedule(existing, generated)

		seen := make(map[billing.MonthKey]int)
		for _, p := range merged {
			seen[p.Key()]++
		}
		for key, count := range seen {
			assert.Equalf(t, 1, count, "month %v appears %d times", key, count)
		}
	})
}

func TestClassify(t *testing.T) {
	today := date(2024, time.June, 1)

	t.Run("paid stays paid regardless of dates", func(t *testing.T) {
		p := billing.Payment{Year: 2020, Month: 0, Status: billing.StatusPaid}
		assert.Equal(t, billing.StatusPaid, billing.Classify(p, today))
	})

	t.Run("unpaid past month is overdue", func(t *testing.T) {
		p := billing.Payment{Year: 2024, Month: 4, Status: billing.StatusPending} // May 2024
		assert.Equal(t, billing.StatusOverdue, billing.Classify(p, today))
		assert.True(t, billing.IsOverdue(p, today))
	})

	t.Run("unpaid current month is pending", func(t *testing.T) {
		p := billing.Payment{Year: 2024, Month: 5, Status: billing.StatusPending} // June 2024
		assert.Equal(t, billing.StatusPending, billing.Classify(p, today))
	})

	t.Run("unpaid future month is pending", func(t *testing.T) {
		p := billing.Payment{Year: 2025, Month: 0, Status: billing.StatusPending}
		assert.Equal(t, billing.StatusPending, billing.Classify(p, today))
	})

	t.Run("month becomes overdue only after its last day has passed", func(t *testing.T) {
		p := billing.Payment{Year: 2024, Month: 4, Status: billing.StatusPending} // May 2024

		lastDayOfMay := date(2024, time.May, 31)
		assert.Equal(t, billing.StatusPending, billing.Classify(p, lastDayOfMay))

		firstOfJune := date(2024, time.June, 1)
		assert.Equal(t, billing.StatusOverdue, billing.Classify(p, firstOfJune))
	})

	t.Run("February boundary respects leap years", func(t *testing.T) {
		p := billing.Payment{Year: 2024, Month: 1, Status: billing.StatusPending} // Feb 2024

		assert.Equal(t, billing.StatusPending, billing.Classify(p, date(2024, time.February, 29)))
		assert.Equal(t, billing.StatusOverdue, billing.Classify(p, date(2024, time.March, 1)))
	})
}

func TestPaymentTransitions(t *testing.T) {
	t.Run("MarkPaid stamps date and amount", func(t *testing.T) {
		p := billing.Payment{Year: 2024, Month: 2, Status: billing.StatusPending}
		when := date(2024, time.March, 10)
		amount := decimal.NewFromInt(450)

		p.MarkPaid(when, amount, "paid in cash")

		assert.Equal(t, billing.StatusPaid, p.Status)
		require.NotNil(t, p.PaymentDate)
		assert.True(t, p.PaymentDate.Equal(when))
		require.NotNil(t, p.Amount)
		assert.True(t, p.Amount.Equal(amount))
		assert.Equal(t, "paid in cash", p.Notes)
	})

	t.Run("MarkPending clears payment details", func(t *testing.T) {
		p := billing.Payment{Year: 2024, Month: 2, Status: billing.StatusPending}
		p.MarkPaid(date(2024, time.March, 10), decimal.NewFromInt(450), "")
		p.MarkPending("")

		assert.Equal(t, billing.StatusPending, p.Status)
		assert.Nil(t, p.PaymentDate)
		assert.Nil(t, p.Amount)
	})
}
