package billing

import (
	"time"

	"rotrack/internal/pkg/timeutil"
)

// Classify returns the display status for a payment record as of today.
//
// Paid records stay Paid regardless of dates. An unpaid record is Overdue
// once the last instant of its calendar month has passed the start of today,
// otherwise Pending. The Overdue label is computed on every read and never
// written back; persisting it would go stale as "now" advances.
func Classify(p Payment, today time.Time) PaymentStatus {
	if p.Status == StatusPaid {
		return StatusPaid
	}
	endOfMonth := timeutil.EndOfMonth(p.Year, p.Month, today.Location())
	if endOfMonth.Before(timeutil.StartOfDay(today)) {
		return StatusOverdue
	}
	return StatusPending
}

// IsOverdue reports whether the record is strictly overdue as of today.
func IsOverdue(p Payment, today time.Time) bool {
	return Classify(p, today) == StatusOverdue
}
