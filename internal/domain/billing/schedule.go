package billing

import (
	"sort"
	"time"
)

// GenerateSchedule produces one Pending payment record per month, from the
// installation month through December of now's year plus yearsAhead. The first
// year starts at the installation month; months before installation are never
// created. A yearsAhead <= 0 falls back to DefaultHorizonYears.
//
// The result is a pure function of (installDate, now's year, yearsAhead) and
// may legitimately be empty when the installation date lies beyond the cutoff.
// Callers extending an existing schedule must merge, never replace, so paid
// records survive regeneration (see MergeSchedule).
func GenerateSchedule(installDate, now time.Time, yearsAhead int) []Payment {
	if yearsAhead <= 0 {
		yearsAhead = DefaultHorizonYears
	}
	endYear := now.Year() + yearsAhead

	var payments []Payment
	for year := installDate.Year(); year <= endYear; year++ {
		startMonth := 0
		if year == installDate.Year() {
			startMonth = int(installDate.Month()) - 1
		}
		for month := startMonth; month < 12; month++ {
			payments = append(payments, Payment{
				Year:   year,
				Month:  month,
				Status: StatusPending,
			})
		}
	}
	return payments
}

// MergeSchedule unions an existing payment list with a freshly generated one.
// Existing records win on collision so paid history is never overwritten; new
// months are appended in chronological order.
func MergeSchedule(existing, generated []Payment) []Payment {
	seen := make(map[MonthKey]struct{}, len(existing))
	merged := make([]Payment, 0, len(existing)+len(generated))
	for _, p := range existing {
		seen[p.Key()] = struct{}{}
		merged = append(merged, p)
	}
	for _, p := range generated {
		if _, ok := seen[p.Key()]; ok {
			continue
		}
		merged = append(merged, p)
	}
	SortChronological(merged)
	return merged
}

// SortChronological orders payments by year ascending, then month ascending.
func SortChronological(payments []Payment) {
	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].Key().Before(payments[j].Key())
	})
}
