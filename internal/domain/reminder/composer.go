package reminder

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"rotrack/internal/domain/billing"
	"rotrack/internal/domain/customer"
	"rotrack/internal/domain/settings"
	"rotrack/internal/pkg/timeutil"
)

// Compose builds the consolidated reminder for one customer as of today, or
// returns nil when nothing is due. today must already be normalized to
// start-of-day by the caller.
//
// A reminder covers the union of all truly overdue months and, when the
// customer opted in and today's day-of-month matches the installation day
// exactly, the current month's unpaid record. The current month is dropped if
// the overdue set already contains it (happens when generation runs right
// after a month boundary). Customers with an empty payment list are skipped
// silently.
//
// The total is count-of-months times the customer's current monthly rent. It
// deliberately ignores any historical per-payment amount, so a rent change
// retroactively reprices old dues; inherited behavior, kept as is.
func Compose(cust *customer.Customer, today time.Time, appSettings settings.AppSettings) *Reminder {
	if cust == nil || len(cust.Payments) == 0 {
		return nil
	}

	var overdue []billing.MonthKey
	for _, p := range cust.Payments {
		if billing.IsOverdue(p, today) {
			overdue = append(overdue, p.Key())
		}
	}

	monthsToRemind := append([]billing.MonthKey(nil), overdue...)
	if current, ok := currentMonthDue(cust, today); ok {
		duplicate := false
		for _, m := range monthsToRemind {
			if m == current {
				duplicate = true
				break
			}
		}
		if !duplicate {
			monthsToRemind = append(monthsToRemind, current)
		}
	}

	if len(monthsToRemind) == 0 {
		return nil
	}

	sort.Slice(monthsToRemind, func(i, j int) bool {
		return monthsToRemind[i].Before(monthsToRemind[j])
	})

	totalAmountDue := int64(len(monthsToRemind)) * cust.MonthlyRent

	reminderType := TypeMonthly
	if len(overdue) > 0 {
		reminderType = TypeOverdue
	}

	message, messageHi := renderMessages(
		cust.Name,
		joinMonths(monthsToRemind, monthNames[:]),
		joinMonths(monthsToRemind, monthNamesHi[:]),
		totalAmountDue,
		paymentLinkOrPlaceholder(appSettings),
		reminderType,
	)

	return &Reminder{
		ID:             fmt.Sprintf("%s-consolidated-%d", cust.ID, today.UnixMilli()),
		CustomerID:     cust.ID,
		CustomerName:   cust.Name,
		CustomerMobile: cust.Mobile,
		Type:           reminderType,
		Message:        message,
		MessageHi:      messageHi,
	}
}

// currentMonthDue decides whether this month's rent should be included today.
// The trigger is an exact day-of-month match with the installation day, not
// "on or after": a unit installed on the 31st never triggers in short months.
// Inherited behavior, kept as is.
func currentMonthDue(cust *customer.Customer, today time.Time) (billing.MonthKey, bool) {
	if !cust.EnableMonthlyReminder {
		return billing.MonthKey{}, false
	}
	if today.Day() != cust.InstallationDate.Day() {
		return billing.MonthKey{}, false
	}

	key := billing.MonthKey{Year: today.Year(), Month: int(today.Month()) - 1}
	p := cust.PaymentFor(key.Year, key.Month)
	if p == nil || p.Status == billing.StatusPaid {
		return billing.MonthKey{}, false
	}
	return key, true
}

func joinMonths(months []billing.MonthKey, names []string) string {
	parts := make([]string, len(months))
	for i, m := range months {
		parts[i] = fmt.Sprintf("%s %d", names[m.Month], m.Year)
	}
	return strings.Join(parts, ", ")
}

// GenerateDaily produces the day's consolidated reminder list, one per
// customer with something due, preserving the input customer order. It is a
// pure function of its inputs and the invocation instant.
func GenerateDaily(customers []*customer.Customer, appSettings settings.AppSettings, now time.Time) []Reminder {
	today := timeutil.StartOfDay(now)

	var reminders []Reminder
	for _, cust := range customers {
		if r := Compose(cust, today, appSettings); r != nil {
			reminders = append(reminders, *r)
		}
	}
	return reminders
}
