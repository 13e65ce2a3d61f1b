package timeutil

import "time"

// IST is the Indian Standard Time location (UTC+5:30). All billing dates are
// anchored to it so month boundaries match the customer's calendar.
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// Now returns the current time in IST.
func Now() time.Time {
	return time.Now().In(IST)
}

// StartOfDay truncates t to 00:00:00 in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns the last instant of the given calendar month. month is
// zero-based (0 = January) to match the stored payment record format. Day 0 of
// the following month normalizes to the last day of this one, so variable
// month lengths and leap years come out right.
func EndOfMonth(year, month int, loc *time.Location) time.Time {
	return time.Date(year, time.Month(month+2), 0, 23, 59, 59, int(time.Second-time.Nanosecond), loc)
}

// DateKey formats t as YYYY-MM-DD, the format used for cache keys and CSV.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
