package calculator

import "time"

// Weekly transaction caps per customer, per Monday-Sunday window.
const (
	WeeklyDepositLimit    = 5
	WeeklyWithdrawalLimit = 2
)

// WeeklyLimit returns the weekly cap for the given transaction type, or 0
// for an unknown type.
func WeeklyLimit(txnType string) int {
	switch txnType {
	case "deposit":
		return WeeklyDepositLimit
	case "withdrawal":
		return WeeklyWithdrawalLimit
	}
	return 0
}

// StartOfDay truncates t to midnight of its calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// WeekRange returns the Monday-Sunday window containing t: Monday 00:00:00.000
// through Sunday 23:59:59.999 in t's location.
func WeekRange(t time.Time) (start, end time.Time) {
	day := StartOfDay(t)
	// time.Weekday numbers Sunday as 0.
	diffToMonday := -6
	if wd := int(day.Weekday()); wd != 0 {
		diffToMonday = 1 - wd
	}
	start = day.AddDate(0, 0, diffToMonday)
	end = endOfWeek(start)
	return start, end
}

// YearWeek returns the window for the weekIndex-th Monday-Sunday week of the
// year, counting from the first Monday on or after January 1.
func YearWeek(year, weekIndex int, loc *time.Location) (start, end time.Time) {
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	daysToMonday := 0
	switch wd := int(jan1.Weekday()); wd {
	case 0: // Sunday
		daysToMonday = 1
	case 1: // already Monday
		daysToMonday = 0
	default:
		daysToMonday = 8 - wd
	}
	start = jan1.AddDate(0, 0, daysToMonday+weekIndex*7)
	end = endOfWeek(start)
	return start, end
}

func endOfWeek(monday time.Time) time.Time {
	sunday := monday.AddDate(0, 0, 6)
	return time.Date(sunday.Year(), sunday.Month(), sunday.Day(),
		23, 59, 59, int(999*time.Millisecond), sunday.Location())
}
