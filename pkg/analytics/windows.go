package analytics

import (
	"fmt"
	"time"
)

// LastNDays returns the half-open window [now − n·24h, now). This is the
// rolling-window semantic shared by every "last N days" aggregation.
func LastNDays(now time.Time, n int) (since, until time.Time) {
	return now.Add(-time.Duration(n) * 24 * time.Hour), now
}

// PreviousMonth returns the most recently completed calendar month as the
// half-open window [first of previous month, first of current month). The
// current partial month is never included.
func PreviousMonth(now time.Time) (since, until time.Time) {
	firstOfCurrent := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return firstOfCurrent.AddDate(0, -1, 0), firstOfCurrent
}

// MonthKey formats a calendar month as "YYYY-MM" with zero padding, so
// lexical order equals chronological order.
func MonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
