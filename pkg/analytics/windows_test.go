package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLastNDays(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	since, until := LastNDays(now, 30)
	assert.Equal(t, now, until)
	assert.Equal(t, now.Add(-30*24*time.Hour), since)
}

func TestPreviousMonthIsAlwaysComplete(t *testing.T) {
	now := time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC)

	since, until := PreviousMonth(now)
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), since)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), until)
}

func TestPreviousMonthAcrossYearBoundary(t *testing.T) {
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	since, until := PreviousMonth(now)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), since)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), until)
}

func TestMonthKeyZeroPadded(t *testing.T) {
	assert.Equal(t, "2026-03", MonthKey(2026, 3))
	assert.Equal(t, "2026-11", MonthKey(2026, 11))

	// lexical order equals chronological order
	assert.Less(t, MonthKey(2026, 9), MonthKey(2026, 10))
}
