package calculator

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekRange(t *testing.T) {
	tests := []struct {
		name      string
		in        time.Time
		wantStart time.Time
	}{
		{
			name:      "monday maps to itself",
			in:        date(2025, time.June, 16), // Monday
			wantStart: date(2025, time.June, 16),
		},
		{
			name:      "wednesday maps back to monday",
			in:        time.Date(2025, time.June, 18, 14, 30, 0, 0, time.UTC),
			wantStart: date(2025, time.June, 16),
		},
		{
			name:      "sunday belongs to the preceding monday",
			in:        date(2025, time.June, 22),
			wantStart: date(2025, time.June, 16),
		},
		{
			name:      "window spans a month boundary",
			in:        date(2025, time.July, 1), // Tuesday
			wantStart: date(2025, time.June, 30),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := WeekRange(tt.in)
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			wantEnd := tt.wantStart.AddDate(0, 0, 6).Add(23*time.Hour + 59*time.Minute + 59*time.Second + 999*time.Millisecond)
			if !end.Equal(wantEnd) {
				t.Errorf("end = %v, want %v", end, wantEnd)
			}
			if end.Weekday() != time.Sunday {
				t.Errorf("end weekday = %v, want Sunday", end.Weekday())
			}
		})
	}
}

func TestYearWeek(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		weekIndex int
		wantStart time.Time
	}{
		{
			name:      "2024 starts on a monday",
			year:      2024, // Jan 1 2024 is a Monday
			weekIndex: 0,
			wantStart: date(2024, time.January, 1),
		},
		{
			name:      "2025 first monday is jan 6",
			year:      2025, // Jan 1 2025 is a Wednesday
			weekIndex: 0,
			wantStart: date(2025, time.January, 6),
		},
		{
			name:      "2023 starts on a sunday",
			year:      2023, // Jan 1 2023 is a Sunday
			weekIndex: 0,
			wantStart: date(2023, time.January, 2),
		},
		{
			name:      "week index advances by whole weeks",
			year:      2025,
			weekIndex: 10,
			wantStart: date(2025, time.March, 17),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := YearWeek(tt.year, tt.weekIndex, time.UTC)
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if start.Weekday() != time.Monday {
				t.Errorf("start weekday = %v, want Monday", start.Weekday())
			}
			if end.Sub(start) != 6*24*time.Hour+23*time.Hour+59*time.Minute+59*time.Second+999*time.Millisecond {
				t.Errorf("unexpected window length: %v to %v", start, end)
			}
		})
	}
}

// Consecutive week indexes must partition the year: every day lands in
// exactly one window with no overlap and no gap.
func TestYearWeekPartition(t *testing.T) {
	year := 2025
	var prevEnd time.Time
	for week := 0; week < 53; week++ {
		start, end := YearWeek(year, week, time.UTC)
		if week > 0 {
			if got := start.Sub(prevEnd); got != time.Millisecond {
				t.Fatalf("week %d: gap between windows = %v, want 1ms", week, got)
			}
		}
		if !end.After(start) {
			t.Fatalf("week %d: end %v not after start %v", week, end, start)
		}
		prevEnd = end
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	b := time.Date(2025, time.March, 3, 23, 59, 59, 0, time.UTC)
	c := time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC)

	if !SameDay(a, b) {
		t.Error("expected same calendar day for different times of day")
	}
	if SameDay(b, c) {
		t.Error("expected different calendar days across midnight")
	}
}

func TestWeeklyLimit(t *testing.T) {
	if got := WeeklyLimit("deposit"); got != 5 {
		t.Errorf("deposit limit = %d, want 5", got)
	}
	if got := WeeklyLimit("withdrawal"); got != 2 {
		t.Errorf("withdrawal limit = %d, want 2", got)
	}
	if got := WeeklyLimit("bonus"); got != 0 {
		t.Errorf("unknown type limit = %d, want 0", got)
	}
}
