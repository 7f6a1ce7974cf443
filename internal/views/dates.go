package views

import "time"

const DayLayout = "2006-01-02"

// Open ends of an effective span. Both are valid YYYY-MM-DD strings and
// compare correctly under lexical ordering.
const (
	MinDate = "0000-01-01"
	MaxDate = "9999-12-31"
)

// DateOf formats a moment as the local calendar date.
func DateOf(now time.Time) string {
	return now.Format(DayLayout)
}

// AddDays shifts a YYYY-MM-DD date by n calendar days.
func AddDays(day string, n int) string {
	t, err := time.ParseInLocation(DayLayout, day, time.UTC)
	if err != nil {
		return day
	}
	return t.AddDate(0, 0, n).Format(DayLayout)
}

// daysBetween returns the whole number of days from one date to another,
// negative when to precedes from.
func daysBetween(from, to string) int {
	a, err := time.ParseInLocation(DayLayout, from, time.UTC)
	if err != nil {
		return 0
	}
	b, err := time.ParseInLocation(DayLayout, to, time.UTC)
	if err != nil {
		return 0
	}
	return int(b.Sub(a).Hours() / 24)
}

func dayOfMonth(day string) int {
	t, err := time.ParseInLocation(DayLayout, day, time.UTC)
	if err != nil {
		return 0
	}
	return t.Day()
}

func orElse(d *string, fallback string) string {
	if d == nil || *d == "" {
		return fallback
	}
	return *d
}
