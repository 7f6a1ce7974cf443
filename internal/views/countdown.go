package views

import (
	"fmt"
	"time"
)

// TickInterval is how often live countdown displays are recomputed.
const TickInterval = 30 * time.Second

// FormatCountdown renders the time remaining until end of day on dueDate
// as a short human string. Past due reads "Due"; under an hour, minutes
// are rounded up with a floor of one; under a day, hours and minutes;
// beyond that, whole days rounded up.
func FormatCountdown(dueDate string, now time.Time) string {
	end, err := time.ParseInLocation(DayLayout+"T15:04:05", dueDate+"T23:59:59", now.Location())
	if err != nil {
		return ""
	}
	diff := end.Sub(now)
	if diff < 0 {
		return "Due"
	}
	if diff < time.Hour {
		mins := int((diff + time.Minute - 1) / time.Minute)
		if mins < 1 {
			mins = 1
		}
		return fmt.Sprintf("%dm left", mins)
	}
	if diff < 24*time.Hour {
		hours := int(diff / time.Hour)
		mins := int((diff % time.Hour) / time.Minute)
		return fmt.Sprintf("%dh %dm left", hours, mins)
	}
	days := int((diff + 24*time.Hour - 1) / (24 * time.Hour))
	if days == 1 {
		return "1 day left"
	}
	return fmt.Sprintf("%d days left", days)
}
