package views

import (
	"strings"

	"github.com/whovibhor/PersonalOS/internal/domain"
)

// ActiveInRange reports whether a task has at least one occurrence inside
// the inclusive window [rangeStart, rangeEnd] (YYYY-MM-DD dates).
//
// Non-recurring tasks are active when their effective span overlaps the
// window, open ends treated as unbounded. Recurring tasks are first
// bound-checked against the same span, then matched per kind: daily is
// always active, weekly when rangeStart sits a non-negative whole multiple
// of seven days from the anchor, monthly when the day-of-month of
// rangeStart equals the anchor's. Multi-day windows are bound-checked
// only; the cadence test always runs against rangeStart.
func ActiveInRange(t domain.Task, rangeStart, rangeEnd string) bool {
	start := orElse(t.StartDate, MinDate)
	due := orElse(t.DueDate, MaxDate)
	if start > rangeEnd || due < rangeStart {
		return false
	}
	if !t.IsRecurring() {
		return true
	}
	switch t.Recurrence {
	case domain.RecurrenceDaily:
		return true
	case domain.RecurrenceWeekly:
		if t.StartDate == nil || *t.StartDate == "" {
			return false
		}
		diff := daysBetween(*t.StartDate, rangeStart)
		return diff >= 0 && diff%7 == 0
	case domain.RecurrenceMonthly:
		if t.StartDate == nil || *t.StartDate == "" {
			return false
		}
		return dayOfMonth(rangeStart) == dayOfMonth(*t.StartDate)
	}
	return false
}

// CompletedOn reports whether the task's occurrence on referenceDate is
// done. Recurring tasks track completion per day via completed_on;
// non-recurring tasks are done once completed_at is set, regardless of
// the reference date.
func CompletedOn(t domain.Task, referenceDate string) bool {
	if t.IsRecurring() {
		return t.CompletedOn != nil && *t.CompletedOn == referenceDate
	}
	return t.CompletedAt != nil
}

const (
	StatusFilterAll       = "all"
	StatusFilterPending   = "pending"
	StatusFilterCompleted = "completed"
)

// Filters is the active filter set. Zero values never exclude: empty
// Status means all, empty Category means all, Priority 0 means any,
// empty Labels and Search match everything.
type Filters struct {
	Search   string   `json:"search,omitempty"`
	Status   string   `json:"status,omitempty" enum:"all,pending,completed"`
	Category string   `json:"category,omitempty"`
	Priority int      `json:"priority,omitempty"`
	Labels   []string `json:"labels,omitempty"`
}

// MatchesFilters evaluates the filter conjunction against one task.
// completionReferenceDate scopes the status check via CompletedOn.
func MatchesFilters(t domain.Task, f Filters, completionReferenceDate string) bool {
	switch f.Status {
	case StatusFilterPending:
		if CompletedOn(t, completionReferenceDate) {
			return false
		}
	case StatusFilterCompleted:
		if !CompletedOn(t, completionReferenceDate) {
			return false
		}
	}

	if f.Category != "" && f.Category != StatusFilterAll {
		if orElse(t.Category, "") != f.Category {
			return false
		}
	}

	if f.Priority != 0 && t.Priority != f.Priority {
		return false
	}

	if len(f.Labels) > 0 {
		hit := false
		for _, want := range f.Labels {
			for _, have := range t.Labels {
				if strings.EqualFold(want, have) {
					hit = true
					break
				}
			}
			if hit {
				break
			}
		}
		if !hit {
			return false
		}
	}

	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		hay := strings.ToLower(strings.Join([]string{
			t.Title,
			orElse(t.Description, ""),
			orElse(t.Category, ""),
			strings.Join(t.Labels, " "),
		}, " "))
		if !strings.Contains(hay, q) {
			return false
		}
	}

	return true
}
