package views

import (
	"time"

	"github.com/whovibhor/PersonalOS/internal/domain"
)

type DateMode string

const (
	ModeToday  DateMode = "today"
	ModeWeek   DateMode = "week"
	ModeCustom DateMode = "custom"
)

const panelCap = 8

// Options selects the window and filter state a Snapshot is composed for.
type Options struct {
	Mode       DateMode
	CustomDate string
	Filters    Filters
	// EditingID pins a task so it is never hidden from the main list by
	// the today/ongoing dedup while it is being edited.
	EditingID *int64
	Now       time.Time
}

type BoardColumns struct {
	Pending    []domain.Task `json:"pending"`
	InProgress []domain.Task `json:"in_progress"`
	Completed  []domain.Task `json:"completed"`
}

type CalendarDay struct {
	Date  string        `json:"date"`
	Tasks []domain.Task `json:"tasks"`
}

type Insights struct {
	Total       int `json:"total"`
	Done        int `json:"done"`
	Pending     int `json:"pending"`
	PercentDone int `json:"percent_done"`
}

// Snapshot is every bucket the dashboard renders, derived in one pass
// from the full task collection.
type Snapshot struct {
	ReferenceDate string        `json:"reference_date"`
	Today         []domain.Task `json:"today"`
	Ongoing       []domain.Task `json:"ongoing"`
	List          []domain.Task `json:"list"`
	Upcoming      []domain.Task `json:"upcoming"`
	Completed     []domain.Task `json:"completed"`
	Board         BoardColumns  `json:"board"`
	Calendar      []CalendarDay `json:"calendar"`
	Insights      Insights      `json:"insights"`
	// Countdowns maps task id to a live due-countdown string for every
	// incomplete task carrying a due date.
	Countdowns map[int64]string `json:"countdowns,omitempty"`
}

// Compose partitions the task collection into every bucket for the given
// date-mode and filter state. Predicates are pure; the only clock input
// is opts.Now.
func Compose(tasks []domain.Task, opts Options) Snapshot {
	today := DateOf(opts.Now)

	mode := opts.Mode
	if mode != ModeWeek && mode != ModeCustom {
		mode = ModeToday
	}
	custom := opts.CustomDate
	if custom == "" {
		custom = today
	}

	// Completion is evaluated against the custom day when browsing a
	// custom date, otherwise against today.
	refDate := today
	if mode == ModeCustom {
		refDate = custom
	}

	inWindow := func(t domain.Task) bool {
		if t.IsRecurring() {
			switch mode {
			case ModeCustom:
				return ActiveInRange(t, custom, custom)
			case ModeWeek:
				return ActiveInRange(t, today, AddDays(today, 6))
			default:
				return ActiveInRange(t, today, today)
			}
		}
		switch mode {
		case ModeCustom:
			return t.DueDate != nil && *t.DueDate == custom
		case ModeWeek:
			return t.DueDate != nil && *t.DueDate >= today && *t.DueDate <= AddDays(today, 6)
		default:
			return t.DueDate == nil || *t.DueDate <= today
		}
	}

	passes := func(t domain.Task) bool {
		return MatchesFilters(t, opts.Filters, refDate)
	}

	var filtered []domain.Task
	for _, t := range tasks {
		if inWindow(t) && passes(t) {
			filtered = append(filtered, t)
		}
	}
	sortCanonical(filtered, refDate)

	snap := Snapshot{ReferenceDate: refDate}

	if mode == ModeToday {
		for _, t := range tasks {
			if !passes(t) {
				continue
			}
			if t.IsRecurring() {
				if ActiveInRange(t, today, today) {
					snap.Today = append(snap.Today, t)
				}
				continue
			}
			if t.DueDate != nil && *t.DueDate == today {
				snap.Today = append(snap.Today, t)
			}
		}
		sortCanonical(snap.Today, refDate)

		for _, t := range tasks {
			if t.IsRecurring() || CompletedOn(t, today) {
				continue
			}
			if opts.Filters.Status == StatusFilterCompleted {
				continue
			}
			if t.StartDate == nil || t.DueDate == nil {
				continue
			}
			if *t.StartDate >= *t.DueDate {
				continue
			}
			if *t.StartDate <= today && *t.DueDate > today && passes(t) {
				snap.Ongoing = append(snap.Ongoing, t)
			}
		}
		sortCanonical(snap.Ongoing, refDate)

		hidden := make(map[int64]bool, len(snap.Today)+len(snap.Ongoing))
		for _, t := range snap.Today {
			hidden[t.ID] = true
		}
		for _, t := range snap.Ongoing {
			hidden[t.ID] = true
		}
		if opts.EditingID != nil {
			delete(hidden, *opts.EditingID)
		}
		for _, t := range filtered {
			if !hidden[t.ID] {
				snap.List = append(snap.List, t)
			}
		}
	} else {
		snap.List = filtered
	}

	// Side panels ignore date-mode and filters.
	for _, t := range tasks {
		if t.IsRecurring() || t.CompletedAt != nil {
			continue
		}
		if t.DueDate != nil && *t.DueDate > today {
			snap.Upcoming = append(snap.Upcoming, t)
		}
	}
	sortByDue(snap.Upcoming)
	if len(snap.Upcoming) > panelCap {
		snap.Upcoming = snap.Upcoming[:panelCap]
	}

	for _, t := range tasks {
		if CompletedOn(t, today) {
			snap.Completed = append(snap.Completed, t)
		}
	}
	sortByCompletion(snap.Completed)
	if len(snap.Completed) > panelCap {
		snap.Completed = snap.Completed[:panelCap]
	}

	snap.Board = composeBoard(filtered, today)
	snap.Calendar = composeCalendar(tasks, opts.Filters, refDate, mode, custom, today)

	visible := append([]domain.Task{}, snap.List...)
	if mode == ModeToday {
		visible = append(visible, snap.Today...)
		visible = append(visible, snap.Ongoing...)
	}
	snap.Insights = composeInsights(visible, refDate)

	snap.Countdowns = make(map[int64]string)
	for _, t := range tasks {
		if t.DueDate == nil || CompletedOn(t, refDate) {
			continue
		}
		snap.Countdowns[t.ID] = FormatCountdown(*t.DueDate, opts.Now)
	}

	return snap
}

// composeBoard classifies the filtered list into exactly one column per
// task: completed today, else in progress (non-recurring, due within the
// next week), else pending when it has no due date, a future due date, or
// recurs. Overdue incomplete tasks land in no column.
func composeBoard(filtered []domain.Task, today string) BoardColumns {
	var b BoardColumns
	weekEnd := AddDays(today, 6)
	for _, t := range filtered {
		switch {
		case CompletedOn(t, today):
			b.Completed = append(b.Completed, t)
		case !t.IsRecurring() && t.DueDate != nil && *t.DueDate >= today && *t.DueDate <= weekEnd:
			b.InProgress = append(b.InProgress, t)
		case t.DueDate == nil || *t.DueDate > today || t.IsRecurring():
			b.Pending = append(b.Pending, t)
		}
	}
	return b
}

func composeCalendar(tasks []domain.Task, f Filters, refDate string, mode DateMode, custom, today string) []CalendarDay {
	anchor := today
	span := 7
	if mode == ModeCustom {
		anchor = custom
		span = 1
	}

	days := make([]CalendarDay, 0, span)
	for i := 0; i < span; i++ {
		d := AddDays(anchor, i)
		day := CalendarDay{Date: d}
		for _, t := range tasks {
			if !MatchesFilters(t, f, refDate) {
				continue
			}
			if t.IsRecurring() {
				if ActiveInRange(t, d, d) {
					day.Tasks = append(day.Tasks, t)
				}
				continue
			}
			if t.DueDate != nil && *t.DueDate == d {
				day.Tasks = append(day.Tasks, t)
				continue
			}
			if t.StartDate != nil && t.DueDate != nil && *t.StartDate <= d && *t.DueDate >= d {
				day.Tasks = append(day.Tasks, t)
			}
		}
		sortCanonical(day.Tasks, refDate)
		days = append(days, day)
	}
	return days
}

func composeInsights(visible []domain.Task, refDate string) Insights {
	seen := make(map[int64]bool, len(visible))
	var in Insights
	for _, t := range visible {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		in.Total++
		if CompletedOn(t, refDate) {
			in.Done++
		} else {
			in.Pending++
		}
	}
	if in.Total > 0 {
		in.PercentDone = in.Done * 100 / in.Total
	}
	return in
}
