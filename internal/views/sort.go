package views

import (
	"sort"

	"github.com/whovibhor/PersonalOS/internal/domain"
)

// sortCanonical orders a bucket in place: incomplete before complete
// (relative to referenceDate), then ascending due date with an absent due
// date sorting last, then most recently created first.
func sortCanonical(tasks []domain.Task, referenceDate string) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		ad, bd := CompletedOn(a, referenceDate), CompletedOn(b, referenceDate)
		if ad != bd {
			return !ad
		}
		adue, bdue := orElse(a.DueDate, MaxDate), orElse(b.DueDate, MaxDate)
		if adue != bdue {
			return adue < bdue
		}
		return a.CreatedAt > b.CreatedAt
	})
}

// sortByDue orders by ascending due date then most recently created,
// ignoring completion.
func sortByDue(tasks []domain.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		adue, bdue := orElse(a.DueDate, MaxDate), orElse(b.DueDate, MaxDate)
		if adue != bdue {
			return adue < bdue
		}
		return a.CreatedAt > b.CreatedAt
	})
}

// sortByCompletion orders most recently completed first. The completion
// moment is completed_at when present, else end-of-day on completed_on;
// ties break on descending updated_at.
func sortByCompletion(tasks []domain.Task) {
	moment := func(t domain.Task) string {
		if t.CompletedAt != nil {
			return *t.CompletedAt
		}
		if t.CompletedOn != nil {
			return *t.CompletedOn + "T23:59:59"
		}
		return ""
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		am, bm := moment(a), moment(b)
		if am != bm {
			return am > bm
		}
		return a.UpdatedAt > b.UpdatedAt
	})
}
