package views

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whovibhor/PersonalOS/internal/domain"
)

var testNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func createdAt(hour int) string {
	return time.Date(2024, 6, 1, hour, 0, 0, 0, time.UTC).Format(time.RFC3339)
}

func TestCompose_TodayBucket(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Title: "due today", DueDate: strp("2024-06-10"), CreatedAt: createdAt(1), UpdatedAt: createdAt(1)},
		{ID: 2, Title: "due tomorrow", DueDate: strp("2024-06-11"), CreatedAt: createdAt(2), UpdatedAt: createdAt(2)},
		// Weekly anchored seven days before today.
		{ID: 3, Title: "weekly standup", Recurrence: domain.RecurrenceWeekly, StartDate: strp("2024-06-03"), DueDate: strp("2024-06-30"), CreatedAt: createdAt(3), UpdatedAt: createdAt(3)},
	}

	snap := Compose(tasks, Options{Mode: ModeToday, Now: testNow})

	ids := taskIDs(snap.Today)
	assert.Contains(t, ids, int64(1))
	assert.Contains(t, ids, int64(3))
	assert.NotContains(t, ids, int64(2))
}

func TestCompose_OngoingBucket(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Title: "multi-day", StartDate: strp("2024-06-08"), DueDate: strp("2024-06-12"), CreatedAt: createdAt(1), UpdatedAt: createdAt(1)},
		{ID: 2, Title: "same-day span", StartDate: strp("2024-06-10"), DueDate: strp("2024-06-10"), CreatedAt: createdAt(2), UpdatedAt: createdAt(2)},
		{ID: 3, Title: "ends today", StartDate: strp("2024-06-08"), DueDate: strp("2024-06-10"), CreatedAt: createdAt(3), UpdatedAt: createdAt(3)},
	}

	snap := Compose(tasks, Options{Mode: ModeToday, Now: testNow})

	assert.Equal(t, []int64{1}, taskIDs(snap.Ongoing))
	// Tasks in the ongoing bucket are not repeated in the main list.
	assert.NotContains(t, taskIDs(snap.List), int64(1))
}

func TestCompose_EditingTaskStaysInList(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Title: "due today", DueDate: strp("2024-06-10"), CreatedAt: createdAt(1), UpdatedAt: createdAt(1)},
	}
	editing := int64(1)

	snap := Compose(tasks, Options{Mode: ModeToday, EditingID: &editing, Now: testNow})

	assert.Contains(t, taskIDs(snap.Today), int64(1))
	assert.Contains(t, taskIDs(snap.List), int64(1))
}

func TestCompose_TodayModePartitionIsExhaustive(t *testing.T) {
	var tasks []domain.Task
	for i := 1; i <= 12; i++ {
		task := domain.Task{
			ID:        int64(i),
			Title:     fmt.Sprintf("task %d", i),
			CreatedAt: createdAt(i),
			UpdatedAt: createdAt(i),
		}
		switch i % 4 {
		case 0:
			task.DueDate = strp("2024-06-10")
		case 1:
			task.DueDate = strp("2024-06-08")
		case 2:
			task.StartDate = strp("2024-06-05")
			task.DueDate = strp("2024-06-15")
		}
		tasks = append(tasks, task)
	}

	snap := Compose(tasks, Options{Mode: ModeToday, Now: testNow})

	seen := map[int64]int{}
	for _, bucket := range [][]domain.Task{snap.Today, snap.Ongoing, snap.List} {
		for _, task := range bucket {
			seen[task.ID]++
		}
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "task %d appears %d times", id, n)
	}
}

func TestCompose_WeekMode(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Title: "in window", DueDate: strp("2024-06-12"), CreatedAt: createdAt(1), UpdatedAt: createdAt(1)},
		{ID: 2, Title: "window edge", DueDate: strp("2024-06-16"), CreatedAt: createdAt(2), UpdatedAt: createdAt(2)},
		{ID: 3, Title: "past window", DueDate: strp("2024-06-17"), CreatedAt: createdAt(3), UpdatedAt: createdAt(3)},
		{ID: 4, Title: "no due date", CreatedAt: createdAt(4), UpdatedAt: createdAt(4)},
	}

	snap := Compose(tasks, Options{Mode: ModeWeek, Now: testNow})

	assert.Equal(t, []int64{1, 2}, taskIDs(snap.List))
	assert.Empty(t, snap.Today)
	assert.Empty(t, snap.Ongoing)
}

func TestCompose_CustomMode(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Title: "on the day", DueDate: strp("2024-06-20"), CreatedAt: createdAt(1), UpdatedAt: createdAt(1)},
		{ID: 2, Title: "daily", Recurrence: domain.RecurrenceDaily, StartDate: strp("2024-06-01"), CreatedAt: createdAt(2), UpdatedAt: createdAt(2)},
		{ID: 3, Title: "other day", DueDate: strp("2024-06-21"), CreatedAt: createdAt(3), UpdatedAt: createdAt(3)},
	}

	snap := Compose(tasks, Options{Mode: ModeCustom, CustomDate: "2024-06-20", Now: testNow})

	assert.Equal(t, "2024-06-20", snap.ReferenceDate)
	assert.Equal(t, []int64{1, 2}, taskIDs(snap.List))
	assert.Len(t, snap.Calendar, 1)
	assert.Equal(t, "2024-06-20", snap.Calendar[0].Date)
}

func TestCompose_CustomModeCompletionReference(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Title: "daily", Recurrence: domain.RecurrenceDaily, StartDate: strp("2024-06-01"), CompletedOn: strp("2024-06-20"), CreatedAt: createdAt(1), UpdatedAt: createdAt(1)},
	}

	snap := Compose(tasks, Options{
		Mode:       ModeCustom,
		CustomDate: "2024-06-20",
		Filters:    Filters{Status: StatusFilterCompleted},
		Now:        testNow,
	})

	assert.Equal(t, []int64{1}, taskIDs(snap.List))
}

func TestCompose_UpcomingPanel(t *testing.T) {
	var tasks []domain.Task
	for i := 1; i <= 10; i++ {
		tasks = append(tasks, domain.Task{
			ID:        int64(i),
			Title:     fmt.Sprintf("future %d", i),
			DueDate:   strp(AddDays("2024-06-10", i)),
			CreatedAt: createdAt(i),
			UpdatedAt: createdAt(i),
		})
	}
	tasks = append(tasks,
		domain.Task{ID: 98, Title: "done", DueDate: strp("2024-06-15"), CompletedAt: strp(createdAt(9)), CreatedAt: createdAt(11), UpdatedAt: createdAt(11)},
		domain.Task{ID: 99, Title: "recurring", Recurrence: domain.RecurrenceDaily, StartDate: strp("2024-06-01"), CreatedAt: createdAt(12), UpdatedAt: createdAt(12)},
	)

	// A restrictive filter must not affect the panel.
	snap := Compose(tasks, Options{Mode: ModeToday, Filters: Filters{Search: "no match"}, Now: testNow})

	require.Len(t, snap.Upcoming, 8)
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8}, taskIDs(snap.Upcoming))
}

func TestCompose_CompletedPanel(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Title: "done today", CompletedAt: strp("2024-06-10T09:00:00Z"), CreatedAt: createdAt(1), UpdatedAt: createdAt(1)},
		{ID: 2, Title: "done later", CompletedAt: strp("2024-06-10T11:00:00Z"), CreatedAt: createdAt(2), UpdatedAt: createdAt(2)},
		{ID: 3, Title: "recurring done today", Recurrence: domain.RecurrenceDaily, StartDate: strp("2024-06-01"), CompletedOn: strp("2024-06-10"), CreatedAt: createdAt(3), UpdatedAt: createdAt(3)},
		{ID: 4, Title: "recurring done yesterday", Recurrence: domain.RecurrenceDaily, StartDate: strp("2024-06-01"), CompletedOn: strp("2024-06-09"), CreatedAt: createdAt(4), UpdatedAt: createdAt(4)},
		{ID: 5, Title: "open", CreatedAt: createdAt(5), UpdatedAt: createdAt(5)},
	}

	snap := Compose(tasks, Options{Mode: ModeToday, Now: testNow})

	// completed_on tasks rank at end-of-day, after any timestamped
	// completion this day.
	assert.Equal(t, []int64{3, 2, 1}, taskIDs(snap.Completed))
}

func TestCompose_BoardColumnsAreExclusive(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Title: "no due", CreatedAt: createdAt(1), UpdatedAt: createdAt(1)},
		{ID: 2, Title: "due today", DueDate: strp("2024-06-10"), CreatedAt: createdAt(2), UpdatedAt: createdAt(2)},
		{ID: 3, Title: "due this week", DueDate: strp("2024-06-13"), CreatedAt: createdAt(3), UpdatedAt: createdAt(3)},
		{ID: 4, Title: "done", DueDate: strp("2024-06-10"), CompletedAt: strp("2024-06-10T08:00:00Z"), CreatedAt: createdAt(4), UpdatedAt: createdAt(4)},
		{ID: 5, Title: "daily", Recurrence: domain.RecurrenceDaily, StartDate: strp("2024-06-01"), CreatedAt: createdAt(5), UpdatedAt: createdAt(5)},
	}

	snap := Compose(tasks, Options{Mode: ModeToday, Now: testNow})

	seen := map[int64]int{}
	for _, col := range [][]domain.Task{snap.Board.Pending, snap.Board.InProgress, snap.Board.Completed} {
		for _, task := range col {
			seen[task.ID]++
		}
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "task %d appears in %d columns", id, n)
	}

	assert.Contains(t, taskIDs(snap.Board.Pending), int64(1))
	assert.Contains(t, taskIDs(snap.Board.Pending), int64(5))
	assert.Contains(t, taskIDs(snap.Board.InProgress), int64(2))
	assert.Contains(t, taskIDs(snap.Board.Completed), int64(4))
	// Out of the today-mode window, so off the board entirely.
	assert.NotContains(t, seen, int64(3))
}

func TestCompose_CalendarWeekGrid(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Title: "due midweek", DueDate: strp("2024-06-12"), CreatedAt: createdAt(1), UpdatedAt: createdAt(1)},
		{ID: 2, Title: "span", StartDate: strp("2024-06-11"), DueDate: strp("2024-06-13"), CreatedAt: createdAt(2), UpdatedAt: createdAt(2)},
		{ID: 3, Title: "daily", Recurrence: domain.RecurrenceDaily, StartDate: strp("2024-06-01"), DueDate: strp("2024-06-30"), CreatedAt: createdAt(3), UpdatedAt: createdAt(3)},
	}

	snap := Compose(tasks, Options{Mode: ModeWeek, Now: testNow})

	require.Len(t, snap.Calendar, 7)
	assert.Equal(t, "2024-06-10", snap.Calendar[0].Date)
	assert.Equal(t, "2024-06-16", snap.Calendar[6].Date)

	byDate := map[string][]int64{}
	for _, day := range snap.Calendar {
		byDate[day.Date] = taskIDs(day.Tasks)
	}
	assert.Contains(t, byDate["2024-06-12"], int64(1))
	assert.NotContains(t, byDate["2024-06-11"], int64(1))
	assert.Contains(t, byDate["2024-06-11"], int64(2))
	assert.Contains(t, byDate["2024-06-13"], int64(2))
	assert.NotContains(t, byDate["2024-06-14"], int64(2))
	for _, day := range snap.Calendar {
		assert.Contains(t, taskIDs(day.Tasks), int64(3))
	}
}

func TestCompose_SortOrder(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Title: "done", DueDate: strp("2024-06-10"), CompletedAt: strp("2024-06-10T08:00:00Z"), CreatedAt: createdAt(1), UpdatedAt: createdAt(1)},
		{ID: 2, Title: "no due", CreatedAt: createdAt(2), UpdatedAt: createdAt(2)},
		{ID: 3, Title: "due sooner", DueDate: strp("2024-06-09"), CreatedAt: createdAt(3), UpdatedAt: createdAt(3)},
		{ID: 4, Title: "due later", DueDate: strp("2024-06-10"), CreatedAt: createdAt(4), UpdatedAt: createdAt(4)},
		{ID: 5, Title: "newer same due", DueDate: strp("2024-06-09"), CreatedAt: createdAt(5), UpdatedAt: createdAt(5)},
	}

	snap := Compose(tasks, Options{Mode: ModeToday, Now: testNow})

	// Tasks due exactly today (1, 4) move to the Today bucket; the main
	// list keeps the rest in canonical order.
	assert.Equal(t, []int64{5, 3, 2}, taskIDs(snap.List))
}

func TestCompose_Insights(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Title: "done", DueDate: strp("2024-06-10"), CompletedAt: strp("2024-06-10T08:00:00Z"), CreatedAt: createdAt(1), UpdatedAt: createdAt(1)},
		{ID: 2, Title: "open", DueDate: strp("2024-06-10"), CreatedAt: createdAt(2), UpdatedAt: createdAt(2)},
		{ID: 3, Title: "open ongoing", StartDate: strp("2024-06-08"), DueDate: strp("2024-06-12"), CreatedAt: createdAt(3), UpdatedAt: createdAt(3)},
	}

	snap := Compose(tasks, Options{Mode: ModeToday, Now: testNow})

	assert.Equal(t, 3, snap.Insights.Total)
	assert.Equal(t, 1, snap.Insights.Done)
	assert.Equal(t, 2, snap.Insights.Pending)
	assert.Equal(t, 33, snap.Insights.PercentDone)
}

func TestCompose_Countdowns(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Title: "due today", DueDate: strp("2024-06-10"), CreatedAt: createdAt(1), UpdatedAt: createdAt(1)},
		{ID: 2, Title: "done", DueDate: strp("2024-06-10"), CompletedAt: strp("2024-06-10T08:00:00Z"), CreatedAt: createdAt(2), UpdatedAt: createdAt(2)},
		{ID: 3, Title: "no due date", CreatedAt: createdAt(3), UpdatedAt: createdAt(3)},
	}

	snap := Compose(tasks, Options{Mode: ModeToday, Now: testNow})

	assert.Equal(t, "11h 59m left", snap.Countdowns[1])
	assert.NotContains(t, snap.Countdowns, int64(2))
	assert.NotContains(t, snap.Countdowns, int64(3))
}

func taskIDs(tasks []domain.Task) []int64 {
	ids := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}
