package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/whovibhor/PersonalOS/internal/db"
	"github.com/whovibhor/PersonalOS/internal/domain"
	"github.com/whovibhor/PersonalOS/internal/engine"
	"github.com/whovibhor/PersonalOS/internal/migrate"
	"github.com/whovibhor/PersonalOS/internal/repo"
	"github.com/whovibhor/PersonalOS/internal/views"
)

type testEnv struct {
	Engine engine.Engine
	Ctx    context.Context
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	conn, err := db.Open(db.Config{Workspace: dir})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	eng := engine.New(conn)
	eng.Now = func() time.Time { return time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC) }
	return testEnv{Engine: eng, Ctx: context.Background()}
}

func strp(s string) *string { return &s }

func boolp(b bool) *bool { return &b }

func TestCreateTaskDefaults(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "write weekly report"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if task.Priority != domain.PriorityMedium {
		t.Fatalf("expected medium priority, got %d", task.Priority)
	}
	if task.Status != domain.StatusTodo {
		t.Fatalf("expected todo status, got %s", task.Status)
	}
	if len(task.Labels) != 0 {
		t.Fatalf("expected no labels")
	}
}

func TestCreateTaskValidation(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{}); err == nil {
		t.Fatalf("expected title error")
	}
	if _, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "x", Priority: 5}); err == nil {
		t.Fatalf("expected priority error")
	}
	if _, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "x", Recurrence: "hourly"}); err == nil {
		t.Fatalf("expected recurrence error")
	}
	if _, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "x", DueDate: strp("10/06/2024")}); err == nil {
		t.Fatalf("expected date format error")
	}
}

func TestCreateTaskNormalizesLabels(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{
		Title:  "plan sprint",
		Labels: []string{" Deep  Work ", "deep work", "Team"},
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if len(task.Labels) != 2 || task.Labels[0] != "Deep Work" || task.Labels[1] != "Team" {
		t.Fatalf("unexpected labels %v", task.Labels)
	}
}

func TestToggleCompleteNonRecurring(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "pay rent", DueDate: strp("2024-06-10")})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	task, err = env.Engine.UpdateTask(env.Ctx, task.ID, engine.TaskPatch{Completed: boolp(true)})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if task.CompletedAt == nil || task.Status != domain.StatusDone {
		t.Fatalf("expected completed_at set and done status")
	}
	if task.CompletedOn != nil {
		t.Fatalf("completed_on must stay unset for non-recurring tasks")
	}

	task, err = env.Engine.UpdateTask(env.Ctx, task.ID, engine.TaskPatch{Completed: boolp(false)})
	if err != nil {
		t.Fatalf("uncomplete: %v", err)
	}
	if task.CompletedAt != nil || task.Status == domain.StatusDone {
		t.Fatalf("expected completion cleared")
	}
}

func TestToggleCompleteRecurring(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{
		Title:      "morning run",
		Recurrence: domain.RecurrenceDaily,
		StartDate:  strp("2024-06-01"),
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	task, err = env.Engine.UpdateTask(env.Ctx, task.ID, engine.TaskPatch{Completed: boolp(true)})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if task.CompletedOn == nil || *task.CompletedOn != "2024-06-10" {
		t.Fatalf("expected completed_on = today, got %v", task.CompletedOn)
	}
	if task.CompletedAt != nil {
		t.Fatalf("completed_at must stay unset for recurring tasks")
	}

	// A later toggle for another day replaces the single remembered
	// occurrence.
	task, err = env.Engine.UpdateTask(env.Ctx, task.ID, engine.TaskPatch{Completed: boolp(true), CompletedOn: strp("2024-06-11")})
	if err != nil {
		t.Fatalf("complete second day: %v", err)
	}
	if *task.CompletedOn != "2024-06-11" {
		t.Fatalf("expected completed_on replaced, got %s", *task.CompletedOn)
	}

	task, err = env.Engine.UpdateTask(env.Ctx, task.ID, engine.TaskPatch{Completed: boolp(false)})
	if err != nil {
		t.Fatalf("uncomplete: %v", err)
	}
	if task.CompletedOn != nil {
		t.Fatalf("expected completed_on cleared")
	}
}

func TestListTasksTodayView(t *testing.T) {
	env := newTestEnv(t)
	mk := func(opts engine.TaskCreateOptions) domain.Task {
		t.Helper()
		task, err := env.Engine.CreateTask(env.Ctx, opts)
		if err != nil {
			t.Fatalf("create task: %v", err)
		}
		return task
	}
	due := mk(engine.TaskCreateOptions{Title: "due today", DueDate: strp("2024-06-10")})
	past := mk(engine.TaskCreateOptions{Title: "overdue", DueDate: strp("2024-06-01")})
	future := mk(engine.TaskCreateOptions{Title: "next week", DueDate: strp("2024-06-17")})
	daily := mk(engine.TaskCreateOptions{Title: "daily", Recurrence: domain.RecurrenceDaily, StartDate: strp("2024-06-01")})

	tasks, err := env.Engine.ListTasks(env.Ctx, "today")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	ids := map[int64]bool{}
	for _, task := range tasks {
		ids[task.ID] = true
	}
	if !ids[due.ID] || !ids[past.ID] || !ids[daily.ID] {
		t.Fatalf("missing expected tasks in today view: %v", ids)
	}
	if ids[future.ID] {
		t.Fatalf("future task must not be in today view")
	}

	all, err := env.Engine.ListTasks(env.Ctx, "all")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 tasks, got %d", len(all))
	}
	for _, task := range all {
		if task.ID == past.ID && task.Status != domain.StatusOverdue {
			t.Fatalf("expected overdue status for past task, got %s", task.Status)
		}
	}
}

func TestTaskHistory(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "track me"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.Engine.UpdateTask(env.Ctx, task.ID, engine.TaskPatch{Completed: boolp(true)}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := env.Engine.DeleteTask(env.Ctx, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	hist, err := env.Engine.ListTaskHistory(env.Ctx, 50)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 3 {
		t.Fatalf("expected 3 history rows, got %d", len(hist))
	}
	actions := map[string]bool{}
	for _, h := range hist {
		actions[h.Action] = true
		if h.TaskTitle != "track me" {
			t.Fatalf("unexpected title %s", h.TaskTitle)
		}
	}
	for _, want := range []string{"created", "completed", "deleted"} {
		if !actions[want] {
			t.Fatalf("missing %s action", want)
		}
	}
}

func TestDeleteTaskNotFound(t *testing.T) {
	env := newTestEnv(t)
	err := env.Engine.DeleteTask(env.Ctx, 42)
	if !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskViews(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "due today", DueDate: strp("2024-06-10")}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "spanning", StartDate: strp("2024-06-08"), DueDate: strp("2024-06-12")}); err != nil {
		t.Fatal(err)
	}

	snap, err := env.Engine.TaskViews(env.Ctx, views.Options{Mode: views.ModeToday})
	if err != nil {
		t.Fatalf("views: %v", err)
	}
	if len(snap.Today) != 1 || snap.Today[0].Title != "due today" {
		t.Fatalf("unexpected today bucket: %+v", snap.Today)
	}
	if len(snap.Ongoing) != 1 || snap.Ongoing[0].Title != "spanning" {
		t.Fatalf("unexpected ongoing bucket: %+v", snap.Ongoing)
	}
}

func TestHabitCRUD(t *testing.T) {
	env := newTestEnv(t)
	h, err := env.Engine.CreateHabit(env.Ctx, "read", "")
	if err != nil {
		t.Fatalf("create habit: %v", err)
	}
	if h.Frequency != "daily" {
		t.Fatalf("expected daily default, got %s", h.Frequency)
	}
	h, err = env.Engine.UpdateHabit(env.Ctx, h.ID, strp("read books"), strp("weekly"))
	if err != nil || h.Name != "read books" || h.Frequency != "weekly" {
		t.Fatalf("update habit: %v %+v", err, h)
	}
	if err := env.Engine.DeleteHabit(env.Ctx, h.ID); err != nil {
		t.Fatalf("delete habit: %v", err)
	}
	habits, err := env.Engine.ListHabits(env.Ctx)
	if err != nil || len(habits) != 0 {
		t.Fatalf("expected empty habit list")
	}
}

func TestNoteCRUD(t *testing.T) {
	env := newTestEnv(t)
	n, err := env.Engine.CreateNote(env.Ctx, "ideas", "try the new approach")
	if err != nil {
		t.Fatalf("create note: %v", err)
	}
	if n.ID == "" {
		t.Fatalf("expected generated id")
	}
	n, err = env.Engine.UpdateNote(env.Ctx, n.ID, nil, strp("revised"))
	if err != nil || n.Content != "revised" {
		t.Fatalf("update note: %v", err)
	}
	notes, err := env.Engine.ListNotes(env.Ctx)
	if err != nil || len(notes) != 1 {
		t.Fatalf("list notes: %v", err)
	}
	if err := env.Engine.DeleteNote(env.Ctx, n.ID); err != nil {
		t.Fatalf("delete note: %v", err)
	}
}

func TestExpenseCreateDefaults(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.Engine.CreateExpense(env.Ctx, 0, "", nil, ""); err == nil {
		t.Fatalf("expected amount error")
	}
	exp, err := env.Engine.CreateExpense(env.Ctx, 120.50, "", nil, "")
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}
	if exp.Category != "general" || exp.SpentOn != "2024-06-10" {
		t.Fatalf("unexpected defaults %+v", exp)
	}
}
