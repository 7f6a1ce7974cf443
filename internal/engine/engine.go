package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/whovibhor/PersonalOS/internal/domain"
	"github.com/whovibhor/PersonalOS/internal/history"
	"github.com/whovibhor/PersonalOS/internal/repo"
	"github.com/whovibhor/PersonalOS/internal/views"
)

type Engine struct {
	DB      *sql.DB
	Repo    repo.Repo
	History history.Writer
	Now     func() time.Time
}

func New(db *sql.DB) Engine {
	return Engine{
		DB:   db,
		Repo: repo.Repo{DB: db},
		Now:  time.Now,
	}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Engine) timestamp() string {
	return e.now().UTC().Format(time.RFC3339)
}

func (e Engine) today() string {
	return views.DateOf(e.now())
}

func (e Engine) historyWriter() history.Writer {
	w := e.History
	if w.Now == nil {
		w.Now = e.Now
	}
	return w
}

const maxTitleLen = 200

func validDate(s string) bool {
	_, err := time.Parse(views.DayLayout, s)
	return err == nil
}

func validateDatePtr(name string, v *string) error {
	if v != nil && *v != "" && !validDate(*v) {
		return fmt.Errorf("%s must be YYYY-MM-DD", name)
	}
	return nil
}

func validRecurrence(r string) bool {
	switch r {
	case domain.RecurrenceNone, domain.RecurrenceDaily, domain.RecurrenceWeekly, domain.RecurrenceMonthly:
		return true
	}
	return false
}

// TaskCreateOptions are parameters for creating a task.
type TaskCreateOptions struct {
	Title            string
	Description      *string
	Category         *string
	Assignee         *string
	Labels           []string
	Priority         int
	Recurrence       string
	StartDate        *string
	DueDate          *string
	EstimatedMinutes *int
}

func (e Engine) CreateTask(ctx context.Context, opts TaskCreateOptions) (domain.Task, error) {
	if opts.Title == "" {
		return domain.Task{}, errors.New("title is required")
	}
	if len(opts.Title) > maxTitleLen {
		return domain.Task{}, fmt.Errorf("title exceeds %d characters", maxTitleLen)
	}
	if opts.Priority == 0 {
		opts.Priority = domain.PriorityMedium
	}
	if opts.Priority < domain.PriorityLow || opts.Priority > domain.PriorityHigh {
		return domain.Task{}, errors.New("priority must be 1, 2 or 3")
	}
	if !validRecurrence(opts.Recurrence) {
		return domain.Task{}, fmt.Errorf("invalid recurrence %q", opts.Recurrence)
	}
	if err := validateDatePtr("start_date", opts.StartDate); err != nil {
		return domain.Task{}, err
	}
	if err := validateDatePtr("due_date", opts.DueDate); err != nil {
		return domain.Task{}, err
	}

	now := e.timestamp()
	t := domain.Task{
		Title:            opts.Title,
		Description:      opts.Description,
		Category:         opts.Category,
		Assignee:         opts.Assignee,
		Labels:           views.NormalizeLabels(opts.Labels),
		Priority:         opts.Priority,
		Recurrence:       opts.Recurrence,
		StartDate:        opts.StartDate,
		DueDate:          opts.DueDate,
		EstimatedMinutes: opts.EstimatedMinutes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Task{}, err
	}
	defer tx.Rollback()

	id, err := e.Repo.InsertTask(ctx, tx, t)
	if err != nil {
		return domain.Task{}, fmt.Errorf("insert task: %w", err)
	}
	t.ID = id
	if err := e.historyWriter().Append(ctx, tx, id, "created", t.Title, nil); err != nil {
		return domain.Task{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Task{}, err
	}
	t.Status = domain.DeriveStatus(t, e.today())
	return t, nil
}

// TaskPatch carries a partial update; nil fields are left untouched.
// Clearing an optional text or date field is done by sending an empty
// string. Completed toggles the completion state for the reference date
// (CompletedOn when given, today otherwise).
type TaskPatch struct {
	Title            *string
	Description      *string
	Category         *string
	Assignee         *string
	Labels           *[]string
	Priority         *int
	Recurrence       *string
	StartDate        *string
	DueDate          *string
	EstimatedMinutes *int
	Completed        *bool
	CompletedOn      *string
}

func (e Engine) UpdateTask(ctx context.Context, id int64, patch TaskPatch) (domain.Task, error) {
	t, err := e.Repo.GetTask(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}

	changes := history.Changes{}
	if patch.Title != nil && *patch.Title != t.Title {
		if *patch.Title == "" {
			return domain.Task{}, errors.New("title is required")
		}
		if len(*patch.Title) > maxTitleLen {
			return domain.Task{}, fmt.Errorf("title exceeds %d characters", maxTitleLen)
		}
		changes["title"] = *patch.Title
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		changes["description"] = *patch.Description
		t.Description = patch.Description
	}
	if patch.Category != nil {
		changes["category"] = *patch.Category
		t.Category = patch.Category
	}
	if patch.Assignee != nil {
		changes["assignee"] = *patch.Assignee
		t.Assignee = patch.Assignee
	}
	if patch.Labels != nil {
		t.Labels = views.NormalizeLabels(*patch.Labels)
		changes["labels"] = t.Labels
	}
	if patch.Priority != nil {
		if *patch.Priority < domain.PriorityLow || *patch.Priority > domain.PriorityHigh {
			return domain.Task{}, errors.New("priority must be 1, 2 or 3")
		}
		changes["priority"] = *patch.Priority
		t.Priority = *patch.Priority
	}
	if patch.Recurrence != nil {
		if !validRecurrence(*patch.Recurrence) {
			return domain.Task{}, fmt.Errorf("invalid recurrence %q", *patch.Recurrence)
		}
		changes["recurrence"] = *patch.Recurrence
		t.Recurrence = *patch.Recurrence
	}
	if patch.StartDate != nil {
		if err := validateDatePtr("start_date", patch.StartDate); err != nil {
			return domain.Task{}, err
		}
		changes["start_date"] = *patch.StartDate
		t.StartDate = patch.StartDate
	}
	if patch.DueDate != nil {
		if err := validateDatePtr("due_date", patch.DueDate); err != nil {
			return domain.Task{}, err
		}
		changes["due_date"] = *patch.DueDate
		t.DueDate = patch.DueDate
	}
	if patch.EstimatedMinutes != nil {
		changes["estimated_minutes"] = *patch.EstimatedMinutes
		t.EstimatedMinutes = patch.EstimatedMinutes
	}

	action := "updated"
	if patch.Completed != nil {
		refDate := e.today()
		if patch.CompletedOn != nil && *patch.CompletedOn != "" {
			if !validDate(*patch.CompletedOn) {
				return domain.Task{}, errors.New("completed_on must be YYYY-MM-DD")
			}
			refDate = *patch.CompletedOn
		}
		if *patch.Completed {
			action = "completed"
			if t.IsRecurring() {
				t.CompletedOn = &refDate
			} else {
				ts := e.timestamp()
				t.CompletedAt = &ts
			}
			changes["completed"] = true
		} else {
			action = "uncompleted"
			if t.IsRecurring() {
				t.CompletedOn = nil
			} else {
				t.CompletedAt = nil
			}
			changes["completed"] = false
		}
	}

	t.UpdatedAt = e.timestamp()

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Task{}, err
	}
	defer tx.Rollback()

	if err := e.Repo.UpdateTask(ctx, tx, t); err != nil {
		return domain.Task{}, err
	}
	if err := e.historyWriter().Append(ctx, tx, t.ID, action, t.Title, changes); err != nil {
		return domain.Task{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Task{}, err
	}
	t.Status = domain.DeriveStatus(t, e.today())
	return t, nil
}

func (e Engine) DeleteTask(ctx context.Context, id int64) error {
	t, err := e.Repo.GetTask(ctx, id)
	if err != nil {
		return err
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := e.Repo.DeleteTask(ctx, tx, id); err != nil {
		return err
	}
	if err := e.historyWriter().Append(ctx, tx, id, "deleted", t.Title, nil); err != nil {
		return err
	}
	return tx.Commit()
}

func (e Engine) GetTask(ctx context.Context, id int64) (domain.Task, error) {
	t, err := e.Repo.GetTask(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	t.Status = domain.DeriveStatus(t, e.today())
	return t, nil
}

// ListTasks returns the full authoritative collection with derived
// status. view restricts to tasks relevant today when set to "today".
func (e Engine) ListTasks(ctx context.Context, view string) ([]domain.Task, error) {
	tasks, err := e.Repo.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	today := e.today()
	for i := range tasks {
		tasks[i].Status = domain.DeriveStatus(tasks[i], today)
	}
	if view != "today" {
		return tasks, nil
	}
	out := []domain.Task{}
	for _, t := range tasks {
		if t.IsRecurring() {
			if views.ActiveInRange(t, today, today) {
				out = append(out, t)
			}
			continue
		}
		if t.DueDate == nil || *t.DueDate <= today {
			out = append(out, t)
		}
	}
	return out, nil
}

// TaskViews composes the dashboard snapshot from the current collection.
func (e Engine) TaskViews(ctx context.Context, opts views.Options) (views.Snapshot, error) {
	tasks, err := e.ListTasks(ctx, "all")
	if err != nil {
		return views.Snapshot{}, err
	}
	if opts.Now.IsZero() {
		opts.Now = e.now()
	}
	return views.Compose(tasks, opts), nil
}

func (e Engine) ListTaskHistory(ctx context.Context, limit int) ([]domain.TaskHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	return e.Repo.ListTaskHistory(ctx, limit)
}
