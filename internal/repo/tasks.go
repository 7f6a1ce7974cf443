package repo

import (
	"context"
	"database/sql"

	"github.com/whovibhor/PersonalOS/internal/domain"
)

const taskColumns = `id,title,description,category,assignee,labels,priority,recurrence,start_date,due_date,estimated_minutes,completed_at,completed_on,created_at,updated_at`

func scanTask(scan func(dest ...any) error) (domain.Task, error) {
	var t domain.Task
	var desc, category, assignee, startDate, dueDate, completedAt, completedOn sql.NullString
	var labels string
	var estimate sql.NullInt64
	err := scan(&t.ID, &t.Title, &desc, &category, &assignee, &labels, &t.Priority, &t.Recurrence,
		&startDate, &dueDate, &estimate, &completedAt, &completedOn, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return t, ErrNotFound
	}
	if err != nil {
		return t, err
	}
	t.Description = strPtr(desc)
	t.Category = strPtr(category)
	t.Assignee = strPtr(assignee)
	t.Labels = decodeLabels(labels)
	t.StartDate = strPtr(startDate)
	t.DueDate = strPtr(dueDate)
	t.EstimatedMinutes = intPtr(estimate)
	t.CompletedAt = strPtr(completedAt)
	t.CompletedOn = strPtr(completedOn)
	return t, nil
}

func (r Repo) InsertTask(ctx context.Context, tx *sql.Tx, t domain.Task) (int64, error) {
	res, err := tx.ExecContext(ctx, `INSERT INTO tasks(title,description,category,assignee,labels,priority,recurrence,start_date,due_date,estimated_minutes,completed_at,completed_on,created_at,updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		t.Title, nullableStringPtr(t.Description), nullableStringPtr(t.Category), nullableStringPtr(t.Assignee),
		encodeLabels(t.Labels), t.Priority, t.Recurrence, nullableStringPtr(t.StartDate), nullableStringPtr(t.DueDate),
		nullableIntPtr(t.EstimatedMinutes), nullableStringPtr(t.CompletedAt), nullableStringPtr(t.CompletedOn),
		t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r Repo) UpdateTask(ctx context.Context, tx *sql.Tx, t domain.Task) error {
	res, err := tx.ExecContext(ctx, `UPDATE tasks SET title=?,description=?,category=?,assignee=?,labels=?,priority=?,recurrence=?,start_date=?,due_date=?,estimated_minutes=?,completed_at=?,completed_on=?,updated_at=? WHERE id=?`,
		t.Title, nullableStringPtr(t.Description), nullableStringPtr(t.Category), nullableStringPtr(t.Assignee),
		encodeLabels(t.Labels), t.Priority, t.Recurrence, nullableStringPtr(t.StartDate), nullableStringPtr(t.DueDate),
		nullableIntPtr(t.EstimatedMinutes), nullableStringPtr(t.CompletedAt), nullableStringPtr(t.CompletedOn),
		t.UpdatedAt, t.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) DeleteTask(ctx context.Context, tx *sql.Tx, id int64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) GetTask(ctx context.Context, id int64) (domain.Task, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id=?`, id)
	return scanTask(row.Scan)
}

// ListTasks returns the full collection ordered by due date ascending
// with missing due dates last, then newest first.
func (r Repo) ListTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY due_date IS NULL, due_date ASC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r Repo) InsertTaskHistory(ctx context.Context, tx *sql.Tx, h domain.TaskHistory) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO task_history(task_id,action,task_title,changes,created_at) VALUES (?,?,?,?,?)`,
		h.TaskID, h.Action, h.TaskTitle, nullableStringPtr(h.Changes), h.CreatedAt)
	return err
}

func (r Repo) ListTaskHistory(ctx context.Context, limit int) ([]domain.TaskHistory, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,task_id,action,task_title,changes,created_at FROM task_history ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.TaskHistory{}
	for rows.Next() {
		var h domain.TaskHistory
		var changes sql.NullString
		if err := rows.Scan(&h.ID, &h.TaskID, &h.Action, &h.TaskTitle, &changes, &h.CreatedAt); err != nil {
			return nil, err
		}
		h.Changes = strPtr(changes)
		res = append(res, h)
	}
	return res, rows.Err()
}
