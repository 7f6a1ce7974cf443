package repo

import (
	"context"
	"database/sql"

	"github.com/whovibhor/PersonalOS/internal/domain"
)

func (r Repo) InsertHabit(ctx context.Context, h domain.Habit) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `INSERT INTO habits(name,frequency,created_at,updated_at) VALUES (?,?,?,?)`,
		h.Name, h.Frequency, h.CreatedAt, h.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r Repo) UpdateHabit(ctx context.Context, h domain.Habit) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE habits SET name=?,frequency=?,updated_at=? WHERE id=?`,
		h.Name, h.Frequency, h.UpdatedAt, h.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) DeleteHabit(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM habits WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) GetHabit(ctx context.Context, id int64) (domain.Habit, error) {
	var h domain.Habit
	err := r.DB.QueryRowContext(ctx, `SELECT id,name,frequency,created_at,updated_at FROM habits WHERE id=?`, id).
		Scan(&h.ID, &h.Name, &h.Frequency, &h.CreatedAt, &h.UpdatedAt)
	if err == sql.ErrNoRows {
		return h, ErrNotFound
	}
	return h, err
}

func (r Repo) ListHabits(ctx context.Context) ([]domain.Habit, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,name,frequency,created_at,updated_at FROM habits ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.Habit{}
	for rows.Next() {
		var h domain.Habit
		if err := rows.Scan(&h.ID, &h.Name, &h.Frequency, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, h)
	}
	return res, rows.Err()
}

func (r Repo) InsertNote(ctx context.Context, n domain.Note) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO notes(id,title,content,created_at,updated_at) VALUES (?,?,?,?,?)`,
		n.ID, n.Title, n.Content, n.CreatedAt, n.UpdatedAt)
	return err
}

func (r Repo) UpdateNote(ctx context.Context, n domain.Note) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE notes SET title=?,content=?,updated_at=? WHERE id=?`,
		n.Title, n.Content, n.UpdatedAt, n.ID)
	if err != nil {
		return err
	}
	if n2, _ := res.RowsAffected(); n2 == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) DeleteNote(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM notes WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) GetNote(ctx context.Context, id string) (domain.Note, error) {
	var n domain.Note
	err := r.DB.QueryRowContext(ctx, `SELECT id,title,content,created_at,updated_at FROM notes WHERE id=?`, id).
		Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if err == sql.ErrNoRows {
		return n, ErrNotFound
	}
	return n, err
}

func (r Repo) ListNotes(ctx context.Context) ([]domain.Note, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,title,content,created_at,updated_at FROM notes ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.Note{}
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, n)
	}
	return res, rows.Err()
}

func (r Repo) InsertExpense(ctx context.Context, e domain.Expense) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `INSERT INTO expenses(amount,category,description,spent_on,created_at) VALUES (?,?,?,?,?)`,
		e.Amount, e.Category, nullableStringPtr(e.Description), e.SpentOn, e.CreatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r Repo) GetExpense(ctx context.Context, id int64) (domain.Expense, error) {
	var e domain.Expense
	var desc sql.NullString
	err := r.DB.QueryRowContext(ctx, `SELECT id,amount,category,description,spent_on,created_at FROM expenses WHERE id=?`, id).
		Scan(&e.ID, &e.Amount, &e.Category, &desc, &e.SpentOn, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return e, ErrNotFound
	}
	e.Description = strPtr(desc)
	return e, err
}

func (r Repo) ListExpenses(ctx context.Context) ([]domain.Expense, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,amount,category,description,spent_on,created_at FROM expenses ORDER BY spent_on DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.Expense{}
	for rows.Next() {
		var e domain.Expense
		var desc sql.NullString
		if err := rows.Scan(&e.ID, &e.Amount, &e.Category, &desc, &e.SpentOn, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Description = strPtr(desc)
		res = append(res, e)
	}
	return res, rows.Err()
}
