package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/whovibhor/PersonalOS/internal/domain"
)

const maxHabitNameLen = 120

func (e Engine) CreateHabit(ctx context.Context, name, frequency string) (domain.Habit, error) {
	if name == "" {
		return domain.Habit{}, errors.New("name is required")
	}
	if len(name) > maxHabitNameLen {
		return domain.Habit{}, fmt.Errorf("name exceeds %d characters", maxHabitNameLen)
	}
	if frequency == "" {
		frequency = "daily"
	}
	now := e.timestamp()
	h := domain.Habit{Name: name, Frequency: frequency, CreatedAt: now, UpdatedAt: now}
	id, err := e.Repo.InsertHabit(ctx, h)
	if err != nil {
		return domain.Habit{}, fmt.Errorf("insert habit: %w", err)
	}
	h.ID = id
	return h, nil
}

func (e Engine) UpdateHabit(ctx context.Context, id int64, name, frequency *string) (domain.Habit, error) {
	h, err := e.Repo.GetHabit(ctx, id)
	if err != nil {
		return domain.Habit{}, err
	}
	if name != nil {
		if *name == "" {
			return domain.Habit{}, errors.New("name is required")
		}
		h.Name = *name
	}
	if frequency != nil && *frequency != "" {
		h.Frequency = *frequency
	}
	h.UpdatedAt = e.timestamp()
	if err := e.Repo.UpdateHabit(ctx, h); err != nil {
		return domain.Habit{}, err
	}
	return h, nil
}

func (e Engine) DeleteHabit(ctx context.Context, id int64) error {
	return e.Repo.DeleteHabit(ctx, id)
}

func (e Engine) ListHabits(ctx context.Context) ([]domain.Habit, error) {
	return e.Repo.ListHabits(ctx)
}

func (e Engine) CreateNote(ctx context.Context, title, content string) (domain.Note, error) {
	if title == "" {
		return domain.Note{}, errors.New("title is required")
	}
	now := e.timestamp()
	n := domain.Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.Repo.InsertNote(ctx, n); err != nil {
		return domain.Note{}, fmt.Errorf("insert note: %w", err)
	}
	return n, nil
}

func (e Engine) UpdateNote(ctx context.Context, id string, title, content *string) (domain.Note, error) {
	n, err := e.Repo.GetNote(ctx, id)
	if err != nil {
		return domain.Note{}, err
	}
	if title != nil {
		if *title == "" {
			return domain.Note{}, errors.New("title is required")
		}
		n.Title = *title
	}
	if content != nil {
		n.Content = *content
	}
	n.UpdatedAt = e.timestamp()
	if err := e.Repo.UpdateNote(ctx, n); err != nil {
		return domain.Note{}, err
	}
	return n, nil
}

func (e Engine) DeleteNote(ctx context.Context, id string) error {
	return e.Repo.DeleteNote(ctx, id)
}

func (e Engine) ListNotes(ctx context.Context) ([]domain.Note, error) {
	return e.Repo.ListNotes(ctx)
}

func (e Engine) CreateExpense(ctx context.Context, amount float64, category string, description *string, spentOn string) (domain.Expense, error) {
	if amount <= 0 {
		return domain.Expense{}, errors.New("amount must be positive")
	}
	if category == "" {
		category = "general"
	}
	if spentOn == "" {
		spentOn = e.today()
	} else if !validDate(spentOn) {
		return domain.Expense{}, errors.New("spent_on must be YYYY-MM-DD")
	}
	exp := domain.Expense{
		Amount:      amount,
		Category:    category,
		Description: description,
		SpentOn:     spentOn,
		CreatedAt:   e.timestamp(),
	}
	id, err := e.Repo.InsertExpense(ctx, exp)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	exp.ID = id
	return exp, nil
}

func (e Engine) ListExpenses(ctx context.Context) ([]domain.Expense, error) {
	return e.Repo.ListExpenses(ctx)
}
