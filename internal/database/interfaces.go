package database

import (
	"context"
	"errors"

	"habit-reminder/internal/models"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrUnknownField  = errors.New("unknown habit field")
)

// HabitStore хранилище привычек, из которого читает рассылка напоминаний
type HabitStore interface {
	// ListReminderHabits возвращает все привычки с sign_of_a_pleasant_habit = false
	ListReminderHabits(ctx context.Context) ([]*models.Habit, error)
	// WithinTx выполняет fn в отдельной транзакции. Если fn вернула ошибку, транзакция откатывается.
	WithinTx(ctx context.Context, fn func(tx HabitTx) error) error
}

// HabitTx операции, доступные внутри транзакции одной привычки
type HabitTx interface {
	GetOwner(ctx context.Context, ownerID int64) (*models.User, error)
	SaveHabitFields(ctx context.Context, habit *models.Habit, fields ...string) error
}
