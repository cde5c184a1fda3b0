package reminder

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habit-reminder/internal/models"
	"habit-reminder/internal/utils"
)

var msk = time.FixedZone("MSK", 3*60*60)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestNewPolicy(t *testing.T) {
	p, err := NewPolicy("countdown", msk)
	require.NoError(t, err)
	assert.Equal(t, PolicyCountdown, p.Name())

	p, err = NewPolicy("next_date", msk)
	require.NoError(t, err)
	assert.Equal(t, PolicyNextDate, p.Name())

	_, err = NewPolicy("weekly", msk)
	assert.True(t, errors.Is(err, ErrUnknownPolicy))
}

func TestCountdownDecrementsByElapsedDays(t *testing.T) {
	policy := NewCountdown(msk)
	now := time.Date(2024, 9, 14, 9, 0, 0, 0, msk)

	habit := &models.Habit{
		ID:            1,
		Habit:         "Читать",
		Periodicity:   7,
		SendIndicator: 5,
		TimeExecution: strPtr("08:00:00"),
		UpdatedAt:     timePtr(time.Date(2024, 9, 11, 23, 50, 0, 0, msk)),
	}

	step, err := policy.Advance(habit, now)
	require.NoError(t, err)

	assert.False(t, step.Notify)
	assert.Equal(t, []string{models.FieldSendIndicator, models.FieldUpdatedAt}, step.Fields)
	assert.Equal(t, 2, habit.SendIndicator)
	assert.True(t, now.Equal(*habit.UpdatedAt))
}

func TestCountdownUsesCreatedAtWhenNeverUpdated(t *testing.T) {
	policy := NewCountdown(msk)
	now := time.Date(2024, 9, 14, 9, 0, 0, 0, msk)

	habit := &models.Habit{
		ID:            1,
		Periodicity:   3,
		SendIndicator: 3,
		CreatedAt:     time.Date(2024, 9, 13, 12, 0, 0, 0, msk),
	}

	step, err := policy.Advance(habit, now)
	require.NoError(t, err)
	assert.True(t, step.Changed())
	assert.Equal(t, 2, habit.SendIndicator)
}

func TestCountdownSameDayIsNoop(t *testing.T) {
	policy := NewCountdown(msk)
	updated := time.Date(2024, 9, 14, 0, 10, 0, 0, msk)
	now := time.Date(2024, 9, 14, 23, 0, 0, 0, msk)

	habit := &models.Habit{
		ID:            1,
		Periodicity:   1,
		SendIndicator: 0,
		TimeExecution: strPtr("08:00:00"),
		UpdatedAt:     timePtr(updated),
	}

	step, err := policy.Advance(habit, now)
	require.NoError(t, err)

	assert.False(t, step.Notify)
	assert.False(t, step.Changed())
	assert.Equal(t, 0, habit.SendIndicator)
	assert.True(t, updated.Equal(*habit.UpdatedAt))
}

func TestCountdownDueResetsToPeriodicity(t *testing.T) {
	policy := NewCountdown(msk)
	now := time.Date(2024, 9, 14, 9, 0, 0, 0, msk)

	habit := &models.Habit{
		ID:            1,
		Periodicity:   4,
		SendIndicator: 1,
		TimeExecution: strPtr("08:30:00"),
		UpdatedAt:     timePtr(time.Date(2024, 9, 12, 9, 0, 0, 0, msk)),
	}

	step, err := policy.Advance(habit, now)
	require.NoError(t, err)

	assert.True(t, step.Notify)
	assert.Equal(t, 4, habit.SendIndicator)
}

func TestCountdownDueWithZeroPeriodicityStillNotifies(t *testing.T) {
	policy := NewCountdown(msk)
	now := time.Date(2024, 9, 14, 9, 0, 0, 0, msk)

	habit := &models.Habit{
		ID:            1,
		Periodicity:   0,
		SendIndicator: 1,
		TimeExecution: strPtr("08:30:00"),
		UpdatedAt:     timePtr(time.Date(2024, 9, 13, 9, 0, 0, 0, msk)),
	}

	step, err := policy.Advance(habit, now)
	require.NoError(t, err)

	assert.True(t, step.Notify)
	assert.Equal(t, 0, habit.SendIndicator)
	assert.True(t, now.Equal(*habit.UpdatedAt))
}

func TestCountdownDueBeforeExecutionTime(t *testing.T) {
	policy := NewCountdown(msk)
	now := time.Date(2024, 9, 14, 7, 0, 0, 0, msk)

	habit := &models.Habit{
		ID:            1,
		Periodicity:   4,
		SendIndicator: 1,
		TimeExecution: strPtr("08:30:00"),
		UpdatedAt:     timePtr(time.Date(2024, 9, 13, 9, 0, 0, 0, msk)),
	}

	step, err := policy.Advance(habit, now)
	require.NoError(t, err)

	// Время еще не наступило: счетчик уменьшен, напоминания нет
	assert.False(t, step.Notify)
	assert.True(t, step.Changed())
	assert.Equal(t, 0, habit.SendIndicator)
}

func TestCountdownWithoutExecutionTimeNeverNotifies(t *testing.T) {
	policy := NewCountdown(msk)
	now := time.Date(2024, 9, 14, 23, 0, 0, 0, msk)

	habit := &models.Habit{
		ID:            1,
		Periodicity:   2,
		SendIndicator: 1,
		UpdatedAt:     timePtr(time.Date(2024, 9, 10, 9, 0, 0, 0, msk)),
	}

	step, err := policy.Advance(habit, now)
	require.NoError(t, err)

	assert.False(t, step.Notify)
	assert.Equal(t, -3, habit.SendIndicator)
}

func TestCountdownMalformedExecutionTime(t *testing.T) {
	policy := NewCountdown(msk)
	now := time.Date(2024, 9, 14, 9, 0, 0, 0, msk)

	habit := &models.Habit{
		ID:            1,
		Periodicity:   2,
		SendIndicator: 1,
		TimeExecution: strPtr("half past eight"),
		UpdatedAt:     timePtr(time.Date(2024, 9, 13, 9, 0, 0, 0, msk)),
	}

	_, err := policy.Advance(habit, now)
	assert.ErrorIs(t, err, utils.ErrInvalidTimeOfDay)
}

func TestCountdownMessage(t *testing.T) {
	policy := NewCountdown(msk)

	habit := &models.Habit{Habit: "Пить воду", TimeExecution: strPtr("08:30:00")}
	assert.Equal(t,
		"Напоминание: сегодня выполнение привычки 'Пить воду'! Место: не указано, время: 08:30:00.",
		policy.Message(habit))

	habit.PlaceOfExecution = strPtr("офис")
	assert.Equal(t,
		"Напоминание: сегодня выполнение привычки 'Пить воду'! Место: офис, время: 08:30:00.",
		policy.Message(habit))
}

func TestNextDateFirstSightInitializes(t *testing.T) {
	policy := NewNextDate(msk)
	now := time.Date(2024, 9, 11, 10, 0, 0, 0, msk)

	habit := &models.Habit{ID: 1, Periodicity: 3}

	step, err := policy.Advance(habit, now)
	require.NoError(t, err)

	assert.False(t, step.Notify)
	assert.Equal(t, []string{models.FieldNextReminderDate}, step.Fields)
	require.NotNil(t, habit.NextReminderDate)
	assert.Equal(t, "2024-09-11", utils.FormatDate(*habit.NextReminderDate, msk))
}

func TestNextDateNotYetDue(t *testing.T) {
	policy := NewNextDate(msk)
	now := time.Date(2024, 9, 12, 10, 0, 0, 0, msk)
	next := time.Date(2024, 9, 14, 0, 0, 0, 0, time.UTC)

	habit := &models.Habit{ID: 1, Periodicity: 3, NextReminderDate: &next}

	step, err := policy.Advance(habit, now)
	require.NoError(t, err)

	assert.False(t, step.Notify)
	assert.False(t, step.Changed())
	assert.Equal(t, "2024-09-14", habit.NextReminderDate.Format("2006-01-02"))
}

func TestNextDateOverdueAdvancesOnePeriod(t *testing.T) {
	policy := NewNextDate(msk)
	now := time.Date(2024, 9, 30, 10, 0, 0, 0, msk)
	next := time.Date(2024, 9, 11, 0, 0, 0, 0, time.UTC)

	habit := &models.Habit{ID: 1, Periodicity: 3, NextReminderDate: &next}

	step, err := policy.Advance(habit, now)
	require.NoError(t, err)

	assert.True(t, step.Notify)
	assert.Equal(t, "2024-09-14", utils.FormatDate(*habit.NextReminderDate, msk))
}

func TestNextDateInvalidPeriodicity(t *testing.T) {
	policy := NewNextDate(msk)
	now := time.Date(2024, 9, 11, 10, 0, 0, 0, msk)
	next := time.Date(2024, 9, 11, 0, 0, 0, 0, time.UTC)

	habit := &models.Habit{ID: 1, Periodicity: 0, NextReminderDate: &next}

	_, err := policy.Advance(habit, now)
	assert.ErrorIs(t, err, ErrInvalidPeriodicity)
}

func TestNextDateMessage(t *testing.T) {
	policy := NewNextDate(msk)

	habit := &models.Habit{Habit: "Зарядка", PlaceOfExecution: strPtr("парк")}
	assert.Equal(t,
		"Напоминание: сегодня выполнение привычки 'Зарядка'! Место: парк, время: в любое время.",
		policy.Message(habit))

	habit.TimeExecution = strPtr("07:00:00")
	assert.Equal(t,
		"Напоминание: сегодня выполнение привычки 'Зарядка'! Место: парк, время: 07:00:00.",
		policy.Message(habit))
}
