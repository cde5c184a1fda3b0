package reminder

import (
	"fmt"
	"time"

	"habit-reminder/internal/models"
	"habit-reminder/internal/utils"
)

// NextDate напоминает, когда наступила next_reminder_date, и переносит ее
// на periodicity дней вперед.
type NextDate struct {
	loc *time.Location
}

func NewNextDate(loc *time.Location) *NextDate {
	return &NextDate{loc: loc}
}

func (n *NextDate) Name() string {
	return PolicyNextDate
}

func (n *NextDate) Advance(habit *models.Habit, now time.Time) (Step, error) {
	today := utils.DateOf(now, n.loc)

	// Первая встреча с привычкой: только запоминаем дату
	if habit.NextReminderDate == nil {
		habit.NextReminderDate = &today
		return Step{Fields: []string{models.FieldNextReminderDate}}, nil
	}

	next := utils.CalendarDate(*habit.NextReminderDate, n.loc)
	if today.Before(next) {
		return Step{}, nil
	}

	if habit.Periodicity <= 0 {
		return Step{}, fmt.Errorf("habit %d: %w", habit.ID, ErrInvalidPeriodicity)
	}

	// Сдвигаем ровно на один период, даже если напоминание просрочено на несколько
	advanced := next.AddDate(0, 0, habit.Periodicity)
	habit.NextReminderDate = &advanced

	return Step{Notify: true, Fields: []string{models.FieldNextReminderDate}}, nil
}

func (n *NextDate) Message(habit *models.Habit) string {
	at, ok := timeExecution(habit)
	if !ok {
		at = anyTime
	}
	return formatReminder(habit, at)
}
