package reminder

import (
	"fmt"
	"time"

	"habit-reminder/internal/models"
	"habit-reminder/internal/utils"
)

// Countdown уменьшает send_indicator на число прошедших дней и напоминает,
// когда счетчик дошел до нуля и наступило время выполнения привычки.
type Countdown struct {
	loc *time.Location
}

func NewCountdown(loc *time.Location) *Countdown {
	return &Countdown{loc: loc}
}

func (c *Countdown) Name() string {
	return PolicyCountdown
}

func (c *Countdown) Advance(habit *models.Habit, now time.Time) (Step, error) {
	elapsedDays := utils.DaysBetween(habit.LastUpdate(), now, c.loc)
	if elapsedDays <= 0 {
		return Step{}, nil
	}

	habit.SendIndicator -= elapsedDays

	step := Step{Fields: []string{models.FieldSendIndicator, models.FieldUpdatedAt}}

	if at, ok := timeExecution(habit); ok && habit.SendIndicator <= 0 {
		executeAt, err := utils.Combine(now, at, c.loc)
		if err != nil {
			return Step{}, fmt.Errorf("habit %d: %w", habit.ID, err)
		}

		if !now.Before(executeAt) {
			step.Notify = true
			habit.SendIndicator = habit.Periodicity
		}
	}

	updatedAt := now
	habit.UpdatedAt = &updatedAt

	return step, nil
}

func (c *Countdown) Message(habit *models.Habit) string {
	at, _ := timeExecution(habit)
	return formatReminder(habit, at)
}
