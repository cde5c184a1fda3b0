package reminder

import (
	"fmt"

	"habit-reminder/internal/models"
)

const (
	placeUnknown = "не указано"
	anyTime      = "в любое время"
)

func formatReminder(habit *models.Habit, timeText string) string {
	place := placeUnknown
	if habit.PlaceOfExecution != nil && *habit.PlaceOfExecution != "" {
		place = *habit.PlaceOfExecution
	}

	return fmt.Sprintf("Напоминание: сегодня выполнение привычки '%s'! Место: %s, время: %s.",
		habit.Habit, place, timeText)
}

func timeExecution(habit *models.Habit) (string, bool) {
	if habit.TimeExecution == nil || *habit.TimeExecution == "" {
		return "", false
	}
	return *habit.TimeExecution, true
}
