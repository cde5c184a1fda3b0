package reminder

import (
	"errors"
	"fmt"
	"time"

	"habit-reminder/internal/models"
)

const (
	PolicyCountdown = "countdown"
	PolicyNextDate  = "next_date"
)

var (
	ErrUnknownPolicy      = errors.New("unknown reminder policy")
	ErrInvalidPeriodicity = errors.New("periodicity must be positive")
)

// Step результат продвижения расписания одной привычки
type Step struct {
	// Notify сообщает, что пора отправить напоминание
	Notify bool
	// Fields поля привычки, которые нужно сохранить. Пустой список означает, что привычка не изменилась
	Fields []string
}

// Changed сообщает, нужно ли сохранять привычку
func (s Step) Changed() bool {
	return len(s.Fields) > 0
}

// Policy стратегия расписания напоминаний
type Policy interface {
	Name() string
	// Advance продвигает состояние расписания привычки на момент now.
	// Меняет только переданную структуру, в базу ничего не пишет.
	Advance(habit *models.Habit, now time.Time) (Step, error)
	// Message формирует текст напоминания
	Message(habit *models.Habit) string
}

// NewPolicy создает стратегию по имени из конфигурации
func NewPolicy(name string, loc *time.Location) (Policy, error) {
	switch name {
	case PolicyCountdown:
		return NewCountdown(loc), nil
	case PolicyNextDate:
		return NewNextDate(loc), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}
