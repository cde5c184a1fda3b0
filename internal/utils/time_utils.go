package utils

import (
	"errors"
	"fmt"
	"time"
)

// DefaultTimezone часовой пояс по умолчанию для расчета дат напоминаний
const DefaultTimezone = "Europe/Moscow"

// ErrInvalidTimeOfDay возвращается, если время выполнения привычки не удалось разобрать
var ErrInvalidTimeOfDay = errors.New("invalid time of day")

var timeOfDayLayouts = []string{
	"15:04:05.999999",
	"15:04:05",
	"15:04",
}

// LoadLocation загружает часовой пояс по имени
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		if name == DefaultTimezone {
			// Fallback на UTC+3 если в системе нет базы часовых поясов
			return time.FixedZone("MSK", 3*60*60), nil
		}
		return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}
	return loc, nil
}

// DateOf возвращает полночь календарного дня t в часовом поясе loc
func DateOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// CalendarDate переносит календарную дату t (год, месяц, день без пересчета
// часового пояса) на полночь в loc. Нужна для значений колонок DATE.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// DaysBetween возвращает количество целых календарных дней от from до to.
// Результат отрицательный, если to раньше from.
func DaysBetween(from, to time.Time, loc *time.Location) int {
	a := DateOf(from, loc)
	b := DateOf(to, loc)
	// Считаем по UTC, чтобы переход на летнее время не давал 23 или 25 часов
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}

// ParseTimeOfDay разбирает время суток в формате HH:MM[:SS[.ffffff]]
func ParseTimeOfDay(value string) (time.Duration, error) {
	for _, layout := range timeOfDayLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second +
				time.Duration(t.Nanosecond()), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
}

// Combine возвращает момент времени: календарный день date плюс время суток timeOfDay
func Combine(date time.Time, timeOfDay string, loc *time.Location) (time.Time, error) {
	offset, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	d := DateOf(date, loc)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc).Add(offset), nil
}

// FormatDate форматирует дату в виде YYYY-MM-DD
func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
