package reminder

import (
	"context"
	"fmt"
	"time"

	"habit-reminder/internal/database"
	"habit-reminder/internal/logger"
	"habit-reminder/internal/models"
	"habit-reminder/internal/notifier"
)

type outcome int

const (
	outcomeUnchanged outcome = iota
	outcomeUpdated
	outcomeNotified
	outcomeMissingChatID
)

// Report итоги одного прохода по привычкам
type Report struct {
	Total         int
	Unchanged     int
	Updated       int
	Notified      int
	MissingChatID int
	Failed        int
}

func (r *Report) add(o outcome, err error) {
	if err != nil {
		r.Failed++
		return
	}

	switch o {
	case outcomeUnchanged:
		r.Unchanged++
	case outcomeUpdated:
		r.Updated++
	case outcomeNotified:
		r.Updated++
		r.Notified++
	case outcomeMissingChatID:
		r.Updated++
		r.MissingChatID++
	}
}

// Sweep проходит по всем привычкам и отправляет напоминания по выбранной стратегии
type Sweep struct {
	store    database.HabitStore
	notifier notifier.Notifier
	policy   Policy
	logger   logger.Logger
	now      func() time.Time
}

func NewSweep(store database.HabitStore, n notifier.Notifier, policy Policy, log logger.Logger) *Sweep {
	return &Sweep{
		store:    store,
		notifier: n,
		policy:   policy,
		logger:   log.WithField("policy", policy.Name()),
		now:      time.Now,
	}
}

// WithClock подменяет источник текущего времени
func (s *Sweep) WithClock(now func() time.Time) *Sweep {
	s.now = now
	return s
}

// Run выполняет один проход. Ошибка возвращается только если не удалось
// получить список привычек; ошибки отдельных привычек логируются и попадают в Report.
func (s *Sweep) Run(ctx context.Context) (Report, error) {
	now := s.now()

	habits, err := s.store.ListReminderHabits(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list habits: %w", err)
	}

	var report Report
	for _, habit := range habits {
		if habit.SignOfAPleasantHabit {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		report.Total++
		o, err := s.processHabit(ctx, habit, now)
		if err != nil {
			s.logger.WithField("habit_id", habit.ID).Errorf("Failed to process habit: %v", err)
		}
		report.add(o, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"total":           report.Total,
		"notified":        report.Notified,
		"missing_chat_id": report.MissingChatID,
		"updated":         report.Updated,
		"failed":          report.Failed,
	}).Info("Reminder sweep completed")

	return report, nil
}

func (s *Sweep) processHabit(ctx context.Context, habit *models.Habit, now time.Time) (outcome, error) {
	step, err := s.policy.Advance(habit, now)
	if err != nil {
		return outcomeUnchanged, err
	}
	if !step.Changed() {
		return outcomeUnchanged, nil
	}

	result := outcomeUpdated
	err = s.store.WithinTx(ctx, func(tx database.HabitTx) error {
		if step.Notify {
			owner, err := tx.GetOwner(ctx, habit.OwnerID)
			if err != nil {
				return err
			}
			habit.Owner = owner

			result, err = s.notify(ctx, habit)
			if err != nil {
				return err
			}
		}

		return tx.SaveHabitFields(ctx, habit, step.Fields...)
	})
	if err != nil {
		return outcomeUnchanged, err
	}

	return result, nil
}

func (s *Sweep) notify(ctx context.Context, habit *models.Habit) (outcome, error) {
	chatID, ok := habit.OwnerChatID()
	if !ok {
		// Расписание все равно сдвигается, как будто напоминание отправлено
		s.logger.WithFields(map[string]interface{}{
			"habit_id": habit.ID,
			"owner_id": habit.OwnerID,
		}).Warn("Skipped reminder: owner has no Telegram chat id")
		return outcomeMissingChatID, nil
	}

	if err := s.notifier.Send(ctx, chatID, s.policy.Message(habit)); err != nil {
		return outcomeUnchanged, err
	}

	s.logger.WithFields(map[string]interface{}{
		"habit_id": habit.ID,
		"chat_id":  chatID,
	}).Info("Reminder sent")

	return outcomeNotified, nil
}
