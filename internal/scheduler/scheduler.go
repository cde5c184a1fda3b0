package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"habit-reminder/internal/logger"
	"habit-reminder/internal/reminder"
)

// Runner один проход рассылки
type Runner interface {
	Run(ctx context.Context) (reminder.Report, error)
}

// Scheduler запускает рассылку по cron-расписанию
type Scheduler struct {
	cron    *cron.Cron
	runner  Runner
	logger  logger.Logger
	entryID cron.EntryID
}

// New создает планировщик. spec принимает стандартный cron-формат и дескрипторы вида "@every 1m"
func New(spec string, loc *time.Location, runner Runner, log logger.Logger) (*Scheduler, error) {
	cronLog := cronLogger{log: log.WithField("component", "cron")}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cronLog),
		// Recover должен быть внутри SkipIfStillRunning: иначе после паники
		// токен не возвращается и все следующие запуски пропускаются
		cron.WithChain(
			cron.SkipIfStillRunning(cronLog),
			cron.Recover(cronLog),
		),
	)

	s := &Scheduler{
		cron:   c,
		runner: runner,
		logger: log,
	}

	id, err := c.AddFunc(spec, s.runOnce)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}
	s.entryID = id

	return s, nil
}

func (s *Scheduler) runOnce() {
	// Ошибка вне отдельных привычек (например, список не прочитан) только логируется
	if _, err := s.runner.Run(context.Background()); err != nil {
		s.logger.Errorf("Reminder sweep failed: %v", err)
	}
}

// Start запускает планировщик в фоне
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Infof("Scheduler started, next sweep at %s", s.Next().Format(time.RFC3339))
}

// Next возвращает время следующего запуска
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entryID).Next
}

// Stop останавливает планировщик и ждет завершения текущего прохода или отмены ctx
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.WithFields(fields(keysAndValues)).Errorf("%s: %v", msg, err)
}

func fields(keysAndValues []interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		result[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return result
}
