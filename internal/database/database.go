package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"habit-reminder/internal/logger"
	"habit-reminder/internal/models"

	_ "github.com/lib/pq"
)

type Database struct {
	db     *sql.DB
	logger logger.Logger
}

func New(databaseURL string, log logger.Logger) (*Database, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Настраиваем пул соединений. Рассылка последовательная, много соединений не нужно
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return NewWithDB(db, log), nil
}

// NewWithDB оборачивает уже открытое соединение
func NewWithDB(db *sql.DB, log logger.Logger) *Database {
	return &Database{
		db:     db,
		logger: log,
	}
}

func (d *Database) Close() error {
	return d.db.Close()
}

// CreateTables создает таблицы в базе данных, если они не существуют
func (d *Database) CreateTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL DEFAULT '',
			tg_chat_id BIGINT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS habits (
			id BIGSERIAL PRIMARY KEY,
			habit TEXT NOT NULL,
			owner_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			sign_of_a_pleasant_habit BOOLEAN NOT NULL DEFAULT FALSE,
			periodicity INTEGER NOT NULL DEFAULT 1,
			place_of_execution TEXT,
			time_execution TIME,
			send_indicator INTEGER NOT NULL DEFAULT 1,
			next_reminder_date DATE,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE
		)`,
	}

	for _, query := range queries {
		if _, err := d.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	// Запускаем миграции для обновления схемы
	if err := d.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// ListReminderHabits получает все привычки, по которым нужны напоминания
func (d *Database) ListReminderHabits(ctx context.Context) ([]*models.Habit, error) {
	query := `
		SELECT id, habit, owner_id, sign_of_a_pleasant_habit, periodicity, place_of_execution, time_execution,
		       send_indicator, next_reminder_date, created_at, updated_at
		FROM habits
		WHERE sign_of_a_pleasant_habit = FALSE
		ORDER BY id
	`

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query habits: %w", err)
	}
	defer rows.Close()

	var habits []*models.Habit
	for rows.Next() {
		habit, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, habit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate habits: %w", err)
	}

	d.logger.Debugf("Loaded %d habits for reminders", len(habits))

	return habits, nil
}

// WithinTx выполняет fn в транзакции. Транзакция откатывается, если fn вернула ошибку
func (d *Database) WithinTx(ctx context.Context, fn func(tx HabitTx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Откатываем в случае ошибки

	if err := fn(&habitTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

type habitTx struct {
	tx *sql.Tx
}

// GetOwner получает владельца привычки
func (t *habitTx) GetOwner(ctx context.Context, ownerID int64) (*models.User, error) {
	query := `SELECT id, username, tg_chat_id, created_at FROM users WHERE id = $1`

	var (
		user     models.User
		tgChatID sql.NullInt64
	)
	err := t.tx.QueryRowContext(ctx, query, ownerID).Scan(&user.ID, &user.Username, &tgChatID, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", ErrUserNotFound, ownerID)
		}
		return nil, fmt.Errorf("failed to get user %d: %w", ownerID, err)
	}
	if tgChatID.Valid {
		user.TgChatID = &tgChatID.Int64
	}

	return &user, nil
}

// SaveHabitFields сохраняет только перечисленные поля привычки
func (t *habitTx) SaveHabitFields(ctx context.Context, habit *models.Habit, fields ...string) error {
	sets, args, err := buildHabitUpdate(habit, fields)
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, habit.ID)
	query := fmt.Sprintf(`UPDATE habits SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	result, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update habit %d: %w", habit.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update habit %d: %w", habit.ID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrHabitNotFound, habit.ID)
	}

	return nil
}

func buildHabitUpdate(habit *models.Habit, fields []string) ([]string, []interface{}, error) {
	var (
		sets []string
		args []interface{}
		seen = make(map[string]bool)
	)

	for _, field := range fields {
		if seen[field] {
			continue
		}
		seen[field] = true

		var value interface{}
		switch field {
		case models.FieldSendIndicator:
			value = habit.SendIndicator
		case models.FieldUpdatedAt:
			if habit.UpdatedAt != nil {
				value = *habit.UpdatedAt
			}
		case models.FieldNextReminderDate:
			if habit.NextReminderDate != nil {
				value = habit.NextReminderDate.Format("2006-01-02")
			}
		default:
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
		}

		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", field, len(args)))
	}

	return sets, args, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHabit(row rowScanner) (*models.Habit, error) {
	var (
		habit            models.Habit
		placeOfExecution sql.NullString
		timeExecution    sql.NullString
		nextReminderDate sql.NullTime
		updatedAt        sql.NullTime
	)

	err := row.Scan(
		&habit.ID, &habit.Habit, &habit.OwnerID, &habit.SignOfAPleasantHabit, &habit.Periodicity,
		&placeOfExecution, &timeExecution, &habit.SendIndicator, &nextReminderDate,
		&habit.CreatedAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if placeOfExecution.Valid {
		habit.PlaceOfExecution = &placeOfExecution.String
	}
	if timeExecution.Valid {
		habit.TimeExecution = &timeExecution.String
	}
	if nextReminderDate.Valid {
		habit.NextReminderDate = &nextReminderDate.Time
	}
	if updatedAt.Valid {
		habit.UpdatedAt = &updatedAt.Time
	}

	return &habit, nil
}
