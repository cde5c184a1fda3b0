package database

import (
	"fmt"
)

// Migration представляет миграцию базы данных
type Migration struct {
	Version     int
	Description string
	UpSQL       string
	DownSQL     string
}

// Migrations содержит все миграции в порядке версий
var Migrations = []Migration{
	{
		Version:     1,
		Description: "Add partial index for reminder habits",
		UpSQL: `
			CREATE INDEX IF NOT EXISTS habits_reminder_idx
			ON habits (id)
			WHERE sign_of_a_pleasant_habit = FALSE;
		`,
		DownSQL: `
			DROP INDEX IF EXISTS habits_reminder_idx;
		`,
	},
	{
		Version:     2,
		Description: "Require positive periodicity",
		UpSQL: `
			ALTER TABLE habits
			ADD CONSTRAINT habits_periodicity_positive CHECK (periodicity > 0);
		`,
		DownSQL: `
			ALTER TABLE habits
			DROP CONSTRAINT IF EXISTS habits_periodicity_positive;
		`,
	},
}

// MigrationRecord представляет запись о выполненной миграции
type MigrationRecord struct {
	Version     int    `db:"version"`
	Description string `db:"description"`
	AppliedAt   string `db:"applied_at"`
}

// CreateMigrationsTable создает таблицу для отслеживания миграций
func (d *Database) CreateMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`

	_, err := d.db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	return nil
}

// GetAppliedMigrations получает список уже примененных миграций
func (d *Database) GetAppliedMigrations() ([]MigrationRecord, error) {
	query := `SELECT version, description, applied_at FROM migrations ORDER BY version`

	rows, err := d.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	var migrations []MigrationRecord
	for rows.Next() {
		var migration MigrationRecord
		err := rows.Scan(&migration.Version, &migration.Description, &migration.AppliedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan migration: %w", err)
		}
		migrations = append(migrations, migration)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate migrations: %w", err)
	}

	return migrations, nil
}

// ApplyMigration применяет миграцию
func (d *Database) ApplyMigration(migration Migration) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(migration.UpSQL); err != nil {
		return fmt.Errorf("failed to execute migration %d: %w", migration.Version, err)
	}

	insertQuery := `INSERT INTO migrations (version, description) VALUES ($1, $2)`
	if _, err := tx.Exec(insertQuery, migration.Version, migration.Description); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
	}

	return nil
}

// RollbackMigration откатывает примененную миграцию через DownSQL
func (d *Database) RollbackMigration(migration Migration) error {
	if migration.DownSQL == "" {
		return fmt.Errorf("migration %d has no down sql", migration.Version)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(migration.DownSQL); err != nil {
		return fmt.Errorf("failed to roll back migration %d: %w", migration.Version, err)
	}

	if _, err := tx.Exec(`DELETE FROM migrations WHERE version = $1`, migration.Version); err != nil {
		return fmt.Errorf("failed to unrecord migration %d: %w", migration.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rollback of migration %d: %w", migration.Version, err)
	}

	return nil
}

// RollbackLastMigration откатывает последнюю примененную миграцию
func (d *Database) RollbackLastMigration() error {
	applied, err := d.GetAppliedMigrations()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}
	if len(applied) == 0 {
		d.logger.Info("No migrations to roll back")
		return nil
	}

	last := applied[len(applied)-1].Version
	for _, migration := range Migrations {
		if migration.Version != last {
			continue
		}
		d.logger.Infof("Rolling back migration %d: %s", migration.Version, migration.Description)
		return d.RollbackMigration(migration)
	}

	return fmt.Errorf("applied migration %d is unknown", last)
}

// RunMigrations выполняет все необходимые миграции
func (d *Database) RunMigrations() error {
	if err := d.CreateMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	appliedMigrations, err := d.GetAppliedMigrations()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	appliedMap := make(map[int]bool)
	for _, migration := range appliedMigrations {
		appliedMap[migration.Version] = true
	}

	for _, migration := range Migrations {
		if appliedMap[migration.Version] {
			d.logger.Debugf("Migration %d already applied, skipping", migration.Version)
			continue
		}

		d.logger.Infof("Applying migration %d: %s", migration.Version, migration.Description)
		if err := d.ApplyMigration(migration); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", migration.Version, err)
		}
		d.logger.Infof("Successfully applied migration %d", migration.Version)
	}

	return nil
}
