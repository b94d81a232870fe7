package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds the query-path indexes on top of what AutoMigrate creates.
// It consults pg_indexes and is therefore postgres-only; MySQL deployments
// get equivalent indexes from AutoMigrate tags.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// List sorts on due_date with an id tie-break
		{"tasks", "idx_tasks_due_date", "due_date"},
		{"tasks", "idx_tasks_guild", "guild"},

		// Assignee lookups by task and by user
		{"task_assignments", "idx_task_assignments_task_id", "task_id"},
		{"task_assignments", "idx_task_assignments_username", "username"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
