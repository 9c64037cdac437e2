package session

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        created_at TEXT NOT NULL,
        source_image TEXT NOT NULL,
        selected_eras TEXT NOT NULL,
        items_json TEXT NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_user_created
        ON sessions (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS profiles (
        user_id TEXT PRIMARY KEY,
        display_name TEXT NOT NULL,
        avatar_ref TEXT,
        updated_at TEXT NOT NULL
    )`,
}

func (s *Store) applyMigrations(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}
