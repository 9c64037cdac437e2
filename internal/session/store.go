package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"pastforward/internal/config"
	"pastforward/internal/era"
)

// ErrNotFound is returned when a session or profile does not exist.
var ErrNotFound = errors.New("not found")

// Store manages session persistence backed by SQLite. The data directory is
// guarded by a file lock so only one process writes to the database.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open initializes or connects to the session database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(filepath.Join(cfg.Paths.DataDir, "pastforward.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire data dir lock: %w", err)
	}
	if !locked {
		return nil, errors.New("another pastforward instance is using the data directory")
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "sessions.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: lock}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}

	return store, nil
}

// Close closes the database connection and releases the data directory lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// CreateSession inserts a new batch session and returns it with its assigned id.
func (s *Store) CreateSession(ctx context.Context, userID, sourceImage string, eras []era.Key, items map[era.Key]ItemRecord) (*Session, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	if len(eras) == 0 {
		return nil, errors.New("at least one era is required")
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal items: %w", err)
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO sessions (id, user_id, created_at, source_image, selected_eras, items_json)
         VALUES (?, ?, ?, ?, ?, ?)`,
		id,
		userID,
		now.Format(time.RFC3339Nano),
		sourceImage,
		encodeEras(eras),
		string(itemsJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	return &Session{
		ID:           id,
		UserID:       userID,
		CreatedAt:    now,
		SourceImage:  sourceImage,
		SelectedEras: append([]era.Key(nil), eras...),
		Items:        CloneItems(items),
	}, nil
}

// GetSession fetches a session by identifier.
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, user_id, created_at, source_image, selected_eras, items_json
         FROM sessions WHERE id = ?`,
		id,
	)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// ListSessions returns a user's sessions, newest first.
func (s *Store) ListSessions(ctx context.Context, userID string) ([]*Session, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, user_id, created_at, source_image, selected_eras, items_json
         FROM sessions WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// UpdateSessionItems replaces the stored item snapshot for a session.
func (s *Store) UpdateSessionItems(ctx context.Context, sessionID string, items map[era.Key]ItemRecord) error {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE sessions SET items_json = ? WHERE id = ?`,
		string(itemsJSON),
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("update session items: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	return nil
}

// DeleteSession removes a session by identifier.
func (s *Store) DeleteSession(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// LoadProfile fetches the stored profile for a user.
func (s *Store) LoadProfile(ctx context.Context, userID string) (*UserProfile, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT user_id, display_name, avatar_ref, updated_at FROM profiles WHERE user_id = ?`,
		userID,
	)

	var (
		profile    UserProfile
		avatarRef  sql.NullString
		updatedRaw string
	)
	if err := row.Scan(&profile.UserID, &profile.DisplayName, &avatarRef, &updatedRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	profile.AvatarRef = avatarRef.String
	if updated, err := time.Parse(time.RFC3339Nano, updatedRaw); err == nil {
		profile.UpdatedAt = updated
	}
	return &profile, nil
}

// SaveProfile inserts or replaces a user's profile.
func (s *Store) SaveProfile(ctx context.Context, profile *UserProfile) error {
	if profile == nil || profile.UserID == "" {
		return errors.New("profile with user id is required")
	}
	profile.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO profiles (user_id, display_name, avatar_ref, updated_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT (user_id) DO UPDATE SET
             display_name = excluded.display_name,
             avatar_ref = excluded.avatar_ref,
             updated_at = excluded.updated_at`,
		profile.UserID,
		profile.DisplayName,
		nullableString(profile.AvatarRef),
		profile.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func scanSession(scanner interface{ Scan(dest ...any) error }) (*Session, error) {
	var (
		sess       Session
		createdRaw string
		erasRaw    string
		itemsRaw   string
	)
	if err := scanner.Scan(&sess.ID, &sess.UserID, &createdRaw, &sess.SourceImage, &erasRaw, &itemsRaw); err != nil {
		return nil, err
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		sess.CreatedAt = created
	}
	sess.SelectedEras = decodeEras(erasRaw)
	if err := json.Unmarshal([]byte(itemsRaw), &sess.Items); err != nil {
		return nil, fmt.Errorf("decode session items: %w", err)
	}
	return &sess, nil
}

func encodeEras(keys []era.Key) string {
	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = string(key)
	}
	return strings.Join(parts, ",")
}

func decodeEras(value string) []era.Key {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	keys := make([]era.Key, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		keys = append(keys, era.Key(part))
	}
	return keys
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
