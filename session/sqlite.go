package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/suzudai/my-chat-app/core"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements core.SessionStore on a local SQLite database. The
// message history is stored as a JSON blob per session; a separate
// session_titles table carries the index records used by listings so they can
// be served without decoding histories.
type SQLiteStore struct {
	db *sql.DB
}

var _ core.SessionStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at dbPath and prepares the
// schema.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		messages_json TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at);

	CREATE TABLE IF NOT EXISTS session_titles (
		thread_id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		category TEXT NOT NULL,
		message_count INTEGER NOT NULL DEFAULT 0,
		last_message_at INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_session_titles_category ON session_titles(category, updated_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Load retrieves a session with its full message history.
func (s *SQLiteStore) Load(ctx context.Context, id string) (*core.Session, error) {
	query := `
		SELECT s.id, s.category, s.messages_json, s.created_at, s.updated_at,
		       COALESCE(t.title, '')
		FROM sessions s
		LEFT JOIN session_titles t ON t.thread_id = s.id
		WHERE s.id = ?`

	row := s.db.QueryRowContext(ctx, query, id)

	var (
		category     string
		messagesJSON string
		createdAt    int64
		updatedAt    int64
		title        string
	)
	session := &core.Session{}
	err := row.Scan(&session.ID, &category, &messagesJSON, &createdAt, &updatedAt, &title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("scan session row: %w", err)
	}

	var messages []core.Message
	if err := json.Unmarshal([]byte(messagesJSON), &messages); err != nil {
		return nil, fmt.Errorf("decode message history: %w", err)
	}

	session.Category = core.Category(category)
	session.Title = title
	session.Messages = messages
	session.Created = time.Unix(createdAt, 0)
	session.Updated = time.Unix(updatedAt, 0)
	return session, nil
}

// Save upserts the session and its index record in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, session *core.Session) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("session must have an id")
	}

	messages := session.History()
	messagesJSON, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("encode message history: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, category, messages_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			messages_json = excluded.messages_json,
			updated_at = excluded.updated_at`,
		session.ID, string(session.Category), string(messagesJSON),
		session.Created.Unix(), session.Updated.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO session_titles (thread_id, title, category, message_count, last_message_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(thread_id) DO UPDATE SET
			title = CASE WHEN excluded.title != '' THEN excluded.title ELSE session_titles.title END,
			category = excluded.category,
			message_count = excluded.message_count,
			last_message_at = excluded.last_message_at,
			updated_at = excluded.updated_at`,
		session.ID, session.Title, string(session.Category), len(messages),
		session.Updated.Unix(), session.Created.Unix(), session.Updated.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert session index: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save transaction: %w", err)
	}
	return nil
}

// Delete removes the session and its index record in one transaction so a
// partial delete can never leave an orphaned title behind. Deleting an
// unknown id is a no-op.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM session_titles WHERE thread_id = ?`, id); err != nil {
		return fmt.Errorf("delete session index: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete transaction: %w", err)
	}
	return nil
}

// List returns index records for the category ordered by most recent
// activity. An empty category matches all sessions.
func (s *SQLiteStore) List(ctx context.Context, category core.Category) ([]core.SessionInfo, error) {
	query := `
		SELECT thread_id, title, category, message_count, last_message_at, created_at, updated_at
		FROM session_titles`
	args := []interface{}{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, string(category))
	}
	query += ` ORDER BY updated_at DESC, thread_id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session index: %w", err)
	}
	defer rows.Close()

	infos := make([]core.SessionInfo, 0)
	for rows.Next() {
		var info core.SessionInfo
		var cat string
		var lastMessageAt, createdAt, updatedAt int64
		if err := rows.Scan(&info.ID, &info.Title, &cat, &info.MessageCount, &lastMessageAt, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan session index row: %w", err)
		}
		info.Category = core.Category(cat)
		info.LastMessageAt = time.Unix(lastMessageAt, 0)
		info.CreatedAt = time.Unix(createdAt, 0)
		info.UpdatedAt = time.Unix(updatedAt, 0)
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session index: %w", err)
	}
	return infos, nil
}

// UpdateTitle sets the title of an existing session's index record.
func (s *SQLiteStore) UpdateTitle(ctx context.Context, id, title string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE session_titles SET title = ?, updated_at = ? WHERE thread_id = ?`,
		title, time.Now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("update title: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("title rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", core.ErrSessionNotFound, id)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
