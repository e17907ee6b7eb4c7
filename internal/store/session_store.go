package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/soyeahso/textline/internal/domain"
)

// ErrNotFound is returned when no session exists for a token (or it has
// expired).
var ErrNotFound = errors.New("session not found")

// SessionStore maps opaque session tokens to session records. Last write
// wins for concurrent Puts on the same token; callers must not assume
// read-after-write ordering across concurrent logins.
type SessionStore interface {
	Get(ctx context.Context, token string) (*domain.Session, error)
	Put(ctx context.Context, sess *domain.Session) error
}

// sessionKey builds the storage key for a token.
func sessionKey(token string) string {
	return "session:" + token
}

// SQLiteSessionStore persists sessions in SQLite. A non-zero ttl makes
// expiry sliding: every successful Get refreshes the deadline.
type SQLiteSessionStore struct {
	db  *DB
	ttl time.Duration
}

// NewSQLiteSessionStore creates a session store on the given database.
func NewSQLiteSessionStore(db *DB, ttl time.Duration) *SQLiteSessionStore {
	return &SQLiteSessionStore{db: db, ttl: ttl}
}

// Get resolves a token to its session, honoring the sliding TTL.
func (s *SQLiteSessionStore) Get(ctx context.Context, token string) (*domain.Session, error) {
	key := sessionKey(token)

	var record, touchedAt string
	err := s.db.sql.QueryRowContext(ctx,
		`SELECT record, touched_at FROM sessions WHERE key = ?`, key,
	).Scan(&record, &touchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if s.ttl > 0 {
		touched, parseErr := time.Parse(time.DateTime, touchedAt)
		if parseErr != nil || time.Since(touched) > s.ttl {
			_, _ = s.db.sql.ExecContext(ctx, `DELETE FROM sessions WHERE key = ?`, key)
			return nil, ErrNotFound
		}
		_, _ = s.db.sql.ExecContext(ctx,
			`UPDATE sessions SET touched_at = ? WHERE key = ?`,
			time.Now().UTC().Format(time.DateTime), key,
		)
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(record), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Put stores (or overwrites) the session under its token.
func (s *SQLiteSessionStore) Put(ctx context.Context, sess *domain.Session) error {
	record, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	_, err = s.db.sql.ExecContext(ctx,
		`INSERT INTO sessions (key, record, touched_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   record = excluded.record,
		   touched_at = excluded.touched_at`,
		sessionKey(sess.Token), string(record), time.Now().UTC().Format(time.DateTime),
	)
	return err
}

// MemorySessionStore is an in-process SessionStore for tests and the
// "memory" session.store config.
type MemorySessionStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]memoryEntry
}

type memoryEntry struct {
	sess    domain.Session
	touched time.Time
}

// NewMemorySessionStore creates an empty in-memory store.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:      ttl,
		sessions: make(map[string]memoryEntry),
	}
}

// Get resolves a token to its session, honoring the sliding TTL.
func (s *MemorySessionStore) Get(ctx context.Context, token string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sessionKey(token)]
	if !ok {
		return nil, ErrNotFound
	}
	if s.ttl > 0 {
		if time.Since(entry.touched) > s.ttl {
			delete(s.sessions, sessionKey(token))
			return nil, ErrNotFound
		}
		entry.touched = time.Now()
		s.sessions[sessionKey(token)] = entry
	}

	sess := entry.sess
	return &sess, nil
}

// Put stores (or overwrites) the session under its token.
func (s *MemorySessionStore) Put(ctx context.Context, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionKey(sess.Token)] = memoryEntry{sess: *sess, touched: time.Now()}
	return nil
}
