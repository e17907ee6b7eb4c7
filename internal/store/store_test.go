package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/textline/internal/domain"
	"github.com/soyeahso/textline/internal/logging"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:", logging.New(nil, "silent", ""))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleSession(token string) *domain.Session {
	return &domain.Session{
		Token:              token,
		PhoneNumber:        "+12345678901",
		ServicePhoneNumber: "+12345678900",
		ApplicationID:      "app-1",
		CreatedAt:          time.Now().UTC().Truncate(time.Second),
	}
}

// --- SQLite store ---

func TestSQLiteStore_PutGetRoundTrip(t *testing.T) {
	s := NewSQLiteSessionStore(testDB(t), 0)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, sampleSession("tok-1")))

	got, err := s.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "+12345678901", got.PhoneNumber)
	assert.Equal(t, "+12345678900", got.ServicePhoneNumber)
	assert.Equal(t, "app-1", got.ApplicationID)
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	s := NewSQLiteSessionStore(testDB(t), 0)
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_LastWriteWins(t *testing.T) {
	s := NewSQLiteSessionStore(testDB(t), 0)
	ctx := context.Background()

	first := sampleSession("tok-1")
	require.NoError(t, s.Put(ctx, first))

	second := sampleSession("tok-1")
	second.PhoneNumber = "+19999999999"
	require.NoError(t, s.Put(ctx, second))

	got, err := s.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "+19999999999", got.PhoneNumber)
}

func TestSQLiteStore_ExpiredSessionNotFound(t *testing.T) {
	db := testDB(t)
	s := NewSQLiteSessionStore(db, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, sampleSession("tok-1")))

	// Backdate the touch timestamp past the TTL.
	stale := time.Now().UTC().Add(-2 * time.Minute).Format(time.DateTime)
	_, err := db.sql.Exec(`UPDATE sessions SET touched_at = ?`, stale)
	require.NoError(t, err)

	_, err = s.Get(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_TTLSlides(t *testing.T) {
	db := testDB(t)
	s := NewSQLiteSessionStore(db, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, sampleSession("tok-1")))

	// Half-stale; a Get should refresh the deadline.
	halfStale := time.Now().UTC().Add(-30 * time.Minute).Format(time.DateTime)
	_, err := db.sql.Exec(`UPDATE sessions SET touched_at = ?`, halfStale)
	require.NoError(t, err)

	_, err = s.Get(ctx, "tok-1")
	require.NoError(t, err)

	var touched string
	require.NoError(t, db.sql.QueryRow(`SELECT touched_at FROM sessions`).Scan(&touched))
	parsed, err := time.Parse(time.DateTime, touched)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), parsed, 10*time.Second)
}

func TestSQLiteStore_CredentialsSurvivePersistence(t *testing.T) {
	s := NewSQLiteSessionStore(testDB(t), 0)
	ctx := context.Background()

	sess := sampleSession("tok-1")
	sess.Credentials = domain.Credentials{UserID: "u-9", APIToken: "tk", APISecret: "sec"}
	require.NoError(t, s.Put(ctx, sess))

	got, err := s.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, sess.Credentials, got.Credentials)
}

// --- Memory store ---

func TestMemoryStore_PutGetRoundTrip(t *testing.T) {
	s := NewMemorySessionStore(0)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, sampleSession("tok-1")))
	got, err := s.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "app-1", got.ApplicationID)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	s := NewMemorySessionStore(0)
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ReturnsCopy(t *testing.T) {
	s := NewMemorySessionStore(0)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, sampleSession("tok-1")))
	got, err := s.Get(ctx, "tok-1")
	require.NoError(t, err)
	got.PhoneNumber = "mutated"

	again, err := s.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "+12345678901", again.PhoneNumber)
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemorySessionStore(time.Millisecond)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, sampleSession("tok-1")))
	time.Sleep(5 * time.Millisecond)

	_, err := s.Get(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrNotFound)
}
