package database

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(db))
	return db
}

func insertUser(db *sql.DB, id, handle, email string) error {
	_, err := db.Exec(
		`INSERT INTO users(id, handle, name, email, password_hash) VALUES(?, ?, 'n', ?, 'h')`,
		id, handle, email)
	return err
}

func TestMigrate_Idempotent(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	require.NoError(t, Migrate(db))
}

func TestUniqueEmailEnforcedByStore(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	require.NoError(t, insertUser(db, "u1", "alice", "a@x.com"))

	err := insertUser(db, "u2", "bob", "a@x.com")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err, "email"))
	assert.False(t, IsUniqueViolation(err, "handle"))
}

func TestUniqueHandleEnforcedByStore(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	require.NoError(t, insertUser(db, "u1", "alice", "a@x.com"))

	err := insertUser(db, "u2", "alice", "b@x.com")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err, "handle"))
	assert.False(t, IsUniqueViolation(err, "email"))
}

func TestIsUniqueViolation_NilError(t *testing.T) {
	t.Parallel()

	assert.False(t, IsUniqueViolation(nil, "email"))
}
