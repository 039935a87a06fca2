package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcortesr/devtree-be/internal/auth"
	"github.com/mcortesr/devtree-be/internal/database"
	"github.com/mcortesr/devtree-be/internal/models"
)

func newTestService(t *testing.T) *UserService {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))

	// MinCost keeps hashing fast in tests.
	return NewUserService(db, bcrypt.MinCost)
}

func register(t *testing.T, s *UserService, email, handle string) models.User {
	t.Helper()

	user, err := s.Register(context.Background(), RegisterInput{
		Email:    email,
		Password: "longpass1",
		Handle:   handle,
		Name:     "Test User",
	})
	require.NoError(t, err)
	return user
}

func TestRegister(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	user := register(t, s, "a@x.com", "A B")

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "a-b", user.Handle, "handle must be slug-normalized")
	assert.Equal(t, "a@x.com", user.Email)
	assert.Empty(t, user.PasswordHash, "hash must not leave the service")
}

func TestRegister_NeverStoresPlaintext(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	register(t, s, "a@x.com", "alice")

	stored, err := s.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)

	assert.NotEqual(t, "longpass1", stored.PasswordHash)
	assert.True(t, auth.CheckPassword("longpass1", stored.PasswordHash))
	assert.False(t, auth.CheckPassword("longpass2", stored.PasswordHash))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	register(t, s, "dup@x.com", "first")

	_, err := s.Register(context.Background(), RegisterInput{
		Email:    "dup@x.com",
		Password: "longpass1",
		Handle:   "completely-different",
		Name:     "Other",
	})
	assert.ErrorIs(t, err, models.ErrEmailTaken)
}

func TestRegister_DuplicateHandleAfterNormalization(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	register(t, s, "one@x.com", "my-handle")

	// "My Handle" normalizes to "my-handle" and must collide.
	_, err := s.Register(context.Background(), RegisterInput{
		Email:    "two@x.com",
		Password: "longpass1",
		Handle:   "My Handle",
		Name:     "Other",
	})
	assert.ErrorIs(t, err, models.ErrHandleTaken)
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	register(t, s, "login@x.com", "login-user")

	user, err := s.Authenticate(context.Background(), "login@x.com", "longpass1")
	require.NoError(t, err)
	assert.Equal(t, "login@x.com", user.Email)
	assert.Empty(t, user.PasswordHash)
}

func TestAuthenticate_UnknownEmail(t *testing.T) {
	t.Parallel()

	s := newTestService(t)

	_, err := s.Authenticate(context.Background(), "nobody@x.com", "longpass1")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	register(t, s, "login@x.com", "login-user")

	_, err := s.Authenticate(context.Background(), "login@x.com", "wrongpass1")
	assert.ErrorIs(t, err, models.ErrInvalidPassword)
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	user := register(t, s, "a@x.com", "alice")

	updated, err := s.UpdateProfile(context.Background(), user.ID, "New Alias", "my page")
	require.NoError(t, err)
	assert.Equal(t, "new-alias", updated.Handle)
	assert.Equal(t, "my page", updated.Description)
}

func TestUpdateProfile_HandleOwnedByOtherUser(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	register(t, s, "a@x.com", "alice")
	bob := register(t, s, "b@x.com", "bob")

	_, err := s.UpdateProfile(context.Background(), bob.ID, "Alice", "taking over")
	assert.ErrorIs(t, err, models.ErrHandleTaken)
}

func TestUpdateProfile_OwnHandleAllowed(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	user := register(t, s, "a@x.com", "alice")

	// Keeping the current handle while changing the description is fine.
	updated, err := s.UpdateProfile(context.Background(), user.ID, "alice", "new description")
	require.NoError(t, err)
	assert.Equal(t, "alice", updated.Handle)
	assert.Equal(t, "new description", updated.Description)
}

func TestUpdateLinks_PreservesOrder(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	user := register(t, s, "a@x.com", "alice")

	links := []models.Link{
		{Name: "github", URL: "https://github.com/alice", Enabled: true},
		{Name: "x", URL: "https://x.com/alice", Enabled: false},
		{Name: "site", URL: "https://alice.dev", Enabled: true},
	}

	updated, err := s.UpdateLinks(context.Background(), user.ID, links)
	require.NoError(t, err)
	assert.Equal(t, links, updated.Links)

	reloaded, err := s.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, links, reloaded.Links)
}

func TestUpdateLinks_Overwrite(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	user := register(t, s, "a@x.com", "alice")

	_, err := s.UpdateLinks(context.Background(), user.ID, []models.Link{
		{Name: "github", URL: "https://github.com/alice", Enabled: true},
	})
	require.NoError(t, err)

	updated, err := s.UpdateLinks(context.Background(), user.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, updated.Links, "links are replaced wholesale")
}

func TestUpdateImage(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	user := register(t, s, "a@x.com", "alice")

	updated, err := s.UpdateImage(context.Background(), user.ID, "https://cdn.example.com/avatars/abc")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/avatars/abc", updated.Image)
}

func TestGetByHandle(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	register(t, s, "a@x.com", "A B")

	user, err := s.GetByHandle(context.Background(), "a-b")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)

	_, err = s.GetByHandle(context.Background(), "nobody")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}
