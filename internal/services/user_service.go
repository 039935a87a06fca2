package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/mcortesr/devtree-be/internal/auth"
	"github.com/mcortesr/devtree-be/internal/database"
	"github.com/mcortesr/devtree-be/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, input RegisterInput) (models.User, error)
	Authenticate(ctx context.Context, email, password string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByHandle(ctx context.Context, handle string) (models.User, error)
	UpdateProfile(ctx context.Context, userID, handle, description string) (models.User, error)
	UpdateLinks(ctx context.Context, userID string, links []models.Link) (models.User, error)
	UpdateImage(ctx context.Context, userID, imageURL string) (models.User, error)
}

// RegisterInput carries the fields accepted at registration. Handle is the
// raw user input; the service normalizes it to a slug before any uniqueness
// check or write.
type RegisterInput struct {
	Email    string
	Password string
	Handle   string
	Name     string
}

// UserService provides business logic for account management.
type UserService struct {
	db       *sql.DB
	hashCost int
}

// NewUserService creates a new UserService. hashCost is the bcrypt work
// factor; pass auth.DefaultCost outside of tests.
func NewUserService(db *sql.DB, hashCost int) *UserService {
	return &UserService{db: db, hashCost: hashCost}
}

// Register creates a new account. Duplicate email or handle (after slug
// normalization) is a conflict. The pre-insert lookups give good error
// messages; the UNIQUE indexes close the race two concurrent registrations
// would otherwise win together.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	_, err := s.GetByEmail(ctx, input.Email)
	if err == nil {
		return models.User{}, models.ErrEmailTaken
	}
	if !errors.Is(err, models.ErrUserNotFound) {
		return models.User{}, err
	}

	handle := slug.Make(input.Handle)
	_, err = s.GetByHandle(ctx, handle)
	if err == nil {
		return models.User{}, models.ErrHandleTaken
	}
	if !errors.Is(err, models.ErrUserNotFound) {
		return models.User{}, err
	}

	hashedPassword, err := auth.HashPassword(input.Password, s.hashCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Handle:       handle,
		Name:         input.Name,
		Email:        input.Email,
		Links:        []models.Link{},
		PasswordHash: hashedPassword,
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users(id, handle, name, email, password_hash, links_json) VALUES(?, ?, ?, ?, ?, '[]')`,
		user.ID, user.Handle, user.Name, user.Email, user.PasswordHash)
	if err != nil {
		if database.IsUniqueViolation(err, "email") {
			return models.User{}, models.ErrEmailTaken
		}
		if database.IsUniqueViolation(err, "handle") {
			return models.User{}, models.ErrHandleTaken
		}
		return models.User{}, err
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies a user's credentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return models.User{}, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return models.User{}, models.ErrInvalidPassword
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// GetByID retrieves a single user by their ID. The password hash is
// excluded from the projection; callers of this method never need it.
func (s *UserService) GetByID(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, handle, name, email, description, image, links_json, created_at FROM users WHERE id = ?`, id)
	return scanUser(row, false)
}

// GetByEmail retrieves a single user by their email, including the password hash.
func (s *UserService) GetByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, handle, name, email, description, image, links_json, created_at, password_hash FROM users WHERE email = ?`, email)
	return scanUser(row, true)
}

// GetByHandle retrieves a single user by their normalized handle.
func (s *UserService) GetByHandle(ctx context.Context, handle string) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, handle, name, email, description, image, links_json, created_at FROM users WHERE handle = ?`, handle)
	return scanUser(row, false)
}

// UpdateProfile overwrites the user's description and handle. The new
// handle is slug-normalized first; claiming a handle that belongs to a
// different user is a conflict, keeping one's own handle is allowed.
func (s *UserService) UpdateProfile(ctx context.Context, userID, handle, description string) (models.User, error) {
	normalized := slug.Make(handle)

	existing, err := s.GetByHandle(ctx, normalized)
	if err == nil && existing.ID != userID {
		return models.User{}, models.ErrHandleTaken
	}
	if err != nil && !errors.Is(err, models.ErrUserNotFound) {
		return models.User{}, err
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE users SET handle = ?, description = ? WHERE id = ?`, normalized, description, userID)
	if err != nil {
		if database.IsUniqueViolation(err, "handle") {
			return models.User{}, models.ErrHandleTaken
		}
		return models.User{}, err
	}
	return s.GetByID(ctx, userID)
}

// UpdateLinks replaces the user's links wholesale, preserving order.
func (s *UserService) UpdateLinks(ctx context.Context, userID string, links []models.Link) (models.User, error) {
	if links == nil {
		links = []models.Link{}
	}
	linksJSON, err := json.Marshal(links)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to encode links: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE users SET links_json = ? WHERE id = ?`, string(linksJSON), userID)
	if err != nil {
		return models.User{}, err
	}
	return s.GetByID(ctx, userID)
}

// UpdateImage overwrites the user's avatar URL.
func (s *UserService) UpdateImage(ctx context.Context, userID, imageURL string) (models.User, error) {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET image = ? WHERE id = ?`, imageURL, userID)
	if err != nil {
		return models.User{}, err
	}
	return s.GetByID(ctx, userID)
}

func scanUser(row *sql.Row, withHash bool) (models.User, error) {
	var user models.User
	var linksJSON string

	dest := []any{&user.ID, &user.Handle, &user.Name, &user.Email, &user.Description, &user.Image, &linksJSON, &user.CreatedAt}
	if withHash {
		dest = append(dest, &user.PasswordHash)
	}

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, models.ErrUserNotFound
		}
		return models.User{}, err
	}

	if err := json.Unmarshal([]byte(linksJSON), &user.Links); err != nil {
		return models.User{}, fmt.Errorf("failed to decode links: %w", err)
	}
	return user, nil
}
