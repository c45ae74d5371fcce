package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/shared"
)

// UserRecord is a user together with the stored password hash.
type UserRecord struct {
	models.User
	HashedPassword string
}

// UserRepository persists [models.User] accounts.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, name, hashed_password, profile_image, created_at`

// Create inserts a new user with a generated ID and sequence.
// Returns [shared.ErrAlreadyExists] when the email is taken.
func (r *UserRepository) Create(ctx context.Context, email, name, hashedPassword string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	sequence, err := NextSequence(ctx, r.db, "users")
	if err != nil {
		return nil, fmt.Errorf("failed to generate sequence: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{ID: shared.GenerateID(), Email: email, Name: name, CreatedAt: now}

	query := `
		INSERT INTO users (id, sequence, email, name, hashed_password, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query, user.ID, sequence, email, name, hashedPassword, now, now)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: email %s", shared.ErrAlreadyExists, email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

func scanUser(row *sql.Row) (*UserRecord, error) {
	var (
		rec          UserRecord
		profileImage sql.NullString
	)
	err := row.Scan(&rec.ID, &rec.Email, &rec.Name, &rec.HashedPassword, &profileImage, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	if profileImage.Valid {
		rec.ProfileImage = &profileImage.String
	}
	return &rec, nil
}

// Get retrieves a user by ID, excluding soft-deleted users
func (r *UserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ? AND deleted_at IS NULL`

	rec, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &rec.User, nil
}

// GetByEmail retrieves a user and password hash by email, excluding soft-deleted users
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*UserRecord, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ? AND deleted_at IS NULL`

	rec, err := scanUser(r.db.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email))))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", shared.ErrNotFound, email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return rec, nil
}

// Update modifies the name and profile image of an existing user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	if strings.TrimSpace(user.Name) == "" {
		return fmt.Errorf("%w: name is required", shared.ErrInvalidInput)
	}

	var profileImage sql.NullString
	if user.ProfileImage != nil {
		profileImage = nullString(*user.ProfileImage)
	}

	query := `
		UPDATE users
		SET name = ?, profile_image = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, user.Name, profileImage, time.Now().UTC(), user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: user %s", shared.ErrNotFound, user.ID)
	}

	return nil
}
