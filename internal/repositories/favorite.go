package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/shared"
)

// FavoriteRepository persists favorites as [models.UserMovie] rows.
type FavoriteRepository struct {
	db *sql.DB
}

// NewFavoriteRepository creates a new [FavoriteRepository] with the given database connection
func NewFavoriteRepository(db *sql.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add stores a favorite. Returns [shared.ErrAlreadyExists] when the movie is already a favorite.
func (r *FavoriteRepository) Add(ctx context.Context, userID string, ref models.MovieRef) (*models.UserMovie, error) {
	fav := &models.UserMovie{
		ID:          shared.GenerateID(),
		UserID:      userID,
		MovieID:     ref.MovieID,
		MovieTitle:  ref.MovieTitle,
		MoviePoster: ref.MoviePoster,
		AddedAt:     time.Now().UTC(),
	}

	query := `
		INSERT INTO favorites (id, user_id, movie_id, movie_title, movie_poster, added_at) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, fav.ID, userID, fav.MovieID, fav.MovieTitle, nullString(fav.MoviePoster), fav.AddedAt)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: movie %d in favorites", shared.ErrAlreadyExists, ref.MovieID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert favorite: %w", err)
	}

	return fav, nil
}

// List returns up to limit favorites in the order they were added.
func (r *FavoriteRepository) List(ctx context.Context, userID string, limit int) ([]models.UserMovie, error) {
	query := `
		SELECT id, user_id, movie_id, movie_title, movie_poster, added_at
		FROM favorites
		WHERE user_id = ?
		ORDER BY added_at ASC, rowid ASC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limitOrDefault(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	return scanUserMovies(rows)
}

// Exists reports whether movieID is one of the user's favorites.
func (r *FavoriteRepository) Exists(ctx context.Context, userID string, movieID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = ? AND movie_id = ?)", userID, movieID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return exists, nil
}

// Remove deletes a favorite. Returns [shared.ErrNotFound] when it does not exist.
func (r *FavoriteRepository) Remove(ctx context.Context, userID string, movieID int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM favorites WHERE user_id = ? AND movie_id = ?", userID, movieID)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: movie %d in favorites", shared.ErrNotFound, movieID)
	}

	return nil
}

// scanUserMovies reads (id, user_id, movie_id, movie_title, movie_poster, added_at) rows.
func scanUserMovies(rows *sql.Rows) ([]models.UserMovie, error) {
	movies := []models.UserMovie{}
	for rows.Next() {
		var (
			m      models.UserMovie
			poster sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.UserID, &m.MovieID, &m.MovieTitle, &poster, &m.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		m.MoviePoster = poster.String
		movies = append(movies, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return movies, nil
}
