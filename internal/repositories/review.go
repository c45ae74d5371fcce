package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/shared"
)

// ReviewRepository persists [models.Review] rows, one per (user, movie).
type ReviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new [ReviewRepository] with the given database connection
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Upsert creates the user's review of a movie, or replaces its rating and text when one exists.
func (r *ReviewRepository) Upsert(ctx context.Context, userID string, req models.ReviewRequest) (*models.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO reviews (id, user_id, movie_id, rating, review_text, created_at) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, movie_id) DO UPDATE SET rating = excluded.rating, review_text = excluded.review_text
	`

	_, err := r.db.ExecContext(ctx, query,
		shared.GenerateID(), userID, req.MovieID, req.Rating, nullString(req.ReviewText), time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert review: %w", err)
	}

	var (
		review models.Review
		text   sql.NullString
	)
	err = r.db.QueryRowContext(ctx, `
		SELECT id, user_id, movie_id, rating, review_text, created_at
		FROM reviews WHERE user_id = ? AND movie_id = ?
	`, userID, req.MovieID).Scan(&review.ID, &review.UserID, &review.MovieID, &review.Rating, &text, &review.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to query review: %w", err)
	}
	review.ReviewText = text.String

	return &review, nil
}

// ListByMovie returns up to limit reviews of a movie, oldest first.
func (r *ReviewRepository) ListByMovie(ctx context.Context, movieID, limit int) ([]models.Review, error) {
	return r.list(ctx, "movie_id = ?", movieID, limit)
}

// ListByUser returns up to limit reviews written by userID, oldest first.
func (r *ReviewRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.Review, error) {
	return r.list(ctx, "user_id = ?", userID, limit)
}

func (r *ReviewRepository) list(ctx context.Context, where string, arg any, limit int) ([]models.Review, error) {
	query := `
		SELECT id, user_id, movie_id, rating, review_text, created_at
		FROM reviews
		WHERE ` + where + `
		ORDER BY created_at ASC, rowid ASC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, arg, limitOrDefault(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var (
			review models.Review
			text   sql.NullString
		)
		if err := rows.Scan(&review.ID, &review.UserID, &review.MovieID, &review.Rating, &text, &review.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		review.ReviewText = text.String
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return reviews, nil
}
