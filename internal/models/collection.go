package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/desertthunder/reel/internal/shared"
)

const (
	MinRating = 0.0
	MaxRating = 10.0
)

// MovieRef carries the identity fields of a movie for favorite and watchlist mutations.
type MovieRef struct {
	MovieID     int    `json:"movie_id"`
	MovieTitle  string `json:"movie_title"`
	MoviePoster string `json:"movie_poster,omitempty"`
}

// Validate requires a positive movie id and a title.
func (r MovieRef) Validate() error {
	if r.MovieID <= 0 {
		return fmt.Errorf("%w: movie_id must be positive", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(r.MovieTitle) == "" {
		return fmt.Errorf("%w: movie_title is required", shared.ErrInvalidInput)
	}
	return nil
}

// UserMovie is a favorite or a watchlist entry.
type UserMovie struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	MovieID     int       `json:"movie_id"`
	MovieTitle  string    `json:"movie_title"`
	MoviePoster string    `json:"movie_poster,omitempty"`
	AddedAt     time.Time `json:"added_at"`
}

// Watchlist is a named, user-owned ordered collection of movies.
type Watchlist struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Movies      []UserMovie `json:"movies"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Contains reports whether the movie is already in the watchlist.
func (w Watchlist) Contains(movieID int) bool {
	for _, m := range w.Movies {
		if m.MovieID == movieID {
			return true
		}
	}
	return false
}

// ValidateWatchlistName rejects blank names.
func ValidateWatchlistName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: watchlist name is required", shared.ErrInvalidInput)
	}
	return nil
}

// Review is a user's rating of a movie.
type Review struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	MovieID    int       `json:"movie_id"`
	Rating     float64   `json:"rating"`
	ReviewText string    `json:"review_text,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReviewRequest is the body of POST /reviews.
type ReviewRequest struct {
	MovieID    int     `json:"movie_id"`
	Rating     float64 `json:"rating"`
	ReviewText string  `json:"review_text,omitempty"`
}

// Validate checks the movie id and the 0–10 rating range.
func (r ReviewRequest) Validate() error {
	if r.MovieID <= 0 {
		return fmt.Errorf("%w: movie_id must be positive", shared.ErrInvalidInput)
	}
	if math.IsNaN(r.Rating) || r.Rating < MinRating || r.Rating > MaxRating {
		return fmt.Errorf("%w: %v is outside %.0f-%.0f", shared.ErrInvalidRating, r.Rating, MinRating, MaxRating)
	}
	return nil
}

// RoundRating rounds a rating to one decimal place.
func RoundRating(r float64) float64 {
	return math.Round(r*10) / 10
}

// FindReview returns the review written by userID, if any.
//
// The backend keeps one review per (user, movie); this lookup does not rely on it and returns the first match.
func FindReview(reviews []Review, userID string) *Review {
	for i := range reviews {
		if reviews[i].UserID == userID {
			return &reviews[i]
		}
	}
	return nil
}

// AverageRating returns the mean rating of the reviews, or 0 when there are none.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	return RoundRating(sum / float64(len(reviews)))
}
