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

// WatchlistRepository persists [models.Watchlist] and its ordered movie entries.
type WatchlistRepository struct {
	db *sql.DB
}

// NewWatchlistRepository creates a new [WatchlistRepository] with the given database connection
func NewWatchlistRepository(db *sql.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Create inserts an empty watchlist.
func (r *WatchlistRepository) Create(ctx context.Context, userID, name, description string) (*models.Watchlist, error) {
	name = strings.TrimSpace(name)
	if err := models.ValidateWatchlistName(name); err != nil {
		return nil, err
	}

	sequence, err := NextSequence(ctx, r.db, "watchlists")
	if err != nil {
		return nil, fmt.Errorf("failed to generate sequence: %w", err)
	}

	wl := &models.Watchlist{
		ID:          shared.GenerateID(),
		UserID:      userID,
		Name:        name,
		Description: description,
		Movies:      []models.UserMovie{},
		CreatedAt:   time.Now().UTC(),
	}

	query := `
		INSERT INTO watchlists (id, sequence, user_id, name, description, created_at) VALUES (?, ?, ?, ?, ?, ?)
	`

	if _, err := r.db.ExecContext(ctx, query, wl.ID, sequence, userID, name, nullString(description), wl.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert watchlist: %w", err)
	}

	return wl, nil
}

// Get returns a watchlist owned by userID with its movies.
// Returns [shared.ErrWatchlistNotFound] when it does not exist or belongs to someone else.
func (r *WatchlistRepository) Get(ctx context.Context, userID, id string) (*models.Watchlist, error) {
	query := `
		SELECT id, user_id, name, description, created_at
		FROM watchlists
		WHERE id = ? AND user_id = ?
	`

	var (
		wl   models.Watchlist
		desc sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&wl.ID, &wl.UserID, &wl.Name, &desc, &wl.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrWatchlistNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	wl.Description = desc.String

	movies, err := r.movies(ctx, "watchlist_id = ?", id)
	if err != nil {
		return nil, err
	}
	wl.Movies = movies[id]
	if wl.Movies == nil {
		wl.Movies = []models.UserMovie{}
	}

	return &wl, nil
}

// List returns up to limit watchlists owned by userID, oldest first, each with its movies.
func (r *WatchlistRepository) List(ctx context.Context, userID string, limit int) ([]models.Watchlist, error) {
	query := `
		SELECT id, user_id, name, description, created_at
		FROM watchlists
		WHERE user_id = ?
		ORDER BY sequence ASC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limitOrDefault(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlists: %w", err)
	}

	watchlists := []models.Watchlist{}
	for rows.Next() {
		var (
			wl   models.Watchlist
			desc sql.NullString
		)
		if err := rows.Scan(&wl.ID, &wl.UserID, &wl.Name, &desc, &wl.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan watchlist: %w", err)
		}
		wl.Description = desc.String
		watchlists = append(watchlists, wl)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	movies, err := r.movies(ctx, "user_id = ?", userID)
	if err != nil {
		return nil, err
	}
	for i := range watchlists {
		watchlists[i].Movies = movies[watchlists[i].ID]
		if watchlists[i].Movies == nil {
			watchlists[i].Movies = []models.UserMovie{}
		}
	}

	return watchlists, nil
}

// movies loads watchlist entries matching where, grouped by watchlist id in position order.
func (r *WatchlistRepository) movies(ctx context.Context, where string, arg any) (map[string][]models.UserMovie, error) {
	query := `
		SELECT watchlist_id, id, user_id, movie_id, movie_title, movie_poster, added_at
		FROM watchlist_movies
		WHERE ` + where + `
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist movies: %w", err)
	}
	defer rows.Close()

	grouped := make(map[string][]models.UserMovie)
	for rows.Next() {
		var (
			watchlistID string
			m           models.UserMovie
			poster      sql.NullString
		)
		if err := rows.Scan(&watchlistID, &m.ID, &m.UserID, &m.MovieID, &m.MovieTitle, &poster, &m.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist movie: %w", err)
		}
		m.MoviePoster = poster.String
		grouped[watchlistID] = append(grouped[watchlistID], m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return grouped, nil
}

// AddMovie appends a movie to the end of a watchlist.
//
// Returns [shared.ErrWatchlistNotFound] when the watchlist is not owned by userID and
// [shared.ErrAlreadyExists] when the movie is already in it.
func (r *WatchlistRepository) AddMovie(ctx context.Context, userID, watchlistID string, ref models.MovieRef) (*models.UserMovie, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var owned bool
	err = tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM watchlists WHERE id = ? AND user_id = ?)", watchlistID, userID,
	).Scan(&owned)
	if err != nil {
		return nil, fmt.Errorf("failed to check watchlist: %w", err)
	}
	if !owned {
		return nil, fmt.Errorf("%w: %s", shared.ErrWatchlistNotFound, watchlistID)
	}

	var position int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position), 0) + 1 FROM watchlist_movies WHERE watchlist_id = ?", watchlistID,
	).Scan(&position)
	if err != nil {
		return nil, fmt.Errorf("failed to get next position: %w", err)
	}

	m := &models.UserMovie{
		ID:          shared.GenerateID(),
		UserID:      userID,
		MovieID:     ref.MovieID,
		MovieTitle:  ref.MovieTitle,
		MoviePoster: ref.MoviePoster,
		AddedAt:     time.Now().UTC(),
	}

	query := `
		INSERT INTO watchlist_movies (id, watchlist_id, user_id, movie_id, movie_title, movie_poster, position, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.ExecContext(ctx, query, m.ID, watchlistID, userID, m.MovieID, m.MovieTitle, nullString(m.MoviePoster), position, m.AddedAt)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: movie %d in watchlist", shared.ErrAlreadyExists, ref.MovieID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert watchlist movie: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return m, nil
}

// RemoveMovie removes a movie from a watchlist owned by userID.
// Returns [shared.ErrNotFound] when there is nothing to remove.
func (r *WatchlistRepository) RemoveMovie(ctx context.Context, userID, watchlistID string, movieID int) error {
	query := `
		DELETE FROM watchlist_movies
		WHERE watchlist_id = ? AND movie_id = ?
		AND watchlist_id IN (SELECT id FROM watchlists WHERE user_id = ?)
	`

	result, err := r.db.ExecContext(ctx, query, watchlistID, movieID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete watchlist movie: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: movie %d in watchlist", shared.ErrNotFound, movieID)
	}

	return nil
}
