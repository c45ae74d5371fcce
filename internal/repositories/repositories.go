package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// ListLimit caps every list query.
const ListLimit = 100

// Store bundles the repositories backed by one database.
type Store struct {
	Users      *UserRepository
	Favorites  *FavoriteRepository
	Watchlists *WatchlistRepository
	Reviews    *ReviewRepository
}

// NewStore creates every repository over db.
func NewStore(db *sql.DB) *Store {
	return &Store{
		Users:      NewUserRepository(db),
		Favorites:  NewFavoriteRepository(db),
		Watchlists: NewWatchlistRepository(db),
		Reviews:    NewReviewRepository(db),
	}
}

// NextSequence atomically increments and returns the next sequence number for the given table.
//
// Sequence numbers provide insertion ordering for entities (e.g., user #42, watchlist #15).
// They are not exposed over the API.
func NextSequence(ctx context.Context, db *sql.DB, table string) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequenceTable := table + "_sequence"

	_, err = tx.ExecContext(ctx, fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", sequenceTable))
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	err = tx.QueryRowContext(ctx, fmt.Sprintf("SELECT value FROM %s WHERE id = 1", sequenceTable)).Scan(&sequence)
	if err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func limitOrDefault(limit int) int {
	if limit <= 0 || limit > ListLimit {
		return ListLimit
	}
	return limit
}
