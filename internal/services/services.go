// package services defines interface MovieProvider for movie metadata sources
// and the clients that talk to the reel backend.
package services

import (
	"context"
	"net/url"
	"strconv"

	"github.com/desertthunder/reel/internal/models"
)

// DefaultSortBy is the discover ordering used when none is given.
const DefaultSortBy = "popularity.desc"

// SortOptions are the discover orderings offered to users.
var SortOptions = []string{
	"popularity.desc",
	"vote_average.desc",
	"release_date.desc",
	"revenue.desc",
}

// MovieProvider defines the interface for movie metadata sources (TMDB, or the reel backend proxying it).
type MovieProvider interface {
	// Popular returns a page of currently popular movies.
	Popular(ctx context.Context, page int) (*models.MoviePage, error)

	// TopRated returns a page of the highest rated movies.
	TopRated(ctx context.Context, page int) (*models.MoviePage, error)

	// Discover returns a page filtered by genre and year.
	Discover(ctx context.Context, params DiscoverParams) (*models.MoviePage, error)

	// Search returns a page of movies matching query.
	Search(ctx context.Context, query string, page int) (*models.MoviePage, error)

	// Movie returns full detail for a movie.
	// Returns an error wrapping [shared.ErrMovieNotFound] for unknown ids.
	Movie(ctx context.Context, id int) (*models.Movie, error)

	// Genres returns the genre catalogue.
	Genres(ctx context.Context) ([]models.Genre, error)

	// Name returns the name of the provider (e.g., "TMDB")
	Name() string
}

// DiscoverParams filters a discover listing. Zero values are omitted.
type DiscoverParams struct {
	GenreID int
	Year    int
	SortBy  string
	Page    int
}

// Normalize applies the default sort and a page of at least 1.
func (p DiscoverParams) Normalize() DiscoverParams {
	if p.SortBy == "" {
		p.SortBy = DefaultSortBy
	}
	if p.Page < 1 {
		p.Page = 1
	}
	return p
}

// Values encodes the params with the given name for the genre filter
// ("genre_id" for the backend, "with_genres" for TMDB).
func (p DiscoverParams) Values(genreKey string) url.Values {
	p = p.Normalize()
	v := url.Values{}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("sort_by", p.SortBy)
	if p.GenreID > 0 {
		v.Set(genreKey, strconv.Itoa(p.GenreID))
	}
	if p.Year > 0 {
		v.Set("year", strconv.Itoa(p.Year))
	}
	return v
}

func pageValues(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": {strconv.Itoa(page)}}
}
