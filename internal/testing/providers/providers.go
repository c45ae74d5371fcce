// package providers contains an in-memory movie provider for tests
package providers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/services"
	"github.com/desertthunder/reel/internal/shared"
)

// MockProvider is an in-memory [services.MovieProvider].
//
// Movies are served by every listing; Details is consulted by Movie. Setting Err makes every call fail.
type MockProvider struct {
	Movies    []models.Movie
	Details   map[int]models.Movie
	GenreList []models.Genre
	Err       error

	mu       sync.Mutex
	discover []services.DiscoverParams
}

// NewMockProvider returns a provider serving movies, with each movie also available as detail.
func NewMockProvider(movies ...models.Movie) *MockProvider {
	details := make(map[int]models.Movie, len(movies))
	for _, m := range movies {
		details[m.ID] = m
	}
	return &MockProvider{
		Movies:  movies,
		Details: details,
		GenreList: []models.Genre{
			{ID: 28, Name: "Action"},
			{ID: 18, Name: "Drama"},
			{ID: 878, Name: "Science Fiction"},
		},
	}
}

func (m *MockProvider) listing(page int) (*models.MoviePage, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if page < 1 {
		page = 1
	}
	results := append([]models.Movie{}, m.Movies...)
	return &models.MoviePage{Page: page, Results: results, TotalPages: 1, TotalResults: len(results)}, nil
}

func (m *MockProvider) Popular(ctx context.Context, page int) (*models.MoviePage, error) {
	return m.listing(page)
}

func (m *MockProvider) TopRated(ctx context.Context, page int) (*models.MoviePage, error) {
	return m.listing(page)
}

func (m *MockProvider) Discover(ctx context.Context, params services.DiscoverParams) (*models.MoviePage, error) {
	m.mu.Lock()
	m.discover = append(m.discover, params)
	m.mu.Unlock()
	return m.listing(params.Page)
}

// DiscoverCalls returns the params of every Discover call so far.
func (m *MockProvider) DiscoverCalls() []services.DiscoverParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]services.DiscoverParams{}, m.discover...)
}

func (m *MockProvider) Search(ctx context.Context, query string, page int) (*models.MoviePage, error) {
	p, err := m.listing(page)
	if err != nil {
		return nil, err
	}
	filtered := p.Results[:0]
	for _, movie := range p.Results {
		if strings.Contains(strings.ToLower(movie.Title), strings.ToLower(query)) {
			filtered = append(filtered, movie)
		}
	}
	p.Results, p.TotalResults = filtered, len(filtered)
	return p, nil
}

func (m *MockProvider) Movie(ctx context.Context, id int) (*models.Movie, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	movie, ok := m.Details[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", shared.ErrMovieNotFound, id)
	}
	return &movie, nil
}

func (m *MockProvider) Genres(ctx context.Context) ([]models.Genre, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.GenreList, nil
}

func (m *MockProvider) Name() string { return "mock" }

