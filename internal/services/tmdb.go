// TMDB implementation of [MovieProvider]
//
// Response shapes follow https://developer.themoviedb.org/reference
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/shared"
	"golang.org/x/oauth2"
)

const tmdbBaseURL = "https://api.themoviedb.org/3"

// TMDBService implements [MovieProvider] against the TMDB v3 API.
// The read access token is sent as a bearer credential through an [oauth2.StaticTokenSource].
type TMDBService struct {
	baseURL    string
	httpClient *http.Client
}

// NewTMDBService creates a TMDB provider. A custom HTTP client for the transport can be
// supplied through ctx with the [oauth2.HTTPClient] key.
func NewTMDBService(ctx context.Context, apiKey, baseURL string) (*TMDBService, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: tmdb api_key", shared.ErrMissingCredentials)
	}
	if baseURL == "" {
		baseURL = tmdbBaseURL
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"})
	return &TMDBService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: oauth2.NewClient(ctx, src),
	}, nil
}

func (s *TMDBService) Name() string { return "TMDB" }

// doRequest performs an authenticated GET against the TMDB API.
func (s *TMDBService) doRequest(ctx context.Context, endpoint string, query url.Values, result any) error {
	apiURL := s.baseURL + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: tmdb %s", shared.ErrNotFound, endpoint)
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: tmdb rejected the api key", shared.ErrInvalidCredentials)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: tmdb API error: status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (s *TMDBService) page(ctx context.Context, endpoint string, query url.Values) (*models.MoviePage, error) {
	var page models.MoviePage
	if err := s.doRequest(ctx, endpoint, query, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		page.Results = []models.Movie{}
	}
	return &page, nil
}

// Popular retrieves /movie/popular.
func (s *TMDBService) Popular(ctx context.Context, page int) (*models.MoviePage, error) {
	return s.page(ctx, "/movie/popular", pageValues(page))
}

// TopRated retrieves /movie/top_rated.
func (s *TMDBService) TopRated(ctx context.Context, page int) (*models.MoviePage, error) {
	return s.page(ctx, "/movie/top_rated", pageValues(page))
}

// Discover retrieves /discover/movie filtered by with_genres and year.
func (s *TMDBService) Discover(ctx context.Context, params DiscoverParams) (*models.MoviePage, error) {
	return s.page(ctx, "/discover/movie", params.Values("with_genres"))
}

// Search retrieves /search/movie.
func (s *TMDBService) Search(ctx context.Context, query string, page int) (*models.MoviePage, error) {
	v := pageValues(page)
	v.Set("query", query)
	return s.page(ctx, "/search/movie", v)
}

// Movie retrieves /movie/{id}.
func (s *TMDBService) Movie(ctx context.Context, id int) (*models.Movie, error) {
	var movie models.Movie
	if err := s.doRequest(ctx, "/movie/"+strconv.Itoa(id), nil, &movie); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", shared.ErrMovieNotFound, id)
		}
		return nil, err
	}
	return &movie, nil
}

// Genres retrieves /genre/movie/list.
func (s *TMDBService) Genres(ctx context.Context) ([]models.Genre, error) {
	var list models.GenreList
	if err := s.doRequest(ctx, "/genre/movie/list", nil, &list); err != nil {
		return nil, err
	}
	return list.Genres, nil
}
