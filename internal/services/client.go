package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/shared"
	"golang.org/x/time/rate"
)

const apiPrefix = "/api"

// Client talks to the reel backend REST API.
//
// A Client is a value bound to one credential token. [Client.WithToken] returns a copy,
// so replacing the session token never changes the headers of requests already in flight.
type Client struct {
	baseURL        string
	token          string
	httpClient     *http.Client
	limiter        *rate.Limiter
	onUnauthorized func(token string)
}

// ClientOption configures a [Client].
type ClientOption func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithTimeout sets the per-request timeout on a fresh HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithRateLimit limits outgoing requests to rps per second. Zero disables limiting.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// NewClient creates a backend client for baseURL (the server root, with or without "/api").
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8001"
	}
	baseURL = strings.TrimSuffix(strings.TrimRight(baseURL, "/"), apiPrefix)

	c := &Client{baseURL: baseURL, httpClient: &http.Client{Timeout: 10 * time.Second}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithToken returns a copy of the client that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// OnUnauthorized returns a copy of the client that calls fn with its token whenever an
// authenticated request is rejected with 401 or 403.
func (c *Client) OnUnauthorized(fn func(token string)) *Client {
	cp := *c
	cp.onUnauthorized = fn
	return &cp
}

// Token returns the credential token carried by the client.
func (c *Client) Token() string { return c.token }

// Authenticated reports whether the client carries a token.
func (c *Client) Authenticated() bool { return c.token != "" }

// BaseURL returns the server root.
func (c *Client) BaseURL() string { return c.baseURL }

// do sends a request to path (relative to /api), encoding body as JSON and decoding the response into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrTimeout, err)
		}
	}

	u := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := NewAPIError(resp.StatusCode, data)
		if c.token != "" && c.onUnauthorized != nil && IsUnauthorized(apiErr) {
			c.onUnauthorized(c.token)
		}
		return apiErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// Health calls GET / and returns the status message.
func (c *Client) Health(ctx context.Context) (*models.Message, error) {
	var msg models.Message
	if err := c.do(ctx, http.MethodGet, "/", nil, nil, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Register creates an account and returns its access token and identity.
func (c *Client) Register(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	var auth models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, creds, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

// Login exchanges email and password for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var auth models.AuthResponse
	body := models.Credentials{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

// Me returns the identity the client's token belongs to.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) page(ctx context.Context, path string, query url.Values) (*models.MoviePage, error) {
	var page models.MoviePage
	if err := c.do(ctx, http.MethodGet, path, query, nil, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		page.Results = []models.Movie{}
	}
	return &page, nil
}

// Popular returns a page of popular movies.
func (c *Client) Popular(ctx context.Context, page int) (*models.MoviePage, error) {
	return c.page(ctx, "/movies/popular", pageValues(page))
}

// TopRated returns a page of top rated movies.
func (c *Client) TopRated(ctx context.Context, page int) (*models.MoviePage, error) {
	return c.page(ctx, "/movies/top-rated", pageValues(page))
}

// Discover returns a filtered page of movies.
func (c *Client) Discover(ctx context.Context, params DiscoverParams) (*models.MoviePage, error) {
	return c.page(ctx, "/movies/discover", params.Values("genre_id"))
}

// Search returns movies matching query.
func (c *Client) Search(ctx context.Context, query string, page int) (*models.MoviePage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}
	v := pageValues(page)
	v.Set("q", query)
	return c.page(ctx, "/movies/search", v)
}

// Movie returns full detail for a movie.
func (c *Client) Movie(ctx context.Context, id int) (*models.Movie, error) {
	var movie models.Movie
	if err := c.do(ctx, http.MethodGet, "/movies/"+strconv.Itoa(id), nil, nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// Genres returns the genre catalogue.
func (c *Client) Genres(ctx context.Context) ([]models.Genre, error) {
	var list models.GenreList
	if err := c.do(ctx, http.MethodGet, "/genres", nil, nil, &list); err != nil {
		return nil, err
	}
	return list.Genres, nil
}

// Name identifies the backend as a [MovieProvider].
func (c *Client) Name() string { return "reel" }

// Favorites lists the user's favorites.
func (c *Client) Favorites(ctx context.Context) ([]models.UserMovie, error) {
	favorites := []models.UserMovie{}
	if err := c.do(ctx, http.MethodGet, "/favorites", nil, nil, &favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}

// AddFavorite adds a movie to the user's favorites.
func (c *Client) AddFavorite(ctx context.Context, ref models.MovieRef) (*models.Message, error) {
	var msg models.Message
	if err := c.do(ctx, http.MethodPost, "/favorites", nil, ref, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// RemoveFavorite removes a movie from the user's favorites.
func (c *Client) RemoveFavorite(ctx context.Context, movieID int) (*models.Message, error) {
	var msg models.Message
	if err := c.do(ctx, http.MethodDelete, "/favorites/"+strconv.Itoa(movieID), nil, nil, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Watchlists lists the user's watchlists with their movies.
func (c *Client) Watchlists(ctx context.Context) ([]models.Watchlist, error) {
	watchlists := []models.Watchlist{}
	if err := c.do(ctx, http.MethodGet, "/watchlists", nil, nil, &watchlists); err != nil {
		return nil, err
	}
	return watchlists, nil
}

// CreateWatchlist creates a named watchlist. Name and description travel as query parameters.
func (c *Client) CreateWatchlist(ctx context.Context, name, description string) (*models.Watchlist, error) {
	v := url.Values{"name": {name}}
	if description != "" {
		v.Set("description", description)
	}

	var wl models.Watchlist
	if err := c.do(ctx, http.MethodPost, "/watchlists", v, nil, &wl); err != nil {
		return nil, err
	}
	if wl.Movies == nil {
		wl.Movies = []models.UserMovie{}
	}
	return &wl, nil
}

// AddToWatchlist appends a movie to a watchlist.
func (c *Client) AddToWatchlist(ctx context.Context, watchlistID string, ref models.MovieRef) (*models.Message, error) {
	var msg models.Message
	path := "/watchlists/" + url.PathEscape(watchlistID) + "/movies"
	if err := c.do(ctx, http.MethodPost, path, nil, ref, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// RemoveFromWatchlist removes a movie from a watchlist.
func (c *Client) RemoveFromWatchlist(ctx context.Context, watchlistID string, movieID int) (*models.Message, error) {
	var msg models.Message
	path := "/watchlists/" + url.PathEscape(watchlistID) + "/movies/" + strconv.Itoa(movieID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// SubmitReview creates or updates the user's review of a movie.
func (c *Client) SubmitReview(ctx context.Context, req models.ReviewRequest) (*models.Review, error) {
	var review models.Review
	if err := c.do(ctx, http.MethodPost, "/reviews", nil, req, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// MovieReviews lists every review of a movie.
func (c *Client) MovieReviews(ctx context.Context, movieID int) ([]models.Review, error) {
	reviews := []models.Review{}
	if err := c.do(ctx, http.MethodGet, "/reviews/movie/"+strconv.Itoa(movieID), nil, nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// UserReviews lists the user's reviews.
func (c *Client) UserReviews(ctx context.Context) ([]models.Review, error) {
	reviews := []models.Review{}
	if err := c.do(ctx, http.MethodGet, "/reviews/user", nil, nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// Recommendations returns personalized suggestions for the user.
func (c *Client) Recommendations(ctx context.Context) (*models.MoviePage, error) {
	return c.page(ctx, "/recommendations", nil)
}
