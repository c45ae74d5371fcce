package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reel/internal/auth"
	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/repositories"
	"github.com/desertthunder/reel/internal/services"
	"github.com/desertthunder/reel/internal/session"
	"github.com/desertthunder/reel/internal/shared"
	"github.com/desertthunder/reel/internal/tasks"
	"github.com/desertthunder/reel/internal/testing/providers"
)

var (
	matrix = models.Movie{
		ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-31", VoteAverage: 8.2,
		Genres: []models.Genre{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}},
	}
	inception = models.Movie{
		ID: 27205, Title: "Inception", ReleaseDate: "2010-07-15", VoteAverage: 8.4,
		Genres: []models.Genre{{ID: 878, Name: "Science Fiction"}},
	}
	drama = models.Movie{ID: 13, Title: "Forrest Gump", Genres: []models.Genre{{ID: 18, Name: "Drama"}}}
)

type testEnv struct {
	server   *httptest.Server
	client   *services.Client
	provider *providers.MockProvider
	store    *repositories.Store
	db       *sql.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	issuer, err := auth.NewIssuer("test-secret", "HS256", time.Hour)
	if err != nil {
		t.Fatalf("failed to create issuer: %v", err)
	}

	provider := providers.NewMockProvider(matrix, inception, drama)
	store := repositories.NewStore(db)
	srv := httptest.NewServer(New(store, issuer, provider, log.New(io.Discard)).Handler())
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, client: services.NewClient(srv.URL), provider: provider, store: store, db: db}
}

func (e *testEnv) register(t *testing.T, email string) *services.Client {
	t.Helper()
	resp, err := e.client.Register(context.Background(), models.Credentials{Email: email, Password: "hunter22", Name: "Ada"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return e.client.WithToken(resp.AccessToken)
}

func TestHealthAndCORS(t *testing.T) {
	env := newTestEnv(t)

	t.Run("health", func(t *testing.T) {
		msg, err := env.client.Health(context.Background())
		if err != nil {
			t.Fatalf("Health failed: %v", err)
		}
		if msg.Message != HealthMessage {
			t.Errorf("unexpected message %q", msg.Message)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodOptions, env.server.URL+"/api/favorites", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", "POST")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("preflight failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
		if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("unexpected allow origin %q", got)
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPut, env.server.URL+"/api/genres", nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", resp.StatusCode)
		}
	})
}

func TestAuthEndpoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	authed := env.register(t, "ada@example.com")

	t.Run("duplicate registration", func(t *testing.T) {
		_, err := env.client.Register(ctx, models.Credentials{Email: "ada@example.com", Password: "x", Name: "Ada"})
		if services.Detail(err) != "Email already registered" {
			t.Errorf("unexpected error %v", err)
		}
	})

	t.Run("login", func(t *testing.T) {
		resp, err := env.client.Login(ctx, "ada@example.com", "hunter22")
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if resp.TokenType != "bearer" || resp.User.Email != "ada@example.com" {
			t.Errorf("unexpected auth response %+v", resp)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.client.Login(ctx, "ada@example.com", "nope")
		if !errors.Is(err, shared.ErrNotAuthenticated) || services.Detail(err) != "Incorrect email or password" {
			t.Errorf("unexpected error %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := env.client.Login(ctx, "bob@example.com", "hunter22")
		if services.Detail(err) != "Incorrect email or password" {
			t.Errorf("unexpected error %v", err)
		}
	})

	t.Run("me", func(t *testing.T) {
		user, err := authed.Me(ctx)
		if err != nil {
			t.Fatalf("me failed: %v", err)
		}
		if user.Name != "Ada" {
			t.Errorf("unexpected user %+v", user)
		}
	})

	t.Run("me rejects", func(t *testing.T) {
		tests := []struct {
			name   string
			header string
			status int
			detail string
		}{
			{"no header", "", http.StatusForbidden, "Not authenticated"},
			{"bad token", "Bearer garbage", http.StatusUnauthorized, "Invalid authentication credentials"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req, _ := http.NewRequest(http.MethodGet, env.server.URL+"/api/auth/me", nil)
				if tt.header != "" {
					req.Header.Set("Authorization", tt.header)
				}
				resp, err := http.DefaultClient.Do(req)
				if err != nil {
					t.Fatalf("request failed: %v", err)
				}
				defer resp.Body.Close()

				var body models.ErrorBody
				json.NewDecoder(resp.Body).Decode(&body)
				if resp.StatusCode != tt.status || body.Detail != tt.detail {
					t.Errorf("got %d %q, want %d %q", resp.StatusCode, body.Detail, tt.status, tt.detail)
				}
			})
		}
	})

	t.Run("deleted user", func(t *testing.T) {
		user, _ := authed.Me(ctx)
		if _, err := env.db.ExecContext(ctx, "UPDATE users SET deleted_at = ? WHERE id = ?", time.Now().UTC(), user.ID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		_, err := authed.Me(ctx)
		if services.Detail(err) != "User not found" {
			t.Errorf("unexpected error %v", err)
		}
	})
}

func TestMovieEndpoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("listings", func(t *testing.T) {
		popular, err := env.client.Popular(ctx, 1)
		if err != nil || popular.Len() != 3 {
			t.Errorf("popular: %v, %d", err, popular.Len())
		}
		search, err := env.client.Search(ctx, "matrix", 1)
		if err != nil || search.Len() != 1 {
			t.Errorf("search: %v, %d", err, search.Len())
		}
	})

	t.Run("discover passes filters", func(t *testing.T) {
		_, err := env.client.Discover(ctx, services.DiscoverParams{GenreID: 28, Year: 1999, Page: 2})
		if err != nil {
			t.Fatalf("discover failed: %v", err)
		}
		calls := env.provider.DiscoverCalls()
		last := calls[len(calls)-1]
		if last.GenreID != 28 || last.Year != 1999 || last.Page != 2 || last.SortBy != services.DefaultSortBy {
			t.Errorf("unexpected params %+v", last)
		}
	})

	t.Run("detail", func(t *testing.T) {
		m, err := env.client.Movie(ctx, 603)
		if err != nil || m.Title != "The Matrix" {
			t.Errorf("detail: %v, %+v", err, m)
		}
		_, err = env.client.Movie(ctx, 1)
		if !errors.Is(err, shared.ErrNotFound) || services.Detail(err) != "Movie not found" {
			t.Errorf("expected Movie not found, got %v", err)
		}
	})

	t.Run("genres", func(t *testing.T) {
		genres, err := env.client.Genres(ctx)
		if err != nil || len(genres) != 3 {
			t.Errorf("genres: %v, %+v", err, genres)
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		env.provider.Err = shared.ErrServiceUnavailable
		defer func() { env.provider.Err = nil }()

		_, err := env.client.Discover(ctx, services.DiscoverParams{})
		if !errors.Is(err, shared.ErrServiceUnavailable) || services.Detail(err) != "Failed to discover movies" {
			t.Errorf("unexpected error %v", err)
		}
	})

	t.Run("invalid page", func(t *testing.T) {
		resp, err := http.Get(env.server.URL + "/api/movies/popular?page=abc")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Errorf("expected 422, got %d", resp.StatusCode)
		}
	})
}

func TestFavoriteEndpoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.register(t, "ada@example.com")
	ref := matrix.Ref()

	msg, err := c.AddFavorite(ctx, ref)
	if err != nil || msg.Message != "Movie added to favorites" {
		t.Fatalf("add favorite: %v, %+v", err, msg)
	}

	_, err = c.AddFavorite(ctx, ref)
	if services.Detail(err) != "Movie already in favorites" {
		t.Errorf("expected duplicate detail, got %v", err)
	}

	favorites, err := c.Favorites(ctx)
	if err != nil || len(favorites) != 1 || favorites[0].MovieTitle != "The Matrix" {
		t.Errorf("favorites: %v, %+v", err, favorites)
	}

	msg, err = c.RemoveFavorite(ctx, 603)
	if err != nil || msg.Message != "Movie removed from favorites" {
		t.Errorf("remove favorite: %v, %+v", err, msg)
	}

	_, err = c.RemoveFavorite(ctx, 603)
	if !errors.Is(err, shared.ErrNotFound) || services.Detail(err) != "Movie not found in favorites" {
		t.Errorf("expected not found, got %v", err)
	}

	_, err = env.client.Favorites(ctx)
	if !errors.Is(err, shared.ErrNotAuthenticated) {
		t.Errorf("anonymous favorites should be rejected, got %v", err)
	}
}

func TestWatchlistEndpoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.register(t, "ada@example.com")

	wl, err := c.CreateWatchlist(ctx, "Weekend", "Saturday night")
	if err != nil {
		t.Fatalf("create watchlist: %v", err)
	}
	if wl.Name != "Weekend" || wl.Description != "Saturday night" || len(wl.Movies) != 0 {
		t.Errorf("unexpected watchlist %+v", wl)
	}

	if _, err := c.AddToWatchlist(ctx, wl.ID, inception.Ref()); err != nil {
		t.Fatalf("add to watchlist: %v", err)
	}
	if _, err := c.AddToWatchlist(ctx, wl.ID, matrix.Ref()); err != nil {
		t.Fatalf("add to watchlist: %v", err)
	}

	_, err = c.AddToWatchlist(ctx, wl.ID, matrix.Ref())
	if services.Detail(err) != "Movie already in watchlist" {
		t.Errorf("expected duplicate detail, got %v", err)
	}

	_, err = c.AddToWatchlist(ctx, "missing", matrix.Ref())
	if services.Detail(err) != "Watchlist not found" {
		t.Errorf("expected missing watchlist, got %v", err)
	}

	lists, err := c.Watchlists(ctx)
	if err != nil || len(lists) != 1 {
		t.Fatalf("watchlists: %v, %+v", err, lists)
	}
	if got := lists[0].Movies; len(got) != 2 || got[0].MovieID != inception.ID || got[1].MovieID != matrix.ID {
		t.Errorf("movies out of order: %+v", got)
	}

	if _, err := c.RemoveFromWatchlist(ctx, wl.ID, inception.ID); err != nil {
		t.Errorf("remove from watchlist: %v", err)
	}
	_, err = c.RemoveFromWatchlist(ctx, wl.ID, inception.ID)
	if services.Detail(err) != "Movie not found in watchlist" {
		t.Errorf("expected not found, got %v", err)
	}

	t.Run("blank name", func(t *testing.T) {
		_, err := c.CreateWatchlist(ctx, " ", "")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("other users cannot see it", func(t *testing.T) {
		other := env.register(t, "bob@example.com")
		lists, err := other.Watchlists(ctx)
		if err != nil || len(lists) != 0 {
			t.Errorf("expected no watchlists, got %v, %+v", err, lists)
		}
		_, err = other.AddToWatchlist(ctx, wl.ID, drama.Ref())
		if services.Detail(err) != "Watchlist not found" {
			t.Errorf("expected Watchlist not found, got %v", err)
		}
	})
}

func TestReviewEndpoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.register(t, "ada@example.com")

	first, err := c.SubmitReview(ctx, models.ReviewRequest{MovieID: 603, Rating: 7, ReviewText: "good"})
	if err != nil {
		t.Fatalf("submit review: %v", err)
	}

	second, err := c.SubmitReview(ctx, models.ReviewRequest{MovieID: 603, Rating: 9.5, ReviewText: "great"})
	if err != nil {
		t.Fatalf("resubmit review: %v", err)
	}
	if second.ID != first.ID || second.Rating != 9.5 || second.ReviewText != "great" {
		t.Errorf("expected upsert of %s, got %+v", first.ID, second)
	}

	_, err = c.SubmitReview(ctx, models.ReviewRequest{MovieID: 603, Rating: 11})
	if !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected 422, got %v", err)
	}

	byMovie, err := env.client.MovieReviews(ctx, 603)
	if err != nil || len(byMovie) != 1 {
		t.Errorf("movie reviews: %v, %+v", err, byMovie)
	}
	mine, err := c.UserReviews(ctx)
	if err != nil || len(mine) != 1 {
		t.Errorf("user reviews: %v, %+v", err, mine)
	}
}

func TestRecommendations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.register(t, "ada@example.com")

	t.Run("no favorites returns popular", func(t *testing.T) {
		page, err := c.Recommendations(ctx)
		if err != nil || page.Len() != 3 {
			t.Errorf("recommendations: %v, %d", err, page.Len())
		}
		if len(env.provider.DiscoverCalls()) != 0 {
			t.Error("discover should not be called without favorites")
		}
	})

	t.Run("discovers top genre by rating", func(t *testing.T) {
		for _, m := range []models.Movie{matrix, inception} {
			if _, err := c.AddFavorite(ctx, m.Ref()); err != nil {
				t.Fatalf("add favorite: %v", err)
			}
		}
		if _, err := c.Recommendations(ctx); err != nil {
			t.Fatalf("recommendations: %v", err)
		}
		calls := env.provider.DiscoverCalls()
		if len(calls) != 1 || calls[0].GenreID != 878 || calls[0].SortBy != RecommendationSort {
			t.Errorf("unexpected discover calls %+v", calls)
		}
	})

	t.Run("anonymous rejected", func(t *testing.T) {
		if _, err := env.client.Recommendations(ctx); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestTopGenre(t *testing.T) {
	provider := providers.NewMockProvider(matrix, inception, drama)
	logger := log.New(io.Discard)
	fav := func(ids ...int) []models.UserMovie {
		out := []models.UserMovie{}
		for _, id := range ids {
			out = append(out, models.UserMovie{MovieID: id})
		}
		return out
	}

	tests := []struct {
		name   string
		favs   []models.UserMovie
		want   int
		wantOK bool
	}{
		{"most frequent", fav(603, 27205), 878, true},
		{"tie goes to first seen", fav(13, 603), 18, true},
		{"unknown details", fav(1, 2), 0, false},
		{"only first ten sampled", append(fav(13, 13, 13, 13, 13, 13, 13, 13, 13, 13), fav(603, 603, 603, 603, 603, 603, 603, 603, 603, 603, 603)...), 18, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TopGenre(context.Background(), provider, tt.favs, logger)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("TopGenre() = %d, %v, want %d, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}

	t.Run("falls back to top rated", func(t *testing.T) {
		page, err := Recommend(context.Background(), provider, fav(1), logger)
		if err != nil || page.Len() != 3 {
			t.Errorf("Recommend() = %v, %v", page, err)
		}
		if len(provider.DiscoverCalls()) != 0 {
			t.Error("discover should not be called without a genre")
		}
	})
}

// Login through the session store, persist the token, restore it in a fresh store and load
// the profile from the real backend.
func TestSessionRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "ada@example.com")

	tokens := session.NewMemoryTokens("")
	logger := log.New(io.Discard)

	first := session.New(env.client, tokens, logger)
	if res := first.Login(ctx, "ada@example.com", "hunter22"); !res.OK {
		t.Fatalf("login failed: %s", res.Message)
	}
	if saved, _ := tokens.Load(); saved == "" {
		t.Fatal("token was not persisted")
	}

	restored := session.New(env.client, tokens, logger)
	if !restored.Restore(ctx) {
		t.Fatal("restore failed")
	}
	if restored.Identity().ID != first.Identity().ID {
		t.Errorf("restored identity %+v differs from %+v", restored.Identity(), first.Identity())
	}

	fetchers := tasks.NewFetchers(restored, logger, nil)
	if _, err := fetchers.CreateWatchlist(ctx, "Weekend", ""); err != nil {
		t.Fatalf("create watchlist: %v", err)
	}
	summary := fetchers.Profile(ctx, nil)
	if summary.User.Name != "Ada" || summary.User.Email != "ada@example.com" {
		t.Errorf("unexpected profile user %+v", summary.User)
	}
	if !summary.Watchlists.OK() || summary.Watchlists.Count != 1 {
		t.Errorf("unexpected watchlists source %+v", summary.Watchlists)
	}

	restored.Logout()
	if saved, _ := tokens.Load(); saved != "" {
		t.Errorf("logout should clear the persisted token, got %q", saved)
	}
	if strings.TrimSpace(restored.Token()) != "" {
		t.Error("logout should clear the in-memory token")
	}
}
