// package server contains middleware & handlers for the reel backend REST API
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reel/internal/auth"
	"github.com/desertthunder/reel/internal/repositories"
	"github.com/desertthunder/reel/internal/services"
)

// HealthMessage is returned by GET /api/.
const HealthMessage = "Movie Recommendation API is running!"

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, authentication, CORS, panic recovery, etc.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers that own a set of routes.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the "METHOD /path" patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Server is the reel backend: users, favorites, watchlists and reviews in sqlite,
// movie metadata from a [services.MovieProvider].
type Server struct {
	store  *repositories.Store
	issuer *auth.Issuer
	movies services.MovieProvider
	logger *log.Logger
}

// New creates a Server.
func New(store *repositories.Store, issuer *auth.Issuer, movies services.MovieProvider, logger *log.Logger) *Server {
	return &Server{store: store, issuer: issuer, movies: movies, logger: logger}
}

// Handler returns the full API handler: routes under /api wrapped with CORS and request logging.
func (s *Server) Handler() http.Handler {
	r := NewBasicRouter()
	r.Use(Recover(s.logger))
	s.Routes(r)
	return Chain(r, CORS, Logging(s.logger))
}

// Routes registers every API route on r.
func (s *Server) Routes(r Router) {
	r.Handle(http.MethodGet, "/api/{$}", http.HandlerFunc(s.health))

	r.Handle(http.MethodPost, "/api/auth/register", http.HandlerFunc(s.register))
	r.Handle(http.MethodPost, "/api/auth/login", http.HandlerFunc(s.login))
	r.Handle(http.MethodGet, "/api/auth/me", s.requireUser(s.me))

	r.Handle(http.MethodGet, "/api/genres", http.HandlerFunc(s.genres))
	r.Handle(http.MethodGet, "/api/movies/popular", http.HandlerFunc(s.popular))
	r.Handle(http.MethodGet, "/api/movies/top-rated", http.HandlerFunc(s.topRated))
	r.Handle(http.MethodGet, "/api/movies/discover", http.HandlerFunc(s.discover))
	r.Handle(http.MethodGet, "/api/movies/search", http.HandlerFunc(s.search))
	r.Handle(http.MethodGet, "/api/movies/{movie_id}", http.HandlerFunc(s.movie))

	r.Handle(http.MethodGet, "/api/favorites", s.requireUser(s.listFavorites))
	r.Handle(http.MethodPost, "/api/favorites", s.requireUser(s.addFavorite))
	r.Handle(http.MethodDelete, "/api/favorites/{movie_id}", s.requireUser(s.removeFavorite))

	r.Handle(http.MethodGet, "/api/watchlists", s.requireUser(s.listWatchlists))
	r.Handle(http.MethodPost, "/api/watchlists", s.requireUser(s.createWatchlist))
	r.Handle(http.MethodPost, "/api/watchlists/{watchlist_id}/movies", s.requireUser(s.addToWatchlist))
	r.Handle(http.MethodDelete, "/api/watchlists/{watchlist_id}/movies/{movie_id}", s.requireUser(s.removeFromWatchlist))

	r.Handle(http.MethodPost, "/api/reviews", s.requireUser(s.submitReview))
	r.Handle(http.MethodGet, "/api/reviews/user", s.requireUser(s.userReviews))
	r.Handle(http.MethodGet, "/api/reviews/movie/{movie_id}", http.HandlerFunc(s.movieReviews))

	r.Handle(http.MethodGet, "/api/recommendations", s.requireUser(s.recommendations))
}

// ListenAndServe serves the API on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("reel API listening", "addr", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down reel API")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
