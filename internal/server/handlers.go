package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/desertthunder/reel/internal/auth"
	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/repositories"
	"github.com/desertthunder/reel/internal/services"
	"github.com/desertthunder/reel/internal/shared"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, HealthMessage)
}

func (s *Server) issue(w http.ResponseWriter, user *models.User) {
	token, err := s.issuer.Sign(user.ID)
	if err != nil {
		s.logger.Error("failed to sign token", "user_id", user.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to create access token")
		return
	}
	respondJSON(w, http.StatusOK, models.AuthResponse{AccessToken: token, TokenType: "bearer", User: *user})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := creds.ValidateRegistration(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	user, err := s.store.Users.Create(r.Context(), creds.Email, strings.TrimSpace(creds.Name), hash)
	if errors.Is(err, shared.ErrAlreadyExists) {
		respondError(w, http.StatusBadRequest, "Email already registered")
		return
	}
	if err != nil {
		s.logger.Error("failed to create user", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	s.logger.Info("user registered", "user_id", user.ID)
	s.issue(w, user)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := creds.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	record, err := s.store.Users.GetByEmail(r.Context(), creds.Email)
	if err == nil {
		err = auth.CheckPassword(record.HashedPassword, creds.Password)
	}
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) && !errors.Is(err, shared.ErrInvalidCredentials) {
			s.logger.Error("login lookup failed", "error", err)
		}
		respondError(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	s.issue(w, &record.User)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request, user *models.User) {
	respondJSON(w, http.StatusOK, user)
}

// upstream writes a provider failure: unknown movies are 404, everything else 500 with detail.
func (s *Server) upstream(w http.ResponseWriter, err error, detail string) {
	if errors.Is(err, shared.ErrMovieNotFound) || errors.Is(err, shared.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Movie not found")
		return
	}
	s.logger.Error("movie provider failed", "provider", s.movies.Name(), "error", err)
	respondError(w, http.StatusInternalServerError, detail)
}

func (s *Server) genres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.movies.Genres(r.Context())
	if err != nil {
		s.upstream(w, err, "Failed to fetch genres")
		return
	}
	respondJSON(w, http.StatusOK, models.GenreList{Genres: genres})
}

func (s *Server) popular(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	result, err := s.movies.Popular(r.Context(), page)
	if err != nil {
		s.upstream(w, err, "Failed to fetch popular movies")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) topRated(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	result, err := s.movies.TopRated(r.Context(), page)
	if err != nil {
		s.upstream(w, err, "Failed to fetch top rated movies")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) discover(w http.ResponseWriter, r *http.Request) {
	var params services.DiscoverParams
	var err error
	for key, target := range map[string]*int{"page": &params.Page, "genre_id": &params.GenreID, "year": &params.Year} {
		if *target, err = queryInt(r, key, 0); err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}
	params.SortBy = r.URL.Query().Get("sort_by")

	result, err := s.movies.Discover(r.Context(), params.Normalize())
	if err != nil {
		s.upstream(w, err, "Failed to discover movies")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		respondError(w, http.StatusUnprocessableEntity, "query parameter q is required")
		return
	}
	page, err := queryInt(r, "page", 1)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	result, err := s.movies.Search(r.Context(), q, page)
	if err != nil {
		s.upstream(w, err, "Failed to fetch movies")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) movie(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "movie_id")
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	m, err := s.movies.Movie(r.Context(), id)
	if err != nil {
		if !errors.Is(err, shared.ErrMovieNotFound) && !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("movie detail failed", "movie_id", id, "error", err)
		}
		respondError(w, http.StatusNotFound, "Movie not found")
		return
	}
	respondJSON(w, http.StatusOK, m)
}

func (s *Server) listFavorites(w http.ResponseWriter, r *http.Request, user *models.User) {
	favorites, err := s.store.Favorites.List(r.Context(), user.ID, repositories.ListLimit)
	if err != nil {
		s.internal(w, "list favorites", err)
		return
	}
	respondJSON(w, http.StatusOK, favorites)
}

func (s *Server) addFavorite(w http.ResponseWriter, r *http.Request, user *models.User) {
	var ref models.MovieRef
	if !s.decodeRef(w, r, &ref) {
		return
	}

	_, err := s.store.Favorites.Add(r.Context(), user.ID, ref)
	if errors.Is(err, shared.ErrAlreadyExists) {
		respondError(w, http.StatusBadRequest, "Movie already in favorites")
		return
	}
	if err != nil {
		s.internal(w, "add favorite", err)
		return
	}
	respondMessage(w, "Movie added to favorites")
}

func (s *Server) removeFavorite(w http.ResponseWriter, r *http.Request, user *models.User) {
	movieID, err := pathInt(r, "movie_id")
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	err = s.store.Favorites.Remove(r.Context(), user.ID, movieID)
	if errors.Is(err, shared.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Movie not found in favorites")
		return
	}
	if err != nil {
		s.internal(w, "remove favorite", err)
		return
	}
	respondMessage(w, "Movie removed from favorites")
}

func (s *Server) listWatchlists(w http.ResponseWriter, r *http.Request, user *models.User) {
	lists, err := s.store.Watchlists.List(r.Context(), user.ID, repositories.ListLimit)
	if err != nil {
		s.internal(w, "list watchlists", err)
		return
	}
	respondJSON(w, http.StatusOK, lists)
}

func (s *Server) createWatchlist(w http.ResponseWriter, r *http.Request, user *models.User) {
	q := r.URL.Query()
	if !q.Has("name") {
		respondError(w, http.StatusUnprocessableEntity, "query parameter name is required")
		return
	}

	wl, err := s.store.Watchlists.Create(r.Context(), user.ID, q.Get("name"), q.Get("description"))
	if errors.Is(err, shared.ErrInvalidInput) {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		s.internal(w, "create watchlist", err)
		return
	}
	respondJSON(w, http.StatusOK, wl)
}

func (s *Server) addToWatchlist(w http.ResponseWriter, r *http.Request, user *models.User) {
	var ref models.MovieRef
	if !s.decodeRef(w, r, &ref) {
		return
	}

	_, err := s.store.Watchlists.AddMovie(r.Context(), user.ID, r.PathValue("watchlist_id"), ref)
	switch {
	case errors.Is(err, shared.ErrWatchlistNotFound):
		respondError(w, http.StatusNotFound, "Watchlist not found")
	case errors.Is(err, shared.ErrAlreadyExists):
		respondError(w, http.StatusBadRequest, "Movie already in watchlist")
	case err != nil:
		s.internal(w, "add to watchlist", err)
	default:
		respondMessage(w, "Movie added to watchlist")
	}
}

func (s *Server) removeFromWatchlist(w http.ResponseWriter, r *http.Request, user *models.User) {
	movieID, err := pathInt(r, "movie_id")
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	err = s.store.Watchlists.RemoveMovie(r.Context(), user.ID, r.PathValue("watchlist_id"), movieID)
	if errors.Is(err, shared.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Movie not found in watchlist")
		return
	}
	if err != nil {
		s.internal(w, "remove from watchlist", err)
		return
	}
	respondMessage(w, "Movie removed from watchlist")
}

func (s *Server) submitReview(w http.ResponseWriter, r *http.Request, user *models.User) {
	var req models.ReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	review, err := s.store.Reviews.Upsert(r.Context(), user.ID, req)
	if err != nil {
		s.internal(w, "submit review", err)
		return
	}
	respondJSON(w, http.StatusOK, review)
}

func (s *Server) userReviews(w http.ResponseWriter, r *http.Request, user *models.User) {
	reviews, err := s.store.Reviews.ListByUser(r.Context(), user.ID, repositories.ListLimit)
	if err != nil {
		s.internal(w, "list user reviews", err)
		return
	}
	respondJSON(w, http.StatusOK, reviews)
}

func (s *Server) movieReviews(w http.ResponseWriter, r *http.Request) {
	movieID, err := pathInt(r, "movie_id")
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	reviews, err := s.store.Reviews.ListByMovie(r.Context(), movieID, repositories.ListLimit)
	if err != nil {
		s.internal(w, "list movie reviews", err)
		return
	}
	respondJSON(w, http.StatusOK, reviews)
}

func (s *Server) recommendations(w http.ResponseWriter, r *http.Request, user *models.User) {
	favorites, err := s.store.Favorites.List(r.Context(), user.ID, RecommendationFavorites)
	if err != nil {
		s.internal(w, "list favorites for recommendations", err)
		return
	}

	page, err := Recommend(r.Context(), s.movies, favorites, s.logger)
	if err != nil {
		s.upstream(w, err, "Failed to fetch recommendations")
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (s *Server) decodeRef(w http.ResponseWriter, r *http.Request, ref *models.MovieRef) bool {
	if err := decodeJSON(r, ref); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return false
	}
	if err := ref.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return false
	}
	return true
}

func (s *Server) internal(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op+" failed", "error", err)
	respondError(w, http.StatusInternalServerError, "Internal Server Error")
}
