package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/services"
	"github.com/desertthunder/reel/internal/shared"
	"golang.org/x/sync/errgroup"
)

// detailWorkers bounds concurrent movie detail lookups.
const detailWorkers = 5

// Session is the part of the session store the fetchers depend on.
type Session interface {
	Client() *services.Client
	Authenticated() bool
	Identity() *models.User
}

// Fetchers loads the data each view needs. On failure a fetcher logs, emits a [Notice]
// and returns an empty value instead of an error, so views always have something to render.
// Mutations return errors because callers must not update local state when they fail.
type Fetchers struct {
	session Session
	logger  *log.Logger
	notices chan<- Notice
}

// NewFetchers creates fetchers bound to a session. notices may be nil.
func NewFetchers(s Session, logger *log.Logger, notices chan<- Notice) *Fetchers {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Fetchers{session: s, logger: logger, notices: notices}
}

func (f *Fetchers) notify(level Level, format string, args ...any) {
	send(f.notices, Notice{Level: level, Message: fmt.Sprintf(format, args...)})
}

// ListingKind selects a movie listing.
type ListingKind int

const (
	Popular ListingKind = iota
	TopRated
	Discover
	Search
)

// ListingKinds in tab order.
var ListingKinds = []ListingKind{Popular, TopRated, Discover, Search}

func (k ListingKind) String() string {
	switch k {
	case Popular:
		return "popular"
	case TopRated:
		return "top-rated"
	case Discover:
		return "discover"
	case Search:
		return "search"
	default:
		return ""
	}
}

// Title is the label shown on the listing's tab.
func (k ListingKind) Title() string {
	switch k {
	case Popular:
		return "Popular"
	case TopRated:
		return "Top Rated"
	case Discover:
		return "Discover"
	case Search:
		return "Search"
	default:
		return ""
	}
}

// ParseListingKind parses the name returned by [ListingKind.String].
func ParseListingKind(s string) (ListingKind, error) {
	for _, k := range ListingKinds {
		if k.String() == strings.ToLower(strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown listing %q", shared.ErrInvalidArgument, s)
}

// ListingQuery is the navigation state of a listing: which tab, which page, and the
// tab's filters.
type ListingQuery struct {
	Kind     ListingKind
	Page     int
	Discover services.DiscoverParams
	Query    string
}

// Listing fetches one page of a listing. The result is never nil; it is an empty page on failure.
func (f *Fetchers) Listing(ctx context.Context, q ListingQuery) *models.MoviePage {
	if q.Page < 1 {
		q.Page = 1
	}

	client := f.session.Client()
	var (
		page *models.MoviePage
		err  error
	)
	switch q.Kind {
	case Popular:
		page, err = client.Popular(ctx, q.Page)
	case TopRated:
		page, err = client.TopRated(ctx, q.Page)
	case Discover:
		params := q.Discover
		params.Page = q.Page
		page, err = client.Discover(ctx, params)
	case Search:
		if strings.TrimSpace(q.Query) == "" {
			return models.EmptyPage(q.Page)
		}
		page, err = client.Search(ctx, q.Query, q.Page)
	default:
		err = fmt.Errorf("%w: listing kind %d", shared.ErrInvalidArgument, q.Kind)
	}

	if err != nil {
		f.logger.Error("listing fetch failed", "listing", q.Kind, "page", q.Page, "error", err)
		f.notify(Error, "Failed to load movies")
		return models.EmptyPage(q.Page)
	}
	if page == nil {
		return models.EmptyPage(q.Page)
	}
	return page
}

// Detail fetches full detail for a movie, or nil when it cannot be loaded.
func (f *Fetchers) Detail(ctx context.Context, id int) *models.Movie {
	movie, err := f.session.Client().Movie(ctx, id)
	if err != nil {
		f.logger.Error("movie detail fetch failed", "movie_id", id, "error", err)
		if errors.Is(err, shared.ErrNotFound) {
			f.notify(Error, "Movie not found")
		} else {
			f.notify(Error, "Failed to load movie details")
		}
		return nil
	}
	return movie
}

// Genres fetches the genre catalogue, empty on failure.
func (f *Fetchers) Genres(ctx context.Context) []models.Genre {
	genres, err := f.session.Client().Genres(ctx)
	if err != nil {
		f.logger.Error("genre fetch failed", "error", err)
		f.notify(Error, "Failed to load genres")
		return []models.Genre{}
	}
	return genres
}

// FavoriteView is a favorite with its movie detail when it could be loaded.
type FavoriteView struct {
	models.UserMovie
	Movie *models.Movie `json:"movie,omitempty"`
}

// Title prefers the detail title and falls back to the one stored with the favorite.
func (v FavoriteView) Title() string {
	if v.Movie != nil && v.Movie.Title != "" {
		return v.Movie.Title
	}
	return v.MovieTitle
}

// PosterPath prefers the detail poster and falls back to the one stored with the favorite.
func (v FavoriteView) PosterPath() string {
	if v.Movie != nil && v.Movie.PosterPath != "" {
		return v.Movie.PosterPath
	}
	return v.MoviePoster
}

// Favorites lists the user's favorites. With withDetail each favorite's movie is fetched
// concurrently; a failed lookup leaves that favorite with its stored title and poster.
func (f *Fetchers) Favorites(ctx context.Context, withDetail bool) []FavoriteView {
	if !f.session.Authenticated() {
		return []FavoriteView{}
	}

	client := f.session.Client()
	favorites, err := client.Favorites(ctx)
	if err != nil {
		f.logger.Error("favorites fetch failed", "error", err)
		f.notify(Error, "Failed to load favorites")
		return []FavoriteView{}
	}

	views := make([]FavoriteView, len(favorites))
	for i, fav := range favorites {
		views[i] = FavoriteView{UserMovie: fav}
	}
	if !withDetail {
		return views
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailWorkers)
	for i := range views {
		g.Go(func() error {
			movie, err := client.Movie(gctx, views[i].MovieID)
			if err != nil {
				f.logger.Warn("favorite detail fetch failed", "movie_id", views[i].MovieID, "error", err)
				return nil
			}
			views[i].Movie = movie
			return nil
		})
	}
	_ = g.Wait()
	return views
}

// IsFavorite reports whether the movie is among the user's favorites. Unknown means false.
func (f *Fetchers) IsFavorite(ctx context.Context, movieID int) bool {
	if !f.session.Authenticated() {
		return false
	}
	favorites, err := f.session.Client().Favorites(ctx)
	if err != nil {
		f.logger.Error("favorite status check failed", "movie_id", movieID, "error", err)
		return false
	}
	for _, fav := range favorites {
		if fav.MovieID == movieID {
			return true
		}
	}
	return false
}

// ToggleFavorite adds the movie when current is false and removes it otherwise.
// It returns the new favorite state. Anonymous users get a notice and no request is made.
func (f *Fetchers) ToggleFavorite(ctx context.Context, ref models.MovieRef, current bool) (bool, error) {
	if !f.session.Authenticated() {
		f.notify(Warning, "Please login to add favorites")
		return current, shared.ErrNotAuthenticated
	}

	client := f.session.Client()
	if current {
		if _, err := client.RemoveFavorite(ctx, ref.MovieID); err != nil {
			f.logger.Error("remove favorite failed", "movie_id", ref.MovieID, "error", err)
			f.notify(Error, "%s", services.Detail(err))
			return current, err
		}
		f.notify(Success, "Removed from favorites")
		return false, nil
	}

	if err := ref.Validate(); err != nil {
		f.notify(Error, "%v", err)
		return current, err
	}
	if _, err := client.AddFavorite(ctx, ref); err != nil {
		f.logger.Error("add favorite failed", "movie_id", ref.MovieID, "error", err)
		f.notify(Error, "%s", services.Detail(err))
		return current, err
	}
	f.notify(Success, "Added to favorites")
	return true, nil
}

// Watchlists lists the user's watchlists, empty when anonymous or on failure.
func (f *Fetchers) Watchlists(ctx context.Context) []models.Watchlist {
	if !f.session.Authenticated() {
		return []models.Watchlist{}
	}
	watchlists, err := f.session.Client().Watchlists(ctx)
	if err != nil {
		f.logger.Error("watchlists fetch failed", "error", err)
		f.notify(Error, "Failed to load watchlists")
		return []models.Watchlist{}
	}
	return watchlists
}

// CreateWatchlist creates a watchlist. The name is validated before any request.
func (f *Fetchers) CreateWatchlist(ctx context.Context, name, description string) (*models.Watchlist, error) {
	if !f.session.Authenticated() {
		f.notify(Warning, "Please login to create watchlists")
		return nil, shared.ErrNotAuthenticated
	}
	if err := models.ValidateWatchlistName(name); err != nil {
		f.notify(Error, "Watchlist name is required")
		return nil, err
	}

	wl, err := f.session.Client().CreateWatchlist(ctx, strings.TrimSpace(name), strings.TrimSpace(description))
	if err != nil {
		f.logger.Error("create watchlist failed", "name", name, "error", err)
		f.notify(Error, "%s", services.Detail(err))
		return nil, err
	}
	f.notify(Success, "Watchlist %q created", wl.Name)
	return wl, nil
}

// AddToWatchlist adds a movie to a watchlist. A rejection is surfaced with the backend's
// exact message.
func (f *Fetchers) AddToWatchlist(ctx context.Context, watchlistID string, ref models.MovieRef) error {
	if !f.session.Authenticated() {
		f.notify(Warning, "Please login to use watchlists")
		return shared.ErrNotAuthenticated
	}
	if err := ref.Validate(); err != nil {
		f.notify(Error, "%v", err)
		return err
	}

	if _, err := f.session.Client().AddToWatchlist(ctx, watchlistID, ref); err != nil {
		f.logger.Error("add to watchlist failed", "watchlist_id", watchlistID, "movie_id", ref.MovieID, "error", err)
		f.notify(Error, "%s", services.Detail(err))
		return err
	}
	f.notify(Success, "Added to watchlist")
	return nil
}

// RemoveFromWatchlist removes a movie from a watchlist.
func (f *Fetchers) RemoveFromWatchlist(ctx context.Context, watchlistID string, movieID int) error {
	if !f.session.Authenticated() {
		f.notify(Warning, "Please login to use watchlists")
		return shared.ErrNotAuthenticated
	}
	if _, err := f.session.Client().RemoveFromWatchlist(ctx, watchlistID, movieID); err != nil {
		f.logger.Error("remove from watchlist failed", "watchlist_id", watchlistID, "movie_id", movieID, "error", err)
		f.notify(Error, "%s", services.Detail(err))
		return err
	}
	f.notify(Success, "Removed from watchlist")
	return nil
}

// AppendWatchlist returns lists with wl appended, unless a watchlist with its id is already present.
func AppendWatchlist(lists []models.Watchlist, wl models.Watchlist) []models.Watchlist {
	for _, existing := range lists {
		if existing.ID == wl.ID {
			return lists
		}
	}
	if wl.Movies == nil {
		wl.Movies = []models.UserMovie{}
	}
	return append(lists, wl)
}

// AddMovieLocal mirrors a successful add into local state. A movie already present is not added twice.
func AddMovieLocal(lists []models.Watchlist, watchlistID string, movie models.UserMovie) []models.Watchlist {
	out := make([]models.Watchlist, len(lists))
	copy(out, lists)
	for i := range out {
		if out[i].ID != watchlistID || out[i].Contains(movie.MovieID) {
			continue
		}
		movies := make([]models.UserMovie, len(out[i].Movies), len(out[i].Movies)+1)
		copy(movies, out[i].Movies)
		out[i].Movies = append(movies, movie)
	}
	return out
}

// RemoveMovieLocal mirrors a successful removal into local state.
func RemoveMovieLocal(lists []models.Watchlist, watchlistID string, movieID int) []models.Watchlist {
	out := make([]models.Watchlist, len(lists))
	copy(out, lists)
	for i := range out {
		if out[i].ID != watchlistID {
			continue
		}
		movies := make([]models.UserMovie, 0, len(out[i].Movies))
		for _, m := range out[i].Movies {
			if m.MovieID != movieID {
				movies = append(movies, m)
			}
		}
		out[i].Movies = movies
	}
	return out
}

// ValidateRating checks a user-entered rating: greater than 0 and at most 10.
func ValidateRating(rating float64) error {
	if math.IsNaN(rating) || rating <= models.MinRating || rating > models.MaxRating {
		return fmt.Errorf("%w: rating must be greater than 0 and at most 10", shared.ErrInvalidRating)
	}
	return nil
}

// SubmitReview creates or updates the user's review. The rating is rounded to one
// decimal and then checked, before any request.
func (f *Fetchers) SubmitReview(ctx context.Context, movieID int, rating float64, text string) (*models.Review, error) {
	rating = models.RoundRating(rating)
	if err := ValidateRating(rating); err != nil {
		f.notify(Error, "Please select a rating")
		return nil, err
	}
	if !f.session.Authenticated() {
		f.notify(Warning, "Please login to write reviews")
		return nil, shared.ErrNotAuthenticated
	}

	req := models.ReviewRequest{MovieID: movieID, Rating: rating, ReviewText: strings.TrimSpace(text)}
	review, err := f.session.Client().SubmitReview(ctx, req)
	if err != nil {
		f.logger.Error("submit review failed", "movie_id", movieID, "error", err)
		f.notify(Error, "%s", services.Detail(err))
		return nil, err
	}
	f.notify(Success, "Review submitted")
	return review, nil
}

// MovieReviews lists a movie's reviews, empty on failure.
func (f *Fetchers) MovieReviews(ctx context.Context, movieID int) []models.Review {
	reviews, err := f.session.Client().MovieReviews(ctx, movieID)
	if err != nil {
		f.logger.Error("movie reviews fetch failed", "movie_id", movieID, "error", err)
		return []models.Review{}
	}
	return reviews
}

// UserReviews lists the user's reviews, empty when anonymous or on failure.
func (f *Fetchers) UserReviews(ctx context.Context) []models.Review {
	if !f.session.Authenticated() {
		return []models.Review{}
	}
	reviews, err := f.session.Client().UserReviews(ctx)
	if err != nil {
		f.logger.Error("user reviews fetch failed", "error", err)
		f.notify(Error, "Failed to load reviews")
		return []models.Review{}
	}
	return reviews
}

// ExistingReview returns the current user's review among reviews, if any.
func (f *Fetchers) ExistingReview(reviews []models.Review) *models.Review {
	identity := f.session.Identity()
	if identity == nil {
		return nil
	}
	return models.FindReview(reviews, identity.ID)
}

// Recommendations fetches personalized suggestions. Anonymous users get an empty page
// and no request is made.
func (f *Fetchers) Recommendations(ctx context.Context) *models.MoviePage {
	if !f.session.Authenticated() {
		return models.EmptyPage(1)
	}
	page, err := f.session.Client().Recommendations(ctx)
	if err != nil {
		f.logger.Error("recommendations fetch failed", "error", err)
		f.notify(Error, "Failed to load recommendations")
		return models.EmptyPage(1)
	}
	return page
}
