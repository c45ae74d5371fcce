package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/session"
	"github.com/desertthunder/reel/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSessionRestored MsgKind = iota
	MsgAuthResult
	MsgListingFetched
	MsgGenresFetched
	MsgDetailFetched
	MsgFavoritesFetched
	MsgFavoriteToggled
	MsgWatchlistsFetched
	MsgWatchlistCreated
	MsgWatchlistMovieAdded
	MsgWatchlistMovieRemoved
	MsgReviewSubmitted
	MsgProfileFetched
	MsgRecommendationsFetched
	MsgNotice
	MsgSessionEnded
)

// sessionRestoredMsg is the constructor for [MsgSessionRestored]
func sessionRestoredMsg(ok bool) Msg {
	return Msg{kind: MsgSessionRestored, data: ok}
}

// authResultMsg is the constructor for [MsgAuthResult]
func authResultMsg(res session.Result) Msg {
	return Msg{kind: MsgAuthResult, data: res}
}

type listingData struct {
	gen   uint64
	query tasks.ListingQuery
	page  *models.MoviePage
}

// listingFetchedMsg is the constructor for [MsgListingFetched]
func listingFetchedMsg(gen uint64, q tasks.ListingQuery, page *models.MoviePage) Msg {
	return Msg{kind: MsgListingFetched, data: listingData{gen, q, page}}
}

// genresFetchedMsg is the constructor for [MsgGenresFetched]
func genresFetchedMsg(genres []models.Genre) Msg {
	return Msg{kind: MsgGenresFetched, data: genres}
}

type detailData struct {
	id       int
	movie    *models.Movie
	favorite bool
	reviews  []models.Review
}

// detailFetchedMsg is the constructor for [MsgDetailFetched]. movie is nil when the detail could not be loaded.
func detailFetchedMsg(id int, movie *models.Movie, favorite bool, reviews []models.Review) Msg {
	return Msg{kind: MsgDetailFetched, data: detailData{id, movie, favorite, reviews}}
}

// favoritesFetchedMsg is the constructor for [MsgFavoritesFetched]
func favoritesFetchedMsg(favorites []tasks.FavoriteView) Msg {
	return Msg{kind: MsgFavoritesFetched, data: favorites}
}

type toggleData struct {
	movieID  int
	favorite bool
	err      error
}

// favoriteToggledMsg is the constructor for [MsgFavoriteToggled]
func favoriteToggledMsg(movieID int, favorite bool, err error) Msg {
	return Msg{kind: MsgFavoriteToggled, data: toggleData{movieID, favorite, err}}
}

// watchlistsFetchedMsg is the constructor for [MsgWatchlistsFetched]
func watchlistsFetchedMsg(lists []models.Watchlist) Msg {
	return Msg{kind: MsgWatchlistsFetched, data: lists}
}

type watchlistData struct {
	watchlist *models.Watchlist
	err       error
}

// watchlistCreatedMsg is the constructor for [MsgWatchlistCreated]
func watchlistCreatedMsg(wl *models.Watchlist, err error) Msg {
	return Msg{kind: MsgWatchlistCreated, data: watchlistData{wl, err}}
}

type watchlistMovieData struct {
	watchlistID string
	movie       models.UserMovie
	err         error
}

// watchlistMovieAddedMsg is the constructor for [MsgWatchlistMovieAdded]
func watchlistMovieAddedMsg(watchlistID string, movie models.UserMovie, err error) Msg {
	return Msg{kind: MsgWatchlistMovieAdded, data: watchlistMovieData{watchlistID, movie, err}}
}

// watchlistMovieRemovedMsg is the constructor for [MsgWatchlistMovieRemoved]
func watchlistMovieRemovedMsg(watchlistID string, movieID int, err error) Msg {
	return Msg{kind: MsgWatchlistMovieRemoved, data: watchlistMovieData{watchlistID, models.UserMovie{MovieID: movieID}, err}}
}

type reviewData struct {
	review *models.Review
	err    error
}

// reviewSubmittedMsg is the constructor for [MsgReviewSubmitted]
func reviewSubmittedMsg(review *models.Review, err error) Msg {
	return Msg{kind: MsgReviewSubmitted, data: reviewData{review, err}}
}

// profileFetchedMsg is the constructor for [MsgProfileFetched]
func profileFetchedMsg(summary tasks.ProfileSummary) Msg {
	return Msg{kind: MsgProfileFetched, data: summary}
}

// recommendationsFetchedMsg is the constructor for [MsgRecommendationsFetched]
func recommendationsFetchedMsg(page *models.MoviePage) Msg {
	return Msg{kind: MsgRecommendationsFetched, data: page}
}

// noticeMsg is the constructor for [MsgNotice]
func noticeMsg(n tasks.Notice) Msg {
	return Msg{kind: MsgNotice, data: n}
}

// sessionEndedMsg is the constructor for [MsgSessionEnded]
func sessionEndedMsg() Msg {
	return Msg{kind: MsgSessionEnded}
}
