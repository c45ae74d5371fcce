package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/shared"
	"github.com/desertthunder/reel/internal/tasks"
)

var (
	_ list.Item = movieItem{}
	_ list.Item = favoriteItem{}
	_ list.Item = watchlistItem{}
	_ list.Item = entryItem{}
)

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie models.Movie
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string {
	if y := i.movie.Year(); y != "" {
		return fmt.Sprintf("%s (%s)", i.movie.Title, y)
	}
	return i.movie.Title
}
func (i movieItem) Description() string {
	desc := fmt.Sprintf("★ %s", shared.FormatRating(i.movie.VoteAverage))
	if i.movie.Overview != "" {
		desc = fmt.Sprintf("%s • %s", desc, shared.Truncate(i.movie.Overview, 80))
	}
	return desc
}

// favoriteItem wraps [tasks.FavoriteView] to implement [list.Item].
type favoriteItem struct {
	favorite tasks.FavoriteView
}

func (i favoriteItem) FilterValue() string { return i.favorite.Title() }
func (i favoriteItem) Title() string       { return i.favorite.Title() }
func (i favoriteItem) Description() string {
	desc := "added " + i.favorite.AddedAt.Format("Jan 2, 2006")
	if m := i.favorite.Movie; m != nil {
		desc = fmt.Sprintf("★ %s • %s", shared.FormatRating(m.VoteAverage), desc)
	}
	return desc
}

// watchlistItem wraps [models.Watchlist] to implement [list.Item].
type watchlistItem struct {
	watchlist models.Watchlist
}

func (i watchlistItem) FilterValue() string { return i.watchlist.Name }
func (i watchlistItem) Title() string       { return i.watchlist.Name }
func (i watchlistItem) Description() string {
	desc := fmt.Sprintf("%d movies", len(i.watchlist.Movies))
	if i.watchlist.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.watchlist.Description)
	}
	return desc
}

// entryItem wraps a watchlist entry to implement [list.Item].
type entryItem struct {
	movie models.UserMovie
}

func (i entryItem) FilterValue() string { return i.movie.MovieTitle }
func (i entryItem) Title() string       { return i.movie.MovieTitle }
func (i entryItem) Description() string {
	return "added " + i.movie.AddedAt.Format("Jan 2, 2006")
}

func movieItems(movies []models.Movie) []list.Item {
	items := make([]list.Item, len(movies))
	for i, m := range movies {
		items[i] = movieItem{movie: m}
	}
	return items
}

func favoriteItems(favorites []tasks.FavoriteView) []list.Item {
	items := make([]list.Item, len(favorites))
	for i, f := range favorites {
		items[i] = favoriteItem{favorite: f}
	}
	return items
}

func watchlistItems(lists []models.Watchlist) []list.Item {
	items := make([]list.Item, len(lists))
	for i, wl := range lists {
		items[i] = watchlistItem{watchlist: wl}
	}
	return items
}

func entryItems(movies []models.UserMovie) []list.Item {
	items := make([]list.Item, len(movies))
	for i, m := range movies {
		items[i] = entryItem{movie: m}
	}
	return items
}

func genreName(genres []models.Genre, id int) string {
	for _, g := range genres {
		if g.ID == id {
			return g.Name
		}
	}
	return "All genres"
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
