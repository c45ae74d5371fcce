package tasks

import (
	"context"
	"sync"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/shared"
)

// Profile sources
const (
	SourceFavorites  = "favorites"
	SourceWatchlists = "watchlists"
	SourceReviews    = "reviews"
)

// SourceResult is the outcome of one profile source. A failed source does not hide the others.
type SourceResult struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
	Err    error  `json:"-"`
}

// OK reports whether the source loaded.
func (r SourceResult) OK() bool { return r.Err == nil }

// ProfileSummary is the profile view: identity plus per-source counts.
type ProfileSummary struct {
	User          *models.User `json:"user"`
	Favorites     SourceResult `json:"favorites"`
	Watchlists    SourceResult `json:"watchlists"`
	Reviews       SourceResult `json:"reviews"`
	AverageRating float64      `json:"average_rating"`
}

// Profile fetches favorites, watchlists and reviews concurrently. Each source carries its own
// success or failure. prog may be nil.
func (f *Fetchers) Profile(ctx context.Context, prog chan<- ProgressUpdate) ProfileSummary {
	summary := ProfileSummary{
		User:       f.session.Identity(),
		Favorites:  SourceResult{Source: SourceFavorites},
		Watchlists: SourceResult{Source: SourceWatchlists},
		Reviews:    SourceResult{Source: SourceReviews},
	}
	if !f.session.Authenticated() {
		summary.Favorites.Err = shared.ErrNotAuthenticated
		summary.Watchlists.Err = shared.ErrNotAuthenticated
		summary.Reviews.Err = shared.ErrNotAuthenticated
		return summary
	}

	client := f.session.Client()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		done    int
		reviews []models.Review
	)
	finish := func(res *SourceResult, count int, err error) {
		mu.Lock()
		defer mu.Unlock()
		res.Count, res.Err = count, err
		if err != nil {
			f.logger.Error("profile source failed", "source", res.Source, "error", err)
		}
		done++
		send(prog, profileSourceUpdate(done, 3, *res))
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		favs, err := client.Favorites(ctx)
		finish(&summary.Favorites, len(favs), err)
	}()
	go func() {
		defer wg.Done()
		lists, err := client.Watchlists(ctx)
		finish(&summary.Watchlists, len(lists), err)
	}()
	go func() {
		defer wg.Done()
		rs, err := client.UserReviews(ctx)
		reviews = rs
		finish(&summary.Reviews, len(rs), err)
	}()
	wg.Wait()

	summary.AverageRating = models.AverageRating(reviews)
	if !summary.Favorites.OK() || !summary.Watchlists.OK() || !summary.Reviews.OK() {
		f.notify(Warning, "Some profile data could not be loaded")
	}
	return summary
}
