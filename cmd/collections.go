package main

import (
	"context"
	"fmt"
	"slices"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/services"
	"github.com/desertthunder/reel/internal/shared"
	"github.com/desertthunder/reel/internal/tasks"
	"github.com/urfave/cli/v3"
)

// movieRef loads a movie so mutations carry its title and poster.
func (r *Runner) movieRef(ctx context.Context, id int) (models.MovieRef, error) {
	movie, err := r.session.Client().Movie(ctx, id)
	if err != nil {
		return models.MovieRef{}, fmt.Errorf("failed to load movie %d: %w", id, err)
	}
	return movie.Ref(), nil
}

// FavoritesList prints the user's favorites.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}
	favorites := r.fetch.Favorites(ctx, cmd.Bool("detail"))
	r.flushNotices()

	if cmd.Bool("json") {
		return r.writeJSON(favorites, cmd.Bool("pretty"))
	}
	r.writePlainHeader(fmt.Sprintf("Favorites (%d)", len(favorites)))
	if len(favorites) == 0 {
		return r.writePlain("No favorites yet\n")
	}
	for _, fav := range favorites {
		extra := fav.AddedAt.Format("2006-01-02")
		if fav.Movie != nil {
			extra += "  ★ " + shared.FormatRating(fav.Movie.VoteAverage)
		}
		r.writePlain("%8d  %s  %s\n", fav.MovieID, shared.Truncate(fav.Title(), 60), extra)
	}
	return nil
}

// FavoritesAdd adds a movie to favorites.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	id, err := movieID(cmd)
	if err != nil {
		return err
	}
	if err := r.requireSession(ctx); err != nil {
		return err
	}
	ref, err := r.movieRef(ctx, id)
	if err != nil {
		return err
	}
	if _, err := r.session.Client().AddFavorite(ctx, ref); err != nil {
		return fmt.Errorf("failed to add favorite: %s: %w", services.Detail(err), err)
	}
	return r.writePlain("✓ Added %s to favorites\n", ref.MovieTitle)
}

// FavoritesRemove removes a movie from favorites.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := movieID(cmd)
	if err != nil {
		return err
	}
	if err := r.requireSession(ctx); err != nil {
		return err
	}
	if _, err := r.session.Client().RemoveFavorite(ctx, id); err != nil {
		return fmt.Errorf("failed to remove favorite: %s: %w", services.Detail(err), err)
	}
	return r.writePlain("✓ Removed movie %d from favorites\n", id)
}

// WatchlistsList prints every watchlist with its movies.
func (r *Runner) WatchlistsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}
	lists, err := r.session.Client().Watchlists(ctx)
	if err != nil {
		return fmt.Errorf("failed to load watchlists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(lists, cmd.Bool("pretty"))
	}
	r.writePlainHeader(fmt.Sprintf("Watchlists (%d)", len(lists)))
	if len(lists) == 0 {
		return r.writePlain("No watchlists yet\n")
	}
	for _, wl := range lists {
		r.writePlain("\n%s  [%s]  %d movie(s)\n", wl.Name, wl.ID, len(wl.Movies))
		if wl.Description != "" {
			r.writePlain("  %s\n", wl.Description)
		}
		for _, m := range wl.Movies {
			r.writePlain("  %8d  %s\n", m.MovieID, shared.Truncate(m.MovieTitle, 60))
		}
	}
	return nil
}

// WatchlistsCreate creates a watchlist.
func (r *Runner) WatchlistsCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if err := models.ValidateWatchlistName(name); err != nil {
		return err
	}
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	wl, err := r.session.Client().CreateWatchlist(ctx, name, cmd.String("description"))
	if err != nil {
		return fmt.Errorf("failed to create watchlist: %s: %w", services.Detail(err), err)
	}
	if cmd.Bool("json") {
		return r.writeJSON(wl, cmd.Bool("pretty"))
	}
	return r.writePlain("✓ Created watchlist %s [%s]\n", wl.Name, wl.ID)
}

// WatchlistsAdd adds a movie to a watchlist. A movie already in the list is rejected
// before any request.
func (r *Runner) WatchlistsAdd(ctx context.Context, cmd *cli.Command) error {
	id, err := movieID(cmd)
	if err != nil {
		return err
	}
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	watchlistID := cmd.String("watchlist")
	client := r.session.Client()
	lists, err := client.Watchlists(ctx)
	if err != nil {
		return fmt.Errorf("failed to load watchlists: %w", err)
	}
	i := slices.IndexFunc(lists, func(wl models.Watchlist) bool { return wl.ID == watchlistID })
	if i < 0 {
		return fmt.Errorf("%w: %s", shared.ErrWatchlistNotFound, watchlistID)
	}
	if lists[i].Contains(id) {
		return fmt.Errorf("%w: movie %d is already in %s", shared.ErrAlreadyExists, id, lists[i].Name)
	}

	ref, err := r.movieRef(ctx, id)
	if err != nil {
		return err
	}
	if _, err := client.AddToWatchlist(ctx, watchlistID, ref); err != nil {
		return fmt.Errorf("failed to add to watchlist: %s: %w", services.Detail(err), err)
	}
	return r.writePlain("✓ Added %s to %s\n", ref.MovieTitle, lists[i].Name)
}

// WatchlistsRemove removes a movie from a watchlist.
func (r *Runner) WatchlistsRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := movieID(cmd)
	if err != nil {
		return err
	}
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	watchlistID := cmd.String("watchlist")
	if _, err := r.session.Client().RemoveFromWatchlist(ctx, watchlistID, id); err != nil {
		return fmt.Errorf("failed to remove from watchlist: %s: %w", services.Detail(err), err)
	}
	return r.writePlain("✓ Removed movie %d from watchlist %s\n", id, watchlistID)
}

// FavoritesExport writes the favorites to files.
func (r *Runner) FavoritesExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}
	opts, err := exportOpts(cmd)
	if err != nil {
		return err
	}
	return r.runExport(func(prog chan<- tasks.ProgressUpdate) (*tasks.ExportResult, error) {
		return r.fetch.ExportFavorites(ctx, prog, opts)
	})
}

// WatchlistsExport writes the selected watchlists, or all of them, to files.
func (r *Runner) WatchlistsExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}
	opts, err := exportOpts(cmd)
	if err != nil {
		return err
	}
	ids := cmd.StringSlice("id")
	return r.runExport(func(prog chan<- tasks.ProgressUpdate) (*tasks.ExportResult, error) {
		return r.fetch.ExportWatchlists(ctx, prog, ids, opts)
	})
}

func exportOpts(cmd *cli.Command) (tasks.ExportOpts, error) {
	format := cmd.String("format")
	if !slices.Contains(tasks.ExportFormats, format) {
		return tasks.ExportOpts{}, fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidFlag, format)
	}
	return tasks.ExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
		WithDetail: cmd.Bool("detail"),
		Cover:      cmd.Bool("cover"),
	}, nil
}

// runExport prints progress while export runs, then the summary.
func (r *Runner) runExport(export func(chan<- tasks.ProgressUpdate) (*tasks.ExportResult, error)) error {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchCollections:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.FetchDetails:
				r.writePlain("   %s\n", update.Message)
			case tasks.ExportCollection:
				r.writePlain("%s\n", update.Message)
			}
		}
	}()

	result, err := export(progressCh)
	close(progressCh)
	<-done
	r.flushNotices()
	if err != nil {
		return err
	}

	r.writePlainln("═══════════════════════════════════════")
	r.writePlain("Export Complete!\n")
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("Format: %s\n", result.Format)
	r.writePlain("Output: %s\n", result.OutputDirectory)
	r.writePlain("Exported: %d/%d\n", result.SuccessfulExports, result.TotalCollections)
	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}
	if result.FailedExports > 0 {
		r.writePlain("\nFailed:\n")
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  - %s: %s\n", res.CollectionName, res.ErrorMessage)
			}
		}
	}
	return nil
}
