package main

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/services"
	"github.com/desertthunder/reel/internal/shared"
	"github.com/desertthunder/reel/internal/tasks"
	"github.com/urfave/cli/v3"
)

// movieID parses the "id" argument.
func movieID(cmd *cli.Command) (int, error) {
	raw := cmd.StringArg("id")
	if raw == "" {
		return 0, fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: movie id %q", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}

// listing returns the action for one listing kind.
func (r *Runner) listing(kind tasks.ListingKind) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		client := r.session.Client()
		page := cmd.Int("page")

		var (
			result *models.MoviePage
			err    error
		)
		switch kind {
		case tasks.Popular:
			result, err = client.Popular(ctx, page)
		case tasks.TopRated:
			result, err = client.TopRated(ctx, page)
		case tasks.Discover:
			sortBy := cmd.String("sort")
			if !slices.Contains(services.SortOptions, sortBy) {
				return fmt.Errorf("%w: sort must be one of %s", shared.ErrInvalidFlag, strings.Join(services.SortOptions, ", "))
			}
			result, err = client.Discover(ctx, services.DiscoverParams{
				GenreID: cmd.Int("genre"),
				Year:    cmd.Int("year"),
				SortBy:  sortBy,
				Page:    page,
			})
		case tasks.Search:
			query := strings.TrimSpace(cmd.StringArg("query"))
			if query == "" {
				return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
			}
			result, err = client.Search(ctx, query, page)
		}
		if err != nil {
			return fmt.Errorf("failed to load %s movies: %w", kind, err)
		}

		if cmd.Bool("json") {
			return r.writeJSON(result, cmd.Bool("pretty"))
		}
		return r.writeMoviePage(kind.Title(), result)
	}
}

func (r *Runner) writeMoviePage(title string, page *models.MoviePage) error {
	r.writePlainHeader(title)
	if page.Len() == 0 {
		return r.writePlain("No movies found\n")
	}
	for _, m := range page.Results {
		year := m.Year()
		if year == "" {
			year = "----"
		}
		r.writePlain("%8d  %s  ★ %s  %s\n", m.ID, year, shared.FormatRating(m.VoteAverage), shared.Truncate(m.Title, 60))
	}
	return r.writePlainln("Page %d of %d · %d results", page.Page, page.TotalPages, page.TotalResults)
}

// MovieShow prints a movie's detail and its reviews.
func (r *Runner) MovieShow(ctx context.Context, cmd *cli.Command) error {
	id, err := movieID(cmd)
	if err != nil {
		return err
	}

	client := r.session.Client()
	movie, err := client.Movie(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load movie %d: %w", id, err)
	}
	reviews, err := client.MovieReviews(ctx, id)
	if err != nil {
		r.logger.Warn("failed to load reviews", "movie_id", id, "error", err)
		reviews = []models.Review{}
	}

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(shared.MovieURL(id)); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(struct {
			Movie   *models.Movie   `json:"movie"`
			Reviews []models.Review `json:"reviews"`
		}{movie, reviews}, cmd.Bool("pretty"))
	}

	heading := movie.Title
	if year := movie.Year(); year != "" {
		heading += " (" + year + ")"
	}
	r.writePlainHeader(heading)
	if movie.Tagline != "" {
		r.writePlain("%s\n\n", movie.Tagline)
	}
	r.writePlain("Rating: ★ %s (%d votes)\n", shared.FormatRating(movie.VoteAverage), movie.VoteCount)
	if rt := shared.FormatRuntime(movie.Runtime); rt != "" {
		r.writePlain("Runtime: %s\n", rt)
	}
	if genres := movie.GenreNames(); genres != "" {
		r.writePlain("Genres: %s\n", genres)
	}
	if budget := shared.FormatMoney(movie.Budget); budget != "" {
		r.writePlain("Budget: %s\n", budget)
	}
	if revenue := shared.FormatMoney(movie.Revenue); revenue != "" {
		r.writePlain("Revenue: %s\n", revenue)
	}
	if len(movie.ProductionCompanies) > 0 {
		names := make([]string, len(movie.ProductionCompanies))
		for i, c := range movie.ProductionCompanies {
			names[i] = c.Name
		}
		r.writePlain("Companies: %s\n", strings.Join(names, ", "))
	}
	if poster := movie.PosterURL("w500"); poster != "" {
		r.writePlain("Poster: %s\n", poster)
	}
	r.writePlain("Page: %s\n", shared.MovieURL(id))
	if movie.Overview != "" {
		r.writePlainln("%s", movie.Overview)
	}

	return r.writeReviews(reviews)
}

func (r *Runner) writeReviews(reviews []models.Review) error {
	if len(reviews) == 0 {
		return r.writePlainln("No reviews yet")
	}
	r.writePlainln("Reviews (%d, average %s)", len(reviews), shared.FormatRating(models.AverageRating(reviews)))
	for _, rv := range reviews {
		r.writePlain("  ★ %s  %s  %s\n", shared.FormatRating(rv.Rating), rv.CreatedAt.Format("2006-01-02"), reviewLabel(rv))
		if rv.ReviewText != "" {
			r.writePlain("    %s\n", rv.ReviewText)
		}
	}
	return nil
}

func reviewLabel(rv models.Review) string {
	return fmt.Sprintf("movie %d", rv.MovieID)
}

// Genres lists the genre catalogue.
func (r *Runner) Genres(ctx context.Context, cmd *cli.Command) error {
	genres, err := r.session.Client().Genres(ctx)
	if err != nil {
		return fmt.Errorf("failed to load genres: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(genres, cmd.Bool("pretty"))
	}
	r.writePlainHeader("Genres")
	for _, g := range genres {
		r.writePlain("%6d  %s\n", g.ID, g.Name)
	}
	return nil
}
