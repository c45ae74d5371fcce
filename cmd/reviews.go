package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/services"
	"github.com/desertthunder/reel/internal/shared"
	"github.com/desertthunder/reel/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ReviewsSubmit creates or updates the user's review of a movie.
func (r *Runner) ReviewsSubmit(ctx context.Context, cmd *cli.Command) error {
	id, err := movieID(cmd)
	if err != nil {
		return err
	}
	rating := models.RoundRating(cmd.Float("rating"))
	if err := tasks.ValidateRating(rating); err != nil {
		return err
	}
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	review, err := r.fetch.SubmitReview(ctx, id, rating, cmd.String("text"))
	r.flushNotices()
	if err != nil {
		return fmt.Errorf("failed to submit review: %s: %w", services.Detail(err), err)
	}
	return r.writePlain("✓ Rated movie %d ★ %s\n", review.MovieID, shared.FormatRating(review.Rating))
}

// ReviewsMovie lists a movie's reviews.
func (r *Runner) ReviewsMovie(ctx context.Context, cmd *cli.Command) error {
	id, err := movieID(cmd)
	if err != nil {
		return err
	}
	reviews, err := r.session.Client().MovieReviews(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load reviews: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(reviews, cmd.Bool("pretty"))
	}
	r.writePlainHeader(fmt.Sprintf("Reviews of movie %d", id))
	return r.writeReviews(reviews)
}

// ReviewsMine lists the user's reviews.
func (r *Runner) ReviewsMine(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}
	reviews, err := r.session.Client().UserReviews(ctx)
	if err != nil {
		return fmt.Errorf("failed to load reviews: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(reviews, cmd.Bool("pretty"))
	}
	r.writePlainHeader("Your reviews")
	return r.writeReviews(reviews)
}

// Recommendations lists movies from the user's favorite genres.
func (r *Runner) Recommendations(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}
	page, err := r.session.Client().Recommendations(ctx)
	if err != nil {
		return fmt.Errorf("failed to load recommendations: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, cmd.Bool("pretty"))
	}
	return r.writeMoviePage("For You", page)
}

// Profile prints the user's identity with favorite, watchlist and review counts.
// A source that fails is reported without hiding the others.
func (r *Runner) Profile(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}
	summary := r.fetch.Profile(ctx, nil)
	r.flushNotices()

	if cmd.Bool("json") {
		return r.writeJSON(summary, cmd.Bool("pretty"))
	}

	user := summary.User
	if user == nil {
		user = &models.User{}
	}
	r.writePlainHeader(user.Name)
	r.writePlain("Email: %s\n", user.Email)
	r.writePlain("Member since: %s\n\n", user.CreatedAt.Format("January 2006"))
	for _, res := range []tasks.SourceResult{summary.Favorites, summary.Watchlists, summary.Reviews} {
		if res.OK() {
			r.writePlain("%-12s %d\n", res.Source, res.Count)
		} else {
			r.writePlain("%-12s unavailable (%v)\n", res.Source, res.Err)
		}
	}
	if summary.Reviews.OK() && summary.Reviews.Count > 0 {
		r.writePlain("%-12s ★ %s\n", "avg rating", shared.FormatRating(summary.AverageRating))
	}
	return nil
}
