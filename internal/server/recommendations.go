package server

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/services"
)

const (
	// RecommendationFavorites is how many favorites are read for recommendations.
	RecommendationFavorites = 50
	// RecommendationSample is how many of those favorites are looked up for genres.
	RecommendationSample = 10
	// RecommendationSort orders the discover query for the favorite genre.
	RecommendationSort = "vote_average.desc"
)

// Recommend picks suggestions for a user from their favorites.
//
// Without favorites it returns popular movies. Otherwise it counts the genres of the first
// [RecommendationSample] favorites and discovers the most frequent one by rating; ties go to
// the genre seen first. If no genre is known or discover fails, it falls back to top rated.
func Recommend(ctx context.Context, movies services.MovieProvider, favorites []models.UserMovie, logger *log.Logger) (*models.MoviePage, error) {
	if len(favorites) == 0 {
		return movies.Popular(ctx, 1)
	}

	if top, ok := TopGenre(ctx, movies, favorites, logger); ok {
		page, err := movies.Discover(ctx, services.DiscoverParams{GenreID: top, SortBy: RecommendationSort, Page: 1})
		if err == nil {
			return page, nil
		}
		logger.Warn("recommendation discover failed", "genre_id", top, "error", err)
	}

	return movies.TopRated(ctx, 1)
}

// TopGenre returns the most frequent genre among the sampled favorites' details.
// Favorites whose detail cannot be fetched are skipped.
func TopGenre(ctx context.Context, movies services.MovieProvider, favorites []models.UserMovie, logger *log.Logger) (int, bool) {
	if len(favorites) > RecommendationSample {
		favorites = favorites[:RecommendationSample]
	}

	counts := map[int]int{}
	var order []int
	for _, fav := range favorites {
		detail, err := movies.Movie(ctx, fav.MovieID)
		if err != nil {
			logger.Debug("skipping favorite without detail", "movie_id", fav.MovieID, "error", err)
			continue
		}
		for _, g := range detail.Genres {
			if counts[g.ID] == 0 {
				order = append(order, g.ID)
			}
			counts[g.ID]++
		}
	}

	best, bestCount := 0, 0
	for _, id := range order {
		if counts[id] > bestCount {
			best, bestCount = id, counts[id]
		}
	}
	return best, bestCount > 0
}
