package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/reel/internal/models"
)

func (m *Model) restoreSession() tea.Cmd {
	return func() tea.Msg {
		return sessionRestoredMsg(m.session.Restore(m.ctx))
	}
}

func (m *Model) authenticate(register bool, email, password, name string) tea.Cmd {
	return func() tea.Msg {
		if register {
			return authResultMsg(m.session.Register(m.ctx, email, password, name))
		}
		return authResultMsg(m.session.Login(m.ctx, email, password))
	}
}

// fetchListing starts a new listing generation. Responses of older generations are discarded on arrival.
func (m *Model) fetchListing() tea.Cmd {
	gen := m.gen.Next()
	q := m.query
	m.loading = true
	return func() tea.Msg {
		return listingFetchedMsg(gen, q, m.fetch.Listing(m.ctx, q))
	}
}

func (m *Model) fetchGenres() tea.Cmd {
	return func() tea.Msg {
		return genresFetchedMsg(m.fetch.Genres(m.ctx))
	}
}

func (m *Model) fetchDetail(id int) tea.Cmd {
	m.detailID = id
	m.detail = nil
	m.reviews = nil
	return func() tea.Msg {
		movie := m.fetch.Detail(m.ctx, id)
		if movie == nil {
			return detailFetchedMsg(id, nil, false, nil)
		}
		favorite := m.fetch.IsFavorite(m.ctx, id)
		reviews := m.fetch.MovieReviews(m.ctx, id)
		return detailFetchedMsg(id, movie, favorite, reviews)
	}
}

func (m *Model) fetchFavorites() tea.Cmd {
	return func() tea.Msg {
		return favoritesFetchedMsg(m.fetch.Favorites(m.ctx, true))
	}
}

func (m *Model) toggleFavorite(ref models.MovieRef, current bool) tea.Cmd {
	return func() tea.Msg {
		state, err := m.fetch.ToggleFavorite(m.ctx, ref, current)
		return favoriteToggledMsg(ref.MovieID, state, err)
	}
}

func (m *Model) fetchWatchlists() tea.Cmd {
	return func() tea.Msg {
		return watchlistsFetchedMsg(m.fetch.Watchlists(m.ctx))
	}
}

func (m *Model) createWatchlist(name, description string) tea.Cmd {
	return func() tea.Msg {
		wl, err := m.fetch.CreateWatchlist(m.ctx, name, description)
		return watchlistCreatedMsg(wl, err)
	}
}

func (m *Model) addToWatchlist(watchlistID string, movie models.Movie) tea.Cmd {
	return func() tea.Msg {
		ref := movie.Ref()
		err := m.fetch.AddToWatchlist(m.ctx, watchlistID, ref)
		entry := models.UserMovie{MovieID: ref.MovieID, MovieTitle: ref.MovieTitle, MoviePoster: ref.MoviePoster, AddedAt: m.now()}
		return watchlistMovieAddedMsg(watchlistID, entry, err)
	}
}

func (m *Model) removeFromWatchlist(watchlistID string, movieID int) tea.Cmd {
	return func() tea.Msg {
		return watchlistMovieRemovedMsg(watchlistID, movieID, m.fetch.RemoveFromWatchlist(m.ctx, watchlistID, movieID))
	}
}

func (m *Model) submitReview(movieID int, rating float64, text string) tea.Cmd {
	return func() tea.Msg {
		review, err := m.fetch.SubmitReview(m.ctx, movieID, rating, text)
		return reviewSubmittedMsg(review, err)
	}
}

func (m *Model) fetchProfile() tea.Cmd {
	return func() tea.Msg {
		return profileFetchedMsg(m.fetch.Profile(m.ctx, nil))
	}
}

func (m *Model) fetchRecommendations() tea.Cmd {
	return func() tea.Msg {
		return recommendationsFetchedMsg(m.fetch.Recommendations(m.ctx))
	}
}

// waitForNotice blocks on the notice channel and re-arms itself from Update.
func (m *Model) waitForNotice() tea.Cmd {
	if m.notices == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-m.notices
		if !ok {
			return nil
		}
		return noticeMsg(n)
	}
}

// waitForSessionEnd blocks until the session ends outside the model.
func (m *Model) waitForSessionEnd() tea.Cmd {
	if m.ended == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-m.ended:
			return sessionEndedMsg()
		case <-m.ctx.Done():
			return nil
		}
	}
}
