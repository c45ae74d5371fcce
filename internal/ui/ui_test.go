package ui

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/services"
	"github.com/desertthunder/reel/internal/session"
	"github.com/desertthunder/reel/internal/tasks"
	tu "github.com/desertthunder/reel/internal/testing"
)

var ada = &models.User{ID: "u1", Name: "Ada", Email: "ada@example.com"}

type fakeSession struct {
	client   *services.Client
	user     *models.User
	restored bool
	onChange func(*models.User)
}

func (s *fakeSession) Restore(ctx context.Context) bool {
	if s.restored {
		s.user = ada
	}
	return s.restored
}

func (s *fakeSession) Login(ctx context.Context, email, password string) session.Result {
	if email == ada.Email && password == "secret" {
		s.user = ada
		return session.Result{OK: true}
	}
	return session.Result{Message: "Incorrect email or password"}
}

func (s *fakeSession) Register(ctx context.Context, email, password, name string) session.Result {
	s.user = &models.User{ID: "u9", Email: email, Name: name}
	return session.Result{OK: true}
}

func (s *fakeSession) Logout()                                 { s.end() }
func (s *fakeSession) Authenticated() bool                     { return s.user != nil }
func (s *fakeSession) Identity() *models.User                  { return s.user }
func (s *fakeSession) OnChange(fn func(identity *models.User)) { s.onChange = fn }
func (s *fakeSession) Client() *services.Client {
	if s.user != nil {
		return s.client.WithToken("token").OnUnauthorized(func(string) { s.end() })
	}
	return s.client
}

func (s *fakeSession) end() {
	if s.user == nil {
		return
	}
	s.user = nil
	if s.onChange != nil {
		s.onChange(nil)
	}
}

type backend struct {
	mu        sync.Mutex
	discover  string
	favorites []models.UserMovie
	expired   bool
	counter   *tu.CountingHandler
}

func (b *backend) lastDiscover() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.discover
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func moviesPage(r *http.Request, ids ...int) models.MoviePage {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	p := models.MoviePage{Page: max(page, 1), TotalPages: 3, TotalResults: 60, Results: []models.Movie{}}
	for _, id := range ids {
		p.Results = append(p.Results, models.Movie{ID: id, Title: "Movie " + strconv.Itoa(id), ReleaseDate: "1999-03-31", VoteAverage: 8.2})
	}
	return p
}

func newBackend(t *testing.T) (*backend, *services.Client) {
	t.Helper()

	b := &backend{favorites: []models.UserMovie{{ID: "f1", MovieID: 10, MovieTitle: "Movie 10"}}}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/movies/popular", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, moviesPage(r, 1, 2, 3))
	})
	mux.HandleFunc("GET /api/movies/top-rated", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, moviesPage(r, 4, 5))
	})
	mux.HandleFunc("GET /api/movies/discover", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.discover = r.URL.RawQuery
		b.mu.Unlock()
		if r.URL.Query().Get("genre_id") == "18" {
			reply(w, http.StatusOK, moviesPage(r, 11, 12, 13, 14))
			return
		}
		reply(w, http.StatusOK, moviesPage(r, 9))
	})
	mux.HandleFunc("GET /api/movies/search", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, moviesPage(r, 6))
	})
	mux.HandleFunc("GET /api/movies/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		if id == 404 {
			reply(w, http.StatusNotFound, models.ErrorBody{Detail: "Movie not found"})
			return
		}
		reply(w, http.StatusOK, models.Movie{ID: id, Title: "Movie " + strconv.Itoa(id), ReleaseDate: "1999-03-31", Runtime: 136, VoteAverage: 8.2})
	})
	mux.HandleFunc("GET /api/genres", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, models.GenreList{Genres: []models.Genre{{ID: 28, Name: "Action"}, {ID: 18, Name: "Drama"}}})
	})
	mux.HandleFunc("GET /api/favorites", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.expired {
			reply(w, http.StatusUnauthorized, models.ErrorBody{Detail: "Could not validate credentials"})
			return
		}
		reply(w, http.StatusOK, b.favorites)
	})
	mux.HandleFunc("POST /api/favorites", func(w http.ResponseWriter, r *http.Request) {
		var ref models.MovieRef
		json.NewDecoder(r.Body).Decode(&ref)
		b.mu.Lock()
		b.favorites = append(b.favorites, models.UserMovie{MovieID: ref.MovieID, MovieTitle: ref.MovieTitle})
		b.mu.Unlock()
		reply(w, http.StatusOK, models.Message{Message: "Movie added to favorites"})
	})
	mux.HandleFunc("DELETE /api/favorites/{id}", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, models.Message{Message: "Movie removed from favorites"})
	})
	mux.HandleFunc("GET /api/watchlists", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, []models.Watchlist{{ID: "w1", Name: "Later", Movies: []models.UserMovie{{MovieID: 10, MovieTitle: "Movie 10"}}}})
	})
	mux.HandleFunc("POST /api/watchlists", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, models.Watchlist{ID: "w2", Name: r.URL.Query().Get("name")})
	})
	mux.HandleFunc("POST /api/watchlists/{id}/movies", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, models.Message{Message: "Movie added to watchlist"})
	})
	mux.HandleFunc("DELETE /api/watchlists/{id}/movies/{movie}", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, models.Message{Message: "Movie removed from watchlist"})
	})
	mux.HandleFunc("GET /api/reviews/movie/{id}", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, []models.Review{{ID: "r0", UserID: "u2", MovieID: 1, Rating: 6, ReviewText: "fine"}})
	})
	mux.HandleFunc("POST /api/reviews", func(w http.ResponseWriter, r *http.Request) {
		var req models.ReviewRequest
		json.NewDecoder(r.Body).Decode(&req)
		reply(w, http.StatusOK, models.Review{ID: "r1", UserID: "u1", MovieID: req.MovieID, Rating: req.Rating, ReviewText: req.ReviewText})
	})
	mux.HandleFunc("GET /api/recommendations", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, moviesPage(r, 7, 8))
	})

	b.counter = tu.NewCountingHandler(mux)
	srv := httptest.NewServer(b.counter)
	t.Cleanup(srv.Close)
	return b, services.NewClient(srv.URL)
}

func newTestModel(t *testing.T, user *models.User) (*Model, *backend, *fakeSession) {
	t.Helper()
	b, client := newBackend(t)
	s := &fakeSession{client: client, user: user}
	fetch := tasks.NewFetchers(s, log.New(io.Discard), nil)
	m := NewModel(context.Background(), s, fetch, nil)
	m.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, b, s
}

// run executes cmd and feeds every resulting [Msg] back into the model, expanding batches.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			run(t, m, c)
		}
	case Msg:
		_, next := m.Update(msg)
		run(t, m, next)
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(t *testing.T, m *Model, keys ...string) {
	t.Helper()
	for _, k := range keys {
		_, cmd := m.Update(keyMsg(k))
		run(t, m, cmd)
	}
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func start(t *testing.T, m *Model) {
	t.Helper()
	_, cmd := m.Update(sessionRestoredMsg(m.session.Restore(m.ctx)))
	run(t, m, cmd)
}

func TestStartup(t *testing.T) {
	t.Run("restored session greets the user", func(t *testing.T) {
		m, _, s := newTestModel(t, nil)
		s.restored = true
		start(t, m)

		if m.view != BrowseView {
			t.Errorf("expected browse view, got %d", m.view)
		}
		if m.toast == nil || !strings.Contains(m.toast.Message, "Ada") {
			t.Errorf("expected welcome toast, got %+v", m.toast)
		}
		if m.page.Len() != 3 {
			t.Errorf("expected 3 popular movies, got %d", m.page.Len())
		}
		if len(m.genres) != 2 {
			t.Errorf("expected 2 genres, got %d", len(m.genres))
		}
	})

	t.Run("loading view only quits", func(t *testing.T) {
		m, b, _ := newTestModel(t, nil)
		press(t, m, "2", "tab")
		if m.view != LoadingView {
			t.Errorf("expected loading view, got %d", m.view)
		}
		if b.counter.Count() != 0 {
			t.Errorf("expected no requests, got %d", b.counter.Count())
		}
		if !strings.Contains(m.View(), "Restoring session") {
			t.Error("expected restoring message")
		}
	})
}

func TestListingGenerations(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	start(t, m)

	m.query = tasks.ListingQuery{Kind: tasks.Popular, Page: 1}
	stale := m.fetchListing()
	m.query = tasks.ListingQuery{Kind: tasks.TopRated, Page: 1}
	current := m.fetchListing()

	run(t, m, current)
	run(t, m, stale)

	if m.page.Len() != 2 {
		t.Errorf("expected top rated page to remain, got %d movies", m.page.Len())
	}
	if m.movies.Title != "Top Rated" {
		t.Errorf("expected Top Rated title, got %q", m.movies.Title)
	}

	t.Run("consecutive discover filters", func(t *testing.T) {
		m, b, _ := newTestModel(t, nil)
		start(t, m)

		m.query = tasks.ListingQuery{Kind: tasks.Discover, Page: 1, Discover: services.DiscoverParams{GenreID: 18, Year: 1999}}
		stale := m.fetchListing()
		m.query = tasks.ListingQuery{Kind: tasks.Discover, Page: 2, Discover: services.DiscoverParams{GenreID: 28, Year: 2010}}
		current := m.fetchListing()

		run(t, m, current)
		if q := b.lastDiscover(); !strings.Contains(q, "genre_id=28") || !strings.Contains(q, "year=2010") {
			t.Fatalf("expected later filter sent, got %q", q)
		}
		run(t, m, stale)

		if q := b.lastDiscover(); !strings.Contains(q, "genre_id=18") {
			t.Fatalf("expected earlier filter to resolve last, got %q", q)
		}
		if m.page.Len() != 1 || m.page.Page != 2 {
			t.Errorf("expected page 2 of the later filter, got page %d with %d movies", m.page.Page, m.page.Len())
		}
		if got := m.query.Discover; got.GenreID != 28 || got.Year != 2010 {
			t.Errorf("expected later filter to stay active, got %+v", got)
		}
	})
}

func TestBrowseKeys(t *testing.T) {
	t.Run("tabs and paging", func(t *testing.T) {
		m, _, _ := newTestModel(t, nil)
		start(t, m)

		press(t, m, "tab")
		if m.query.Kind != tasks.TopRated || m.page.Len() != 2 {
			t.Fatalf("expected top rated, got %v with %d movies", m.query.Kind, m.page.Len())
		}

		press(t, m, "n")
		if m.query.Page != 2 || m.page.Page != 2 {
			t.Errorf("expected page 2, got query %d page %d", m.query.Page, m.page.Page)
		}
		press(t, m, "p", "p")
		if m.query.Page != 1 {
			t.Errorf("expected page 1, got %d", m.query.Page)
		}

		press(t, m, "shift+tab")
		if m.query.Kind != tasks.Popular {
			t.Errorf("expected popular, got %v", m.query.Kind)
		}
	})

	t.Run("no next page on the last page", func(t *testing.T) {
		m, _, _ := newTestModel(t, nil)
		start(t, m)
		m.page.Page = 3
		m.query.Page = 3

		press(t, m, "n")
		if m.query.Page != 3 {
			t.Errorf("expected page to stay 3, got %d", m.query.Page)
		}
	})

	t.Run("discover filters", func(t *testing.T) {
		m, b, _ := newTestModel(t, nil)
		start(t, m)
		press(t, m, "tab", "tab")
		if m.query.Kind != tasks.Discover {
			t.Fatalf("expected discover, got %v", m.query.Kind)
		}

		press(t, m, "g", "y", "s")
		d := m.query.Discover
		if d.GenreID != 28 || d.Year != 2024 || d.SortBy != "vote_average.desc" {
			t.Errorf("unexpected filters %+v", d)
		}
		q := b.lastDiscover()
		for _, want := range []string{"genre_id=28", "year=2024", "sort_by=vote_average.desc"} {
			if !strings.Contains(q, want) {
				t.Errorf("expected %q in %q", want, q)
			}
		}

		press(t, m, "g", "g", "Y")
		if m.query.Discover.GenreID != 0 || m.query.Discover.Year != 0 {
			t.Errorf("expected filters cleared, got %+v", m.query.Discover)
		}
	})

	t.Run("search submits the typed query", func(t *testing.T) {
		m, _, _ := newTestModel(t, nil)
		start(t, m)

		m.Update(keyMsg("/"))
		if !m.searching || m.query.Kind != tasks.Search {
			t.Fatal("expected search input focused")
		}
		typeText(m, "matrix")
		press(t, m, "enter")

		if m.searching {
			t.Error("expected search input blurred")
		}
		if m.query.Query != "matrix" || m.page.Len() != 1 {
			t.Errorf("expected one result for matrix, got %q with %d", m.query.Query, m.page.Len())
		}
	})
}

func TestAnonymousGuards(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		toast string
	}{
		{"favorites", "2", "Please login to view favorites"},
		{"watchlists", "3", "Please login to view watchlists"},
		{"recommendations", "4", "Please login to get recommendations"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, b, _ := newTestModel(t, nil)
			start(t, m)
			before := b.counter.Count()

			press(t, m, tt.key)
			if m.view != LoginView || m.back != BrowseView {
				t.Errorf("expected login prompt over browse, got view %d back %d", m.view, m.back)
			}
			if m.toast == nil || m.toast.Message != tt.toast {
				t.Errorf("expected toast %q, got %+v", tt.toast, m.toast)
			}
			if b.counter.Count() != before {
				t.Errorf("expected no request, got %d", b.counter.Count()-before)
			}

			press(t, m, "esc")
			if m.view != BrowseView {
				t.Errorf("expected esc to return to browse, got %d", m.view)
			}
		})
	}

	t.Run("detail actions", func(t *testing.T) {
		for _, key := range []string{"f", "w", "r"} {
			t.Run(key, func(t *testing.T) {
				m, b, _ := newTestModel(t, nil)
				start(t, m)
				press(t, m, "enter")
				if m.view != DetailView {
					t.Fatalf("expected detail view, got %d", m.view)
				}
				before := b.counter.Count()

				press(t, m, key)
				if m.view != LoginView || m.back != DetailView {
					t.Errorf("expected login prompt over detail, got view %d back %d", m.view, m.back)
				}
				if b.counter.Count() != before {
					t.Errorf("expected no request, got %d", b.counter.Count()-before)
				}
			})
		}
	})
}

func TestSessionExpiry(t *testing.T) {
	t.Run("rejected token clears user views", func(t *testing.T) {
		m, b, s := newTestModel(t, ada)
		start(t, m)
		press(t, m, "4", "2")
		if len(m.favorites) != 1 || len(m.recommended.Items()) != 2 {
			t.Fatalf("expected loaded user state, got %d favorites", len(m.favorites))
		}

		b.mu.Lock()
		b.expired = true
		b.mu.Unlock()
		press(t, m, "1", "2")
		if s.Authenticated() {
			t.Fatal("expected session cleared by 401")
		}

		select {
		case <-m.ended:
		default:
			t.Fatal("expected session end signal")
		}
		m.Update(sessionEndedMsg())

		if len(m.favorites) != 0 || len(m.favoriteList.Items()) != 0 || len(m.recommended.Items()) != 0 {
			t.Errorf("expected user views cleared, got %d favorites", len(m.favorites))
		}
		if m.profile != nil || m.favorite {
			t.Error("expected profile and favorite flag cleared")
		}
		if m.toast == nil || m.toast.Message != "Session expired, please login" {
			t.Errorf("expected expiry toast, got %+v", m.toast)
		}
		if m.view != LoginView || m.back != BrowseView {
			t.Errorf("expected login prompt over browse, got view %d back %d", m.view, m.back)
		}
		if m.displayName() != "guest" {
			t.Errorf("expected guest, got %q", m.displayName())
		}
	})

	t.Run("logout is not reported as expiry", func(t *testing.T) {
		m, _, _ := newTestModel(t, ada)
		start(t, m)

		press(t, m, "L")
		if m.toast == nil || m.toast.Message != "Logged out" {
			t.Fatalf("expected logout toast, got %+v", m.toast)
		}
		m.Update(sessionEndedMsg())
		if m.toast.Message != "Logged out" || m.view != BrowseView {
			t.Errorf("expected logout state kept, got %q on view %d", m.toast.Message, m.view)
		}
	})
}

func TestDetail(t *testing.T) {
	t.Run("open and toggle favorite", func(t *testing.T) {
		m, _, _ := newTestModel(t, ada)
		start(t, m)

		press(t, m, "enter")
		if m.view != DetailView || m.detail == nil || m.detail.ID != 1 {
			t.Fatalf("expected detail of movie 1, got view %d detail %+v", m.view, m.detail)
		}
		if m.favorite {
			t.Error("expected movie 1 not favorite")
		}
		if len(m.reviews) != 1 {
			t.Errorf("expected 1 review, got %d", len(m.reviews))
		}
		if !strings.Contains(m.View(), "2h 16m") {
			t.Error("expected runtime in detail view")
		}

		press(t, m, "f")
		if !m.favorite {
			t.Error("expected movie 1 to be favorite")
		}

		press(t, m, "esc")
		if m.view != BrowseView {
			t.Errorf("expected browse view, got %d", m.view)
		}
	})

	t.Run("anonymous favorite is a notice", func(t *testing.T) {
		m, b, _ := newTestModel(t, nil)
		start(t, m)
		press(t, m, "enter")
		before := b.counter.Count()

		press(t, m, "f")
		if m.favorite {
			t.Error("expected favorite state unchanged")
		}
		if b.counter.Count() != before {
			t.Error("expected no request")
		}
	})

	t.Run("failed detail returns to the list", func(t *testing.T) {
		m, _, _ := newTestModel(t, nil)
		start(t, m)

		run(t, m, m.openDetail(404, BrowseView))
		if m.view != BrowseView {
			t.Errorf("expected browse view, got %d", m.view)
		}
	})

	t.Run("stale detail is dropped", func(t *testing.T) {
		m, _, _ := newTestModel(t, nil)
		start(t, m)
		m.openDetail(2, BrowseView)

		m.Update(detailFetchedMsg(1, &models.Movie{ID: 1, Title: "Old"}, false, nil))
		if m.detail != nil {
			t.Errorf("expected stale detail dropped, got %+v", m.detail)
		}
	})
}

func TestReviewForm(t *testing.T) {
	m, _, _ := newTestModel(t, ada)
	start(t, m)
	press(t, m, "enter", "r")
	if m.view != ReviewView {
		t.Fatalf("expected review view, got %d", m.view)
	}

	typeText(m, "8.46")
	press(t, m, "tab")
	typeText(m, "  great  ")
	press(t, m, "enter")

	if m.view != DetailView {
		t.Fatalf("expected detail view, got %d", m.view)
	}
	mine := m.fetch.ExistingReview(m.reviews)
	if mine == nil {
		t.Fatal("expected own review")
	}
	if mine.Rating != 8.5 || mine.ReviewText != "great" {
		t.Errorf("unexpected review %+v", mine)
	}

	press(t, m, "r")
	if got := m.form.inputs[0].Value(); got != "8.5" {
		t.Errorf("expected prefilled rating 8.5, got %q", got)
	}
}

func TestWatchlists(t *testing.T) {
	t.Run("add from detail", func(t *testing.T) {
		m, _, _ := newTestModel(t, ada)
		start(t, m)
		press(t, m, "enter", "w")
		if m.view != PickWatchlistView || len(m.watchlists) != 1 {
			t.Fatalf("expected picker with 1 watchlist, got view %d lists %d", m.view, len(m.watchlists))
		}

		press(t, m, "enter")
		if m.view != DetailView {
			t.Errorf("expected detail view, got %d", m.view)
		}
		if !m.watchlists[0].Contains(1) {
			t.Error("expected movie 1 in watchlist")
		}
	})

	t.Run("duplicate is refused locally", func(t *testing.T) {
		m, b, _ := newTestModel(t, ada)
		start(t, m)
		run(t, m, m.openDetail(10, BrowseView))
		press(t, m, "w")
		before := b.counter.Count()

		press(t, m, "enter")
		if m.toast == nil || m.toast.Message != "Movie already in watchlist" {
			t.Errorf("unexpected toast %+v", m.toast)
		}
		if b.counter.Count() != before {
			t.Error("expected no request")
		}
	})

	t.Run("create and remove", func(t *testing.T) {
		m, _, _ := newTestModel(t, ada)
		start(t, m)
		press(t, m, "3")
		if m.view != WatchlistsView {
			t.Fatalf("expected watchlists view, got %d", m.view)
		}

		press(t, m, "c")
		typeText(m, "Weekend")
		press(t, m, "enter")
		if m.view != WatchlistsView || len(m.watchlists) != 2 {
			t.Fatalf("expected 2 watchlists, got %d", len(m.watchlists))
		}

		press(t, m, "enter")
		if m.view != WatchlistView || m.watchlistID != "w1" {
			t.Fatalf("expected watchlist w1 open, got view %d id %q", m.view, m.watchlistID)
		}
		press(t, m, "x")
		if len(m.watchlists[0].Movies) != 0 {
			t.Errorf("expected empty watchlist, got %d", len(m.watchlists[0].Movies))
		}
		if len(m.entryList.Items()) != 0 {
			t.Errorf("expected empty entry list, got %d", len(m.entryList.Items()))
		}
	})
}

func TestFavoritesView(t *testing.T) {
	m, _, _ := newTestModel(t, ada)
	start(t, m)
	press(t, m, "2")
	if len(m.favorites) != 1 {
		t.Fatalf("expected 1 favorite, got %d", len(m.favorites))
	}

	press(t, m, "x")
	if len(m.favorites) != 0 || len(m.favoriteList.Items()) != 0 {
		t.Errorf("expected favorite removed, got %d", len(m.favorites))
	}
}

func TestAuthFlow(t *testing.T) {
	t.Run("login then logout", func(t *testing.T) {
		m, _, s := newTestModel(t, nil)
		start(t, m)

		press(t, m, "L")
		if m.view != LoginView {
			t.Fatalf("expected login view, got %d", m.view)
		}
		typeText(m, ada.Email)
		press(t, m, "tab")
		typeText(m, "wrong")
		press(t, m, "enter")
		if m.view != LoginView || m.toast == nil || m.toast.Message != "Incorrect email or password" {
			t.Fatalf("expected failed login toast, got %+v", m.toast)
		}

		m.form = loginForm(false)
		typeText(m, ada.Email)
		press(t, m, "tab")
		typeText(m, "secret")
		press(t, m, "enter")
		if m.view != BrowseView || !s.Authenticated() {
			t.Fatalf("expected logged in on browse, got view %d", m.view)
		}

		press(t, m, "4")
		if len(m.recommended.Items()) != 2 {
			t.Errorf("expected 2 recommendations, got %d", len(m.recommended.Items()))
		}

		press(t, m, "L")
		if s.Authenticated() {
			t.Error("expected logged out")
		}
		if m.view != BrowseView || len(m.recommended.Items()) != 0 {
			t.Errorf("expected user state cleared on browse, got view %d", m.view)
		}
	})

	t.Run("register mode keeps the email", func(t *testing.T) {
		m, _, s := newTestModel(t, nil)
		start(t, m)
		press(t, m, "L")
		typeText(m, "new@example.com")
		press(t, m, "ctrl+r")

		if !m.register || len(m.form.inputs) != 3 {
			t.Fatalf("expected register form, got %d inputs", len(m.form.inputs))
		}
		if m.form.value(0) != "new@example.com" {
			t.Errorf("expected email kept, got %q", m.form.value(0))
		}
		press(t, m, "enter")
		if s.Identity() == nil || s.Identity().Email != "new@example.com" {
			t.Errorf("expected registered identity, got %+v", s.Identity())
		}
	})
}

func TestProfileView(t *testing.T) {
	m, _, _ := newTestModel(t, ada)
	start(t, m)
	press(t, m, "5")

	if m.profile == nil {
		t.Fatal("expected profile")
	}
	out := m.View()
	for _, want := range []string{"Ada", "favorites", "watchlists"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in profile view", want)
		}
	}
}

func TestNoticeToast(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	start(t, m)

	m.Update(noticeMsg(tasks.Notice{Level: tasks.Error, Message: "Failed to load movies"}))
	if !strings.Contains(m.View(), "Failed to load movies") {
		t.Error("expected toast in view")
	}
}

func TestHelpers(t *testing.T) {
	genres := []models.Genre{{ID: 28, Name: "Action"}, {ID: 18, Name: "Drama"}}

	t.Run("nextGenre", func(t *testing.T) {
		tests := []struct {
			current, want int
		}{
			{0, 28},
			{28, 18},
			{18, 0},
			{99, 28},
		}
		for _, tt := range tests {
			if got := nextGenre(genres, tt.current); got != tt.want {
				t.Errorf("nextGenre(%d) = %d, want %d", tt.current, got, tt.want)
			}
		}
		if got := nextGenre(nil, 28); got != 0 {
			t.Errorf("expected 0 without genres, got %d", got)
		}
	})

	t.Run("nextSort wraps", func(t *testing.T) {
		if got := nextSort(""); got != services.SortOptions[1] {
			t.Errorf("expected %q, got %q", services.SortOptions[1], got)
		}
		last := services.SortOptions[len(services.SortOptions)-1]
		if got := nextSort(last); got != services.SortOptions[0] {
			t.Errorf("expected wrap to %q, got %q", services.SortOptions[0], got)
		}
	})

	t.Run("upsertReview", func(t *testing.T) {
		reviews := []models.Review{{ID: "r0", UserID: "u2", Rating: 6}}
		got := upsertReview(reviews, models.Review{ID: "r1", UserID: "u1", Rating: 8})
		if len(got) != 2 {
			t.Fatalf("expected append, got %d", len(got))
		}
		got = upsertReview(got, models.Review{ID: "r1", UserID: "u1", Rating: 9})
		if len(got) != 2 || got[1].Rating != 9 {
			t.Errorf("expected replace, got %+v", got)
		}
	})
}
