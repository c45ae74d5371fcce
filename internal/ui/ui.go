package ui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/services"
	"github.com/desertthunder/reel/internal/session"
	"github.com/desertthunder/reel/internal/shared"
	"github.com/desertthunder/reel/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	BrowseView
	DetailView
	FavoritesView
	WatchlistsView
	WatchlistView
	RecommendationsView
	ProfileView
	LoginView
	ReviewView
	PickWatchlistView
	NewWatchlistView
)

// Session is the identity the TUI restores, logs in and logs out of.
type Session interface {
	Restore(ctx context.Context) bool
	Login(ctx context.Context, email, password string) session.Result
	Register(ctx context.Context, email, password, name string) session.Result
	Logout()
	Authenticated() bool
	Identity() *models.User
	OnChange(fn func(identity *models.User))
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	back    ViewState
	session Session
	fetch   *tasks.Fetchers
	notices <-chan tasks.Notice
	ended   chan struct{}
	now     func() time.Time
	width   int
	height  int

	gen       tasks.Generation
	query     tasks.ListingQuery
	page      *models.MoviePage
	loading   bool
	genres    []models.Genre
	search    textinput.Model
	searching bool
	movies    list.Model

	detailID int
	detail   *models.Movie
	favorite bool
	reviews  []models.Review

	favorites     []tasks.FavoriteView
	favoriteList  list.Model
	watchlists    []models.Watchlist
	watchlistList list.Model
	watchlistID   string
	entryList     list.Model
	pickList      list.Model
	recommended   list.Model
	profile       *tasks.ProfileSummary

	form     form
	register bool
	signedIn bool

	toast   *tasks.Notice
	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model. notices should be the channel the fetchers report to.
func NewModel(ctx context.Context, s Session, fetch *tasks.Fetchers, notices <-chan tasks.Notice) *Model {
	search := textinput.New()
	search.Placeholder = "Search movies"
	search.Prompt = "/ "
	search.CharLimit = 200

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styles.title

	// Signals when the session ends outside the model, such as a rejected token.
	ended := make(chan struct{}, 1)
	s.OnChange(func(identity *models.User) {
		if identity != nil {
			return
		}
		select {
		case ended <- struct{}{}:
		default:
		}
	})

	return &Model{
		ctx:           ctx,
		view:          LoadingView,
		back:          BrowseView,
		session:       s,
		fetch:         fetch,
		notices:       notices,
		ended:         ended,
		signedIn:      s.Authenticated(),
		now:           time.Now,
		query:         tasks.ListingQuery{Kind: tasks.Popular, Page: 1},
		search:        search,
		movies:        newList("Popular"),
		favoriteList:  newList("Favorites"),
		watchlistList: newList("Watchlists"),
		entryList:     newList("Watchlist"),
		pickList:      newList("Add to watchlist"),
		recommended:   newList("Recommended for you"),
		spinner:       spin,
		help:          help.New(),
		keys:          newKeyMap(),
	}
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	return l
}

// Init restores the persisted session and starts listening for notices and session expiry.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.restoreSession(), m.waitForNotice(), m.waitForSessionEnd(), m.spinner.Tick)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.movies, &m.favoriteList, &m.watchlistList, &m.entryList, &m.pickList, &m.recommended} {
			l.SetSize(msg.Width-4, msg.Height-10)
		}
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKeys(msg)
	case Msg:
		return m.handleMsg(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m.updateActive(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSessionRestored:
		m.view = BrowseView
		m.signedIn = m.session.Authenticated()
		if msg.data.(bool) {
			m.notify(tasks.Success, "Welcome back, %s", m.displayName())
		}
		return m, tea.Batch(m.fetchListing(), m.fetchGenres())

	case MsgAuthResult:
		res := msg.data.(session.Result)
		if !res.OK {
			m.notify(tasks.Error, "%s", res.Message)
			return m, nil
		}
		m.clearUserState()
		m.signedIn = true
		m.notify(tasks.Success, "Signed in as %s", m.displayName())
		m.view = m.back
		if m.view == DetailView && m.detailID > 0 {
			return m, m.fetchDetail(m.detailID)
		}
		return m, nil

	case MsgListingFetched:
		d := msg.data.(listingData)
		if !m.gen.IsCurrent(d.gen) {
			return m, nil
		}
		m.loading = false
		m.page = d.page
		m.movies.Title = d.query.Kind.Title()
		m.movies.SetItems(movieItems(d.page.Results))
		m.movies.ResetSelected()
		return m, nil

	case MsgGenresFetched:
		m.genres = msg.data.([]models.Genre)
		return m, nil

	case MsgDetailFetched:
		d := msg.data.(detailData)
		if d.id != m.detailID {
			return m, nil
		}
		if d.movie == nil {
			if m.view == DetailView {
				m.view = m.back
			}
			return m, nil
		}
		m.detail = d.movie
		m.favorite = d.favorite
		m.reviews = d.reviews
		return m, nil

	case MsgFavoritesFetched:
		m.favorites = msg.data.([]tasks.FavoriteView)
		m.favoriteList.SetItems(favoriteItems(m.favorites))
		return m, nil

	case MsgFavoriteToggled:
		d := msg.data.(toggleData)
		if errors.Is(d.err, shared.ErrNotAuthenticated) {
			return m, m.promptLogin()
		}
		if d.err != nil {
			return m, nil
		}
		if d.movieID == m.detailID {
			m.favorite = d.favorite
		}
		if !d.favorite {
			m.favorites = slices.DeleteFunc(m.favorites, func(f tasks.FavoriteView) bool { return f.MovieID == d.movieID })
			m.favoriteList.SetItems(favoriteItems(m.favorites))
		}
		return m, nil

	case MsgWatchlistsFetched:
		m.watchlists = msg.data.([]models.Watchlist)
		m.refreshWatchlists()
		return m, nil

	case MsgWatchlistCreated:
		d := msg.data.(watchlistData)
		if d.err != nil {
			return m, nil
		}
		m.watchlists = tasks.AppendWatchlist(m.watchlists, *d.watchlist)
		m.refreshWatchlists()
		m.view = m.back
		return m, nil

	case MsgWatchlistMovieAdded:
		d := msg.data.(watchlistMovieData)
		if d.err != nil {
			return m, nil
		}
		m.watchlists = tasks.AddMovieLocal(m.watchlists, d.watchlistID, d.movie)
		m.refreshWatchlists()
		if m.view == PickWatchlistView {
			m.view = DetailView
		}
		return m, nil

	case MsgWatchlistMovieRemoved:
		d := msg.data.(watchlistMovieData)
		if d.err != nil {
			return m, nil
		}
		m.watchlists = tasks.RemoveMovieLocal(m.watchlists, d.watchlistID, d.movie.MovieID)
		m.refreshWatchlists()
		return m, nil

	case MsgReviewSubmitted:
		d := msg.data.(reviewData)
		if d.err != nil || d.review == nil {
			return m, nil
		}
		if d.review.MovieID == m.detailID {
			m.reviews = upsertReview(m.reviews, *d.review)
		}
		if m.view == ReviewView {
			m.view = DetailView
		}
		return m, nil

	case MsgProfileFetched:
		summary := msg.data.(tasks.ProfileSummary)
		m.profile = &summary
		return m, nil

	case MsgRecommendationsFetched:
		page := msg.data.(*models.MoviePage)
		m.recommended.SetItems(movieItems(page.Results))
		m.recommended.ResetSelected()
		return m, nil

	case MsgNotice:
		n := msg.data.(tasks.Notice)
		m.toast = &n
		return m, m.waitForNotice()

	case MsgSessionEnded:
		if !m.signedIn || m.session.Authenticated() {
			return m, m.waitForSessionEnd()
		}
		m.signedIn = false
		m.clearUserState()
		m.favorite = false
		m.notify(tasks.Warning, "Session expired, please login")
		switch m.view {
		case BrowseView, DetailView, ProfileView, LoginView:
			return m, m.waitForSessionEnd()
		}
		m.view = BrowseView
		return m, tea.Batch(m.promptLogin(), m.waitForSessionEnd())
	}
	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.view {
	case LoadingView:
		if msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	case LoginView:
		return m.handleLoginKeys(msg)
	case ReviewView:
		return m.handleReviewKeys(msg)
	case NewWatchlistView:
		return m.handleNewWatchlistKeys(msg)
	}
	if m.view == BrowseView && m.searching {
		return m.handleSearchKeys(msg)
	}

	if cmd, ok := m.handleNavigation(msg); ok {
		return m, cmd
	}

	switch m.view {
	case BrowseView:
		return m.handleBrowseKeys(msg)
	case DetailView:
		return m.handleDetailKeys(msg)
	case FavoritesView:
		return m.handleFavoritesKeys(msg)
	case WatchlistsView:
		return m.handleWatchlistsKeys(msg)
	case WatchlistView:
		return m.handleWatchlistKeys(msg)
	case PickWatchlistView:
		return m.handlePickWatchlistKeys(msg)
	case RecommendationsView:
		return m.handleRecommendationsKeys(msg)
	}
	return m, nil
}

// handleNavigation switches between the top-level sections. It reports whether the key was consumed.
func (m *Model) handleNavigation(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "q":
		return tea.Quit, true
	case "1":
		m.view = BrowseView
		return nil, true
	case "2":
		if !m.requireLogin("Please login to view favorites") {
			return m.promptLogin(), true
		}
		m.view = FavoritesView
		return m.fetchFavorites(), true
	case "3":
		if !m.requireLogin("Please login to view watchlists") {
			return m.promptLogin(), true
		}
		m.view = WatchlistsView
		return m.fetchWatchlists(), true
	case "4":
		if !m.requireLogin("Please login to get recommendations") {
			return m.promptLogin(), true
		}
		m.view = RecommendationsView
		return m.fetchRecommendations(), true
	case "5":
		m.view = ProfileView
		m.profile = nil
		return m.fetchProfile(), true
	case "L":
		if m.session.Authenticated() {
			m.signedIn = false
			m.session.Logout()
			m.clearUserState()
			m.notify(tasks.Info, "Logged out")
			if m.view != BrowseView && m.view != DetailView {
				m.view = BrowseView
			}
			if m.view == DetailView {
				m.favorite = false
			}
			return nil, true
		}
		return m.promptLogin(), true
	}
	return nil, false
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		return m, m.switchTab(1)
	case "shift+tab":
		return m, m.switchTab(-1)
	case "n":
		if m.page != nil && m.page.HasNext() {
			m.query.Page = m.page.Page + 1
			return m, m.fetchListing()
		}
		return m, nil
	case "p":
		if m.query.Page > 1 {
			m.query.Page--
			return m, m.fetchListing()
		}
		return m, nil
	case "/":
		m.query.Kind = tasks.Search
		m.searching = true
		m.search.SetValue(m.query.Query)
		return m, m.search.Focus()
	case "enter":
		if item, ok := m.movies.SelectedItem().(movieItem); ok {
			return m, m.openDetail(item.movie.ID, BrowseView)
		}
		return m, nil
	}

	if m.query.Kind == tasks.Discover {
		if m.adjustDiscover(msg.String()) {
			m.query.Page = 1
			return m, m.fetchListing()
		}
	}

	var cmd tea.Cmd
	m.movies, cmd = m.movies.Update(msg)
	return m, cmd
}

// adjustDiscover applies a discover filter key and reports whether the filters changed.
func (m *Model) adjustDiscover(k string) bool {
	d := &m.query.Discover
	switch k {
	case "g":
		d.GenreID = nextGenre(m.genres, d.GenreID)
	case "y":
		switch {
		case d.Year == 0:
			d.Year = m.now().Year()
		case d.Year <= 1900:
			d.Year = 0
		default:
			d.Year--
		}
	case "Y":
		if d.Year == 0 {
			return false
		}
		d.Year = 0
	case "s":
		d.SortBy = nextSort(d.SortBy)
	default:
		return false
	}
	return true
}

func nextGenre(genres []models.Genre, current int) int {
	if len(genres) == 0 {
		return 0
	}
	i := slices.IndexFunc(genres, func(g models.Genre) bool { return g.ID == current })
	if i == len(genres)-1 {
		return 0
	}
	return genres[i+1].ID
}

func nextSort(current string) string {
	if current == "" {
		current = services.DefaultSortBy
	}
	i := slices.Index(services.SortOptions, current)
	return services.SortOptions[(i+1)%len(services.SortOptions)]
}

func (m *Model) switchTab(delta int) tea.Cmd {
	n := len(tasks.ListingKinds)
	i := slices.Index(tasks.ListingKinds, m.query.Kind)
	m.query.Kind = tasks.ListingKinds[(i+delta+n)%n]
	m.query.Page = 1
	if m.query.Kind == tasks.Search && m.query.Query == "" {
		m.searching = true
		m.search.SetValue("")
		return tea.Batch(m.search.Focus(), m.fetchListing())
	}
	return m.fetchListing()
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		m.query.Query = m.search.Value()
		m.query.Page = 1
		return m, m.fetchListing()
	case "tab", "shift+tab":
		m.searching = false
		m.search.Blur()
		return m.handleBrowseKeys(msg)
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) openDetail(id int, from ViewState) tea.Cmd {
	m.back = from
	m.view = DetailView
	return m.fetchDetail(id)
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = m.back
		if m.view == DetailView || m.view == LoginView {
			m.view = BrowseView
		}
		return m, nil
	case "f":
		if m.detail == nil {
			return m, nil
		}
		return m, m.toggleFavorite(m.detail.Ref(), m.favorite)
	case "w":
		if m.detail == nil {
			return m, nil
		}
		if !m.requireLogin("Please login to manage watchlists") {
			return m, m.promptLogin()
		}
		m.view = PickWatchlistView
		return m, m.fetchWatchlists()
	case "r":
		if m.detail == nil {
			return m, nil
		}
		if !m.requireLogin("Please login to write reviews") {
			return m, m.promptLogin()
		}
		rating, text := "", ""
		if existing := m.fetch.ExistingReview(m.reviews); existing != nil {
			rating = strconv.FormatFloat(existing.Rating, 'f', -1, 64)
			text = existing.ReviewText
		}
		m.form = reviewForm(rating, text)
		m.view = ReviewView
		return m, textinput.Blink
	}
	return m, nil
}

func (m *Model) handleFavoritesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	item, ok := m.favoriteList.SelectedItem().(favoriteItem)
	switch msg.String() {
	case "enter":
		if ok {
			return m, m.openDetail(item.favorite.MovieID, FavoritesView)
		}
		return m, nil
	case "x":
		if ok {
			ref := models.MovieRef{MovieID: item.favorite.MovieID, MovieTitle: item.favorite.Title(), MoviePoster: item.favorite.PosterPath()}
			return m, m.toggleFavorite(ref, true)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.favoriteList, cmd = m.favoriteList.Update(msg)
	return m, cmd
}

func (m *Model) handleWatchlistsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if item, ok := m.watchlistList.SelectedItem().(watchlistItem); ok {
			m.watchlistID = item.watchlist.ID
			m.refreshWatchlists()
			m.entryList.ResetSelected()
			m.view = WatchlistView
		}
		return m, nil
	case "c":
		return m, m.openWatchlistForm(WatchlistsView)
	}

	var cmd tea.Cmd
	m.watchlistList, cmd = m.watchlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleWatchlistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	item, ok := m.entryList.SelectedItem().(entryItem)
	switch msg.String() {
	case "esc":
		m.view = WatchlistsView
		return m, nil
	case "enter":
		if ok {
			return m, m.openDetail(item.movie.MovieID, WatchlistView)
		}
		return m, nil
	case "x":
		if ok {
			return m, m.removeFromWatchlist(m.watchlistID, item.movie.MovieID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.entryList, cmd = m.entryList.Update(msg)
	return m, cmd
}

func (m *Model) handlePickWatchlistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = DetailView
		return m, nil
	case "c":
		return m, m.openWatchlistForm(PickWatchlistView)
	case "enter":
		item, ok := m.pickList.SelectedItem().(watchlistItem)
		if !ok || m.detail == nil {
			return m, nil
		}
		if item.watchlist.Contains(m.detail.ID) {
			m.notify(tasks.Warning, "Movie already in watchlist")
			return m, nil
		}
		return m, m.addToWatchlist(item.watchlist.ID, *m.detail)
	}

	var cmd tea.Cmd
	m.pickList, cmd = m.pickList.Update(msg)
	return m, cmd
}

func (m *Model) handleRecommendationsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		if item, ok := m.recommended.SelectedItem().(movieItem); ok {
			return m, m.openDetail(item.movie.ID, RecommendationsView)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.recommended, cmd = m.recommended.Update(msg)
	return m, cmd
}

func (m *Model) openWatchlistForm(from ViewState) tea.Cmd {
	m.back = from
	m.form = watchlistForm()
	m.view = NewWatchlistView
	return textinput.Blink
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = m.back
		return m, nil
	case "tab", "down":
		m.form.move(1)
		return m, nil
	case "shift+tab", "up":
		m.form.move(-1)
		return m, nil
	case "ctrl+r":
		email := m.form.value(0)
		m.register = !m.register
		m.form = loginForm(m.register)
		m.form.inputs[0].SetValue(email)
		return m, nil
	case "enter":
		return m, m.authenticate(m.register, m.form.value(0), m.form.inputs[1].Value(), m.form.value(2))
	}
	return m, m.form.update(msg)
}

func (m *Model) handleReviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = DetailView
		return m, nil
	case "tab", "shift+tab":
		m.form.move(1)
		return m, nil
	case "enter":
		if m.detail == nil {
			return m, nil
		}
		rating, err := strconv.ParseFloat(m.form.value(0), 64)
		if err != nil {
			rating = 0
		}
		return m, m.submitReview(m.detail.ID, rating, m.form.value(1))
	}
	return m, m.form.update(msg)
}

func (m *Model) handleNewWatchlistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = m.back
		return m, nil
	case "tab", "shift+tab":
		m.form.move(1)
		return m, nil
	case "enter":
		return m, m.createWatchlist(m.form.value(0), m.form.value(1))
	}
	return m, m.form.update(msg)
}

// updateActive forwards non-key messages (cursor blinks, list status timers) to the focused component.
func (m *Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case BrowseView:
		if m.searching {
			m.search, cmd = m.search.Update(msg)
		} else {
			m.movies, cmd = m.movies.Update(msg)
		}
	case FavoritesView:
		m.favoriteList, cmd = m.favoriteList.Update(msg)
	case WatchlistsView:
		m.watchlistList, cmd = m.watchlistList.Update(msg)
	case WatchlistView:
		m.entryList, cmd = m.entryList.Update(msg)
	case PickWatchlistView:
		m.pickList, cmd = m.pickList.Update(msg)
	case RecommendationsView:
		m.recommended, cmd = m.recommended.Update(msg)
	case LoginView, ReviewView, NewWatchlistView:
		cmd = m.form.update(msg)
	}
	return m, cmd
}

// requireLogin reports whether a session is active, raising message when it is not.
// Callers follow a false result with [Model.promptLogin].
func (m *Model) requireLogin(message string) bool {
	if m.session.Authenticated() {
		return true
	}
	m.notify(tasks.Warning, "%s", message)
	return false
}

// promptLogin opens the login form, returning to the current view once it closes.
func (m *Model) promptLogin() tea.Cmd {
	if m.view != LoginView {
		m.back = m.view
	}
	m.register = false
	m.form = loginForm(false)
	m.view = LoginView
	return textinput.Blink
}

func (m *Model) notify(level tasks.Level, format string, args ...any) {
	m.toast = &tasks.Notice{Level: level, Message: fmt.Sprintf(format, args...)}
}

func (m *Model) displayName() string {
	u := m.session.Identity()
	switch {
	case u == nil:
		return "guest"
	case u.Name != "":
		return u.Name
	default:
		return u.Email
	}
}

func (m *Model) clearUserState() {
	m.favorites = nil
	m.favoriteList.SetItems(nil)
	m.watchlists = nil
	m.watchlistID = ""
	m.refreshWatchlists()
	m.recommended.SetItems(nil)
	m.profile = nil
}

func (m *Model) refreshWatchlists() {
	items := watchlistItems(m.watchlists)
	m.watchlistList.SetItems(items)
	m.pickList.SetItems(items)

	i := slices.IndexFunc(m.watchlists, func(wl models.Watchlist) bool { return wl.ID == m.watchlistID })
	if i < 0 {
		m.entryList.SetItems(nil)
		return
	}
	m.entryList.Title = m.watchlists[i].Name
	m.entryList.SetItems(entryItems(m.watchlists[i].Movies))
}

// upsertReview replaces the review with the same id or user, or appends it.
func upsertReview(reviews []models.Review, r models.Review) []models.Review {
	i := slices.IndexFunc(reviews, func(x models.Review) bool { return x.ID == r.ID || x.UserID == r.UserID })
	if i < 0 {
		return append(reviews, r)
	}
	out := slices.Clone(reviews)
	out[i] = r
	return out
}
