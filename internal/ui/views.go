package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/services"
	"github.com/desertthunder/reel/internal/shared"
	"github.com/desertthunder/reel/internal/tasks"
)

var sections = []struct {
	view  ViewState
	label string
}{
	{BrowseView, "1 Browse"},
	{FavoritesView, "2 Favorites"},
	{WatchlistsView, "3 Watchlists"},
	{RecommendationsView, "4 For You"},
	{ProfileView, "5 Profile"},
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.view == LoadingView {
		return styles.title.Render("reel") + "\n" + m.spinner.View() + " " + styles.help.Render("Restoring session...")
	}

	var body string
	var helpKeys []key.Binding
	switch m.view {
	case BrowseView:
		body, helpKeys = m.renderBrowse()
	case DetailView:
		body, helpKeys = m.renderDetail()
	case FavoritesView:
		body = m.favoriteList.View()
		helpKeys = []key.Binding{m.keys.enter, m.keys.remove, m.keys.login, m.keys.quit}
	case WatchlistsView:
		body = m.watchlistList.View()
		helpKeys = []key.Binding{m.keys.enter, m.keys.create, m.keys.login, m.keys.quit}
	case WatchlistView:
		body = m.entryList.View()
		helpKeys = []key.Binding{m.keys.enter, m.keys.remove, m.keys.back, m.keys.quit}
	case PickWatchlistView:
		body = m.pickList.View()
		helpKeys = []key.Binding{m.keys.submit, m.keys.create, m.keys.back}
	case RecommendationsView:
		body = m.recommended.View()
		helpKeys = []key.Binding{m.keys.enter, m.keys.login, m.keys.quit}
	case ProfileView:
		body = m.renderProfile()
		helpKeys = []key.Binding{m.keys.login, m.keys.quit}
	case LoginView:
		body = m.renderLogin()
		helpKeys = []key.Binding{m.keys.submit, m.keys.nextTab, m.keys.mode, m.keys.back}
	case ReviewView:
		body = m.renderReviewForm()
		helpKeys = []key.Binding{m.keys.submit, m.keys.nextTab, m.keys.back}
	case NewWatchlistView:
		body = styles.title.Render("New watchlist") + "\n" + m.form.view("Name", "Description")
		helpKeys = []key.Binding{m.keys.submit, m.keys.nextTab, m.keys.back}
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s\n%s", m.renderHeader(), body, m.renderToast(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderHeader() string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		if s.view == m.view {
			parts = append(parts, styles.activeTab.Render(s.label))
		} else {
			parts = append(parts, styles.tab.Render(s.label))
		}
	}

	who := styles.help.Render("anonymous")
	if u := m.session.Identity(); u != nil {
		who = styles.ok.Render(u.Email)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, styles.activeTab.Render("reel"), " ", strings.Join(parts, ""), "  ", who)
}

func (m *Model) renderToast() string {
	if m.toast == nil {
		return ""
	}
	return styles.toast(*m.toast)
}

func (m *Model) renderBrowse() (string, []key.Binding) {
	tabs := make([]string, 0, len(tasks.ListingKinds))
	for _, k := range tasks.ListingKinds {
		if k == m.query.Kind {
			tabs = append(tabs, styles.activeTab.Render(k.Title()))
		} else {
			tabs = append(tabs, styles.tab.Render(k.Title()))
		}
	}

	var b strings.Builder
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n")

	helpKeys := []key.Binding{m.keys.enter, m.keys.nextTab, m.keys.nextPage, m.keys.prevPage}
	switch m.query.Kind {
	case tasks.Discover:
		d := m.query.Discover.Normalize()
		year := "Any year"
		if d.Year > 0 {
			year = fmt.Sprint(d.Year)
		}
		b.WriteString(styles.help.Render(fmt.Sprintf("%s · %s · %s", genreName(m.genres, d.GenreID), year, d.SortBy)))
		b.WriteString("\n")
		helpKeys = append(helpKeys, m.keys.genre, m.keys.year, m.keys.sort)
	case tasks.Search:
		if m.searching {
			b.WriteString(m.search.View())
		} else {
			b.WriteString(styles.help.Render("Query: " + m.query.Query))
		}
		b.WriteString("\n")
		helpKeys = append(helpKeys, m.keys.search)
	}
	b.WriteString("\n")

	switch {
	case m.page == nil || (m.loading && m.page.Len() == 0):
		b.WriteString(m.spinner.View() + " " + styles.help.Render("Loading movies..."))
	case m.page.Len() == 0 && m.query.Kind == tasks.Search && m.query.Query == "":
		b.WriteString(styles.help.Render("Type a title and press enter to search"))
	case m.page.Len() == 0:
		b.WriteString(styles.help.Render("No movies found"))
	default:
		b.WriteString(m.movies.View())
		b.WriteString("\n")
		b.WriteString(styles.help.Render(fmt.Sprintf("Page %d of %d · %d results", m.page.Page, max(m.page.TotalPages, 1), m.page.TotalResults)))
	}

	return b.String(), append(helpKeys, m.keys.login, m.keys.quit)
}

func (m *Model) renderDetail() (string, []key.Binding) {
	helpKeys := []key.Binding{m.keys.favorite, m.keys.watchlist, m.keys.review, m.keys.back}
	if m.detail == nil {
		return styles.help.Render("Loading movie..."), helpKeys
	}
	mv := m.detail

	var b strings.Builder
	title := mv.Title
	if y := mv.Year(); y != "" {
		title = fmt.Sprintf("%s (%s)", title, y)
	}
	if m.favorite {
		title += " ♥"
	}
	b.WriteString(styles.title.Render(title))
	b.WriteString("\n")
	if mv.Tagline != "" {
		b.WriteString(styles.help.Render(mv.Tagline))
		b.WriteString("\n")
	}

	facts := joinNonEmpty(" · ",
		fmt.Sprintf("★ %s (%d votes)", shared.FormatRating(mv.VoteAverage), mv.VoteCount),
		shared.FormatRuntime(mv.Runtime),
		mv.GenreNames(),
	)
	b.WriteString(facts)
	b.WriteString("\n\n")

	width := m.width - 4
	if width < 20 {
		width = 76
	}
	b.WriteString(lipgloss.NewStyle().Width(width).Render(mv.Overview))
	b.WriteString("\n")

	if mv.Budget > 0 || mv.Revenue > 0 {
		b.WriteString(fmt.Sprintf("\nBudget: %s · Revenue: %s\n", shared.FormatMoney(mv.Budget), shared.FormatMoney(mv.Revenue)))
	}
	if len(mv.ProductionCompanies) > 0 {
		names := make([]string, len(mv.ProductionCompanies))
		for i, c := range mv.ProductionCompanies {
			names[i] = c.Name
		}
		b.WriteString(styles.help.Render("Produced by " + strings.Join(names, ", ")))
		b.WriteString("\n")
	}
	if u := mv.PosterURL("w500"); u != "" {
		b.WriteString(styles.help.Render(u))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderReviews())
	return b.String(), helpKeys
}

func (m *Model) renderReviews() string {
	if len(m.reviews) == 0 {
		return styles.help.Render("No reviews yet")
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Reviews (%d) · average ★ %s\n", len(m.reviews), shared.FormatRating(models.AverageRating(m.reviews))))
	mine := m.fetch.ExistingReview(m.reviews)
	for i, r := range m.reviews {
		if i == 5 {
			b.WriteString(styles.help.Render(fmt.Sprintf("  and %d more", len(m.reviews)-5)))
			break
		}
		line := fmt.Sprintf("  ★ %s %s", shared.FormatRating(r.Rating), shared.Truncate(r.ReviewText, 70))
		if mine != nil && mine.ID == r.ID {
			line = styles.ok.Render(line + " (you)")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderProfile() string {
	if !m.session.Authenticated() {
		return styles.warn.Render("Not logged in. Press L to login or register.")
	}
	if m.profile == nil {
		return styles.help.Render("Loading profile...")
	}

	p := m.profile
	var b strings.Builder
	if p.User != nil {
		b.WriteString(styles.title.Render(p.User.Name))
		b.WriteString("\n")
		b.WriteString(p.User.Email)
		b.WriteString("\n")
		b.WriteString(styles.help.Render("Member since " + p.User.CreatedAt.Format("January 2006")))
		b.WriteString("\n\n")
	}
	for _, src := range []tasks.SourceResult{p.Favorites, p.Watchlists, p.Reviews} {
		if src.OK() {
			b.WriteString(fmt.Sprintf("%-12s %d\n", src.Source, src.Count))
		} else {
			b.WriteString(fmt.Sprintf("%-12s %s\n", src.Source, styles.err.Render(services.Detail(src.Err))))
		}
	}
	if p.Reviews.OK() && p.Reviews.Count > 0 {
		b.WriteString(fmt.Sprintf("%-12s ★ %s\n", "avg rating", shared.FormatRating(p.AverageRating)))
	}
	return b.String()
}

func (m *Model) renderLogin() string {
	if m.register {
		return styles.title.Render("Create account") + "\n" + m.form.view("Email", "Password", "Name")
	}
	return styles.title.Render("Login") + "\n" + m.form.view("Email", "Password")
}

func (m *Model) renderReviewForm() string {
	title := "Review"
	if m.detail != nil {
		title = "Review " + m.detail.Title
	}
	return styles.title.Render(title) + "\n" + m.form.view("Rating (0-10]", "Review")
}
