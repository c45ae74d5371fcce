package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up         key.Binding
	down       key.Binding
	enter      key.Binding
	back       key.Binding
	nextTab    key.Binding
	prevTab    key.Binding
	nextPage   key.Binding
	prevPage   key.Binding
	search     key.Binding
	genre      key.Binding
	year       key.Binding
	clearYear  key.Binding
	sort       key.Binding
	favorite   key.Binding
	watchlist  key.Binding
	review     key.Binding
	create     key.Binding
	remove     key.Binding
	browse     key.Binding
	favorites  key.Binding
	watchlists key.Binding
	forYou     key.Binding
	profile    key.Binding
	login      key.Binding
	mode       key.Binding
	submit     key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		nextTab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		prevTab:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		nextPage:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next page")),
		prevPage:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev page")),
		search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		genre:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "genre")),
		year:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "year")),
		clearYear:  key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "any year")),
		sort:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		favorite:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		watchlist:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "add to watchlist")),
		review:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "review")),
		create:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "new watchlist")),
		remove:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
		browse:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "browse")),
		favorites:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "favorites")),
		watchlists: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "watchlists")),
		forYou:     key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "for you")),
		profile:    key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "profile")),
		login:      key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "login/logout")),
		mode:       key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "login/register")),
		submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.nextTab, k.prevTab, k.nextPage, k.prevPage},
		{k.search, k.genre, k.year, k.sort},
		{k.favorite, k.watchlist, k.review, k.remove},
		{k.browse, k.favorites, k.watchlists, k.forYou, k.profile},
		{k.login, k.quit},
	}
}
