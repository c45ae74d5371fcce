// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is organized in sections reachable from any screen with the number keys:
//  1. [BrowseView] : Popular, Top Rated, Discover and Search tabs with paging
//  2. [FavoritesView] : the user's favorites, enriched with detail where it loads
//  3. [WatchlistsView] : named watchlists and their movies
//  4. [RecommendationsView] : suggestions derived from favorite genres
//  5. [ProfileView] : identity plus favorite, watchlist and review counts
//
// [DetailView] opens from any movie list and offers favorite, watchlist and review actions.
// Listing responses carry the generation they were requested under; a response from an older
// generation is dropped, so fast tab or page switching never shows stale results.
//
// Protected actions taken while anonymous open the login form, returning to the same screen
// afterwards. When the session ends underneath the model, after a rejected token, user data is
// cleared from every view.
//
// Fetch failures surface as notices delivered on a channel and rendered as a toast line.
package ui
