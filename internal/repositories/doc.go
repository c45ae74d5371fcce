// Package repositories implements SQLite persistence for the reel backend.
//
// Every method takes a context and scopes user-owned rows by user id. Queries never run while
// another result set is open, so the package works on a single-connection pool (":memory:").
//
// Key Implementations:
//   - [UserRepository] : accounts with bcrypt hashes and email lookups, soft deleted
//   - [FavoriteRepository] : one favorite per (user, movie)
//   - [WatchlistRepository] : named watchlists with ordered movie entries
//   - [ReviewRepository] : one review per (user, movie), upserted
//
// Duplicate inserts return errors wrapping [shared.ErrAlreadyExists]; missing rows wrap
// [shared.ErrNotFound] or a more specific sentinel. Lists are capped at [ListLimit] rows.
//
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
