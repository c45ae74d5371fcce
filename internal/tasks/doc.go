// Package tasks loads and mutates the data behind each reel view.
//
// # Fetchers
//
// [Fetchers] wraps the session's authenticated client with one routine per view:
// listings, movie detail, genres, favorites, watchlists, reviews, recommendations and the
// profile aggregate. Reads never fail outward: an error is logged, reported as a [Notice]
// and replaced by an empty value. Mutations return errors so callers leave local state alone.
//
// # Notices and progress
//
// Notices and [ProgressUpdate] values are sent on caller-owned channels with select/default,
// so a slow or absent reader never blocks a fetch.
//
// # Stale responses
//
// Views tag each listing fetch with an id from [Generation] and drop responses whose id is
// no longer current.
//
// # Exports
//
// [Fetchers.Export] writes favorites and watchlists as JSON, CSV, Markdown or text using a
// worker pool. Detail lookups are rate limited and a manifest summarizes the run.
package tasks
