// Package server implements the reel backend REST API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] with "METHOD /path" patterns, so path
// parameters come from [http.Request.PathValue] and wrong methods are answered with 405.
//
// # API
//
// Every route lives under /api and speaks JSON. Errors are {"detail": "..."} bodies. Routes that
// need a user go through the bearer-token middleware, which verifies the JWT issued at login or
// registration and loads the user from the database.
//
// Users, favorites, watchlists and reviews are stored through [repositories.Store]. Movie listings,
// details and genres are proxied to a [services.MovieProvider] (TMDB in production).
//
// # Recommendations
//
// [Recommend] suggests movies from a user's favorites: popular movies without favorites,
// otherwise the best rated movies of the most frequent favorite genre, falling back to top rated.
package server
