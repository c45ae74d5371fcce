// Package services defines the [MovieProvider] interface for movie metadata sources and the
// HTTP clients that talk to the reel backend.
//
// # Backend Client
//
// [Client] wraps every /api endpoint. A Client is bound to one credential token;
// [Client.WithToken] returns a copy so callers pass authentication explicitly instead of
// mutating a shared default header. [Client.OnUnauthorized] registers a hook that runs with
// the rejected token when an authenticated call returns 401, which the session store uses
// to expire itself.
//
// # TMDB Implementation
//
// [TMDBService] reads listings, details and genres from TMDB v3. The read access token is
// attached by an [oauth2.StaticTokenSource] client. The backend server uses it to proxy
// /movies and /genres.
//
// # Raw Access
//
// [APIService] issues arbitrary requests and returns status, headers and body untouched.
// It backs `reel api`.
//
// # Error Handling
//
// Non-2xx backend responses become [*APIError], which unwraps to a shared sentinel:
//   - [shared.ErrNotAuthenticated] : 401/403
//   - [shared.ErrNotFound] : 404
//   - [shared.ErrInvalidInput] : 400/422
//   - [shared.ErrAlreadyExists] : 409
//   - [shared.ErrServiceUnavailable] : 5xx
//
// [Detail] extracts the backend's human readable message for display.
package services
