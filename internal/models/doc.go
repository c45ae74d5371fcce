// Package models defines the domain entities shared by the reel client, its fetchers and the backend.
//
// The package contains three categories of types:
//
// 1. Identity: the authenticated account and the auth exchange
//   - [User] : account identity returned by /auth/me, /auth/login and /auth/register
//   - [AuthResponse] : access token plus identity
//   - [Credentials] : login/register request body
//
// 2. Movie metadata: view projections of the third-party metadata provider
//   - [Movie] : summary or full detail record
//   - [MoviePage] : one page of a listing
//   - [Genre], [Company]
//
// 3. User collections: server-owned records, the client only holds the latest snapshot
//   - [UserMovie] : favorite or watchlist entry
//   - [Watchlist] : named, ordered collection of [UserMovie]
//   - [Review] : rating (0–10, one decimal) and optional text
//
// Request bodies implement Validate so both the client and the backend reject the same inputs.
package models
