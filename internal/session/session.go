// package session holds the authenticated identity of the reel client.
//
// A [Store] owns the credential token and the identity it belongs to. Views never read or
// attach the token themselves: they ask the store for a [services.Client] bound to the current
// token. When any call through such a client is rejected with 401, the store clears itself,
// but only if the rejected token is still the current one.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/services"
)

// Result is the outcome of a login or registration. Message carries the server's reason on failure.
type Result struct {
	OK      bool
	Message string
}

// Store is the process-wide session. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	base     *services.Client
	tokens   TokenStore
	logger   *log.Logger
	token    string
	identity *models.User
	onChange func(identity *models.User)
}

// New creates an anonymous session. Call [Store.Restore] to resume a persisted one.
func New(base *services.Client, tokens TokenStore, logger *log.Logger) *Store {
	if tokens == nil {
		tokens = NewMemoryTokens("")
	}
	return &Store{base: base, tokens: tokens, logger: logger}
}

// OnChange registers fn to run after the identity changes (login, logout, expiry).
// fn receives the new identity, nil when anonymous.
func (s *Store) OnChange(fn func(identity *models.User)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Login authenticates with email and password and persists the returned token.
func (s *Store) Login(ctx context.Context, email, password string) Result {
	creds := models.Credentials{Email: email, Password: password}
	if err := creds.Validate(); err != nil {
		return Result{Message: err.Error()}
	}

	auth, err := s.base.Login(ctx, email, password)
	if err != nil {
		s.logger.Warn("login failed", "email", email, "error", err)
		return Result{Message: failureMessage(err, "Login failed")}
	}

	s.establish(auth)
	return Result{OK: true}
}

// Register creates an account and signs in with it.
func (s *Store) Register(ctx context.Context, email, password, name string) Result {
	creds := models.Credentials{Email: email, Password: password, Name: name}
	if err := creds.ValidateRegistration(); err != nil {
		return Result{Message: err.Error()}
	}

	auth, err := s.base.Register(ctx, creds)
	if err != nil {
		s.logger.Warn("registration failed", "email", email, "error", err)
		return Result{Message: failureMessage(err, "Registration failed")}
	}

	s.establish(auth)
	return Result{OK: true}
}

func failureMessage(err error, fallback string) string {
	var apiErr *services.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

func (s *Store) establish(auth *models.AuthResponse) {
	user := auth.User

	s.mu.Lock()
	s.token = auth.AccessToken
	s.identity = &user
	fn := s.onChange
	s.mu.Unlock()

	if err := s.tokens.Save(auth.AccessToken); err != nil {
		s.logger.Error("failed to persist token", "error", err)
	}
	s.logger.Info("signed in", "user", user.Email)

	if fn != nil {
		fn(&user)
	}
}

// Logout clears the token and identity. It makes no network call.
func (s *Store) Logout() {
	s.clear("logout")
}

// Restore resumes a persisted session by verifying its token with /auth/me.
//
// A token that fails verification is discarded from memory and storage and the session stays anonymous.
// Returns whether the session is authenticated afterwards.
func (s *Store) Restore(ctx context.Context) bool {
	token, err := s.tokens.Load()
	if err != nil {
		s.logger.Error("failed to load token", "error", err)
		return false
	}
	if token == "" {
		return false
	}

	user, err := s.base.WithToken(token).Me(ctx)
	if err != nil {
		s.logger.Warn("stored session rejected", "error", err)
		if err := s.tokens.Clear(); err != nil {
			s.logger.Error("failed to clear token", "error", err)
		}
		return false
	}

	s.mu.Lock()
	s.token = token
	s.identity = user
	fn := s.onChange
	s.mu.Unlock()

	s.logger.Debug("session restored", "user", user.Email)
	if fn != nil {
		fn(user)
	}
	return true
}

// Client returns a backend client bound to the current token (anonymous when logged out).
// The returned value is unaffected by later logins or logouts.
func (s *Store) Client() *services.Client {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" {
		return s.base
	}
	return s.base.WithToken(token).OnUnauthorized(s.expire)
}

// Identity returns a copy of the current identity, or nil when anonymous.
func (s *Store) Identity() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	user := *s.identity
	return &user
}

// Token returns the current credential token.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a session is active.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// expire ends the session after the backend rejected token.
// A rejection of a token that has since been replaced is ignored.
func (s *Store) expire(token string) {
	s.clearIf(func(current string) bool { return token != "" && token == current }, "token rejected")
}

func (s *Store) clear(reason string) {
	s.clearIf(nil, reason)
}

// clearIf drops the session when match is nil or reports true for the current token.
func (s *Store) clearIf(match func(current string) bool, reason string) {
	s.mu.Lock()
	if match != nil && !match(s.token) {
		s.mu.Unlock()
		return
	}
	had := s.token != ""
	s.token = ""
	s.identity = nil
	fn := s.onChange
	s.mu.Unlock()

	if err := s.tokens.Clear(); err != nil {
		s.logger.Error("failed to clear token", "error", err)
	}
	if had {
		s.logger.Info("session ended", "reason", reason)
		if fn != nil {
			fn(nil)
		}
	}
}
