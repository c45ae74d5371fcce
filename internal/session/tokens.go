package session

import (
	"sync"

	"github.com/desertthunder/reel/internal/shared"
)

// TokenStore persists the credential token between runs.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

var _ TokenStore = (*shared.TokenFile)(nil)

// MemoryTokens is a [TokenStore] that lives only as long as the process.
type MemoryTokens struct {
	mu    sync.Mutex
	token string
}

// NewMemoryTokens returns a store seeded with token.
func NewMemoryTokens(token string) *MemoryTokens {
	return &MemoryTokens{token: token}
}

func (m *MemoryTokens) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryTokens) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryTokens) Clear() error {
	return m.Save("")
}
