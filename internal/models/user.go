// package models defines the data model for the reel client and backend
package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/desertthunder/reel/internal/shared"
)

// User is the authenticated identity.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	ProfileImage *string   `json:"profile_image"`
}

// AuthResponse is returned by /auth/login and /auth/register.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// Credentials is the body for login (Name empty) and register.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// Validate checks the email address and password presence.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return fmt.Errorf("%w: email is required", shared.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return fmt.Errorf("%w: invalid email address %q", shared.ErrInvalidInput, c.Email)
	}
	if c.Password == "" {
		return fmt.Errorf("%w: password is required", shared.ErrInvalidInput)
	}
	return nil
}

// ValidateRegistration additionally requires a display name.
func (c Credentials) ValidateRegistration() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", shared.ErrInvalidInput)
	}
	return nil
}

// Message is the generic {"message": ...} acknowledgement body.
type Message struct {
	Message string `json:"message"`
}

// ErrorBody is the {"detail": ...} error body used by the backend.
type ErrorBody struct {
	Detail string `json:"detail"`
}
