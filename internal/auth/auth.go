// package auth hashes passwords and issues access tokens for the reel backend.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/reel/internal/shared"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares password against a bcrypt hash.
// Returns [shared.ErrInvalidCredentials] on mismatch.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidCredentials, err)
	}
	return nil
}

// Issuer signs and verifies HMAC access tokens whose subject is the user id.
type Issuer struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an issuer for the HMAC algorithm name (HS256, HS384, HS512).
func NewIssuer(secret, algorithm string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: jwt secret is empty", shared.ErrMissingConfig)
	}
	if algorithm == "" {
		algorithm = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported jwt algorithm %q", shared.ErrInvalidConfig, algorithm)
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{secret: []byte(secret), method: method, ttl: ttl, now: time.Now}, nil
}

// Sign returns a token for userID that expires after the issuer's TTL.
func (i *Issuer) Sign(userID string) (string, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	token, err := jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify checks the signature and expiry of token and returns its subject.
//
// Expired tokens return [shared.ErrTokenExpired]; every other failure returns [shared.ErrAuthFailed].
func (i *Issuer) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", fmt.Errorf("%w: %v", shared.ErrTokenExpired, err)
	case err != nil:
		return "", fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	case claims.Subject == "":
		return "", fmt.Errorf("%w: token has no subject", shared.ErrAuthFailed)
	}
	return claims.Subject, nil
}
