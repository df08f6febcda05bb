package identity

import (
	"errors"
	"strings"
)

// DefaultUser is the acting identity when none is configured.
const DefaultUser = "syed-asad-ul-zaman"

const (
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

var (
	ErrNoIdentity        = errors.New("no acting identity")
	ErrInvalidAuthFormat = errors.New("invalid authorization format")
)

// Resolver decides who is acting. Without a bearer token the fixed user acts;
// with one, the token subject does.
type Resolver struct {
	user   string
	tokens *Manager
}

// NewResolver creates a resolver. tokens may be nil to ignore Authorization headers.
func NewResolver(user string, tokens *Manager) *Resolver {
	return &Resolver{user: user, tokens: tokens}
}

// Fixed returns the configured identity.
func (r *Resolver) Fixed() string {
	return r.user
}

// Resolve returns the acting identity for an Authorization header value.
func (r *Resolver) Resolve(authHeader string) (string, error) {
	if authHeader == "" || r.tokens == nil {
		if r.user == "" {
			return "", ErrNoIdentity
		}
		return r.user, nil
	}

	if !strings.HasPrefix(authHeader, BearerPrefix) {
		return "", ErrInvalidAuthFormat
	}

	claims, err := r.tokens.Validate(strings.TrimPrefix(authHeader, BearerPrefix))
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
