package policies

import (
	"context"
	"errors"
	"strings"
)

// ErrSessionNotFound is returned by token resolvers for unknown tokens.
var ErrSessionNotFound = errors.New("policies: session not found")

// Principal identifies the authenticated caller.
type Principal struct {
	ID    string
	Email string
	Name  string
	Roles []string
}

func (p Principal) HasRole(role string) bool {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return false
	}
	for _, r := range p.Roles {
		if strings.ToLower(r) == role {
			return true
		}
	}
	return false
}

// TokenResolver maps a bearer token to the principal it represents. Token
// issuance happens outside this service.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (Principal, error)
}
