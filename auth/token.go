// Package auth handles the bearer tokens the rental platform issues at login:
// decoding their claims for role-based routing and persisting them between
// runs. Tokens are not verified here; the platform verifies signatures on
// every request and the claims only steer client behaviour.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the token claims the client cares about.
type Claims struct {
	// Subject identifies the user the token was issued to.
	Subject string

	// Username is the display name carried by the token, if any.
	Username string

	// Roles lists the roles granted to the user, for example "User" or
	// "Agent".
	Roles []string

	// ExpiresAt is the token expiry. Zero when the token carries none.
	ExpiresAt time.Time
}

// ErrMalformedToken represents a token that could not be decoded.
var ErrMalformedToken = errors.New("malformed token")

// Decode extracts the claims from a bearer token without verifying its
// signature.
func Decode(token string) (*Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedToken, err)
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrMalformedToken
	}

	c := &Claims{}

	if sub, err := mapClaims.GetSubject(); err == nil {
		c.Subject = sub
	}
	if name, ok := mapClaims["name"].(string); ok {
		c.Username = name
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}

	c.Roles = rolesFromClaims(mapClaims)

	return c, nil
}

// rolesFromClaims reads roles from either the "roles" array claim or the
// singular "role" claim, whichever the platform issued.
func rolesFromClaims(mapClaims jwt.MapClaims) []string {
	switch v := mapClaims["roles"].(type) {
	case []any:
		roles := make([]string, 0, len(v))
		for _, r := range v {
			if s, ok := r.(string); ok {
				roles = append(roles, s)
			}
		}
		return roles
	case string:
		return []string{v}
	}

	if role, ok := mapClaims["role"].(string); ok {
		return []string{role}
	}

	return nil
}

// Expired reports whether the token has expired at the given time. A token
// without an expiry claim never expires.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// HasRole reports whether the token grants the given role.
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}
