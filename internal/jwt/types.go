package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Scope limits what a host token may do on the control API.
type Scope string

const (
	// ScopeControl may mount, unmount and dispatch into the engine.
	ScopeControl Scope = "control"
	// ScopeObserve may only read rooms, settings and the event stream.
	ScopeObserve Scope = "observe"
)

func (s Scope) Valid() bool {
	return s == ScopeControl || s == ScopeObserve
}

// Allows reports whether a token of scope s satisfies required.
func (s Scope) Allows(required Scope) bool {
	if s == ScopeControl {
		return true
	}
	return s == required
}

// Auth handles JWT authentication
type Auth interface {
	Sign(hostID string, scope Scope, ttl time.Duration) (string, error)
	Verify(tokenString string) (*Payload, error)
}

// Payload represents the JWT token payload
type Payload struct {
	HostID string `json:"hostId"`
	Scope  Scope  `json:"scope"`
	jwt.RegisteredClaims
}
