package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are the JWT claims issued by the hosted identity provider.
// Subject carries the owner id used for all authorization checks.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email     string `json:"email,omitempty"`
	SessionID string `json:"sid,omitempty"`
}
