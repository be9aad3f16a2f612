package auth

import "citrusreach/internal/domain/models"

// TokenVerifier defines the interface for session token verification.
// This abstraction keeps the middleware agnostic to how tokens are verified.
type TokenVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed
	// claims. Returns an error if the token is invalid, expired, or has an
	// invalid signature.
	VerifyToken(tokenString string) (*models.SessionClaims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
