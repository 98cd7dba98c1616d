package auth

import "time"

// DefaultTokenType is used when the API omits token_type.
const DefaultTokenType = "Bearer"

// CredentialPair is an opaque access/refresh token pair issued by the login
// or impersonation endpoints.
type CredentialPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitzero"`
}

// IsZero reports whether the pair carries no access token.
func (c CredentialPair) IsZero() bool { return c.AccessToken == "" }

// Type returns the token type, defaulting to Bearer.
func (c CredentialPair) Type() string {
	if c.TokenType == "" {
		return DefaultTokenType
	}
	return c.TokenType
}

// Expired reports whether the access token is known to be expired at now.
// Pairs without a known expiry never report expired; the API stays the judge.
func (c CredentialPair) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}
