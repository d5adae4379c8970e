package auth

import (
	"time"
)

// AccessClaims represents the claims stored in a PASETO access token.
// These are encrypted in v4.local tokens, so they're not readable without the key.
type AccessClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// ClientInfo represents information sent by the client about itself.
// This gets stored in Session and is used for display and security.
type ClientInfo struct {
	ClientName    string `json:"client_name"`    // WishKeeper Web
	ClientVersion string `json:"client_version"` // 1.0.0
}

// IsValid performs basic validation on the client info.
func (c ClientInfo) IsValid() bool {
	return c.ClientName != ""
}
