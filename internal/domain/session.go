package domain

import "time"

// Session represents an active user session with a refresh token.
// Each browser or device gets its own session, so a user can see
// what is connected and revoke sessions independently.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"refresh_token_hash,omitempty"` // Stored hashed, filter from API responses
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	LastSeenAt       time.Time `json:"last_seen_at"`
	IPAddress        string    `json:"ip_address,omitempty"`

	// Client information - best effort from the User-Agent header
	ClientName    string `json:"client_name,omitempty"`    // WishKeeper Web
	ClientVersion string `json:"client_version,omitempty"` // 1.0.0
}

// Touch updates the session's last seen timestamp.
func (s *Session) Touch() {
	s.LastSeenAt = time.Now()
}

// IsExpired checks if the session has passed its expiration time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// DisplayName returns a human-readable description of the client.
func (s *Session) DisplayName() string {
	if s.ClientName == "" {
		return "Unknown Client"
	}
	if s.ClientVersion != "" {
		return s.ClientName + " " + s.ClientVersion
	}
	return s.ClientName
}
