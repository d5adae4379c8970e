package domain

import "time"

// User represents a registered account in the system.
// There is no stored credential: the browser client treats a known email
// as sufficient to sign in, so the server only keeps profile data.
type User struct {
	Syncable
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	LastLoginAt time.Time `json:"last_login_at"`
}

// Name returns the best available name to display for the user.
// Prefers DisplayName and falls back to the email address.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
