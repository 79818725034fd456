package models

import "time"

// SessionClaims is the identity carried by a verified session token.
type SessionClaims struct {
	Subject   string    `json:"sub"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	HostToken string    `json:"-"`
	Host      string    `json:"host"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserProfile is the subset of the host's GET /user response we rely on.
type UserProfile struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
}
