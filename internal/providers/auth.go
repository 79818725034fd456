package providers

import (
	"github.com/thomas-vilte/issuemate/internal/auth"
	"github.com/thomas-vilte/issuemate/internal/config"
)

// NewAuthManager builds the session manager from the github and session sections.
func NewAuthManager(cfg *config.Config) (*auth.Manager, error) {
	return auth.NewManager(auth.Config{
		ClientID:     cfg.GitHub.ClientID,
		ClientSecret: cfg.GitHub.ClientSecret,
		Host:         cfg.GitHub.Host,
		Scopes:       cfg.GitHub.Scopes,
		SigningKey:   cfg.Session.SigningKey,
		TTL:          cfg.Session.TTL,
		HTTPClient:   NewHTTPClient(cfg),
	})
}
