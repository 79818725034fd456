package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/thomas-vilte/issuemate/internal/models"
)

// sessionClaims is the JWT body. The host token travels signed, not encrypted.
type sessionClaims struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
	HostToken string `json:"host_token"`
	Host      string `json:"host"`
	jwt.RegisteredClaims
}

func (m *Manager) issue(profile *models.UserProfile, hostToken string) (string, *models.SessionClaims, error) {
	now := m.now()
	expires := now.Add(m.cfg.TTL)

	claims := sessionClaims{
		Username:  profile.Login,
		AvatarURL: profile.AvatarURL,
		HostToken: hostToken,
		Host:      m.Host(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", profile.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.cfg.SigningKey))
	if err != nil {
		return "", nil, err
	}

	return signed, &models.SessionClaims{
		Subject:   claims.Subject,
		Username:  claims.Username,
		AvatarURL: claims.AvatarURL,
		HostToken: hostToken,
		Host:      claims.Host,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// IssueToken mints a session token for an already known profile.
func (m *Manager) IssueToken(profile models.UserProfile, hostToken string) (string, error) {
	if profile.Login == "" {
		return "", errors.New("profile has no login")
	}
	signed, _, err := m.issue(&profile, hostToken)
	return signed, err
}

// Verify checks signature, algorithm and expiry. Any failure is reported as
// (nil, false).
func (m *Manager) Verify(token string) (*models.SessionClaims, bool) {
	if token == "" {
		return nil, false
	}

	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (interface{}, error) {
			return []byte(m.cfg.SigningKey), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return nil, false
	}
	if claims.Username == "" || claims.HostToken == "" {
		return nil, false
	}

	return &models.SessionClaims{
		Subject:   claims.Subject,
		Username:  claims.Username,
		AvatarURL: claims.AvatarURL,
		HostToken: claims.HostToken,
		Host:      claims.Host,
		ExpiresAt: claims.ExpiresAt.Time,
	}, true
}

// TTL is the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.cfg.TTL
}
