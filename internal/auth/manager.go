// Package auth runs the OAuth authorization-code exchange against the code
// host and issues signed, stateless session tokens.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/thomas-vilte/issuemate/internal/config"
	domainErrors "github.com/thomas-vilte/issuemate/internal/errors"
	"github.com/thomas-vilte/issuemate/internal/logger"
	"github.com/thomas-vilte/issuemate/internal/models"
	ghvcs "github.com/thomas-vilte/issuemate/internal/vcs/github"
	"golang.org/x/oauth2"
)

// Channel selects how the session token reaches the client.
type Channel int

const (
	// ChannelCookie sets an HTTP-only cookie and redirects (web frontend).
	ChannelCookie Channel = iota
	// ChannelPayload returns the token in the response body (browser extension).
	ChannelPayload
)

func (c Channel) String() string {
	switch c {
	case ChannelPayload:
		return "payload"
	default:
		return "cookie"
	}
}

// Flow parameterizes one authorization: where the host sends the user back
// and how the resulting session is delivered.
type Flow struct {
	RedirectURL string
	Channel     Channel
}

type Config struct {
	ClientID     string
	ClientSecret string
	Host         string
	Scopes       []string
	SigningKey   string
	TTL          time.Duration
	// HTTPClient is used for the token exchange and the profile lookup.
	HTTPClient *http.Client
}

// Session is the outcome of a completed authorization.
type Session struct {
	Token   string
	Claims  models.SessionClaims
	Profile models.UserProfile
	Channel Channel
}

type Manager struct {
	cfg        Config
	endpoint   oauth2.Endpoint
	httpClient *http.Client
	now        func() time.Time
	newState   func() string
}

// HostEndpoint maps a host to its OAuth endpoints.
func HostEndpoint(host string) oauth2.Endpoint {
	base := "https://github.com/login/oauth"
	if !ghvcs.IsPublicHost(host) {
		base = "https://" + strings.TrimSuffix(host, "/") + "/login/oauth"
	}
	return oauth2.Endpoint{
		AuthURL:   base + "/authorize",
		TokenURL:  base + "/access_token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
}

func NewManager(cfg Config) (*Manager, error) {
	if config.IsSigningKeyPlaceholder(cfg.SigningKey) {
		return nil, domainErrors.ErrSigningKeyMissing
	}
	if cfg.TTL <= 0 {
		return nil, domainErrors.ErrConfigMissing.WithContext("field", "session.ttl")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Manager{
		cfg:        cfg,
		endpoint:   HostEndpoint(cfg.Host),
		httpClient: httpClient,
		now:        time.Now,
		newState:   uuid.NewString,
	}, nil
}

// Host returns the configured code host.
func (m *Manager) Host() string {
	if ghvcs.IsPublicHost(m.cfg.Host) {
		return ghvcs.PublicHost
	}
	return m.cfg.Host
}

func (m *Manager) oauthConfig(flow Flow) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     m.cfg.ClientID,
		ClientSecret: m.cfg.ClientSecret,
		Endpoint:     m.endpoint,
		RedirectURL:  flow.RedirectURL,
		Scopes:       m.cfg.Scopes,
	}
}

// BeginAuthorization returns the host authorization URL and the random state
// the caller must keep to complete the flow.
func (m *Manager) BeginAuthorization(flow Flow) (authURL, state string) {
	state = m.newState()
	return m.oauthConfig(flow).AuthCodeURL(state), state
}

// CompleteAuthorization exchanges code for a host token, fetches the profile
// and mints a session token. A state mismatch fails before any network call.
func (m *Manager) CompleteAuthorization(ctx context.Context, flow Flow, code, returnedState, expectedState string) (*Session, error) {
	log := logger.FromContext(ctx).With("channel", flow.Channel.String())

	if expectedState == "" || returnedState != expectedState {
		log.Warn("oauth state mismatch")
		return nil, domainErrors.ErrStateMismatch
	}

	watcher := newTokenResponseWatcher(m.httpClient)
	exchangeCtx := context.WithValue(ctx, oauth2.HTTPClient, watcher.client())
	token, err := m.oauthConfig(flow).Exchange(exchangeCtx, code)
	if err != nil {
		if watcher.missingAccessToken {
			log.Warn("token endpoint answered without an access token")
			return nil, domainErrors.ErrMissingAccessToken.WithError(err)
		}
		appErr := domainErrors.ErrTokenExchange.WithError(err)
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.ErrorCode != "" {
			appErr = appErr.WithContext("host_error", retrieveErr.ErrorCode)
		}
		log.Error("oauth code exchange failed", "error", err)
		return nil, appErr
	}
	if token.AccessToken == "" {
		return nil, domainErrors.ErrMissingAccessToken
	}

	client, err := ghvcs.NewClient(m.httpClient, m.cfg.Host, token.AccessToken)
	if err != nil {
		return nil, domainErrors.ErrProfileFetch.WithError(err)
	}
	profile, err := ghvcs.FetchProfile(ctx, client.Users)
	if err != nil {
		log.Error("profile fetch failed", "error", err)
		return nil, err
	}

	signed, claims, err := m.issue(profile, token.AccessToken)
	if err != nil {
		return nil, domainErrors.NewAppError(domainErrors.TypeInternal, "error signing session token", err)
	}

	log.Info("session established", "username", profile.Login)

	return &Session{
		Token:   signed,
		Claims:  *claims,
		Profile: *profile,
		Channel: flow.Channel,
	}, nil
}
