package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/thomas-vilte/issuemate/internal/auth"
	domainErrors "github.com/thomas-vilte/issuemate/internal/errors"
	"github.com/thomas-vilte/issuemate/internal/models"
)

const (
	stateCookieName = "oauth_state"
	stateCookieTTL  = 10 * time.Minute
)

type extensionCompleteRequest struct {
	Code          string `json:"code"`
	State         string `json:"state"`
	ExpectedState string `json:"expected_state"`
	RedirectURI   string `json:"redirect_uri"`
}

type meResponse struct {
	ID        int64     `json:"id"`
	Login     string    `json:"login"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Host      string    `json:"host"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Server) sessionsOrFail(w http.ResponseWriter, r *http.Request) bool {
	if s.deps.Sessions == nil {
		writeError(w, r, s.deps.Translations,
			domainErrors.ErrConfigMissing.WithContext("field", "github.client_id"))
		return false
	}
	return true
}

func (s *Server) setCookie(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// handleWebLogin handles GET /auth/github
func (s *Server) handleWebLogin(w http.ResponseWriter, r *http.Request) {
	if !s.sessionsOrFail(w, r) {
		return
	}

	authURL, state := s.deps.Sessions.BeginAuthorization(auth.Flow{
		RedirectURL: s.opts.RedirectURL,
		Channel:     auth.ChannelCookie,
	})
	s.setCookie(w, stateCookieName, state, stateCookieTTL)

	writeJSON(w, http.StatusOK, map[string]string{"authorization_url": authURL})
}

// handleWebCallback handles GET /auth/callback
func (s *Server) handleWebCallback(w http.ResponseWriter, r *http.Request) {
	if !s.sessionsOrFail(w, r) {
		return
	}

	expected := ""
	if c, err := r.Cookie(stateCookieName); err == nil {
		expected = c.Value
	}
	s.clearCookie(w, stateCookieName)

	q := r.URL.Query()
	if hostErr := q.Get("error"); hostErr != "" {
		writeError(w, r, s.deps.Translations,
			domainErrors.ErrTokenExchange.WithContext("host_error", hostErr))
		return
	}

	session, err := s.deps.Sessions.CompleteAuthorization(r.Context(), auth.Flow{
		RedirectURL: s.opts.RedirectURL,
		Channel:     auth.ChannelCookie,
	}, q.Get("code"), q.Get("state"), expected)
	if err != nil {
		writeError(w, r, s.deps.Translations, err)
		return
	}

	s.setCookie(w, sessionCookieName, session.Token, s.deps.Sessions.TTL())
	http.Redirect(w, r, s.opts.FrontendURL, http.StatusFound)
}

// handleExtensionStart handles GET /auth/extension/start
func (s *Server) handleExtensionStart(w http.ResponseWriter, r *http.Request) {
	if !s.sessionsOrFail(w, r) {
		return
	}

	redirect := s.extensionRedirect(r.URL.Query().Get("redirect_uri"))
	if err := requireField("redirect_uri", redirect); err != nil {
		writeError(w, r, s.deps.Translations, err)
		return
	}

	authURL, state := s.deps.Sessions.BeginAuthorization(auth.Flow{
		RedirectURL: redirect,
		Channel:     auth.ChannelPayload,
	})

	writeJSON(w, http.StatusOK, map[string]string{
		"authorization_url": authURL,
		"state":             state,
	})
}

// handleExtensionComplete handles POST /auth/extension/complete
func (s *Server) handleExtensionComplete(w http.ResponseWriter, r *http.Request) {
	if !s.sessionsOrFail(w, r) {
		return
	}

	var req extensionCompleteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, s.deps.Translations, err)
		return
	}
	if err := requireField("code", req.Code); err != nil {
		writeError(w, r, s.deps.Translations, err)
		return
	}

	session, err := s.deps.Sessions.CompleteAuthorization(r.Context(), auth.Flow{
		RedirectURL: s.extensionRedirect(req.RedirectURI),
		Channel:     auth.ChannelPayload,
	}, req.Code, req.State, req.ExpectedState)
	if err != nil {
		writeError(w, r, s.deps.Translations, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Token string             `json:"token"`
		User  models.UserProfile `json:"user"`
	}{session.Token, session.Profile})
}

func (s *Server) extensionRedirect(requested string) string {
	if requested != "" {
		return requested
	}
	return s.opts.ExtensionRedirectURL
}

// handleMe handles GET /auth/me
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFrom(r.Context())
	if claims == nil {
		writeError(w, r, s.deps.Translations, domainErrors.ErrUnauthenticated)
		return
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		writeError(w, r, s.deps.Translations,
			domainErrors.ErrUnauthenticated.WithError(errors.New("session subject is not numeric")))
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		ID:        id,
		Login:     claims.Username,
		AvatarURL: claims.AvatarURL,
		Host:      claims.Host,
		ExpiresAt: claims.ExpiresAt,
	})
}

// handleLogout handles GET and POST /auth/logout
func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.clearCookie(w, sessionCookieName)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
