package auth

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"
)

const maxTokenResponseBytes = 1 << 20

// tokenResponseWatcher wraps the transport used for one code exchange and
// records whether the token endpoint answered successfully but without an
// access token and without an error code. It is not shared between exchanges.
type tokenResponseWatcher struct {
	base               http.RoundTripper
	timeout            time.Duration
	missingAccessToken bool
}

func newTokenResponseWatcher(c *http.Client) *tokenResponseWatcher {
	w := &tokenResponseWatcher{base: http.DefaultTransport}
	if c != nil {
		w.timeout = c.Timeout
		if c.Transport != nil {
			w.base = c.Transport
		}
	}
	return w
}

func (w *tokenResponseWatcher) client() *http.Client {
	return &http.Client{Timeout: w.timeout, Transport: w}
}

func (w *tokenResponseWatcher) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := w.base.RoundTrip(req)
	if err != nil || resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseBytes))
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return resp, nil
	}

	accessToken, errorCode := parseTokenResponse(resp.Header.Get("Content-Type"), body)
	w.missingAccessToken = accessToken == "" && errorCode == ""
	return resp, nil
}

// parseTokenResponse reads the two fields that matter from a JSON or
// form-encoded token response.
func parseTokenResponse(contentType string, body []byte) (accessToken, errorCode string) {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch mediaType {
	case "application/x-www-form-urlencoded", "text/plain":
		vals, err := url.ParseQuery(string(body))
		if err != nil {
			return "", ""
		}
		return vals.Get("access_token"), vals.Get("error")
	default:
		var tj struct {
			AccessToken string `json:"access_token"`
			Error       string `json:"error"`
		}
		if err := json.Unmarshal(body, &tj); err != nil {
			return "", ""
		}
		return tj.AccessToken, tj.Error
	}
}
