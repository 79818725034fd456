package github

import (
	"fmt"
	"net/url"
	"strings"

	domainErrors "github.com/thomas-vilte/issuemate/internal/errors"
	"github.com/thomas-vilte/issuemate/internal/regex"
)

const (
	PublicHost      = "github.com"
	publicAPIBase   = "https://api.github.com/"
	enterpriseAPIv3 = "api/v3/"
)

// RepoTarget identifies a repository on a specific host.
type RepoTarget struct {
	Host  string
	Owner string
	Name  string
}

func (t RepoTarget) String() string {
	return fmt.Sprintf("%s/%s/%s", t.Host, t.Owner, t.Name)
}

// IsPublicHost reports whether host is the public github.com service.
func IsPublicHost(host string) bool {
	h := strings.ToLower(strings.TrimSpace(host))
	return h == "" || h == PublicHost || h == "www."+PublicHost
}

// ParseRepoReference splits a repository URL into host, owner and name.
// Anything with fewer than two path segments is rejected before any network
// call is made.
func ParseRepoReference(ref string) (RepoTarget, error) {
	raw := strings.TrimSpace(ref)
	if raw == "" {
		return RepoTarget{}, domainErrors.ErrMalformedReference.WithContext("repo_url", ref)
	}
	if m := regex.SSHRepo.FindStringSubmatch(raw); m != nil {
		host := strings.ToLower(m[1])
		if IsPublicHost(host) {
			host = PublicHost
		}
		return RepoTarget{Host: host, Owner: m[2], Name: m[3]}, nil
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return RepoTarget{}, domainErrors.ErrMalformedReference.
			WithError(err).
			WithContext("repo_url", ref)
	}

	var segments []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) < 2 {
		return RepoTarget{}, domainErrors.ErrMalformedReference.WithContext("repo_url", ref)
	}

	host := strings.ToLower(u.Host)
	if IsPublicHost(host) {
		host = PublicHost
	}

	return RepoTarget{
		Host:  host,
		Owner: segments[0],
		Name:  strings.TrimSuffix(segments[1], ".git"),
	}, nil
}

// APIBaseURL returns the REST base URL for host, with a trailing slash.
func APIBaseURL(host string) string {
	if IsPublicHost(host) {
		return publicAPIBase
	}
	return "https://" + strings.TrimSuffix(host, "/") + "/" + enterpriseAPIv3
}

// IssuesEndpoint is the issue creation URL for target.
func IssuesEndpoint(target RepoTarget) string {
	return fmt.Sprintf("%srepos/%s/%s/issues", APIBaseURL(target.Host), target.Owner, target.Name)
}
