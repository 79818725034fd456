// Package api exposes drafting, submission, upload and login over HTTP.
package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/thomas-vilte/issuemate/internal/auth"
	"github.com/thomas-vilte/issuemate/internal/i18n"
	"github.com/thomas-vilte/issuemate/internal/models"
	"github.com/thomas-vilte/issuemate/internal/reference"
	"github.com/thomas-vilte/issuemate/internal/vcs"
)

type DraftGenerator interface {
	Generate(ctx context.Context, userText string) (*models.IssueDraft, error)
}

type DraftRefiner interface {
	Refine(ctx context.Context, originalText string, current models.IssueDraft, modification string) (*models.IssueDraft, error)
}

type FileUploader interface {
	Upload(ctx context.Context, filename, contentType string, size int64, r io.Reader) *models.UploadResult
	MaxBytes() int64
}

// SessionManager is the part of auth.Manager the handlers use.
type SessionManager interface {
	BeginAuthorization(flow auth.Flow) (authURL, state string)
	CompleteAuthorization(ctx context.Context, flow auth.Flow, code, returnedState, expectedState string) (*auth.Session, error)
	Verify(token string) (*models.SessionClaims, bool)
	TTL() time.Duration
}

// Options holds the HTTP-facing settings.
type Options struct {
	FrontendURL          string
	AllowedOrigins       []string
	CookieSecure         bool
	RedirectURL          string
	ExtensionRedirectURL string
}

type Deps struct {
	Generator    DraftGenerator
	Refiner      DraftRefiner
	Submitter    vcs.IssueSubmitter
	Uploader     FileUploader
	Sessions     SessionManager
	Reference    *reference.Data
	Translations *i18n.Translations
	Logger       *slog.Logger
}

type Server struct {
	deps Deps
	opts Options
}

func NewServer(deps Deps, opts Options) *Server {
	if deps.Reference == nil {
		deps.Reference = reference.New(nil, nil)
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Server{deps: deps, opts: opts}
}

// Router builds the chi router with every route and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID(s.deps.Logger))
	r.Use(Logger)
	r.Use(Recovery(s.deps.Translations))
	r.Use(CORS(s.opts.AllowedOrigins))
	r.Use(Authenticate(s.deps.Sessions))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	r.Get("/repositories", s.handleRepositories)
	r.Get("/assignees", s.handleAssignees)

	r.Post("/drafts", s.handleCreateDraft)
	r.Post("/refine-draft", s.handleRefineDraft)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/github", s.handleWebLogin)
		r.Get("/callback", s.handleWebCallback)
		r.Get("/extension/start", s.handleExtensionStart)
		r.Post("/extension/complete", s.handleExtensionComplete)
		r.Get("/me", s.handleMe)
		r.Get("/logout", s.handleLogout)
		r.Post("/logout", s.handleLogout)
	})

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(s.deps.Translations))

		r.Post("/issue", s.handleCreateIssue)
		r.Post("/gitissue", s.handleCreateIssue)
		r.Post("/upload-file", s.handleUpload)
	})

	return r
}
