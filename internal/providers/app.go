package providers

import (
	"context"

	"github.com/thomas-vilte/issuemate/internal/api"
	"github.com/thomas-vilte/issuemate/internal/config"
	"github.com/thomas-vilte/issuemate/internal/drafts"
	"github.com/thomas-vilte/issuemate/internal/i18n"
	"github.com/thomas-vilte/issuemate/internal/logger"
	"github.com/thomas-vilte/issuemate/internal/reference"
)

// Drafting bundles the reference lists with the draft operations built on
// the configured backend.
type Drafting struct {
	Reference *reference.Data
	Generator *drafts.Generator
	Refiner   *drafts.Refiner
}

func NewReference(cfg *config.Config) (*reference.Data, error) {
	return reference.Load(cfg.Reference.RepositoriesFile, cfg.Reference.AssigneesFile)
}

func NewDrafting(ctx context.Context, cfg *config.Config) (*Drafting, error) {
	ref, err := NewReference(cfg)
	if err != nil {
		return nil, err
	}

	backend, err := NewDraftBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &Drafting{
		Reference: ref,
		Generator: drafts.NewGenerator(backend, ref, cfg.Language),
		Refiner:   drafts.NewRefiner(backend, ref, cfg.Language),
	}, nil
}

// NewAPIServer wires every HTTP dependency from cfg. The returned func
// releases the clients that hold connections.
func NewAPIServer(ctx context.Context, cfg *config.Config, t *i18n.Translations) (*api.Server, func() error, error) {
	drafting, err := NewDrafting(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	sessions, err := NewAuthManager(cfg)
	if err != nil {
		return nil, nil, err
	}

	uploader, closeStore, err := NewUploader(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	srv := api.NewServer(api.Deps{
		Generator:    drafting.Generator,
		Refiner:      drafting.Refiner,
		Submitter:    NewIssueSubmitter(cfg),
		Uploader:     uploader,
		Sessions:     sessions,
		Reference:    drafting.Reference,
		Translations: t,
		Logger:       logger.FromContext(ctx),
	}, api.Options{
		FrontendURL:          cfg.Server.FrontendURL,
		AllowedOrigins:       cfg.Server.AllowedOrigins,
		CookieSecure:         cfg.Server.CookieSecure,
		RedirectURL:          cfg.GitHub.RedirectURL,
		ExtensionRedirectURL: cfg.GitHub.ExtensionRedirectURL,
	})

	return srv, closeStore, nil
}
