package api

import (
	"net/http"
	"strings"

	domainErrors "github.com/thomas-vilte/issuemate/internal/errors"
	"github.com/thomas-vilte/issuemate/internal/logger"
	"github.com/thomas-vilte/issuemate/internal/models"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	msg := "ok"
	if loc := localizer(r, s.deps.Translations); loc != nil {
		msg = loc.GetMessage("welcome_message", 0, nil)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRepositories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Reference.Repositories())
}

func (s *Server) handleAssignees(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Reference.Assignees())
}

// handleCreateDraft handles POST /drafts
func (s *Server) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	var req models.InitialRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, s.deps.Translations, err)
		return
	}
	if err := requireField("user_request", strings.TrimSpace(req.UserRequest)); err != nil {
		writeError(w, r, s.deps.Translations, err)
		return
	}
	if s.deps.Generator == nil {
		writeError(w, r, s.deps.Translations, domainErrors.ErrBackendNotConfigured)
		return
	}

	draft, err := s.deps.Generator.Generate(r.Context(), req.UserRequest)
	if err != nil {
		writeError(w, r, s.deps.Translations, err)
		return
	}

	logger.FromContext(r.Context()).Info("draft generated", "repo_url", draft.RepoURL)
	writeJSON(w, http.StatusOK, draft)
}

// handleRefineDraft handles POST /refine-draft
func (s *Server) handleRefineDraft(w http.ResponseWriter, r *http.Request) {
	var req models.RefineRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, s.deps.Translations, err)
		return
	}
	if err := requireField("modification_request", strings.TrimSpace(req.ModificationRequest)); err != nil {
		writeError(w, r, s.deps.Translations, err)
		return
	}
	if s.deps.Refiner == nil {
		writeError(w, r, s.deps.Translations, domainErrors.ErrBackendNotConfigured)
		return
	}

	draft, err := s.deps.Refiner.Refine(r.Context(), req.OriginalRequest, req.CurrentDraft, req.ModificationRequest)
	if err != nil {
		writeError(w, r, s.deps.Translations, err)
		return
	}

	writeJSON(w, http.StatusOK, draft)
}
