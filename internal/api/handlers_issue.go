package api

import (
	"errors"
	"net/http"
	"strings"

	domainErrors "github.com/thomas-vilte/issuemate/internal/errors"
	"github.com/thomas-vilte/issuemate/internal/logger"
	"github.com/thomas-vilte/issuemate/internal/models"
	ghvcs "github.com/thomas-vilte/issuemate/internal/vcs/github"
)

// uploadFormOverhead leaves room for multipart boundaries and headers.
const uploadFormOverhead = 1 << 20

// handleCreateIssue handles POST /issue and its /gitissue alias. A draft whose
// repository reference cannot be parsed is a client error; host-side
// submission failures are answered with 200 and status false.
func (s *Server) handleCreateIssue(w http.ResponseWriter, r *http.Request) {
	var draft models.IssueDraft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, r, s.deps.Translations, err)
		return
	}
	draft = draft.Normalize()

	if !draft.IsComplete() {
		writeError(w, r, s.deps.Translations,
			domainErrors.ErrInvalidRequest.WithError(errors.New("repo_url and title are required")))
		return
	}
	if _, err := ghvcs.ParseRepoReference(draft.RepoURL); err != nil {
		writeError(w, r, s.deps.Translations, err)
		return
	}
	if err := s.deps.Reference.ValidateDraft(draft); err != nil {
		writeError(w, r, s.deps.Translations, err)
		return
	}

	claims := ClaimsFrom(r.Context())
	res := s.deps.Submitter.Submit(r.Context(), draft, claims.HostToken)

	log := logger.FromContext(r.Context())
	if res.Status {
		log.Info("issue submitted", "repo_url", draft.RepoURL, "issue_url", *res.IssueURL)
	} else {
		log.Warn("issue submission failed", "repo_url", draft.RepoURL, "error", res.Err)
	}

	writeJSON(w, http.StatusOK, res)
}

// handleUpload handles POST /upload-file with a multipart "file" field.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.deps.Uploader == nil {
		s.writeUploadFailure(w, r, domainErrors.ErrStorageNotConfigured)
		return
	}

	limit := s.deps.Uploader.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+uploadFormOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			s.writeUploadFailure(w, r, domainErrors.ErrFileTooLarge.WithContext("limit", limit))
			return
		}
		writeError(w, r, s.deps.Translations, domainErrors.ErrInvalidRequest.WithError(err))
		return
	}
	defer func() { _ = file.Close() }()

	res := s.deps.Uploader.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if !res.Success && res.Err != nil {
		msg := localizedError(r, s.deps.Translations, res.Err)
		res.ErrorMessage = &msg
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) writeUploadFailure(w http.ResponseWriter, r *http.Request, err error) {
	msg := localizedError(r, s.deps.Translations, err)
	writeJSON(w, http.StatusOK, &models.UploadResult{
		Success:      false,
		ErrorMessage: &msg,
	})
}
