package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ward-lab/themis/pkg/domain/model"
	"github.com/ward-lab/themis/pkg/domain/types"
	"github.com/ward-lab/themis/pkg/review"
	"github.com/ward-lab/themis/pkg/usecase"
	"github.com/ward-lab/themis/pkg/utils/errutil"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP status codes
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case goerr.HasTag(err, types.ErrTagAuth):
		status = http.StatusUnauthorized
	case goerr.HasTag(err, types.ErrTagValidation):
		status = http.StatusBadRequest
	case errors.Is(err, types.ErrSubjectNotFound),
		errors.Is(err, types.ErrDecisionNotFound),
		errors.Is(err, usecase.ErrNoUndoWindow):
		status = http.StatusNotFound
	case goerr.HasTag(err, types.ErrTagTransient):
		status = http.StatusBadGateway
	}
	errutil.HandleHTTP(r.Context(), w, err, status)
}

type subjectResponse struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	Recommendation string `json:"recommendation"`
	Status         string `json:"status"`
	ProposerID     string `json:"proposer_id"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

func toSubjectResponse(s *model.Subject) subjectResponse {
	return subjectResponse{
		ID:             s.ID.String(),
		Title:          s.Title,
		Body:           s.Body,
		Recommendation: s.Recommendation,
		Status:         s.Status.String(),
		ProposerID:     s.ProposerID,
		CreatedAt:      s.CreatedAt.Format(timeFormat),
		UpdatedAt:      s.UpdatedAt.Format(timeFormat),
	}
}

type decisionResponse struct {
	ID          string   `json:"id"`
	SubjectID   string   `json:"subject_id"`
	Kind        string   `json:"decision_kind"`
	Constraints []string `json:"constraints,omitempty"`
	Context     string   `json:"context,omitempty"`
	DeciderID   string   `json:"decider_id"`
	CreatedAt   string   `json:"created_at"`
}

func toDecisionResponse(d *model.Decision) decisionResponse {
	return decisionResponse{
		ID:          d.ID.String(),
		SubjectID:   d.SubjectID.String(),
		Kind:        d.Kind.String(),
		Constraints: d.Constraints,
		Context:     d.Context,
		DeciderID:   d.DeciderID,
		CreatedAt:   d.CreatedAt.Format(timeFormat),
	}
}

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

func (s *Server) handleCreateSubject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title          string `json:"title"`
		Body           string `json:"body"`
		Recommendation string `json:"recommendation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid request body", goerr.T(types.ErrTagValidation)))
		return
	}

	subject, err := s.uc.Subject.CreateSubject(r.Context(), req.Title, req.Body, req.Recommendation, actorFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSubjectResponse(subject))
}

func (s *Server) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := s.uc.Subject.ListSubjects(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]subjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		resp = append(resp, toSubjectResponse(subject))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSubject(w http.ResponseWriter, r *http.Request) {
	id := types.SubjectID(chi.URLParam(r, "subjectID"))

	subject, err := s.uc.Subject.GetSubject(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubjectResponse(subject))
}

func (s *Server) handleUpdateSubject(w http.ResponseWriter, r *http.Request) {
	id := types.SubjectID(chi.URLParam(r, "subjectID"))

	var req struct {
		Title          *string `json:"title"`
		Body           *string `json:"body"`
		Recommendation *string `json:"recommendation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid request body", goerr.T(types.ErrTagValidation)))
		return
	}

	subject, err := s.uc.Subject.UpdateSubject(r.Context(), id, req.Title, req.Body, req.Recommendation)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubjectResponse(subject))
}

func (s *Server) handleQueue(w http.ResponseWriter, r *http.Request) {
	subjects, err := s.uc.Review.LoadQueue(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]subjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		resp = append(resp, toSubjectResponse(subject))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitDecision(w http.ResponseWriter, r *http.Request) {
	id := types.SubjectID(chi.URLParam(r, "subjectID"))

	var req struct {
		Kind        string   `json:"decision_kind"`
		Constraints []string `json:"constraints"`
		Context     string   `json:"context"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid request body", goerr.T(types.ErrTagValidation)))
		return
	}

	kind, err := types.ParseDecisionKind(req.Kind)
	if err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid decision kind", goerr.T(types.ErrTagValidation)))
		return
	}

	commit, session, err := s.uc.Review.Submit(r.Context(), review.DecisionInput{
		SubjectID:   id,
		Kind:        kind,
		Constraints: req.Constraints,
		Context:     req.Context,
		DeciderID:   actorFrom(r.Context()),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Decision decisionResponse `json:"decision"`
		Subject  subjectResponse  `json:"subject"`
		UndoMS   int64            `json:"undo_remaining_ms"`
	}{
		Decision: toDecisionResponse(commit.Decision),
		Subject:  toSubjectResponse(commit.Subject),
		UndoMS:   session.Remaining().Milliseconds(),
	})
}

func (s *Server) handleDecisionHistory(w http.ResponseWriter, r *http.Request) {
	id := types.SubjectID(chi.URLParam(r, "subjectID"))

	decisions, err := s.uc.Review.History(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]decisionResponse, 0, len(decisions))
	for _, d := range decisions {
		resp = append(resp, toDecisionResponse(d))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	id := types.SubjectID(chi.URLParam(r, "subjectID"))

	if err := s.uc.Review.Undo(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	id := types.SubjectID(chi.URLParam(r, "subjectID"))

	if err := s.uc.Review.Retry(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePutDraft(w http.ResponseWriter, r *http.Request) {
	id := types.SubjectID(chi.URLParam(r, "subjectID"))

	var req struct {
		Kind        string   `json:"kind"`
		Constraints []string `json:"constraints"`
		Context     string   `json:"context"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid request body", goerr.T(types.ErrTagValidation)))
		return
	}

	// Drafts are advisory; the kind is stored as-is and validated only
	// on submit.
	if err := s.uc.Review.SaveDraftNow(r.Context(), id, &model.Draft{
		Kind:        types.DecisionKind(req.Kind),
		Constraints: req.Constraints,
		Context:     req.Context,
	}); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	id := types.SubjectID(chi.URLParam(r, "subjectID"))

	draft, ok, err := s.uc.Review.LoadDraft(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		http.Error(w, "no draft", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (s *Server) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	id := types.SubjectID(chi.URLParam(r, "subjectID"))

	if err := s.uc.Review.DiscardDraft(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
