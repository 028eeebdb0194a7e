package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kiso-design/intake-cli/internal/model"
	"github.com/kiso-design/intake-cli/internal/orchestrate"
	"github.com/kiso-design/intake-cli/internal/store"
)

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type formRequest struct {
	SessionID string            `json:"session_id"`
	Values    map[string]string `json:"values"`
}

type documentRequest struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
	Content   string `json:"content"` // base64
}

type interactionResponse struct {
	SessionID string              `json:"session_id"`
	ProjectID string              `json:"project_id"`
	Phase     model.Phase         `json:"phase"`
	Result    *orchestrate.Result `json:"result"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	session, ok := s.loadOrCreateSession(w, r, req.SessionID)
	if !ok {
		return
	}

	result, err := s.coord.HandleText(r.Context(), session, req.Message)
	if err != nil {
		s.serverError(w, "handle chat", err)
		return
	}
	s.finishInteraction(w, r, session, result)
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	var req formRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Values) == 0 {
		writeError(w, http.StatusBadRequest, "values are required")
		return
	}

	session, ok := s.loadOrCreateSession(w, r, req.SessionID)
	if !ok {
		return
	}

	result, err := s.coord.HandleForm(r.Context(), session, req.Values)
	if err != nil {
		s.serverError(w, "handle form", err)
		return
	}
	s.finishInteraction(w, r, session, result)
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	content, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		writeError(w, http.StatusBadRequest, "content must be base64")
		return
	}

	session, ok := s.loadOrCreateSession(w, r, req.SessionID)
	if !ok {
		return
	}

	result, err := s.coord.HandleDocument(r.Context(), session, req.Name, content)
	if err != nil {
		s.serverError(w, "handle document", err)
		return
	}
	s.finishInteraction(w, r, session, result)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.store.ListSessions(r.Context())
	if err != nil {
		s.serverError(w, "list sessions", err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.store.GetSession(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		s.serverError(w, "get session", err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// handleAdvance moves a session to its next phase. The frontend calls this
// after the user accepts a proceed_phase action.
func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	session, err := s.store.GetSession(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		s.serverError(w, "get session", err)
		return
	}
	if !session.CanProceed {
		writeError(w, http.StatusConflict, "current phase is not complete")
		return
	}

	session.Phase = session.Phase.Next()
	session.CanProceed = false
	if err := s.store.SaveSession(r.Context(), session); err != nil {
		s.serverError(w, "save session", err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	fields, err := s.store.GetProject(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		s.serverError(w, "get project", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"fields": fields.List(),
		"info":   model.BuildProjectInfo(fields),
	})
}

// loadOrCreateSession resolves the session for an interaction. A missing ID
// starts a fresh session; an unknown ID is a client error.
func (s *Server) loadOrCreateSession(w http.ResponseWriter, r *http.Request, id string) (*model.SessionState, bool) {
	if id == "" {
		return model.NewSession(), true
	}
	session, err := s.store.GetSession(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	if err != nil {
		s.serverError(w, "get session", err)
		return nil, false
	}
	return session, true
}

// finishInteraction persists the session and its project fields, then
// responds with the interaction result.
func (s *Server) finishInteraction(w http.ResponseWriter, r *http.Request, session *model.SessionState, result *orchestrate.Result) {
	projectID, err := s.store.SaveProject(r.Context(), session.ProjectID, session.Fields)
	if err != nil {
		s.serverError(w, "save project", err)
		return
	}
	session.ProjectID = projectID

	if err := s.store.SaveSession(r.Context(), session); err != nil {
		s.serverError(w, "save session", err)
		return
	}

	writeJSON(w, http.StatusOK, interactionResponse{
		SessionID: session.ID,
		ProjectID: session.ProjectID,
		Phase:     session.Phase,
		Result:    result,
	})
}

func (s *Server) serverError(w http.ResponseWriter, action string, err error) {
	zap.L().Error("server: "+action, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
