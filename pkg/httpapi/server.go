// Package httpapi exposes the question/answer system over HTTP: REST
// endpoints for submission and history, an SSE event stream, and a
// websocket mirror of the same events.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/chalktalk/chalktalk/pkg/hub"
	"github.com/chalktalk/chalktalk/pkg/qa"
)

// Server wires the store, hub, and coordinator behind an http.Handler.
type Server struct {
	store       *qa.Store
	hub         *hub.Hub
	coordinator *qa.Coordinator
	model       string
}

func NewServer(store *qa.Store, h *hub.Hub, c *qa.Coordinator, model string) *Server {
	return &Server{store: store, hub: h, coordinator: c, model: model}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /questions", s.handleSubmit)
	mux.HandleFunc("GET /questions", s.handleQuestions)
	mux.HandleFunc("GET /answers/{id}", s.handleAnswer)
	mux.HandleFunc("GET /stream", s.handleStream)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID   string `json:"userId"`
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid-body")
		return
	}
	questionID, answerID, err := s.coordinator.Submit(r.Context(), body.UserID, body.Question)
	if err != nil {
		if errors.Is(err, qa.ErrMissingField) {
			writeError(w, http.StatusBadRequest, "missing-field")
			return
		}
		slog.Error("httpapi: submit failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"questionId": questionID,
		"answerId":   answerID,
	})
}

func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := s.store.Questions(r.Context())
	if err != nil {
		slog.Error("httpapi: list questions failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	if questions == nil {
		questions = []*qa.Question{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    questions,
		"count":   len(questions),
	})
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	answer, err := s.store.Answer(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, qa.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not-found")
			return
		}
		slog.Error("httpapi: answer lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    answer,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":    true,
		"model": s.model,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("httpapi: response not written", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   code,
	})
}
