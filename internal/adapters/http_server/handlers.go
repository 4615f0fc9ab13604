package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"bling_travel/internal/app"
	"bling_travel/internal/domain"
)

type Handlers struct{ Sessions *app.Sessions }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/chat", h.chat)
	s.mux.Get("/v1/sessions/{id}/messages", h.history)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type chatResponse struct {
	SessionID string           `json:"session_id"`
	Reply     string           `json:"reply"`
	Messages  []domain.Message `json:"messages"`
}

func (h *Handlers) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "body must be JSON")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid message", "message must not be empty")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	identity := domain.Identity{Name: req.Name, Email: req.Email, Phone: req.Phone}
	messages, err := h.Sessions.Submit(r.Context(), req.SessionID, req.Message, identity)
	if err != nil {
		log.Error().Err(err).Str("session", req.SessionID).Msg("chat turn failed")
		writeProblem(w, http.StatusBadGateway, "Assistant unavailable",
			"the assistant could not complete this turn; your conversation is preserved, please retry")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		SessionID: req.SessionID,
		Reply:     lastAssistantText(messages),
		Messages:  messages,
	})
}

func (h *Handlers) history(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	messages, err := h.Sessions.History(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "unknown session")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal error", "could not load session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"session_id": id, "messages": messages})
}

func lastAssistantText(msgs []domain.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == domain.RoleAssistant && msgs[i].Text != "" {
			return msgs[i].Text
		}
	}
	return ""
}
