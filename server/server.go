// Package server exposes the chat backend over HTTP: session management,
// plain chat, research and voting chat endpoints, model listing and the
// voting SSE stream.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/suzudai/my-chat-app/core"
	"github.com/suzudai/my-chat-app/logging"
	"github.com/suzudai/my-chat-app/model"
	"github.com/suzudai/my-chat-app/research"
	"github.com/suzudai/my-chat-app/title"
	"github.com/suzudai/my-chat-app/tool"
	"github.com/suzudai/my-chat-app/voting"
)

// Options configure the HTTP handler.
type Options struct {
	Tools         []tool.Tool
	MaxIterations int
	Logger        logging.Logger
}

// Handler carries the shared dependencies of all endpoints. Orchestrators are
// built per request around the model the client selected.
type Handler struct {
	store         core.SessionStore
	registry      *model.Registry
	tools         []tool.Tool
	maxIterations int
	logger        logging.Logger
}

// NewHandler creates the HTTP handler over a session store and model registry.
func NewHandler(store core.SessionStore, registry *model.Registry, optFns ...func(o *Options)) *Handler {
	opts := Options{MaxIterations: research.DefaultMaxIterations, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Handler{
		store:         store,
		registry:      registry,
		tools:         opts.Tools,
		maxIterations: opts.MaxIterations,
		logger:        opts.Logger,
	}
}

// Router assembles the chi router with all API routes mounted under /api.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api", func(r chi.Router) {
		r.Get("/models", h.listModels)

		r.Post("/chat", h.plainChat)
		r.Route("/chat-sessions", func(r chi.Router) {
			r.Post("/", h.createChatSession)
			r.Get("/", h.listChatSessions)
			r.Get("/{sessionID}/messages", h.sessionMessages)
			r.Delete("/{sessionID}", h.deleteSession)
			r.Put("/{sessionID}/title", h.updateSessionTitle)
			r.Post("/{sessionID}/chat", h.continuePlainChat)
		})

		r.Post("/deep-research-chat", h.researchChat)
		r.Route("/deep-research-sessions", func(r chi.Router) {
			r.Post("/", h.createResearchSession)
			r.Get("/", h.listResearchSessions)
			r.Get("/{sessionID}/messages", h.sessionMessages)
			r.Delete("/{sessionID}", h.deleteSession)
			r.Put("/{sessionID}/title", h.updateSessionTitle)
			r.Post("/{sessionID}/chat", h.continueResearchChat)
		})

		r.Post("/voting-graph-chat", h.votingChat)
		r.Post("/voting-graph-chat-stream", h.votingChatStream)
		r.Route("/voting-graph-sessions", func(r chi.Router) {
			r.Post("/", h.createVotingSession)
			r.Get("/", h.listVotingSessions)
			r.Get("/{sessionID}/messages", h.sessionMessages)
			r.Delete("/{sessionID}", h.deleteSession)
			r.Put("/{sessionID}/title", h.updateSessionTitle)
			r.Post("/{sessionID}/chat", h.continueVotingChat)
			r.Post("/{sessionID}/chat-stream", h.continueVotingChatStream)
		})
	})

	return r
}

// chatRequest is the body of every chat endpoint. Model may be empty to use
// the registry default.
type chatRequest struct {
	Message string `json:"message"`
	Model   string `json:"model"`
}

// chatResponse mirrors the reply shape of the chat endpoints.
type chatResponse struct {
	Reply        string `json:"reply"`
	ThreadID     string `json:"thread_id"`
	UpdatedTitle string `json:"updated_title,omitempty"`
}

type createSessionResponse struct {
	ThreadID string `json:"thread_id"`
	Title    string `json:"title"`
}

type sessionResponse struct {
	ThreadID      string `json:"thread_id"`
	Title         string `json:"title"`
	UpdatedAt     string `json:"updated_at"`
	MessageCount  int    `json:"message_count"`
	LastMessageAt string `json:"last_message_at"`
}

type messageResponse struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// writeDomainError maps orchestrator errors onto HTTP status codes: unknown
// models and bad requests are client errors, unknown sessions are 404, and
// everything else is an internal error.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrUnknownModel):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrSessionNotFound):
		Error(w, http.StatusNotFound, "session not found")
	default:
		h.logger.Error("server.request.failed", "error", err.Error())
		Error(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) listModels(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.registry.List())
}

func (h *Handler) researchOrchestrator(m model.Model) *research.Orchestrator {
	return research.New(h.store, m, h.tools, func(o *research.Options) {
		o.MaxIterations = h.maxIterations
		o.Logger = h.logger
	})
}

func (h *Handler) votingOrchestrator(m model.Model) *voting.Orchestrator {
	return voting.New(h.store, m, func(o *voting.Options) {
		o.Logger = h.logger
	})
}

func (h *Handler) titleGenerator(m model.Model, fallback string) *title.Generator {
	return title.NewGenerator(m, func(o *title.Options) {
		o.Fallback = fallback
		o.Logger = h.logger
	})
}

func (h *Handler) sessionMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.store.Load(r.Context(), sessionID)
	if errors.Is(err, core.ErrSessionNotFound) {
		// Unknown sessions read as empty histories, never as errors.
		JSON(w, http.StatusOK, []messageResponse{})
		return
	}
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	history := session.History()
	messages := make([]messageResponse, 0, len(history))
	for _, m := range history {
		if m.Role != core.RoleUser && m.Role != core.RoleAssistant {
			continue
		}
		messages = append(messages, messageResponse{
			Role:      string(m.Role),
			Content:   m.Text,
			Timestamp: m.Timestamp.Format(time.RFC3339),
		})
	}
	JSON(w, http.StatusOK, messages)
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.store.Delete(r.Context(), sessionID); err != nil {
		h.writeDomainError(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]string{"message": "session deleted"})
}

func (h *Handler) updateSessionTitle(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req struct {
		Title string `json:"title"`
	}
	if err := decodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		Error(w, http.StatusBadRequest, "title must not be empty")
		return
	}

	if err := h.store.UpdateTitle(r.Context(), sessionID, title.Truncate(req.Title)); err != nil {
		h.writeDomainError(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]string{"message": "title updated"})
}

func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request, category core.Category) {
	infos, err := h.store.List(r.Context(), category)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	sessions := make([]sessionResponse, 0, len(infos))
	for _, info := range infos {
		sessions = append(sessions, sessionResponse{
			ThreadID:      info.ID,
			Title:         info.Title,
			UpdatedAt:     info.UpdatedAt.Format(time.RFC3339),
			MessageCount:  info.MessageCount,
			LastMessageAt: info.LastMessageAt.Format(time.RFC3339),
		})
	}
	JSON(w, http.StatusOK, sessions)
}

func urlSessionID(r *http.Request) string {
	return chi.URLParam(r, "sessionID")
}

// generateTitle produces and stores a session title from the first user
// message. Failures only cost the title, never the chat response.
func (h *Handler) generateTitle(r *http.Request, sessionID, message, fallback string, m model.Model) string {
	t := h.titleGenerator(m, fallback).Generate(r.Context(), message)
	if err := h.store.UpdateTitle(r.Context(), sessionID, t); err != nil {
		h.logger.Warn("server.title.update_failed", "session_id", sessionID, "error", err.Error())
	}
	return t
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request, category core.Category, initialTitle string) {
	session := core.NewSession(core.NewID(), category)
	session.Title = initialTitle

	if err := h.store.Save(r.Context(), session); err != nil {
		h.writeDomainError(w, err)
		return
	}
	JSON(w, http.StatusOK, createSessionResponse{ThreadID: session.ID, Title: session.Title})
}
