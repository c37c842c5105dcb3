package server

import (
	"net/http"

	"github.com/suzudai/my-chat-app/core"
)

const (
	researchInitialTitle  = "Starting research..."
	researchFallbackTitle = "Deep research session"
)

func (h *Handler) createResearchSession(w http.ResponseWriter, r *http.Request) {
	h.createSession(w, r, core.CategoryResearch, researchInitialTitle)
}

func (h *Handler) listResearchSessions(w http.ResponseWriter, r *http.Request) {
	h.listSessions(w, r, core.CategoryResearch)
}

// researchChat starts a research conversation in a fresh session.
func (h *Handler) researchChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session := core.NewSession(core.NewID(), core.CategoryResearch)
	session.Title = researchInitialTitle
	if err := h.store.Save(r.Context(), session); err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.runResearchChat(w, r, session.ID, req)
}

// continueResearchChat resumes an existing research session. An unknown
// session id is a client error.
func (h *Handler) continueResearchChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.runResearchChat(w, r, urlSessionID(r), req)
}

func (h *Handler) runResearchChat(w http.ResponseWriter, r *http.Request, sessionID string, req chatRequest) {
	if req.Message == "" {
		Error(w, http.StatusBadRequest, "message must not be empty")
		return
	}

	m, err := h.registry.Get(req.Model)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	session, err := h.store.Load(r.Context(), sessionID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	firstMessage := len(session.History()) == 0

	result, err := h.researchOrchestrator(m).Run(r.Context(), sessionID, req.Message)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	resp := chatResponse{Reply: result.Answer, ThreadID: sessionID}
	if firstMessage {
		resp.UpdatedTitle = h.generateTitle(r, sessionID, req.Message, researchFallbackTitle, m)
	}
	JSON(w, http.StatusOK, resp)
}
