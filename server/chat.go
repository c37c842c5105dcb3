package server

import (
	"net/http"

	"github.com/suzudai/my-chat-app/chat"
	"github.com/suzudai/my-chat-app/core"
	"github.com/suzudai/my-chat-app/model"
)

const (
	chatInitialTitle  = "New chat..."
	chatFallbackTitle = "New chat session"
)

func (h *Handler) assistant(m model.Model) *chat.Assistant {
	return chat.New(h.store, m, func(o *chat.Options) {
		o.Logger = h.logger
	})
}

func (h *Handler) createChatSession(w http.ResponseWriter, r *http.Request) {
	h.createSession(w, r, core.CategoryChat, chatInitialTitle)
}

func (h *Handler) listChatSessions(w http.ResponseWriter, r *http.Request) {
	h.listSessions(w, r, core.CategoryChat)
}

// plainChat starts a plain conversation in a fresh session.
func (h *Handler) plainChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session := core.NewSession(core.NewID(), core.CategoryChat)
	session.Title = chatInitialTitle
	if err := h.store.Save(r.Context(), session); err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.runPlainChat(w, r, session.ID, req)
}

// continuePlainChat resumes an existing chat session. An unknown session id
// is a client error.
func (h *Handler) continuePlainChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.runPlainChat(w, r, urlSessionID(r), req)
}

func (h *Handler) runPlainChat(w http.ResponseWriter, r *http.Request, sessionID string, req chatRequest) {
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

	reply, err := h.assistant(m).Run(r.Context(), sessionID, req.Message)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	resp := chatResponse{Reply: reply, ThreadID: sessionID}
	if firstMessage {
		resp.UpdatedTitle = h.generateTitle(r, sessionID, req.Message, chatFallbackTitle, m)
	}
	JSON(w, http.StatusOK, resp)
}
