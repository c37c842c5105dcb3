package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/suzudai/my-chat-app/core"
	"github.com/suzudai/my-chat-app/model"
	"github.com/suzudai/my-chat-app/voting"
)

const (
	votingInitialTitle  = "Collaborative voting chat..."
	votingFallbackTitle = "Collaborative voting chat"
)

func (h *Handler) createVotingSession(w http.ResponseWriter, r *http.Request) {
	h.createSession(w, r, core.CategoryVoting, votingInitialTitle)
}

func (h *Handler) listVotingSessions(w http.ResponseWriter, r *http.Request) {
	h.listSessions(w, r, core.CategoryVoting)
}

// votingChat starts a voting conversation in a fresh session.
func (h *Handler) votingChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID, err := h.newVotingSession(r)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.runVotingChat(w, r, sessionID, req)
}

// continueVotingChat resumes an existing voting session.
func (h *Handler) continueVotingChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.runVotingChat(w, r, urlSessionID(r), req)
}

// votingChatStream starts a voting conversation in a fresh session and
// streams its progress as server-sent events.
func (h *Handler) votingChatStream(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID, err := h.newVotingSession(r)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.streamVotingChat(w, r, sessionID, req)
}

// continueVotingChatStream resumes an existing voting session as a stream.
func (h *Handler) continueVotingChatStream(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.streamVotingChat(w, r, urlSessionID(r), req)
}

func (h *Handler) newVotingSession(r *http.Request) (string, error) {
	session := core.NewSession(core.NewID(), core.CategoryVoting)
	session.Title = votingInitialTitle
	if err := h.store.Save(r.Context(), session); err != nil {
		return "", err
	}
	return session.ID, nil
}

func (h *Handler) votingSetup(w http.ResponseWriter, r *http.Request, sessionID string, req chatRequest) (model.Model, bool, bool) {
	if req.Message == "" {
		Error(w, http.StatusBadRequest, "message must not be empty")
		return nil, false, false
	}

	m, err := h.registry.Get(req.Model)
	if err != nil {
		h.writeDomainError(w, err)
		return nil, false, false
	}

	session, err := h.store.Load(r.Context(), sessionID)
	if err != nil {
		h.writeDomainError(w, err)
		return nil, false, false
	}
	return m, len(session.History()) == 0, true
}

func (h *Handler) runVotingChat(w http.ResponseWriter, r *http.Request, sessionID string, req chatRequest) {
	m, firstMessage, ok := h.votingSetup(w, r, sessionID, req)
	if !ok {
		return
	}

	result, err := h.votingOrchestrator(m).Run(r.Context(), sessionID, req.Message)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	resp := chatResponse{Reply: result.Response, ThreadID: sessionID}
	if firstMessage {
		resp.UpdatedTitle = h.generateTitle(r, sessionID, req.Message, votingFallbackTitle, m)
	}
	JSON(w, http.StatusOK, resp)
}

func (h *Handler) streamVotingChat(w http.ResponseWriter, r *http.Request, sessionID string, req chatRequest) {
	m, firstMessage, ok := h.votingSetup(w, r, sessionID, req)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		Error(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	emit := func(ev voting.Event) {
		writeSSE(w, flusher, ev)
	}

	_, err := h.votingOrchestrator(m).RunStream(r.Context(), sessionID, req.Message, emit)
	if err != nil {
		h.logger.Error("server.voting_stream.failed", "session_id", sessionID, "error", err.Error())
		writeSSE(w, flusher, voting.Event{Type: voting.EventError, ThreadID: sessionID, Message: "voting chat failed"})
		return
	}

	updatedTitle := ""
	if firstMessage {
		updatedTitle = h.generateTitle(r, sessionID, req.Message, votingFallbackTitle, m)
		writeSSE(w, flusher, voting.Event{Type: voting.EventTitleUpdated, Title: updatedTitle, Message: "session title generated"})
	}

	writeSSE(w, flusher, voting.Event{Type: voting.EventComplete, ThreadID: sessionID, Title: updatedTitle, Message: "all phases finished"})
	writeSSE(w, flusher, map[string]string{"type": "end", "thread_id": sessionID})
}

func writeSSE(w http.ResponseWriter, flusher http.Flusher, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}
