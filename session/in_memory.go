package session

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/suzudai/my-chat-app/core"
)

// InMemoryStore is a volatile SessionStore implementation storing sessions in
// a process local map. It is safe for concurrent access and best suited for
// tests or ephemeral demo servers. Each returned session is cloned to prevent
// external mutation of internal state.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
}

var _ core.SessionStore = (*InMemoryStore)(nil)

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*core.Session)}
}

// Load returns a clone of the stored session or core.ErrSessionNotFound.
func (s *InMemoryStore) Load(ctx context.Context, id string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrSessionNotFound, id)
	}
	return session.Clone(), nil
}

// Save stores a clone of the session snapshot, replacing any previous state.
func (s *InMemoryStore) Save(ctx context.Context, session *core.Session) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("session must have an id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = session.Clone()
	return nil
}

// Delete removes the session. Deleting an unknown id is a no-op.
func (s *InMemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// List returns session summaries for the category ordered by most recent
// activity. An empty category matches all sessions.
func (s *InMemoryStore) List(ctx context.Context, category core.Category) ([]core.SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]core.SessionInfo, 0, len(s.sessions))
	for _, session := range s.sessions {
		if category != "" && session.Category != category {
			continue
		}
		infos = append(infos, core.SessionInfo{
			ID:            session.ID,
			Title:         session.Title,
			Category:      session.Category,
			MessageCount:  len(session.History()),
			LastMessageAt: session.Updated,
			CreatedAt:     session.Created,
			UpdatedAt:     session.Updated,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].UpdatedAt.Equal(infos[j].UpdatedAt) {
			return infos[i].ID < infos[j].ID
		}
		return infos[i].UpdatedAt.After(infos[j].UpdatedAt)
	})
	return infos, nil
}

// UpdateTitle sets the title of an existing session.
func (s *InMemoryStore) UpdateTitle(ctx context.Context, id, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrSessionNotFound, id)
	}
	session.SetTitle(title)
	return nil
}
