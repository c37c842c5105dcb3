package core

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Category partitions sessions by the orchestrator that owns them.
type Category string

const (
	// CategoryResearch marks sessions driven by the research orchestrator.
	CategoryResearch Category = "research"
	// CategoryVoting marks sessions driven by the voting orchestrator.
	CategoryVoting Category = "voting"
	// CategoryChat marks plain single-model chat sessions.
	CategoryChat Category = "chat"
)

// ErrSessionNotFound is returned by stores when no session exists for an ID.
var ErrSessionNotFound = errors.New("session not found")

// Session is a durable conversation container: an ordered message history plus
// a short title shown in session lists. It is safe for concurrent access.
//
// Contract:
//   - Message appends update the Updated timestamp
//   - History returns a defensive copy to avoid external mutation
//   - Clone performs deep copies of slices for safe divergence.
type Session struct {
	ID       string    `json:"id"`
	Category Category  `json:"category"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
	mu       sync.RWMutex
}

// NewSession creates an empty session with the given ID and category.
func NewSession(id string, category Category) *Session {
	now := time.Now()
	return &Session{ID: id, Category: category, Messages: []Message{}, Created: now, Updated: now}
}

// AddMessage appends a message to the history updating the Updated timestamp.
func (s *Session) AddMessage(m Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, m)
	s.Updated = time.Now()
}

// SetTitle replaces the session title updating the Updated timestamp.
func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Title = title
	s.Updated = time.Now()
}

// History returns a defensive copy of the full message slice.
func (s *Session) History() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := make([]Message, len(s.Messages))
	copy(msgs, s.Messages)
	return msgs
}

// LastUserText returns the text of the most recent user message, or "".
func (s *Session) LastUserText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i].Text
		}
	}
	return ""
}

// Clone returns a deep copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{ID: s.ID, Category: s.Category, Title: s.Title, Messages: make([]Message, len(s.Messages)), Created: s.Created, Updated: s.Updated}
	copy(clone.Messages, s.Messages)
	return clone
}

// SessionInfo is the lightweight index record returned by session listings.
type SessionInfo struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Category      Category  `json:"category"`
	MessageCount  int       `json:"message_count"`
	LastMessageAt time.Time `json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SessionStore persists sessions and their message histories.
//
// Contract:
//   - Load returns ErrSessionNotFound for unknown IDs
//   - Save upserts the full session including its index record
//   - Delete removes both the session and its index record atomically and
//     is a no-op for unknown IDs
//   - List returns index records for one category ordered by most recent
//     activity first.
type SessionStore interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, category Category) ([]SessionInfo, error)
	UpdateTitle(ctx context.Context, id, title string) error
}
