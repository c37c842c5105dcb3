package model

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownModel is returned when a model identifier is not registered.
// Callers surface this as a client error rather than a server failure.
var ErrUnknownModel = errors.New("unknown model")

// Detail is the listing record for a registered model.
type Detail struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Provider    string `json:"provider"`
}

// Registry maps public model identifiers to Model implementations. It is safe
// for concurrent use; registration normally happens once at wiring time.
type Registry struct {
	mu        sync.RWMutex
	models    map[string]Model
	details   map[string]Detail
	defaultID string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[string]Model), details: make(map[string]Detail)}
}

// Register adds a model under the given public identifier. The first
// registered model becomes the default.
func (r *Registry) Register(id, displayName string, m Model) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[id] = m
	r.details[id] = Detail{ID: id, DisplayName: displayName, Provider: m.Info().Provider}
	if r.defaultID == "" {
		r.defaultID = id
	}
}

// SetDefault marks an already registered identifier as the default.
func (r *Registry) SetDefault(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.models[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownModel, id)
	}
	r.defaultID = id
	return nil
}

// Get resolves a model identifier. An empty id resolves to the default model.
func (r *Registry) Get(id string) (Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id == "" {
		id = r.defaultID
	}
	m, ok := r.models[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, id)
	}
	return m, nil
}

// List returns the details of all registered models sorted by identifier.
func (r *Registry) List() []Detail {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Detail, 0, len(r.details))
	for _, d := range r.details {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
