package api

import (
	"sync"
	"time"

	"slaanalyzer/internal/engine"

	"github.com/google/uuid"
)

// Upload is one validated file kept for follow-up filter requests.
type Upload struct {
	ID         string
	Filename   string
	UploadedAt time.Time
	Data       *engine.Validated
}

// Registry keeps uploads in memory, evicting the oldest past capacity.
// Uploads are never modified after Add.
type Registry struct {
	mu      sync.RWMutex
	max     int
	uploads map[string]*Upload
	order   []string // oldest first
}

func NewRegistry(max int) *Registry {
	if max <= 0 {
		max = 1
	}
	return &Registry{max: max, uploads: make(map[string]*Upload)}
}

// Add stores data under a fresh id.
func (r *Registry) Add(filename string, data *engine.Validated) *Upload {
	u := &Upload{
		ID:         uuid.NewString(),
		Filename:   filename,
		UploadedAt: time.Now().UTC(),
		Data:       data,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.uploads[u.ID] = u
	r.order = append(r.order, u.ID)
	if n := len(r.order) - r.max; n > 0 {
		for _, id := range r.order[:n] {
			delete(r.uploads, id)
		}
		r.order = append(r.order[:0], r.order[n:]...)
	}
	return u
}

func (r *Registry) Get(id string) (*Upload, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.uploads[id]
	return u, ok
}

// Remove reports whether id was present.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.uploads[id]; !ok {
		return false
	}
	delete(r.uploads, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.uploads)
}
