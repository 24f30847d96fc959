package registry

import (
	"context"
	"sync"

	"agent-dashboard-be/internal/entity"
)

// Repository is the slice of the document repositories the registry needs.
type Repository interface {
	List(ctx context.Context) ([]entity.Document, error)
	Save(ctx context.Context, key string, doc entity.Document) (entity.Document, error)
}

// Registry caches every valid document of one kind together with a single
// "currently selected" pointer. The selection always refers to a member of the
// collection, or to nothing at all.
type Registry struct {
	mu        sync.RWMutex
	repo      Repository
	documents []entity.Document
	selected  string // path_name of the selected document, "" when none
}

func New(repo Repository) *Registry {
	return &Registry{repo: repo, documents: make([]entity.Document, 0)}
}

// Refresh replaces the collection from the repository. An existing selection
// survives if its document is still present; otherwise the first entry (store
// enumeration order) is selected, or nothing when the collection is empty.
// A failed list clears the collection and the selection.
func (r *Registry) Refresh(ctx context.Context) error {
	documents, err := r.repo.List(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		r.documents = make([]entity.Document, 0)
		r.selected = ""
		return err
	}

	r.documents = documents
	if r.selected != "" && r.indexOf(r.selected) >= 0 {
		return nil
	}
	if len(documents) > 0 {
		r.selected = documents[0].PathName()
	} else {
		r.selected = ""
	}
	return nil
}

// Documents returns a snapshot of the collection.
func (r *Registry) Documents() []entity.Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.Document, len(r.documents))
	copy(out, r.documents)
	return out
}

// Selected returns the currently selected document, if any.
func (r *Registry) Selected() (entity.Document, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx := r.indexOf(r.selected)
	if idx < 0 {
		return nil, false
	}
	return r.documents[idx], true
}

// Select points the selection at key. Unknown keys are a no-op, matching the
// dashboard behavior of only ever selecting from the rendered list.
func (r *Registry) Select(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOf(key) >= 0 {
		r.selected = key
	}
}

// Save writes through to the repository. On success the selection moves to the
// re-read document; either way the collection is resynced from disk so the
// cache never drifts from on-disk truth.
func (r *Registry) Save(ctx context.Context, doc entity.Document) (entity.Document, error) {
	saved, err := r.repo.Save(ctx, doc.PathName(), doc)
	if err != nil {
		_ = r.Refresh(ctx)
		return nil, err
	}

	r.mu.Lock()
	r.selected = saved.PathName()
	r.mu.Unlock()

	_ = r.Refresh(ctx)
	return saved, nil
}

// indexOf requires r.mu held.
func (r *Registry) indexOf(key string) int {
	if key == "" {
		return -1
	}
	for i, doc := range r.documents {
		if doc.PathName() == key {
			return i
		}
	}
	return -1
}
