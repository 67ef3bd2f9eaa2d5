package usecase

import (
	"context"
	"sync"
)

const (
	DefaultViewID = "default"
	maxViews      = 256
)

// ViewRegistry mantém uma LeadListView por tela. Cada tela tem sua própria
// geração de ativação, então telas diferentes não se cancelam.
type ViewRegistry struct {
	sources []LeadSource
	filters FilterStore

	mu    sync.Mutex
	views map[string]*LeadListView
}

func NewViewRegistry(sources []LeadSource, filters FilterStore) *ViewRegistry {
	return &ViewRegistry{
		sources: sources,
		filters: filters,
		views:   make(map[string]*LeadListView),
	}
}

// Get devolve a view de id, criando-a se preciso. Id vazio vira DefaultViewID.
func (r *ViewRegistry) Get(ctx context.Context, id string) *LeadListView {
	if id == "" {
		id = DefaultViewID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.views[id]; ok {
		return v
	}

	if len(r.views) >= maxViews {
		for k := range r.views {
			if k != DefaultViewID {
				delete(r.views, k)
				break
			}
		}
	}

	v := NewLeadListView(ctx, r.sources, r.filters)
	r.views[id] = v
	return v
}

func (r *ViewRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}
