package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// LeadCache é o armazenamento local de leads (blob "leads").
type LeadCache interface {
	LoadLeads(ctx context.Context) ([]entity.Lead, error)
	AppendLead(ctx context.Context, lead entity.Lead) error
}

// FilterStore persiste a última seleção de filtros (blob "leadFilters").
type FilterStore interface {
	SaveFilters(ctx context.Context, f entity.Filters) error
	LoadFilters(ctx context.Context) (entity.Filters, error)
}

type RemoteLeadStore = entity.LeadRepositoryInterface

type LeadEventPublisher interface {
	PublishLeadCreated(ctx context.Context, lead entity.Lead) error
}
