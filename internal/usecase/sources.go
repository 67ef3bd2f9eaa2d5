package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/logger"
)

const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

// LeadSource busca leads com um filtro opcional de status.
type LeadSource interface {
	Name() string
	FetchLeads(ctx context.Context, status *entity.Status) ([]entity.Lead, error)
}

type LocalSource struct {
	cache LeadCache
}

func NewLocalSource(cache LeadCache) *LocalSource {
	return &LocalSource{cache: cache}
}

func (s *LocalSource) Name() string { return SourceLocal }

// O blob local não tem índice: o status é filtrado em memória.
func (s *LocalSource) FetchLeads(ctx context.Context, status *entity.Status) ([]entity.Lead, error) {
	leads, err := s.cache.LoadLeads(ctx)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return leads, nil
	}

	out := make([]entity.Lead, 0, len(leads))
	for _, l := range leads {
		if l.Status == *status {
			out = append(out, l)
		}
	}
	return out, nil
}

type RemoteSource struct {
	remote RemoteLeadStore
}

func NewRemoteSource(remote RemoteLeadStore) *RemoteSource {
	return &RemoteSource{remote: remote}
}

func (s *RemoteSource) Name() string { return SourceRemote }

func (s *RemoteSource) FetchLeads(ctx context.Context, status *entity.Status) ([]entity.Lead, error) {
	return s.remote.QueryLeads(ctx, status)
}

// BuildSources monta as fontes habilitadas, sempre com a local antes da remota.
// Uma fonte habilitada sem backend é ignorada com um aviso.
func BuildSources(enabled []string, cache LeadCache, remote RemoteLeadStore) []LeadSource {
	log := logger.For("sources")
	want := map[string]bool{}
	for _, name := range enabled {
		want[name] = true
	}

	var sources []LeadSource
	if want[SourceLocal] {
		if cache != nil {
			sources = append(sources, NewLocalSource(cache))
		} else {
			log.Warn("⚠️ Fonte local habilitada sem armazenamento local, ignorando")
		}
	}
	if want[SourceRemote] {
		if remote != nil {
			sources = append(sources, NewRemoteSource(remote))
		} else {
			log.Warn("⚠️ Fonte remota habilitada sem backend configurado, ignorando")
		}
	}
	return sources
}
