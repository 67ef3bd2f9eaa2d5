package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/metrics"
	"github.com/xavierca1/ligue-crm/internal/logger"
)

// LeadListView é o estado de uma tela de listagem: busca, filtros e a última lista confirmada.
type LeadListView struct {
	sources []LeadSource
	filters FilterStore
	log     *logrus.Entry

	mu         sync.Mutex
	search     string
	selection  entity.Filters
	current    []entity.Lead
	generation uint64
	cancelPrev context.CancelFunc
}

// NewLeadListView restaura os filtros persistidos. filters pode ser nil.
func NewLeadListView(ctx context.Context, sources []LeadSource, filters FilterStore) *LeadListView {
	v := &LeadListView{
		sources:   sources,
		filters:   filters,
		log:       logger.For("lead_list"),
		selection: entity.DefaultFilters(),
		current:   []entity.Lead{},
	}

	if filters != nil {
		f, err := filters.LoadFilters(ctx)
		if err != nil {
			v.log.WithError(err).Warn("⚠️ Falha ao restaurar filtros, usando padrão")
		} else {
			v.selection = f
		}
	}
	return v
}

func (v *LeadListView) Search() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.search
}

func (v *LeadListView) SetSearch(search string) {
	v.mu.Lock()
	v.search = search
	v.mu.Unlock()
}

func (v *LeadListView) Filters() entity.Filters {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selection
}

// SetFilters aplica a seleção e a persiste. Se a gravação falhar a seleção continua aplicada
// e o erro é devolvido.
func (v *LeadListView) SetFilters(ctx context.Context, f entity.Filters) error {
	if f.Match == "" {
		f.Match = entity.MatchAnd
	}
	if f.Status == "" {
		f.Status = entity.StatusFilterAll
	}
	if err := f.Validate(); err != nil {
		return err
	}

	v.mu.Lock()
	v.selection = f
	v.mu.Unlock()

	if v.filters == nil {
		return nil
	}
	return v.filters.SaveFilters(ctx, f)
}

// Current devolve a última lista confirmada por Activate.
func (v *LeadListView) Current() []entity.Lead {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]entity.Lead, len(v.current))
	copy(out, v.current)
	return out
}

// Activate relê todas as fontes e confirma a lista filtrada. Só a ativação mais recente
// confirma; as anteriores são canceladas e devolvem ErrSuperseded.
func (v *LeadListView) Activate(ctx context.Context) ([]entity.Lead, error) {
	v.mu.Lock()
	v.generation++
	gen := v.generation
	if v.cancelPrev != nil {
		v.cancelPrev()
	}
	actx, cancel := context.WithCancel(ctx)
	v.cancelPrev = cancel
	search, selection := v.search, v.selection
	v.mu.Unlock()
	defer cancel()

	var pushdown *entity.Status
	if selection.Match != entity.MatchOr || search == "" {
		pushdown = selection.StatusOrNil()
	}

	merged := v.fetchAll(actx, pushdown)
	result := FilterLeads(merged, search, selection)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.generation {
		metrics.RecordActivationSuperseded()
		v.log.WithField("generation", gen).Debug("Ativação descartada, existe uma mais nova")
		return nil, ErrSuperseded
	}
	// Contexto do chamador cancelado: o resultado pode estar incompleto e não é confirmado.
	if err := actx.Err(); err != nil {
		v.log.WithError(err).Debug("Ativação cancelada, mantendo a lista anterior")
		return nil, err
	}
	v.current = result

	out := make([]entity.Lead, len(result))
	copy(out, result)
	return out, nil
}

// fetchAll consulta as fontes em paralelo e concatena na ordem configurada.
// Fonte com falha contribui com lista vazia.
func (v *LeadListView) fetchAll(ctx context.Context, status *entity.Status) []entity.Lead {
	results := make([][]entity.Lead, len(v.sources))

	var wg sync.WaitGroup
	for i, src := range v.sources {
		wg.Add(1)
		go func(i int, src LeadSource) {
			defer wg.Done()
			leads, err := src.FetchLeads(ctx, status)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					v.log.WithField("source", src.Name()).Debug("Busca cancelada")
					return
				}
				metrics.RecordSourceError(src.Name())
				v.log.WithError(err).WithField("source", src.Name()).Error("❌ Falha ao buscar leads, seguindo sem esta fonte")
				return
			}
			results[i] = leads
		}(i, src)
	}
	wg.Wait()

	merged := []entity.Lead{}
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged
}

// FilterLeads aplica busca por nome (sem diferenciar maiúsculas) e filtro de status.
// Em MatchOr um predicado inativo é ignorado em vez de contar como verdadeiro.
func FilterLeads(leads []entity.Lead, search string, f entity.Filters) []entity.Lead {
	needle := strings.ToLower(search)
	status := f.StatusOrNil()
	searchActive := needle != ""
	statusActive := status != nil
	either := f.Match == entity.MatchOr && searchActive && statusActive

	out := make([]entity.Lead, 0, len(leads))
	for _, l := range leads {
		nameOK := !searchActive || strings.Contains(strings.ToLower(l.Name), needle)
		statusOK := !statusActive || l.Status == *status

		keep := nameOK && statusOK
		if either {
			keep = nameOK || statusOK
		}
		if keep {
			out = append(out, l)
		}
	}
	return out
}
