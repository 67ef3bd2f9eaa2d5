package localstore

import (
	"context"
	"encoding/json"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/metrics"
)

func (s *Store) SaveFilters(ctx context.Context, f entity.Filters) error {
	body, err := json.Marshal(f)
	if err != nil {
		return &entity.StorageWriteError{Key: FiltersKey, Err: err}
	}

	if err := putRaw(ctx, s.db, FiltersKey, string(body)); err != nil {
		metrics.RecordStorageError("write")
		return &entity.StorageWriteError{Key: FiltersKey, Err: err}
	}
	return nil
}

// LoadFilters devolve DefaultFilters quando não há nada salvo ou o valor é inválido.
func (s *Store) LoadFilters(ctx context.Context) (entity.Filters, error) {
	raw, ok, err := getRaw(ctx, s.db, FiltersKey)
	if err != nil {
		metrics.RecordStorageError("read")
		return entity.DefaultFilters(), &entity.StorageReadError{Key: FiltersKey, Err: err}
	}
	if !ok {
		return entity.DefaultFilters(), nil
	}

	var f entity.Filters
	if err := json.Unmarshal([]byte(raw), &f); err != nil || f.Validate() != nil {
		metrics.RecordStorageError("decode")
		s.log.Warn("⚠️ leadFilters malformado, usando filtros padrão")
		return entity.DefaultFilters(), nil
	}

	return f, nil
}
