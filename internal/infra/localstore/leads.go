package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/metrics"
)

// LoadLeads devolve os leads locais, mais recentes primeiro.
// Blob malformado é logado e tratado como vazio.
func (s *Store) LoadLeads(ctx context.Context) ([]entity.Lead, error) {
	raw, ok, err := getRaw(ctx, s.db, LeadsKey)
	if err != nil {
		metrics.RecordStorageError("read")
		return nil, &entity.StorageReadError{Key: LeadsKey, Err: err}
	}
	if !ok {
		return []entity.Lead{}, nil
	}

	leads, err := decodeLeads(raw)
	if err != nil {
		metrics.RecordStorageError("decode")
		s.log.WithError(err).Warn("⚠️ Blob de leads malformado, tratando como vazio")
		return []entity.Lead{}, nil
	}

	return leads, nil
}

// AppendLead insere o lead no início da sequência e grava o blob inteiro numa transação.
// Em caso de erro nada é gravado.
func (s *Store) AppendLead(ctx context.Context, lead entity.Lead) (err error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		metrics.RecordStorageError("write")
		return &entity.StorageWriteError{Key: LeadsKey, Err: err}
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			metrics.RecordStorageError("write")
		}
	}()

	raw, ok, err := getRaw(ctx, tx, LeadsKey)
	if err != nil {
		return &entity.StorageWriteError{Key: LeadsKey, Err: &entity.StorageReadError{Key: LeadsKey, Err: err}}
	}

	leads := []entity.Lead{}
	if ok {
		// Não sobrescreve um blob que não conseguimos ler.
		leads, err = decodeLeads(raw)
		if err != nil {
			return &entity.StorageWriteError{Key: LeadsKey, Err: &entity.StorageReadError{Key: LeadsKey, Err: err}}
		}
	}

	leads = append([]entity.Lead{lead}, leads...)

	body, err := json.Marshal(leads)
	if err != nil {
		return &entity.StorageWriteError{Key: LeadsKey, Err: err}
	}

	if err = putRaw(ctx, tx, LeadsKey, string(body)); err != nil {
		return &entity.StorageWriteError{Key: LeadsKey, Err: err}
	}

	if err = tx.Commit(); err != nil {
		return &entity.StorageWriteError{Key: LeadsKey, Err: err}
	}

	s.log.WithField("name", lead.Name).Debug("Lead salvo localmente")
	return nil
}

func decodeLeads(raw string) ([]entity.Lead, error) {
	var leads []entity.Lead
	if err := json.Unmarshal([]byte(raw), &leads); err != nil {
		return nil, fmt.Errorf("decode %s: %w", LeadsKey, err)
	}
	if leads == nil {
		leads = []entity.Lead{}
	}
	return leads, nil
}
