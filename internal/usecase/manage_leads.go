package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// ManageLeadsUseCase cobre as operações que só existem no backend remoto.
type ManageLeadsUseCase struct {
	Remote RemoteLeadStore
}

func NewManageLeadsUseCase(remote RemoteLeadStore) *ManageLeadsUseCase {
	return &ManageLeadsUseCase{Remote: remote}
}

func (uc *ManageLeadsUseCase) UpdateStatus(ctx context.Context, id, status string) (*entity.Lead, error) {
	if uc.Remote == nil {
		return nil, entity.ErrRemoteNotConfigured
	}
	if id == "" {
		return nil, &entity.ValidationError{Field: "id", Message: "is required"}
	}
	st, err := entity.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return uc.Remote.UpdateStatus(ctx, id, st)
}

func (uc *ManageLeadsUseCase) Delete(ctx context.Context, id string) error {
	if uc.Remote == nil {
		return entity.ErrRemoteNotConfigured
	}
	if id == "" {
		return &entity.ValidationError{Field: "id", Message: "is required"}
	}
	return uc.Remote.DeleteLead(ctx, id)
}
