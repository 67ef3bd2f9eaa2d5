package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestManageLeads_NoRemote(t *testing.T) {
	uc := NewManageLeadsUseCase(nil)

	_, err := uc.UpdateStatus(context.Background(), "1", "New")
	assert.ErrorIs(t, err, entity.ErrRemoteNotConfigured)
	assert.ErrorIs(t, uc.Delete(context.Background(), "1"), entity.ErrRemoteNotConfigured)
}

func TestManageLeads_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	remote := new(MockRemoteStore)
	updated := &entity.Lead{ID: "1", Name: "Jane Doe", Status: entity.StatusQualified}
	remote.On("UpdateStatus", ctx, "1", entity.StatusQualified).Return(updated, nil)

	got, err := NewManageLeadsUseCase(remote).UpdateStatus(ctx, "1", "Qualified")

	require.NoError(t, err)
	assert.Equal(t, entity.StatusQualified, got.Status)
	remote.AssertExpectations(t)
}

func TestManageLeads_UpdateStatusRejectsUnknown(t *testing.T) {
	remote := new(MockRemoteStore)
	_, err := NewManageLeadsUseCase(remote).UpdateStatus(context.Background(), "1", "Lost")

	assert.True(t, IsDomainError(err))
	remote.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestManageLeads_DeleteNotFound(t *testing.T) {
	ctx := context.Background()
	remote := new(MockRemoteStore)
	remote.On("DeleteLead", ctx, "missing").Return(entity.ErrLeadNotFound)

	err := NewManageLeadsUseCase(remote).Delete(ctx, "missing")

	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, IsDomainError(&DomainError{Code: "X"}))
	assert.True(t, IsDomainError(&entity.ValidationError{Field: "name"}))
	assert.False(t, IsDomainError(entity.ErrLeadNotFound))
	assert.True(t, IsTechnicalError(&entity.RemoteQueryError{Op: "query"}))
	assert.True(t, IsTechnicalError(&TechnicalError{Code: "DB", Message: "down"}))
	assert.False(t, IsTechnicalError(ErrSuperseded))
}
