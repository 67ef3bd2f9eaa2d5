package usecase

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type MockLeadCache struct {
	mock.Mock
}

func (m *MockLeadCache) LoadLeads(ctx context.Context) ([]entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadCache) AppendLead(ctx context.Context, lead entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

type MockFilterStore struct {
	mock.Mock
}

func (m *MockFilterStore) SaveFilters(ctx context.Context, f entity.Filters) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFilterStore) LoadFilters(ctx context.Context) (entity.Filters, error) {
	args := m.Called(ctx)
	return args.Get(0).(entity.Filters), args.Error(1)
}

type MockRemoteStore struct {
	mock.Mock
}

func (m *MockRemoteStore) QueryLeads(ctx context.Context, status *entity.Status) ([]entity.Lead, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockRemoteStore) InsertLead(ctx context.Context, lead entity.Lead) (*entity.Lead, error) {
	args := m.Called(ctx, lead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockRemoteStore) UpdateStatus(ctx context.Context, id string, status entity.Status) (*entity.Lead, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockRemoteStore) DeleteLead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishLeadCreated(ctx context.Context, lead entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

// recordingSource devolve uma lista fixa e guarda o status recebido.
type recordingSource struct {
	name  string
	leads []entity.Lead
	err   error

	mu       sync.Mutex
	statuses []*entity.Status
}

func (s *recordingSource) Name() string { return s.name }

func (s *recordingSource) FetchLeads(_ context.Context, status *entity.Status) ([]entity.Lead, error) {
	s.mu.Lock()
	s.statuses = append(s.statuses, status)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.leads, nil
}

func (s *recordingSource) lastStatus() *entity.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.statuses) == 0 {
		return nil
	}
	return s.statuses[len(s.statuses)-1]
}
