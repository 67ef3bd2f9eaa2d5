package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

func mkLead(name string, status entity.Status) entity.Lead {
	return entity.Lead{
		Name:          name,
		Status:        status,
		Qualification: entity.QualificationHighSchool,
		Source:        entity.SourceWebsite,
		UpdatedAt:     time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func names(leads []entity.Lead) []string {
	out := make([]string, len(leads))
	for i, l := range leads {
		out[i] = l.Name
	}
	return out
}

var sample = []entity.Lead{
	mkLead("Jane Doe", entity.StatusNew),
	mkLead("John Smith", entity.StatusQualified),
	mkLead("JANET Lee", entity.StatusQualified),
	mkLead("Bob Stone", entity.StatusFollowUp),
}

func TestFilterLeads_EmptySearchAndAllKeepsEverything(t *testing.T) {
	got := FilterLeads(sample, "", entity.DefaultFilters())
	assert.Equal(t, names(sample), names(got))
}

func TestFilterLeads_SearchIsCaseInsensitive(t *testing.T) {
	got := FilterLeads(sample, "jAnE", entity.DefaultFilters())
	assert.Equal(t, []string{"Jane Doe", "JANET Lee"}, names(got))
}

func TestFilterLeads_StatusFilter(t *testing.T) {
	f := entity.Filters{Status: entity.StatusFilter(entity.StatusQualified), Match: entity.MatchAnd}
	got := FilterLeads(sample, "", f)
	assert.Equal(t, []string{"John Smith", "JANET Lee"}, names(got))
}

func TestFilterLeads_AndRequiresBoth(t *testing.T) {
	f := entity.Filters{Status: entity.StatusFilter(entity.StatusQualified), Match: entity.MatchAnd}
	got := FilterLeads(sample, "jan", f)
	assert.Equal(t, []string{"JANET Lee"}, names(got))
}

func TestFilterLeads_OrAcceptsEither(t *testing.T) {
	f := entity.Filters{Status: entity.StatusFilter(entity.StatusFollowUp), Match: entity.MatchOr}
	got := FilterLeads(sample, "jan", f)
	assert.Equal(t, []string{"Jane Doe", "JANET Lee", "Bob Stone"}, names(got))
}

func TestFilterLeads_OrIgnoresInactivePredicate(t *testing.T) {
	// Sem busca, OR se comporta como o filtro de status sozinho.
	f := entity.Filters{Status: entity.StatusFilter(entity.StatusFollowUp), Match: entity.MatchOr}
	got := FilterLeads(sample, "", f)
	assert.Equal(t, []string{"Bob Stone"}, names(got))

	got = FilterLeads(sample, "smith", entity.Filters{Status: entity.StatusFilterAll, Match: entity.MatchOr})
	assert.Equal(t, []string{"John Smith"}, names(got))
}

func TestFilterLeads_NoMatch(t *testing.T) {
	got := FilterLeads(sample, "zzz", entity.DefaultFilters())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNewLeadListView_RestoresFilters(t *testing.T) {
	ctx := context.Background()
	store := new(MockFilterStore)
	saved := entity.Filters{Status: "Qualified", Match: entity.MatchOr}
	store.On("LoadFilters", ctx).Return(saved, nil)

	v := NewLeadListView(ctx, nil, store)

	assert.Equal(t, saved, v.Filters())
	store.AssertExpectations(t)
}

func TestNewLeadListView_FilterLoadErrorUsesDefault(t *testing.T) {
	ctx := context.Background()
	store := new(MockFilterStore)
	store.On("LoadFilters", ctx).Return(entity.Filters{}, &entity.StorageReadError{Key: "leadFilters", Err: errors.New("io")})

	v := NewLeadListView(ctx, nil, store)

	assert.Equal(t, entity.DefaultFilters(), v.Filters())
}

func TestSetFilters_PersistsSelection(t *testing.T) {
	ctx := context.Background()
	store := new(MockFilterStore)
	store.On("LoadFilters", ctx).Return(entity.DefaultFilters(), nil)
	want := entity.Filters{Status: "Converted", Match: entity.MatchAnd}
	store.On("SaveFilters", ctx, want).Return(nil)

	v := NewLeadListView(ctx, nil, store)
	require.NoError(t, v.SetFilters(ctx, entity.Filters{Status: "Converted"}))

	assert.Equal(t, want, v.Filters())
	store.AssertExpectations(t)
}

func TestSetFilters_RejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	store := new(MockFilterStore)
	store.On("LoadFilters", ctx).Return(entity.DefaultFilters(), nil)

	v := NewLeadListView(ctx, nil, store)
	err := v.SetFilters(ctx, entity.Filters{Status: "Lost", Match: entity.MatchAnd})

	require.Error(t, err)
	assert.True(t, IsDomainError(err))
	assert.Equal(t, entity.DefaultFilters(), v.Filters())
	store.AssertNotCalled(t, "SaveFilters", mock.Anything, mock.Anything)
}

func TestSetFilters_SaveFailureKeepsSelection(t *testing.T) {
	ctx := context.Background()
	store := new(MockFilterStore)
	store.On("LoadFilters", ctx).Return(entity.DefaultFilters(), nil)
	store.On("SaveFilters", ctx, mock.Anything).Return(&entity.StorageWriteError{Key: "leadFilters", Err: errors.New("disk full")})

	v := NewLeadListView(ctx, nil, store)
	err := v.SetFilters(ctx, entity.Filters{Status: "New", Match: entity.MatchOr})

	require.Error(t, err)
	assert.True(t, IsTechnicalError(err))
	assert.Equal(t, entity.StatusFilter("New"), v.Filters().Status)
}

func TestActivate_MergesLocalBeforeRemote(t *testing.T) {
	ctx := context.Background()
	local := &recordingSource{name: SourceLocal, leads: []entity.Lead{mkLead("Local One", entity.StatusNew)}}
	remote := &recordingSource{name: SourceRemote, leads: []entity.Lead{mkLead("Remote One", entity.StatusNew), mkLead("Remote Two", entity.StatusNew)}}

	v := NewLeadListView(ctx, []LeadSource{local, remote}, nil)
	got, err := v.Activate(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"Local One", "Remote One", "Remote Two"}, names(got))
	assert.Equal(t, names(got), names(v.Current()))
}

func TestActivate_FailingSourceDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	cache := new(MockLeadCache)
	cache.On("LoadLeads", mock.Anything).Return([]entity.Lead{mkLead("Jane Doe", entity.StatusNew)}, nil)
	remote := new(MockRemoteStore)
	remote.On("QueryLeads", mock.Anything, mock.Anything).Return(nil, &entity.RemoteQueryError{Op: "query", Err: errors.New("timeout")})

	v := NewLeadListView(ctx, BuildSources([]string{SourceLocal, SourceRemote}, cache, remote), nil)
	got, err := v.Activate(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Doe"}, names(got))
	remote.AssertExpectations(t)
}

func TestActivate_AppliesSearchAndStatus(t *testing.T) {
	ctx := context.Background()
	src := &recordingSource{name: SourceLocal, leads: sample}
	store := new(MockFilterStore)
	store.On("LoadFilters", ctx).Return(entity.Filters{Status: "Qualified", Match: entity.MatchAnd}, nil)

	v := NewLeadListView(ctx, []LeadSource{src}, store)
	v.SetSearch("smith")
	got, err := v.Activate(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"John Smith"}, names(got))
	require.NotNil(t, src.lastStatus())
	assert.Equal(t, entity.StatusQualified, *src.lastStatus())
}

func TestActivate_OrWithSearchDoesNotPushStatusDown(t *testing.T) {
	ctx := context.Background()
	src := &recordingSource{name: SourceLocal, leads: sample}
	store := new(MockFilterStore)
	store.On("LoadFilters", ctx).Return(entity.Filters{Status: "Follow-Up", Match: entity.MatchOr}, nil)

	v := NewLeadListView(ctx, []LeadSource{src}, store)
	v.SetSearch("jane")
	got, err := v.Activate(ctx)

	require.NoError(t, err)
	assert.Nil(t, src.lastStatus())
	assert.Equal(t, []string{"Jane Doe", "JANET Lee", "Bob Stone"}, names(got))
}

// gatedSource bloqueia a primeira chamada até o contexto ser cancelado.
type gatedSource struct {
	started chan struct{}
	once    sync.Once
	mu      sync.Mutex
	calls   int
	leads   []entity.Lead
}

func (s *gatedSource) Name() string { return SourceRemote }

func (s *gatedSource) FetchLeads(ctx context.Context, _ *entity.Status) ([]entity.Lead, error) {
	s.mu.Lock()
	s.calls++
	first := s.calls == 1
	s.mu.Unlock()

	if first {
		s.once.Do(func() { close(s.started) })
		<-ctx.Done()
		return []entity.Lead{mkLead("Stale", entity.StatusNew)}, ctx.Err()
	}
	return s.leads, nil
}

func TestActivate_LastActivationWins(t *testing.T) {
	ctx := context.Background()
	src := &gatedSource{started: make(chan struct{}), leads: []entity.Lead{mkLead("Fresh", entity.StatusNew)}}
	v := NewLeadListView(ctx, []LeadSource{src}, nil)

	type result struct {
		leads []entity.Lead
		err   error
	}
	first := make(chan result, 1)
	go func() {
		leads, err := v.Activate(ctx)
		first <- result{leads, err}
	}()

	<-src.started
	got, err := v.Activate(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fresh"}, names(got))

	select {
	case r := <-first:
		assert.ErrorIs(t, r.err, ErrSuperseded)
		assert.Nil(t, r.leads)
	case <-time.After(2 * time.Second):
		t.Fatal("first activation did not return")
	}

	assert.Equal(t, []string{"Fresh"}, names(v.Current()))
}

func TestCurrent_EmptyBeforeActivate(t *testing.T) {
	v := NewLeadListView(context.Background(), nil, nil)
	assert.NotNil(t, v.Current())
	assert.Empty(t, v.Current())
}

// ctxSource respeita o cancelamento como um backend real faria.
type ctxSource struct {
	leads []entity.Lead
}

func (s *ctxSource) Name() string { return SourceRemote }

func (s *ctxSource) FetchLeads(ctx context.Context, _ *entity.Status) ([]entity.Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.leads, nil
}

func TestActivate_CancelledCallerKeepsCurrent(t *testing.T) {
	src := &ctxSource{leads: []entity.Lead{mkLead("Good", entity.StatusNew)}}
	v := NewLeadListView(context.Background(), []LeadSource{src}, nil)

	_, err := v.Activate(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Good"}, names(v.Current()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	leads, err := v.Activate(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, leads)
	assert.Equal(t, []string{"Good"}, names(v.Current()))
}
