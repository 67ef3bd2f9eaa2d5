package entity_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestNewLeadAppliesDefaults(t *testing.T) {
	before := time.Now().UTC()

	lead, err := entity.NewLead(entity.Lead{Name: "  Jane Doe ", Contact: "+91 98765 43210"})
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", lead.Name)
	assert.Equal(t, entity.StatusNew, lead.Status)
	assert.Equal(t, entity.QualificationHighSchool, lead.Qualification)
	assert.Equal(t, entity.SourceWebsite, lead.Source)
	assert.False(t, lead.UpdatedAt.Before(before))
	assert.Empty(t, lead.ID)
}

func TestNewLeadKeepsExplicitValues(t *testing.T) {
	stamp := time.Date(2025, 5, 22, 23, 2, 0, 0, time.UTC)

	lead, err := entity.NewLead(entity.Lead{
		Name:          "Kari Legros",
		Status:        entity.StatusFollowUp,
		Qualification: entity.QualificationMasters,
		Source:        entity.SourceEmailCampaign,
		UpdatedAt:     stamp,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusFollowUp, lead.Status)
	assert.Equal(t, entity.QualificationMasters, lead.Qualification)
	assert.Equal(t, entity.SourceEmailCampaign, lead.Source)
	assert.Equal(t, stamp, lead.UpdatedAt)
}

func TestNewLeadRequiresName(t *testing.T) {
	_, err := entity.NewLead(entity.Lead{Name: "   "})
	require.Error(t, err)

	var vErr *entity.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "name", vErr.Field)
}

func TestNewLeadRejectsUnknownEnums(t *testing.T) {
	cases := map[string]entity.Lead{
		"status":        {Name: "A", Status: "Lost"},
		"qualification": {Name: "A", Qualification: "Diploma"},
		"source":        {Name: "A", Source: "Billboard"},
	}

	for field, input := range cases {
		t.Run(field, func(t *testing.T) {
			_, err := entity.NewLead(input)
			var vErr *entity.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, field, vErr.Field)
		})
	}
}

func TestTouchIsStrictlyIncreasing(t *testing.T) {
	stamp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	lead := entity.Lead{Name: "A", UpdatedAt: stamp}

	// relógio atrasado não pode voltar o UpdatedAt
	lead.Touch(stamp.Add(-time.Hour))
	assert.Equal(t, stamp.Add(time.Microsecond), lead.UpdatedAt)

	later := stamp.Add(time.Hour)
	lead.Touch(later)
	assert.Equal(t, later, lead.UpdatedAt)
}

func TestStatusNamesFollowFunnelOrder(t *testing.T) {
	assert.Equal(t, "New, Follow-Up, Qualified, Converted", entity.StatusNames())

	_, err := entity.ParseStatus("Lost")
	var vErr *entity.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "must be one of New, Follow-Up, Qualified, Converted", vErr.Message)

	// Statuses devolve uma cópia
	all := entity.Statuses()
	all[0] = "Lost"
	assert.Equal(t, entity.StatusNew, entity.Statuses()[0])
}

func TestFilters(t *testing.T) {
	assert.Equal(t, entity.Filters{Status: "All", Match: "AND"}, entity.DefaultFilters())
	assert.Nil(t, entity.DefaultFilters().StatusOrNil())

	f := entity.Filters{Status: entity.StatusFilter(entity.StatusQualified), Match: entity.MatchOr}
	require.NoError(t, f.Validate())
	require.NotNil(t, f.StatusOrNil())
	assert.Equal(t, entity.StatusQualified, *f.StatusOrNil())

	assert.Error(t, entity.Filters{Status: "Lost", Match: entity.MatchAnd}.Validate())
	assert.Error(t, entity.Filters{Status: "All", Match: "XOR"}.Validate())

	_, err := entity.ParseMatchMode("XOR")
	assert.Error(t, err)
	m, err := entity.ParseMatchMode("")
	require.NoError(t, err)
	assert.Equal(t, entity.MatchAnd, m)
}

func TestStorageErrorsUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := error(&entity.StorageWriteError{Key: "leads", Err: cause})
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "leads")
}
