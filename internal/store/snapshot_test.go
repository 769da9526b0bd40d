package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Resilience/internal/catalog"
	"github.com/MikeSquared-Agency/Resilience/internal/scoring"
)

func TestMergeSingleItemGivesFullCoverage(t *testing.T) {
	cat := catalog.Default()
	merged := Merge(cat, Snapshot{Items: []catalog.MetricValue{{ID: "autonomy", Value: 90}}})

	require.Len(t, merged.Items, cat.Len())
	for i, d := range cat.Definitions() {
		assert.Equal(t, d.ID, merged.Items[i].ID)
		want := d.Default
		if d.ID == "autonomy" {
			want = 90
		}
		assert.Equal(t, want, merged.Items[i].Value, d.ID)
	}
	require.NotNil(t, merged.Weights)
	assert.Equal(t, scoring.DefaultWeights(), *merged.Weights)
	assert.Nil(t, merged.Context)
	assert.Equal(t, CurrentVersion, merged.Version)
}

func TestMergeDropsUnknownAndClamps(t *testing.T) {
	cat := catalog.Default()
	merged := Merge(cat, Snapshot{Items: []catalog.MetricValue{
		{ID: "retired_metric", Value: 12},
		{ID: "skills", Value: 400},
		{ID: "learning", Value: -30},
	}})

	require.Len(t, merged.Items, cat.Len())
	for _, it := range merged.Items {
		assert.True(t, cat.Has(it.ID), it.ID)
	}
	assert.Equal(t, 100, valueOf(t, merged.Items, "skills"))
	assert.Equal(t, 0, valueOf(t, merged.Items, "learning"))
}

func TestMergeDuplicateIDLastWins(t *testing.T) {
	merged := Merge(catalog.Default(), Snapshot{Items: []catalog.MetricValue{
		{ID: "skills", Value: 20},
		{ID: "skills", Value: 70},
	}})
	assert.Equal(t, 70, valueOf(t, merged.Items, "skills"))
}

func TestMergeKeepsWeightsAndContext(t *testing.T) {
	w := scoring.WeightPair{CapacityWeight: 0.1, AdaptabilityWeight: 0.9}
	c := AssessmentContext{TeamName: "Edge", AssessmentDate: "2026-10-14"}
	merged := Merge(catalog.Default(), Snapshot{Weights: &w, Context: &c})

	require.NotNil(t, merged.Weights)
	assert.Equal(t, w, *merged.Weights)
	require.NotNil(t, merged.Context)
	assert.Equal(t, c, *merged.Context)

	// The merged snapshot owns its own copies.
	c.TeamName = "changed"
	assert.Equal(t, "Edge", merged.Context.TeamName)
}

func TestMergeIsIdempotent(t *testing.T) {
	cat := catalog.Default()
	partial := Snapshot{Items: []catalog.MetricValue{{ID: "autonomy", Value: 90}, {ID: "ghost", Value: 1}}}

	once := Merge(cat, partial)
	twice := Merge(cat, partial)
	assert.Equal(t, once, twice)
	assert.Equal(t, once, Merge(cat, once))
}
