package achievements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, CatalogVersion, c.Version())

	meta, ok := c.Meta()
	require.True(t, ok)
	assert.Equal(t, MetaSlug, meta.Slug)

	reg := NewMetricRegistry()
	for _, m := range c.Metrics() {
		assert.True(t, reg.Has(m), "metric %s has no resolver", m)
	}
	assert.NotContains(t, c.MetaPrerequisites(), "early_adopter")
	assert.NotContains(t, c.MetaPrerequisites(), "games_500")
	assert.NotContains(t, c.MetaPrerequisites(), "winter_helper")
}

func TestNewCatalogRejectsBadDefinitions(t *testing.T) {
	tests := []struct {
		name string
		defs []Definition
	}{
		{"empty slug", []Definition{{Kind: KindNormal, Metric: MetricGamePlays, Threshold: 1}}},
		{"duplicate slug", []Definition{
			{Slug: "x", Kind: KindNormal, Metric: MetricGamePlays, Threshold: 1},
			{Slug: "x", Kind: KindNormal, Metric: MetricGamePlays, Threshold: 2},
		}},
		{"two metas", []Definition{{Slug: "m1", Kind: KindMeta}, {Slug: "m2", Kind: KindMeta}}},
		{"meta with metric", []Definition{{Slug: "m", Kind: KindMeta, Metric: MetricGamePlays}}},
		{"normal without metric", []Definition{{Slug: "x", Kind: KindNormal}}},
		{"zero threshold", []Definition{{Slug: "x", Kind: KindNormal, Metric: MetricGamePlays}}},
		{"unknown kind", []Definition{{Slug: "x", Kind: "BONUS", Metric: MetricGamePlays, Threshold: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(1, tt.defs)
			assert.Error(t, err)
		})
	}
}

func TestCandidatesOrderAndFilter(t *testing.T) {
	c, err := NewCatalog(1, []Definition{
		{Slug: "ten", Kind: KindNormal, Metric: MetricLikesGiven, Threshold: 10, IsActive: true},
		{Slug: "one", Kind: KindNormal, Metric: MetricLikesGiven, Threshold: 1, IsActive: true},
		{Slug: "off", Kind: KindNormal, Metric: MetricLikesGiven, Threshold: 1, IsActive: false},
		{Slug: "five", Kind: KindNormal, Metric: MetricLikesGiven, Threshold: 5, IsActive: true},
		{Slug: "only_by_hand", Kind: KindNormal, Metric: MetricLikesGiven, Threshold: 1, IsActive: true, IsExclusive: true},
	})
	require.NoError(t, err)

	slugs := func(defs []Definition) []string {
		var out []string
		for _, d := range defs {
			out = append(out, d.Slug)
		}
		return out
	}
	assert.Equal(t, []string{"one", "five"}, slugs(c.Candidates(MetricLikesGiven, 7)))
	assert.Empty(t, c.Candidates(MetricLikesGiven, 0))
	assert.Empty(t, c.Candidates(MetricGamePlays, 100))
}

func TestVisibleHidesUnownedHidden(t *testing.T) {
	c := DefaultCatalog()
	for _, d := range c.Visible(nil) {
		assert.NotEqual(t, "games_500", d.Slug)
		assert.True(t, d.IsActive)
	}
	found := false
	for _, d := range c.Visible(map[string]struct{}{"games_500": {}}) {
		if d.Slug == "games_500" {
			found = true
		}
	}
	assert.True(t, found)
}
