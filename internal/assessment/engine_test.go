package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edcellence/edpex-engine/internal/scoring"
	"github.com/edcellence/edpex-engine/internal/types"
)

func processItem(id, category string, pv int, a, d, l, i, gap float64) types.ProcessItem {
	return types.ProcessItem{
		ID:            id,
		Category:      category,
		PointValue:    pv,
		Indicators:    scoring.ProcessIndicators{Approach: a, Deployment: d, Learning: l, Integration: i},
		DeploymentGap: gap,
	}
}

func resultsItem(id, category string, pv int, lv, tr, cp, in, gap float64) types.ResultsItem {
	return types.ResultsItem{
		ID:            id,
		Category:      category,
		PointValue:    pv,
		Indicators:    scoring.ResultsIndicators{Level: lv, Trend: tr, Comparison: cp, Integration: in},
		DeploymentGap: gap,
	}
}

// fullBuilder queues one process item in each of the six process
// categories plus one results item, covering all seven.
func fullBuilder() *Builder {
	return NewBuilder("Engineering", "2026").
		AddProcessItem(processItem("1.1", scoring.CategoryLeadership, 70, 0.7, 0.8, 0.6, 0.75, 0.3)).
		AddProcessItem(processItem("2.1", scoring.CategoryStrategy, 45, 0.6, 0.5, 0.5, 0.6, 0.5)).
		AddProcessItem(processItem("3.1", scoring.CategoryCustomers, 40, 0.8, 0.7, 0.6, 0.7, 0.2)).
		AddProcessItem(processItem("4.1", scoring.CategoryMeasurement, 45, 0.75, 0.7, 0.65, 0.8, 0.25)).
		AddProcessItem(processItem("5.1", scoring.CategoryWorkforce, 40, 0.65, 0.6, 0.55, 0.6, 0.4)).
		AddProcessItem(processItem("6.1", scoring.CategoryOperations, 54, 0.7, 0.75, 0.6, 0.7, 0.35)).
		AddResultsItem(resultsItem("7.1", scoring.CategoryResults, 120, 0.8, 0.7, 0.6, 0.75, 0.3))
}

func TestFinalizeProducesConsistentResult(t *testing.T) {
	res, err := fullBuilder().Finalize()
	require.NoError(t, err)

	assert.Equal(t, "Engineering", res.Department)
	assert.Equal(t, "2026", res.Cycle)
	assert.Equal(t, 6, res.ProcessItemCount)
	assert.Equal(t, 1, res.ResultsItemCount)
	assert.Len(t, res.Items, 7)
	assert.Len(t, res.CategoryScores, 7)
	assert.Len(t, res.Aggregates, 7)

	// organizational score must equal the weighted sum over the
	// reported category scores
	expectedOrg, err := scoring.OrganizationalScore(res.CategoryScores, scoring.DefaultCategoryWeights())
	require.NoError(t, err)
	assert.InDelta(t, expectedOrg, res.OrganizationalScore, 1e-9)
	assert.GreaterOrEqual(t, res.OrganizationalScore, 0.0)
	assert.LessOrEqual(t, res.OrganizationalScore, 100.0)

	// maturity matches the organizational score
	maturity, err := scoring.ClassifyMaturity(res.OrganizationalScore)
	require.NoError(t, err)
	assert.Equal(t, maturity.Band, res.Maturity.Band)

	// IHI mixes the raw integration indicators with a flat split
	expectedIHI, err := scoring.IntegrationHealthIndex(
		[]float64{0.75, 0.6, 0.7, 0.8, 0.6, 0.7},
		[]float64{0.75},
	)
	require.NoError(t, err)
	assert.InDelta(t, expectedIHI, res.IHI, 1e-9)
}

func TestFinalizeRanksGapPriorities(t *testing.T) {
	res, err := fullBuilder().Finalize()
	require.NoError(t, err)
	require.Len(t, res.GapPriorities, 7)

	for i, g := range res.GapPriorities {
		assert.Equal(t, i+1, g.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, res.GapPriorities[i-1].Priority, g.Priority)
		}
		assert.Equal(t, DefaultTargetScore, g.TargetScore)
	}
}

func TestFinalizeTieBreakIsInsertionOrder(t *testing.T) {
	b := NewBuilder("Ops", "2026")
	// identical items in every scoring dimension produce identical
	// priorities; stable ranking keeps insertion order
	for _, id := range []string{"a", "b", "c"} {
		b.AddProcessItem(processItem(id, scoring.CategoryLeadership, 50, 0.5, 0.5, 0.5, 0.5, 0.5))
	}
	b.AddProcessItem(processItem("s", scoring.CategoryStrategy, 50, 0.5, 0.5, 0.5, 0.5, 0.5)).
		AddProcessItem(processItem("cu", scoring.CategoryCustomers, 50, 0.5, 0.5, 0.5, 0.5, 0.5)).
		AddProcessItem(processItem("m", scoring.CategoryMeasurement, 50, 0.5, 0.5, 0.5, 0.5, 0.5)).
		AddProcessItem(processItem("w", scoring.CategoryWorkforce, 50, 0.5, 0.5, 0.5, 0.5, 0.5)).
		AddProcessItem(processItem("o", scoring.CategoryOperations, 50, 0.5, 0.5, 0.5, 0.5, 0.5)).
		AddResultsItem(resultsItem("r", scoring.CategoryResults, 50, 0.5, 0.5, 0.5, 0.5, 0.5))

	res, err := b.Finalize()
	require.NoError(t, err)

	var order []string
	for _, g := range res.GapPriorities {
		order = append(order, g.ItemID)
	}
	assert.Equal(t, []string{"a", "b", "c", "s", "cu", "m", "w", "o", "r"}, order)
}

func TestFinalizeMissingCategoryIsFatal(t *testing.T) {
	b := NewBuilder("Engineering", "2026").
		AddProcessItem(processItem("1.1", scoring.CategoryLeadership, 70, 0.7, 0.8, 0.6, 0.75, 0.3)).
		AddResultsItem(resultsItem("7.1", scoring.CategoryResults, 120, 0.8, 0.7, 0.6, 0.75, 0.3))

	_, err := b.Finalize()
	require.Error(t, err)
	assert.True(t, scoring.IsKind(err, scoring.KindMissingCategory))
}

func TestFinalizeSurfacesFirstInvalidInput(t *testing.T) {
	b := fullBuilder().
		AddProcessItem(processItem("bad", scoring.CategoryLeadership, 30, 1.4, 0.5, 0.5, 0.5, 0.2))

	_, err := b.Finalize()
	require.Error(t, err)
	assert.True(t, scoring.IsKind(err, scoring.KindInvalidIndicator))
	assert.Contains(t, err.Error(), `"bad"`)
}

func TestFinalizeRejectsBadItemMetadata(t *testing.T) {
	tests := []struct {
		name string
		item types.ProcessItem
	}{
		{name: "empty id", item: processItem("", scoring.CategoryLeadership, 30, 0.5, 0.5, 0.5, 0.5, 0)},
		{name: "zero point value", item: processItem("x", scoring.CategoryLeadership, 0, 0.5, 0.5, 0.5, 0.5, 0)},
		{name: "unknown category", item: processItem("x", "Innovation", 30, 0.5, 0.5, 0.5, 0.5, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuilder("d", "c").AddProcessItem(tt.item).Finalize()
			assert.Error(t, err)
		})
	}
}

func TestFinalizeRejectsEmptyBuilder(t *testing.T) {
	_, err := NewBuilder("d", "c").Finalize()
	assert.Error(t, err)
}

func TestFinalizeIsSingleUse(t *testing.T) {
	b := fullBuilder()
	_, err := b.Finalize()
	require.NoError(t, err)

	_, err = b.Finalize()
	assert.Error(t, err)
}

func TestFinalizeHonorsCustomWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProcessWeights = scoring.ProcessWeights{Approach: 0.25, Deployment: 0.25, Learning: 0.25, Integration: 0.25}

	b := NewBuilder("Engineering", "2026", WithConfig(cfg))
	for i, cat := range scoring.Categories[:6] {
		b.AddProcessItem(processItem(string(rune('a'+i)), cat, 50, 0.4, 0.6, 0.8, 0.2, 0.1))
	}
	b.AddResultsItem(resultsItem("r", scoring.CategoryResults, 50, 0.5, 0.5, 0.5, 0.5, 0.1))

	res, err := b.Finalize()
	require.NoError(t, err)

	// equal ADLI weights make every process item score the plain mean
	assert.InDelta(t, 50.0, res.CategoryScores[scoring.CategoryLeadership], 1e-9)
}
