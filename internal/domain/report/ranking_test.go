package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mennyrose/Bunker-data/internal/domain/entity"
	"github.com/mennyrose/Bunker-data/internal/domain/report"
)

func TestRank_DescendingByUsage(t *testing.T) {
	totals := report.UsageTotals{
		"A": qty(5),
		"B": qty(9),
		"C": qty(1),
	}

	ranking := report.Rank(totals)

	require.Len(t, ranking, 3)
	assert.Equal(t, "B", ranking[0].Unit)
	assert.Equal(t, "A", ranking[1].Unit)
	assert.Equal(t, "C", ranking[2].Unit)
	assert.True(t, ranking[0].Usage.Equal(qty(9)))
}

func TestRank_IncludesZeroUsageUnits(t *testing.T) {
	totals := report.UsageTotals{
		"active": qty(3),
		"idle":   qty(0),
	}

	ranking := report.Rank(totals)

	require.Len(t, ranking, 2, "zero-usage units must still be ranked")
	assert.Equal(t, "idle", ranking[1].Unit)
}

func TestRank_EmptyTotals(t *testing.T) {
	assert.Empty(t, report.Rank(report.UsageTotals{}))
}

// Re-running on the same totals yields the same order, ties included.
func TestRank_Idempotent(t *testing.T) {
	totals := report.UsageTotals{
		"A": qty(4), "B": qty(4), "C": qty(4), "D": qty(10),
	}

	first := report.Rank(totals)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, report.Rank(totals), "ranking must be deterministic")
	}
	assert.Equal(t, "D", first[0].Unit)
}

// Ranking over aggregated usage for two units with different totals.
func TestRank_FromAggregatedLedger(t *testing.T) {
	ledger := []*entity.Receipt{
		receipt("A", entity.ActionUsage, line("X", 5)),
		receipt("B", entity.ActionUsage, line("X", 9)),
	}
	_, usage := report.Aggregate(ledger, testDepot)

	ranking := report.Rank(usage)

	require.Len(t, ranking, 2)
	assert.Equal(t, "B", ranking[0].Unit)
	assert.True(t, ranking[0].Usage.Equal(qty(9)))
	assert.Equal(t, "A", ranking[1].Unit)
	assert.True(t, ranking[1].Usage.Equal(qty(5)))
}
