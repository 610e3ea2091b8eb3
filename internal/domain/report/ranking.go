package report

import (
	"sort"

	"github.com/shopspring/decimal"
)

// UnitUsage is one entry of the usage ranking.
type UnitUsage struct {
	Unit  string          `json:"unit"`
	Usage decimal.Decimal `json:"usage"`
}

// Rank orders every unit in the usage totals by descending usage. Units with
// zero usage are included. Ties are broken by unit name so repeated calls on
// the same input produce the same order; callers must not attach meaning to
// the tie order. Consumers typically display only the first few entries, but
// the full ranking is always returned.
func Rank(totals UsageTotals) []UnitUsage {
	ranking := make([]UnitUsage, 0, len(totals))
	for unit, usage := range totals {
		ranking = append(ranking, UnitUsage{Unit: unit, Usage: usage})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if !ranking[i].Usage.Equal(ranking[j].Usage) {
			return ranking[i].Usage.GreaterThan(ranking[j].Usage)
		}
		return ranking[i].Unit < ranking[j].Unit
	})
	return ranking
}
