package report

import (
	"time"

	"github.com/mennyrose/Bunker-data/internal/domain/entity"
)

// Criteria is the search filter applied to the raw ledger before
// re-aggregation. All predicates are ANDed; an empty unit or item set means
// "no filter on that dimension".
type Criteria struct {
	// Units keeps only receipts whose unit is a member. Empty = keep all.
	Units []string
	// Action filters by receipt type. Empty string and BALANCE both mean "do
	// not filter by type"; BALANCE additionally switches the summary into
	// balance mode (see Summarize).
	Action entity.ActionType
	// DateStart / DateEnd are inclusive bounds on the receipt timestamp. A
	// receipt without a timestamp is excluded whenever either bound is set,
	// and retained when neither is.
	DateStart *time.Time
	DateEnd   *time.Time
	// Items keeps only receipts where at least one line's sku or line id is a
	// member. Empty = keep all.
	Items []string
}

// BalanceMode reports whether the criteria selects the "current stock" report.
func (c Criteria) BalanceMode() bool {
	return c.Action == entity.ActionBalance
}

// filtersByType reports whether Action narrows the ledger at all.
func (c Criteria) filtersByType() bool {
	return c.Action != "" && c.Action != entity.ActionBalance
}

// Apply returns the receipts matching the criteria, in their original order
// (the ledger's timestamp-descending load order). The input slice is never
// mutated; the result is a fresh slice, so applying the same criteria twice is
// the same as applying it once.
func Apply(receipts []*entity.Receipt, c Criteria) []*entity.Receipt {
	units := toSet(c.Units)
	items := toSet(c.Items)

	out := make([]*entity.Receipt, 0, len(receipts))
	for _, r := range receipts {
		if len(units) > 0 {
			if _, ok := units[r.Unit]; !ok {
				continue
			}
		}
		if c.filtersByType() && r.Type != c.Action {
			continue
		}
		if !matchesDateRange(r.Timestamp, c.DateStart, c.DateEnd) {
			continue
		}
		if len(items) > 0 && !matchesItems(r.Items, items) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesDateRange(ts, start, end *time.Time) bool {
	if start == nil && end == nil {
		return true
	}
	// A bounded search cannot place an undated receipt, so it is excluded.
	if ts == nil {
		return false
	}
	if start != nil && ts.Before(*start) {
		return false
	}
	if end != nil && ts.After(*end) {
		return false
	}
	return true
}

func matchesItems(lines []entity.ItemLine, items map[string]struct{}) bool {
	for _, l := range lines {
		if l.SKU != "" {
			if _, ok := items[l.SKU]; ok {
				return true
			}
		}
		if l.ID != "" {
			if _, ok := items[l.ID]; ok {
				return true
			}
		}
	}
	return false
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
