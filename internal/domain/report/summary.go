package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mennyrose/Bunker-data/internal/domain/entity"
)

// Labels are the user-visible placeholder strings of the report. The defaults
// are the Hebrew vocabulary of the original dashboard; the battalion label and
// depot unit are configurable at startup.
type Labels struct {
	Battalion   string // pseudo-unit when battalion mode merges all units
	UnknownUnit string // movement rows whose receipt has no unit
	UnnamedItem string // skus with no resolvable display name
}

// DefaultLabels returns the placeholder vocabulary of the original dashboard.
func DefaultLabels() Labels {
	return Labels{
		Battalion:   "כלל הגדוד",
		UnknownUnit: "לא ידוע",
		UnnamedItem: "פריט ללא שם",
	}
}

// SummaryEntry is one row of the grouped management summary.
type SummaryEntry struct {
	Unit     string          `json:"unit"`
	SKU      string          `json:"sku"`
	ItemName string          `json:"item_name"`
	Total    decimal.Decimal `json:"total"`
}

// battalionKeyPrefix distinguishes battalion-merged keys from per-unit keys.
const battalionKeyPrefix = "battalion_"

// summaryBuilder accumulates keyed rows preserving first-seen key order.
// The item name is resolved once, when the key is first created, and never
// updated by later contributions.
type summaryBuilder struct {
	entries map[string]*SummaryEntry
	order   []string
}

func newSummaryBuilder() *summaryBuilder {
	return &summaryBuilder{entries: make(map[string]*SummaryEntry)}
}

func (b *summaryBuilder) add(key, unit, sku, itemName string, qty decimal.Decimal) {
	e, ok := b.entries[key]
	if !ok {
		e = &SummaryEntry{Unit: unit, SKU: sku, ItemName: itemName}
		b.entries[key] = e
		b.order = append(b.order, key)
	}
	e.Total = e.Total.Add(qty)
}

func (b *summaryBuilder) rows() []SummaryEntry {
	rows := make([]SummaryEntry, 0, len(b.order))
	for _, key := range b.order {
		rows = append(rows, *b.entries[key])
	}
	return rows
}

// Summarize produces the grouped, deduplicated management summary. The mode is
// selected by the criteria's action type:
//
// Balance mode (Action == BALANCE) reports a stock snapshot. It iterates the
// full-history balances, not the filtered receipts, because a balance is a
// point-in-time fact, not a windowed sum: the date range (and the type filter,
// which BALANCE disables anyway) deliberately do not narrow this mode's source
// data. Unit and item membership filters still apply as presence predicates,
// and rows whose balance is exactly zero are dropped. Display names resolve
// through the catalog by id-or-sku match.
//
// Movement mode reports transactions and therefore respects every active
// filter: it sums the quantities of the already-filtered receipts' lines,
// resolving names from the lines themselves (no catalog lookup).
//
// In battalion mode all units merge into a single pseudo-unit, keyed per sku,
// so the row count equals the number of distinct skus present.
func Summarize(
	filtered []*entity.Receipt,
	balances UnitBalances,
	c Criteria,
	battalionMode bool,
	catalog []entity.CatalogItem,
	labels Labels,
) []SummaryEntry {
	if c.BalanceMode() {
		return summarizeBalances(balances, c, battalionMode, catalog, labels)
	}
	return summarizeMovements(filtered, c, battalionMode, labels)
}

func summarizeBalances(
	balances UnitBalances,
	c Criteria,
	battalionMode bool,
	catalog []entity.CatalogItem,
	labels Labels,
) []SummaryEntry {
	units := toSet(c.Units)
	items := toSet(c.Items)
	b := newSummaryBuilder()

	// Go maps have no insertion order; sorted iteration keeps the output
	// deterministic across identical calls.
	for _, unit := range sortedKeys(balances) {
		if len(units) > 0 {
			if _, ok := units[unit]; !ok {
				continue
			}
		}
		unitName := unit
		if battalionMode {
			unitName = labels.Battalion
		}

		skus := make([]string, 0, len(balances[unit]))
		for sku := range balances[unit] {
			skus = append(skus, sku)
		}
		sort.Strings(skus)

		for _, sku := range skus {
			qty := balances[unit][sku]
			if qty.IsZero() {
				continue
			}
			catItem := lookupCatalog(catalog, sku)
			if len(items) > 0 && !balanceItemSelected(items, sku, catItem) {
				continue
			}
			itemName := labels.UnnamedItem
			if catItem != nil && catItem.Name != "" {
				itemName = catItem.Name
			}
			key := unitName + "_" + sku
			if battalionMode {
				key = battalionKeyPrefix + sku
			}
			b.add(key, unitName, sku, itemName, qty)
		}
	}
	return b.rows()
}

func summarizeMovements(
	filtered []*entity.Receipt,
	c Criteria,
	battalionMode bool,
	labels Labels,
) []SummaryEntry {
	items := toSet(c.Items)
	b := newSummaryBuilder()

	for _, r := range filtered {
		unitName := r.Unit
		if unitName == "" {
			unitName = labels.UnknownUnit
		}
		if battalionMode {
			unitName = labels.Battalion
		}
		for _, line := range r.Items {
			sku := line.SKU
			if sku == "" {
				continue
			}
			if len(items) > 0 && !movementItemSelected(items, sku, line.ID) {
				continue
			}
			itemName := line.Name
			if itemName == "" {
				itemName = labels.UnnamedItem
			}
			key := unitName + "_" + sku
			if battalionMode {
				key = battalionKeyPrefix + sku
			}
			b.add(key, unitName, sku, itemName, line.Quantity)
		}
	}
	return b.rows()
}

// lookupCatalog finds the catalog item whose id or sku matches, mirroring the
// interchangeable use of the two identifiers in the receipt documents.
func lookupCatalog(catalog []entity.CatalogItem, sku string) *entity.CatalogItem {
	for i := range catalog {
		if catalog[i].ID == sku || catalog[i].SKU == sku {
			return &catalog[i]
		}
	}
	return nil
}

func balanceItemSelected(items map[string]struct{}, sku string, catItem *entity.CatalogItem) bool {
	if _, ok := items[sku]; ok {
		return true
	}
	if catItem != nil {
		if _, ok := items[catItem.ID]; ok {
			return true
		}
	}
	return false
}

func movementItemSelected(items map[string]struct{}, sku, lineID string) bool {
	if _, ok := items[sku]; ok {
		return true
	}
	if lineID != "" {
		if _, ok := items[lineID]; ok {
			return true
		}
	}
	return false
}

func sortedKeys(balances UnitBalances) []string {
	keys := make([]string, 0, len(balances))
	for k := range balances {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
