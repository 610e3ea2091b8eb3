// Package report is the aggregation core of the dashboard: pure functions that
// fold the receipt ledger into per-unit balances, usage rankings and grouped
// summaries. Nothing in this package performs I/O or mutates its inputs; every
// call rebuilds its result from the slice it is given.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/mennyrose/Bunker-data/internal/domain/entity"
)

// UnitBalances maps unit -> sku -> signed running quantity. Absent unit or sku
// means balance zero (sparse). Entries that reach exactly zero are kept; the
// zero check is a render-time rule, not an accumulation rule.
type UnitBalances map[string]map[string]decimal.Decimal

// UsageTotals maps unit -> total USAGE quantity over the aggregated receipts.
type UsageTotals map[string]decimal.Decimal

// Balance returns the running balance for (unit, sku), zero when absent.
func (b UnitBalances) Balance(unit, sku string) decimal.Decimal {
	skus, ok := b[unit]
	if !ok {
		return decimal.Zero
	}
	q, ok := skus[sku]
	if !ok {
		return decimal.Zero
	}
	return q
}

// TotalHeld sums every sku balance a unit currently holds.
func (b UnitBalances) TotalHeld(unit string) decimal.Decimal {
	total := decimal.Zero
	for _, q := range b[unit] {
		total = total.Add(q)
	}
	return total
}

// Aggregate folds the receipt ledger into per-unit running balances and
// per-unit usage totals. depotUnit is the distinguished central unit; its
// receipts (and receipts with no unit at all) are skipped entirely, so neither
// appears as a key in the output.
//
// Signed deltas per receipt type:
//
//	ISSUE   +quantity   stock moves from the depot to the unit
//	RETURN  -quantity   stock moves back to the depot
//	USAGE   -quantity   consumption; also accumulated into the usage total
//
// STORE, RELEASE, RECEIVE_SUPPLY and RETURN_SUPPLY are depot-side movements
// and do not change unit balances. That leaves supply intake invisible to the
// balance report; the behavior is pinned by a test so changing it is a
// deliberate act.
//
// Aggregate never fails: a line without a SKU is skipped and quantities were
// already coerced to zero at decode time if malformed. A unit that appears on
// any receipt is present in both outputs even when no line qualifies (its
// usage total is zero), so the ranking includes idle units.
func Aggregate(receipts []*entity.Receipt, depotUnit string) (UnitBalances, UsageTotals) {
	balances := make(UnitBalances)
	usage := make(UsageTotals)

	for _, r := range receipts {
		unit := r.Unit
		if unit == "" || unit == depotUnit {
			continue
		}
		if _, ok := balances[unit]; !ok {
			balances[unit] = make(map[string]decimal.Decimal)
		}
		if _, ok := usage[unit]; !ok {
			usage[unit] = decimal.Zero
		}

		for _, line := range r.Items {
			sku := line.SKU
			if sku == "" {
				continue
			}
			qty := line.Quantity

			switch r.Type {
			case entity.ActionIssue:
				balances[unit][sku] = balances[unit][sku].Add(qty)
			case entity.ActionReturn:
				balances[unit][sku] = balances[unit][sku].Sub(qty)
			case entity.ActionUsage:
				balances[unit][sku] = balances[unit][sku].Sub(qty)
				usage[unit] = usage[unit].Add(qty)
			}
		}
	}
	return balances, usage
}
