package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ActionType is the kind of stock movement recorded on a receipt.
type ActionType string

// Movement kinds stored on receipts.
const (
	ActionIssue         ActionType = "ISSUE"          // depot -> unit
	ActionReturn        ActionType = "RETURN"         // unit -> depot
	ActionUsage         ActionType = "USAGE"          // consumed by the unit
	ActionStore         ActionType = "STORE"          // stored at the depot
	ActionRelease       ActionType = "RELEASE"        // released from depot storage
	ActionReceiveSupply ActionType = "RECEIVE_SUPPLY" // supply received into the depot
	ActionReturnSupply  ActionType = "RETURN_SUPPLY"  // supply sent back upstream
)

// ActionBalance is a report-mode selector ("current stock"), never a stored
// receipt type. When a search asks for BALANCE, the type filter is skipped and
// the summary switches to balance mode.
const ActionBalance ActionType = "BALANCE"

// StoredActionTypes lists every type that can appear on a persisted receipt.
var StoredActionTypes = []ActionType{
	ActionIssue, ActionReturn, ActionUsage,
	ActionStore, ActionRelease, ActionReceiveSupply, ActionReturnSupply,
}

// IsStored reports whether t is a valid persisted receipt type.
func (t ActionType) IsStored() bool {
	for _, s := range StoredActionTypes {
		if t == s {
			return true
		}
	}
	return false
}

// ItemLine is one line of a receipt document. The lines come from a schemaless
// JSON document, so every field is optional: a line without a SKU is skipped by
// the aggregation, and a quantity that is not a number is coerced to zero.
type ItemLine struct {
	ID       string          `json:"id,omitempty"`
	SKU      string          `json:"sku,omitempty"`
	Name     string          `json:"itemName,omitempty"`
	Quantity decimal.Decimal `json:"quantity"`
}

// UnmarshalJSON tolerates malformed lines: quantity may be a number, a numeric
// string, null, absent, or garbage; anything unparseable becomes zero rather
// than failing the whole receipt.
func (l *ItemLine) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       string          `json:"id"`
		SKU      string          `json:"sku"`
		Name     string          `json:"itemName"`
		Quantity json.RawMessage `json:"quantity"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.ID = raw.ID
	l.SKU = raw.SKU
	l.Name = raw.Name
	l.Quantity = coerceQuantity(raw.Quantity)
	return nil
}

func coerceQuantity(raw json.RawMessage) decimal.Decimal {
	if len(raw) == 0 {
		return decimal.Zero
	}
	var d decimal.Decimal
	if err := json.Unmarshal(raw, &d); err != nil {
		return decimal.Zero
	}
	return d
}

// Receipt is one stock-movement event from the external ledger. Receipts are
// read-only here: this service never writes movement events, it only reports
// over them. Timestamp is nil for legacy documents saved without one; such
// receipts still aggregate but are excluded from any date-bounded filter.
type Receipt struct {
	ID        string
	Unit      string
	Type      ActionType
	Timestamp *time.Time
	Items     []ItemLine
}
