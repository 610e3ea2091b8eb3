package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mennyrose/Bunker-data/internal/domain/entity"
	"github.com/mennyrose/Bunker-data/internal/domain/report"
)

const dateLayout = "2006-01-02"

// SearchRequest body for POST /api/reports/search and /api/reports/export.
// Empty slices and strings mean "no filter on this dimension". Action may be
// a movement type, "BALANCE" for a stock snapshot, or empty (same as
// BALANCE-less: no type filter, movement summary).
type SearchRequest struct {
	Units     []string `json:"units"`
	Action    string   `json:"action"`
	DateStart string   `json:"date_start"` // YYYY-MM-DD, inclusive
	DateEnd   string   `json:"date_end"`   // YYYY-MM-DD, inclusive
	Items     []string `json:"items"`
	Battalion bool     `json:"battalion"`
}

// ToCriteria parses the request into filter criteria. Date bounds are whole
// days: the end bound covers the entire named day.
func (r SearchRequest) ToCriteria() (report.Criteria, error) {
	c := report.Criteria{
		Units:  r.Units,
		Action: entity.ActionType(r.Action),
		Items:  r.Items,
	}

	if r.DateStart != "" {
		start, err := time.Parse(dateLayout, r.DateStart)
		if err != nil {
			return report.Criteria{}, fmt.Errorf("invalid date_start %q: %w", r.DateStart, err)
		}
		c.DateStart = &start
	}
	if r.DateEnd != "" {
		end, err := time.Parse(dateLayout, r.DateEnd)
		if err != nil {
			return report.Criteria{}, fmt.Errorf("invalid date_end %q: %w", r.DateEnd, err)
		}
		end = end.Add(24*time.Hour - time.Nanosecond)
		c.DateEnd = &end
	}

	return c, nil
}

// ItemLineResponse one item line of a receipt.
type ItemLineResponse struct {
	ID       string          `json:"id,omitempty"`
	SKU      string          `json:"sku"`
	Name     string          `json:"name,omitempty"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ReceiptResponse one ledger event.
type ReceiptResponse struct {
	ID        string             `json:"id"`
	Unit      string             `json:"unit"`
	Type      string             `json:"type"`
	Timestamp *time.Time         `json:"timestamp"`
	Items     []ItemLineResponse `json:"items"`
}

// NewReceiptResponses maps ledger receipts to the wire shape.
func NewReceiptResponses(receipts []*entity.Receipt) []ReceiptResponse {
	out := make([]ReceiptResponse, 0, len(receipts))
	for _, r := range receipts {
		items := make([]ItemLineResponse, 0, len(r.Items))
		for _, l := range r.Items {
			items = append(items, ItemLineResponse{ID: l.ID, SKU: l.SKU, Name: l.Name, Quantity: l.Quantity})
		}
		out = append(out, ReceiptResponse{
			ID:        r.ID,
			Unit:      r.Unit,
			Type:      string(r.Type),
			Timestamp: r.Timestamp,
			Items:     items,
		})
	}
	return out
}

// SummaryRowResponse one grouped row of a report.
type SummaryRowResponse struct {
	Unit     string          `json:"unit"`
	SKU      string          `json:"sku"`
	ItemName string          `json:"item_name"`
	Total    decimal.Decimal `json:"total"`
}

// SearchResponse result of POST /api/reports/search: the filtered receipts,
// a ranking recomputed over the filtered set, and the grouped summary.
type SearchResponse struct {
	Receipts     []ReceiptResponse    `json:"receipts"`
	Summary      []SummaryRowResponse `json:"summary"`
	UsageRanking []UnitUsageResponse  `json:"usage_ranking"`
	RowCount     int                  `json:"row_count"`
	GeneratedAt  time.Time            `json:"generated_at"`
}

// NewSummaryRows maps domain summary rows to the wire shape.
func NewSummaryRows(rows []report.SummaryEntry) []SummaryRowResponse {
	out := make([]SummaryRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, SummaryRowResponse{
			Unit:     row.Unit,
			SKU:      row.SKU,
			ItemName: row.ItemName,
			Total:    row.Total,
		})
	}
	return out
}

// NewUsageRanking maps a domain ranking to the wire shape.
func NewUsageRanking(ranking []report.UnitUsage) []UnitUsageResponse {
	out := make([]UnitUsageResponse, 0, len(ranking))
	for _, r := range ranking {
		out = append(out, UnitUsageResponse{Unit: r.Unit, Usage: r.Usage})
	}
	return out
}

// UnitUsageResponse one ranking entry.
type UnitUsageResponse struct {
	Unit  string          `json:"unit"`
	Usage decimal.Decimal `json:"usage"`
}

// UnitStockResponse per-unit held total (sum of that unit's item balances).
type UnitStockResponse struct {
	Unit      string          `json:"unit"`
	TotalHeld decimal.Decimal `json:"total_held"`
}

// SnapshotResponse result of GET /api/reports/snapshot: the headline numbers
// of the dashboard.
type SnapshotResponse struct {
	ReceiptCount int                 `json:"receipt_count"`
	UnitCount    int                 `json:"unit_count"`
	UsageRanking []UnitUsageResponse `json:"usage_ranking"`
	UnitStocks   []UnitStockResponse `json:"unit_stocks"`
	RefreshedAt  time.Time           `json:"refreshed_at"`
}

// RunwayEntryResponse projected depletion for one (unit, sku) pair.
type RunwayEntryResponse struct {
	Unit      string          `json:"unit"`
	SKU       string          `json:"sku"`
	ItemName  string          `json:"item_name"`
	Balance   decimal.Decimal `json:"balance"`
	DailyRate decimal.Decimal `json:"daily_rate"`
	DaysLeft  decimal.Decimal `json:"days_left"`
}

// RunwayResponse result of GET /api/reports/runway.
type RunwayResponse struct {
	Entries     []RunwayEntryResponse `json:"entries"`
	WindowDays  int                   `json:"window_days"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// CatalogItemResponse one catalog entry for GET /api/catalog.
type CatalogItemResponse struct {
	ID   string `json:"id"`
	SKU  string `json:"sku"`
	Name string `json:"name"`
}
