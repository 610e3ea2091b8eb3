package reporting

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mennyrose/Bunker-data/internal/application/dto"
	"github.com/mennyrose/Bunker-data/internal/domain"
	"github.com/mennyrose/Bunker-data/internal/domain/entity"
	"github.com/mennyrose/Bunker-data/internal/domain/report"
	"github.com/mennyrose/Bunker-data/internal/domain/repository"
	"github.com/mennyrose/Bunker-data/pkg/logger"
)

// runwayWindowDays is the trailing window over which the usage rate is
// estimated for the runway report.
const runwayWindowDays = 30

// ExportFormatXLSX and ExportFormatPDF are the accepted export formats.
const (
	ExportFormatXLSX = "xlsx"
	ExportFormatPDF  = "pdf"
)

// Snapshot is the last successfully loaded view of the remote store: the raw
// ledger and catalog plus everything derived from them. A snapshot is
// immutable once published; refresh replaces it wholesale.
type Snapshot struct {
	Receipts    []*entity.Receipt
	Catalog     []entity.CatalogItem
	Balances    report.UnitBalances
	Usage       report.UsageTotals
	Ranking     []report.UnitUsage
	RefreshedAt time.Time
}

// UseCase orchestrates loading, aggregation, search and export. It keeps the
// current snapshot behind an RWMutex; at most one refresh runs at a time and
// a second concurrent attempt is rejected rather than queued, so two
// overlapping loads can never publish out of order.
type UseCase struct {
	receipts repository.ReceiptRepository
	catalog  repository.CatalogRepository
	exporter SummaryExporter
	pdfGen   SummaryPDFGenerator
	log      *logger.Logger

	depotUnit string
	labels    report.Labels

	mu         sync.RWMutex
	snap       *Snapshot
	refreshing atomic.Bool

	now func() time.Time
}

func NewUseCase(
	receipts repository.ReceiptRepository,
	catalog repository.CatalogRepository,
	exporter SummaryExporter,
	pdfGen SummaryPDFGenerator,
	depotUnit string,
	labels report.Labels,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		receipts:  receipts,
		catalog:   catalog,
		exporter:  exporter,
		pdfGen:    pdfGen,
		depotUnit: depotUnit,
		labels:    labels,
		log:       log,
		now:       time.Now,
	}
}

// Refresh loads the ledger and catalog concurrently, rebuilds the derived
// aggregates and publishes a new snapshot. If another refresh is already in
// flight it returns domain.ErrRefreshInProgress without touching anything.
// Any fetch failure leaves the previous snapshot intact.
func (uc *UseCase) Refresh(ctx context.Context) (*Snapshot, error) {
	if !uc.refreshing.CompareAndSwap(false, true) {
		return nil, domain.ErrRefreshInProgress
	}
	defer uc.refreshing.Store(false)

	started := uc.now()

	type receiptsResult struct {
		receipts []*entity.Receipt
		err      error
	}
	type catalogResult struct {
		items []entity.CatalogItem
		err   error
	}

	receiptsCh := make(chan receiptsResult, 1)
	catalogCh := make(chan catalogResult, 1)

	go func() {
		r, err := uc.receipts.ListAll(ctx)
		receiptsCh <- receiptsResult{receipts: r, err: err}
	}()
	go func() {
		c, err := uc.catalog.ListAll(ctx)
		catalogCh <- catalogResult{items: c, err: err}
	}()

	rr := <-receiptsCh
	cr := <-catalogCh

	if rr.err != nil {
		uc.log.Error().Err(rr.err).Msg("ledger fetch failed, keeping previous snapshot")
		return nil, fmt.Errorf("loading receipts: %w", rr.err)
	}
	if cr.err != nil {
		uc.log.Error().Err(cr.err).Msg("catalog fetch failed, keeping previous snapshot")
		return nil, fmt.Errorf("loading catalog: %w", cr.err)
	}

	balances, usage := report.Aggregate(rr.receipts, uc.depotUnit)
	snap := &Snapshot{
		Receipts:    rr.receipts,
		Catalog:     cr.items,
		Balances:    balances,
		Usage:       usage,
		Ranking:     report.Rank(usage),
		RefreshedAt: uc.now(),
	}

	uc.mu.Lock()
	uc.snap = snap
	uc.mu.Unlock()

	uc.log.Info().
		Int("receipts", len(snap.Receipts)).
		Int("catalog_items", len(snap.Catalog)).
		Int("units", len(balances)).
		Dur("took", uc.now().Sub(started)).
		Msg("snapshot refreshed")

	return snap, nil
}

// current returns the published snapshot, refreshing lazily on first use.
func (uc *UseCase) current(ctx context.Context) (*Snapshot, error) {
	uc.mu.RLock()
	snap := uc.snap
	uc.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	snap, err := uc.Refresh(ctx)
	if errors.Is(err, domain.ErrRefreshInProgress) {
		// Someone else is loading the first snapshot; the caller retries.
		return nil, err
	}
	return snap, err
}

// Snapshot returns the dashboard headline numbers from the current snapshot.
func (uc *UseCase) Snapshot(ctx context.Context) (*dto.SnapshotResponse, error) {
	snap, err := uc.current(ctx)
	if err != nil {
		return nil, err
	}

	stocks := make([]dto.UnitStockResponse, 0, len(snap.Balances))
	units := make([]string, 0, len(snap.Balances))
	for unit := range snap.Balances {
		units = append(units, unit)
	}
	sort.Strings(units)
	for _, unit := range units {
		stocks = append(stocks, dto.UnitStockResponse{
			Unit:      unit,
			TotalHeld: snap.Balances.TotalHeld(unit),
		})
	}

	return &dto.SnapshotResponse{
		ReceiptCount: len(snap.Receipts),
		UnitCount:    len(snap.Balances),
		UsageRanking: dto.NewUsageRanking(snap.Ranking),
		UnitStocks:   stocks,
		RefreshedAt:  snap.RefreshedAt,
	}, nil
}

// Search applies the request criteria to the snapshot's ledger and returns
// the filtered receipts, a ranking recomputed over the filtered set, and the
// grouped summary. Balance-mode summaries read the snapshot's full-history
// balances regardless of the date window.
func (uc *UseCase) Search(ctx context.Context, req dto.SearchRequest) (*dto.SearchResponse, error) {
	c, err := req.ToCriteria()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	snap, err := uc.current(ctx)
	if err != nil {
		return nil, err
	}

	filtered := report.Apply(snap.Receipts, c)
	_, filteredUsage := report.Aggregate(filtered, uc.depotUnit)
	rows := report.Summarize(filtered, snap.Balances, c, req.Battalion, snap.Catalog, uc.labels)

	return &dto.SearchResponse{
		Receipts:     dto.NewReceiptResponses(filtered),
		Summary:      dto.NewSummaryRows(rows),
		UsageRanking: dto.NewUsageRanking(report.Rank(filteredUsage)),
		RowCount:     len(rows),
		GeneratedAt:  uc.now(),
	}, nil
}

// Catalog returns the item catalog from the current snapshot.
func (uc *UseCase) Catalog(ctx context.Context) ([]dto.CatalogItemResponse, error) {
	snap, err := uc.current(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CatalogItemResponse, 0, len(snap.Catalog))
	for _, it := range snap.Catalog {
		out = append(out, dto.CatalogItemResponse{ID: it.ID, SKU: it.SKU, Name: it.Name})
	}
	return out, nil
}

// Runway estimates, per (unit, sku), how many whole days of stock remain at
// the unit's usage rate over the trailing window. Pairs with no recent usage
// or no positive balance are omitted; results are ordered soonest-to-run-out
// first.
func (uc *UseCase) Runway(ctx context.Context) (*dto.RunwayResponse, error) {
	snap, err := uc.current(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := uc.now().AddDate(0, 0, -runwayWindowDays)

	// Usage per (unit, sku) inside the window.
	used := make(map[string]map[string]decimal.Decimal)
	for _, r := range snap.Receipts {
		if r.Type != entity.ActionUsage || r.Unit == "" || r.Unit == uc.depotUnit {
			continue
		}
		if r.Timestamp == nil || r.Timestamp.Before(cutoff) {
			continue
		}
		for _, line := range r.Items {
			if line.SKU == "" {
				continue
			}
			if used[r.Unit] == nil {
				used[r.Unit] = make(map[string]decimal.Decimal)
			}
			used[r.Unit][line.SKU] = used[r.Unit][line.SKU].Add(line.Quantity)
		}
	}

	window := decimal.NewFromInt(runwayWindowDays)
	entries := make([]dto.RunwayEntryResponse, 0)
	for unit, skus := range used {
		for sku, total := range skus {
			if !total.IsPositive() {
				continue
			}
			balance := snap.Balances.Balance(unit, sku)
			if !balance.IsPositive() {
				continue
			}
			rate := total.Div(window)
			// balance*window/total, not balance/rate: the single division
			// keeps exact inputs exact (no rounded intermediate rate).
			days := balance.Mul(window).Div(total).Floor()

			name := uc.labels.UnnamedItem
			for i := range snap.Catalog {
				if snap.Catalog[i].ID == sku || snap.Catalog[i].SKU == sku {
					if snap.Catalog[i].Name != "" {
						name = snap.Catalog[i].Name
					}
					break
				}
			}

			entries = append(entries, dto.RunwayEntryResponse{
				Unit:      unit,
				SKU:       sku,
				ItemName:  name,
				Balance:   balance,
				DailyRate: rate,
				DaysLeft:  days,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].DaysLeft.Equal(entries[j].DaysLeft) {
			return entries[i].DaysLeft.LessThan(entries[j].DaysLeft)
		}
		if entries[i].Unit != entries[j].Unit {
			return entries[i].Unit < entries[j].Unit
		}
		return entries[i].SKU < entries[j].SKU
	})

	return &dto.RunwayResponse{
		Entries:     entries,
		WindowDays:  runwayWindowDays,
		GeneratedAt: uc.now(),
	}, nil
}

// Export renders the summary selected by the request into the given format.
// An empty summary is an error; no file is produced for nothing.
func (uc *UseCase) Export(ctx context.Context, req dto.SearchRequest, format string) ([]byte, error) {
	c, err := req.ToCriteria()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	snap, err := uc.current(ctx)
	if err != nil {
		return nil, err
	}

	filtered := report.Apply(snap.Receipts, c)
	rows := report.Summarize(filtered, snap.Balances, c, req.Battalion, snap.Catalog, uc.labels)
	if len(rows) == 0 {
		return nil, domain.ErrNoExportData
	}

	switch format {
	case ExportFormatXLSX:
		return uc.exporter.Export(rows)
	case ExportFormatPDF:
		return uc.pdfGen.Generate(rows)
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", domain.ErrInvalidInput, format)
	}
}
