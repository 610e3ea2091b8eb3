package reporting_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mennyrose/Bunker-data/internal/application/dto"
	"github.com/mennyrose/Bunker-data/internal/application/reporting"
	"github.com/mennyrose/Bunker-data/internal/domain"
	"github.com/mennyrose/Bunker-data/internal/domain/entity"
	"github.com/mennyrose/Bunker-data/internal/domain/report"
	"github.com/mennyrose/Bunker-data/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeReceiptRepo struct {
	receipts  []*entity.Receipt
	err       error
	started   chan struct{} // when non-nil, closed on the first ListAll call
	startOnce sync.Once
	release   chan struct{} // when non-nil, ListAll blocks until closed
}

func (f *fakeReceiptRepo) ListAll(ctx context.Context) ([]*entity.Receipt, error) {
	if f.started != nil {
		f.startOnce.Do(func() { close(f.started) })
	}
	if f.release != nil {
		<-f.release
	}
	return f.receipts, f.err
}

type fakeCatalogRepo struct {
	items []entity.CatalogItem
	err   error
}

func (f *fakeCatalogRepo) ListAll(ctx context.Context) ([]entity.CatalogItem, error) {
	return f.items, f.err
}

type fakeExporter struct {
	rows   []report.SummaryEntry
	called bool
}

func (f *fakeExporter) Export(rows []report.SummaryEntry) ([]byte, error) {
	f.called = true
	f.rows = rows
	return []byte("xlsx-bytes"), nil
}

type fakePDFGenerator struct {
	called bool
}

func (f *fakePDFGenerator) Generate(rows []report.SummaryEntry) ([]byte, error) {
	f.called = true
	return []byte("pdf-bytes"), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const testDepot = "בונקר"

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func line(sku string, n int64) entity.ItemLine {
	return entity.ItemLine{SKU: sku, Name: "item " + sku, Quantity: qty(n)}
}

func receiptAt(unit string, action entity.ActionType, ts *time.Time, lines ...entity.ItemLine) *entity.Receipt {
	return &entity.Receipt{ID: "r-" + unit + string(action), Unit: unit, Type: action, Timestamp: ts, Items: lines}
}

func daysAgo(n int) *time.Time {
	t := time.Now().AddDate(0, 0, -n)
	return &t
}

func newTestUseCase(receipts *fakeReceiptRepo, catalog *fakeCatalogRepo, exp *fakeExporter, pdf *fakePDFGenerator) *reporting.UseCase {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	return reporting.NewUseCase(receipts, catalog, exp, pdf, testDepot, report.DefaultLabels(), log)
}

// ──────────────────────────────────────────────────────────────────────────────
// Refresh
// ──────────────────────────────────────────────────────────────────────────────

func TestRefresh_PublishesAggregatedSnapshot(t *testing.T) {
	receipts := &fakeReceiptRepo{receipts: []*entity.Receipt{
		receiptAt("A", entity.ActionIssue, daysAgo(2), line("X", 10)),
		receiptAt("A", entity.ActionUsage, daysAgo(1), line("X", 3)),
	}}
	catalog := &fakeCatalogRepo{items: []entity.CatalogItem{{ID: "c1", SKU: "X", Name: "5.56"}}}
	uc := newTestUseCase(receipts, catalog, &fakeExporter{}, &fakePDFGenerator{})

	snap, err := uc.Refresh(context.Background())

	require.NoError(t, err)
	assert.Len(t, snap.Receipts, 2)
	assert.Len(t, snap.Catalog, 1)
	assert.True(t, snap.Balances.Balance("A", "X").Equal(qty(7)))
	require.Len(t, snap.Ranking, 1)
	assert.Equal(t, "A", snap.Ranking[0].Unit)
	assert.False(t, snap.RefreshedAt.IsZero())
}

func TestRefresh_SecondConcurrentAttemptIsRejected(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	receipts := &fakeReceiptRepo{started: started, release: release}
	uc := newTestUseCase(receipts, &fakeCatalogRepo{}, &fakeExporter{}, &fakePDFGenerator{})

	done := make(chan error, 1)
	go func() {
		_, err := uc.Refresh(context.Background())
		done <- err
	}()

	// Wait until the first refresh is parked inside ListAll before probing.
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("first refresh never reached the ledger fetch")
	}

	_, err := uc.Refresh(context.Background())
	assert.ErrorIs(t, err, domain.ErrRefreshInProgress,
		"an overlapping refresh must be rejected, not queued")

	close(release)
	require.NoError(t, <-done)

	// With the first one finished, refreshing works again.
	_, err = uc.Refresh(context.Background())
	assert.NoError(t, err)
}

func TestRefresh_FetchFailureKeepsPreviousSnapshot(t *testing.T) {
	receipts := &fakeReceiptRepo{receipts: []*entity.Receipt{
		receiptAt("A", entity.ActionIssue, daysAgo(1), line("X", 4)),
	}}
	catalog := &fakeCatalogRepo{}
	uc := newTestUseCase(receipts, catalog, &fakeExporter{}, &fakePDFGenerator{})

	_, err := uc.Refresh(context.Background())
	require.NoError(t, err)

	receipts.err = errors.New("store unavailable")
	_, err = uc.Refresh(context.Background())
	require.Error(t, err)

	// The old snapshot still serves.
	out, err := uc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, out.ReceiptCount)
}

func TestSnapshot_LazilyLoadsOnFirstUse(t *testing.T) {
	receipts := &fakeReceiptRepo{receipts: []*entity.Receipt{
		receiptAt("A", entity.ActionIssue, daysAgo(1), line("X", 4)),
		receiptAt("B", entity.ActionUsage, daysAgo(1), line("Y", 2)),
	}}
	uc := newTestUseCase(receipts, &fakeCatalogRepo{}, &fakeExporter{}, &fakePDFGenerator{})

	out, err := uc.Snapshot(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, out.ReceiptCount)
	assert.Equal(t, 2, out.UnitCount)
	require.Len(t, out.UnitStocks, 2)
	assert.Equal(t, "A", out.UnitStocks[0].Unit)
	assert.True(t, out.UnitStocks[0].TotalHeld.Equal(qty(4)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Search
// ──────────────────────────────────────────────────────────────────────────────

func TestSearch_MovementModeRespectsFilters(t *testing.T) {
	receipts := &fakeReceiptRepo{receipts: []*entity.Receipt{
		receiptAt("A", entity.ActionUsage, daysAgo(1), line("X", 3)),
		receiptAt("B", entity.ActionUsage, daysAgo(1), line("X", 5)),
		receiptAt("A", entity.ActionIssue, daysAgo(1), line("X", 10)),
	}}
	uc := newTestUseCase(receipts, &fakeCatalogRepo{}, &fakeExporter{}, &fakePDFGenerator{})

	out, err := uc.Search(context.Background(), dto.SearchRequest{
		Units:  []string{"A"},
		Action: string(entity.ActionUsage),
	})

	require.NoError(t, err)
	assert.Len(t, out.Receipts, 1)
	require.Len(t, out.Summary, 1)
	assert.True(t, out.Summary[0].Total.Equal(qty(3)))
	// Ranking is recomputed over the filtered set: only unit A remains.
	require.Len(t, out.UsageRanking, 1)
	assert.Equal(t, "A", out.UsageRanking[0].Unit)
}

func TestSearch_BalanceModeIgnoresDateWindow(t *testing.T) {
	receipts := &fakeReceiptRepo{receipts: []*entity.Receipt{
		receiptAt("A", entity.ActionIssue, daysAgo(100), line("X", 10)),
	}}
	uc := newTestUseCase(receipts, &fakeCatalogRepo{}, &fakeExporter{}, &fakePDFGenerator{})

	out, err := uc.Search(context.Background(), dto.SearchRequest{
		Action:    string(entity.ActionBalance),
		DateStart: time.Now().Format("2006-01-02"), // window excludes the old receipt
	})

	require.NoError(t, err)
	assert.Empty(t, out.Receipts, "the date window narrows the filtered receipts")
	require.Len(t, out.Summary, 1, "but the balance summary reads the full-history snapshot")
	assert.True(t, out.Summary[0].Total.Equal(qty(10)))
}

func TestSearch_InvalidDateIsRejected(t *testing.T) {
	uc := newTestUseCase(&fakeReceiptRepo{}, &fakeCatalogRepo{}, &fakeExporter{}, &fakePDFGenerator{})

	_, err := uc.Search(context.Background(), dto.SearchRequest{DateStart: "not-a-date"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Runway
// ──────────────────────────────────────────────────────────────────────────────

func TestRunway_EstimatesDaysFromTrailingUsage(t *testing.T) {
	receipts := &fakeReceiptRepo{receipts: []*entity.Receipt{
		receiptAt("A", entity.ActionIssue, daysAgo(40), line("X", 10)),
		receiptAt("A", entity.ActionUsage, daysAgo(5), line("X", 5)),
	}}
	uc := newTestUseCase(receipts, &fakeCatalogRepo{}, &fakeExporter{}, &fakePDFGenerator{})

	out, err := uc.Runway(context.Background())

	require.NoError(t, err)
	require.Len(t, out.Entries, 1)
	e := out.Entries[0]
	assert.Equal(t, "A", e.Unit)
	assert.True(t, e.Balance.Equal(qty(5)), "10 issued minus 5 used")
	// 5 used over 30 days vs 5 held: 30 whole days of runway.
	assert.True(t, e.DaysLeft.Equal(qty(30)), "got %s days", e.DaysLeft)
}

func TestRunway_OmitsStaleAndUndatedUsage(t *testing.T) {
	receipts := &fakeReceiptRepo{receipts: []*entity.Receipt{
		receiptAt("A", entity.ActionIssue, daysAgo(100), line("X", 10)),
		receiptAt("A", entity.ActionUsage, daysAgo(90), line("X", 2)), // outside the window
		receiptAt("B", entity.ActionIssue, daysAgo(1), line("Y", 3)),
		receiptAt("B", entity.ActionUsage, nil, line("Y", 1)), // undated
	}}
	uc := newTestUseCase(receipts, &fakeCatalogRepo{}, &fakeExporter{}, &fakePDFGenerator{})

	out, err := uc.Runway(context.Background())

	require.NoError(t, err)
	assert.Empty(t, out.Entries, "no usage inside the window means no runway rows")
}

// ──────────────────────────────────────────────────────────────────────────────
// Export
// ──────────────────────────────────────────────────────────────────────────────

func TestExport_RoutesByFormat(t *testing.T) {
	receipts := &fakeReceiptRepo{receipts: []*entity.Receipt{
		receiptAt("A", entity.ActionIssue, daysAgo(1), line("X", 10)),
	}}
	exp := &fakeExporter{}
	pdf := &fakePDFGenerator{}
	uc := newTestUseCase(receipts, &fakeCatalogRepo{}, exp, pdf)

	req := dto.SearchRequest{Action: string(entity.ActionBalance)}

	data, err := uc.Export(context.Background(), req, reporting.ExportFormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx-bytes"), data)
	assert.True(t, exp.called)
	require.Len(t, exp.rows, 1)

	data, err = uc.Export(context.Background(), req, reporting.ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf-bytes"), data)
	assert.True(t, pdf.called)

	_, err = uc.Export(context.Background(), req, "csv")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExport_EmptySummaryIsAnError(t *testing.T) {
	receipts := &fakeReceiptRepo{} // nothing in the ledger
	exp := &fakeExporter{}
	uc := newTestUseCase(receipts, &fakeCatalogRepo{}, exp, &fakePDFGenerator{})

	_, err := uc.Export(context.Background(), dto.SearchRequest{}, reporting.ExportFormatXLSX)

	assert.ErrorIs(t, err, domain.ErrNoExportData)
	assert.False(t, exp.called, "no file must be produced for an empty summary")
}
