package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mennyrose/Bunker-data/internal/domain/entity"
	"github.com/mennyrose/Bunker-data/internal/domain/repository"
	"github.com/mennyrose/Bunker-data/pkg/logger"
)

// ReceiptRepository reads the receipt ledger. Receipts are stored
// document-shaped: the item lines live in a JSONB column, so field-level
// anomalies (missing sku, non-numeric quantity) survive into the rows and are
// coerced during decoding rather than rejected.
type ReceiptRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

var _ repository.ReceiptRepository = (*ReceiptRepository)(nil)

func NewReceiptRepository(pool *pgxpool.Pool, log *logger.Logger) *ReceiptRepository {
	return &ReceiptRepository{pool: pool, log: log}
}

// ListAll loads the full ledger, newest first, undated receipts last.
func (r *ReceiptRepository) ListAll(ctx context.Context) ([]*entity.Receipt, error) {
	query := `
		SELECT id, COALESCE(unit, ''), COALESCE(type, ''), "timestamp", items
		FROM receipts
		ORDER BY "timestamp" DESC NULLS LAST, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying receipts: %w", err)
	}
	defer rows.Close()

	receipts := make([]*entity.Receipt, 0, 256)
	for rows.Next() {
		var (
			rec      entity.Receipt
			action   string
			ts       *time.Time
			rawItems []byte
		)
		if err := rows.Scan(&rec.ID, &rec.Unit, &action, &ts, &rawItems); err != nil {
			return nil, fmt.Errorf("scanning receipt: %w", err)
		}
		rec.Type = entity.ActionType(action)
		rec.Timestamp = ts
		rec.Items = decodeItems(r.log, rec.ID, rawItems)
		receipts = append(receipts, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating receipts: %w", err)
	}

	return receipts, nil
}

// decodeItems unmarshals the JSONB lines. A malformed document keeps the
// receipt alive with no lines, matching how partial documents behave
// elsewhere in the pipeline.
func decodeItems(log *logger.Logger, receiptID string, raw []byte) []entity.ItemLine {
	if len(raw) == 0 {
		return nil
	}
	var items []entity.ItemLine
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Warn().Str("receipt_id", receiptID).Err(err).Msg("malformed items document, keeping receipt without lines")
		return nil
	}
	return items
}
