package repository

import (
	"context"

	"github.com/mennyrose/Bunker-data/internal/domain/entity"
)

// ReceiptRepository reads the receipt ledger. The ledger is loaded in full;
// all filtering happens in memory over the loaded snapshot.
type ReceiptRepository interface {
	// ListAll returns every receipt ordered newest first, undated last.
	ListAll(ctx context.Context) ([]*entity.Receipt, error)
}
