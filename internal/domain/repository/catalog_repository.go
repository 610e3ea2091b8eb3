package repository

import (
	"context"

	"github.com/mennyrose/Bunker-data/internal/domain/entity"
)

// CatalogRepository reads the item catalog used to resolve display names.
type CatalogRepository interface {
	ListAll(ctx context.Context) ([]entity.CatalogItem, error)
}
