package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mennyrose/Bunker-data/internal/domain/entity"
	"github.com/mennyrose/Bunker-data/internal/domain/repository"
)

// CatalogRepository reads the item catalog.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

var _ repository.CatalogRepository = (*CatalogRepository)(nil)

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) ListAll(ctx context.Context) ([]entity.CatalogItem, error) {
	query := `
		SELECT id, COALESCE(sku, ''), COALESCE(name, '')
		FROM catalog_items
		ORDER BY name, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	items := make([]entity.CatalogItem, 0, 64)
	for rows.Next() {
		var it entity.CatalogItem
		if err := rows.Scan(&it.ID, &it.SKU, &it.Name); err != nil {
			return nil, fmt.Errorf("scanning catalog item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating catalog: %w", err)
	}

	return items, nil
}
