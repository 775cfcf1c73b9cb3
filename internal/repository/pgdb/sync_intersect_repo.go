package pgdb

import (
	"context"

	"github.com/DRSN-tech/marketplace-sync/internal/domain"
	"github.com/DRSN-tech/marketplace-sync/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/marketplace-sync/pkg/e"
	"github.com/DRSN-tech/marketplace-sync/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// SyncIntersectRepo хранит наборы конфликтующих позиций фида.
// Штрихкоды набора лежат внутри jsonb, поэтому пересечение ищется через jsonb_array_elements.
type SyncIntersectRepo struct {
	pool *pgxpool.Pool
	conv converter.SyncIntersectConverter
}

func NewSyncIntersectRepo(pool *pgxpool.Pool, conv converter.SyncIntersectConverter) *SyncIntersectRepo {
	return &SyncIntersectRepo{pool: pool, conv: conv}
}

func (s *SyncIntersectRepo) FindByBarcodes(ctx context.Context, shopID int64, barcodes []string) (*domain.SyncIntersect, error) {
	query := `
		SELECT si.id, si.shop_id, si.products, si.created_at, si.updated_at
		FROM sync_intersects si
		WHERE si.shop_id = $1
		  AND EXISTS (
			SELECT 1
			FROM jsonb_array_elements(si.products) AS p,
			     jsonb_array_elements_text(p->'barcode') AS b
			WHERE b = ANY($2)
		  )
		ORDER BY si.id
		LIMIT 1
	`

	rows, err := tr.Executor(ctx, s.pool).Query(ctx, query, shopID, barcodes)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[converter.SyncIntersectModel])
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s.conv.ToEntity(&model), nil
}

func (s *SyncIntersectRepo) Create(ctx context.Context, intersect *domain.SyncIntersect) error {
	model := s.conv.ToModel(intersect)
	query := `
		INSERT INTO sync_intersects (shop_id, products, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	if err := tr.Executor(ctx, s.pool).QueryRow(ctx, query,
		model.ShopID, model.Products, model.CreatedAt, model.UpdatedAt,
	).Scan(&intersect.ID); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (s *SyncIntersectRepo) UpdateProducts(ctx context.Context, intersect *domain.SyncIntersect) error {
	model := s.conv.ToModel(intersect)
	query := `UPDATE sync_intersects SET products = $2, updated_at = $3 WHERE id = $1`

	if _, err := tr.Executor(ctx, s.pool).Exec(ctx, query, model.ID, model.Products, model.UpdatedAt); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (s *SyncIntersectRepo) ListByShop(ctx context.Context, shopID int64) ([]domain.SyncIntersect, error) {
	query := `
		SELECT id, shop_id, products, created_at, updated_at
		FROM sync_intersects
		WHERE shop_id = $1
		ORDER BY updated_at DESC, id DESC
	`

	rows, err := tr.Executor(ctx, s.pool).Query(ctx, query, shopID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.SyncIntersectModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	res := make([]domain.SyncIntersect, 0, len(models))
	for i := range models {
		res = append(res, *s.conv.ToEntity(&models[i]))
	}

	return res, nil
}
