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

type BlacklistRepo struct {
	pool *pgxpool.Pool
}

func NewBlacklistRepo(pool *pgxpool.Pool) *BlacklistRepo {
	return &BlacklistRepo{pool: pool}
}

func (b *BlacklistRepo) ListByShop(ctx context.Context, shopID int64) ([]domain.BlacklistEntry, error) {
	query := `SELECT id, shop_id, name, barcode FROM blacklisted_products WHERE shop_id = $1`

	rows, err := tr.Executor(ctx, b.pool).Query(ctx, query, shopID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.BlacklistEntryModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	res := make([]domain.BlacklistEntry, 0, len(models))
	for _, m := range models {
		res = append(res, domain.BlacklistEntry(m))
	}

	return res, nil
}
