package pgdb

import (
	"context"

	"github.com/DRSN-tech/marketplace-sync/internal/domain"
	"github.com/DRSN-tech/marketplace-sync/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/marketplace-sync/pkg/e"
	"github.com/DRSN-tech/marketplace-sync/pkg/tr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ShopRepo реализует репозиторий магазинов поверх PostgreSQL.
type ShopRepo struct {
	pool *pgxpool.Pool
	conv converter.ShopConverter
}

func NewShopRepo(pool *pgxpool.Pool, conv converter.ShopConverter) *ShopRepo {
	return &ShopRepo{pool: pool, conv: conv}
}

// GetByToken ищет магазин по токену синхронизации.
func (s *ShopRepo) GetByToken(ctx context.Context, token string) (*domain.Shop, error) {
	query := `
		SELECT id, name, slug, token, created_at
		FROM shops
		WHERE token = $1
	`

	var model converter.ShopModel
	err := tr.Executor(ctx, s.pool).QueryRow(ctx, query, token).
		Scan(&model.ID, &model.Name, &model.Slug, &model.Token, &model.CreatedAt)
	if err != nil {
		if noRows(err) {
			return nil, e.ErrShopNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s.conv.ToEntity(&model), nil
}
