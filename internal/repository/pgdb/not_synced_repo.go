package pgdb

import (
	"context"

	"github.com/DRSN-tech/marketplace-sync/internal/domain"
	"github.com/DRSN-tech/marketplace-sync/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/marketplace-sync/internal/usecase"
	"github.com/DRSN-tech/marketplace-sync/pkg/e"
	"github.com/DRSN-tech/marketplace-sync/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const notSyncedColumns = `id, shop_id, name, price, available, barcode, shop_product_uid, created_at, updated_at`

// NotSyncedRepo хранит бэклог несопоставленных позиций фида.
type NotSyncedRepo struct {
	pool *pgxpool.Pool
	conv converter.NotSyncedProductConverter
}

func NewNotSyncedRepo(pool *pgxpool.Pool, conv converter.NotSyncedProductConverter) *NotSyncedRepo {
	return &NotSyncedRepo{pool: pool, conv: conv}
}

func (n *NotSyncedRepo) FindByBarcodes(ctx context.Context, shopID int64, barcodes []string) (*domain.NotSyncedProduct, error) {
	query := `
		SELECT ` + notSyncedColumns + `
		FROM not_synced_products
		WHERE shop_id = $1 AND barcode && $2
		ORDER BY id
		LIMIT 1
	`

	rows, err := tr.Executor(ctx, n.pool).Query(ctx, query, shopID, barcodes)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[converter.NotSyncedProductModel])
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return n.conv.ToEntity(&model), nil
}

func (n *NotSyncedRepo) Create(ctx context.Context, product *domain.NotSyncedProduct) error {
	model := n.conv.ToModel(product)
	query := `
		INSERT INTO not_synced_products (shop_id, name, price, available, barcode, shop_product_uid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	if err := tr.Executor(ctx, n.pool).QueryRow(ctx, query,
		model.ShopID, model.Name, model.Price, model.Available, model.Barcode,
		model.ShopProductUID, model.CreatedAt, model.UpdatedAt,
	).Scan(&product.ID); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (n *NotSyncedRepo) Update(ctx context.Context, product *domain.NotSyncedProduct) error {
	model := n.conv.ToModel(product)
	query := `
		UPDATE not_synced_products
		SET name = $2, price = $3, available = $4, barcode = $5, shop_product_uid = $6, updated_at = $7
		WHERE id = $1
	`

	if _, err := tr.Executor(ctx, n.pool).Exec(ctx, query,
		model.ID, model.Name, model.Price, model.Available, model.Barcode, model.ShopProductUID, model.UpdatedAt,
	); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// List возвращает страницу бэклога (новые первыми) и общее число записей.
func (n *NotSyncedRepo) List(ctx context.Context, filter usecase.NotSyncedFilter) ([]domain.NotSyncedProduct, int64, error) {
	query := `
		SELECT ` + notSyncedColumns + `, count(*) OVER () AS total
		FROM not_synced_products
		WHERE $1::bigint IS NULL OR shop_id = $1
		ORDER BY created_at DESC, id DESC
		OFFSET $2
		LIMIT $3
	`

	rows, err := tr.Executor(ctx, n.pool).Query(ctx, query, filter.ShopID, filter.Offset, filter.Limit)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	var (
		total int64
		res   []domain.NotSyncedProduct
	)
	for rows.Next() {
		var m converter.NotSyncedProductModel
		if err := rows.Scan(
			&m.ID, &m.ShopID, &m.Name, &m.Price, &m.Available, &m.Barcode,
			&m.ShopProductUID, &m.CreatedAt, &m.UpdatedAt, &total,
		); err != nil {
			return nil, 0, e.Wrap(whereami.WhereAmI(), err)
		}
		res = append(res, *n.conv.ToEntity(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	// Страница за пределами выборки: общее число считаем отдельно
	if len(res) == 0 && filter.Offset > 0 {
		countQuery := `SELECT count(*) FROM not_synced_products WHERE $1::bigint IS NULL OR shop_id = $1`
		if err := tr.Executor(ctx, n.pool).QueryRow(ctx, countQuery, filter.ShopID).Scan(&total); err != nil {
			return nil, 0, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	return res, total, nil
}
