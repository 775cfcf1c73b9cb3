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

const catalogProductColumns = `id, item_id, name, slug, rubric_id, barcode, allow_delivery, created_at, updated_at`

// CatalogProductRepo реализует репозиторий товаров каталога поверх PostgreSQL.
type CatalogProductRepo struct {
	pool *pgxpool.Pool
	conv converter.CatalogProductConverter
}

func NewCatalogProductRepo(pool *pgxpool.Pool, conv converter.CatalogProductConverter) *CatalogProductRepo {
	return &CatalogProductRepo{pool: pool, conv: conv}
}

// FindByBarcodes возвращает первый товар, чей набор штрихкодов пересекается с barcodes.
// При нескольких совпадениях выигрывает товар с меньшим id.
func (c *CatalogProductRepo) FindByBarcodes(ctx context.Context, barcodes []string) (*domain.CatalogProduct, error) {
	query := `
		SELECT ` + catalogProductColumns + `
		FROM products
		WHERE barcode && $1
		ORDER BY id
		LIMIT 1
	`

	rows, err := tr.Executor(ctx, c.pool).Query(ctx, query, barcodes)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[converter.CatalogProductModel])
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(&model), nil
}

// AppendBarcodes дописывает штрихкоды в товар. Повторный вызов набор не меняет.
func (c *CatalogProductRepo) AppendBarcodes(ctx context.Context, productID int64, barcodes []string) error {
	query := `
		UPDATE products
		SET barcode = ARRAY(
				SELECT t.b
				FROM unnest(barcode || $2::text[]) WITH ORDINALITY AS t(b, n)
				GROUP BY t.b
				ORDER BY min(t.n)
			),
			updated_at = NOW()
		WHERE id = $1
		  AND NOT (barcode @> $2::text[])
	`

	if _, err := tr.Executor(ctx, c.pool).Exec(ctx, query, productID, barcodes); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CatalogProductRepo) GetByID(ctx context.Context, id int64) (*domain.CatalogProduct, error) {
	query := `SELECT ` + catalogProductColumns + ` FROM products WHERE id = $1`

	rows, err := tr.Executor(ctx, c.pool).Query(ctx, query, id)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[converter.CatalogProductModel])
	if err != nil {
		if noRows(err) {
			return nil, e.ErrProductNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(&model), nil
}

func (c *CatalogProductRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.CatalogProduct, error) {
	query := `SELECT ` + catalogProductColumns + ` FROM products WHERE id = ANY($1)`

	rows, err := tr.Executor(ctx, c.pool).Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.CatalogProductModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToArrEntity(models), nil
}
