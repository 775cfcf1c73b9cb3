package pgdb

import (
	"context"
	"fmt"

	"github.com/DRSN-tech/marketplace-sync/internal/domain"
	"github.com/DRSN-tech/marketplace-sync/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/marketplace-sync/pkg/e"
	"github.com/DRSN-tech/marketplace-sync/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const shopProductColumns = `id, shop_id, product_id, item_id, name, slug, rubric_id, available, price,
	old_price, old_prices, discounted_percent, barcode, shop_product_uid, created_at, updated_at`

var shopProductCopyColumns = []string{
	"shop_id", "product_id", "item_id", "name", "slug", "rubric_id", "available", "price",
	"old_price", "old_prices", "discounted_percent", "barcode", "shop_product_uid", "created_at", "updated_at",
}

// ShopProductRepo реализует репозиторий товаров магазинов поверх PostgreSQL.
type ShopProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ShopProductConverter
}

func NewShopProductRepo(pool *pgxpool.Pool, conv converter.ShopProductConverter) *ShopProductRepo {
	return &ShopProductRepo{pool: pool, conv: conv}
}

// FindForSync возвращает товары магазина для товара каталога, штрихкоды которых пересекаются с barcodes.
func (s *ShopProductRepo) FindForSync(ctx context.Context, shopID, productID int64, barcodes []string) ([]domain.ShopProduct, error) {
	query := `
		SELECT ` + shopProductColumns + `
		FROM shop_products
		WHERE shop_id = $1 AND product_id = $2 AND barcode && $3
		ORDER BY id
	`

	return s.list(ctx, query, shopID, productID, barcodes)
}

func (s *ShopProductRepo) Update(ctx context.Context, shopProduct *domain.ShopProduct) error {
	model := s.conv.ToModel(shopProduct)
	query := `
		UPDATE shop_products
		SET available = $2,
			price = $3,
			old_price = $4,
			old_prices = $5,
			discounted_percent = $6,
			barcode = $7,
			shop_product_uid = $8,
			updated_at = $9
		WHERE id = $1
	`

	tag, err := tr.Executor(ctx, s.pool).Exec(ctx, query,
		model.ID,
		model.Available,
		model.Price,
		model.OldPrice,
		model.OldPrices,
		model.DiscountedPercent,
		model.Barcode,
		model.ShopProductUID,
		model.UpdatedAt,
	)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrShopProductNotFound)
	}

	return nil
}

// BulkInsert записывает новые товары магазина одной командой COPY.
func (s *ShopProductRepo) BulkInsert(ctx context.Context, shopProducts []*domain.ShopProduct) error {
	rows := make([][]any, 0, len(shopProducts))
	for _, sp := range shopProducts {
		m := s.conv.ToModel(sp)
		rows = append(rows, []any{
			m.ShopID, m.ProductID, m.ItemID, m.Name, m.Slug, m.RubricID, m.Available, m.Price,
			m.OldPrice, m.OldPrices, m.DiscountedPercent, m.Barcode, m.ShopProductUID, m.CreatedAt, m.UpdatedAt,
		})
	}

	n, err := tr.Executor(ctx, s.pool).CopyFrom(ctx, pgx.Identifier{"shop_products"}, shopProductCopyColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if int(n) != len(rows) {
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("copied %d of %d shop products", n, len(rows)))
	}

	return nil
}

// NextItemID выдаёт следующий item_id из последовательности.
func (s *ShopProductRepo) NextItemID(ctx context.Context) (int64, error) {
	var id int64
	if err := tr.Executor(ctx, s.pool).QueryRow(ctx, `SELECT nextval('shop_products_item_id_seq')`).Scan(&id); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return id, nil
}

func (s *ShopProductRepo) GetByID(ctx context.Context, id int64) (*domain.ShopProduct, error) {
	res, err := s.list(ctx, `SELECT `+shopProductColumns+` FROM shop_products WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return nil, e.ErrShopProductNotFound
	}

	return &res[0], nil
}

func (s *ShopProductRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.ShopProduct, error) {
	return s.list(ctx, `SELECT `+shopProductColumns+` FROM shop_products WHERE id = ANY($1)`, ids)
}

// ListOffers возвращает предложения магазинов с ненулевым остатком, от дешёвых к дорогим.
func (s *ShopProductRepo) ListOffers(ctx context.Context, productIDs []int64) ([]domain.ShopProduct, error) {
	query := `
		SELECT ` + shopProductColumns + `
		FROM shop_products
		WHERE product_id = ANY($1) AND available > 0
		ORDER BY price, id
	`

	return s.list(ctx, query, productIDs)
}

func (s *ShopProductRepo) list(ctx context.Context, query string, args ...any) ([]domain.ShopProduct, error) {
	rows, err := tr.Executor(ctx, s.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.ShopProductModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s.conv.ToArrEntity(models), nil
}
