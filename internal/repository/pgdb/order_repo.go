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

const (
	orderColumns = `id, item_id, shop_id, customer_id, status_id, total_price,
		gift_certificate_charged_value, created_at, updated_at`
	orderProductColumns = `id, order_id, shop_product_id, product_id, name, barcode, amount, price,
		custom_discount, promo_ids, final_price, total_price, created_at, updated_at`
)

// OrderRepo реализует репозиторий заказов, их строк и статусов.
type OrderRepo struct {
	pool *pgxpool.Pool
	conv converter.OrderConverter
}

func NewOrderRepo(pool *pgxpool.Pool, conv converter.OrderConverter) *OrderRepo {
	return &OrderRepo{pool: pool, conv: conv}
}

func (o *OrderRepo) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return o.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate читает заказ с блокировкой строки до конца транзакции.
func (o *OrderRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Order, error) {
	if _, err := tr.TxFromCtx(ctx); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (o *OrderRepo) get(ctx context.Context, query string, id int64) (*domain.Order, error) {
	rows, err := tr.Executor(ctx, o.pool).Query(ctx, query, id)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[converter.OrderModel])
	if err != nil {
		if noRows(err) {
			return nil, e.ErrOrderNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	products, err := o.listProductModels(ctx, id)
	if err != nil {
		return nil, err
	}

	return o.conv.ToEntity(&model, products), nil
}

func (o *OrderRepo) GetStatus(ctx context.Context, id int64) (*domain.OrderStatus, error) {
	query := `SELECT id, slug, name, is_new, is_canceled FROM order_statuses WHERE id = $1`

	var m converter.OrderStatusModel
	err := tr.Executor(ctx, o.pool).QueryRow(ctx, query, id).Scan(&m.ID, &m.Slug, &m.Name, &m.IsNew, &m.IsCanceled)
	if err != nil {
		if noRows(err) {
			return nil, e.ErrOrderStatusNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.StatusToEntity(&m), nil
}

func (o *OrderRepo) ListProducts(ctx context.Context, orderID int64) ([]domain.OrderProduct, error) {
	models, err := o.listProductModels(ctx, orderID)
	if err != nil {
		return nil, err
	}

	res := make([]domain.OrderProduct, 0, len(models))
	for i := range models {
		res = append(res, o.conv.ProductToEntity(&models[i]))
	}

	return res, nil
}

func (o *OrderRepo) listProductModels(ctx context.Context, orderID int64) ([]converter.OrderProductModel, error) {
	query := `SELECT ` + orderProductColumns + ` FROM order_products WHERE order_id = $1 ORDER BY id`

	rows, err := tr.Executor(ctx, o.pool).Query(ctx, query, orderID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.OrderProductModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return models, nil
}

func (o *OrderRepo) InsertProduct(ctx context.Context, product *domain.OrderProduct) error {
	m := o.conv.ProductToModel(product)
	query := `
		INSERT INTO order_products (
			order_id, shop_product_id, product_id, name, barcode, amount, price,
			custom_discount, promo_ids, final_price, total_price, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	if err := tr.Executor(ctx, o.pool).QueryRow(ctx, query,
		m.OrderID, m.ShopProductID, m.ProductID, m.Name, m.Barcode, m.Amount, m.Price,
		m.CustomDiscount, m.PromoIDs, m.FinalPrice, m.TotalPrice, m.CreatedAt, m.UpdatedAt,
	).Scan(&product.ID); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (o *OrderRepo) UpdateProduct(ctx context.Context, product *domain.OrderProduct) error {
	m := o.conv.ProductToModel(product)
	query := `
		UPDATE order_products
		SET amount = $3, custom_discount = $4, final_price = $5, total_price = $6, updated_at = $7
		WHERE id = $1 AND order_id = $2
	`

	tag, err := tr.Executor(ctx, o.pool).Exec(ctx, query,
		m.ID, m.OrderID, m.Amount, m.CustomDiscount, m.FinalPrice, m.TotalPrice, m.UpdatedAt,
	)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrNotFound)
	}

	return nil
}

func (o *OrderRepo) DeleteProducts(ctx context.Context, orderID int64, ids []int64) error {
	query := `DELETE FROM order_products WHERE order_id = $1 AND id = ANY($2)`

	if _, err := tr.Executor(ctx, o.pool).Exec(ctx, query, orderID, ids); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (o *OrderRepo) UpdateTotal(ctx context.Context, orderID int64, totalPrice int64) error {
	query := `UPDATE orders SET total_price = $2, updated_at = NOW() WHERE id = $1`

	if _, err := tr.Executor(ctx, o.pool).Exec(ctx, query, orderID, totalPrice); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (o *OrderRepo) UpdateStatus(ctx context.Context, orderID int64, statusID int64) error {
	query := `UPDATE orders SET status_id = $2, updated_at = NOW() WHERE id = $1`

	if _, err := tr.Executor(ctx, o.pool).Exec(ctx, query, orderID, statusID); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// PromoRepo читает акции магазинов.
type PromoRepo struct {
	pool *pgxpool.Pool
	conv converter.OrderConverter
}

func NewPromoRepo(pool *pgxpool.Pool, conv converter.OrderConverter) *PromoRepo {
	return &PromoRepo{pool: pool, conv: conv}
}

func (p *PromoRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Promo, error) {
	query := `SELECT id, shop_id, discount_percent, starts_at, ends_at FROM promos WHERE id = ANY($1)`

	rows, err := tr.Executor(ctx, p.pool).Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.PromoModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	res := make([]domain.Promo, 0, len(models))
	for i := range models {
		res = append(res, p.conv.PromoToEntity(&models[i]))
	}

	return res, nil
}
