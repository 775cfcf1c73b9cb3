package pgdb

import (
	"context"

	"github.com/DRSN-tech/marketplace-sync/internal/domain"
	"github.com/DRSN-tech/marketplace-sync/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/marketplace-sync/pkg/e"
	"github.com/DRSN-tech/marketplace-sync/pkg/tr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// CartRepo реализует репозиторий корзин поверх PostgreSQL.
type CartRepo struct {
	pool *pgxpool.Pool
	conv converter.CartConverter
}

func NewCartRepo(pool *pgxpool.Pool, conv converter.CartConverter) *CartRepo {
	return &CartRepo{pool: pool, conv: conv}
}

func (c *CartRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Cart, error) {
	return c.get(ctx, `SELECT id, user_id, created_at, updated_at FROM carts WHERE id = $1`, id)
}

func (c *CartRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Cart, error) {
	return c.get(ctx, `SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`, userID)
}

func (c *CartRepo) get(ctx context.Context, query string, arg any) (*domain.Cart, error) {
	q := tr.Executor(ctx, c.pool)

	var cart converter.CartModel
	if err := q.QueryRow(ctx, query, arg).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt); err != nil {
		if noRows(err) {
			return nil, e.ErrCartNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	rows, err := q.Query(ctx, `
		SELECT id, cart_id, product_id, shop_product_id, amount, created_at, updated_at
		FROM cart_products
		WHERE cart_id = $1
		ORDER BY id
	`, cart.ID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	products, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.CartProductModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(&cart, products), nil
}

func (c *CartRepo) Create(ctx context.Context, cart *domain.Cart) error {
	query := `INSERT INTO carts (id, user_id, created_at, updated_at) VALUES ($1, $2, $3, $4)`

	if _, err := tr.Executor(ctx, c.pool).Exec(ctx, query, cart.ID, cart.UserID, cart.CreatedAt, cart.UpdatedAt); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CartRepo) AddProduct(ctx context.Context, product *domain.CartProduct) error {
	m := c.conv.ProductToModel(product)
	query := `
		INSERT INTO cart_products (cart_id, product_id, shop_product_id, amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	if err := tr.Executor(ctx, c.pool).QueryRow(ctx, query,
		m.CartID, m.ProductID, m.ShopProductID, m.Amount, m.CreatedAt, m.UpdatedAt,
	).Scan(&product.ID); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return c.touch(ctx, product.CartID)
}

func (c *CartRepo) UpdateProductAmount(ctx context.Context, cartID uuid.UUID, cartProductID int64, amount int) error {
	query := `UPDATE cart_products SET amount = $3, updated_at = NOW() WHERE cart_id = $1 AND id = $2`

	tag, err := tr.Executor(ctx, c.pool).Exec(ctx, query, cartID, cartProductID, amount)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.ErrCartProductNotFound
	}

	return c.touch(ctx, cartID)
}

func (c *CartRepo) DeleteProduct(ctx context.Context, cartID uuid.UUID, cartProductID int64) error {
	tag, err := tr.Executor(ctx, c.pool).Exec(ctx, `DELETE FROM cart_products WHERE cart_id = $1 AND id = $2`, cartID, cartProductID)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.ErrCartProductNotFound
	}

	return c.touch(ctx, cartID)
}

func (c *CartRepo) touch(ctx context.Context, cartID uuid.UUID) error {
	if _, err := tr.Executor(ctx, c.pool).Exec(ctx, `UPDATE carts SET updated_at = NOW() WHERE id = $1`, cartID); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
