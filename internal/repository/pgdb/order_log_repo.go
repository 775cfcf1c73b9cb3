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

// OrderLogRepo пишет журнал изменений заказов. Записи только добавляются.
type OrderLogRepo struct {
	pool *pgxpool.Pool
	conv converter.OrderLogConverter
}

func NewOrderLogRepo(pool *pgxpool.Pool, conv converter.OrderLogConverter) *OrderLogRepo {
	return &OrderLogRepo{pool: pool, conv: conv}
}

// Create пишет запись аудита. Вызывается только внутри транзакции изменения заказа.
func (o *OrderLogRepo) Create(ctx context.Context, log *domain.OrderLog) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	m := o.conv.ToModel(log)
	query := `
		INSERT INTO order_logs (order_id, user_id, "user", diff, variant, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	if err := tx.QueryRow(ctx, query, m.OrderID, m.UserID, m.User, m.Diff, m.Variant, m.CreatedAt).Scan(&log.ID); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
