package domain

import "time"

const (
	OrderLogVariantStatus  = "status"
	OrderLogVariantMessage = "message"
	OrderLogVariantUpdate  = "update"
)

// OrderLogUser — снимок пользователя, выполнившего изменение
type OrderLogUser struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// OrderDiff — структурная разница между двумя состояниями заказа.
type OrderDiff struct {
	Added   map[string]any `json:"added"`
	Updated map[string]any `json:"updated"`
	Removed map[string]any `json:"deleted"`
}

// IsEmpty сообщает, что состояния совпадают.
func (d OrderDiff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Updated) == 0 && len(d.Removed) == 0
}

// OrderLog пишется по одному на каждое изменение заказа и не меняется.
type OrderLog struct {
	ID        int64
	OrderID   int64
	UserID    int64
	User      OrderLogUser
	Diff      OrderDiff
	Variant   string
	CreatedAt time.Time
}

func NewOrderLog(orderID int64, user OrderLogUser, diff OrderDiff, variant string, now time.Time) *OrderLog {
	return &OrderLog{
		OrderID:   orderID,
		UserID:    user.ID,
		User:      user,
		Diff:      diff,
		Variant:   variant,
		CreatedAt: now,
	}
}
