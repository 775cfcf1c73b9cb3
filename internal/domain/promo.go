package domain

import "time"

// Promo — акция магазина со скидкой в процентах
type Promo struct {
	ID              int64
	ShopID          int64
	DiscountPercent int
	StartsAt        time.Time
	EndsAt          *time.Time
}

// IsActive сообщает, действует ли акция в момент now.
func (p Promo) IsActive(now time.Time) bool {
	if now.Before(p.StartsAt) {
		return false
	}

	return p.EndsAt == nil || now.Before(*p.EndsAt)
}
