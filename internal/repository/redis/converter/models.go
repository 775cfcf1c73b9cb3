package converter

import "time"

// ShopRedisModel — представление магазина в кэше по токену синхронизации.
type ShopRedisModel struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}
