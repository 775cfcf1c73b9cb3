package domain

import (
	"time"

	"github.com/google/uuid"
)

// Cart привязана к cookie гостя или к пользователю.
type Cart struct {
	ID        uuid.UUID
	UserID    *int64
	Products  []CartProduct
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartProduct ссылается либо на товар каталога без магазина, либо на конкретный товар магазина.
type CartProduct struct {
	ID            int64
	CartID        uuid.UUID
	ProductID     int64
	ShopProductID *int64
	Amount        int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsShopless сообщает, что строка ещё не привязана к магазину.
func (c CartProduct) IsShopless() bool {
	return c.ShopProductID == nil
}

func NewCart(userID *int64, now time.Time) *Cart {
	return &Cart{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FindProduct ищет строку корзины с тем же товаром и тем же товаром магазина.
func (c *Cart) FindProduct(productID int64, shopProductID *int64) (*CartProduct, bool) {
	for i := range c.Products {
		p := &c.Products[i]
		if p.ProductID != productID {
			continue
		}
		if (p.ShopProductID == nil) != (shopProductID == nil) {
			continue
		}
		if p.ShopProductID == nil || *p.ShopProductID == *shopProductID {
			return p, true
		}
	}

	return nil, false
}
