package domain

import "time"

// OrderStatus — справочник статусов заказа
type OrderStatus struct {
	ID         int64
	Slug       string
	Name       string
	IsNew      bool
	IsCanceled bool
}

// Order описывает заказ покупателя в одном магазине.
type Order struct {
	ID                          int64
	ItemID                      int64
	ShopID                      int64
	CustomerID                  int64
	StatusID                    int64
	TotalPrice                  int64
	GiftCertificateChargedValue int64
	Products                    []OrderProduct
	CreatedAt                   time.Time
	UpdatedAt                   time.Time
}

// OrderProduct — строка заказа. Цена, скидка и итоги фиксируются в момент изменения заказа.
type OrderProduct struct {
	ID             int64
	OrderID        int64
	ShopProductID  int64
	ProductID      int64
	Name           string
	Barcode        []string
	Amount         int
	Price          int64
	CustomDiscount int
	PromoIDs       []int64
	FinalPrice     int64
	TotalPrice     int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProductsTotal возвращает сумму итогов по всем строкам заказа.
func (o *Order) ProductsTotal() int64 {
	var total int64
	for _, p := range o.Products {
		total += p.TotalPrice
	}

	return total
}

// RecountTotal пересчитывает итог заказа по текущим строкам за вычетом подарочного сертификата.
func (o *Order) RecountTotal() {
	o.TotalPrice = o.ProductsTotal() - o.GiftCertificateChargedValue
}

// FindProduct ищет строку заказа по идентификатору.
func (o *Order) FindProduct(id int64) (*OrderProduct, bool) {
	for i := range o.Products {
		if o.Products[i].ID == id {
			return &o.Products[i], true
		}
	}

	return nil, false
}
