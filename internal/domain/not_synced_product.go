package domain

import "time"

// NotSyncedProduct — позиция фида, для которой не нашёлся товар каталога
type NotSyncedProduct struct {
	ID             int64
	ShopID         int64
	Name           string
	Price          int64
	Available      int
	Barcode        []string
	ShopProductUID string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewNotSyncedProduct(shopID int64, item FeedItem, now time.Time) *NotSyncedProduct {
	return &NotSyncedProduct{
		ShopID:         shopID,
		Name:           item.Name,
		Price:          item.Price,
		Available:      item.Available,
		Barcode:        UnionBarcodes(nil, item.Barcode),
		ShopProductUID: item.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Merge обновляет запись свежими данными фида, штрихкоды объединяются.
func (n *NotSyncedProduct) Merge(item FeedItem, now time.Time) {
	n.Name = item.Name
	n.Price = item.Price
	n.Available = item.Available
	n.Barcode = UnionBarcodes(n.Barcode, item.Barcode)
	if item.ID != "" {
		n.ShopProductUID = item.ID
	}
	n.UpdatedAt = now
}
