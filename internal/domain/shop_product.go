package domain

import (
	"time"

	"github.com/DRSN-tech/marketplace-sync/internal/pricing"
)

// PriceHistoryItem — прежняя цена товара магазина
type PriceHistoryItem struct {
	Price     int64     `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
}

// ShopProduct — товар конкретного магазина с ценой и остатком.
type ShopProduct struct {
	ID                int64
	ShopID            int64
	ProductID         int64
	ItemID            int64
	Name              string
	Slug              string
	RubricID          int64
	Available         int
	Price             int64 // Цена хранится в копейках
	OldPrice          int64
	OldPrices         []PriceHistoryItem
	DiscountedPercent int
	Barcode           []string
	ShopProductUID    string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewShopProductFromFeed собирает новый товар магазина из карточки каталога и позиции фида.
func NewShopProductFromFeed(shopID int64, itemID int64, product *CatalogProduct, item FeedItem, now time.Time) *ShopProduct {
	return &ShopProduct{
		ShopID:         shopID,
		ProductID:      product.ID,
		ItemID:         itemID,
		Name:           product.Name,
		Slug:           product.Slug,
		RubricID:       product.RubricID,
		Available:      item.Available,
		Price:          item.Price,
		OldPrices:      []PriceHistoryItem{},
		Barcode:        UnionBarcodes(nil, item.Barcode),
		ShopProductUID: item.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// ApplyFeed обновляет остаток и цену по позиции фида.
// Прежняя цена попадает в историю только если цена действительно изменилась,
// поэтому повторная отправка того же фида ничего не меняет.
func (sp *ShopProduct) ApplyFeed(item FeedItem, now time.Time) {
	if sp.Price != item.Price {
		sp.OldPrices = append(sp.OldPrices, PriceHistoryItem{Price: sp.Price, CreatedAt: now})
		sp.OldPrice = sp.Price
		sp.DiscountedPercent = pricing.DiscountedPercent(sp.Price, item.Price)
	}

	sp.OverwriteFromFeed(item, now)
}

// OverwriteFromFeed заменяет остаток и цену без записи в историю.
// Для товара, который ещё не сохранён: у него нет прежней цены.
func (sp *ShopProduct) OverwriteFromFeed(item FeedItem, now time.Time) {
	sp.Available = max(item.Available, 0)
	sp.Price = item.Price
	sp.Barcode = UnionBarcodes(sp.Barcode, item.Barcode)
	if item.ID != "" {
		sp.ShopProductUID = item.ID
	}
	sp.UpdatedAt = now
}
