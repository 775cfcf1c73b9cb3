package domain

import (
	"slices"
	"time"
)

// SyncIntersectProduct — позиция фида, попавшая в конфликт по штрихкоду.
type SyncIntersectProduct struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Barcode   []string `json:"barcode"`
	Available int      `json:"available"`
	Price     int64    `json:"price"`
}

// SyncIntersect — набор конфликтующих позиций одного магазина.
// Разбирается вручную, автоматически не разрешается.
type SyncIntersect struct {
	ID        int64
	ShopID    int64
	Products  []SyncIntersectProduct
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewSyncIntersectProduct(item FeedItem) SyncIntersectProduct {
	return SyncIntersectProduct{
		ID:        item.ID,
		Name:      item.Name,
		Barcode:   item.Barcode,
		Available: item.Available,
		Price:     item.Price,
	}
}

func NewSyncIntersect(shopID int64, item FeedItem, now time.Time) *SyncIntersect {
	return &SyncIntersect{
		ShopID:    shopID,
		Products:  []SyncIntersectProduct{NewSyncIntersectProduct(item)},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Barcodes возвращает все штрихкоды набора.
func (s *SyncIntersect) Barcodes() []string {
	var res []string
	for _, p := range s.Products {
		res = append(res, p.Barcode...)
	}

	return NormalizeBarcodes(res)
}

// Append добавляет позицию в набор. Возвращает false, если такая позиция уже есть.
func (s *SyncIntersect) Append(item FeedItem, now time.Time) bool {
	candidate := NewSyncIntersectProduct(item)
	for _, p := range s.Products {
		if p.ID == candidate.ID && p.Name == candidate.Name && slices.Equal(p.Barcode, candidate.Barcode) {
			return false
		}
	}

	s.Products = append(s.Products, candidate)
	s.UpdatedAt = now
	return true
}
