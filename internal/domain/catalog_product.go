package domain

import "time"

// CatalogProduct описывает товар каталога.
// Один товар может нести штрихкоды нескольких поставщиков.
type CatalogProduct struct {
	ID            int64
	ItemID        int64
	Name          string
	Slug          string
	RubricID      int64
	Barcode       []string
	AllowDelivery bool
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
