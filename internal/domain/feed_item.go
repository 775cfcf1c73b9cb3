package domain

// FeedItem описывает одну позицию фида синхронизации от кассы или склада магазина.
type FeedItem struct {
	ID        string   // идентификатор товара в системе поставщика
	Barcode   []string // штрихкоды
	Available int      // остаток
	Price     int64    // цена в копейках
	Name      string
}

func NewFeedItem(id string, barcode []string, available int, price int64, name string) FeedItem {
	return FeedItem{
		ID:        id,
		Barcode:   NormalizeBarcodes(barcode),
		Available: available,
		Price:     price,
		Name:      name,
	}
}

// ConflictsWith сообщает, что позиции делят штрихкод, но описывают разные товары.
func (f FeedItem) ConflictsWith(other FeedItem) bool {
	if !BarcodesIntersect(f.Barcode, other.Barcode) {
		return false
	}

	return f.Name != other.Name || f.ID != other.ID
}
