package domain

// BlacklistEntry — набор штрихкодов, который магазин исключил из синхронизации
type BlacklistEntry struct {
	ID      int64
	ShopID  int64
	Name    string
	Barcode []string
}
