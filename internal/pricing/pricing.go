// Package pricing считает цены со скидкой. Все цены в целых копейках.
package pricing

import "github.com/shopspring/decimal"

const (
	minDiscount = 0
	maxDiscount = 100
)

var hundred = decimal.NewFromInt(100)

// DiscountedPriceInput — цена и суммарная скидка в процентах.
type DiscountedPriceInput struct {
	Price    int64
	Discount int
}

// DiscountedPrice — цена после скидки и фактически применённая скидка.
type DiscountedPrice struct {
	DiscountedPrice int64
	FinalDiscount   int
}

// ClampDiscount ограничивает скидку диапазоном [0, 100].
func ClampDiscount(discount int) int {
	return min(max(discount, minDiscount), maxDiscount)
}

// CountDiscountedPrice применяет скидку к цене, округляя результат вверх.
func CountDiscountedPrice(in DiscountedPriceInput) DiscountedPrice {
	discount := ClampDiscount(in.Discount)

	price := decimal.NewFromInt(in.Price).
		Mul(decimal.NewFromInt(int64(maxDiscount - discount))).
		Div(hundred).
		Ceil()

	return DiscountedPrice{
		DiscountedPrice: price.IntPart(),
		FinalDiscount:   discount,
	}
}

// TotalDiscount складывает ручную скидку строки и скидки действующих акций.
func TotalDiscount(customDiscount int, promoDiscounts ...int) int {
	total := customDiscount
	for _, d := range promoDiscounts {
		total += d
	}

	return ClampDiscount(total)
}

// LineTotal возвращает итог строки: количество * цена.
func LineTotal(amount int, price int64) int64 {
	return decimal.NewFromInt(price).Mul(decimal.NewFromInt(int64(amount))).IntPart()
}

// DiscountedPercent — на сколько процентов новая цена ниже прежней.
// Если цена выросла или прежней цены нет, возвращает 0.
func DiscountedPercent(oldPrice, newPrice int64) int {
	if oldPrice <= 0 || newPrice >= oldPrice {
		return 0
	}

	percent := decimal.NewFromInt(oldPrice - newPrice).
		Mul(hundred).
		Div(decimal.NewFromInt(oldPrice)).
		Round(0)

	return ClampDiscount(int(percent.IntPart()))
}
