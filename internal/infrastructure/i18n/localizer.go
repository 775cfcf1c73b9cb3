// Package i18n отдаёт пользовательские сообщения по ключам на языке запроса.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	MsgPermissionDenied = "permissions.denied"
	MsgSyncSynced       = "sync.synced"
	MsgSyncBlacklisted  = "sync.allBlacklisted"
)

var supported = []language.Tag{language.Russian, language.English}

var messages = map[language.Tag]map[string]string{
	language.Russian: {
		"orders.updateOrder.success":            "Заказ обновлён",
		"orders.updateOrder.error":              "Не удалось обновить заказ",
		"orders.updateOrder.notFound":           "Заказ не найден",
		"orders.updateOrder.productNotFound":    "Товар магазина не найден",
		"orders.updateOrder.statusNotFound":     "Статус заказа не найден",
		"orders.updateOrder.notEnoughAvailable": "Недостаточно товара в наличии",

		"carts.addProduct.success":               "Товар добавлен в корзину",
		"carts.addProduct.error":                 "Не удалось добавить товар в корзину",
		"carts.addProduct.notFound":              "Товар не найден",
		"carts.addProduct.notEnoughAvailable":    "Недостаточно товара в наличии",
		"carts.addProduct.shoplessBooking":       "Товар без магазина нельзя забронировать",
		"carts.updateProduct.success":            "Количество обновлено",
		"carts.updateProduct.error":              "Не удалось обновить товар в корзине",
		"carts.updateProduct.notFound":           "Товар в корзине не найден",
		"carts.updateProduct.notEnoughAvailable": "Недостаточно товара в наличии",
		"carts.deleteProduct.success":            "Товар удалён из корзины",
		"carts.deleteProduct.error":              "Не удалось удалить товар из корзины",
		"carts.deleteProduct.notFound":           "Товар в корзине не найден",
		"carts.repeatOrder.success":              "Товары заказа добавлены в корзину",
		"carts.repeatOrder.error":                "Не удалось повторить заказ",
		"carts.repeatOrder.notFound":             "Заказ не найден",
		"carts.repeatOrder.nothingAvailable":     "Ни одного товара из заказа нет в наличии",

		MsgPermissionDenied: "Недостаточно прав",
		MsgSyncSynced:       "Остатки синхронизированы",
		MsgSyncBlacklisted:  "Все товары в чёрном списке",
	},
	language.English: {
		"orders.updateOrder.success":            "Order updated",
		"orders.updateOrder.error":              "Failed to update order",
		"orders.updateOrder.notFound":           "Order not found",
		"orders.updateOrder.productNotFound":    "Shop product not found",
		"orders.updateOrder.statusNotFound":     "Order status not found",
		"orders.updateOrder.notEnoughAvailable": "Not enough products available",

		"carts.addProduct.success":               "Product added to cart",
		"carts.addProduct.error":                 "Failed to add product to cart",
		"carts.addProduct.notFound":              "Product not found",
		"carts.addProduct.notEnoughAvailable":    "Not enough products available",
		"carts.addProduct.shoplessBooking":       "A product without a shop cannot be booked",
		"carts.updateProduct.success":            "Amount updated",
		"carts.updateProduct.error":              "Failed to update cart product",
		"carts.updateProduct.notFound":           "Cart product not found",
		"carts.updateProduct.notEnoughAvailable": "Not enough products available",
		"carts.deleteProduct.success":            "Product removed from cart",
		"carts.deleteProduct.error":              "Failed to remove product from cart",
		"carts.deleteProduct.notFound":           "Cart product not found",
		"carts.repeatOrder.success":              "Order products added to cart",
		"carts.repeatOrder.error":                "Failed to repeat order",
		"carts.repeatOrder.notFound":             "Order not found",
		"carts.repeatOrder.nothingAvailable":     "None of the order products are available",

		MsgPermissionDenied: "Permission denied",
		MsgSyncSynced:       "Stock synchronized",
		MsgSyncBlacklisted:  "All products are blacklisted",
	},
}

// Localizer реализует usecase.Localizer поверх каталога x/text.
type Localizer struct {
	matcher  language.Matcher
	fallback language.Tag
	printers map[language.Tag]*message.Printer
}

// NewLocalizer собирает каталог. Неизвестный defaultLanguage заменяется русским.
func NewLocalizer(defaultLanguage string) (*Localizer, error) {
	builder := catalog.NewBuilder(catalog.Fallback(language.Russian))
	for tag, entries := range messages {
		for key, msg := range entries {
			if err := builder.SetString(tag, key, msg); err != nil {
				return nil, err
			}
		}
	}

	fallback := language.Russian
	if tag, err := language.Parse(defaultLanguage); err == nil {
		_, idx, _ := language.NewMatcher(supported).Match(tag)
		fallback = supported[idx]
	}

	printers := make(map[language.Tag]*message.Printer, len(supported))
	for _, tag := range supported {
		printers[tag] = message.NewPrinter(tag, message.Catalog(builder))
	}

	return &Localizer{
		matcher:  language.NewMatcher(supported),
		fallback: fallback,
		printers: printers,
	}, nil
}

// Message принимает locale в формате Accept-Language. Неизвестный ключ возвращается как есть.
func (l *Localizer) Message(locale string, key string) string {
	return l.printers[l.resolve(locale)].Sprintf(key)
}

func (l *Localizer) resolve(locale string) language.Tag {
	if locale == "" {
		return l.fallback
	}

	tags, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(tags) == 0 {
		return l.fallback
	}

	_, idx, confidence := l.matcher.Match(tags...)
	if confidence == language.No {
		return l.fallback
	}

	return supported[idx]
}
