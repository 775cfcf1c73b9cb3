package usecase

import (
	"github.com/DRSN-tech/marketplace-sync/internal/domain"
	"github.com/google/uuid"
)

// Actor — пользователь, от имени которого выполняется операция.
type Actor struct {
	UserID int64
	Name   string
	Role   string
	Locale string
}

// PermissionResult — решение слоя прав доступа.
type PermissionResult struct {
	Allow   bool
	Message string
}

// SYNC

// SyncReq — один фид синхронизации от магазина.
type SyncReq struct {
	Token         string
	APIVersion    string
	SystemVersion string
	Items         []domain.FeedItem
	Raw           []byte // исходное тело запроса, для архива
}

// SyncStats — количество позиций фида по итогам сверки.
type SyncStats struct {
	Blacklisted int `json:"blacklisted"`
	Intersected int `json:"intersected"`
	Unmatched   int `json:"unmatched"`
	Upserted    int `json:"upserted"`
	Skipped     int `json:"skipped"`
}

func (s *SyncStats) Add(o Outcome) {
	switch o {
	case OutcomeBlacklisted:
		s.Blacklisted++
	case OutcomeIntersected:
		s.Intersected++
	case OutcomeUnmatched:
		s.Unmatched++
	case OutcomeUpserted:
		s.Upserted++
	case OutcomeSkipped:
		s.Skipped++
	}
}

type SyncRes struct {
	ShopID  int64
	Message string
	Stats   SyncStats
}

// BACKLOG

// NotSyncedFilter — параметры выборки бэклога. ShopID == nil означает все магазины.
type NotSyncedFilter struct {
	ShopID *int64
	Offset int
	Limit  int
}

type NotSyncedPage struct {
	Docs       []domain.NotSyncedProduct
	Page       int
	Limit      int
	TotalDocs  int64
	TotalPages int
}

// ORDERS

type UpdateOrderReq struct {
	Order OrderInput `validate:"required"`
}

// OrderInput — полное новое состояние заказа.
type OrderInput struct {
	ID       int64               `validate:"required,gt=0"`
	StatusID int64               `validate:"gte=0"`
	Products []OrderProductInput `validate:"required,min=1,dive"`
}

// OrderProductInput — строка заказа. ID == 0 означает новую строку.
type OrderProductInput struct {
	ID             int64 `validate:"gte=0"`
	ShopProductID  int64 `validate:"gte=0"`
	Amount         int   `validate:"gte=1"`
	CustomDiscount int
}

type OrderMutationOutcome struct {
	Order *domain.Order
	Log   *domain.OrderLog
	Diff  domain.OrderDiff
}

// OrderPayload возвращается мутацией заказа.
type OrderPayload struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Payload *domain.Order `json:"payload,omitempty"`
}

// CARTS

// CartRef указывает на корзину: по пользователю или по cookie.
type CartRef struct {
	CartID *uuid.UUID
	UserID *int64
	Locale string
}

type AddCartProductReq struct {
	ProductID     int64  `validate:"required,gt=0"`
	ShopProductID *int64 `validate:"omitempty,gt=0"`
	Amount        int    `validate:"gte=1"`
}

type UpdateCartProductReq struct {
	CartProductID int64 `validate:"required,gt=0"`
	Amount        int   `validate:"gte=1"`
}

type DeleteCartProductReq struct {
	CartProductID int64 `validate:"required,gt=0"`
}

type RepeatOrderReq struct {
	OrderID int64 `validate:"required,gt=0"`
}

// CartPayload возвращается мутациями корзины.
type CartPayload struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	CartID  *uuid.UUID `json:"cartId,omitempty"`
}

// CartView — агрегированная корзина, разделённая на доставку и бронирование.
type CartView struct {
	ID                     uuid.UUID      `json:"id"`
	CartDeliveryProducts   []CartLineView `json:"cartDeliveryProducts"`
	CartBookingProducts    []CartLineView `json:"cartBookingProducts"`
	TotalDeliveryPrice     int64          `json:"totalDeliveryPrice"`
	TotalBookingPrice      int64          `json:"totalBookingPrice"`
	TotalPrice             int64          `json:"totalPrice"`
	IsWithShoplessDelivery bool           `json:"isWithShoplessDelivery"`
	IsWithShoplessBooking  bool           `json:"isWithShoplessBooking"`
	ProductsCount          int            `json:"productsCount"`
}

type CartLineView struct {
	ID            int64  `json:"id"`
	ProductID     int64  `json:"productId"`
	ShopProductID *int64 `json:"shopProductId"`
	ShopID        *int64 `json:"shopId"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Amount        int    `json:"amount"`
	Price         int64  `json:"price"`
	MinPrice      int64  `json:"minPrice"`
	MaxPrice      int64  `json:"maxPrice"`
	ShopsCount    int    `json:"shopsCount"`
	Available     int    `json:"available"`
	TotalPrice    int64  `json:"totalPrice"`
	IsShopless    bool   `json:"isShopless"`
	AllowDelivery bool   `json:"allowDelivery"`
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	Key       int64
	EventID   string
	EventType string
	Payload   []byte
}

// MAPPERS

func NewWriteRawMessageReq(event *domain.OutboxEvent) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:       event.AggregateID,
		EventID:   event.EventID,
		EventType: string(event.EventType),
		Payload:   event.Payload,
	}
}

func NewNotSyncedPage(docs []domain.NotSyncedProduct, page, limit int, total int64) *NotSyncedPage {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	return &NotSyncedPage{
		Docs:       docs,
		Page:       page,
		Limit:      limit,
		TotalDocs:  total,
		TotalPages: totalPages,
	}
}
