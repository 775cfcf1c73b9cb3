package converter

import (
	"github.com/DRSN-tech/marketplace-sync/internal/domain"
)

// ShopConverter преобразует Shop между domain и моделью PostgreSQL.
type ShopConverter interface {
	ToEntity(model *ShopModel) *domain.Shop
}

// CatalogProductConverter преобразует CatalogProduct между domain и моделью PostgreSQL.
type CatalogProductConverter interface {
	ToEntity(model *CatalogProductModel) *domain.CatalogProduct
	ToArrEntity(models []CatalogProductModel) []domain.CatalogProduct
}

// ShopProductConverter преобразует ShopProduct между domain и моделью PostgreSQL.
type ShopProductConverter interface {
	ToModel(entity *domain.ShopProduct) *ShopProductModel
	ToEntity(model *ShopProductModel) *domain.ShopProduct
	ToArrEntity(models []ShopProductModel) []domain.ShopProduct
}

type NotSyncedProductConverter interface {
	ToModel(entity *domain.NotSyncedProduct) *NotSyncedProductModel
	ToEntity(model *NotSyncedProductModel) *domain.NotSyncedProduct
}

type SyncIntersectConverter interface {
	ToModel(entity *domain.SyncIntersect) *SyncIntersectModel
	ToEntity(model *SyncIntersectModel) *domain.SyncIntersect
}

// OrderConverter преобразует заказ, его строки, статусы и акции.
type OrderConverter interface {
	ToEntity(model *OrderModel, products []OrderProductModel) *domain.Order
	ProductToModel(entity *domain.OrderProduct) *OrderProductModel
	ProductToEntity(model *OrderProductModel) domain.OrderProduct
	StatusToEntity(model *OrderStatusModel) *domain.OrderStatus
	PromoToEntity(model *PromoModel) domain.Promo
}

type OrderLogConverter interface {
	ToModel(entity *domain.OrderLog) *OrderLogModel
}

type CartConverter interface {
	ToEntity(model *CartModel, products []CartProductModel) *domain.Cart
	ProductToModel(entity *domain.CartProduct) *CartProductModel
}

// OutboxEventConverter преобразует OutboxEvent между domain и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *domain.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *domain.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*domain.OutboxEvent
}

type shopConverter struct{}

func NewShopConverter() ShopConverter { return shopConverter{} }

func (shopConverter) ToEntity(m *ShopModel) *domain.Shop {
	return &domain.Shop{ID: m.ID, Name: m.Name, Slug: m.Slug, Token: m.Token, CreatedAt: m.CreatedAt}
}

type catalogProductConverter struct{}

func NewCatalogProductConverter() CatalogProductConverter { return catalogProductConverter{} }

func (catalogProductConverter) ToEntity(m *CatalogProductModel) *domain.CatalogProduct {
	return &domain.CatalogProduct{
		ID:            m.ID,
		ItemID:        m.ItemID,
		Name:          m.Name,
		Slug:          m.Slug,
		RubricID:      m.RubricID,
		Barcode:       m.Barcode,
		AllowDelivery: m.AllowDelivery,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (c catalogProductConverter) ToArrEntity(models []CatalogProductModel) []domain.CatalogProduct {
	res := make([]domain.CatalogProduct, 0, len(models))
	for i := range models {
		res = append(res, *c.ToEntity(&models[i]))
	}
	return res
}

type shopProductConverter struct{}

func NewShopProductConverter() ShopProductConverter { return shopProductConverter{} }

func (shopProductConverter) ToModel(e *domain.ShopProduct) *ShopProductModel {
	history := make([]PriceHistoryModel, 0, len(e.OldPrices))
	for _, h := range e.OldPrices {
		history = append(history, PriceHistoryModel{Price: h.Price, CreatedAt: h.CreatedAt})
	}

	return &ShopProductModel{
		ID:                e.ID,
		ShopID:            e.ShopID,
		ProductID:         e.ProductID,
		ItemID:            e.ItemID,
		Name:              e.Name,
		Slug:              e.Slug,
		RubricID:          e.RubricID,
		Available:         e.Available,
		Price:             e.Price,
		OldPrice:          e.OldPrice,
		OldPrices:         history,
		DiscountedPercent: e.DiscountedPercent,
		Barcode:           e.Barcode,
		ShopProductUID:    e.ShopProductUID,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func (shopProductConverter) ToEntity(m *ShopProductModel) *domain.ShopProduct {
	history := make([]domain.PriceHistoryItem, 0, len(m.OldPrices))
	for _, h := range m.OldPrices {
		history = append(history, domain.PriceHistoryItem{Price: h.Price, CreatedAt: h.CreatedAt})
	}

	return &domain.ShopProduct{
		ID:                m.ID,
		ShopID:            m.ShopID,
		ProductID:         m.ProductID,
		ItemID:            m.ItemID,
		Name:              m.Name,
		Slug:              m.Slug,
		RubricID:          m.RubricID,
		Available:         m.Available,
		Price:             m.Price,
		OldPrice:          m.OldPrice,
		OldPrices:         history,
		DiscountedPercent: m.DiscountedPercent,
		Barcode:           m.Barcode,
		ShopProductUID:    m.ShopProductUID,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func (c shopProductConverter) ToArrEntity(models []ShopProductModel) []domain.ShopProduct {
	res := make([]domain.ShopProduct, 0, len(models))
	for i := range models {
		res = append(res, *c.ToEntity(&models[i]))
	}
	return res
}

type notSyncedProductConverter struct{}

func NewNotSyncedProductConverter() NotSyncedProductConverter { return notSyncedProductConverter{} }

func (notSyncedProductConverter) ToModel(e *domain.NotSyncedProduct) *NotSyncedProductModel {
	return &NotSyncedProductModel{
		ID:             e.ID,
		ShopID:         e.ShopID,
		Name:           e.Name,
		Price:          e.Price,
		Available:      e.Available,
		Barcode:        e.Barcode,
		ShopProductUID: e.ShopProductUID,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func (notSyncedProductConverter) ToEntity(m *NotSyncedProductModel) *domain.NotSyncedProduct {
	return &domain.NotSyncedProduct{
		ID:             m.ID,
		ShopID:         m.ShopID,
		Name:           m.Name,
		Price:          m.Price,
		Available:      m.Available,
		Barcode:        m.Barcode,
		ShopProductUID: m.ShopProductUID,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

type syncIntersectConverter struct{}

func NewSyncIntersectConverter() SyncIntersectConverter { return syncIntersectConverter{} }

func (syncIntersectConverter) ToModel(e *domain.SyncIntersect) *SyncIntersectModel {
	products := make([]SyncIntersectProductModel, 0, len(e.Products))
	for _, p := range e.Products {
		products = append(products, SyncIntersectProductModel(p))
	}

	return &SyncIntersectModel{
		ID:        e.ID,
		ShopID:    e.ShopID,
		Products:  products,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func (syncIntersectConverter) ToEntity(m *SyncIntersectModel) *domain.SyncIntersect {
	products := make([]domain.SyncIntersectProduct, 0, len(m.Products))
	for _, p := range m.Products {
		products = append(products, domain.SyncIntersectProduct(p))
	}

	return &domain.SyncIntersect{
		ID:        m.ID,
		ShopID:    m.ShopID,
		Products:  products,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type orderConverter struct{}

func NewOrderConverter() OrderConverter { return orderConverter{} }

func (c orderConverter) ToEntity(m *OrderModel, products []OrderProductModel) *domain.Order {
	order := &domain.Order{
		ID:                          m.ID,
		ItemID:                      m.ItemID,
		ShopID:                      m.ShopID,
		CustomerID:                  m.CustomerID,
		StatusID:                    m.StatusID,
		TotalPrice:                  m.TotalPrice,
		GiftCertificateChargedValue: m.GiftCertificateChargedValue,
		Products:                    make([]domain.OrderProduct, 0, len(products)),
		CreatedAt:                   m.CreatedAt,
		UpdatedAt:                   m.UpdatedAt,
	}
	for i := range products {
		order.Products = append(order.Products, c.ProductToEntity(&products[i]))
	}

	return order
}

func (orderConverter) ProductToModel(e *domain.OrderProduct) *OrderProductModel {
	promoIDs := e.PromoIDs
	if promoIDs == nil {
		promoIDs = []int64{}
	}

	return &OrderProductModel{
		ID:             e.ID,
		OrderID:        e.OrderID,
		ShopProductID:  e.ShopProductID,
		ProductID:      e.ProductID,
		Name:           e.Name,
		Barcode:        e.Barcode,
		Amount:         e.Amount,
		Price:          e.Price,
		CustomDiscount: e.CustomDiscount,
		PromoIDs:       promoIDs,
		FinalPrice:     e.FinalPrice,
		TotalPrice:     e.TotalPrice,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func (orderConverter) ProductToEntity(m *OrderProductModel) domain.OrderProduct {
	return domain.OrderProduct{
		ID:             m.ID,
		OrderID:        m.OrderID,
		ShopProductID:  m.ShopProductID,
		ProductID:      m.ProductID,
		Name:           m.Name,
		Barcode:        m.Barcode,
		Amount:         m.Amount,
		Price:          m.Price,
		CustomDiscount: m.CustomDiscount,
		PromoIDs:       m.PromoIDs,
		FinalPrice:     m.FinalPrice,
		TotalPrice:     m.TotalPrice,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func (orderConverter) StatusToEntity(m *OrderStatusModel) *domain.OrderStatus {
	return &domain.OrderStatus{ID: m.ID, Slug: m.Slug, Name: m.Name, IsNew: m.IsNew, IsCanceled: m.IsCanceled}
}

func (orderConverter) PromoToEntity(m *PromoModel) domain.Promo {
	return domain.Promo{
		ID:              m.ID,
		ShopID:          m.ShopID,
		DiscountPercent: m.DiscountPercent,
		StartsAt:        m.StartsAt,
		EndsAt:          m.EndsAt,
	}
}

type orderLogConverter struct{}

func NewOrderLogConverter() OrderLogConverter { return orderLogConverter{} }

func (orderLogConverter) ToModel(e *domain.OrderLog) *OrderLogModel {
	return &OrderLogModel{
		ID:      e.ID,
		OrderID: e.OrderID,
		UserID:  e.UserID,
		User:    OrderLogUserModel(e.User),
		Diff: OrderDiffModel{
			Added:   e.Diff.Added,
			Updated: e.Diff.Updated,
			Deleted: e.Diff.Removed,
		},
		Variant:   e.Variant,
		CreatedAt: e.CreatedAt,
	}
}

type cartConverter struct{}

func NewCartConverter() CartConverter { return cartConverter{} }

func (cartConverter) ToEntity(m *CartModel, products []CartProductModel) *domain.Cart {
	cart := &domain.Cart{
		ID:        m.ID,
		UserID:    m.UserID,
		Products:  make([]domain.CartProduct, 0, len(products)),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	for _, p := range products {
		cart.Products = append(cart.Products, domain.CartProduct(p))
	}

	return cart
}

func (cartConverter) ProductToModel(e *domain.CartProduct) *CartProductModel {
	m := CartProductModel(*e)
	return &m
}

type outboxEventConverter struct{}

func NewOutboxEventConverter() OutboxEventConverter { return outboxEventConverter{} }

func (outboxEventConverter) ToModel(e *domain.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:          e.ID,
		EventID:     e.EventID,
		EventType:   string(e.EventType),
		AggregateID: e.AggregateID,
		Payload:     e.Payload,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
		ProcessedAt: e.ProcessedAt,
	}
}

func (outboxEventConverter) ToEntity(m *OutboxEventModel) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:          m.ID,
		EventID:     m.EventID,
		EventType:   domain.OutboxEventType(m.EventType),
		AggregateID: m.AggregateID,
		Payload:     m.Payload,
		Status:      domain.OutboxStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		ProcessedAt: m.ProcessedAt,
	}
}

func (c outboxEventConverter) ToArrEntity(models []*OutboxEventModel) []*domain.OutboxEvent {
	res := make([]*domain.OutboxEvent, 0, len(models))
	for _, m := range models {
		res = append(res, c.ToEntity(m))
	}
	return res
}
