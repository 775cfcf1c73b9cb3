package http

import (
	"encoding/json"
	"time"

	"github.com/DRSN-tech/marketplace-sync/internal/domain"
	"github.com/DRSN-tech/marketplace-sync/internal/usecase"
	"github.com/shopspring/decimal"
)

// feedID принимает идентификатор товара поставщика и строкой, и числом.
type feedID string

func (f *feedID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = feedID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = feedID(n.String())

	return nil
}

// FeedItemDTO — позиция фида. price в рублях, допускается дробная часть до копеек.
type FeedItemDTO struct {
	ID        feedID          `json:"id"`
	Barcode   []string        `json:"barcode" validate:"max=100,dive,max=64"`
	Available decimal.Decimal `json:"available"`
	Price     decimal.Decimal `json:"price"`
	Name      string          `json:"name" validate:"max=1024"`
}

type SyncResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Stats   usecase.SyncStats `json:"stats"`
}

type NotSyncedDTO struct {
	ID             int64     `json:"id"`
	ShopID         int64     `json:"shopId"`
	Name           string    `json:"name"`
	Price          int64     `json:"price"`
	Available      int       `json:"available"`
	Barcode        []string  `json:"barcode"`
	ShopProductUID string    `json:"shopProductUid"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type NotSyncedPageResponse struct {
	Docs       []NotSyncedDTO `json:"docs"`
	TotalDocs  int64          `json:"totalDocs"`
	TotalPages int            `json:"totalPages"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
}

type SyncIntersectDTO struct {
	ID        int64                         `json:"id"`
	ShopID    int64                         `json:"shopId"`
	Products  []domain.SyncIntersectProduct `json:"products"`
	CreatedAt time.Time                     `json:"createdAt"`
	UpdatedAt time.Time                     `json:"updatedAt"`
}

type UpdateOrderRequest struct {
	Input struct {
		Order OrderInputDTO `json:"order"`
	} `json:"input"`
}

type OrderInputDTO struct {
	ID       int64                  `json:"id"`
	StatusID int64                  `json:"statusId"`
	Products []OrderProductInputDTO `json:"products"`
}

type OrderProductInputDTO struct {
	ID             int64 `json:"id"`
	ShopProductID  int64 `json:"shopProductId"`
	Amount         int   `json:"amount"`
	CustomDiscount int   `json:"customDiscount"`
}

type OrderResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Payload *OrderDTO `json:"payload,omitempty"`
}

type OrderDTO struct {
	ID                          int64             `json:"id"`
	ItemID                      int64             `json:"itemId"`
	ShopID                      int64             `json:"shopId"`
	CustomerID                  int64             `json:"customerId"`
	StatusID                    int64             `json:"statusId"`
	TotalPrice                  int64             `json:"totalPrice"`
	GiftCertificateChargedValue int64             `json:"giftCertificateChargedValue"`
	Products                    []OrderProductDTO `json:"products"`
	UpdatedAt                   time.Time         `json:"updatedAt"`
}

type OrderProductDTO struct {
	ID             int64    `json:"id"`
	ShopProductID  int64    `json:"shopProductId"`
	ProductID      int64    `json:"productId"`
	Name           string   `json:"name"`
	Barcode        []string `json:"barcode"`
	Amount         int      `json:"amount"`
	Price          int64    `json:"price"`
	CustomDiscount int      `json:"customDiscount"`
	PromoIDs       []int64  `json:"promoIds"`
	FinalPrice     int64    `json:"finalPrice"`
	TotalPrice     int64    `json:"totalPrice"`
}

type AddCartProductRequest struct {
	ProductID     int64  `json:"productId"`
	ShopProductID *int64 `json:"shopProductId"`
	Amount        int    `json:"amount"`
}

type UpdateCartProductRequest struct {
	CartProductID int64 `json:"cartProductId"`
	Amount        int   `json:"amount"`
}

type DeleteCartProductRequest struct {
	CartProductID int64 `json:"cartProductId"`
}

type RepeatOrderRequest struct {
	OrderID int64 `json:"orderId"`
}

// MAPPERS

func (r *UpdateOrderRequest) toUseCase() *usecase.UpdateOrderReq {
	in := r.Input.Order
	products := make([]usecase.OrderProductInput, 0, len(in.Products))
	for _, p := range in.Products {
		products = append(products, usecase.OrderProductInput{
			ID:             p.ID,
			ShopProductID:  p.ShopProductID,
			Amount:         p.Amount,
			CustomDiscount: p.CustomDiscount,
		})
	}

	return &usecase.UpdateOrderReq{Order: usecase.OrderInput{
		ID:       in.ID,
		StatusID: in.StatusID,
		Products: products,
	}}
}

func toOrderResponse(p *usecase.OrderPayload) *OrderResponse {
	res := &OrderResponse{Success: p.Success, Message: p.Message}
	if p.Payload == nil {
		return res
	}

	o := p.Payload
	dto := &OrderDTO{
		ID:                          o.ID,
		ItemID:                      o.ItemID,
		ShopID:                      o.ShopID,
		CustomerID:                  o.CustomerID,
		StatusID:                    o.StatusID,
		TotalPrice:                  o.TotalPrice,
		GiftCertificateChargedValue: o.GiftCertificateChargedValue,
		Products:                    make([]OrderProductDTO, 0, len(o.Products)),
		UpdatedAt:                   o.UpdatedAt,
	}
	for _, op := range o.Products {
		dto.Products = append(dto.Products, OrderProductDTO{
			ID:             op.ID,
			ShopProductID:  op.ShopProductID,
			ProductID:      op.ProductID,
			Name:           op.Name,
			Barcode:        op.Barcode,
			Amount:         op.Amount,
			Price:          op.Price,
			CustomDiscount: op.CustomDiscount,
			PromoIDs:       op.PromoIDs,
			FinalPrice:     op.FinalPrice,
			TotalPrice:     op.TotalPrice,
		})
	}
	res.Payload = dto

	return res
}

func toNotSyncedPageResponse(p *usecase.NotSyncedPage) *NotSyncedPageResponse {
	docs := make([]NotSyncedDTO, 0, len(p.Docs))
	for _, d := range p.Docs {
		docs = append(docs, NotSyncedDTO{
			ID:             d.ID,
			ShopID:         d.ShopID,
			Name:           d.Name,
			Price:          d.Price,
			Available:      d.Available,
			Barcode:        d.Barcode,
			ShopProductUID: d.ShopProductUID,
			CreatedAt:      d.CreatedAt,
			UpdatedAt:      d.UpdatedAt,
		})
	}

	return &NotSyncedPageResponse{
		Docs:       docs,
		TotalDocs:  p.TotalDocs,
		TotalPages: p.TotalPages,
		Page:       p.Page,
		Limit:      p.Limit,
	}
}

func toSyncIntersectDTOs(bags []domain.SyncIntersect) []SyncIntersectDTO {
	res := make([]SyncIntersectDTO, 0, len(bags))
	for _, b := range bags {
		res = append(res, SyncIntersectDTO{
			ID:        b.ID,
			ShopID:    b.ShopID,
			Products:  b.Products,
			CreatedAt: b.CreatedAt,
			UpdatedAt: b.UpdatedAt,
		})
	}

	return res
}
