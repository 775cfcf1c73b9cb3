package usecase

import (
	"context"

	"github.com/DRSN-tech/marketplace-sync/internal/domain"
)

type SyncUC interface {
	Sync(ctx context.Context, req *SyncReq) (*SyncRes, error)
}

type BacklogUC interface {
	RecordUnmatched(ctx context.Context, shopID int64, item domain.FeedItem) *domain.NotSyncedProduct
	ListNotSynced(ctx context.Context, shopID *int64, filters []string) *NotSyncedPage
	ListIntersects(ctx context.Context, shopID int64) []domain.SyncIntersect
}

type OrderUC interface {
	UpdateOrder(ctx context.Context, actor Actor, req *UpdateOrderReq) *OrderPayload
}

type CartUC interface {
	GetCart(ctx context.Context, ref CartRef) *CartView
	AddProduct(ctx context.Context, ref CartRef, req *AddCartProductReq) *CartPayload
	UpdateProduct(ctx context.Context, ref CartRef, req *UpdateCartProductReq) *CartPayload
	DeleteProduct(ctx context.Context, ref CartRef, req *DeleteCartProductReq) *CartPayload
	RepeatOrder(ctx context.Context, ref CartRef, req *RepeatOrderReq) *CartPayload
}
