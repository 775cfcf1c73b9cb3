package usecase

import (
	"context"

	"github.com/DRSN-tech/marketplace-sync/internal/domain"
	"github.com/google/uuid"
)

// Методы поиска возвращают (nil, nil), если запись не найдена,
// кроме Get*-методов, которые возвращают ошибку e.Err*NotFound.

type ShopRepository interface {
	GetByToken(ctx context.Context, token string) (*domain.Shop, error)
}

type ShopCacheRepository interface {
	GetShop(ctx context.Context, token string) (*domain.Shop, error)
	SetShop(ctx context.Context, token string, shop *domain.Shop) error
}

type CatalogProductRepository interface {
	FindByBarcodes(ctx context.Context, barcodes []string) (*domain.CatalogProduct, error)
	AppendBarcodes(ctx context.Context, productID int64, barcodes []string) error
	GetByID(ctx context.Context, id int64) (*domain.CatalogProduct, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.CatalogProduct, error)
}

type ShopProductRepository interface {
	FindForSync(ctx context.Context, shopID, productID int64, barcodes []string) ([]domain.ShopProduct, error)
	Update(ctx context.Context, shopProduct *domain.ShopProduct) error
	BulkInsert(ctx context.Context, shopProducts []*domain.ShopProduct) error
	NextItemID(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.ShopProduct, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.ShopProduct, error)
	ListOffers(ctx context.Context, productIDs []int64) ([]domain.ShopProduct, error)
}

type NotSyncedRepository interface {
	FindByBarcodes(ctx context.Context, shopID int64, barcodes []string) (*domain.NotSyncedProduct, error)
	Create(ctx context.Context, product *domain.NotSyncedProduct) error
	Update(ctx context.Context, product *domain.NotSyncedProduct) error
	List(ctx context.Context, filter NotSyncedFilter) ([]domain.NotSyncedProduct, int64, error)
}

type SyncIntersectRepository interface {
	FindByBarcodes(ctx context.Context, shopID int64, barcodes []string) (*domain.SyncIntersect, error)
	Create(ctx context.Context, intersect *domain.SyncIntersect) error
	UpdateProducts(ctx context.Context, intersect *domain.SyncIntersect) error
	ListByShop(ctx context.Context, shopID int64) ([]domain.SyncIntersect, error)
}

type BlacklistRepository interface {
	ListByShop(ctx context.Context, shopID int64) ([]domain.BlacklistEntry, error)
}

type OrderRepository interface {
	Get(ctx context.Context, id int64) (*domain.Order, error)
	GetForUpdate(ctx context.Context, id int64) (*domain.Order, error)
	GetStatus(ctx context.Context, id int64) (*domain.OrderStatus, error)
	ListProducts(ctx context.Context, orderID int64) ([]domain.OrderProduct, error)
	InsertProduct(ctx context.Context, product *domain.OrderProduct) error
	UpdateProduct(ctx context.Context, product *domain.OrderProduct) error
	DeleteProducts(ctx context.Context, orderID int64, ids []int64) error
	UpdateTotal(ctx context.Context, orderID int64, totalPrice int64) error
	UpdateStatus(ctx context.Context, orderID int64, statusID int64) error
}

type PromoRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Promo, error)
}

type OrderLogRepository interface {
	Create(ctx context.Context, log *domain.OrderLog) error
}

type CartRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Cart, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Cart, error)
	Create(ctx context.Context, cart *domain.Cart) error
	AddProduct(ctx context.Context, product *domain.CartProduct) error
	UpdateProductAmount(ctx context.Context, cartID uuid.UUID, cartProductID int64, amount int) error
	DeleteProduct(ctx context.Context, cartID uuid.UUID, cartProductID int64) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *domain.OutboxEvent) (*domain.OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	ReturnToPending(ctx context.Context, id int64) error
}
