package converter

import (
	"time"

	"github.com/google/uuid"
)

// ShopModel представляет запись таблицы shops в PostgreSQL.
type ShopModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	Token     string    `db:"token"`
	CreatedAt time.Time `db:"created_at"`
}

// CatalogProductModel представляет запись таблицы products в PostgreSQL.
type CatalogProductModel struct {
	ID            int64      `db:"id"`
	ItemID        int64      `db:"item_id"`
	Name          string     `db:"name"`
	Slug          string     `db:"slug"`
	RubricID      int64      `db:"rubric_id"`
	Barcode       []string   `db:"barcode"`
	AllowDelivery bool       `db:"allow_delivery"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     *time.Time `db:"updated_at"`
}

// PriceHistoryModel — элемент jsonb-массива shop_products.old_prices.
type PriceHistoryModel struct {
	Price     int64     `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
}

// ShopProductModel представляет запись таблицы shop_products в PostgreSQL.
type ShopProductModel struct {
	ID                int64               `db:"id"`
	ShopID            int64               `db:"shop_id"`
	ProductID         int64               `db:"product_id"`
	ItemID            int64               `db:"item_id"`
	Name              string              `db:"name"`
	Slug              string              `db:"slug"`
	RubricID          int64               `db:"rubric_id"`
	Available         int                 `db:"available"`
	Price             int64               `db:"price"`
	OldPrice          int64               `db:"old_price"`
	OldPrices         []PriceHistoryModel `db:"old_prices"`
	DiscountedPercent int                 `db:"discounted_percent"`
	Barcode           []string            `db:"barcode"`
	ShopProductUID    string              `db:"shop_product_uid"`
	CreatedAt         time.Time           `db:"created_at"`
	UpdatedAt         time.Time           `db:"updated_at"`
}

// NotSyncedProductModel представляет запись таблицы not_synced_products в PostgreSQL.
type NotSyncedProductModel struct {
	ID             int64     `db:"id"`
	ShopID         int64     `db:"shop_id"`
	Name           string    `db:"name"`
	Price          int64     `db:"price"`
	Available      int       `db:"available"`
	Barcode        []string  `db:"barcode"`
	ShopProductUID string    `db:"shop_product_uid"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// SyncIntersectProductModel — элемент jsonb-массива sync_intersects.products.
type SyncIntersectProductModel struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Barcode   []string `json:"barcode"`
	Available int      `json:"available"`
	Price     int64    `json:"price"`
}

// SyncIntersectModel представляет запись таблицы sync_intersects в PostgreSQL.
type SyncIntersectModel struct {
	ID        int64                       `db:"id"`
	ShopID    int64                       `db:"shop_id"`
	Products  []SyncIntersectProductModel `db:"products"`
	CreatedAt time.Time                   `db:"created_at"`
	UpdatedAt time.Time                   `db:"updated_at"`
}

// BlacklistEntryModel представляет запись таблицы blacklisted_products в PostgreSQL.
type BlacklistEntryModel struct {
	ID      int64    `db:"id"`
	ShopID  int64    `db:"shop_id"`
	Name    string   `db:"name"`
	Barcode []string `db:"barcode"`
}

type OrderStatusModel struct {
	ID         int64  `db:"id"`
	Slug       string `db:"slug"`
	Name       string `db:"name"`
	IsNew      bool   `db:"is_new"`
	IsCanceled bool   `db:"is_canceled"`
}

// OrderModel представляет запись таблицы orders в PostgreSQL.
type OrderModel struct {
	ID                          int64     `db:"id"`
	ItemID                      int64     `db:"item_id"`
	ShopID                      int64     `db:"shop_id"`
	CustomerID                  int64     `db:"customer_id"`
	StatusID                    int64     `db:"status_id"`
	TotalPrice                  int64     `db:"total_price"`
	GiftCertificateChargedValue int64     `db:"gift_certificate_charged_value"`
	CreatedAt                   time.Time `db:"created_at"`
	UpdatedAt                   time.Time `db:"updated_at"`
}

// OrderProductModel представляет запись таблицы order_products в PostgreSQL.
type OrderProductModel struct {
	ID             int64     `db:"id"`
	OrderID        int64     `db:"order_id"`
	ShopProductID  int64     `db:"shop_product_id"`
	ProductID      int64     `db:"product_id"`
	Name           string    `db:"name"`
	Barcode        []string  `db:"barcode"`
	Amount         int       `db:"amount"`
	Price          int64     `db:"price"`
	CustomDiscount int       `db:"custom_discount"`
	PromoIDs       []int64   `db:"promo_ids"`
	FinalPrice     int64     `db:"final_price"`
	TotalPrice     int64     `db:"total_price"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type PromoModel struct {
	ID              int64      `db:"id"`
	ShopID          int64      `db:"shop_id"`
	DiscountPercent int        `db:"discount_percent"`
	StartsAt        time.Time  `db:"starts_at"`
	EndsAt          *time.Time `db:"ends_at"`
}

// OrderLogUserModel — jsonb-снимок пользователя в order_logs.user.
type OrderLogUserModel struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// OrderDiffModel — jsonb-разница в order_logs.diff.
type OrderDiffModel struct {
	Added   map[string]any `json:"added"`
	Updated map[string]any `json:"updated"`
	Deleted map[string]any `json:"deleted"`
}

// OrderLogModel представляет запись таблицы order_logs в PostgreSQL.
type OrderLogModel struct {
	ID        int64             `db:"id"`
	OrderID   int64             `db:"order_id"`
	UserID    int64             `db:"user_id"`
	User      OrderLogUserModel `db:"user"`
	Diff      OrderDiffModel    `db:"diff"`
	Variant   string            `db:"variant"`
	CreatedAt time.Time         `db:"created_at"`
}

// CartModel представляет запись таблицы carts в PostgreSQL.
type CartModel struct {
	ID        uuid.UUID `db:"id"`
	UserID    *int64    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CartProductModel представляет запись таблицы cart_products в PostgreSQL.
type CartProductModel struct {
	ID            int64     `db:"id"`
	CartID        uuid.UUID `db:"cart_id"`
	ProductID     int64     `db:"product_id"`
	ShopProductID *int64    `db:"shop_product_id"`
	Amount        int       `db:"amount"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	AggregateID int64      `db:"aggregate_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
