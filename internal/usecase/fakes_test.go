package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sort"

	"github.com/DRSN-tech/marketplace-sync/internal/domain"
	"github.com/DRSN-tech/marketplace-sync/pkg/e"
	"github.com/google/uuid"
)

// memoryStore — общее хранилище для всех фейковых репозиториев.
type memoryStore struct {
	shops        map[string]domain.Shop
	products     []domain.CatalogProduct
	shopProducts []domain.ShopProduct
	notSynced    []domain.NotSyncedProduct
	intersects   []domain.SyncIntersect
	blacklist    []domain.BlacklistEntry
	orders       map[int64]domain.Order
	statuses     map[int64]domain.OrderStatus
	promos       map[int64]domain.Promo
	logs         []domain.OrderLog
	carts        map[uuid.UUID]domain.Cart
	outbox       []domain.OutboxEvent

	nextID     int64
	nextItemID int64

	catalogErr    map[string]error
	bulkInsertErr error
	notSyncedErr  error
	bulkInserts   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		shops:      map[string]domain.Shop{},
		orders:     map[int64]domain.Order{},
		statuses:   map[int64]domain.OrderStatus{},
		promos:     map[int64]domain.Promo{},
		carts:      map[uuid.UUID]domain.Cart{},
		catalogErr: map[string]error{},
		nextID:     1000,
		nextItemID: 5000,
	}
}

func (s *memoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

// clone копирует состояние для отката фейковой транзакции.
func (s *memoryStore) clone() *memoryStore {
	c := *s
	c.shops = cloneMap(s.shops)
	c.products = slices.Clone(s.products)
	c.shopProducts = slices.Clone(s.shopProducts)
	c.notSynced = slices.Clone(s.notSynced)
	c.intersects = slices.Clone(s.intersects)
	c.blacklist = slices.Clone(s.blacklist)
	c.statuses = cloneMap(s.statuses)
	c.promos = cloneMap(s.promos)
	c.logs = slices.Clone(s.logs)
	c.outbox = slices.Clone(s.outbox)

	c.orders = make(map[int64]domain.Order, len(s.orders))
	for k, o := range s.orders {
		o.Products = slices.Clone(o.Products)
		c.orders[k] = o
	}
	c.carts = make(map[uuid.UUID]domain.Cart, len(s.carts))
	for k, cart := range s.carts {
		cart.Products = slices.Clone(cart.Products)
		c.carts[k] = cart
	}

	return &c
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	res := make(map[K]V, len(m))
	for k, v := range m {
		res[k] = v
	}
	return res
}

// memoryTxManager откатывает хранилище, если функция вернула ошибку.
type memoryTxManager struct {
	store *memoryStore
	calls int
}

func (m *memoryTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	snapshot := m.store.clone()
	if err := fn(ctx); err != nil {
		*m.store = *snapshot
		return err
	}
	return nil
}

// SHOPS

type memoryShopRepo struct{ s *memoryStore }

func (r memoryShopRepo) GetByToken(_ context.Context, token string) (*domain.Shop, error) {
	shop, ok := r.s.shops[token]
	if !ok {
		return nil, e.ErrShopNotFound
	}
	return &shop, nil
}

// CATALOG

type memoryCatalogRepo struct{ s *memoryStore }

func (r memoryCatalogRepo) FindByBarcodes(_ context.Context, barcodes []string) (*domain.CatalogProduct, error) {
	for _, b := range barcodes {
		if err, ok := r.s.catalogErr[b]; ok {
			return nil, err
		}
	}
	for _, p := range r.s.products {
		if domain.BarcodesIntersect(p.Barcode, barcodes) {
			return &p, nil
		}
	}
	return nil, nil
}

func (r memoryCatalogRepo) AppendBarcodes(_ context.Context, productID int64, barcodes []string) error {
	for i := range r.s.products {
		if r.s.products[i].ID == productID {
			r.s.products[i].Barcode = domain.UnionBarcodes(r.s.products[i].Barcode, barcodes)
			return nil
		}
	}
	return e.ErrProductNotFound
}

func (r memoryCatalogRepo) GetByID(_ context.Context, id int64) (*domain.CatalogProduct, error) {
	for _, p := range r.s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, e.ErrProductNotFound
}

func (r memoryCatalogRepo) GetByIDs(_ context.Context, ids []int64) ([]domain.CatalogProduct, error) {
	var res []domain.CatalogProduct
	for _, p := range r.s.products {
		if slices.Contains(ids, p.ID) {
			res = append(res, p)
		}
	}
	return res, nil
}

// SHOP PRODUCTS

type memoryShopProductRepo struct{ s *memoryStore }

func (r memoryShopProductRepo) FindForSync(_ context.Context, shopID, productID int64, barcodes []string) ([]domain.ShopProduct, error) {
	var res []domain.ShopProduct
	for _, sp := range r.s.shopProducts {
		if sp.ShopID == shopID && sp.ProductID == productID && domain.BarcodesIntersect(sp.Barcode, barcodes) {
			sp.OldPrices = slices.Clone(sp.OldPrices)
			res = append(res, sp)
		}
	}
	return res, nil
}

func (r memoryShopProductRepo) Update(_ context.Context, shopProduct *domain.ShopProduct) error {
	for i := range r.s.shopProducts {
		if r.s.shopProducts[i].ID == shopProduct.ID {
			r.s.shopProducts[i] = *shopProduct
			return nil
		}
	}
	return e.ErrShopProductNotFound
}

func (r memoryShopProductRepo) BulkInsert(_ context.Context, shopProducts []*domain.ShopProduct) error {
	if r.s.bulkInsertErr != nil {
		return r.s.bulkInsertErr
	}
	r.s.bulkInserts++
	for _, sp := range shopProducts {
		sp.ID = r.s.id()
		r.s.shopProducts = append(r.s.shopProducts, *sp)
	}
	return nil
}

func (r memoryShopProductRepo) NextItemID(context.Context) (int64, error) {
	r.s.nextItemID++
	return r.s.nextItemID, nil
}

func (r memoryShopProductRepo) GetByID(_ context.Context, id int64) (*domain.ShopProduct, error) {
	for _, sp := range r.s.shopProducts {
		if sp.ID == id {
			return &sp, nil
		}
	}
	return nil, e.ErrShopProductNotFound
}

func (r memoryShopProductRepo) GetByIDs(_ context.Context, ids []int64) ([]domain.ShopProduct, error) {
	var res []domain.ShopProduct
	for _, sp := range r.s.shopProducts {
		if slices.Contains(ids, sp.ID) {
			res = append(res, sp)
		}
	}
	return res, nil
}

func (r memoryShopProductRepo) ListOffers(_ context.Context, productIDs []int64) ([]domain.ShopProduct, error) {
	var res []domain.ShopProduct
	for _, sp := range r.s.shopProducts {
		if slices.Contains(productIDs, sp.ProductID) && sp.Available > 0 {
			res = append(res, sp)
		}
	}
	return res, nil
}

// BACKLOG

type memoryNotSyncedRepo struct{ s *memoryStore }

func (r memoryNotSyncedRepo) FindByBarcodes(_ context.Context, shopID int64, barcodes []string) (*domain.NotSyncedProduct, error) {
	if r.s.notSyncedErr != nil {
		return nil, r.s.notSyncedErr
	}
	for _, p := range r.s.notSynced {
		if p.ShopID == shopID && domain.BarcodesIntersect(p.Barcode, barcodes) {
			return &p, nil
		}
	}
	return nil, nil
}

func (r memoryNotSyncedRepo) Create(_ context.Context, product *domain.NotSyncedProduct) error {
	product.ID = r.s.id()
	r.s.notSynced = append(r.s.notSynced, *product)
	return nil
}

func (r memoryNotSyncedRepo) Update(_ context.Context, product *domain.NotSyncedProduct) error {
	for i := range r.s.notSynced {
		if r.s.notSynced[i].ID == product.ID {
			r.s.notSynced[i] = *product
			return nil
		}
	}
	return e.ErrNotFound
}

func (r memoryNotSyncedRepo) List(_ context.Context, filter NotSyncedFilter) ([]domain.NotSyncedProduct, int64, error) {
	if r.s.notSyncedErr != nil {
		return nil, 0, r.s.notSyncedErr
	}

	var all []domain.NotSyncedProduct
	for _, p := range r.s.notSynced {
		if filter.ShopID == nil || p.ShopID == *filter.ShopID {
			all = append(all, p)
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := int64(len(all))
	if filter.Offset >= len(all) {
		return nil, total, nil
	}
	end := min(filter.Offset+filter.Limit, len(all))
	return all[filter.Offset:end], total, nil
}

// INTERSECTS

type memoryIntersectRepo struct{ s *memoryStore }

func (r memoryIntersectRepo) FindByBarcodes(_ context.Context, shopID int64, barcodes []string) (*domain.SyncIntersect, error) {
	for _, si := range r.s.intersects {
		if si.ShopID == shopID && domain.BarcodesIntersect(si.Barcodes(), barcodes) {
			si.Products = slices.Clone(si.Products)
			return &si, nil
		}
	}
	return nil, nil
}

func (r memoryIntersectRepo) Create(_ context.Context, intersect *domain.SyncIntersect) error {
	intersect.ID = r.s.id()
	r.s.intersects = append(r.s.intersects, *intersect)
	return nil
}

func (r memoryIntersectRepo) UpdateProducts(_ context.Context, intersect *domain.SyncIntersect) error {
	for i := range r.s.intersects {
		if r.s.intersects[i].ID == intersect.ID {
			r.s.intersects[i] = *intersect
			return nil
		}
	}
	return e.ErrNotFound
}

func (r memoryIntersectRepo) ListByShop(_ context.Context, shopID int64) ([]domain.SyncIntersect, error) {
	var res []domain.SyncIntersect
	for _, si := range r.s.intersects {
		if si.ShopID == shopID {
			res = append(res, si)
		}
	}
	return res, nil
}

// BLACKLIST

type memoryBlacklistRepo struct{ s *memoryStore }

func (r memoryBlacklistRepo) ListByShop(_ context.Context, shopID int64) ([]domain.BlacklistEntry, error) {
	var res []domain.BlacklistEntry
	for _, b := range r.s.blacklist {
		if b.ShopID == shopID {
			res = append(res, b)
		}
	}
	return res, nil
}

// ORDERS

type memoryOrderRepo struct{ s *memoryStore }

func (r memoryOrderRepo) Get(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, e.ErrOrderNotFound
	}
	o.Products = slices.Clone(o.Products)
	return &o, nil
}

func (r memoryOrderRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Order, error) {
	return r.Get(ctx, id)
}

func (r memoryOrderRepo) GetStatus(_ context.Context, id int64) (*domain.OrderStatus, error) {
	st, ok := r.s.statuses[id]
	if !ok {
		return nil, e.ErrOrderStatusNotFound
	}
	return &st, nil
}

func (r memoryOrderRepo) ListProducts(_ context.Context, orderID int64) ([]domain.OrderProduct, error) {
	return slices.Clone(r.s.orders[orderID].Products), nil
}

func (r memoryOrderRepo) InsertProduct(_ context.Context, product *domain.OrderProduct) error {
	o, ok := r.s.orders[product.OrderID]
	if !ok {
		return e.ErrOrderNotFound
	}
	product.ID = r.s.id()
	o.Products = append(o.Products, *product)
	r.s.orders[o.ID] = o
	return nil
}

func (r memoryOrderRepo) UpdateProduct(_ context.Context, product *domain.OrderProduct) error {
	o := r.s.orders[product.OrderID]
	for i := range o.Products {
		if o.Products[i].ID == product.ID {
			o.Products[i] = *product
			r.s.orders[o.ID] = o
			return nil
		}
	}
	return e.ErrNotFound
}

func (r memoryOrderRepo) DeleteProducts(_ context.Context, orderID int64, ids []int64) error {
	o := r.s.orders[orderID]
	o.Products = slices.DeleteFunc(o.Products, func(p domain.OrderProduct) bool { return slices.Contains(ids, p.ID) })
	r.s.orders[orderID] = o
	return nil
}

func (r memoryOrderRepo) UpdateTotal(_ context.Context, orderID int64, totalPrice int64) error {
	o := r.s.orders[orderID]
	o.TotalPrice = totalPrice
	r.s.orders[orderID] = o
	return nil
}

func (r memoryOrderRepo) UpdateStatus(_ context.Context, orderID int64, statusID int64) error {
	o := r.s.orders[orderID]
	o.StatusID = statusID
	r.s.orders[orderID] = o
	return nil
}

type memoryPromoRepo struct{ s *memoryStore }

func (r memoryPromoRepo) GetByIDs(_ context.Context, ids []int64) ([]domain.Promo, error) {
	var res []domain.Promo
	for _, id := range ids {
		if p, ok := r.s.promos[id]; ok {
			res = append(res, p)
		}
	}
	return res, nil
}

type memoryOrderLogRepo struct{ s *memoryStore }

func (r memoryOrderLogRepo) Create(_ context.Context, log *domain.OrderLog) error {
	log.ID = r.s.id()
	r.s.logs = append(r.s.logs, *log)
	return nil
}

// CARTS

type memoryCartRepo struct{ s *memoryStore }

func (r memoryCartRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Cart, error) {
	c, ok := r.s.carts[id]
	if !ok {
		return nil, e.ErrCartNotFound
	}
	c.Products = slices.Clone(c.Products)
	return &c, nil
}

func (r memoryCartRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Cart, error) {
	for _, c := range r.s.carts {
		if c.UserID != nil && *c.UserID == userID {
			return r.GetByID(ctx, c.ID)
		}
	}
	return nil, e.ErrCartNotFound
}

func (r memoryCartRepo) Create(_ context.Context, cart *domain.Cart) error {
	r.s.carts[cart.ID] = *cart
	return nil
}

func (r memoryCartRepo) AddProduct(_ context.Context, product *domain.CartProduct) error {
	c, ok := r.s.carts[product.CartID]
	if !ok {
		return e.ErrCartNotFound
	}
	product.ID = r.s.id()
	c.Products = append(c.Products, *product)
	r.s.carts[c.ID] = c
	return nil
}

func (r memoryCartRepo) UpdateProductAmount(_ context.Context, cartID uuid.UUID, cartProductID int64, amount int) error {
	c := r.s.carts[cartID]
	for i := range c.Products {
		if c.Products[i].ID == cartProductID {
			c.Products[i].Amount = amount
			r.s.carts[cartID] = c
			return nil
		}
	}
	return e.ErrCartProductNotFound
}

func (r memoryCartRepo) DeleteProduct(_ context.Context, cartID uuid.UUID, cartProductID int64) error {
	c := r.s.carts[cartID]
	c.Products = slices.DeleteFunc(c.Products, func(p domain.CartProduct) bool { return p.ID == cartProductID })
	r.s.carts[cartID] = c
	return nil
}

// OUTBOX

type memoryOutboxRepo struct{ s *memoryStore }

func (r memoryOutboxRepo) Create(_ context.Context, event *domain.OutboxEvent) (*domain.OutboxEvent, error) {
	event.ID = r.s.id()
	r.s.outbox = append(r.s.outbox, *event)
	return event, nil
}

func (r memoryOutboxRepo) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*domain.OutboxEvent, error) {
	var res []*domain.OutboxEvent
	for i := range r.s.outbox {
		if len(res) == limit {
			break
		}
		if r.s.outbox[i].Status == domain.Pending {
			r.s.outbox[i].Status = domain.Processing
			ev := r.s.outbox[i]
			res = append(res, &ev)
		}
	}
	return res, nil
}

func (r memoryOutboxRepo) MarkAsProcessed(_ context.Context, id int64) error {
	return r.setStatus(id, domain.Processed)
}

func (r memoryOutboxRepo) ReturnToPending(_ context.Context, id int64) error {
	return r.setStatus(id, domain.Pending)
}

func (r memoryOutboxRepo) setStatus(id int64, status domain.OutboxStatus) error {
	for i := range r.s.outbox {
		if r.s.outbox[i].ID == id {
			r.s.outbox[i].Status = status
			return nil
		}
	}
	return e.ErrNotFound
}

// INFRASTRUCTURE

type keyLocalizer struct{}

func (keyLocalizer) Message(_ string, key string) string { return key }

type rolePermissions map[string][]string

func (p rolePermissions) Check(_ context.Context, actor Actor, capability string) PermissionResult {
	if slices.Contains(p[actor.Role], capability) {
		return PermissionResult{Allow: true}
	}
	return PermissionResult{Message: fmt.Sprintf("forbidden: %s", capability)}
}

type jsonEncoder struct{}

func (jsonEncoder) Encode(eventType domain.OutboxEventType, aggregateID int64, data map[string]any) ([]byte, error) {
	return json.Marshal(map[string]any{"type": eventType, "aggregateId": aggregateID, "data": data})
}

type memoryArchive struct {
	keys []string
	err  error
}

func (a *memoryArchive) Archive(_ context.Context, shopID int64, _ []byte) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	key := fmt.Sprintf("shops/%d/%d.json", shopID, len(a.keys)+1)
	a.keys = append(a.keys, key)
	return key, nil
}
