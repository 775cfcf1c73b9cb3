package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/marketplace-sync/internal/domain"
	"github.com/DRSN-tech/marketplace-sync/pkg/e"
	"github.com/DRSN-tech/marketplace-sync/pkg/logger"
	"github.com/stretchr/testify/require"
)

var (
	admin   = Actor{UserID: 1, Name: "Админ", Role: "admin", Locale: "ru"}
	manager = Actor{UserID: 2, Name: "Менеджер", Role: "manager", Locale: "ru"}
	guest   = Actor{UserID: 3, Name: "Гость", Role: "customer", Locale: "ru"}
)

type orderFixture struct {
	store *memoryStore
	tx    *memoryTxManager
	uc    *OrderUseCase
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newMemoryStore()
	store.statuses[1] = domain.OrderStatus{ID: 1, Slug: "new", IsNew: true}
	store.statuses[2] = domain.OrderStatus{ID: 2, Slug: "confirmed"}
	store.shopProducts = []domain.ShopProduct{
		{ID: 100, ShopID: 1, ProductID: 10, Name: "Аспирин", Price: 20000, Available: 5},
		{ID: 101, ShopID: 1, ProductID: 20, Name: "Нурофен", Price: 10000, Available: 2},
	}
	store.promos[7] = domain.Promo{ID: 7, ShopID: 1, DiscountPercent: 10, StartsAt: now.Add(-time.Hour)}
	store.orders[1] = domain.Order{
		ID:                          1,
		ShopID:                      1,
		CustomerID:                  42,
		StatusID:                    1,
		TotalPrice:                  44000,
		GiftCertificateChargedValue: 5000,
		Products: []domain.OrderProduct{
			{ID: 11, OrderID: 1, ShopProductID: 100, ProductID: 10, Amount: 2, Price: 20000, FinalPrice: 20000, TotalPrice: 40000},
			{ID: 12, OrderID: 1, ShopProductID: 101, ProductID: 20, Amount: 1, Price: 10000, PromoIDs: []int64{7}, FinalPrice: 9000, TotalPrice: 9000},
		},
	}

	tx := &memoryTxManager{store: store}
	perms := rolePermissions{
		"admin":   {CapabilityUpdateOrder, CapabilityUpdateOrderProductDiscount},
		"manager": {CapabilityUpdateOrder},
	}
	uc := NewOrderUseCase(
		tx,
		memoryOrderRepo{store},
		memoryOrderLogRepo{store},
		memoryShopProductRepo{store},
		memoryPromoRepo{store},
		memoryOutboxRepo{store},
		perms,
		keyLocalizer{},
		jsonEncoder{},
		nil,
		logger.NewNop(),
	)
	uc.now = func() time.Time { return now }

	return &orderFixture{store: store, tx: tx, uc: uc}
}

func currentState(statusID int64, lines ...OrderProductInput) *UpdateOrderReq {
	return &UpdateOrderReq{Order: OrderInput{ID: 1, StatusID: statusID, Products: lines}}
}

func requireTotalInvariant(t *testing.T, order domain.Order) {
	t.Helper()
	var sum int64
	for _, p := range order.Products {
		sum += p.TotalPrice
	}
	require.Equal(t, sum-order.GiftCertificateChargedValue, order.TotalPrice)
}

func TestUpdateOrder_ChangeAmount(t *testing.T) {
	f := newOrderFixture(t)

	res := f.uc.UpdateOrder(context.Background(), manager, currentState(1,
		OrderProductInput{ID: 11, Amount: 3},
		OrderProductInput{ID: 12, Amount: 1},
	))
	require.True(t, res.Success, res.Message)
	require.Equal(t, MsgUpdateOrderSuccess, res.Message)
	require.Equal(t, int64(64000), res.Payload.TotalPrice)

	order := f.store.orders[1]
	require.Equal(t, int64(64000), order.TotalPrice)
	requireTotalInvariant(t, order)

	require.Len(t, f.store.logs, 1)
	log := f.store.logs[0]
	require.Equal(t, domain.OrderLogVariantUpdate, log.Variant)
	require.Equal(t, int64(2), log.UserID)
	require.Equal(t, "manager", log.User.Role)
	products := log.Diff.Updated[diffKeyProducts].(map[string]any)
	require.Equal(t, map[string]any{diffKeyAmount: 3}, products["11"])

	require.Len(t, f.store.outbox, 1)
	require.Equal(t, domain.EventOrderUpdated, f.store.outbox[0].EventType)
}

func TestUpdateOrder_DiscountRequiresCapability(t *testing.T) {
	f := newOrderFixture(t)
	req := currentState(1,
		OrderProductInput{ID: 11, Amount: 2, CustomDiscount: 15},
		OrderProductInput{ID: 12, Amount: 1},
	)

	res := f.uc.UpdateOrder(context.Background(), manager, req)
	require.False(t, res.Success)
	require.Equal(t, "forbidden: updateOrderProductDiscount", res.Message)
	require.Empty(t, f.store.logs)
	require.Equal(t, int64(44000), f.store.orders[1].TotalPrice)

	res = f.uc.UpdateOrder(context.Background(), admin, req)
	require.True(t, res.Success, res.Message)

	order := f.store.orders[1]
	line, ok := order.FindProduct(11)
	require.True(t, ok)
	require.Equal(t, int64(17000), line.FinalPrice)
	require.Equal(t, int64(34000), line.TotalPrice)
	require.Equal(t, int64(38000), order.TotalPrice)
	requireTotalInvariant(t, order)
	require.Len(t, f.store.logs, 1)
}

func TestUpdateOrder_PromoAndDiscountAreClamped(t *testing.T) {
	f := newOrderFixture(t)

	res := f.uc.UpdateOrder(context.Background(), admin, currentState(1,
		OrderProductInput{ID: 11, Amount: 2},
		OrderProductInput{ID: 12, Amount: 1, CustomDiscount: 95},
	))
	require.True(t, res.Success, res.Message)

	order := f.store.orders[1]
	line, _ := order.FindProduct(12)
	require.Equal(t, int64(0), line.FinalPrice)
	require.Equal(t, int64(35000), f.store.orders[1].TotalPrice)
}

func TestUpdateOrder_NotEnoughAvailableAborts(t *testing.T) {
	f := newOrderFixture(t)

	outcome, mErr := f.uc.MutateOrder(context.Background(), manager, currentState(2,
		OrderProductInput{ID: 11, Amount: 2},
		OrderProductInput{ID: 12, Amount: 4},
	))
	require.Nil(t, outcome)
	require.NotNil(t, mErr)
	require.Equal(t, StepApplyProductUpdates, mErr.Step)
	require.Equal(t, MsgUpdateOrderNotEnoughAvailable, mErr.MessageKey)
	require.ErrorIs(t, mErr, e.ErrNotEnoughAvailable)

	// лог был записан на шаге WRITE_LOG, но откатился вместе с транзакцией
	require.Empty(t, f.store.logs)
	require.Equal(t, int64(1), f.store.orders[1].StatusID)
	order := f.store.orders[1]
	line, _ := order.FindProduct(12)
	require.Equal(t, 1, line.Amount)
}

func TestUpdateOrder_RemoveAndAddLines(t *testing.T) {
	f := newOrderFixture(t)

	res := f.uc.UpdateOrder(context.Background(), manager, currentState(1,
		OrderProductInput{ID: 11, Amount: 2},
		OrderProductInput{ShopProductID: 101, Amount: 2},
	))
	require.True(t, res.Success, res.Message)

	order := f.store.orders[1]
	require.Len(t, order.Products, 2)
	_, ok := order.FindProduct(12)
	require.False(t, ok)

	added := order.Products[1]
	require.Equal(t, int64(101), added.ShopProductID)
	require.Equal(t, int64(20), added.ProductID)
	require.Equal(t, int64(20000), added.TotalPrice)
	require.Equal(t, int64(55000), order.TotalPrice)
	requireTotalInvariant(t, order)

	log := f.store.logs[0]
	require.Contains(t, log.Diff.Removed[diffKeyProducts], "12")
	require.Contains(t, log.Diff.Added[diffKeyProducts], "new-1")
}

func TestUpdateOrder_StatusOnly(t *testing.T) {
	f := newOrderFixture(t)

	res := f.uc.UpdateOrder(context.Background(), manager, currentState(2,
		OrderProductInput{ID: 11, Amount: 2},
		OrderProductInput{ID: 12, Amount: 1},
	))
	require.True(t, res.Success, res.Message)
	require.Equal(t, int64(2), f.store.orders[1].StatusID)
	require.Equal(t, domain.OrderLogVariantStatus, f.store.logs[0].Variant)
	require.Equal(t, int64(44000), f.store.orders[1].TotalPrice)
}

func TestUpdateOrder_UnknownStatusAborts(t *testing.T) {
	f := newOrderFixture(t)

	res := f.uc.UpdateOrder(context.Background(), manager, currentState(99,
		OrderProductInput{ID: 11, Amount: 3},
		OrderProductInput{ID: 12, Amount: 1},
	))
	require.False(t, res.Success)
	require.Equal(t, MsgUpdateOrderStatusNotFound, res.Message)
	require.Empty(t, f.store.logs)
	require.Empty(t, f.store.outbox)
	order := f.store.orders[1]
	line, _ := order.FindProduct(11)
	require.Equal(t, 2, line.Amount)
}

func TestUpdateOrder_NotFoundAndPermission(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	res := f.uc.UpdateOrder(ctx, manager, &UpdateOrderReq{Order: OrderInput{ID: 404, Products: []OrderProductInput{{ID: 1, Amount: 1}}}})
	require.False(t, res.Success)
	require.Equal(t, MsgUpdateOrderNotFound, res.Message)

	_, mErr := f.uc.MutateOrder(ctx, guest, currentState(1, OrderProductInput{ID: 11, Amount: 2}))
	require.NotNil(t, mErr)
	require.Equal(t, StepPermissionCheck, mErr.Step)
	require.ErrorIs(t, mErr, e.ErrPermissionDenied)

	res = f.uc.UpdateOrder(ctx, manager, currentState(1, OrderProductInput{ID: 777, Amount: 1}))
	require.False(t, res.Success)
	require.Equal(t, MsgUpdateOrderProductNotFound, res.Message)
	require.Empty(t, f.store.logs)
}

func TestUpdateOrder_EmptyDiffStillLogged(t *testing.T) {
	f := newOrderFixture(t)

	outcome, mErr := f.uc.MutateOrder(context.Background(), manager, currentState(0,
		OrderProductInput{ID: 11, Amount: 2},
		OrderProductInput{ID: 12, Amount: 1},
	))
	require.Nil(t, mErr)
	require.True(t, outcome.Diff.IsEmpty())
	require.Len(t, f.store.logs, 1)
	require.Equal(t, int64(44000), f.store.orders[1].TotalPrice)
}

func TestDiffSnapshots(t *testing.T) {
	prev := map[string]any{
		"statusId": int64(1),
		"products": map[string]any{
			"1": map[string]any{"amount": 1},
			"2": map[string]any{"amount": 2},
		},
	}
	next := map[string]any{
		"statusId": int64(1),
		"products": map[string]any{
			"1":     map[string]any{"amount": 3},
			"new-0": map[string]any{"amount": 1},
		},
	}

	diff := DiffSnapshots(prev, next)
	require.Equal(t, map[string]any{"products": map[string]any{"1": map[string]any{"amount": 3}}}, diff.Updated)
	require.Equal(t, map[string]any{"products": map[string]any{"new-0": map[string]any{"amount": 1}}}, diff.Added)
	require.Equal(t, []int64{2}, RemovedProductIDs(diff))
	require.Equal(t, []string{"1", "new-0"}, ChangedProductKeys(diff))
}
