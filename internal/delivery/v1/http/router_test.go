package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/marketplace-sync/internal/cfg"
	"github.com/DRSN-tech/marketplace-sync/internal/domain"
	"github.com/DRSN-tech/marketplace-sync/internal/usecase"
	"github.com/DRSN-tech/marketplace-sync/pkg/e"
	"github.com/DRSN-tech/marketplace-sync/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeSyncUC struct {
	req *usecase.SyncReq
	res *usecase.SyncRes
	err error
}

func (f *fakeSyncUC) Sync(_ context.Context, req *usecase.SyncReq) (*usecase.SyncRes, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	if len(req.Items) == 0 {
		return nil, e.ErrNoProducts
	}
	return f.res, nil
}

type fakeBacklogUC struct {
	shopID  *int64
	filters []string
	page    *usecase.NotSyncedPage
	bags    []domain.SyncIntersect
}

func (f *fakeBacklogUC) RecordUnmatched(context.Context, int64, domain.FeedItem) *domain.NotSyncedProduct {
	return nil
}

func (f *fakeBacklogUC) ListNotSynced(_ context.Context, shopID *int64, filters []string) *usecase.NotSyncedPage {
	f.shopID, f.filters = shopID, filters
	return f.page
}

func (f *fakeBacklogUC) ListIntersects(_ context.Context, shopID int64) []domain.SyncIntersect {
	f.shopID = &shopID
	return f.bags
}

type fakeOrderUC struct {
	actor usecase.Actor
	req   *usecase.UpdateOrderReq
	res   *usecase.OrderPayload
}

func (f *fakeOrderUC) UpdateOrder(_ context.Context, actor usecase.Actor, req *usecase.UpdateOrderReq) *usecase.OrderPayload {
	f.actor, f.req = actor, req
	return f.res
}

type fakeCartUC struct {
	ref     usecase.CartRef
	view    *usecase.CartView
	payload *usecase.CartPayload
	added   *usecase.AddCartProductReq
	updated *usecase.UpdateCartProductReq
	deleted *usecase.DeleteCartProductReq
	repeat  *usecase.RepeatOrderReq
}

func (f *fakeCartUC) GetCart(_ context.Context, ref usecase.CartRef) *usecase.CartView {
	f.ref = ref
	return f.view
}

func (f *fakeCartUC) AddProduct(_ context.Context, ref usecase.CartRef, req *usecase.AddCartProductReq) *usecase.CartPayload {
	f.ref, f.added = ref, req
	return f.payload
}

func (f *fakeCartUC) UpdateProduct(_ context.Context, ref usecase.CartRef, req *usecase.UpdateCartProductReq) *usecase.CartPayload {
	f.ref, f.updated = ref, req
	return f.payload
}

func (f *fakeCartUC) DeleteProduct(_ context.Context, ref usecase.CartRef, req *usecase.DeleteCartProductReq) *usecase.CartPayload {
	f.ref, f.deleted = ref, req
	return f.payload
}

func (f *fakeCartUC) RepeatOrder(_ context.Context, ref usecase.CartRef, req *usecase.RepeatOrderReq) *usecase.CartPayload {
	f.ref, f.repeat = ref, req
	return f.payload
}

type fakes struct {
	sync    *fakeSyncUC
	backlog *fakeBacklogUC
	order   *fakeOrderUC
	cart    *fakeCartUC
}

func newTestRouter(t *testing.T, rateLimit int) (http.Handler, *fakes) {
	t.Helper()

	f := &fakes{
		sync:    &fakeSyncUC{res: &usecase.SyncRes{ShopID: 1, Message: usecase.MessageSynced}},
		backlog: &fakeBacklogUC{},
		order:   &fakeOrderUC{},
		cart:    &fakeCartUC{},
	}

	config := &cfg.Config{
		Http: &cfg.HTTPConfig{SwaggerURL: "/swagger/doc.json"},
		Sync: &cfg.SyncCfg{RateLimit: rateLimit, RateLimitWindow: time.Minute, MaxBodyBytes: 1 << 20},
	}

	mux := chi.NewRouter()
	NewRouter(mux, config, nil, logger.NewNop()).Init(UseCases{
		Sync:    f.sync,
		Backlog: f.backlog,
		Order:   f.order,
		Cart:    f.cart,
	})

	return mux, f
}

func do(h http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSync_Responses(t *testing.T) {
	h, f := newTestRouter(t, 100)

	tests := []struct {
		name     string
		target   string
		body     string
		err      error
		wantCode int
		wantBody string
	}{
		{name: "no token", target: "/api/v1/sync/update", body: `[]`, wantCode: http.StatusBadRequest, wantBody: "no token provided"},
		{name: "no products", target: "/api/v1/sync/update?token=t", body: `[]`, wantCode: http.StatusBadRequest, wantBody: "no products provided"},
		{name: "not an array", target: "/api/v1/sync/update?token=t", body: `{"id":1}`, wantCode: http.StatusBadRequest, wantBody: "invalid json body"},
		{name: "unknown token", target: "/api/v1/sync/update?token=t", body: `[{"barcode":["1"]}]`, err: e.ErrTokenNotFound, wantCode: http.StatusUnauthorized},
		{name: "bulk insert", target: "/api/v1/sync/update?token=t", body: `[{"barcode":["1"]}]`, err: e.ErrBulkInsertFailed, wantCode: http.StatusInternalServerError},
		{name: "synced", target: "/api/v1/sync/update?token=t", body: `[{"barcode":["1"]}]`, wantCode: http.StatusOK, wantBody: `"success":true,"message":"synced"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.sync.err = tt.err
			rec := do(h, http.MethodPost, tt.target, tt.body, nil)
			require.Equal(t, tt.wantCode, rec.Code)
			require.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestSync_FeedParsing(t *testing.T) {
	h, f := newTestRouter(t, 100)

	body := `[
		{"id": 15, "barcode": ["460001"], "available": 3, "price": 599.99, "name": "Аспирин"},
		{"id": "A-2", "barcode": ["460002", "460002"], "available": "2.7", "price": "120", "name": "Бинт"},
		{"id": "bad-price", "barcode": ["460003"], "price": 1.234},
		{"id": "negative", "barcode": ["460004"], "price": -5},
		{"id": "empty-barcode", "barcode": [""], "price": 1},
		{"id": "mixed", "barcode": ["", "460005"], "available": 1, "price": 10, "name": "Пластырь"}
	]`
	rec := do(h, http.MethodPost, "/api/v1/sync/update?token=tok&apiVersion=2&systemVersion=1c-8.3", body, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	req := f.sync.req
	require.Equal(t, "tok", req.Token)
	require.Equal(t, "2", req.APIVersion)
	require.Equal(t, "1c-8.3", req.SystemVersion)
	require.JSONEq(t, body, string(req.Raw))

	require.Len(t, req.Items, 4)
	require.Equal(t, domain.FeedItem{ID: "15", Barcode: []string{"460001"}, Available: 3, Price: 59999, Name: "Аспирин"}, req.Items[0])
	require.Equal(t, "A-2", req.Items[1].ID)
	require.Equal(t, []string{"460002"}, req.Items[1].Barcode)
	require.Equal(t, 2, req.Items[1].Available)
	require.Equal(t, int64(12000), req.Items[1].Price)

	// Пустые штрихкоды отбрасываются, сама позиция доходит до сверки
	require.Equal(t, "empty-barcode", req.Items[2].ID)
	require.Empty(t, req.Items[2].Barcode)
	require.Equal(t, domain.FeedItem{ID: "mixed", Barcode: []string{"460005"}, Available: 1, Price: 1000, Name: "Пластырь"}, req.Items[3])
}

func TestSync_RateLimitedPerToken(t *testing.T) {
	h, _ := newTestRouter(t, 1)

	require.Equal(t, http.StatusOK, do(h, http.MethodPost, "/api/v1/sync/update?token=a", `[{"barcode":["1"]}]`, nil).Code)
	require.Equal(t, http.StatusTooManyRequests, do(h, http.MethodPost, "/api/v1/sync/update?token=a", `[{"barcode":["1"]}]`, nil).Code)
	require.Equal(t, http.StatusOK, do(h, http.MethodPost, "/api/v1/sync/update?token=b", `[{"barcode":["1"]}]`, nil).Code)
}

func TestBacklog_Routes(t *testing.T) {
	h, f := newTestRouter(t, 100)
	f.backlog.page = &usecase.NotSyncedPage{
		Docs:       []domain.NotSyncedProduct{{ID: 3, ShopID: 7, Name: "Вата", Barcode: []string{"1"}}},
		Page:       2,
		Limit:      20,
		TotalDocs:  21,
		TotalPages: 2,
	}

	rec := do(h, http.MethodGet, "/api/v1/shops/7/not-synced/page-2/limit-20", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(7), *f.backlog.shopID)
	require.Equal(t, []string{"page-2", "limit-20"}, f.backlog.filters)
	require.Contains(t, rec.Body.String(), `"totalDocs":21,"totalPages":2,"page":2`)

	rec = do(h, http.MethodGet, "/api/v1/not-synced", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, f.backlog.shopID)
	require.Empty(t, f.backlog.filters)

	require.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/api/v1/shops/abc/not-synced", "", nil).Code)

	f.backlog.page = nil
	require.Equal(t, http.StatusInternalServerError, do(h, http.MethodGet, "/api/v1/not-synced/page-1", "", nil).Code)
}

func TestBacklog_Intersects(t *testing.T) {
	h, f := newTestRouter(t, 100)
	f.backlog.bags = []domain.SyncIntersect{{ID: 1, ShopID: 9, Products: []domain.SyncIntersectProduct{{ID: "a", Name: "A", Barcode: []string{"1"}}}}}

	rec := do(h, http.MethodGet, "/api/v1/shops/9/sync-intersects", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(9), *f.backlog.shopID)
	require.Contains(t, rec.Body.String(), `"products":[{"id":"a","name":"A","barcode":["1"]`)
}

func TestOrder_Update(t *testing.T) {
	h, f := newTestRouter(t, 100)
	f.order.res = &usecase.OrderPayload{
		Success: true,
		Message: "ok",
		Payload: &domain.Order{ID: 5, TotalPrice: 64000, Products: []domain.OrderProduct{{ID: 1, Amount: 2, TotalPrice: 64000}}},
	}

	body := `{"input":{"order":{"id":5,"statusId":2,"products":[{"id":1,"shopProductId":10,"amount":2,"customDiscount":0}]}}}`
	rec := do(h, http.MethodPost, "/api/v1/orders/update", body, map[string]string{
		"X-User-Id":       "42",
		"X-User-Role":     "manager",
		"X-User-Name":     "Ольга",
		"Accept-Language": "en",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, usecase.Actor{UserID: 42, Name: "Ольга", Role: "manager", Locale: "en"}, f.order.actor)
	require.Equal(t, int64(10), f.order.req.Order.Products[0].ShopProductID)
	require.Contains(t, rec.Body.String(), `"success":true`)
	require.Contains(t, rec.Body.String(), `"totalPrice":64000`)
}

func TestOrder_UpdateValidation(t *testing.T) {
	h, f := newTestRouter(t, 100)

	tests := []struct {
		name    string
		body    string
		headers map[string]string
	}{
		{name: "zero amount", body: `{"input":{"order":{"id":5,"products":[{"id":1,"shopProductId":10,"amount":0}]}}}`},
		{name: "no products", body: `{"input":{"order":{"id":5,"products":[]}}}`},
		{name: "no id", body: `{"input":{"order":{"products":[{"id":1,"amount":1}]}}}`},
		{name: "unknown field", body: `{"input":{"order":{"id":5,"foo":1}}}`},
		{name: "bad user id", body: `{"input":{"order":{"id":5}}}`, headers: map[string]string{"X-User-Id": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.order.req = nil
			rec := do(h, http.MethodPost, "/api/v1/orders/update", tt.body, tt.headers)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Nil(t, f.order.req)
		})
	}
}

func TestCart_GuestGetsCookie(t *testing.T) {
	h, f := newTestRouter(t, 100)
	cartID := uuid.New()
	f.cart.view = &usecase.CartView{ID: cartID}

	rec := do(h, http.MethodGet, "/api/v1/cart", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	require.Nil(t, f.cart.ref.CartID)
	require.Nil(t, f.cart.ref.UserID)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, cartCookieName, cookies[0].Name)
	require.Equal(t, cartID.String(), cookies[0].Value)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: cartCookieName, Value: cartID.String()})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, cartID, *f.cart.ref.CartID)
	require.Empty(t, rec.Result().Cookies())
}

func TestCart_Mutations(t *testing.T) {
	h, f := newTestRouter(t, 100)
	cartID := uuid.New()
	f.cart.payload = &usecase.CartPayload{Success: true, Message: "ok", CartID: &cartID}
	user := map[string]string{"X-User-Id": "8"}

	rec := do(h, http.MethodPost, "/api/v1/cart/products", `{"productId":3,"shopProductId":11,"amount":2}`, user)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(8), *f.cart.ref.UserID)
	require.Equal(t, int64(11), *f.cart.added.ShopProductID)
	require.Empty(t, rec.Result().Cookies())

	rec = do(h, http.MethodPatch, "/api/v1/cart/products", `{"cartProductId":4,"amount":5}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 5, f.cart.updated.Amount)
	require.Len(t, rec.Result().Cookies(), 1)

	rec = do(h, http.MethodDelete, "/api/v1/cart/products", `{"cartProductId":4}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(4), f.cart.deleted.CartProductID)

	rec = do(h, http.MethodPost, "/api/v1/cart/repeat-order", `{"orderId":12}`, user)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(12), f.cart.repeat.OrderID)

	require.Equal(t, http.StatusForbidden, do(h, http.MethodPost, "/api/v1/cart/repeat-order", `{"orderId":12}`, nil).Code)
	require.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/v1/cart/products", `{"productId":3,"amount":0}`, nil).Code)
	require.Equal(t, http.StatusBadRequest, do(h, http.MethodPatch, "/api/v1/cart/products", `{"cartProductId":0,"amount":1}`, nil).Code)
}
