package usecase

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/DRSN-tech/marketplace-sync/internal/domain"
	"github.com/DRSN-tech/marketplace-sync/internal/pricing"
	"github.com/DRSN-tech/marketplace-sync/pkg/e"
	"github.com/DRSN-tech/marketplace-sync/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	MsgAddProductSuccess            = "carts.addProduct.success"
	MsgAddProductError              = "carts.addProduct.error"
	MsgAddProductNotFound           = "carts.addProduct.notFound"
	MsgAddProductNotEnoughAvailable = "carts.addProduct.notEnoughAvailable"
	MsgAddProductShoplessBooking    = "carts.addProduct.shoplessBooking"
	MsgUpdateProductSuccess         = "carts.updateProduct.success"
	MsgUpdateProductError           = "carts.updateProduct.error"
	MsgUpdateProductNotFound        = "carts.updateProduct.notFound"
	MsgUpdateProductNotEnough       = "carts.updateProduct.notEnoughAvailable"
	MsgDeleteProductSuccess         = "carts.deleteProduct.success"
	MsgDeleteProductError           = "carts.deleteProduct.error"
	MsgDeleteProductNotFound        = "carts.deleteProduct.notFound"
	MsgRepeatOrderSuccess           = "carts.repeatOrder.success"
	MsgRepeatOrderError             = "carts.repeatOrder.error"
	MsgRepeatOrderNotFound          = "carts.repeatOrder.notFound"
	MsgRepeatOrderNothingAvailable  = "carts.repeatOrder.nothingAvailable"
)

// CartUseCase собирает корзину из живых данных о товарах и выполняет её изменения.
type CartUseCase struct {
	txManager       TxManager
	cartRepo        CartRepository
	catalogRepo     CatalogProductRepository
	shopProductRepo ShopProductRepository
	orderRepo       OrderRepository
	localizer       Localizer
	metrics         Metrics
	logger          logger.Logger
	now             func() time.Time
}

func NewCartUseCase(
	txManager TxManager,
	cartRepo CartRepository,
	catalogRepo CatalogProductRepository,
	shopProductRepo ShopProductRepository,
	orderRepo OrderRepository,
	localizer Localizer,
	metrics Metrics,
	logger logger.Logger,
) *CartUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &CartUseCase{
		txManager:       txManager,
		cartRepo:        cartRepo,
		catalogRepo:     catalogRepo,
		shopProductRepo: shopProductRepo,
		orderRepo:       orderRepo,
		localizer:       localizer,
		metrics:         metrics,
		logger:          logger,
		now:             time.Now,
	}
}

// GetCart возвращает корзину по пользователю или cookie. nil, если корзину получить не удалось.
func (c *CartUseCase) GetCart(ctx context.Context, ref CartRef) *CartView {
	cart, err := c.resolveCart(ctx, ref, true)
	if err != nil {
		c.logger.Errorf(err, "cart resolve failed")
		return nil
	}

	view, dropped := c.aggregate(ctx, cart)
	c.metrics.ObserveCartRead(len(cart.Products), dropped)

	return view
}

// cartData — данные, загруженные пачкой для всех строк корзины.
type cartData struct {
	products     map[int64]domain.CatalogProduct
	shopProducts map[int64]domain.ShopProduct
	offers       map[int64][]domain.ShopProduct
}

func (c *CartUseCase) aggregate(ctx context.Context, cart *domain.Cart) (*CartView, int) {
	data := c.loadCartData(ctx, cart)

	view := &CartView{
		ID:                   cart.ID,
		CartDeliveryProducts: []CartLineView{},
		CartBookingProducts:  []CartLineView{},
	}

	dropped := 0
	for _, line := range cart.Products {
		lv, ok := buildLine(line, data)
		if !ok {
			dropped++
			continue
		}

		if lv.AllowDelivery {
			view.CartDeliveryProducts = append(view.CartDeliveryProducts, lv)
			view.TotalDeliveryPrice += lv.TotalPrice
			view.IsWithShoplessDelivery = view.IsWithShoplessDelivery || lv.IsShopless
		} else {
			view.CartBookingProducts = append(view.CartBookingProducts, lv)
			view.TotalBookingPrice += lv.TotalPrice
			view.IsWithShoplessBooking = view.IsWithShoplessBooking || lv.IsShopless
		}
		view.ProductsCount += lv.Amount
	}
	view.TotalPrice = view.TotalDeliveryPrice + view.TotalBookingPrice

	return view, dropped
}

// loadCartData загружает товары пачками вне транзакции. Ошибка загрузки не фатальна:
// строки, которым не хватило данных, выпадут из корзины.
func (c *CartUseCase) loadCartData(ctx context.Context, cart *domain.Cart) cartData {
	data := cartData{
		products:     map[int64]domain.CatalogProduct{},
		shopProducts: map[int64]domain.ShopProduct{},
		offers:       map[int64][]domain.ShopProduct{},
	}

	var productIDs, shopProductIDs, shoplessIDs []int64
	for _, line := range cart.Products {
		productIDs = append(productIDs, line.ProductID)
		if line.IsShopless() {
			shoplessIDs = append(shoplessIDs, line.ProductID)
		} else {
			shopProductIDs = append(shopProductIDs, *line.ShopProductID)
		}
	}
	if len(productIDs) == 0 {
		return data
	}

	// Каждая загрузка пишет в свою карту, поэтому запросы идут параллельно
	var g errgroup.Group

	g.Go(func() error {
		products, err := c.catalogRepo.GetByIDs(ctx, productIDs)
		if err != nil {
			c.logger.Errorf(err, "cart %s: products load failed", cart.ID)
		}
		for _, p := range products {
			data.products[p.ID] = p
		}
		return nil
	})

	if len(shopProductIDs) > 0 {
		g.Go(func() error {
			shopProducts, err := c.shopProductRepo.GetByIDs(ctx, shopProductIDs)
			if err != nil {
				c.logger.Errorf(err, "cart %s: shop products load failed", cart.ID)
			}
			for _, sp := range shopProducts {
				data.shopProducts[sp.ID] = sp
			}
			return nil
		})
	}

	if len(shoplessIDs) > 0 {
		g.Go(func() error {
			offers, err := c.shopProductRepo.ListOffers(ctx, shoplessIDs)
			if err != nil {
				c.logger.Errorf(err, "cart %s: offers load failed", cart.ID)
			}
			for _, sp := range offers {
				data.offers[sp.ProductID] = append(data.offers[sp.ProductID], sp)
			}
			for id := range data.offers {
				slices.SortStableFunc(data.offers[id], func(a, b domain.ShopProduct) int {
					return cmp.Compare(a.Price, b.Price)
				})
			}
			return nil
		})
	}

	_ = g.Wait()

	return data
}

func buildLine(line domain.CartProduct, data cartData) (CartLineView, bool) {
	product, ok := data.products[line.ProductID]
	if !ok {
		return CartLineView{}, false
	}

	lv := CartLineView{
		ID:            line.ID,
		ProductID:     line.ProductID,
		ShopProductID: line.ShopProductID,
		Name:          product.Name,
		Slug:          product.Slug,
		Amount:        line.Amount,
		IsShopless:    line.IsShopless(),
		AllowDelivery: product.AllowDelivery,
	}

	if line.IsShopless() {
		offers := data.offers[line.ProductID]
		if len(offers) == 0 {
			return CartLineView{}, false
		}

		lv.MinPrice = offers[0].Price
		lv.MaxPrice = offers[len(offers)-1].Price
		lv.Price = lv.MinPrice
		lv.ShopsCount = len(offers)
		for _, o := range offers {
			lv.Available = max(lv.Available, o.Available)
		}
	} else {
		sp, ok := data.shopProducts[*line.ShopProductID]
		if !ok {
			return CartLineView{}, false
		}

		shopID := sp.ShopID
		lv.ShopID = &shopID
		lv.Price = sp.Price
		lv.MinPrice = sp.Price
		lv.MaxPrice = sp.Price
		lv.ShopsCount = 1
		lv.Available = sp.Available
	}

	lv.TotalPrice = pricing.LineTotal(lv.Amount, lv.Price)
	return lv, true
}

// AddProduct добавляет товар в корзину или увеличивает количество существующей строки.
func (c *CartUseCase) AddProduct(ctx context.Context, ref CartRef, req *AddCartProductReq) *CartPayload {
	var cartID uuid.UUID

	err := c.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		cart, err := c.resolveCart(ctx, ref, true)
		if err != nil {
			return err
		}
		cartID = cart.ID

		product, err := c.catalogRepo.GetByID(ctx, req.ProductID)
		if err != nil {
			return err
		}

		amount := req.Amount
		existing, found := cart.FindProduct(req.ProductID, req.ShopProductID)
		if found {
			amount += existing.Amount
		}

		if req.ShopProductID == nil {
			if !product.AllowDelivery {
				return e.ErrShoplessBooking
			}
		} else if err := c.checkAvailable(ctx, *req.ShopProductID, req.ProductID, amount); err != nil {
			return err
		}

		if found {
			return c.cartRepo.UpdateProductAmount(ctx, cart.ID, existing.ID, amount)
		}

		return c.cartRepo.AddProduct(ctx, &domain.CartProduct{
			CartID:        cart.ID,
			ProductID:     req.ProductID,
			ShopProductID: req.ShopProductID,
			Amount:        amount,
			CreatedAt:     c.now(),
			UpdatedAt:     c.now(),
		})
	})
	if err != nil {
		return c.fail(ref, err, cartKeys{
			fallback:     MsgAddProductError,
			notFound:     MsgAddProductNotFound,
			notEnough:    MsgAddProductNotEnoughAvailable,
			shoplessBook: MsgAddProductShoplessBooking,
		})
	}

	return c.success(ref, MsgAddProductSuccess, cartID)
}

// UpdateProduct задаёт новое количество строки корзины.
func (c *CartUseCase) UpdateProduct(ctx context.Context, ref CartRef, req *UpdateCartProductReq) *CartPayload {
	var cartID uuid.UUID

	err := c.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		cart, line, err := c.findLine(ctx, ref, req.CartProductID)
		if err != nil {
			return err
		}
		cartID = cart.ID

		if !line.IsShopless() {
			if err := c.checkAvailable(ctx, *line.ShopProductID, line.ProductID, req.Amount); err != nil {
				return err
			}
		}

		return c.cartRepo.UpdateProductAmount(ctx, cart.ID, line.ID, req.Amount)
	})
	if err != nil {
		return c.fail(ref, err, cartKeys{
			fallback:  MsgUpdateProductError,
			notFound:  MsgUpdateProductNotFound,
			notEnough: MsgUpdateProductNotEnough,
		})
	}

	return c.success(ref, MsgUpdateProductSuccess, cartID)
}

func (c *CartUseCase) DeleteProduct(ctx context.Context, ref CartRef, req *DeleteCartProductReq) *CartPayload {
	var cartID uuid.UUID

	err := c.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		cart, line, err := c.findLine(ctx, ref, req.CartProductID)
		if err != nil {
			return err
		}
		cartID = cart.ID

		return c.cartRepo.DeleteProduct(ctx, cart.ID, line.ID)
	})
	if err != nil {
		return c.fail(ref, err, cartKeys{
			fallback: MsgDeleteProductError,
			notFound: MsgDeleteProductNotFound,
		})
	}

	return c.success(ref, MsgDeleteProductSuccess, cartID)
}

// RepeatOrder переносит строки заказа в корзину.
// Количество ограничивается текущим остатком, строки без остатка пропускаются.
func (c *CartUseCase) RepeatOrder(ctx context.Context, ref CartRef, req *RepeatOrderReq) *CartPayload {
	var cartID uuid.UUID

	err := c.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := c.orderRepo.Get(ctx, req.OrderID)
		if err != nil {
			return err
		}
		if ref.UserID == nil || order.CustomerID != *ref.UserID {
			return fmt.Errorf("%w: order %d", e.ErrOrderNotFound, order.ID)
		}

		cart, err := c.resolveCart(ctx, ref, true)
		if err != nil {
			return err
		}
		cartID = cart.ID

		added := 0
		for _, op := range order.Products {
			ok, err := c.repeatLine(ctx, cart, op)
			if err != nil {
				return err
			}
			if ok {
				added++
			}
		}
		if added == 0 {
			return e.ErrNotEnoughAvailable
		}

		return nil
	})
	if err != nil {
		return c.fail(ref, err, cartKeys{
			fallback:  MsgRepeatOrderError,
			notFound:  MsgRepeatOrderNotFound,
			notEnough: MsgRepeatOrderNothingAvailable,
		})
	}

	return c.success(ref, MsgRepeatOrderSuccess, cartID)
}

func (c *CartUseCase) repeatLine(ctx context.Context, cart *domain.Cart, op domain.OrderProduct) (bool, error) {
	sp, err := c.shopProductRepo.GetByID(ctx, op.ShopProductID)
	if err != nil {
		if errors.Is(err, e.ErrShopProductNotFound) {
			return false, nil
		}
		return false, err
	}

	shopProductID := sp.ID
	existing, found := cart.FindProduct(sp.ProductID, &shopProductID)

	current := 0
	if found {
		current = existing.Amount
	}
	amount := min(current+op.Amount, sp.Available)
	if amount <= current {
		return false, nil
	}

	if found {
		if err := c.cartRepo.UpdateProductAmount(ctx, cart.ID, existing.ID, amount); err != nil {
			return false, err
		}
		existing.Amount = amount
		return true, nil
	}

	line := domain.CartProduct{
		CartID:        cart.ID,
		ProductID:     sp.ProductID,
		ShopProductID: &shopProductID,
		Amount:        amount,
		CreatedAt:     c.now(),
		UpdatedAt:     c.now(),
	}
	if err := c.cartRepo.AddProduct(ctx, &line); err != nil {
		return false, err
	}
	cart.Products = append(cart.Products, line)

	return true, nil
}

// resolveCart ищет корзину пользователя, затем гостевую корзину из cookie.
// Если ничего не нашлось и create == true, создаёт новую.
func (c *CartUseCase) resolveCart(ctx context.Context, ref CartRef, create bool) (*domain.Cart, error) {
	const op = "CartUseCase.resolveCart"

	if ref.UserID != nil {
		cart, err := c.cartRepo.GetByUserID(ctx, *ref.UserID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, e.ErrCartNotFound) {
			return nil, e.Wrap(op, err)
		}
	}

	if ref.CartID != nil {
		cart, err := c.cartRepo.GetByID(ctx, *ref.CartID)
		if err == nil && (cart.UserID == nil || (ref.UserID != nil && *cart.UserID == *ref.UserID)) {
			return cart, nil
		}
		if err != nil && !errors.Is(err, e.ErrCartNotFound) {
			return nil, e.Wrap(op, err)
		}
	}

	if !create {
		return nil, e.ErrCartNotFound
	}

	cart := domain.NewCart(ref.UserID, c.now())
	if err := c.cartRepo.Create(ctx, cart); err != nil {
		return nil, e.Wrap(op, err)
	}

	return cart, nil
}

func (c *CartUseCase) findLine(ctx context.Context, ref CartRef, cartProductID int64) (*domain.Cart, *domain.CartProduct, error) {
	cart, err := c.resolveCart(ctx, ref, false)
	if err != nil {
		return nil, nil, err
	}

	for i := range cart.Products {
		if cart.Products[i].ID == cartProductID {
			return cart, &cart.Products[i], nil
		}
	}

	return nil, nil, fmt.Errorf("%w: %d", e.ErrCartProductNotFound, cartProductID)
}

func (c *CartUseCase) checkAvailable(ctx context.Context, shopProductID, productID int64, amount int) error {
	sp, err := c.shopProductRepo.GetByID(ctx, shopProductID)
	if err != nil {
		return err
	}
	if sp.ProductID != productID {
		return fmt.Errorf("%w: shop product %d is not an offer of product %d", e.ErrShopProductNotFound, shopProductID, productID)
	}
	if amount > sp.Available {
		return fmt.Errorf("%w: shop product %d", e.ErrNotEnoughAvailable, shopProductID)
	}

	return nil
}

type cartKeys struct {
	fallback     string
	notFound     string
	notEnough    string
	shoplessBook string
}

func (c *CartUseCase) fail(ref CartRef, err error, keys cartKeys) *CartPayload {
	key := keys.fallback
	switch {
	case keys.notFound != "" && isCartNotFound(err):
		key = keys.notFound
	case keys.notEnough != "" && errors.Is(err, e.ErrNotEnoughAvailable):
		key = keys.notEnough
	case keys.shoplessBook != "" && errors.Is(err, e.ErrShoplessBooking):
		key = keys.shoplessBook
	default:
		c.logger.Errorf(err, "cart mutation failed")
	}

	return &CartPayload{Success: false, Message: c.localizer.Message(ref.Locale, key)}
}

func (c *CartUseCase) success(ref CartRef, key string, cartID uuid.UUID) *CartPayload {
	return &CartPayload{
		Success: true,
		Message: c.localizer.Message(ref.Locale, key),
		CartID:  &cartID,
	}
}

func isCartNotFound(err error) bool {
	for _, target := range []error{
		e.ErrCartNotFound,
		e.ErrCartProductNotFound,
		e.ErrProductNotFound,
		e.ErrShopProductNotFound,
		e.ErrOrderNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
