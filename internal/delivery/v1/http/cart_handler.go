package http

import (
	"context"
	"net/http"

	"github.com/DRSN-tech/marketplace-sync/internal/usecase"
	"github.com/DRSN-tech/marketplace-sync/pkg/e"
	"github.com/DRSN-tech/marketplace-sync/pkg/logger"
	"github.com/go-playground/validator/v10"
)

type CartHandler struct {
	cartUsecase usecase.CartUC
	validator   *validator.Validate
	logger      logger.Logger
}

func NewCartHandler(cartUsecase usecase.CartUC, validate *validator.Validate, logger logger.Logger) *CartHandler {
	return &CartHandler{cartUsecase: cartUsecase, validator: validate, logger: logger}
}

// getCart
//
//	@Summary		Корзина покупателя
//	@Description	Собирает корзину с актуальными ценами и остатками. Гостю выдаётся cookie cart_id
//	@Tags			cart
//	@Produce		json
//	@Success		200	{object}	usecase.CartView
//	@Router			/cart [get]
func (c *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	ref, err := cartRefFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	view := c.cartUsecase.GetCart(r.Context(), ref)
	if view != nil {
		setCartCookie(w, ref, &view.ID)
	}

	WriteSuccess(w, http.StatusOK, view)
}

// addProduct
//
//	@Summary	Добавление товара в корзину
//	@Tags		cart
//	@Accept		json
//	@Produce	json
//	@Param		request	body		AddCartProductRequest	true	"Товар"
//	@Success	200		{object}	usecase.CartPayload
//	@Failure	400		{object}	ErrorResponse
//	@Router		/cart/products [post]
func (c *CartHandler) addProduct(w http.ResponseWriter, r *http.Request) {
	mutateCart(c, w, r, func(b AddCartProductRequest) *usecase.AddCartProductReq {
		return &usecase.AddCartProductReq{ProductID: b.ProductID, ShopProductID: b.ShopProductID, Amount: b.Amount}
	}, c.cartUsecase.AddProduct)
}

// updateProduct
//
//	@Summary	Изменение количества товара в корзине
//	@Tags		cart
//	@Accept		json
//	@Produce	json
//	@Param		request	body		UpdateCartProductRequest	true	"Строка корзины"
//	@Success	200		{object}	usecase.CartPayload
//	@Failure	400		{object}	ErrorResponse
//	@Router		/cart/products [patch]
func (c *CartHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	mutateCart(c, w, r, func(b UpdateCartProductRequest) *usecase.UpdateCartProductReq {
		return &usecase.UpdateCartProductReq{CartProductID: b.CartProductID, Amount: b.Amount}
	}, c.cartUsecase.UpdateProduct)
}

// deleteProduct
//
//	@Summary	Удаление товара из корзины
//	@Tags		cart
//	@Accept		json
//	@Produce	json
//	@Param		request	body		DeleteCartProductRequest	true	"Строка корзины"
//	@Success	200		{object}	usecase.CartPayload
//	@Failure	400		{object}	ErrorResponse
//	@Router		/cart/products [delete]
func (c *CartHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	mutateCart(c, w, r, func(b DeleteCartProductRequest) *usecase.DeleteCartProductReq {
		return &usecase.DeleteCartProductReq{CartProductID: b.CartProductID}
	}, c.cartUsecase.DeleteProduct)
}

// repeatOrder
//
//	@Summary		Повтор заказа
//	@Description	Добавляет в корзину товары прошлого заказа в пределах остатков
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			X-User-Id	header		int					true	"ID пользователя"
//	@Param			request		body		RepeatOrderRequest	true	"Заказ"
//	@Success		200			{object}	usecase.CartPayload
//	@Failure		400			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Router			/cart/repeat-order [post]
func (c *CartHandler) repeatOrder(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get(headerUserID) == "" {
		WriteError(w, e.ErrPermissionDenied)
		return
	}

	mutateCart(c, w, r, func(b RepeatOrderRequest) *usecase.RepeatOrderReq {
		return &usecase.RepeatOrderReq{OrderID: b.OrderID}
	}, c.cartUsecase.RepeatOrder)
}

// mutateCart: разбор тела, валидация запроса use case, вызов и выдача cookie гостю.
func mutateCart[B any, R any](
	c *CartHandler,
	w http.ResponseWriter,
	r *http.Request,
	toReq func(B) *R,
	call func(ctx context.Context, ref usecase.CartRef, req *R) *usecase.CartPayload,
) {
	ref, err := cartRefFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var body B
	if err := decodeJSON(r, &body); err != nil {
		c.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	req := toReq(body)
	if err := c.validator.Struct(req); err != nil {
		c.logger.Warnf("%d cart input: %v", http.StatusBadRequest, err)
		WriteError(w, e.Wrap(err.Error(), e.ErrInvalidInput))
		return
	}

	payload := call(r.Context(), ref, req)
	if payload.Success {
		setCartCookie(w, ref, payload.CartID)
	}

	WriteSuccess(w, http.StatusOK, payload)
}
