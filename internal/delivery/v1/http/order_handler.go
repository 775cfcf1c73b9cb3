package http

import (
	"net/http"

	"github.com/DRSN-tech/marketplace-sync/internal/usecase"
	"github.com/DRSN-tech/marketplace-sync/pkg/e"
	"github.com/DRSN-tech/marketplace-sync/pkg/logger"
	"github.com/go-playground/validator/v10"
)

type OrderHandler struct {
	orderUsecase usecase.OrderUC
	validator    *validator.Validate
	logger       logger.Logger
}

func NewOrderHandler(orderUsecase usecase.OrderUC, validate *validator.Validate, logger logger.Logger) *OrderHandler {
	return &OrderHandler{orderUsecase: orderUsecase, validator: validate, logger: logger}
}

// updateOrder
//
//	@Summary		Изменение заказа
//	@Description	Принимает полное новое состояние заказа, пересчитывает цены и пишет лог изменений
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			X-User-Id		header		int					true	"ID пользователя"
//	@Param			X-User-Role		header		string				true	"Роль пользователя"
//	@Param			request			body		UpdateOrderRequest	true	"Новое состояние заказа"
//	@Success		200				{object}	OrderResponse
//	@Failure		400				{object}	ErrorResponse
//	@Router			/orders/update [post]
func (o *OrderHandler) updateOrder(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var body UpdateOrderRequest
	if err := decodeJSON(r, &body); err != nil {
		o.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	req := body.toUseCase()
	if err := o.validator.Struct(req); err != nil {
		o.logger.Warnf("%d order %d: %v", http.StatusBadRequest, req.Order.ID, err)
		WriteError(w, e.Wrap(err.Error(), e.ErrInvalidInput))
		return
	}

	WriteSuccess(w, http.StatusOK, toOrderResponse(o.orderUsecase.UpdateOrder(r.Context(), actor, req)))
}
