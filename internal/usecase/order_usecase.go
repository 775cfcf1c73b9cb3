package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DRSN-tech/marketplace-sync/internal/domain"
	"github.com/DRSN-tech/marketplace-sync/internal/pricing"
	"github.com/DRSN-tech/marketplace-sync/pkg/e"
	"github.com/DRSN-tech/marketplace-sync/pkg/logger"
)

const (
	MsgUpdateOrderSuccess            = "orders.updateOrder.success"
	MsgUpdateOrderError              = "orders.updateOrder.error"
	MsgUpdateOrderNotFound           = "orders.updateOrder.notFound"
	MsgUpdateOrderProductNotFound    = "orders.updateOrder.productNotFound"
	MsgUpdateOrderStatusNotFound     = "orders.updateOrder.statusNotFound"
	MsgUpdateOrderNotEnoughAvailable = "orders.updateOrder.notEnoughAvailable"
)

// MutationStep — шаг конечного автомата изменения заказа.
type MutationStep string

const (
	StepStart               MutationStep = "START"
	StepPermissionCheck     MutationStep = "PERMISSION_CHECK"
	StepLoadPriorState      MutationStep = "LOAD_PRIOR_STATE"
	StepComputeDiff         MutationStep = "COMPUTE_DIFF"
	StepWriteLog            MutationStep = "WRITE_LOG"
	StepApplyProductUpdates MutationStep = "APPLY_PRODUCT_UPDATES"
	StepRecomputeTotals     MutationStep = "RECOMPUTE_TOTALS"
	StepApplyStatusUpdate   MutationStep = "APPLY_STATUS_UPDATE"
	StepCommit              MutationStep = "COMMIT"
	StepAbort               MutationStep = "ABORT"
)

// MutationError — причина отката изменения заказа.
// Message задан, если текст уже готов (например, от слоя прав доступа),
// иначе текст берётся из локализации по MessageKey.
type MutationError struct {
	Step       MutationStep
	MessageKey string
	Message    string
	Err        error
}

func (m *MutationError) Error() string {
	return fmt.Sprintf("order mutation aborted at %s: %v", m.Step, m.Err)
}

func (m *MutationError) Unwrap() error {
	return m.Err
}

func abort(key string, err error) *MutationError {
	return &MutationError{MessageKey: key, Err: err}
}

type OrderUseCase struct {
	txManager       TxManager
	orderRepo       OrderRepository
	orderLogRepo    OrderLogRepository
	shopProductRepo ShopProductRepository
	promoRepo       PromoRepository
	outboxRepo      OutboxRepository
	permissions     PermissionChecker
	localizer       Localizer
	encoder         EventEncoder
	metrics         Metrics
	logger          logger.Logger
	now             func() time.Time
}

func NewOrderUseCase(
	txManager TxManager,
	orderRepo OrderRepository,
	orderLogRepo OrderLogRepository,
	shopProductRepo ShopProductRepository,
	promoRepo PromoRepository,
	outboxRepo OutboxRepository,
	permissions PermissionChecker,
	localizer Localizer,
	encoder EventEncoder,
	metrics Metrics,
	logger logger.Logger,
) *OrderUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &OrderUseCase{
		txManager:       txManager,
		orderRepo:       orderRepo,
		orderLogRepo:    orderLogRepo,
		shopProductRepo: shopProductRepo,
		promoRepo:       promoRepo,
		outboxRepo:      outboxRepo,
		permissions:     permissions,
		localizer:       localizer,
		encoder:         encoder,
		metrics:         metrics,
		logger:          logger,
		now:             time.Now,
	}
}

// UpdateOrder применяет новое состояние заказа и возвращает ответ для клиента.
func (uc *OrderUseCase) UpdateOrder(ctx context.Context, actor Actor, req *UpdateOrderReq) *OrderPayload {
	outcome, mErr := uc.MutateOrder(ctx, actor, req)
	if mErr != nil {
		uc.metrics.ObserveOrderMutation(mErr.Step, false)
		uc.logger.Warnf("order %d mutation aborted at %s: %v", req.Order.ID, mErr.Step, mErr.Err)

		message := mErr.Message
		if message == "" {
			message = uc.localizer.Message(actor.Locale, mErr.MessageKey)
		}
		return &OrderPayload{Success: false, Message: message}
	}

	uc.metrics.ObserveOrderMutation(StepCommit, true)
	return &OrderPayload{
		Success: true,
		Message: uc.localizer.Message(actor.Locale, MsgUpdateOrderSuccess),
		Payload: outcome.Order,
	}
}

// MutateOrder выполняет конечный автомат изменения заказа в одной транзакции.
func (uc *OrderUseCase) MutateOrder(ctx context.Context, actor Actor, req *UpdateOrderReq) (*OrderMutationOutcome, *MutationError) {
	m := &orderMutation{
		uc:       uc,
		actor:    actor,
		input:    req.Order,
		step:     StepStart,
		now:      uc.now(),
		inputs:   map[int64]OrderProductInput{},
		newLines: map[int]newOrderLine{},
	}

	var mErr *MutationError
	err := uc.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		mErr = m.run(ctx)
		if mErr != nil {
			return mErr
		}
		return nil
	})
	if mErr != nil {
		return nil, mErr
	}
	if err != nil {
		return nil, &MutationError{Step: StepCommit, MessageKey: MsgUpdateOrderError, Err: err}
	}

	return &OrderMutationOutcome{Order: m.order, Log: m.log, Diff: m.diff}, nil
}

type newOrderLine struct {
	input       OrderProductInput
	shopProduct *domain.ShopProduct
}

// orderMutation хранит состояние одного прохода автомата.
type orderMutation struct {
	uc    *OrderUseCase
	actor Actor
	input OrderInput
	step  MutationStep
	now   time.Time

	order    *domain.Order
	diff     domain.OrderDiff
	log      *domain.OrderLog
	inputs   map[int64]OrderProductInput
	newLines map[int]newOrderLine
}

type mutationStepFunc struct {
	step MutationStep
	fn   func(ctx context.Context) *MutationError
}

func (m *orderMutation) run(ctx context.Context) *MutationError {
	steps := []mutationStepFunc{
		{StepPermissionCheck, m.checkPermission},
		{StepLoadPriorState, m.loadPriorState},
		{StepComputeDiff, m.computeDiff},
		{StepWriteLog, m.writeLog},
		{StepApplyProductUpdates, m.applyProductUpdates},
		{StepRecomputeTotals, m.recomputeTotals},
		{StepApplyStatusUpdate, m.applyStatusUpdate},
		{StepCommit, m.enqueueEvent},
	}

	for _, s := range steps {
		m.step = s.step
		if mErr := s.fn(ctx); mErr != nil {
			mErr.Step = s.step
			m.step = StepAbort
			return mErr
		}
	}

	return nil
}

func (m *orderMutation) checkPermission(ctx context.Context) *MutationError {
	return m.require(ctx, CapabilityUpdateOrder)
}

func (m *orderMutation) require(ctx context.Context, capability string) *MutationError {
	res := m.uc.permissions.Check(ctx, m.actor, capability)
	if res.Allow {
		return nil
	}

	return &MutationError{
		MessageKey: MsgUpdateOrderError,
		Message:    res.Message,
		Err:        fmt.Errorf("%w: %s", e.ErrPermissionDenied, capability),
	}
}

// loadPriorState читает заказ с блокировкой строки: параллельные изменения одного заказа выполняются по очереди.
func (m *orderMutation) loadPriorState(ctx context.Context) *MutationError {
	order, err := m.uc.orderRepo.GetForUpdate(ctx, m.input.ID)
	if err != nil {
		if errors.Is(err, e.ErrOrderNotFound) {
			return abort(MsgUpdateOrderNotFound, err)
		}
		return abort(MsgUpdateOrderError, err)
	}

	m.order = order
	return nil
}

func (m *orderMutation) computeDiff(ctx context.Context) *MutationError {
	statusID := m.input.StatusID
	if statusID == 0 {
		statusID = m.order.StatusID
	}

	products := make(map[string]any, len(m.input.Products))
	for i, in := range m.input.Products {
		if in.ID == 0 {
			sp, mErr := m.loadShopProduct(ctx, in.ShopProductID)
			if mErr != nil {
				return mErr
			}
			m.newLines[i] = newOrderLine{input: in, shopProduct: sp}
			products[newProductKey(i)] = snapshotProduct(sp.ID, in.Amount, in.CustomDiscount, sp.Price)
			continue
		}

		line, ok := m.order.FindProduct(in.ID)
		if !ok {
			return abort(MsgUpdateOrderProductNotFound, fmt.Errorf("%w: order product %d", e.ErrNotFound, in.ID))
		}
		m.inputs[in.ID] = in
		products[productKey(in.ID)] = snapshotProduct(line.ShopProductID, in.Amount, in.CustomDiscount, line.Price)
	}

	proposed := map[string]any{
		diffKeyStatusID:        statusID,
		diffKeyGiftCertificate: m.order.GiftCertificateChargedValue,
		diffKeyProducts:        products,
	}
	m.diff = DiffSnapshots(snapshotOrder(m.order), proposed)

	if m.discountChanged() {
		return m.require(ctx, CapabilityUpdateOrderProductDiscount)
	}

	return nil
}

func (m *orderMutation) discountChanged() bool {
	updated, _ := m.diff.Updated[diffKeyProducts].(map[string]any)

	for _, key := range ChangedProductKeys(m.diff) {
		if idx, ok := parseNewProductKey(key); ok {
			if m.newLines[idx].input.CustomDiscount != 0 {
				return true
			}
			continue
		}

		fields, _ := updated[key].(map[string]any)
		if _, ok := fields[diffKeyCustomDiscount]; ok {
			return true
		}
	}

	return false
}

// writeLog пишет запись аудита до любых изменений строк заказа.
func (m *orderMutation) writeLog(ctx context.Context) *MutationError {
	variant := domain.OrderLogVariantUpdate
	if _, ok := m.diff.Updated[diffKeyStatusID]; ok && len(m.diff.Updated) == 1 && len(m.diff.Added) == 0 && len(m.diff.Removed) == 0 {
		variant = domain.OrderLogVariantStatus
	}

	user := domain.OrderLogUser{ID: m.actor.UserID, Name: m.actor.Name, Role: m.actor.Role}
	m.log = domain.NewOrderLog(m.order.ID, user, m.diff, variant, m.now)
	if err := m.uc.orderLogRepo.Create(ctx, m.log); err != nil {
		return abort(MsgUpdateOrderError, err)
	}

	return nil
}

func (m *orderMutation) applyProductUpdates(ctx context.Context) *MutationError {
	if ids := RemovedProductIDs(m.diff); len(ids) > 0 {
		if err := m.uc.orderRepo.DeleteProducts(ctx, m.order.ID, ids); err != nil {
			return abort(MsgUpdateOrderError, err)
		}
	}

	for _, key := range ChangedProductKeys(m.diff) {
		if idx, ok := parseNewProductKey(key); ok {
			if mErr := m.insertLine(ctx, m.newLines[idx]); mErr != nil {
				return mErr
			}
			continue
		}

		id, ok := parseProductKey(key)
		if !ok {
			continue
		}
		if mErr := m.updateLine(ctx, id); mErr != nil {
			return mErr
		}
	}

	return nil
}

func (m *orderMutation) updateLine(ctx context.Context, id int64) *MutationError {
	line, ok := m.order.FindProduct(id)
	if !ok {
		return abort(MsgUpdateOrderProductNotFound, fmt.Errorf("%w: order product %d", e.ErrNotFound, id))
	}
	in := m.inputs[id]

	// Уже заказанное количество зарезервировано, проверяется только прирост.
	if in.Amount > line.Amount {
		sp, mErr := m.loadShopProduct(ctx, line.ShopProductID)
		if mErr != nil {
			return mErr
		}
		if in.Amount-line.Amount > sp.Available {
			return abort(MsgUpdateOrderNotEnoughAvailable, fmt.Errorf("%w: shop product %d", e.ErrNotEnoughAvailable, sp.ID))
		}
	}

	line.Amount = in.Amount
	line.CustomDiscount = in.CustomDiscount
	if mErr := m.price(ctx, line); mErr != nil {
		return mErr
	}

	if err := m.uc.orderRepo.UpdateProduct(ctx, line); err != nil {
		return abort(MsgUpdateOrderError, err)
	}

	return nil
}

func (m *orderMutation) insertLine(ctx context.Context, nl newOrderLine) *MutationError {
	sp := nl.shopProduct
	if nl.input.Amount > sp.Available {
		return abort(MsgUpdateOrderNotEnoughAvailable, fmt.Errorf("%w: shop product %d", e.ErrNotEnoughAvailable, sp.ID))
	}

	line := domain.OrderProduct{
		OrderID:        m.order.ID,
		ShopProductID:  sp.ID,
		ProductID:      sp.ProductID,
		Name:           sp.Name,
		Barcode:        sp.Barcode,
		Amount:         nl.input.Amount,
		Price:          sp.Price,
		CustomDiscount: nl.input.CustomDiscount,
		CreatedAt:      m.now,
	}
	if mErr := m.price(ctx, &line); mErr != nil {
		return mErr
	}

	if err := m.uc.orderRepo.InsertProduct(ctx, &line); err != nil {
		return abort(MsgUpdateOrderError, err)
	}
	m.order.Products = append(m.order.Products, line)

	return nil
}

// price пересчитывает итоговую цену строки: ручная скидка плюс действующие акции.
func (m *orderMutation) price(ctx context.Context, line *domain.OrderProduct) *MutationError {
	var promoDiscounts []int
	if len(line.PromoIDs) > 0 {
		promos, err := m.uc.promoRepo.GetByIDs(ctx, line.PromoIDs)
		if err != nil {
			return abort(MsgUpdateOrderError, err)
		}
		for _, p := range promos {
			if p.IsActive(m.now) {
				promoDiscounts = append(promoDiscounts, p.DiscountPercent)
			}
		}
	}

	discounted := pricing.CountDiscountedPrice(pricing.DiscountedPriceInput{
		Price:    line.Price,
		Discount: pricing.TotalDiscount(line.CustomDiscount, promoDiscounts...),
	})
	line.FinalPrice = discounted.DiscountedPrice
	line.TotalPrice = pricing.LineTotal(line.Amount, line.FinalPrice)
	line.UpdatedAt = m.now

	return nil
}

// recomputeTotals пересчитывает итог по строкам, перечитанным внутри транзакции.
func (m *orderMutation) recomputeTotals(ctx context.Context) *MutationError {
	products, err := m.uc.orderRepo.ListProducts(ctx, m.order.ID)
	if err != nil {
		return abort(MsgUpdateOrderError, err)
	}

	m.order.Products = products
	m.order.RecountTotal()
	if err := m.uc.orderRepo.UpdateTotal(ctx, m.order.ID, m.order.TotalPrice); err != nil {
		return abort(MsgUpdateOrderError, err)
	}

	return nil
}

func (m *orderMutation) applyStatusUpdate(ctx context.Context) *MutationError {
	raw, ok := m.diff.Updated[diffKeyStatusID]
	if !ok {
		return nil
	}
	statusID, _ := raw.(int64)

	if _, err := m.uc.orderRepo.GetStatus(ctx, statusID); err != nil {
		if errors.Is(err, e.ErrOrderStatusNotFound) {
			return abort(MsgUpdateOrderStatusNotFound, err)
		}
		return abort(MsgUpdateOrderError, err)
	}

	if err := m.uc.orderRepo.UpdateStatus(ctx, m.order.ID, statusID); err != nil {
		return abort(MsgUpdateOrderError, err)
	}
	m.order.StatusID = statusID

	return nil
}

// enqueueEvent кладёт событие order.updated в outbox той же транзакцией.
func (m *orderMutation) enqueueEvent(ctx context.Context) *MutationError {
	if m.uc.outboxRepo == nil || m.uc.encoder == nil {
		return nil
	}

	payload, err := m.uc.encoder.Encode(domain.EventOrderUpdated, m.order.ID, map[string]any{
		"orderId":    m.order.ID,
		"shopId":     m.order.ShopID,
		"statusId":   m.order.StatusID,
		"totalPrice": m.order.TotalPrice,
		"userId":     m.actor.UserID,
		"variant":    m.log.Variant,
	})
	if err != nil {
		return abort(MsgUpdateOrderError, err)
	}

	if _, err := m.uc.outboxRepo.Create(ctx, domain.NewOutboxEvent(domain.EventOrderUpdated, m.order.ID, payload, m.now)); err != nil {
		return abort(MsgUpdateOrderError, err)
	}

	return nil
}

func (m *orderMutation) loadShopProduct(ctx context.Context, id int64) (*domain.ShopProduct, *MutationError) {
	if id == 0 {
		return nil, abort(MsgUpdateOrderProductNotFound, e.ErrShopProductNotFound)
	}

	sp, err := m.uc.shopProductRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrShopProductNotFound) {
			return nil, abort(MsgUpdateOrderProductNotFound, err)
		}
		return nil, abort(MsgUpdateOrderError, err)
	}

	return sp, nil
}
