package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/DRSN-tech/marketplace-sync/internal/domain"
	"github.com/DRSN-tech/marketplace-sync/internal/usecase"
	"github.com/DRSN-tech/marketplace-sync/pkg/e"
	"github.com/DRSN-tech/marketplace-sync/pkg/logger"
	"github.com/go-playground/validator/v10"
)

type SyncHandler struct {
	syncUsecase  usecase.SyncUC
	validator    *validator.Validate
	maxBodyBytes int64
	logger       logger.Logger
}

func NewSyncHandler(syncUsecase usecase.SyncUC, validate *validator.Validate, maxBodyBytes int64, logger logger.Logger) *SyncHandler {
	return &SyncHandler{
		syncUsecase:  syncUsecase,
		validator:    validate,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

// syncUpdate
//
//	@Summary		Синхронизация остатков магазина
//	@Description	Принимает фид кассы или склада, сверяет его с каталогом и обновляет товары магазина
//	@Tags			sync
//	@Accept			json
//	@Produce		json
//	@Param			token			query		string			true	"Токен магазина"
//	@Param			apiVersion		query		string			false	"Версия API клиента"
//	@Param			systemVersion	query		string			false	"Версия учётной системы"
//	@Param			items			body		[]FeedItemDTO	true	"Позиции фида"
//	@Success		200				{object}	SyncResponse
//	@Failure		400				{object}	ErrorResponse	"Нет токена или товаров"
//	@Failure		401				{object}	ErrorResponse	"Токен не найден"
//	@Failure		500				{object}	ErrorResponse
//	@Router			/sync/update [post]
func (s *SyncHandler) syncUpdate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	token := query.Get("token")
	if token == "" {
		WriteError(w, e.ErrNoToken)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Warnf("%d %s: %v", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err)
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	var dtos []FeedItemDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		s.logger.Warnf("%d %s: %v", http.StatusBadRequest, e.ErrInvalidJSON.Error(), err)
		WriteError(w, e.ErrInvalidJSON)
		return
	}

	res, err := s.syncUsecase.Sync(r.Context(), &usecase.SyncReq{
		Token:         token,
		APIVersion:    query.Get("apiVersion"),
		SystemVersion: query.Get("systemVersion"),
		Items:         s.toFeedItems(dtos),
		Raw:           raw,
	})
	if err != nil {
		code, _ := ToHTTPResponse(err)
		if code >= http.StatusInternalServerError {
			s.logger.Errorf(err, "sync failed")
		} else {
			s.logger.Warnf("%d sync rejected: %v", code, err)
		}
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, &SyncResponse{
		Success: true,
		Message: res.Message,
		Stats:   res.Stats,
	})
}

// toFeedItems отбрасывает невалидные позиции, остальные приводит к доменной модели.
func (s *SyncHandler) toFeedItems(dtos []FeedItemDTO) []domain.FeedItem {
	items := make([]domain.FeedItem, 0, len(dtos))
	for i, dto := range dtos {
		if err := s.validator.Struct(dto); err != nil {
			s.logger.Debugf("feed item %d dropped: %v", i, err)
			continue
		}

		price, err := priceToCents(dto.Price)
		if err != nil {
			s.logger.Debugf("feed item %d dropped: %v", i, err)
			continue
		}

		items = append(items, domain.NewFeedItem(string(dto.ID), dto.Barcode, int(dto.Available.IntPart()), price, dto.Name))
	}

	return items
}
