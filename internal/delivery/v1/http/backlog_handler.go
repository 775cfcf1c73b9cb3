package http

import (
	"net/http"

	"github.com/DRSN-tech/marketplace-sync/internal/usecase"
	"github.com/DRSN-tech/marketplace-sync/pkg/e"
	"github.com/DRSN-tech/marketplace-sync/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type BacklogHandler struct {
	backlogUsecase usecase.BacklogUC
	logger         logger.Logger
}

func NewBacklogHandler(backlogUsecase usecase.BacklogUC, logger logger.Logger) *BacklogHandler {
	return &BacklogHandler{backlogUsecase: backlogUsecase, logger: logger}
}

// listNotSynced
//
//	@Summary		Бэклог несопоставленных позиций
//	@Description	Позиции фидов, не найденные в каталоге. Хвост пути задаёт фильтры: page-2/limit-20
//	@Tags			backlog
//	@Produce		json
//	@Param			shopId	path		int		false	"ID магазина"
//	@Param			filters	path		string	false	"Фильтры"
//	@Success		200		{object}	NotSyncedPageResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/not-synced/{filters} [get]
//	@Router			/shops/{shopId}/not-synced/{filters} [get]
func (b *BacklogHandler) listNotSynced(w http.ResponseWriter, r *http.Request) {
	var shopID *int64
	if raw := chi.URLParam(r, "shopId"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			WriteError(w, err)
			return
		}
		shopID = &id
	}

	page := b.backlogUsecase.ListNotSynced(r.Context(), shopID, urlFilters(chi.URLParam(r, "*")))
	if page == nil {
		WriteError(w, e.ErrInternalServerError)
		return
	}

	WriteSuccess(w, http.StatusOK, toNotSyncedPageResponse(page))
}

// listIntersects
//
//	@Summary		Конфликты штрихкодов магазина
//	@Tags			backlog
//	@Produce		json
//	@Param			shopId	path		int	true	"ID магазина"
//	@Success		200		{array}		SyncIntersectDTO
//	@Failure		400		{object}	ErrorResponse
//	@Router			/shops/{shopId}/sync-intersects [get]
func (b *BacklogHandler) listIntersects(w http.ResponseWriter, r *http.Request) {
	shopID, err := parseID(chi.URLParam(r, "shopId"))
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toSyncIntersectDTOs(b.backlogUsecase.ListIntersects(r.Context(), shopID)))
}
