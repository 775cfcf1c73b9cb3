package usecase

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/marketplace-sync/internal/domain"
	"github.com/DRSN-tech/marketplace-sync/pkg/logger"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100

	filterPagePrefix  = "page-"
	filterLimitPrefix = "limit-"

	// Смещение (page-1)*limit должно помещаться в int
	maxPage = math.MaxInt/MaxPageLimit + 1
)

// BacklogUseCase ведёт бэклог несопоставленных позиций и списки конфликтов.
// Ошибки хранилища логируются и не возвращаются вызывающему.
type BacklogUseCase struct {
	notSyncedRepo     NotSyncedRepository
	syncIntersectRepo SyncIntersectRepository
	logger            logger.Logger
	now               func() time.Time
}

func NewBacklogUseCase(notSyncedRepo NotSyncedRepository, syncIntersectRepo SyncIntersectRepository, logger logger.Logger) *BacklogUseCase {
	return &BacklogUseCase{
		notSyncedRepo:     notSyncedRepo,
		syncIntersectRepo: syncIntersectRepo,
		logger:            logger,
		now:               time.Now,
	}
}

func (b *BacklogUseCase) RecordUnmatched(ctx context.Context, shopID int64, item domain.FeedItem) *domain.NotSyncedProduct {
	existing, err := b.notSyncedRepo.FindByBarcodes(ctx, shopID, item.Barcode)
	if err != nil {
		b.logger.Errorf(err, "shop %d: not synced lookup failed for item %q", shopID, item.ID)
		return nil
	}

	if existing != nil {
		existing.Merge(item, b.now())
		if err := b.notSyncedRepo.Update(ctx, existing); err != nil {
			b.logger.Errorf(err, "shop %d: not synced update failed for item %q", shopID, item.ID)
			return nil
		}
		return existing
	}

	product := domain.NewNotSyncedProduct(shopID, item, b.now())
	if err := b.notSyncedRepo.Create(ctx, product); err != nil {
		b.logger.Errorf(err, "shop %d: not synced insert failed for item %q", shopID, item.ID)
		return nil
	}

	return product
}

// ListNotSynced возвращает страницу бэклога, новые записи первыми.
// filters — сегменты URL вида "page-2", "limit-50".
func (b *BacklogUseCase) ListNotSynced(ctx context.Context, shopID *int64, filters []string) *NotSyncedPage {
	page, limit := ParsePageFilters(filters)

	docs, total, err := b.notSyncedRepo.List(ctx, NotSyncedFilter{
		ShopID: shopID,
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		b.logger.Errorf(err, "not synced listing failed")
		return nil
	}

	if docs == nil {
		docs = []domain.NotSyncedProduct{}
	}

	return NewNotSyncedPage(docs, page, limit, total)
}

func (b *BacklogUseCase) ListIntersects(ctx context.Context, shopID int64) []domain.SyncIntersect {
	res, err := b.syncIntersectRepo.ListByShop(ctx, shopID)
	if err != nil {
		b.logger.Errorf(err, "shop %d: sync intersects listing failed", shopID)
		return nil
	}
	if res == nil {
		return []domain.SyncIntersect{}
	}

	return res
}

// ParsePageFilters разбирает сегменты page-N и limit-N.
// Неизвестные и некорректные сегменты игнорируются.
func ParsePageFilters(filters []string) (page, limit int) {
	page, limit = 1, DefaultPageLimit

	for _, f := range filters {
		switch {
		case strings.HasPrefix(f, filterPagePrefix):
			if n, err := strconv.Atoi(strings.TrimPrefix(f, filterPagePrefix)); err == nil && n > 0 {
				page = min(n, maxPage)
			}
		case strings.HasPrefix(f, filterLimitPrefix):
			if n, err := strconv.Atoi(strings.TrimPrefix(f, filterLimitPrefix)); err == nil && n > 0 {
				limit = min(n, MaxPageLimit)
			}
		}
	}

	return page, limit
}
