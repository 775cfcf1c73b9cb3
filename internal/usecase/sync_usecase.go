package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/marketplace-sync/internal/domain"
	"github.com/DRSN-tech/marketplace-sync/pkg/e"
	"github.com/DRSN-tech/marketplace-sync/pkg/logger"
)

const (
	MessageSynced         = "synced"
	MessageAllBlacklisted = "all products are blacklisted"
)

// Outcome — итог сверки одной позиции фида.
type Outcome string

const (
	OutcomeBlacklisted Outcome = "blacklisted"
	OutcomeIntersected Outcome = "intersected"
	OutcomeUnmatched   Outcome = "unmatched"
	OutcomeUpserted    Outcome = "upserted"
	OutcomeSkipped     Outcome = "skipped"
)

type SyncUseCase struct {
	shopRepo          ShopRepository
	shopCache         ShopCacheRepository
	blacklistRepo     BlacklistRepository
	catalogRepo       CatalogProductRepository
	shopProductRepo   ShopProductRepository
	syncIntersectRepo SyncIntersectRepository
	outboxRepo        OutboxRepository
	backlog           BacklogUC
	archive           FeedArchive
	encoder           EventEncoder
	metrics           Metrics
	logger            logger.Logger
	now               func() time.Time
}

// NewSyncUseCase собирает use case синхронизации.
// shopCache, outboxRepo, archive и metrics могут быть nil.
func NewSyncUseCase(
	shopRepo ShopRepository,
	shopCache ShopCacheRepository,
	blacklistRepo BlacklistRepository,
	catalogRepo CatalogProductRepository,
	shopProductRepo ShopProductRepository,
	syncIntersectRepo SyncIntersectRepository,
	outboxRepo OutboxRepository,
	backlog BacklogUC,
	archive FeedArchive,
	encoder EventEncoder,
	metrics Metrics,
	logger logger.Logger,
) *SyncUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &SyncUseCase{
		shopRepo:          shopRepo,
		shopCache:         shopCache,
		blacklistRepo:     blacklistRepo,
		catalogRepo:       catalogRepo,
		shopProductRepo:   shopProductRepo,
		syncIntersectRepo: syncIntersectRepo,
		outboxRepo:        outboxRepo,
		backlog:           backlog,
		archive:           archive,
		encoder:           encoder,
		metrics:           metrics,
		logger:            logger,
		now:               time.Now,
	}
}

// syncBatch копит новые товары магазина, чтобы записать их одной вставкой в конце.
type syncBatch struct {
	items           []domain.FeedItem
	newShopProducts []*domain.ShopProduct
}

func (s *SyncUseCase) Sync(ctx context.Context, req *SyncReq) (*SyncRes, error) {
	const op = "SyncUseCase.Sync"
	started := s.now()
	defer func() { s.metrics.ObserveSyncDuration(time.Since(started)) }()

	if strings.TrimSpace(req.Token) == "" {
		return nil, e.ErrNoToken
	}
	if len(req.Items) == 0 {
		return nil, e.ErrNoProducts
	}

	shop, err := s.resolveShop(ctx, req.Token)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	s.archiveFeed(ctx, shop.ID, req.Raw)

	entries, err := s.blacklistRepo.ListByShop(ctx, shop.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	blacklisted := blacklistSet(entries)
	batch := &syncBatch{items: FilterBlacklisted(req.Items, entries)}
	res := &SyncRes{ShopID: shop.ID}

	if len(batch.items) == 0 {
		res.Message = MessageAllBlacklisted
		res.Stats.Blacklisted = len(req.Items)
		for range req.Items {
			s.metrics.ObserveSyncOutcome(OutcomeBlacklisted)
		}
		return res, nil
	}

	for _, item := range req.Items {
		outcome := s.reconcile(ctx, shop, item, blacklisted, batch)
		res.Stats.Add(outcome)
		s.metrics.ObserveSyncOutcome(outcome)
	}

	if len(batch.newShopProducts) > 0 {
		if err := s.shopProductRepo.BulkInsert(ctx, batch.newShopProducts); err != nil {
			return nil, e.Wrap(op, fmt.Errorf("%w: %v", e.ErrBulkInsertFailed, err))
		}
	}

	s.publishSynced(ctx, shop, res.Stats, req)

	s.logger.Infof("shop %d synced: %d upserted, %d unmatched, %d intersected, %d blacklisted, %d skipped",
		shop.ID, res.Stats.Upserted, res.Stats.Unmatched, res.Stats.Intersected, res.Stats.Blacklisted, res.Stats.Skipped)

	res.Message = MessageSynced
	return res, nil
}

// reconcile сверяет одну позицию фида с каталогом.
// Повторный вызов с той же позицией не меняет состояние.
func (s *SyncUseCase) reconcile(
	ctx context.Context,
	shop *domain.Shop,
	item domain.FeedItem,
	blacklisted map[string]struct{},
	batch *syncBatch,
) Outcome {
	if isBlacklisted(item, blacklisted) {
		return OutcomeBlacklisted
	}

	product, err := s.matchCatalogProduct(ctx, item)
	if err != nil {
		s.logger.Warnf("shop %d item %q skipped: catalog lookup failed: %v", shop.ID, item.ID, err)
		return OutcomeSkipped
	}
	if product == nil {
		s.backlog.RecordUnmatched(ctx, shop.ID, item)
		return OutcomeUnmatched
	}

	intersected, err := s.detectIntersect(ctx, shop.ID, item, batch.items)
	if err != nil {
		s.logger.Warnf("shop %d item %q skipped: intersect check failed: %v", shop.ID, item.ID, err)
		return OutcomeSkipped
	}
	if intersected {
		return OutcomeIntersected
	}

	if err := s.catalogRepo.AppendBarcodes(ctx, product.ID, item.Barcode); err != nil {
		s.logger.Warnf("shop %d item %q skipped: append barcodes to product %d: %v", shop.ID, item.ID, product.ID, err)
		return OutcomeSkipped
	}

	if err := s.upsertShopProduct(ctx, shop, product, item, batch); err != nil {
		s.logger.Warnf("shop %d item %q skipped: upsert failed: %v", shop.ID, item.ID, err)
		return OutcomeSkipped
	}

	return OutcomeUpserted
}

// matchCatalogProduct ищет товар каталога по пересечению штрихкодов.
// Первое совпадение выигрывает. (nil, nil) означает, что совпадений нет.
func (s *SyncUseCase) matchCatalogProduct(ctx context.Context, item domain.FeedItem) (*domain.CatalogProduct, error) {
	return s.catalogRepo.FindByBarcodes(ctx, item.Barcode)
}

// detectIntersect проверяет конфликт штрихкодов до любой записи в остатки.
func (s *SyncUseCase) detectIntersect(ctx context.Context, shopID int64, item domain.FeedItem, batch []domain.FeedItem) (bool, error) {
	const op = "SyncUseCase.detectIntersect"

	existing, err := s.syncIntersectRepo.FindByBarcodes(ctx, shopID, item.Barcode)
	if err != nil {
		return false, e.Wrap(op, err)
	}
	if existing != nil {
		if existing.Append(item, s.now()) {
			if err := s.syncIntersectRepo.UpdateProducts(ctx, existing); err != nil {
				return false, e.Wrap(op, err)
			}
		}
		return true, nil
	}

	for _, other := range batch {
		if !item.ConflictsWith(other) {
			continue
		}

		intersect := domain.NewSyncIntersect(shopID, item, s.now())
		if err := s.syncIntersectRepo.Create(ctx, intersect); err != nil {
			return false, e.Wrap(op, err)
		}
		return true, nil
	}

	return false, nil
}

// upsertShopProduct обновляет существующие товары магазина или готовит новый к пакетной вставке.
func (s *SyncUseCase) upsertShopProduct(
	ctx context.Context,
	shop *domain.Shop,
	product *domain.CatalogProduct,
	item domain.FeedItem,
	batch *syncBatch,
) error {
	const op = "SyncUseCase.upsertShopProduct"
	now := s.now()

	existing, err := s.shopProductRepo.FindForSync(ctx, shop.ID, product.ID, item.Barcode)
	if err != nil {
		return e.Wrap(op, err)
	}

	if len(existing) > 0 {
		for i := range existing {
			sp := &existing[i]
			sp.ApplyFeed(item, now)
			if err := s.shopProductRepo.Update(ctx, sp); err != nil {
				return e.Wrap(op, err)
			}
		}
		return nil
	}

	// Та же позиция могла встретиться в фиде раньше и ещё не записана
	for _, pending := range batch.newShopProducts {
		if pending.ProductID == product.ID && domain.BarcodesIntersect(pending.Barcode, item.Barcode) {
			pending.OverwriteFromFeed(item, now)
			return nil
		}
	}

	itemID, err := s.shopProductRepo.NextItemID(ctx)
	if err != nil {
		return e.Wrap(op, err)
	}

	sp := domain.NewShopProductFromFeed(shop.ID, itemID, product, item, now)
	sp.Available = max(sp.Available, 0)
	batch.newShopProducts = append(batch.newShopProducts, sp)

	return nil
}

func (s *SyncUseCase) resolveShop(ctx context.Context, token string) (*domain.Shop, error) {
	if s.shopCache != nil {
		shop, err := s.shopCache.GetShop(ctx, token)
		if err != nil {
			s.logger.Warnf("shop cache lookup failed: %v", err)
		}
		if shop != nil {
			return shop, nil
		}
	}

	shop, err := s.shopRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, e.ErrShopNotFound) {
			return nil, e.ErrTokenNotFound
		}
		return nil, err
	}

	if s.shopCache != nil {
		if err := s.shopCache.SetShop(ctx, token, shop); err != nil {
			s.logger.Warnf("shop cache store failed: %v", err)
		}
	}

	return shop, nil
}

func (s *SyncUseCase) archiveFeed(ctx context.Context, shopID int64, raw []byte) {
	if s.archive == nil || len(raw) == 0 {
		return
	}

	key, err := s.archive.Archive(ctx, shopID, raw)
	if err != nil {
		s.logger.Warnf("shop %d feed archive failed: %v", shopID, err)
		return
	}
	s.logger.Debugf("shop %d feed queued for archive as %s", shopID, key)
}

func (s *SyncUseCase) publishSynced(ctx context.Context, shop *domain.Shop, stats SyncStats, req *SyncReq) {
	if s.outboxRepo == nil || s.encoder == nil {
		return
	}

	payload, err := s.encoder.Encode(domain.EventShopSynced, shop.ID, map[string]any{
		"shopId":        shop.ID,
		"apiVersion":    req.APIVersion,
		"systemVersion": req.SystemVersion,
		"upserted":      stats.Upserted,
		"unmatched":     stats.Unmatched,
		"intersected":   stats.Intersected,
		"blacklisted":   stats.Blacklisted,
		"skipped":       stats.Skipped,
	})
	if err != nil {
		s.logger.Warnf("shop %d synced event encode failed: %v", shop.ID, err)
		return
	}

	if _, err := s.outboxRepo.Create(ctx, domain.NewOutboxEvent(domain.EventShopSynced, shop.ID, payload, s.now())); err != nil {
		s.logger.Warnf("shop %d synced event not stored: %v", shop.ID, err)
	}
}
