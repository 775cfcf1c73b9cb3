package minio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/marketplace-sync/internal/cfg"
	"github.com/DRSN-tech/marketplace-sync/internal/usecase"
	"github.com/DRSN-tech/marketplace-sync/pkg/jitter"
	"github.com/DRSN-tech/marketplace-sync/pkg/logger"
	"golang.org/x/time/rate"
)

const (
	archiveOpTimeout  = 30 * time.Second
	defaultRetainKeys = 20
)

var archiveBackoff = jitter.Backoff{
	Base:     500 * time.Millisecond,
	Max:      5 * time.Second,
	Factor:   jitter.DefaultJitter,
	Attempts: 3,
}

// FeedArchiver загружает сырые фиды в MinIO в фоне и держит в архиве
// только последние retain фидов каждого магазина.
type FeedArchiver struct {
	store       usecase.FeedObjectStore
	logger      logger.Logger
	shutdownCtx context.Context
	wg          sync.WaitGroup
	sem         chan struct{}
	limiter     *rate.Limiter
	retain      int
	now         func() time.Time

	mu   sync.Mutex
	keys map[int64][]string
}

// NewFeedArchiver: UploadRPS <= 0 снимает ограничение частоты обращений к хранилищу.
func NewFeedArchiver(store usecase.FeedObjectStore, cfg *cfg.MinIOCfg, logger logger.Logger, shutdownCtx context.Context) *FeedArchiver {
	uploadLimit := max(cfg.UploadLimit, 1)
	retain := cfg.RetainPerShop
	if retain <= 0 {
		retain = defaultRetainKeys
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.UploadRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.UploadRPS), uploadLimit)
	}

	return &FeedArchiver{
		store:       store,
		logger:      logger,
		shutdownCtx: shutdownCtx,
		sem:         make(chan struct{}, uploadLimit),
		limiter:     limiter,
		retain:      retain,
		now:         time.Now,
		keys:        make(map[int64][]string),
	}
}

// Archive ставит фид в очередь загрузки и сразу возвращает ключ объекта.
// Ошибки загрузки только логируются: синхронизация от архива не зависит.
func (f *FeedArchiver) Archive(_ context.Context, shopID int64, payload []byte) (string, error) {
	if err := f.shutdownCtx.Err(); err != nil {
		return "", fmt.Errorf("feed archiver stopped: %w", err)
	}

	key := FeedObjectKey(shopID, f.now())
	data := make([]byte, len(payload))
	copy(data, payload)

	f.wg.Add(1)
	go f.upload(shopID, key, data)

	return key, nil
}

func (f *FeedArchiver) upload(shopID int64, key string, payload []byte) {
	defer f.wg.Done()

	select {
	case f.sem <- struct{}{}:
		defer func() { <-f.sem }()
	case <-f.shutdownCtx.Done():
		f.logger.Warnf("feed upload interrupted by shutdown, key=%s", key)
		return
	}

	ctx, cancel := context.WithTimeout(f.shutdownCtx, archiveOpTimeout)
	defer cancel()

	if err := jitter.Retry(ctx, archiveBackoff, func(ctx context.Context) error {
		if err := f.limiter.Wait(ctx); err != nil {
			return err
		}
		return f.store.Put(ctx, key, payload)
	}); err != nil {
		f.logger.Errorf(err, "feed upload failed, key=%s", key)
		return
	}

	for _, old := range f.remember(shopID, key) {
		if err := jitter.Retry(ctx, archiveBackoff, func(ctx context.Context) error {
			if err := f.limiter.Wait(ctx); err != nil {
				return err
			}
			return f.store.Delete(ctx, old)
		}); err != nil {
			f.logger.Warnf("stale feed cleanup failed, key=%s: %v", old, err)
		}
	}
}

// remember добавляет ключ в историю магазина и возвращает вытесненные ключи.
func (f *FeedArchiver) remember(shopID int64, key string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys := append(f.keys[shopID], key)
	if len(keys) <= f.retain {
		f.keys[shopID] = keys
		return nil
	}

	cut := len(keys) - f.retain
	stale := append([]string(nil), keys[:cut]...)
	f.keys[shopID] = append([]string(nil), keys[cut:]...)

	return stale
}

// Wait ожидает завершения фоновых загрузок с учётом таймаута остановки приложения.
func (f *FeedArchiver) Wait(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		f.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("feed archive timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}

// FeedObjectKey формирует ключ вида shops/<id>/<UTC-время>.json.
func FeedObjectKey(shopID int64, at time.Time) string {
	return fmt.Sprintf("shops/%d/%s.json", shopID, at.UTC().Format("20060102T150405.000000000Z"))
}
