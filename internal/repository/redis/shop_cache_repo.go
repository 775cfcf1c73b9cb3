package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DRSN-tech/marketplace-sync/internal/cfg"
	"github.com/DRSN-tech/marketplace-sync/internal/domain"
	"github.com/DRSN-tech/marketplace-sync/internal/repository/redis/converter"
	"github.com/DRSN-tech/marketplace-sync/pkg/clients"
	"github.com/DRSN-tech/marketplace-sync/pkg/e"
	"github.com/DRSN-tech/marketplace-sync/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// ShopCacheRepo кэширует магазины по токену синхронизации.
type ShopCacheRepo struct {
	client *clients.RedisClient
	conv   converter.ShopConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewShopCacheRepo(client *clients.RedisClient, conv converter.ShopConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *ShopCacheRepo {
	return &ShopCacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetShop возвращает магазин из кэша. Промах: (nil, nil).
func (s *ShopCacheRepo) GetShop(ctx context.Context, token string) (*domain.Shop, error) {
	key := s.shopKey(token)

	data, err := s.client.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, nil
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.ShopRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		s.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		s.evict(key)
		return nil, nil
	}

	if model.Token != token {
		s.logger.Warnf("Cache token mismatch for shop %d", model.ID)
		s.evict(key)
		return nil, nil // cache miss
	}

	return s.conv.ToEntity(&model), nil
}

// SetShop кладёт магазин в кэш на cfg.ShopTTL.
func (s *ShopCacheRepo) SetShop(ctx context.Context, token string, shop *domain.Shop) error {
	data, err := json.Marshal(s.conv.ToRedisModel(shop))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := s.client.Client.Set(ctx, s.shopKey(token), data, s.cfg.ShopTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (s *ShopCacheRepo) evict(key string) {
	if err := s.client.Client.Del(context.Background(), key).Err(); err != nil {
		s.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}
}

func (s *ShopCacheRepo) shopKey(token string) string {
	return s.client.Key(fmt.Sprintf("shop:token:%s", token))
}
