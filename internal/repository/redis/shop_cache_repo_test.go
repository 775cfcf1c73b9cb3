package redis

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/marketplace-sync/internal/cfg"
	"github.com/DRSN-tech/marketplace-sync/internal/domain"
	"github.com/DRSN-tech/marketplace-sync/internal/repository/redis/converter"
	"github.com/DRSN-tech/marketplace-sync/pkg/clients"
	"github.com/DRSN-tech/marketplace-sync/pkg/logger"
	miniredis "github.com/alicebob/miniredis/v2"
	r "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*ShopCacheRepo, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := &clients.RedisClient{Client: r.NewClient(&r.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { _ = client.Client.Close() })

	repo := NewShopCacheRepo(client, converter.NewShopConverter(), &cfg.RedisCfg{ShopTTL: time.Minute}, logger.NewNop())
	return repo, mr
}

func TestShopCacheRepo_Miss(t *testing.T) {
	repo, _ := newTestRepo(t)

	shop, err := repo.GetShop(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, shop)
}

func TestShopCacheRepo_SetAndGet(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SetShop(ctx, "tok", &domain.Shop{ID: 7, Name: "Аптека", Slug: "apteka", Token: "tok", CreatedAt: created}))

	require.True(t, mr.Exists("shop:token:tok"))
	require.Equal(t, time.Minute, mr.TTL("shop:token:tok"))

	shop, err := repo.GetShop(ctx, "tok")
	require.NoError(t, err)
	require.NotNil(t, shop)
	require.Equal(t, int64(7), shop.ID)
	require.Equal(t, "apteka", shop.Slug)
	require.True(t, created.Equal(shop.CreatedAt))
}

func TestShopCacheRepo_Expires(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SetShop(ctx, "tok", &domain.Shop{ID: 1, Token: "tok"}))
	mr.FastForward(2 * time.Minute)

	shop, err := repo.GetShop(ctx, "tok")
	require.NoError(t, err)
	require.Nil(t, shop)
}

func TestShopCacheRepo_CorruptedValueEvicted(t *testing.T) {
	repo, mr := newTestRepo(t)

	require.NoError(t, mr.Set("shop:token:tok", "{broken"))

	shop, err := repo.GetShop(context.Background(), "tok")
	require.NoError(t, err)
	require.Nil(t, shop)
	require.False(t, mr.Exists("shop:token:tok"))
}

func TestShopCacheRepo_TokenMismatchEvicted(t *testing.T) {
	repo, mr := newTestRepo(t)

	require.NoError(t, mr.Set("shop:token:tok", `{"id":3,"token":"other"}`))

	shop, err := repo.GetShop(context.Background(), "tok")
	require.NoError(t, err)
	require.Nil(t, shop)
	require.False(t, mr.Exists("shop:token:tok"))
}

func TestShopCacheRepo_Unavailable(t *testing.T) {
	repo, mr := newTestRepo(t)
	mr.Close()

	_, err := repo.GetShop(context.Background(), "tok")
	require.Error(t, err)
}

func TestShopCacheRepo_KeyPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	redisCfg := &cfg.RedisCfg{Addr: mr.Addr(), ShopTTL: time.Minute, KeyPrefix: "stage"}
	client := clients.NewRedisClient(redisCfg)
	t.Cleanup(func() { _ = client.Close(context.Background()) })

	repo := NewShopCacheRepo(client, converter.NewShopConverter(), redisCfg, logger.NewNop())
	require.NoError(t, repo.SetShop(context.Background(), "tok", &domain.Shop{ID: 3, Token: "tok"}))

	require.True(t, mr.Exists("stage:shop:token:tok"))
	require.False(t, mr.Exists("shop:token:tok"))
}
