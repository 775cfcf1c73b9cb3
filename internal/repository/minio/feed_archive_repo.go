package minio

import (
	"bytes"
	"context"

	"github.com/DRSN-tech/marketplace-sync/internal/cfg"
	"github.com/DRSN-tech/marketplace-sync/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// FeedArchiveRepo складывает сырые фиды синхронизации в MinIO.
type FeedArchiveRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewFeedArchiveRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *FeedArchiveRepo {
	return &FeedArchiveRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Put загружает тело запроса синхронизации под ключом key.
func (f *FeedArchiveRepo) Put(ctx context.Context, key string, payload []byte) error {
	_, err := f.mc.PutObject(ctx, f.cfg.BucketName, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Delete удаляет архивный фид по ключу.
func (f *FeedArchiveRepo) Delete(ctx context.Context, key string) error {
	if err := f.mc.RemoveObject(ctx, f.cfg.BucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
