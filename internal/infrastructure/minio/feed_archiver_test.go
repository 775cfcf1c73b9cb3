package minio

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/marketplace-sync/internal/cfg"
	"github.com/DRSN-tech/marketplace-sync/pkg/logger"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	deleted  []string
	putFails int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: make(map[string][]byte)}
}

func (m *memoryStore) Put(_ context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.putFails > 0 {
		m.putFails--
		return errors.New("minio unavailable")
	}
	m.objects[key] = payload
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *memoryStore) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make([]string, 0, len(m.objects))
	for k := range m.objects {
		res = append(res, k)
	}
	return res
}

func newTestArchiver(t *testing.T, store *memoryStore, retain int) *FeedArchiver {
	t.Helper()

	a := NewFeedArchiver(store, &cfg.MinIOCfg{UploadLimit: 2, RetainPerShop: retain}, logger.NewNop(), context.Background())
	at := time.Date(2024, 5, 17, 10, 0, 0, 0, time.UTC)
	a.now = func() time.Time {
		at = at.Add(time.Second)
		return at
	}
	return a
}

func TestFeedObjectKey(t *testing.T) {
	at := time.Date(2024, 5, 17, 13, 4, 5, 120, time.FixedZone("MSK", 3*3600))

	require.Equal(t, "shops/42/20240517T100405.000000120Z.json", FeedObjectKey(42, at))
}

func TestFeedArchiver_UploadsPayloadCopy(t *testing.T) {
	store := newMemoryStore()
	a := newTestArchiver(t, store, 5)

	payload := []byte(`[{"id":"1"}]`)
	key, err := a.Archive(context.Background(), 7, payload)
	require.NoError(t, err)
	payload[0] = 'X'

	require.NoError(t, a.Wait(context.Background()))
	require.Equal(t, "shops/7/20240517T100001.000000000Z.json", key)
	require.Equal(t, []byte(`[{"id":"1"}]`), store.objects[key])
}

func TestFeedArchiver_KeepsLastFeedsPerShop(t *testing.T) {
	store := newMemoryStore()
	a := newTestArchiver(t, store, 2)

	var keys []string
	for i := 0; i < 4; i++ {
		key, err := a.Archive(context.Background(), 1, []byte("[]"))
		require.NoError(t, err)
		keys = append(keys, key)
		// Загрузки по одной, чтобы порядок истории был детерминирован
		require.NoError(t, a.Wait(context.Background()))
	}
	other, err := a.Archive(context.Background(), 2, []byte("[]"))
	require.NoError(t, err)
	require.NoError(t, a.Wait(context.Background()))

	require.ElementsMatch(t, []string{keys[2], keys[3], other}, store.keys())
	require.ElementsMatch(t, []string{keys[0], keys[1]}, store.deleted)
}

func TestFeedArchiver_RetriesFailedUpload(t *testing.T) {
	store := newMemoryStore()
	store.putFails = 1
	a := newTestArchiver(t, store, 5)

	key, err := a.Archive(context.Background(), 3, []byte("[]"))
	require.NoError(t, err)
	require.NoError(t, a.Wait(context.Background()))

	require.Contains(t, store.keys(), key)
}

func TestFeedArchiver_RejectsAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := NewFeedArchiver(newMemoryStore(), &cfg.MinIOCfg{UploadLimit: 1, RetainPerShop: 1}, logger.NewNop(), ctx)
	cancel()

	_, err := a.Archive(context.Background(), 1, []byte("[]"))
	require.Error(t, err)
}

func TestFeedArchiver_LimitsUploadRate(t *testing.T) {
	store := newMemoryStore()
	a := NewFeedArchiver(store, &cfg.MinIOCfg{UploadLimit: 1, RetainPerShop: 5, UploadRPS: 20}, logger.NewNop(), context.Background())

	started := time.Now()
	for i := 0; i < 3; i++ {
		_, err := a.Archive(context.Background(), int64(i), []byte("[]"))
		require.NoError(t, err)
	}
	require.NoError(t, a.Wait(context.Background()))

	// Первая загрузка идёт сразу, следующие две ждут по 50мс
	require.GreaterOrEqual(t, time.Since(started), 90*time.Millisecond)
	require.Len(t, store.keys(), 3)
}
