package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/marketplace-sync/internal/domain"
	"github.com/DRSN-tech/marketplace-sync/internal/usecase"
	"github.com/DRSN-tech/marketplace-sync/pkg/logger"
	"github.com/stretchr/testify/require"
)

type queueRepo struct {
	mu        sync.Mutex
	events    []*domain.OutboxEvent
	processed []int64
	returned  []int64
}

func (q *queueRepo) Create(_ context.Context, event *domain.OutboxEvent) (*domain.OutboxEvent, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	event.ID = int64(len(q.events) + 1)
	q.events = append(q.events, event)
	return event, nil
}

func (q *queueRepo) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*domain.OutboxEvent, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var res []*domain.OutboxEvent
	for _, ev := range q.events {
		if ev.Status != domain.Pending {
			continue
		}
		ev.Status = domain.Processing
		res = append(res, ev)
		if len(res) == limit {
			break
		}
	}
	return res, nil
}

func (q *queueRepo) MarkAsProcessed(_ context.Context, id int64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events[id-1].Status = domain.Processed
	q.processed = append(q.processed, id)
	return nil
}

func (q *queueRepo) ReturnToPending(_ context.Context, id int64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events[id-1].Status = domain.Pending
	q.returned = append(q.returned, id)
	return nil
}

type recordingProducer struct {
	keys   []int64
	failOn map[int64]error
}

func (p *recordingProducer) WriteRawMessage(_ context.Context, req *usecase.WriteRawMessageReq) error {
	if err := p.failOn[req.Key]; err != nil {
		return err
	}
	p.keys = append(p.keys, req.Key)
	return nil
}

func enqueue(t *testing.T, repo *queueRepo, aggregateIDs ...int64) {
	t.Helper()
	for _, id := range aggregateIDs {
		_, err := repo.Create(context.Background(), domain.NewOutboxEvent(domain.EventOrderUpdated, id, []byte("{}"), time.Now()))
		require.NoError(t, err)
	}
}

func TestOutboxWorker_DrainPublishesInOrder(t *testing.T) {
	repo := &queueRepo{}
	producer := &recordingProducer{}
	enqueue(t, repo, 11, 12, 13, 14, 15)

	w := NewOutboxWorker(repo, logger.NewNop(), producer, "", 2)
	w.drain(context.Background())

	require.Equal(t, []int64{11, 12, 13, 14, 15}, producer.keys)
	require.Equal(t, []int64{1, 2, 3, 4, 5}, repo.processed)
	for _, ev := range repo.events {
		require.Equal(t, domain.Processed, ev.Status)
	}
}

func TestOutboxWorker_FailedEventReturnedToPending(t *testing.T) {
	repo := &queueRepo{}
	producer := &recordingProducer{failOn: map[int64]error{12: errors.New("dial tcp: connection refused")}}
	enqueue(t, repo, 11, 12)

	w := NewOutboxWorker(repo, logger.NewNop(), producer, "", 10)
	hasMore, err := w.processBatch(context.Background())
	require.NoError(t, err)
	require.False(t, hasMore)

	require.Equal(t, []int64{11}, producer.keys)
	require.Equal(t, []int64{2}, repo.returned)
	require.Equal(t, domain.Pending, repo.events[1].Status)
}

func TestOutboxWorker_AllFailedStopsDrain(t *testing.T) {
	repo := &queueRepo{}
	producer := &recordingProducer{failOn: map[int64]error{1: errors.New("boom"), 2: errors.New("boom")}}
	enqueue(t, repo, 1, 2)

	w := NewOutboxWorker(repo, logger.NewNop(), producer, "", 2)
	w.drain(context.Background())

	require.Empty(t, producer.keys)
	require.Len(t, repo.returned, 2)
}

func TestIsRetryableError(t *testing.T) {
	require.True(t, isRetryableError(errors.New("read tcp: i/o timeout")))
	require.True(t, isRetryableError(errors.New("Broker Not Available")))
	require.False(t, isRetryableError(errors.New("message too large")))
	require.False(t, isRetryableError(nil))
}
