package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/marketplace-sync/internal/domain"
)

const (
	CapabilityUpdateOrder                = "updateOrder"
	CapabilityUpdateOrderProductDiscount = "updateOrderProductDiscount"
)

type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// PermissionChecker — внешний слой прав доступа.
type PermissionChecker interface {
	Check(ctx context.Context, actor Actor, capability string) PermissionResult
}

// Localizer возвращает сообщение по ключу вида "orders.updateOrder.error".
type Localizer interface {
	Message(locale string, key string) string
}

// FeedArchive принимает сырой фид в архив и возвращает ключ, под которым он будет лежать.
type FeedArchive interface {
	Archive(ctx context.Context, shopID int64, payload []byte) (string, error)
}

// FeedObjectStore — объектное хранилище архива фидов.
type FeedObjectStore interface {
	Put(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
}

type EventEncoder interface {
	Encode(eventType domain.OutboxEventType, aggregateID int64, data map[string]any) ([]byte, error)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

type Metrics interface {
	ObserveSyncOutcome(outcome Outcome)
	ObserveSyncDuration(d time.Duration)
	ObserveOrderMutation(step MutationStep, success bool)
	ObserveCartRead(lines int, dropped int)
}

type nopMetrics struct{}

func (nopMetrics) ObserveSyncOutcome(Outcome) {}
func (nopMetrics) ObserveSyncDuration(time.Duration) {}
func (nopMetrics) ObserveOrderMutation(MutationStep, bool) {}
func (nopMetrics) ObserveCartRead(int, int) {}
