// Package events сериализует доменные события outbox в protobuf.
package events

import (
	"time"

	"github.com/DRSN-tech/marketplace-sync/internal/domain"
	"github.com/DRSN-tech/marketplace-sync/pkg/e"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProtoEncoder упаковывает событие в конверт google.protobuf.Struct:
// eventId, eventType, aggregateId, occurredAt и data.
type ProtoEncoder struct {
	now func() time.Time
}

func NewProtoEncoder() *ProtoEncoder {
	return &ProtoEncoder{now: time.Now}
}

func (p *ProtoEncoder) Encode(eventType domain.OutboxEventType, aggregateID int64, data map[string]any) ([]byte, error) {
	body, err := structpb.NewStruct(data)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	envelope := &structpb.Struct{Fields: map[string]*structpb.Value{
		"eventId":     structpb.NewStringValue(uuid.NewString()),
		"eventType":   structpb.NewStringValue(string(eventType)),
		"aggregateId": structpb.NewNumberValue(float64(aggregateID)),
		"occurredAt":  structpb.NewStringValue(p.now().UTC().Format(time.RFC3339Nano)),
		"data":        structpb.NewStructValue(body),
	}}

	payload, err := proto.Marshal(envelope)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return payload, nil
}

// Decode разбирает конверт обратно. Используется потребителями и в тестах.
func Decode(payload []byte) (*structpb.Struct, error) {
	var envelope structpb.Struct
	if err := proto.Unmarshal(payload, &envelope); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &envelope, nil
}
