package events

import (
	"testing"
	"time"

	"github.com/DRSN-tech/marketplace-sync/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestProtoEncoder_Envelope(t *testing.T) {
	enc := NewProtoEncoder()
	enc.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	payload, err := enc.Encode(domain.EventOrderUpdated, 77, map[string]any{
		"orderId":    int64(77),
		"totalPrice": int64(64000),
		"variant":    "update",
	})
	require.NoError(t, err)

	envelope, err := Decode(payload)
	require.NoError(t, err)

	fields := envelope.GetFields()
	require.Equal(t, "order.updated", fields["eventType"].GetStringValue())
	require.Equal(t, float64(77), fields["aggregateId"].GetNumberValue())
	require.Equal(t, "2024-01-02T03:04:05Z", fields["occurredAt"].GetStringValue())
	require.NotEmpty(t, fields["eventId"].GetStringValue())

	data := fields["data"].GetStructValue().AsMap()
	require.Equal(t, float64(64000), data["totalPrice"])
	require.Equal(t, "update", data["variant"])
}

func TestProtoEncoder_UnsupportedValue(t *testing.T) {
	_, err := NewProtoEncoder().Encode(domain.EventShopSynced, 1, map[string]any{"ch": make(chan int)})
	require.Error(t, err)
}
