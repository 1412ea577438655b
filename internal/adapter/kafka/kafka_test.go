package kafka

import (
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georiskmod/risk-service/internal/domain"
	"github.com/georiskmod/risk-service/internal/risk"
)

func TestMapMessageToRawSubmission(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("key-1"),
		Value:     []byte(`{"location_name":"Erto"}`),
		Topic:     "factor-submissions",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("dashboard")},
		},
	}

	raw := mapMessageToRawSubmission(msg)

	assert.Equal(t, []byte("key-1"), raw.Key)
	assert.JSONEq(t, `{"location_name":"Erto"}`, string(raw.Value))
	assert.Equal(t, "factor-submissions", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "dashboard", raw.Headers["source"])
}

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	record := domain.RiskRecord{
		ID:         "landslide-abc123",
		HazardType: "landslide",
		Geo:        domain.Geo{Lat: 46.55, Lon: 12.14},
		Result: risk.Result{
			RScore:    0.42,
			RiskLevel: risk.LevelMedium,
		},
		ComputedAt: now,
	}

	msg, err := serializeToMessage(record)
	require.NoError(t, err)

	assert.Equal(t, []byte("landslide-abc123"), msg.Key)
	assert.Contains(t, string(msg.Value), `"risk_level":"medium"`)
	assert.Len(t, msg.Headers, 3)
	assert.Equal(t, "hazard_type", msg.Headers[0].Key)
	assert.Equal(t, []byte("landslide"), msg.Headers[0].Value)
	assert.Equal(t, "risk_level", msg.Headers[1].Key)
	assert.Equal(t, []byte("medium"), msg.Headers[1].Value)
	assert.Equal(t, "computed_at", msg.Headers[2].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[2].Value)
}
