package kafka

import (
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/rainfall-idf/internal/domain"
)

func TestMapMessageToRawEvent(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("key-1"),
		Value:     []byte(`{"file":"a.txt","unit_system":"metric"}`),
		Topic:     "idf-parse-requests",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("backfill")},
		},
	}

	raw := mapMessageToRawEvent(msg)

	assert.Equal(t, []byte("key-1"), raw.Key)
	assert.JSONEq(t, `{"file":"a.txt","unit_system":"metric"}`, string(raw.Value))
	assert.Equal(t, "idf-parse-requests", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "backfill", raw.Headers["source"])
	assert.Nil(t, raw.Commit)
}

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2025, 5, 14, 9, 30, 0, 0, time.UTC)
	event := domain.TableEvent{
		ID:          "imperial-0011223344556677",
		File:        "a.txt",
		UnitSystem:  domain.Imperial,
		Strategy:    domain.StrategyRows,
		Durations:   []int{5, 10},
		IDF:         domain.IDF{DepthsMM: domain.Grid{"2yr": {"5 min": 2.1}}, Intensities: domain.Grid{"2yr": {"5 min": 0.99}}},
		Units:       domain.UnitsFor(domain.Imperial),
		ProcessedAt: now,
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("imperial-0011223344556677"), msg.Key)
	assert.Contains(t, string(msg.Value), `"unit_system":"imperial"`)
	assert.Contains(t, string(msg.Value), `"depths_mm":{"2yr":{"5 min":2.1}}`)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "unit_system", msg.Headers[0].Key)
	assert.Equal(t, []byte("imperial"), msg.Headers[0].Value)
	assert.Equal(t, "strategy", msg.Headers[1].Key)
	assert.Equal(t, []byte("rows"), msg.Headers[1].Value)
	assert.Equal(t, "processed_at", msg.Headers[2].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[2].Value)
}
