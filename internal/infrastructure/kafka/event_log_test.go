package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashflowgame/finance-service/internal/domain/event"
	"github.com/cashflowgame/finance-service/internal/infrastructure/kafka"
	pkgkafka "github.com/cashflowgame/finance-service/pkg/kafka"
	"github.com/cashflowgame/finance-service/pkg/testutil"
)

type mockPublisher struct {
	publishFunc func(ctx context.Context, topic string, messages ...pkgkafka.Message) error
	topic       string
	messages    []pkgkafka.Message
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, topic, messages...)
	}
	m.topic = topic
	m.messages = append(m.messages, messages...)
	return nil
}

func paidOff() event.DebtPaidOff {
	return event.NewDebtPaidOff("debt-1", testutil.TestSessionID, testutil.TestPlayerID1,
		decimal.NewFromInt(5000), decimal.RequireFromString("120.50"), testutil.TestNow)
}

func TestEventLogAppend(t *testing.T) {
	pub := &mockPublisher{}
	log := kafka.NewEventLog(pub, "finance.events", testutil.QuietLogger())

	evt := paidOff()
	require.NoError(t, log.Append(context.Background(), evt))

	assert.Equal(t, "finance.events", pub.topic)
	require.Len(t, pub.messages, 1)
	msg := pub.messages[0]
	assert.Equal(t, []byte("debt-1"), msg.Key)
	assert.Equal(t, event.TypeDebtPaidOff, msg.Headers["event_type"])
	assert.Equal(t, evt.EventID(), msg.Headers["event_id"])
	assert.Equal(t, testutil.TestSessionID, msg.Headers["session_id"])

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, float64(testutil.TestPlayerID1), body["player_id"])
}

func TestEventLogAppendNothing(t *testing.T) {
	pub := &mockPublisher{publishFunc: func(context.Context, string, ...pkgkafka.Message) error {
		t.Fatal("publish must not be called without events")
		return nil
	}}
	assert.NoError(t, kafka.NewEventLog(pub, "finance.events", nil).Append(context.Background()))
}

func TestEventLogAppendPublishError(t *testing.T) {
	pub := &mockPublisher{publishFunc: func(context.Context, string, ...pkgkafka.Message) error {
		return errors.New("broker unavailable")
	}}
	err := kafka.NewEventLog(pub, "finance.events", testutil.QuietLogger()).Append(context.Background(), paidOff())
	testutil.AssertErrorContains(t, err, "failed to publish events to topic finance.events")
}
