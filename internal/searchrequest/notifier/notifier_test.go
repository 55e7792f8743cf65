package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchbridge/pkg/platform/circuit"
	"searchbridge/pkg/requestcontext"
)

type recordingPublisher struct {
	err     error
	calls   int
	topic   string
	key     []byte
	value   []byte
	headers map[string]string
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, key, value []byte, headers map[string]string) error {
	p.calls++
	p.topic, p.key, p.value, p.headers = topic, key, value, headers
	return p.err
}

func TestNewKafka_RequiresPublisherAndTopic(t *testing.T) {
	_, err := NewKafka(nil, "t")
	require.Error(t, err)

	_, err = NewKafka(&recordingPublisher{}, "")
	require.Error(t, err)
}

func TestKafkaNotifier_PublishesEnvelope(t *testing.T) {
	pub := &recordingPublisher{}
	n, err := NewKafka(pub, "search-request.notifications")
	require.NoError(t, err)

	ctx := requestcontext.WithRequestID(context.Background(), "req-1")
	require.NoError(t, n.Notify(ctx, "SR-1", map[string]string{"a": "b"}, "Ordered"))

	assert.Equal(t, "search-request.notifications", pub.topic)
	assert.Equal(t, "SR-1", string(pub.key))
	assert.Equal(t, "Ordered", pub.headers["event"])

	var env Envelope
	require.NoError(t, json.Unmarshal(pub.value, &env))
	assert.Equal(t, "SR-1", env.SearchRequestKey)
	assert.Equal(t, "Ordered", env.EventName)
	assert.Equal(t, "req-1", env.RequestID)
}

func TestKafkaNotifier_BreakerOpensAfterFailures(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	n, err := NewKafka(pub, "t", WithBreaker(circuit.New("test", circuit.WithFailureThreshold(2))))
	require.NoError(t, err)

	assert.Error(t, n.Notify(context.Background(), "SR-1", nil, "Ordered"))
	assert.Error(t, n.Notify(context.Background(), "SR-1", nil, "Ordered"))
	assert.ErrorIs(t, n.Notify(context.Background(), "SR-1", nil, "Ordered"), ErrCircuitOpen)
	assert.Equal(t, 2, pub.calls)
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Notify(context.Background(), "SR-1", nil, "Ordered"))
}
