//go:build integration

package consumer_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"searchbridge/internal/platform/kafka/admin"
	"searchbridge/internal/platform/kafka/consumer"
	"searchbridge/internal/platform/kafka/producer"
	"searchbridge/pkg/testutil/containers"
)

type collector struct {
	mu   sync.Mutex
	msgs []*consumer.Message
}

func (c *collector) Handle(_ context.Context, msg *consumer.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *collector) received() []*consumer.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*consumer.Message(nil), c.msgs...)
}

type KafkaSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
	logger   *slog.Logger
}

func TestKafkaSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaSuite))
}

func (s *KafkaSuite) SetupSuite() {
	s.redpanda = containers.GetManager().GetRedpanda(s.T())
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *KafkaSuite) TestPublishedRecordReachesHandler() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	topic := "it." + uuid.NewString()
	s.Require().NoError(admin.EnsureTopics(ctx, s.redpanda.Brokers, 1, 1, s.logger, topic))
	// second call must tolerate the existing topic
	s.Require().NoError(admin.EnsureTopics(ctx, s.redpanda.Brokers, 1, 1, s.logger, topic))

	p, err := producer.New(s.redpanda.Brokers)
	s.Require().NoError(err)
	defer p.Close()
	s.Require().NoError(p.Publish(ctx, topic, []byte("SR-1"), []byte(`{"searchRequestKey":"SR-1"}`),
		map[string]string{"request_id": "req-1"}))

	handler := &collector{}
	c, err := consumer.New(consumer.Config{
		Brokers: s.redpanda.Brokers,
		Group:   "it-" + uuid.NewString(),
		Topics:  []string{topic},
	}, handler, s.logger)
	s.Require().NoError(err)

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- c.Run(runCtx) }()

	s.Eventually(func() bool { return len(handler.received()) == 1 }, 20*time.Second, 100*time.Millisecond)
	stop()
	s.NoError(<-done)
	c.Close()

	msg := handler.received()[0]
	s.Equal(topic, msg.Topic)
	s.Equal("SR-1", string(msg.Key))
	s.Equal("req-1", msg.Headers["request_id"])
}
