//go:build integration

package notifier

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"

	"blog_publisher/internal/domain"
	"blog_publisher/internal/publisher"
)

type ConsumerIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *rabbitmq.RabbitMQContainer
	amqpURL   string
	logger    *slog.Logger
}

func (s *ConsumerIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	container, err := rabbitmq.Run(s.ctx,
		"rabbitmq:3.13-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete").
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	amqpURL, err := container.AmqpURL(s.ctx)
	s.Require().NoError(err)
	s.amqpURL = amqpURL
}

func (s *ConsumerIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func TestConsumerIntegrationSuite(t *testing.T) {
	suite.Run(t, new(ConsumerIntegrationSuite))
}

type capturingDispatcher struct {
	events chan *domain.PublishedEvent
}

func (d *capturingDispatcher) Dispatch(_ context.Context, event *domain.PublishedEvent) *domain.DispatchStats {
	d.events <- event
	return &domain.DispatchStats{}
}

func (s *ConsumerIntegrationSuite) TestPublishToDispatchRoundtrip() {
	cfg := publisher.Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-roundtrip",
		RoutingKey: "test-routing-key-roundtrip",
		QueueName:  "test-queue-roundtrip",
	}

	dispatcher := &capturingDispatcher{events: make(chan *domain.PublishedEvent, 1)}

	consumer, err := NewConsumer(cfg, dispatcher, s.logger)
	s.Require().NoError(err)
	defer consumer.Close()

	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	go consumer.Run(runCtx)

	pub, err := publisher.NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	err = pub.Publish(s.ctx, &domain.PublishedEvent{
		ArticleID: 100,
		Title:     "First",
		Content:   "Hello",
	})
	s.Require().NoError(err)

	select {
	case event := <-dispatcher.events:
		s.Equal(int64(100), event.ArticleID)
		s.Equal("First", event.Title)
		s.Equal("Hello", event.Content)
	case <-time.After(5 * time.Second):
		s.Fail("Timeout waiting for dispatch")
	}
}
