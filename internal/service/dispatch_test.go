package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"blog_publisher/internal/domain"
	"blog_publisher/internal/service/mocks"
)

type DispatchServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	subscribers *mocks.MockSubscriberStore
	messenger   *mocks.MockMessenger

	service *DispatchService
}

func (s *DispatchServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.subscribers = mocks.NewMockSubscriberStore(s.ctrl)
	s.messenger = mocks.NewMockMessenger(s.ctrl)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s.service = NewDispatchService(s.subscribers, s.messenger, logger)
}

func (s *DispatchServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestDispatchServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DispatchServiceTestSuite))
}

func (s *DispatchServiceTestSuite) TestDispatch_AllSubscribers() {
	ctx := context.Background()
	event := &domain.PublishedEvent{ArticleID: 1, Title: "First", Content: "Hello"}

	s.subscribers.EXPECT().List(ctx).Return([]domain.Subscriber{
		{ChatID: 10},
		{ChatID: 20},
	}, nil)

	expected := "New article:\n\nFirst\n\nHello"
	s.messenger.EXPECT().Send(int64(10), expected).Return(nil)
	s.messenger.EXPECT().Send(int64(20), expected).Return(nil)

	stats := s.service.Dispatch(ctx, event)

	s.Equal(2, stats.Subscribers)
	s.Equal(2, stats.Sent)
	s.Equal(0, stats.Failed)
}

func (s *DispatchServiceTestSuite) TestDispatch_FailureDoesNotStopOthers() {
	ctx := context.Background()
	event := &domain.PublishedEvent{ArticleID: 1, Title: "First", Content: "Hello"}

	s.subscribers.EXPECT().List(ctx).Return([]domain.Subscriber{
		{ChatID: 10},
		{ChatID: 20},
		{ChatID: 30},
	}, nil)

	s.messenger.EXPECT().Send(int64(10), gomock.Any()).Return(nil)
	s.messenger.EXPECT().Send(int64(20), gomock.Any()).Return(errors.New("chat blocked"))
	s.messenger.EXPECT().Send(int64(30), gomock.Any()).Return(nil)

	stats := s.service.Dispatch(ctx, event)

	s.Equal(3, stats.Subscribers)
	s.Equal(2, stats.Sent)
	s.Equal(1, stats.Failed)
}

func (s *DispatchServiceTestSuite) TestDispatch_ListError() {
	ctx := context.Background()
	event := &domain.PublishedEvent{ArticleID: 1, Title: "First"}

	s.subscribers.EXPECT().List(ctx).Return(nil, errors.New("db down"))

	stats := s.service.Dispatch(ctx, event)

	s.Equal(0, stats.Subscribers)
	s.Equal(0, stats.Sent)
	s.Equal(0, stats.Failed)
}

func (s *DispatchServiceTestSuite) TestDispatch_NoSubscribers() {
	ctx := context.Background()
	event := &domain.PublishedEvent{ArticleID: 1, Title: "First"}

	s.subscribers.EXPECT().List(ctx).Return([]domain.Subscriber{}, nil)

	stats := s.service.Dispatch(ctx, event)

	s.Equal(0, stats.Subscribers)
	s.Equal(0, stats.Sent)
}
