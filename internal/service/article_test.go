package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"blog_publisher/internal/domain"
	"blog_publisher/internal/service/mocks"
)

type ArticleServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	articles  *mocks.MockArticleStore
	txManager *mocks.MockTransactionManager
	publisher *mocks.MockPublisher

	service *ArticleService
	logger  *slog.Logger
}

func (s *ArticleServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.articles = mocks.NewMockArticleStore(s.ctrl)
	s.txManager = mocks.NewMockTransactionManager(s.ctrl)
	s.publisher = mocks.NewMockPublisher(s.ctrl)

	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s.service = NewArticleService(s.articles, s.txManager, s.publisher, s.logger)
}

func (s *ArticleServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestArticleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ArticleServiceTestSuite))
}

func (s *ArticleServiceTestSuite) expectTransaction(ctx context.Context) {
	s.txManager.EXPECT().WithTransaction(ctx, gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	)
}

func (s *ArticleServiceTestSuite) TestCreate_PublishesEvent() {
	ctx := context.Background()

	s.expectTransaction(ctx)
	s.articles.EXPECT().Insert(ctx, gomock.Any()).Return(int64(100), nil)
	s.articles.EXPECT().MarkNotified(ctx, int64(100)).Return(true, nil)

	var published *domain.PublishedEvent
	s.publisher.EXPECT().Publish(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, event *domain.PublishedEvent) error {
			published = event
			return nil
		},
	)

	article, err := s.service.Create(ctx, 7, ArticleInput{Title: "First", Content: "Hello"})

	s.NoError(err)
	s.Equal(int64(100), article.ID)
	s.Equal(int64(7), article.AuthorID)
	s.True(article.Notified)

	s.Require().NotNil(published)
	s.Equal(int64(100), published.ArticleID)
	s.Equal("First", published.Title)
	s.Equal("Hello", published.Content)
	s.Equal(article.PublishedAt, published.PublishedAt)
}

func (s *ArticleServiceTestSuite) TestCreate_InsertError() {
	ctx := context.Background()

	s.expectTransaction(ctx)
	s.articles.EXPECT().Insert(ctx, gomock.Any()).Return(int64(0), errors.New("db down"))

	article, err := s.service.Create(ctx, 7, ArticleInput{Title: "First", Content: "Hello"})

	s.Error(err)
	s.Nil(article)
}

func (s *ArticleServiceTestSuite) TestNotifyPublished_SecondCallIsNoop() {
	ctx := context.Background()
	article := &domain.Article{
		ID:          100,
		Title:       "First",
		Content:     "Hello",
		PublishedAt: time.Now().UTC(),
	}

	s.articles.EXPECT().MarkNotified(ctx, int64(100)).Return(true, nil)
	s.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	s.service.NotifyPublished(ctx, article)
	s.True(article.Notified)

	// The flag on the struct short-circuits before the store is touched.
	s.service.NotifyPublished(ctx, article)
}

func (s *ArticleServiceTestSuite) TestNotifyPublished_FlagAlreadyPersisted() {
	ctx := context.Background()
	article := &domain.Article{ID: 100, Title: "First"}

	s.articles.EXPECT().MarkNotified(ctx, int64(100)).Return(false, nil)

	s.service.NotifyPublished(ctx, article)
}

func (s *ArticleServiceTestSuite) TestNotifyPublished_MarkError() {
	ctx := context.Background()
	article := &domain.Article{ID: 100, Title: "First"}

	s.articles.EXPECT().MarkNotified(ctx, int64(100)).Return(false, errors.New("db down"))

	s.service.NotifyPublished(ctx, article)
	s.False(article.Notified)
}

func (s *ArticleServiceTestSuite) TestNotifyPublished_PublishError() {
	ctx := context.Background()
	article := &domain.Article{ID: 100, Title: "First"}

	s.articles.EXPECT().MarkNotified(ctx, int64(100)).Return(true, nil)
	s.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(errors.New("broker down"))

	// The flag stays flipped even when the event is lost.
	s.service.NotifyPublished(ctx, article)
	s.True(article.Notified)
}

func (s *ArticleServiceTestSuite) TestCreate_PublisherNil() {
	ctx := context.Background()

	service := NewArticleService(s.articles, s.txManager, nil, s.logger)

	s.expectTransaction(ctx)
	s.articles.EXPECT().Insert(ctx, gomock.Any()).Return(int64(100), nil)
	s.articles.EXPECT().MarkNotified(ctx, int64(100)).Return(true, nil)

	article, err := service.Create(ctx, 7, ArticleInput{Title: "First", Content: "Hello"})

	s.NoError(err)
	s.True(article.Notified)
}

func (s *ArticleServiceTestSuite) TestUpdate_ByAuthor() {
	ctx := context.Background()
	user := &domain.User{ID: 7}

	s.expectTransaction(ctx)
	s.articles.EXPECT().GetByID(ctx, int64(100)).Return(&domain.Article{ID: 100, AuthorID: 7, Title: "Old"}, nil)
	s.articles.EXPECT().Update(ctx, gomock.Any()).Return(nil)

	updated, err := s.service.Update(ctx, user, 100, ArticleInput{Title: "New", Content: "Body"})

	s.NoError(err)
	s.Equal("New", updated.Title)
	s.Equal("Body", updated.Content)
}

func (s *ArticleServiceTestSuite) TestUpdate_ForbiddenForOtherUser() {
	ctx := context.Background()
	user := &domain.User{ID: 8}

	s.expectTransaction(ctx)
	s.articles.EXPECT().GetByID(ctx, int64(100)).Return(&domain.Article{ID: 100, AuthorID: 7}, nil)

	updated, err := s.service.Update(ctx, user, 100, ArticleInput{Title: "New", Content: "Body"})

	s.ErrorIs(err, domain.ErrForbidden)
	s.Nil(updated)
}

func (s *ArticleServiceTestSuite) TestUpdate_StaffMayEditAnyArticle() {
	ctx := context.Background()
	user := &domain.User{ID: 8, IsStaff: true}

	s.expectTransaction(ctx)
	s.articles.EXPECT().GetByID(ctx, int64(100)).Return(&domain.Article{ID: 100, AuthorID: 7}, nil)
	s.articles.EXPECT().Update(ctx, gomock.Any()).Return(nil)

	_, err := s.service.Update(ctx, user, 100, ArticleInput{Title: "New", Content: "Body"})

	s.NoError(err)
}

func (s *ArticleServiceTestSuite) TestDelete_ForbiddenForOtherUser() {
	ctx := context.Background()
	user := &domain.User{ID: 8}

	s.expectTransaction(ctx)
	s.articles.EXPECT().GetByID(ctx, int64(100)).Return(&domain.Article{ID: 100, AuthorID: 7}, nil)

	err := s.service.Delete(ctx, user, 100)

	s.ErrorIs(err, domain.ErrForbidden)
}

func (s *ArticleServiceTestSuite) TestDelete_ByAuthor() {
	ctx := context.Background()
	user := &domain.User{ID: 7}

	s.expectTransaction(ctx)
	s.articles.EXPECT().GetByID(ctx, int64(100)).Return(&domain.Article{ID: 100, AuthorID: 7}, nil)
	s.articles.EXPECT().Delete(ctx, int64(100)).Return(nil)

	err := s.service.Delete(ctx, user, 100)

	s.NoError(err)
}

func (s *ArticleServiceTestSuite) TestLatest_NotFound() {
	ctx := context.Background()

	s.articles.EXPECT().Latest(ctx).Return(nil, domain.ErrNotFound)

	article, err := s.service.Latest(ctx)

	s.ErrorIs(err, domain.ErrNotFound)
	s.Nil(article)
}
