package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"blog_publisher/internal/domain"
)

type ArticleInput struct {
	Title   string
	Content string
}

type ArticleService struct {
	articles  ArticleStore
	txManager TransactionManager
	publisher Publisher
	logger    *slog.Logger
}

func NewArticleService(
	articles ArticleStore,
	txManager TransactionManager,
	publisher Publisher,
	logger *slog.Logger,
) *ArticleService {
	return &ArticleService{
		articles:  articles,
		txManager: txManager,
		publisher: publisher,
		logger:    logger.With("service", "articles"),
	}
}

// Create persists a new article for the author, then hands it to the
// notification path. The article write succeeds or fails independently of
// anything downstream.
func (s *ArticleService) Create(ctx context.Context, authorID int64, in ArticleInput) (*domain.Article, error) {
	article := &domain.Article{
		Title:       in.Title,
		Content:     in.Content,
		PublishedAt: time.Now().UTC(),
		AuthorID:    authorID,
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		id, err := s.articles.Insert(txCtx, article)
		if err != nil {
			return fmt.Errorf("insert article: %w", err)
		}
		article.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.NotifyPublished(ctx, article)

	return article, nil
}

// NotifyPublished is the post-commit publish hook. It flips the persisted
// notified flag and, only when this call performed the flip, emits a
// PublishedEvent. The flag is persisted before the event goes out, so a crash
// or a repeated invocation for the same article can never cause a second
// fan-out. All failures here are logged, never returned: a lost notification
// is preferred over a failed or duplicated publish.
func (s *ArticleService) NotifyPublished(ctx context.Context, article *domain.Article) {
	if article.ID == 0 || article.Notified {
		return
	}

	flipped, err := s.articles.MarkNotified(ctx, article.ID)
	if err != nil {
		s.logger.Error("failed to mark article notified", "article_id", article.ID, "error", err)
		return
	}
	if !flipped {
		s.logger.Debug("article already notified", "article_id", article.ID)
		return
	}
	article.Notified = true

	if s.publisher == nil {
		return
	}

	event := &domain.PublishedEvent{
		ArticleID:   article.ID,
		Title:       article.Title,
		Content:     article.Content,
		PublishedAt: article.PublishedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish article event", "article_id", article.ID, "error", err)
		return
	}

	s.logger.Info("article published", "article_id", article.ID, "title", article.Title)
}

func (s *ArticleService) List(ctx context.Context) ([]domain.Article, error) {
	return s.articles.List(ctx)
}

func (s *ArticleService) Get(ctx context.Context, id int64) (*domain.Article, error) {
	return s.articles.GetByID(ctx, id)
}

// Latest returns the most recently published article, domain.ErrNotFound when
// no articles exist.
func (s *ArticleService) Latest(ctx context.Context) (*domain.Article, error) {
	return s.articles.Latest(ctx)
}

// Update modifies title and content. Only the author or staff may update, and
// the check runs against the persisted article inside one transaction.
func (s *ArticleService) Update(ctx context.Context, user *domain.User, id int64, in ArticleInput) (*domain.Article, error) {
	var updated *domain.Article

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		article, err := s.articles.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !user.CanEdit(article) {
			return domain.ErrForbidden
		}

		article.Title = in.Title
		article.Content = in.Content
		if err := s.articles.Update(txCtx, article); err != nil {
			return fmt.Errorf("update article: %w", err)
		}

		updated = article
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes an article under the same author-or-staff rule as Update.
func (s *ArticleService) Delete(ctx context.Context, user *domain.User, id int64) error {
	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		article, err := s.articles.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !user.CanEdit(article) {
			return domain.ErrForbidden
		}
		return s.articles.Delete(txCtx, article.ID)
	})
}
