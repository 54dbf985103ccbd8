package service

import (
	"context"
	"log/slog"

	"blog_publisher/internal/domain"
)

type NewsService struct {
	news   NewsStore
	logger *slog.Logger
}

func NewNewsService(news NewsStore, logger *slog.Logger) *NewsService {
	return &NewsService{
		news:   news,
		logger: logger.With("service", "news"),
	}
}

func (s *NewsService) List(ctx context.Context) ([]domain.NewsItem, error) {
	return s.news.List(ctx)
}

// Create stores a news item, domain.ErrDuplicateURL when the URL is taken.
func (s *NewsService) Create(ctx context.Context, item *domain.NewsItem) error {
	created, err := s.news.CreateIfAbsent(ctx, item)
	if err != nil {
		return err
	}
	if !created {
		return domain.ErrDuplicateURL
	}
	return nil
}
