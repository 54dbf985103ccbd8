package service

import (
	"context"
	"fmt"
	"log/slog"

	"blog_publisher/internal/domain"
)

type DispatchService struct {
	subscribers SubscriberStore
	messenger   Messenger
	logger      *slog.Logger
}

func NewDispatchService(subscribers SubscriberStore, messenger Messenger, logger *slog.Logger) *DispatchService {
	return &DispatchService{
		subscribers: subscribers,
		messenger:   messenger,
		logger:      logger.With("service", "dispatch"),
	}
}

// Dispatch sends the article announcement to every current subscriber.
// Deliveries are independent: a failure for one chat is logged and counted,
// and the remaining subscribers still get their attempt. Dispatch never
// returns an error to its caller; the caller must already have guaranteed
// this runs at most once per article.
func (s *DispatchService) Dispatch(ctx context.Context, event *domain.PublishedEvent) *domain.DispatchStats {
	stats := &domain.DispatchStats{}

	subscribers, err := s.subscribers.List(ctx)
	if err != nil {
		s.logger.Error("failed to load subscribers", "article_id", event.ArticleID, "error", err)
		return stats
	}
	stats.Subscribers = len(subscribers)

	text := formatAnnouncement(event)
	for _, sub := range subscribers {
		if err := s.messenger.Send(sub.ChatID, text); err != nil {
			stats.Failed++
			s.logger.Warn("failed to notify subscriber",
				"chat_id", sub.ChatID,
				"article_id", event.ArticleID,
				"error", err,
			)
			continue
		}
		stats.Sent++
	}

	s.logger.Info("dispatch completed",
		"article_id", event.ArticleID,
		"subscribers", stats.Subscribers,
		"sent", stats.Sent,
		"failed", stats.Failed,
	)

	return stats
}

func formatAnnouncement(event *domain.PublishedEvent) string {
	return fmt.Sprintf("New article:\n\n%s\n\n%s", event.Title, event.Content)
}
