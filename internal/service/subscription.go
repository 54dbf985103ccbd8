package service

import (
	"context"
	"log/slog"
)

type SubscriptionService struct {
	subscribers SubscriberStore
	logger      *slog.Logger
}

func NewSubscriptionService(subscribers SubscriberStore, logger *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		subscribers: subscribers,
		logger:      logger.With("service", "subscription"),
	}
}

// Subscribe registers a chat for notifications and reports whether the chat
// was newly subscribed. Repeated calls for the same chat are no-ops.
func (s *SubscriptionService) Subscribe(ctx context.Context, chatID int64) (bool, error) {
	created, err := s.subscribers.CreateIfAbsent(ctx, chatID)
	if err != nil {
		return false, err
	}

	if created {
		s.logger.Info("new subscriber", "chat_id", chatID)
	}
	return created, nil
}
