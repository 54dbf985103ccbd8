package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"blog_publisher/internal/domain"
)

type SubscriberStore struct {
	db *sqlx.DB
}

func NewSubscriberStore(db *sqlx.DB) *SubscriberStore {
	return &SubscriberStore{db: db}
}

// CreateIfAbsent registers a chat ID and reports whether a new row was
// created. Registration is idempotent on chat_id.
func (s *SubscriberStore) CreateIfAbsent(ctx context.Context, chatID int64) (bool, error) {
	query := `
		INSERT INTO subscribers (chat_id, subscribed_at)
		VALUES ($1, $2)
		ON CONFLICT (chat_id) DO NOTHING`

	res, err := s.db.ExecContext(ctx, query, chatID, time.Now().UTC())
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (s *SubscriberStore) List(ctx context.Context) ([]domain.Subscriber, error) {
	query := `
		SELECT chat_id, subscribed_at
		FROM subscribers
		ORDER BY subscribed_at`

	var subscribers []domain.Subscriber
	err := s.db.SelectContext(ctx, &subscribers, query)
	return subscribers, err
}
