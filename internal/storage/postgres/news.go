package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"blog_publisher/internal/domain"
)

type NewsStore struct {
	db *sqlx.DB
}

func NewNewsStore(db *sqlx.DB) *NewsStore {
	return &NewsStore{db: db}
}

// CreateIfAbsent stores a news item unless one with the same URL exists, and
// reports whether a new row was created.
func (s *NewsStore) CreateIfAbsent(ctx context.Context, item *domain.NewsItem) (bool, error) {
	query := `
		INSERT INTO news_items (title, url, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (url) DO NOTHING
		RETURNING id`

	err := s.db.QueryRowxContext(ctx, query,
		item.Title,
		item.URL,
		time.Now().UTC(),
	).Scan(&item.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *NewsStore) List(ctx context.Context) ([]domain.NewsItem, error) {
	query := `
		SELECT id, title, url, created_at
		FROM news_items
		ORDER BY id`

	var items []domain.NewsItem
	err := s.db.SelectContext(ctx, &items, query)
	return items, err
}
