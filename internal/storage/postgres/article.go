package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"blog_publisher/internal/domain"
)

type ArticleStore struct {
	db *sqlx.DB
}

func NewArticleStore(db *sqlx.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

func (s *ArticleStore) Insert(ctx context.Context, article *domain.Article) (int64, error) {
	query := `
		INSERT INTO articles (title, content, published_at, author_id, notified)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id`

	exec := GetExecutor(ctx, s.db)

	var id int64
	err := exec.QueryRowxContext(ctx, query,
		article.Title,
		article.Content,
		article.PublishedAt,
		article.AuthorID,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (s *ArticleStore) GetByID(ctx context.Context, id int64) (*domain.Article, error) {
	var article domain.Article
	query := `
		SELECT id, title, content, published_at, author_id, notified
		FROM articles
		WHERE id = $1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &article, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (s *ArticleStore) List(ctx context.Context) ([]domain.Article, error) {
	query := `
		SELECT id, title, content, published_at, author_id, notified
		FROM articles
		ORDER BY published_at DESC, id DESC`

	var articles []domain.Article
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &articles, query)
	return articles, err
}

// Latest returns the single most recently published article.
func (s *ArticleStore) Latest(ctx context.Context) (*domain.Article, error) {
	var article domain.Article
	query := `
		SELECT id, title, content, published_at, author_id, notified
		FROM articles
		ORDER BY published_at DESC, id DESC
		LIMIT 1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &article, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (s *ArticleStore) Update(ctx context.Context, article *domain.Article) error {
	query := `
		UPDATE articles
		SET title = $2, content = $3
		WHERE id = $1`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		article.ID,
		article.Title,
		article.Content,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *ArticleStore) Delete(ctx context.Context, id int64) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"DELETE FROM articles WHERE id = $1", id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkNotified flips the notified flag and reports whether this call flipped
// it. The WHERE guard makes the flip persist-once: a second invocation for the
// same article affects zero rows.
func (s *ArticleStore) MarkNotified(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE articles
		SET notified = TRUE
		WHERE id = $1 AND notified = FALSE`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
