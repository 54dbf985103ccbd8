package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"blog_publisher/internal/domain"
)

type ArticleStore interface {
	Insert(ctx context.Context, article *domain.Article) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Article, error)
	List(ctx context.Context) ([]domain.Article, error)
	Latest(ctx context.Context) (*domain.Article, error)
	Update(ctx context.Context, article *domain.Article) error
	Delete(ctx context.Context, id int64) error
	MarkNotified(ctx context.Context, id int64) (bool, error)
}

type SubscriberStore interface {
	CreateIfAbsent(ctx context.Context, chatID int64) (bool, error)
	List(ctx context.Context) ([]domain.Subscriber, error)
}

type NewsStore interface {
	CreateIfAbsent(ctx context.Context, item *domain.NewsItem) (bool, error)
	List(ctx context.Context) ([]domain.NewsItem, error)
}

type UserStore interface {
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.NewsItem, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, event *domain.PublishedEvent) error
	Close() error
}

// Messenger delivers one message to one chat over the bot transport.
type Messenger interface {
	Send(chatID int64, text string) error
}
