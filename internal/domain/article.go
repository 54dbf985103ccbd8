package domain

import "time"

// Article is a blog article. Notified flips false->true at most once, right
// before subscriber notification is handed off.
type Article struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Content     string    `db:"content"`
	PublishedAt time.Time `db:"published_at"`
	AuthorID    int64     `db:"author_id"`
	Notified    bool      `db:"notified"`
}

// User is an API account. Staff users may edit and delete any article.
type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	IsStaff      bool      `db:"is_staff"`
	CreatedAt    time.Time `db:"created_at"`
}

// CanEdit reports whether the user may modify the article.
func (u *User) CanEdit(a *Article) bool {
	return u.ID == a.AuthorID || u.IsStaff
}

// Subscriber is a Telegram chat registered for new-article notifications.
// There is at most one row per chat ID.
type Subscriber struct {
	ChatID       int64     `db:"chat_id"`
	SubscribedAt time.Time `db:"subscribed_at"`
}

// NewsItem is a headline mirrored from the external news page, unique by URL.
type NewsItem struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	URL       string    `db:"url"`
	CreatedAt time.Time `db:"created_at"`
}
