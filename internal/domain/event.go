package domain

import "time"

// PublishedEvent is the queue message emitted once per newly created article,
// after the notified flag has been persisted.
type PublishedEvent struct {
	ArticleID   int64     `json:"article_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	PublishedAt time.Time `json:"published_at"`
}

// DispatchStats holds counters for one notification fan-out.
type DispatchStats struct {
	Subscribers int
	Sent        int
	Failed      int
}

// MirrorStats holds statistics about one mirror run.
type MirrorStats struct {
	Fetched  int
	New      int
	Skipped  int
	Failed   int
	Duration time.Duration
}
