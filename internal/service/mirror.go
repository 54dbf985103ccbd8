package service

import (
	"context"
	"log/slog"
	"time"

	"blog_publisher/internal/domain"
)

type MirrorService struct {
	source Source
	news   NewsStore
	logger *slog.Logger
}

func NewMirrorService(source Source, news NewsStore, logger *slog.Logger) *MirrorService {
	return &MirrorService{
		source: source,
		news:   news,
		logger: logger.With("source", source.Name()),
	}
}

// Run performs one mirror pass: fetch the external page and store every item
// not yet present. A fetch failure yields an empty batch and is only logged;
// a single item's persistence failure is counted and skipped. Run never
// returns an error for either.
func (s *MirrorService) Run(ctx context.Context) (*domain.MirrorStats, error) {
	startTime := time.Now()
	stats := &domain.MirrorStats{}

	items, err := s.source.Fetch(ctx)
	if err != nil {
		s.logger.Warn("fetch failed, nothing to mirror", "error", err)
		stats.Duration = time.Since(startTime)
		return stats, nil
	}
	stats.Fetched = len(items)

	for i := range items {
		item := &items[i]

		created, err := s.news.CreateIfAbsent(ctx, item)
		if err != nil {
			stats.Failed++
			s.logger.Warn("failed to save news item", "url", item.URL, "error", err)
			continue
		}

		if created {
			stats.New++
		} else {
			stats.Skipped++
		}
	}

	stats.Duration = time.Since(startTime)

	s.logger.Info("mirror run completed",
		"fetched", stats.Fetched,
		"new", stats.New,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"duration", stats.Duration,
	)

	return stats, nil
}
