package hackernews

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"blog_publisher/internal/domain"
)

const SourceName = "Hacker News"

// Config holds Hacker News source configuration.
type Config struct {
	BaseURL        string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Source scrapes the Hacker News front page.
type Source struct {
	httpClient     *http.Client
	baseURL        string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Source {
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        cfg.BaseURL,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("source", "hackernews"),
	}
}

func (s *Source) Name() string {
	return SourceName
}

// Fetch downloads the front page and extracts the listed headlines.
func (s *Source) Fetch(ctx context.Context) ([]domain.NewsItem, error) {
	var doc *goquery.Document
	var err error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		doc, err = s.fetchPage(ctx)
		if err == nil {
			break
		}

		if attempt == s.maxAttempts {
			return nil, fmt.Errorf("after %d attempts: %w", s.maxAttempts, err)
		}

		backoff := s.calculateBackoff(attempt)
		s.logger.Warn("request failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return s.parse(doc), nil
}

func (s *Source) fetchPage(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", "BlogPublisher/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	return doc, nil
}

func (s *Source) calculateBackoff(attempt int) time.Duration {
	backoff := s.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > s.maxBackoff {
		backoff = s.maxBackoff
	}
	return backoff
}

// parse extracts the headline rows. Entries without a link are skipped.
func (s *Source) parse(doc *goquery.Document) []domain.NewsItem {
	var items []domain.NewsItem

	doc.Find(".titleline").Each(func(_ int, sel *goquery.Selection) {
		anchor := sel.Find("a").First()
		href, ok := anchor.Attr("href")
		if !ok || href == "" {
			return
		}

		title := strings.TrimSpace(sel.Text())
		if title == "" {
			return
		}

		items = append(items, domain.NewsItem{
			Title: title,
			URL:   href,
		})
	})

	s.logger.Debug("parsed front page", "items", len(items))

	return items
}
