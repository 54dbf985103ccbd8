package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"blog_publisher/internal/config"
	"blog_publisher/internal/domain"
)

// apiClient talks to the blog API over HTTP. The bot is a plain API consumer
// and never touches the record store directly.
type apiClient struct {
	httpClient   *http.Client
	baseURL      string
	subscription config.SubscriptionConfig
}

func newAPIClient(baseURL string, subscription config.SubscriptionConfig) *apiClient {
	return &apiClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:      strings.TrimRight(baseURL, "/"),
		subscription: subscription,
	}
}

type latestArticle struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	PublishedDate time.Time `json:"published_date"`
}

func (c *apiClient) LatestArticle(ctx context.Context) (*latestArticle, error) {
	url := c.baseURL + "/api/articles/latest/"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var article latestArticle
	if err := json.NewDecoder(resp.Body).Decode(&article); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &article, nil
}

// Subscribe registers the chat and reports whether the subscription is new.
func (c *apiClient) Subscribe(ctx context.Context, chatID int64) (bool, error) {
	url := c.baseURL + "/api/subscribe/"

	payload := map[string]any{"chat_id": chatID}
	if c.subscription.Enabled() {
		payload["username"] = c.subscription.Username
		payload["password"] = c.subscription.Password
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		return true, nil
	case http.StatusOK:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
}
