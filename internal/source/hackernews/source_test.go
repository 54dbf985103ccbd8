package hackernews

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const frontPage = `<html><body><table>
<tr class="athing" id="1">
  <td class="title"><span class="titleline"><a href="https://example.com/story-one">Story One</a><span class="sitebit comhead"> (<a href="from?site=example.com"><span class="sitestr">example.com</span></a>)</span></span></td>
</tr>
<tr class="athing" id="2">
  <td class="title"><span class="titleline"><a href="item?id=2">Story Two</a></span></td>
</tr>
<tr class="athing" id="3">
  <td class="title"><span class="titleline"><a href=""></a></span></td>
</tr>
</table></body></html>`

type SourceTestSuite struct {
	suite.Suite
	logger *slog.Logger
}

func (s *SourceTestSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestSourceTestSuite(t *testing.T) {
	suite.Run(t, new(SourceTestSuite))
}

func (s *SourceTestSuite) newSource(baseURL string, maxAttempts int) *Source {
	return New(Config{
		BaseURL:        baseURL,
		Timeout:        5 * time.Second,
		MaxAttempts:    maxAttempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     10 * time.Millisecond,
	}, s.logger)
}

func (s *SourceTestSuite) TestFetch_ParsesHeadlines() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(frontPage))
	}))
	defer server.Close()

	items, err := s.newSource(server.URL, 1).Fetch(context.Background())

	s.NoError(err)
	s.Require().Len(items, 2)
	s.Equal("https://example.com/story-one", items[0].URL)
	s.Contains(items[0].Title, "Story One")
	s.Equal("item?id=2", items[1].URL)
	s.Equal("Story Two", items[1].Title)
}

func (s *SourceTestSuite) TestFetch_RetriesOnServerError() {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(frontPage))
	}))
	defer server.Close()

	items, err := s.newSource(server.URL, 3).Fetch(context.Background())

	s.NoError(err)
	s.Len(items, 2)
	s.Equal(int32(3), calls.Load())
}

func (s *SourceTestSuite) TestFetch_GivesUpAfterMaxAttempts() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	items, err := s.newSource(server.URL, 2).Fetch(context.Background())

	s.Error(err)
	s.Nil(items)
	s.Contains(err.Error(), "after 2 attempts")
}

func (s *SourceTestSuite) TestFetch_SetsUserAgent() {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Write([]byte(frontPage))
	}))
	defer server.Close()

	_, err := s.newSource(server.URL, 1).Fetch(context.Background())

	s.NoError(err)
	s.Equal("BlogPublisher/1.0", userAgent)
}
