// Package news fetches cyber news through an RSS-to-JSON proxy, the
// same indirection the site uses to sidestep feeds without CORS
// headers.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

var (
	fetchAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cyberguard_news_fetch_attempts_total",
		Help: "The total number of fetch attempts against the RSS-to-JSON proxy",
	})

	fetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cyberguard_news_fetch_failures_total",
		Help: "The total number of failed news fetches after retries",
	})
)

// DefaultProxy is the public RSS-to-JSON conversion endpoint.
const DefaultProxy = "https://api.rss2json.com/v1/api.json?rss_url="

// DefaultLimit caps how many articles a fetch surfaces.
const DefaultLimit = 12

// Source names an upstream RSS feed.
type Source struct {
	Name   string
	RSSURL string
}

var DefaultSources = []Source{
	{Name: "hackernews", RSSURL: "https://hnrss.org/newest"},
	{Name: "wired-security", RSSURL: "https://www.wired.com/feed/category/security/latest/rss"},
}

// Item is a normalized news article.
type Item struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Author      string    `json:"author,omitempty"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
}

// proxyResponse mirrors the rss2json payload shape.
type proxyResponse struct {
	Status string      `json:"status"`
	Items  []proxyItem `json:"items"`
}

type proxyItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Author      string `json:"author"`
	PubDate     string `json:"pubDate"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Thumbnail   string `json:"thumbnail"`
	Enclosure   struct {
		Link string `json:"link"`
	} `json:"enclosure"`
}

// Fetcher retrieves and normalizes feed items. At most one fetch per
// fetcher is considered current: a later Fetch supersedes an earlier
// one, and a stale completion never overwrites a newer result.
type Fetcher struct {
	client *http.Client
	proxy  string
	limit  int

	mu         sync.Mutex
	generation uint64
	latest     []Item
}

type FetcherConfig struct {
	Proxy  string
	Limit  int
	Client *http.Client
}

func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.Proxy == "" {
		cfg.Proxy = DefaultProxy
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Fetcher{client: cfg.Client, proxy: cfg.Proxy, limit: cfg.Limit}
}

// Fetch retrieves the source through the proxy, retrying transient
// failures with exponential backoff.
func (f *Fetcher) Fetch(ctx context.Context, src Source) ([]Item, error) {
	f.mu.Lock()
	f.generation++
	gen := f.generation
	f.mu.Unlock()

	apiURL := f.proxy + url.QueryEscape(src.RSSURL)

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 250 * time.Millisecond
	policy.MaxInterval = 5 * time.Second
	policy.MaxElapsedTime = 30 * time.Second

	var payload proxyResponse
	operation := func() error {
		fetchAttempts.Inc()
		return f.fetchOnce(ctx, apiURL, &payload)
	}

	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		fetchFailures.Inc()
		log.WithFields(log.Fields{
			"source": src.Name,
			"error":  err,
		}).Error("News fetch failed")
		return nil, fmt.Errorf("fetch %s: %w", src.Name, err)
	}

	if payload.Status != "ok" {
		fetchFailures.Inc()
		return nil, fmt.Errorf("fetch %s: proxy status %q", src.Name, payload.Status)
	}

	items := normalize(payload.Items, f.limit)

	// Discard stale completions so the latest requested fetch wins.
	f.mu.Lock()
	if gen == f.generation {
		f.latest = items
	}
	f.mu.Unlock()

	log.WithFields(log.Fields{
		"source": src.Name,
		"count":  len(items),
	}).Info("Fetched news")

	return items, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, apiURL string, payload *proxyResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return backoff.Permanent(err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("proxy returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, payload); err != nil {
		return backoff.Permanent(fmt.Errorf("decode proxy response: %w", err))
	}
	return nil
}

// Latest returns the result of the most recent completed fetch that
// was still current when it finished.
func (f *Fetcher) Latest() []Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest
}

func normalize(items []proxyItem, limit int) []Item {
	trimmed := lo.Slice(items, 0, limit)
	return lo.Map(trimmed, func(item proxyItem, _ int) Item {
		return Item{
			Title:       item.Title,
			Link:        item.Link,
			Author:      item.Author,
			Description: describe(item),
			ImageURL:    imageURL(item),
			PublishedAt: parsePubDate(item.PubDate),
		}
	})
}

// describe strips markup from the item body and truncates it; sparse
// feeds fall back to a generic teaser.
func describe(item proxyItem) string {
	body := item.Content
	if body == "" {
		body = item.Description
	}
	text := strings.TrimSpace(StripHTML(body))
	if text == "" {
		return "Click to view the full article and discussion."
	}
	if runes := []rune(text); len(runes) > 200 {
		return string(runes[:200]) + "..."
	}
	return text
}

var imgSrcPattern = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["']`)

// imageURL picks the article image the way the site does: enclosure
// first, then thumbnail, then the first inline image in the body.
func imageURL(item proxyItem) string {
	if item.Enclosure.Link != "" {
		return item.Enclosure.Link
	}
	if item.Thumbnail != "" {
		return item.Thumbnail
	}
	if m := imgSrcPattern.FindStringSubmatch(item.Description); m != nil {
		return m[1]
	}
	return ""
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes tags and decodes entities from feed markup.
func StripHTML(s string) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(s, ""))
}

func parsePubDate(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, time.RFC1123Z, time.RFC1123} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
