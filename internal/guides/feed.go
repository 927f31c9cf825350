// Package guides imports saving-guide articles from editorial RSS and Atom feeds.
package guides

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"couponhub/internal/domain"
)

const summaryRunes = 300

// Source is one configured feed.
type Source struct {
	Name     string
	URL      string
	Category string
}

type Fetcher interface {
	Fetch(ctx context.Context, source Source) ([]domain.Article, error)
}

// RSSFetcher fetches feeds through a shared rate limiter and retries transient
// failures with exponential backoff.
type RSSFetcher struct {
	parser   *gofeed.Parser
	limiter  *rate.Limiter
	attempts int
	backoff  time.Duration
	now      func() time.Time
}

type Option func(*RSSFetcher)

// WithBackoff sets the delay before the second attempt; each further attempt doubles it.
func WithBackoff(d time.Duration) Option { return func(f *RSSFetcher) { f.backoff = d } }

func WithAttempts(n int) Option { return func(f *RSSFetcher) { f.attempts = max(n, 1) } }

// WithRate caps outbound requests per second, with the given burst.
func WithRate(perSecond float64, burst int) Option {
	return func(f *RSSFetcher) { f.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

func WithHTTPClient(c *http.Client) Option { return func(f *RSSFetcher) { f.parser.Client = c } }

func NewRSSFetcher(opts ...Option) *RSSFetcher {
	p := gofeed.NewParser()
	p.UserAgent = "couponhub/1.0"
	p.Client = &http.Client{Timeout: 30 * time.Second}
	f := &RSSFetcher{
		parser:   p,
		limiter:  rate.NewLimiter(rate.Limit(2), 4),
		attempts: 3,
		backoff:  500 * time.Millisecond,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *RSSFetcher) Fetch(ctx context.Context, source Source) ([]domain.Article, error) {
	feed, err := f.parse(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source.Name, err)
	}

	now := f.now().UTC()
	articles := make([]domain.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link == "" || strings.TrimSpace(item.Title) == "" {
			continue
		}
		pub := now
		if item.PublishedParsed != nil {
			pub = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			pub = *item.UpdatedParsed
		}

		desc := item.Description
		if desc == "" {
			desc = item.Content
		}

		articles = append(articles, domain.Article{
			ID:          ArticleID(item.Link),
			Title:       strings.TrimSpace(item.Title),
			Link:        item.Link,
			Summary:     truncate(stripHTML(desc), summaryRunes),
			Source:      source.Name,
			Category:    source.Category,
			PublishedAt: pub.UTC(),
			ImportedAt:  now,
		})
	}
	return articles, nil
}

func (f *RSSFetcher) parse(ctx context.Context, source Source) (*gofeed.Feed, error) {
	var lastErr error
	for attempt := 1; attempt <= f.attempts; attempt++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
		feed, err := f.parser.ParseURLWithContext(source.URL, ctx)
		if err == nil {
			return feed, nil
		}
		lastErr = err
		if !retryable(err) || attempt == f.attempts {
			break
		}
		delay := f.backoff << (attempt - 1)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, lastErr
}

// retryable treats 4xx responses other than 429 as permanent and everything else as
// transient. Malformed feeds are permanent too.
func retryable(err error) bool {
	var httpErr gofeed.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
	}
	if errors.Is(err, gofeed.ErrFeedTypeNotDetected) {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// ArticleID derives a stable id from the article link.
func ArticleID(link string) string {
	h := sha256.Sum256([]byte(link))
	return fmt.Sprintf("%x", h[:16])
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

type FetchResult struct {
	Articles []domain.Article
	Errors   []error
}

// FetchAll fetches every source, at most four at a time. One failing feed does not
// stop the others.
func FetchAll(ctx context.Context, f Fetcher, sources []Source) FetchResult {
	var (
		mu     sync.Mutex
		result FetchResult
		g      errgroup.Group
	)
	g.SetLimit(4)

	for _, src := range sources {
		g.Go(func() error {
			articles, err := f.Fetch(ctx, src)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, err)
				return nil
			}
			result.Articles = append(result.Articles, articles...)
			return nil
		})
	}

	_ = g.Wait()
	return result
}
