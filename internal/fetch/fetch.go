package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/pfrederiksen/hypo-search/internal/document"
	"github.com/pfrederiksen/hypo-search/internal/logger"
)

const (
	UserAgent        = "hypo-search/1.0 (github.com/pfrederiksen/hypo-search)"
	DefaultTimeout   = 60 * time.Second
	DefaultCacheSize = 32
)

// Options configures a Client
type Options struct {
	Timeout   time.Duration
	UserAgent string
	CacheSize int // 0 disables caching
}

// DefaultOptions returns the options used by New
func DefaultOptions() Options {
	return Options{
		Timeout:   DefaultTimeout,
		UserAgent: UserAgent,
		CacheSize: DefaultCacheSize,
	}
}

// Client fetches and parses search responses
type Client struct {
	client    *http.Client
	userAgent string
	cache     *lru.Cache[string, *document.Document]
	group     singleflight.Group
}

// New creates a Client with default options
func New() *Client {
	c, _ := NewWithOptions(DefaultOptions())
	return c
}

// NewWithOptions creates a Client
func NewWithOptions(opts Options) (*Client, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = UserAgent
	}

	c := &Client{
		client:    &http.Client{Timeout: opts.Timeout},
		userAgent: opts.UserAgent,
	}

	if opts.CacheSize > 0 {
		cache, err := lru.New[string, *document.Document](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating cache: %w", err)
		}
		c.cache = cache
	}

	return c, nil
}

// Fetch retrieves url and parses the body as HTML or XML
func (c *Client) Fetch(ctx context.Context, url string) (*document.Document, error) {
	if c.cache != nil {
		if doc, ok := c.cache.Get(url); ok {
			logger.IncrCounter("fetch.cache_hit")
			logger.Debug("serving cached response", logger.Fields{"url": url})
			return doc, nil
		}
	}

	v, err, shared := c.group.Do(url, func() (any, error) {
		return c.fetch(ctx, url)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.IncrCounter("fetch.shared")
	}

	doc := v.(*document.Document)
	if c.cache != nil {
		c.cache.Add(url, doc)
	}
	return doc, nil
}

func (c *Client) fetch(ctx context.Context, url string) (*document.Document, error) {
	start := time.Now()
	defer func() {
		logger.RecordTiming("fetch.request", time.Since(start))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	logger.Info("fetching search results", logger.Fields{"url": url})
	logger.IncrCounter("fetch.request")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := document.Parse(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	logger.Debug("parsed response", logger.Fields{
		"url":   url,
		"kind":  string(doc.Kind),
		"lines": len(doc.Lines),
	})
	return doc, nil
}
