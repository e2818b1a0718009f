package marketplace

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pricelens/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Config holds the scraping surface for one marketplace. Selector strings are
// opaque here: they come straight from configuration and are handed to
// goquery untouched, so a site redesign is a config change, not a code change.
type Config struct {
	Name           string  // marketplace name, for logs
	BaseURL        string  // e.g. "https://www.goofish.com"
	SearchPath     string  // e.g. "/search"
	QueryParam     string  // e.g. "q"
	ResultSelector string  // CSS selector for result item titles
	PriceSelector  string  // CSS selector for listing price texts
	WaitSeconds    float64 // minimum delay between requests
	MaxResults     int     // cap on extracted nodes per page (0 = all)
}

// Client scrapes search result pages of one marketplace over plain HTTP.
// It implements both domain.CatalogSource (via the result selector) and
// domain.PriceSearcher (via the price selector).
type Client struct {
	httpClient  *http.Client
	cfg         Config
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a marketplace client. WaitSeconds is enforced through a
// rate limiter so back-to-back searches stay polite toward the site.
func NewClient(cfg Config) *Client {
	interval := time.Duration(cfg.WaitSeconds * float64(time.Second))
	if interval <= 0 {
		interval = time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cfg:         cfg,
		rateLimiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// SetDebug toggles per-request debug logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// FetchItems searches the marketplace for a keyword and returns the result
// item names found under the configured result selector, in page order.
func (c *Client) FetchItems(ctx context.Context, keyword string) ([]domain.CatalogItem, error) {
	doc, err := c.fetchSearchPage(ctx, keyword)
	if err != nil {
		return nil, err
	}

	names := extractTexts(doc, c.cfg.ResultSelector, c.cfg.MaxResults)
	if c.debug {
		log.Printf("[%s] Found %d result name(s) for %q", c.cfg.Name, len(names), keyword)
	}

	items := make([]domain.CatalogItem, 0, len(names))
	for _, name := range names {
		items = append(items, domain.CatalogItem{SourceName: name})
	}
	return items, nil
}

// SearchPrices searches the marketplace with a normalized query and returns
// the raw price texts found under the configured price selector, in page
// order. An empty slice means the search worked but matched nothing.
func (c *Client) SearchPrices(ctx context.Context, query string) ([]string, error) {
	doc, err := c.fetchSearchPage(ctx, query)
	if err != nil {
		return nil, err
	}

	prices := extractTexts(doc, c.cfg.PriceSelector, c.cfg.MaxResults)
	if c.debug {
		log.Printf("[%s] Found %d price text(s) for %q", c.cfg.Name, len(prices), query)
	}
	return prices, nil
}

// fetchSearchPage requests the search results page for a query and parses it.
// Transient failures are retried up to 3 times with backoff.
func (c *Client) fetchSearchPage(ctx context.Context, query string) (*goquery.Document, error) {
	reqURL, err := c.searchURL(query)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		// The limiter enforces the configured wait between page loads
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		doc, err := c.doRequest(ctx, reqURL)
		if err == nil {
			return doc, nil
		}

		log.Printf("[%s] Request error (attempt %d): %v", c.cfg.Name, attempt, err)
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(exponentialBackoff(attempt)):
		}
	}

	return nil, fmt.Errorf("%w: %v", domain.ErrCollaboratorFailure, lastErr)
}

// doRequest executes one GET of the search page and parses the HTML body
func (c *Client) doRequest(ctx context.Context, reqURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; PriceLens/1.0)")
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	return doc, nil
}

// searchURL builds the search results URL for a query
func (c *Client) searchURL(query string) (string, error) {
	base, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", c.cfg.BaseURL, err)
	}
	base.Path = c.cfg.SearchPath

	params := url.Values{}
	params.Add(c.cfg.QueryParam, query)
	base.RawQuery = params.Encode()

	return base.String(), nil
}

// exponentialBackoff returns the retry delay for an attempt: 500ms, 1s, 2s
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}
