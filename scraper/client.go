package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Client fetches the sporttery match calculator feed.
type Client struct {
	httpClient *http.Client
	url        string
	userAgent  string
	logger     zerolog.Logger
}

func NewClient(feedURL, userAgent string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        feedURL,
		userAgent:  userAgent,
		logger:     logger.With().Str("component", "sporttery_client").Logger(),
	}
}

// FetchPool fetches one pool-code group and returns the flattened matches.
func (c *Client) FetchPool(ctx context.Context, poolCode string) ([]feedMatch, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return nil, fmt.Errorf("parse feed url: %w", err)
	}
	q := u.Query()
	q.Set("poolCode", poolCode)
	q.Set("channel", "c")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch pool %s: %w", poolCode, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch pool %s: unexpected status %d", poolCode, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("read pool %s: %w", poolCode, err)
	}
	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode pool %s: %w", poolCode, err)
	}
	matches, err := parsed.matches()
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", poolCode, err)
	}
	c.logger.Debug().Str("pool", poolCode).Int("matches", len(matches)).Msg("pool fetched")
	return matches, nil
}
