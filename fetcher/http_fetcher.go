package fetcher

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	"guba-scraper/config"
	"guba-scraper/models"
)

// acceptHeader mirrors what a desktop browser sends for page navigations.
// Guba serves a stripped-down page to clients that look like bots.
const acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7"

// HTTPFetcher fetches listing pages with net/http, retrying transient
// failures (network errors, timeouts, 5xx responses) a bounded number of
// times.
type HTTPFetcher struct {
	client *http.Client
	cfg    *config.Config
}

// NewHTTPFetcher creates a new HTTPFetcher instance
func NewHTTPFetcher(cfg *config.Config) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: cfg.Timeout()},
		cfg:    cfg,
	}
}

// FetchPage implements the Fetcher interface
func (hf *HTTPFetcher) FetchPage(ctx context.Context, code models.StockCode, page int) (string, error) {
	url := ListURL(hf.cfg.Scraper.ListURLFormat, code, page)

	var lastErr error
	lastStatus := 0

	for attempt := 0; attempt <= hf.cfg.Scraper.Retries; attempt++ {
		if ctx.Err() != nil {
			return "", &FetchError{Page: page, URL: url, Err: ctx.Err()}
		}
		if attempt > 0 {
			log.Printf("Retrying page %d (attempt %d/%d): %v\n", page, attempt+1, hf.cfg.Scraper.Retries+1, lastErr)
		}

		body, status, err := hf.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr, lastStatus = err, status

		if !transient(status) {
			break
		}
	}

	return "", &FetchError{Page: page, URL: url, Status: lastStatus, Err: lastErr}
}

func (hf *HTTPFetcher) fetchOnce(ctx context.Context, url string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", hf.cfg.Scraper.UserAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", hf.cfg.Scraper.AcceptLanguage)
	req.Header.Set("Referer", hf.cfg.Scraper.Referer)

	resp, err := hf.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return "", resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), resp.StatusCode, nil
}

// transient reports whether a failed attempt is worth retrying.
// Status 0 means the request never completed (connection refused, timeout).
// 4xx responses will not get better on retry.
func transient(status int) bool {
	return status == 0 || status >= 500
}
