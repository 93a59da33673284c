package fetcher

import (
	"context"
	"fmt"
	"time"

	"guba-scraper/config"
	"guba-scraper/models"

	"github.com/gocolly/colly/v2"
)

// CollyFetcher implements the Fetcher interface using colly. Retries reuse
// a clone of the base collector so that colly's visited-URL cache never
// swallows an attempt.
type CollyFetcher struct {
	collector *colly.Collector
	cfg       *config.Config
}

// NewCollyFetcher creates a new CollyFetcher instance
func NewCollyFetcher(cfg *config.Config) *CollyFetcher {
	c := colly.NewCollector(
		colly.UserAgent(cfg.Scraper.UserAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(cfg.Timeout())

	// Keep requests to Eastmoney serialized and spaced out
	c.Limit(&colly.LimitRule{
		DomainGlob:  "*eastmoney*",
		Parallelism: 1,
		Delay:       time.Duration(cfg.Scraper.MinDelayMillis) * time.Millisecond,
	})

	return &CollyFetcher{
		collector: c,
		cfg:       cfg,
	}
}

// FetchPage implements the Fetcher interface
func (cf *CollyFetcher) FetchPage(ctx context.Context, code models.StockCode, page int) (string, error) {
	url := ListURL(cf.cfg.Scraper.ListURLFormat, code, page)

	var lastErr error
	lastStatus := 0

	for attempt := 0; attempt <= cf.cfg.Scraper.Retries; attempt++ {
		if ctx.Err() != nil {
			return "", &FetchError{Page: page, URL: url, Err: ctx.Err()}
		}

		body, status, err := cf.visit(url)
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

// visit performs a single page download on a fresh collector clone.
// Clone copies the collector configuration but not the callbacks.
func (cf *CollyFetcher) visit(url string) (string, int, error) {
	c := cf.collector.Clone()

	var body string
	var fetched bool
	var failStatus int
	var failErr error

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", acceptHeader)
		r.Headers.Set("Accept-Language", cf.cfg.Scraper.AcceptLanguage)
		r.Headers.Set("Referer", cf.cfg.Scraper.Referer)
	})
	c.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
		fetched = true
	})
	c.OnError(func(r *colly.Response, err error) {
		failErr = err
		if r != nil {
			failStatus = r.StatusCode
		}
	})

	if err := c.Visit(url); err != nil && failErr == nil {
		failErr = err
	}
	c.Wait()

	if !fetched {
		if failErr == nil {
			failErr = fmt.Errorf("no response received")
		}
		return "", failStatus, failErr
	}
	return body, 0, nil
}
