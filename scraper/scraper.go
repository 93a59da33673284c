package scraper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"guba-scraper/config"
	"guba-scraper/fetcher"
	"guba-scraper/models"
	"guba-scraper/parser"
)

// Separator joins extracted titles in the final result. A title that itself
// contains a full-width comma will not survive a round-trip split on this
// separator; known limitation.
const Separator = "，"

// ErrAllPagesFailed is returned when every listing page fetch failed
var ErrAllPagesFailed = errors.New("all pages failed")

// Scraper aggregates comment titles across the configured listing pages
type Scraper struct {
	cfg     *config.Config
	fetcher fetcher.Fetcher
	parser  *parser.Parser
}

// New creates a new Scraper using the given fetch backend
func New(cfg *config.Config, f fetcher.Fetcher) *Scraper {
	return &Scraper{
		cfg:     cfg,
		fetcher: f,
		parser:  parser.NewParser(),
	}
}

// Scrape validates rawCode, fetches the configured number of listing pages
// in order, and returns the extracted titles joined by Separator.
//
// A single page failing after retries does not abort the scrape when
// continue_on_page_error is set (the default): the page is logged and
// skipped so that one transient failure cannot deny the caller every other
// page's titles. Only when every page fails does the operation fail, with
// ErrAllPagesFailed. A result may legitimately be empty: pages were fetched
// but carried no titles.
func (s *Scraper) Scrape(ctx context.Context, rawCode string) (string, error) {
	code, err := models.ParseStockCode(rawCode)
	if err != nil {
		return "", err
	}

	log.Printf("Scraping comments for %s (Guba code %s)...\n", code, code.Number())

	var titles []string
	pagesFetched := 0

	for page := 1; page <= s.cfg.Scraper.Pages; page++ {
		if page > 1 {
			if err := s.politeDelay(ctx); err != nil {
				return "", err
			}
		}

		html, err := s.fetcher.FetchPage(ctx, code, page)
		if err != nil {
			if ctx.Err() != nil {
				return "", err
			}
			log.Printf("Warning: page %d failed: %v\n", page, err)
			if !s.cfg.Scraper.ContinueOnPageError {
				break
			}
			continue
		}
		pagesFetched++

		comments := s.parser.ExtractTitles(html, page)
		log.Printf("%s page %d: %d titles\n", code, page, len(comments))
		for _, c := range comments {
			titles = append(titles, c.Title)
		}
	}

	if pagesFetched == 0 {
		return "", fmt.Errorf("%w for %s", ErrAllPagesFailed, code)
	}

	log.Printf("Scraped %d titles for %s across %d pages\n", len(titles), code, pagesFetched)
	return strings.Join(titles, Separator), nil
}

// politeDelay pauses between page requests so the scrape does not hammer
// the site. The delay is jittered between the configured bounds and is
// abandoned immediately on context cancellation.
func (s *Scraper) politeDelay(ctx context.Context) error {
	min := time.Duration(s.cfg.Scraper.MinDelayMillis) * time.Millisecond
	max := time.Duration(s.cfg.Scraper.MaxDelayMillis) * time.Millisecond
	if max <= 0 {
		return nil
	}

	delay := min
	if max > min {
		delay += time.Duration(rand.Int63n(int64(max - min)))
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
