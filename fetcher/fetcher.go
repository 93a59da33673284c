package fetcher

import (
	"context"
	"fmt"

	"guba-scraper/models"
)

// Fetcher interface defines the contract for fetching implementations
type Fetcher interface {
	// FetchPage retrieves the raw HTML of one Guba listing page for the
	// given stock code. page is 1-based.
	FetchPage(ctx context.Context, code models.StockCode, page int) (string, error)
}

// ListURL builds the listing page URL for a stock code and page index
func ListURL(format string, code models.StockCode, page int) string {
	return fmt.Sprintf(format, code.Number(), page)
}

// FetchError reports a page fetch that failed after all retries were
// exhausted.
type FetchError struct {
	Page   int
	URL    string
	Status int // last HTTP status, 0 when no response was received
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetching page %d (%s) failed with status %d: %v", e.Page, e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("fetching page %d (%s) failed: %v", e.Page, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
