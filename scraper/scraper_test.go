package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"guba-scraper/config"
	"guba-scraper/fetcher"
	"guba-scraper/models"
)

// stubFetcher serves canned HTML per page and records every call
type stubFetcher struct {
	pages map[int]string
	fail  map[int]bool
	calls []int
}

func (f *stubFetcher) FetchPage(ctx context.Context, code models.StockCode, page int) (string, error) {
	f.calls = append(f.calls, page)
	if f.fail[page] {
		return "", &fetcher.FetchError{
			Page: page,
			URL:  fmt.Sprintf("stub://list,%s_%d", code.Number(), page),
			Err:  errors.New("connection refused"),
		}
	}
	return f.pages[page], nil
}

func listingHTML(titles ...string) string {
	var sb strings.Builder
	sb.WriteString("<html><body><table>")
	for _, title := range titles {
		sb.WriteString(`<tr class="listitem"><td><div class="title"><a href="#">`)
		sb.WriteString(title)
		sb.WriteString(`</a></div></td></tr>`)
	}
	sb.WriteString("</table></body></html>")
	return sb.String()
}

func testConfig() *config.Config {
	cfg := config.GetDefaultConfig()
	cfg.Scraper.MinDelayMillis = 0
	cfg.Scraper.MaxDelayMillis = 0
	return cfg
}

func TestScrapeJoinsTitlesInPageOrder(t *testing.T) {
	stub := &stubFetcher{pages: map[int]string{
		1: listingHTML("一页甲", "一页乙"),
		2: listingHTML("二页甲"),
		3: listingHTML(),
		4: listingHTML("四页甲", "四页乙"),
		5: listingHTML("五页甲"),
	}}
	s := New(testConfig(), stub)

	got, err := s.Scrape(context.Background(), "sh600739")
	if err != nil {
		t.Fatalf("Scrape() unexpected error: %v", err)
	}

	want := "一页甲，一页乙，二页甲，四页甲，四页乙，五页甲"
	if got != want {
		t.Errorf("Scrape() = %q, want %q", got, want)
	}
	if len(stub.calls) != 5 {
		t.Errorf("fetched %d pages, want 5", len(stub.calls))
	}
}

func TestScrapeInvalidCodeBeforeAnyFetch(t *testing.T) {
	tests := []string{"", "600739", "sh60073", "bj600739", "sh600739x"}

	for _, input := range tests {
		t.Run(fmt.Sprintf("input=%q", input), func(t *testing.T) {
			stub := &stubFetcher{pages: map[int]string{}}
			s := New(testConfig(), stub)

			_, err := s.Scrape(context.Background(), input)
			if !errors.Is(err, models.ErrInvalidStockCode) {
				t.Fatalf("Scrape(%q) error = %v, want ErrInvalidStockCode", input, err)
			}
			if len(stub.calls) != 0 {
				t.Errorf("Scrape(%q) made %d fetch calls before validation", input, len(stub.calls))
			}
		})
	}
}

func TestScrapeContinuesPastFailedPages(t *testing.T) {
	stub := &stubFetcher{
		pages: map[int]string{
			2: listingHTML("二页甲"),
			4: listingHTML("四页甲"),
			5: listingHTML("五页甲"),
		},
		fail: map[int]bool{1: true, 3: true},
	}
	s := New(testConfig(), stub)

	got, err := s.Scrape(context.Background(), "sz000002")
	if err != nil {
		t.Fatalf("Scrape() unexpected error: %v", err)
	}

	want := "二页甲，四页甲，五页甲"
	if got != want {
		t.Errorf("Scrape() = %q, want %q", got, want)
	}
	if len(stub.calls) != 5 {
		t.Errorf("fetched %d pages, want all 5 attempted", len(stub.calls))
	}
}

func TestScrapeAllPagesFailed(t *testing.T) {
	stub := &stubFetcher{
		fail: map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true},
	}
	s := New(testConfig(), stub)

	_, err := s.Scrape(context.Background(), "sh600739")
	if !errors.Is(err, ErrAllPagesFailed) {
		t.Fatalf("Scrape() error = %v, want ErrAllPagesFailed", err)
	}
}

func TestScrapeStopsOnFailureWhenPolicyDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Scraper.ContinueOnPageError = false

	stub := &stubFetcher{
		pages: map[int]string{
			1: listingHTML("一页甲"),
			3: listingHTML("三页甲"),
		},
		fail: map[int]bool{2: true},
	}
	s := New(cfg, stub)

	got, err := s.Scrape(context.Background(), "sh600739")
	if err != nil {
		t.Fatalf("Scrape() unexpected error: %v", err)
	}
	if got != "一页甲" {
		t.Errorf("Scrape() = %q, want only page 1 titles", got)
	}
	if len(stub.calls) != 2 {
		t.Errorf("fetched %d pages, want 2 (stop after first failure)", len(stub.calls))
	}
}

func TestScrapeEmptyPagesSucceedWithEmptyResult(t *testing.T) {
	stub := &stubFetcher{pages: map[int]string{
		1: "<html><body></body></html>",
		2: "", 3: "", 4: "", 5: "",
	}}
	s := New(testConfig(), stub)

	got, err := s.Scrape(context.Background(), "sh600739")
	if err != nil {
		t.Fatalf("Scrape() unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("Scrape() = %q, want empty result", got)
	}
}

func TestScrapeRoundTrip(t *testing.T) {
	titles := []string{"标题一", "标题二", "第三条评论", "sh600739 怎么看"}
	stub := &stubFetcher{pages: map[int]string{
		1: listingHTML(titles[:2]...),
		2: listingHTML(titles[2:]...),
	}}
	cfg := testConfig()
	cfg.Scraper.Pages = 2
	s := New(cfg, stub)

	got, err := s.Scrape(context.Background(), "sh600739")
	if err != nil {
		t.Fatalf("Scrape() unexpected error: %v", err)
	}

	parts := strings.Split(got, Separator)
	if len(parts) != len(titles) {
		t.Fatalf("split yields %d parts, want %d", len(parts), len(titles))
	}
	for i, want := range titles {
		if parts[i] != want {
			t.Errorf("part[%d] = %q, want %q", i, parts[i], want)
		}
	}
}

func TestScrapeEndToEndExample(t *testing.T) {
	stub := &stubFetcher{pages: map[int]string{
		1: listingHTML("标题一", "标题二"),
		2: listingHTML(),
		3: listingHTML(),
		4: listingHTML(),
		5: listingHTML(),
	}}
	s := New(testConfig(), stub)

	got, err := s.Scrape(context.Background(), "sh600739")
	if err != nil {
		t.Fatalf("Scrape() unexpected error: %v", err)
	}
	if got != "标题一，标题二" {
		t.Errorf("Scrape() = %q, want %q", got, "标题一，标题二")
	}
}

func TestScrapeCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stub := &stubFetcher{fail: map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}}
	s := New(testConfig(), stub)

	_, err := s.Scrape(ctx, "sh600739")
	if err == nil {
		t.Fatal("Scrape() with cancelled context should fail")
	}
	if errors.Is(err, ErrAllPagesFailed) {
		t.Errorf("cancellation reported as ErrAllPagesFailed: %v", err)
	}
}
