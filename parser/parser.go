package parser

import (
	"log"
	"strings"

	"guba-scraper/models"

	"github.com/PuerkitoBio/goquery"
)

// titleSelector matches the headline link inside one row of the Guba
// listing table. The site's markup is an external contract: when Eastmoney
// changes it, this is the only place that needs updating.
const titleSelector = "tr.listitem div.title a"

// Parser extracts comment titles from listing page HTML
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ExtractTitles returns the comment titles found in one listing page, in
// document order. Malformed or empty HTML yields no titles, never an error:
// a page without recognizable rows is a normal terminal state (stock has no
// comments, or the last page is short).
func (p *Parser) ExtractTitles(htmlContent string, page int) []models.Comment {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		log.Printf("Warning: failed to parse page %d HTML: %v\n", page, err)
		return nil
	}

	var comments []models.Comment
	doc.Find(titleSelector).Each(func(i int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Text())
		if title == "" {
			return
		}
		comments = append(comments, models.Comment{
			Title:      title,
			PageNumber: page,
		})
	})

	return comments
}
