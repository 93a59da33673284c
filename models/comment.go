package models

// Comment represents one forum post headline scraped from a Guba listing page
type Comment struct {
	Title      string
	PageNumber int // Page number where this title was found (1-based)
}
