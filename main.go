package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"guba-scraper/config"
	"guba-scraper/fetcher"
	"guba-scraper/scraper"
	"guba-scraper/server"
)

func main() {
	// Parse command line arguments
	code := flag.String("code", "", "Stock code to scrape once in CLI mode, e.g. sh600739 (if not provided, runs the HTTP server)")
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	pages := flag.Int("pages", 0, "Override the number of listing pages to scrape")
	flag.Parse()

	cfg := loadConfig(*configPath)
	if *pages > 0 {
		cfg.Scraper.Pages = *pages
	}

	// If a stock code is provided, run in CLI mode
	if *code != "" {
		runCLIMode(*code, cfg)
		return
	}

	// Otherwise, run the HTTP tool server
	runServer(cfg)
}

// runCLIMode performs a single scrape and prints the result
func runCLIMode(code string, cfg *config.Config) {
	s := scraper.New(cfg, newFetcher(cfg))

	result, err := s.Scrape(context.Background(), code)
	if err != nil {
		log.Fatalf("Scraping failed: %v\n", err)
	}

	if result == "" {
		fmt.Printf("No comments found for %s.\n", code)
		return
	}
	fmt.Println(result)
}

// runServer starts the HTTP server exposing the tool endpoint
func runServer(cfg *config.Config) {
	s := scraper.New(cfg, newFetcher(cfg))
	srv := server.New(s)

	addr := fmt.Sprintf(":%d", cfg.ResolvePort())
	log.Printf("Starting server on %s (backend: %s, pages: %d)\n", addr, cfg.Scraper.Backend, cfg.Scraper.Pages)
	if err := srv.Run(addr); err != nil {
		log.Fatalf("Server failed: %v\n", err)
	}
}

// newFetcher selects the fetch backend from configuration
func newFetcher(cfg *config.Config) fetcher.Fetcher {
	switch cfg.Scraper.Backend {
	case "colly":
		return fetcher.NewCollyFetcher(cfg)
	default:
		return fetcher.NewHTTPFetcher(cfg)
	}
}

// loadConfig loads configuration from file or returns defaults
func loadConfig(configPath string) *config.Config {
	var cfg *config.Config
	if _, err := os.Stat(configPath); err == nil {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			log.Printf("Warning: Failed to load config file: %v. Using defaults.\n", err)
			cfg = config.GetDefaultConfig()
		}
	} else {
		log.Println("Config file not found. Using default configuration.")
		cfg = config.GetDefaultConfig()
	}
	return cfg
}
