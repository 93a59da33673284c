package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all scraper and server settings
type Config struct {
	Scraper struct {
		// ListURLFormat takes the 6-digit stock number and a 1-based page index
		ListURLFormat       string `yaml:"list_url_format"`
		Pages               int    `yaml:"pages"`
		TimeoutSeconds      int    `yaml:"timeout_seconds"`
		Retries             int    `yaml:"retries"`
		Backend             string `yaml:"backend"` // "http" or "colly"
		UserAgent           string `yaml:"user_agent"`
		Referer             string `yaml:"referer"`
		AcceptLanguage      string `yaml:"accept_language"`
		MinDelayMillis      int    `yaml:"min_delay_ms"`
		MaxDelayMillis      int    `yaml:"max_delay_ms"`
		ContinueOnPageError bool   `yaml:"continue_on_page_error"`
	} `yaml:"scraper"`
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
}

// LoadConfig loads configuration from a YAML file. Values absent from the
// file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := GetDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// GetDefaultConfig returns a default configuration
func GetDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Scraper.ListURLFormat = "https://guba.eastmoney.com/list,%s_%d.html"
	cfg.Scraper.Pages = 5
	cfg.Scraper.TimeoutSeconds = 10
	cfg.Scraper.Retries = 2
	cfg.Scraper.Backend = "http"
	cfg.Scraper.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/141.0.0.0 Safari/537.36 Edg/141.0.0.0"
	cfg.Scraper.Referer = "https://guba.eastmoney.com/"
	cfg.Scraper.AcceptLanguage = "zh-CN,zh;q=0.9,en;q=0.8"
	cfg.Scraper.MinDelayMillis = 300
	cfg.Scraper.MaxDelayMillis = 1000
	cfg.Scraper.ContinueOnPageError = true
	cfg.Server.Port = 8080
	return cfg
}

// Timeout returns the per-request HTTP timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Scraper.TimeoutSeconds) * time.Second
}

// ResolvePort returns the listening port. The PORT environment variable
// takes precedence over the configured value.
func (c *Config) ResolvePort() int {
	if env := os.Getenv("PORT"); env != "" {
		if port, err := strconv.Atoi(env); err == nil && port > 0 {
			return port
		}
	}
	return c.Server.Port
}
