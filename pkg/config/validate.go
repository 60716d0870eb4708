package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"book-harvester/pkg/utils"
)

// Validate checks AppConfig fields and applies sensible defaults.
// Returns collected warnings and any fatal error.
// Modifies receiver in place to apply defaults.
func (c *AppConfig) Validate() (warnings []string, err error) {
	// CatalogRoot
	if c.CatalogRoot == "" {
		warnings = append(warnings, "catalog_root is empty, defaulting to 'https://tululu.org/'")
		c.CatalogRoot = "https://tululu.org/"
	}
	parsed, parseErr := url.ParseRequestURI(c.CatalogRoot)
	if parseErr != nil || parsed.Hostname() == "" {
		return warnings, fmt.Errorf("%w: catalog_root '%s' is not a valid absolute URL", utils.ErrConfigValidation, c.CatalogRoot)
	}
	if !strings.HasSuffix(c.CatalogRoot, "/") {
		c.CatalogRoot += "/"
	}

	// CategoryID
	if c.CategoryID <= 0 {
		warnings = append(warnings, "category_id not specified, defaulting to 55 (science fiction)")
		c.CategoryID = 55
	}

	// Page range: [start_page, end_page), end exclusive. start == end is a
	// valid empty range.
	if c.StartPage < 0 {
		return warnings, fmt.Errorf("%w: start_page cannot be negative (got %d)", utils.ErrConfigValidation, c.StartPage)
	}
	if c.EndPage < c.StartPage {
		return warnings, fmt.Errorf("%w: end_page (%d) must be >= start_page (%d)", utils.ErrConfigValidation, c.EndPage, c.StartPage)
	}

	// DestDir
	if c.DestDir == "" {
		warnings = append(warnings, "dest_dir is empty, defaulting to '.'")
		c.DestDir = "."
	}

	// CatalogFile
	if c.CatalogFile == "" {
		warnings = append(warnings, "catalog_file is empty, defaulting to 'catalog.json'")
		c.CatalogFile = "catalog.json"
	}

	// NumWorkers
	if c.NumWorkers <= 0 {
		warnings = append(warnings, "num_workers should be > 0, defaulting to 4")
		c.NumWorkers = 4
	}

	// DelayPerHost
	if c.DelayPerHost < 0 {
		warnings = append(warnings, "delay_per_host cannot be negative, setting to 0")
		c.DelayPerHost = 0
	}

	// UserAgent
	if c.UserAgent == "" {
		c.UserAgent = "book-harvester/1.0"
	}

	c.HTTPClientSettings.applyDefaults()

	return warnings, nil
}

func (h *HTTPClientConfig) applyDefaults() {
	if h.Timeout <= 0 {
		h.Timeout = 30 * time.Second
	}
	if h.MaxIdleConns <= 0 {
		h.MaxIdleConns = 100
	}
	if h.MaxIdleConnsPerHost <= 0 {
		h.MaxIdleConnsPerHost = 10
	}
	if h.IdleConnTimeout <= 0 {
		h.IdleConnTimeout = 90 * time.Second
	}
	if h.TLSHandshakeTimeout <= 0 {
		h.TLSHandshakeTimeout = 10 * time.Second
	}
	if h.DialerTimeout <= 0 {
		h.DialerTimeout = 15 * time.Second
	}
	if h.DialerKeepAlive <= 0 {
		h.DialerKeepAlive = 30 * time.Second
	}
}

// HomeURL returns the parsed catalog root. Validate must have succeeded.
func (c *AppConfig) HomeURL() (*url.URL, error) {
	u, err := url.Parse(c.CatalogRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: catalog_root: %w", utils.ErrParsing, err)
	}
	return u, nil
}
