package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"book-harvester/pkg/utils"
)

// AppConfig holds the full run configuration for the harvester.
// Values are loaded from YAML and may be overridden by command-line flags.
type AppConfig struct {
	CatalogRoot string `yaml:"catalog_root"` // Base URL of the book catalog, e.g. https://tululu.org/
	CategoryID  int    `yaml:"category_id"`  // Category index to walk (the l{id} path segment)
	StartPage   int    `yaml:"start_page"`   // First listing page (inclusive)
	EndPage     int    `yaml:"end_page"`     // Last listing page (exclusive)

	DestDir     string `yaml:"dest_dir"`     // Root folder for downloaded assets
	CatalogFile string `yaml:"catalog_file"` // Output path for the serialized catalog

	SkipText   bool `yaml:"skip_text,omitempty"`   // Disable text body downloads
	SkipImages bool `yaml:"skip_images,omitempty"` // Disable cover image downloads

	NumWorkers    int           `yaml:"num_workers,omitempty"`     // Max in-flight book fetches per listing page
	DelayPerHost  time.Duration `yaml:"delay_per_host,omitempty"`  // Politeness delay between requests to the catalog host
	UserAgent     string        `yaml:"user_agent,omitempty"`
	RespectRobots bool          `yaml:"respect_robots,omitempty"` // Consult robots.txt before walking

	HTTPClientSettings HTTPClientConfig `yaml:"http_client_settings,omitempty"`
}

// HTTPClientConfig holds settings for the shared HTTP client.
type HTTPClientConfig struct {
	Timeout             time.Duration `yaml:"timeout,omitempty"`                 // Overall per-request timeout
	MaxIdleConns        int           `yaml:"max_idle_conns,omitempty"`          // Max total idle connections
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host,omitempty"` // Max idle connections per host
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout,omitempty"`       // Timeout for idle connections
	TLSHandshakeTimeout time.Duration `yaml:"tls_handshake_timeout,omitempty"`   // Timeout for TLS handshake
	DialerTimeout       time.Duration `yaml:"dialer_timeout,omitempty"`          // Connection dial timeout
	DialerKeepAlive     time.Duration `yaml:"dialer_keep_alive,omitempty"`       // TCP keep-alive interval
}

// Load reads and unmarshals the YAML config file at path.
// A missing file is not an error: flags alone can configure a run.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("%w: reading config '%s': %w", utils.ErrFilesystem, path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: YAML config '%s': %w", utils.ErrParsing, path, err)
	}
	return cfg, nil
}
