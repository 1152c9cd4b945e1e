package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultAPIURL        = "https://wkuhfuofhpjuwilhhtnj.supabase.co/functions/v1"
	defaultListPath      = "/list-images"
	defaultUploadPath    = "/upload-image"
	defaultPageSize      = 12
	maxPageSize          = 100
	defaultFetchInterval = 250 * time.Millisecond
	defaultTimeout       = 15 * time.Second
)

// Config holds application-level configuration.
type Config struct {
	APIURL        string        // e.g. "https://<project>.supabase.co/functions/v1"
	ListPath      string        // Listing endpoint, relative to APIURL
	UploadPath    string        // Upload endpoint, relative to APIURL
	PageSize      int           // Images requested per page
	FetchInterval time.Duration // Minimum spacing between listing requests
	Timeout       time.Duration // Per-request HTTP timeout
	Uploader      string        // Prefills the "uploaded by" field
	DataDir       string        // Logs, UI state and the upload journal
	Debug         bool
}

// fileConfig mirrors Config for the optional YAML file. Durations are strings
// so they can be written as "250ms".
type fileConfig struct {
	APIURL        string `yaml:"api_url"`
	ListPath      string `yaml:"list_path"`
	UploadPath    string `yaml:"upload_path"`
	PageSize      int    `yaml:"page_size"`
	FetchInterval string `yaml:"fetch_interval"`
	Timeout       string `yaml:"timeout"`
	Uploader      string `yaml:"uploader"`
	DataDir       string `yaml:"data_dir"`
	Debug         bool   `yaml:"debug"`
}

// UIStatePath is where the view preferences are persisted.
func (c Config) UIStatePath() string {
	return filepath.Join(c.DataDir, "ui_state.json")
}

// HistoryPath is the SQLite upload journal.
func (c Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order of precedence.
//
//	GALLERY_CONFIG            YAML file (default: ~/.config/terminalgallery/config.yaml if present)
//	GALLERY_API_URL           API base URL
//	GALLERY_LIST_PATH         listing path (default: /list-images)
//	GALLERY_UPLOAD_PATH       upload path (default: /upload-image)
//	GALLERY_PAGE_SIZE         images per page (default: 12)
//	GALLERY_FETCH_INTERVAL    min spacing between page requests (default: 250ms)
//	GALLERY_TIMEOUT           HTTP timeout (default: 15s)
//	GALLERY_UPLOADER          default uploader name
//	GALLERY_DATA_DIR          data directory (default: ~/.config/terminalgallery)
//	GALLERY_DEBUG             debug logging
//
// An explicit path overrides GALLERY_CONFIG and must exist.
func Load(path string) (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("cannot determine home directory: %w", err)
	}
	cfg := Config{
		APIURL:        defaultAPIURL,
		ListPath:      defaultListPath,
		UploadPath:    defaultUploadPath,
		PageSize:      defaultPageSize,
		FetchInterval: defaultFetchInterval,
		Timeout:       defaultTimeout,
		DataDir:       filepath.Join(home, ".config", "terminalgallery"),
	}

	explicit := path != ""
	if !explicit {
		path = os.Getenv("GALLERY_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		path = filepath.Join(cfg.DataDir, "config.yaml")
	}
	if err := cfg.applyFile(path, explicit); err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}

	setString(&c.APIURL, fc.APIURL)
	setString(&c.ListPath, fc.ListPath)
	setString(&c.UploadPath, fc.UploadPath)
	setString(&c.Uploader, fc.Uploader)
	setString(&c.DataDir, fc.DataDir)
	if fc.PageSize != 0 {
		c.PageSize = fc.PageSize
	}
	if fc.FetchInterval != "" {
		d, err := time.ParseDuration(fc.FetchInterval)
		if err != nil {
			return fmt.Errorf("invalid fetch_interval in %s: %w", path, err)
		}
		c.FetchInterval = d
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout in %s: %w", path, err)
		}
		c.Timeout = d
	}
	c.Debug = c.Debug || fc.Debug
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.APIURL, os.Getenv("GALLERY_API_URL"))
	setString(&c.ListPath, os.Getenv("GALLERY_LIST_PATH"))
	setString(&c.UploadPath, os.Getenv("GALLERY_UPLOAD_PATH"))
	setString(&c.Uploader, os.Getenv("GALLERY_UPLOADER"))
	setString(&c.DataDir, os.Getenv("GALLERY_DATA_DIR"))

	if v := strings.TrimSpace(os.Getenv("GALLERY_PAGE_SIZE")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid GALLERY_PAGE_SIZE: %w", err)
		}
		c.PageSize = n
	}
	if v := strings.TrimSpace(os.Getenv("GALLERY_FETCH_INTERVAL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid GALLERY_FETCH_INTERVAL: %w", err)
		}
		c.FetchInterval = d
	}
	if v := strings.TrimSpace(os.Getenv("GALLERY_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid GALLERY_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := strings.TrimSpace(os.Getenv("GALLERY_DEBUG")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid GALLERY_DEBUG: %w", err)
		}
		c.Debug = b
	}
	return nil
}

func (c *Config) normalize() error {
	parsed, err := url.Parse(c.APIURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid GALLERY_API_URL: must be an absolute URL")
	}
	switch parsed.Scheme {
	case "https":
	case "http":
		if !isLoopback(parsed.Hostname()) {
			return fmt.Errorf("invalid GALLERY_API_URL: only https is allowed for non-local hosts")
		}
	default:
		return fmt.Errorf("invalid GALLERY_API_URL: unsupported scheme %q", parsed.Scheme)
	}
	c.APIURL = strings.TrimRight(parsed.String(), "/")
	c.ListPath = "/" + strings.TrimLeft(c.ListPath, "/")
	c.UploadPath = "/" + strings.TrimLeft(c.UploadPath, "/")

	if c.PageSize < 1 || c.PageSize > maxPageSize {
		return fmt.Errorf("page size must be between 1 and %d, got %d", maxPageSize, c.PageSize)
	}
	if c.FetchInterval < 0 {
		return fmt.Errorf("fetch interval must not be negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}
	c.Uploader = strings.TrimSpace(c.Uploader)
	return nil
}

func isLoopback(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
