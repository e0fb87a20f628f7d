package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"bizadmin/internal/prefs"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

type Config struct {
	APIURL       string
	Theme        Theme
	ConfigDir    string
	PrefsBackend prefs.Backend
	LogFile      string
	RateLimit    float64
	Reorderable  bool
	Mock         bool
	MockShape    string
	PageSize     int
	ShowVersion  bool
}

func Load() (*Config, error) { return Parse(os.Args[1:]) }

// Parse reads flags from args with environment fallbacks.
func Parse(args []string) (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet("bizadmin", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.APIURL, "api-url", getenvDefault("BIZADMIN_API_URL", "http://localhost:8080"), "REST API base URL")
	theme := getenvDefault("BIZADMIN_THEME", string(ThemeDark))
	fs.StringVar(&theme, "theme", theme, "theme: dark|light")
	fs.StringVar(&cfg.ConfigDir, "config-dir", getenvDefault("BIZADMIN_CONFIG_DIR", defaultConfigDir()), "directory for preferences, session and logs")
	backend := getenvDefault("BIZADMIN_PREFS_BACKEND", string(prefs.BackendFile))
	fs.StringVar(&backend, "prefs-backend", backend, "table preference store: file|sqlite|memory")
	fs.StringVar(&cfg.LogFile, "log-file", getenvDefault("BIZADMIN_LOG_FILE", ""), "rotated JSON log file (default <config-dir>/bizadmin.log, \"-\" disables)")
	fs.Float64Var(&cfg.RateLimit, "rate-limit", getenvDefaultFloat("BIZADMIN_RATE_LIMIT", 0), "max API requests per second (0 = unlimited)")
	fs.BoolVar(&cfg.Reorderable, "reorder", getenvDefaultBool("BIZADMIN_REORDER", true), "allow column reordering")
	fs.BoolVar(&cfg.Mock, "mock", getenvDefaultBool("BIZADMIN_MOCK", false), "serve an in-process mock API and point the client at it")
	fs.StringVar(&cfg.MockShape, "mock-columns", getenvDefault("BIZADMIN_MOCK_COLUMNS", "mapping"), "mock column descriptor shape: mapping|strings|pairs|none")
	fs.IntVar(&cfg.PageSize, "page-size", getenvDefaultInt("BIZADMIN_PAGE_SIZE", 10), "initial page size: 5|10|20|50")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.Theme = Theme(strings.ToLower(theme))
	if cfg.Theme != ThemeDark && cfg.Theme != ThemeLight {
		return nil, fmt.Errorf("unknown theme %q", theme)
	}
	cfg.PrefsBackend = prefs.Backend(strings.ToLower(backend))
	switch cfg.PrefsBackend {
	case prefs.BackendFile, prefs.BackendSQLite, prefs.BackendMemory:
	default:
		return nil, fmt.Errorf("unknown prefs backend %q", backend)
	}
	if !cfg.Mock && strings.TrimSpace(cfg.APIURL) == "" {
		return nil, errors.New("--api-url is required")
	}
	if cfg.RateLimit < 0 {
		cfg.RateLimit = 0
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.ConfigDir, "bizadmin.log")
	}
	return cfg, nil
}

// SessionPath is where the signed-in token pair is kept.
func (c *Config) SessionPath() string { return filepath.Join(c.ConfigDir, "session.yaml") }

func defaultConfigDir() string {
	if d, err := os.UserConfigDir(); err == nil {
		return filepath.Join(d, "bizadmin")
	}
	return ".bizadmin"
}

func getenvDefault(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvDefaultInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvDefaultFloat(k string, d float64) float64 {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return d
}

func getenvDefaultBool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

func (c *Config) String() string {
	return fmt.Sprintf("api=%s theme=%s prefs=%s mock=%v reorder=%v rate=%.1f", c.APIURL, c.Theme, c.PrefsBackend, c.Mock, c.Reorderable, c.RateLimit)
}
