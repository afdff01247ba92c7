package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIBaseURL = "https://vue3-course-api.hexschool.io/v2"
	DefaultAPIPath    = "gingene-test"
	DefaultPort       = "8082"
)

// Config holds everything the storefront reads from the environment.
type Config struct {
	APIBaseURL  string
	APIPath     string
	DefaultPage int
	// APITimeout of zero leaves the transport default in place.
	APITimeout time.Duration

	Port        string
	TemplateDir string
	StaticDir   string
	SessionTTL  time.Duration
	GinMode     string
	LogLevel    string
	// TLS is served only when both files are set.
	TLSCertFile string
	TLSKeyFile  string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
}

// Load reads an optional .env file and then the process environment.
// A missing .env is not an error; a malformed value is.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	cfg := &Config{
		APIBaseURL:  strings.TrimRight(getenv("API_BASE_URL", DefaultAPIBaseURL), "/"),
		APIPath:     strings.Trim(getenv("API_PATH", DefaultAPIPath), "/"),
		Port:        getenv("PORT", DefaultPort),
		TemplateDir: getenv("TEMPLATE_DIR", "templates"),
		StaticDir:   getenv("STATIC_DIR", "static"),
		GinMode:     getenv("GIN_MODE", "release"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		TLSCertFile: os.Getenv("TLS_CERT_FILE"),
		TLSKeyFile:  os.Getenv("TLS_KEY_FILE"),
		SMTPHost:    getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPUser:    os.Getenv("SMTP_USER"),
		SMTPPass:    os.Getenv("SMTP_PASS"),
	}

	var err error
	if cfg.DefaultPage, err = intEnv("STORE_DEFAULT_PAGE", 1); err != nil {
		return nil, err
	}
	if cfg.DefaultPage < 1 {
		return nil, fmt.Errorf("config: STORE_DEFAULT_PAGE must be >= 1, got %d", cfg.DefaultPage)
	}
	if cfg.SMTPPort, err = intEnv("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	if cfg.APITimeout, err = durationEnv("API_TIMEOUT", 0); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = durationEnv("SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.APIPath == "" {
		return nil, errors.New("config: API_PATH must not be empty")
	}

	return cfg, nil
}

// TLSEnabled reports whether the server should listen with TLS.
func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// SMTPEnabled reports whether order confirmation mail can be sent.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPUser != "" && c.SMTPPass != ""
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
