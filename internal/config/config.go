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
	"gopkg.in/yaml.v3"

	"github.com/nievasdev/brazilgas/internal/fuel"
)

// Data source kinds.
const (
	SourceFile = "file"
	SourceHTTP = "http"
	SourceS3   = "s3"
)

type S3Config struct {
	Bucket          string
	Key             string
	Region          string
	Endpoint        string
	PathStyle       bool
	AccessKeyID     string
	SecretAccessKey string
}

type AppConfig struct {
	Port string

	// Where the survey CSV comes from.
	DataSource string
	DataPath   string
	DataURL    string
	S3         S3Config

	GeoURL      string
	HTTPTimeout time.Duration

	// RefreshInterval controls periodic reloads; 0 disables them.
	RefreshInterval time.Duration

	// In-memory load history retention.
	StoreMaxHistory int           // max number of load summaries (0 = unlimited)
	StoreMaxAge     time.Duration // max age of load summaries (0 = unlimited)

	ExportPrefix string

	LogLevel string
	LogFile  string
}

// Load reads configuration from .env, an optional YAML file named by
// CONFIG_FILE and the environment, in increasing order of precedence.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	file, err := readFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}
	return build(env{file: file})
}

func build(e env) (*AppConfig, error) {
	cfg := &AppConfig{}
	var err error

	cfg.Port = e.getDefault("PORT", "8080")

	cfg.DataSource = strings.ToLower(e.getDefault("DATA_SOURCE", SourceFile))
	cfg.DataPath = e.getDefault("DATA_PATH", "data/gas-prices.csv")
	cfg.DataURL = e.get("DATA_URL")
	cfg.S3 = S3Config{
		Bucket:          e.get("S3_BUCKET"),
		Key:             e.get("S3_KEY"),
		Region:          e.getDefault("S3_REGION", "us-east-1"),
		Endpoint:        e.get("S3_ENDPOINT"),
		PathStyle:       e.getBool("S3_PATH_STYLE", false),
		AccessKeyID:     e.get("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: e.get("AWS_SECRET_ACCESS_KEY"),
	}

	cfg.GeoURL = e.getDefault("GEO_URL", fuel.DefaultGeoURL)
	if cfg.HTTPTimeout, err = e.getDuration("HTTP_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = e.getDuration("REFRESH_INTERVAL", 0); err != nil {
		return nil, err
	}

	cfg.StoreMaxHistory = e.getInt("STORE_MAX_HISTORY", 20)
	if cfg.StoreMaxAge, err = e.getDuration("STORE_MAX_AGE", 0); err != nil {
		return nil, err
	}

	cfg.ExportPrefix = e.getDefault("EXPORT_PREFIX", "exports")
	cfg.LogLevel = e.getDefault("LOG_LEVEL", "info")
	cfg.LogFile = e.get("LOG_FILE")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) validate() error {
	switch c.DataSource {
	case SourceFile:
		if c.DataPath == "" {
			return fmt.Errorf("DATA_PATH is required for the file source")
		}
	case SourceHTTP:
		if c.DataURL == "" {
			return fmt.Errorf("DATA_URL is required for the http source")
		}
	case SourceS3:
		if c.S3.Bucket == "" || c.S3.Key == "" {
			return fmt.Errorf("S3_BUCKET and S3_KEY are required for the s3 source")
		}
	default:
		return fmt.Errorf("invalid DATA_SOURCE %q (want file, http or s3)", c.DataSource)
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("REFRESH_INTERVAL must not be negative")
	}
	return nil
}

func readFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		values[strings.ToUpper(k)] = fmt.Sprint(v)
	}
	return values, nil
}

// env resolves a key from the process environment first, then the config file.
type env struct {
	file map[string]string
}

func (e env) get(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return e.file[key]
}

func (e env) getDefault(key, def string) string {
	if v := e.get(key); v != "" {
		return v
	}
	return def
}

func (e env) getInt(key string, def int) int {
	if v := e.get(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func (e env) getBool(key string, def bool) bool {
	if v := e.get(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func (e env) getDuration(key string, def time.Duration) (time.Duration, error) {
	v := e.get(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
