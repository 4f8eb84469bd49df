package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

type envConfig struct {
	APP_PORT           string        `yaml:"app_port"`
	LOG_FILE_PATH      string        `yaml:"log_file_path"`
	LOG_LEVEL          string        `yaml:"log_level"`
	BODY_LIMIT         string        `yaml:"body_limit"`
	REQUEST_TIMEOUT    time.Duration `yaml:"request_timeout"`
	MCP_SERVER_NAME    string        `yaml:"mcp_server_name"`
	MCP_SERVER_VERSION string        `yaml:"mcp_server_version"`
}

// DefaultEnvConfig holds the active configuration once LoadEnvConfig succeeds.
var DefaultEnvConfig = defaultEnvConfig()

var bodyLimitPattern = regexp.MustCompile(`^[0-9]+[KMGTP]?$`)

func defaultEnvConfig() envConfig {
	return envConfig{
		APP_PORT:           "8080",
		LOG_LEVEL:          "info",
		BODY_LIMIT:         "8M",
		REQUEST_TIMEOUT:    30 * time.Second,
		MCP_SERVER_NAME:    "array-to-excel",
		MCP_SERVER_VERSION: "1.0.0",
	}
}

// LoadEnvConfig resolves configuration from, in increasing precedence:
// built-in defaults, the YAML file named by CONFIG_FILE, and environment
// variables (a .env file in the working directory is loaded first if present).
func LoadEnvConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	cfg, err := loadEnvConfig(os.LookupEnv)
	if err != nil {
		return err
	}
	DefaultEnvConfig = cfg
	return nil
}

func loadEnvConfig(lookup func(string) (string, bool)) (envConfig, error) {
	cfg := defaultEnvConfig()

	if path, ok := lookup("CONFIG_FILE"); ok && path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return envConfig{}, err
		}
	}

	for key, dst := range map[string]*string{
		"APP_PORT":           &cfg.APP_PORT,
		"LOG_FILE_PATH":      &cfg.LOG_FILE_PATH,
		"LOG_LEVEL":          &cfg.LOG_LEVEL,
		"BODY_LIMIT":         &cfg.BODY_LIMIT,
		"MCP_SERVER_NAME":    &cfg.MCP_SERVER_NAME,
		"MCP_SERVER_VERSION": &cfg.MCP_SERVER_VERSION,
	} {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	if v, ok := lookup("REQUEST_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return envConfig{}, fmt.Errorf("invalid REQUEST_TIMEOUT %q: %w", v, err)
		}
		cfg.REQUEST_TIMEOUT = d
	}

	if err := cfg.validate(); err != nil {
		return envConfig{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *envConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c envConfig) validate() error {
	port, err := strconv.Atoi(c.APP_PORT)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid APP_PORT %q", c.APP_PORT)
	}
	if _, err := zerolog.ParseLevel(c.LOG_LEVEL); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LOG_LEVEL, err)
	}
	if !bodyLimitPattern.MatchString(c.BODY_LIMIT) {
		return fmt.Errorf("invalid BODY_LIMIT %q, expected a size such as 8M", c.BODY_LIMIT)
	}
	if c.REQUEST_TIMEOUT <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.REQUEST_TIMEOUT)
	}
	if c.MCP_SERVER_NAME == "" {
		return errors.New("MCP_SERVER_NAME must not be empty")
	}
	return nil
}
