package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Session  SessionConfig  `toml:"session"`
	Log      LogConfig      `toml:"log"`
	TMDB     TMDBConfig     `toml:"tmdb"`
	Auth     AuthConfig     `toml:"auth"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
}

// APIConfig points the client at the backend REST API.
type APIConfig struct {
	BaseURL        string  `toml:"base_url"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RateLimit      float64 `toml:"rate_limit"` // requests per second, 0 disables
}

// Timeout returns the per-request client timeout.
func (c APIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SessionConfig locates the persisted credential token.
type SessionConfig struct {
	TokenPath string `toml:"token_path"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// TMDBConfig contains movie metadata provider credentials used by the backend.
type TMDBConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// AuthConfig contains backend access token settings.
type AuthConfig struct {
	JWTSecret       string `toml:"jwt_secret"`
	JWTAlgorithm    string `toml:"jwt_algorithm"`
	ExpirationHours int    `toml:"expiration_hours"`
}

// Expiration returns the access token lifetime.
func (c AuthConfig) Expiration() time.Duration {
	if c.ExpirationHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.ExpirationHours) * time.Hour
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv loads each existing dotenv file into the process environment (without overriding set variables)
// and then applies environment overrides to the config.
func (c *Config) LoadEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("%w: failed to load %s: %v", ErrInvalidConfig, f, err)
		}
	}
	return c.ApplyEnv(os.LookupEnv)
}

// ApplyEnv overrides config values from environment variables resolved by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"REEL_API_URL":     &c.API.BaseURL,
		"REEL_TOKEN_PATH":  &c.Session.TokenPath,
		"REEL_LOG_LEVEL":   &c.Log.Level,
		"REEL_DB_PATH":     &c.Database.Path,
		"TMDB_API_KEY":     &c.TMDB.APIKey,
		"TMDB_BASE_URL":    &c.TMDB.BaseURL,
		"JWT_SECRET_KEY":   &c.Auth.JWTSecret,
		"JWT_ALGORITHM":    &c.Auth.JWTAlgorithm,
		"REEL_SERVER_HOST": &c.Server.Host,
	}
	for key, target := range str {
		if v, ok := lookup(key); ok && v != "" {
			*target = v
		}
	}

	ints := map[string]*int{
		"JWT_EXPIRATION_HOURS": &c.Auth.ExpirationHours,
		"REEL_SERVER_PORT":     &c.Server.Port,
	}
	for key, target := range ints {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, v)
		}
		*target = n
	}

	return nil
}
