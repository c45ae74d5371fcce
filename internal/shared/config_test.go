package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./reel.db" {
			t.Errorf("expected database path ./reel.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8001 {
			t.Errorf("expected server port 8001, got %d", config.Server.Port)
		}

		if config.API.BaseURL != "http://127.0.0.1:8001" {
			t.Errorf("expected api base URL http://127.0.0.1:8001, got %s", config.API.BaseURL)
		}

		if config.TMDB.BaseURL != "https://api.themoviedb.org/3" {
			t.Errorf("expected tmdb base URL, got %s", config.TMDB.BaseURL)
		}

		if config.Auth.Expiration() != 24*time.Hour {
			t.Errorf("expected 24h token expiration, got %v", config.Auth.Expiration())
		}

		if config.API.Timeout() != 10*time.Second {
			t.Errorf("expected 10s timeout, got %v", config.API.Timeout())
		}

		if config.Server.Addr() != "127.0.0.1:8001" {
			t.Errorf("unexpected server addr %s", config.Server.Addr())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[api]
base_url = "http://api.example.com"
timeout_seconds = 3

[database]
path = "/custom/path.db"

[server]
host = "0.0.0.0"
port = 9000

[tmdb]
api_key = "tmdb_key"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 9000 {
			t.Errorf("expected server port 9000, got %d", config.Server.Port)
		}

		if config.API.Timeout() != 3*time.Second {
			t.Errorf("expected 3s timeout, got %v", config.API.Timeout())
		}

		if config.TMDB.APIKey != "tmdb_key" {
			t.Errorf("expected tmdb api key tmdb_key, got %s", config.TMDB.APIKey)
		}

		if config.Session.TokenPath != "~/.reel/token" {
			t.Errorf("expected default token path to survive partial config, got %s", config.Session.TokenPath)
		}
	})

	t.Run("LoadConfig Invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[api\nbase_url ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestConfigEnv(t *testing.T) {
	t.Run("ApplyEnv", func(t *testing.T) {
		env := map[string]string{
			"TMDB_API_KEY":         "from-env",
			"JWT_SECRET_KEY":       "secret",
			"JWT_EXPIRATION_HOURS": "2",
			"REEL_API_URL":         "http://remote:8001",
		}
		lookup := func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		}

		config := DefaultConfig()
		if err := config.ApplyEnv(lookup); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if config.TMDB.APIKey != "from-env" {
			t.Errorf("expected TMDB key from env, got %s", config.TMDB.APIKey)
		}
		if config.Auth.JWTSecret != "secret" {
			t.Errorf("expected jwt secret from env, got %s", config.Auth.JWTSecret)
		}
		if config.Auth.Expiration() != 2*time.Hour {
			t.Errorf("expected 2h expiration, got %v", config.Auth.Expiration())
		}
		if config.API.BaseURL != "http://remote:8001" {
			t.Errorf("expected api url from env, got %s", config.API.BaseURL)
		}
	})

	t.Run("ApplyEnv Invalid Integer", func(t *testing.T) {
		lookup := func(k string) (string, bool) {
			if k == "REEL_SERVER_PORT" {
				return "eighty", true
			}
			return "", false
		}

		err := DefaultConfig().ApplyEnv(lookup)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadEnv From Dotenv File", func(t *testing.T) {
		dotenv := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(dotenv, []byte("REEL_TEST_DB_ONLY=1\nREEL_DB_PATH=/tmp/from-dotenv.db\n"), 0644); err != nil {
			t.Fatalf("failed to write .env: %v", err)
		}
		t.Setenv("REEL_DB_PATH", "")
		os.Unsetenv("REEL_DB_PATH")
		t.Cleanup(func() { os.Unsetenv("REEL_TEST_DB_ONLY") })

		config := DefaultConfig()
		if err := config.LoadEnv(dotenv, filepath.Join(t.TempDir(), "missing.env")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if config.Database.Path != "/tmp/from-dotenv.db" {
			t.Errorf("expected database path from .env, got %s", config.Database.Path)
		}
	})
}
