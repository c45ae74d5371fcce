package shared

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestFormatting(t *testing.T) {
	t.Run("FormatRuntime", func(t *testing.T) {
		tc := []struct {
			name    string
			minutes int
			want    string
		}{
			{name: "hours and minutes", minutes: 136, want: "2h 16m"},
			{name: "minutes only", minutes: 45, want: "45m"},
			{name: "whole hours", minutes: 120, want: "2h"},
			{name: "unknown", minutes: 0, want: ""},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				if got := FormatRuntime(tt.minutes); got != tt.want {
					t.Errorf("FormatRuntime(%d) = %q, want %q", tt.minutes, got, tt.want)
				}
			})
		}
	})

	t.Run("FormatMoney", func(t *testing.T) {
		tc := []struct {
			amount int64
			want   string
		}{
			{amount: 63000000, want: "$63,000,000"},
			{amount: 999, want: "$999"},
			{amount: 1000, want: "$1,000"},
			{amount: 0, want: ""},
		}

		for _, tt := range tc {
			if got := FormatMoney(tt.amount); got != tt.want {
				t.Errorf("FormatMoney(%d) = %q, want %q", tt.amount, got, tt.want)
			}
		}
	})

	t.Run("FormatRating", func(t *testing.T) {
		if got := FormatRating(8.2345); got != "8.2" {
			t.Errorf("FormatRating() = %q", got)
		}
	})

	t.Run("Truncate", func(t *testing.T) {
		tc := []struct {
			in   string
			n    int
			want string
		}{
			{in: "The Matrix", n: 20, want: "The Matrix"},
			{in: "The Matrix", n: 5, want: "The …"},
			{in: "The Matrix", n: 1, want: "…"},
			{in: "The Matrix", n: 0, want: "The Matrix"},
		}

		for _, tt := range tc {
			if got := Truncate(tt.in, tt.n); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		}
	})
}

func TestLogging(t *testing.T) {
	t.Run("ParseLogLevel", func(t *testing.T) {
		if got := ParseLogLevel("DEBUG"); got != log.DebugLevel {
			t.Errorf("expected debug level, got %v", got)
		}
		if got := ParseLogLevel("bogus"); got != log.InfoLevel {
			t.Errorf("expected info fallback, got %v", got)
		}
	})

	t.Run("NewFileLogger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "reel.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("failed to create file logger: %v", err)
		}

		logger.Info("hello from the tui")

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(data), "hello from the tui") {
			t.Errorf("expected log line in file, got %q", string(data))
		}
	})
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := ExpandPath("~/.reel/token"); got != filepath.Join(home, ".reel", "token") {
		t.Errorf("ExpandPath() = %q", got)
	}
	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandPath() should leave absolute paths alone, got %q", got)
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected unique IDs")
	}
	if len(a) != 36 {
		t.Errorf("expected uuid string, got %q", a)
	}
}
