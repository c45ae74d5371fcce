package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseCurl(t *testing.T) {
	tt := []struct {
		name        string
		cmd         string
		wantMethod  string
		wantPath    string
		wantHeaders map[string]string
		wantData    string
	}{
		{
			name:        "get with bearer",
			cmd:         `curl 'http://127.0.0.1:8001/api/favorites' -H 'Authorization: Bearer abc.def'`,
			wantMethod:  "GET",
			wantPath:    "/api/favorites",
			wantHeaders: map[string]string{"Authorization": "Bearer abc.def"},
		},
		{
			name:        "double quoted headers are canonicalized",
			cmd:         `curl "http://localhost:8001/api/movies/search?q=heat&page=2" -H "accept: application/json"`,
			wantMethod:  "GET",
			wantPath:    "/api/movies/search?q=heat&page=2",
			wantHeaders: map[string]string{"Accept": "application/json"},
		},
		{
			name: "data implies post",
			cmd: `curl 'http://localhost:8001/api/reviews' \
  -H 'content-type: application/json' \
  --data-raw '{"movie_id":603,"rating":9}'`,
			wantMethod:  "POST",
			wantPath:    "/api/reviews",
			wantHeaders: map[string]string{"Content-Type": "application/json"},
			wantData:    `{"movie_id":603,"rating":9}`,
		},
		{
			name:        "explicit method and cookie",
			cmd:         `curl -X DELETE 'http://localhost:8001/api/favorites/603' -b 'sid=1'`,
			wantMethod:  "DELETE",
			wantPath:    "/api/favorites/603",
			wantHeaders: map[string]string{"Cookie": "sid=1"},
		},
		{
			name:        "escaped double quoted body",
			cmd:         `curl -H "Content-Type: application/json" -d "{\"movie_id\":1}" http://localhost:8001/api/favorites`,
			wantMethod:  "POST",
			wantPath:    "/api/favorites",
			wantHeaders: map[string]string{"Content-Type": "application/json"},
			wantData:    `{"movie_id":1}`,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			req, err := ParseCurl([]byte(tc.cmd))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Method != tc.wantMethod {
				t.Errorf("method = %q, want %q", req.Method, tc.wantMethod)
			}
			if got := req.Path(); got != tc.wantPath {
				t.Errorf("path = %q, want %q", got, tc.wantPath)
			}
			if req.Data != tc.wantData {
				t.Errorf("data = %q, want %q", req.Data, tc.wantData)
			}
			for k, v := range tc.wantHeaders {
				if req.Headers[k] != v {
					t.Errorf("header %s = %q, want %q", k, req.Headers[k], v)
				}
			}
		})
	}

	t.Run("missing url", func(t *testing.T) {
		_, err := ParseCurl([]byte(`curl -H 'Accept: */*'`))
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestCurlRequest(t *testing.T) {
	req := &CurlRequest{Headers: map[string]string{
		"Authorization":   "Bearer tok",
		"Accept":          "application/json",
		"Accept-Encoding": "gzip",
		"Host":            "localhost",
	}}

	if got := req.Token(); got != "tok" {
		t.Errorf("Token() = %q, want tok", got)
	}

	headers := req.ReplayHeaders()
	if len(headers) != 1 || headers["Accept"] != "application/json" {
		t.Errorf("unexpected replay headers %v", headers)
	}

	if got := (&CurlRequest{Headers: map[string]string{"Authorization": "Basic x"}}).Token(); got != "" {
		t.Errorf("expected no bearer token, got %q", got)
	}
}

func TestParseCurlFile(t *testing.T) {
	t.Run("successful file parse", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "req.sh")
		if err := os.WriteFile(path, []byte("curl 'http://localhost:8001/api/auth/me' \\\n  -H 'Authorization: Bearer tok'\n"), 0644); err != nil {
			t.Fatal(err)
		}

		req, err := ParseCurlFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.Path() != "/api/auth/me" || req.Token() != "tok" {
			t.Errorf("unexpected request %+v", req)
		}
	})

	t.Run("file does not exist", func(t *testing.T) {
		if _, err := ParseCurlFile(filepath.Join(t.TempDir(), "missing.sh")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
