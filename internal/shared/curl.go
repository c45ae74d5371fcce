// Parsing of "Copy as cURL" commands for replaying backend requests.
package shared

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
)

var (
	curlURL    = regexp.MustCompile(`curl\s+(?:-[A-Za-z-]+\s+(?:'[^']*'|"[^"]*"|\S+)\s+)*'?"?(https?://[^\s'"]+)`)
	curlHeader = regexp.MustCompile(`(?:-H|--header)\s+(?:'([^']+)'|"([^"]+)")`)
	curlMethod = regexp.MustCompile(`(?:-X|--request)\s+'?"?([A-Za-z]+)`)
	curlData   = regexp.MustCompile(`(?:--data-raw|--data-binary|--data|-d)\s+(?:'([^']*)'|"((?:[^"\\]|\\.)*)")`)
	curlCookie = regexp.MustCompile(`(?:-b|--cookie)\s+(?:'([^']+)'|"([^"]+)")`)
)

// CurlRequest is a request recovered from a cURL command.
type CurlRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Data    string
}

// ParseCurlFile reads a .sh file containing a cURL command and parses it.
func ParseCurlFile(path string) (*CurlRequest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}
	return ParseCurl(content)
}

// ParseCurl extracts method, URL, headers and body from a cURL command.
//
// The method defaults to GET, or POST when a body is present. Cookies passed with -b become a Cookie header.
func ParseCurl(data []byte) (*CurlRequest, error) {
	cmd := strings.ReplaceAll(string(data), "\\\n", " ")
	cmd = strings.ReplaceAll(cmd, "\\\r\n", " ")

	m := curlURL.FindStringSubmatch(cmd)
	if m == nil {
		return nil, fmt.Errorf("%w: no URL found in curl command", ErrInvalidInput)
	}
	req := &CurlRequest{URL: m[1], Headers: map[string]string{}}

	for _, match := range curlHeader.FindAllStringSubmatch(cmd, -1) {
		key, value, ok := strings.Cut(first(match[1], match[2]), ":")
		if !ok {
			continue
		}
		req.Headers[http.CanonicalHeaderKey(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	if c := curlCookie.FindStringSubmatch(cmd); c != nil {
		req.Headers["Cookie"] = first(c[1], c[2])
	}
	if d := curlData.FindStringSubmatch(cmd); d != nil {
		req.Data = first(d[1], strings.ReplaceAll(d[2], `\"`, `"`))
	}

	switch mm := curlMethod.FindStringSubmatch(cmd); {
	case mm != nil:
		req.Method = strings.ToUpper(mm[1])
	case req.Data != "":
		req.Method = http.MethodPost
	default:
		req.Method = http.MethodGet
	}

	return req, nil
}

// Path returns the request path with its query, e.g. "/api/movies/search?q=heat".
func (r *CurlRequest) Path() string {
	u, err := url.Parse(r.URL)
	if err != nil {
		return r.URL
	}
	return u.RequestURI()
}

// Token returns the bearer credential from the Authorization header, if any.
func (r *CurlRequest) Token() string {
	token, ok := strings.CutPrefix(r.Headers["Authorization"], "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// ReplayHeaders returns the headers worth replaying: everything except those
// the HTTP client sets itself and the credential, which is sent separately.
func (r *CurlRequest) ReplayHeaders() map[string]string {
	skip := map[string]bool{
		"Authorization": true, "Content-Length": true, "Host": true,
		"Accept-Encoding": true, "Connection": true,
	}
	out := make(map[string]string, len(r.Headers))
	for k, v := range r.Headers {
		if !skip[k] {
			out[k] = v
		}
	}
	return out
}

func first(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
