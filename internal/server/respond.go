package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/desertthunder/reel/internal/models"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, models.ErrorBody{Detail: detail})
}

func respondMessage(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusOK, models.Message{Message: message})
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// queryInt parses an optional integer query parameter, returning def when absent.
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("query parameter %s must be an integer", key)
	}
	return n, nil
}

// pathInt parses an integer path segment.
func pathInt(r *http.Request, key string) (int, error) {
	n, err := strconv.Atoi(r.PathValue(key))
	if err != nil {
		return 0, fmt.Errorf("path parameter %s must be an integer", key)
	}
	return n, nil
}
