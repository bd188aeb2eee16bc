package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// parseJSON decodes a JSON request body into the given request type.
// Unknown fields are rejected so typos surface as 400s instead of being
// silently dropped.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		return req, fmt.Errorf("invalid JSON body: %w", err)
	}

	return req, nil
}

// parseLimit reads a positive integer query parameter, falling back to a
// default when absent or malformed.
func parseLimit(r *http.Request, name string, fallback int) int {
	value := r.URL.Query().Get(name)
	if value == "" {
		return fallback
	}

	limit, err := strconv.Atoi(value)
	if err != nil || limit <= 0 {
		return fallback
	}

	return limit
}
