package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Simplici0/roastcalc/internal/logger"
	"github.com/Simplici0/roastcalc/internal/pricing"
	"github.com/Simplici0/roastcalc/internal/session"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeInvalid answers 422 for validation failures.
func writeInvalid(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}
	var vErr *pricing.ValidationError
	if errors.As(err, &vErr) {
		resp.Field = vErr.Field
	}
	writeJSON(w, http.StatusUnprocessableEntity, resp)
}

// writeStoreError maps store failures to 404 or 500.
func writeStoreError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, session.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	logger.Log.Error().Err(err).Str("op", op).Msg("session store failure")
	writeError(w, http.StatusInternalServerError, "internal error")
}

func decodeJSON(r *http.Request, v any) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// queryFloat parses an optional query parameter, returning def when absent.
func queryFloat(r *http.Request, name string, def float64) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &pricing.ValidationError{Err: pricing.ErrInvalidNumber, Field: name, Details: raw}
	}
	return v, nil
}
