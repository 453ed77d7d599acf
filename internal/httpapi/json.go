package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error apiError `json:"error"`
	meta
}

// meta carries the per-response timing fields the wire contract exposes.
type meta struct {
	Time    string  `json:"time"`
	Elapsed float64 `json:"elapsed"`
}

func newMeta(start time.Time) meta {
	now := time.Now().UTC()
	return meta{
		Time:    now.Format(time.RFC3339Nano),
		Elapsed: now.Sub(start).Seconds(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, start time.Time, status int, code, msg string) {
	writeJSON(w, status, errorResponse{
		Error: apiError{Code: code, Message: msg},
		meta:  newMeta(start),
	})
}

// decodeJSON reads a single size-capped JSON value. Unknown fields are
// tolerated for compatibility with existing clients.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	defer func() { _ = r.Body.Close() }()

	body := http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// Ensure there is no extra data after the first JSON value.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after JSON object")
	}
	return nil
}
