// Package httpx holds the JSON request and response helpers shared by the
// handlers and middleware.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"peacenest/internal/models"
)

// MaxBodyBytes caps every decoded request body.
const MaxBodyBytes = 1 << 20

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			http.Error(w, `{"error":"internal server error","code":"INTERNAL_ERROR"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func JSONError(w http.ResponseWriter, status int, code, msg string, details map[string]string) {
	JSON(w, status, ErrorResponse{Error: msg, Code: code, Details: details})
}

// APIError writes e with the status its kind maps to.
func APIError(w http.ResponseWriter, e *models.APIError) {
	JSONError(w, e.Kind.Status(), e.Code, e.Message, e.Details)
}

// InternalError writes the generic 500 body. The cause is never exposed.
func InternalError(w http.ResponseWriter) {
	JSONError(w, http.StatusInternalServerError, models.ErrCodeInternal, "internal server error", nil)
}

// DecodeJSON reads a single JSON value from the body into dst. Unknown fields
// are ignored. Malformed input becomes a validation error.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return models.NewValidationError(map[string]string{"body": "request body is required"})
		case errors.As(err, &maxErr):
			return models.NewValidationError(map[string]string{"body": fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit)})
		default:
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) && typeErr.Field != "" {
				return models.NewValidationError(map[string]string{typeErr.Field: "has the wrong type"})
			}
			return models.NewValidationError(map[string]string{"body": "malformed JSON"})
		}
	}
	return nil
}
