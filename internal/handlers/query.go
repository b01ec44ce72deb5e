package handlers

import (
	"net/http"
	"strconv"

	"peacenest/internal/models"
)

// positiveIntQuery reads an optional positive integer query parameter.
// Missing yields 0.
func positiveIntQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, models.NewValidationError(map[string]string{name: name + " must be a positive integer"})
	}
	return n, nil
}
