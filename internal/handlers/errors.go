package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"peacenest/internal/httpx"
	"peacenest/internal/models"
)

// errorWriter maps service errors onto responses. Anything that is not an
// APIError is logged and reported as a bare 500.
type errorWriter struct {
	logger    *zap.Logger
	withStack bool
}

func (e errorWriter) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if apiErr, ok := models.AsAPIError(err); ok && apiErr.Kind != models.KindInternal {
		httpx.APIError(w, apiErr)
		return
	}
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
	if e.withStack {
		fields = append(fields, zap.StackSkip("stack", 1))
	}
	e.logger.Error("request failed", fields...)
	httpx.InternalError(w)
}
