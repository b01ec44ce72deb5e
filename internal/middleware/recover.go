package middleware

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"peacenest/internal/httpx"
)

// Recoverer turns a handler panic into the generic 500 body. The stack is
// attached to the log only when withStack is set.
func Recoverer(logger *zap.Logger, withStack bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				fields := []zap.Field{
					zap.String("panic", fmt.Sprint(rec)),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
				}
				if withStack {
					fields = append(fields, zap.StackSkip("stack", 1))
				}
				logger.Error("panic recovered", fields...)
				httpx.InternalError(w)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
