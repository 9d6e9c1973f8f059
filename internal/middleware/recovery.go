package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/ipvault/ipvault/internal/handler/dto"
)

// Recoverer recovers from handler panics, logs them with the stack and
// answers 500 with kind internal. The stack is only logged when
// includeStack is set.
func Recoverer(logger *slog.Logger, includeStack bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				// Let the server abort the connection as it normally would.
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				attrs := []any{
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("panic", rvr),
				}
				if includeStack {
					attrs = append(attrs, slog.String("stack", string(debug.Stack())))
				}
				logger.Error("panic recovered", attrs...)

				writeError(w, http.StatusInternalServerError, dto.KindInternal, "Internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
