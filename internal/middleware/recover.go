package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

const detailServerError = "A server error occurred."

// Recover turns a panicking handler into a 500 response. http.ErrAbortHandler is
// re-raised so the server can abort the connection as intended.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			slog.Error("panic recovered",
				"error", rec,
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)
			writeDetail(w, http.StatusInternalServerError, detailServerError)
		}()

		next.ServeHTTP(w, r)
	})
}
