package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(map[string]string{"detail": detail})
	if err != nil {
		slog.Error("failed to write response", "error", err, "status", status)
	}
}

func writeUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", `Token realm="api"`)
	writeDetail(w, http.StatusUnauthorized, detail)
}
