package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/fittrack/internal/repository"
	"github.com/templui/fittrack/internal/service"
)

const (
	maxBodyBytes = 1 << 20

	detailNotFound    = "Not found."
	detailServerError = "A server error occurred."
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to write response", "error", err, "status", status)
	}
}

// writeBody writes an already encoded body after the headers have been set.
func writeBody(w http.ResponseWriter, body []byte) {
	_, err := w.Write(body)
	if err != nil {
		slog.Error("failed to write response", "error", err, "bytes", len(body))
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeAuthError uses the {"error": ...} shape of the login endpoint.
func writeAuthError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// readBody returns the request body, or "{}" when it is empty so an empty POST reads
// as an object with no fields.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return []byte("{}"), nil
	}
	return body, nil
}

// decodeJSON decodes the body into dst, answering 400 itself when the body is not valid
// JSON for dst. It reports whether the handler should continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := readBody(w, r)
	if err != nil {
		writeParseError(w, err)
		return false
	}

	err = json.Unmarshal(body, dst)
	if err != nil {
		writeParseError(w, err)
		return false
	}

	return true
}

func writeParseError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeDetail(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body exceeds %d bytes.", maxErr.Limit))
		return
	}
	writeDetail(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
}

// writeServiceError maps service and repository errors to responses and logs anything
// unexpected with the given context attributes.
func writeServiceError(w http.ResponseWriter, err error, msg string, attrs ...any) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, validationErr.Fields)
	case errors.Is(err, repository.ErrActivityNotFound):
		writeDetail(w, http.StatusNotFound, detailNotFound)
	default:
		slog.Error(msg, append([]any{"error", err}, attrs...)...)
		writeDetail(w, http.StatusInternalServerError, detailServerError)
	}
}

// RouteMatcher reports the registered pattern a request will be dispatched to.
// *http.ServeMux satisfies it.
type RouteMatcher interface {
	Handler(r *http.Request) (h http.Handler, pattern string)
}

var routeMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// Fallback answers requests that only matched the catch-all pattern. When the path is
// served under other methods the answer is 405 with an Allow header, otherwise the
// JSON 404.
func Fallback(routes RouteMatcher, catchAll string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var allowed []string
		for _, method := range routeMethods {
			if method == r.Method {
				continue
			}
			candidate := r.Clone(r.Context())
			candidate.Method = method
			_, pattern := routes.Handler(candidate)
			if pattern != "" && pattern != catchAll {
				allowed = append(allowed, method)
			}
		}

		if len(allowed) == 0 {
			writeDetail(w, http.StatusNotFound, detailNotFound)
			return
		}

		w.Header().Set("Allow", strings.Join(allowed, ", "))
		writeDetail(w, http.StatusMethodNotAllowed, fmt.Sprintf("Method %q not allowed.", r.Method))
	}
}
