package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/fittrack/internal/ctxkeys"
	"github.com/templui/fittrack/internal/service"
)

const (
	detailNotAuthenticated = "Authentication credentials were not provided."
	detailInvalidToken     = "Invalid token."
	detailUserInactive     = "User inactive or deleted."
	detailNoCredentials    = "Invalid token header. No credentials provided."
	detailTokenHasSpaces   = "Invalid token header. Token string should not contain spaces."
)

// authKeywords are the accepted Authorization schemes, compared case-insensitively.
var authKeywords = []string{"token", "bearer"}

// TokenAuth resolves an "Authorization: Token <key>" (or Bearer) header to the user and
// token and adds both to the context. Requests without the header pass through
// anonymously; a header carrying a bad token is rejected on every route.
func TokenAuth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			parts := strings.Fields(r.Header.Get("Authorization"))
			if len(parts) == 0 || !isAuthKeyword(parts[0]) {
				next.ServeHTTP(w, r)
				return
			}

			if len(parts) == 1 {
				writeUnauthorized(w, detailNoCredentials)
				return
			}
			if len(parts) > 2 {
				writeUnauthorized(w, detailTokenHasSpaces)
				return
			}

			user, token, err := authService.Authenticate(parts[1])
			switch {
			case errors.Is(err, service.ErrInvalidToken):
				writeUnauthorized(w, detailInvalidToken)
				return
			case errors.Is(err, service.ErrUserInactive):
				writeUnauthorized(w, detailUserInactive)
				return
			case err != nil:
				slog.Error("failed to authenticate token", "error", err, "path", r.URL.Path)
				writeDetail(w, http.StatusInternalServerError, detailServerError)
				return
			}

			ctx := ctxkeys.WithUser(r.Context(), user)
			ctx = ctxkeys.WithToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isAuthKeyword(s string) bool {
	for _, keyword := range authKeywords {
		if strings.EqualFold(s, keyword) {
			return true
		}
	}
	return false
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user == nil {
			writeUnauthorized(w, detailNotAuthenticated)
			return
		}

		next.ServeHTTP(w, r)
	}
}
