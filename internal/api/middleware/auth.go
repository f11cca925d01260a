package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/dom/blitzadex/internal/domain"
	"github.com/dom/blitzadex/internal/service"
)

type contextKey string

const (
	SubjectKey contextKey = "subject"
)

// AdminAuth admits requests bearing a token with the admin role. When no JWT
// secret is configured every request is refused with 503.
func AdminAuth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authService.Enabled() {
				log.Printf("ERROR [middleware.AdminAuth] %v", domain.ErrSyncDisabled)
				http.Error(w, "Sync endpoint disabled", http.StatusServiceUnavailable)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Printf("ERROR [middleware.AdminAuth] missing authorization header")
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Printf("ERROR [middleware.AdminAuth] invalid authorization header format")
				http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
				return
			}

			subject, err := authService.ValidateAdminToken(parts[1])
			if err != nil {
				log.Printf("ERROR [middleware.AdminAuth] token validation failed: %v", err)
				if errors.Is(err, service.ErrNotAdmin) {
					http.Error(w, "Admin role required", http.StatusForbidden)
					return
				}
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), SubjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetSubject(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(SubjectKey).(string)
	return subject, ok
}
