package httpd

import (
	"context"
	"net/http"
	"strings"

	"github.com/recordpair/review-service/internal/models"
)

type contextKey string

const principalKey contextKey = "principal"

// Authenticate проверяет Bearer-токен и кладёт Principal в контекст запроса.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Bearer token is required")
			return
		}

		principal, err := h.authService.ParseToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, *principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles пропускает только перечисленные роли. Вешается после Authenticate.
func (h *Handler) RequireRoles(roles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := principalFrom(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			if _, ok := allowed[principal.Role]; !ok {
				writeError(w, http.StatusForbidden, "Insufficient role")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func principalFrom(r *http.Request) (models.Principal, bool) {
	principal, ok := r.Context().Value(principalKey).(models.Principal)
	return principal, ok
}
