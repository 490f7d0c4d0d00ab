package auth

import (
	"context"
	"net/http"
	"strings"

	"delivery-marketplace/internal/domain"
)

type ctxKey struct{}

// Middleware authenticates Bearer requests and stores the resolved user in
// the request context. Requests without a valid credential get a bare 401.
func Middleware(identity *Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token := strings.TrimPrefix(header, "Bearer ")
			if header == "" || token == header || token == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			user, err := identity.Resolve(r.Context(), token)
			if err != nil || user == nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFromContext extracts the authenticated user placed by Middleware.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*domain.User)
	return u, ok
}
