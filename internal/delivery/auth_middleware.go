package delivery

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
)

type ctxKey int

const claimsKey ctxKey = iota

func withClaims(ctx context.Context, c *ports.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFrom returns the caller, or nil for anonymous requests.
func ClaimsFrom(ctx context.Context) *ports.Claims {
	c, _ := ctx.Value(claimsKey).(*ports.Claims)
	return c
}

func tokenFrom(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if t, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(t)
		}
	}
	return r.Header.Get("X-Auth")
}

// AuthMiddleware resolves the caller when a token is present. Requests
// without a token pass through anonymously; a bad token is rejected.
func AuthMiddleware(auth ports.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFrom(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ValidateToken(r.Context(), token)
			if err != nil {
				writeFail(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ClaimsFrom(r.Context()) == nil {
			writeFail(w, http.StatusUnauthorized, "missing token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := ClaimsFrom(r.Context())
			if c == nil {
				writeFail(w, http.StatusUnauthorized, "missing token")
				return
			}
			for _, role := range roles {
				if c.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeFail(w, http.StatusForbidden, "forbidden")
		})
	}
}

// CronAuth accepts "Authorization: Bearer <secret>" or "X-Cron-Secret".
// An empty secret disables the endpoint.
func CronAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-Cron-Secret")
			if got == "" {
				got, _ = strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			}
			if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				writeFail(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
