package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey int

const ctxKeyPrincipal ctxKey = iota

// Principal is the authenticated identity carried in request context.
// Handlers read it instead of touching cookies or global session state.
type Principal struct {
	UserID string
	Name   string
	Role   string
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal).(Principal)
	return p, ok
}

func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal, p)
}

// RequireRole verifies the bearer token and rejects requests whose principal
// does not hold one of the given roles.
func RequireRole(secret string, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if !strings.HasPrefix(raw, "Bearer ") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			claims, err := ParseAndVerifyHS256(strings.TrimPrefix(raw, "Bearer "), secret)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			if len(roles) > 0 && !roleAllowed(claims.Role, roles) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			ctx := ContextWithPrincipal(r.Context(), Principal{
				UserID: claims.Sub,
				Name:   claims.Name,
				Role:   claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func roleAllowed(role string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(role, a) {
			return true
		}
	}
	return false
}
