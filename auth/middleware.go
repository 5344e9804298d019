package auth

import (
	"context"
	"net/http"
	"strings"

	"pairchat/domain"
)

type contextKey string

const identityKey contextKey = "identity"

// Verifier turns an opaque credential into an authenticated identity.
// The HTTP middleware and the WebSocket handshake share one instance so the
// two paths can never drift apart.
type Verifier interface {
	Verify(credential string) (domain.Identity, error)
}

// Middleware validates the Bearer token of incoming requests and injects
// the resulting identity into the request context. Requests without a valid
// credential are rejected, never downgraded to anonymous.
func Middleware(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing token", http.StatusUnauthorized)
				return
			}

			identity, err := verifier.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// WithIdentity returns a child context carrying the authenticated identity.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext extracts the identity injected by Middleware.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok
}
