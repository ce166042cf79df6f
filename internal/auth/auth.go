// Package auth authenticates item service requests with a bearer API key.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/ananyateklu/second-brain-sub004/devmode"
)

var (
	ErrMissingKey = errors.New("missing Authorization header")
	ErrBadFormat  = errors.New("invalid Authorization header format, expected 'Bearer <api_key>'")
	ErrInvalidKey = errors.New("invalid API key")
)

// Actor is the authenticated caller.
type Actor struct {
	ID      string
	DevMode bool
}

// Authorizer validates API keys.
type Authorizer interface {
	Authorize(ctx context.Context, apiKey string) (*Actor, error)
}

// KeyAuthorizer accepts exactly one configured key.
type KeyAuthorizer struct {
	key string
}

func NewKeyAuthorizer(key string) *KeyAuthorizer { return &KeyAuthorizer{key: key} }

func (a *KeyAuthorizer) Authorize(_ context.Context, apiKey string) (*Actor, error) {
	if a.key == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(a.key)) != 1 {
		return nil, ErrInvalidKey
	}
	return &Actor{ID: "owner", DevMode: devmode.IsDevKey(apiKey)}, nil
}

// ExtractAPIKey extracts API key from Authorization header
func ExtractAPIKey(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", ErrMissingKey
	}
	parts := strings.Split(h, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrBadFormat
	}
	return parts[1], nil
}

type actorKey struct{}

// FromContext returns the actor stored by Middleware.
func FromContext(ctx context.Context) (*Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(*Actor)
	return a, ok
}

// Middleware rejects requests without a valid key with 401. Paths in open
// are served without authentication.
func Middleware(authz Authorizer, open ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range open {
				if r.URL.Path == p {
					next.ServeHTTP(w, r)
					return
				}
			}
			key, err := ExtractAPIKey(r)
			if err == nil {
				var actor *Actor
				if actor, err = authz.Authorize(r.Context(), key); err == nil {
					next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey{}, actor)))
					return
				}
			}
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("WWW-Authenticate", "Bearer")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Unauthorized","code":401,"message":"` + err.Error() + `"}`))
		})
	}
}
