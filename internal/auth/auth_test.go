package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ananyateklu/second-brain-sub004/devmode"
)

func TestExtractAPIKey(t *testing.T) {
	cases := []struct {
		header string
		want   string
		err    error
	}{
		{"", "", ErrMissingKey},
		{"Basic abc", "", ErrBadFormat},
		{"Bearer", "", ErrBadFormat},
		{"Bearer k1", "k1", nil},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			r.Header.Set("Authorization", tc.header)
		}
		got, err := ExtractAPIKey(r)
		if got != tc.want || err != tc.err {
			t.Errorf("%q: got (%q, %v), want (%q, %v)", tc.header, got, err, tc.want, tc.err)
		}
	}
}

func TestMiddleware(t *testing.T) {
	authz := NewKeyAuthorizer(devmode.APIKey)
	var seen *Actor
	h := Middleware(authz, "/api/health")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/items", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no key: status %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("open path: status %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	req.Header.Set("Authorization", "Bearer "+devmode.APIKey)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || seen == nil || !seen.DevMode {
		t.Fatalf("valid key: status %d actor %+v", rec.Code, seen)
	}
}

func TestKeyAuthorizer_Rejects(t *testing.T) {
	if _, err := NewKeyAuthorizer("k").Authorize(context.Background(), "x"); err != ErrInvalidKey {
		t.Fatalf("err = %v", err)
	}
	if _, err := NewKeyAuthorizer("").Authorize(context.Background(), ""); err != ErrInvalidKey {
		t.Fatalf("empty configured key must reject, got %v", err)
	}
}
