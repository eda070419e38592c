package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func TestIPIdentifier(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"remote addr", "203.0.113.7:4912", "", "203.0.113.7"},
		{"forwarded single", "10.0.0.1:80", "198.51.100.9", "198.51.100.9"},
		{"forwarded chain uses first hop", "10.0.0.1:80", "198.51.100.9, 10.0.0.2", "198.51.100.9"},
		{"forwarded with spaces", "10.0.0.1:80", " 198.51.100.9 ", "198.51.100.9"},
		{"unparseable remote addr", "not-an-addr", "", "not-an-addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}

			if got := IPIdentifier(r); got != tt.want {
				t.Errorf("IPIdentifier() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJWTIdentifier(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+signedToken(t, jwt.MapClaims{"sub": "patient-42"}))

	if got := JWTIdentifier(r); got != "user:patient-42" {
		t.Errorf("JWTIdentifier() = %q, want user:patient-42", got)
	}
}

func TestJWTIdentifier_Missing(t *testing.T) {
	tests := []struct {
		name string
		auth string
	}{
		{"no header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.auth != "" {
				r.Header.Set("Authorization", tt.auth)
			}
			if got := JWTIdentifier(r); got != "" {
				t.Errorf("JWTIdentifier() = %q, want empty", got)
			}
		})
	}
}

func TestJWTIdentifier_NoSubject(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+signedToken(t, jwt.MapClaims{"aud": "aiguard"}))

	if got := JWTIdentifier(r); got != "" {
		t.Errorf("JWTIdentifier() without sub = %q, want empty", got)
	}
}

func TestDefaultIdentifier(t *testing.T) {
	// Authenticated requests use the JWT subject.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.7:4912"
	r.Header.Set("Authorization", "Bearer "+signedToken(t, jwt.MapClaims{"sub": "patient-42"}))
	if got := DefaultIdentifier(r); got != "user:patient-42" {
		t.Errorf("DefaultIdentifier() = %q, want user:patient-42", got)
	}

	// Anonymous requests fall back to the client IP.
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.7:4912"
	if got := DefaultIdentifier(r); got != "ip:203.0.113.7" {
		t.Errorf("DefaultIdentifier() = %q, want ip:203.0.113.7", got)
	}
}
