package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, secret string, method jwt.SigningMethod) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "client-app",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
	}
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestBearerJWT(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		header string
		query  string
		want   int
	}{
		{name: "auth not configured", secret: "", header: "Bearer x", want: http.StatusUnauthorized},
		{name: "missing header", secret: "secret", want: http.StatusUnauthorized},
		{name: "wrong secret", secret: "secret", header: "Bearer " + signedToken(t, "wrong", jwt.SigningMethodHS256), want: http.StatusUnauthorized},
		{name: "wrong algorithm", secret: "secret", header: "Bearer " + signedToken(t, "secret", jwt.SigningMethodHS512), want: http.StatusUnauthorized},
		{name: "valid header", secret: "secret", header: "Bearer " + signedToken(t, "secret", jwt.SigningMethodHS256), want: http.StatusOK},
		{name: "valid query token", secret: "secret", query: signedToken(t, "secret", jwt.SigningMethodHS256), want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/v1/sessions"
			if tt.query != "" {
				target += "?access_token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			BearerJWT(tt.secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				claims, ok := ClaimsFromContext(r.Context())
				if !ok || claims.Subject != "client-app" {
					t.Fatalf("expected client claims in context, got %+v", claims)
				}
				w.WriteHeader(http.StatusOK)
			})).ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected status %d, got %d", tt.want, rec.Code)
			}
		})
	}
}
