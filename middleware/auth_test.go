package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hushmail/hushmail-be/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthEngine(verifier Verifier, config *AuthConfig) *gin.Engine {
	r := gin.New()
	r.GET("/whoami", GenAuth(verifier, config), func(c *gin.Context) {
		identity := GetIdentityMaybe(c)
		if identity == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, identity.Id)
	})
	return r
}

func TestSessionVerifier_SignThenVerify(t *testing.T) {
	sv := NewSessionVerifier("secret")
	token, err := sv.Sign(&model.Identity{Id: "a@test", Name: "Alice", Avatar: "https://img.test/a.png"}, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	identity, err := sv.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity.Id != "a@test" || identity.Name != "Alice" || identity.Avatar != "https://img.test/a.png" {
		t.Fatalf("identity=%+v", identity)
	}

	if _, err := NewSessionVerifier("other").Verify(context.Background(), token); err == nil {
		t.Fatalf("token signed with another secret was accepted")
	}
	expired, _ := sv.Sign(&model.Identity{Id: "a@test"}, -time.Minute)
	if _, err := sv.Verify(context.Background(), expired); err == nil {
		t.Fatalf("expired token was accepted")
	}
	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "a@test"}).SignedString([]byte("secret"))
	if _, err := sv.Verify(context.Background(), noExp); err == nil {
		t.Fatalf("token without exp was accepted")
	}
}

func TestGenAuth(t *testing.T) {
	sv := NewSessionVerifier("secret")
	token, _ := sv.Sign(&model.Identity{Id: "a@test"}, time.Hour)

	tests := []struct {
		name     string
		optional bool
		header   string
		cookie   string
		status   int
		body     string
	}{
		{"bearer", false, "Bearer " + token, "", http.StatusOK, "a@test"},
		{"cookie", false, "", token, http.StatusOK, "a@test"},
		{"missing", false, "", "", http.StatusUnauthorized, ""},
		{"malformed header", false, "Token " + token, "", http.StatusUnauthorized, ""},
		{"bad token", false, "Bearer nope", "", http.StatusUnauthorized, ""},
		{"optional missing", true, "", "", http.StatusOK, "anonymous"},
		{"optional bad token", true, "Bearer nope", "", http.StatusOK, "anonymous"},
		{"optional bearer", true, "Bearer " + token, "", http.StatusOK, "a@test"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthEngine(sv, &AuthConfig{SessionNotRequired: tt.optional, Cookie: "token"})
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("status=%d want=%d body=%s", rec.Code, tt.status, rec.Body.String())
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Fatalf("body=%q want=%q", rec.Body.String(), tt.body)
			}
		})
	}
}

func TestIdentityFromClaims(t *testing.T) {
	identity, err := identityFromClaims(map[string]interface{}{"email": "a@test", "picture": "p"})
	if err != nil || identity.Id != "a@test" || identity.Avatar != "p" {
		t.Fatalf("identity=%+v err=%v", identity, err)
	}
	if _, err := identityFromClaims(map[string]interface{}{"name": "x"}); err != ErrNoEmailClaim {
		t.Fatalf("err=%v want=%v", err, ErrNoEmailClaim)
	}
}

func TestRequestId(t *testing.T) {
	r := gin.New()
	r.Use(RequestId())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(rec.Header().Get(RequestIdHeader)) != 36 {
		t.Fatalf("generated id=%q", rec.Header().Get(RequestIdHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIdHeader, "abc")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIdHeader); got != "abc" {
		t.Fatalf("id=%q want=abc", got)
	}
}
