package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func authRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(secret))
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": c.GetString("subject")})
	})
	return r
}

func request(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthAcceptsSignedToken(t *testing.T) {
	r := authRouter("secret")
	token, err := SignToken("secret", "operator", time.Hour)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	w := request(r, token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body := w.Body.String(); body != `{"subject":"operator"}` {
		t.Errorf("body = %s", body)
	}
}

func TestAuthRejects(t *testing.T) {
	r := authRouter("secret")

	if w := request(r, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", w.Code)
	}
	if w := request(r, "garbage"); w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: status = %d, want 401", w.Code)
	}

	other, err := SignToken("other", "operator", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if w := request(r, other); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong secret: status = %d, want 401", w.Code)
	}

	expired, err := SignToken("secret", "operator", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if w := request(r, expired); w.Code != http.StatusUnauthorized {
		t.Errorf("expired token: status = %d, want 401", w.Code)
	}
}

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("third request should be limited")
	}
	// Other IPs get their own window.
	if !rl.Allow("10.0.0.2") {
		t.Error("different IP should pass")
	}
}
