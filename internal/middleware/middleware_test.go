package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"onionpay-api/internal/constant"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestRecover(t *testing.T) {
	r := gin.New()
	r.Use(Trace(), Recover())
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		TraceID string `json:"traceId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Message != "internal error" || body.TraceID == "" || body.TraceID != w.Header().Get(TraceHeader) {
		t.Errorf("body = %+v", body)
	}
}

func TestPresentedApiKey(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"bearer", map[string]string{"Authorization": "Bearer onp_sk_abc"}, "onp_sk_abc"},
		{"lowercase bearer", map[string]string{"Authorization": "bearer onp_pk_abc"}, "onp_pk_abc"},
		{"raw authorization", map[string]string{"Authorization": "onp_sk_raw"}, "onp_sk_raw"},
		{"x-api-key", map[string]string{"X-API-Key": " onp_pk_hdr "}, "onp_pk_hdr"},
		{"none", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}
			if got := PresentedApiKey(c); got != tt.want {
				t.Errorf("PresentedApiKey = %q, want %q", got, tt.want)
			}
		})
	}
}

func sign(t *testing.T, secret string, claims jwt.MapClaims, method jwt.SigningMethod) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestParseAdminToken(t *testing.T) {
	const secret = "s3cret"
	future := time.Now().Add(time.Hour).Unix()

	p, err := ParseAdminToken(secret, sign(t, secret, jwt.MapClaims{
		"sub": "u-1", "email": "a@b.c", "given_name": "Asha", "family_name": "Rao", "picture": "https://img", "exp": future,
	}, jwt.SigningMethodHS256))
	if err != nil {
		t.Fatalf("ParseAdminToken: %v", err)
	}
	if p.UserID != "u-1" || p.Email != "a@b.c" || p.FirstName != "Asha" || p.LastName != "Rao" || p.ProfileImageURL != "https://img" {
		t.Errorf("principal = %+v", p)
	}

	tests := []struct {
		name  string
		token string
		code  int
	}{
		{"expired", sign(t, secret, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Hour).Unix()}, jwt.SigningMethodHS256), constant.CodeTokenExpired},
		{"wrong secret", sign(t, "other", jwt.MapClaims{"sub": "u", "exp": future}, jwt.SigningMethodHS256), constant.CodeTokenInvalid},
		{"wrong algorithm", sign(t, secret, jwt.MapClaims{"sub": "u", "exp": future}, jwt.SigningMethodHS512), constant.CodeTokenInvalid},
		{"missing subject", sign(t, secret, jwt.MapClaims{"exp": future}, jwt.SigningMethodHS256), constant.CodeTokenInvalid},
		{"garbage", "not-a-jwt", constant.CodeTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseAdminToken(secret, tt.token); !constant.IsCode(err, tt.code) {
				t.Errorf("got %v, want code %d", err, tt.code)
			}
		})
	}

	if _, err := ParseAdminToken("", "x"); !constant.IsCode(err, constant.CodeServiceUnavailable) {
		t.Errorf("unconfigured secret: %v", err)
	}
}

func TestAdminAuthQueryToken(t *testing.T) {
	const secret = "s3cret"
	r := gin.New()
	r.GET("/ws", AdminAuth(secret), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentPrincipal(c).UserID)
	})

	tok := sign(t, secret, jwt.MapClaims{"sub": "admin-9", "exp": time.Now().Add(time.Hour).Unix()}, jwt.SigningMethodHS256)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws?token="+tok, nil))
	if w.Code != http.StatusOK || w.Body.String() != "admin-9" {
		t.Errorf("got %d %q", w.Code, w.Body.String())
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Now()
	if !rl.allow("1.1.1.1", now) || !rl.allow("1.1.1.1", now) {
		t.Fatal("burst should be allowed")
	}
	if rl.allow("1.1.1.1", now) {
		t.Error("third request within the same instant should be limited")
	}
	if !rl.allow("2.2.2.2", now) {
		t.Error("limits are per client")
	}
	if !rl.allow("1.1.1.1", now.Add(1100*time.Millisecond)) {
		t.Error("token should refill after one second")
	}

	rl.visitors["1.1.1.1"].lastSeen = now.Add(-time.Hour)
	rl.Cleanup(time.Minute)
	if _, ok := rl.visitors["1.1.1.1"]; ok {
		t.Error("idle visitor not cleaned up")
	}
	if _, ok := rl.visitors["2.2.2.2"]; !ok {
		t.Error("recent visitor removed")
	}
}
