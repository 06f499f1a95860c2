package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vitrina-next/internal/authz"
	"github.com/vitrina-next/internal/config"
	"github.com/vitrina-next/internal/http/response"
	"github.com/vitrina-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestCORSPolicyAllowOrigin(t *testing.T) {
	cases := []struct {
		name   string
		cfg    config.CORSConfig
		origin string
		want   string
	}{
		{name: "default wildcard", origin: "https://shop.example.com", want: "*"},
		{name: "wildcard with credentials echoes", cfg: config.CORSConfig{AllowedOrigins: []string{"*"}, AllowCredentials: true}, origin: "https://shop.example.com", want: "https://shop.example.com"},
		{name: "allow-list match ignores case", cfg: config.CORSConfig{AllowedOrigins: []string{"https://Admin.example.com"}}, origin: "https://admin.example.com", want: "https://admin.example.com"},
		{name: "allow-list miss", cfg: config.CORSConfig{AllowedOrigins: []string{"https://admin.example.com"}}, origin: "https://evil.example.com", want: ""},
		{name: "no origin header", cfg: config.CORSConfig{AllowedOrigins: []string{"https://admin.example.com"}}, origin: "", want: ""},
	}
	for _, tc := range cases {
		if got := newCORSPolicy(tc.cfg).allowOrigin(tc.origin); got != tc.want {
			t.Fatalf("%s: want %q got %q", tc.name, tc.want, got)
		}
	}
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(CORSMiddleware(config.CORSConfig{AllowedOrigins: []string{"https://admin.example.com"}, MaxAge: 600}))
	r.POST("/coupons/apply", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/coupons/apply", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status want 204 got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://admin.example.com" {
		t.Fatalf("allow origin got %q", got)
	}
	if got := w.Header().Get("Access-Control-Max-Age"); got != "600" {
		t.Fatalf("max age got %q", got)
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "Accept-Language") {
		t.Fatalf("default headers should allow Accept-Language")
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": response.RequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}

	w3 := httptest.NewRecorder()
	req3 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req3.Header.Set(requestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
	r.ServeHTTP(w3, req3)
	if got := w3.Header().Get(requestIDHeader); len(got) > maxRequestIDLength || got == "" {
		t.Fatalf("oversized request id should be replaced, got %q", got)
	}
}

type stubVerifier struct {
	user  *service.UserJWTClaims
	admin *service.AdminJWTClaims
}

func (s stubVerifier) ParseUserToken(tokenString string) (*service.UserJWTClaims, error) {
	if tokenString != "good" || s.user == nil {
		return nil, service.ErrTokenInvalid
	}
	return s.user, nil
}

func (s stubVerifier) ParseAdminToken(tokenString string) (*service.AdminJWTClaims, error) {
	if tokenString != "good" || s.admin == nil {
		return nil, service.ErrTokenInvalid
	}
	return s.admin, nil
}

func decodeStatusCode(t *testing.T, body []byte) int {
	t.Helper()
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp.StatusCode
}

func TestJWTAuthMiddlewareNilVerifier(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(JWTAuthMiddleware(nil))
	r.GET("/admin/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if code := decodeStatusCode(t, w.Body.Bytes()); code != 401 {
		t.Fatalf("status_code want 401 got %d", code)
	}
}

func TestUserJWTAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(UserJWTAuthMiddleware(stubVerifier{user: &service.UserJWTClaims{UserID: 9, Email: "u@example.com"}}))
	r.GET("/cart", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0, "user_id": c.GetUint("user_id")})
	})

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing", header: "", want: 401},
		{name: "malformed", header: "Token good", want: 401},
		{name: "invalid", header: "Bearer bad", want: 401},
		{name: "valid", header: "Bearer good", want: 0},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		r.ServeHTTP(w, req)
		if code := decodeStatusCode(t, w.Body.Bytes()); code != tc.want {
			t.Fatalf("%s: status_code want %d got %d", tc.name, tc.want, code)
		}
	}
}

func TestAdminJWTAuthMiddlewareSetsContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(JWTAuthMiddleware(stubVerifier{admin: &service.AdminJWTClaims{AdminID: 3, Username: "ops", IsSuper: true}}))
	r.GET("/admin/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"admin_id": c.GetUint("admin_id"),
			"is_super": c.GetBool(adminIsSuperContextKey),
		})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer good")
	r.ServeHTTP(w, req)

	var resp struct {
		AdminID uint `json:"admin_id"`
		IsSuper bool `json:"is_super"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.AdminID != 3 || !resp.IsSuper {
		t.Fatalf("unexpected admin context: %+v", resp)
	}
}

func TestAdminRBACMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:router_rbac?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := authz.NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := svc.GrantRolePolicy("coupon_ops", "/admin/coupons", "GET"); err != nil {
		t.Fatalf("grant policy failed: %v", err)
	}
	if err := svc.SetAdminRoles(5, []string{"coupon_ops"}); err != nil {
		t.Fatalf("set roles failed: %v", err)
	}

	newEngine := func(adminID uint, isSuper bool) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			c.Set("admin_id", adminID)
			c.Set(adminIsSuperContextKey, isSuper)
		}, AdminRBACMiddleware(svc))
		ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status_code": 0}) }
		r.GET("/api/v1/admin/coupons", ok)
		r.POST("/api/v1/admin/coupons", ok)
		return r
	}

	cases := []struct {
		name    string
		adminID uint
		isSuper bool
		method  string
		want    int
	}{
		{name: "granted read", adminID: 5, method: http.MethodGet, want: 0},
		{name: "write not granted", adminID: 5, method: http.MethodPost, want: 403},
		{name: "admin without roles", adminID: 6, method: http.MethodGet, want: 403},
		{name: "super admin bypass", adminID: 6, isSuper: true, method: http.MethodPost, want: 0},
		{name: "missing admin", adminID: 0, method: http.MethodGet, want: 401},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		newEngine(tc.adminID, tc.isSuper).ServeHTTP(w, httptest.NewRequest(tc.method, "/api/v1/admin/coupons", nil))
		if code := decodeStatusCode(t, w.Body.Bytes()); code != tc.want {
			t.Fatalf("%s: status_code want %d got %d", tc.name, tc.want, code)
		}
	}
}
