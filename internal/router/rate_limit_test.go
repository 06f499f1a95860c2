package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestKeyByUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/coupons/apply", nil)
	c.Request.RemoteAddr = "5.6.7.8:1234"

	if key := KeyByUser(c); key != "5.6.7.8" {
		t.Fatalf("anonymous key want ip got %s", key)
	}
	c.Set("user_id", uint(12))
	if key := KeyByUser(c); key != "user:12" {
		t.Fatalf("user key want user:12 got %s", key)
	}
}

func TestRateLimitRuleKey(t *testing.T) {
	rule := RateLimitRule{Prefix: "vn:rate:coupon_apply"}
	if got := rule.key("user:3"); got != "vn:rate:coupon_apply:user:3" {
		t.Fatalf("prefixed key got %s", got)
	}
	if got := (RateLimitRule{}).key("user:3"); got != "user:3" {
		t.Fatalf("bare key got %s", got)
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByUser))
	r.POST("/coupons/apply", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/coupons/apply", nil))
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok":true`) {
			t.Fatalf("request %d should pass through, got %d %s", i, w.Code, w.Body.String())
		}
	}
}

func TestDecide(t *testing.T) {
	rule := RateLimitRule{WindowSeconds: 60, MaxRequests: 10, BlockSeconds: 300}
	cases := []struct {
		name      string
		values    []int64
		allowed   bool
		retry     int
		expectErr bool
	}{
		{name: "first attempt", values: []int64{1, 60}, allowed: true},
		{name: "at limit", values: []int64{10, 12}, allowed: true},
		{name: "over limit", values: []int64{11, 300}, retry: 300},
		{name: "blocked", values: []int64{-1, 42}, retry: 42},
		{name: "ttl missing falls back to window", values: []int64{11, -1}, retry: 60},
		{name: "short reply", values: []int64{1}, expectErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decide(tc.values, rule)
			if tc.expectErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Allowed != tc.allowed || got.RetryAfter != tc.retry {
				t.Fatalf("decision want allowed=%v retry=%d got %+v", tc.allowed, tc.retry, got)
			}
		})
	}
}
