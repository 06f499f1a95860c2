package router

import (
	"testing"

	"github.com/gin-gonic/gin"
)

func TestBuildAdminPermissionCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	noop := func(c *gin.Context) {}
	r.GET("/api/v1/admin/promotions", noop)
	r.POST("/api/v1/admin/promotions/:id/deactivate", noop)
	r.PUT("/api/v1/admin/coupons/:id/status", noop)
	r.GET("/api/v1/admin/authz/me", noop)
	r.GET("/api/v1/cart", noop)

	items := buildAdminPermissionCatalog(r)
	if len(items) != 4 {
		t.Fatalf("expected 4 admin permissions, got=%d (%+v)", len(items), items)
	}
	modules := map[string]int{}
	for _, item := range items {
		modules[item.Module]++
		if item.Object == "/cart" {
			t.Fatalf("public route must not appear in admin catalog")
		}
	}
	if modules["promotions"] != 2 || modules["coupons"] != 1 || modules["authz"] != 1 {
		t.Fatalf("unexpected module grouping: %v", modules)
	}
	if items[0].Module != "authz" {
		t.Fatalf("catalog should be sorted by module, first=%s", items[0].Module)
	}
}

func TestDeriveAdminPermissionModule(t *testing.T) {
	cases := map[string]string{
		"/admin/promotions/:id": "promotions",
		"/admin/authz/roles":    "authz",
		"/admin":                "admin",
		"":                      "system",
		"/public/anything":      "public",
	}
	for in, want := range cases {
		if got := deriveAdminPermissionModule(in); got != want {
			t.Fatalf("module for %q want %s got %s", in, want, got)
		}
	}
}
