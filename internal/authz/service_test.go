package authz

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceAdminWithRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("coupon_ops", "/admin/promotions/:id", "GET"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}
	if err := svc.SetAdminRoles(1, []string{"coupon_ops"}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}

	allow, err := svc.EnforceAdmin(1, "/api/v1/admin/promotions/42", "get")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.EnforceAdmin(1, "/api/v1/admin/promotions/42", "POST")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}
}

func TestSetAdminRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("coupon_ops", "/admin/coupons", "GET"); err != nil {
		t.Fatalf("grant coupon_ops policy failed: %v", err)
	}
	if err := svc.GrantRolePolicy("audience", "/admin/clusters/:id/members/:user_id", "GET"); err != nil {
		t.Fatalf("grant audience policy failed: %v", err)
	}

	if err := svc.SetAdminRoles(2, []string{"coupon_ops"}); err != nil {
		t.Fatalf("set first role failed: %v", err)
	}
	roles, err := svc.GetAdminRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:coupon_ops" {
		t.Fatalf("roles want [role:coupon_ops], got=%v", roles)
	}

	if err := svc.SetAdminRoles(2, []string{"audience"}); err != nil {
		t.Fatalf("set second role failed: %v", err)
	}
	roles, err = svc.GetAdminRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:audience" {
		t.Fatalf("roles want [role:audience], got=%v", roles)
	}

	allow, err := svc.EnforceAdmin(2, "/admin/coupons", "GET")
	if err != nil {
		t.Fatalf("enforce old role failed: %v", err)
	}
	if allow {
		t.Fatalf("expected old role permission removed")
	}

	allow, err = svc.EnforceAdmin(2, "/admin/clusters/3/members/9", "GET")
	if err != nil {
		t.Fatalf("enforce new role failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected new role permission granted")
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/admin/promotions/:id", want: "/admin/promotions/:id"},
		{in: "/admin/promotions/:id", want: "/admin/promotions/:id"},
		{in: "admin/coupons", want: "/admin/coupons"},
		{in: "/api/v1", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("second bootstrap should be idempotent: %v", err)
	}

	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	wantRoles := map[string]bool{
		"role:marketing_viewer":  true,
		"role:promotion_manager": true,
		"role:audience_manager":  true,
	}
	for _, role := range roles {
		delete(wantRoles, role)
	}
	if len(wantRoles) != 0 {
		t.Fatalf("builtin roles missing: %v", wantRoles)
	}

	if err := svc.SetAdminRoles(3, []string{RolePromotionManager}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}

	allow, err := svc.EnforceAdmin(3, "/api/v1/admin/coupons", "GET")
	if err != nil {
		t.Fatalf("enforce inherited viewer failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected inherited viewer permission")
	}

	allow, err = svc.EnforceAdmin(3, "/api/v1/admin/promotions/7/deactivate", "POST")
	if err != nil {
		t.Fatalf("enforce manager write failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected promotion manager to deactivate promotions")
	}

	allow, err = svc.EnforceAdmin(3, "/api/v1/admin/clusters/1/members/2", "POST")
	if err != nil {
		t.Fatalf("enforce cluster write failed: %v", err)
	}
	if allow {
		t.Fatalf("expected promotion manager denied cluster membership writes")
	}

	policies, err := svc.GetAdminPolicies(3)
	if err != nil {
		t.Fatalf("get admin policies failed: %v", err)
	}
	if len(policies) == 0 {
		t.Fatalf("expected effective policies for admin")
	}
}

func TestGrantRolePolicyRejectsNonAdminObject(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("coupon_ops", "/api/v1/coupons/apply", "POST"); !errors.Is(err, ErrObjectNotManage) {
		t.Fatalf("want ErrObjectNotManage, got %v", err)
	}
	if err := svc.GrantRolePolicy("coupon_ops", "/admin/coupons", " "); !errors.Is(err, ErrActionRequired) {
		t.Fatalf("want ErrActionRequired, got %v", err)
	}
	if _, err := svc.EnsureRole("__anchor__"); !errors.Is(err, ErrRoleReserved) {
		t.Fatalf("want ErrRoleReserved, got %v", err)
	}
}

func TestGetAdminPoliciesIncludesInheritedRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	if err := svc.SetAdminRoles(5, []string{RoleAudienceManager}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}
	policies, err := svc.GetAdminPolicies(5)
	if err != nil {
		t.Fatalf("get admin policies failed: %v", err)
	}
	var hasViewer, hasCluster bool
	for _, p := range policies {
		if p.Subject == "role:marketing_viewer" && p.Object == "/admin/coupons" {
			hasViewer = true
		}
		if p.Subject == "role:audience_manager" && p.Object == "/admin/clusters/:id/members/:user_id" {
			hasCluster = true
		}
	}
	if !hasViewer || !hasCluster {
		t.Fatalf("expected inherited and direct policies, got %+v", policies)
	}
}
