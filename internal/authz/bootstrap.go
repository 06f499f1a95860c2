package authz

import "fmt"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// 内置角色名
const (
	RoleMarketingViewer  = "marketing_viewer"
	RolePromotionManager = "promotion_manager"
	RoleAudienceManager  = "audience_manager"
)

// BuiltinRoleSeeds 系统预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: RoleMarketingViewer,
			Policies: []Policy{
				{Object: "/admin/promotions", Action: "GET"},
				{Object: "/admin/promotions/:id", Action: "GET"},
				{Object: "/admin/coupons", Action: "GET"},
				{Object: "/admin/coupons/:id/usages", Action: "GET"},
				{Object: "/admin/authz/me", Action: "GET"},
			},
		},
		{
			Role:     RolePromotionManager,
			Inherits: []string{RoleMarketingViewer},
			Policies: []Policy{
				{Object: "/admin/promotions", Action: "POST"},
				{Object: "/admin/promotions/:id", Action: "PUT"},
				{Object: "/admin/promotions/:id/activate", Action: "POST"},
				{Object: "/admin/promotions/:id/deactivate", Action: "POST"},
				{Object: "/admin/coupons", Action: "POST"},
				{Object: "/admin/coupons/:id/status", Action: "PUT"},
			},
		},
		{
			Role:     RoleAudienceManager,
			Inherits: []string{RoleMarketingViewer},
			Policies: []Policy{
				{Object: "/admin/clusters/:id/members/:user_id", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略，可重复执行
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}
	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return fmt.Errorf("builtin role %s: %w", seed.Role, err)
		}
		for _, parent := range seed.Inherits {
			parentRole, err := s.EnsureRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link %s to %s: %w", role, parentRole, err)
			}
		}
		for _, policy := range seed.Policies {
			if err := s.GrantRolePolicy(role, policy.Object, policy.Action); err != nil {
				return fmt.Errorf("builtin policy %s %s: %w", policy.Action, policy.Object, err)
			}
		}
	}
	return nil
}
