package authz

import (
	"fmt"

	"github.com/inkfolio-shop/internal/constants"
)

// RoleSeed is a predefined role and its grants.
type RoleSeed struct {
	Role     string
	Policies []Policy
}

// BuiltinRoleSeeds defines the fixed role matrix. Super admins may do
// anything under /admin; staff manage content and fulfill orders but cannot
// touch money (refunds, statistics) or delete records permanently.
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.AdminRoleSuper,
			Policies: []Policy{
				{Object: "/api/admin/*", Action: "*"},
			},
		},
		{
			Role: constants.AdminRoleStaff,
			Policies: []Policy{
				{Object: "/api/admin/*", Action: "GET"},
				{Object: "/api/admin/products", Action: "POST"},
				{Object: "/api/admin/products/:id", Action: "PUT"},
				{Object: "/api/admin/products/:id/variants", Action: "POST"},
				{Object: "/api/admin/variants/:id", Action: "PUT"},
				{Object: "/api/admin/products/:id/images", Action: "POST"},
				{Object: "/api/admin/categories", Action: "POST"},
				{Object: "/api/admin/categories/:id", Action: "PUT"},
				{Object: "/api/admin/characters", Action: "POST"},
				{Object: "/api/admin/characters/:id", Action: "PUT"},
				{Object: "/api/admin/comics", Action: "POST"},
				{Object: "/api/admin/comics/:id", Action: "PUT"},
				{Object: "/api/admin/orders/:id/fulfill", Action: "POST"},
				{Object: "/api/admin/notifications/:id/read", Action: "POST"},
				{Object: "/api/admin/notifications/read-all", Action: "POST"},
				{Object: "/api/admin/upload", Action: "POST"},
			},
		},
	}
}

// BootstrapBuiltinRoles seeds the role matrix. Safe to run on every start;
// existing grants are left untouched.
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	for _, seed := range BuiltinRoleSeeds() {
		for _, policy := range seed.Policies {
			if err := s.grantRolePolicy(seed.Role, policy); err != nil {
				return err
			}
		}
	}
	return s.ReloadPolicy()
}
