// Package authz enforces role-based access to the admin API. Policies are
// persisted through the gorm adapter so grants survive restarts.
package authz

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

// Subjects are namespaced so admin ids and role names can never collide in
// the policy table.
const (
	casbinTableName = "casbin_rule"
	rolePrefix      = "role:"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || r.sub == p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// Policy is one (object, action) grant.
type Policy struct {
	Object string `json:"object"`
	Action string `json:"action"`
}

// Service wraps the casbin enforcer.
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService builds an enforcer backed by the application database.
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("authz db is nil")
	}

	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter failed: %w", err)
	}

	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model failed: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer failed: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy failed: %w", err)
	}

	return &Service{enforcer: enforcer}, nil
}

// SubjectForAdmin builds the casbin subject of an admin account.
func SubjectForAdmin(adminID uint) string {
	return fmt.Sprintf("admin:%d", adminID)
}

// RoleSubject builds the casbin subject of a role name.
func RoleSubject(role string) string {
	return rolePrefix + strings.ToLower(strings.TrimSpace(role))
}

// EnforceAdmin reports whether an admin may perform act on obj.
func (s *Service) EnforceAdmin(adminID uint, obj, act string) (bool, error) {
	if s == nil || s.enforcer == nil {
		return false, fmt.Errorf("authz service unavailable")
	}
	return s.enforcer.Enforce(SubjectForAdmin(adminID), strings.TrimSpace(obj), strings.ToUpper(strings.TrimSpace(act)))
}

// AssignRole links an admin to a role.
func (s *Service) AssignRole(adminID uint, role string) error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	_, err := s.enforcer.AddNamedGroupingPolicy("g", SubjectForAdmin(adminID), RoleSubject(role))
	if err != nil {
		return fmt.Errorf("assign role failed: %w", err)
	}
	return nil
}

// grantRolePolicy adds one grant to a role, ignoring duplicates.
func (s *Service) grantRolePolicy(role string, policy Policy) error {
	action := strings.ToUpper(strings.TrimSpace(policy.Action))
	if _, err := s.enforcer.AddPolicy(RoleSubject(role), strings.TrimSpace(policy.Object), action); err != nil {
		return fmt.Errorf("grant policy failed: %w", err)
	}
	return nil
}

// ReloadPolicy re-reads policies from storage.
func (s *Service) ReloadPolicy() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	return s.enforcer.LoadPolicy()
}
