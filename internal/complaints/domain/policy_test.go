package domain

import (
	"testing"

	identity "citizenconnect_backend/internal/identity/domain"
)

func TestAuthorizeUpdateStatusRoles(t *testing.T) {
	allowed := map[string]bool{
		identity.RoleWardOfficer:     true,
		identity.RoleDepartmentAdmin: true,
		identity.RoleCityAdmin:       true,
		identity.RoleSuperAdmin:      true,
		identity.RoleMayor:           true,
	}

	roles := []string{
		identity.RoleCitizen,
		identity.RoleDepartmentEmployee,
		identity.RoleDepartmentAdmin,
		identity.RoleWardOfficer,
		identity.RoleCityAdmin,
		identity.RoleSuperAdmin,
		identity.RoleMayor,
	}

	for _, role := range roles {
		reason := Authorize(OpUpdateStatus, Actor{Role: role, Department: "Water Department"}, "Water Department")
		if allowed[role] && reason != "" {
			t.Errorf("Authorize(update_status, %s) denied: %s", role, reason)
		}
		if !allowed[role] && reason == "" {
			t.Errorf("Authorize(update_status, %s) should be denied", role)
		}
	}
}

func TestAuthorizeAssignmentRoles(t *testing.T) {
	for _, op := range []Operation{OpAssign, OpReassign, OpUnassign} {
		for _, role := range []string{identity.RoleCityAdmin, identity.RoleSuperAdmin} {
			if reason := Authorize(op, Actor{Role: role}, "Health Department"); reason != "" {
				t.Errorf("Authorize(%s, %s) denied: %s", op, role, reason)
			}
		}

		if reason := Authorize(op, Actor{Role: identity.RoleCitizen}, ""); reason == "" {
			t.Errorf("Authorize(%s, CITIZEN) should be denied", op)
		}
		if reason := Authorize(op, Actor{Role: identity.RoleDepartmentEmployee}, ""); reason == "" {
			t.Errorf("Authorize(%s, DEPARTMENT_EMPLOYEE) should be denied", op)
		}
	}
}

func TestAuthorizeDepartmentAdminScope(t *testing.T) {
	actor := Actor{Role: identity.RoleDepartmentAdmin, Department: "Water Department"}

	if reason := Authorize(OpAssign, actor, "Water Department"); reason != "" {
		t.Errorf("same-department assign denied: %s", reason)
	}
	if reason := Authorize(OpAssign, actor, "Health Department"); reason == "" {
		t.Error("cross-department assign should be denied")
	}
	if reason := Authorize(OpAssign, Actor{Role: identity.RoleDepartmentAdmin}, "Water Department"); reason == "" {
		t.Error("department admin without a department should be denied")
	}

	// Status updates are not department scoped for admins.
	if reason := Authorize(OpUpdateStatus, actor, "Health Department"); reason != "" {
		t.Errorf("cross-department status update denied: %s", reason)
	}
}

func TestAuthorizeUnknownOperation(t *testing.T) {
	if reason := Authorize(Operation("archive"), Actor{Role: identity.RoleSuperAdmin}, ""); reason == "" {
		t.Error("unknown operation should be denied")
	}
}
