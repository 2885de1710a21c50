package domain

import (
	identity "citizenconnect_backend/internal/identity/domain"
)

// Operation names a privileged complaint action.
type Operation string

const (
	OpUpdateStatus Operation = "update_status"
	OpAssign       Operation = "assign"
	OpReassign     Operation = "reassign"
	OpUnassign     Operation = "unassign"
	OpViewAll      Operation = "view_all"
)

// Actor is the minimal identity slice the policy needs.
type Actor struct {
	Role       string
	Department string
}

// capabilities is the per-operation role whitelist.
var capabilities = map[Operation]map[string]struct{}{
	OpUpdateStatus: roleSet(
		identity.RoleWardOfficer,
		identity.RoleDepartmentAdmin,
		identity.RoleCityAdmin,
		identity.RoleSuperAdmin,
		identity.RoleMayor,
	),
	OpAssign: roleSet(
		identity.RoleCityAdmin,
		identity.RoleSuperAdmin,
		identity.RoleDepartmentAdmin,
	),
	OpReassign: roleSet(
		identity.RoleCityAdmin,
		identity.RoleSuperAdmin,
		identity.RoleDepartmentAdmin,
	),
	OpUnassign: roleSet(
		identity.RoleCityAdmin,
		identity.RoleSuperAdmin,
		identity.RoleDepartmentAdmin,
	),
	OpViewAll: roleSet(
		identity.RoleCityAdmin,
		identity.RoleSuperAdmin,
		identity.RoleMayor,
	),
}

// departmentScoped operations require DEPARTMENT_ADMIN actors to stay within
// their own department.
var departmentScoped = map[Operation]struct{}{
	OpAssign:   {},
	OpReassign: {},
	OpUnassign: {},
}

// Authorize checks whether the actor may perform the operation against a
// complaint in targetDepartment. Returns a non-empty reason when denied.
func Authorize(op Operation, actor Actor, targetDepartment string) string {
	allowed, ok := capabilities[op]
	if !ok {
		return "unknown operation"
	}
	if _, ok := allowed[actor.Role]; !ok {
		return "role not permitted for this operation"
	}

	if _, scoped := departmentScoped[op]; scoped && actor.Role == identity.RoleDepartmentAdmin {
		if actor.Department == "" || actor.Department != targetDepartment {
			return "department admins may only manage complaints in their own department"
		}
	}

	return ""
}

// AllowedRoles returns the roles permitted to perform the operation.
func AllowedRoles(op Operation) []string {
	allowed := capabilities[op]
	out := make([]string, 0, len(allowed))
	for role := range allowed {
		out = append(out, role)
	}
	return out
}

func roleSet(roles ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}
