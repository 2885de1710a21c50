// Package domain provides core identity concepts shared across bounded contexts.
package domain

const (
	RoleCitizen            = "CITIZEN"
	RoleDepartmentEmployee = "DEPARTMENT_EMPLOYEE"
	RoleDepartmentAdmin    = "DEPARTMENT_ADMIN"
	RoleWardOfficer        = "WARD_OFFICER"
	RoleCityAdmin          = "CITY_ADMIN"
	RoleSuperAdmin         = "SUPER_ADMIN"
	RoleMayor              = "MAYOR"
)

var knownRoles = map[string]struct{}{
	RoleCitizen:            {},
	RoleDepartmentEmployee: {},
	RoleDepartmentAdmin:    {},
	RoleWardOfficer:        {},
	RoleCityAdmin:          {},
	RoleSuperAdmin:         {},
	RoleMayor:              {},
}

// IsKnownRole reports whether the role is one of the recognized role names.
func IsKnownRole(role string) bool {
	_, ok := knownRoles[role]
	return ok
}

// assignableRoles are the roles eligible to work complaints for a department.
var assignableRoles = map[string]struct{}{
	RoleDepartmentEmployee: {},
	RoleDepartmentAdmin:    {},
}

// IsAssignableRole reports whether users with this role can be assigned
// complaints.
func IsAssignableRole(role string) bool {
	_, ok := assignableRoles[role]
	return ok
}

// cityLevelRoles see every complaint regardless of department or ward.
var cityLevelRoles = map[string]struct{}{
	RoleCityAdmin:  {},
	RoleSuperAdmin: {},
	RoleMayor:      {},
}

// IsCityLevelRole reports whether the role has city-wide visibility.
func IsCityLevelRole(role string) bool {
	_, ok := cityLevelRoles[role]
	return ok
}
