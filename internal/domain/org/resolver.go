package org

import (
	"wfm/internal/domain/auth"
)

// Scope is how far a role may see into other employees' leave records.
type Scope string

const (
	ScopeSelf       Scope = "self"
	ScopeSubUnit    Scope = "subunit"
	ScopeDepartment Scope = "department"
	ScopeAll        Scope = "all"
)

// roleScopes and approvalChains are static, process-wide tables. Role
// behavior is dispatched from here rather than scattered through handlers.
var roleScopes = map[string]Scope{
	auth.RoleEmployee:   ScopeSelf,
	auth.RoleSupervisor: ScopeSubUnit,
	auth.RoleManager:    ScopeDepartment,
	auth.RoleHR:         ScopeAll,
	auth.RoleAdmin:      ScopeAll,
}

// approvalChains lists acceptable approver roles, in order, used only when
// the requester has no direct supervisor.
var approvalChains = map[string][]string{
	auth.RoleEmployee:   {auth.RoleSupervisor, auth.RoleManager, auth.RoleHR},
	auth.RoleSupervisor: {auth.RoleManager, auth.RoleHR},
	auth.RoleManager:    {auth.RoleHR},
	auth.RoleHR:         {auth.RoleAdmin},
	auth.RoleAdmin:      {},
}

func ScopeForRole(role string) Scope {
	if scope, ok := roleScopes[role]; ok {
		return scope
	}
	return ScopeSelf
}

// Visibility is the predicate deciding which employees' requests a viewer
// may see or act on. The storage layer applies it when listing; the logic
// itself lives here.
type Visibility struct {
	Scope        Scope
	ViewerID     string
	DepartmentID string
	SubUnitID    string
}

func VisibilityFor(viewer EmployeeProfile) Visibility {
	return Visibility{
		Scope:        ScopeForRole(viewer.Role),
		ViewerID:     viewer.ID,
		DepartmentID: viewer.DepartmentID,
		SubUnitID:    viewer.SubUnitID,
	}
}

// Covers reports whether the visibility admits the given employee's records.
// Every scope includes the viewer's own requests.
func (v Visibility) Covers(employee EmployeeProfile) bool {
	if employee.ID == v.ViewerID {
		return true
	}
	switch v.Scope {
	case ScopeAll:
		return true
	case ScopeDepartment:
		return v.DepartmentID != "" && employee.DepartmentID == v.DepartmentID
	case ScopeSubUnit:
		return v.SubUnitID != "" && employee.SubUnitID == v.SubUnitID
	default:
		return false
	}
}

// FirstApprover resolves who must approve a new request. A direct supervisor
// always wins; otherwise the requester's role chain is walked and the first
// active employee holding a chain role is picked, oldest record first so the
// choice is deterministic. An empty result means the request is unroutable
// and must be escalated manually.
func FirstApprover(requester EmployeeProfile, findByRole func(role string) []EmployeeProfile) string {
	if requester.SupervisorID != "" {
		return requester.SupervisorID
	}

	for _, role := range approvalChains[requester.Role] {
		candidates := findByRole(role)
		var pick *EmployeeProfile
		for i := range candidates {
			c := &candidates[i]
			if c.ID == requester.ID || c.Status != "active" {
				continue
			}
			if pick == nil || c.CreatedAt.Before(pick.CreatedAt) {
				pick = c
			}
		}
		if pick != nil {
			return pick.ID
		}
	}
	return ""
}
