package auth

const (
	RoleEmployee   = "employee"
	RoleSupervisor = "supervisor"
	RoleManager    = "manager"
	RoleHR         = "hr"
	RoleAdmin      = "admin"
)

const (
	PermEmployeesRead  = "org.employees.read"
	PermEmployeesWrite = "org.employees.write"
	PermOrgRead        = "org.units.read"
	PermOrgWrite       = "org.units.write"
	PermLeaveRead      = "leave.read"
	PermLeaveWrite     = "leave.write"
	PermLeaveApprove   = "leave.approve"
	PermTasksRead      = "tasks.read"
	PermTasksWrite     = "tasks.write"
	PermTasksAssign    = "tasks.assign"
	PermReportsRead    = "reports.read"
	PermAuditRead      = "audit.read"
	PermSystemAdmin    = "admin.system"
)

var DefaultPermissions = []string{
	PermEmployeesRead,
	PermEmployeesWrite,
	PermOrgRead,
	PermOrgWrite,
	PermLeaveRead,
	PermLeaveWrite,
	PermLeaveApprove,
	PermTasksRead,
	PermTasksWrite,
	PermTasksAssign,
	PermReportsRead,
	PermAuditRead,
	PermSystemAdmin,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermEmployeesRead,
		PermOrgRead,
		PermLeaveRead,
		PermLeaveWrite,
		PermTasksRead,
	},
	RoleSupervisor: {
		PermEmployeesRead,
		PermOrgRead,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermTasksRead,
		PermTasksWrite,
		PermTasksAssign,
	},
	RoleManager: {
		PermEmployeesRead,
		PermOrgRead,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermTasksRead,
		PermTasksWrite,
		PermTasksAssign,
		PermReportsRead,
	},
	RoleHR: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermOrgRead,
		PermOrgWrite,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermTasksRead,
		PermTasksWrite,
		PermTasksAssign,
		PermReportsRead,
		PermAuditRead,
	},
	RoleAdmin: {
		PermSystemAdmin,
	},
}
