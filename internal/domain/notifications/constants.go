package notifications

const (
	TypeLeaveSubmitted   = "leave_submitted"
	TypeLeaveApproved    = "leave_approved"
	TypeLeaveRejected    = "leave_rejected"
	TypeLeaveCancelled   = "leave_cancelled"
	TypeLeaveUnroutable  = "leave_unroutable"
	TypeTaskAssigned     = "task_assigned"
	TypeTaskStatusChange = "task_status_changed"
)
