package auth

// UserContext is the authenticated identity attached to a request.
type UserContext struct {
	UserID     string
	EmployeeID string
	RoleName   string
	SessionID  string
}
