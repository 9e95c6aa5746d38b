package middleware

import (
	"net/http"

	"wfm/internal/domain/auth"
	"wfm/internal/transport/http/api"
)

func RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}

			if !roleHasPermission(user.RoleName, permission) {
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", GetRequestID(r.Context()))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func roleHasPermission(role, permission string) bool {
	perms, ok := auth.RolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == permission || p == auth.PermSystemAdmin {
			return true
		}
	}
	return false
}
