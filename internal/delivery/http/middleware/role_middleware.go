package middleware

import (
	"net/http"

	"clinic-schedule/pkg/jwt"
	"clinic-schedule/pkg/response"
)

// RequireRole creates a middleware that checks if the operator has any of the required roles
// Role is read from context (set by AuthMiddleware from JWT claims)
func RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRoleFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			for _, allowed := range allowedRoles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, "You don't have permission to access this resource")
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(jwt.RoleAdmin)(next)
}

// RequireScheduler guards endpoints that change schedules
func RequireScheduler(next http.Handler) http.Handler {
	return RequireRole(jwt.RoleAdmin, jwt.RoleStaff)(next)
}
