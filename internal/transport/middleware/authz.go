package middleware

import (
	"log/slog"
	"net/http"

	"github.com/RahulB-24/ExpenseOps/internal/auth"
	"github.com/RahulB-24/ExpenseOps/internal/authz"
)

// RequireAction gates a route on the role table: the authenticated user's
// role must permit at least one of the given actions. Instance-level rules
// (ownership, self-approval) stay in the service layer, which sees the
// target expense.
func RequireAction(actions ...authz.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			allowed := false
			for _, action := range actions {
				if authz.IsAllowed(user.Role, action) {
					allowed = true
					break
				}
			}

			if !allowed {
				slog.Warn("access denied by role table",
					"user_id", user.ID,
					"role", user.Role,
					"required_actions", actions)
				http.Error(w, "Forbidden: insufficient role", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin gates the admin route group.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireAction(authz.ActionManageUsers, authz.ActionManageCategories)(next)
}
