package middleware

import (
	"net/http"

	"agencydesk/internal/utils"

	"github.com/go-chi/chi/v5"
)

// RequireSelfOrRoles lets a user through when the {id} path param is their
// own id, or when they hold one of the listed roles. Clients read their own
// profile; admins read anyone's.
func RequireSelfOrRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, _ := utils.GetString(r.Context(), CtxUserID)
			if uid != "" && chi.URLParam(r, "id") == uid {
				next.ServeHTTP(w, r)
				return
			}
			role, _ := utils.GetString(r.Context(), CtxRole)
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			utils.Error(w, http.StatusForbidden, "forbidden")
		})
	}
}
