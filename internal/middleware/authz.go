package middleware

import (
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/session"
	"net/http"

	"github.com/casbin/casbin/v2"
)

const anonymous = "anonymous"

// SessionSubjectKey is the session key holding the logged-in subject.
const SessionSubjectKey = "user_subject"

// Authorizer creates a new middleware for authorization.
// It checks the user's permissions using Casbin based on session data and
// answers refused requests with a JSON error.
func Authorizer(e casbin.IEnforcer, sm session.Manager, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := sm.GetString(r.Context(), SessionSubjectKey)
			if subject == "" {
				subject = anonymous
			}

			roles, _ := e.GetRolesForUser(subject)
			r = r.WithContext(SetUserInfo(r.Context(), &UserInfo{Subject: subject, Roles: roles}))

			allowed, err := e.Enforce(subject, r.URL.Path, r.Method)
			if err != nil {
				log.Error(err, "authorization check failed")
				JSONError(w, http.StatusInternalServerError, "Authorization error")
				return
			}
			if !allowed {
				status := http.StatusForbidden
				if subject == anonymous {
					status = http.StatusUnauthorized
				}
				JSONError(w, status, http.StatusText(status))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
