package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// RequireStaff ensures the authenticated identity is linked to a staff
// profile. Sale recording is refused without one; roles themselves are
// descriptive and grant no additional access.
func RequireStaff(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := GetStaffID(r.Context()); !ok {
				userID, _ := GetUserID(r.Context())
				logger.Warn("Identity without staff profile attempted a staff-only operation",
					zap.String("user_id", userID),
				)
				RespondWithError(w, http.StatusForbidden, "no staff profile linked to this account")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
