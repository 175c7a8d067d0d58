package rbac

import (
	"errors"

	"powerise-api/internal/auth"

	"github.com/gin-gonic/gin"
)

// RequireClaim allows the request only if the identity placed in context by
// auth.RequireIDToken carries a truthy claim. Absent and false are the same.
// Mount it after RequireIDToken; on its own every request is 401.
func RequireClaim(claim string, rec auth.OutcomeRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := auth.FromContext(c.Request.Context())
		if err := auth.RequireAuthorization(id, claim); err != nil {
			if rec != nil {
				var ae *auth.AuthError
				if errors.As(err, &ae) {
					rec.RecordAuthOutcome("authorize", string(ae.Kind))
				}
			}
			auth.AbortWithError(c, err)
			return
		}
		if rec != nil {
			rec.RecordAuthOutcome("authorize", "ok")
		}
		c.Next()
	}
}

// RequireAdmin is RequireClaim(ClaimAdmin, rec).
func RequireAdmin(rec auth.OutcomeRecorder) gin.HandlerFunc {
	return RequireClaim(ClaimAdmin, rec)
}
