package middleware

import (
	"net/http"
	"strings"

	"github.com/banking-records-ledger/internal/domain/credential"
	"github.com/gin-gonic/gin"
)

const (
	// CallerRoleHeader carries the role resolved by the upstream auth gateway
	CallerRoleHeader = "X-Caller-Role"

	// CallerAccountHeader carries the account bound to a user login
	CallerAccountHeader = "X-Caller-Account"

	CallerKey = "caller"
)

// Caller resolves the request identity from the auth gateway headers.
// Requests without a valid identity are rejected with 401.
func Caller() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := credential.ParseRole(strings.ToLower(strings.TrimSpace(c.GetHeader(CallerRoleHeader))))
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid "+CallerRoleHeader+" header")
			return
		}

		caller := credential.Admin()
		if role == credential.RoleUser {
			accountNumber := strings.TrimSpace(c.GetHeader(CallerAccountHeader))
			if accountNumber == "" {
				abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", CallerAccountHeader+" header is required for user callers")
				return
			}
			caller = credential.User(accountNumber)
		}

		c.Set(CallerKey, caller)
		c.Next()
	}
}

// GetCaller retrieves the caller stored by the Caller middleware
func GetCaller(c *gin.Context) (credential.Caller, bool) {
	if v, exists := c.Get(CallerKey); exists {
		caller, ok := v.(credential.Caller)
		return caller, ok
	}
	return credential.Caller{}, false
}
