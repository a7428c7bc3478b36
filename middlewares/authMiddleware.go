package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/cajadigital/caja_backend/config"
	"github.com/cajadigital/caja_backend/utils"
	"github.com/gin-gonic/gin"
)

type authString string

const authKey authString = "auth"

// AuthMiddleware validates a bearer token when one is present and attaches
// its claims to the request context. Requests without a token pass through;
// RequireAdmin decides which routes need one.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")

		if auth == "" {
			c.Next()
			return
		}

		bearer := "Bearer "
		if !strings.HasPrefix(auth, bearer) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		auth = auth[len(bearer):]

		validate, err := utils.JwtValidate(auth)
		if err != nil || !validate.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		customClaim, _ := validate.Claims.(*utils.JwtCustomClaim)

		ctx := context.WithValue(c.Request.Context(), authKey, customClaim)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAdmin gates mutating endpoints behind the admin PIN login. A no-op
// unless REQUIRE_ADMIN_TOKEN is set, so a single-user install keeps working
// without a login flow.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !config.RequireAdminToken() {
			c.Next()
			return
		}
		if CtxValue(c.Request.Context()) == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "admin token required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func CtxValue(ctx context.Context) *utils.JwtCustomClaim {
	raw, _ := ctx.Value(authKey).(*utils.JwtCustomClaim)
	return raw
}
