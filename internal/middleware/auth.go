package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	jwtsvc "artisthub/internal/pkg/jwt"
	"artisthub/internal/pkg/response"
	"artisthub/internal/pkg/tokenstore"
)

const (
	ContextUserID = "user_id"
	ContextClaims = "claims"
)

// JWTAuth validates the bearer token, rejects revoked token ids and puts the
// caller id and claims into the gin context.
func JWTAuth(jwt *jwtsvc.Service, revoker tokenstore.Revoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Missing Authorization header")
			return
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			return
		}

		tokenStr := strings.TrimSpace(parts[1])
		if tokenStr == "" {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Empty token")
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		if revoker != nil && claims.ID != "" {
			revoked, err := revoker.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				log.Printf("auth_revocation_check_failed jti=%s err=%v", claims.ID, err)
				response.Abort(c, http.StatusServiceUnavailable, "AUTH_UNAVAILABLE", "Could not verify token")
				return
			}
			if revoked {
				response.Abort(c, http.StatusUnauthorized, "TOKEN_REVOKED", "Token has been revoked")
				return
			}
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

// CallerID returns the authenticated user id, or 0 when the request is anonymous.
func CallerID(c *gin.Context) int64 {
	return c.GetInt64(ContextUserID)
}

// Claims returns the validated token claims, if any.
func Claims(c *gin.Context) *jwtsvc.Claims {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*jwtsvc.Claims)
	return claims
}
