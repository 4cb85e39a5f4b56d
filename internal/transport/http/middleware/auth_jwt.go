package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"artist-management/internal/core/auth"
	"artist-management/internal/domain"
	resp "artist-management/internal/transport/http/response"
)

const ctxClaims = "claims"

// AuthJWT 只做身份校验；角色由各 Action 的 Policy 决定
func AuthJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := j.Verify(auth.FromHeader(c.GetHeader("Authorization")))
		if err != nil {
			msg := "invalid or expired token"
			if errors.Is(err, domain.ErrUnauthenticated) {
				msg = "missing token"
			}
			resp.Abort(c, resp.CodeUnauthorized, msg)
			return
		}
		c.Set(ctxClaims, claims)
		c.Next()
	}
}

// Claims 未经过 AuthJWT 时返回 nil
func Claims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil
	}
	cl, _ := v.(*auth.Claims)
	return cl
}
