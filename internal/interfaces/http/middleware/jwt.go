package middleware

import (
	"net/http"
	"strings"

	"github.com/crm/backend/internal/domain/account"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

const (
	// AuthHeaderKey is the header carrying the bearer token
	AuthHeaderKey = "Authorization"
	// BearerPrefix is the expected token prefix
	BearerPrefix = "Bearer "
)

// Principal validates the bearer token when one is present and attaches
// the authenticated principal to the request context. Requests without a
// token pass through anonymously; authorization is decided per operation.
func Principal(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			c.Next()
			return
		}

		if !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Authorization header must use the Bearer scheme")
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimPrefix(header, BearerPrefix))
		if err != nil {
			code := dto.ErrCodeTokenInvalid
			if err == auth.ErrExpiredToken {
				code = dto.ErrCodeTokenExpired
			}
			abortUnauthorized(c, code, err.Error())
			return
		}

		principal := account.Principal{
			Username:    claims.Username,
			Authorities: claims.Authorities,
		}
		ctx := account.WithPrincipal(c.Request.Context(), principal)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
}
