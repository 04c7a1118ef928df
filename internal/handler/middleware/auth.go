package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"coach-booking/internal/domain/auth"
	"coach-booking/internal/domain/user"
	"coach-booking/internal/handler/httperr"
	"coach-booking/internal/pkg/errs"
	"coach-booking/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const ctxPrincipalKey = "principal"

var (
	errTokenMissing = errs.New("access token required")
	errTokenInvalid = errs.New("invalid or expired token")
)

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized,
				errs.WithKind(errTokenMissing, errs.KindAuthMissing), "Access token required", nil)
			return
		}

		principal, err := m.tokenValidator.ValidateToken(token)
		if err != nil || !principal.IsAuthenticated() {
			if err != nil {
				slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			}
			httperr.AbortWithError(c, http.StatusUnauthorized,
				errs.WithKind(errs.Mark(err, errTokenInvalid), errs.KindAuthMissing), "Invalid or expired token", nil)
			return
		}

		c.Set(ctxPrincipalKey, principal)
		c.Next()
	}
}

// RequireRoleAtLeast must run after RequireAuth.
func (m *AuthMiddleware) RequireRoleAtLeast(minRole user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			httperr.AbortWithError(c, http.StatusInternalServerError,
				errs.New("role check without principal"), "Internal server error", nil)
			return
		}

		if !principal.Role.AtLeast(minRole) {
			httperr.AbortWithError(c, http.StatusForbidden,
				errs.WithKind(errs.Newf("role %s below %s", principal.Role, minRole), errs.KindForbidden),
				"Insufficient permissions", nil)
			return
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

// GetPrincipal returns the verified requester set by RequireAuth.
func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	v, exists := c.Get(ctxPrincipalKey)
	if !exists {
		return auth.Principal{}, false
	}

	principal, ok := v.(auth.Principal)
	return principal, ok
}
