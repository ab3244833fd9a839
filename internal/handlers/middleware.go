package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/services"
	"github.com/linguahub/crm-service/internal/utils"
)

// Context keys populated by the access gate.
const (
	ctxUserID    = "user_id"
	ctxUserEmail = "user_email"
	ctxUserRole  = "user_role"
)

// AuthCookieName is the cookie carrying the signed auth token.
const AuthCookieName = "auth_token"

// SetupMiddleware installs the common middleware chain.
func SetupMiddleware(router *gin.Engine, logger utils.Logger) {
	router.Use(RequestIDMiddleware())
	router.Use(CORSMiddleware())
	router.Use(gin.Recovery())
	router.Use(utils.ContextLogger(logger))
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(SecurityMiddleware())
}

// RequestIDMiddleware assigns each request a unique id, reusing the caller's
// X-Request-ID when present.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header("X-Request-ID", requestID)
		c.Set("request_id", requestID)
		c.Next()
	}
}

// CORSMiddleware provides CORS support.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "43200")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// SecurityMiddleware adds security headers.
func SecurityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// pathClass partitions request paths for the access gate.
type pathClass int

const (
	classPublic pathClass = iota
	classLogin
	classAdminArea
	classTeacherArea
	classAPI
)

// classifyPath decides which gate rules apply to a path. The login page and
// the auth endpoints stay open even though they share prefixes with protected
// areas; the public lead form and health check take no token at all.
func classifyPath(path string) pathClass {
	switch {
	case path == "/login" || strings.HasPrefix(path, "/auth/"):
		return classLogin
	case path == "/lead" || path == "/health":
		return classPublic
	case strings.HasPrefix(path, "/teacher"):
		return classTeacherArea
	case strings.HasPrefix(path, "/admin"):
		return classAdminArea
	case strings.HasPrefix(path, "/api/"):
		return classAPI
	default:
		return classPublic
	}
}

// isAPIPath reports whether failures should be JSON (API) or redirects (page).
func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/") || strings.Contains(path, "/api/")
}

// AccessGate authenticates the cookie token and enforces the role capability
// table before any handler runs. Verification fails closed: a missing,
// malformed or expired token is indistinguishable from no token at all.
func AccessGate(auth services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		class := classifyPath(path)

		if class == classPublic || class == classLogin {
			c.Next()
			return
		}

		claims := gateClaims(c, auth)
		if claims == nil {
			if isAPIPath(path) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, models.Fail("Unauthorized"))
			} else {
				c.Redirect(http.StatusFound, "/login")
				c.Abort()
			}
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserEmail, claims.Email)
		c.Set(ctxUserRole, claims.Role)

		switch class {
		case classAdminArea:
			if !claims.Role.IsAdminRole() {
				if claims.Role == models.RoleTeacher {
					c.Redirect(http.StatusFound, "/teacher")
				} else {
					c.Redirect(http.StatusFound, "/login")
				}
				c.Abort()
				return
			}
		case classTeacherArea:
			if !claims.Role.IsTeacherRole() {
				if isAPIPath(path) {
					c.AbortWithStatusJSON(http.StatusForbidden, models.Fail("Forbidden"))
				} else {
					c.Redirect(http.StatusFound, "/admin")
					c.Abort()
				}
				return
			}
		}

		c.Next()
	}
}

func gateClaims(c *gin.Context, auth services.AuthService) *services.Claims {
	token, err := c.Cookie(AuthCookieName)
	if err != nil || token == "" {
		return nil
	}
	claims, err := auth.VerifyToken(token)
	if err != nil {
		return nil
	}
	return claims
}

// RequireRole rejects authenticated requests whose role is not in the allow
// list. Runs after the access gate, so an absent role means no token.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := c.Get(ctxUserRole)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Fail("Unauthorized"))
			return
		}
		role, _ := raw.(models.UserRole)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, models.Fail("Forbidden"))
	}
}
