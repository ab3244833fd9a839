package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/services"
	"github.com/linguahub/crm-service/internal/utils"
)

// CookieSettings controls how the auth cookie is issued.
type CookieSettings struct {
	Domain string
	Secure bool
	MaxAge int // seconds
}

type AuthHandler struct {
	BaseHandler
	auth   services.AuthService
	users  services.UserService
	cookie CookieSettings
}

func NewAuthHandler(auth services.AuthService, users services.UserService, cookie CookieSettings, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		auth:        auth,
		users:       users,
		cookie:      cookie,
	}
}

// Login verifies credentials and sets the auth cookie: HttpOnly,
// SameSite=Strict, Secure in production, 24 h lifetime.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AuthCookieName, result.Token, h.cookie.MaxAge, "/", h.cookie.Domain, h.cookie.Secure, true)

	c.JSON(http.StatusOK, models.OK(gin.H{
		"user": gin.H{
			"name": result.User.Name,
			"role": result.User.Role,
		},
	}))
}

// Logout clears the auth cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AuthCookieName, "", -1, "/", h.cookie.Domain, h.cookie.Secure, true)
	c.JSON(http.StatusOK, models.OK(nil))
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := h.currentUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, models.Fail("Unauthorized"))
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(user))
}
