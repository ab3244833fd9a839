package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/services"
	"github.com/linguahub/crm-service/internal/utils"
	"github.com/linguahub/crm-service/internal/validator"
)

// BaseHandler carries the pieces every handler shares: logging and the
// mapping from service errors onto the HTTP error taxonomy.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string) {
	if l := utils.LoggerFromContext(c.Request.Context()); l != nil {
		l.Debug(msg, "method", c.Request.Method, "path", c.Request.URL.Path)
		return
	}
	h.logger.Debug(msg, "method", c.Request.Method, "path", c.Request.URL.Path)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string) {
	if l := utils.LoggerFromContext(c.Request.Context()); l != nil {
		l.Error(msg, "error", err)
		return
	}
	h.logger.Error(msg, "error", err)
}

// parseIDParam parses a numeric path parameter; on failure it writes the 400
// response itself and returns 0.
func (h *BaseHandler) parseIDParam(c *gin.Context, param string) uint {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, models.Fail("invalid "+param))
		return 0
	}
	return uint(id)
}

// parsePagination reads page/size query params into limit/offset.
func (h *BaseHandler) parsePagination(c *gin.Context) (limit, offset, page, size int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err = strconv.Atoi(c.DefaultQuery("size", "50"))
	if err != nil || size < 1 {
		size = 50
	}
	if size > 200 {
		size = 200
	}
	return size, (page - 1) * size, page, size
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter.
func (h *BaseHandler) parseDateQuery(c *gin.Context, key string) *time.Time {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}

// currentUserID returns the authenticated user's id set by the access gate.
func (h *BaseHandler) currentUserID(c *gin.Context) uint {
	if id, ok := c.Get(ctxUserID); ok {
		if uid, ok := id.(uint); ok {
			return uid
		}
	}
	return 0
}

func (h *BaseHandler) currentRole(c *gin.Context) models.UserRole {
	if r, ok := c.Get(ctxUserRole); ok {
		if role, ok := r.(models.UserRole); ok {
			return role
		}
	}
	return ""
}

// handleServiceError maps service errors onto the response taxonomy:
// validation 400, bad credentials 401, permission 403, missing entity 404,
// conversion conflict 400 with its distinguishing message, anything else 500
// with the cause logged server-side only.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, models.Fail(validationErrs.Error()))
		return
	}

	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, models.Fail("Unauthorized"))
	case errors.Is(err, services.ErrUserDisabled):
		c.JSON(http.StatusUnauthorized, models.Fail("account disabled"))
	case services.IsPermissionError(err):
		c.JSON(http.StatusForbidden, models.Fail("Forbidden"))
	case errors.Is(err, services.ErrLeadAlreadyConverted),
		errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrLeadNotFound),
		errors.Is(err, services.ErrStudentNotFound),
		errors.Is(err, services.ErrPaymentNotFound),
		errors.Is(err, services.ErrExpenseNotFound),
		errors.Is(err, services.ErrCourseNotFound),
		errors.Is(err, services.ErrClassroomNotFound),
		errors.Is(err, services.ErrGroupNotFound),
		errors.Is(err, services.ErrLessonNotFound):
		c.JSON(http.StatusNotFound, models.Fail(err.Error()))
	default:
		h.LogError(c, err, "unexpected service error")
		c.JSON(http.StatusInternalServerError, models.Fail("internal server error"))
	}
}

// bindJSON binds the request body, writing the 400 response on failure.
func (h *BaseHandler) bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail("invalid request body"))
		return false
	}
	return true
}
