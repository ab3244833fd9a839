package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/repositories"
	"github.com/linguahub/crm-service/internal/services"
	"github.com/linguahub/crm-service/internal/utils"
)

type LogHandler struct {
	BaseHandler
	service services.LogService
}

func NewLogHandler(service services.LogService, logger utils.Logger) *LogHandler {
	return &LogHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

func (h *LogHandler) ListLogs(c *gin.Context) {
	limit, offset, page, size := h.parsePagination(c)

	filters := repositories.LogFilters{Limit: limit, Offset: offset}
	if raw := c.Query("action"); raw != "" {
		filters.Action = &raw
	}
	if raw := c.Query("user_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			uid := uint(id)
			filters.UserID = &uid
		}
	}

	logs, total, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(models.ListResponse{Items: logs, Total: total, Page: page, Size: size}))
}
