package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/repositories"
	"github.com/linguahub/crm-service/internal/services"
	"github.com/linguahub/crm-service/internal/utils"
)

type StudentHandler struct {
	BaseHandler
	service services.StudentService
}

func NewStudentHandler(service services.StudentService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req services.StudentCreateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	student, err := h.service.Create(c.Request.Context(), &req, h.currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.OK(student))
}

func (h *StudentHandler) GetStudent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	student, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(student))
}

func (h *StudentHandler) ListStudents(c *gin.Context) {
	limit, offset, page, size := h.parsePagination(c)

	filters := repositories.StudentFilters{
		Query:  c.Query("q"),
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.Query("status"); raw != "" {
		status := models.StudentStatus(raw)
		filters.Status = &status
	}

	students, total, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(models.ListResponse{Items: students, Total: total, Page: page, Size: size}))
}

func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.StudentUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	student, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(student))
}

func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, h.currentUserID(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(nil))
}

// AdjustBalance applies a manual balance correction outside the payment
// ledger; the reason is recorded in the audit log.
func (h *StudentHandler) AdjustBalance(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.BalanceAdjustRequest
	if !h.bindJSON(c, &req) {
		return
	}

	student, err := h.service.AdjustBalance(c.Request.Context(), id, &req, h.currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(student))
}
