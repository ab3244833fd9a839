package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/repositories"
	"github.com/linguahub/crm-service/internal/services"
	"github.com/linguahub/crm-service/internal/utils"
)

type LeadHandler struct {
	BaseHandler
	service services.LeadService
}

func NewLeadHandler(service services.LeadService, logger utils.Logger) *LeadHandler {
	return &LeadHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// CreateLead is the public inquiry form endpoint; no authentication.
func (h *LeadHandler) CreateLead(c *gin.Context) {
	h.LogRequest(c, "creating lead")

	var req services.LeadCreateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lead, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.OK(gin.H{"id": lead.ID}))
}

func (h *LeadHandler) GetLead(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	lead, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(lead))
}

func (h *LeadHandler) ListLeads(c *gin.Context) {
	limit, offset, page, size := h.parsePagination(c)

	filters := repositories.LeadFilters{
		DateFrom: h.parseDateQuery(c, "from"),
		DateTo:   h.parseDateQuery(c, "to"),
		Limit:    limit,
		Offset:   offset,
	}
	if raw := c.Query("status"); raw != "" {
		status := models.LeadStatus(raw)
		filters.Status = &status
	}

	leads, total, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(models.ListResponse{Items: leads, Total: total, Page: page, Size: size}))
}

func (h *LeadHandler) ChangeStatus(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.LeadStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lead, err := h.service.ChangeStatus(c.Request.Context(), id, &req, h.currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(lead))
}

// ConvertLead turns a lead into a student; converting twice is a conflict.
func (h *LeadHandler) ConvertLead(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	student, err := h.service.Convert(c.Request.Context(), id, h.currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.OK(student))
}

func (h *LeadHandler) AddNote(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.LeadNoteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	note, err := h.service.AddNote(c.Request.Context(), id, &req, h.currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.OK(note))
}

func (h *LeadHandler) GetNotes(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	notes, err := h.service.GetNotes(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(notes))
}

func (h *LeadHandler) DeleteLead(c *gin.Context) {
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
