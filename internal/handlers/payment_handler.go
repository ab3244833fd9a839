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

type PaymentHandler struct {
	BaseHandler
	service services.PaymentService
}

func NewPaymentHandler(service services.PaymentService, logger utils.Logger) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req services.PaymentCreateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payment, err := h.service.Create(c.Request.Context(), &req, h.currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.OK(payment))
}

func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	payment, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(payment))
}

func (h *PaymentHandler) ListPayments(c *gin.Context) {
	limit, offset, page, size := h.parsePagination(c)

	filters := repositories.PaymentFilters{
		DateFrom: h.parseDateQuery(c, "from"),
		DateTo:   h.parseDateQuery(c, "to"),
		Limit:    limit,
		Offset:   offset,
	}
	if raw := c.Query("student_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			sid := uint(id)
			filters.StudentID = &sid
		}
	}
	if raw := c.Query("status"); raw != "" {
		status := models.PaymentStatus(raw)
		filters.Status = &status
	}
	if raw := c.Query("period"); raw != "" {
		filters.Period = &raw
	}

	payments, total, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(models.ListResponse{Items: payments, Total: total, Page: page, Size: size}))
}

func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.PaymentUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payment, err := h.service.Update(c.Request.Context(), id, &req, h.currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(payment))
}

func (h *PaymentHandler) DeletePayment(c *gin.Context) {
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
