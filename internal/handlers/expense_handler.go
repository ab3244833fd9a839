package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/repositories"
	"github.com/linguahub/crm-service/internal/services"
	"github.com/linguahub/crm-service/internal/utils"
)

type ExpenseHandler struct {
	BaseHandler
	service services.ExpenseService
}

func NewExpenseHandler(service services.ExpenseService, logger utils.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req services.ExpenseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	expense, err := h.service.Create(c.Request.Context(), &req, h.currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.OK(expense))
}

func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	limit, offset, page, size := h.parsePagination(c)

	filters := repositories.ExpenseFilters{
		DateFrom: h.parseDateQuery(c, "from"),
		DateTo:   h.parseDateQuery(c, "to"),
		Limit:    limit,
		Offset:   offset,
	}
	if raw := c.Query("category"); raw != "" {
		filters.Category = &raw
	}

	expenses, total, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(models.ListResponse{Items: expenses, Total: total, Page: page, Size: size}))
}

func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.ExpenseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	expense, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(expense))
}

func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(nil))
}
