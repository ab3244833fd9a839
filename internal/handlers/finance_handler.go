package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/services"
	"github.com/linguahub/crm-service/internal/utils"
)

type FinanceHandler struct {
	BaseHandler
	service services.FinanceService
}

func NewFinanceHandler(service services.FinanceService, logger utils.Logger) *FinanceHandler {
	return &FinanceHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ListDebtors returns students with negative balance, most indebted first.
func (h *FinanceHandler) ListDebtors(c *gin.Context) {
	debtors, err := h.service.Debtors(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(debtors))
}

// GetSummary returns income/expenses/net over a period; the period defaults
// to the current month.
func (h *FinanceHandler) GetSummary(c *gin.Context) {
	from, to := h.periodRange(c)

	summary, err := h.service.Summary(c.Request.Context(), from, to)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(summary))
}

// GetSalary computes a teacher's pay for a period from completed lessons.
func (h *FinanceHandler) GetSalary(c *gin.Context) {
	teacherID, err := strconv.ParseUint(c.Query("teacherId"), 10, 32)
	if err != nil || teacherID == 0 {
		c.JSON(http.StatusBadRequest, models.Fail("invalid teacherId"))
		return
	}

	from, to := h.periodRange(c)

	salary, err := h.service.TeacherSalary(c.Request.Context(), uint(teacherID), from, to)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(salary))
}

func (h *FinanceHandler) periodRange(c *gin.Context) (time.Time, time.Time) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0).Add(-time.Second)

	if parsed := h.parseDateQuery(c, "from"); parsed != nil {
		from = *parsed
	}
	if parsed := h.parseDateQuery(c, "to"); parsed != nil {
		to = *parsed
	}
	return from, to
}
