package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/services"
	"github.com/linguahub/crm-service/internal/utils"
)

// TeacherAreaHandler serves the teacher-facing API; every operation acts on
// behalf of the authenticated teacher.
type TeacherAreaHandler struct {
	BaseHandler
	service services.TeacherAreaService
}

func NewTeacherAreaHandler(service services.TeacherAreaService, logger utils.Logger) *TeacherAreaHandler {
	return &TeacherAreaHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

func (h *TeacherAreaHandler) MyGroups(c *gin.Context) {
	groups, err := h.service.MyGroups(c.Request.Context(), h.currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(groups))
}

func (h *TeacherAreaHandler) GroupStudents(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	students, err := h.service.GroupStudents(c.Request.Context(), id, h.currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(students))
}

// SubmitAttendance records a full attendance sheet for one lesson.
func (h *TeacherAreaHandler) SubmitAttendance(c *gin.Context) {
	var req services.AttendanceSubmitRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.service.SubmitAttendance(c.Request.Context(), &req, h.currentUserID(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(nil))
}

// ScoreBand computes the overall IELTS band for mock-exam module scores.
func (h *TeacherAreaHandler) ScoreBand(c *gin.Context) {
	var req services.BandScoreRequest
	if !h.bindJSON(c, &req) {
		return
	}

	overall, err := h.service.ScoreBand(&req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(gin.H{"overall": overall}))
}

func (h *TeacherAreaHandler) LessonAttendance(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	records, err := h.service.LessonAttendance(c.Request.Context(), id, h.currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(records))
}
