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

// ScheduleHandler covers courses, classrooms, groups and lessons.
type ScheduleHandler struct {
	BaseHandler
	service services.ScheduleService
}

func NewScheduleHandler(service services.ScheduleService, logger utils.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== COURSES =====

func (h *ScheduleHandler) CreateCourse(c *gin.Context) {
	var req services.CourseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	course, err := h.service.CreateCourse(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.OK(course))
}

func (h *ScheduleHandler) ListCourses(c *gin.Context) {
	courses, err := h.service.ListCourses(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(courses))
}

func (h *ScheduleHandler) UpdateCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.CourseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	course, err := h.service.UpdateCourse(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(course))
}

func (h *ScheduleHandler) DeleteCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.DeleteCourse(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(nil))
}

// ===== CLASSROOMS =====

func (h *ScheduleHandler) CreateClassroom(c *gin.Context) {
	var req services.ClassroomRequest
	if !h.bindJSON(c, &req) {
		return
	}

	room, err := h.service.CreateClassroom(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.OK(room))
}

func (h *ScheduleHandler) ListClassrooms(c *gin.Context) {
	rooms, err := h.service.ListClassrooms(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(rooms))
}

func (h *ScheduleHandler) UpdateClassroom(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.ClassroomRequest
	if !h.bindJSON(c, &req) {
		return
	}

	room, err := h.service.UpdateClassroom(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(room))
}

func (h *ScheduleHandler) DeleteClassroom(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.DeleteClassroom(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(nil))
}

// ===== GROUPS =====

func (h *ScheduleHandler) CreateGroup(c *gin.Context) {
	var req services.GroupRequest
	if !h.bindJSON(c, &req) {
		return
	}

	group, err := h.service.CreateGroup(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.OK(group))
}

func (h *ScheduleHandler) GetGroup(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	group, err := h.service.GetGroup(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(group))
}

func (h *ScheduleHandler) ListGroups(c *gin.Context) {
	limit, offset, page, size := h.parsePagination(c)

	filters := repositories.GroupFilters{Limit: limit, Offset: offset}
	if raw := c.Query("teacher_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			tid := uint(id)
			filters.TeacherID = &tid
		}
	}
	if raw := c.Query("course_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			cid := uint(id)
			filters.CourseID = &cid
		}
	}

	groups, total, err := h.service.ListGroups(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(models.ListResponse{Items: groups, Total: total, Page: page, Size: size}))
}

func (h *ScheduleHandler) UpdateGroup(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.GroupRequest
	if !h.bindJSON(c, &req) {
		return
	}

	group, err := h.service.UpdateGroup(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(group))
}

func (h *ScheduleHandler) DeleteGroup(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.DeleteGroup(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(nil))
}

// ===== LESSONS =====

func (h *ScheduleHandler) CreateLesson(c *gin.Context) {
	var req services.LessonRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lesson, err := h.service.CreateLesson(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.OK(lesson))
}

func (h *ScheduleHandler) ListLessons(c *gin.Context) {
	limit, offset, page, size := h.parsePagination(c)

	filters := repositories.LessonFilters{
		DateFrom: h.parseDateQuery(c, "from"),
		DateTo:   h.parseDateQuery(c, "to"),
		Limit:    limit,
		Offset:   offset,
	}
	if raw := c.Query("group_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			gid := uint(id)
			filters.GroupID = &gid
		}
	}

	lessons, total, err := h.service.ListLessons(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(models.ListResponse{Items: lessons, Total: total, Page: page, Size: size}))
}

func (h *ScheduleHandler) DeleteLesson(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.DeleteLesson(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(nil))
}
