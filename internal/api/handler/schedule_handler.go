package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/dto"
	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/service"
	"github.com/JaganParida/Student-Attendance-Management-System-v2/pkg/response"
)

// ScheduleHandler 课程时间表 HTTP 处理器（教师端）
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

func mapScheduleErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 15001, "课程不存在")
	case errors.Is(err, service.ErrCourseNotOwned):
		response.Forbidden(c, 15002, "无权管理该课程的时间表")
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 15006, "上课时段不存在")
	case errors.Is(err, service.ErrScheduleTimeRange):
		response.BadRequest(c, 15003, "上课时段起止时间无效")
	case errors.Is(err, service.ErrICSSourceMissing):
		response.BadRequest(c, 15004, "ICS 导入需要提供 URL 或文件内容")
	case errors.Is(err, service.ErrICSEmpty):
		response.BadRequest(c, 15005, "ICS 中没有可导入的上课时段")
	default:
		response.InternalError(c)
	}
}

// Create 创建上课时段
// POST /api/v1/teacher/courses/:courseId/schedules
func (h *ScheduleHandler) Create(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.scheduleSvc.CreateSchedule(c.Request.Context(), teacherID, c.Param("courseId"), &req)
	if err != nil {
		mapScheduleErr(c, err)
		return
	}
	response.Created(c, result)
}

// List 查询课程上课时段
// GET /api/v1/teacher/courses/:courseId/schedules
func (h *ScheduleHandler) List(c *gin.Context) {
	if _, ok := MustGetUserID(c); !ok {
		return
	}

	result, err := h.scheduleSvc.ListSchedules(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		mapScheduleErr(c, err)
		return
	}
	response.OK(c, result)
}

// Delete 删除上课时段
// DELETE /api/v1/teacher/schedules/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.scheduleSvc.DeleteSchedule(c.Request.Context(), teacherID, c.Param("id")); err != nil {
		mapScheduleErr(c, err)
		return
	}
	response.OK(c, nil)
}

// ImportICS 从 iCalendar 导入课表
// POST /api/v1/teacher/schedules/import
func (h *ScheduleHandler) ImportICS(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ImportScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.scheduleSvc.ImportFromICS(c.Request.Context(), teacherID, &req)
	if err != nil {
		mapScheduleErr(c, err)
		return
	}
	response.Created(c, result)
}
