package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/dto"
	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/service"
	"github.com/JaganParida/Student-Attendance-Management-System-v2/pkg/response"
)

// TeacherHandler 教师端 HTTP 处理器
type TeacherHandler struct {
	teacherSvc service.TeacherService
}

// NewTeacherHandler 创建 TeacherHandler
func NewTeacherHandler(teacherSvc service.TeacherService) *TeacherHandler {
	return &TeacherHandler{teacherSvc: teacherSvc}
}

// Dashboard 教师工作台
// GET /api/v1/teacher/dashboard
func (h *TeacherHandler) Dashboard(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.teacherSvc.GetDashboard(c.Request.Context(), teacherID)
	if err != nil {
		if errors.Is(err, service.ErrTeacherNotFound) {
			response.NotFound(c, 14001, "教师不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Courses 本人授课课程
// GET /api/v1/teacher/courses
func (h *TeacherHandler) Courses(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.teacherSvc.GetTeacherCourses(c.Request.Context(), teacherID)
	if err != nil {
		if errors.Is(err, service.ErrTeacherNotFound) {
			response.NotFound(c, 14001, "教师不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// CourseStudents 课程学生名单
// GET /api/v1/teacher/courses/:courseId/students
func (h *TeacherHandler) CourseStudents(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.teacherSvc.GetStudentsByCourse(c.Request.Context(), teacherID, c.Param("courseId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTeacherNotFound):
			response.NotFound(c, 14001, "教师不存在")
		case errors.Is(err, service.ErrCourseNotFound):
			response.NotFound(c, 14002, "课程不存在")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// StudentPerformance 学生单门课程表现
// GET /api/v1/teacher/courses/:courseId/students/:studentId/performance
func (h *TeacherHandler) StudentPerformance(c *gin.Context) {
	if _, ok := MustGetUserID(c); !ok {
		return
	}

	result, err := h.teacherSvc.GetStudentPerformance(c.Request.Context(), c.Param("studentId"), c.Param("courseId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			response.NotFound(c, 14003, "学生不存在")
		case errors.Is(err, service.ErrCourseNotFound):
			response.NotFound(c, 14002, "课程不存在")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// CreateUnlockRequest 提交解锁申请
// POST /api/v1/teacher/unlock-requests
func (h *TeacherHandler) CreateUnlockRequest(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateUnlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.teacherSvc.CreateUnlockRequest(c.Request.Context(), teacherID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTeacherNotFound):
			response.NotFound(c, 14001, "教师不存在")
		case errors.Is(err, service.ErrCourseNotFound):
			response.NotFound(c, 14002, "课程不存在")
		case errors.Is(err, service.ErrDateInvalid):
			response.BadRequest(c, 14004, "日期格式无效")
		default:
			response.InternalError(c)
		}
		return
	}
	response.Created(c, result)
}

// ListUnlockRequests 查询本人解锁申请
// GET /api/v1/teacher/unlock-requests
func (h *TeacherHandler) ListUnlockRequests(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.teacherSvc.ListUnlockRequests(c.Request.Context(), teacherID)
	if err != nil {
		if errors.Is(err, service.ErrTeacherNotFound) {
			response.NotFound(c, 14001, "教师不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// PendingLeaveRequests 待审批请假列表
// GET /api/v1/teacher/leave-requests/pending
func (h *TeacherHandler) PendingLeaveRequests(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.teacherSvc.ListPendingLeaveRequests(c.Request.Context(), teacherID)
	if err != nil {
		if errors.Is(err, service.ErrTeacherNotFound) {
			response.NotFound(c, 14001, "教师不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// processLeaveBody 请假审批请求体
type processLeaveBody struct {
	Approve bool `json:"approve"`
}

// ProcessLeaveRequest 审批请假申请
// PUT /api/v1/teacher/leave-requests/:id/process
func (h *TeacherHandler) ProcessLeaveRequest(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var body processLeaveBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	err := h.teacherSvc.ProcessLeaveRequest(c.Request.Context(), teacherID, c.Param("id"), body.Approve)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLeaveRequestNotFound):
			response.NotFound(c, 14005, "请假申请不存在")
		case errors.Is(err, service.ErrLeaveAlreadyProcessed):
			response.Conflict(c, 14006, "请假申请已处理")
		case errors.Is(err, service.ErrLeaveNotAssigned):
			response.Forbidden(c, 14007, "无权审批该请假申请")
		case errors.Is(err, service.ErrTeacherNotFound):
			response.NotFound(c, 14001, "教师不存在")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}

// Profile 本人资料
// GET /api/v1/teacher/profile
func (h *TeacherHandler) Profile(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.teacherSvc.GetProfile(c.Request.Context(), teacherID)
	if err != nil {
		if errors.Is(err, service.ErrTeacherNotFound) {
			response.NotFound(c, 14001, "教师不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// UpdateProfile 更新本人资料
// PUT /api/v1/teacher/profile
func (h *TeacherHandler) UpdateProfile(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateTeacherProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.teacherSvc.UpdateProfile(c.Request.Context(), teacherID, &req)
	if err != nil {
		if errors.Is(err, service.ErrTeacherNotFound) {
			response.NotFound(c, 14001, "教师不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// ChangePassword 修改密码
// PUT /api/v1/teacher/password
func (h *TeacherHandler) ChangePassword(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.teacherSvc.ChangePassword(c.Request.Context(), teacherID, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrTeacherNotFound):
			response.NotFound(c, 14001, "教师不存在")
		case errors.Is(err, service.ErrPasswordMismatch):
			response.BadRequest(c, 14008, "原密码不正确")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}
