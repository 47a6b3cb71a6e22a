package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/service"
	"github.com/JaganParida/Student-Attendance-Management-System-v2/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出 HTTP 处理器（教师端）
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// CourseAttendance 导出课程考勤矩阵
// GET /api/v1/teacher/courses/:courseId/attendance/export?startDate=&endDate=
func (h *ExportHandler) CourseAttendance(c *gin.Context) {
	if _, ok := MustGetUserID(c); !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportCourseAttendance(
		c.Request.Context(), c.Param("courseId"), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			response.NotFound(c, 16001, "课程不存在")
		case errors.Is(err, service.ErrDateInvalid):
			response.BadRequest(c, 16002, "日期区间无效")
		case errors.Is(err, service.ErrExportNoRecords):
			response.NotFound(c, 16003, "该区间内没有考勤记录")
		default:
			response.InternalError(c)
		}
		return
	}

	// 文件名含中文，按 RFC 5987 编码
	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(filename)))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
