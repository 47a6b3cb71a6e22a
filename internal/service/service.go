package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/JaganParida/Student-Attendance-Management-System-v2/config"
	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/repository"
	"github.com/JaganParida/Student-Attendance-Management-System-v2/pkg/jwt"
	"github.com/JaganParida/Student-Attendance-Management-System-v2/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Student    StudentService
	Attendance AttendanceService
	Teacher    TeacherService
	Schedule   ScheduleService
	Export     ExportService
}

// NewService 创建 Service 聚合
// rdb 可为 nil：Redis 不可用时认证模块跳过 Token 黑名单
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	loc, err := time.LoadLocation(cfg.Database.Timezone)
	if err != nil {
		logger.Warn("时区加载失败，使用本地时区", zap.String("timezone", cfg.Database.Timezone))
		loc = time.Local
	}

	return &Service{
		Auth:       NewAuthService(repo, jwtMgr, rdb, logger),
		Student:    NewStudentService(repo, logger),
		Attendance: NewAttendanceService(cfg, repo, logger),
		Teacher:    NewTeacherService(repo, logger),
		Schedule:   NewScheduleService(repo, logger, loc),
		Export:     NewExportService(repo, logger),
	}
}
