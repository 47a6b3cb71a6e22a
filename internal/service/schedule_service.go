package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/dto"
	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/model"
	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/repository"
)

// ── 课程时间表模块业务错误 ──

var (
	ErrCourseNotOwned    = errors.New("无权管理该课程的时间表")
	ErrScheduleNotFound  = errors.New("上课时段不存在")
	ErrScheduleTimeRange = errors.New("结束时间必须晚于开始时间")
	ErrICSSourceMissing  = errors.New("ICS 导入需要提供 URL 或文件内容")
	ErrICSEmpty          = errors.New("ICS 中没有可导入的上课时段")
)

// ScheduleService 课程时间表业务接口
type ScheduleService interface {
	CreateSchedule(ctx context.Context, teacherID, courseID string, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error)
	ListSchedules(ctx context.Context, courseID string) ([]dto.ScheduleResponse, error)
	DeleteSchedule(ctx context.Context, teacherID, scheduleID string) error
	// ImportFromICS 从 iCalendar 导入课程每周上课时段；URL 与内容二选一
	ImportFromICS(ctx context.Context, teacherID string, req *dto.ImportScheduleRequest) (*dto.ImportScheduleResponse, error)
}

type scheduleService struct {
	repo   *repository.Repository
	logger *zap.Logger
	loc    *time.Location
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, logger *zap.Logger, loc *time.Location) ScheduleService {
	if loc == nil {
		loc = time.Local
	}
	return &scheduleService{repo: repo, logger: logger, loc: loc}
}

// requireOwnedCourse 确认课程存在且由该教师授课
func (s *scheduleService) requireOwnedCourse(ctx context.Context, teacherID, courseID string) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}
	if course.TeacherID == nil || *course.TeacherID != teacherID {
		return nil, ErrCourseNotOwned
	}
	return course, nil
}

// ────────────────────── CreateSchedule ──────────────────────

func (s *scheduleService) CreateSchedule(ctx context.Context, teacherID, courseID string, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error) {
	if _, err := s.requireOwnedCourse(ctx, teacherID, courseID); err != nil {
		return nil, err
	}

	start, err := time.Parse(timeLayout, req.StartTime)
	if err != nil {
		return nil, ErrScheduleTimeRange
	}
	end, err := time.Parse(timeLayout, req.EndTime)
	if err != nil {
		return nil, ErrScheduleTimeRange
	}
	if !end.After(start) {
		return nil, ErrScheduleTimeRange
	}

	schedule := &model.CourseSchedule{
		CourseID:  courseID,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Room:      req.Room,
	}
	schedule.CreatedBy = &teacherID
	schedule.UpdatedBy = &teacherID

	if err := s.repo.Schedule.Create(ctx, schedule); err != nil {
		s.logger.Error("创建上课时段失败", zap.Error(err))
		return nil, err
	}
	return toScheduleResponse(schedule), nil
}

// ────────────────────── ListSchedules ──────────────────────

func (s *scheduleService) ListSchedules(ctx context.Context, courseID string) ([]dto.ScheduleResponse, error) {
	if _, err := s.repo.Course.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}

	schedules, err := s.repo.Schedule.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询上课时段失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		result = append(result, *toScheduleResponse(&schedules[i]))
	}
	return result, nil
}

// ────────────────────── DeleteSchedule ──────────────────────

func (s *scheduleService) DeleteSchedule(ctx context.Context, teacherID, scheduleID string) error {
	schedule, err := s.repo.Schedule.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduleNotFound
		}
		s.logger.Error("查询上课时段失败", zap.Error(err))
		return err
	}

	// 删除同样只允许任课教师本人操作
	if _, err := s.requireOwnedCourse(ctx, teacherID, schedule.CourseID); err != nil {
		return err
	}

	return s.repo.Schedule.Delete(ctx, scheduleID, teacherID)
}

// ────────────────────── ImportFromICS ──────────────────────

func (s *scheduleService) ImportFromICS(ctx context.Context, teacherID string, req *dto.ImportScheduleRequest) (*dto.ImportScheduleResponse, error) {
	if _, err := s.requireOwnedCourse(ctx, teacherID, req.CourseID); err != nil {
		return nil, err
	}

	var schedules []model.CourseSchedule
	switch {
	case req.Content != "":
		parsed, err := ParseCourseScheduleICS(strings.NewReader(req.Content), req.CourseID, s.loc)
		if err != nil {
			return nil, err
		}
		schedules = parsed
	case req.URL != "":
		body, err := FetchICSContent(req.URL)
		if err != nil {
			s.logger.Error("获取 ICS 失败", zap.String("url", req.URL), zap.Error(err))
			return nil, err
		}
		defer body.Close()
		parsed, err := ParseCourseScheduleICS(body, req.CourseID, s.loc)
		if err != nil {
			return nil, err
		}
		schedules = parsed
	default:
		return nil, ErrICSSourceMissing
	}

	if len(schedules) == 0 {
		return nil, ErrICSEmpty
	}

	// 跳过已存在的相同时段，避免重复导入
	existing, err := s.repo.Schedule.ListByCourse(ctx, req.CourseID)
	if err != nil {
		s.logger.Error("查询已有时段失败", zap.Error(err))
		return nil, err
	}
	type slotKey struct {
		Day        int
		Start, End string
	}
	known := make(map[slotKey]struct{}, len(existing))
	for i := range existing {
		known[slotKey{existing[i].DayOfWeek, existing[i].StartTime, existing[i].EndTime}] = struct{}{}
	}

	var fresh []model.CourseSchedule
	for i := range schedules {
		k := slotKey{schedules[i].DayOfWeek, schedules[i].StartTime, schedules[i].EndTime}
		if _, ok := known[k]; ok {
			continue
		}
		schedules[i].CreatedBy = &teacherID
		schedules[i].UpdatedBy = &teacherID
		fresh = append(fresh, schedules[i])
	}

	if err := s.repo.Schedule.CreateBatch(ctx, fresh); err != nil {
		s.logger.Error("批量写入时段失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("ICS 课表导入完成",
		zap.String("course_id", req.CourseID),
		zap.Int("parsed", len(schedules)),
		zap.Int("imported", len(fresh)),
	)

	resp := &dto.ImportScheduleResponse{
		Imported:  len(fresh),
		Schedules: make([]dto.ScheduleResponse, 0, len(fresh)),
	}
	for i := range fresh {
		resp.Schedules = append(resp.Schedules, *toScheduleResponse(&fresh[i]))
	}
	return resp, nil
}

func toScheduleResponse(sc *model.CourseSchedule) *dto.ScheduleResponse {
	return &dto.ScheduleResponse{
		ScheduleID: sc.ScheduleID,
		CourseID:   sc.CourseID,
		DayOfWeek:  sc.DayOfWeek,
		StartTime:  sc.StartTime,
		EndTime:    sc.EndTime,
		Room:       sc.Room,
	}
}
