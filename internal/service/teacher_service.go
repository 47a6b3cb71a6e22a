package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/dto"
	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/model"
	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/repository"
)

// ── 教师模块业务错误 ──

var (
	ErrTeacherNotFound       = errors.New("教师不存在")
	ErrLeaveRequestNotFound  = errors.New("请假申请不存在")
	ErrLeaveAlreadyProcessed = errors.New("请假申请已处理，不能重复审批")
	ErrLeaveNotAssigned      = errors.New("无权审批该请假申请")
	ErrPasswordMismatch      = errors.New("原密码不正确")
)

// TeacherService 教师端业务接口
type TeacherService interface {
	GetDashboard(ctx context.Context, teacherID string) (*dto.TeacherDashboardResponse, error)
	GetTeacherCourses(ctx context.Context, teacherID string) ([]dto.CourseResponse, error)
	GetStudentsByCourse(ctx context.Context, teacherID, courseID string) ([]dto.StudentSummaryResponse, error)
	GetStudentPerformance(ctx context.Context, studentID, courseID string) (*dto.StudentPerformanceResponse, error)
	CreateUnlockRequest(ctx context.Context, teacherID string, req *dto.CreateUnlockRequest) (*dto.UnlockRequestResponse, error)
	ListUnlockRequests(ctx context.Context, teacherID string) ([]dto.UnlockRequestResponse, error)
	ListPendingLeaveRequests(ctx context.Context, teacherID string) ([]dto.LeaveRequestResponse, error)
	ProcessLeaveRequest(ctx context.Context, teacherID, leaveRequestID string, approve bool) error
	GetProfile(ctx context.Context, teacherID string) (*dto.TeacherProfileResponse, error)
	UpdateProfile(ctx context.Context, teacherID string, req *dto.UpdateTeacherProfileRequest) (*dto.TeacherProfileResponse, error)
	ChangePassword(ctx context.Context, teacherID string, req *dto.ChangePasswordRequest) error
}

type teacherService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time // 测试注入
}

// NewTeacherService 创建 TeacherService 实例
func NewTeacherService(repo *repository.Repository, logger *zap.Logger) TeacherService {
	return &teacherService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *teacherService) requireTeacher(ctx context.Context, teacherID string) (*model.Teacher, error) {
	teacher, err := s.repo.Teacher.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		s.logger.Error("查询教师失败", zap.String("teacher_id", teacherID), zap.Error(err))
		return nil, err
	}
	return teacher, nil
}

// ────────────────────── 工作台 ──────────────────────

// GetDashboard 教师工作台：课程数、学生总数、待审批请假数、今日课程
func (s *teacherService) GetDashboard(ctx context.Context, teacherID string) (*dto.TeacherDashboardResponse, error) {
	teacher, err := s.requireTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	courses, err := s.repo.Course.ListByTeacher(ctx, teacherID)
	if err != nil {
		s.logger.Error("查询教师课程失败", zap.Error(err))
		return nil, err
	}

	// 学生总数按课程挂靠班级去重统计
	classSet := make(map[string]struct{})
	classIDs := make([]string, 0, len(courses))
	courseIDs := make([]string, 0, len(courses))
	for i := range courses {
		courseIDs = append(courseIDs, courses[i].CourseID)
		if courses[i].ClassID == nil {
			continue
		}
		if _, ok := classSet[*courses[i].ClassID]; ok {
			continue
		}
		classSet[*courses[i].ClassID] = struct{}{}
		classIDs = append(classIDs, *courses[i].ClassID)
	}

	totalStudents, err := s.repo.Student.CountByClasses(ctx, classIDs)
	if err != nil {
		s.logger.Error("统计学生总数失败", zap.Error(err))
		return nil, err
	}

	pendingLeaves, err := s.repo.LeaveRequest.CountPendingByTeacher(ctx, teacherID)
	if err != nil {
		s.logger.Error("统计待审批请假失败", zap.Error(err))
		return nil, err
	}

	todaySchedules, err := s.repo.Schedule.ListByCoursesAndDay(ctx, courseIDs, dayOfWeek(s.now()))
	if err != nil {
		s.logger.Error("查询今日课程失败", zap.Error(err))
		return nil, err
	}

	todayClasses := make([]dto.TodayClassResponse, 0, len(todaySchedules))
	for i := range todaySchedules {
		sc := &todaySchedules[i]
		item := dto.TodayClassResponse{
			CourseID:  sc.CourseID,
			StartTime: sc.StartTime,
			EndTime:   sc.EndTime,
			Room:      sc.Room,
		}
		if sc.Course != nil {
			item.CourseName = sc.Course.CourseName
			item.CourseCode = sc.Course.CourseCode
		}
		todayClasses = append(todayClasses, item)
	}

	return &dto.TeacherDashboardResponse{
		TeacherName:          teacher.Name,
		TotalCourses:         len(courses),
		TotalStudents:        int(totalStudents),
		PendingLeaveRequests: int(pendingLeaves),
		TodayClasses:         todayClasses,
	}, nil
}

// ────────────────────── 课程与学生 ──────────────────────

func (s *teacherService) GetTeacherCourses(ctx context.Context, teacherID string) ([]dto.CourseResponse, error) {
	if _, err := s.requireTeacher(ctx, teacherID); err != nil {
		return nil, err
	}

	courses, err := s.repo.Course.ListByTeacher(ctx, teacherID)
	if err != nil {
		s.logger.Error("查询教师课程失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		c := &courses[i]
		item := dto.CourseResponse{
			CourseID:   c.CourseID,
			CourseName: c.CourseName,
			CourseCode: c.CourseCode,
		}
		if c.Class != nil {
			item.ClassName = c.Class.Name
			item.AcademicYear = c.Class.AcademicYear
			item.Semester = c.Class.Semester
		}
		result = append(result, item)
	}
	return result, nil
}

// GetStudentsByCourse 返回课程挂靠班级的在读学生名单
func (s *teacherService) GetStudentsByCourse(ctx context.Context, teacherID, courseID string) ([]dto.StudentSummaryResponse, error) {
	if _, err := s.requireTeacher(ctx, teacherID); err != nil {
		return nil, err
	}

	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}
	// 历史遗留课程不再挂班，名单为空
	if course.ClassID == nil {
		return []dto.StudentSummaryResponse{}, nil
	}

	students, err := s.repo.Student.ListByClass(ctx, *course.ClassID)
	if err != nil {
		s.logger.Error("查询班级学生失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.StudentSummaryResponse, 0, len(students))
	for i := range students {
		result = append(result, dto.StudentSummaryResponse{
			StudentID:  students[i].StudentID,
			Name:       students[i].Name,
			RollNumber: students[i].RollNumber,
		})
	}
	return result, nil
}

// GetStudentPerformance 学生单门课程的出勤统计
func (s *teacherService) GetStudentPerformance(ctx context.Context, studentID, courseID string) (*dto.StudentPerformanceResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, err
	}
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}

	total, err := s.repo.Attendance.CountByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		s.logger.Error("统计考勤总数失败", zap.Error(err))
		return nil, err
	}
	present, err := s.repo.Attendance.CountPresentByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		s.logger.Error("统计出勤数失败", zap.Error(err))
		return nil, err
	}

	return &dto.StudentPerformanceResponse{
		StudentID:    student.StudentID,
		StudentName:  student.Name,
		CourseID:     course.CourseID,
		CourseName:   course.CourseName,
		TotalClasses: int(total),
		PresentCount: int(present),
		Percentage:   roundPct(present, total),
	}, nil
}

// ────────────────────── 解锁申请 ──────────────────────

func (s *teacherService) CreateUnlockRequest(ctx context.Context, teacherID string, req *dto.CreateUnlockRequest) (*dto.UnlockRequestResponse, error) {
	if _, err := s.requireTeacher(ctx, teacherID); err != nil {
		return nil, err
	}

	day, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, ErrDateInvalid
	}

	course, err := s.repo.Course.GetByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}

	request := &model.UnlockRequest{
		TeacherID: teacherID,
		CourseID:  req.CourseID,
		Date:      day,
		Reason:    req.Reason,
		Status:    model.RequestStatusPending,
	}
	request.CreatedBy = &teacherID
	request.UpdatedBy = &teacherID

	if err := s.repo.UnlockRequest.Create(ctx, request); err != nil {
		s.logger.Error("创建解锁申请失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("解锁申请已提交",
		zap.String("teacher_id", teacherID),
		zap.String("course_id", req.CourseID),
		zap.String("date", req.Date),
	)
	resp := toUnlockResponse(request)
	resp.CourseName = course.CourseName
	return resp, nil
}

func (s *teacherService) ListUnlockRequests(ctx context.Context, teacherID string) ([]dto.UnlockRequestResponse, error) {
	if _, err := s.requireTeacher(ctx, teacherID); err != nil {
		return nil, err
	}

	requests, err := s.repo.UnlockRequest.ListByTeacher(ctx, teacherID)
	if err != nil {
		s.logger.Error("查询解锁申请失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.UnlockRequestResponse, 0, len(requests))
	for i := range requests {
		resp := toUnlockResponse(&requests[i])
		if requests[i].Course != nil {
			resp.CourseName = requests[i].Course.CourseName
		}
		result = append(result, *resp)
	}
	return result, nil
}

func toUnlockResponse(r *model.UnlockRequest) *dto.UnlockRequestResponse {
	return &dto.UnlockRequestResponse{
		ID:        r.UnlockRequestID,
		CourseID:  r.CourseID,
		Date:      r.Date.Format(dateLayout),
		Reason:    r.Reason,
		Status:    r.Status,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

// ────────────────────── 请假审批 ──────────────────────

func (s *teacherService) ListPendingLeaveRequests(ctx context.Context, teacherID string) ([]dto.LeaveRequestResponse, error) {
	if _, err := s.requireTeacher(ctx, teacherID); err != nil {
		return nil, err
	}

	requests, err := s.repo.LeaveRequest.ListPendingByTeacher(ctx, teacherID)
	if err != nil {
		s.logger.Error("查询待审批请假失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.LeaveRequestResponse, 0, len(requests))
	for i := range requests {
		result = append(result, *toLeaveResponse(&requests[i]))
	}
	return result, nil
}

// ProcessLeaveRequest 审批请假申请；仅 PENDING 状态可审批，且只能审批指派给自己的申请
func (s *teacherService) ProcessLeaveRequest(ctx context.Context, teacherID, leaveRequestID string, approve bool) error {
	if _, err := s.requireTeacher(ctx, teacherID); err != nil {
		return err
	}

	request, err := s.repo.LeaveRequest.GetByID(ctx, leaveRequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLeaveRequestNotFound
		}
		s.logger.Error("查询请假申请失败", zap.Error(err))
		return err
	}
	if request.Status != model.RequestStatusPending {
		return ErrLeaveAlreadyProcessed
	}
	if request.TeacherID != nil && *request.TeacherID != teacherID {
		return ErrLeaveNotAssigned
	}

	if approve {
		request.Status = model.RequestStatusApproved
	} else {
		request.Status = model.RequestStatusRejected
	}
	request.TeacherID = &teacherID
	request.UpdatedBy = &teacherID

	if err := s.repo.LeaveRequest.Update(ctx, request); err != nil {
		s.logger.Error("更新请假申请失败", zap.Error(err))
		return err
	}

	s.logger.Info("请假申请已审批",
		zap.String("leave_request_id", leaveRequestID),
		zap.String("teacher_id", teacherID),
		zap.Bool("approved", approve),
	)
	return nil
}

// ────────────────────── 个人资料 ──────────────────────

func (s *teacherService) GetProfile(ctx context.Context, teacherID string) (*dto.TeacherProfileResponse, error) {
	teacher, err := s.requireTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return toTeacherProfile(teacher), nil
}

func (s *teacherService) UpdateProfile(ctx context.Context, teacherID string, req *dto.UpdateTeacherProfileRequest) (*dto.TeacherProfileResponse, error) {
	teacher, err := s.requireTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	teacher.Name = req.Name
	teacher.Department = req.Department
	teacher.Phone = req.Phone
	teacher.UpdatedBy = &teacherID

	if err := s.repo.Teacher.Update(ctx, teacher); err != nil {
		s.logger.Error("更新教师资料失败", zap.Error(err))
		return nil, err
	}
	return toTeacherProfile(teacher), nil
}

func (s *teacherService) ChangePassword(ctx context.Context, teacherID string, req *dto.ChangePasswordRequest) error {
	teacher, err := s.requireTeacher(ctx, teacherID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(teacher.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("生成密码哈希失败", zap.Error(err))
		return err
	}
	teacher.PasswordHash = string(hash)
	teacher.UpdatedBy = &teacherID

	if err := s.repo.Teacher.Update(ctx, teacher); err != nil {
		s.logger.Error("更新密码失败", zap.Error(err))
		return err
	}

	s.logger.Info("教师密码已修改", zap.String("teacher_id", teacherID))
	return nil
}

func toTeacherProfile(t *model.Teacher) *dto.TeacherProfileResponse {
	return &dto.TeacherProfileResponse{
		TeacherID:  t.TeacherID,
		Name:       t.Name,
		Email:      t.Email,
		Department: t.Department,
		Phone:      t.Phone,
	}
}
