package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/dto"
	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/model"
)

// ── 测试辅助 ──

func setupTestTeacherService() (*teacherService, *mockRepos) {
	repo, mocks := newMockRepos()
	svc := &teacherService{
		repo:   repo,
		logger: zap.NewNop(),
		now:    func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }, // 周一
	}
	return svc, mocks
}

func addTeacher(mocks *mockRepos, teacherID, name string) *model.Teacher {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	teacher := &model.Teacher{
		TeacherID:    teacherID,
		Name:         name,
		Email:        teacherID + "@test.com",
		PasswordHash: string(hash),
		Department:   "计算机学院",
	}
	mocks.teacher.teachers[teacherID] = teacher
	return teacher
}

// ── GetDashboard 测试 ──

func TestTeacherService_GetDashboard(t *testing.T) {
	svc, mocks := setupTestTeacherService()
	addTeacher(mocks, "tch-001", "王老师")
	class := addClass(mocks, "cls-1", "2024-25", "5")
	addStudent(mocks, "stu-001", class)
	addStudent(mocks, "stu-002", class)

	c1 := addCourse(mocks, "crs-1", "CS101", "数据结构", class)
	c1.TeacherID = strPtr("tch-001")
	c2 := addCourse(mocks, "crs-2", "CS102", "操作系统", class) // 同班第二门课
	c2.TeacherID = strPtr("tch-001")

	// 今日（周一）排课
	_ = mocks.schedule.Create(context.Background(), &model.CourseSchedule{
		CourseID: "crs-1", DayOfWeek: 1, StartTime: "09:00:00", EndTime: "10:00:00", Room: "A101",
	})

	// 待审批请假
	_ = mocks.leave.Create(context.Background(), &model.LeaveRequest{
		StudentID: "stu-001",
		TeacherID: strPtr("tch-001"),
		Status:    model.RequestStatusPending,
	})

	result, err := svc.GetDashboard(context.Background(), "tch-001")
	if err != nil {
		t.Fatalf("GetDashboard 应成功: %v", err)
	}
	if result.TotalCourses != 2 {
		t.Errorf("期望2门课程，实际=%d", result.TotalCourses)
	}
	// 两门课同班，学生数按班级去重
	if result.TotalStudents != 2 {
		t.Errorf("期望学生数按班级去重=2，实际=%d", result.TotalStudents)
	}
	if result.PendingLeaveRequests != 1 {
		t.Errorf("期望1条待审批请假，实际=%d", result.PendingLeaveRequests)
	}
	if len(result.TodayClasses) != 1 {
		t.Errorf("期望今日1堂课，实际=%d", len(result.TodayClasses))
	}
}

func TestTeacherService_GetDashboard_TeacherNotFound(t *testing.T) {
	svc, _ := setupTestTeacherService()

	_, err := svc.GetDashboard(context.Background(), "nonexistent")
	if !errors.Is(err, ErrTeacherNotFound) {
		t.Errorf("期望 ErrTeacherNotFound，实际: %v", err)
	}
}

// ── GetStudentsByCourse 测试 ──

func TestTeacherService_GetStudentsByCourse_OrphanCourse(t *testing.T) {
	svc, mocks := setupTestTeacherService()
	addTeacher(mocks, "tch-001", "王老师")
	course := addCourse(mocks, "crs-1", "CS101", "数据结构", nil)
	course.TeacherID = strPtr("tch-001")

	result, err := svc.GetStudentsByCourse(context.Background(), "tch-001", "crs-1")
	if err != nil {
		t.Fatalf("GetStudentsByCourse 应成功: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("不挂班课程期望空名单，实际=%d", len(result))
	}
}

// ── GetStudentPerformance 测试 ──

func TestTeacherService_GetStudentPerformance(t *testing.T) {
	svc, mocks := setupTestTeacherService()
	addStudent(mocks, "stu-001", nil)
	addCourse(mocks, "crs-1", "CS101", "数据结构", nil)
	addAttendance(t, mocks, "stu-001", "crs-1", "2025-03-03", model.AttendanceStatusPresent)
	addAttendance(t, mocks, "stu-001", "crs-1", "2025-03-04", model.AttendanceStatusLate)

	result, err := svc.GetStudentPerformance(context.Background(), "stu-001", "crs-1")
	if err != nil {
		t.Fatalf("GetStudentPerformance 应成功: %v", err)
	}
	if result.TotalClasses != 2 || result.PresentCount != 1 {
		t.Errorf("期望总数2出勤1，实际=%d/%d", result.TotalClasses, result.PresentCount)
	}
	if result.Percentage != 50.0 {
		t.Errorf("期望百分比=50.0，实际=%v", result.Percentage)
	}
}

// ── 解锁申请测试 ──

func TestTeacherService_CreateUnlockRequest(t *testing.T) {
	svc, mocks := setupTestTeacherService()
	addTeacher(mocks, "tch-001", "王老师")
	addCourse(mocks, "crs-1", "CS101", "数据结构", nil)

	req := &dto.CreateUnlockRequest{
		CourseID: "crs-1",
		Date:     "2025-03-03",
		Reason:   "录入遗漏需补改",
	}
	result, err := svc.CreateUnlockRequest(context.Background(), "tch-001", req)
	if err != nil {
		t.Fatalf("CreateUnlockRequest 应成功: %v", err)
	}
	if result.Status != model.RequestStatusPending {
		t.Errorf("期望初始状态=PENDING，实际=%s", result.Status)
	}
	if result.CourseName != "数据结构" {
		t.Errorf("期望课程名=数据结构，实际=%s", result.CourseName)
	}
}

func TestTeacherService_CreateUnlockRequest_InvalidDate(t *testing.T) {
	svc, mocks := setupTestTeacherService()
	addTeacher(mocks, "tch-001", "王老师")

	req := &dto.CreateUnlockRequest{CourseID: "crs-1", Date: "03/03/2025", Reason: "x"}
	if _, err := svc.CreateUnlockRequest(context.Background(), "tch-001", req); !errors.Is(err, ErrDateInvalid) {
		t.Errorf("期望 ErrDateInvalid，实际: %v", err)
	}
}

// ── 请假审批测试 ──

func TestTeacherService_ProcessLeaveRequest_Approve(t *testing.T) {
	svc, mocks := setupTestTeacherService()
	addTeacher(mocks, "tch-001", "王老师")
	addStudent(mocks, "stu-001", nil)
	_ = mocks.leave.Create(context.Background(), &model.LeaveRequest{
		LeaveRequestID: "leave-1",
		StudentID:      "stu-001",
		TeacherID:      strPtr("tch-001"),
		Status:         model.RequestStatusPending,
	})

	if err := svc.ProcessLeaveRequest(context.Background(), "tch-001", "leave-1", true); err != nil {
		t.Fatalf("ProcessLeaveRequest 应成功: %v", err)
	}
	if mocks.leave.requests["leave-1"].Status != model.RequestStatusApproved {
		t.Errorf("期望状态=APPROVED，实际=%s", mocks.leave.requests["leave-1"].Status)
	}
}

func TestTeacherService_ProcessLeaveRequest_AlreadyProcessed(t *testing.T) {
	svc, mocks := setupTestTeacherService()
	addTeacher(mocks, "tch-001", "王老师")
	_ = mocks.leave.Create(context.Background(), &model.LeaveRequest{
		LeaveRequestID: "leave-1",
		StudentID:      "stu-001",
		Status:         model.RequestStatusApproved,
	})

	err := svc.ProcessLeaveRequest(context.Background(), "tch-001", "leave-1", false)
	if !errors.Is(err, ErrLeaveAlreadyProcessed) {
		t.Errorf("期望 ErrLeaveAlreadyProcessed，实际: %v", err)
	}
}

func TestTeacherService_ProcessLeaveRequest_NotAssigned(t *testing.T) {
	svc, mocks := setupTestTeacherService()
	addTeacher(mocks, "tch-001", "王老师")
	addTeacher(mocks, "tch-002", "李老师")
	_ = mocks.leave.Create(context.Background(), &model.LeaveRequest{
		LeaveRequestID: "leave-1",
		StudentID:      "stu-001",
		TeacherID:      strPtr("tch-002"),
		Status:         model.RequestStatusPending,
	})

	err := svc.ProcessLeaveRequest(context.Background(), "tch-001", "leave-1", true)
	if !errors.Is(err, ErrLeaveNotAssigned) {
		t.Errorf("期望 ErrLeaveNotAssigned，实际: %v", err)
	}
}

func TestTeacherService_ProcessLeaveRequest_UnassignedClaimable(t *testing.T) {
	svc, mocks := setupTestTeacherService()
	addTeacher(mocks, "tch-001", "王老师")
	// 未指派教师的申请任何教师都可认领处理
	_ = mocks.leave.Create(context.Background(), &model.LeaveRequest{
		LeaveRequestID: "leave-1",
		StudentID:      "stu-001",
		Status:         model.RequestStatusPending,
	})

	if err := svc.ProcessLeaveRequest(context.Background(), "tch-001", "leave-1", false); err != nil {
		t.Fatalf("ProcessLeaveRequest 应成功: %v", err)
	}
	stored := mocks.leave.requests["leave-1"]
	if stored.Status != model.RequestStatusRejected {
		t.Errorf("期望状态=REJECTED，实际=%s", stored.Status)
	}
	if stored.TeacherID == nil || *stored.TeacherID != "tch-001" {
		t.Error("期望处理人记录为 tch-001")
	}
}

// ── 个人资料测试 ──

func TestTeacherService_ChangePassword(t *testing.T) {
	svc, mocks := setupTestTeacherService()
	addTeacher(mocks, "tch-001", "王老师")

	req := &dto.ChangePasswordRequest{OldPassword: "password123", NewPassword: "newpassword456"}
	if err := svc.ChangePassword(context.Background(), "tch-001", req); err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}

	updated := mocks.teacher.teachers["tch-001"]
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("newpassword456")); err != nil {
		t.Error("新密码应可校验通过")
	}
}

func TestTeacherService_ChangePassword_WrongOld(t *testing.T) {
	svc, mocks := setupTestTeacherService()
	addTeacher(mocks, "tch-001", "王老师")

	req := &dto.ChangePasswordRequest{OldPassword: "wrong", NewPassword: "newpassword456"}
	if err := svc.ChangePassword(context.Background(), "tch-001", req); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("期望 ErrPasswordMismatch，实际: %v", err)
	}
}

func TestTeacherService_UpdateProfile(t *testing.T) {
	svc, mocks := setupTestTeacherService()
	addTeacher(mocks, "tch-001", "王老师")

	req := &dto.UpdateTeacherProfileRequest{Name: "王教授", Department: "软件学院", Phone: "13800138000"}
	result, err := svc.UpdateProfile(context.Background(), "tch-001", req)
	if err != nil {
		t.Fatalf("UpdateProfile 应成功: %v", err)
	}
	if result.Name != "王教授" || result.Department != "软件学院" {
		t.Errorf("期望资料已更新，实际=%+v", result)
	}
}
