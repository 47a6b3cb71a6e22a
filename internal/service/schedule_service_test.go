package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/dto"
	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/model"
)

// ── 测试辅助 ──

func setupTestScheduleService() (ScheduleService, *mockRepos) {
	repo, mocks := newMockRepos()
	svc := NewScheduleService(repo, zap.NewNop(), time.UTC)
	return svc, mocks
}

// sampleICS 周一 09:00-10:00 与周三 14:00-15:30 两个时段；
// 周一时段以两个事件出现（相邻两周），解析后应合并
const sampleICS = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//EN
BEGIN:VEVENT
UID:evt-1
SUMMARY:数据结构
DTSTART:20250310T090000
DTEND:20250310T100000
LOCATION:A101
END:VEVENT
BEGIN:VEVENT
UID:evt-2
SUMMARY:数据结构
DTSTART:20250317T090000
DTEND:20250317T100000
LOCATION:A101
END:VEVENT
BEGIN:VEVENT
UID:evt-3
SUMMARY:数据结构实验
DTSTART:20250312T140000
DTEND:20250312T153000
LOCATION:B202
END:VEVENT
END:VCALENDAR
`

// ── ICS 解析测试 ──

func TestParseCourseScheduleICS(t *testing.T) {
	result, err := ParseCourseScheduleICS(strings.NewReader(sampleICS), "crs-1", time.UTC)
	if err != nil {
		t.Fatalf("解析应成功: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("期望合并后2个时段，实际=%d", len(result))
	}

	// 按 (星期, 开始时间) 排序：周一在前
	if result[0].DayOfWeek != 1 || result[0].StartTime != "09:00:00" || result[0].EndTime != "10:00:00" {
		t.Errorf("期望周一09:00:00-10:00:00，实际=%d %s-%s",
			result[0].DayOfWeek, result[0].StartTime, result[0].EndTime)
	}
	if result[0].Room != "A101" {
		t.Errorf("期望教室=A101，实际=%s", result[0].Room)
	}
	if result[1].DayOfWeek != 3 || result[1].StartTime != "14:00:00" {
		t.Errorf("期望周三14:00:00，实际=%d %s", result[1].DayOfWeek, result[1].StartTime)
	}
}

func TestParseCourseScheduleICS_Invalid(t *testing.T) {
	if _, err := ParseCourseScheduleICS(strings.NewReader("not an ics file"), "crs-1", time.UTC); err == nil {
		t.Error("非法内容应返回错误")
	}
}

// ── CreateSchedule 测试 ──

func TestScheduleService_CreateSchedule(t *testing.T) {
	svc, mocks := setupTestScheduleService()
	course := addCourse(mocks, "crs-1", "CS101", "数据结构", nil)
	course.TeacherID = strPtr("tch-001")

	req := &dto.CreateScheduleRequest{DayOfWeek: 1, StartTime: "09:00:00", EndTime: "10:00:00", Room: "A101"}
	result, err := svc.CreateSchedule(context.Background(), "tch-001", "crs-1", req)
	if err != nil {
		t.Fatalf("CreateSchedule 应成功: %v", err)
	}
	if result.ScheduleID == "" {
		t.Error("期望返回时段ID")
	}
}

func TestScheduleService_CreateSchedule_NotOwned(t *testing.T) {
	svc, mocks := setupTestScheduleService()
	course := addCourse(mocks, "crs-1", "CS101", "数据结构", nil)
	course.TeacherID = strPtr("tch-other")

	req := &dto.CreateScheduleRequest{DayOfWeek: 1, StartTime: "09:00:00", EndTime: "10:00:00"}
	if _, err := svc.CreateSchedule(context.Background(), "tch-001", "crs-1", req); !errors.Is(err, ErrCourseNotOwned) {
		t.Errorf("期望 ErrCourseNotOwned，实际: %v", err)
	}
}

func TestScheduleService_CreateSchedule_BadTimeRange(t *testing.T) {
	svc, mocks := setupTestScheduleService()
	course := addCourse(mocks, "crs-1", "CS101", "数据结构", nil)
	course.TeacherID = strPtr("tch-001")

	req := &dto.CreateScheduleRequest{DayOfWeek: 1, StartTime: "10:00:00", EndTime: "09:00:00"}
	if _, err := svc.CreateSchedule(context.Background(), "tch-001", "crs-1", req); !errors.Is(err, ErrScheduleTimeRange) {
		t.Errorf("期望 ErrScheduleTimeRange，实际: %v", err)
	}
}

// ── DeleteSchedule 测试 ──

func TestScheduleService_DeleteSchedule(t *testing.T) {
	svc, mocks := setupTestScheduleService()
	course := addCourse(mocks, "crs-1", "CS101", "数据结构", nil)
	course.TeacherID = strPtr("tch-001")
	_ = mocks.schedule.Create(context.Background(), &model.CourseSchedule{
		ScheduleID: "sch-1", CourseID: "crs-1", DayOfWeek: 1, StartTime: "09:00:00", EndTime: "10:00:00",
	})

	if err := svc.DeleteSchedule(context.Background(), "tch-001", "sch-1"); err != nil {
		t.Fatalf("DeleteSchedule 应成功: %v", err)
	}
	if _, ok := mocks.schedule.schedules["sch-1"]; ok {
		t.Error("期望时段已删除，实际仍存在")
	}
}

func TestScheduleService_DeleteSchedule_NotOwned(t *testing.T) {
	svc, mocks := setupTestScheduleService()
	course := addCourse(mocks, "crs-1", "CS101", "数据结构", nil)
	course.TeacherID = strPtr("tch-other")
	_ = mocks.schedule.Create(context.Background(), &model.CourseSchedule{
		ScheduleID: "sch-1", CourseID: "crs-1", DayOfWeek: 1, StartTime: "09:00:00", EndTime: "10:00:00",
	})

	if err := svc.DeleteSchedule(context.Background(), "tch-001", "sch-1"); !errors.Is(err, ErrCourseNotOwned) {
		t.Errorf("期望 ErrCourseNotOwned，实际: %v", err)
	}
	if _, ok := mocks.schedule.schedules["sch-1"]; !ok {
		t.Error("期望时段未被删除，实际已不存在")
	}
}

func TestScheduleService_DeleteSchedule_NotFound(t *testing.T) {
	svc, _ := setupTestScheduleService()
	if err := svc.DeleteSchedule(context.Background(), "tch-001", "sch-missing"); !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("期望 ErrScheduleNotFound，实际: %v", err)
	}
}

// ── ImportFromICS 测试 ──

func TestScheduleService_ImportFromICS_Content(t *testing.T) {
	svc, mocks := setupTestScheduleService()
	course := addCourse(mocks, "crs-1", "CS101", "数据结构", nil)
	course.TeacherID = strPtr("tch-001")

	req := &dto.ImportScheduleRequest{CourseID: "crs-1", Content: sampleICS}
	result, err := svc.ImportFromICS(context.Background(), "tch-001", req)
	if err != nil {
		t.Fatalf("ImportFromICS 应成功: %v", err)
	}
	if result.Imported != 2 {
		t.Errorf("期望导入2个时段，实际=%d", result.Imported)
	}
	if len(mocks.schedule.schedules) != 2 {
		t.Errorf("期望库中2个时段，实际=%d", len(mocks.schedule.schedules))
	}
}

func TestScheduleService_ImportFromICS_SkipsExisting(t *testing.T) {
	svc, mocks := setupTestScheduleService()
	course := addCourse(mocks, "crs-1", "CS101", "数据结构", nil)
	course.TeacherID = strPtr("tch-001")
	// 周一时段已存在
	_ = mocks.schedule.Create(context.Background(), &model.CourseSchedule{
		CourseID: "crs-1", DayOfWeek: 1, StartTime: "09:00:00", EndTime: "10:00:00",
	})

	req := &dto.ImportScheduleRequest{CourseID: "crs-1", Content: sampleICS}
	result, err := svc.ImportFromICS(context.Background(), "tch-001", req)
	if err != nil {
		t.Fatalf("ImportFromICS 应成功: %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("期望仅导入新增的1个时段，实际=%d", result.Imported)
	}
}

func TestScheduleService_ImportFromICS_NoSource(t *testing.T) {
	svc, mocks := setupTestScheduleService()
	course := addCourse(mocks, "crs-1", "CS101", "数据结构", nil)
	course.TeacherID = strPtr("tch-001")

	req := &dto.ImportScheduleRequest{CourseID: "crs-1"}
	if _, err := svc.ImportFromICS(context.Background(), "tch-001", req); !errors.Is(err, ErrICSSourceMissing) {
		t.Errorf("期望 ErrICSSourceMissing，实际: %v", err)
	}
}
