package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/model"
	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/repository"
)

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByEmail(_ context.Context, email string) (*model.Student, error) {
	for _, s := range m.students {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) ListByClass(_ context.Context, classID string) ([]model.Student, error) {
	var result []model.Student
	for _, s := range m.students {
		if s.ClassID != nil && *s.ClassID == classID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockStudentRepo) CountByClasses(_ context.Context, classIDs []string) (int64, error) {
	set := make(map[string]bool, len(classIDs))
	for _, id := range classIDs {
		set[id] = true
	}
	var count int64
	for _, s := range m.students {
		if s.ClassID != nil && set[*s.ClassID] {
			count++
		}
	}
	return count, nil
}

func (m *mockStudentRepo) Update(_ context.Context, student *model.Student) error {
	m.students[student.StudentID] = student
	return nil
}

// ── Mock TeacherRepository ──

type mockTeacherRepo struct {
	teachers map[string]*model.Teacher
}

func newMockTeacherRepo() *mockTeacherRepo {
	return &mockTeacherRepo{teachers: make(map[string]*model.Teacher)}
}

func (m *mockTeacherRepo) GetByID(_ context.Context, id string) (*model.Teacher, error) {
	if t, ok := m.teachers[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) GetByEmail(_ context.Context, email string) (*model.Teacher, error) {
	for _, t := range m.teachers {
		if t.Email == email {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) Update(_ context.Context, teacher *model.Teacher) error {
	m.teachers[teacher.TeacherID] = teacher
	return nil
}

// ── Mock ClassRepository ──

type mockClassRepo struct {
	classes map[string]*model.ClassSection
}

func newMockClassRepo() *mockClassRepo {
	return &mockClassRepo{classes: make(map[string]*model.ClassSection)}
}

func (m *mockClassRepo) GetByID(_ context.Context, id string) (*model.ClassSection, error) {
	if c, ok := m.classes[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses    map[string]*model.Course
	attendance *mockAttendanceRepo // 用于 ListAttendedByStudent 联查
}

func newMockCourseRepo(attendance *mockAttendanceRepo) *mockCourseRepo {
	return &mockCourseRepo{
		courses:    make(map[string]*model.Course),
		attendance: attendance,
	}
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) ListByClass(_ context.Context, classID string) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.courses {
		if c.ClassID != nil && *c.ClassID == classID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockCourseRepo) ListByTeacher(_ context.Context, teacherID string) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.courses {
		if c.TeacherID != nil && *c.TeacherID == teacherID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockCourseRepo) ListAttendedByStudent(_ context.Context, studentID string) ([]model.Course, error) {
	seen := make(map[string]bool)
	var result []model.Course
	for _, r := range m.attendance.records {
		if r.StudentID != studentID || seen[r.CourseID] {
			continue
		}
		seen[r.CourseID] = true
		if c, ok := m.courses[r.CourseID]; ok {
			result = append(result, *c)
		}
	}
	return result, nil
}

// ── Mock CourseScheduleRepository ──

type mockScheduleRepo struct {
	schedules map[string]*model.CourseSchedule
	seq       int
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{schedules: make(map[string]*model.CourseSchedule)}
}

func (m *mockScheduleRepo) Create(_ context.Context, schedule *model.CourseSchedule) error {
	if schedule.ScheduleID == "" {
		m.seq++
		schedule.ScheduleID = fmt.Sprintf("sch-%03d", m.seq)
	}
	m.schedules[schedule.ScheduleID] = schedule
	return nil
}

func (m *mockScheduleRepo) CreateBatch(ctx context.Context, schedules []model.CourseSchedule) error {
	for i := range schedules {
		if err := m.Create(ctx, &schedules[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockScheduleRepo) GetByID(_ context.Context, id string) (*model.CourseSchedule, error) {
	s, ok := m.schedules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (m *mockScheduleRepo) GetByCourseAndDay(_ context.Context, courseID string, dayOfWeek int) (*model.CourseSchedule, error) {
	var best *model.CourseSchedule
	for _, s := range m.schedules {
		if s.CourseID != courseID || s.DayOfWeek != dayOfWeek {
			continue
		}
		if best == nil || s.StartTime < best.StartTime {
			best = s
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

func (m *mockScheduleRepo) ListByCourse(_ context.Context, courseID string) ([]model.CourseSchedule, error) {
	var result []model.CourseSchedule
	for _, s := range m.schedules {
		if s.CourseID == courseID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockScheduleRepo) ListByCoursesAndDay(_ context.Context, courseIDs []string, dayOfWeek int) ([]model.CourseSchedule, error) {
	set := make(map[string]bool, len(courseIDs))
	for _, id := range courseIDs {
		set[id] = true
	}
	var result []model.CourseSchedule
	for _, s := range m.schedules {
		if set[s.CourseID] && s.DayOfWeek == dayOfWeek {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockScheduleRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.schedules, id)
	return nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	records map[string]*model.AttendanceRecord
	seq     int
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{records: make(map[string]*model.AttendanceRecord)}
}

func (m *mockAttendanceRepo) sessionKey(studentID, courseID string, date time.Time) string {
	return strings.Join([]string{studentID, courseID, date.Format("2006-01-02")}, "|")
}

func (m *mockAttendanceRepo) Create(_ context.Context, record *model.AttendanceRecord) error {
	// 模拟 (student, course, date) 唯一索引
	key := m.sessionKey(record.StudentID, record.CourseID, record.Date)
	for _, r := range m.records {
		if m.sessionKey(r.StudentID, r.CourseID, r.Date) == key {
			return gorm.ErrDuplicatedKey
		}
	}
	if record.AttendanceID == "" {
		m.seq++
		record.AttendanceID = fmt.Sprintf("att-%03d", m.seq)
	}
	if record.Version == 0 {
		record.Version = 1
	}
	m.records[record.AttendanceID] = record
	return nil
}

func (m *mockAttendanceRepo) GetByID(_ context.Context, id string) (*model.AttendanceRecord, error) {
	if r, ok := m.records[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) CountByStudentAndCourse(_ context.Context, studentID, courseID string) (int64, error) {
	var count int64
	for _, r := range m.records {
		if r.StudentID == studentID && r.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

func (m *mockAttendanceRepo) CountPresentByStudentAndCourse(_ context.Context, studentID, courseID string) (int64, error) {
	var count int64
	for _, r := range m.records {
		if r.StudentID == studentID && r.CourseID == courseID && r.Status == model.AttendanceStatusPresent {
			count++
		}
	}
	return count, nil
}

func (m *mockAttendanceRepo) ListByStudentAndCourse(_ context.Context, studentID, courseID string) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.StudentID == studentID && r.CourseID == courseID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) ListByStudentAndDateRange(_ context.Context, studentID string, start, end time.Time) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.StudentID == studentID && !r.Date.Before(start) && !r.Date.After(end) {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) ListByCourseAndDate(_ context.Context, courseID string, date time.Time) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.CourseID == courseID && r.Date.Equal(date) {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) ListByCourseAndDateRange(_ context.Context, courseID string, start, end time.Time) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.CourseID == courseID && !r.Date.Before(start) && !r.Date.After(end) {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) ExistsForSession(_ context.Context, courseID string, date time.Time) (bool, error) {
	for _, r := range m.records {
		if r.CourseID == courseID && r.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAttendanceRepo) UpdateStatusVersioned(_ context.Context, id, status string, version int, updatedBy string) (int64, error) {
	r, ok := m.records[id]
	if !ok || r.Version != version {
		return 0, nil
	}
	r.Status = status
	r.Version++
	r.UpdatedBy = &updatedBy
	return 1, nil
}

// ── Mock LeaveRequestRepository ──

type mockLeaveRepo struct {
	requests map[string]*model.LeaveRequest
	seq      int
}

func newMockLeaveRepo() *mockLeaveRepo {
	return &mockLeaveRepo{requests: make(map[string]*model.LeaveRequest)}
}

func (m *mockLeaveRepo) Create(_ context.Context, request *model.LeaveRequest) error {
	if request.LeaveRequestID == "" {
		m.seq++
		request.LeaveRequestID = fmt.Sprintf("leave-%03d", m.seq)
	}
	m.requests[request.LeaveRequestID] = request
	return nil
}

func (m *mockLeaveRepo) GetByID(_ context.Context, id string) (*model.LeaveRequest, error) {
	if r, ok := m.requests[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeaveRepo) ListByStudent(_ context.Context, studentID string) ([]model.LeaveRequest, error) {
	var result []model.LeaveRequest
	for _, r := range m.requests {
		if r.StudentID == studentID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockLeaveRepo) ListPendingByTeacher(_ context.Context, teacherID string) ([]model.LeaveRequest, error) {
	var result []model.LeaveRequest
	for _, r := range m.requests {
		if r.TeacherID != nil && *r.TeacherID == teacherID && r.Status == model.RequestStatusPending {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockLeaveRepo) CountPendingByTeacher(ctx context.Context, teacherID string) (int64, error) {
	list, _ := m.ListPendingByTeacher(ctx, teacherID)
	return int64(len(list)), nil
}

func (m *mockLeaveRepo) Update(_ context.Context, request *model.LeaveRequest) error {
	m.requests[request.LeaveRequestID] = request
	return nil
}

// ── Mock UnlockRequestRepository ──

type mockUnlockRepo struct {
	requests map[string]*model.UnlockRequest
	seq      int
}

func newMockUnlockRepo() *mockUnlockRepo {
	return &mockUnlockRepo{requests: make(map[string]*model.UnlockRequest)}
}

func (m *mockUnlockRepo) Create(_ context.Context, request *model.UnlockRequest) error {
	if request.UnlockRequestID == "" {
		m.seq++
		request.UnlockRequestID = fmt.Sprintf("unlock-%03d", m.seq)
	}
	m.requests[request.UnlockRequestID] = request
	return nil
}

func (m *mockUnlockRepo) GetByID(_ context.Context, id string) (*model.UnlockRequest, error) {
	if r, ok := m.requests[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUnlockRepo) ListByTeacher(_ context.Context, teacherID string) ([]model.UnlockRequest, error) {
	var result []model.UnlockRequest
	for _, r := range m.requests {
		if r.TeacherID == teacherID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockUnlockRepo) HasApprovedForSession(_ context.Context, courseID string, date time.Time) (bool, error) {
	for _, r := range m.requests {
		if r.CourseID == courseID && r.Date.Equal(date) && r.Status == model.RequestStatusApproved {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUnlockRepo) Update(_ context.Context, request *model.UnlockRequest) error {
	m.requests[request.UnlockRequestID] = request
	return nil
}

// ── 聚合构造 ──

type mockRepos struct {
	student    *mockStudentRepo
	teacher    *mockTeacherRepo
	class      *mockClassRepo
	course     *mockCourseRepo
	schedule   *mockScheduleRepo
	attendance *mockAttendanceRepo
	leave      *mockLeaveRepo
	unlock     *mockUnlockRepo
}

func newMockRepos() (*repository.Repository, *mockRepos) {
	attendance := newMockAttendanceRepo()
	mocks := &mockRepos{
		student:    newMockStudentRepo(),
		teacher:    newMockTeacherRepo(),
		class:      newMockClassRepo(),
		course:     newMockCourseRepo(attendance),
		schedule:   newMockScheduleRepo(),
		attendance: attendance,
		leave:      newMockLeaveRepo(),
		unlock:     newMockUnlockRepo(),
	}
	repo := &repository.Repository{
		Student:       mocks.student,
		Teacher:       mocks.teacher,
		Class:         mocks.class,
		Course:        mocks.course,
		Schedule:      mocks.schedule,
		Attendance:    mocks.attendance,
		LeaveRequest:  mocks.leave,
		UnlockRequest: mocks.unlock,
	}
	return repo, mocks
}
