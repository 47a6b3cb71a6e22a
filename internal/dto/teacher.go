package dto

// ── 教师端请求 ──

// CreateUnlockRequest 创建解锁申请
type CreateUnlockRequest struct {
	CourseID string `json:"course_id" binding:"required,uuid"`
	Date     string `json:"date"      binding:"required"` // "2006-01-02"
	Reason   string `json:"reason"    binding:"required"`
}

// UpdateTeacherProfileRequest 更新教师资料
type UpdateTeacherProfileRequest struct {
	Name       string `json:"name"       binding:"required"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
}

// ── 教师端响应 ──

// TeacherDashboardResponse 教师工作台
type TeacherDashboardResponse struct {
	TeacherName          string               `json:"teacher_name"`
	TotalCourses         int                  `json:"total_courses"`
	TotalStudents        int                  `json:"total_students"`
	PendingLeaveRequests int                  `json:"pending_leave_requests"`
	TodayClasses         []TodayClassResponse `json:"today_classes"`
}

// TodayClassResponse 今日课程
type TodayClassResponse struct {
	CourseID   string `json:"course_id"`
	CourseName string `json:"course_name"`
	CourseCode string `json:"course_code"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Room       string `json:"room"`
}

// CourseResponse 课程信息
type CourseResponse struct {
	CourseID     string `json:"course_id"`
	CourseName   string `json:"course_name"`
	CourseCode   string `json:"course_code"`
	ClassName    string `json:"class_name,omitempty"`
	AcademicYear string `json:"academic_year,omitempty"`
	Semester     string `json:"semester,omitempty"`
}

// StudentSummaryResponse 课程学生摘要
type StudentSummaryResponse struct {
	StudentID  string `json:"student_id"`
	Name       string `json:"name"`
	RollNumber string `json:"roll_number"`
}

// StudentPerformanceResponse 学生单门课程表现
type StudentPerformanceResponse struct {
	StudentID    string  `json:"student_id"`
	StudentName  string  `json:"student_name"`
	CourseID     string  `json:"course_id"`
	CourseName   string  `json:"course_name"`
	TotalClasses int     `json:"total_classes"`
	PresentCount int     `json:"present_count"`
	Percentage   float64 `json:"percentage"`
}

// UnlockRequestResponse 解锁申请响应
type UnlockRequestResponse struct {
	ID         string `json:"id"`
	CourseID   string `json:"course_id"`
	CourseName string `json:"course_name,omitempty"`
	Date       string `json:"date"`
	Reason     string `json:"reason"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

// TeacherProfileResponse 教师资料
type TeacherProfileResponse struct {
	TeacherID  string `json:"teacher_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
}
