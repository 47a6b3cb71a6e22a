package dto

// ── 考勤标记/编辑请求 ──

// AttendanceEntry 单个学生的考勤项
type AttendanceEntry struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
	Status    string `json:"status"     binding:"required,oneof=PRESENT ABSENT LATE"`
}

// MarkAttendanceRequest 整堂课的考勤标记请求
type MarkAttendanceRequest struct {
	CourseID string            `json:"course_id" binding:"required,uuid"`
	Date     string            `json:"date"      binding:"required"` // "2006-01-02"
	Entries  []AttendanceEntry `json:"entries"   binding:"required,min=1,dive"`
}

// UpdateAttendanceRequest 考勤编辑请求
// Version 用于乐观锁校验，防止并发编辑互相覆盖
type UpdateAttendanceRequest struct {
	AttendanceID string `json:"attendance_id" binding:"required,uuid"`
	Status       string `json:"status"        binding:"required,oneof=PRESENT ABSENT LATE"`
	Version      int    `json:"version"       binding:"required,min=1"`
}

// ── 考勤查询响应 ──

// EligibilityResponse 标记/编辑资格检查结果
type EligibilityResponse struct {
	Allowed bool `json:"allowed"`
}

// ClassAttendanceItem 某堂课单个学生的考勤行
type ClassAttendanceItem struct {
	AttendanceID string `json:"attendance_id"`
	StudentID    string `json:"student_id"`
	StudentName  string `json:"student_name"`
	RollNumber   string `json:"roll_number"`
	Status       string `json:"status"`
	Version      int    `json:"version"`
}
