package dto

// ── 课程时间表请求 ──

// CreateScheduleRequest 创建上课时段
type CreateScheduleRequest struct {
	DayOfWeek int    `json:"day_of_week" binding:"required,min=1,max=7"`
	StartTime string `json:"start_time"  binding:"required"` // "HH:MM:SS"
	EndTime   string `json:"end_time"    binding:"required"`
	Room      string `json:"room"`
}

// ImportScheduleRequest 从 ICS 日历导入课程时间表
// URL 与 Content 二选一
type ImportScheduleRequest struct {
	CourseID string `json:"course_id" binding:"required,uuid"`
	URL      string `json:"url"`
	Content  string `json:"content"`
}

// ── 课程时间表响应 ──

// ScheduleResponse 上课时段
type ScheduleResponse struct {
	ScheduleID string `json:"schedule_id"`
	CourseID   string `json:"course_id"`
	DayOfWeek  int    `json:"day_of_week"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Room       string `json:"room"`
}

// ImportScheduleResponse 导入结果
type ImportScheduleResponse struct {
	Imported  int                `json:"imported"`
	Schedules []ScheduleResponse `json:"schedules"`
}
