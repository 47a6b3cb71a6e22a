package model

// CourseSchedule 课程上课时间表 — 对应 course_schedules
// 每行表示课程在某个星期几的一个固定上课时段；
// 考勤会话由 (课程, 日期) 与该日期对应星期几的时段共同确定
type CourseSchedule struct {
	ScheduleID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	CourseID   string `gorm:"type:uuid;not null"                             json:"course_id"`
	DayOfWeek  int    `gorm:"type:smallint;not null"                         json:"day_of_week"` // 1=周一 … 7=周日
	StartTime  string `gorm:"type:time;not null"                             json:"start_time"`  // "HH:MM:SS"
	EndTime    string `gorm:"type:time;not null"                             json:"end_time"`
	Room       string `gorm:"type:varchar(50)"                               json:"room"`
	VersionedModel

	// 关联
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

// TableName 指定表名
func (CourseSchedule) TableName() string { return "course_schedules" }
