package model

import "time"

// UnlockRequest 考勤解锁申请表 — 对应 unlock_requests
// 会话超过编辑宽限期后锁定，教师提交解锁申请；
// 审批通过的申请即为该 (课程, 日期) 会话的有效解锁授权
type UnlockRequest struct {
	UnlockRequestID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"unlock_request_id"`
	TeacherID       string    `gorm:"type:uuid;not null"                             json:"teacher_id"`
	CourseID        string    `gorm:"type:uuid;not null"                             json:"course_id"`
	Date            time.Time `gorm:"type:date;not null"                             json:"date"`
	Reason          string    `gorm:"type:text"                                      json:"reason"`
	Status          string    `gorm:"type:varchar(20);not null;default:'PENDING'"    json:"status"`
	VersionedModel

	// 关联
	Teacher *Teacher `gorm:"foreignKey:TeacherID;references:TeacherID" json:"teacher,omitempty"`
	Course  *Course  `gorm:"foreignKey:CourseID;references:CourseID"   json:"course,omitempty"`
}

// TableName 指定表名
func (UnlockRequest) TableName() string { return "unlock_requests" }
