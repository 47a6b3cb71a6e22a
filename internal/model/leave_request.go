package model

import "time"

// ── 审批状态（请假与解锁申请共用）──

const (
	RequestStatusPending  = "PENDING"
	RequestStatusApproved = "APPROVED"
	RequestStatusRejected = "REJECTED"
)

// LeaveRequest 请假申请表 — 对应 leave_requests
type LeaveRequest struct {
	LeaveRequestID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"leave_request_id"`
	StudentID      string    `gorm:"type:uuid;not null"                             json:"student_id"`
	TeacherID      *string   `gorm:"type:uuid"                                      json:"teacher_id,omitempty"`
	StartDate      time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate        time.Time `gorm:"type:date;not null"                             json:"end_date"`
	Reason         string    `gorm:"type:text"                                      json:"reason"`
	Type           string    `gorm:"type:varchar(30)"                               json:"type"` // SICK | CASUAL | OTHER
	Status         string    `gorm:"type:varchar(20);not null;default:'PENDING'"    json:"status"`
	VersionedModel

	// 关联
	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
	Teacher *Teacher `gorm:"foreignKey:TeacherID;references:TeacherID" json:"teacher,omitempty"`
}

// TableName 指定表名
func (LeaveRequest) TableName() string { return "leave_requests" }
