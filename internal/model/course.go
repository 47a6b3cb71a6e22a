package model

// Course 课程表 — 对应 courses
// ClassID 可空：历史遗留课程可能不再挂靠任何在读班级
type Course struct {
	CourseID   string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	CourseName string  `gorm:"type:varchar(100);not null"                     json:"course_name"`
	CourseCode string  `gorm:"type:varchar(30);not null"                      json:"course_code"`
	ClassID    *string `gorm:"type:uuid"                                      json:"class_id,omitempty"`
	TeacherID  *string `gorm:"type:uuid"                                      json:"teacher_id,omitempty"`
	VersionedModel

	// 关联
	Class   *ClassSection `gorm:"foreignKey:ClassID;references:ClassID"     json:"class,omitempty"`
	Teacher *Teacher      `gorm:"foreignKey:TeacherID;references:TeacherID" json:"teacher,omitempty"`
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }
