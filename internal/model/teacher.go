package model

// Teacher 教师表 — 对应 teachers
type Teacher struct {
	TeacherID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"teacher_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Department   string `gorm:"type:varchar(100)"                              json:"department"`
	Phone        string `gorm:"type:varchar(20)"                               json:"phone"`
	VersionedModel
}

// TableName 指定表名
func (Teacher) TableName() string { return "teachers" }
