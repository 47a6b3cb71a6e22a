package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/model"
)

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	GetByID(ctx context.Context, id string) (*model.Course, error)
	ListByClass(ctx context.Context, classID string) ([]model.Course, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]model.Course, error)
	// ListAttendedByStudent 返回学生有过考勤记录的全部去重课程，
	// 覆盖学生已离开班级的历史课程
	ListAttendedByStudent(ctx context.Context, studentID string) ([]model.Course, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Class").
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) ListByClass(ctx context.Context, classID string) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Preload("Class").
		Where("class_id = ?", classID).
		Order("course_code ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) ListByTeacher(ctx context.Context, teacherID string) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Preload("Class").
		Where("teacher_id = ?", teacherID).
		Order("course_code ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) ListAttendedByStudent(ctx context.Context, studentID string) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Preload("Class").
		Joins("JOIN attendance_records ar ON ar.course_id = courses.course_id").
		Where("ar.student_id = ?", studentID).
		Distinct("courses.*").
		Find(&courses).Error
	return courses, err
}
