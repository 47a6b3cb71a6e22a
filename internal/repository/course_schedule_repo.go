package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/model"
)

// CourseScheduleRepository 课程时间表数据访问接口
type CourseScheduleRepository interface {
	Create(ctx context.Context, schedule *model.CourseSchedule) error
	CreateBatch(ctx context.Context, schedules []model.CourseSchedule) error
	GetByID(ctx context.Context, id string) (*model.CourseSchedule, error)
	// GetByCourseAndDay 查询课程在某个星期几的上课时段；
	// 当天没有安排时返回 gorm.ErrRecordNotFound
	GetByCourseAndDay(ctx context.Context, courseID string, dayOfWeek int) (*model.CourseSchedule, error)
	ListByCourse(ctx context.Context, courseID string) ([]model.CourseSchedule, error)
	ListByCoursesAndDay(ctx context.Context, courseIDs []string, dayOfWeek int) ([]model.CourseSchedule, error)
	Delete(ctx context.Context, id string, deletedBy string) error
}

type courseScheduleRepo struct {
	db *gorm.DB
}

// NewCourseScheduleRepo 创建 CourseScheduleRepository 实例
func NewCourseScheduleRepo(db *gorm.DB) CourseScheduleRepository {
	return &courseScheduleRepo{db: db}
}

func (r *courseScheduleRepo) Create(ctx context.Context, schedule *model.CourseSchedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *courseScheduleRepo) CreateBatch(ctx context.Context, schedules []model.CourseSchedule) error {
	if len(schedules) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&schedules).Error
}

func (r *courseScheduleRepo) GetByID(ctx context.Context, id string) (*model.CourseSchedule, error) {
	var schedule model.CourseSchedule
	if err := r.db.WithContext(ctx).Where("schedule_id = ?", id).First(&schedule).Error; err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *courseScheduleRepo) GetByCourseAndDay(ctx context.Context, courseID string, dayOfWeek int) (*model.CourseSchedule, error) {
	var schedule model.CourseSchedule
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND day_of_week = ?", courseID, dayOfWeek).
		Order("start_time ASC").
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *courseScheduleRepo) ListByCourse(ctx context.Context, courseID string) ([]model.CourseSchedule, error) {
	var schedules []model.CourseSchedule
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("day_of_week ASC, start_time ASC").
		Find(&schedules).Error
	return schedules, err
}

func (r *courseScheduleRepo) ListByCoursesAndDay(ctx context.Context, courseIDs []string, dayOfWeek int) ([]model.CourseSchedule, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}
	var schedules []model.CourseSchedule
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("course_id IN ? AND day_of_week = ?", courseIDs, dayOfWeek).
		Order("start_time ASC").
		Find(&schedules).Error
	return schedules, err
}

func (r *courseScheduleRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.CourseSchedule{}).
		Where("schedule_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
