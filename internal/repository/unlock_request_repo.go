package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/model"
)

// UnlockRequestRepository 解锁申请数据访问接口
type UnlockRequestRepository interface {
	Create(ctx context.Context, request *model.UnlockRequest) error
	GetByID(ctx context.Context, id string) (*model.UnlockRequest, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]model.UnlockRequest, error)
	// HasApprovedForSession 检查 (课程, 日期) 会话是否存在已批准的解锁授权
	HasApprovedForSession(ctx context.Context, courseID string, date time.Time) (bool, error)
	Update(ctx context.Context, request *model.UnlockRequest) error
}

type unlockRequestRepo struct {
	db *gorm.DB
}

// NewUnlockRequestRepo 创建 UnlockRequestRepository 实例
func NewUnlockRequestRepo(db *gorm.DB) UnlockRequestRepository {
	return &unlockRequestRepo{db: db}
}

func (r *unlockRequestRepo) Create(ctx context.Context, request *model.UnlockRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *unlockRequestRepo) GetByID(ctx context.Context, id string) (*model.UnlockRequest, error) {
	var request model.UnlockRequest
	err := r.db.WithContext(ctx).
		Where("unlock_request_id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *unlockRequestRepo) ListByTeacher(ctx context.Context, teacherID string) ([]model.UnlockRequest, error) {
	var requests []model.UnlockRequest
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *unlockRequestRepo) HasApprovedForSession(ctx context.Context, courseID string, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.UnlockRequest{}).
		Where("course_id = ? AND date = ? AND status = ?", courseID, date, model.RequestStatusApproved).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *unlockRequestRepo) Update(ctx context.Context, request *model.UnlockRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}
