package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/model"
)

// LeaveRequestRepository 请假申请数据访问接口
type LeaveRequestRepository interface {
	Create(ctx context.Context, request *model.LeaveRequest) error
	GetByID(ctx context.Context, id string) (*model.LeaveRequest, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.LeaveRequest, error)
	ListPendingByTeacher(ctx context.Context, teacherID string) ([]model.LeaveRequest, error)
	CountPendingByTeacher(ctx context.Context, teacherID string) (int64, error)
	Update(ctx context.Context, request *model.LeaveRequest) error
}

type leaveRequestRepo struct {
	db *gorm.DB
}

// NewLeaveRequestRepo 创建 LeaveRequestRepository 实例
func NewLeaveRequestRepo(db *gorm.DB) LeaveRequestRepository {
	return &leaveRequestRepo{db: db}
}

func (r *leaveRequestRepo) Create(ctx context.Context, request *model.LeaveRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *leaveRequestRepo) GetByID(ctx context.Context, id string) (*model.LeaveRequest, error) {
	var request model.LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("leave_request_id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *leaveRequestRepo) ListByStudent(ctx context.Context, studentID string) ([]model.LeaveRequest, error) {
	var requests []model.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *leaveRequestRepo) ListPendingByTeacher(ctx context.Context, teacherID string) ([]model.LeaveRequest, error) {
	var requests []model.LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("teacher_id = ? AND status = ?", teacherID, model.RequestStatusPending).
		Order("created_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *leaveRequestRepo) CountPendingByTeacher(ctx context.Context, teacherID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.LeaveRequest{}).
		Where("teacher_id = ? AND status = ?", teacherID, model.RequestStatusPending).
		Count(&count).Error
	return count, err
}

func (r *leaveRequestRepo) Update(ctx context.Context, request *model.LeaveRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}
