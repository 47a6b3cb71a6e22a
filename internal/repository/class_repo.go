package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/model"
)

// ClassRepository 班级数据访问接口
type ClassRepository interface {
	GetByID(ctx context.Context, id string) (*model.ClassSection, error)
}

type classRepo struct {
	db *gorm.DB
}

// NewClassRepo 创建 ClassRepository 实例
func NewClassRepo(db *gorm.DB) ClassRepository {
	return &classRepo{db: db}
}

func (r *classRepo) GetByID(ctx context.Context, id string) (*model.ClassSection, error) {
	var class model.ClassSection
	err := r.db.WithContext(ctx).
		Where("class_id = ?", id).
		First(&class).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}
