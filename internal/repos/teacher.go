package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tadrees-app/tadrees-backend/internal/platform/logger"
	"github.com/tadrees-app/tadrees-backend/internal/types"
)

type TeacherRepo interface {
	Create(ctx context.Context, tx *gorm.DB, teacher *types.Teacher) error
	GetByID(ctx context.Context, tx *gorm.DB, teacherID uuid.UUID) (*types.Teacher, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, teacherID uuid.UUID) (*types.Teacher, error)
	Save(ctx context.Context, tx *gorm.DB, teacher *types.Teacher) error
}

type teacherRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTeacherRepo(db *gorm.DB, baseLog *logger.Logger) TeacherRepo {
	return &teacherRepo{db: db, log: baseLog.With("repo", "TeacherRepo")}
}

func (tr *teacherRepo) Create(ctx context.Context, tx *gorm.DB, teacher *types.Teacher) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	return transaction.WithContext(ctx).Create(teacher).Error
}

func (tr *teacherRepo) GetByID(ctx context.Context, tx *gorm.DB, teacherID uuid.UUID) (*types.Teacher, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var result types.Teacher
	if err := transaction.WithContext(ctx).
		Where("id = ?", teacherID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (tr *teacherRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, teacherID uuid.UUID) (*types.Teacher, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var result types.Teacher
	if err := forUpdate(transaction.WithContext(ctx)).
		Where("id = ?", teacherID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (tr *teacherRepo) Save(ctx context.Context, tx *gorm.DB, teacher *types.Teacher) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	return transaction.WithContext(ctx).Save(teacher).Error
}
