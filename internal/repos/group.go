package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tadrees-app/tadrees-backend/internal/platform/logger"
	"github.com/tadrees-app/tadrees-backend/internal/types"
)

type GroupRepo interface {
	Create(ctx context.Context, tx *gorm.DB, group *types.Group) error
	GetByID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) (*types.Group, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) (*types.Group, error)
	ListByTeacher(ctx context.Context, tx *gorm.DB, teacherID uuid.UUID) ([]*types.Group, error)
	ListByTeacherForUpdate(ctx context.Context, tx *gorm.DB, teacherID uuid.UUID) ([]*types.Group, error)
	Save(ctx context.Context, tx *gorm.DB, group *types.Group) error
}

type groupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGroupRepo(db *gorm.DB, baseLog *logger.Logger) GroupRepo {
	return &groupRepo{db: db, log: baseLog.With("repo", "GroupRepo")}
}

func (gr *groupRepo) Create(ctx context.Context, tx *gorm.DB, group *types.Group) error {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	return transaction.WithContext(ctx).Create(group).Error
}

func (gr *groupRepo) GetByID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) (*types.Group, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	var result types.Group
	if err := transaction.WithContext(ctx).
		Where("id = ?", groupID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (gr *groupRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) (*types.Group, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	var result types.Group
	if err := forUpdate(transaction.WithContext(ctx)).
		Where("id = ?", groupID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (gr *groupRepo) ListByTeacher(ctx context.Context, tx *gorm.DB, teacherID uuid.UUID) ([]*types.Group, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	var results []*types.Group
	if err := transaction.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (gr *groupRepo) ListByTeacherForUpdate(ctx context.Context, tx *gorm.DB, teacherID uuid.UUID) ([]*types.Group, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	var results []*types.Group
	if err := forUpdate(transaction.WithContext(ctx)).
		Where("teacher_id = ?", teacherID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (gr *groupRepo) Save(ctx context.Context, tx *gorm.DB, group *types.Group) error {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	return transaction.WithContext(ctx).Save(group).Error
}
