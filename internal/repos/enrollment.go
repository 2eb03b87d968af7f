package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tadrees-app/tadrees-backend/internal/platform/logger"
	"github.com/tadrees-app/tadrees-backend/internal/types"
)

type EnrollmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) error
	GetByID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (*types.Enrollment, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (*types.Enrollment, error)
	ListByGroup(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) ([]*types.Enrollment, error)
	ListByGroupForUpdate(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) ([]*types.Enrollment, error)
	Save(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) error
	Delete(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) error
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return &enrollmentRepo{db: db, log: baseLog.With("repo", "EnrollmentRepo")}
}

func (er *enrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) error {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	return transaction.WithContext(ctx).Create(enrollment).Error
}

func (er *enrollmentRepo) GetByID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var result types.Enrollment
	if err := transaction.WithContext(ctx).
		Where("id = ?", enrollmentID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (er *enrollmentRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var result types.Enrollment
	if err := forUpdate(transaction.WithContext(ctx)).
		Where("id = ?", enrollmentID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (er *enrollmentRepo) ListByGroup(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) ([]*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var results []*types.Enrollment
	if err := transaction.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListByGroupForUpdate locks every enrollment on the group's roster so a
// round-open fan-out cannot interleave with a racing confirmation.
func (er *enrollmentRepo) ListByGroupForUpdate(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) ([]*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var results []*types.Enrollment
	if err := forUpdate(transaction.WithContext(ctx)).
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *enrollmentRepo) Save(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) error {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	return transaction.WithContext(ctx).Save(enrollment).Error
}

func (er *enrollmentRepo) Delete(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", enrollmentID).
		Delete(&types.Enrollment{}).Error
}
