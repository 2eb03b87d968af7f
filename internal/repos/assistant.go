package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tadrees-app/tadrees-backend/internal/platform/logger"
	"github.com/tadrees-app/tadrees-backend/internal/types"
)

type AssistantRepo interface {
	Create(ctx context.Context, tx *gorm.DB, assistant *types.Assistant) error
	GetByID(ctx context.Context, tx *gorm.DB, assistantID uuid.UUID) (*types.Assistant, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Assistant, error)
	EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error)
}

type assistantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssistantRepo(db *gorm.DB, baseLog *logger.Logger) AssistantRepo {
	return &assistantRepo{db: db, log: baseLog.With("repo", "AssistantRepo")}
}

func (ar *assistantRepo) Create(ctx context.Context, tx *gorm.DB, assistant *types.Assistant) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).Create(assistant).Error
}

func (ar *assistantRepo) GetByID(ctx context.Context, tx *gorm.DB, assistantID uuid.UUID) (*types.Assistant, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var result types.Assistant
	if err := transaction.WithContext(ctx).
		Where("id = ?", assistantID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (ar *assistantRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Assistant, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var result types.Assistant
	if err := transaction.WithContext(ctx).
		Where("email = ?", email).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (ar *assistantRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Assistant{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
