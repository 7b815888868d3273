package engagement

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	engagementdom "github.com/curiolearn/curio-backend/internal/domain/engagement"
	"github.com/curiolearn/curio-backend/internal/pkg/logger"
)

type InteractionLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *engagementdom.ContentInteractionLog) (*engagementdom.ContentInteractionLog, error)
	CreateBatch(ctx context.Context, tx *gorm.DB, rows []*engagementdom.ContentInteractionLog) error
	GetByContentID(ctx context.Context, tx *gorm.DB, contentID uuid.UUID) ([]*engagementdom.ContentInteractionLog, error)
	GetByUserAndContent(ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID) ([]*engagementdom.ContentInteractionLog, error)
}

type interactionLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInteractionLogRepo(db *gorm.DB, baseLog *logger.Logger) InteractionLogRepo {
	repoLog := baseLog.With("repo", "InteractionLogRepo")
	return &interactionLogRepo{db: db, log: repoLog}
}

func (r *interactionLogRepo) Create(ctx context.Context, tx *gorm.DB, row *engagementdom.ContentInteractionLog) (*engagementdom.ContentInteractionLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// CreateBatch persists all rows or none. When no enclosing transaction is
// given it opens its own; when one is given the caller owns atomicity.
func (r *interactionLogRepo) CreateBatch(ctx context.Context, tx *gorm.DB, rows []*engagementdom.ContentInteractionLog) error {
	if len(rows) == 0 {
		return nil
	}

	if tx != nil {
		return tx.WithContext(ctx).Create(&rows).Error
	}

	return r.db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		return txn.Create(&rows).Error
	})
}

func (r *interactionLogRepo) GetByContentID(ctx context.Context, tx *gorm.DB, contentID uuid.UUID) ([]*engagementdom.ContentInteractionLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*engagementdom.ContentInteractionLog
	if err := transaction.WithContext(ctx).
		Where("content_id = ?", contentID).
		Order("timestamp ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *interactionLogRepo) GetByUserAndContent(ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID) ([]*engagementdom.ContentInteractionLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*engagementdom.ContentInteractionLog
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND content_id = ?", userID, contentID).
		Order("timestamp ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
