package engagement

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	engagementdom "github.com/curiolearn/curio-backend/internal/domain/engagement"
	"github.com/curiolearn/curio-backend/internal/pkg/logger"
)

type ProgressRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *engagementdom.ContentProgress, updates map[string]interface{}) (*engagementdom.ContentProgress, error)
	GetByUserAndContent(ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID) (*engagementdom.ContentProgress, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*engagementdom.ContentProgress, error)
	GetByContentID(ctx context.Context, tx *gorm.DB, contentID uuid.UUID, status string) ([]*engagementdom.ContentProgress, error)
	GetByContentIDs(ctx context.Context, tx *gorm.DB, contentIDs []uuid.UUID) ([]*engagementdom.ContentProgress, error)
	CountByContentAndStatus(ctx context.Context, tx *gorm.DB, contentID uuid.UUID, status string) (int64, error)
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	repoLog := baseLog.With("repo", "ProgressRepo")
	return &progressRepo{db: db, log: repoLog}
}

// Upsert is a single conditional insert-or-update on the (user_id, content_id)
// unique index. `row` carries the insert values; `updates` carries only the
// columns to overwrite when the row already exists, so two racing first
// reports cannot produce duplicate rows or lost updates.
func (r *progressRepo) Upsert(ctx context.Context, tx *gorm.DB, row *engagementdom.ContentProgress, updates map[string]interface{}) (*engagementdom.ContentProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "content_id"}},
			DoUpdates: clause.Assignments(updates),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}

	// Re-read through the same handle: on the conflict path the in-memory row
	// still holds insert values, not the merged ones.
	return r.getByUserAndContent(ctx, transaction, row.UserID, row.ContentID)
}

func (r *progressRepo) GetByUserAndContent(ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID) (*engagementdom.ContentProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return r.getByUserAndContent(ctx, transaction, userID, contentID)
}

func (r *progressRepo) getByUserAndContent(ctx context.Context, transaction *gorm.DB, userID, contentID uuid.UUID) (*engagementdom.ContentProgress, error) {
	var results []*engagementdom.ContentProgress
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND content_id = ?", userID, contentID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *progressRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*engagementdom.ContentProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*engagementdom.ContentProgress
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_accessed_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByContentID filters by status when one is given; an empty status means
// all rows.
func (r *progressRepo) GetByContentID(ctx context.Context, tx *gorm.DB, contentID uuid.UUID, status string) ([]*engagementdom.ContentProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).Where("content_id = ?", contentID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var results []*engagementdom.ContentProgress
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *progressRepo) GetByContentIDs(ctx context.Context, tx *gorm.DB, contentIDs []uuid.UUID) ([]*engagementdom.ContentProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*engagementdom.ContentProgress
	if len(contentIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("content_id IN ?", contentIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *progressRepo) CountByContentAndStatus(ctx context.Context, tx *gorm.DB, contentID uuid.UUID, status string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Model(&engagementdom.ContentProgress{}).
		Where("content_id = ?", contentID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
