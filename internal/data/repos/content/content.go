package content

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	contentdom "github.com/curiolearn/curio-backend/internal/domain/content"
	"github.com/curiolearn/curio-backend/internal/pkg/logger"
)

type ContentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, items []*contentdom.Content) ([]*contentdom.Content, error)
	GetByID(ctx context.Context, tx *gorm.DB, contentID uuid.UUID) (*contentdom.Content, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, contentIDs []uuid.UUID) ([]*contentdom.Content, error)
	GetByTopicID(ctx context.Context, tx *gorm.DB, topicID uuid.UUID) ([]*contentdom.Content, error)
	ListPublished(ctx context.Context, tx *gorm.DB, limit int) ([]*contentdom.Content, error)
	Update(ctx context.Context, tx *gorm.DB, item *contentdom.Content) error
	SetPublished(ctx context.Context, tx *gorm.DB, contentID uuid.UUID, published bool) error
	AddTopics(ctx context.Context, tx *gorm.DB, contentID uuid.UUID, topicIDs []uuid.UUID) error
	IncrementViewCount(ctx context.Context, tx *gorm.DB, contentID uuid.UUID) error
	IncrementCompletionCount(ctx context.Context, tx *gorm.DB, contentID uuid.UUID) error
	ApplyRating(ctx context.Context, tx *gorm.DB, contentID uuid.UUID, rating int) error
}

type contentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentRepo(db *gorm.DB, baseLog *logger.Logger) ContentRepo {
	repoLog := baseLog.With("repo", "ContentRepo")
	return &contentRepo{db: db, log: repoLog}
}

func (r *contentRepo) Create(ctx context.Context, tx *gorm.DB, items []*contentdom.Content) ([]*contentdom.Content, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(items) == 0 {
		return []*contentdom.Content{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID returns (nil, nil) when the content does not exist; callers decide
// whether that is an error.
func (r *contentRepo) GetByID(ctx context.Context, tx *gorm.DB, contentID uuid.UUID) (*contentdom.Content, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*contentdom.Content
	if err := transaction.WithContext(ctx).
		Where("id = ?", contentID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *contentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, contentIDs []uuid.UUID) ([]*contentdom.Content, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*contentdom.Content
	if len(contentIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", contentIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByTopicID orders by created_at then id so rankings downstream have a
// deterministic tie-break.
func (r *contentRepo) GetByTopicID(ctx context.Context, tx *gorm.DB, topicID uuid.UUID) ([]*contentdom.Content, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*contentdom.Content
	if err := transaction.WithContext(ctx).
		Joins("JOIN content_topic ct ON ct.content_id = content.id").
		Where("ct.topic_id = ?", topicID).
		Order("content.created_at ASC, content.id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contentRepo) ListPublished(ctx context.Context, tx *gorm.DB, limit int) ([]*contentdom.Content, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Where("is_published = ?", true).
		Order("created_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var results []*contentdom.Content
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contentRepo) Update(ctx context.Context, tx *gorm.DB, item *contentdom.Content) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if item == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).Save(item).Error; err != nil {
		return err
	}
	return nil
}

func (r *contentRepo) SetPublished(ctx context.Context, tx *gorm.DB, contentID uuid.UUID, published bool) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&contentdom.Content{}).
		Where("id = ?", contentID).
		Update("is_published", published).Error; err != nil {
		return err
	}
	return nil
}

func (r *contentRepo) AddTopics(ctx context.Context, tx *gorm.DB, contentID uuid.UUID, topicIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(topicIDs) == 0 {
		return nil
	}

	rows := make([]*contentdom.ContentTopic, 0, len(topicIDs))
	for _, topicID := range topicIDs {
		rows = append(rows, &contentdom.ContentTopic{ContentID: contentID, TopicID: topicID})
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return err
	}
	return nil
}

func (r *contentRepo) IncrementViewCount(ctx context.Context, tx *gorm.DB, contentID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&contentdom.Content{}).
		Where("id = ?", contentID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
		return err
	}
	return nil
}

func (r *contentRepo) IncrementCompletionCount(ctx context.Context, tx *gorm.DB, contentID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&contentdom.Content{}).
		Where("id = ?", contentID).
		UpdateColumn("completion_count", gorm.Expr("completion_count + 1")).Error; err != nil {
		return err
	}
	return nil
}

// ApplyRating folds one rating into the running average in a single
// statement so concurrent ratings cannot clobber each other.
func (r *contentRepo) ApplyRating(ctx context.Context, tx *gorm.DB, contentID uuid.UUID, rating int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&contentdom.Content{}).
		Where("id = ?", contentID).
		UpdateColumns(map[string]interface{}{
			"rating_average": gorm.Expr("(rating_average * rating_count + ?) / (rating_count + 1)", rating),
			"rating_count":   gorm.Expr("rating_count + 1"),
		}).Error; err != nil {
		return err
	}
	return nil
}
