package content

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	contentdom "github.com/curiolearn/curio-backend/internal/domain/content"
	"github.com/curiolearn/curio-backend/internal/pkg/logger"
)

type TopicRepo interface {
	Create(ctx context.Context, tx *gorm.DB, topics []*contentdom.Topic) ([]*contentdom.Topic, error)
	GetByID(ctx context.Context, tx *gorm.DB, topicID uuid.UUID) (*contentdom.Topic, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*contentdom.Topic, error)
	List(ctx context.Context, tx *gorm.DB) ([]*contentdom.Topic, error)
}

type topicRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	repoLog := baseLog.With("repo", "TopicRepo")
	return &topicRepo{db: db, log: repoLog}
}

func (r *topicRepo) Create(ctx context.Context, tx *gorm.DB, topics []*contentdom.Topic) ([]*contentdom.Topic, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(topics) == 0 {
		return []*contentdom.Topic{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

// GetByID returns (nil, nil) when the topic does not exist; callers decide
// whether that is an error.
func (r *topicRepo) GetByID(ctx context.Context, tx *gorm.DB, topicID uuid.UUID) (*contentdom.Topic, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*contentdom.Topic
	if err := transaction.WithContext(ctx).
		Where("id = ?", topicID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *topicRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*contentdom.Topic, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*contentdom.Topic
	if err := transaction.WithContext(ctx).
		Where("name = ?", name).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *topicRepo) List(ctx context.Context, tx *gorm.DB) ([]*contentdom.Topic, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*contentdom.Topic
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
