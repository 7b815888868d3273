package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	contentdom "github.com/curiolearn/curio-backend/internal/domain/content"
	engagementdom "github.com/curiolearn/curio-backend/internal/domain/engagement"
)

// In-memory stand-ins for the repo interfaces. The progress fake mirrors the
// storage upsert contract: insert the row as given, or apply only the
// update assignments when the (user, content) pair already exists.

type fakeContentRepo struct {
	items  []*contentdom.Content
	topics map[uuid.UUID][]uuid.UUID // topicID -> contentIDs, in insert order
}

func newFakeContentRepo(items ...*contentdom.Content) *fakeContentRepo {
	return &fakeContentRepo{items: items, topics: map[uuid.UUID][]uuid.UUID{}}
}

func (f *fakeContentRepo) Create(ctx context.Context, tx *gorm.DB, items []*contentdom.Content) ([]*contentdom.Content, error) {
	f.items = append(f.items, items...)
	return items, nil
}

func (f *fakeContentRepo) GetByID(ctx context.Context, tx *gorm.DB, contentID uuid.UUID) (*contentdom.Content, error) {
	for _, item := range f.items {
		if item.ID == contentID {
			return item, nil
		}
	}
	return nil, nil
}

func (f *fakeContentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, contentIDs []uuid.UUID) ([]*contentdom.Content, error) {
	var out []*contentdom.Content
	for _, id := range contentIDs {
		for _, item := range f.items {
			if item.ID == id {
				out = append(out, item)
			}
		}
	}
	return out, nil
}

func (f *fakeContentRepo) GetByTopicID(ctx context.Context, tx *gorm.DB, topicID uuid.UUID) ([]*contentdom.Content, error) {
	var out []*contentdom.Content
	for _, id := range f.topics[topicID] {
		for _, item := range f.items {
			if item.ID == id {
				out = append(out, item)
			}
		}
	}
	return out, nil
}

func (f *fakeContentRepo) ListPublished(ctx context.Context, tx *gorm.DB, limit int) ([]*contentdom.Content, error) {
	var out []*contentdom.Content
	for _, item := range f.items {
		if !item.IsPublished {
			continue
		}
		out = append(out, item)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeContentRepo) Update(ctx context.Context, tx *gorm.DB, item *contentdom.Content) error {
	return nil
}

func (f *fakeContentRepo) SetPublished(ctx context.Context, tx *gorm.DB, contentID uuid.UUID, published bool) error {
	for _, item := range f.items {
		if item.ID == contentID {
			item.IsPublished = published
		}
	}
	return nil
}

func (f *fakeContentRepo) AddTopics(ctx context.Context, tx *gorm.DB, contentID uuid.UUID, topicIDs []uuid.UUID) error {
	for _, topicID := range topicIDs {
		f.topics[topicID] = append(f.topics[topicID], contentID)
	}
	return nil
}

func (f *fakeContentRepo) IncrementViewCount(ctx context.Context, tx *gorm.DB, contentID uuid.UUID) error {
	for _, item := range f.items {
		if item.ID == contentID {
			item.ViewCount++
		}
	}
	return nil
}

func (f *fakeContentRepo) IncrementCompletionCount(ctx context.Context, tx *gorm.DB, contentID uuid.UUID) error {
	for _, item := range f.items {
		if item.ID == contentID {
			item.CompletionCount++
		}
	}
	return nil
}

func (f *fakeContentRepo) ApplyRating(ctx context.Context, tx *gorm.DB, contentID uuid.UUID, rating int) error {
	for _, item := range f.items {
		if item.ID == contentID {
			item.RatingAverage = (item.RatingAverage*float64(item.RatingCount) + float64(rating)) / float64(item.RatingCount+1)
			item.RatingCount++
		}
	}
	return nil
}

type fakeTopicRepo struct {
	topics []*contentdom.Topic
}

func (f *fakeTopicRepo) Create(ctx context.Context, tx *gorm.DB, topics []*contentdom.Topic) ([]*contentdom.Topic, error) {
	f.topics = append(f.topics, topics...)
	return topics, nil
}

func (f *fakeTopicRepo) GetByID(ctx context.Context, tx *gorm.DB, topicID uuid.UUID) (*contentdom.Topic, error) {
	for _, topic := range f.topics {
		if topic.ID == topicID {
			return topic, nil
		}
	}
	return nil, nil
}

func (f *fakeTopicRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*contentdom.Topic, error) {
	for _, topic := range f.topics {
		if topic.Name == name {
			return topic, nil
		}
	}
	return nil, nil
}

func (f *fakeTopicRepo) List(ctx context.Context, tx *gorm.DB) ([]*contentdom.Topic, error) {
	return f.topics, nil
}

type progressKey struct {
	userID    uuid.UUID
	contentID uuid.UUID
}

type fakeProgressRepo struct {
	rows map[progressKey]*engagementdom.ContentProgress
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{rows: map[progressKey]*engagementdom.ContentProgress{}}
}

func (f *fakeProgressRepo) Upsert(ctx context.Context, tx *gorm.DB, row *engagementdom.ContentProgress, updates map[string]interface{}) (*engagementdom.ContentProgress, error) {
	key := progressKey{userID: row.UserID, contentID: row.ContentID}
	existing, ok := f.rows[key]
	if !ok {
		copied := *row
		f.rows[key] = &copied
		return &copied, nil
	}

	for column, value := range updates {
		switch column {
		case "status":
			existing.Status = value.(string)
		case "progress_percentage":
			existing.ProgressPercentage = value.(int)
		case "time_spent_seconds":
			existing.TimeSpentSeconds = value.(int)
		case "last_position_seconds":
			existing.LastPositionSecond = value.(int)
		case "completion_rating":
			v := value.(int)
			existing.CompletionRating = &v
		case "completion_feedback":
			v := value.(string)
			existing.CompletionFeedback = &v
		case "completed_at":
			if value == nil {
				existing.CompletedAt = nil
			} else {
				v := value.(time.Time)
				existing.CompletedAt = &v
			}
		case "last_accessed_at":
			existing.LastAccessedAt = value.(time.Time)
		case "updated_at":
			existing.UpdatedAt = value.(time.Time)
		}
	}
	return existing, nil
}

func (f *fakeProgressRepo) GetByUserAndContent(ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID) (*engagementdom.ContentProgress, error) {
	return f.rows[progressKey{userID: userID, contentID: contentID}], nil
}

func (f *fakeProgressRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*engagementdom.ContentProgress, error) {
	var out []*engagementdom.ContentProgress
	for _, row := range f.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeProgressRepo) GetByContentID(ctx context.Context, tx *gorm.DB, contentID uuid.UUID, status string) ([]*engagementdom.ContentProgress, error) {
	var out []*engagementdom.ContentProgress
	for _, row := range f.rows {
		if row.ContentID == contentID && (status == "" || row.Status == status) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeProgressRepo) GetByContentIDs(ctx context.Context, tx *gorm.DB, contentIDs []uuid.UUID) ([]*engagementdom.ContentProgress, error) {
	var out []*engagementdom.ContentProgress
	for _, id := range contentIDs {
		for _, row := range f.rows {
			if row.ContentID == id {
				out = append(out, row)
			}
		}
	}
	return out, nil
}

func (f *fakeProgressRepo) CountByContentAndStatus(ctx context.Context, tx *gorm.DB, contentID uuid.UUID, status string) (int64, error) {
	var count int64
	for _, row := range f.rows {
		if row.ContentID == contentID && (status == "" || row.Status == status) {
			count++
		}
	}
	return count, nil
}

type fakeInteractionLogRepo struct {
	rows []*engagementdom.ContentInteractionLog
}

func (f *fakeInteractionLogRepo) Create(ctx context.Context, tx *gorm.DB, row *engagementdom.ContentInteractionLog) (*engagementdom.ContentInteractionLog, error) {
	f.rows = append(f.rows, row)
	return row, nil
}

func (f *fakeInteractionLogRepo) CreateBatch(ctx context.Context, tx *gorm.DB, rows []*engagementdom.ContentInteractionLog) error {
	f.rows = append(f.rows, rows...)
	return nil
}

func (f *fakeInteractionLogRepo) GetByContentID(ctx context.Context, tx *gorm.DB, contentID uuid.UUID) ([]*engagementdom.ContentInteractionLog, error) {
	var out []*engagementdom.ContentInteractionLog
	for _, row := range f.rows {
		if row.ContentID == contentID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeInteractionLogRepo) GetByUserAndContent(ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID) ([]*engagementdom.ContentInteractionLog, error) {
	var out []*engagementdom.ContentInteractionLog
	for _, row := range f.rows {
		if row.UserID == userID && row.ContentID == contentID {
			out = append(out, row)
		}
	}
	return out, nil
}
