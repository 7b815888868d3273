package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeArticle = "article"
	TypeVideo   = "video"
	TypeQuiz    = "quiz"
)

type Content struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	ContentType string    `gorm:"column:content_type;not null;index" json:"content_type"`
	BodyURL     string    `gorm:"column:body_url" json:"body_url,omitempty"`

	DurationSeconds int `gorm:"column:duration_seconds;not null;default:0" json:"duration_seconds"`

	// Denormalized engagement counters maintained on the write path. The
	// analyzers recompute comparable rates from raw rows; the two sources are
	// not guaranteed to agree.
	ViewCount       int64   `gorm:"column:view_count;not null;default:0" json:"view_count"`
	CompletionCount int64   `gorm:"column:completion_count;not null;default:0" json:"completion_count"`
	RatingAverage   float64 `gorm:"column:rating_average;not null;default:0" json:"rating_average"`
	RatingCount     int64   `gorm:"column:rating_count;not null;default:0" json:"rating_count"`

	IsPublished  bool `gorm:"column:is_published;not null;default:false;index" json:"is_published"`
	TargetAgeMin int  `gorm:"column:target_age_min;not null;default:0" json:"target_age_min"`
	TargetAgeMax int  `gorm:"column:target_age_max;not null;default:0" json:"target_age_max"`

	Topics []*Topic `gorm:"many2many:content_topic;joinForeignKey:ContentID;joinReferences:TopicID" json:"topics,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Content) TableName() string { return "content" }

type Topic struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string    `gorm:"column:name;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Topic) TableName() string { return "topic" }

type ContentTopic struct {
	ContentID uuid.UUID `gorm:"type:uuid;primaryKey" json:"content_id"`
	TopicID   uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"topic_id"`
}

func (ContentTopic) TableName() string { return "content_topic" }
