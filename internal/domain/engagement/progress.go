package engagement

import (
	"strings"
	"time"

	"github.com/google/uuid"
	contentdom "github.com/curiolearn/curio-backend/internal/domain/content"
)

const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusPaused     = "paused"
)

// NormalizeStatus folds the status spellings seen at the edges (NOT_STARTED,
// not-started, ...) into the canonical enum. Normalization happens exactly
// once, at the storage-adapter boundary; business logic only ever sees
// canonical values. Unknown values come back empty.
func NormalizeStatus(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "_")
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusPaused:
		return s
	}
	return ""
}

// ContentProgress holds exactly one row per (user, content) pair.
// completed_at is non-null iff status is completed.
type ContentProgress struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_content;index" json:"user_id"`
	ContentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_content;index" json:"content_id"`

	Content *contentdom.Content `gorm:"constraint:OnDelete:CASCADE;foreignKey:ContentID;references:ID" json:"content,omitempty"`

	Status             string `gorm:"column:status;not null;default:'not_started';index" json:"status"`
	ProgressPercentage int    `gorm:"column:progress_percentage;not null;default:0" json:"progress_percentage"`
	TimeSpentSeconds   int    `gorm:"column:time_spent_seconds;not null;default:0" json:"time_spent_seconds"`
	LastPositionSecond int    `gorm:"column:last_position_seconds;not null;default:0" json:"last_position_seconds"`

	CompletionRating   *int    `gorm:"column:completion_rating" json:"completion_rating,omitempty"`
	CompletionFeedback *string `gorm:"column:completion_feedback;type:text" json:"completion_feedback,omitempty"`

	FirstAccessedAt time.Time  `gorm:"column:first_accessed_at;not null" json:"first_accessed_at"`
	LastAccessedAt  time.Time  `gorm:"column:last_accessed_at;not null" json:"last_accessed_at"`
	CompletedAt     *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ContentProgress) TableName() string { return "content_progress" }
