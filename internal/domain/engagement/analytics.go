package engagement

import (
	"time"

	"github.com/google/uuid"
)

// Priority tiers for problematic content, ordered by severity.
const (
	PriorityCritical = "CRITICAL"
	PriorityHigh     = "HIGH"
	PriorityMedium   = "MEDIUM"
	PriorityLow      = "LOW"
)

// UserProgressView is the read model returned after a progress report.
type UserProgressView struct {
	UserID       uuid.UUID `json:"user_id"`
	ContentID    uuid.UUID `json:"content_id"`
	ContentTitle string    `json:"content_title"`

	Status             string `json:"status"`
	ProgressPercentage int    `json:"progress_percentage"`
	TimeSpentSeconds   int    `json:"time_spent_seconds"`
	LastPositionSecond int    `json:"last_position_seconds"`

	CompletionRating   *int    `json:"completion_rating,omitempty"`
	CompletionFeedback *string `json:"completion_feedback,omitempty"`

	FirstAccessedAt time.Time  `json:"first_accessed_at"`
	LastAccessedAt  time.Time  `json:"last_accessed_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// ContentAnalytics is derived from the denormalized counters on the content
// row, not from raw interaction rows.
type ContentAnalytics struct {
	ContentID      uuid.UUID `json:"content_id"`
	Title          string    `json:"title"`
	ViewCount      int64     `json:"view_count"`
	CompletionCnt  int64     `json:"completion_count"`
	CompletionRate float64   `json:"completion_rate"`
	RatingAverage  float64   `json:"rating_average"`
	RatingCount    int64     `json:"rating_count"`
}

// AbandonmentAnalytics is a pure function of the interaction log for one
// content id. A content id with no rows yields the zero value with an empty
// device map rather than an error.
type AbandonmentAnalytics struct {
	ContentID           uuid.UUID        `json:"content_id"`
	TotalStarts         int64            `json:"total_starts"`
	TotalCompletions    int64            `json:"total_completions"`
	CompletionRate      float64          `json:"completion_rate"`
	AvgAbandonmentPoint float64          `json:"avg_abandonment_point"`
	AbandonmentByDevice map[string]int64 `json:"abandonment_by_device"`
}

// RankedContent annotates a content item with its counter-derived completion
// rate for the engagement rankings.
type RankedContent struct {
	ContentID      uuid.UUID `json:"content_id"`
	Title          string    `json:"title"`
	RatingAverage  float64   `json:"rating_average"`
	CompletionRate float64   `json:"completion_rate"`
}

type EffectivenessAnalytics struct {
	TopicID               uuid.UUID       `json:"topic_id"`
	TopicName             string          `json:"topic_name"`
	TotalContent          int             `json:"total_content"`
	TotalViews            int64           `json:"total_views"`
	TotalCompletions      int64           `json:"total_completions"`
	AverageCompletionRate float64         `json:"average_completion_rate"`
	AverageTimeSpent      float64         `json:"average_time_spent"`
	AverageRating         float64         `json:"average_rating"`
	MostEngagedContent    []RankedContent `json:"most_engaged_content"`
	LeastEngagedContent   []RankedContent `json:"least_engaged_content"`
}

// ProblematicContent carries both the progress-derived completion rate the
// detector filters on and the counter-derived rate; when they drift apart
// that is a data-quality signal, not something the detector reconciles.
type ProblematicContent struct {
	ContentID             uuid.UUID `json:"content_id"`
	Title                 string    `json:"title"`
	CompletionRate        float64   `json:"completion_rate"`
	CounterCompletionRate float64   `json:"counter_completion_rate"`
	AvgAbandonmentPoint   float64   `json:"avg_abandonment_point"`
	Priority              string    `json:"priority"`
	Recommendation        string    `json:"recommendation"`
}
