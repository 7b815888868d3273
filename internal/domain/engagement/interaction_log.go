package engagement

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ActionStart    = "start"
	ActionPause    = "pause"
	ActionResume   = "resume"
	ActionComplete = "complete"
	ActionAbandon  = "abandon"
)

const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
	// DeviceUnknown is the bucket used when an event carries no device type.
	DeviceUnknown = "unknown"
)

const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
	PlatformWeb     = "web"
)

// NormalizeAction folds action spellings into the canonical enum, same
// single-point rule as NormalizeStatus. Unknown values come back empty.
func NormalizeAction(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case ActionStart, ActionPause, ActionResume, ActionComplete, ActionAbandon:
		return s
	}
	return ""
}

// ContentInteractionLog is an append-only event stream: rows are written once
// with a server-assigned timestamp and never updated.
type ContentInteractionLog struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ContentID uuid.UUID `gorm:"type:uuid;not null;index" json:"content_id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index" json:"session_id"`

	Action    string    `gorm:"column:action;not null;index" json:"action"`
	Timestamp time.Time `gorm:"column:timestamp;not null;index" json:"timestamp"`

	ProgressAtAction *int `gorm:"column:progress_at_action" json:"progress_at_action,omitempty"`
	TimeSpentSeconds *int `gorm:"column:time_spent_seconds" json:"time_spent_seconds,omitempty"`

	DeviceType        *string `gorm:"column:device_type" json:"device_type,omitempty"`
	Platform          *string `gorm:"column:platform" json:"platform,omitempty"`
	AbandonmentReason *string `gorm:"column:abandonment_reason" json:"abandonment_reason,omitempty"`
	CameFrom          *string `gorm:"column:came_from" json:"came_from,omitempty"`

	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ContentInteractionLog) TableName() string { return "content_interaction_log" }
