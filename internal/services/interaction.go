package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	contentrepo "github.com/curiolearn/curio-backend/internal/data/repos/content"
	engagementrepo "github.com/curiolearn/curio-backend/internal/data/repos/engagement"
	engagementdom "github.com/curiolearn/curio-backend/internal/domain/engagement"
	pkgerrors "github.com/curiolearn/curio-backend/internal/pkg/errors"
	"github.com/curiolearn/curio-backend/internal/pkg/logger"
)

// InteractionInput is one user action on one content item. SessionID defaults
// to a fresh id when absent; the timestamp is always assigned server-side.
type InteractionInput struct {
	UserID    uuid.UUID  `json:"user_id"`
	ContentID uuid.UUID  `json:"content_id"`
	SessionID *uuid.UUID `json:"session_id,omitempty"`
	Action    string     `json:"action"`

	ProgressAtAction *int `json:"progress_at_action,omitempty"`
	TimeSpentSeconds *int `json:"time_spent_seconds,omitempty"`

	DeviceType        *string `json:"device_type,omitempty"`
	Platform          *string `json:"platform,omitempty"`
	AbandonmentReason *string `json:"abandonment_reason,omitempty"`
	CameFrom          *string `json:"came_from,omitempty"`

	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type InteractionService interface {
	LogInteraction(ctx context.Context, input InteractionInput) (*engagementdom.ContentInteractionLog, error)
	BulkLogInteractions(ctx context.Context, inputs []InteractionInput) error
}

type interactionService struct {
	db          *gorm.DB
	log         *logger.Logger
	contentRepo contentrepo.ContentRepo
	logRepo     engagementrepo.InteractionLogRepo
}

func NewInteractionService(db *gorm.DB, baseLog *logger.Logger, contentRepo contentrepo.ContentRepo, logRepo engagementrepo.InteractionLogRepo) InteractionService {
	return &interactionService{
		db:          db,
		log:         baseLog.With("service", "InteractionService"),
		contentRepo: contentRepo,
		logRepo:     logRepo,
	}
}

func (s *interactionService) LogInteraction(ctx context.Context, input InteractionInput) (*engagementdom.ContentInteractionLog, error) {
	row, err := s.buildRow(input)
	if err != nil {
		return nil, err
	}

	persisted, err := s.logRepo.Create(ctx, nil, row)
	if err != nil {
		return nil, err
	}
	s.bumpCounters(ctx, row)
	return persisted, nil
}

// BulkLogInteractions is all-or-nothing: every event is validated before any
// row is written, and the batch lands in a single transaction.
func (s *interactionService) BulkLogInteractions(ctx context.Context, inputs []InteractionInput) error {
	if len(inputs) == 0 {
		return nil
	}

	rows := make([]*engagementdom.ContentInteractionLog, 0, len(inputs))
	for i, input := range inputs {
		row, err := s.buildRow(input)
		if err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		rows = append(rows, row)
	}

	if err := s.logRepo.CreateBatch(ctx, nil, rows); err != nil {
		return err
	}
	for _, row := range rows {
		s.bumpCounters(ctx, row)
	}
	return nil
}

func (s *interactionService) buildRow(input InteractionInput) (*engagementdom.ContentInteractionLog, error) {
	if input.UserID == uuid.Nil {
		return nil, fmt.Errorf("user id is required: %w", pkgerrors.ErrInvalidArgument)
	}
	if input.ContentID == uuid.Nil {
		return nil, fmt.Errorf("content id is required: %w", pkgerrors.ErrInvalidArgument)
	}
	action := engagementdom.NormalizeAction(input.Action)
	if action == "" {
		return nil, fmt.Errorf("unknown action %q: %w", input.Action, pkgerrors.ErrInvalidArgument)
	}
	if input.ProgressAtAction != nil && (*input.ProgressAtAction < 0 || *input.ProgressAtAction > 100) {
		return nil, fmt.Errorf("progress at action %d out of range [0,100]: %w", *input.ProgressAtAction, pkgerrors.ErrInvalidArgument)
	}

	sessionID := uuid.New()
	if input.SessionID != nil && *input.SessionID != uuid.Nil {
		sessionID = *input.SessionID
	}

	metadata := datatypes.JSON([]byte("{}"))
	if len(input.Metadata) > 0 {
		raw, err := json.Marshal(input.Metadata)
		if err != nil {
			return nil, fmt.Errorf("metadata not serializable: %w", pkgerrors.ErrInvalidArgument)
		}
		metadata = datatypes.JSON(raw)
	}

	return &engagementdom.ContentInteractionLog{
		ID:                uuid.New(),
		UserID:            input.UserID,
		ContentID:         input.ContentID,
		SessionID:         sessionID,
		Action:            action,
		Timestamp:         time.Now().UTC(),
		ProgressAtAction:  input.ProgressAtAction,
		TimeSpentSeconds:  input.TimeSpentSeconds,
		DeviceType:        input.DeviceType,
		Platform:          input.Platform,
		AbandonmentReason: input.AbandonmentReason,
		CameFrom:          input.CameFrom,
		Metadata:          metadata,
	}, nil
}

// bumpCounters maintains the denormalized view/completion counters the
// effectiveness analyzer reads. Counter drift is tolerated (analytics, not a
// ledger), so a failed bump logs and moves on instead of failing the write.
func (s *interactionService) bumpCounters(ctx context.Context, row *engagementdom.ContentInteractionLog) {
	var err error
	switch row.Action {
	case engagementdom.ActionStart:
		err = s.contentRepo.IncrementViewCount(ctx, nil, row.ContentID)
	case engagementdom.ActionComplete:
		err = s.contentRepo.IncrementCompletionCount(ctx, nil, row.ContentID)
	default:
		return
	}
	if err != nil {
		s.log.Warn("Failed to bump content counter", "content_id", row.ContentID, "action", row.Action, "error", err)
	}
}
