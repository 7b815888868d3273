package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	contentrepo "github.com/curiolearn/curio-backend/internal/data/repos/content"
	engagementrepo "github.com/curiolearn/curio-backend/internal/data/repos/engagement"
	engagementdom "github.com/curiolearn/curio-backend/internal/domain/engagement"
	pkgerrors "github.com/curiolearn/curio-backend/internal/pkg/errors"
	"github.com/curiolearn/curio-backend/internal/pkg/logger"
)

// ProgressUpdateInput carries any subset of trackable fields; nil means
// "not supplied, leave as is".
type ProgressUpdateInput struct {
	Status              *string `json:"status,omitempty"`
	ProgressPercentage  *int    `json:"progress_percentage,omitempty"`
	TimeSpentSeconds    *int    `json:"time_spent_seconds,omitempty"`
	LastPositionSeconds *int    `json:"last_position_seconds,omitempty"`
	CompletionRating    *int    `json:"completion_rating,omitempty"`
	CompletionFeedback  *string `json:"completion_feedback,omitempty"`
}

type ProgressService interface {
	TrackProgress(ctx context.Context, userID, contentID uuid.UUID, input ProgressUpdateInput) (*engagementdom.UserProgressView, error)
	ListProgressForUser(ctx context.Context, userID uuid.UUID) ([]*engagementdom.UserProgressView, error)
}

type progressService struct {
	db           *gorm.DB
	log          *logger.Logger
	contentRepo  contentrepo.ContentRepo
	progressRepo engagementrepo.ProgressRepo
}

func NewProgressService(db *gorm.DB, baseLog *logger.Logger, contentRepo contentrepo.ContentRepo, progressRepo engagementrepo.ProgressRepo) ProgressService {
	return &progressService{
		db:           db,
		log:          baseLog.With("service", "ProgressService"),
		contentRepo:  contentRepo,
		progressRepo: progressRepo,
	}
}

// TrackProgress upserts the single (user, content) progress row. The storage
// layer resolves insert-vs-update in one conditional statement; this method
// only decides which columns the report is allowed to touch. A completed
// status stamps completed_at with the time of this call even when the row was
// already completed, so completed_at always reflects the latest transition
// into completed.
func (s *progressService) TrackProgress(ctx context.Context, userID, contentID uuid.UUID, input ProgressUpdateInput) (*engagementdom.UserProgressView, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id is required: %w", pkgerrors.ErrInvalidArgument)
	}
	if contentID == uuid.Nil {
		return nil, fmt.Errorf("content id is required: %w", pkgerrors.ErrInvalidArgument)
	}

	status := ""
	if input.Status != nil {
		status = engagementdom.NormalizeStatus(*input.Status)
		if status == "" {
			return nil, fmt.Errorf("unknown status %q: %w", *input.Status, pkgerrors.ErrInvalidArgument)
		}
	}
	if input.ProgressPercentage != nil && (*input.ProgressPercentage < 0 || *input.ProgressPercentage > 100) {
		return nil, fmt.Errorf("progress percentage %d out of range [0,100]: %w", *input.ProgressPercentage, pkgerrors.ErrInvalidArgument)
	}
	if input.TimeSpentSeconds != nil && *input.TimeSpentSeconds < 0 {
		return nil, fmt.Errorf("time spent must be >= 0: %w", pkgerrors.ErrInvalidArgument)
	}
	if input.LastPositionSeconds != nil && *input.LastPositionSeconds < 0 {
		return nil, fmt.Errorf("last position must be >= 0: %w", pkgerrors.ErrInvalidArgument)
	}
	if input.CompletionRating != nil && (*input.CompletionRating < 1 || *input.CompletionRating > 5) {
		return nil, fmt.Errorf("completion rating %d out of range [1,5]: %w", *input.CompletionRating, pkgerrors.ErrInvalidArgument)
	}

	item, err := s.contentRepo.GetByID(ctx, nil, contentID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("content %s: %w", contentID, pkgerrors.ErrNotFound)
	}

	now := time.Now().UTC()

	row := &engagementdom.ContentProgress{
		ID:              uuid.New(),
		UserID:          userID,
		ContentID:       contentID,
		Status:          engagementdom.StatusNotStarted,
		FirstAccessedAt: now,
		LastAccessedAt:  now,
	}
	updates := map[string]interface{}{
		"last_accessed_at": now,
		"updated_at":       now,
	}

	if status != "" {
		row.Status = status
		updates["status"] = status
	}
	if input.ProgressPercentage != nil {
		row.ProgressPercentage = *input.ProgressPercentage
		updates["progress_percentage"] = *input.ProgressPercentage
	}
	if input.TimeSpentSeconds != nil {
		row.TimeSpentSeconds = *input.TimeSpentSeconds
		updates["time_spent_seconds"] = *input.TimeSpentSeconds
	}
	if input.LastPositionSeconds != nil {
		row.LastPositionSecond = *input.LastPositionSeconds
		updates["last_position_seconds"] = *input.LastPositionSeconds
	}
	if input.CompletionRating != nil {
		row.CompletionRating = input.CompletionRating
		updates["completion_rating"] = *input.CompletionRating
	}
	if input.CompletionFeedback != nil {
		row.CompletionFeedback = input.CompletionFeedback
		updates["completion_feedback"] = *input.CompletionFeedback
	}
	if status == engagementdom.StatusCompleted {
		row.CompletedAt = &now
		updates["completed_at"] = now
	} else if status != "" {
		// completed_at is non-null iff the row is completed, so a report that
		// moves the status anywhere else clears the stamp.
		updates["completed_at"] = nil
	}

	persisted, err := s.progressRepo.Upsert(ctx, nil, row, updates)
	if err != nil {
		return nil, err
	}

	if input.CompletionRating != nil {
		if err := s.contentRepo.ApplyRating(ctx, nil, contentID, *input.CompletionRating); err != nil {
			s.log.Warn("Failed to fold rating into content counters", "content_id", contentID, "error", err)
		}
	}

	return toProgressView(persisted, item.Title), nil
}

func (s *progressService) ListProgressForUser(ctx context.Context, userID uuid.UUID) ([]*engagementdom.UserProgressView, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id is required: %w", pkgerrors.ErrInvalidArgument)
	}

	rows, err := s.progressRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	contentIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		contentIDs = append(contentIDs, row.ContentID)
	}
	items, err := s.contentRepo.GetByIDs(ctx, nil, contentIDs)
	if err != nil {
		return nil, err
	}
	titles := make(map[uuid.UUID]string, len(items))
	for _, item := range items {
		titles[item.ID] = item.Title
	}

	views := make([]*engagementdom.UserProgressView, 0, len(rows))
	for _, row := range rows {
		views = append(views, toProgressView(row, titles[row.ContentID]))
	}
	return views, nil
}

func toProgressView(row *engagementdom.ContentProgress, title string) *engagementdom.UserProgressView {
	if row == nil {
		return nil
	}
	return &engagementdom.UserProgressView{
		UserID:             row.UserID,
		ContentID:          row.ContentID,
		ContentTitle:       title,
		Status:             row.Status,
		ProgressPercentage: row.ProgressPercentage,
		TimeSpentSeconds:   row.TimeSpentSeconds,
		LastPositionSecond: row.LastPositionSecond,
		CompletionRating:   row.CompletionRating,
		CompletionFeedback: row.CompletionFeedback,
		FirstAccessedAt:    row.FirstAccessedAt,
		LastAccessedAt:     row.LastAccessedAt,
		CompletedAt:        row.CompletedAt,
	}
}
