package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	contentrepo "github.com/curiolearn/curio-backend/internal/data/repos/content"
	contentdom "github.com/curiolearn/curio-backend/internal/domain/content"
	pkgerrors "github.com/curiolearn/curio-backend/internal/pkg/errors"
	"github.com/curiolearn/curio-backend/internal/pkg/logger"
	"github.com/curiolearn/curio-backend/internal/platform/apierr"
)

type CreateContentInput struct {
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	ContentType     string      `json:"content_type"`
	BodyURL         string      `json:"body_url"`
	DurationSeconds int         `json:"duration_seconds"`
	TargetAgeMin    int         `json:"target_age_min"`
	TargetAgeMax    int         `json:"target_age_max"`
	TopicIDs        []uuid.UUID `json:"topic_ids"`
}

type ContentService interface {
	CreateTopic(ctx context.Context, name, description string) (*contentdom.Topic, error)
	ListTopics(ctx context.Context) ([]*contentdom.Topic, error)
	CreateContent(ctx context.Context, input CreateContentInput) (*contentdom.Content, error)
	GetContent(ctx context.Context, contentID uuid.UUID) (*contentdom.Content, error)
	ListPublishedContent(ctx context.Context, limit int) ([]*contentdom.Content, error)
	SetPublished(ctx context.Context, contentID uuid.UUID, published bool) (*contentdom.Content, error)
}

type contentService struct {
	db          *gorm.DB
	log         *logger.Logger
	contentRepo contentrepo.ContentRepo
	topicRepo   contentrepo.TopicRepo
}

func NewContentService(db *gorm.DB, baseLog *logger.Logger, contentRepo contentrepo.ContentRepo, topicRepo contentrepo.TopicRepo) ContentService {
	return &contentService{
		db:          db,
		log:         baseLog.With("service", "ContentService"),
		contentRepo: contentRepo,
		topicRepo:   topicRepo,
	}
}

func (s *contentService) CreateTopic(ctx context.Context, name, description string) (*contentdom.Topic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("topic name is required: %w", pkgerrors.ErrInvalidArgument)
	}

	// topic.name carries a unique index; report the collision as a conflict
	// instead of surfacing the driver's duplicate-key error as a 500.
	existing, err := s.topicRepo.GetByName(ctx, nil, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apierr.New(http.StatusConflict, "topic_exists", fmt.Errorf("topic %q already exists", name))
	}

	topics, err := s.topicRepo.Create(ctx, nil, []*contentdom.Topic{{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
	}})
	if err != nil {
		return nil, err
	}
	return topics[0], nil
}

func (s *contentService) ListTopics(ctx context.Context) ([]*contentdom.Topic, error) {
	return s.topicRepo.List(ctx, nil)
}

func (s *contentService) CreateContent(ctx context.Context, input CreateContentInput) (*contentdom.Content, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("content title is required: %w", pkgerrors.ErrInvalidArgument)
	}
	contentType := strings.ToLower(strings.TrimSpace(input.ContentType))
	switch contentType {
	case contentdom.TypeArticle, contentdom.TypeVideo, contentdom.TypeQuiz:
	default:
		return nil, fmt.Errorf("unknown content type %q: %w", input.ContentType, pkgerrors.ErrInvalidArgument)
	}
	if input.DurationSeconds < 0 {
		return nil, fmt.Errorf("duration must be >= 0: %w", pkgerrors.ErrInvalidArgument)
	}

	for _, topicID := range input.TopicIDs {
		topic, err := s.topicRepo.GetByID(ctx, nil, topicID)
		if err != nil {
			return nil, err
		}
		if topic == nil {
			return nil, fmt.Errorf("topic %s: %w", topicID, pkgerrors.ErrNotFound)
		}
	}

	item := &contentdom.Content{
		ID:              uuid.New(),
		Title:           title,
		Description:     input.Description,
		ContentType:     contentType,
		BodyURL:         input.BodyURL,
		DurationSeconds: input.DurationSeconds,
		TargetAgeMin:    input.TargetAgeMin,
		TargetAgeMax:    input.TargetAgeMax,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.contentRepo.Create(ctx, tx, []*contentdom.Content{item}); err != nil {
			return err
		}
		return s.contentRepo.AddTopics(ctx, tx, item.ID, input.TopicIDs)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *contentService) GetContent(ctx context.Context, contentID uuid.UUID) (*contentdom.Content, error) {
	item, err := s.contentRepo.GetByID(ctx, nil, contentID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("content %s: %w", contentID, pkgerrors.ErrNotFound)
	}
	return item, nil
}

func (s *contentService) ListPublishedContent(ctx context.Context, limit int) ([]*contentdom.Content, error) {
	return s.contentRepo.ListPublished(ctx, nil, limit)
}

func (s *contentService) SetPublished(ctx context.Context, contentID uuid.UUID, published bool) (*contentdom.Content, error) {
	item, err := s.contentRepo.GetByID(ctx, nil, contentID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("content %s: %w", contentID, pkgerrors.ErrNotFound)
	}

	if err := s.contentRepo.SetPublished(ctx, nil, contentID, published); err != nil {
		return nil, err
	}
	item.IsPublished = published
	return item, nil
}
