package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	contentdom "github.com/curiolearn/curio-backend/internal/domain/content"
	engagementdom "github.com/curiolearn/curio-backend/internal/domain/engagement"
)

func SeedTopic(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *contentdom.Topic {
	tb.Helper()
	t := &contentdom.Topic{
		ID:   uuid.New(),
		Name: name,
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed topic: %v", err)
	}
	return t
}

func SeedContent(tb testing.TB, ctx context.Context, tx *gorm.DB, title string, published bool) *contentdom.Content {
	tb.Helper()
	c := &contentdom.Content{
		ID:          uuid.New(),
		Title:       title,
		ContentType: contentdom.TypeArticle,
		IsPublished: published,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed content: %v", err)
	}
	return c
}

func SeedProgress(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID, status string) *engagementdom.ContentProgress {
	tb.Helper()
	now := time.Now().UTC()
	p := &engagementdom.ContentProgress{
		ID:              uuid.New(),
		UserID:          userID,
		ContentID:       contentID,
		Status:          status,
		FirstAccessedAt: now,
		LastAccessedAt:  now,
	}
	if status == engagementdom.StatusCompleted {
		p.CompletedAt = &now
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed progress: %v", err)
	}
	return p
}

func SeedInteraction(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID, action string) *engagementdom.ContentInteractionLog {
	tb.Helper()
	row := &engagementdom.ContentInteractionLog{
		ID:        uuid.New(),
		UserID:    userID,
		ContentID: contentID,
		SessionID: uuid.New(),
		Action:    action,
		Timestamp: time.Now().UTC(),
		Metadata:  datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed interaction: %v", err)
	}
	return row
}
