package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/curiolearn/curio-backend/internal/data/repos/testutil"
	engagementdom "github.com/curiolearn/curio-backend/internal/domain/engagement"
	pkgerrors "github.com/curiolearn/curio-backend/internal/pkg/errors"
)

func TestLogInteractionAssignsServerSideFields(t *testing.T) {
	item := seedContentItem("volcano documentary")
	contentRepo := newFakeContentRepo(item)
	logRepo := &fakeInteractionLogRepo{}
	svc := NewInteractionService(nil, testutil.Logger(t), contentRepo, logRepo)

	before := time.Now().UTC()
	row, err := svc.LogInteraction(context.Background(), InteractionInput{
		UserID:    uuid.New(),
		ContentID: item.ID,
		Action:    "START",
	})
	if err != nil {
		t.Fatalf("LogInteraction: %v", err)
	}

	if row.Action != engagementdom.ActionStart {
		t.Fatalf("action = %q, want normalized %q", row.Action, engagementdom.ActionStart)
	}
	if row.SessionID == uuid.Nil {
		t.Fatalf("session id not defaulted")
	}
	if row.Timestamp.Before(before) {
		t.Fatalf("timestamp not assigned server-side: %v", row.Timestamp)
	}
	if item.ViewCount != 1 {
		t.Fatalf("view count = %d, want 1 after start", item.ViewCount)
	}
}

func TestLogInteractionKeepsSuppliedSession(t *testing.T) {
	item := seedContentItem("grammar drill")
	svc := NewInteractionService(nil, testutil.Logger(t), newFakeContentRepo(item), &fakeInteractionLogRepo{})

	sessionID := uuid.New()
	row, err := svc.LogInteraction(context.Background(), InteractionInput{
		UserID:    uuid.New(),
		ContentID: item.ID,
		SessionID: &sessionID,
		Action:    "pause",
	})
	if err != nil {
		t.Fatalf("LogInteraction: %v", err)
	}
	if row.SessionID != sessionID {
		t.Fatalf("session id = %v, want %v", row.SessionID, sessionID)
	}
}

func TestLogInteractionValidation(t *testing.T) {
	item := seedContentItem("spelling quiz")
	logRepo := &fakeInteractionLogRepo{}
	svc := NewInteractionService(nil, testutil.Logger(t), newFakeContentRepo(item), logRepo)
	ctx := context.Background()

	cases := []struct {
		name  string
		input InteractionInput
	}{
		{"missing user", InteractionInput{ContentID: item.ID, Action: "start"}},
		{"missing content", InteractionInput{UserID: uuid.New(), Action: "start"}},
		{"missing action", InteractionInput{UserID: uuid.New(), ContentID: item.ID}},
		{"unknown action", InteractionInput{UserID: uuid.New(), ContentID: item.ID, Action: "skip"}},
		{"progress out of range", InteractionInput{UserID: uuid.New(), ContentID: item.ID, Action: "abandon", ProgressAtAction: intPtr(120)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.LogInteraction(ctx, tc.input); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
				t.Fatalf("want ErrInvalidArgument, got %v", err)
			}
		})
	}

	if len(logRepo.rows) != 0 {
		t.Fatalf("invalid events must not be persisted, got %d rows", len(logRepo.rows))
	}
}

func TestBulkLogInteractionsRejectsWholeBatch(t *testing.T) {
	item := seedContentItem("history timeline")
	logRepo := &fakeInteractionLogRepo{}
	contentRepo := newFakeContentRepo(item)
	svc := NewInteractionService(nil, testutil.Logger(t), contentRepo, logRepo)

	err := svc.BulkLogInteractions(context.Background(), []InteractionInput{
		{UserID: uuid.New(), ContentID: item.ID, Action: "start"},
		{UserID: uuid.New(), ContentID: item.ID, Action: "not-an-action"},
	})
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
	if len(logRepo.rows) != 0 {
		t.Fatalf("batch with one bad event must persist nothing, got %d rows", len(logRepo.rows))
	}
	if item.ViewCount != 0 {
		t.Fatalf("counters must not move on a rejected batch, view_count=%d", item.ViewCount)
	}
}

func TestBulkLogInteractionsPersistsAll(t *testing.T) {
	item := seedContentItem("poetry reading")
	logRepo := &fakeInteractionLogRepo{}
	contentRepo := newFakeContentRepo(item)
	svc := NewInteractionService(nil, testutil.Logger(t), contentRepo, logRepo)

	userID := uuid.New()
	err := svc.BulkLogInteractions(context.Background(), []InteractionInput{
		{UserID: userID, ContentID: item.ID, Action: "start"},
		{UserID: userID, ContentID: item.ID, Action: "complete", ProgressAtAction: intPtr(100)},
	})
	if err != nil {
		t.Fatalf("BulkLogInteractions: %v", err)
	}
	if len(logRepo.rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(logRepo.rows))
	}
	if item.ViewCount != 1 || item.CompletionCount != 1 {
		t.Fatalf("counters = (%d, %d), want (1, 1)", item.ViewCount, item.CompletionCount)
	}
}
