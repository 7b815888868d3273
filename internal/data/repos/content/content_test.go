package content

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/curiolearn/curio-backend/internal/data/repos/testutil"
)

func TestContentGetByID_MissingIsNil(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewContentRepo(db, testutil.Logger(t))
	item, err := repo.GetByID(context.Background(), tx, uuid.New())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if item != nil {
		t.Fatalf("want nil for missing id, got %+v", item)
	}
}

func TestContentListPublished(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewContentRepo(db, testutil.Logger(t))
	published := testutil.SeedContent(t, ctx, tx, "published item", true)
	testutil.SeedContent(t, ctx, tx, "draft item", false)

	items, err := repo.ListPublished(ctx, tx, 0)
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	for _, item := range items {
		if !item.IsPublished {
			t.Fatalf("draft leaked into published listing: %+v", item)
		}
	}

	found := false
	for _, item := range items {
		if item.ID == published.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("seeded published item missing from listing")
	}

	limited, err := repo.ListPublished(ctx, tx, 1)
	if err != nil {
		t.Fatalf("ListPublished limit: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("limited listing = %d rows, want 1", len(limited))
	}
}

func TestContentGetByTopicID(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewContentRepo(db, testutil.Logger(t))
	topic := testutil.SeedTopic(t, ctx, tx, "biology")
	inTopic := testutil.SeedContent(t, ctx, tx, "cells", true)
	testutil.SeedContent(t, ctx, tx, "unrelated", true)

	if err := repo.AddTopics(ctx, tx, inTopic.ID, []uuid.UUID{topic.ID}); err != nil {
		t.Fatalf("AddTopics: %v", err)
	}

	items, err := repo.GetByTopicID(ctx, tx, topic.ID)
	if err != nil {
		t.Fatalf("GetByTopicID: %v", err)
	}
	if len(items) != 1 || items[0].ID != inTopic.ID {
		t.Fatalf("topic listing = %+v, want only the linked item", items)
	}
}

func TestContentCounters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewContentRepo(db, testutil.Logger(t))
	item := testutil.SeedContent(t, ctx, tx, "counted", true)

	if err := repo.IncrementViewCount(ctx, tx, item.ID); err != nil {
		t.Fatalf("IncrementViewCount: %v", err)
	}
	if err := repo.IncrementViewCount(ctx, tx, item.ID); err != nil {
		t.Fatalf("IncrementViewCount: %v", err)
	}
	if err := repo.IncrementCompletionCount(ctx, tx, item.ID); err != nil {
		t.Fatalf("IncrementCompletionCount: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ViewCount != 2 || got.CompletionCount != 1 {
		t.Fatalf("counters = (%d, %d), want (2, 1)", got.ViewCount, got.CompletionCount)
	}
}

func TestContentApplyRating_RunningAverage(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewContentRepo(db, testutil.Logger(t))
	item := testutil.SeedContent(t, ctx, tx, "rated", true)

	for _, rating := range []int{4, 2} {
		if err := repo.ApplyRating(ctx, tx, item.ID, rating); err != nil {
			t.Fatalf("ApplyRating(%d): %v", rating, err)
		}
	}

	got, err := repo.GetByID(ctx, tx, item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.RatingCount != 2 {
		t.Fatalf("rating count = %d, want 2", got.RatingCount)
	}
	if got.RatingAverage != 3 {
		t.Fatalf("rating average = %v, want 3", got.RatingAverage)
	}
}
