package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hammamikhairi/chefchallenge/internal/domain"
	"github.com/hammamikhairi/chefchallenge/internal/logger"
)

func TestMemoryStoreRecordAndList(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := NewMemoryStore(log)
	ctx := context.Background()

	now := time.Now()
	first := domain.Result{
		SessionID:   "s1",
		RecipeName:  "Vegetable Salad",
		Reward:      10,
		Bonus:       5,
		Earned:      15,
		Challenges:  []domain.Challenge{{Type: domain.ChallengeNoMistakes}},
		Level:       2,
		StartedAt:   now.Add(-2 * time.Minute),
		CompletedAt: now,
	}

	// Record.
	if err := store.Record(ctx, first); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Record(ctx, domain.Result{SessionID: "s2", RecipeName: "Omelette", Earned: 30}); err != nil {
		t.Fatalf("record: %v", err)
	}

	// List keeps insertion order.
	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 results, got %d", len(all))
	}
	if all[0].SessionID != "s1" || all[1].SessionID != "s2" {
		t.Fatalf("unexpected order: %s, %s", all[0].SessionID, all[1].SessionID)
	}

	// Returned slices are copies.
	all[0].Challenges[0].Type = domain.ChallengeSpeed
	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Challenges[0].Type != domain.ChallengeNoMistakes {
		t.Fatal("List leaked internal challenge slice")
	}

	// Get nonexistent.
	if _, err := store.Get(ctx, "nonexistent"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreRejectsDuplicates(t *testing.T) {
	store := NewMemoryStore(logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	if err := store.Record(ctx, domain.Result{SessionID: "dup"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Record(ctx, domain.Result{SessionID: "dup"}); err == nil {
		t.Fatal("expected error recording the same session twice")
	}
	if err := store.Record(ctx, domain.Result{}); err == nil {
		t.Fatal("expected error for empty session id")
	}

	all, _ := store.List(ctx)
	if len(all) != 1 {
		t.Fatalf("expected 1 result, got %d", len(all))
	}
}

func TestMemoryStoreBest(t *testing.T) {
	store := NewMemoryStore(logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	results := []domain.Result{
		{SessionID: "a", RecipeName: "Omelette", Earned: 20},
		{SessionID: "b", RecipeName: "Omelette", Earned: 35},
		{SessionID: "c", RecipeName: "Vegetable Salad", Earned: 50},
		{SessionID: "d", RecipeName: "Omelette", Earned: 25},
	}
	for _, r := range results {
		if err := store.Record(ctx, r); err != nil {
			t.Fatalf("record %s: %v", r.SessionID, err)
		}
	}

	best, err := store.Best(ctx, "Omelette")
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	if best.SessionID != "b" {
		t.Fatalf("expected best omelette b, got %s", best.SessionID)
	}

	if _, err := store.Best(ctx, "Margherita Pizza"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
