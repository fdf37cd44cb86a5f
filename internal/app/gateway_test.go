package app_test

import (
	"context"
	"errors"
	"testing"

	"clock-tutor-service/internal/app"
	"clock-tutor-service/internal/domain"
	"clock-tutor-service/internal/infra/memory"
)

type countingStore struct {
	*memory.KVStore
	sets int
}

func (s *countingStore) Set(ctx context.Context, key string, value []byte) error {
	s.sets++
	return s.KVStore.Set(ctx, key, value)
}

func TestGatewaySeedsOnFirstReadOnly(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{KVStore: memory.NewKVStore()}
	gateway := app.NewGateway(store)

	first, err := gateway.Questions(ctx)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(first) != 15 {
		t.Fatalf("expected 15 seeded questions, got %d", len(first))
	}
	if store.sets != 1 {
		t.Fatalf("expected seed persisted once, got %d writes", store.sets)
	}

	second, err := gateway.Questions(ctx)
	if err != nil {
		t.Fatalf("questions again: %v", err)
	}
	if store.sets != 1 {
		t.Fatalf("expected no further writes, got %d", store.sets)
	}
	if len(second) != len(first) || second[0].ID != first[0].ID {
		t.Fatalf("expected identical reads")
	}

	players, err := gateway.Players(ctx)
	if err != nil {
		t.Fatalf("players: %v", err)
	}
	if players == nil || len(players) != 0 {
		t.Fatalf("expected empty non-nil roster, got %#v", players)
	}
}

func TestGatewayStageQuestionsKeepOrder(t *testing.T) {
	gateway := app.NewGateway(memory.NewKVStore())
	qs, err := gateway.StageQuestions(context.Background(), 3)
	if err != nil {
		t.Fatalf("stage questions: %v", err)
	}
	want := []string{"s3q1", "s3q2", "s3q3", "s3q4", "s3q5"}
	if len(qs) != len(want) {
		t.Fatalf("expected %d questions, got %d", len(want), len(qs))
	}
	for i, q := range qs {
		if q.ID != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], q.ID)
		}
	}
}

func TestGatewaySavePlayerUpserts(t *testing.T) {
	ctx := context.Background()
	gateway := app.NewGateway(memory.NewKVStore())

	bi := domain.Player{ID: "p1", Name: "Bi", CompletedStages: []string{}}
	na := domain.Player{ID: "p2", Name: "Na", CompletedStages: []string{}}
	for _, p := range []domain.Player{bi, na} {
		if err := gateway.SavePlayer(ctx, p); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	bi.Stars = 5
	bi.CompletedStages = []string{"1"}
	if err := gateway.SavePlayer(ctx, bi); err != nil {
		t.Fatalf("update: %v", err)
	}

	players, err := gateway.Players(ctx)
	if err != nil {
		t.Fatalf("players: %v", err)
	}
	if len(players) != 2 || players[0].ID != "p1" || players[0].Stars != 5 {
		t.Fatalf("expected in-place update, got %+v", players)
	}

	if err := gateway.DeletePlayer(ctx, "missing"); !errors.Is(err, domain.ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
	if err := gateway.DeletePlayer(ctx, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := gateway.Player(ctx, "p1"); !errors.Is(err, domain.ErrPlayerNotFound) {
		t.Fatalf("expected deleted player gone, got %v", err)
	}
}

func TestGatewayCorruptCollection(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()
	if err := store.Set(ctx, app.PlayersKey, []byte(`{"not":"a list"}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := app.NewGateway(store).Players(ctx); !errors.Is(err, domain.ErrCorruptCollection) {
		t.Fatalf("expected ErrCorruptCollection, got %v", err)
	}
}
