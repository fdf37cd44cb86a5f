package app_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"clock-tutor-service/internal/app"
	"clock-tutor-service/internal/domain"
	"clock-tutor-service/internal/infra/memory"
)

func newAdmin() (*app.AdminService, *app.Gateway) {
	gateway := app.NewGateway(memory.NewKVStore())
	return app.NewAdminService(gateway, app.NewPlayerFactory()), gateway
}

func TestAdminDestructiveActionsNeedConfirmation(t *testing.T) {
	ctx := context.Background()
	admin, _ := newAdmin()

	player, err := admin.AddPlayer(ctx, "Bi")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if player.Avatar != "https://picsum.photos/seed/"+player.ID+"/100/100" {
		t.Fatalf("unexpected avatar %q", player.Avatar)
	}

	if err := admin.DeletePlayer(ctx, player.ID, false); !errors.Is(err, domain.ErrConfirmationRequired) {
		t.Fatalf("expected confirmation error, got %v", err)
	}
	if err := admin.ClearPlayers(ctx, false); !errors.Is(err, domain.ErrConfirmationRequired) {
		t.Fatalf("expected confirmation error, got %v", err)
	}
	if err := admin.ResetPlayers(ctx, false); !errors.Is(err, domain.ErrConfirmationRequired) {
		t.Fatalf("expected confirmation error, got %v", err)
	}
	players, _ := admin.ListPlayers(ctx)
	if len(players) != 1 {
		t.Fatalf("unconfirmed action changed roster: %+v", players)
	}

	if err := admin.DeletePlayer(ctx, player.ID, true); err != nil {
		t.Fatalf("delete: %v", err)
	}
	players, _ = admin.ListPlayers(ctx)
	if len(players) != 0 {
		t.Fatalf("expected empty roster, got %+v", players)
	}
}

func TestAdminLeaderboardTopThree(t *testing.T) {
	ctx := context.Background()
	admin, gateway := newAdmin()
	for i, stars := range []int{5, 15, 0, 10} {
		p := domain.Player{ID: string(rune('a' + i)), Name: "kid", Stars: stars, CompletedStages: []string{}}
		if err := gateway.SavePlayer(ctx, p); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	top, err := admin.Leaderboard(ctx, 3)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(top) != 3 || top[0].Stars != 15 || top[1].Stars != 10 || top[2].Stars != 5 {
		t.Fatalf("unexpected leaderboard %+v", top)
	}
}

func TestAdminExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	admin, _ := newAdmin()

	exported, err := admin.ExportQuestions(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	other, otherGateway := newAdmin()
	if err := otherGateway.ReplaceQuestions(ctx, nil); err != nil {
		t.Fatalf("clear bank: %v", err)
	}
	n, err := other.ImportQuestions(ctx, bytes.NewReader(exported))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 15 {
		t.Fatalf("expected 15 imported, got %d", n)
	}
	reexported, err := other.ExportQuestions(ctx)
	if err != nil {
		t.Fatalf("re-export: %v", err)
	}
	if !bytes.Equal(exported, reexported) {
		t.Fatalf("round trip changed the bank")
	}
}

func TestAdminMalformedImportLeavesBankIntact(t *testing.T) {
	ctx := context.Background()
	cases := map[string]string{
		"not json":      `hello`,
		"object":        `{"id":"x"}`,
		"unknown type":  `[{"id":"x","stageId":1,"type":"essay","questionText":"?","hour":1,"minute":0}]`,
		"answer absent": `[{"id":"x","stageId":1,"type":"select","questionText":"?","hour":1,"minute":0,"options":["a","b"],"correctAnswer":"c"}]`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			admin, _ := newAdmin()
			_, err := admin.ImportQuestions(ctx, strings.NewReader(doc))
			if !errors.Is(err, domain.ErrMalformedImport) {
				t.Fatalf("expected ErrMalformedImport, got %v", err)
			}
			if domain.UserMessage(err) != "Lỗi định dạng file!" {
				t.Fatalf("unexpected user message %q", domain.UserMessage(err))
			}
			qs, err := admin.Questions(ctx)
			if err != nil || len(qs) != 15 {
				t.Fatalf("expected bank untouched, got %d err=%v", len(qs), err)
			}
		})
	}
}
