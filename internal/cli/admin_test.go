package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clock-tutor-service/internal/app"
	"clock-tutor-service/internal/domain"
	"clock-tutor-service/internal/infra/memory"
)

// useMemoryAdmin points every admin command at one shared in-memory store.
func useMemoryAdmin(t *testing.T) *app.Gateway {
	t.Helper()
	gateway := app.NewGateway(memory.NewKVStore())
	admin := app.NewAdminService(gateway, app.NewPlayerFactoryWithIDs(func() string { return "p1" }))
	prev := openAdmin
	openAdmin = func(context.Context, string) (*app.AdminService, func(), error) {
		return admin, func() {}, nil
	}
	t.Cleanup(func() { openAdmin = prev })
	return gateway
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPlayersAddAndList(t *testing.T) {
	useMemoryAdmin(t)

	if _, err := run(t, "", "players", "add", "Bé", "Bi"); err != nil {
		t.Fatalf("add: %v", err)
	}
	out, err := run(t, "", "players", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "p1") || !strings.Contains(out, "Bé Bi") {
		t.Fatalf("expected player in listing, got:\n%s", out)
	}
}

func TestPlayersDeleteAsksForConfirmation(t *testing.T) {
	gateway := useMemoryAdmin(t)
	if _, err := run(t, "", "players", "add", "Bi"); err != nil {
		t.Fatalf("add: %v", err)
	}

	out, err := run(t, "n\n", "players", "delete", "p1")
	if !errors.Is(err, domain.ErrConfirmationRequired) {
		t.Fatalf("expected refusal, got %v", err)
	}
	if !strings.Contains(out, "[y/N]") {
		t.Fatalf("expected prompt, got %q", out)
	}
	if _, err := gateway.Player(context.Background(), "p1"); err != nil {
		t.Fatalf("player must survive a refused delete: %v", err)
	}

	if _, err := run(t, "y\n", "players", "delete", "p1"); err != nil {
		t.Fatalf("confirmed delete: %v", err)
	}
	if _, err := gateway.Player(context.Background(), "p1"); !errors.Is(err, domain.ErrPlayerNotFound) {
		t.Fatalf("expected player deleted, got %v", err)
	}
}

func TestPlayersClearWithYesFlag(t *testing.T) {
	gateway := useMemoryAdmin(t)
	if _, err := run(t, "", "players", "add", "Bi"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := run(t, "", "players", "clear", "--yes"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	players, _ := gateway.Players(context.Background())
	if len(players) != 0 {
		t.Fatalf("expected empty roster, got %+v", players)
	}
}

func TestQuestionsExportImport(t *testing.T) {
	useMemoryAdmin(t)
	path := filepath.Join(t.TempDir(), "questions.json")

	if _, err := run(t, "", "questions", "export", "--out", path); err != nil {
		t.Fatalf("export: %v", err)
	}
	out, err := run(t, "", "questions", "import", path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "Import thành công!") {
		t.Fatalf("unexpected output %q", out)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err = run(t, "", "questions", "import", bad)
	if !errors.Is(err, domain.ErrMalformedImport) {
		t.Fatalf("expected malformed import, got %v", err)
	}
}
