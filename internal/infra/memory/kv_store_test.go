package memory

import (
	"context"
	"testing"
)

func TestKVStoreMissingAndCopy(t *testing.T) {
	ctx := context.Background()
	store := NewKVStore()

	if _, ok, err := store.Get(ctx, "players"); err != nil || ok {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}

	value := []byte(`[]`)
	if err := store.Set(ctx, "players", value); err != nil {
		t.Fatalf("set: %v", err)
	}
	value[0] = 'x'

	got, ok, err := store.Get(ctx, "players")
	if err != nil || !ok {
		t.Fatalf("expected key present, ok=%v err=%v", ok, err)
	}
	if string(got) != "[]" {
		t.Fatalf("store must copy on write, got %q", got)
	}
}
