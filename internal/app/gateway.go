package app

import (
	"context"
	"encoding/json"
	"fmt"

	"clock-tutor-service/internal/domain"
)

// Storage keys for the two durable collections.
const (
	PlayersKey   = "hoc_xem_gio_players"
	QuestionsKey = "hoc_xem_gio_questions"
)

// KeyValueStore is the durable storage port (in-memory, file, Redis, Postgres).
// Get reports ok=false when the key has never been written.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Gateway reads and writes the player and question collections as whole
// JSON documents, seeding defaults on first access. Writes are
// read-modify-write without transactions; one interactive session at a
// time is assumed.
type Gateway struct {
	store         KeyValueStore
	seedPlayers   func() []domain.Player
	seedQuestions func() []domain.Question
}

// NewGateway seeds players from domain.SeedPlayers and questions from
// domain.DefaultQuestions.
func NewGateway(store KeyValueStore) *Gateway {
	return NewGatewayWithSeeds(store, domain.SeedPlayers, domain.DefaultQuestions)
}

// NewGatewayWithSeeds lets callers provide their own seed content.
func NewGatewayWithSeeds(store KeyValueStore, players func() []domain.Player, questions func() []domain.Question) *Gateway {
	return &Gateway{store: store, seedPlayers: players, seedQuestions: questions}
}

// Players returns the roster in stored order.
func (g *Gateway) Players(ctx context.Context) ([]domain.Player, error) {
	var players []domain.Player
	if err := g.load(ctx, PlayersKey, &players, g.seedPlayers()); err != nil {
		return nil, err
	}
	if players == nil {
		players = []domain.Player{}
	}
	return players, nil
}

// Player looks a single profile up by id.
func (g *Gateway) Player(ctx context.Context, id string) (domain.Player, error) {
	players, err := g.Players(ctx)
	if err != nil {
		return domain.Player{}, err
	}
	for _, p := range players {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Player{}, domain.ErrPlayerNotFound
}

// SavePlayer replaces the player with the same id or appends a new one.
func (g *Gateway) SavePlayer(ctx context.Context, player domain.Player) error {
	players, err := g.Players(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range players {
		if players[i].ID == player.ID {
			players[i] = player
			replaced = true
			break
		}
	}
	if !replaced {
		players = append(players, player)
	}
	return g.save(ctx, PlayersKey, players)
}

// DeletePlayer removes a player; ErrPlayerNotFound when the id is unknown.
func (g *Gateway) DeletePlayer(ctx context.Context, id string) error {
	players, err := g.Players(ctx)
	if err != nil {
		return err
	}
	kept := make([]domain.Player, 0, len(players))
	for _, p := range players {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(players) {
		return domain.ErrPlayerNotFound
	}
	return g.save(ctx, PlayersKey, kept)
}

// ClearPlayers empties the roster.
func (g *Gateway) ClearPlayers(ctx context.Context) error {
	return g.save(ctx, PlayersKey, []domain.Player{})
}

// ResetPlayers restores the seed roster.
func (g *Gateway) ResetPlayers(ctx context.Context) error {
	return g.save(ctx, PlayersKey, g.seedPlayers())
}

// Questions returns the whole question bank in stored order.
func (g *Gateway) Questions(ctx context.Context) ([]domain.Question, error) {
	var questions []domain.Question
	if err := g.load(ctx, QuestionsKey, &questions, g.seedQuestions()); err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	return questions, nil
}

// StageQuestions returns the questions of one stage in stored order.
func (g *Gateway) StageQuestions(ctx context.Context, stage int) ([]domain.Question, error) {
	all, err := g.Questions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Question, 0, 5)
	for _, q := range all {
		if q.StageID == stage {
			out = append(out, q)
		}
	}
	return out, nil
}

// ReplaceQuestions overwrites the whole question bank.
func (g *Gateway) ReplaceQuestions(ctx context.Context, questions []domain.Question) error {
	if questions == nil {
		questions = []domain.Question{}
	}
	return g.save(ctx, QuestionsKey, questions)
}

// load decodes key into out; when the key is missing the seed is persisted
// and decoded instead so the first read and later reads agree.
func (g *Gateway) load(ctx context.Context, key string, out any, seed any) error {
	raw, ok, err := g.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		raw, err = json.Marshal(seed)
		if err != nil {
			return fmt.Errorf("encode seed %s: %w", key, err)
		}
		if err := g.store.Set(ctx, key, raw); err != nil {
			return fmt.Errorf("write seed %s: %w", key, err)
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrCorruptCollection, key, err)
	}
	return nil
}

func (g *Gateway) save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := g.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
