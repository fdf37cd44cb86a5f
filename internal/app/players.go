package app

import (
	"fmt"
	"sort"
	"strings"

	"clock-tutor-service/internal/domain"
	"github.com/google/uuid"
)

// DefaultAvatarURL is the placeholder avatar; %s receives the player id.
const DefaultAvatarURL = "https://picsum.photos/seed/%s/100/100"

// PlayerFactory creates new profiles with generated ids and placeholder avatars.
type PlayerFactory struct {
	newID     func() string
	avatarURL string
}

func NewPlayerFactory() *PlayerFactory {
	return &PlayerFactory{newID: uuid.NewString, avatarURL: DefaultAvatarURL}
}

// NewPlayerFactoryWithIDs is test-only for deterministic ids.
func NewPlayerFactoryWithIDs(newID func() string) *PlayerFactory {
	return &PlayerFactory{newID: newID, avatarURL: DefaultAvatarURL}
}

// New builds a fresh player with no stars. Blank names are rejected.
func (f *PlayerFactory) New(name string) (domain.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Player{}, domain.ErrEmptyName
	}
	id := f.newID()
	return domain.Player{
		ID:              id,
		Name:            name,
		Avatar:          fmt.Sprintf(f.avatarURL, id),
		Stars:           0,
		CompletedStages: []string{},
	}, nil
}

// topPlayers orders by stars, highest first, keeping roster order on ties.
func topPlayers(players []domain.Player, n int) []domain.Player {
	ranked := append([]domain.Player(nil), players...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Stars > ranked[j].Stars
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	if ranked == nil {
		ranked = []domain.Player{}
	}
	return ranked
}
