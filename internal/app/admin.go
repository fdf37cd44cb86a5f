package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"clock-tutor-service/internal/domain"
)

// AdminService backs the guardian screen: roster management and question
// bank import/export.
type AdminService struct {
	gateway *Gateway
	players *PlayerFactory
}

func NewAdminService(gateway *Gateway, players *PlayerFactory) *AdminService {
	return &AdminService{gateway: gateway, players: players}
}

func (s *AdminService) ListPlayers(ctx context.Context) ([]domain.Player, error) {
	return s.gateway.Players(ctx)
}

// Leaderboard returns the n players with the most stars.
func (s *AdminService) Leaderboard(ctx context.Context, n int) ([]domain.Player, error) {
	players, err := s.gateway.Players(ctx)
	if err != nil {
		return nil, err
	}
	return topPlayers(players, n), nil
}

// AddPlayer creates and stores a new profile.
func (s *AdminService) AddPlayer(ctx context.Context, name string) (domain.Player, error) {
	player, err := s.players.New(name)
	if err != nil {
		return domain.Player{}, err
	}
	if err := s.gateway.SavePlayer(ctx, player); err != nil {
		return domain.Player{}, err
	}
	return player, nil
}

// DeletePlayer removes one profile once the caller has confirmed.
func (s *AdminService) DeletePlayer(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return domain.ErrConfirmationRequired
	}
	return s.gateway.DeletePlayer(ctx, id)
}

// ClearPlayers removes every profile once the caller has confirmed.
func (s *AdminService) ClearPlayers(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return domain.ErrConfirmationRequired
	}
	return s.gateway.ClearPlayers(ctx)
}

// ResetPlayers restores the seed roster once the caller has confirmed.
func (s *AdminService) ResetPlayers(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return domain.ErrConfirmationRequired
	}
	return s.gateway.ResetPlayers(ctx)
}

func (s *AdminService) Questions(ctx context.Context) ([]domain.Question, error) {
	return s.gateway.Questions(ctx)
}

// ExportQuestions serializes the whole question bank.
func (s *AdminService) ExportQuestions(ctx context.Context) ([]byte, error) {
	questions, err := s.gateway.Questions(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(questions, "", "  ")
}

// ImportQuestions replaces the question bank with the document read from r.
// Nothing is written unless the whole document decodes and validates.
func (s *AdminService) ImportQuestions(ctx context.Context, r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrMalformedImport, err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return 0, fmt.Errorf("%w: expected a JSON array", domain.ErrMalformedImport)
	}
	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrMalformedImport, err)
	}
	if err := domain.ValidateQuestions(questions); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrMalformedImport, err)
	}
	if err := s.gateway.ReplaceQuestions(ctx, questions); err != nil {
		return 0, err
	}
	return len(questions), nil
}
