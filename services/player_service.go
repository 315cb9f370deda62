package services

import (
	"context"
	"errors"

	"github.com/gocongress/prizes-sub001/models"
	"github.com/gocongress/prizes-sub001/repositories"
)

// Ранги игроков в нотации AGA: от 30 кю (-30) до 9 дана (9), нуля нет.
const (
	minPlayerRank = -30
	maxPlayerRank = 9
)

type PlayerService interface {
	List(ctx context.Context) ([]*models.Player, error)
	GetByID(ctx context.Context, id int) (*models.Player, error)
	GetByUserID(ctx context.Context, userID int) (*models.Player, error)
	// CorrectRank — админская корректировка ранга; остальные поля игрока
	// неизменяемы после внешней регистрации.
	CorrectRank(ctx context.Context, id int, rank int) (*models.Player, error)
}

type playerService struct {
	playerRepo repositories.PlayerRepository
}

func NewPlayerService(playerRepo repositories.PlayerRepository) PlayerService {
	return &playerService{playerRepo: playerRepo}
}

func (s *playerService) List(ctx context.Context) ([]*models.Player, error) {
	return s.playerRepo.List(ctx, nil)
}

func (s *playerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapPlayerRepoError(err)
	}
	return player, nil
}

func (s *playerService) GetByUserID(ctx context.Context, userID int) (*models.Player, error) {
	player, err := s.playerRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrNoLinkedPlayer
		}
		return nil, err
	}
	return player, nil
}

func (s *playerService) CorrectRank(ctx context.Context, id int, rank int) (*models.Player, error) {
	if rank < minPlayerRank || rank > maxPlayerRank || rank == 0 {
		return nil, ErrPlayerRankInvalid
	}
	if err := s.playerRepo.UpdateRank(ctx, nil, id, rank); err != nil {
		return nil, mapPlayerRepoError(err)
	}
	player, err := s.playerRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapPlayerRepoError(err)
	}
	return player, nil
}
