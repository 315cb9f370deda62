package services

import (
	"context"
	"errors"
	"strings"

	"github.com/gocongress/prizes-sub001/models"
	"github.com/gocongress/prizes-sub001/repositories"
)

type PrizeService interface {
	Create(ctx context.Context, prize *models.Prize) error
	GetByID(ctx context.Context, id int) (*models.Prize, error)
	List(ctx context.Context) ([]*models.Prize, error)
	Update(ctx context.Context, prize *models.Prize) error
	Delete(ctx context.Context, id int) error
}

type prizeService struct {
	prizeRepo repositories.PrizeRepository
}

func NewPrizeService(prizeRepo repositories.PrizeRepository) PrizeService {
	return &prizeService{prizeRepo: prizeRepo}
}

func (s *prizeService) Create(ctx context.Context, prize *models.Prize) error {
	if err := validatePrize(prize); err != nil {
		return err
	}
	return mapPrizeRepoError(s.prizeRepo.Create(ctx, nil, prize))
}

func (s *prizeService) GetByID(ctx context.Context, id int) (*models.Prize, error) {
	prize, err := s.prizeRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapPrizeRepoError(err)
	}
	return prize, nil
}

func (s *prizeService) List(ctx context.Context) ([]*models.Prize, error) {
	return s.prizeRepo.List(ctx, nil)
}

func (s *prizeService) Update(ctx context.Context, prize *models.Prize) error {
	if err := validatePrize(prize); err != nil {
		return err
	}
	return mapPrizeRepoError(s.prizeRepo.Update(ctx, nil, prize))
}

func (s *prizeService) Delete(ctx context.Context, id int) error {
	return mapPrizeRepoError(s.prizeRepo.Delete(ctx, nil, id))
}

func validatePrize(prize *models.Prize) error {
	if strings.TrimSpace(prize.Name) == "" {
		return ErrPrizeNameRequired
	}
	if prize.Quantity <= 0 {
		return ErrPrizeInvalidQuantity
	}
	return nil
}

func mapPrizeRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrPrizeNotFound):
		return ErrPrizeNotFound
	case errors.Is(err, repositories.ErrPrizeNameConflict):
		return ErrPrizeNameConflict
	case errors.Is(err, repositories.ErrPrizeInUse):
		return ErrPrizeInUse
	default:
		return err
	}
}
