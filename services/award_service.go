package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gocongress/prizes-sub001/models"
	"github.com/gocongress/prizes-sub001/repositories"
	"github.com/google/uuid"
)

type AwardService interface {
	Create(ctx context.Context, input CreateAwardInput) (*models.Award, error)
	GetByID(ctx context.Context, id int) (*models.Award, error)
	ListByEvent(ctx context.Context, eventID int) ([]*models.Award, error)
	// ListByPlayer — портальная выборка "мои награды".
	ListByPlayer(ctx context.Context, playerID int) ([]*models.Award, error)
	Delete(ctx context.Context, id int) error
}

type CreateAwardInput struct {
	PrizeID int `json:"prize_id"`
	EventID int `json:"event_id"`
	// Value по умолчанию наследуется от приза.
	Value int `json:"value,omitempty"`
	// WithRedeemCode — выпустить код погашения для цифровых призов.
	WithRedeemCode bool `json:"with_redeem_code,omitempty"`
}

type awardService struct {
	awardRepo repositories.AwardRepository
	prizeRepo repositories.PrizeRepository
	eventRepo repositories.EventRepository
}

func NewAwardService(
	awardRepo repositories.AwardRepository,
	prizeRepo repositories.PrizeRepository,
	eventRepo repositories.EventRepository,
) AwardService {
	return &awardService{
		awardRepo: awardRepo,
		prizeRepo: prizeRepo,
		eventRepo: eventRepo,
	}
}

func (s *awardService) Create(ctx context.Context, input CreateAwardInput) (*models.Award, error) {
	prize, err := s.prizeRepo.GetByID(ctx, nil, input.PrizeID)
	if err != nil {
		return nil, mapPrizeRepoError(err)
	}
	if _, err := s.eventRepo.GetByID(ctx, nil, input.EventID); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	award := &models.Award{
		PrizeID: prize.ID,
		EventID: input.EventID,
		Value:   input.Value,
	}
	if award.Value == 0 {
		award.Value = prize.Value
	}
	if input.WithRedeemCode {
		code := uuid.New().String()
		award.RedeemCode = &code
	}

	if err := s.awardRepo.Create(ctx, nil, award); err != nil {
		return nil, fmt.Errorf("failed to create award: %w", err)
	}
	award.Prize = prize
	return award, nil
}

func (s *awardService) GetByID(ctx context.Context, id int) (*models.Award, error) {
	award, err := s.awardRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapAwardRepoError(err)
	}
	return award, nil
}

func (s *awardService) ListByEvent(ctx context.Context, eventID int) ([]*models.Award, error) {
	return s.awardRepo.ListByEvent(ctx, nil, eventID)
}

func (s *awardService) ListByPlayer(ctx context.Context, playerID int) ([]*models.Award, error) {
	return s.awardRepo.ListByPlayer(ctx, nil, playerID)
}

func (s *awardService) Delete(ctx context.Context, id int) error {
	return mapAwardRepoError(s.awardRepo.Delete(ctx, nil, id))
}

func mapAwardRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrAwardNotFound):
		return ErrAwardNotFound
	case errors.Is(err, repositories.ErrAwardPlayerInvalid):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrAwardPrizeInvalid):
		return ErrPrizeNotFound
	default:
		return err
	}
}
