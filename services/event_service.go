package services

import (
	"context"
	"errors"
	"strings"

	"github.com/gocongress/prizes-sub001/models"
	"github.com/gocongress/prizes-sub001/repositories"
)

type EventService interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int) (*models.Event, error)
	List(ctx context.Context) ([]*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id int) error
}

type eventService struct {
	eventRepo repositories.EventRepository
}

func NewEventService(eventRepo repositories.EventRepository) EventService {
	return &eventService{eventRepo: eventRepo}
}

func (s *eventService) Create(ctx context.Context, event *models.Event) error {
	if err := validateEvent(event); err != nil {
		return err
	}
	return s.eventRepo.Create(ctx, nil, event)
}

func (s *eventService) GetByID(ctx context.Context, id int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context) ([]*models.Event, error) {
	return s.eventRepo.List(ctx, nil)
}

func (s *eventService) Update(ctx context.Context, event *models.Event) error {
	if err := validateEvent(event); err != nil {
		return err
	}
	err := s.eventRepo.Update(ctx, nil, event)
	if errors.Is(err, repositories.ErrEventNotFound) {
		return ErrEventNotFound
	}
	return err
}

func (s *eventService) Delete(ctx context.Context, id int) error {
	err := s.eventRepo.Delete(ctx, nil, id)
	if errors.Is(err, repositories.ErrEventNotFound) {
		return ErrEventNotFound
	}
	return err
}

func validateEvent(event *models.Event) error {
	if strings.TrimSpace(event.Name) == "" {
		return ErrEventNameRequired
	}
	if !event.StartDate.Before(event.EndDate) {
		return ErrEventInvalidDateRange
	}
	return nil
}
