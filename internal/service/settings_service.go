package service

import (
	"context"

	"agent-dashboard-be/internal/entity"
	"agent-dashboard-be/internal/registry"
	"agent-dashboard-be/internal/repository/contract"
	"agent-dashboard-be/pkg/eventbus"
	"agent-dashboard-be/pkg/events"
)

type ISettingsService interface {
	GetAll(ctx context.Context) ([]entity.Document, error)
	Save(ctx context.Context, doc entity.Document) (entity.Document, error)
	Create(ctx context.Context, name string) (entity.Document, error)
	Select(key string) (entity.Document, bool)
	Selected() (entity.Document, bool)
}

type settingsService struct {
	repo     contract.ISettingsRepository
	registry *registry.Registry
	bus      *eventbus.Bus
}

func NewSettingsService(
	repo contract.ISettingsRepository,
	reg *registry.Registry,
	bus *eventbus.Bus,
) ISettingsService {
	return &settingsService{
		repo:     repo,
		registry: reg,
		bus:      bus,
	}
}

func (s *settingsService) GetAll(ctx context.Context) ([]entity.Document, error) {
	if err := s.registry.Refresh(ctx); err != nil {
		return nil, err
	}
	return s.registry.Documents(), nil
}

func (s *settingsService) Save(ctx context.Context, doc entity.Document) (entity.Document, error) {
	saved, err := s.registry.Save(ctx, doc)
	if err != nil {
		return nil, err
	}
	_ = s.bus.Publish(events.NewDocumentEvent(events.TypeSettingsSaved, saved.PathName()))
	return saved, nil
}

// Create writes a default-shape settings file and resyncs regardless of the
// outcome, so a half-failed create still reconciles with on-disk truth.
func (s *settingsService) Create(ctx context.Context, name string) (entity.Document, error) {
	created, err := s.repo.Create(ctx, name)
	refreshErr := s.registry.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	if refreshErr != nil {
		return nil, refreshErr
	}
	_ = s.bus.Publish(events.NewDocumentEvent(events.TypeSettingsCreated, created.PathName()))
	return created, nil
}

func (s *settingsService) Select(key string) (entity.Document, bool) {
	s.registry.Select(key)
	return s.registry.Selected()
}

func (s *settingsService) Selected() (entity.Document, bool) {
	return s.registry.Selected()
}
