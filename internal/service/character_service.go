package service

import (
	"context"
	"encoding/json"

	"agent-dashboard-be/internal/entity"
	"agent-dashboard-be/internal/registry"
	"agent-dashboard-be/internal/repository/contract"
	"agent-dashboard-be/pkg/agent"
	"agent-dashboard-be/pkg/eventbus"
	"agent-dashboard-be/pkg/events"
)

type ICharacterService interface {
	GetAll(ctx context.Context) ([]entity.Document, error)
	Load(ctx context.Context, key string) (entity.Document, error)
	Save(ctx context.Context, doc entity.Document) (entity.Document, error)
	Select(key string) (entity.Document, bool)
	Selected() (entity.Document, bool)
	GenerateField(ctx context.Context, req agent.GenFieldRequest) (json.RawMessage, error)
}

type characterService struct {
	repo     contract.ICharacterRepository
	registry *registry.Registry
	provider agent.CompletionProvider
	bus      *eventbus.Bus
}

func NewCharacterService(
	repo contract.ICharacterRepository,
	reg *registry.Registry,
	provider agent.CompletionProvider,
	bus *eventbus.Bus,
) ICharacterService {
	return &characterService{
		repo:     repo,
		registry: reg,
		provider: provider,
		bus:      bus,
	}
}

// GetAll resyncs the registry from disk and returns the collection. The store
// drops malformed files silently, so a partially corrupt directory still
// yields every valid profile.
func (s *characterService) GetAll(ctx context.Context) ([]entity.Document, error) {
	if err := s.registry.Refresh(ctx); err != nil {
		return nil, err
	}
	return s.registry.Documents(), nil
}

func (s *characterService) Load(ctx context.Context, key string) (entity.Document, error) {
	return s.repo.Load(ctx, key)
}

func (s *characterService) Save(ctx context.Context, doc entity.Document) (entity.Document, error) {
	saved, err := s.registry.Save(ctx, doc)
	if err != nil {
		return nil, err
	}
	_ = s.bus.Publish(events.NewDocumentEvent(events.TypeCharacterSaved, saved.PathName()))
	return saved, nil
}

func (s *characterService) Select(key string) (entity.Document, bool) {
	s.registry.Select(key)
	return s.registry.Selected()
}

func (s *characterService) Selected() (entity.Document, bool) {
	return s.registry.Selected()
}

func (s *characterService) GenerateField(ctx context.Context, req agent.GenFieldRequest) (json.RawMessage, error) {
	return s.provider.GenerateCharacterField(ctx, req)
}
