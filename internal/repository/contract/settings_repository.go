package contract

import (
	"context"

	"agent-dashboard-be/internal/entity"
)

type ISettingsRepository interface {
	List(ctx context.Context) ([]entity.Document, error)
	Load(ctx context.Context, key string) (entity.Document, error)
	Save(ctx context.Context, key string, doc entity.Document) (entity.Document, error)
	// Create writes a default-shape settings document at key. Characters have
	// no equivalent: the dashboard only ever creates settings files.
	Create(ctx context.Context, key string) (entity.Document, error)
}
