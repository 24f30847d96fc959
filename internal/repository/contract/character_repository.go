package contract

import (
	"context"

	"agent-dashboard-be/internal/entity"
)

type ICharacterRepository interface {
	// List enumerates every valid character document, path_name stamped.
	// Malformed files are dropped, not errors.
	List(ctx context.Context) ([]entity.Document, error)
	Load(ctx context.Context, key string) (entity.Document, error)
	// Save validates, overwrites the whole file, and returns the document
	// re-read from disk as a written-what-we-meant check.
	Save(ctx context.Context, key string, doc entity.Document) (entity.Document, error)
}
