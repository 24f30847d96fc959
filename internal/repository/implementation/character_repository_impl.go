package implementation

import (
	"context"
	"strings"

	"agent-dashboard-be/internal/entity"
	"agent-dashboard-be/internal/pkg/logger"
	"agent-dashboard-be/internal/repository/contract"
)

type characterRepository struct {
	store documentStore
}

func NewCharacterRepository(charactersDir string, log logger.ILogger) contract.ICharacterRepository {
	return &characterRepository{
		store: documentStore{
			baseDir:  charactersDir,
			validate: entity.ValidateCharacterShape,
			matches: func(filename string) bool {
				return strings.HasSuffix(filename, ".json")
			},
			logger: log,
		},
	}
}

func (r *characterRepository) List(ctx context.Context) ([]entity.Document, error) {
	return r.store.list()
}

func (r *characterRepository) Load(ctx context.Context, key string) (entity.Document, error) {
	return r.store.load(key)
}

func (r *characterRepository) Save(ctx context.Context, key string, doc entity.Document) (entity.Document, error) {
	return r.store.save(key, doc)
}
