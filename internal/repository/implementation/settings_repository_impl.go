package implementation

import (
	"context"
	"regexp"

	"agent-dashboard-be/internal/entity"
	"agent-dashboard-be/internal/pkg/logger"
	"agent-dashboard-be/internal/repository/contract"
)

// Settings files live directly in the root storage directory, next to the
// character folder: config.json or config.<label>.json.
var settingsFilePattern = regexp.MustCompile(`^config\..+\.json$`)

type settingsRepository struct {
	store documentStore
}

func NewSettingsRepository(settingsDir string, log logger.ILogger) contract.ISettingsRepository {
	return &settingsRepository{
		store: documentStore{
			baseDir:  settingsDir,
			validate: entity.ValidateSettingsShape,
			matches: func(filename string) bool {
				return filename == "config.json" || settingsFilePattern.MatchString(filename)
			},
			logger: log,
		},
	}
}

func (r *settingsRepository) List(ctx context.Context) ([]entity.Document, error) {
	return r.store.list()
}

func (r *settingsRepository) Load(ctx context.Context, key string) (entity.Document, error) {
	return r.store.load(key)
}

func (r *settingsRepository) Save(ctx context.Context, key string, doc entity.Document) (entity.Document, error) {
	return r.store.save(key, doc)
}

func (r *settingsRepository) Create(ctx context.Context, key string) (entity.Document, error) {
	return r.store.create(key, entity.DefaultSettings())
}
