package implementation

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"agent-dashboard-be/internal/entity"
	"agent-dashboard-be/internal/pkg/logger"
	"agent-dashboard-be/internal/pkg/serverutils"
)

// documentStore is the shared file-backed persistence used by both document
// repositories. One directory per kind, filename = primary key, whole-file
// pretty-printed JSON overwrites. No locking: concurrent saves to the same key
// are last-write-wins.
type documentStore struct {
	baseDir  string
	validate func(entity.Document) error
	matches  func(filename string) bool
	logger   logger.ILogger
}

// resolve maps a caller-supplied key to an absolute path inside baseDir. Keys
// with ../ segments that would escape the base directory are rejected: the
// resolved path must equal the base or be a descendant of it.
func (s *documentStore) resolve(key string) (string, error) {
	if key == "" {
		return "", serverutils.NewInvalidInput("file name is required")
	}

	base, err := filepath.Abs(s.baseDir)
	if err != nil {
		return "", serverutils.NewIOFailure("failed to resolve storage directory", err)
	}

	target, err := filepath.Abs(filepath.Join(base, key))
	if err != nil {
		return "", serverutils.NewInvalidInput("invalid file path")
	}

	if target == base || !strings.HasPrefix(target, base+string(filepath.Separator)) {
		return "", serverutils.NewInvalidInput("invalid file path")
	}
	return target, nil
}

func (s *documentStore) list() ([]entity.Document, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, serverutils.NewIOFailure("failed to read storage directory", err)
	}

	documents := make([]entity.Document, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !s.matches(e.Name()) {
			continue
		}

		content, err := os.ReadFile(filepath.Join(s.baseDir, e.Name()))
		if err != nil {
			s.logger.Warn("DocumentStore", "Skipping unreadable file", map[string]interface{}{"file": e.Name(), "error": err.Error()})
			continue
		}

		var doc entity.Document
		if err := json.Unmarshal(content, &doc); err != nil {
			s.logger.Warn("DocumentStore", "Skipping unparsable file", map[string]interface{}{"file": e.Name(), "error": err.Error()})
			continue
		}
		if err := s.validate(doc); err != nil {
			s.logger.Warn("DocumentStore", "Skipping invalid document", map[string]interface{}{"file": e.Name(), "error": err.Error()})
			continue
		}

		doc[entity.PathNameKey] = e.Name()
		documents = append(documents, doc)
	}
	return documents, nil
}

func (s *documentStore) load(key string) (entity.Document, error) {
	target, err := s.resolve(key)
	if err != nil {
		// A bad key never reveals whether anything exists outside the base.
		return nil, serverutils.NewNotFound("document not found")
	}

	content, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, serverutils.NewNotFound("document not found")
		}
		return nil, serverutils.NewIOFailure("failed to read document", err)
	}

	var doc entity.Document
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, serverutils.NewIOFailure("failed to parse document", err)
	}
	if err := s.validate(doc); err != nil {
		return nil, serverutils.NewInvalidShape(err.Error())
	}

	doc[entity.PathNameKey] = key
	return doc, nil
}

func (s *documentStore) save(key string, doc entity.Document) (entity.Document, error) {
	body := doc.WithoutPathName()
	if err := s.validate(body); err != nil {
		return nil, serverutils.NewInvalidShape(err.Error())
	}

	target, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	content, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		return nil, serverutils.NewIOFailure("failed to encode document", err)
	}
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return nil, serverutils.NewIOFailure("failed to write document", err)
	}

	return s.load(key)
}

func (s *documentStore) create(key string, body entity.Document) (entity.Document, error) {
	target, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	content, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		return nil, serverutils.NewIOFailure("failed to encode document", err)
	}
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return nil, serverutils.NewIOFailure("failed to write document", err)
	}

	return s.load(key)
}
