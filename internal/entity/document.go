package entity

import "fmt"

// PathNameKey is the field carrying the document's storage key. It is injected
// by the repository from the filename and is never written into the file body.
const PathNameKey = "path_name"

// Document is a schema-loose JSON document. Only the required fields of each
// kind are type-checked; everything else passes through unchanged.
type Document map[string]any

// PathName returns the injected storage key, or "" if the document has none.
func (d Document) PathName() string {
	name, _ := d[PathNameKey].(string)
	return name
}

// WithoutPathName returns a shallow copy safe to persist to disk.
func (d Document) WithoutPathName() Document {
	body := make(Document, len(d))
	for k, v := range d {
		if k == PathNameKey {
			continue
		}
		body[k] = v
	}
	return body
}

// Clone returns a shallow copy of the document.
func (d Document) Clone() Document {
	cp := make(Document, len(d))
	for k, v := range d {
		cp[k] = v
	}
	return cp
}

var characterStringFields = []string{"alias", "bio"}

var characterArrayFields = []string{"adjectives", "lore", "styles", "topics", "inspirations"}

// ValidateCharacterShape checks the required character fields. Array element
// types are deliberately unchecked.
func ValidateCharacterShape(doc Document) error {
	for _, field := range characterStringFields {
		if _, ok := doc[field].(string); !ok {
			return fmt.Errorf("field %q must be a string", field)
		}
	}
	for _, field := range characterArrayFields {
		if _, ok := doc[field].([]any); !ok {
			return fmt.Errorf("field %q must be an array", field)
		}
	}
	return nil
}

var settingsStringFields = []string{"completion_provider", "embedding_provider", "db"}

// ValidateSettingsShape checks the required settings fields.
func ValidateSettingsShape(doc Document) error {
	if _, ok := doc["client_configs"].(map[string]any); !ok {
		return fmt.Errorf("field %q must be an object", "client_configs")
	}
	if _, ok := doc["enabled_clients"].([]any); !ok {
		return fmt.Errorf("field %q must be an array", "enabled_clients")
	}
	for _, field := range settingsStringFields {
		if _, ok := doc[field].(string); !ok {
			return fmt.Errorf("field %q must be a string", field)
		}
	}
	return nil
}

// DefaultSettings is the document body written by the settings create endpoint.
func DefaultSettings() Document {
	return Document{
		"client_configs":      map[string]any{},
		"enabled_clients":     []any{},
		"completion_provider": "",
		"embedding_provider":  "",
		"db":                  "",
	}
}
