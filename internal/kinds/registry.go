// Package kinds holds the static per-kind settings that drive the generic
// content tree component: display names, placeholder titles, limits.
package kinds

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"citrusreach/internal/domain/models"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Settings describes one kind's static configuration.
type Settings struct {
	Kind             models.Kind `yaml:"kind"`
	DisplayName      string      `yaml:"display_name"`
	PlaceholderTitle string      `yaml:"placeholder_title"`
	MaxTitleLength   int         `yaml:"max_title_length"`
}

type registryFile struct {
	Kinds []Settings `yaml:"kinds"`
}

// Registry provides lookup of per-kind settings loaded from embedded YAML.
type Registry struct {
	settings map[models.Kind]*Settings
	mu       sync.RWMutex
}

// NewRegistry creates a registry and loads the embedded kinds file. Every
// kind known to the model layer must be configured or startup fails.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/kinds.yaml")
	if err != nil {
		return nil, fmt.Errorf("read kinds config: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal kinds config: %w", err)
	}

	r := &Registry{settings: make(map[models.Kind]*Settings)}
	for i := range file.Kinds {
		s := &file.Kinds[i]
		if _, err := models.ParseKind(string(s.Kind)); err != nil {
			return nil, fmt.Errorf("kinds config: %w", err)
		}
		r.settings[s.Kind] = s
	}

	for _, kind := range models.Kinds() {
		if _, ok := r.settings[kind]; !ok {
			return nil, fmt.Errorf("kinds config missing entry for %q", kind)
		}
	}

	return r, nil
}

// Get returns the settings for a kind.
func (r *Registry) Get(kind models.Kind) (*Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.settings[kind]
	if !ok {
		return nil, fmt.Errorf("unknown kind: %s", kind)
	}
	return s, nil
}
