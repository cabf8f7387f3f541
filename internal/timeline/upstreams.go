// Package timeline serves the timeline shell page: a static HTML scaffold
// with the client bootstrap configuration injected inline.
package timeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mxkvch/valentine/internal/config"
)

// Upstreams is the optional YAML override for the client-facing API routes.
// Empty fields keep the env-derived value.
type Upstreams struct {
	APIBaseURL           string `yaml:"apiBaseUrl"`
	CardsListPath        string `yaml:"cardsListPath"`
	CardByIDPathTemplate string `yaml:"cardByIdPathTemplate"`
	ImagesPath           string `yaml:"imagesPath"`
	TimerPath            string `yaml:"timerPath"`
}

// LoadUpstreams reads and parses an upstream-routes file.
func LoadUpstreams(filePath string) (Upstreams, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Upstreams{}, fmt.Errorf("failed to read upstreams file: %w", err)
	}

	var upstreams Upstreams
	if err := yaml.Unmarshal(data, &upstreams); err != nil {
		return Upstreams{}, fmt.Errorf("failed to parse upstreams yaml: %w", err)
	}

	return upstreams, nil
}

// ApplyTo overrides the route fields of a timeline config in place.
func (u Upstreams) ApplyTo(cfg *config.Timeline) {
	if u.APIBaseURL != "" {
		cfg.APIBaseURL = u.APIBaseURL
	}
	if u.CardsListPath != "" {
		cfg.CardsListPath = u.CardsListPath
	}
	if u.CardByIDPathTemplate != "" {
		cfg.CardByIDPathTemplate = u.CardByIDPathTemplate
	}
	if u.ImagesPath != "" {
		cfg.ImagesPath = u.ImagesPath
	}
	if u.TimerPath != "" {
		cfg.TimerPath = u.TimerPath
	}
}
