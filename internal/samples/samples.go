// Package samples provides the demo events offered to new users.
package samples

import (
	_ "embed"
	"eventdesk/internal/models"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed samples.yaml
var builtin []byte

type sampleEvent struct {
	Title       string `yaml:"title"`
	Date        string `yaml:"date"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
}

// Load returns the built-in sample events.
func Load() ([]models.Draft, error) {
	return Parse(builtin)
}

// Parse decodes a YAML list of events.
func Parse(data []byte) ([]models.Draft, error) {
	var raw []sampleEvent
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse sample events: %w", err)
	}
	drafts := make([]models.Draft, 0, len(raw))
	for _, r := range raw {
		drafts = append(drafts, models.Draft{
			Title:       r.Title,
			Date:        r.Date,
			Category:    r.Category,
			Description: r.Description,
		})
	}
	return drafts, nil
}
