package theme

import (
	"context"
	"eventdesk/internal/kv"
	"fmt"
	"log/slog"
)

// Key is where the preference is stored: "1" for dark, "0" for light.
const Key = "theme-dark"

// Preference is the dark/light display setting. It is read once by Load and
// written on every Toggle.
type Preference struct {
	logger *slog.Logger
	kv     kv.Store
	dark   bool
}

// Load reads the stored preference. Anything other than "1" means light.
func Load(ctx context.Context, logger *slog.Logger, kvs kv.Store) (*Preference, error) {
	raw, _, err := kvs.Get(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme preference: %w", err)
	}
	return &Preference{logger: logger, kv: kvs, dark: raw == "1"}, nil
}

// Dark reports whether the dark theme is selected.
func (p *Preference) Dark() bool { return p.dark }

// Toggle flips the preference, persists it and returns the new value. The
// preference is unchanged if the write fails.
func (p *Preference) Toggle(ctx context.Context) (bool, error) {
	next := !p.dark
	value := "0"
	if next {
		value = "1"
	}
	if err := p.kv.Set(ctx, Key, value); err != nil {
		return p.dark, fmt.Errorf("failed to save theme preference: %w", err)
	}
	p.dark = next
	p.logger.Debug("Theme toggled.", "dark", next)
	return next, nil
}
