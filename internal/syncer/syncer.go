package syncer

import (
	"context"
	"encoding/json"
	"eventdesk/internal/kv"
	"eventdesk/internal/models"
	"fmt"
	"log/slog"
)

// stateKey holds the import state in the key-value store.
const stateKey = "google-imports"

// ImportState keeps track of which remote events have been imported.
// The key is the remote event ID, and the value is the local event ID.
type ImportState map[string]models.ID

// Source lists upcoming events of one remote calendar.
type Source interface {
	UpcomingEvents(ctx context.Context, calendarID string, days int) ([]models.RemoteEvent, error)
}

// Batcher appends events to the local list.
type Batcher interface {
	AddBatch(ctx context.Context, drafts []models.Draft) ([]models.Event, error)
}

// Importer copies remote events into the local list, once each.
type Importer struct {
	logger      *slog.Logger
	sources     []Source
	calendarIDs []string
	events      Batcher
	kv          kv.Store
	state       ImportState
	dryRun      bool
}

// NewImporter creates a new Importer, restoring the import state from kvs.
func NewImporter(ctx context.Context, logger *slog.Logger, sources []Source, calendarIDs []string, events Batcher, kvs kv.Store, dryRun bool) (*Importer, error) {
	state, err := loadState(ctx, kvs)
	if err != nil {
		return nil, fmt.Errorf("failed to load import state: %w", err)
	}
	if state == nil {
		logger.Info("No import state found, starting fresh.", "key", stateKey)
		state = make(ImportState)
	}

	return &Importer{
		logger:      logger,
		sources:     sources,
		calendarIDs: calendarIDs,
		events:      events,
		kv:          kvs,
		state:       state,
		dryRun:      dryRun,
	}, nil
}

// Import fetches the next days of events from every source and calendar and
// appends the ones not imported before. It returns the number of new events.
func (im *Importer) Import(ctx context.Context, days int) (int, error) {
	im.logger.Info("Starting import.", "days", days)

	remote := im.fetchAll(ctx, days)
	im.logger.Info("Fetched remote events.", "count", len(remote))

	var fresh []models.RemoteEvent
	seen := make(map[string]bool)
	for _, ev := range remote {
		if _, exists := im.state[ev.SourceID]; exists || seen[ev.SourceID] {
			im.logger.Debug("Event already imported, skipping.", "title", ev.Draft.Title, "id", ev.SourceID)
			continue
		}
		if d := ev.Draft.Normalize(); d.Title == "" || d.Date == "" {
			im.logger.Warn("Remote event has no title or date, skipping.", "id", ev.SourceID, "source", ev.Source)
			continue
		}
		seen[ev.SourceID] = true
		fresh = append(fresh, ev)
	}

	if len(fresh) == 0 {
		im.logger.Info("Import finished, nothing new.")
		return 0, nil
	}

	if im.dryRun {
		for _, ev := range fresh {
			im.logger.Info("[DRY RUN] Would import event", "title", ev.Draft.Title, "date", ev.Draft.Date, "source", ev.Source)
		}
		return len(fresh), nil
	}

	drafts := make([]models.Draft, 0, len(fresh))
	for _, ev := range fresh {
		drafts = append(drafts, ev.Draft)
	}
	added, err := im.events.AddBatch(ctx, drafts)
	if err != nil {
		return 0, fmt.Errorf("failed to add imported events: %w", err)
	}

	for i, ev := range added {
		im.state[fresh[i].SourceID] = ev.ID
	}
	if err := im.saveState(ctx); err != nil {
		// The events are in; a lost state only risks duplicates next run.
		im.logger.Error("Failed to save import state", "error", err)
	}

	im.logger.Info("Import finished.", "imported", len(added))
	return len(added), nil
}

// fetchAll retrieves events from all configured calendars. A failing
// calendar is logged and skipped.
func (im *Importer) fetchAll(ctx context.Context, days int) []models.RemoteEvent {
	var all []models.RemoteEvent
	for _, src := range im.sources {
		for _, calID := range im.calendarIDs {
			events, err := src.UpcomingEvents(ctx, calID, days)
			if err != nil {
				im.logger.Error("Could not fetch events for a calendar", "calendarID", calID, "error", err)
				continue
			}
			all = append(all, events...)
		}
	}
	return all
}

// loadState reads the import state. It returns nil when none was saved or
// the saved value is unreadable.
func loadState(ctx context.Context, kvs kv.Store) (ImportState, error) {
	raw, ok, err := kvs.Get(ctx, stateKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var state ImportState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, nil
	}
	return state, nil
}

func (im *Importer) saveState(ctx context.Context) error {
	data, err := json.Marshal(im.state)
	if err != nil {
		return fmt.Errorf("failed to marshal import state: %w", err)
	}
	return im.kv.Set(ctx, stateKey, string(data))
}
