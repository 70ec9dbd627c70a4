package syncer

import (
	"context"
	"eventdesk/internal/models"
	"log/slog"
)

// Target receives published events.
type Target interface {
	PutEvent(ctx context.Context, event models.Event) error
}

// Publisher pushes the local list to a remote calendar. It only writes; remote
// changes are never read back.
type Publisher struct {
	logger *slog.Logger
	target Target
	dryRun bool
}

func NewPublisher(logger *slog.Logger, target Target, dryRun bool) *Publisher {
	return &Publisher{logger: logger, target: target, dryRun: dryRun}
}

// Publish uploads every event and returns how many succeeded. A failing event
// is logged and the rest are still attempted.
func (p *Publisher) Publish(ctx context.Context, events []models.Event) int {
	p.logger.Info("Starting publish.", "count", len(events))

	published := 0
	for _, ev := range events {
		if _, ok := ev.ParsedDate(); !ok {
			p.logger.Warn("Event has no valid date, skipping.", "title", ev.Title, "date", ev.Date)
			continue
		}
		if p.dryRun {
			p.logger.Info("[DRY RUN] Would publish event", "title", ev.Title, "date", ev.Date)
			published++
			continue
		}
		if err := p.target.PutEvent(ctx, ev); err != nil {
			p.logger.Error("Failed to publish event", "title", ev.Title, "error", err)
			continue
		}
		published++
	}

	p.logger.Info("Publish finished.", "published", published)
	return published
}
