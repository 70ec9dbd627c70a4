// Package store holds the authoritative event list and mirrors it to a
// key-value store after every change.
package store

import (
	"context"
	"encoding/json"
	"eventdesk/internal/kv"
	"eventdesk/internal/models"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// EventsKey is the key the serialized list is stored under.
const EventsKey = "events"

// ChangeKind names the mutation that produced a Change.
type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeUpdated ChangeKind = "updated"
	ChangeRemoved ChangeKind = "removed"
	ChangeCleared ChangeKind = "cleared"
)

// Change is delivered to subscribers after a mutation has been persisted.
type Change struct {
	Kind ChangeKind
	IDs  []models.ID
}

// Store owns the ordered event list. Storage order is insertion order; it is
// never reordered for presentation.
type Store struct {
	mu        sync.Mutex
	logger    *slog.Logger
	kv        kv.Store
	events    []models.Event
	newID     func() models.ID
	listeners []func(Change)
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(gen func() models.ID) Option {
	return func(s *Store) { s.newID = gen }
}

// New restores the list from kvs. A missing key or content that does not
// decode starts an empty list; only a failing kvs.Get is returned as an error.
func New(ctx context.Context, logger *slog.Logger, kvs kv.Store, opts ...Option) (*Store, error) {
	s := &Store{
		logger: logger,
		kv:     kvs,
		newID:  func() models.ID { return models.ID(uuid.NewString()) },
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, ok, err := kvs.Get(ctx, EventsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	if !ok || raw == "" {
		logger.Info("No stored events found, starting fresh.")
		return s, nil
	}

	var events []models.Event
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		derr := &DeserializationError{Key: EventsKey, Err: err}
		logger.Warn("Stored events are corrupt, starting with an empty list.", "error", derr)
		return s, nil
	}
	s.events = events
	if n := s.reassignDuplicateIDs(); n > 0 {
		logger.Warn("Stored events share ids, assigned fresh ones.", "count", n)
		if err := s.commit(ctx, s.events); err != nil {
			logger.Warn("Could not save reassigned ids.", "error", err)
		}
	}
	logger.Info("Loaded events from storage.", "count", len(s.events))
	return s, nil
}

// reassignDuplicateIDs gives every event whose id is empty or already used by
// an earlier event a fresh id, and returns how many were changed.
func (s *Store) reassignDuplicateIDs() int {
	seen := make(map[models.ID]bool, len(s.events))
	changed := 0
	for i, ev := range s.events {
		if ev.ID != "" && !seen[ev.ID] {
			seen[ev.ID] = true
			continue
		}
		fresh := s.buildAmong(s.events, models.DraftOf(ev))
		s.events[i].ID = fresh.ID
		seen[fresh.ID] = true
		changed++
	}
	return changed
}

// Subscribe registers fn to be called after every persisted mutation.
func (s *Store) Subscribe(fn func(Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// All returns a copy of the list in insertion order.
func (s *Store) All() []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.events)
}

// Len returns the number of stored events.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// Get returns the event with the given id.
func (s *Store) Get(id models.ID) (models.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.events[i], true
	}
	return models.Event{}, false
}

// Add validates d, assigns a fresh id and appends the event.
func (s *Store) Add(ctx context.Context, d models.Draft) (models.Event, error) {
	d = d.Normalize()
	if err := validate(d); err != nil {
		return models.Event{}, err
	}

	s.mu.Lock()
	ev := s.build(d)
	next := append(slices.Clone(s.events), ev)
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return models.Event{}, err
	}
	s.mu.Unlock()

	s.logger.Debug("Event added.", "id", ev.ID, "title", ev.Title)
	s.notify(Change{Kind: ChangeAdded, IDs: []models.ID{ev.ID}})
	return ev, nil
}

// AddBatch appends every draft with its own fresh id and persists once.
// Drafts are trusted and not validated.
func (s *Store) AddBatch(ctx context.Context, drafts []models.Draft) ([]models.Event, error) {
	if len(drafts) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	next := slices.Clone(s.events)
	added := make([]models.Event, 0, len(drafts))
	ids := make([]models.ID, 0, len(drafts))
	for _, d := range drafts {
		ev := s.buildAmong(next, d.Normalize())
		next = append(next, ev)
		added = append(added, ev)
		ids = append(ids, ev.ID)
	}
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	s.logger.Debug("Events added.", "count", len(added))
	s.notify(Change{Kind: ChangeAdded, IDs: ids})
	return added, nil
}

// Update replaces the editable fields of the event with the given id.
func (s *Store) Update(ctx context.Context, id models.ID, d models.Draft) (models.Event, error) {
	d = d.Normalize()
	if err := validate(d); err != nil {
		return models.Event{}, err
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return models.Event{}, &NotFoundError{ID: id}
	}
	ev := models.Event{
		ID:          id,
		Title:       d.Title,
		Date:        d.Date,
		Category:    d.Category,
		Description: d.Description,
	}
	next := slices.Clone(s.events)
	next[i] = ev
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return models.Event{}, err
	}
	s.mu.Unlock()

	s.logger.Debug("Event updated.", "id", id)
	s.notify(Change{Kind: ChangeUpdated, IDs: []models.ID{id}})
	return ev, nil
}

// Remove deletes the event with the given id. Unknown ids are ignored.
func (s *Store) Remove(ctx context.Context, id models.ID) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		s.logger.Debug("Remove of unknown event ignored.", "id", id)
		return nil
	}
	next := slices.Delete(slices.Clone(s.events), i, i+1)
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.logger.Debug("Event removed.", "id", id)
	s.notify(Change{Kind: ChangeRemoved, IDs: []models.ID{id}})
	return nil
}

// Clear removes every event.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	if err := s.commit(ctx, []models.Event{}); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.logger.Debug("Events cleared.")
	s.notify(Change{Kind: ChangeCleared})
	return nil
}

// commit persists next and only then makes it the current list, so a failed
// write leaves memory matching storage. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next []models.Event) error {
	if next == nil {
		next = []models.Event{}
	}
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to marshal events: %w", err)
	}
	if err := s.kv.Set(ctx, EventsKey, string(data)); err != nil {
		return fmt.Errorf("failed to save events: %w", err)
	}
	s.events = next
	return nil
}

func (s *Store) build(d models.Draft) models.Event {
	return s.buildAmong(s.events, d)
}

// buildAmong creates an event whose id is not used by any of existing.
func (s *Store) buildAmong(existing []models.Event, d models.Draft) models.Event {
	id := s.newID()
	for slices.ContainsFunc(existing, func(e models.Event) bool { return e.ID == id }) {
		id = s.newID()
	}
	return models.Event{
		ID:          id,
		Title:       d.Title,
		Date:        d.Date,
		Category:    d.Category,
		Description: d.Description,
	}
}

func (s *Store) indexOf(id models.ID) int {
	return slices.IndexFunc(s.events, func(e models.Event) bool { return e.ID == id })
}

func (s *Store) notify(c Change) {
	s.mu.Lock()
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(c)
	}
}
