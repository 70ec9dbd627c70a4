// Package editor tracks the add/edit form: at most one event is being edited
// at a time, and submitting the form either updates that event or adds a new
// one.
package editor

import (
	"context"
	"eventdesk/internal/models"
	"eventdesk/internal/store"
)

// Records is the part of the event store a Session needs.
type Records interface {
	Get(id models.ID) (models.Event, bool)
	Add(ctx context.Context, d models.Draft) (models.Event, error)
	Update(ctx context.Context, id models.ID, d models.Draft) (models.Event, error)
}

// Session is the transient edit state. The zero value is not usable; call
// NewSession.
type Session struct {
	records Records
	editing models.ID
	active  bool
}

func NewSession(records Records) *Session {
	return &Session{records: records}
}

// Begin starts editing id and returns the form populated from the event. Any
// previous edit is abandoned.
func (s *Session) Begin(id models.ID) (models.Draft, error) {
	ev, ok := s.records.Get(id)
	if !ok {
		return models.Draft{}, &store.NotFoundError{ID: id}
	}
	s.editing = id
	s.active = true
	return models.DraftOf(ev), nil
}

// Editing returns the id being edited, if any.
func (s *Session) Editing() (models.ID, bool) {
	return s.editing, s.active
}

// Submit saves the form. While editing it updates the event and ends the
// session; otherwise it adds a new event. On error the session is kept so the
// user can correct the form.
func (s *Session) Submit(ctx context.Context, form models.Draft) (models.Event, error) {
	if !s.active {
		return s.records.Add(ctx, form)
	}
	ev, err := s.records.Update(ctx, s.editing, form)
	if err != nil {
		return models.Event{}, err
	}
	s.Cancel()
	return ev, nil
}

// Cancel ends the session without saving.
func (s *Session) Cancel() {
	s.editing = ""
	s.active = false
}
