package main

import (
	"bytes"
	"errors"
	"eventdesk/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeRecorder struct {
	bytes.Buffer
	closed   bool
	closeErr error
}

func (w *closeRecorder) Close() error {
	w.closed = true
	return w.closeErr
}

func TestEncodeAndClose(t *testing.T) {
	events := []models.Event{
		{ID: "a", Title: "Meetup", Date: "2026-05-05"},
		{ID: "b", Title: "Someday", Date: "later"},
	}

	w := &closeRecorder{}
	skipped, err := encodeAndClose(w, events)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	assert.True(t, w.closed)
	assert.Contains(t, w.String(), "SUMMARY:Meetup")

	failing := &closeRecorder{closeErr: errors.New("no space left on device")}
	_, err = encodeAndClose(failing, events)
	assert.ErrorContains(t, err, "no space left on device")
	assert.True(t, failing.closed)
}
