package render

import (
	"bytes"
	"eventdesk/internal/models"
	"eventdesk/internal/view"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var records = []models.Event{
	{ID: "a", Title: "Music Festival", Date: "2026-04-10", Category: "Entertainment", Description: "Outdoor live music festival."},
	{ID: "b", Title: "AI Conference 2026", Date: "2026-07-18", Category: "Conference"},
}

func TestList(t *testing.T) {
	for _, dark := range []bool{false, true} {
		var buf bytes.Buffer
		New(&buf, dark).List(view.Project(records, view.Query{}), "list")

		out := buf.String()
		assert.Contains(t, out, "Events: 2")
		assert.Contains(t, out, "Last action: list")
		assert.Contains(t, out, "Outdoor live music festival.")
		assert.Less(t, strings.Index(out, "AI Conference 2026"), strings.Index(out, "Music Festival"), "descending by date")
	}
}

func TestList_EmptyStates(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).List(view.Project(nil, view.Query{}), "")
	assert.Contains(t, buf.String(), "No events yet.")
	assert.NotContains(t, buf.String(), "Last action")

	buf.Reset()
	New(&buf, false).List(view.Project(records, view.Query{Search: "zzz"}), "list")
	assert.Contains(t, buf.String(), "No events match your search/filter.")
	assert.Contains(t, buf.String(), "Events: 2")
}

func TestNotice(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Notice("Added %d events", 4)
	assert.Contains(t, buf.String(), "Added 4 events")
}
